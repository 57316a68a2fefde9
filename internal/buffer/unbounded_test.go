package buffer

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestUnboundedKeepsOrder(t *testing.T) {
	in, out := Unbounded[int](4, 1000, nil)
	for i := 0; i < 100; i++ {
		in <- i
	}
	close(in)

	i := 0
	for v := range out {
		if v != i {
			t.Fatalf("item %d: got %d", i, v)
		}
		i++
	}
	if i != 100 {
		t.Fatalf("want 100 items, got %d", i)
	}
}

func TestUnboundedDropsOldestAtLimit(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	// Nobody reads until the input is closed, so the queue fills up.
	// The output channel itself holds up to 10 items before the queue.
	in, out := Unbounded[int](4, 5, logger)
	for i := 0; i < 30; i++ {
		in <- i
	}
	close(in)

	var got []int
	for v := range out {
		got = append(got, v)
	}
	if len(got) >= 30 {
		t.Fatalf("expected drops, got all %d items", len(got))
	}
	if last := got[len(got)-1]; last != 29 {
		t.Errorf("newest item must survive, last=%d", last)
	}
	if !strings.Contains(logs.String(), "evicting oldest event") {
		t.Errorf("drop should be logged, got %q", logs.String())
	}
}
