package throbber

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/drake/minisong/ui/tui/layout"
	"github.com/drake/minisong/ui/tui/surface"
	"github.com/drake/minisong/ui/tui/widget"
	"github.com/drake/minisong/ui/tui/widget/widgettest"
)

func fakeClock(t *testing.T, start time.Time) *time.Time {
	t.Helper()
	cur := start
	now = func() time.Time { return cur }
	t.Cleanup(func() { now = time.Now })
	return &cur
}

func TestFrameAdvancesWithTime(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := fakeClock(t, start)
	th := New("Loading..", surface.Style{})

	frames := spinner.MiniDot.Frames
	if got := th.Frame(); got != frames[0] {
		t.Fatalf("initial frame: want %q, got %q", frames[0], got)
	}

	*clock = start.Add(3 * spinner.MiniDot.FPS)
	if got := th.Frame(); got != frames[3] {
		t.Errorf("after 3 ticks: want %q, got %q", frames[3], got)
	}

	*clock = start.Add(time.Duration(len(frames)+1) * spinner.MiniDot.FPS)
	if got := th.Frame(); got != frames[1] {
		t.Errorf("frames should wrap: want %q, got %q", frames[1], got)
	}
}

func TestClockBeforeStartShowsFirstFrame(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := fakeClock(t, start)
	th := New("x", surface.Style{})

	*clock = start.Add(-time.Second)
	if got := th.Frame(); got != spinner.MiniDot.Frames[0] {
		t.Fatalf("got %q", got)
	}
}

func TestSize(t *testing.T) {
	th := Throbber{Label: "Loading player.."}
	if got, want := th.Size(), (layout.Size{Width: 19, Height: 1}); got != want {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestDrawCentered(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fakeClock(t, start)

	h := widgettest.New(t, Register)
	th := Throbber{Label: "wait", Spinner: spinner.Line, Started: start}
	buf := h.Draw(t, 11, 3, th, widget.Centered())

	if got := buf.Row(1); got != "  | wait   " {
		t.Fatalf("got %q", got)
	}
}
