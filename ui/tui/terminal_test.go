package tui

import (
	"errors"
	"reflect"
	"testing"

	"github.com/drake/minisong/ui/tui/surface"
	"github.com/drake/minisong/ui/tui/widget"
)

// stepLog records step calls in order.
type stepLog struct {
	calls []string
}

func (l *stepLog) step(name string, failEnter bool) Step {
	return Step{
		Name: name,
		Enter: func() error {
			l.calls = append(l.calls, "enter "+name)
			if failEnter {
				return errors.New("boom")
			}
			return nil
		},
		Leave: func() error {
			l.calls = append(l.calls, "leave "+name)
			return nil
		},
	}
}

func TestStepModeEntersInOrderAndLeavesInReverse(t *testing.T) {
	var log stepLog
	m := NewStepMode(nil, log.step("raw", false), log.step("alt", false), log.step("cursor", false))

	if err := m.Enter(); err != nil {
		t.Fatalf("enter: %v", err)
	}
	if err := m.Leave(); err != nil {
		t.Fatalf("leave: %v", err)
	}
	want := []string{"enter raw", "enter alt", "enter cursor", "leave cursor", "leave alt", "leave raw"}
	if !reflect.DeepEqual(log.calls, want) {
		t.Errorf("want %v, got %v", want, log.calls)
	}
}

func TestStepModeRollsBackOnFailure(t *testing.T) {
	var log stepLog
	m := NewStepMode(nil, log.step("raw", false), log.step("alt", false), log.step("kitty", true), log.step("never", false))

	err := m.Enter()
	if err == nil {
		t.Fatal("expected enter to fail")
	}
	if got := err.Error(); got != "enter kitty: boom" {
		t.Errorf("error: got %q", got)
	}
	want := []string{"enter raw", "enter alt", "enter kitty", "leave alt", "leave raw"}
	if !reflect.DeepEqual(log.calls, want) {
		t.Errorf("want %v, got %v", want, log.calls)
	}

	// Nothing is left entered, so a later Leave is a no-op.
	log.calls = nil
	if err := m.Leave(); err != nil || len(log.calls) != 0 {
		t.Errorf("leave after rollback: err=%v calls=%v", err, log.calls)
	}
}

func TestLeaveJoinsErrors(t *testing.T) {
	fail := func(name string) Step {
		return Step{Name: name, Leave: func() error { return errors.New(name + " failed") }}
	}
	m := NewStepMode(nil, fail("a"), fail("b"))
	if err := m.Enter(); err != nil {
		t.Fatal(err)
	}
	err := m.Leave()
	if err == nil || err.Error() != "leave b: b failed\nleave a: a failed" {
		t.Fatalf("got %v", err)
	}
}

// fakeMode counts Enter and Leave calls.
type fakeMode struct {
	enterErr      error
	enters, leave int
}

func (m *fakeMode) Enter() error { m.enters++; return m.enterErr }
func (m *fakeMode) Leave() error { m.leave++; return nil }

// fakeScreen records commits.
type fakeScreen struct {
	w, h      int
	commitErr error
	commits   []string
}

func (s *fakeScreen) Size() (int, int) { return s.w, s.h }
func (s *fakeScreen) Commit(buf *surface.Buffer) error {
	if s.commitErr != nil {
		return s.commitErr
	}
	s.commits = append(s.commits, buf.String())
	return nil
}

func TestNewTerminalFailsWhenModeFails(t *testing.T) {
	mode := &fakeMode{enterErr: errors.New("not a tty")}
	term, err := NewTerminal(mode, &fakeScreen{}, nil)
	if err == nil || term != nil {
		t.Fatalf("want error and no terminal, got %v %v", term, err)
	}
}

func TestDrawCommitsSkipsAndDrops(t *testing.T) {
	mode := &fakeMode{}
	screen := &fakeScreen{w: 3, h: 1}
	term, err := NewTerminal(mode, screen, nil)
	if err != nil {
		t.Fatal(err)
	}

	err = term.Draw(func(f *Frame) error {
		if f.Area().Width != 3 || f.Area().Height != 1 {
			t.Errorf("frame area %v", f.Area())
		}
		f.Buffer().Canvas(f.Area()).SetString(0, 0, "abc", surface.Style{})
		return nil
	})
	if err != nil {
		t.Fatalf("draw: %v", err)
	}

	// A failed callback leaves the previous frame committed.
	if err := term.Draw(func(*Frame) error { return widget.ErrNoRoot }); !errors.Is(err, widget.ErrNoRoot) {
		t.Fatalf("want ErrNoRoot, got %v", err)
	}

	screen.commitErr = errors.New("write failed")
	if err := term.Draw(func(*Frame) error { return nil }); err != nil {
		t.Fatalf("commit failure should not be returned: %v", err)
	}

	if !reflect.DeepEqual(screen.commits, []string{"abc"}) {
		t.Errorf("commits: %v", screen.commits)
	}
	if got, want := term.Stats(), (FrameStats{Frames: 1, Dropped: 1, Skipped: 1}); got != want {
		t.Errorf("stats: want %+v, got %+v", want, got)
	}
}

func TestCloseLeavesOnce(t *testing.T) {
	mode := &fakeMode{}
	term, err := NewTerminal(mode, &fakeScreen{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	term.Close()
	term.Close()
	if mode.leave != 1 {
		t.Errorf("leave calls: want 1, got %d", mode.leave)
	}
	if err := term.Draw(func(*Frame) error { return nil }); !errors.Is(err, ErrTerminalClosed) {
		t.Errorf("draw after close: got %v", err)
	}
}

func TestViewScreenRejectsStaleFrame(t *testing.T) {
	s := newViewScreen(2, 1)
	buf := surface.NewBuffer(2, 1)
	buf.Canvas(buf.Area()).SetString(0, 0, "ok", surface.Style{})
	if err := s.Commit(buf); err != nil {
		t.Fatal(err)
	}
	if s.View() != "ok" {
		t.Errorf("view: %q", s.View())
	}

	s.Resize(4, 1)
	if err := s.Commit(buf); err == nil {
		t.Error("mismatched frame should be rejected")
	}
	if s.View() != "ok" {
		t.Errorf("rejected frame should not replace the view: %q", s.View())
	}
}
