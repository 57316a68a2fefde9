package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/drake/minisong/ui/tui/layout"
	"github.com/drake/minisong/ui/tui/surface"
	"github.com/drake/minisong/ui/tui/widget"
)

// ErrTerminalClosed is returned by Draw after Close.
var ErrTerminalClosed = errors.New("terminal closed")

// Mode switches the terminal into the state frames are drawn in and back.
type Mode interface {
	Enter() error
	Leave() error
}

// Step is one reversible terminal change.
type Step struct {
	Name  string
	Enter func() error
	Leave func() error
}

// StepMode applies steps in order and undoes them in reverse.
type StepMode struct {
	steps   []Step
	entered int
	logger  *slog.Logger
}

// NewStepMode builds a mode from steps.
func NewStepMode(logger *slog.Logger, steps ...Step) *StepMode {
	if logger == nil {
		logger = slog.Default()
	}
	return &StepMode{steps: steps, logger: logger}
}

// Enter runs every step. If one fails, the steps before it are left again
// in reverse order and the error is returned.
func (m *StepMode) Enter() error {
	for i, s := range m.steps {
		if s.Enter == nil {
			m.entered = i + 1
			continue
		}
		if err := s.Enter(); err != nil {
			m.entered = i
			if lerr := m.Leave(); lerr != nil {
				m.logger.Warn("terminal rollback incomplete", "error", lerr)
			}
			return fmt.Errorf("enter %s: %w", s.Name, err)
		}
		m.entered = i + 1
	}
	return nil
}

// Leave undoes the entered steps, last first. Every step is attempted;
// failures are joined.
func (m *StepMode) Leave() error {
	var errs []error
	for i := m.entered - 1; i >= 0; i-- {
		s := m.steps[i]
		if s.Leave == nil {
			continue
		}
		if err := s.Leave(); err != nil {
			errs = append(errs, fmt.Errorf("leave %s: %w", s.Name, err))
		}
	}
	m.entered = 0
	return errors.Join(errs...)
}

// Screen receives committed frames.
type Screen interface {
	Size() (width, height int)
	Commit(buf *surface.Buffer) error
}

// FrameStats counts frames handled by a Terminal.
type FrameStats struct {
	Frames  uint64 // committed
	Dropped uint64 // failed to commit
	Skipped uint64 // draw callback returned an error
}

// Frame is one frame being drawn. It is only valid inside the Draw
// callback that received it.
type Frame struct {
	buf *surface.Buffer
}

// Area returns the full frame rect.
func (f *Frame) Area() layout.Rect { return f.buf.Area() }

// Buffer returns the frame's cell buffer.
func (f *Frame) Buffer() *surface.Buffer { return f.buf }

// Render draws tree into the frame.
func (f *Frame) Render(r *widget.Renderer, tree *widget.Tree) error {
	return r.Render(f.buf, tree)
}

// Terminal owns the terminal mode for its lifetime and turns draw
// callbacks into committed frames. Draw must only be called from one
// goroutine.
type Terminal struct {
	mode   Mode
	screen Screen
	logger *slog.Logger

	closeOnce sync.Once
	closed    atomic.Bool

	frames  atomic.Uint64
	dropped atomic.Uint64
	skipped atomic.Uint64
}

// NewTerminal enters mode and returns a Terminal drawing to screen. If the
// mode cannot be entered no Terminal is created.
func NewTerminal(mode Mode, screen Screen, logger *slog.Logger) (*Terminal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := mode.Enter(); err != nil {
		return nil, fmt.Errorf("terminal setup: %w", err)
	}
	return &Terminal{mode: mode, screen: screen, logger: logger}, nil
}

// Draw renders one frame. A fresh buffer sized to the screen is handed to
// fn; when fn succeeds the buffer is committed. An error from fn leaves the
// previous frame on screen and is returned. A commit failure is logged and
// counted, not returned.
func (t *Terminal) Draw(fn func(*Frame) error) error {
	if t.closed.Load() {
		return ErrTerminalClosed
	}
	w, h := t.screen.Size()
	frame := &Frame{buf: surface.NewBuffer(w, h)}
	if err := fn(frame); err != nil {
		t.skipped.Add(1)
		return err
	}
	if err := t.screen.Commit(frame.buf); err != nil {
		t.dropped.Add(1)
		t.logger.Error("frame commit failed", "error", err)
		return nil
	}
	t.frames.Add(1)
	return nil
}

// Close restores the terminal. Only the first call has an effect.
func (t *Terminal) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		err = t.mode.Leave()
	})
	return err
}

// Stats returns frame counters. Safe to call from any goroutine.
func (t *Terminal) Stats() FrameStats {
	return FrameStats{
		Frames:  t.frames.Load(),
		Dropped: t.dropped.Load(),
		Skipped: t.skipped.Load(),
	}
}
