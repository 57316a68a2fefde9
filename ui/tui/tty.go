package tui

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
)

// Cursor shape shown while the UI runs.
const steadyBar = 6

// TTYOptions selects the optional terminal steps.
type TTYOptions struct {
	// KeyboardEnhancement pushes kitty keyboard flags so modified keys are
	// reported unambiguously.
	KeyboardEnhancement bool
	Logger              *slog.Logger
}

// TTYMode returns the mode for a real terminal: raw input, alternate
// screen, steady bar cursor and, optionally, kitty keyboard flags. Raw
// mode is skipped when in is not a terminal.
func TTYMode(in *os.File, out io.Writer, opts TTYOptions) *StepMode {
	steps := []Step{}
	if in != nil && term.IsTerminal(in.Fd()) {
		steps = append(steps, rawStep(in.Fd()))
	}
	steps = append(steps,
		seqStep(out, "alternate screen", ansi.SetAltScreenSaveCursorMode, ansi.ResetAltScreenSaveCursorMode),
		seqStep(out, "cursor style", ansi.SetCursorStyle(steadyBar), ansi.SetCursorStyle(0)),
	)
	if opts.KeyboardEnhancement {
		steps = append(steps, seqStep(out, "keyboard enhancement",
			ansi.PushKittyKeyboard(ansi.KittyDisambiguateEscapeCodes),
			ansi.PopKittyKeyboard(1)))
	}
	return NewStepMode(opts.Logger, steps...)
}

func rawStep(fd uintptr) Step {
	var saved *term.State
	return Step{
		Name: "raw mode",
		Enter: func() error {
			st, err := term.MakeRaw(fd)
			if err != nil {
				return err
			}
			saved = st
			return nil
		},
		Leave: func() error {
			if saved == nil {
				return nil
			}
			return term.Restore(fd, saved)
		},
	}
}

func seqStep(out io.Writer, name, enter, leave string) Step {
	return Step{
		Name: name,
		Enter: func() error {
			_, err := io.WriteString(out, enter)
			return err
		},
		Leave: func() error {
			_, err := io.WriteString(out, leave)
			return err
		},
	}
}

// ttySize probes the size of f, or returns zero when f is not a terminal.
func ttySize(f *os.File) (int, int) {
	if f == nil || !term.IsTerminal(f.Fd()) {
		return 0, 0
	}
	w, h, err := term.GetSize(f.Fd())
	if err != nil {
		return 0, 0
	}
	return w, h
}
