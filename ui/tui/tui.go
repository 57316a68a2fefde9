package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/minisong/event"
	"github.com/drake/minisong/ui/tui/widget"
)

// Options configures a BubbleTeaUI.
type Options struct {
	Mouse               bool
	KeyboardEnhancement bool
	Keys                KeyMap
	Logger              *slog.Logger
}

// BubbleTeaUI runs the widget tree inside a Bubble Tea program.
// The session changes what is shown by queueing tree commands and reads
// user actions from Events.
type BubbleTeaUI struct {
	opts     Options
	registry *widget.Registry
	logger   *slog.Logger

	tree     *widget.Tree
	commands widget.Commands

	// Outbound user actions. Session reads from this channel in its event loop.
	outbound chan event.Event

	mu      sync.Mutex
	program *tea.Program
	term    *Terminal

	// Shutdown coordination
	done     chan struct{}
	doneOnce sync.Once
}

// NewBubbleTeaUI creates a UI drawing with the operations in registry.
func NewBubbleTeaUI(registry *widget.Registry, opts Options) *BubbleTeaUI {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.Keys.Quit.Keys()) == 0 {
		opts.Keys = DefaultKeyMap()
	}
	return &BubbleTeaUI{
		opts:     opts,
		registry: registry,
		logger:   opts.Logger,
		tree:     widget.NewTree(),
		outbound: make(chan event.Event, 256),
		done:     make(chan struct{}),
	}
}

// Queue schedules tree changes for the next tick. Commands queued together
// are applied before the same frame. Safe to call from any goroutine.
func (b *BubbleTeaUI) Queue(cmds ...widget.Command) {
	b.commands.Queue(cmds...)
}

// Events returns user actions decoded from input.
func (b *BubbleTeaUI) Events() <-chan event.Event {
	return b.outbound
}

// Keys returns the active key bindings.
func (b *BubbleTeaUI) Keys() KeyMap { return b.opts.Keys }

// Run sets up the terminal and blocks until the program exits or ctx is
// cancelled. The terminal is restored on every path.
func (b *BubbleTeaUI) Run(ctx context.Context) (err error) {
	select {
	case <-b.done:
		return nil
	default:
	}
	defer b.finish()

	mode := TTYMode(os.Stdin, os.Stdout, TTYOptions{
		KeyboardEnhancement: b.opts.KeyboardEnhancement,
		Logger:              b.logger,
	})
	screen := newViewScreen(ttySize(os.Stdout))
	term, err := NewTerminal(mode, screen, b.logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := term.Close(); cerr != nil {
			b.logger.Error("terminal restore failed", "error", cerr)
			if err == nil {
				err = fmt.Errorf("restore terminal: %w", cerr)
			}
		}
	}()

	renderer := widget.NewRenderer(b.registry, b.logger)
	model := NewModel(b.tree, &b.commands, renderer, term, screen, b.opts.Keys, b.outbound, b.logger)

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if b.opts.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	b.mu.Lock()
	b.program = tea.NewProgram(model, opts...)
	b.term = term
	program := b.program
	b.mu.Unlock()

	select {
	case <-b.done:
		return nil
	default:
	}
	if _, err := program.Run(); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func (b *BubbleTeaUI) finish() {
	b.doneOnce.Do(func() {
		close(b.done)
	})
}

// Done returns a channel that closes when the UI exits.
func (b *BubbleTeaUI) Done() <-chan struct{} {
	return b.done
}

// Quit signals the TUI to exit.
func (b *BubbleTeaUI) Quit() {
	b.mu.Lock()
	program := b.program
	b.mu.Unlock()
	if program != nil {
		program.Quit()
		return
	}
	b.finish()
}

// FrameStats returns the frame counters, or zeros before Run.
func (b *BubbleTeaUI) FrameStats() FrameStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.term == nil {
		return FrameStats{}
	}
	return b.term.Stats()
}

// PendingCommands returns the number of queued tree commands.
func (b *BubbleTeaUI) PendingCommands() int {
	return b.commands.Len()
}
