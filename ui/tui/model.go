package tui

import (
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/minisong/event"
	"github.com/drake/minisong/ui/tui/widget"
)

// tickMsg drives command application and redraws.
type tickMsg time.Time

// doTick returns a command that sends a tickMsg after the given duration.
func doTick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the Bubble Tea model hosting the widget tree. The tree is only
// touched on the Bubble Tea goroutine; other goroutines change it through
// the command queue, which is applied on every tick.
type Model struct {
	tree     *widget.Tree
	commands *widget.Commands
	renderer *widget.Renderer
	term     *Terminal
	screen   *viewScreen
	keys     KeyMap
	outbound chan<- event.Event
	logger   *slog.Logger
}

// NewModel creates a model drawing tree through term onto screen.
func NewModel(tree *widget.Tree, commands *widget.Commands, renderer *widget.Renderer,
	term *Terminal, screen *viewScreen, keys KeyMap, outbound chan<- event.Event, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		tree:     tree,
		commands: commands,
		renderer: renderer,
		term:     term,
		screen:   screen,
		keys:     keys,
		outbound: outbound,
		logger:   logger,
	}
}

// Init implements tea.Model.
// The alternate screen is already active through StepMode and
// tea.WithAltScreen, so only the tick is started.
func (m Model) Init() tea.Cmd {
	return doTick()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		m.commands.Apply(m.tree)
		return m, doTick()

	case tea.KeyMsg:
		if action := m.keys.Action(msg); action != event.ActionNone {
			m.sendAction(action)
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.sendAction(event.ActionVolumeUp)
		case tea.MouseButtonWheelDown:
			m.sendAction(event.ActionVolumeDown)
		}
		return m, nil
	}
	return m, nil
}

// View implements tea.Model. It draws a new frame and returns the last
// committed one.
func (m Model) View() string {
	err := m.term.Draw(func(f *Frame) error {
		return f.Render(m.renderer, m.tree)
	})
	if err != nil && !errors.Is(err, widget.ErrNoRoot) && !errors.Is(err, widget.ErrMultipleRoots) {
		m.logger.Debug("frame not drawn", "error", err)
	}
	return m.screen.View()
}

func (m *Model) sendAction(a event.Action) {
	if m.outbound == nil {
		return
	}
	select {
	case m.outbound <- event.Event{Type: event.UserAction, Action: a}:
	default:
		m.logger.Warn("outbound queue full, dropping action", "action", a.String())
	}
}
