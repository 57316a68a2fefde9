package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/minisong/event"
	"github.com/drake/minisong/ui/tui/components/label"
	"github.com/drake/minisong/ui/tui/surface"
	"github.com/drake/minisong/ui/tui/widget"
)

func newTestModel(t *testing.T) (Model, *widget.Commands, chan event.Event) {
	t.Helper()
	reg := widget.NewRegistry(nil)
	if err := label.Register(reg); err != nil {
		t.Fatal(err)
	}
	screen := newViewScreen(0, 0)
	term, err := NewTerminal(&fakeMode{}, screen, nil)
	if err != nil {
		t.Fatal(err)
	}
	commands := &widget.Commands{}
	out := make(chan event.Event, 8)
	m := NewModel(widget.NewTree(), commands, widget.NewRenderer(reg, nil), term, screen, DefaultKeyMap(), out, nil)
	return m, commands, out
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestInitOnlyStartsTick(t *testing.T) {
	m, _, _ := newTestModel(t)
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init should start the tick")
	}
	msg := cmd()
	if _, ok := msg.(tickMsg); !ok {
		t.Fatalf("Init should only schedule a tick, got %T", msg)
	}
}

func TestTickAppliesQueuedCommands(t *testing.T) {
	m, commands, _ := newTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 5, Height: 1})

	commands.Queue(func(tree *widget.Tree) {
		tree.Spawn(label.Text("hello", surface.Style{}), widget.NewStyle())
	})
	if got := m.View(); got != "" {
		t.Fatalf("nothing should show before the tick, got %q", got)
	}

	m = update(t, m, tickMsg(time.Now()))
	if got := m.View(); got != "hello" {
		t.Fatalf("got %q", got)
	}

	// Switching screens in one batch never shows an empty frame.
	commands.Queue(widget.DespawnAll, func(tree *widget.Tree) {
		tree.Spawn(label.Text("bye", surface.Style{}), widget.NewStyle())
	})
	m = update(t, m, tickMsg(time.Now()))
	if got := m.View(); got != "bye  " {
		t.Fatalf("got %q", got)
	}
	if s := m.term.Stats(); s.Frames != 2 || s.Skipped != 1 {
		t.Errorf("stats: %+v", s)
	}
}

func TestKeysBecomeActions(t *testing.T) {
	m, _, out := newTestModel(t)

	tests := []struct {
		msg  tea.KeyMsg
		want event.Action
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")}, event.ActionTogglePause},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, event.ActionTogglePause},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(">")}, event.ActionNext},
		{tea.KeyMsg{Type: tea.KeyLeft}, event.ActionSeekBackward},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, event.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyEsc}, event.ActionBack},
	}
	for _, tt := range tests {
		m = update(t, m, tt.msg)
		select {
		case ev := <-out:
			if ev.Type != event.UserAction || ev.Action != tt.want {
				t.Errorf("%s: want %v, got %+v", tt.msg, tt.want, ev)
			}
		default:
			t.Errorf("%s: no action sent", tt.msg)
		}
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if len(out) != 0 {
		t.Errorf("unbound key should send nothing, got %+v", <-out)
	}
}

func TestWheelChangesVolume(t *testing.T) {
	m, _, out := newTestModel(t)

	m = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	m = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	m = update(t, m, tea.MouseMsg{Action: tea.MouseActionMotion, Button: tea.MouseButtonWheelUp})

	if len(out) != 2 {
		t.Fatalf("want 2 actions, got %d", len(out))
	}
	if ev := <-out; ev.Action != event.ActionVolumeUp {
		t.Errorf("wheel up: got %v", ev.Action)
	}
	if ev := <-out; ev.Action != event.ActionVolumeDown {
		t.Errorf("wheel down: got %v", ev.Action)
	}
}

func TestFullOutboundDropsAction(t *testing.T) {
	m, _, out := newTestModel(t)
	for i := 0; i < cap(out)+2; i++ {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	}
	if len(out) != cap(out) {
		t.Errorf("outbound should be full, len=%d", len(out))
	}
}
