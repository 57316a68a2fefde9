package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/minisong/event"
)

// KeyMap binds keys to player actions.
type KeyMap struct {
	Quit         key.Binding
	TogglePause  key.Binding
	Next         key.Binding
	Previous     key.Binding
	SeekForward  key.Binding
	SeekBackward key.Binding
	VolumeUp     key.Binding
	VolumeDown   key.Binding
	Repeat       key.Binding
	Random       key.Binding
	Single       key.Binding
	Consume      key.Binding
	Help         key.Binding
	Back         key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		TogglePause:  key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "play/pause")),
		Next:         key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "next")),
		Previous:     key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "previous")),
		SeekForward:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "seek +5s")),
		SeekBackward: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "seek -5s")),
		VolumeUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		VolumeDown:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		Repeat:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
		Random:       key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "random")),
		Single:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "single")),
		Consume:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "consume")),
		Help:         key.NewBinding(key.WithKeys("?", "h"), key.WithHelp("?", "help")),
		Back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

// Action maps a key press to the action it is bound to.
func (k KeyMap) Action(msg tea.KeyMsg) event.Action {
	for _, b := range []struct {
		binding key.Binding
		action  event.Action
	}{
		{k.Quit, event.ActionQuit},
		{k.TogglePause, event.ActionTogglePause},
		{k.Next, event.ActionNext},
		{k.Previous, event.ActionPrevious},
		{k.SeekForward, event.ActionSeekForward},
		{k.SeekBackward, event.ActionSeekBackward},
		{k.VolumeUp, event.ActionVolumeUp},
		{k.VolumeDown, event.ActionVolumeDown},
		{k.Repeat, event.ActionToggleRepeat},
		{k.Random, event.ActionToggleRandom},
		{k.Single, event.ActionToggleSingle},
		{k.Consume, event.ActionToggleConsume},
		{k.Help, event.ActionHelp},
		{k.Back, event.ActionBack},
	} {
		if key.Matches(msg, b.binding) {
			return b.action
		}
	}
	return event.ActionNone
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.TogglePause, k.Previous, k.Next, k.Help, k.Quit}
}

// FullHelp returns every binding, for the help screen.
func (k KeyMap) FullHelp() []key.Binding {
	return []key.Binding{
		k.TogglePause, k.Next, k.Previous, k.SeekForward, k.SeekBackward,
		k.VolumeUp, k.VolumeDown, k.Repeat, k.Random, k.Single, k.Consume,
		k.Help, k.Back, k.Quit,
	}
}
