package style

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/drake/minisong/ui/tui/surface"
)

// Styles holds the cell styles used across screens.
type Styles struct {
	// Track
	Title  surface.Style
	Album  surface.Style
	Artist surface.Style

	// Playback
	ProgressFilled surface.Style
	ProgressEmpty  surface.Style
	Time           surface.Style
	PlayState      surface.Style

	// Status bar
	StatusBar   surface.Style
	FlagOn      surface.Style
	FlagOff     surface.Style
	VolumeLevel surface.Style

	// Chrome
	Border   surface.Style
	Throbber surface.Style
	KeyHint  surface.Style
	KeyDesc  surface.Style

	// Misc
	Muted surface.Style
	Error surface.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Title:  surface.Style{Bold: true},
		Album:  surface.Style{Italic: true},
		Artist: surface.Style{Fg: lipgloss.Color("252")},

		ProgressFilled: surface.Style{Fg: lipgloss.Color("5")}, // Magenta
		ProgressEmpty:  surface.Style{Faint: true},
		Time:           surface.Style{Faint: true},
		PlayState:      surface.Style{Fg: lipgloss.Color("71")}, // Muted green

		StatusBar:   surface.Style{Fg: lipgloss.Color("252")},
		FlagOn:      surface.Style{Fg: lipgloss.Color("71")},
		FlagOff:     surface.Style{Fg: lipgloss.Color("240")},
		VolumeLevel: surface.Style{Fg: lipgloss.Color("179")}, // Muted yellow

		Border:   surface.Style{Fg: lipgloss.Color("240")},
		Throbber: surface.Style{Fg: lipgloss.Color("3")}, // Yellow
		KeyHint: surface.Style{
			Fg: lipgloss.Color("0"),
			Bg: lipgloss.Color("240"),
		},
		KeyDesc: surface.Style{Italic: true},

		Muted: surface.Style{Fg: lipgloss.Color("240"), Italic: true},
		Error: surface.Style{Fg: lipgloss.Color("196")},
	}
}
