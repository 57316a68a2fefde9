// Package progress draws playback progress: a bar and, below it, the
// elapsed and total times.
package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/drake/minisong/ui/tui/layout"
	"github.com/drake/minisong/ui/tui/surface"
	"github.com/drake/minisong/ui/tui/widget"
)

// Kind is the widget kind of Progress.
const Kind widget.Kind = "progress"

const (
	filledGlyph = "—"
	emptyGlyph  = "·"
	playGlyph   = "▶"
	pauseGlyph  = "⏸"
)

// Progress is the widget data for a progress bar.
type Progress struct {
	Elapsed time.Duration
	Total   time.Duration
	Paused  bool
	// Times enables the second row with the state glyph and both times.
	Times bool

	Filled surface.Style
	Empty  surface.Style
	Time   surface.Style
	State  surface.Style
}

// Kind implements widget.Widget.
func (Progress) Kind() widget.Kind { return Kind }

// Ratio returns Elapsed/Total clamped to [0, 1]. An unknown total is 0.
func (p Progress) Ratio() float64 {
	if p.Total <= 0 {
		return 0
	}
	r := float64(p.Elapsed) / float64(p.Total)
	return min(max(r, 0), 1)
}

// Register adds the progress draw operation.
func Register(reg *widget.Registry) error {
	return widget.Register(reg, Kind, draw)
}

func draw(ctx *widget.Context, p Progress) {
	ctx.Draw(func(c *surface.Canvas, area layout.Rect) {
		filled := int(p.Ratio() * float64(area.Width))
		c.SetString(area.X, area.Y, strings.Repeat(filledGlyph, filled), p.Filled)
		c.SetString(area.X+filled, area.Y, strings.Repeat(emptyGlyph, area.Width-filled), p.Empty)

		if !p.Times || area.Height < 2 {
			return
		}
		y := area.Y + 1
		glyph := playGlyph
		if p.Paused {
			glyph = pauseGlyph
		}
		n := c.SetString(area.X, y, glyph, p.State)
		c.SetString(area.X+n+1, y, FormatDuration(p.Elapsed), p.Time)

		total := FormatDuration(p.Total)
		c.SetString(area.Right()-ansi.StringWidth(total), y, total, p.Time)
	})
}

// FormatDuration renders d as mm:ss, or hh:mm:ss from one hour up.
// Negative durations render as zero.
func FormatDuration(d time.Duration) string {
	secs := int(max(d, 0) / time.Second)
	h, m, s := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
