// Package throbber draws a spinner next to a short message.
package throbber

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/x/ansi"

	"github.com/drake/minisong/ui/tui/layout"
	"github.com/drake/minisong/ui/tui/surface"
	"github.com/drake/minisong/ui/tui/widget"
)

// Kind is the widget kind of Throbber.
const Kind widget.Kind = "throbber"

// now is swapped out in tests.
var now = time.Now

// Throbber is the widget data for an animated loading indicator.
type Throbber struct {
	Label   string
	Spinner spinner.Spinner
	Style   surface.Style
	Started time.Time
}

// Kind implements widget.Widget.
func (Throbber) Kind() widget.Kind { return Kind }

// New returns a throbber that starts animating now.
func New(label string, st surface.Style) Throbber {
	return Throbber{Label: label, Spinner: spinner.MiniDot, Style: st, Started: now()}
}

// Frame returns the spinner glyph for the current time. Frames advance at
// the spinner's FPS, counted from Started.
func (t Throbber) Frame() string {
	frames := t.Spinner.Frames
	if len(frames) == 0 {
		frames = spinner.MiniDot.Frames
	}
	fps := t.Spinner.FPS
	if fps <= 0 {
		fps = spinner.MiniDot.FPS
	}
	elapsed := now().Sub(t.Started)
	if elapsed < 0 {
		elapsed = 0
	}
	return frames[int(elapsed/fps)%len(frames)]
}

// Size is the label width plus room for the glyph, by one row.
func (t Throbber) Size() layout.Size {
	return layout.Size{Width: ansi.StringWidth(t.Label) + 3, Height: 1}
}

// Register adds the throbber draw operation.
func Register(reg *widget.Registry) error {
	return widget.Register(reg, Kind, draw)
}

func draw(ctx *widget.Context, t Throbber) {
	ctx.DrawSized(t.Size(), func(c *surface.Canvas, area layout.Rect) {
		n := c.SetString(area.X, area.Y, t.Frame(), t.Style)
		c.SetString(area.X+n+1, area.Y, t.Label, surface.Style{})
	})
}
