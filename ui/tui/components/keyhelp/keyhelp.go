// Package keyhelp lists key bindings, either as a two-column table or as
// a single row of hints.
package keyhelp

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/x/ansi"

	"github.com/drake/minisong/ui/tui/layout"
	"github.com/drake/minisong/ui/tui/surface"
	"github.com/drake/minisong/ui/tui/widget"
)

// Kind is the widget kind of KeyHelp.
const Kind widget.Kind = "keyhelp"

const (
	columnGap = 2
	hintGap   = 1
)

// KeyHelp is the widget data for a list of bindings.
type KeyHelp struct {
	Bindings []key.Binding
	// Inline draws the bindings as one row of hints.
	Inline    bool
	KeyStyle  surface.Style
	DescStyle surface.Style
}

// Kind implements widget.Widget.
func (KeyHelp) Kind() widget.Kind { return Kind }

// Table returns a two-column help table.
func Table(bindings ...key.Binding) KeyHelp { return KeyHelp{Bindings: bindings} }

// Hints returns a single-row help bar.
func Hints(bindings ...key.Binding) KeyHelp { return KeyHelp{Bindings: bindings, Inline: true} }

func (k KeyHelp) entries() []key.Help {
	out := make([]key.Help, 0, len(k.Bindings))
	for _, b := range k.Bindings {
		if !b.Enabled() {
			continue
		}
		out = append(out, b.Help())
	}
	return out
}

func (k KeyHelp) keyWidth(entries []key.Help) int {
	w := 0
	for _, e := range entries {
		w = max(w, ansi.StringWidth(e.Key))
	}
	return w
}

// Size returns the cells needed to show every enabled binding.
func (k KeyHelp) Size() layout.Size {
	entries := k.entries()
	if len(entries) == 0 {
		return layout.Size{}
	}
	if k.Inline {
		w := 0
		for i, e := range entries {
			if i > 0 {
				w += columnGap
			}
			w += hintWidth(e)
		}
		return layout.Size{Width: w, Height: 1}
	}
	descW := 0
	for _, e := range entries {
		descW = max(descW, ansi.StringWidth(e.Desc))
	}
	return layout.Size{Width: k.keyWidth(entries) + columnGap + descW, Height: len(entries)}
}

// hintWidth is " key " plus a gap and the description.
func hintWidth(e key.Help) int {
	return ansi.StringWidth(e.Key) + 2 + hintGap + ansi.StringWidth(e.Desc)
}

// Register adds the key help draw operation.
func Register(reg *widget.Registry) error {
	return widget.Register(reg, Kind, draw)
}

func draw(ctx *widget.Context, k KeyHelp) {
	entries := k.entries()
	ctx.DrawSized(k.Size(), func(c *surface.Canvas, area layout.Rect) {
		if k.Inline {
			x := area.X
			for _, e := range entries {
				if x+hintWidth(e) > area.Right() {
					return
				}
				x += c.SetString(x, area.Y, " "+e.Key+" ", k.KeyStyle)
				x += hintGap
				x += c.SetString(x, area.Y, e.Desc, k.DescStyle)
				x += columnGap
			}
			return
		}

		descX := area.X + k.keyWidth(entries) + columnGap
		for i, e := range entries {
			y := area.Y + i
			c.SetString(descX-columnGap-ansi.StringWidth(e.Key), y, e.Key, k.KeyStyle)
			c.SetString(descX, y, ansi.Truncate(e.Desc, max(area.Right()-descX, 0), "…"), k.DescStyle)
		}
	})
}
