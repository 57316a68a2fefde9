// Package block draws an optional border around a region. A block without
// borders is a plain layout container.
package block

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/drake/minisong/ui/tui/layout"
	"github.com/drake/minisong/ui/tui/surface"
	"github.com/drake/minisong/ui/tui/widget"
)

// Kind is the widget kind of Block.
const Kind widget.Kind = "block"

// Borders selects which sides of a block are drawn.
type Borders uint8

const (
	Top Borders = 1 << iota
	Right
	Bottom
	Left

	None Borders = 0
	All          = Top | Right | Bottom | Left
)

// Block is the widget data for a bordered region.
type Block struct {
	Borders Borders
	// Border is the character set. The zero value uses lipgloss.NormalBorder.
	Border     lipgloss.Border
	Style      surface.Style
	Title      string
	TitleStyle surface.Style
}

// Kind implements widget.Widget.
func (Block) Kind() widget.Kind { return Kind }

// New returns a container block with no borders.
func New() Block { return Block{} }

// Rounded returns a block with rounded borders on every side.
func Rounded(title string) Block {
	return Block{Borders: All, Border: lipgloss.RoundedBorder(), Title: title}
}

// Register adds the block draw operation.
func Register(reg *widget.Registry) error {
	return widget.Register(reg, Kind, draw)
}

func draw(ctx *widget.Context, b Block) {
	if b.Borders == None {
		return
	}
	ctx.Draw(func(c *surface.Canvas, area layout.Rect) {
		paint(c, area, b)
	})
}

// paint draws b's borders and title into area.
func paint(c *surface.Canvas, area layout.Rect, b Block) {
	set := b.Border
	if set == (lipgloss.Border{}) {
		set = lipgloss.NormalBorder()
	}
	x0, y0 := area.X, area.Y
	x1, y1 := area.Right()-1, area.Bottom()-1

	if b.Borders&Top != 0 {
		for x := x0; x <= x1; x++ {
			c.SetCell(x, y0, set.Top, b.Style)
		}
	}
	if b.Borders&Bottom != 0 {
		for x := x0; x <= x1; x++ {
			c.SetCell(x, y1, set.Bottom, b.Style)
		}
	}
	if b.Borders&Left != 0 {
		for y := y0; y <= y1; y++ {
			c.SetCell(x0, y, set.Left, b.Style)
		}
	}
	if b.Borders&Right != 0 {
		for y := y0; y <= y1; y++ {
			c.SetCell(x1, y, set.Right, b.Style)
		}
	}

	corner := func(x, y int, sides Borders, glyph string) {
		if b.Borders&sides == sides {
			c.SetCell(x, y, glyph, b.Style)
		}
	}
	corner(x0, y0, Top|Left, set.TopLeft)
	corner(x1, y0, Top|Right, set.TopRight)
	corner(x0, y1, Bottom|Left, set.BottomLeft)
	corner(x1, y1, Bottom|Right, set.BottomRight)

	if b.Title != "" && b.Borders&Top != 0 && area.Width > 4 {
		title := ansi.Truncate(" "+b.Title+" ", area.Width-4, "…")
		c.SetString(x0+2, y0, title, b.Style.Patch(b.TitleStyle))
	}
}
