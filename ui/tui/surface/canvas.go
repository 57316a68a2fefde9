package surface

import (
	"log/slog"

	"github.com/charmbracelet/x/ansi"

	"github.com/drake/minisong/ui/tui/layout"
)

// Canvas is a call-scoped, clipped view of a Buffer. It is handed to one
// draw operation and released when that operation returns; after Release
// every method is a no-op, so a canvas kept past its call cannot touch the
// frame.
type Canvas struct {
	buf      *Buffer
	clip     layout.Rect
	logger   *slog.Logger
	released bool
	warned   bool
}

// Canvas returns a view of b that only writes inside clip.
func (b *Buffer) Canvas(clip layout.Rect) *Canvas {
	return &Canvas{buf: b, clip: clip.Intersect(b.area)}
}

// WithLogger sets the logger that reports use after release.
func (c *Canvas) WithLogger(l *slog.Logger) *Canvas {
	c.logger = l
	return c
}

// Area returns the clip rect, in buffer coordinates.
func (c *Canvas) Area() layout.Rect { return c.clip }

// Release detaches the canvas from its buffer.
func (c *Canvas) Release() {
	c.released = true
	c.buf = nil
}

// Released reports whether the canvas has been released.
func (c *Canvas) Released() bool { return c.released }

func (c *Canvas) usable() bool {
	if !c.released {
		return true
	}
	if !c.warned {
		c.warned = true
		l := c.logger
		if l == nil {
			l = slog.Default()
		}
		l.Warn("canvas used after its draw call returned", "clip", c.clip.String())
	}
	return false
}

// SetString writes s at (x, y), clipped, and returns the columns written.
func (c *Canvas) SetString(x, y int, s string, st Style) int {
	if !c.usable() {
		return 0
	}
	return c.buf.setString(x, y, ansi.Strip(s), st, c.clip)
}

// SetCell writes a single grapheme at (x, y).
func (c *Canvas) SetCell(x, y int, content string, st Style) {
	if !c.usable() || !c.clip.Contains(x, y) {
		return
	}
	c.buf.setString(x, y, content, st, layout.Rect{X: x, Y: y, Width: c.clip.Right() - x, Height: 1})
}

// Fill paints every cell of r with content.
func (c *Canvas) Fill(r layout.Rect, content string, st Style) {
	if !c.usable() {
		return
	}
	r = r.Intersect(c.clip)
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			c.buf.set(x, y, Cell{Content: content, Width: 1, Style: st})
		}
	}
}

// Restyle layers st over the existing style of every cell in r.
func (c *Canvas) Restyle(r layout.Rect, st Style) {
	if !c.usable() {
		return
	}
	r = r.Intersect(c.clip)
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			i := y*c.buf.area.Width + x
			c.buf.cells[i].Style = c.buf.cells[i].Style.Patch(st)
		}
	}
}
