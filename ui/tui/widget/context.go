package widget

import (
	"log/slog"

	"github.com/drake/minisong/ui/tui/layout"
	"github.com/drake/minisong/ui/tui/surface"
)

// Context is handed to a draw operation for exactly one call. It carries
// the node's handle, data, style and allotted rect, and reaches the frame
// buffer only through Draw and DrawSized. The renderer releases it when the
// operation returns; a released Context draws nothing.
type Context struct {
	entity Entity
	widget Widget
	style  Style
	rect   layout.Rect

	buf      *surface.Buffer
	logger   *slog.Logger
	released bool
}

// Entity returns the node being drawn.
func (c *Context) Entity() Entity { return c.entity }

// Widget returns the node's data.
func (c *Context) Widget() Widget { return c.widget }

// Style returns the node's resolved style.
func (c *Context) Style() Style { return c.style }

// Rect returns the rect the parent's layout allotted to this node.
func (c *Context) Rect() layout.Rect { return c.rect }

// Draw invokes op with the node's full rect. The canvas is clipped to that
// rect and released when op returns.
func (c *Context) Draw(op func(canvas *surface.Canvas, area layout.Rect)) {
	c.drawIn(c.rect, op)
}

// DrawSized aligns a widget of the given intrinsic size inside the node's
// rect, using the style's alignments, and invokes op with the sub-rect.
func (c *Context) DrawSized(size layout.Size, op func(canvas *surface.Canvas, area layout.Rect)) {
	area := layout.Aligned(c.rect, size, c.style.AlignHorizontal, c.style.AlignVertical)
	c.drawIn(area, op)
}

func (c *Context) drawIn(area layout.Rect, op func(*surface.Canvas, layout.Rect)) {
	if c.released {
		c.logger.Warn("draw context used after its draw call returned", "entity", c.entity.String())
		return
	}
	if area.Empty() {
		return
	}
	canvas := c.buf.Canvas(area).WithLogger(c.logger)
	defer canvas.Release()
	op(canvas, area)
}

func (c *Context) release() {
	c.released = true
	c.buf = nil
}
