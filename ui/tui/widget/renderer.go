package widget

import (
	"errors"
	"log/slog"
	"runtime/debug"

	"github.com/drake/minisong/ui/tui/layout"
	"github.com/drake/minisong/ui/tui/surface"
)

// RenderStats counts what the last Render call did.
type RenderStats struct {
	Drawn   int // nodes whose draw operation ran to completion
	Skipped int // subtrees skipped for a missing draw operation
	Panics  int // draw operations that panicked
}

// Renderer walks a Tree and draws it into a buffer, depth-first and
// parent before children.
//
// Failure policy: a node whose kind has no draw operation is skipped along
// with its subtree and the kind is logged once. A draw operation that panics
// is recovered, logged, and its subtree skipped; the rest of the frame still
// renders. A tree without exactly one root draws nothing.
type Renderer struct {
	registry *Registry
	logger   *slog.Logger
	missing  map[Kind]bool
	stats    RenderStats
}

// NewRenderer creates a renderer over registry. A nil logger uses slog.Default.
func NewRenderer(registry *Registry, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		registry: registry,
		logger:   logger,
		missing:  make(map[Kind]bool),
	}
}

// Stats returns counters for the most recent Render call.
func (r *Renderer) Stats() RenderStats { return r.stats }

// Render draws tree into buf, using the whole buffer as the root's rect.
// It returns ErrNoRoot or ErrMultipleRoots without touching buf when the
// tree has no single root.
func (r *Renderer) Render(buf *surface.Buffer, tree *Tree) error {
	r.stats = RenderStats{}

	root, err := tree.Root()
	if err != nil {
		if errors.Is(err, ErrMultipleRoots) {
			r.logger.Error("frame skipped", "error", err, "roots", len(tree.Roots()))
		} else {
			r.logger.Debug("frame skipped", "error", err)
		}
		return err
	}

	r.visit(buf, tree, root, buf.Area())
	return nil
}

func (r *Renderer) visit(buf *surface.Buffer, tree *Tree, e Entity, rect layout.Rect) {
	kind, _ := tree.Kind(e)
	op, ok := r.registry.Lookup(kind)
	if !ok {
		r.stats.Skipped++
		if !r.missing[kind] {
			r.missing[kind] = true
			r.logger.Warn("no draw operation registered, skipping subtree", "kind", string(kind), "entity", e.String())
		}
		return
	}

	style, _ := tree.Style(e)
	children := tree.children(e)
	var rects []layout.Rect
	if len(children) > 0 {
		constraints := make([]layout.Constraint, len(children))
		for i, c := range children {
			cs, _ := tree.Style(c)
			constraints[i] = cs.Constraint
		}
		rects = layout.Split(rect, style.ContentDirection, style.ContentFlex, constraints)
	}

	data, _ := tree.Widget(e)
	ctx := &Context{
		entity: e,
		widget: data,
		style:  style,
		rect:   rect,
		buf:    buf,
		logger: r.logger,
	}
	if perr := r.invoke(op, ctx, kind); perr != nil {
		r.stats.Panics++
		r.logger.Error("draw operation panicked, skipping subtree",
			"kind", string(kind), "entity", e.String(), "panic", perr.Value, "stack", perr.Stack)
		return
	}
	r.stats.Drawn++

	for i, c := range children {
		r.visit(buf, tree, c, rects[i])
	}
}

// invoke runs op and converts a panic into a PanicError. The context is
// released on every path.
func (r *Renderer) invoke(op DrawFunc, ctx *Context, kind Kind) (perr *PanicError) {
	defer func() {
		ctx.release()
		if v := recover(); v != nil {
			perr = &PanicError{Kind: kind, Value: v, Stack: string(debug.Stack())}
		}
	}()
	op(ctx)
	return nil
}
