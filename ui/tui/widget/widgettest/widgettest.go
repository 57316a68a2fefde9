// Package widgettest renders single widgets into a buffer for tests.
package widgettest

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/drake/minisong/ui/tui/surface"
	"github.com/drake/minisong/ui/tui/widget"
)

// Harness holds a registry with the draw operations under test and a log
// buffer capturing everything the renderer writes.
type Harness struct {
	Registry *widget.Registry
	Renderer *widget.Renderer
	Log      *bytes.Buffer
}

// New builds a harness and calls every register function against it.
func New(t testing.TB, register ...func(*widget.Registry) error) *Harness {
	t.Helper()
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg := widget.NewRegistry(logger)
	for _, fn := range register {
		if err := fn(reg); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	return &Harness{Registry: reg, Renderer: widget.NewRenderer(reg, logger), Log: &out}
}

// Render draws tree into a fresh width x height buffer.
func (h *Harness) Render(t testing.TB, width, height int, tree *widget.Tree) *surface.Buffer {
	t.Helper()
	buf := surface.NewBuffer(width, height)
	if err := h.Renderer.Render(buf, tree); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf
}

// Draw renders w as the only node of a tree.
func (h *Harness) Draw(t testing.TB, width, height int, w widget.Widget, style widget.Style) *surface.Buffer {
	t.Helper()
	tree := widget.NewTree()
	tree.Spawn(w, style)
	return h.Render(t, width, height, tree)
}
