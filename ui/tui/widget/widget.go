// Package widget is the retained-mode widget engine: an owned tree of
// widget nodes, a registry of draw operations keyed by widget kind, and the
// renderer that lays out and draws the tree once per frame.
package widget

import (
	"errors"
	"fmt"
)

// Kind identifies which draw operation renders a widget.
type Kind string

// Widget is the kind-specific data attached to a tree node.
type Widget interface {
	Kind() Kind
}

var (
	// ErrNoRoot is returned when a frame has no root widget to draw.
	ErrNoRoot = errors.New("widget: no root")
	// ErrMultipleRoots is returned when more than one parentless widget exists.
	ErrMultipleRoots = errors.New("widget: multiple roots")
	// ErrDuplicateKind is returned when a kind is registered twice.
	ErrDuplicateKind = errors.New("widget: kind already registered")
)

// PanicError wraps a panic recovered from a draw operation.
type PanicError struct {
	Kind  Kind
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("widget: draw %q panicked: %v", e.Kind, e.Value)
}
