package widget

import "github.com/drake/minisong/ui/tui/layout"

// Style holds the layout attributes of a node.
//
// Constraint is read by the parent's layout pass. ContentDirection and
// ContentFlex apply to this node's own children. The alignments are used by
// self-sized widgets through Context.DrawSized.
type Style struct {
	AlignHorizontal  layout.Align
	AlignVertical    layout.Align
	Constraint       layout.Constraint
	ContentDirection layout.Direction
	ContentFlex      layout.Flex
}

// NewStyle returns the default style: fill the parent, children stacked
// vertically from the start.
func NewStyle() Style { return Style{} }

// Centered returns a style centered on both axes.
func Centered() Style {
	return Style{AlignHorizontal: layout.AlignCenter, AlignVertical: layout.AlignCenter}
}

func (s Style) WithAlign(h, v layout.Align) Style {
	s.AlignHorizontal, s.AlignVertical = h, v
	return s
}

func (s Style) WithConstraint(c layout.Constraint) Style {
	s.Constraint = c
	return s
}

func (s Style) WithDirection(d layout.Direction) Style {
	s.ContentDirection = d
	return s
}

func (s Style) WithFlex(f layout.Flex) Style {
	s.ContentFlex = f
	return s
}
