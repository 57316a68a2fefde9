// Package label draws styled, self-sized text.
package label

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/drake/minisong/ui/tui/layout"
	"github.com/drake/minisong/ui/tui/surface"
	"github.com/drake/minisong/ui/tui/widget"
)

// Kind is the widget kind of Label.
const Kind widget.Kind = "label"

// Span is a run of text with one style.
type Span struct {
	Text  string
	Style surface.Style
}

// Raw returns an unstyled span.
func Raw(text string) Span { return Span{Text: text} }

// Styled returns a span drawn with st.
func Styled(text string, st surface.Style) Span { return Span{Text: text, Style: st} }

// Line is a row of spans, aligned inside the label's width.
type Line struct {
	Spans []Span
	Align layout.Align
}

// NewLine builds a start-aligned line.
func NewLine(spans ...Span) Line { return Line{Spans: spans} }

// Width returns the line's width in cells.
func (l Line) Width() int {
	w := 0
	for _, s := range l.Spans {
		w += ansi.StringWidth(s.Text)
	}
	return w
}

// Label is the widget data for a block of text.
type Label struct {
	Lines []Line
	// Style is layered under every span.
	Style surface.Style
}

// Kind implements widget.Widget.
func (Label) Kind() widget.Kind { return Kind }

// New returns a label with the given lines.
func New(lines ...Line) Label { return Label{Lines: lines} }

// Text returns a label of plain text, one line per newline, drawn with st.
func Text(text string, st surface.Style) Label {
	parts := strings.Split(text, "\n")
	lines := make([]Line, len(parts))
	for i, p := range parts {
		lines[i] = NewLine(Raw(p))
	}
	return Label{Lines: lines, Style: st}
}

// Centered returns l with every line centered.
func (l Label) Centered() Label {
	lines := make([]Line, len(l.Lines))
	for i, line := range l.Lines {
		line.Align = layout.AlignCenter
		lines[i] = line
	}
	l.Lines = lines
	return l
}

// Size is the widest line by the number of lines.
func (l Label) Size() layout.Size {
	w := 0
	for _, line := range l.Lines {
		w = max(w, line.Width())
	}
	return layout.Size{Width: w, Height: len(l.Lines)}
}

// Register adds the label draw operation.
func Register(reg *widget.Registry) error {
	return widget.Register(reg, Kind, draw)
}

func draw(ctx *widget.Context, l Label) {
	ctx.DrawSized(l.Size(), func(c *surface.Canvas, area layout.Rect) {
		Paint(c, area, l)
	})
}

// Paint writes l's lines into area, aligning each line within area's width
// and truncating lines that do not fit with an ellipsis.
func Paint(c *surface.Canvas, area layout.Rect, l Label) {
	for i, line := range l.Lines {
		if i >= area.Height {
			return
		}
		w := min(line.Width(), area.Width)
		x := area.X
		switch line.Align {
		case layout.AlignCenter:
			x += (area.Width - w) / 2
		case layout.AlignEnd:
			x += area.Width - w
		}

		remaining := area.Width
		for _, s := range line.Spans {
			if remaining <= 0 {
				break
			}
			text := s.Text
			if sw := ansi.StringWidth(text); sw > remaining {
				text = ansi.Truncate(text, remaining, "…")
			}
			n := c.SetString(x, area.Y+i, text, l.Style.Patch(s.Style))
			x += n
			remaining -= n
		}
	}
}
