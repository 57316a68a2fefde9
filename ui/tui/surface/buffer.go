// Package surface is the in-memory character grid a frame is drawn into.
package surface

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/drake/minisong/ui/tui/layout"
)

// Style is the visual attributes of a cell. The zero Style is the
// terminal default.
type Style struct {
	Fg, Bg    lipgloss.TerminalColor
	Bold      bool
	Italic    bool
	Underline bool
	Faint     bool
	Reverse   bool
}

// Patch returns s with the attributes set in o layered on top.
func (s Style) Patch(o Style) Style {
	if o.Fg != nil {
		s.Fg = o.Fg
	}
	if o.Bg != nil {
		s.Bg = o.Bg
	}
	s.Bold = s.Bold || o.Bold
	s.Italic = s.Italic || o.Italic
	s.Underline = s.Underline || o.Underline
	s.Faint = s.Faint || o.Faint
	s.Reverse = s.Reverse || o.Reverse
	return s
}

// Lipgloss converts the style for rendering.
func (s Style) Lipgloss() lipgloss.Style {
	st := lipgloss.NewStyle().
		Bold(s.Bold).
		Italic(s.Italic).
		Underline(s.Underline).
		Faint(s.Faint).
		Reverse(s.Reverse)
	if s.Fg != nil {
		st = st.Foreground(s.Fg)
	}
	if s.Bg != nil {
		st = st.Background(s.Bg)
	}
	return st
}

// Cell is one grid position. A wide grapheme occupies its own cell plus a
// continuation cell with Width 0 to its right.
type Cell struct {
	Content string
	Width   int
	Style   Style
}

var blank = Cell{Content: " ", Width: 1}

// Buffer is a width x height grid of cells.
type Buffer struct {
	area  layout.Rect
	cells []Cell
}

// NewBuffer allocates a blank buffer.
func NewBuffer(width, height int) *Buffer {
	area := layout.NewRect(0, 0, width, height)
	cells := make([]Cell, area.Area())
	for i := range cells {
		cells[i] = blank
	}
	return &Buffer{area: area, cells: cells}
}

// Area returns the full buffer rect, anchored at the origin.
func (b *Buffer) Area() layout.Rect { return b.area }

// Cell returns the cell at (x, y), or a blank cell when out of bounds.
func (b *Buffer) Cell(x, y int) Cell {
	if !b.area.Contains(x, y) {
		return blank
	}
	return b.cells[y*b.area.Width+x]
}

func (b *Buffer) set(x, y int, c Cell) {
	i := y*b.area.Width + x

	// Overwriting either half of a wide cell blanks the other half.
	if old := b.cells[i]; old.Width == 0 && x > 0 {
		b.cells[i-1] = blank
	} else if old.Width == 2 && x+1 < b.area.Width {
		b.cells[i+1] = blank
	}
	b.cells[i] = c
}

func (b *Buffer) setContinuation(x, y int, st Style) {
	i := y*b.area.Width + x
	if b.cells[i].Width == 2 && x+1 < b.area.Width {
		b.cells[i+1] = blank
	}
	b.cells[i] = Cell{Style: st}
}

// setString writes s starting at (x, y) without crossing clip and
// returns the number of columns written.
func (b *Buffer) setString(x, y int, s string, st Style, clip layout.Rect) int {
	clip = clip.Intersect(b.area)
	if y < clip.Y || y >= clip.Bottom() {
		return 0
	}

	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col >= clip.Right() {
			break
		}
		if col < clip.X {
			col += w
			continue
		}
		if col+w > clip.Right() {
			// A wide rune that does not fit is replaced by padding.
			b.set(col, y, Cell{Content: " ", Width: 1, Style: st})
			col++
			break
		}
		b.set(col, y, Cell{Content: string(r), Width: w, Style: st})
		if w == 2 {
			b.setContinuation(col+1, y, st)
		}
		col += w
	}
	return max(col-x, 0)
}

// Row returns the plain text of row y with styles dropped.
func (b *Buffer) Row(y int) string {
	if y < 0 || y >= b.area.Height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < b.area.Width; x++ {
		c := b.cells[y*b.area.Width+x]
		if c.Width == 0 {
			continue
		}
		sb.WriteString(c.Content)
	}
	return sb.String()
}

// String returns the plain text of the buffer, one line per row.
func (b *Buffer) String() string {
	rows := make([]string, b.area.Height)
	for y := range rows {
		rows[y] = b.Row(y)
	}
	return strings.Join(rows, "\n")
}

// Render returns the buffer as styled terminal output. Runs of cells
// sharing a style are rendered together.
func (b *Buffer) Render() string {
	var sb strings.Builder
	var run strings.Builder

	flush := func(st Style) {
		if run.Len() == 0 {
			return
		}
		if st == (Style{}) {
			sb.WriteString(run.String())
		} else {
			sb.WriteString(st.Lipgloss().Render(run.String()))
		}
		run.Reset()
	}

	for y := 0; y < b.area.Height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		var cur Style
		for x := 0; x < b.area.Width; x++ {
			c := b.cells[y*b.area.Width+x]
			if c.Width == 0 {
				continue
			}
			if c.Style != cur {
				flush(cur)
				cur = c.Style
			}
			run.WriteString(c.Content)
		}
		flush(cur)
	}
	return sb.String()
}
