package surface

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/drake/minisong/ui/tui/layout"
)

func TestNewBufferIsBlank(t *testing.T) {
	buf := NewBuffer(4, 2)
	if got, want := buf.String(), "    \n    "; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if buf.Area() != (layout.Rect{Width: 4, Height: 2}) {
		t.Errorf("unexpected area %v", buf.Area())
	}
}

func TestCanvasClipsWrites(t *testing.T) {
	buf := NewBuffer(10, 3)
	c := buf.Canvas(layout.Rect{X: 2, Y: 1, Width: 4, Height: 1})

	n := c.SetString(0, 1, "abcdefgh", Style{})
	if n != 6 {
		t.Errorf("columns written: want 6, got %d", n)
	}
	if got := buf.Row(1); got != "  cdef    " {
		t.Errorf("row 1: got %q", got)
	}
	c.SetString(2, 0, "zz", Style{})
	if got := buf.Row(0); got != strings.Repeat(" ", 10) {
		t.Errorf("write outside clip leaked: %q", got)
	}
}

func TestWideRunesUseContinuationCells(t *testing.T) {
	buf := NewBuffer(5, 1)
	c := buf.Canvas(buf.Area())
	c.SetString(0, 0, "日本x", Style{})

	if got := buf.Row(0); got != "日本x" {
		t.Fatalf("got %q", got)
	}
	if buf.Cell(1, 0).Width != 0 {
		t.Errorf("expected continuation cell at column 1")
	}

	// Overwriting the continuation half blanks the leading half.
	c.SetCell(1, 0, "a", Style{})
	if got := buf.Row(0); got != " a本x" {
		t.Errorf("got %q", got)
	}
}

func TestWideRuneStopsAtClipEdge(t *testing.T) {
	buf := NewBuffer(3, 1)
	c := buf.Canvas(buf.Area())
	c.SetString(0, 0, "a日本", Style{})
	if got := buf.Row(0); got != "a日" {
		t.Fatalf("got %q", got)
	}
	if buf.Cell(2, 0).Width != 0 {
		t.Errorf("column 2 should hold the continuation of the first wide rune")
	}
}

func TestReleasedCanvasIsInert(t *testing.T) {
	buf := NewBuffer(3, 1)
	var log bytes.Buffer
	c := buf.Canvas(buf.Area()).WithLogger(slog.New(slog.NewTextHandler(&log, nil)))
	c.Release()

	if n := c.SetString(0, 0, "abc", Style{}); n != 0 {
		t.Errorf("released canvas wrote %d columns", n)
	}
	c.Fill(buf.Area(), "x", Style{})
	c.SetCell(0, 0, "y", Style{})
	if got := buf.Row(0); got != "   " {
		t.Errorf("released canvas modified buffer: %q", got)
	}
	if !c.Released() {
		t.Error("Released should report true")
	}
	if n := strings.Count(log.String(), "canvas used after its draw call returned"); n != 1 {
		t.Errorf("want one warning on the injected logger, got %d:\n%s", n, log.String())
	}
}

func TestFillAndRestyle(t *testing.T) {
	buf := NewBuffer(4, 2)
	c := buf.Canvas(buf.Area())
	c.Fill(layout.Rect{X: 1, Y: 0, Width: 2, Height: 2}, "#", Style{})
	c.Restyle(layout.Rect{X: 0, Y: 0, Width: 4, Height: 1}, Style{Bold: true})

	if got, want := buf.String(), " ## \n ## "; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if !buf.Cell(1, 0).Style.Bold || buf.Cell(1, 1).Style.Bold {
		t.Errorf("restyle applied to wrong rows")
	}
}

func TestRenderGroupsStyledRuns(t *testing.T) {
	buf := NewBuffer(6, 1)
	c := buf.Canvas(buf.Area())
	st := Style{Fg: lipgloss.Color("5")}
	c.SetString(0, 0, "ab", st)
	c.SetString(2, 0, "cd", Style{})

	out := buf.Render()
	if !strings.Contains(out, "cd  ") {
		t.Errorf("unstyled run should be emitted verbatim, got %q", out)
	}
	if strings.Count(out, "\n") != 0 {
		t.Errorf("single row should have no newline, got %q", out)
	}
}

func TestStylePatch(t *testing.T) {
	base := Style{Fg: lipgloss.Color("1"), Italic: true}
	got := base.Patch(Style{Bg: lipgloss.Color("2"), Bold: true})
	want := Style{Fg: lipgloss.Color("1"), Bg: lipgloss.Color("2"), Italic: true, Bold: true}
	if got != want {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}
