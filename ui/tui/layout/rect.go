package layout

import "fmt"

// Rect is a cell rectangle. Width and Height are never negative.
type Rect struct {
	X, Y          int
	Width, Height int
}

// NewRect returns a rect, clamping negative dimensions to zero.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: max(width, 0), Height: max(height, 0)}
}

// Size is an intrinsic widget size in cells.
type Size struct {
	Width, Height int
}

// Size returns the rect's dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Right returns the first column past the rect.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the first row past the rect.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Area returns the number of cells in the rect.
func (r Rect) Area() int { return r.Width * r.Height }

// Contains reports whether the cell (x, y) is inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersect returns the overlap of two rects, or an empty rect at r's origin.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: r.X, Y: r.Y}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Inner shrinks the rect by a uniform margin on every side.
func (r Rect) Inner(margin int) Rect {
	return NewRect(r.X+margin, r.Y+margin, r.Width-2*margin, r.Height-2*margin)
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}
