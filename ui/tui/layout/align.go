package layout

// Aligned returns the sub-rect of area holding a widget of the given
// intrinsic size. The size is clamped to the area first, then each axis is
// placed independently: start at 0, center at floor((avail-size)/2), end at
// avail-size.
func Aligned(area Rect, size Size, h, v Align) Rect {
	w := min(max(size.Width, 0), area.Width)
	hgt := min(max(size.Height, 0), area.Height)
	return Rect{
		X:      area.X + alignOffset(h, area.Width, w),
		Y:      area.Y + alignOffset(v, area.Height, hgt),
		Width:  w,
		Height: hgt,
	}
}

func alignOffset(a Align, avail, size int) int {
	switch a {
	case AlignCenter:
		return (avail - size) / 2
	case AlignEnd:
		return avail - size
	default:
		return 0
	}
}
