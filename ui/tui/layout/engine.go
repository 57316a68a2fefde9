package layout

// Split divides area along dir into one rect per constraint, in order.
//
// Sizing runs in three passes: base sizes (Fixed, Percentage, Min), then
// remaining space shared by weight among growable constraints (Fill, Min,
// Max), then any space still left is distributed as gaps according to flex.
// When base sizes overflow the axis they are clipped in declared order, so
// the sizes never sum past the axis length. The perpendicular axis is
// copied from area.
func Split(area Rect, dir Direction, flex Flex, constraints []Constraint) []Rect {
	if len(constraints) == 0 {
		return nil
	}

	length := area.Height
	if dir == Horizontal {
		length = area.Width
	}

	sizes := resolveSizes(length, constraints)

	used := 0
	for _, s := range sizes {
		used += s
	}
	offsets := flexOffsets(flex, len(sizes), length-used)

	rects := make([]Rect, len(sizes))
	pos := 0
	for i, size := range sizes {
		start := pos + offsets[i]
		if dir == Horizontal {
			rects[i] = Rect{X: area.X + start, Y: area.Y, Width: size, Height: area.Height}
		} else {
			rects[i] = Rect{X: area.X, Y: area.Y + start, Width: area.Width, Height: size}
		}
		pos += size
	}
	return rects
}

func resolveSizes(length int, constraints []Constraint) []int {
	sizes := make([]int, len(constraints))
	total := 0
	for i, c := range constraints {
		sizes[i] = c.base(length)
		total += sizes[i]
	}

	if total > length {
		remaining := length
		for i := range sizes {
			sizes[i] = min(sizes[i], remaining)
			remaining -= sizes[i]
		}
		return sizes
	}

	grow(sizes, constraints, length-total)
	return sizes
}

// grow hands out remaining cells to growable constraints by weight.
// Capped entries drop out and the loop repeats with what they could not take.
func grow(sizes []int, constraints []Constraint, remaining int) {
	for remaining > 0 {
		weights := 0
		for i, c := range constraints {
			if room(sizes[i], c) != 0 {
				weights += c.weight()
			}
		}
		if weights == 0 {
			return
		}

		given := 0
		for i, c := range constraints {
			w := c.weight()
			r := room(sizes[i], c)
			if w == 0 || r == 0 {
				continue
			}
			share := remaining * w / weights
			if r > 0 {
				share = min(share, r)
			}
			sizes[i] += share
			given += share
		}

		// Floor division left crumbs; give them out one at a time in order.
		if given == 0 {
			for i, c := range constraints {
				if given == remaining {
					break
				}
				if c.weight() > 0 && room(sizes[i], c) != 0 {
					sizes[i]++
					given++
				}
			}
		}
		remaining -= given
	}
}

// room returns how many more cells an entry can take: -1 for unlimited, 0 for none.
func room(size int, c Constraint) int {
	if c.weight() == 0 {
		return 0
	}
	lim := c.limit()
	if lim < 0 {
		return -1
	}
	return max(lim-size, 0)
}

// flexOffsets returns the extra offset added to each child's running position.
// Offsets never decrease, so rects stay ordered and never overlap.
func flexOffsets(flex Flex, n, free int) []int {
	offsets := make([]int, n)
	if free <= 0 {
		return offsets
	}
	for i := range offsets {
		switch flex {
		case FlexEnd:
			offsets[i] = free
		case FlexCenter:
			offsets[i] = free / 2
		case FlexSpaceBetween:
			if n > 1 {
				offsets[i] = free * i / (n - 1)
			}
		case FlexSpaceAround:
			offsets[i] = free * (2*i + 1) / (2 * n)
		case FlexSpaceEvenly:
			offsets[i] = free * (i + 1) / (n + 1)
		}
	}
	return offsets
}
