package layout

import "fmt"

// Direction selects the axis a parent splits along.
type Direction int

const (
	Vertical Direction = iota
	Horizontal
)

func (d Direction) String() string {
	if d == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Flex is the packing policy for space left over after sizing children.
type Flex int

const (
	FlexStart Flex = iota
	FlexCenter
	FlexEnd
	FlexSpaceBetween
	FlexSpaceAround
	FlexSpaceEvenly
)

func (f Flex) String() string {
	switch f {
	case FlexCenter:
		return "center"
	case FlexEnd:
		return "end"
	case FlexSpaceBetween:
		return "space-between"
	case FlexSpaceAround:
		return "space-around"
	case FlexSpaceEvenly:
		return "space-evenly"
	default:
		return "start"
	}
}

// Align positions a self-sized widget inside its rect on one axis.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

type constraintKind int

const (
	kindFill constraintKind = iota
	kindFixed
	kindPercentage
	kindMin
	kindMax
)

// Constraint is the sizing rule a child contributes to its parent's split.
// The zero Constraint is Fill(1).
type Constraint struct {
	kind  constraintKind
	value int

	// Optional bounds; zero means unbounded.
	lower, upper int
}

// Fixed sizes a child to exactly n cells.
func Fixed(n int) Constraint { return Constraint{kind: kindFixed, value: max(n, 0)} }

// Percentage sizes a child to floor(p% of the available length).
func Percentage(p int) Constraint { return Constraint{kind: kindPercentage, value: max(p, 0)} }

// Fill grows a child into remaining space, proportionally to weight.
// Weights below 1 count as 1.
func Fill(weight int) Constraint { return Constraint{kind: kindFill, value: max(weight, 1)} }

// Min sizes a child to at least n cells and lets it grow like Fill(1).
func Min(n int) Constraint { return Constraint{kind: kindMin, value: max(n, 0)} }

// Max lets a child grow like Fill(1) but never past n cells.
func Max(n int) Constraint { return Constraint{kind: kindMax, value: max(n, 0)} }

// AtLeast returns c with a lower bound of n cells.
func (c Constraint) AtLeast(n int) Constraint {
	c.lower = max(n, 0)
	return c
}

// AtMost returns c with an upper bound of n cells.
func (c Constraint) AtMost(n int) Constraint {
	c.upper = max(n, 0)
	return c
}

// base is the size before remaining space is distributed.
func (c Constraint) base(length int) int {
	var n int
	switch c.kind {
	case kindFixed, kindMin:
		n = c.value
	case kindPercentage:
		n = length * c.value / 100
	}
	return c.clamp(n)
}

// weight is the share of remaining space this constraint takes; 0 means it does not grow.
func (c Constraint) weight() int {
	switch c.kind {
	case kindFill:
		return max(c.value, 1)
	case kindMin, kindMax:
		return 1
	}
	return 0
}

// limit is the largest size the constraint accepts, or -1 for unbounded.
func (c Constraint) limit() int {
	lim := -1
	if c.kind == kindMax {
		lim = c.value
	}
	if c.upper > 0 && (lim < 0 || c.upper < lim) {
		lim = c.upper
	}
	return lim
}

func (c Constraint) clamp(n int) int {
	if c.lower > 0 && n < c.lower {
		n = c.lower
	}
	if lim := c.limit(); lim >= 0 && n > lim {
		n = lim
	}
	return n
}

func (c Constraint) String() string {
	var s string
	switch c.kind {
	case kindFixed:
		s = fmt.Sprintf("Fixed(%d)", c.value)
	case kindPercentage:
		s = fmt.Sprintf("Percentage(%d)", c.value)
	case kindMin:
		s = fmt.Sprintf("Min(%d)", c.value)
	case kindMax:
		s = fmt.Sprintf("Max(%d)", c.value)
	default:
		s = fmt.Sprintf("Fill(%d)", c.weight())
	}
	if c.lower > 0 {
		s += fmt.Sprintf(".AtLeast(%d)", c.lower)
	}
	if c.upper > 0 {
		s += fmt.Sprintf(".AtMost(%d)", c.upper)
	}
	return s
}
