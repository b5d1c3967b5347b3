package engine

import (
	"fmt"
)

// IntersectionKind encodes the effect of taking a join on another rectangle
// of the covering. Kinds are ordered from harmless to forbidden.
type IntersectionKind int

const (
	Void          IntersectionKind = iota - 2 // join does not touch the rectangle
	Decreasing                                // rectangle lies inside the join
	NonIncreasing                             // rectangle minus join is one rectangle
	Increasing                                // rectangle minus join needs more than one rectangle
)

func (k IntersectionKind) String() string {
	switch k {
	case Void:
		return "Void"
	case Decreasing:
		return "Decreasing"
	case NonIncreasing:
		return "NonIncreasing"
	case Increasing:
		return "Increasing"
	default:
		return fmt.Sprintf("IntersectionKind(%d)", int(k))
	}
}

// Slice is the classification of one covering rectangle against a join.
// For NonIncreasing, the bounds describe the residual rectangle other\join.
type Slice struct {
	Original Handle
	Kind     IntersectionKind

	Top, Left, Bottom, Right int
}

// classify determines how other is affected when join is added to the covering.
// Both spans must be materialized.
func classify(h Handle, other, join *Rectangle) Slice {
	s := Slice{Original: h, Top: -1, Left: -1, Bottom: -1, Right: -1}

	if !other.Intersects(join) {
		s.Kind = Void
		return s
	}
	if other.IsSubsetOf(join) {
		s.Kind = Decreasing
		return s
	}

	leftover := other.Span().Difference(join.Span())
	pos, ok := leftover.NextSet(0)
	if !ok {
		panic(fmt.Sprintf("engine: %s intersects %s but leaves no remainder", other, join))
	}

	cols := other.field.Cols()
	top, left := int(pos)/cols, int(pos)%cols
	bottom, right := top, left
	for ; ok; pos, ok = leftover.NextSet(pos + 1) {
		row, col := int(pos)/cols, int(pos)%cols
		left = min(left, col)
		right = max(right, col)
		bottom = row
	}

	// Every leftover bit lies inside the bounding box, so the remainder is a
	// rectangle exactly when it fills the box.
	boxArea := (bottom - top + 1) * (right - left + 1)
	if int(leftover.Count()) != boxArea {
		s.Kind = Increasing
		return s
	}

	s.Kind = NonIncreasing
	s.Top, s.Left, s.Bottom, s.Right = top, left, bottom, right
	return s
}
