package engine

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/piwi3910/CoverPlan/internal/model"
)

// span is the coverage mask of a rectangle over every cell of its field.
// It has two states: unmaterialized (bits == nil) and materialized.
// Geometric queries require the materialized state.
type span struct {
	bits *bitset.BitSet
}

func (s span) materialized() bool { return s.bits != nil }

// Rectangle is an axis-aligned block of cells with inclusive bounds.
// Bounds, area, weight and ratio never change after construction; the span
// is computed lazily and the label is assigned once the result is final.
type Rectangle struct {
	top, left, bottom, right int

	area   int
	weight int
	ratio  float64

	field *model.Field
	span  span
	label byte
}

// newRectangle builds a rectangle whose weight is read from the field.
func newRectangle(f *model.Field, top, left, bottom, right int) Rectangle {
	return newWeightedRectangle(f, top, left, bottom, right, f.Weight(top, left, bottom, right))
}

// newWeightedRectangle builds a rectangle with a precomputed weight.
// Degenerate bounds are a programming error.
func newWeightedRectangle(f *model.Field, top, left, bottom, right, weight int) Rectangle {
	area := (bottom - top + 1) * (right - left + 1)
	if area <= 0 || bottom < top || right < left {
		panic(fmt.Sprintf("engine: degenerate rectangle (%d,%d)-(%d,%d)", top, left, bottom, right))
	}
	return Rectangle{
		top:    top,
		left:   left,
		bottom: bottom,
		right:  right,
		area:   area,
		weight: weight,
		ratio:  float64(weight) / float64(model.RectangleOverhead+area),
		field:  f,
	}
}

func (r *Rectangle) Top() int    { return r.top }
func (r *Rectangle) Left() int   { return r.left }
func (r *Rectangle) Bottom() int { return r.bottom }
func (r *Rectangle) Right() int  { return r.right }

// Area returns the number of cells inside the rectangle.
func (r *Rectangle) Area() int { return r.area }

// Weight returns the number of marked cells inside the rectangle.
func (r *Rectangle) Weight() int { return r.weight }

// Cost returns the fixed overhead plus the area.
func (r *Rectangle) Cost() int { return model.RectangleOverhead + r.area }

// Ratio returns weight / cost, fixed at construction.
func (r *Rectangle) Ratio() float64 { return r.ratio }

// Label returns the display character, zero until labeled.
func (r *Rectangle) Label() byte { return r.label }

func (r *Rectangle) setLabel(c byte) { r.label = c }

// ComputeSpan materializes the coverage mask. Repeated calls are no-ops.
func (r *Rectangle) ComputeSpan() {
	if r.span.materialized() {
		return
	}
	r.spanInto(bitset.New(uint(r.field.Size())))
}

// spanInto materializes the span into a caller-owned bitset of field size,
// overwriting its previous contents.
func (r *Rectangle) spanInto(bits *bitset.BitSet) {
	bits.ClearAll()
	cols := r.field.Cols()
	for row := r.top; row <= r.bottom; row++ {
		base := uint(row * cols)
		for col := r.left; col <= r.right; col++ {
			bits.Set(base + uint(col))
		}
	}
	r.span = span{bits: bits}
}

// dropSpan returns the rectangle to the unmaterialized state.
func (r *Rectangle) dropSpan() { r.span = span{} }

// Span returns the materialized coverage mask.
func (r *Rectangle) Span() *bitset.BitSet {
	if !r.span.materialized() {
		panic(fmt.Sprintf("engine: span of %s used before ComputeSpan", r))
	}
	return r.span.bits
}

// Intersects reports whether the two spans share any cell.
func (r *Rectangle) Intersects(other *Rectangle) bool {
	return r.Span().IntersectionCardinality(other.Span()) > 0
}

// IsSubsetOf reports whether every cell of r is also inside other.
func (r *Rectangle) IsSubsetOf(other *Rectangle) bool {
	return other.Span().IsSuperSet(r.Span())
}

// Less orders rectangles by ratio. Ratios are compared exactly by cross
// multiplication so equal fractions tie.
func (r *Rectangle) Less(other *Rectangle) bool {
	return r.weight*(model.RectangleOverhead+other.area) < other.weight*(model.RectangleOverhead+r.area)
}

// joinBounds returns the bounding box of two rectangles.
func joinBounds(a, b *Rectangle) (top, left, bottom, right int) {
	return min(a.top, b.top), min(a.left, b.left), max(a.bottom, b.bottom), max(a.right, b.right)
}

// placed converts the rectangle into its exported form.
func (r *Rectangle) placed() model.PlacedRect {
	return model.PlacedRect{
		Label:  string(r.label),
		Top:    r.top,
		Left:   r.left,
		Bottom: r.bottom,
		Right:  r.right,
		Area:   r.area,
		Weight: r.weight,
		Cost:   r.Cost(),
	}
}

func (r *Rectangle) String() string {
	return fmt.Sprintf("[(%d,%d)-(%d,%d) w=%d]", r.top, r.left, r.bottom, r.right, r.weight)
}
