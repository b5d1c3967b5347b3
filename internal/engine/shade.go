package engine

import "github.com/bits-and-blooms/bitset"

// penumbraEntry maps a partially covered rectangle to the residual slice
// that replaces it when the shade is applied.
type penumbraEntry struct {
	original Handle
	rect     *Rectangle
	slice    Rectangle
}

// Shade is a proposal to replace two covering rectangles with their join.
// The envelope holds rectangles absorbed by the join, the penumbra holds
// rectangles trimmed to a single residual slice.
//
// Shades are scratch values: the optimizer refills two of them while it
// scans pairs and only copies the winner into the pool.
type Shade struct {
	h1, h2   Handle
	r1, r2   *Rectangle
	join     Rectangle
	bits     *bitset.BitSet // backing store for the join's span
	envelope []Handle
	absorbed []*Rectangle
	penumbra []penumbraEntry

	penalty int
}

func newShade(size int) *Shade {
	return &Shade{bits: bitset.New(uint(size))}
}

// reset prepares the shade for the pair (r1, r2) and materializes the join.
func (s *Shade) reset(h1, h2 Handle, r1, r2 *Rectangle, join Rectangle) {
	s.h1, s.h2 = h1, h2
	s.r1, s.r2 = r1, r2
	s.join = join
	s.join.spanInto(s.bits)
	s.envelope = s.envelope[:0]
	s.absorbed = s.absorbed[:0]
	s.penumbra = s.penumbra[:0]
	s.penalty = 0
}

func (s *Shade) absorb(h Handle, r *Rectangle) {
	s.envelope = append(s.envelope, h)
	s.absorbed = append(s.absorbed, r)
}

func (s *Shade) trim(h Handle, r *Rectangle, slice Rectangle) {
	s.penumbra = append(s.penumbra, penumbraEntry{original: h, rect: r, slice: slice})
}

// computePenalty fixes the net cost delta of applying the shade. Absorbed
// rectangles save their full cost, trimmed ones only the area they lose.
func (s *Shade) computePenalty() {
	envelopeCost := 0
	for _, r := range s.absorbed {
		envelopeCost += r.Cost()
	}
	penumbraCost := 0
	for i := range s.penumbra {
		p := &s.penumbra[i]
		penumbraCost += p.rect.Area() - p.slice.Area()
	}
	s.penalty = s.join.Cost() - (s.r1.Cost() + s.r2.Cost() + envelopeCost + penumbraCost)
}

// Penalty returns the cost delta; negative means the covering gets cheaper.
func (s *Shade) Penalty() int { return s.penalty }

// Join returns the bounding rectangle of the pair.
func (s *Shade) Join() *Rectangle { return &s.join }

// EnvelopeSize returns the number of absorbed rectangles.
func (s *Shade) EnvelopeSize() int { return len(s.envelope) }

// PenumbraSize returns the number of trimmed rectangles.
func (s *Shade) PenumbraSize() int { return len(s.penumbra) }

// less prefers the lower penalty, then the smaller envelope, leaving more
// rectangles available to later iterations.
func (s *Shade) less(other *Shade) bool {
	if s.penalty == other.penalty {
		return len(s.envelope) < len(other.envelope)
	}
	return s.penalty < other.penalty
}
