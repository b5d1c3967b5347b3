package engine

import "fmt"

// poolChunk is the number of rectangles allocated per chunk.
const poolChunk = 1024

// pool hands out rectangles from fixed-size chunks and releases every
// rectangle of a run at once. Chunks are kept and reused by the next run.
type pool struct {
	chunks    [][]Rectangle
	chunk     int // index of the chunk being filled
	next      int // next free position within that chunk
	allocated int
}

// alloc copies r into the pool and returns its stable address.
func (p *pool) alloc(r Rectangle) *Rectangle {
	if len(p.chunks) == 0 {
		p.chunks = append(p.chunks, make([]Rectangle, poolChunk))
	}
	if p.next == poolChunk {
		p.chunk++
		p.next = 0
		if p.chunk == len(p.chunks) {
			p.chunks = append(p.chunks, make([]Rectangle, poolChunk))
		}
	}
	slot := &p.chunks[p.chunk][p.next]
	*slot = r
	p.next++
	p.allocated++
	return slot
}

// purge releases every rectangle handed out since the last purge.
// No pointer obtained from alloc may be used afterwards.
func (p *pool) purge() {
	for i := 0; i <= p.chunk && i < len(p.chunks); i++ {
		clear(p.chunks[i])
	}
	p.chunk = 0
	p.next = 0
	p.allocated = 0
}

// Handle identifies a rectangle held by a resultSet. A handle goes stale as
// soon as its rectangle is removed or replaced; the zero Handle is never valid.
type Handle struct {
	index uint32
	gen   uint32
}

func (h Handle) String() string { return fmt.Sprintf("#%d.%d", h.index, h.gen) }

type slot struct {
	rect *Rectangle
	gen  uint32
	live bool
}

// resultSet is the current covering: a generation-checked slot map that also
// remembers insertion order so that pair enumeration is deterministic.
type resultSet struct {
	slots []slot
	free  []uint32
	order []Handle
}

func (s *resultSet) len() int { return len(s.order) }

// insert appends r to the covering.
func (s *resultSet) insert(r *Rectangle) Handle {
	h := s.store(r)
	s.order = append(s.order, h)
	return h
}

func (s *resultSet) store(r *Rectangle) Handle {
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		sl := &s.slots[idx]
		sl.rect, sl.live = r, true
		return Handle{index: idx, gen: sl.gen}
	}
	s.slots = append(s.slots, slot{rect: r, gen: 1, live: true})
	return Handle{index: uint32(len(s.slots) - 1), gen: 1}
}

// valid reports whether h still refers to a rectangle of the covering.
func (s *resultSet) valid(h Handle) bool {
	if int(h.index) >= len(s.slots) {
		return false
	}
	sl := s.slots[h.index]
	return sl.live && sl.gen == h.gen
}

// get returns the rectangle behind h. A stale handle is a programming error.
func (s *resultSet) get(h Handle) *Rectangle {
	if !s.valid(h) {
		panic(fmt.Sprintf("engine: stale result handle %s", h))
	}
	return s.slots[h.index].rect
}

func (s *resultSet) release(h Handle) {
	sl := &s.slots[h.index]
	sl.rect, sl.live = nil, false
	sl.gen++
	s.free = append(s.free, h.index)
}

// remove drops h from the covering.
func (s *resultSet) remove(h Handle) {
	s.get(h)
	for i, o := range s.order {
		if o == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.release(h)
}

// replace swaps the rectangle behind h for r, keeping its position in the
// insertion order. h goes stale; the returned handle refers to r.
func (s *resultSet) replace(h Handle, r *Rectangle) Handle {
	s.get(h)
	pos := -1
	for i, o := range s.order {
		if o == h {
			pos = i
			break
		}
	}
	s.release(h)
	nh := s.store(r)
	s.order[pos] = nh
	return nh
}

// handles returns the live handles in insertion order. The slice is owned by
// the set and is invalidated by the next mutation.
func (s *resultSet) handles() []Handle { return s.order }

// rects returns the live rectangles in insertion order.
func (s *resultSet) rects() []*Rectangle {
	out := make([]*Rectangle, len(s.order))
	for i, h := range s.order {
		out[i] = s.slots[h.index].rect
	}
	return out
}

// reset empties the set, invalidating every handle.
func (s *resultSet) reset() {
	for _, h := range s.order {
		s.release(h)
	}
	s.order = s.order[:0]
}
