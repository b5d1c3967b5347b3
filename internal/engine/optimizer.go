package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/bits-and-blooms/bitset"

	"github.com/piwi3910/CoverPlan/internal/model"
)

// labelAlphabet holds the labels handed out in descending ratio order.
// Rectangles beyond its length receive the fallback label.
const labelAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Optimizer computes low-cost rectangle coverings of marked grid cells.
// An Optimizer is not safe for concurrent use; its pool and covering are
// reused from one run to the next.
type Optimizer struct {
	Settings model.CoverSettings
	Logger   *slog.Logger

	field         *model.Field
	maxRectangles int

	pool       pool
	result     resultSet
	candidates []*Rectangle
	shades     [2]*Shade
	slices     []Slice
	stats      model.CoverStats
}

func New(settings model.CoverSettings) *Optimizer {
	return &Optimizer{Settings: settings}
}

func (o *Optimizer) log() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// OptimizeAll runs every problem in order and collects the results into a batch.
func (o *Optimizer) OptimizeAll(source string, problems []model.Problem) model.Batch {
	batch := model.NewBatch(source)
	for _, p := range problems {
		batch.Results = append(batch.Results, o.Optimize(p))
	}
	o.log().Info("batch optimized",
		"batch", batch.ID,
		"fields", len(batch.Results),
		"total_cost", batch.TotalCost())
	return batch
}

// Optimize covers every marked cell of the problem's field. A bound of 1
// yields the bounding box of the marked cells; any other bound is pursued by
// the greedy matching followed by the local search. The field must contain at
// least one marked cell.
func (o *Optimizer) Optimize(p model.Problem) model.CoverResult {
	start := time.Now()
	o.begin(p)
	defer o.end()

	if p.MaxRectangles == 1 {
		o.convexHull()
	} else {
		o.generate()
		o.greedyMatch()
		o.localSearch()
	}
	labeled := o.label()

	res := o.render(p, labeled)
	res.Stats = o.stats
	res.Stats.Elapsed = time.Since(start)

	o.log().Info("field optimized",
		"field", p.Index,
		"rows", res.Rows,
		"cols", res.Cols,
		"marked", res.Marked,
		"max_rectangles", p.MaxRectangles,
		"cardinality", res.Cardinality,
		"cost", res.Cost,
		"merges", res.Stats.Merges,
		"forced_merges", res.Stats.ForcedMerges,
		"elapsed", res.Stats.Elapsed)
	return res
}

func (o *Optimizer) begin(p model.Problem) {
	if p.Field == nil {
		panic("engine: problem without field")
	}
	if p.Field.MarkedCount() == 0 {
		panic(fmt.Sprintf("engine: field %d has no marked cells", p.Index))
	}
	if p.MaxRectangles < 0 {
		panic(fmt.Sprintf("engine: field %d has negative bound %d", p.Index, p.MaxRectangles))
	}
	o.field = p.Field
	o.maxRectangles = p.MaxRectangles
	o.stats = model.CoverStats{}
	o.shades = [2]*Shade{newShade(p.Field.Size()), newShade(p.Field.Size())}
}

// end releases everything allocated during the run.
func (o *Optimizer) end() {
	o.result.reset()
	o.pool.purge()
	o.candidates = nil
	o.slices = o.slices[:0]
	o.shades = [2]*Shade{}
	o.field = nil
}

// maxCandidates is the number of rectangles the chain generation can emit
// at most on an R x C field, used to presize storage.
func maxCandidates(rows, cols int) int {
	n := rows * cols
	return (n+1)*n/2 - rows*(rows-1)*cols*(cols-1)/4
}

// generate emits the candidate pool. For every start cell and every right
// edge the rectangle is grown downward one row at a time; a rectangle is kept
// only when the added row brought new marked cells. Candidates end up in
// ascending ratio order, generation order breaking ties.
func (o *Optimizer) generate() {
	f := o.field
	rows, cols := f.Rows(), f.Cols()
	o.candidates = make([]*Rectangle, 0, maxCandidates(rows, cols))

	for top := 0; top < rows; top++ {
		for left := 0; left < cols; left++ {
			for right := left; right < cols; right++ {
				weight := 0
				for bottom := top; bottom < rows; bottom++ {
					gain := f.Weight(bottom, left, bottom, right)
					if gain == 0 {
						continue
					}
					weight += gain
					r := o.pool.alloc(newWeightedRectangle(f, top, left, bottom, right, weight))
					o.candidates = append(o.candidates, r)
				}
			}
		}
	}

	sort.SliceStable(o.candidates, func(i, j int) bool {
		return o.candidates[i].Less(o.candidates[j])
	})
	o.stats.Candidates = len(o.candidates)
	o.log().Debug("candidates generated", "rows", rows, "cols", cols, "candidates", len(o.candidates))
}

// greedyMatch picks candidates from the high-ratio end of the pool, keeping
// each one that does not overlap the covering built so far, until every
// marked cell is covered.
func (o *Optimizer) greedyMatch() {
	size := uint(o.field.Size())
	unmatched := bitset.New(size)
	for _, c := range o.field.Marked() {
		unmatched.Set(uint(o.field.Index(c.Row, c.Col)))
	}
	covering := bitset.New(size)

	for unmatched.Any() {
		r := o.nextDisjoint(covering)
		covering.InPlaceUnion(r.Span())
		o.result.insert(r)
		unmatched.InPlaceDifference(covering)
	}
	o.candidates = nil
	o.stats.GreedyCardinality = o.result.len()
	o.assertDisjoint()
}

// nextDisjoint pops candidates until one does not intersect covering.
// Every marked cell owns a 1x1 candidate, so the pool cannot run dry while
// a marked cell is left uncovered.
func (o *Optimizer) nextDisjoint(covering *bitset.BitSet) *Rectangle {
	for n := len(o.candidates); n > 0; n = len(o.candidates) {
		r := o.candidates[n-1]
		o.candidates[n-1] = nil
		o.candidates = o.candidates[:n-1]

		r.ComputeSpan()
		if covering.IntersectionCardinality(r.Span()) == 0 {
			return r
		}
		r.dropSpan()
	}
	panic("engine: candidate pool exhausted with marked cells left uncovered")
}

func (o *Optimizer) assertDisjoint() {
	rects := o.result.rects()
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].Intersects(rects[j]) {
				panic(fmt.Sprintf("engine: greedy covering overlaps at %s and %s", rects[i], rects[j]))
			}
		}
	}
}

// overBound reports whether the covering still holds more rectangles than
// the problem allows.
func (o *Optimizer) overBound() bool {
	return o.maxRectangles > 0 && o.result.len() > o.maxRectangles
}

// localSearch repeatedly applies the best shade while it does not raise the
// cost, or while the covering exceeds its bound. It stops once no pair yields
// a feasible shade.
func (o *Optimizer) localSearch() {
	for o.result.len() >= 2 {
		best := o.bestShade()
		if best == nil {
			return
		}
		forced := best.penalty > 0
		if forced && !o.overBound() {
			return
		}
		o.apply(best)

		o.stats.Merges++
		if forced {
			o.stats.ForcedMerges++
		}
		o.log().Debug("shade applied",
			"join", best.Join().String(),
			"penalty", best.penalty,
			"envelope", best.EnvelopeSize(),
			"penumbra", best.PenumbraSize(),
			"cardinality", o.result.len())
	}
}

// bestShade evaluates every pair of the covering in insertion order and
// returns the lowest-penalty feasible shade. Among equal shades the first one
// found wins. The returned shade is scratch storage valid until the next call.
func (o *Optimizer) bestShade() *Shade {
	handles := o.result.handles()
	rects := o.result.rects()
	cur, best := o.shades[0], o.shades[1]
	found := false

	for i := 0; i < len(handles); i++ {
		for j := i + 1; j < len(handles); j++ {
			if !o.fillShade(cur, handles, rects, i, j) {
				continue
			}
			if !found || cur.less(best) {
				cur, best = best, cur
				found = true
			}
		}
	}
	if !found {
		return nil
	}
	return best
}

// fillShade builds the shade for the pair (i, j) into s. It reports false
// when some other rectangle of the covering would be split into more than
// one rectangle.
func (o *Optimizer) fillShade(s *Shade, handles []Handle, rects []*Rectangle, i, j int) bool {
	r1, r2 := rects[i], rects[j]
	if r1.Intersects(r2) {
		panic(fmt.Sprintf("engine: covering rectangles %s and %s overlap", r1, r2))
	}
	t, l, b, r := joinBounds(r1, r2)
	s.reset(handles[i], handles[j], r1, r2, newRectangle(o.field, t, l, b, r))

	o.slices = o.slices[:0]
	for k := range handles {
		if k == i || k == j {
			continue
		}
		sl := classify(handles[k], rects[k], s.Join())
		switch sl.Kind {
		case Void:
		case Increasing:
			return false
		default:
			o.slices = append(o.slices, sl)
		}
	}

	for _, sl := range o.slices {
		orig := o.result.get(sl.Original)
		if sl.Kind == Decreasing {
			s.absorb(sl.Original, orig)
			continue
		}
		s.trim(sl.Original, orig, newRectangle(o.field, sl.Top, sl.Left, sl.Bottom, sl.Right))
	}
	s.computePenalty()
	return true
}

// apply commits a shade: the pair and the envelope leave the covering, the
// join is appended and every penumbra rectangle is replaced in place by its
// slice.
func (o *Optimizer) apply(s *Shade) {
	join := o.pool.alloc(s.join)
	join.span = span{bits: s.join.Span().Clone()}

	o.result.remove(s.h1)
	o.result.remove(s.h2)
	o.result.insert(join)
	for _, h := range s.envelope {
		o.result.remove(h)
	}
	for i := range s.penumbra {
		p := &s.penumbra[i]
		sl := o.pool.alloc(p.slice)
		sl.ComputeSpan()
		o.result.replace(p.original, sl)
	}
}

// convexHull replaces the covering with the bounding box of all marked cells.
func (o *Optimizer) convexHull() {
	cells := o.field.Marked()
	top, left := cells[0].Row, cells[0].Col
	bottom, right := top, left
	for _, c := range cells[1:] {
		top = min(top, c.Row)
		bottom = max(bottom, c.Row)
		left = min(left, c.Col)
		right = max(right, c.Col)
	}
	hull := o.pool.alloc(newRectangle(o.field, top, left, bottom, right))
	hull.ComputeSpan()
	o.result.insert(hull)
	o.stats.GreedyCardinality = 1
}

// label orders the covering by descending ratio and hands out labels.
func (o *Optimizer) label() []*Rectangle {
	rects := o.result.rects()
	sort.SliceStable(rects, func(i, j int) bool {
		return rects[j].Less(rects[i])
	})
	for i, r := range rects {
		if i < len(labelAlphabet) {
			r.setLabel(labelAlphabet[i])
		} else {
			r.setLabel(o.Settings.FallbackLabel)
		}
	}
	return rects
}

// render paints the labeled covering onto the grid and totals its cost.
func (o *Optimizer) render(p model.Problem, labeled []*Rectangle) model.CoverResult {
	f := o.field
	canvas := make([][]byte, f.Rows())
	for row := range canvas {
		line := make([]byte, f.Cols())
		for col := range line {
			line[col] = o.Settings.EmptyMarker
		}
		canvas[row] = line
	}

	res := model.CoverResult{
		Index:         p.Index,
		Rows:          f.Rows(),
		Cols:          f.Cols(),
		Marked:        f.MarkedCount(),
		MaxRectangles: p.MaxRectangles,
		Cardinality:   len(labeled),
		Rects:         make([]model.PlacedRect, 0, len(labeled)),
		MarkedCells:   append([]model.Cell(nil), f.Marked()...),
	}
	for _, r := range labeled {
		res.Cost += r.Cost()
		res.Rects = append(res.Rects, r.placed())
		bits := r.Span()
		for pos, ok := bits.NextSet(0); ok; pos, ok = bits.NextSet(pos + 1) {
			row, col := f.Coordinate(int(pos))
			canvas[row][col] = r.Label()
		}
	}

	res.Grid = make([]string, len(canvas))
	for i, line := range canvas {
		res.Grid[i] = string(line)
	}
	return res
}
