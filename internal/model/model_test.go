package model

import (
	"testing"
)

func gridFrom(rows ...string) [][]bool {
	grid := make([][]bool, len(rows))
	for i, row := range rows {
		grid[i] = make([]bool, len(row))
		for j := range row {
			grid[i][j] = row[j] == '@'
		}
	}
	return grid
}

func TestNewFieldRejectsRaggedRows(t *testing.T) {
	_, err := NewField([][]bool{{true, false}, {true}})
	if err == nil {
		t.Fatal("expected error for ragged rows")
	}
}

func TestNewFieldRejectsEmpty(t *testing.T) {
	if _, err := NewField(nil); err == nil {
		t.Error("expected error for nil grid")
	}
	if _, err := NewField([][]bool{{}}); err == nil {
		t.Error("expected error for zero columns")
	}
}

func TestFieldWeightMatchesBruteForce(t *testing.T) {
	f, err := NewField(gridFrom(
		"@..@.",
		".@@..",
		"@.@.@",
		"...@@",
	))
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}

	for top := 0; top < f.Rows(); top++ {
		for left := 0; left < f.Cols(); left++ {
			for bottom := top; bottom < f.Rows(); bottom++ {
				for right := left; right < f.Cols(); right++ {
					want := 0
					for r := top; r <= bottom; r++ {
						for c := left; c <= right; c++ {
							if f.IsMarked(r, c) {
								want++
							}
						}
					}
					if got := f.Weight(top, left, bottom, right); got != want {
						t.Fatalf("Weight(%d,%d,%d,%d) = %d, want %d", top, left, bottom, right, got, want)
					}
				}
			}
		}
	}
}

func TestFieldMarkedCellsRowMajor(t *testing.T) {
	f, err := NewField(gridFrom(
		".@",
		"@@",
	))
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}
	want := []Cell{{0, 1}, {1, 0}, {1, 1}}
	got := f.Marked()
	if len(got) != len(want) {
		t.Fatalf("expected %d marked cells, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("marked[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if f.MarkedCount() != 3 {
		t.Errorf("expected MarkedCount=3, got %d", f.MarkedCount())
	}
}

func TestFieldIndexRoundTrip(t *testing.T) {
	f, _ := NewField(gridFrom("...", "...", "..@"))
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			gr, gc := f.Coordinate(f.Index(r, c))
			if gr != r || gc != c {
				t.Errorf("Coordinate(Index(%d,%d)) = (%d,%d)", r, c, gr, gc)
			}
		}
	}
}

func TestBatchTotals(t *testing.T) {
	b := NewBatch("input.txt")
	if len(b.ID) != 8 {
		t.Errorf("expected 8-char batch ID, got %q", b.ID)
	}
	b.Results = []CoverResult{
		{Cost: 11, Cardinality: 1},
		{Cost: 25, Cardinality: 2},
	}
	if b.TotalCost() != 36 {
		t.Errorf("expected TotalCost=36, got %d", b.TotalCost())
	}
	if b.TotalRectangles() != 3 {
		t.Errorf("expected TotalRectangles=3, got %d", b.TotalRectangles())
	}
}

func TestPlacedRectGeometry(t *testing.T) {
	p := PlacedRect{Top: 1, Left: 2, Bottom: 3, Right: 2}
	if p.Height() != 3 || p.Width() != 1 {
		t.Errorf("expected 3x1, got %dx%d", p.Height(), p.Width())
	}
	if !p.Contains(2, 2) {
		t.Error("expected (2,2) inside")
	}
	if p.Contains(0, 2) || p.Contains(2, 3) {
		t.Error("expected cells outside bounds to be excluded")
	}
}
