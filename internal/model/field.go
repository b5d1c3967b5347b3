package model

import "fmt"

// Cell is a single grid coordinate, zero-based from the top-left corner.
type Cell struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// Field is an immutable R×C grid of marked and unmarked cells.
// It precomputes a summed-area table so that the number of marked cells
// inside any axis-aligned sub-rectangle is an O(1) query.
type Field struct {
	rows   int
	cols   int
	marked []bool // row-major
	sums   []int  // (rows+1)×(cols+1) summed-area table
	cells  []Cell // marked cells in row-major order
}

// NewField builds a Field from a row-major boolean matrix.
// All rows must have the same, non-zero length.
func NewField(grid [][]bool) (*Field, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("field has no rows")
	}
	cols := len(grid[0])
	if cols == 0 {
		return nil, fmt.Errorf("field has no columns")
	}

	f := &Field{
		rows:   len(grid),
		cols:   cols,
		marked: make([]bool, len(grid)*cols),
		sums:   make([]int, (len(grid)+1)*(cols+1)),
	}
	stride := cols + 1
	for r, row := range grid {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", r+1, len(row), cols)
		}
		rowSum := 0
		for c, m := range row {
			if m {
				f.marked[r*cols+c] = true
				f.cells = append(f.cells, Cell{Row: r, Col: c})
				rowSum++
			}
			f.sums[(r+1)*stride+c+1] = f.sums[r*stride+c+1] + rowSum
		}
	}
	return f, nil
}

// Rows returns the number of grid rows.
func (f *Field) Rows() int { return f.rows }

// Cols returns the number of grid columns.
func (f *Field) Cols() int { return f.cols }

// Size returns rows*cols, the length of every coverage mask over this field.
func (f *Field) Size() int { return f.rows * f.cols }

// Index maps a cell to its row-major mask position.
func (f *Field) Index(row, col int) int { return row*f.cols + col }

// Coordinate is the inverse of Index.
func (f *Field) Coordinate(idx int) (row, col int) { return idx / f.cols, idx % f.cols }

// IsMarked reports whether the cell at (row, col) is marked.
func (f *Field) IsMarked(row, col int) bool {
	return f.marked[f.Index(row, col)]
}

// Marked returns the marked cells in row-major order. The slice is shared
// and must not be modified.
func (f *Field) Marked() []Cell { return f.cells }

// MarkedCount returns the number of marked cells.
func (f *Field) MarkedCount() int { return len(f.cells) }

// Weight returns the number of marked cells inside the inclusive rectangle
// (top, left)-(bottom, right).
func (f *Field) Weight(top, left, bottom, right int) int {
	stride := f.cols + 1
	return f.sums[(bottom+1)*stride+right+1] -
		f.sums[top*stride+right+1] -
		f.sums[(bottom+1)*stride+left] +
		f.sums[top*stride+left]
}

// Problem is one field to optimize together with its cardinality bound.
type Problem struct {
	Index         int // 1-based position in the input
	Field         *Field
	MaxRectangles int // 0 means unbounded
}

// Bounded reports whether the problem carries a cardinality bound.
func (p Problem) Bounded() bool { return p.MaxRectangles > 0 }
