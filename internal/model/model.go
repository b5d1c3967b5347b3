package model

import (
	"time"

	"github.com/google/uuid"
)

// RectangleOverhead is the fixed per-rectangle cost added to its area.
const RectangleOverhead = 10

// CoverSettings holds the optimizer's rendering knobs.
type CoverSettings struct {
	EmptyMarker   byte // grid character for cells outside every rectangle
	FallbackLabel byte // label for rectangles beyond the 52nd
}

func DefaultSettings() CoverSettings {
	return CoverSettings{
		EmptyMarker:   '.',
		FallbackLabel: '0',
	}
}

// PlacedRect is one labeled rectangle of a finished covering.
// Bounds are inclusive cell coordinates.
type PlacedRect struct {
	Label  string `json:"label"`
	Top    int    `json:"top"`
	Left   int    `json:"left"`
	Bottom int    `json:"bottom"`
	Right  int    `json:"right"`
	Area   int    `json:"area"`
	Weight int    `json:"weight"` // marked cells inside
	Cost   int    `json:"cost"`
}

// Height returns the number of rows spanned.
func (p PlacedRect) Height() int { return p.Bottom - p.Top + 1 }

// Width returns the number of columns spanned.
func (p PlacedRect) Width() int { return p.Right - p.Left + 1 }

// Contains reports whether the cell lies inside the rectangle.
func (p PlacedRect) Contains(row, col int) bool {
	return row >= p.Top && row <= p.Bottom && col >= p.Left && col <= p.Right
}

// CoverStats records what each optimizer phase did during one run.
type CoverStats struct {
	Candidates        int           `json:"candidates"`
	GreedyCardinality int           `json:"greedy_cardinality"`
	Merges            int           `json:"merges"`
	ForcedMerges      int           `json:"forced_merges"` // cost-increasing merges taken to meet the bound
	Elapsed           time.Duration `json:"elapsed_ns"`
}

// CoverResult is the outcome of optimizing one field.
type CoverResult struct {
	Index         int          `json:"index"`
	Rows          int          `json:"rows"`
	Cols          int          `json:"cols"`
	Marked        int          `json:"marked"`
	MaxRectangles int          `json:"max_rectangles,omitempty"`
	Cardinality   int          `json:"cardinality"`
	Cost          int          `json:"cost"`
	Rects         []PlacedRect `json:"rectangles"`
	Grid          []string     `json:"grid"` // rendered rows, one label or empty marker per cell
	MarkedCells   []Cell       `json:"marked_cells"`
	Stats         CoverStats   `json:"stats"`
}

// Covered reports whether the cell lies inside any rectangle of the result.
func (cr CoverResult) Covered(row, col int) bool {
	for _, r := range cr.Rects {
		if r.Contains(row, col) {
			return true
		}
	}
	return false
}

// Batch holds the results of every field read from one input.
type Batch struct {
	ID      string        `json:"id"`
	Source  string        `json:"source"`
	Results []CoverResult `json:"results"`
}

func NewBatch(source string) Batch {
	return Batch{
		ID:     uuid.New().String()[:8],
		Source: source,
	}
}

// TotalCost sums the cost of every covering in the batch.
func (b Batch) TotalCost() int {
	total := 0
	for _, r := range b.Results {
		total += r.Cost
	}
	return total
}

// TotalRectangles sums the cardinality of every covering in the batch.
func (b Batch) TotalRectangles() int {
	total := 0
	for _, r := range b.Results {
		total += r.Cardinality
	}
	return total
}
