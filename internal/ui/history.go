package ui

import (
	"fmt"

	"github.com/piwi3910/CoverPlan/internal/model"
)

const defaultMaxDepth = 50

// Snapshot is one recorded viewer state: the loaded fields and, once
// optimized, the batch covering them.
type Snapshot struct {
	Label    string // action that produced the state, e.g. "Optimize"
	Source   string
	Problems []model.Problem
	Batch    *model.Batch
	BatchID  string // empty until the fields are optimized
}

// History is a linear timeline of recorded states with a cursor on the
// current one. Recording after an undo drops the states ahead of the cursor.
type History struct {
	entries  []Snapshot
	cursor   int // index of the current state, -1 when nothing is recorded
	maxDepth int
}

func NewHistory() *History {
	return &History{cursor: -1, maxDepth: defaultMaxDepth}
}

// Record appends s as the new current state. The oldest states fall off
// once the timeline exceeds its depth.
func (h *History) Record(s Snapshot) {
	h.entries = append(h.entries[:h.cursor+1], s)
	if over := len(h.entries) - h.maxDepth; over > 0 {
		h.entries = append([]Snapshot(nil), h.entries[over:]...)
	}
	h.cursor = len(h.entries) - 1
}

// Undo steps back to the previous state.
func (h *History) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo steps forward to the state undone last.
func (h *History) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor >= 0 && h.cursor < len(h.entries)-1 }

func (h *History) Clear() {
	h.entries = nil
	h.cursor = -1
}

// Timeline describes every recorded state, oldest first, marking the
// current one with '*'.
func (h *History) Timeline() []string {
	lines := make([]string, len(h.entries))
	for i, s := range h.entries {
		mark := " "
		if i == h.cursor {
			mark = "*"
		}
		line := fmt.Sprintf("%s %s: %d fields", mark, s.Label, len(s.Problems))
		if s.BatchID != "" {
			line += fmt.Sprintf(", batch %s cost %d", s.BatchID, s.Batch.TotalCost())
		}
		lines[i] = line
	}
	return lines
}

// copyProblems copies the problem list. Fields are never mutated after
// import, so they are shared.
func copyProblems(problems []model.Problem) []model.Problem {
	if problems == nil {
		return nil
	}
	cp := make([]model.Problem, len(problems))
	copy(cp, problems)
	return cp
}

// copyBatch returns a deep copy of a batch.
func copyBatch(batch *model.Batch) *model.Batch {
	if batch == nil {
		return nil
	}
	cp := *batch
	cp.Results = make([]model.CoverResult, len(batch.Results))
	for i, res := range batch.Results {
		cp.Results[i] = res
		cp.Results[i].Rects = append([]model.PlacedRect(nil), res.Rects...)
		cp.Results[i].Grid = append([]string(nil), res.Grid...)
		cp.Results[i].MarkedCells = append([]model.Cell(nil), res.MarkedCells...)
	}
	return &cp
}

// MakeSnapshot captures a state independent of the caller's slices.
func MakeSnapshot(label, source string, problems []model.Problem, batch *model.Batch) Snapshot {
	s := Snapshot{
		Label:    label,
		Source:   source,
		Problems: copyProblems(problems),
		Batch:    copyBatch(batch),
	}
	if batch != nil {
		s.BatchID = batch.ID
	}
	return s
}
