package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// ImportDXF reads a single field from a DXF drawing laid out on a unit grid:
// the cell (row, col) spans x in [col, col+1] and y in [-(row+1), -row].
// Every CIRCLE marks the cell holding its center, and LINE endpoints widen
// the field so that empty border rows and columns survive.
func ImportDXF(path string, opts Options) ImportResult {
	drawing, err := dxf.Open(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open DXF file: %v", err)}}
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		return ImportResult{Errors: []string{"DXF file contains no entities"}}
	}

	var warnings []string
	type cell struct{ row, col int }
	var marks []cell
	rows, cols := 0, 0

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.Circle:
			row := int(math.Floor(-e.Center[1]))
			col := int(math.Floor(e.Center[0]))
			if row < 0 || col < 0 {
				warnings = append(warnings,
					fmt.Sprintf("Skipped CIRCLE at (%.2f, %.2f) outside the grid", e.Center[0], e.Center[1]))
				continue
			}
			marks = append(marks, cell{row, col})
			rows = max(rows, row+1)
			cols = max(cols, col+1)

		case *entity.Line:
			for _, p := range [][]float64{e.Start[:], e.End[:]} {
				cols = max(cols, int(math.Ceil(p[0]-1e-9)))
				rows = max(rows, int(math.Ceil(-p[1]-1e-9)))
			}

		default:
			// Unsupported entity types are silently skipped
		}
	}

	if len(marks) == 0 {
		return ImportResult{Errors: []string{"DXF file contains no CIRCLE marks"}, Warnings: warnings}
	}

	grid := make([][]bool, rows)
	for i := range grid {
		grid[i] = make([]bool, cols)
	}
	for _, m := range marks {
		grid[m.row][m.col] = true
	}

	c := newCollector(opts)
	c.result.Warnings = warnings
	for i, row := range grid {
		c.addRow(fmt.Sprintf("Row %d", i+1), row)
	}
	return c.finish()
}
