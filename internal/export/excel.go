package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CoverPlan/internal/model"
)

const summarySheet = "Summary"

// ExportExcel writes a workbook with a summary sheet and one sheet per
// covering. Field sheets paint each rectangle's cells in its palette color
// and list the rectangles to the right of the grid.
func ExportExcel(path string, batch model.Batch) error {
	if len(batch.Results) == 0 {
		return fmt.Errorf("no coverings to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, batch); err != nil {
		return err
	}

	for _, res := range batch.Results {
		if err := writeFieldSheet(f, res); err != nil {
			return fmt.Errorf("field %d: %w", res.Index, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// fieldSheetName returns the sheet name used for a covering.
func fieldSheetName(index int) string {
	return fmt.Sprintf("Field %d", index)
}

func writeSummarySheet(f *excelize.File, batch model.Batch) error {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	rows := [][]interface{}{
		{"Batch", batch.ID},
		{"Source", batch.Source},
		{"Total Cost", batch.TotalCost()},
		{"Total Rectangles", batch.TotalRectangles()},
		{},
		{"Field", "Rows", "Cols", "Marked", "Bound", "Rectangles", "Cost", "Merges", "Forced Merges"},
	}
	for _, res := range batch.Results {
		rows = append(rows, []interface{}{
			res.Index, res.Rows, res.Cols, res.Marked, boundText(res.MaxRectangles),
			res.Cardinality, res.Cost, res.Stats.Merges, res.Stats.ForcedMerges,
		})
	}
	if err := setRows(f, summarySheet, 1, 1, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A6", "I6", header); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return f.SetColWidth(summarySheet, "A", "A", 18)
}

func writeFieldSheet(f *excelize.File, res model.CoverResult) error {
	sheet := fieldSheetName(res.Index)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	styles := make(map[int]int, len(res.Rects))
	for i := range res.Rects {
		col := colorFor(i)
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{hexColor(col)}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return fmt.Errorf("failed to create cell style: %w", err)
		}
		styles[i] = id
	}

	for row, line := range res.Grid {
		for col := 0; col < len(line); col++ {
			cellRef, err := excelize.CoordinatesToCellName(col+1, row+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cellRef, string(line[col])); err != nil {
				return err
			}
		}
	}

	for i, r := range res.Rects {
		top, err := excelize.CoordinatesToCellName(r.Left+1, r.Top+1)
		if err != nil {
			return err
		}
		bottom, err := excelize.CoordinatesToCellName(r.Right+1, r.Bottom+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, top, bottom, styles[i]); err != nil {
			return fmt.Errorf("failed to style rectangle %s: %w", r.Label, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(max(res.Cols, 1))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 3); err != nil {
		return err
	}

	rows := [][]interface{}{{"Label", "Top", "Left", "Bottom", "Right", "Area", "Weight", "Cost"}}
	for _, r := range res.Rects {
		rows = append(rows, []interface{}{r.Label, r.Top, r.Left, r.Bottom, r.Right, r.Area, r.Weight, r.Cost})
	}
	return setRows(f, sheet, res.Cols+2, 1, rows)
}

// setRows writes a block of values with its top-left corner at (col, row).
func setRows(f *excelize.File, sheet string, col, row int, rows [][]interface{}) error {
	for i, values := range rows {
		for j, v := range values {
			cellRef, err := excelize.CoordinatesToCellName(col+j, row+i)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cellRef, v); err != nil {
				return fmt.Errorf("failed to set %s!%s: %w", sheet, cellRef, err)
			}
		}
	}
	return nil
}

func hexColor(c rectColor) string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}
