package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// boundKeys are the first-cell values that mark a bound row in a matrix.
var boundKeys = map[string]bool{
	"bound":          true,
	"max":            true,
	"max_rectangles": true,
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent multi-column rows wins; single-column data falls back to comma.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// parseCell maps a matrix cell to its marked state.
func parseCell(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "@", "x", "#":
		return true, true
	case "0", ".", "", "-":
		return false, true
	default:
		return false, false
	}
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// isBoundRow reports whether the row carries a bound instead of cells.
func isBoundRow(row []string) bool {
	return len(row) > 0 && boundKeys[strings.ToLower(strings.TrimSpace(row[0]))]
}

// addMatrixRow parses one matrix row into c. Widths shorter than width are
// padded with empty cells.
func addMatrixRow(c *collector, label string, row []string, width int) {
	if isBoundRow(row) {
		raw := ""
		if len(row) > 1 {
			raw = row[1]
		}
		c.setBound(label, raw)
		return
	}

	cells := make([]bool, max(len(row), width))
	for i, cell := range row {
		marked, ok := parseCell(cell)
		if !ok {
			c.fail("%s: Invalid cell '%s' in column %d", label, strings.TrimSpace(cell), i+1)
			return
		}
		cells[i] = marked
	}
	c.addRow(label, cells)
}

// ImportCSV imports fields from a CSV matrix file.
// Blank rows separate fields and a row whose first cell is "bound" sets the
// rectangle bound of the current field.
func ImportCSV(path string, opts Options) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	result := ImportCSVFromReader(bytes.NewReader(data), delimiter, opts)
	result.Warnings = append(warnings, result.Warnings...)
	return result
}

// ImportCSVFromReader imports fields from a CSV reader with a specific delimiter.
// Blank lines are significant here, so the input is split into blocks before
// each block is handed to the CSV reader.
func ImportCSVFromReader(reader io.Reader, delimiter rune, opts Options) ImportResult {
	data, err := io.ReadAll(reader)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}

	c := newCollector(opts)
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	blockStart := 0
	for i := 0; i <= len(lines); i++ {
		if i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			continue
		}
		if i > blockStart {
			readCSVBlock(c, strings.Join(lines[blockStart:i], "\n"), blockStart, delimiter)
		}
		c.flush()
		blockStart = i + 1
	}
	return c.finish()
}

// readCSVBlock parses the rows of a single field. offset is the number of
// lines before the block, used for messages.
func readCSVBlock(c *collector, block string, offset int, delimiter rune) {
	csvReader := csv.NewReader(strings.NewReader(block))
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		c.fail("Line %d: Cannot read CSV: %v", offset+1, err)
		return
	}
	for i, row := range records {
		if isEmptyRow(row) {
			c.flush()
			continue
		}
		addMatrixRow(c, fmt.Sprintf("Line %d", offset+i+1), row, 0)
	}
}

// ImportExcel imports one field per sheet of an Excel workbook. Empty cells
// are unmarked, so short rows are padded to the sheet's widest row.
func ImportExcel(path string, opts Options) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open Excel file: %v", err)}}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{Errors: []string{"Excel file has no sheets"}}
	}

	c := newCollector(opts)
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			c.fail("Sheet %s: Cannot read Excel data: %v", sheet, err)
			c.flush()
			continue
		}
		width := 0
		for _, row := range rows {
			if !isBoundRow(row) {
				width = max(width, len(row))
			}
		}
		if width == 0 {
			c.result.Warnings = append(c.result.Warnings, fmt.Sprintf("Sheet %s: Sheet is empty, skipping", sheet))
			continue
		}

		for i, row := range rows {
			addMatrixRow(c, fmt.Sprintf("Sheet %s row %d", sheet, i+1), row, width)
		}
		c.flush()
	}
	return c.finish()
}
