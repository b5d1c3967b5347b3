// Package importer reads fields of marked cells from the plain text format,
// CSV matrices, Excel workbooks and DXF drawings. Every reader collects
// per-line problems instead of stopping at the first one, so a single bad
// field does not hide the others.
package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/CoverPlan/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Problems []model.Problem
	Errors   []string
	Warnings []string
}

// Err folds the collected error messages into a single error, or returns nil.
func (r ImportResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return errors.New(strings.Join(r.Errors, "; "))
}

// Options tune how fields are turned into problems.
type Options struct {
	// DefaultMaxRectangles applies to fields without their own bound line.
	DefaultMaxRectangles int
}

// Import reads path with the reader matching its extension. Unknown
// extensions are read as the plain text format.
func Import(path string, opts Options) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return ImportCSV(path, opts)
	case ".xlsx", ".xlsm":
		return ImportExcel(path, opts)
	case ".dxf":
		return ImportDXF(path, opts)
	default:
		return ImportText(path, opts)
	}
}

// ImportText reads the plain text field format from a file.
func ImportText(path string, opts Options) ImportResult {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	defer f.Close()
	return ParseFields(f, opts)
}

// ParseFields reads fields separated by blank lines. Rows use '.' for an
// empty cell and '@' for a marked one; a line starting with a digit sets the
// rectangle bound of the field it belongs to.
func ParseFields(r io.Reader, opts Options) ImportResult {
	c := newCollector(opts)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimRight(sc.Text(), "\r\t ")
		label := fmt.Sprintf("Line %d", lineNum)

		switch {
		case line == "":
			c.flush()
		case line[0] >= '0' && line[0] <= '9':
			c.setBound(label, line)
		default:
			row, err := parseTextRow(line)
			if err != nil {
				c.fail("%s: %v", label, err)
				continue
			}
			c.addRow(label, row)
		}
	}
	if err := sc.Err(); err != nil {
		c.result.Errors = append(c.result.Errors, fmt.Sprintf("Cannot read input: %v", err))
	}
	return c.finish()
}

func parseTextRow(line string) ([]bool, error) {
	row := make([]bool, len(line))
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '.':
		case '@':
			row[i] = true
		default:
			return nil, fmt.Errorf("unexpected character %q at column %d", line[i], i+1)
		}
	}
	return row, nil
}

// collector assembles rows into fields and fields into problems.
type collector struct {
	opts   Options
	result ImportResult

	fields  int // fields started so far, used as 1-based field index
	started bool
	rows    [][]bool
	bound   int
	bounded bool
	broken  bool
}

func newCollector(opts Options) *collector {
	return &collector{opts: opts}
}

func (c *collector) start() {
	if !c.started {
		c.started = true
		c.fields++
	}
}

func (c *collector) fail(format string, args ...any) {
	c.start()
	c.broken = true
	c.result.Errors = append(c.result.Errors, fmt.Sprintf(format, args...))
}

func (c *collector) setBound(label, raw string) {
	c.start()
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		c.fail("%s: Invalid rectangle bound '%s'", label, strings.TrimSpace(raw))
		return
	}
	c.bound, c.bounded = n, true
}

func (c *collector) addRow(label string, row []bool) {
	c.start()
	if len(c.rows) > 0 && len(row) != len(c.rows[0]) {
		c.fail("%s: Row has %d cells, expected %d", label, len(row), len(c.rows[0]))
		return
	}
	c.rows = append(c.rows, row)
}

// flush closes the current field. Broken fields have already reported their
// errors and are dropped.
func (c *collector) flush() {
	if !c.started {
		return
	}
	defer c.reset()
	if c.broken {
		return
	}

	name := fmt.Sprintf("Field %d", c.fields)
	if len(c.rows) == 0 {
		c.result.Warnings = append(c.result.Warnings, fmt.Sprintf("%s: Bound without rows, skipping", name))
		return
	}
	f, err := model.NewField(c.rows)
	if err != nil {
		c.result.Errors = append(c.result.Errors, fmt.Sprintf("%s: %v", name, err))
		return
	}
	if f.MarkedCount() == 0 {
		c.result.Warnings = append(c.result.Warnings, fmt.Sprintf("%s: No marked cells, skipping", name))
		return
	}

	bound := c.opts.DefaultMaxRectangles
	if c.bounded {
		bound = c.bound
	}
	c.result.Problems = append(c.result.Problems, model.Problem{
		Index:         c.fields,
		Field:         f,
		MaxRectangles: bound,
	})
}

func (c *collector) reset() {
	c.started = false
	c.rows = nil
	c.bound, c.bounded = 0, false
	c.broken = false
}

func (c *collector) finish() ImportResult {
	c.flush()
	if len(c.result.Problems) == 0 && len(c.result.Errors) == 0 {
		c.result.Errors = append(c.result.Errors, "No fields with marked cells found")
	}
	return c.result
}
