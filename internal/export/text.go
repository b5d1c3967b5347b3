// Package export renders finished coverings to the plain text report and to
// JSON, PDF, Excel and DXF files.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/piwi3910/CoverPlan/internal/model"
)

// WriteCovering writes one covering in the text report layout: the
// cardinality and cost lines, a ruler as wide as the field, the labeled grid
// and a closing blank line.
func WriteCovering(w io.Writer, res model.CoverResult) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Cardinality:%d\n", res.Cardinality)
	fmt.Fprintf(bw, "Cost:%d\n", res.Cost)
	bw.WriteString(strings.Repeat("=", res.Cols))
	bw.WriteByte('\n')
	for _, line := range res.Grid {
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// WriteTotal writes the closing total cost line of a report.
func WriteTotal(w io.Writer, batch model.Batch) error {
	_, err := fmt.Fprintf(w, "Total Cost: %d\n", batch.TotalCost())
	return err
}

// WriteReport writes every covering of the batch followed by the total.
func WriteReport(w io.Writer, batch model.Batch) error {
	for _, res := range batch.Results {
		if err := WriteCovering(w, res); err != nil {
			return fmt.Errorf("failed to write field %d: %w", res.Index, err)
		}
	}
	return WriteTotal(w, batch)
}

// ExportText writes the report to path. With appendOutput the report is added
// to the end of an existing file instead of replacing it.
func ExportText(path string, batch model.Batch, appendOutput bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendOutput {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open report: %w", err)
	}

	if err := WriteReport(f, batch); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report: %w", err)
	}
	return nil
}
