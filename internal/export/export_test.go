package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CoverPlan/internal/importer"
	"github.com/piwi3910/CoverPlan/internal/model"
)

// buildTestBatch creates a two-field batch for testing.
func buildTestBatch() model.Batch {
	batch := model.NewBatch("strawberries.txt")
	batch.Results = []model.CoverResult{
		{
			Index:       1,
			Rows:        3,
			Cols:        5,
			Marked:      2,
			Cardinality: 2,
			Cost:        22,
			Rects: []model.PlacedRect{
				{Label: "A", Top: 2, Left: 4, Bottom: 2, Right: 4, Area: 1, Weight: 1, Cost: 11},
				{Label: "B", Top: 0, Left: 0, Bottom: 0, Right: 0, Area: 1, Weight: 1, Cost: 11},
			},
			Grid:        []string{"B....", ".....", "....A"},
			MarkedCells: []model.Cell{{Row: 0, Col: 0}, {Row: 2, Col: 4}},
		},
		{
			Index:         2,
			Rows:          2,
			Cols:          2,
			Marked:        3,
			MaxRectangles: 1,
			Cardinality:   1,
			Cost:          14,
			Rects: []model.PlacedRect{
				{Label: "A", Top: 0, Left: 0, Bottom: 1, Right: 1, Area: 4, Weight: 3, Cost: 14},
			},
			Grid:        []string{"AA", "AA"},
			MarkedCells: []model.Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 1}},
		},
	}
	return batch
}

const wantReport = "Cardinality:2\nCost:22\n=====\nB....\n.....\n....A\n\n" +
	"Cardinality:1\nCost:14\n==\nAA\nAA\n\n" +
	"Total Cost: 36\n"

func TestWriteReport_Layout(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, buildTestBatch()); err != nil {
		t.Fatalf("WriteReport returned error: %v", err)
	}
	if buf.String() != wantReport {
		t.Errorf("unexpected report:\n%q\nwant:\n%q", buf.String(), wantReport)
	}
}

func TestExportText_TruncateAndAppend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "optimal_covering.txt")
	if err := os.WriteFile(path, []byte("stale\n"), 0644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	batch := buildTestBatch()
	if err := ExportText(path, batch, false); err != nil {
		t.Fatalf("ExportText returned error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != wantReport {
		t.Errorf("expected the stale content to be replaced, got %q", string(data))
	}

	if err := ExportText(path, batch, true); err != nil {
		t.Fatalf("ExportText returned error: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != wantReport+wantReport {
		t.Errorf("expected the report twice after appending, got %d bytes", len(data))
	}
}

func TestExportJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "covering.json")
	batch := buildTestBatch()

	if err := ExportJSON(path, batch); err != nil {
		t.Fatalf("ExportJSON returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("JSON file was not created: %v", err)
	}
	var decoded model.Batch
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.ID != batch.ID || len(decoded.Results) != 2 {
		t.Errorf("decoded batch does not match: %+v", decoded)
	}
	if decoded.Results[0].Rects[1].Label != "B" {
		t.Errorf("expected label B, got %q", decoded.Results[0].Rects[1].Label)
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "covering.pdf")

	if err := ExportPDF(path, buildTestBatch()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	// Two field pages plus the summary with its QR image
	if info.Size() < 1000 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_EmptyBatch(t *testing.T) {
	dir := t.TempDir()
	if err := ExportPDF(filepath.Join(dir, "empty.pdf"), model.Batch{}); err == nil {
		t.Fatal("expected error for empty batch, got nil")
	}
}

func TestCollectSummary(t *testing.T) {
	info := CollectSummary(buildTestBatch())

	if info.TotalCost != 36 {
		t.Errorf("expected total cost 36, got %d", info.TotalCost)
	}
	if len(info.Fields) != 2 || info.Fields[1].Cardinality != 1 {
		t.Errorf("unexpected field summaries: %+v", info.Fields)
	}
	if info.Truncated {
		t.Error("small batch must not be truncated")
	}
}

func TestCollectSummary_Truncates(t *testing.T) {
	batch := model.NewBatch("many.txt")
	for i := 0; i < maxSummaryFields+5; i++ {
		batch.Results = append(batch.Results, model.CoverResult{Index: i + 1, Cost: 11, Cardinality: 1})
	}

	info := CollectSummary(batch)
	if len(info.Fields) != maxSummaryFields || !info.Truncated {
		t.Errorf("expected %d fields and truncation, got %d (%v)", maxSummaryFields, len(info.Fields), info.Truncated)
	}
	if info.TotalCost != 11*(maxSummaryFields+5) {
		t.Errorf("total cost must cover every field, got %d", info.TotalCost)
	}
	if _, err := summaryQR(batch); err != nil {
		t.Errorf("truncated summary should fit a QR code: %v", err)
	}
}

func TestExportExcel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "covering.xlsx")

	if err := ExportExcel(path, buildTestBatch()); err != nil {
		t.Fatalf("ExportExcel returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{"Summary", "Field 1", "Field 2"}
	if strings.Join(sheets, ",") != strings.Join(want, ",") {
		t.Fatalf("expected sheets %v, got %v", want, sheets)
	}

	total, err := f.GetCellValue("Summary", "B3")
	if err != nil || total != "36" {
		t.Errorf("expected total cost 36 in B3, got %q (%v)", total, err)
	}
	label, err := f.GetCellValue("Field 1", "E3")
	if err != nil || label != "A" {
		t.Errorf("expected label A at E3, got %q (%v)", label, err)
	}
	header, err := f.GetCellValue("Field 1", "G1")
	if err != nil || header != "Label" {
		t.Errorf("expected rectangle table next to the grid, got %q (%v)", header, err)
	}
}

func TestExportDXF_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "field.dxf")
	res := buildTestBatch().Results[0]

	if err := ExportDXF(path, res); err != nil {
		t.Fatalf("ExportDXF returned error: %v", err)
	}

	imported := importer.ImportDXF(path, importer.Options{})
	if len(imported.Errors) > 0 {
		t.Fatalf("unexpected import errors: %v", imported.Errors)
	}
	if len(imported.Problems) != 1 {
		t.Fatalf("expected 1 field, got %d", len(imported.Problems))
	}
	f := imported.Problems[0].Field
	if f.Rows() != res.Rows || f.Cols() != res.Cols {
		t.Errorf("expected %dx%d field, got %dx%d", res.Rows, res.Cols, f.Rows(), f.Cols())
	}
	if f.MarkedCount() != 2 || !f.IsMarked(0, 0) || !f.IsMarked(2, 4) {
		t.Errorf("marked cells did not survive the round trip")
	}
}

func TestExportBatchDXF_OneFilePerField(t *testing.T) {
	dir := t.TempDir()
	written, err := ExportBatchDXF(filepath.Join(dir, "cover.dxf"), buildTestBatch())
	if err != nil {
		t.Fatalf("ExportBatchDXF returned error: %v", err)
	}

	want := []string{filepath.Join(dir, "cover-field1.dxf"), filepath.Join(dir, "cover-field2.dxf")}
	if strings.Join(written, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, written)
	}
	for _, p := range written {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"text", FormatText, false},
		{"TXT", FormatText, false},
		{"json", FormatJSON, false},
		{"excel", FormatExcel, false},
		{" pdf ", FormatPDF, false},
		{"dxf", FormatDXF, false},
		{"svg", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if got := OutputPath("out/optimal_covering.txt", FormatText); got != "out/optimal_covering.txt" {
		t.Errorf("text path changed: %s", got)
	}
	if got := OutputPath("out/optimal_covering.txt", FormatPDF); got != "out/optimal_covering.pdf" {
		t.Errorf("unexpected pdf path: %s", got)
	}
	if got := OutputPath("report", FormatExcel); got != "report.xlsx" {
		t.Errorf("unexpected xlsx path: %s", got)
	}
}

func TestWrite_Dispatch(t *testing.T) {
	dir := t.TempDir()
	batch := buildTestBatch()

	for _, format := range Formats {
		path := OutputPath(filepath.Join(dir, "result.txt"), format)
		written, err := Write(format, path, batch, Options{})
		if err != nil {
			t.Fatalf("%s: Write returned error: %v", format, err)
		}
		if len(written) == 0 {
			t.Errorf("%s: no files reported", format)
		}
	}

	if _, err := Write("svg", filepath.Join(dir, "x.svg"), batch, Options{}); err == nil {
		t.Error("expected error for unknown format")
	}
}
