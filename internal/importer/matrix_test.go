package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "0,1,0\n1,0,0\n", ','},
		{"semicolon", "0;1;0\n1;0;0\n", ';'},
		{"tab", "0\t1\t0\n1\t0\t0\n", '\t'},
		{"pipe", "0|1|0\n1|0|0\n", '|'},
		{"single column", "1\n0\n", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in     string
		marked bool
		ok     bool
	}{
		{"1", true, true},
		{" @ ", true, true},
		{"X", true, true},
		{"0", false, true},
		{"", false, true},
		{".", false, true},
		{"2", false, false},
		{"yes", false, false},
	}
	for _, tt := range tests {
		marked, ok := parseCell(tt.in)
		if marked != tt.marked || ok != tt.ok {
			t.Errorf("parseCell(%q) = (%v, %v), expected (%v, %v)", tt.in, marked, ok, tt.marked, tt.ok)
		}
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_Matrix(t *testing.T) {
	input := "bound,2\n1,0,1\n0,0,0\n\n1,1\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',', Options{})

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Problems) != 2 {
		t.Fatalf("expected 2 problems, got %d", len(result.Problems))
	}
	first := result.Problems[0]
	if first.MaxRectangles != 2 {
		t.Errorf("expected bound 2, got %d", first.MaxRectangles)
	}
	if first.Field.Rows() != 2 || first.Field.Cols() != 3 {
		t.Errorf("expected 2x3 field, got %dx%d", first.Field.Rows(), first.Field.Cols())
	}
	if !first.Field.IsMarked(0, 0) || first.Field.IsMarked(0, 1) || !first.Field.IsMarked(0, 2) {
		t.Error("marked cells do not match the input")
	}
	if result.Problems[1].MaxRectangles != 0 {
		t.Errorf("bound must not carry over, got %d", result.Problems[1].MaxRectangles)
	}
}

func TestImportCSVFromReader_InvalidCell(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("1,0\n1,maybe\n"), ',', Options{})

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Line 2") || !strings.Contains(result.Errors[0], "column 2") {
		t.Errorf("unexpected error %q", result.Errors[0])
	}
}

func TestImportCSVFromReader_RaggedRows(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("1,0,1\n1,0\n"), ',', Options{})

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',', Options{})

	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "field.csv")
	if err := os.WriteFile(path, []byte("1;0;0\n0;0;1\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := Import(path, Options{})

	if len(result.Problems) != 1 {
		t.Fatalf("expected 1 problem, got %d (errors: %v)", len(result.Problems), result.Errors)
	}
	hasSemicolonWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			hasSemicolonWarning = true
		}
	}
	if !hasSemicolonWarning {
		t.Error("expected warning about semicolon delimiter detection")
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/path/file.csv", Options{})

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path, Options{})

	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestWorkbook(t *testing.T, sheets map[string][][]interface{}, order []string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fields.xlsx")

	f := excelize.NewFile()
	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				t.Fatalf("failed to rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("failed to add sheet: %v", err)
		}

		for r, row := range sheets[name] {
			for c, cell := range row {
				if cell == nil {
					continue
				}
				cellRef, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("failed to create cell reference: %v", err)
				}
				if err := f.SetCellValue(name, cellRef, cell); err != nil {
					t.Fatalf("failed to set cell value: %v", err)
				}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_SheetPerField(t *testing.T) {
	path := createTestWorkbook(t, map[string][][]interface{}{
		"North": {
			{"bound", 3},
			{1, 0, 0, 1},
			{0, nil, nil, nil},
			{1},
		},
		"South": {
			{"@", "."},
		},
	}, []string{"North", "South"})

	result := ImportExcel(path, Options{})

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Problems) != 2 {
		t.Fatalf("expected 2 problems, got %d", len(result.Problems))
	}
	north := result.Problems[0]
	if north.MaxRectangles != 3 {
		t.Errorf("expected bound 3, got %d", north.MaxRectangles)
	}
	if north.Field.Rows() != 3 || north.Field.Cols() != 4 {
		t.Errorf("expected short rows padded to 3x4, got %dx%d", north.Field.Rows(), north.Field.Cols())
	}
	if north.Field.MarkedCount() != 3 {
		t.Errorf("expected 3 marked cells, got %d", north.Field.MarkedCount())
	}
	if result.Problems[1].Field.MarkedCount() != 1 {
		t.Errorf("expected 1 marked cell on the second sheet, got %d", result.Problems[1].Field.MarkedCount())
	}
}

func TestImportExcel_InvalidCell(t *testing.T) {
	path := createTestWorkbook(t, map[string][][]interface{}{
		"Field": {{1, "abc"}},
	}, []string{"Field"})

	result := ImportExcel(path, Options{})

	if len(result.Errors) == 0 {
		t.Error("expected error for invalid cell")
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/file.xlsx", Options{})

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}
