package widgets

import (
	"strings"
	"testing"

	"github.com/piwi3910/CoverPlan/internal/model"
)

func TestFieldHeader(t *testing.T) {
	res := model.CoverResult{Index: 2, Rows: 5, Cols: 7, Marked: 4, Cardinality: 2, Cost: 22}
	got := FieldHeader(res)
	if !strings.Contains(got, "Field 2: 5 x 7") || !strings.Contains(got, "unbounded") {
		t.Errorf("unexpected header %q", got)
	}

	res.MaxRectangles = 3
	if got := FieldHeader(res); !strings.Contains(got, "max 3") {
		t.Errorf("expected bound in header, got %q", got)
	}
}

func TestCellSizeFitsBounds(t *testing.T) {
	cc := &CoverCanvas{result: model.CoverResult{Rows: 10, Cols: 40}, maxWidth: 600, maxHeight: 400}
	if got := cc.cellSize(); got != 15 {
		t.Errorf("expected width-limited cell size 15, got %v", got)
	}

	cc.result = model.CoverResult{Rows: 40, Cols: 10}
	if got := cc.cellSize(); got != 10 {
		t.Errorf("expected height-limited cell size 10, got %v", got)
	}

	cc.result = model.CoverResult{}
	if got := cc.cellSize(); got != 0 {
		t.Errorf("expected 0 for an empty field, got %v", got)
	}
}
