package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/CoverPlan/internal/model"
)

// DXF layer names.
const (
	layerField = "FIELD"
	layerCover = "COVER"
	layerMarks = "MARKS"
	layerLabel = "LABELS"
)

// markRadius is the radius of the circle drawn on every marked cell.
const markRadius = 0.3

// ExportDXF draws one covering on a unit grid: the cell (row, col) spans x in
// [col, col+1] and y in [-(row+1), -row]. Marked cells become circles, so the
// drawing can be read back as a field.
func ExportDXF(path string, res model.CoverResult) error {
	d := dxf.NewDrawing()

	layers := []struct {
		name  string
		color color.ColorNumber
	}{
		{layerField, color.White},
		{layerCover, color.Green},
		{layerMarks, color.Red},
		{layerLabel, color.Cyan},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	rows, cols := float64(res.Rows), float64(res.Cols)
	if err := d.ChangeLayer(layerField); err != nil {
		return err
	}
	if err := outline(d, 0, 0, cols, -rows); err != nil {
		return err
	}

	for _, r := range res.Rects {
		x1, y1 := float64(r.Left), -float64(r.Top)
		x2, y2 := float64(r.Right+1), -float64(r.Bottom+1)

		if err := d.ChangeLayer(layerCover); err != nil {
			return err
		}
		if err := outline(d, x1, y1, x2, y2); err != nil {
			return err
		}

		if err := d.ChangeLayer(layerLabel); err != nil {
			return err
		}
		if _, err := d.Text(r.Label, (x1+x2)/2-0.25, (y1+y2)/2-0.25, 0, 0.5); err != nil {
			return fmt.Errorf("failed to label rectangle %s: %w", r.Label, err)
		}
	}

	if err := d.ChangeLayer(layerMarks); err != nil {
		return err
	}
	for _, c := range res.MarkedCells {
		if _, err := d.Circle(float64(c.Col)+0.5, -(float64(c.Row) + 0.5), 0, markRadius); err != nil {
			return fmt.Errorf("failed to draw mark: %w", err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// outline draws the four edges of the box spanned by two corners.
func outline(d *drawing.Drawing, x1, y1, x2, y2 float64) error {
	edges := [][4]float64{
		{x1, y1, x2, y1},
		{x2, y1, x2, y2},
		{x2, y2, x1, y2},
		{x1, y2, x1, y1},
	}
	for _, e := range edges {
		if _, err := d.Line(e[0], e[1], 0, e[2], e[3], 0); err != nil {
			return fmt.Errorf("failed to draw line: %w", err)
		}
	}
	return nil
}

// ExportBatchDXF writes one drawing per covering. A single covering goes to
// path itself; otherwise the field index is appended to the file name.
func ExportBatchDXF(path string, batch model.Batch) ([]string, error) {
	if len(batch.Results) == 0 {
		return nil, fmt.Errorf("no coverings to export")
	}

	var written []string
	for _, res := range batch.Results {
		target := path
		if len(batch.Results) > 1 {
			ext := filepath.Ext(path)
			target = fmt.Sprintf("%s-field%d%s", strings.TrimSuffix(path, ext), res.Index, ext)
		}
		if err := ExportDXF(target, res); err != nil {
			return written, fmt.Errorf("field %d: %w", res.Index, err)
		}
		written = append(written, target)
	}
	return written, nil
}
