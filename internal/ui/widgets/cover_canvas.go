package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/CoverPlan/internal/model"
)

// Rectangle colors, cycled in label order. The PDF and Excel reports use the
// same sequence so a rectangle keeps its color across outputs.
var rectColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

var (
	fieldColor  = color.NRGBA{R: 240, G: 236, B: 224, A: 255}
	gridColor   = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	markColor   = color.NRGBA{R: 200, G: 30, B: 60, A: 255}
	borderColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
)

// CoverCanvas renders one covering: the field, its marked cells and the
// labeled rectangles laid over them.
type CoverCanvas struct {
	widget.BaseWidget
	result    model.CoverResult
	maxWidth  float32
	maxHeight float32
}

func NewCoverCanvas(result model.CoverResult, maxW, maxH float32) *CoverCanvas {
	cc := &CoverCanvas{
		result:    result,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	cc.ExtendBaseWidget(cc)
	return cc
}

func (cc *CoverCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newCoverCanvasRenderer(cc)
}

// cellSize returns the edge length of one grid cell that fits the field
// inside the canvas bounds.
func (cc *CoverCanvas) cellSize() float32 {
	rows, cols := cc.result.Rows, cc.result.Cols
	if rows == 0 || cols == 0 {
		return 0
	}
	size := cc.maxWidth / float32(cols)
	if h := cc.maxHeight / float32(rows); h < size {
		size = h
	}
	return size
}

type coverCanvasRenderer struct {
	cc      *CoverCanvas
	objects []fyne.CanvasObject
}

func newCoverCanvasRenderer(cc *CoverCanvas) *coverCanvasRenderer {
	r := &coverCanvasRenderer{cc: cc}
	r.rebuild()
	return r
}

func (r *coverCanvasRenderer) rebuild() {
	r.objects = nil

	res := r.cc.result
	cell := r.cc.cellSize()
	if cell == 0 {
		return
	}
	canvasW := float32(res.Cols) * cell
	canvasH := float32(res.Rows) * cell

	bg := canvas.NewRectangle(fieldColor)
	bg.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, bg)

	// Grid lines are only legible when cells are a few pixels wide
	if cell >= 6 {
		for row := 1; row < res.Rows; row++ {
			y := float32(row) * cell
			line := canvas.NewLine(gridColor)
			line.Position1 = fyne.NewPos(0, y)
			line.Position2 = fyne.NewPos(canvasW, y)
			r.objects = append(r.objects, line)
		}
		for col := 1; col < res.Cols; col++ {
			x := float32(col) * cell
			line := canvas.NewLine(gridColor)
			line.Position1 = fyne.NewPos(x, 0)
			line.Position2 = fyne.NewPos(x, canvasH)
			r.objects = append(r.objects, line)
		}
	}

	for i, p := range res.Rects {
		px := float32(p.Left) * cell
		py := float32(p.Top) * cell
		pw := float32(p.Width()) * cell
		ph := float32(p.Height()) * cell

		fill := canvas.NewRectangle(rectColors[i%len(rectColors)])
		fill.Resize(fyne.NewSize(pw, ph))
		fill.Move(fyne.NewPos(px, py))
		r.objects = append(r.objects, fill)

		edge := canvas.NewRectangle(color.Transparent)
		edge.StrokeColor = borderColor
		edge.StrokeWidth = 1
		edge.Resize(fyne.NewSize(pw, ph))
		edge.Move(fyne.NewPos(px, py))
		r.objects = append(r.objects, edge)

		if pw > 14 && ph > 14 {
			label := canvas.NewText(p.Label, color.Black)
			label.TextSize = 11
			label.TextStyle = fyne.TextStyle{Bold: true}
			label.Move(fyne.NewPos(px+2, py+1))
			r.objects = append(r.objects, label)
		}
	}

	dot := cell / 3
	for _, m := range res.MarkedCells {
		mark := canvas.NewCircle(markColor)
		mark.Resize(fyne.NewSize(dot, dot))
		mark.Move(fyne.NewPos(float32(m.Col)*cell+dot, float32(m.Row)*cell+dot))
		r.objects = append(r.objects, mark)
	}

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, border)
}

func (r *coverCanvasRenderer) Layout(size fyne.Size)        {}
func (r *coverCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *coverCanvasRenderer) Destroy()                     {}
func (r *coverCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *coverCanvasRenderer) MinSize() fyne.Size {
	cell := r.cc.cellSize()
	return fyne.NewSize(float32(r.cc.result.Cols)*cell, float32(r.cc.result.Rows)*cell)
}

// FieldHeader formats the caption shown above a covering.
func FieldHeader(res model.CoverResult) string {
	bound := "unbounded"
	if res.MaxRectangles > 0 {
		bound = fmt.Sprintf("max %d", res.MaxRectangles)
	}
	return fmt.Sprintf("Field %d: %d x %d, %d marked cells (%s): %d rectangles, cost %d",
		res.Index, res.Rows, res.Cols, res.Marked, bound, res.Cardinality, res.Cost)
}

// RenderCoverResults creates a scrollable container of all coverings in a batch.
func RenderCoverResults(batch *model.Batch) fyne.CanvasObject {
	if batch == nil || len(batch.Results) == 0 {
		return widget.NewLabel("No coverings yet. Open a field file, then click Optimize.")
	}

	var items []fyne.CanvasObject
	for _, res := range batch.Results {
		header := widget.NewLabel(FieldHeader(res))
		header.TextStyle = fyne.TextStyle{Bold: true}

		items = append(items, header, NewCoverCanvas(res, 600, 400))
		if res.Stats.Candidates > 0 {
			items = append(items, widget.NewLabel(fmt.Sprintf(
				"%d candidates, greedy %d rectangles, %d merges (%d forced), %s",
				res.Stats.Candidates, res.Stats.GreedyCardinality,
				res.Stats.Merges, res.Stats.ForcedMerges, res.Stats.Elapsed,
			)))
		}
		items = append(items, widget.NewSeparator())
	}

	summary := widget.NewLabel(fmt.Sprintf(
		"Total: %d fields, %d rectangles, cost %d",
		len(batch.Results), batch.TotalRectangles(), batch.TotalCost(),
	))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary)

	return container.NewVScroll(container.NewVBox(items...))
}
