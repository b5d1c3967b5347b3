package export

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/CoverPlan/internal/model"
)

// rectColor represents an RGB color for a covering rectangle.
type rectColor struct {
	R, G, B int
}

// rectColors mirrors the color scheme used in the viewer's cover canvas.
var rectColors = []rectColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// colorFor picks the palette entry of the i-th labeled rectangle.
func colorFor(i int) rectColor { return rectColors[i%len(rectColors)] }

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	summaryQRMM  = 50.0
)

// ExportPDF generates a PDF document with one page per covering, drawn as a
// colored cell grid, followed by a summary page carrying a QR-coded digest.
func ExportPDF(path string, batch model.Batch) error {
	if len(batch.Results) == 0 {
		return fmt.Errorf("no coverings to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, res := range batch.Results {
		pdf.AddPage()
		renderCoveringPage(pdf, res)
	}

	pdf.AddPage()
	if err := renderSummaryPage(pdf, batch); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

// renderCoveringPage draws a single covering on the current PDF page.
func renderCoveringPage(pdf *fpdf.Fpdf, res model.CoverResult) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Field %d (%d x %d cells)", res.Index, res.Rows, res.Cols)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Rectangles: %d | Cost: %d | Marked cells: %d | Bound: %s",
		res.Cardinality, res.Cost, res.Marked, boundText(res.MaxRectangles))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	cell := math.Min(drawWidth/float64(res.Cols), drawHeight/float64(res.Rows))

	canvasW := float64(res.Cols) * cell
	canvasH := float64(res.Rows) * cell
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Field background
	pdf.SetFillColor(245, 240, 230)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, r := range res.Rects {
		col := colorFor(i)
		rx := offsetX + float64(r.Left)*cell
		ry := offsetY + float64(r.Top)*cell
		rw := float64(r.Width()) * cell
		rh := float64(r.Height()) * cell

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(rx, ry, rw, rh, "FD")

		if rw > 4 && rh > 4 {
			pdf.SetFont("Helvetica", "B", labelFontSize(rw, rh))
			pdf.SetTextColor(0, 0, 0)
			labelW := pdf.GetStringWidth(r.Label)
			if labelW < rw-1 {
				pdf.SetXY(rx+(rw-labelW)/2, ry+rh/2-2)
				pdf.CellFormat(labelW, 4, r.Label, "", 0, "C", false, 0, "")
			}
		}
	}

	drawMarks(pdf, res.MarkedCells, cell, offsetX, offsetY)
	drawGridAnnotations(pdf, res, offsetX, offsetY, canvasW, canvasH)
	drawRectLegend(pdf, res, offsetY+canvasH+5)
}

// drawMarks renders each marked cell as a dot in the middle of the cell.
func drawMarks(pdf *fpdf.Fpdf, cells []model.Cell, cell, offsetX, offsetY float64) {
	radius := math.Min(cell*0.15, 2)
	pdf.SetFillColor(200, 20, 60)
	for _, c := range cells {
		cx := offsetX + (float64(c.Col)+0.5)*cell
		cy := offsetY + (float64(c.Row)+0.5)*cell
		pdf.Circle(cx, cy, radius, "F")
	}
}

// drawGridAnnotations adds the column and row counts outside the field.
func drawGridAnnotations(pdf *fpdf.Fpdf, res model.CoverResult, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	colsLabel := fmt.Sprintf("%d columns", res.Cols)
	cLabelW := pdf.GetStringWidth(colsLabel)
	pdf.SetXY(offsetX+(canvasW-cLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(cLabelW, 4, colsLabel, "", 0, "C", false, 0, "")

	rowsLabel := fmt.Sprintf("%d rows", res.Rows)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	rLabelW := pdf.GetStringWidth(rowsLabel)
	pdf.SetXY(offsetX-3-rLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(rLabelW, 4, rowsLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawRectLegend renders a compact legend of the rectangles below the field.
func drawRectLegend(pdf *fpdf.Fpdf, res model.CoverResult, startY float64) {
	if len(res.Rects) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Rectangles:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, r := range res.Rects {
		col := colorFor(i)
		label := fmt.Sprintf("%s %dx%d (%d/%d)", r.Label, r.Height(), r.Width(), r.Weight, r.Cost)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
			if startY > pageHeight-marginBottom {
				return
			}
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, batch model.Batch) error {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Covering Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Batch", batch.ID},
		{"Source", batch.Source},
		{"Fields", fmt.Sprintf("%d", len(batch.Results))},
		{"Total Rectangles", fmt.Sprintf("%d", batch.TotalRectangles())},
		{"Total Cost", fmt.Sprintf("%d", batch.TotalCost())},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	qrPNG, err := summaryQR(batch)
	if err != nil {
		return err
	}
	pdf.RegisterImageOptionsReader("qr_summary", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr_summary", pageWidth-marginRight-summaryQRMM, marginTop+16, summaryQRMM, summaryQRMM,
		false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Field Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 35, 30, 30, 35, 30}
	headers := []string{"Field", "Size", "Marked", "Bound", "Rectangles", "Cost"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, res := range batch.Results {
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", res.Index),
			fmt.Sprintf("%d x %d", res.Rows, res.Cols),
			fmt.Sprintf("%d", res.Marked),
			boundText(res.MaxRectangles),
			fmt.Sprintf("%d", res.Cardinality),
			fmt.Sprintf("%d", res.Cost),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by CoverPlan - Rectangle Covering Optimizer", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// boundText formats a rectangle bound for display.
func boundText(bound int) string {
	if bound <= 0 {
		return "unbounded"
	}
	return fmt.Sprintf("%d", bound)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 14
	case minDim > 20:
		return 10
	case minDim > 8:
		return 8
	default:
		return 6
	}
}
