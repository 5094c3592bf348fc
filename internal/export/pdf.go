// Package export writes aggregated cutting results to CSV, XLSX, PDF, DXF
// and QR label sheets.
package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/report"
)

// pieceColor represents an RGB color for a cut piece.
type pieceColor struct {
	R, G, B int
}

// pieceColors is indexed by the rank of a length among the lengths on a page,
// so the same length keeps its color across bars.
var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0

	barHeight  = 9.0  // Height of one bar diagram
	rowHeight  = 18.0 // Bar diagram plus caption
	captionW   = 55.0 // Left column with count and length
	footerText = "Generated by BarCut - Bar Cutting Optimizer"
)

// ExportPDF generates a PDF cut sheet: one or more pages with a scaled
// diagram per pattern group, followed by a summary page.
func ExportPDF(path string, s report.Summary, settings model.CutSettings) error {
	if len(s.Groups) == 0 {
		return fmt.Errorf("no bars to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	colors := colorIndex(s)
	longest := 0
	for _, g := range s.Groups {
		longest = max(longest, g.RawLength)
	}

	drawAreaHeight := pageHeight - drawAreaTop - marginBottom
	perPage := int(drawAreaHeight / rowHeight)
	for i, g := range s.Groups {
		if i%perPage == 0 {
			pdf.AddPage()
			renderPageHeader(pdf, i/perPage+1, (len(s.Groups)+perPage-1)/perPage)
		}
		y := drawAreaTop + float64(i%perPage)*rowHeight
		renderGroup(pdf, g, i+1, y, longest, settings, colors)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, s, settings)

	return pdf.OutputFileAndClose(path)
}

func renderPageHeader(pdf *fpdf.Fpdf, page, pages int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Cut List (page %d of %d)", page, pages)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")
}

// renderGroup draws one pattern group: a caption on the left and the bar
// diagram scaled against the longest bar in the result.
func renderGroup(pdf *fpdf.Fpdf, g report.PatternGroup, num int, y float64, longest int, settings model.CutSettings, colors map[int]int) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(captionW, 5, fmt.Sprintf("#%d  %d x %d mm", num, g.Count, g.RawLength), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(marginLeft, y+5)
	pdf.CellFormat(captionW, 4, fmt.Sprintf("Waste %d mm", g.Leftover), "", 0, "L", false, 0, "")

	drawX := marginLeft + captionW
	drawW := pageWidth - drawX - marginRight
	scale := drawW / float64(longest)

	// Raw bar background (wood color)
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.Rect(drawX, y, float64(g.RawLength)*scale, barHeight, "FD")

	x := drawX + float64(settings.TrimFront)*scale
	first := true
	drawPiece := func(length int, col pieceColor, label string) {
		if !first {
			x += float64(settings.KerfWidth) * scale
		}
		first = false
		w := float64(length) * scale
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.Rect(x, y, w, barHeight, "FD")

		pdf.SetFont("Helvetica", "", 6)
		if lw := pdf.GetStringWidth(label); lw < w-1 {
			pdf.SetXY(x+(w-lw)/2, y+(barHeight-3)/2)
			pdf.CellFormat(lw, 3, label, "", 0, "C", false, 0, "")
		}
		x += w
	}

	// Longest first, as the bar is cut.
	for i := len(g.Pieces) - 1; i >= 0; i-- {
		p := g.Pieces[i]
		drawPiece(p, pieceColors[colors[p]%len(pieceColors)], fmt.Sprintf("%d", p))
	}
	for _, o := range g.Offcuts {
		drawPiece(o, pieceColor{R: 200, G: 200, B: 200}, fmt.Sprintf("[%d]", o))
	}

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(drawX, y+barHeight+0.5)
	pdf.CellFormat(drawW, 4, g.Description(), "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// colorIndex assigns every cut length a stable color slot, longest first.
func colorIndex(s report.Summary) map[int]int {
	idx := make(map[int]int)
	for _, t := range s.Targets {
		if _, ok := idx[t.Length]; !ok {
			idx[t.Length] = len(idx)
		}
	}
	for _, g := range s.Groups {
		for _, p := range g.Pieces {
			if _, ok := idx[p]; !ok {
				idx[p] = len(idx)
			}
		}
	}
	return idx
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, s report.Summary, settings model.CutSettings) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cut Optimization Summary", "", 0, "L", false, 0, "")

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
		{"Bars Used", fmt.Sprintf("%d", s.Bars)},
		{"Pieces Cut", fmt.Sprintf("%d", s.Pieces)},
		{"Useful Offcuts", fmt.Sprintf("%d (%d mm)", s.Offcuts, s.OffcutLength)},
		{"Raw Material", fmt.Sprintf("%d mm", s.RawLength)},
		{"Useful Output", fmt.Sprintf("%d mm", s.UsefulLength)},
		{"Waste", fmt.Sprintf("%.1f%%", s.WastePercent)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Target breakdown table
	if len(s.Targets) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 7, "Target Lengths", "", 0, "L", false, 0, "")
		y += 9

		colWidths := []float64{30, 22, 22, 28, 28}
		headers := []string{"Length", "Goal", "Count", "Actual", "Delta"}

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
		for i, t := range s.Targets {
			xPos = marginLeft
			rowData := []string{
				fmt.Sprintf("%d mm", t.Length),
				fmt.Sprintf("%d%%", t.Goal),
				fmt.Sprintf("%d", t.Count),
				fmt.Sprintf("%.1f%%", t.Actual),
				fmt.Sprintf("%+.1f", t.Delta),
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
	}

	if len(s.Unplaced) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Pieces", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, u := range s.Unplaced {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, fmt.Sprintf("- %s: %d mm (qty: %d)", u.Label, u.Length, u.Quantity), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	// Settings box on the right half
	sx := pageWidth / 2
	sy := marginTop + 18
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(sx, sy)
	pdf.CellFormat(100, 7, "Cut Settings", "", 0, "L", false, 0, "")
	sy += 9

	offcut := "off"
	if settings.OffcutEnabled {
		offcut = fmt.Sprintf("%d mm", settings.OffcutLength)
	}
	settingsItems := []struct {
		label string
		value string
	}{
		{"Kerf Width", fmt.Sprintf("%d mm", settings.KerfWidth)},
		{"Trim Front / Back", fmt.Sprintf("%d / %d mm", settings.TrimFront, settings.TrimBack)},
		{"Max Lengths per Bar", fmt.Sprintf("%d", settings.MaxUniqueLengths)},
		{"Percent Priority", fmt.Sprintf("%t", settings.PercentPriority)},
		{"Useful Offcut", offcut},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(sx+5, sy)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		sy += 5
	}

	for _, c := range s.Conditions {
		sy += 6
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(150, 100, 0)
		pdf.SetXY(sx, sy)
		pdf.CellFormat(120, 5, c.String(), "", 0, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, footerText, "", 0, "C", false, 0, "")
}
