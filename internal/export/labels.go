package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/BarCut/internal/report"
)

// LabelInfo holds the data encoded into each bar label's QR code.
type LabelInfo struct {
	Group     int    `json:"group"`      // 1-based pattern group number
	Copy      int    `json:"copy"`       // 1-based bar number within the group
	Of        int    `json:"of"`         // Bars in the group
	RawLength int    `json:"raw_mm"`     // Raw bar length
	Pattern   string `json:"pattern"`    // e.g. "1090 + 1090 + [1000]"
	Pieces    []int  `json:"pieces_mm"`  // Longest first
	Offcuts   []int  `json:"offcuts_mm"` // Useful offcuts
	Leftover  int    `json:"waste_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF with one QR-coded label per raw bar, so every
// bar on the rack can be tagged with the pattern it is to be cut to.
func ExportLabels(path string, s report.Summary) error {
	labels := CollectLabelInfos(s)
	if len(labels) == 0 {
		return fmt.Errorf("no bars to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label %d/%d: %w", label.Group, label.Copy, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d_%d", info.Group, info.Copy)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fmt.Sprintf("Bar %d mm", info.RawLength), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, truncate(pdf, info.Pattern, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Group %d, bar %d of %d", info.Group, info.Copy, info.Of), "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Waste %d mm", info.Leftover), "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens text with an ellipsis until it fits the width.
func truncate(pdf *fpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	for len(text) > 0 && pdf.GetStringWidth(text+"...") > width {
		text = text[:len(text)-1]
	}
	return text + "..."
}

// CollectLabelInfos expands the summary into one label per physical bar.
func CollectLabelInfos(s report.Summary) []LabelInfo {
	var labels []LabelInfo
	for gi, g := range s.Groups {
		pieces := make([]int, len(g.Pieces))
		for i, p := range g.Pieces {
			pieces[len(pieces)-1-i] = p
		}
		for c := 1; c <= g.Count; c++ {
			labels = append(labels, LabelInfo{
				Group:     gi + 1,
				Copy:      c,
				Of:        g.Count,
				RawLength: g.RawLength,
				Pattern:   g.Description(),
				Pieces:    pieces,
				Offcuts:   g.Offcuts,
				Leftover:  g.Leftover,
			})
		}
	}
	return labels
}
