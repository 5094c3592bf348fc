package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/report"
)

// DXF layer names.
const (
	LayerBars   = "BARS"
	LayerPieces = "PIECES"
	LayerCuts   = "CUTS"
	LayerText   = "TEXT"
)

// DXF diagram geometry in drawing units (mm along the bar).
const (
	dxfBarHeight  = 60.0
	dxfRowSpacing = 160.0
	dxfTextHeight = 25.0
)

// ExportDXF draws a cutting diagram with one row per pattern group: the raw
// bar outline, a rectangle per piece and offcut, a cut line at every saw
// cut, and text labels. Rows run top to bottom in group order.
func ExportDXF(path string, s report.Summary, settings model.CutSettings) error {
	if len(s.Groups) == 0 {
		return fmt.Errorf("no bars to export")
	}

	d := dxf.NewDrawing()
	for _, l := range []struct {
		name string
		col  color.ColorNumber
	}{
		{LayerBars, dxf.DefaultColor},
		{LayerPieces, color.Green},
		{LayerCuts, color.Red},
		{LayerText, color.Cyan},
	} {
		if _, err := d.AddLayer(l.name, l.col, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	for i, g := range s.Groups {
		y := -float64(i) * dxfRowSpacing
		if err := drawGroupDXF(d, g, y, settings); err != nil {
			return fmt.Errorf("group %d: %w", i+1, err)
		}
	}

	return d.SaveAs(path)
}

func drawGroupDXF(d *drawing.Drawing, g report.PatternGroup, y float64, settings model.CutSettings) error {
	if err := d.ChangeLayer(LayerBars); err != nil {
		return err
	}
	if err := rectDXF(d, 0, y, float64(g.RawLength), dxfBarHeight); err != nil {
		return err
	}

	// Saw cuts at the trim boundaries, then between every piece.
	var cuts []float64
	x := float64(settings.TrimFront)
	if settings.TrimFront > 0 {
		cuts = append(cuts, x)
	}

	type segment struct {
		length int
		label  string
	}
	var segments []segment
	for i := len(g.Pieces) - 1; i >= 0; i-- {
		segments = append(segments, segment{g.Pieces[i], fmt.Sprintf("%d", g.Pieces[i])})
	}
	for _, o := range g.Offcuts {
		segments = append(segments, segment{o, fmt.Sprintf("[%d]", o)})
	}

	for i, seg := range segments {
		if i > 0 {
			x += float64(settings.KerfWidth)
		}
		if err := d.ChangeLayer(LayerPieces); err != nil {
			return err
		}
		if err := rectDXF(d, x, y, float64(seg.length), dxfBarHeight); err != nil {
			return err
		}
		if err := d.ChangeLayer(LayerText); err != nil {
			return err
		}
		if _, err := d.Text(seg.label, x+10, y+dxfBarHeight/2-dxfTextHeight/2, 0, dxfTextHeight); err != nil {
			return err
		}
		x += float64(seg.length)
		cuts = append(cuts, x)
	}

	if err := d.ChangeLayer(LayerCuts); err != nil {
		return err
	}
	for _, cx := range cuts {
		if cx <= 0 || cx >= float64(g.RawLength) {
			continue
		}
		if _, err := d.Line(cx, y-10, 0, cx, y+dxfBarHeight+10, 0); err != nil {
			return err
		}
	}

	if err := d.ChangeLayer(LayerText); err != nil {
		return err
	}
	caption := fmt.Sprintf("%d x %d mm  waste %d mm", g.Count, g.RawLength, g.Leftover)
	_, err := d.Text(caption, 0, y+dxfBarHeight+20, 0, dxfTextHeight)
	return err
}

// rectDXF draws an axis-aligned rectangle as four lines.
func rectDXF(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}
