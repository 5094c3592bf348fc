package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/report"
)

// Sheet names of the exported workbook.
const (
	SheetSummary = "Summary"
	SheetCutList = "Cut List"
	SheetTargets = "Targets"
)

// ExportXLSX writes a workbook with a summary sheet, the grouped cut list
// and the per-target statistics.
func ExportXLSX(path string, s report.Summary, settings model.CutSettings) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetCutList, SheetTargets} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	summary := [][]interface{}{
		{"Bars used", s.Bars},
		{"Pieces cut", s.Pieces},
		{"Useful offcuts", s.Offcuts},
		{"Offcut length (mm)", s.OffcutLength},
		{"Raw material (mm)", s.RawLength},
		{"Useful output (mm)", s.UsefulLength},
		{"Kerf loss (mm)", s.KerfLoss},
		{"Trim loss (mm)", s.TrimLoss},
		{"Waste (mm)", s.Leftover},
		{"Waste %", round2(s.WastePercent)},
		{},
		{"Kerf (mm)", settings.KerfWidth},
		{"Trim front (mm)", settings.TrimFront},
		{"Trim back (mm)", settings.TrimBack},
		{"Max lengths per bar", settings.MaxUniqueLengths},
		{"Percent priority", settings.PercentPriority},
		{"Offcut length (mm)", offcutSetting(settings)},
	}
	for _, c := range s.Conditions {
		summary = append(summary, []interface{}{"Note", c.String()})
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return err
	}

	cutList := [][]interface{}{{"#", "Raw length (mm)", "Count", "Pattern", "Pieces per bar", "Offcuts per bar", "Waste (mm)"}}
	for i, r := range report.Rows(s) {
		cutList = append(cutList, []interface{}{i + 1, r.RawLength, r.Count, r.Pattern, r.Pieces, r.Offcuts, r.Leftover})
	}
	for _, u := range s.Unplaced {
		cutList = append(cutList, []interface{}{"unplaced", u.Length, u.Quantity, u.Label})
	}
	if err := writeRows(f, SheetCutList, cutList); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetCutList, "A1", "G1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetCutList, "D", "D", 40); err != nil {
		return err
	}

	targets := [][]interface{}{{"Length (mm)", "Goal %", "Count", "Actual %", "Delta"}}
	for _, t := range s.Targets {
		targets = append(targets, []interface{}{t.Length, t.Goal, t.Count, round2(t.Actual), round2(t.Delta)})
	}
	if err := writeRows(f, SheetTargets, targets); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetTargets, "A1", "E1", bold); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func offcutSetting(s model.CutSettings) interface{} {
	if !s.OffcutEnabled {
		return "off"
	}
	return s.OffcutLength
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
