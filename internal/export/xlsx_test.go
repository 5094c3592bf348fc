package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BarCut/internal/model"
)

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cuts.xlsx")
	if err := ExportXLSX(path, buildTestSummary(), model.DefaultSettings()); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != SheetSummary || sheets[1] != SheetCutList || sheets[2] != SheetTargets {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	v, err := f.GetCellValue(SheetSummary, "B1")
	if err != nil || v != "4" {
		t.Errorf("expected 4 bars in Summary!B1, got %q (%v)", v, err)
	}

	pattern, _ := f.GetCellValue(SheetCutList, "D2")
	if pattern != "1090 + 1090 + 1090 + 1090 + [1000]" {
		t.Errorf("unexpected pattern in Cut List!D2: %q", pattern)
	}
	count, _ := f.GetCellValue(SheetCutList, "C2")
	if count != "2" {
		t.Errorf("expected count 2 in Cut List!C2, got %q", count)
	}

	rows, err := f.GetRows(SheetTargets)
	if err != nil {
		t.Fatalf("cannot read Targets: %v", err)
	}
	if len(rows) != 4 {
		t.Errorf("expected header plus 3 targets, got %d rows", len(rows))
	}
}

func TestRound2(t *testing.T) {
	if got := round2(47.05882352); got != 47.06 {
		t.Errorf("round2 = %v", got)
	}
	if got := round2(-2.345); got != -2.35 && got != -2.34 {
		t.Errorf("round2 = %v", got)
	}
}
