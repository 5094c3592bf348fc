package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/piwi3910/BarCut/internal/report"
)

// WriteCSV writes the flat pattern rows followed by a blank line and the
// per-target table.
func WriteCSV(w io.Writer, s report.Summary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(report.RowHeader); err != nil {
		return err
	}
	for _, r := range report.Rows(s) {
		if err := cw.Write(r.Strings()); err != nil {
			return err
		}
	}

	if len(s.Targets) > 0 {
		if err := cw.Write(nil); err != nil {
			return err
		}
		if err := cw.Write([]string{"length", "goal_pct", "count", "actual_pct", "delta"}); err != nil {
			return err
		}
		for _, t := range s.Targets {
			rec := []string{
				strconv.Itoa(t.Length),
				strconv.Itoa(t.Goal),
				strconv.Itoa(t.Count),
				strconv.FormatFloat(t.Actual, 'f', 2, 64),
				strconv.FormatFloat(t.Delta, 'f', 2, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the summary to a CSV file.
func ExportCSV(path string, s report.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := WriteCSV(f, s); err != nil {
		f.Close()
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return f.Close()
}
