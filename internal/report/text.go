package report

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteText prints the summary as the plain-text cut sheet used by the CLI.
func WriteText(w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "Cutting instructions")
	for _, line := range Instructions(s) {
		fmt.Fprintf(tw, "  %s\n", line)
	}
	if len(s.Groups) == 0 {
		fmt.Fprintln(tw, "  (nothing to cut)")
	}

	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Bars used:\t%d\n", s.Bars)
	fmt.Fprintf(tw, "Pieces cut:\t%d\n", s.Pieces)
	fmt.Fprintf(tw, "Offcuts:\t%d (%d mm)\n", s.Offcuts, s.OffcutLength)
	fmt.Fprintf(tw, "Raw material:\t%d mm\n", s.RawLength)
	fmt.Fprintf(tw, "Useful output:\t%d mm\n", s.UsefulLength)
	fmt.Fprintf(tw, "Kerf / trim loss:\t%d / %d mm\n", s.KerfLoss, s.TrimLoss)
	fmt.Fprintf(tw, "Waste:\t%.1f%%\n", s.WastePercent)

	if len(s.Targets) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Length\tGoal\tCount\tActual\tDelta")
		for _, t := range s.Targets {
			fmt.Fprintf(tw, "%d mm\t%d%%\t%d\t%.1f%%\t%+.1f\n", t.Length, t.Goal, t.Count, t.Actual, t.Delta)
		}
	}

	for _, u := range s.Unplaced {
		fmt.Fprintf(tw, "\nUnplaced: %s %d mm x %d\n", u.Label, u.Length, u.Quantity)
	}
	if len(s.Conditions) > 0 {
		fmt.Fprintln(tw)
		for _, c := range s.Conditions {
			fmt.Fprintf(tw, "Note: %s\n", c)
		}
	}

	return tw.Flush()
}
