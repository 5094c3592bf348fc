// Package report aggregates an optimization result into grouped cutting
// instructions, material totals and per-target statistics.
package report

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/piwi3910/BarCut/internal/model"
)

// PatternGroup is a set of bars cut identically.
type PatternGroup struct {
	RawLength int    `json:"raw_length"`
	Available int    `json:"available"`
	Pieces    []int  `json:"pieces"` // Ascending
	Offcuts   []int  `json:"offcuts"`
	Leftover  int    `json:"leftover"`
	Count     int    `json:"count"`
	Label     string `json:"label"` // Stock label of the first bar in the group
}

// Description renders the pattern longest piece first, offcuts last.
func (g PatternGroup) Description() string {
	pieces := make([]int, len(g.Pieces))
	copy(pieces, g.Pieces)
	sort.Sort(sort.Reverse(sort.IntSlice(pieces)))
	return model.DescribePattern(pieces, g.Offcuts)
}

// TargetRow compares the realized share of a target length with its goal.
type TargetRow struct {
	Length int     `json:"length"`
	Goal   int     `json:"goal"`   // percent
	Count  int     `json:"count"`  // pieces cut
	Actual float64 `json:"actual"` // percent of all target pieces
	Delta  float64 `json:"delta"`  // Actual - Goal
}

// Summary is the aggregated view of one run.
type Summary struct {
	Groups []PatternGroup `json:"groups"`

	Bars         int     `json:"bars"`
	Pieces       int     `json:"pieces"`
	Offcuts      int     `json:"offcuts"`
	RawLength    int     `json:"raw_length"`    // mm
	UsefulLength int     `json:"useful_length"` // Pieces plus offcuts (mm)
	OffcutLength int     `json:"offcut_length"` // mm
	KerfLoss     int     `json:"kerf_loss"`     // mm
	TrimLoss     int     `json:"trim_loss"`     // mm
	Leftover     int     `json:"leftover"`      // mm
	WastePercent float64 `json:"waste_percent"`

	Targets    []TargetRow        `json:"targets"`
	Conditions []model.Condition  `json:"conditions,omitempty"`
	Unplaced   []model.DemandItem `json:"unplaced,omitempty"`
}

// Summarize groups identical bars in first-seen order and computes totals
// and per-target statistics. Lengths that were cut but are not registered
// targets (demand mode) are listed with a goal of 0.
func Summarize(result model.OptimizeResult, targets model.TargetRegistry) Summary {
	s := Summary{
		Groups:     []PatternGroup{},
		Conditions: result.Conditions,
		Unplaced:   result.Unplaced,
	}

	index := make(map[string]int)
	for _, b := range result.Bars {
		s.Bars++
		s.Pieces += len(b.Pieces)
		s.Offcuts += len(b.Offcuts)
		s.RawLength += b.Stock.Length
		s.UsefulLength += b.UsedLength()
		for _, o := range b.Offcuts {
			s.OffcutLength += o
		}
		s.KerfLoss += b.KerfLoss()
		s.TrimLoss += b.Stock.Length - b.Available
		s.Leftover += b.Leftover

		key := b.PatternKey()
		if i, ok := index[key]; ok {
			s.Groups[i].Count++
			continue
		}
		index[key] = len(s.Groups)
		s.Groups = append(s.Groups, PatternGroup{
			RawLength: b.Stock.Length,
			Available: b.Available,
			Pieces:    b.Pieces,
			Offcuts:   b.Offcuts,
			Leftover:  b.Leftover,
			Count:     1,
			Label:     b.Stock.Label,
		})
	}

	if s.RawLength > 0 {
		s.WastePercent = (1 - float64(s.UsefulLength)/float64(s.RawLength)) * 100.0
	}

	s.Targets = targetRows(result.Tally, targets)
	return s
}

func targetRows(tally map[int]int, targets model.TargetRegistry) []TargetRow {
	lengths := targets.Lengths()
	for l, n := range tally {
		if n > 0 && !targets.Has(l) {
			lengths = append(lengths, l)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))

	total := 0
	for _, n := range tally {
		total += n
	}

	rows := make([]TargetRow, 0, len(lengths))
	for _, l := range lengths {
		row := TargetRow{Length: l, Goal: targets.Goal(l), Count: tally[l]}
		if total > 0 {
			row.Actual = float64(row.Count) / float64(total) * 100.0
		}
		row.Delta = row.Actual - float64(row.Goal)
		rows = append(rows, row)
	}
	return rows
}

// Instructions returns one line per pattern group, e.g.
// "3 x 6000 mm: 1090 + 1090 + [1000] (waste 14 mm)".
func Instructions(s Summary) []string {
	lines := make([]string, 0, len(s.Groups))
	for _, g := range s.Groups {
		lines = append(lines, fmt.Sprintf("%d x %d mm: %s (waste %d mm)",
			g.Count, g.RawLength, g.Description(), g.Leftover))
	}
	return lines
}

// Row is the flat, machine-readable form of a pattern group.
type Row struct {
	RawLength int
	Count     int
	Pattern   string
	Pieces    int // Target pieces per bar
	Offcuts   int // Offcuts per bar
	Leftover  int
}

// RowHeader names the columns of Row.Strings.
var RowHeader = []string{"raw_length", "count", "pattern", "pieces", "offcuts", "leftover"}

// Strings returns the row in RowHeader order.
func (r Row) Strings() []string {
	return []string{
		strconv.Itoa(r.RawLength),
		strconv.Itoa(r.Count),
		r.Pattern,
		strconv.Itoa(r.Pieces),
		strconv.Itoa(r.Offcuts),
		strconv.Itoa(r.Leftover),
	}
}

// Rows flattens the summary groups for export.
func Rows(s Summary) []Row {
	rows := make([]Row, 0, len(s.Groups))
	for _, g := range s.Groups {
		rows = append(rows, Row{
			RawLength: g.RawLength,
			Count:     g.Count,
			Pattern:   g.Description(),
			Pieces:    len(g.Pieces),
			Offcuts:   len(g.Offcuts),
			Leftover:  g.Leftover,
		})
	}
	return rows
}
