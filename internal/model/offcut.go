package model

// ApplyOffcuts salvages useful offcuts from a bar's leftover. While the
// leftover still holds one more offcut plus its kerf, an offcut is appended
// and the leftover shrinks by offcut+kerf. Offcuts never count toward target
// goals. Returns the offcuts and the remaining leftover.
func ApplyOffcuts(leftover, offcutLength, kerf int) ([]int, int) {
	if offcutLength <= 0 || leftover < 0 {
		return nil, leftover
	}
	var offcuts []int
	for leftover >= offcutLength+kerf {
		offcuts = append(offcuts, offcutLength)
		leftover -= offcutLength + kerf
	}
	return offcuts, leftover
}

// OffcutSummary counts salvaged offcuts across a result.
type OffcutSummary struct {
	Count       int `json:"count"`
	TotalLength int `json:"total_length"` // mm
}

// SummarizeOffcuts totals all offcuts in an optimization result.
func SummarizeOffcuts(result OptimizeResult) OffcutSummary {
	var s OffcutSummary
	for _, b := range result.Bars {
		s.Count += len(b.Offcuts)
		s.TotalLength += sumInts(b.Offcuts)
	}
	return s
}
