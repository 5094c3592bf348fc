package engine

// Tally counts target pieces cut so far in one run. Counts only grow;
// a new run starts from a fresh Tally.
type Tally struct {
	counts map[int]int
	total  int
}

// NewTally returns a tally with a zero count for every target length.
func NewTally(lengths []int) *Tally {
	t := &Tally{counts: make(map[int]int, len(lengths))}
	for _, l := range lengths {
		t.counts[l] = 0
	}
	return t
}

// Count returns the pieces of the given length cut so far.
func (t *Tally) Count(length int) int {
	if t == nil {
		return 0
	}
	return t.counts[length]
}

// Total returns the number of target pieces cut so far.
func (t *Tally) Total() int {
	if t == nil {
		return 0
	}
	return t.total
}

// Share returns the realized percentage of a length among all pieces cut.
func (t *Tally) Share(length int) float64 {
	if t.Total() == 0 {
		return 0
	}
	return float64(t.Count(length)) / float64(t.Total()) * 100.0
}

// Need returns goal minus realized share. Higher means more under-served.
// Before any piece is cut every need is 0.
func (t *Tally) Need(length, goal int) float64 {
	if t.Total() == 0 {
		return 0
	}
	return float64(goal) - t.Share(length)
}

// Record adds cut pieces to the tally.
func (t *Tally) Record(pieces []int) {
	for _, p := range pieces {
		t.counts[p]++
		t.total++
	}
}

// Counts returns a copy of the per-length counts.
func (t *Tally) Counts() map[int]int {
	cp := make(map[int]int, len(t.counts))
	for l, n := range t.counts {
		cp[l] = n
	}
	return cp
}
