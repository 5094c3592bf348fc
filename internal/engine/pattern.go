package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/BarCut/internal/model"
)

// needEpsilon absorbs float noise when comparing need-score sums.
const needEpsilon = 1e-9

// PatternRequest describes the single bar a pattern is generated for.
type PatternRequest struct {
	Available       int         // Length after trim (mm); negative is treated as 0
	Targets         []int       // Candidate lengths
	Goals           map[int]int // Goal percent per length
	Tally           *Tally      // Run tally; read, never written
	MaxUnique       int         // Distinct lengths allowed in the pattern
	Kerf            int         // Loss per cut between adjacent pieces
	PercentPriority bool        // Rank and score by need instead of length/leftover
	Budget          model.SearchBudget
}

// Pattern is the best cutting pattern found for one bar.
type Pattern struct {
	Pieces         []int   // Chosen lengths, longest first
	Leftover       int     // Available minus pieces minus kerf between them
	NeedScore      float64 // Sum of need scores of Pieces against the run tally
	Calls          int     // Search nodes expanded
	BudgetExceeded bool    // Search stopped at Budget.MaxCalls
}

// searchNode is one level of the explicit DFS stack.
type searchNode struct {
	remaining int
	order     []int // Candidates ranked for this node
	next      int   // Index into order of the next child to try
	fits      bool  // Any candidate fits, so this node is not a leaf
}

// GeneratePattern searches the multisets of target lengths that fit into
// req.Available and returns the best one.
//
// Leaves are partial patterns to which no candidate can be added. Without
// percent priority the leaf with the smallest leftover wins. With percent
// priority (and at least one piece cut earlier in the run) the leaf with the
// highest need-score sum wins and leftover breaks ties. Ties beyond that keep
// the first leaf found.
//
// Each multiset is visited once: children only append lengths no longer than
// the last piece, so pieces come out longest first. Candidate order inside a
// node follows need ranking against the tally with the partial pattern
// provisionally added, or descending length when percent priority is off.
func GeneratePattern(req PatternRequest) Pattern {
	available := max(req.Available, 0)
	budget := req.Budget
	if budget.MaxCalls <= 0 {
		budget.MaxCalls = model.DefaultSearchBudget().MaxCalls
	}
	if budget.MaxDepth <= 0 {
		budget.MaxDepth = model.DefaultSearchBudget().MaxDepth
	}
	maxUnique := max(req.MaxUnique, 1)

	candidates := uniqueDescending(req.Targets)
	best := Pattern{Leftover: available}
	if len(candidates) == 0 || available < candidates[len(candidates)-1] {
		return best
	}

	// Leaf scoring uses need only when there is a distribution to steer.
	scoreByNeed := req.PercentPriority && req.Tally.Total() > 0
	entryNeed := make(map[int]float64, len(candidates))
	for _, c := range candidates {
		entryNeed[c] = req.Tally.Need(c, req.Goals[c])
	}

	var (
		path      []int
		inPath    = make(map[int]int)
		haveBest  bool
		bestScore = math.Inf(-1)
		calls     int
	)

	rank := func(limit int) []int {
		order := make([]int, 0, len(candidates))
		for _, c := range candidates {
			if c <= limit {
				order = append(order, c)
			}
		}
		if !req.PercentPriority {
			return order
		}
		total := req.Tally.Total() + len(path)
		if total == 0 {
			return order
		}
		need := func(l int) float64 {
			share := float64(req.Tally.Count(l)+inPath[l]) / float64(total) * 100.0
			return float64(req.Goals[l]) - share
		}
		sort.SliceStable(order, func(i, j int) bool {
			return need(order[i]) > need(order[j])
		})
		return order
	}

	cost := func(l int) int {
		if len(path) == 0 {
			return l
		}
		return l + req.Kerf
	}

	allowed := func(l, remaining int) bool {
		if cost(l) > remaining {
			return false
		}
		return inPath[l] > 0 || len(inPath) < maxUnique
	}

	// evaluate offers the current path as a leaf. Returns true to stop early.
	evaluate := func(remaining int) bool {
		score := 0.0
		if scoreByNeed {
			for _, p := range path {
				score += entryNeed[p]
			}
		}
		better := !haveBest
		if haveBest {
			if scoreByNeed {
				better = score > bestScore+needEpsilon ||
					(math.Abs(score-bestScore) <= needEpsilon && remaining < best.Leftover)
			} else {
				better = remaining < best.Leftover
			}
		}
		if better {
			haveBest = true
			bestScore = score
			best.Pieces = append([]int(nil), path...)
			best.Leftover = remaining
			best.NeedScore = score
		}
		return !scoreByNeed && haveBest && best.Leftover < budget.EarlyExitWaste
	}

	push := func(remaining, limit int) searchNode {
		calls++
		n := searchNode{remaining: remaining, order: rank(limit)}
		if len(path) < budget.MaxDepth {
			for _, c := range candidates {
				if allowed(c, remaining) {
					n.fits = true
					break
				}
			}
		}
		return n
	}

	stack := []searchNode{push(available, candidates[0])}
	stopped := false

	for len(stack) > 0 && !stopped {
		top := &stack[len(stack)-1]

		child := -1
		if top.fits {
			for top.next < len(top.order) {
				c := top.order[top.next]
				top.next++
				if allowed(c, top.remaining) {
					child = c
					break
				}
			}
		}

		if child >= 0 {
			if calls >= budget.MaxCalls {
				best.BudgetExceeded = true
				if !haveBest {
					// No leaf yet: finish the current branch greedily.
					remaining := top.remaining
					for len(path) < budget.MaxDepth {
						added := false
						for _, c := range candidates {
							if allowed(c, remaining) {
								remaining -= cost(c)
								path = append(path, c)
								inPath[c]++
								added = true
								break
							}
						}
						if !added {
							break
						}
					}
					evaluate(remaining)
				}
				break
			}
			remaining := top.remaining - cost(child)
			path = append(path, child)
			inPath[child]++
			stack = append(stack, push(remaining, child))
			continue
		}

		if !top.fits {
			stopped = evaluate(top.remaining)
		}

		stack = stack[:len(stack)-1]
		if len(path) > 0 {
			last := path[len(path)-1]
			path = path[:len(path)-1]
			inPath[last]--
			if inPath[last] == 0 {
				delete(inPath, last)
			}
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(best.Pieces)))
	best.Calls = calls
	return best
}

// uniqueDescending returns the positive distinct lengths, longest first.
func uniqueDescending(lengths []int) []int {
	seen := make(map[int]bool, len(lengths))
	out := make([]int, 0, len(lengths))
	for _, l := range lengths {
		if l > 0 && !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
