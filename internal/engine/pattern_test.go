package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BarCut/internal/model"
)

func wasteRequest(available int, targets []int, kerf, maxUnique int) PatternRequest {
	return PatternRequest{
		Available: available,
		Targets:   targets,
		MaxUnique: maxUnique,
		Kerf:      kerf,
		Budget:    model.DefaultSearchBudget(),
	}
}

// assertPatternInvariants checks the length identity, the unique-length cap,
// membership in the target set and that nothing more fits.
func assertPatternInvariants(t *testing.T, req PatternRequest, p Pattern) {
	t.Helper()

	available := max(req.Available, 0)
	sum := 0
	distinct := map[int]bool{}
	allowed := map[int]bool{}
	for _, l := range req.Targets {
		allowed[l] = true
	}
	for _, piece := range p.Pieces {
		sum += piece
		distinct[piece] = true
		assert.True(t, allowed[piece], "piece %d is not a target", piece)
	}
	kerfLoss := 0
	if len(p.Pieces) > 0 {
		kerfLoss = req.Kerf * (len(p.Pieces) - 1)
	}

	assert.GreaterOrEqual(t, p.Leftover, 0)
	assert.Equal(t, available, sum+kerfLoss+p.Leftover, "length identity for %+v", p)
	assert.LessOrEqual(t, len(distinct), max(req.MaxUnique, 1))

	if p.BudgetExceeded {
		return
	}
	for _, l := range req.Targets {
		cost := l
		if len(p.Pieces) > 0 {
			cost += req.Kerf
		}
		fits := cost <= p.Leftover && (distinct[l] || len(distinct) < max(req.MaxUnique, 1))
		assert.False(t, fits, "target %d still fits into leftover %d of %v", l, p.Leftover, p.Pieces)
	}
}

func TestGeneratePattern_SingleTargetWithKerf(t *testing.T) {
	// 5 x 1090 + 4 x 4 = 5466; a sixth piece would need 6560.
	req := wasteRequest(6000, []int{1090}, 4, 1)
	p := GeneratePattern(req)

	assert.Equal(t, []int{1090, 1090, 1090, 1090, 1090}, p.Pieces)
	assert.Equal(t, 534, p.Leftover)
	assert.False(t, p.BudgetExceeded)
	assertPatternInvariants(t, req, p)
}

func TestGeneratePattern_ExactFit(t *testing.T) {
	p := GeneratePattern(wasteRequest(1090, []int{1090}, 0, 1))
	assert.Equal(t, []int{1090}, p.Pieces)
	assert.Equal(t, 0, p.Leftover)
}

func TestGeneratePattern_AvailableShorterThanSmallestTarget(t *testing.T) {
	p := GeneratePattern(wasteRequest(500, []int{1060, 1090}, 4, 2))
	assert.Empty(t, p.Pieces)
	assert.Equal(t, 500, p.Leftover)
}

func TestGeneratePattern_NoTargets(t *testing.T) {
	p := GeneratePattern(wasteRequest(6000, nil, 4, 2))
	assert.Empty(t, p.Pieces)
	assert.Equal(t, 6000, p.Leftover)
}

func TestGeneratePattern_NegativeAvailableClampsToZero(t *testing.T) {
	p := GeneratePattern(wasteRequest(-20, []int{100}, 4, 2))
	assert.Empty(t, p.Pieces)
	assert.Equal(t, 0, p.Leftover)
}

func TestGeneratePattern_FindsBetterThanGreedy(t *testing.T) {
	// Largest-first gives 1000+1000 with 100 left; 3 x 700 uses everything.
	req := wasteRequest(2100, []int{1000, 700}, 0, 2)
	p := GeneratePattern(req)

	assert.Equal(t, []int{700, 700, 700}, p.Pieces)
	assert.Equal(t, 0, p.Leftover)
	assertPatternInvariants(t, req, p)
}

func TestGeneratePattern_MaxUniqueLimitsMix(t *testing.T) {
	// 1000 + 700 would be perfect but needs two distinct lengths.
	req := wasteRequest(1700, []int{1000, 700}, 0, 1)
	p := GeneratePattern(req)
	assert.Equal(t, []int{700, 700}, p.Pieces)
	assert.Equal(t, 300, p.Leftover)
	assertPatternInvariants(t, req, p)

	req.MaxUnique = 2
	p = GeneratePattern(req)
	assert.Equal(t, []int{1000, 700}, p.Pieces)
	assert.Equal(t, 0, p.Leftover)
}

func TestGeneratePattern_DuplicateTargetsIgnored(t *testing.T) {
	p := GeneratePattern(wasteRequest(2000, []int{1000, 1000, 0, -5}, 0, 1))
	assert.Equal(t, []int{1000, 1000}, p.Pieces)
	assert.Equal(t, 0, p.Leftover)
}

func percentTally() *Tally {
	tally := NewTally([]int{1000, 600})
	tally.Record([]int{1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 600})
	return tally
}

func TestGeneratePattern_PercentPriorityPrefersNeedOverLeftover(t *testing.T) {
	// 1000 is at 90% against a 50% goal, 600 at 10%: need dominates leftover.
	req := PatternRequest{
		Available:       2000,
		Targets:         []int{1000, 600},
		Goals:           map[int]int{1000: 50, 600: 50},
		Tally:           percentTally(),
		MaxUnique:       2,
		Kerf:            0,
		PercentPriority: true,
		Budget:          model.DefaultSearchBudget(),
	}
	p := GeneratePattern(req)

	assert.Equal(t, []int{600, 600, 600}, p.Pieces)
	assert.Equal(t, 200, p.Leftover)
	assert.InDelta(t, 120.0, p.NeedScore, 1e-9)
	assertPatternInvariants(t, req, p)

	req.PercentPriority = false
	p = GeneratePattern(req)
	assert.Equal(t, []int{1000, 1000}, p.Pieces)
	assert.Equal(t, 0, p.Leftover)
}

func TestGeneratePattern_PercentPriorityTieBreaksOnLeftover(t *testing.T) {
	tally := NewTally([]int{1000, 600})
	tally.Record([]int{1000, 1000, 600, 600})

	p := GeneratePattern(PatternRequest{
		Available:       2000,
		Targets:         []int{1000, 600},
		Goals:           map[int]int{1000: 50, 600: 50},
		Tally:           tally,
		MaxUnique:       2,
		PercentPriority: true,
		Budget:          model.DefaultSearchBudget(),
	})

	// Every need is 0, so the least waste wins.
	assert.Equal(t, []int{1000, 1000}, p.Pieces)
	assert.Equal(t, 0, p.Leftover)
}

func TestGeneratePattern_PercentPriorityWithEmptyTallyMinimizesWaste(t *testing.T) {
	p := GeneratePattern(PatternRequest{
		Available:       2100,
		Targets:         []int{1000, 700},
		Goals:           map[int]int{1000: 90, 700: 10},
		Tally:           NewTally([]int{1000, 700}),
		MaxUnique:       2,
		PercentPriority: true,
		Budget:          model.DefaultSearchBudget(),
	})
	assert.Equal(t, 0, p.Leftover)
	assert.Equal(t, 0.0, p.NeedScore)
}

func TestGeneratePattern_DoesNotMutateTally(t *testing.T) {
	tally := percentTally()
	before := tally.Counts()
	GeneratePattern(PatternRequest{
		Available:       6000,
		Targets:         []int{1000, 600},
		Goals:           map[int]int{1000: 50, 600: 50},
		Tally:           tally,
		MaxUnique:       2,
		PercentPriority: true,
		Budget:          model.DefaultSearchBudget(),
	})
	assert.Equal(t, before, tally.Counts())
	assert.Equal(t, 10, tally.Total())
}

func TestGeneratePattern_BudgetExceededReturnsValidPattern(t *testing.T) {
	req := wasteRequest(6000, []int{1090}, 4, 1)
	req.Budget.MaxCalls = 1
	p := GeneratePattern(req)

	assert.True(t, p.BudgetExceeded)
	assert.Equal(t, 1, p.Calls)
	assert.Equal(t, []int{1090, 1090, 1090, 1090, 1090}, p.Pieces)
	assert.Equal(t, 534, p.Leftover)
	assertPatternInvariants(t, req, p)
}

func TestGeneratePattern_BudgetCapsCalls(t *testing.T) {
	req := wasteRequest(12000, []int{997, 883, 761, 653, 541, 431, 317, 211}, 3, 4)
	req.Budget.EarlyExitWaste = 0
	req.Budget.MaxCalls = 50
	p := GeneratePattern(req)

	assert.LessOrEqual(t, p.Calls, 50)
	assert.True(t, p.BudgetExceeded)
	assertPatternInvariants(t, req, p)
}

func TestGeneratePattern_MaxDepthBoundsPattern(t *testing.T) {
	req := wasteRequest(100000, []int{10}, 0, 1)
	req.Budget.MaxDepth = 50
	p := GeneratePattern(req)

	assert.Len(t, p.Pieces, 50)
	assert.Equal(t, 100000-500, p.Leftover)
	assert.False(t, p.BudgetExceeded)
}

func TestGeneratePattern_DeepSearchDoesNotRecurse(t *testing.T) {
	// Depth 1000 with the default budget; an explicit stack keeps this cheap.
	p := GeneratePattern(wasteRequest(1_000_000, []int{7}, 0, 1))
	assert.Len(t, p.Pieces, 1000)
	assert.Equal(t, 1_000_000-7000, p.Leftover)
}

func TestGeneratePattern_RandomInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := []int{212, 318, 450, 599, 740, 1060, 1090, 1120, 1500}

	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(4)
		targets := make([]int, n)
		goals := map[int]int{}
		for j := range targets {
			targets[j] = pool[rng.Intn(len(pool))]
			goals[targets[j]] = rng.Intn(101)
		}
		tally := NewTally(targets)
		for j := 0; j < rng.Intn(20); j++ {
			tally.Record([]int{targets[rng.Intn(n)]})
		}

		req := PatternRequest{
			Available:       rng.Intn(7000),
			Targets:         targets,
			Goals:           goals,
			Tally:           tally,
			MaxUnique:       1 + rng.Intn(3),
			Kerf:            rng.Intn(6),
			PercentPriority: rng.Intn(2) == 0,
			Budget:          model.DefaultSearchBudget(),
		}
		p := GeneratePattern(req)
		require.NotNil(t, p)
		assertPatternInvariants(t, req, p)
	}
}
