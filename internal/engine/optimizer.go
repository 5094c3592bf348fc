package engine

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/piwi3910/BarCut/internal/model"
)

// Optimizer runs the 1D cutting-stock heuristic.
type Optimizer struct {
	Settings model.CutSettings
	logger   zerolog.Logger
}

func New(settings model.CutSettings) *Optimizer {
	return &Optimizer{
		Settings: settings,
		logger:   log.Logger.With().Str("component", "engine").Logger(),
	}
}

// WithLogger replaces the optimizer's logger.
func (o *Optimizer) WithLogger(l zerolog.Logger) *Optimizer {
	o.logger = l
	return o
}

// Optimize cuts every bar in the inventory, longest first. Each bar gets the
// best pattern for the tally left by the bars before it, so percent goals are
// balanced across the whole run. Empty inventories, empty target sets and
// infeasible targets are reported as conditions on the result, never as
// errors.
func (o *Optimizer) Optimize(inv model.Inventory, targets model.TargetRegistry) model.OptimizeResult {
	s := o.Settings
	lengths := targets.Lengths()
	goals := targets.Goals()
	tally := NewTally(lengths)

	result := model.OptimizeResult{Bars: []model.BarResult{}}

	bars := inv.Expand()
	o.logger.Info().
		Int("bars", len(bars)).
		Ints("targets", lengths).
		Int("kerf", s.KerfWidth).
		Int("trim", s.TotalTrim()).
		Int("max_unique", s.MaxUniqueLengths).
		Bool("percent_priority", s.PercentPriority).
		Msg("Starting optimization run")

	if len(bars) == 0 {
		result.Conditions = append(result.Conditions, model.ConditionEmptyInventory)
		result.Tally = tally.Counts()
		o.logger.Warn().Msg("Inventory is empty, nothing to do")
		return result
	}
	if len(lengths) == 0 {
		result.Conditions = append(result.Conditions, model.ConditionEmptyTargetSet)
		o.logger.Warn().Msg("No target lengths configured, every bar will be waste")
	}

	// Percent goals only steer the search when at least one goal is set.
	percent := s.PercentPriority && hasPositiveGoal(goals)

	for i, bar := range bars {
		available := s.Usable(bar.Length)

		pat := GeneratePattern(PatternRequest{
			Available:       available,
			Targets:         lengths,
			Goals:           goals,
			Tally:           tally,
			MaxUnique:       s.MaxUniqueLengths,
			Kerf:            s.KerfWidth,
			PercentPriority: percent,
			Budget:          s.Search,
		})
		tally.Record(pat.Pieces)

		leftover := pat.Leftover
		var offcuts []int
		if s.OffcutEnabled {
			offcuts, leftover = model.ApplyOffcuts(leftover, s.OffcutLength, s.KerfWidth)
		}

		if pat.BudgetExceeded {
			result.BudgetExceeded++
			o.logger.Warn().
				Int("bar", i+1).
				Int("length", bar.Length).
				Int("calls", pat.Calls).
				Msg("Pattern search budget exhausted, using best pattern found")
		}

		o.logger.Debug().
			Int("bar", i+1).
			Int("length", bar.Length).
			Ints("pieces", pat.Pieces).
			Int("offcuts", len(offcuts)).
			Int("leftover", leftover).
			Float64("need", pat.NeedScore).
			Int("calls", pat.Calls).
			Msg("Bar cut")

		result.Bars = append(result.Bars, model.BarResult{
			Stock:          bar,
			Available:      available,
			Pieces:         model.SortedCopy(pat.Pieces),
			Offcuts:        offcuts,
			Leftover:       leftover,
			BudgetExceeded: pat.BudgetExceeded,
		})
	}

	result.Tally = tally.Counts()

	if len(lengths) > 0 && tally.Total() == 0 {
		result.Conditions = append(result.Conditions, model.ConditionInfeasible)
		o.logger.Warn().Int("shortest_target", targets.Shortest()).Msg("No target length fits any bar after trim")
	}
	if result.BudgetExceeded > 0 {
		result.Conditions = append(result.Conditions, model.ConditionSearchBudgetExceeded)
	}

	o.logger.Info().
		Int("bars", len(result.Bars)).
		Int("pieces", result.PieceCount()).
		Int("offcuts", result.OffcutCount()).
		Float64("waste_pct", result.WastePercent()).
		Msg("Optimization run finished")

	return result
}

func hasPositiveGoal(goals map[int]int) bool {
	for _, g := range goals {
		if g > 0 {
			return true
		}
	}
	return false
}
