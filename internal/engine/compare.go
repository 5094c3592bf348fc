package engine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/piwi3910/BarCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.CutSettings
}

// ComparisonResult holds the optimization result and computed statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Result       model.OptimizeResult
	BarsUsed     int
	Pieces       int
	Offcuts      int
	WastePercent float64
}

// CompareScenarios runs the sequencer for each scenario over the same
// inventory and targets, in scenario order.
func CompareScenarios(scenarios []ComparisonScenario, inv model.Inventory, targets model.TargetRegistry) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		opt := New(scenario.Settings).WithLogger(zerolog.Nop())
		result := opt.Optimize(inv, targets)

		results = append(results, ComparisonResult{
			Scenario:     scenario,
			Result:       result,
			BarsUsed:     len(result.Bars),
			Pieces:       result.PieceCount(),
			Offcuts:      result.OffcutCount(),
			WastePercent: result.WastePercent(),
		})
	}

	return results
}

// BuildDefaultScenarios generates what-if variants of the current settings.
func BuildDefaultScenarios(baseSettings model.CutSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	toggled := baseSettings
	toggled.PercentPriority = !baseSettings.PercentPriority
	name := "Percent Priority On"
	if baseSettings.PercentPriority {
		name = "Percent Priority Off"
	}
	scenarios = append(scenarios, ComparisonScenario{Name: name, Settings: toggled})

	// Thinner blade
	if baseSettings.KerfWidth > 1 {
		tightKerf := baseSettings
		tightKerf.KerfWidth = baseSettings.KerfWidth / 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Kerf %dmm (half)", tightKerf.KerfWidth),
			Settings: tightKerf,
		})
	}

	if baseSettings.TotalTrim() > 0 {
		noTrim := baseSettings
		noTrim.TrimFront = 0
		noTrim.TrimBack = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Trim",
			Settings: noTrim,
		})
	}

	moreUnique := baseSettings
	moreUnique.MaxUniqueLengths = baseSettings.MaxUniqueLengths + 1
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Max %d Lengths per Bar", moreUnique.MaxUniqueLengths),
		Settings: moreUnique,
	})

	return scenarios
}
