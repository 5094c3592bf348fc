package engine

import (
	"fmt"
	"sort"

	"github.com/piwi3910/BarCut/internal/model"
)

// demandPiece is one physical piece expanded from a DemandItem.
type demandPiece struct {
	label  string
	length int
}

// expandDemand expands items by quantity. Non-positive entries are skipped.
func expandDemand(demand []model.DemandItem) []demandPiece {
	var pieces []demandPiece
	for _, d := range demand {
		if d.Length <= 0 {
			continue
		}
		for i := 0; i < d.Quantity; i++ {
			pieces = append(pieces, demandPiece{label: d.Label, length: d.Length})
		}
	}
	return pieces
}

// OptimizeDemand packs a list of demanded pieces onto bars of
// Settings.StockLength, opening a new bar whenever a piece fits nowhere.
// With AlgorithmGenetic the piece order is evolved; otherwise pieces are
// placed longest first (first-fit decreasing).
func (o *Optimizer) OptimizeDemand(demand []model.DemandItem) model.OptimizeResult {
	pieces := expandDemand(demand)

	o.logger.Info().
		Int("pieces", len(pieces)).
		Int("stock_length", o.Settings.StockLength).
		Str("algorithm", string(o.Settings.Algorithm)).
		Msg("Starting demand run")

	if len(pieces) == 0 {
		o.logger.Warn().Msg("Demand list is empty, nothing to do")
		return model.OptimizeResult{
			Bars:       []model.BarResult{},
			Tally:      map[int]int{},
			Conditions: []model.Condition{model.ConditionEmptyDemand},
		}
	}

	var result model.OptimizeResult
	if o.Settings.Algorithm == model.AlgorithmGenetic {
		result = OptimizeGenetic(o.Settings, demand)
	} else {
		sorted := make([]demandPiece, len(pieces))
		copy(sorted, pieces)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].length > sorted[j].length
		})
		result = firstFit(o.Settings, sorted)
	}

	over := 0
	for _, b := range result.Bars {
		if o.Settings.MaxWastePercent > 0 && b.WastePercent() > o.Settings.MaxWastePercent {
			over++
		}
	}
	o.logger.Info().
		Int("bars", len(result.Bars)).
		Int("unplaced", len(result.Unplaced)).
		Int("over_waste_limit", over).
		Float64("waste_pct", result.WastePercent()).
		Msg("Demand run finished")

	return result
}

// openBar is a bar being filled by firstFit.
type openBar struct {
	pieces []int
	used   int // Pieces plus kerf between them
}

// firstFit places pieces in the given order on the first bar with room.
// A piece of length l fits a bar holding n pieces when used + kerf + l stays
// within the usable length (no kerf for the first piece).
func firstFit(settings model.CutSettings, pieces []demandPiece) model.OptimizeResult {
	usable := settings.Usable(settings.StockLength)
	kerf := settings.KerfWidth

	var bars []*openBar
	unplaced := map[demandPiece]int{}
	var unplacedOrder []demandPiece
	tally := map[int]int{}

	for _, p := range pieces {
		if p.length > usable {
			if unplaced[p] == 0 {
				unplacedOrder = append(unplacedOrder, p)
			}
			unplaced[p]++
			continue
		}
		placed := false
		for _, b := range bars {
			if b.used+kerf+p.length <= usable {
				b.pieces = append(b.pieces, p.length)
				b.used += kerf + p.length
				placed = true
				break
			}
		}
		if !placed {
			bars = append(bars, &openBar{pieces: []int{p.length}, used: p.length})
		}
		tally[p.length]++
	}

	result := model.OptimizeResult{
		Bars:  make([]model.BarResult, 0, len(bars)),
		Tally: tally,
	}
	stock := model.StockBar{
		ID:       "stock",
		Label:    fmt.Sprintf("Stock %d mm", settings.StockLength),
		Length:   settings.StockLength,
		Quantity: 1,
	}
	for _, b := range bars {
		leftover := usable - b.used
		var offcuts []int
		if settings.OffcutEnabled {
			offcuts, leftover = model.ApplyOffcuts(leftover, settings.OffcutLength, kerf)
		}
		result.Bars = append(result.Bars, model.BarResult{
			Stock:     stock,
			Available: usable,
			Pieces:    model.SortedCopy(b.pieces),
			Offcuts:   offcuts,
			Leftover:  leftover,
		})
	}

	for _, p := range unplacedOrder {
		result.Unplaced = append(result.Unplaced, model.DemandItem{
			Label:    p.label,
			Length:   p.length,
			Quantity: unplaced[p],
		})
	}
	if len(result.Unplaced) > 0 {
		result.Conditions = append(result.Conditions, model.ConditionUnplacedPieces)
	}
	return result
}
