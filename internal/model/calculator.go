package model

import "math"

// PurchaseEstimate holds the results of a bar purchasing calculation.
type PurchaseEstimate struct {
	TotalDemand     int     `json:"total_demand"`      // Total demanded length incl. kerf (mm)
	TotalPieces     int     `json:"total_pieces"`      // Number of demanded pieces
	StockLength     int     `json:"stock_length"`      // Raw bar length (mm)
	UsableLength    int     `json:"usable_length"`     // Bar length after trim (mm)
	BarsNeededExact float64 `json:"bars_needed_exact"` // Exact fractional number of bars
	BarsNeededMin   int     `json:"bars_needed_min"`   // Minimum bars (ceiling of exact)
	BarsWithWaste   int     `json:"bars_with_waste"`   // Recommended bars including waste factor
	WastePercent    float64 `json:"waste_percent"`     // Waste factor applied (e.g., 10 for 10%)
	TotalMetres     float64 `json:"total_metres"`      // Running metres of stock to order
	KerfWidth       int     `json:"kerf_width"`        // Kerf used in calculation
}

// CalculatePurchaseEstimate computes how many bars to buy for a demand list.
// Every piece is charged one kerf, which slightly over-estimates and keeps
// the estimate on the safe side.
func CalculatePurchaseEstimate(demand []DemandItem, settings CutSettings, wastePercent float64) PurchaseEstimate {
	var total, pieces int
	for _, d := range demand {
		if d.Length <= 0 || d.Quantity <= 0 {
			continue
		}
		total += (d.Length + settings.KerfWidth) * d.Quantity
		pieces += d.Quantity
	}

	usable := settings.Usable(settings.StockLength)
	if usable <= 0 {
		return PurchaseEstimate{
			TotalDemand:  total,
			TotalPieces:  pieces,
			StockLength:  settings.StockLength,
			WastePercent: wastePercent,
			KerfWidth:    settings.KerfWidth,
		}
	}

	exact := float64(total) / float64(usable)
	minBars := int(math.Ceil(exact))

	wasteFactor := 1.0 + (wastePercent / 100.0)
	withWaste := int(math.Ceil(exact * wasteFactor))
	if withWaste < minBars {
		withWaste = minBars
	}

	return PurchaseEstimate{
		TotalDemand:     total,
		TotalPieces:     pieces,
		StockLength:     settings.StockLength,
		UsableLength:    usable,
		BarsNeededExact: exact,
		BarsNeededMin:   minBars,
		BarsWithWaste:   withWaste,
		WastePercent:    wastePercent,
		TotalMetres:     float64(withWaste*settings.StockLength) / 1000.0,
		KerfWidth:       settings.KerfWidth,
	}
}
