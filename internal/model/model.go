package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// StockBar represents a batch of raw bars/boards of one length.
type StockBar struct {
	ID       string `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	Length   int    `json:"length" yaml:"length"` // mm
	Quantity int    `json:"quantity" yaml:"quantity"`
}

func NewStockBar(label string, length, qty int) StockBar {
	if label == "" {
		label = fmt.Sprintf("%d mm", length)
	}
	return StockBar{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Length:   length,
		Quantity: qty,
	}
}

// DemandItem is a required piece for the demand-driven (first-fit) mode.
type DemandItem struct {
	Label    string `json:"label" yaml:"label"`
	Length   int    `json:"length" yaml:"length"` // mm
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// Algorithm selects the demand-mode packing strategy.
type Algorithm string

const (
	AlgorithmFirstFit Algorithm = "first_fit" // First-fit decreasing (fast)
	AlgorithmGenetic  Algorithm = "genetic"   // Genetic ordering decoded with first fit
)

// SearchBudget bounds the pattern search for a single bar.
type SearchBudget struct {
	MaxCalls       int `json:"max_calls" yaml:"max_calls"`               // Node expansions before returning best-so-far
	EarlyExitWaste int `json:"early_exit_waste" yaml:"early_exit_waste"` // Leftover (mm) below which a leaf ends the search
	MaxDepth       int `json:"max_depth" yaml:"max_depth"`               // Maximum pieces in one pattern
}

// DefaultSearchBudget returns the tuning used when nothing is configured.
func DefaultSearchBudget() SearchBudget {
	return SearchBudget{
		MaxCalls:       2000,
		EarlyExitWaste: 10,
		MaxDepth:       1000,
	}
}

// CutSettings holds optimizer configuration. All lengths are in mm.
type CutSettings struct {
	KerfWidth        int  `json:"kerf_width" yaml:"kerf_width"`
	TrimFront        int  `json:"trim_front" yaml:"trim_front"`
	TrimBack         int  `json:"trim_back" yaml:"trim_back"`
	MaxUniqueLengths int  `json:"max_unique_lengths" yaml:"max_unique_lengths"` // Distinct target lengths allowed on one bar
	PercentPriority  bool `json:"percent_priority" yaml:"percent_priority"`     // Bias patterns toward under-served targets

	// Useful offcut salvaged from leftover material
	OffcutEnabled bool `json:"offcut_enabled" yaml:"offcut_enabled"`
	OffcutLength  int  `json:"offcut_length" yaml:"offcut_length"`

	Search SearchBudget `json:"search" yaml:"search"`

	// Demand mode
	Algorithm       Algorithm `json:"algorithm" yaml:"algorithm"`
	StockLength     int       `json:"stock_length" yaml:"stock_length"`
	MaxWastePercent float64   `json:"max_waste_percent" yaml:"max_waste_percent"` // Per-bar waste above this is flagged
}

func DefaultSettings() CutSettings {
	return CutSettings{
		KerfWidth:        4,
		TrimFront:        10,
		TrimBack:         10,
		MaxUniqueLengths: 2,
		PercentPriority:  true,
		OffcutEnabled:    true,
		OffcutLength:     1000,
		Search:           DefaultSearchBudget(),
		Algorithm:        AlgorithmFirstFit,
		StockLength:      6000,
		MaxWastePercent:  10,
	}
}

// TotalTrim returns the material removed from both ends of every bar.
func (s CutSettings) TotalTrim() int {
	return s.TrimFront + s.TrimBack
}

// Usable returns the length available for cutting after trim, never negative.
func (s CutSettings) Usable(length int) int {
	return max(0, length-s.TotalTrim())
}

// Validate reports settings that the optimizer cannot work with.
func (s CutSettings) Validate() error {
	var problems []string
	if s.KerfWidth < 0 {
		problems = append(problems, "kerf width must be >= 0")
	}
	if s.TrimFront < 0 || s.TrimBack < 0 {
		problems = append(problems, "trim must be >= 0")
	}
	if s.MaxUniqueLengths < 1 {
		problems = append(problems, "max unique lengths must be >= 1")
	}
	if s.OffcutEnabled && s.OffcutLength <= 0 {
		problems = append(problems, "offcut length must be > 0 when offcuts are enabled")
	}
	if s.Search.MaxCalls < 1 {
		problems = append(problems, "search max calls must be >= 1")
	}
	if s.Search.MaxDepth < 1 {
		problems = append(problems, "search max depth must be >= 1")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Condition is a non-fatal state reported alongside an optimization result.
type Condition string

const (
	ConditionEmptyInventory       Condition = "empty_inventory"
	ConditionEmptyTargetSet       Condition = "empty_target_set"
	ConditionInfeasible           Condition = "infeasible_configuration"
	ConditionSearchBudgetExceeded Condition = "search_budget_exceeded"
	ConditionEmptyDemand          Condition = "empty_demand"
	ConditionUnplacedPieces       Condition = "unplaced_pieces"
)

func (c Condition) String() string {
	switch c {
	case ConditionEmptyInventory:
		return "Inventory is empty, nothing to cut"
	case ConditionEmptyTargetSet:
		return "No target lengths configured, every bar is waste"
	case ConditionInfeasible:
		return "No target length fits any bar after trim"
	case ConditionSearchBudgetExceeded:
		return "Pattern search budget exhausted on some bars, best found pattern used"
	case ConditionEmptyDemand:
		return "Demand list is empty, nothing to cut"
	case ConditionUnplacedPieces:
		return "Some demanded pieces are longer than the usable stock length"
	default:
		return string(c)
	}
}

// BarResult represents one raw bar with its cutting pattern.
type BarResult struct {
	Stock          StockBar `json:"stock"`
	Available      int      `json:"available"` // Length after trim (mm)
	Pieces         []int    `json:"pieces"`    // Target pieces, ascending
	Offcuts        []int    `json:"offcuts"`   // Useful offcuts salvaged from leftover
	Leftover       int      `json:"leftover"`  // Waste after pieces, offcuts and kerf (mm)
	BudgetExceeded bool     `json:"budget_exceeded,omitempty"`
}

// PieceLength returns the total length of target pieces.
func (br BarResult) PieceLength() int {
	return sumInts(br.Pieces)
}

// UsedLength returns the total useful output: pieces plus offcuts.
func (br BarResult) UsedLength() int {
	return br.PieceLength() + sumInts(br.Offcuts)
}

// CutCount returns the number of pieces produced from this bar.
func (br BarResult) CutCount() int {
	return len(br.Pieces) + len(br.Offcuts)
}

// KerfLoss returns the material lost to saw cuts.
func (br BarResult) KerfLoss() int {
	return br.Available - br.UsedLength() - br.Leftover
}

// Efficiency returns the useful share of the raw bar as a percentage.
func (br BarResult) Efficiency() float64 {
	if br.Stock.Length == 0 {
		return 0
	}
	return float64(br.UsedLength()) / float64(br.Stock.Length) * 100.0
}

// WastePercent returns the non-useful share of the raw bar.
func (br BarResult) WastePercent() float64 {
	if br.Stock.Length == 0 {
		return 0
	}
	return 100.0 - br.Efficiency()
}

// PatternKey identifies bars that are cut identically.
func (br BarResult) PatternKey() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(br.Stock.Length))
	b.WriteByte('|')
	b.WriteString(joinInts(br.Pieces, ","))
	b.WriteByte('|')
	b.WriteString(joinInts(br.Offcuts, ","))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(br.Leftover))
	return b.String()
}

// OptimizeResult holds the full solution of one run.
type OptimizeResult struct {
	Bars           []BarResult  `json:"bars"`
	Tally          map[int]int  `json:"tally"` // Target pieces cut per length
	Conditions     []Condition  `json:"conditions,omitempty"`
	BudgetExceeded int          `json:"budget_exceeded"` // Bars whose search hit the budget
	Unplaced       []DemandItem `json:"unplaced,omitempty"`
}

// HasCondition reports whether the run flagged the given condition.
func (or OptimizeResult) HasCondition(c Condition) bool {
	for _, have := range or.Conditions {
		if have == c {
			return true
		}
	}
	return false
}

// TotalRawLength returns the total length of raw material consumed.
func (or OptimizeResult) TotalRawLength() int {
	total := 0
	for _, b := range or.Bars {
		total += b.Stock.Length
	}
	return total
}

// TotalUsedLength returns the total useful output length.
func (or OptimizeResult) TotalUsedLength() int {
	total := 0
	for _, b := range or.Bars {
		total += b.UsedLength()
	}
	return total
}

// TotalEfficiency returns overall material usage percentage.
func (or OptimizeResult) TotalEfficiency() float64 {
	raw := or.TotalRawLength()
	if raw == 0 {
		return 0
	}
	return float64(or.TotalUsedLength()) / float64(raw) * 100.0
}

// WastePercent returns 1 - useful/raw as a percentage, 0 for an empty run.
func (or OptimizeResult) WastePercent() float64 {
	if or.TotalRawLength() == 0 {
		return 0
	}
	return 100.0 - or.TotalEfficiency()
}

// OffcutCount returns the number of useful offcuts salvaged.
func (or OptimizeResult) OffcutCount() int {
	n := 0
	for _, b := range or.Bars {
		n += len(b.Offcuts)
	}
	return n
}

// PieceCount returns the number of target pieces cut.
func (or OptimizeResult) PieceCount() int {
	n := 0
	for _, b := range or.Bars {
		n += len(b.Pieces)
	}
	return n
}

// Project ties everything together for save/load.
type Project struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Inventory Inventory       `json:"inventory"`
	Targets   TargetRegistry  `json:"targets"`
	Demand    []DemandItem    `json:"demand,omitempty"`
	Settings  CutSettings     `json:"settings"`
	Result    *OptimizeResult `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		ID:        uuid.New().String()[:8],
		Name:      "Untitled",
		Inventory: NewInventory(),
		Targets:   DefaultTargets(),
		Settings:  DefaultSettings(),
	}
}

// DescribePattern renders pieces and offcuts as "1090 + 1090 + [1000]".
func DescribePattern(pieces, offcuts []int) string {
	if len(pieces) == 0 && len(offcuts) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(pieces)+len(offcuts))
	for _, p := range pieces {
		parts = append(parts, strconv.Itoa(p))
	}
	for _, o := range offcuts {
		parts = append(parts, "["+strconv.Itoa(o)+"]")
	}
	return strings.Join(parts, " + ")
}

// SortedCopy returns the lengths sorted ascending without touching the input.
func SortedCopy(lengths []int) []int {
	cp := make([]int, len(lengths))
	copy(cp, lengths)
	sort.Ints(cp)
	return cp
}

func sumInts(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func joinInts(xs []int, sep string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, sep)
}
