package model

import "sort"

// Default manual stock entry.
const (
	DefaultStockLength   = 5400
	DefaultStockQuantity = 100
)

// Inventory holds the raw bars available for cutting, batched by length.
type Inventory struct {
	Stocks []StockBar `json:"stocks" yaml:"stocks"`
}

// NewInventory returns an empty inventory.
func NewInventory() Inventory {
	return Inventory{Stocks: []StockBar{}}
}

// Add merges qty bars of the given length into the inventory. A batch of the
// same length absorbs the quantity; otherwise a new batch is created.
func (inv *Inventory) Add(length, qty int) {
	if length <= 0 || qty <= 0 {
		return
	}
	for i := range inv.Stocks {
		if inv.Stocks[i].Length == length {
			inv.Stocks[i].Quantity += qty
			return
		}
	}
	inv.Stocks = append(inv.Stocks, NewStockBar("", length, qty))
}

// AddStock appends a batch as-is, merging by length like Add.
func (inv *Inventory) AddStock(s StockBar) {
	if s.Length <= 0 || s.Quantity <= 0 {
		return
	}
	for i := range inv.Stocks {
		if inv.Stocks[i].Length == s.Length {
			inv.Stocks[i].Quantity += s.Quantity
			return
		}
	}
	inv.Stocks = append(inv.Stocks, s)
}

// Remove deletes every batch of the given length.
func (inv *Inventory) Remove(length int) bool {
	removed := false
	kept := inv.Stocks[:0]
	for _, s := range inv.Stocks {
		if s.Length == length {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	inv.Stocks = kept
	return removed
}

// Clear empties the inventory.
func (inv *Inventory) Clear() {
	inv.Stocks = []StockBar{}
}

// IsEmpty reports whether there is no bar to cut.
func (inv Inventory) IsEmpty() bool {
	return inv.Count() == 0
}

// Count returns the number of individual bars.
func (inv Inventory) Count() int {
	n := 0
	for _, s := range inv.Stocks {
		if s.Quantity > 0 {
			n += s.Quantity
		}
	}
	return n
}

// TotalLength returns the summed length of all bars in mm.
func (inv Inventory) TotalLength() int {
	total := 0
	for _, s := range inv.Stocks {
		if s.Quantity > 0 {
			total += s.Length * s.Quantity
		}
	}
	return total
}

// Expand returns one StockBar per physical bar (Quantity 1), longest first.
// Bars of equal length keep their batch order.
func (inv Inventory) Expand() []StockBar {
	var bars []StockBar
	for _, s := range inv.Stocks {
		for i := 0; i < s.Quantity; i++ {
			cp := s
			cp.Quantity = 1
			bars = append(bars, cp)
		}
	}
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Length > bars[j].Length
	})
	return bars
}

// Lengths returns the distinct stock lengths, longest first.
func (inv Inventory) Lengths() []int {
	seen := make(map[int]bool)
	var lengths []int
	for _, s := range inv.Stocks {
		if !seen[s.Length] {
			seen[s.Length] = true
			lengths = append(lengths, s.Length)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))
	return lengths
}

// FindByID returns a pointer to the batch with the given ID, or nil.
func (inv *Inventory) FindByID(id string) *StockBar {
	for i := range inv.Stocks {
		if inv.Stocks[i].ID == id {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// Clone returns an independent copy.
func (inv Inventory) Clone() Inventory {
	cp := make([]StockBar, len(inv.Stocks))
	copy(cp, inv.Stocks)
	return Inventory{Stocks: cp}
}
