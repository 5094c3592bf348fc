package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInventory_AddMergesByLength(t *testing.T) {
	inv := NewInventory()
	inv.Add(5400, 10)
	inv.Add(6000, 2)
	inv.Add(5400, 5)

	assert.Len(t, inv.Stocks, 2)
	assert.Equal(t, 15, inv.Stocks[0].Quantity)
	assert.Equal(t, 17, inv.Count())
	assert.Equal(t, 15*5400+2*6000, inv.TotalLength())
}

func TestInventory_AddIgnoresInvalid(t *testing.T) {
	inv := NewInventory()
	inv.Add(0, 3)
	inv.Add(5400, 0)
	inv.AddStock(StockBar{Length: -1, Quantity: 2})
	assert.True(t, inv.IsEmpty())
}

func TestInventory_Remove(t *testing.T) {
	inv := NewInventory()
	inv.Add(5400, 1)
	inv.Add(6000, 1)

	assert.True(t, inv.Remove(5400))
	assert.False(t, inv.Remove(5400))
	assert.Equal(t, []int{6000}, inv.Lengths())

	inv.Clear()
	assert.True(t, inv.IsEmpty())
}

func TestInventory_ExpandLongestFirst(t *testing.T) {
	inv := NewInventory()
	inv.Add(3000, 2)
	inv.Add(6000, 1)

	bars := inv.Expand()
	assert.Len(t, bars, 3)
	assert.Equal(t, 6000, bars[0].Length)
	assert.Equal(t, 3000, bars[1].Length)
	for _, b := range bars {
		assert.Equal(t, 1, b.Quantity)
	}
}

func TestInventory_FindByID(t *testing.T) {
	inv := NewInventory()
	inv.AddStock(StockBar{ID: "abc", Label: "Oak", Length: 2400, Quantity: 4})

	found := inv.FindByID("abc")
	if assert.NotNil(t, found) {
		found.Quantity = 1
	}
	assert.Equal(t, 1, inv.Count())
	assert.Nil(t, inv.FindByID("nope"))
}

func TestInventory_CloneIsIndependent(t *testing.T) {
	inv := NewInventory()
	inv.Add(5400, 3)
	cp := inv.Clone()
	cp.Stocks[0].Quantity = 99

	assert.Equal(t, 3, inv.Stocks[0].Quantity)
}
