package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_UndoRedo(t *testing.T) {
	h := NewHistory()
	inv := NewInventory()
	targets := DefaultTargets()

	h.Push(MakeSnapshot(inv, targets, "Add stock"))
	inv.Add(5400, 10)

	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	prev, ok := h.Undo(MakeSnapshot(inv, targets, "current"))
	require.True(t, ok)
	assert.True(t, prev.Inventory.IsEmpty())
	assert.True(t, h.CanRedo())

	next, ok := h.Redo(MakeSnapshot(prev.Inventory, prev.Targets, "current"))
	require.True(t, ok)
	assert.Equal(t, 10, next.Inventory.Count())
}

func TestHistory_PushClearsRedo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(NewInventory(), DefaultTargets(), "a"))
	_, _ = h.Undo(MakeSnapshot(NewInventory(), DefaultTargets(), "b"))
	require.True(t, h.CanRedo())

	h.Push(MakeSnapshot(NewInventory(), DefaultTargets(), "c"))
	assert.False(t, h.CanRedo())
}

func TestHistory_MaxDepth(t *testing.T) {
	h := NewHistory()
	for i := 0; i < defaultHistoryDepth+10; i++ {
		h.Push(MakeSnapshot(NewInventory(), DefaultTargets(), "step"))
	}
	n := 0
	for h.CanUndo() {
		_, _ = h.Undo(Snapshot{})
		n++
	}
	assert.Equal(t, defaultHistoryDepth, n)
}

func TestHistory_EmptyAndClear(t *testing.T) {
	h := NewHistory()
	_, ok := h.Undo(Snapshot{})
	assert.False(t, ok)
	_, ok = h.Redo(Snapshot{})
	assert.False(t, ok)

	h.Push(Snapshot{})
	h.Clear()
	assert.False(t, h.CanUndo())
}

func TestMakeSnapshot_DeepCopies(t *testing.T) {
	inv := NewInventory()
	inv.Add(5400, 1)
	snap := MakeSnapshot(inv, DefaultTargets(), "x")
	inv.Stocks[0].Quantity = 50
	assert.Equal(t, 1, snap.Inventory.Count())
}

func TestHistory_Labels(t *testing.T) {
	h := NewHistory()
	assert.Empty(t, h.UndoLabel())
	assert.Empty(t, h.RedoLabel())

	h.Push(MakeSnapshot(NewInventory(), DefaultTargets(), "Add stock"))
	assert.Equal(t, "Add stock", h.UndoLabel())

	_, ok := h.Undo(MakeSnapshot(NewInventory(), DefaultTargets(), "Add stock"))
	require.True(t, ok)
	assert.Empty(t, h.UndoLabel())
	assert.Equal(t, "Add stock", h.RedoLabel())
}
