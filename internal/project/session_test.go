package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BarCut/internal/model"
)

func newTestSession() *Session {
	p := model.NewProject()
	return NewSession(&p)
}

func TestSession_EditsAndUndo(t *testing.T) {
	s := newTestSession()

	require.NoError(t, s.AddStock(6000, 10))
	require.NoError(t, s.AddStock(6000, 5))
	require.NoError(t, s.SetTarget(1090, 60))
	assert.Equal(t, 15, s.Project.Inventory.Count())
	assert.Equal(t, 60, s.Project.Targets.Goal(1090))

	label, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, "Set target 1090 mm = 60%", label)
	assert.Equal(t, 0, s.Project.Targets.Goal(1090))

	label, ok = s.Undo()
	require.True(t, ok)
	assert.Equal(t, "Add 5 x 6000 mm", label)
	assert.Equal(t, 10, s.Project.Inventory.Count())

	label, ok = s.Redo()
	require.True(t, ok)
	assert.Equal(t, "Add 5 x 6000 mm", label)
	assert.Equal(t, 15, s.Project.Inventory.Count())

	label, ok = s.Redo()
	require.True(t, ok)
	assert.Equal(t, "Set target 1090 mm = 60%", label)
	assert.Equal(t, 60, s.Project.Targets.Goal(1090))

	_, ok = s.Redo()
	assert.False(t, ok)
}

func TestSession_FailedEditIsNotRecorded(t *testing.T) {
	s := newTestSession()

	assert.Error(t, s.AddStock(0, 5))
	assert.Error(t, s.RemoveStock(4800))
	assert.Error(t, s.RemoveTarget(999))
	assert.Error(t, s.SetTarget(-1, 10))
	assert.False(t, s.CanUndo())
}

func TestSession_RemoveAndClear(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.AddStock(6000, 2))
	require.NoError(t, s.AddStock(4800, 3))

	require.NoError(t, s.RemoveStock(6000))
	assert.Equal(t, []int{4800}, s.Project.Inventory.Lengths())

	require.NoError(t, s.ClearStock())
	assert.True(t, s.Project.Inventory.IsEmpty())

	require.NoError(t, s.RemoveTarget(1060))
	assert.False(t, s.Project.Targets.Has(1060))

	assert.Equal(t, 5, s.Rollback())
	assert.True(t, s.Project.Inventory.IsEmpty())
	assert.True(t, s.Project.Targets.Has(1060))
	assert.False(t, s.CanUndo())
	assert.True(t, s.CanRedo())
}

func TestSession_ImportStockIsOneStep(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.ImportStock([]model.StockBar{
		model.NewStockBar("A", 6000, 4),
		model.NewStockBar("B", 5400, 6),
	}))
	assert.Equal(t, 10, s.Project.Inventory.Count())

	_, ok := s.Undo()
	require.True(t, ok)
	assert.True(t, s.Project.Inventory.IsEmpty())
	assert.False(t, s.CanUndo())
}

func TestSession_EditClearsStaleResult(t *testing.T) {
	s := newTestSession()
	s.Project.Result = &model.OptimizeResult{}

	require.NoError(t, s.AddStock(6000, 1))
	assert.Nil(t, s.Project.Result)
}
