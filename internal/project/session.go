package project

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/piwi3910/BarCut/internal/model"
)

// Session edits the inventory and target registry of a project with undo
// and redo. Every successful edit is one undo step.
type Session struct {
	Project *model.Project
	history *model.History
	logger  zerolog.Logger
}

// NewSession starts an editing session on p with empty history.
func NewSession(p *model.Project) *Session {
	return &Session{
		Project: p,
		history: model.NewHistory(),
		logger:  log.Logger.With().Str("component", "session").Str("project", p.Name).Logger(),
	}
}

func (s *Session) snapshot(label string) model.Snapshot {
	return model.MakeSnapshot(s.Project.Inventory, s.Project.Targets, label)
}

// apply records an undo step and runs edit. A failed edit leaves the project
// and the history unchanged.
func (s *Session) apply(label string, edit func() error) error {
	before := s.snapshot(label)
	if err := edit(); err != nil {
		s.restore(before)
		return err
	}
	s.history.Push(before)
	// A stale result no longer matches the configuration.
	s.Project.Result = nil
	s.logger.Debug().Str("edit", label).Msg("Applied edit")
	return nil
}

func (s *Session) restore(snap model.Snapshot) {
	s.Project.Inventory = snap.Inventory
	s.Project.Targets = snap.Targets
}

// AddStock adds qty bars of the given length to the inventory.
func (s *Session) AddStock(length, qty int) error {
	return s.apply(fmt.Sprintf("Add %d x %d mm", qty, length), func() error {
		if length <= 0 || qty <= 0 {
			return fmt.Errorf("length and quantity must be positive, got %d x %d", qty, length)
		}
		s.Project.Inventory.Add(length, qty)
		return nil
	})
}

// ImportStock merges imported batches into the inventory as one undo step.
func (s *Session) ImportStock(stocks []model.StockBar) error {
	return s.apply(fmt.Sprintf("Import %d batches", len(stocks)), func() error {
		for _, st := range stocks {
			s.Project.Inventory.AddStock(st)
		}
		return nil
	})
}

// RemoveStock removes every batch of the given length.
func (s *Session) RemoveStock(length int) error {
	return s.apply(fmt.Sprintf("Remove %d mm", length), func() error {
		if !s.Project.Inventory.Remove(length) {
			return fmt.Errorf("no stock of length %d mm", length)
		}
		return nil
	})
}

// ClearStock empties the inventory.
func (s *Session) ClearStock() error {
	return s.apply("Clear inventory", func() error {
		s.Project.Inventory.Clear()
		return nil
	})
}

// SetTarget adds a target length or changes its goal percentage.
func (s *Session) SetTarget(length, percent int) error {
	return s.apply(fmt.Sprintf("Set target %d mm = %d%%", length, percent), func() error {
		return s.Project.Targets.Set(length, percent)
	})
}

// RemoveTarget unregisters a target length.
func (s *Session) RemoveTarget(length int) error {
	return s.apply(fmt.Sprintf("Remove target %d mm", length), func() error {
		if !s.Project.Targets.Remove(length) {
			return fmt.Errorf("no target of length %d mm", length)
		}
		return nil
	})
}

// Undo reverts the last edit and returns its label.
func (s *Session) Undo() (string, bool) {
	label := s.history.UndoLabel()
	prev, ok := s.history.Undo(s.snapshot(label))
	if !ok {
		return "", false
	}
	s.restore(prev)
	s.Project.Result = nil
	s.logger.Debug().Str("edit", label).Msg("Undo")
	return label, true
}

// Redo re-applies the last undone edit and returns its label.
func (s *Session) Redo() (string, bool) {
	label := s.history.RedoLabel()
	next, ok := s.history.Redo(s.snapshot(label))
	if !ok {
		return "", false
	}
	s.restore(next)
	s.Project.Result = nil
	s.logger.Debug().Str("edit", label).Msg("Redo")
	return label, true
}

// Rollback undoes every edit of the session.
func (s *Session) Rollback() int {
	n := 0
	for {
		if _, ok := s.Undo(); !ok {
			return n
		}
		n++
	}
}

func (s *Session) CanUndo() bool { return s.history.CanUndo() }
func (s *Session) CanRedo() bool { return s.history.CanRedo() }
