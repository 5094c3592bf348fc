package model

import (
	"fmt"
	"sort"
)

// Target is a desired piece length with its goal share of all pieces cut.
type Target struct {
	Length  int `json:"length" yaml:"length"`   // mm
	Percent int `json:"percent" yaml:"percent"` // 0-100, relative weight
}

// TargetRegistry maps target lengths to goal percentages. Lengths are unique.
type TargetRegistry struct {
	Targets []Target `json:"targets" yaml:"targets"`
}

// NewTargetRegistry creates an empty registry.
func NewTargetRegistry() TargetRegistry {
	return TargetRegistry{Targets: []Target{}}
}

// DefaultTargets returns the lengths a new project starts with.
func DefaultTargets() TargetRegistry {
	return TargetRegistry{Targets: []Target{
		{Length: 1060, Percent: 0},
		{Length: 1090, Percent: 0},
		{Length: 1120, Percent: 0},
	}}
}

// Set inserts or overwrites the goal for a length. Percent is clamped to 0..100.
func (r *TargetRegistry) Set(length, percent int) error {
	if length <= 0 {
		return fmt.Errorf("target length must be positive, got %d", length)
	}
	percent = min(max(percent, 0), 100)
	for i := range r.Targets {
		if r.Targets[i].Length == length {
			r.Targets[i].Percent = percent
			return nil
		}
	}
	r.Targets = append(r.Targets, Target{Length: length, Percent: percent})
	return nil
}

// Remove deletes a target length. Returns false if it was not registered.
func (r *TargetRegistry) Remove(length int) bool {
	for i, t := range r.Targets {
		if t.Length == length {
			r.Targets = append(r.Targets[:i], r.Targets[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether the length is registered.
func (r TargetRegistry) Has(length int) bool {
	for _, t := range r.Targets {
		if t.Length == length {
			return true
		}
	}
	return false
}

// Goal returns the goal percentage for a length, 0 when unknown.
func (r TargetRegistry) Goal(length int) int {
	for _, t := range r.Targets {
		if t.Length == length {
			return t.Percent
		}
	}
	return 0
}

// Goals returns the registry as a length -> percent map.
func (r TargetRegistry) Goals() map[int]int {
	goals := make(map[int]int, len(r.Targets))
	for _, t := range r.Targets {
		goals[t.Length] = t.Percent
	}
	return goals
}

// Lengths returns the registered lengths, longest first.
func (r TargetRegistry) Lengths() []int {
	lengths := make([]int, 0, len(r.Targets))
	for _, t := range r.Targets {
		lengths = append(lengths, t.Length)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))
	return lengths
}

// Shortest returns the smallest registered length, 0 when empty.
func (r TargetRegistry) Shortest() int {
	lengths := r.Lengths()
	if len(lengths) == 0 {
		return 0
	}
	return lengths[len(lengths)-1]
}

func (r TargetRegistry) Len() int {
	return len(r.Targets)
}

// Clone returns an independent copy.
func (r TargetRegistry) Clone() TargetRegistry {
	cp := make([]Target, len(r.Targets))
	copy(cp, r.Targets)
	return TargetRegistry{Targets: cp}
}
