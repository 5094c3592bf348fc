package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyOffcuts(t *testing.T) {
	tests := []struct {
		name         string
		leftover     int
		offcut       int
		kerf         int
		wantOffcuts  []int
		wantLeftover int
	}{
		{"too short", 999, 1000, 4, nil, 999},
		{"needs kerf", 1003, 1000, 4, nil, 1003},
		{"exactly one", 1004, 1000, 4, []int{1000}, 0},
		{"two with rest", 2500, 1000, 4, []int{1000, 1000}, 492},
		{"no kerf", 2000, 1000, 0, []int{1000, 1000}, 0},
		{"disabled length", 5000, 0, 4, nil, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offcuts, leftover := ApplyOffcuts(tt.leftover, tt.offcut, tt.kerf)
			assert.Equal(t, tt.wantOffcuts, offcuts)
			assert.Equal(t, tt.wantLeftover, leftover)
		})
	}
}

func TestSummarizeOffcuts(t *testing.T) {
	r := OptimizeResult{Bars: []BarResult{
		{Offcuts: []int{1000, 1000}},
		{},
		{Offcuts: []int{800}},
	}}
	s := SummarizeOffcuts(r)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 2800, s.TotalLength)
}
