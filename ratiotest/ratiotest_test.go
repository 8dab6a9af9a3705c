// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ratiotest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simplexlp/engine/feasibility"
)

func TestHeapAscendingOrder(t *testing.T) {
	bps := []Breakpoint{{Value: 5}, {Value: 1}, {Value: 3}, {Value: 2}, {Value: 4}}
	h := NewHeap(bps)
	var got []float64
	for h.Len() > 0 {
		bp, ok := h.GetNextElement(h.Len())
		assert.True(t, ok)
		got = append(got, bp.Value)
	}
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, got)
}

func TestPrimalDantzigPicksMinRatio(t *testing.T) {
	rows := []PrimalRow{
		{Index: 0, Value: 10, Lo: 0, Hi: math.Inf(1), Alpha: 2}, // theta = 5
		{Index: 1, Value: 4, Lo: 0, Hi: math.Inf(1), Alpha: 1},  // theta = 4
	}
	res := Primal(rows, Dantzig, 1e-9, 1e-7)
	assert.False(t, res.Unbounded)
	assert.Equal(t, 1, res.OutgoingRow)
	assert.InDelta(t, 4.0, res.Theta, 1e-9)
}

func TestPrimalUnboundedWhenNoBlockingRow(t *testing.T) {
	rows := []PrimalRow{
		{Index: 0, Value: 10, Lo: math.Inf(-1), Hi: math.Inf(1), Alpha: 2},
	}
	res := Primal(rows, Dantzig, 1e-9, 1e-7)
	assert.True(t, res.Unbounded)
}

func TestDualPhaseIDantzig(t *testing.T) {
	cands := []DualCandidate{
		{Index: 0, Alpha: 2, D: -4, State: feasibility.AtLower}, // v = 2
		{Index: 1, Alpha: 1, D: -1, State: feasibility.AtLower}, // v = 1
	}
	res := DualPhaseI(cands, 3, 0, Dantzig, 1e-9)
	assert.False(t, res.NoStablePivot)
	assert.Equal(t, 1, res.Incoming)
	assert.InDelta(t, 1.0, res.DualStep, 1e-9)
}

func TestDualPhaseINoCandidatesIsNoStablePivot(t *testing.T) {
	res := DualPhaseI(nil, 1, 0, Dantzig, 1e-9)
	assert.True(t, res.NoStablePivot)
}

func TestDualPhaseIIProducesBoundFlip(t *testing.T) {
	cands := []DualCandidate{
		{Index: 0, Alpha: 1, D: -10, State: feasibility.AtLower},
		{Index: 1, Alpha: 1, D: -1, State: feasibility.AtLower, Lo: 0, Hi: 5},
	}
	res := DualPhaseII(cands, 3, 1e-9, PiecewiseLinear)
	assert.False(t, res.NoStablePivot)
	if assert.Len(t, res.Flips, 1) {
		assert.Equal(t, 1, res.Flips[0].Index)
	}
}

func TestExpandScheduleResetsAtMaster(t *testing.T) {
	e := NewExpand(1e-6, 1e-9, 2e-7, true)
	assert.InDelta(t, 1e-9, e.Working(), 1e-12)
	// Five steps of 2e-7 from 1e-9 reach the master tolerance and reset.
	for i := 0; i < 5; i++ {
		e.Advance()
	}
	assert.InDelta(t, 1e-9, e.Working(), 1e-12)
	assert.Less(t, e.Working(), 1e-6)
}

func TestExpandDisabledAlwaysReturnsMaster(t *testing.T) {
	e := NewExpand(1e-6, 1e-9, 2e-7, false)
	e.Advance()
	assert.Equal(t, 1e-6, e.Working())
}
