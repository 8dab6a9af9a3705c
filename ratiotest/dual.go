// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ratiotest

import (
	"math"

	"github.com/simplexlp/engine/feasibility"
)

// DualCandidate is one nonbasic column's contribution to the dual ratio
// test: its entry in the pivot row α, its current (phase-I or phase-II)
// reduced cost, its pinned state, and — for phase II bound flips — its
// bounds.
type DualCandidate struct {
	Index int
	Alpha float64
	D     float64
	State feasibility.NonbasicState
	Lo    float64
	Hi    float64
}

// BoundFlip records a pivot-free move of a bounded nonbasic variable from
// one bound to the other, discovered mid-walk by the phase-II dual ratio
// test (BFRT, §4.H.3).
type BoundFlip struct {
	Index    int
	ToUpper  bool
	Delta    float64 // u - ℓ, the shift applied to the basic-values side
}

// DualResult is the outcome of a dual ratio test pass.
type DualResult struct {
	Incoming   int
	DualStep   float64
	Objective  float64
	Flips      []BoundFlip
	NoStablePivot bool
}

// emitBreakpoints applies §4.H.2's per-column emission rule: a column only
// contributes a breakpoint if, for the feasibility class implied by its
// reduced cost and pinned state, moving the dual step in the direction
// that would repair a phase-I infeasibility is consistent with the sign of
// its α entry. A FREE variable contributes a breakpoint on both sides,
// since its reduced cost must stay at exactly zero when basic and so
// blocks on either sign of α.
func emitBreakpoints(cands []DualCandidate, ePivot float64) ([]Breakpoint, map[int]DualCandidate) {
	byIndex := make(map[int]DualCandidate, len(cands))
	var bps []Breakpoint
	for _, c := range cands {
		byIndex[c.Index] = c
		if math.Abs(c.Alpha) <= ePivot {
			continue
		}
		v := math.Abs(c.D / c.Alpha)
		switch c.State {
		case feasibility.AtLower:
			if c.Alpha > 0 {
				bps = append(bps, Breakpoint{Index: c.Index, Value: v, SlopeDelta: 1})
			}
		case feasibility.AtUpper:
			if c.Alpha < 0 {
				bps = append(bps, Breakpoint{Index: c.Index, Value: v, SlopeDelta: 1})
			}
		case feasibility.FreeState:
			bps = append(bps, Breakpoint{Index: c.Index, Value: v, SlopeDelta: 1})
			bps = append(bps, Breakpoint{Index: c.Index, Value: v, SlopeDelta: -1})
		}
	}
	return bps, byIndex
}

// DualPhaseI runs the phase-I dual ratio test (§4.H.2). dIn is the
// entering-side reduced cost magnitude (the pricing candidate's |d|), F is
// the current phase-I objective.
func DualPhaseI(cands []DualCandidate, dIn, F float64, strategy Strategy, ePivot float64) DualResult {
	bps, byIndex := emitBreakpoints(cands, ePivot)
	if len(bps) == 0 {
		return DualResult{NoStablePivot: true}
	}

	switch strategy {
	case Dantzig:
		best := bps[0]
		for _, b := range bps[1:] {
			if b.Value < best.Value {
				best = b
			}
		}
		return DualResult{Incoming: best.Index, DualStep: best.Value, Objective: F}
	default:
		h := NewHeap(append([]Breakpoint(nil), bps...))
		s := math.Abs(dIn)
		prevV := 0.0
		var last Breakpoint
		haveLast := false
		for s > 0 && h.Len() > 0 {
			bp, ok := h.GetNextElement(h.Len())
			if !ok {
				break
			}
			F += s * (bp.Value - prevV)
			prevV = bp.Value
			s -= math.Abs(byIndex[bp.Index].Alpha)
			last = bp
			haveLast = true
		}
		if !haveLast {
			return DualResult{NoStablePivot: true}
		}
		if strategy == PiecewiseLinearGuarded {
			best := F
			for math.Abs(byIndex[last.Index].Alpha) <= ePivot && h.Len() > 0 {
				next, ok := h.GetNextElement(h.Len())
				if !ok {
					break
				}
				candidateF := F + s*(next.Value-prevV)
				if candidateF < best {
					break
				}
				F = candidateF
				prevV = next.Value
				last = next
				best = candidateF
			}
			if math.Abs(byIndex[last.Index].Alpha) <= ePivot {
				return DualResult{NoStablePivot: true}
			}
		}
		return DualResult{Incoming: last.Index, DualStep: last.Value, Objective: F}
	}
}

// DualPhaseII runs the phase-II dual ratio test over feasible dual columns
// (§4.H.3): as phase I, but supporting bound flips when the incoming
// variable's step would move its partner basic variable out through the
// opposite bound.
func DualPhaseII(cands []DualCandidate, dIn, ePivot float64, strategy Strategy) DualResult {
	res := DualPhaseI(cands, dIn, 0, strategy, ePivot)
	if res.NoStablePivot {
		return res
	}
	var flips []BoundFlip
	for _, c := range cands {
		if c.Index == res.Incoming {
			continue
		}
		if c.State == feasibility.AtLower || c.State == feasibility.AtUpper {
			if !math.IsInf(c.Lo, -1) && !math.IsInf(c.Hi, 1) {
				v := math.Abs(c.D / c.Alpha)
				if v < res.DualStep {
					flips = append(flips, BoundFlip{
						Index:   c.Index,
						ToUpper: c.State == feasibility.AtLower,
						Delta:   c.Hi - c.Lo,
					})
				}
			}
		}
	}
	res.Flips = flips
	return res
}
