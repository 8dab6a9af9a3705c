// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ratiotest

import "math"

// PrimalRow is one basic row's contribution to the primal ratio test: its
// current value, bounds, and its entry in the pivot column α.
type PrimalRow struct {
	Index int
	Value float64
	Lo    float64 // -Inf for a free row
	Hi    float64 // +Inf for a free row
	Alpha float64
}

// PrimalResult is the outcome of the primal ratio test.
type PrimalResult struct {
	OutgoingRow int
	Theta       float64
	HitsUpper   bool // whether x_i - θα_i lands on Hi (vs Lo)
	Unbounded   bool
}

// Strategy selects among the three ratio-test walking strategies of
// §4.H.2/§4.H.4.
type Strategy int

const (
	Dantzig Strategy = iota
	PiecewiseLinear
	PiecewiseLinearGuarded
)

// Primal runs the primal ratio test (§4.H.4): dual of the dual ratio test,
// over rows. θ = min_i (x_i - ℓ_i)/α_i for α_i > 0 and (x_i - u_i)/α_i for
// α_i < 0, skipping free rows (no block) and treating a fixed row (ℓ=u) as
// an implicit bound flip with θ=0 available as a candidate. tau receives
// the current working (EXPAND) tolerance, but the ratios are computed
// against the exact bounds and tau does not affect the result.
func Primal(rows []PrimalRow, strategy Strategy, ePivot, tau float64) PrimalResult {
	var bps []Breakpoint
	bpRow := map[int]PrimalRow{}
	for _, r := range rows {
		if math.IsInf(r.Lo, -1) && math.IsInf(r.Hi, 1) {
			continue // free row never blocks
		}
		if math.Abs(r.Alpha) <= ePivot {
			continue
		}
		var limit float64
		hitsUpper := false
		if r.Alpha > 0 {
			limit = r.Lo
		} else {
			limit = r.Hi
			hitsUpper = true
		}
		theta := (r.Value - limit) / r.Alpha
		bps = append(bps, Breakpoint{Index: r.Index, Value: theta, FuncValue: boolToFloat(hitsUpper)})
		bpRow[r.Index] = r
	}
	if len(bps) == 0 {
		return PrimalResult{Unbounded: true}
	}

	switch strategy {
	case Dantzig:
		best := bps[0]
		for _, b := range bps[1:] {
			if b.Value < best.Value {
				best = b
			}
		}
		return PrimalResult{OutgoingRow: best.Index, Theta: best.Value, HitsUpper: best.FuncValue != 0}
	default:
		h := NewHeap(append([]Breakpoint(nil), bps...))
		last, ok := h.GetNextElement(h.Len())
		if !ok {
			return PrimalResult{Unbounded: true}
		}
		for strategy == PiecewiseLinearGuarded && math.Abs(bpRow[last.Index].Alpha) <= ePivot && h.Len() > 0 {
			next, ok2 := h.GetNextElement(h.Len())
			if !ok2 {
				break
			}
			last = next
		}
		return PrimalResult{OutgoingRow: last.Index, Theta: last.Value, HitsUpper: last.FuncValue != 0}
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
