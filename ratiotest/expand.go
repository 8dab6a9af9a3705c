// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ratiotest

// Expand implements the EXPAND anti-cycling tolerance schedule (§4.H.5): a
// working tolerance τ_w that starts below the master tolerance τ_m and
// grows by δ each iteration, resetting to its floor once it reaches τ_m.
// τ_w is handed to Primal, which does not use it to compute its ratios, and
// the dual ratio tests take no tolerance, so τ_w does not change which
// pivot is chosen; the feasibility checker always compares against τ_m.
type Expand struct {
	master float64
	floor  float64
	delta  float64
	enabled bool

	working float64
}

// NewExpand builds an Expand schedule. If enabled is false, Working always
// returns master (EXPAND disabled, per the spec's degenerate-pivot seed
// scenario run both with and without it).
func NewExpand(master, floor, delta float64, enabled bool) *Expand {
	return &Expand{master: master, floor: floor, delta: delta, enabled: enabled, working: floor}
}

// Working returns the tolerance ratio tests should use this iteration.
func (e *Expand) Working() float64 {
	if !e.enabled {
		return e.master
	}
	return e.working
}

// Advance increments the working tolerance by δ, resetting to the floor
// once it reaches the master tolerance. Called once per iteration (§4.J
// step 3a).
func (e *Expand) Advance() {
	if !e.enabled {
		return
	}
	e.working += e.delta
	if e.working >= e.master {
		e.working = e.floor
	}
}
