// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pricing implements Dantzig-rule pricing: choosing the other side
// of a pivot (the incoming primal variable, or the outgoing dual variable)
// from a set of reduced-cost candidates the caller has already computed
// via BTRAN and a dot product against the nonbasic columns.
package pricing

import (
	"math"

	"github.com/simplexlp/engine/feasibility"
)

// Candidate is one nonbasic column's pricing signal.
type Candidate struct {
	Index int
	D     float64 // reduced cost (phase I: d̃_j; phase II: c_j - <π, A_j>)
	State feasibility.NonbasicState
}

// Pricer selects the Dantzig-rule candidate and tracks the per-iteration
// lock set: a column that proved numerically unstable in the ratio test is
// locked so pricing skips it and tries the next-best candidate within the
// same iteration.
type Pricer struct {
	locked map[int]bool
	last   int
	hasLast bool
}

// New returns an empty Pricer.
func New() *Pricer {
	return &Pricer{locked: map[int]bool{}}
}

// eligible reports whether d is a valid improving direction for state, per
// §4.I: AT_LB prefers d < 0, AT_UB prefers d > 0, FREE picks whichever
// absolute value is larger (i.e. is always eligible, compared by |d|).
func eligible(state feasibility.NonbasicState, d float64) bool {
	switch state {
	case feasibility.AtLower:
		return d < 0
	case feasibility.AtUpper:
		return d > 0
	case feasibility.FreeState:
		return d != 0
	default:
		return false
	}
}

// Select returns the candidate maximizing |d| among eligible, unlocked
// candidates. ok is false if no candidate qualifies (Optimal, or
// PrimalInfeasible/DualUnbounded depending on caller context — §7).
func (p *Pricer) Select(cands []Candidate) (Candidate, bool) {
	var best Candidate
	found := false
	for _, c := range cands {
		if p.locked[c.Index] {
			continue
		}
		if !eligible(c.State, c.D) {
			continue
		}
		if !found || math.Abs(c.D) > math.Abs(best.D) {
			best = c
			found = true
		}
	}
	if found {
		p.last = best.Index
		p.hasLast = true
	}
	return best, found
}

// LockLastIndex marks the last candidate Select returned as locked for the
// remainder of this iteration (called when the ratio test finds no stable
// pivot for that column, §4.J step (c)).
func (p *Pricer) LockLastIndex() {
	if p.hasLast {
		p.locked[p.last] = true
	}
}

// ReleaseUsed clears the lock set at the start of the next iteration.
// Idempotent: calling it twice in a row is a no-op the second time.
func (p *Pricer) ReleaseUsed() {
	if len(p.locked) == 0 {
		return
	}
	p.locked = map[int]bool{}
	p.hasLast = false
}
