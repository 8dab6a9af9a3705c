// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package feasibility classifies basic variable values and reduced costs
// into the M (below bound / wrong sign), F (feasible), P (above bound /
// wrong sign) partition the pricing and ratio-test modules read from, and
// aggregates the phase-I objective from that partition.
package feasibility

import (
	"github.com/simplexlp/engine/partition"
	"github.com/simplexlp/engine/tolerance"
)

// Class is a feasibility classification.
type Class int

const (
	Feasible Class = iota
	BelowLower
	AboveUpper
)

const (
	partFeasible = iota
	partBelow
	partAbove
)

// ClassifyValue classifies a basic variable's value x against its bounds at
// working tolerance tau.
func ClassifyValue(x, lo, hi, tau float64) Class {
	switch {
	case x < lo-tau:
		return BelowLower
	case x > hi+tau:
		return AboveUpper
	default:
		return Feasible
	}
}

// NonbasicState is the pinned state of a nonbasic variable, needed to
// interpret the sign convention of its reduced cost.
type NonbasicState int

const (
	AtLower NonbasicState = iota
	AtUpper
	FixedState
	FreeState
)

// ClassifyReducedCost classifies a nonbasic variable's reduced cost d
// against its pinned state at working tolerance tau: at LB, d < -tau is
// infeasible (M); at UB, d > tau is infeasible (P); free with |d| > tau is
// infeasible on the side matching its sign; FixedState is always feasible.
func ClassifyReducedCost(state NonbasicState, d, tau float64) Class {
	switch state {
	case AtLower:
		if d < -tau {
			return BelowLower
		}
		return Feasible
	case AtUpper:
		if d > tau {
			return AboveUpper
		}
		return Feasible
	case FreeState:
		if d > tau {
			return AboveUpper
		}
		if d < -tau {
			return BelowLower
		}
		return Feasible
	default: // FixedState
		return Feasible
	}
}

// BasicPartition tracks the feasibility class of each of the m basic rows
// via an index-partitioned list (component D), so "all rows currently in
// M" is an O(1)-per-element iteration rather than a full rescan.
type BasicPartition struct {
	list *partition.List
}

// NewBasicPartition builds a BasicPartition over m rows, all initially
// unclassified; call Recompute to populate it.
func NewBasicPartition(m int) *BasicPartition {
	return &BasicPartition{list: partition.New(m, 3)}
}

func classPart(c Class) int {
	switch c {
	case BelowLower:
		return partBelow
	case AboveUpper:
		return partAbove
	default:
		return partFeasible
	}
}

// Recompute reclassifies every basic row i against (lo[i], hi[i]) using
// xB[i] at working tolerance tau.
func (bp *BasicPartition) Recompute(xB, lo, hi []float64, tau float64) {
	m := len(xB)
	for i := 0; i < m; i++ {
		c := ClassifyValue(xB[i], lo[i], hi[i], tau)
		bp.list.Move(i, classPart(c))
	}
}

// ClassOf reports row i's current classification.
func (bp *BasicPartition) ClassOf(i int) Class {
	switch bp.list.Where(i) {
	case partBelow:
		return BelowLower
	case partAbove:
		return AboveUpper
	default:
		return Feasible
	}
}

// Iterate walks every row currently classified as c.
func (bp *BasicPartition) Iterate(c Class) *partition.Iterator {
	return bp.list.Iterate(classPart(c))
}

// IsFeasible reports whether every basic row is currently Feasible.
func (bp *BasicPartition) IsFeasible() bool {
	return bp.list.Count(partBelow) == 0 && bp.list.Count(partAbove) == 0
}

// PhaseIObjective computes Σ_{i∈M}(ℓ_i−x_i) + Σ_{i∈P}(x_i−u_i), funneled
// through StableAdd as every engine accumulation must be (§4.A).
func PhaseIObjective(bp *BasicPartition, xB, lo, hi []float64, tol tolerance.Config) float64 {
	var total float64
	it := bp.Iterate(BelowLower)
	for {
		i, ok := it.Next()
		if !ok {
			break
		}
		total = tol.StableAdd(total, lo[i]-xB[i])
	}
	it = bp.Iterate(AboveUpper)
	for {
		i, ok := it.Next()
		if !ok {
			break
		}
		total = tol.StableAdd(total, xB[i]-hi[i])
	}
	return total
}
