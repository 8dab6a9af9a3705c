// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"github.com/pkg/errors"

	"github.com/simplexlp/engine/warmstart"
)

// BasisSnapshot captures the Engine's current basis head and nonbasic pins
// in the exchange format component K encodes/decodes.
func (e *Engine) BasisSnapshot() warmstart.Snapshot {
	s := warmstart.Snapshot{BasisHead: append([]int(nil), e.basisHead...)}
	total := e.model.NumStructural + e.model.NumLogical
	for j := 0; j < total; j++ {
		var mark warmstart.NonbasicMark
		switch e.states.Where(j) {
		case partAtLower:
			mark = warmstart.MarkLB
		case partAtUpper:
			mark = warmstart.MarkUB
		case partFixed:
			mark = warmstart.MarkFX
		case partFree:
			mark = warmstart.MarkFR
		default: // partBasic
			continue
		}
		s.Nonbasic = append(s.Nonbasic, warmstart.NonbasicPin{VarIndex: j, Mark: mark, Value: e.value[j]})
	}
	return s
}

// LoadBasis overrides the all-logical starting state NewEngine built with
// a decoded warm-start snapshot (§4.K). Call it before Solve; Solve still
// runs Reinvert first; since x_B is recomputed there, only the partition
// membership and nonbasic pinned values need to be restored here.
func (e *Engine) LoadBasis(s warmstart.Snapshot) error {
	total := e.model.NumStructural + e.model.NumLogical
	if err := s.Validate(total); err != nil {
		return err
	}
	if len(s.BasisHead) != len(e.xB) {
		return errors.Errorf("simplex: basis head has %d rows, want %d", len(s.BasisHead), len(e.xB))
	}

	for j := 0; j < total; j++ {
		if e.states.Where(j) != -1 {
			e.states.Remove(j)
		}
	}
	for i, v := range s.BasisHead {
		e.states.Insert(partBasic, v)
		e.basisHead[i] = v
	}
	for _, nb := range s.Nonbasic {
		e.value[nb.VarIndex] = nb.Value
		switch nb.Mark {
		case warmstart.MarkLB:
			e.states.Insert(partAtLower, nb.VarIndex)
		case warmstart.MarkUB:
			e.states.Insert(partAtUpper, nb.VarIndex)
		case warmstart.MarkFX:
			e.states.Insert(partFixed, nb.VarIndex)
		case warmstart.MarkFR:
			e.states.Insert(partFree, nb.VarIndex)
		}
	}
	for j := 0; j < total; j++ {
		if e.states.Where(j) == -1 {
			return errors.Errorf("simplex: variable %d left unassigned by warm-start snapshot", j)
		}
	}
	return nil
}
