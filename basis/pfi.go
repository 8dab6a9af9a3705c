// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package basis

import (
	"github.com/simplexlp/engine/tolerance"
	"github.com/simplexlp/engine/vector"
)

// NontriMethod selects the strategy used to factor the non-triangular
// remainder (the "bump") left after the R and C passes of reinversion.
type NontriMethod uint8

const (
	Search NontriMethod = iota
	BlockTriangular
	BlockOrderedTriangular
)

// ColumnProvider supplies the column of a variable (structural or
// logical) over the m constraint rows. *matrix.Matrix satisfies this.
type ColumnProvider interface {
	Column(varIndex int) *vector.Vector
}

// PFI is a Product Form of the Inverse basis factorization: B^-1 as an
// ordered product of ETMs, split into a frozen list (built at the last
// Reinvert) and an append-only update list (one ETM per pivot since).
type PFI struct {
	m              int
	ratio          float64
	tol            tolerance.Config
	sc             *vector.Scratch
	ePivot         float64
	pivotThreshold float64
	method         NontriMethod

	frozen      []ETM
	update      []ETM
	basisHead   []int
	singularity int
}

// NewPFI returns an empty PFI over an m x m basis. Call Reinvert before
// the first FTRAN/BTRAN.
func NewPFI(m int, ratio float64, tol tolerance.Config, sc *vector.Scratch, ePivot, pivotThreshold float64, method NontriMethod) *PFI {
	return &PFI{
		m:              m,
		ratio:          ratio,
		tol:            tol,
		sc:             sc,
		ePivot:         ePivot,
		pivotThreshold: pivotThreshold,
		method:         method,
		basisHead:      make([]int, m),
	}
}

// Ftran computes v <- B^-1 v in place: frozen ETMs in recorded order, then
// update ETMs in recorded order.
func (p *PFI) Ftran(v *vector.Vector) {
	for _, e := range p.frozen {
		e.ftran(v, p.tol)
	}
	for _, e := range p.update {
		e.ftran(v, p.tol)
	}
}

// Btran computes v <- v^T B^-1 in place: update ETMs reversed, then frozen
// ETMs reversed.
func (p *PFI) Btran(v *vector.Vector) {
	for i := len(p.update) - 1; i >= 0; i-- {
		p.update[i].btran(v, p.tol)
	}
	for i := len(p.frozen) - 1; i >= 0; i-- {
		p.frozen[i].btran(v, p.tol)
	}
}

// Append builds the ETM for a pivot at pivotRow given the already-FTRAN'd
// entering column alpha, pushes it onto the update list, and rotates the
// basis head entry at pivotRow to enteringVar (§4.F.4).
func (p *PFI) Append(alpha *vector.Vector, pivotRow, enteringVar int) error {
	e, err := newETM(alpha, pivotRow, p.ratio, p.tol, p.sc)
	if err != nil {
		return err
	}
	p.update = append(p.update, e)
	p.basisHead[pivotRow] = enteringVar
	return nil
}

// IsFresh reports whether no updates have been applied since the last
// Reinvert.
func (p *PFI) IsFresh() bool { return len(p.update) == 0 }

// UpdateCount reports the number of pivots recorded since the last
// Reinvert — the quantity the reinversion schedule (§4.F.5) compares
// against its size threshold.
func (p *PFI) UpdateCount() int { return len(p.update) }

// Singularity reports how many rows were filled with their logical
// variable during the last Reinvert because no stable column could be
// assigned to them.
func (p *PFI) Singularity() int { return p.singularity }

// BasisHead returns the current basis head (read-only view; callers must
// not mutate the returned slice).
func (p *PFI) BasisHead() []int { return p.basisHead }
