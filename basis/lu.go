// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package basis

import (
	"gonum.org/v1/gonum/mat"

	"github.com/simplexlp/engine/tolerance"
	"github.com/simplexlp/engine/vector"
)

// LU is the dense-LU basis factorization: the m x m basis matrix is
// rebuilt and factorized from scratch on every Reinvert via gonum's
// mat.LU, and pivots recorded since then ride on top of it as the same
// PFI-style ETM chain, mirroring
// gonum-gonum/optimize/convex/lp/parametric.go's pairing of a
// periodically-rebuilt *mat.LU base with a rank-one *Swap update chain
// layered in front of it.
//
// Unlike PFI's Markowitz bump search, a dense partially-pivoted LU gives
// no per-row diagnostic when the basis is singular — only an aggregate
// condition number — so a singular LU basis is repaired by resetting the
// whole head to the all-logical basis and refactorizing once, rather than
// PFI's row-by-row fallback.
type LU struct {
	m      int
	ratio  float64
	tol    tolerance.Config
	sc     *vector.Scratch
	ePivot float64

	fact   mat.LU
	update []ETM

	basisHead   []int
	singularity int
}

// NewLU returns an empty LU over an m x m basis. Call Reinvert before the
// first FTRAN/BTRAN.
func NewLU(m int, ratio float64, tol tolerance.Config, sc *vector.Scratch, ePivot float64) *LU {
	return &LU{m: m, ratio: ratio, tol: tol, sc: sc, ePivot: ePivot, basisHead: make([]int, m)}
}

// Ftran computes v <- B^-1 v in place: the dense LU solve for the frozen
// base, then the update ETMs in recorded order, exactly as PFI layers its
// update list on top of its frozen list.
func (l *LU) Ftran(v *vector.Vector) {
	l.solveBase(v, false)
	for _, e := range l.update {
		e.ftran(v, l.tol)
	}
}

// Btran computes v <- v^T B^-1 in place: update ETMs reversed, then the
// transposed dense LU solve.
func (l *LU) Btran(v *vector.Vector) {
	for i := len(l.update) - 1; i >= 0; i-- {
		l.update[i].btran(v, l.tol)
	}
	l.solveBase(v, true)
}

// solveBase runs the dense LU solve in place over v's m entries, routing
// through mat.VecDense since mat.LU.SolveVecTo knows nothing of the
// hybrid sparse/dense vector type.
func (l *LU) solveBase(v *vector.Vector, trans bool) {
	dense := mat.NewVecDense(l.m, nil)
	it := v.Iterator()
	for {
		i, x, ok := it.Next()
		if !ok {
			break
		}
		dense.SetVec(i, x)
	}
	var out mat.VecDense
	if err := l.fact.SolveVecTo(&out, trans, dense); err != nil {
		return
	}
	for i := 0; i < l.m; i++ {
		v.Set(i, out.AtVec(i))
	}
}

// Append builds the ETM for a pivot at pivotRow given the already-FTRAN'd
// entering column alpha, pushes it onto the update list, and rotates the
// basis head entry at pivotRow to enteringVar (§4.F.4) — identical to
// PFI.Append, since the update-chain representation doesn't depend on how
// the frozen base underneath it was built.
func (l *LU) Append(alpha *vector.Vector, pivotRow, enteringVar int) error {
	e, err := newETM(alpha, pivotRow, l.ratio, l.tol, l.sc)
	if err != nil {
		return err
	}
	l.update = append(l.update, e)
	l.basisHead[pivotRow] = enteringVar
	return nil
}

// IsFresh reports whether no updates have been applied since the last
// Reinvert.
func (l *LU) IsFresh() bool { return len(l.update) == 0 }

// UpdateCount reports the number of pivots recorded since the last
// Reinvert.
func (l *LU) UpdateCount() int { return len(l.update) }

// Singularity reports how many rows were reset to their logical variable
// during the last Reinvert.
func (l *LU) Singularity() int { return l.singularity }

// BasisHead returns the current basis head (read-only view).
func (l *LU) BasisHead() []int { return l.basisHead }

// Reinvert rebuilds the dense basis matrix from basisHead and factorizes
// it via mat.LU. A basis whose condition number exceeds 1/ePivot is
// treated as singular: the whole head is reset to the all-logical basis
// and refactorized once, and Singularity reports m (every row repaired),
// matching PFI's contract of returning ErrBasisSingular whenever any row
// needed a logical substitution.
func (l *LU) Reinvert(basisHead []int, cols ColumnProvider, logicalOf func(row int) int) error {
	copy(l.basisHead, basisHead)
	l.update = l.update[:0]
	l.singularity = 0

	dense := l.fillDense(l.basisHead, cols)
	l.fact.Factorize(dense)
	if l.fact.Cond() > 1/l.ePivot {
		for r := range l.basisHead {
			l.basisHead[r] = logicalOf(r)
		}
		l.singularity = l.m
		dense = l.fillDense(l.basisHead, cols)
		l.fact.Factorize(dense)
	}
	if l.singularity > 0 {
		return ErrBasisSingular
	}
	return nil
}

func (l *LU) fillDense(head []int, cols ColumnProvider) *mat.Dense {
	dense := mat.NewDense(l.m, l.m, nil)
	for k, v := range head {
		col := cols.Column(v)
		it := col.Iterator()
		for {
			i, a, ok := it.Next()
			if !ok {
				break
			}
			dense.Set(i, k, a)
		}
	}
	return dense
}
