// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package basis

import "github.com/simplexlp/engine/vector"

// Factorization is the shared capability set a basis representation must
// offer the control loop: invert (FTRAN/BTRAN), append a pivot update, and
// report enough bookkeeping (freshness, update count, singularity, basis
// head) to drive the reinversion schedule (§4.F.5; spec.md §9's "polymorphic
// basis (PFI vs LU) with shared interface" note). Both PFI and LU implement
// it; the set is closed and small, so a concrete interface is used instead
// of open-ended subtype dispatch.
type Factorization interface {
	Ftran(v *vector.Vector)
	Btran(v *vector.Vector)
	Append(alpha *vector.Vector, pivotRow, enteringVar int) error
	Reinvert(basisHead []int, cols ColumnProvider, logicalOf func(row int) int) error
	IsFresh() bool
	UpdateCount() int
	Singularity() int
	BasisHead() []int
}

var (
	_ Factorization = (*PFI)(nil)
	_ Factorization = (*LU)(nil)
)
