// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package basis implements the Product Form of the Inverse (PFI): a basis
// inverse represented as an ordered list of elementary transformation
// matrices (ETMs), supporting FTRAN/BTRAN and rank-one pivot updates
// between full refactorizations. The rank-one update itself is the same
// shape as the reference solver's own "swap" structure — a chain of
// E_i = I + (η - e_p)·e_p^T updates solved by repeated Sherman-Morrison
// substitution, just generalized here to a sparse η and folded into the
// engine's hybrid vector type instead of a dense []float64.
package basis

import (
	"github.com/simplexlp/engine/tolerance"
	"github.com/simplexlp/engine/vector"
)

// ETM is one elementary transformation matrix: logically
// I + (η - e_p)·e_p^T after a unit column is removed. η_p must be nonzero;
// it replaces the reciprocal of the pivot on FTRAN.
type ETM struct {
	Eta *vector.Vector
	P   int
}

// ftran applies the ETM to v in place: pivot = v_p; if pivot == 0 the ETM
// is a no-op; otherwise every index i with η_i != 0 gets
// v_i <- StableAddAbs(v_i, pivot·η_i) for i != p, and v_p <- pivot·η_p.
func (e ETM) ftran(v *vector.Vector, tol tolerance.Config) {
	pivot := v.At(e.P)
	if pivot == 0 {
		return
	}
	it := e.Eta.Iterator()
	for {
		i, eta_i, ok := it.Next()
		if !ok {
			break
		}
		if i == e.P {
			continue
		}
		v.Set(i, tol.StableAddAbs(v.At(i), pivot*eta_i))
	}
	v.Set(e.P, pivot*e.Eta.At(e.P))
}

// btran applies the ETM's transposed contribution to v in place: compute
// d = <v, η> via the tolerant dot product, then set v_p <- d. No other
// entry of v is touched.
func (e ETM) btran(v *vector.Vector, tol tolerance.Config) {
	_ = tol
	d := e.Eta.DotProduct(v)
	v.Set(e.P, d)
}

// newETM builds the ETM for a pivot at row p given the FTRAN'd column
// alpha of the entering variable, per §4.F.4:
// η_p = 1/α_p, η_i = -α_i/α_p for i != p with α_i != 0.
func newETM(alpha *vector.Vector, p int, ratio float64, tol tolerance.Config, sc *vector.Scratch) (ETM, error) {
	ap := alpha.At(p)
	if ap == 0 {
		return ETM{}, ErrZeroPivot
	}
	eta := vector.New(alpha.Length(), ratio, tol, sc)
	it := alpha.Iterator()
	for {
		i, ai, ok := it.Next()
		if !ok {
			break
		}
		if i == p {
			continue
		}
		eta.Set(i, -ai/ap)
	}
	eta.Set(p, 1/ap)
	return ETM{Eta: eta, P: p}, nil
}
