// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vector implements the hybrid dense/sparse numeric vector that
// underlies every column, row, and working vector in the simplex engine.
// A vector automatically switches representation as its nonzero count
// crosses a configured density threshold, the same strategy the reference
// solver uses to keep both FTRAN/BTRAN and pricing cheap whether a column
// is nearly full or nearly empty.
package vector

import (
	"sort"

	"github.com/simplexlp/engine/tolerance"
)

// Mode is the storage representation of a Vector.
type Mode uint8

const (
	// Dense stores one float64 per logical index.
	Dense Mode = iota
	// Sparse stores packed (index,value) pairs for nonzero entries only.
	Sparse
)

// Vector is a hybrid dense/sparse numeric vector of a fixed tolerance
// policy. The zero value is not usable; use New.
type Vector struct {
	mode   Mode
	dim    int
	dense  []float64
	vals   []float64
	idxs   []int
	sorted bool

	ratio float64 // ρ: density ratio governing the Dense/Sparse threshold
	tol   tolerance.Config
	sc    *Scratch
}

// New returns a zero Vector of dimension d. ratio is the sparsity ratio ρ
// from §6's configuration table; sc is the engine-owned scratch buffer this
// vector will borrow for dot products and additions.
func New(d int, ratio float64, tol tolerance.Config, sc *Scratch) *Vector {
	v := &Vector{
		mode:   Sparse,
		dim:    d,
		ratio:  ratio,
		tol:    tol,
		sc:     sc,
		sorted: true,
	}
	return v
}

// threshold returns t = round(d·ρ), the nonzero count at which the vector
// must be Dense rather than Sparse.
func (v *Vector) threshold() int {
	t := int(float64(v.dim)*v.ratio + 0.5)
	if t < 0 {
		t = 0
	}
	return t
}

// Length returns the current dimension d.
func (v *Vector) Length() int { return v.dim }

// Nonzeros returns |{i : v_i != 0}|.
func (v *Vector) Nonzeros() int {
	if v.mode == Dense {
		return v.denseNonzeros()
	}
	return len(v.idxs)
}

func (v *Vector) denseNonzeros() int {
	n := 0
	for _, x := range v.dense {
		if x != 0 {
			n++
		}
	}
	return n
}

// At returns the value at logical index i. O(1) in Dense mode, O(log s) in
// Sparse mode when sorted, O(s) otherwise.
func (v *Vector) At(i int) float64 {
	if i < 0 || i >= v.dim {
		panic("vector: index out of range")
	}
	if v.mode == Dense {
		return v.dense[i]
	}
	if v.sorted {
		lo, hi := 0, len(v.idxs)
		for lo < hi {
			mid := (lo + hi) / 2
			if v.idxs[mid] < i {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo < len(v.idxs) && v.idxs[lo] == i {
			return v.vals[lo]
		}
		return 0
	}
	for k, idx := range v.idxs {
		if idx == i {
			return v.vals[k]
		}
	}
	return 0
}

// rebalance converts between representations if the current nonzero count
// crosses the threshold on the wrong side of it. Must be called after every
// mutator that changes the nonzero count.
func (v *Vector) rebalance() {
	t := v.threshold()
	switch v.mode {
	case Dense:
		if v.denseNonzeros() < t {
			v.toSparse()
		}
	case Sparse:
		if len(v.idxs) >= t {
			v.toDense()
		}
	}
}

func (v *Vector) toDense() {
	dense := make([]float64, v.dim)
	for k, idx := range v.idxs {
		dense[idx] = v.vals[k]
	}
	v.dense = dense
	v.idxs = nil
	v.vals = nil
	v.mode = Dense
	v.sorted = true
}

func (v *Vector) toSparse() {
	idxs := make([]int, 0, v.dim)
	vals := make([]float64, 0, v.dim)
	for i, x := range v.dense {
		if x != 0 {
			idxs = append(idxs, i)
			vals = append(vals, x)
		}
	}
	v.idxs = idxs
	v.vals = vals
	v.dense = nil
	v.mode = Sparse
	v.sorted = true
}

// Set overwrites the value at index i, promoting representation as needed.
func (v *Vector) Set(i int, x float64) {
	if i < 0 || i >= v.dim {
		panic("vector: index out of range")
	}
	if v.mode == Dense {
		v.dense[i] = x
		v.rebalance()
		return
	}
	for k, idx := range v.idxs {
		if idx == i {
			if x == 0 {
				v.removeSparseAt(k)
			} else {
				v.vals[k] = x
			}
			v.rebalance()
			return
		}
	}
	if x != 0 {
		v.idxs = append(v.idxs, i)
		v.vals = append(v.vals, x)
		v.sorted = false
	}
	v.rebalance()
}

func (v *Vector) removeSparseAt(k int) {
	v.idxs = append(v.idxs[:k], v.idxs[k+1:]...)
	v.vals = append(v.vals[:k], v.vals[k+1:]...)
}

// Append grows the vector by one element with value x; dimension increases.
func (v *Vector) Append(x float64) {
	v.dim++
	if v.mode == Dense {
		v.dense = append(v.dense, x)
		v.rebalance()
		return
	}
	if x != 0 {
		v.idxs = append(v.idxs, v.dim-1)
		v.vals = append(v.vals, x)
	}
	v.rebalance()
}

// Insert inserts value x before position i; dimension increases by one,
// and every index >= i shifts up by one.
func (v *Vector) Insert(i int, x float64) {
	if i < 0 || i > v.dim {
		panic("vector: index out of range")
	}
	v.dim++
	if v.mode == Dense {
		d := make([]float64, 0, len(v.dense)+1)
		d = append(d, v.dense[:i]...)
		d = append(d, x)
		d = append(d, v.dense[i:]...)
		v.dense = d
		v.rebalance()
		return
	}
	for k := range v.idxs {
		if v.idxs[k] >= i {
			v.idxs[k]++
		}
	}
	if x != 0 {
		v.idxs = append(v.idxs, i)
		v.vals = append(v.vals, x)
		v.sorted = false
	}
	v.rebalance()
}

// Remove deletes the element at position i; dimension decreases by one and
// remaining indices above i shift down by one.
func (v *Vector) Remove(i int) {
	if i < 0 || i >= v.dim {
		panic("vector: index out of range")
	}
	v.dim--
	if v.mode == Dense {
		v.dense = append(v.dense[:i], v.dense[i+1:]...)
		v.rebalance()
		return
	}
	out := v.idxs[:0]
	vout := v.vals[:0]
	for k, idx := range v.idxs {
		switch {
		case idx == i:
			continue
		case idx > i:
			out = append(out, idx-1)
			vout = append(vout, v.vals[k])
		default:
			out = append(out, idx)
			vout = append(vout, v.vals[k])
		}
	}
	v.idxs = out
	v.vals = vout
	v.rebalance()
}

// ScaleBy multiplies every element by lambda in place. lambda == 0 is a
// specialization that yields the empty Sparse vector directly, skipping a
// pass over the (soon to be discarded) dense storage.
func (v *Vector) ScaleBy(lambda float64) {
	if lambda == 0 {
		v.dense = nil
		v.idxs = nil
		v.vals = nil
		v.mode = Sparse
		v.sorted = true
		return
	}
	if v.mode == Dense {
		for i := range v.dense {
			v.dense[i] *= lambda
		}
		return
	}
	for k := range v.vals {
		v.vals[k] *= lambda
	}
}

// ScaleByLambdas multiplies element i by Lambdas[i] for a dense array
// Lambdas of length d.
func (v *Vector) ScaleByLambdas(lambdas []float64) {
	if len(lambdas) != v.dim {
		panic("vector: length mismatch")
	}
	if v.mode == Dense {
		for i := range v.dense {
			v.dense[i] *= lambdas[i]
		}
		v.rebalance()
		return
	}
	for k, idx := range v.idxs {
		v.vals[k] *= lambdas[idx]
	}
	// Re-filter any entries that became exactly zero.
	out := v.idxs[:0]
	vout := v.vals[:0]
	for k, idx := range v.idxs {
		if v.vals[k] != 0 {
			out = append(out, idx)
			vout = append(vout, v.vals[k])
		}
	}
	v.idxs = out
	v.vals = vout
	v.rebalance()
}

// DotProduct computes <v, w>, funneling every nonzero product through
// StableAdd. The code path dispatches on the representation and sortedness
// of both operands.
func (v *Vector) DotProduct(w *Vector) float64 {
	if v.dim != w.dim {
		panic("vector: dimension mismatch")
	}
	switch {
	case v.mode == Dense && w.mode == Dense:
		return v.dotDenseDense(w)
	case v.mode == Dense && w.mode == Sparse:
		return v.dotDenseSparse(w)
	case v.mode == Sparse && w.mode == Dense:
		return w.dotDenseSparse(v)
	default:
		if v.sorted && w.sorted {
			return v.dotSortedSparse(w)
		}
		return v.dotScatterSparse(w)
	}
}

func (v *Vector) dotDenseDense(w *Vector) float64 {
	var total float64
	for i := range v.dense {
		p := v.dense[i] * w.dense[i]
		if p != 0 {
			total = v.tol.StableAdd(total, p)
		}
	}
	return total
}

// dotDenseSparse assumes the receiver is Dense and sp is Sparse.
func (v *Vector) dotDenseSparse(sp *Vector) float64 {
	var total float64
	for k, idx := range sp.idxs {
		p := v.dense[idx] * sp.vals[k]
		if p != 0 {
			total = v.tol.StableAdd(total, p)
		}
	}
	return total
}

// dotSortedSparse merges two ascending-sorted index arrays in O(s1+s2).
func (v *Vector) dotSortedSparse(w *Vector) float64 {
	var total float64
	i, j := 0, 0
	for i < len(v.idxs) && j < len(w.idxs) {
		switch {
		case v.idxs[i] < w.idxs[j]:
			i++
		case v.idxs[i] > w.idxs[j]:
			j++
		default:
			p := v.vals[i] * w.vals[j]
			if p != 0 {
				total = v.tol.StableAdd(total, p)
			}
			i++
			j++
		}
	}
	return total
}

// dotScatterSparse scatters the shorter operand into the scratch buffer and
// gathers against the longer one. Requires v.sc != nil.
func (v *Vector) dotScatterSparse(w *Vector) float64 {
	small, big := v, w
	if len(w.idxs) < len(v.idxs) {
		small, big = w, v
	}
	sc := v.sc
	sc.reserve(v.dim)
	for k, idx := range small.idxs {
		sc.set(idx, small.vals[k])
	}
	var total float64
	for k, idx := range big.idxs {
		p := sc.at(idx) * big.vals[k]
		if p != 0 {
			total = v.tol.StableAdd(total, p)
		}
	}
	sc.clear()
	return total
}

// AddVector performs self <- self + lambda*w, funneled through the tolerant
// add family (StableAddAbs, since this is the accumulator case the spec
// calls out as wanting the absolute-only variant).
func (v *Vector) AddVector(lambda float64, w *Vector) {
	if v.dim != w.dim {
		panic("vector: dimension mismatch")
	}
	if lambda == 0 {
		return
	}
	if v.mode == Dense {
		if w.mode == Dense {
			for i := range v.dense {
				v.dense[i] = v.tol.StableAddAbs(v.dense[i], lambda*w.dense[i])
			}
		} else {
			for k, idx := range w.idxs {
				v.dense[idx] = v.tol.StableAddAbs(v.dense[idx], lambda*w.vals[k])
			}
		}
		v.rebalance()
		return
	}
	// Receiver is Sparse: materialize via scratch, then rebuild sparse storage.
	sc := v.sc
	sc.reserve(v.dim)
	for k, idx := range v.idxs {
		sc.set(idx, v.vals[k])
	}
	if w.mode == Dense {
		for idx, x := range w.dense {
			if x != 0 {
				sc.set(idx, v.tol.StableAddAbs(sc.at(idx), lambda*x))
			}
		}
	} else {
		for k, idx := range w.idxs {
			sc.set(idx, v.tol.StableAddAbs(sc.at(idx), lambda*w.vals[k]))
		}
	}
	idxs := make([]int, 0, len(sc.touched))
	vals := make([]float64, 0, len(sc.touched))
	for _, idx := range sc.touched {
		if x := sc.at(idx); x != 0 {
			idxs = append(idxs, idx)
			vals = append(vals, x)
		}
	}
	sc.clear()
	v.idxs = idxs
	v.vals = vals
	v.sorted = false
	v.rebalance()
}

// ElementaryFtran applies one ETM to the receiver in place:
// self <- self + α·η, then self_p <- α·η_p, where α = self_p before the
// update. This collapses the pivot row as FTRAN requires (§4.F.2's per-ETM
// step, specialized to operate on a whole vector rather than just scanning
// η's nonzeros against the caller's working vector).
func (v *Vector) ElementaryFtran(eta *Vector, p int) {
	alpha := v.At(p)
	if alpha == 0 {
		return
	}
	v.AddVector(alpha, eta)
	v.Set(p, alpha*eta.At(p))
}

// SortElements sorts the Sparse index array ascending, enabling binary
// search in At and the merge path in DotProduct. A no-op in Dense mode or
// if already sorted. The choice of sort algorithm (insertion/counting/heap)
// is an optimization, not a behavioral contract; this implementation always
// uses Go's library sort, which is a valid realization of that contract.
func (v *Vector) SortElements() {
	if v.mode == Dense || v.sorted {
		return
	}
	type pair struct {
		idx int
		val float64
	}
	pairs := make([]pair, len(v.idxs))
	for k := range v.idxs {
		pairs[k] = pair{v.idxs[k], v.vals[k]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].idx < pairs[j].idx })
	for k := range pairs {
		v.idxs[k] = pairs[k].idx
		v.vals[k] = pairs[k].val
	}
	v.sorted = true
}

// Sorted reports whether the index array is currently known ascending.
func (v *Vector) Sorted() bool { return v.mode == Dense || v.sorted }

// ModeOf reports the current storage representation.
func (v *Vector) ModeOf() Mode { return v.mode }

// RatioOf reports the sparsity ratio ρ this vector was constructed with.
func (v *Vector) RatioOf() float64 { return v.ratio }

// ToleranceOf reports the tolerance.Config this vector was constructed with.
func (v *Vector) ToleranceOf() tolerance.Config { return v.tol }

// ScratchOf reports the scratch buffer this vector was constructed with.
func (v *Vector) ScratchOf() *Scratch { return v.sc }

// NonzeroIterator visits every nonzero of v exactly once, in index order in
// Dense mode or in Sparse storage order (ascending, if sorted) in Sparse
// mode.
type NonzeroIterator struct {
	v   *Vector
	pos int
}

// Iterator returns a fresh NonzeroIterator over v.
func (v *Vector) Iterator() *NonzeroIterator {
	return &NonzeroIterator{v: v}
}

// Next advances the iterator and returns (index, value, true), or
// (0, 0, false) once exhausted.
func (it *NonzeroIterator) Next() (int, float64, bool) {
	v := it.v
	if v.mode == Dense {
		for it.pos < len(v.dense) {
			i := it.pos
			it.pos++
			if v.dense[i] != 0 {
				return i, v.dense[i], true
			}
		}
		return 0, 0, false
	}
	if it.pos >= len(v.idxs) {
		return 0, 0, false
	}
	idx, val := v.idxs[it.pos], v.vals[it.pos]
	it.pos++
	return idx, val, true
}
