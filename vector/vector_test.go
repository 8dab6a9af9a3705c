// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simplexlp/engine/tolerance"
)

func newTestVector(d int, ratio float64) *Vector {
	return New(d, ratio, tolerance.DefaultConfig(), NewScratch(d))
}

func TestSetAtRoundTrip(t *testing.T) {
	v := newTestVector(10, 0.5)
	vals := map[int]float64{1: 3, 4: -2, 7: 9}
	for i, x := range vals {
		v.Set(i, x)
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, vals[i], v.At(i))
	}
	assert.Equal(t, 3, v.Nonzeros())
}

func TestRepresentationSwitchPreservesValues(t *testing.T) {
	v := newTestVector(10, 0.3) // threshold t = 3
	for i := 0; i < 2; i++ {
		v.Set(i, float64(i+1))
	}
	assert.Equal(t, Sparse, v.ModeOf())
	v.Set(2, 5) // nonzeros=3 >= t=3 -> promote to Dense
	assert.Equal(t, Dense, v.ModeOf())
	for i := 0; i < 2; i++ {
		assert.Equal(t, float64(i+1), v.At(i))
	}
	assert.Equal(t, 5.0, v.At(2))
	v.Set(0, 0) // nonzeros=2 < t=3 -> demote to Sparse
	v.Set(1, 0)
	assert.Equal(t, Sparse, v.ModeOf())
	assert.Equal(t, 5.0, v.At(2))
	assert.Equal(t, 0.0, v.At(0))
}

func TestAppendInsertRemove(t *testing.T) {
	v := newTestVector(3, 0.9)
	v.Set(0, 1)
	v.Set(1, 2)
	v.Set(2, 3)
	v.Append(4)
	assert.Equal(t, 4, v.Length())
	assert.Equal(t, 4.0, v.At(3))

	v.Insert(1, 99)
	assert.Equal(t, 5, v.Length())
	assert.Equal(t, []float64{1, 99, 2, 3, 4}, snapshot(v))

	v.Remove(1)
	assert.Equal(t, 4, v.Length())
	assert.Equal(t, []float64{1, 2, 3, 4}, snapshot(v))
}

func snapshot(v *Vector) []float64 {
	out := make([]float64, v.Length())
	for i := range out {
		out[i] = v.At(i)
	}
	return out
}

func TestScaleByZeroYieldsEmptySparse(t *testing.T) {
	v := newTestVector(5, 0.9) // Dense by construction pressure
	for i := 0; i < 5; i++ {
		v.Set(i, float64(i+1))
	}
	v.ScaleBy(0)
	assert.Equal(t, Sparse, v.ModeOf())
	assert.Equal(t, 0, v.Nonzeros())
}

func TestDotProductAcrossRepresentations(t *testing.T) {
	a := newTestVector(6, 0.9) // dense-leaning
	b := newTestVector(6, 0.5) // threshold 3: stays Sparse with 2 nonzeros
	for i := 0; i < 6; i++ {
		a.Set(i, float64(i))
	}
	b.Set(1, 2)
	b.Set(4, 3)
	want := 1.0*2 + 4.0*3
	assert.InDelta(t, want, a.DotProduct(b), 1e-9)
	assert.InDelta(t, want, b.DotProduct(a), 1e-9)
}

func TestDotProductSortedSparseMerge(t *testing.T) {
	a := newTestVector(8, 0.5) // threshold 4: both stay Sparse
	b := newTestVector(8, 0.5)
	a.Set(1, 2)
	a.Set(5, 3)
	b.Set(1, 4)
	b.Set(6, 7)
	a.SortElements()
	b.SortElements()
	assert.InDelta(t, 8.0, a.DotProduct(b), 1e-9)
}

func TestAddVectorAccumulates(t *testing.T) {
	a := newTestVector(4, 0.9)
	b := newTestVector(4, 0.9)
	for i := 0; i < 4; i++ {
		a.Set(i, 1)
		b.Set(i, 2)
	}
	a.AddVector(3, b)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 7.0, a.At(i), 1e-9)
	}
}

func TestNonzeroIteratorVisitsEachOnce(t *testing.T) {
	v := newTestVector(10, 0.1)
	want := map[int]float64{0: 1, 3: 2, 9: 3}
	for i, x := range want {
		v.Set(i, x)
	}
	seen := map[int]float64{}
	it := v.Iterator()
	for {
		i, x, ok := it.Next()
		if !ok {
			break
		}
		seen[i] = x
	}
	assert.Equal(t, want, seen)
}

func TestElementaryFtranCollapsesPivotRow(t *testing.T) {
	// η = [2, 1, 3] with pivot p=1 (η_p replaces reciprocal of the pivot).
	eta := newTestVector(3, 0.9)
	eta.Set(0, 2)
	eta.Set(1, 1)
	eta.Set(2, 3)

	v := newTestVector(3, 0.9)
	v.Set(0, 10)
	v.Set(1, 5) // alpha = v_p = 5
	v.Set(2, 20)

	v.ElementaryFtran(eta, 1)
	assert.InDelta(t, 10+5*2, v.At(0), 1e-9)
	assert.InDelta(t, 5*1, v.At(1), 1e-9)
	assert.InDelta(t, 20+5*3, v.At(2), 1e-9)
}
