// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package matrix implements the dual-indexed sparse coefficient store: a
// matrix whose every entry is reachable both by row and by column, built
// from the hybrid vector.Vector type so that a dense constraint row costs
// no more than any other dense vector.
package matrix

import (
	"github.com/simplexlp/engine/tolerance"
	"github.com/simplexlp/engine/vector"
)

// Matrix is a row- and column-indexed sparse coefficient store.
type Matrix struct {
	rows, cols int
	rowVecs    []*vector.Vector
	colVecs    []*vector.Vector
}

// New returns a zero Matrix of r rows and c columns.
func New(r, c int, ratio float64, tol tolerance.Config, sc *vector.Scratch) *Matrix {
	m := &Matrix{rows: r, cols: c}
	m.rowVecs = make([]*vector.Vector, r)
	for i := range m.rowVecs {
		m.rowVecs[i] = vector.New(c, ratio, tol, sc)
	}
	m.colVecs = make([]*vector.Vector, c)
	for j := range m.colVecs {
		m.colVecs[j] = vector.New(r, ratio, tol, sc)
	}
	return m
}

// Dims returns (rows, cols).
func (m *Matrix) Dims() (int, int) { return m.rows, m.cols }

// Row returns the hybrid vector backing row i. Mutating it through Set
// keeps the row's own bookkeeping correct but does NOT update the dual
// column view — use Set on the Matrix itself to keep both views consistent.
func (m *Matrix) Row(i int) *vector.Vector { return m.rowVecs[i] }

// Column returns the hybrid vector backing column j. See Row's caveat.
func (m *Matrix) Column(j int) *vector.Vector { return m.colVecs[j] }

// Get returns A[i][j] in O(min(nnz(row i), nnz(col j))) by walking whichever
// of the two index views has fewer nonzeros.
func (m *Matrix) Get(i, j int) float64 {
	if m.rowVecs[i].Nonzeros() <= m.colVecs[j].Nonzeros() {
		return m.rowVecs[i].At(j)
	}
	return m.colVecs[j].At(i)
}

// Set writes A[i][j] = x, keeping the row and column views consistent.
func (m *Matrix) Set(i, j int, x float64) {
	m.rowVecs[i].Set(j, x)
	m.colVecs[j].Set(i, x)
}

// AppendColumn appends a new column (e.g. a logical variable's unit column
// built during canonicalization) with the given row values, keeping both
// views in sync. values need not list zero entries.
func (m *Matrix) AppendColumn(values map[int]float64) {
	m.cols++
	col := vector.New(m.rows, m.rowVecs[0].RatioOf(), m.rowVecs[0].ToleranceOf(), m.rowVecs[0].ScratchOf())
	for i := range m.rowVecs {
		m.rowVecs[i].Append(values[i])
	}
	for i := 0; i < m.rows; i++ {
		if x, ok := values[i]; ok && x != 0 {
			col.Set(i, x)
		}
	}
	m.colVecs = append(m.colVecs, col)
}
