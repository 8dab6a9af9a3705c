// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simplexlp/engine/tolerance"
	"github.com/simplexlp/engine/vector"
)

func TestGetSetDualIndexed(t *testing.T) {
	sc := vector.NewScratch(4)
	tol := tolerance.DefaultConfig()
	m := New(3, 4, 0.5, tol, sc)
	m.Set(0, 0, 1)
	m.Set(1, 2, 5)
	m.Set(2, 3, -2)

	assert.Equal(t, 1.0, m.Get(0, 0))
	assert.Equal(t, 5.0, m.Get(1, 2))
	assert.Equal(t, -2.0, m.Get(2, 3))
	assert.Equal(t, 0.0, m.Get(0, 3))

	// Dual views agree.
	assert.Equal(t, 5.0, m.Row(1).At(2))
	assert.Equal(t, 5.0, m.Column(2).At(1))
}

func TestAppendColumn(t *testing.T) {
	sc := vector.NewScratch(4)
	tol := tolerance.DefaultConfig()
	m := New(2, 2, 0.5, tol, sc)
	m.Set(0, 0, 1)
	m.Set(1, 1, 1)

	m.AppendColumn(map[int]float64{0: 0, 1: 7})
	rows, cols := m.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 7.0, m.Get(1, 2))
	assert.Equal(t, 0.0, m.Get(0, 2))
}
