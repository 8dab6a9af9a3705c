// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"

	"github.com/simplexlp/engine/tolerance"
)

func defaultOpts() BuildOptions {
	return BuildOptions{SparsityRatio: 0.5, Tolerance: tolerance.DefaultConfig()}
}

func TestClassifyBounds(t *testing.T) {
	assert.Equal(t, Free, ClassifyBounds(math.Inf(-1), math.Inf(1)))
	assert.Equal(t, Plus, ClassifyBounds(0, math.Inf(1)))
	assert.Equal(t, Minus, ClassifyBounds(math.Inf(-1), 0))
	assert.Equal(t, Bounded, ClassifyBounds(0, 1))
	assert.Equal(t, Fixed, ClassifyBounds(2, 2))
}

func TestBuildLEConstraint(t *testing.T) {
	structural := []Variable{NewVariable("x", 0, math.Inf(1))}
	cost := []float64{1}
	constraints := []Constraint{{Name: "c0", Shape: LE, Hi: 5}}
	rows := []map[int]float64{{0: 1}}

	cm, err := Build(structural, cost, Minimize, constraints, rows, defaultOpts())
	assert.NoError(t, err)
	assert.Equal(t, 5.0, cm.RHS[0])
	assert.Equal(t, 1.0, cm.Matrix.Get(0, 0))
	assert.Equal(t, 1.0, cm.Matrix.Get(0, 1))
	logical := cm.Variables[1]
	assert.Equal(t, Plus, logical.Type)
	assert.Equal(t, 0.0, logical.Lo)
	assert.True(t, math.IsInf(logical.Hi, 1))
}

func TestBuildRangeConstraint(t *testing.T) {
	structural := []Variable{NewVariable("x", math.Inf(-1), math.Inf(1))}
	constraints := []Constraint{{Name: "r0", Shape: Range, Lo: 2, Hi: 9}}
	rows := []map[int]float64{{0: 1}}

	cm, err := Build(structural, []float64{0}, Minimize, constraints, rows, defaultOpts())
	assert.NoError(t, err)
	assert.Equal(t, 9.0, cm.RHS[0])
	logical := cm.Variables[1]
	assert.Equal(t, 0.0, logical.Lo)
	assert.Equal(t, 7.0, logical.Hi)
}

func TestBuildEQConstraint(t *testing.T) {
	structural := []Variable{NewVariable("x", 0, math.Inf(1))}
	constraints := []Constraint{{Name: "e0", Shape: EQ, Hi: 3}}
	rows := []map[int]float64{{0: 1}}

	cm, err := Build(structural, []float64{1}, Minimize, constraints, rows, defaultOpts())
	assert.NoError(t, err)
	assert.Equal(t, 3.0, cm.RHS[0])
	logical := cm.Variables[1]
	assert.Equal(t, Fixed, logical.Type)
}

func TestBuildRejectsBadColumnIndex(t *testing.T) {
	structural := []Variable{NewVariable("x", 0, math.Inf(1))}
	constraints := []Constraint{{Name: "c0", Shape: LE, Hi: 1}}
	rows := []map[int]float64{{5: 1}}

	_, err := Build(structural, []float64{1}, Minimize, constraints, rows, defaultOpts())
	assert.Error(t, err)
}

func TestBuildProducesExpectedVariableSet(t *testing.T) {
	structural := []Variable{NewVariable("x", 0, math.Inf(1)), NewVariable("y", -3, 3)}
	constraints := []Constraint{{Name: "c0", Shape: LE, Hi: 10}}
	rows := []map[int]float64{{0: 1, 1: 1}}

	cm, err := Build(structural, []float64{1, 2}, Minimize, constraints, rows, defaultOpts())
	assert.NoError(t, err)

	want := []Variable{
		{Name: "x", Type: Plus, Lo: 0, Hi: math.Inf(1)},
		{Name: "y", Type: Bounded, Lo: -3, Hi: 3},
		{Name: "logical:c0", Type: Plus, Lo: 0, Hi: math.Inf(1)},
	}
	if diff := cmp.Diff(want, cm.Variables, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("unexpected variable set (-want +got):\n%s", diff)
	}
}
