// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplexlp/engine/config"
	"github.com/simplexlp/engine/model"
	"github.com/simplexlp/engine/simplex"
)

// TestLUFactorizationSolvesSameAsPFI exercises config.FactorizationLU end
// to end: the same trivial LP (seed scenario 1) must reach the same
// optimum whichever factorization backs the basis.
func TestLUFactorizationSolvesSameAsPFI(t *testing.T) {
	structural := []model.Variable{model.NewVariable("x", 1, 1e30)}
	cost := []float64{1}
	constraints := []model.Constraint{{Name: "c0", Shape: model.GE, Lo: 1}}
	rows := []map[int]float64{{0: 1}}

	m, err := model.Build(structural, cost, model.Minimize, constraints, rows, buildOpts())
	require.NoError(t, err)

	params := config.Default()
	params.FactorizationType = config.FactorizationLU
	eng, err := simplex.NewEngine(m, params)
	require.NoError(t, err)

	res := eng.Solve(context.Background())
	require.Equal(t, simplex.Optimal, res.Status)
	assert.InDelta(t, 1, res.Objective, 1e-9)
	assert.InDelta(t, 1, res.X[0], 1e-9)
}

func TestUnknownFactorizationTypeRejectedAtConstruction(t *testing.T) {
	structural := []model.Variable{model.NewVariable("x", 0, 1e30)}
	cost := []float64{1}
	constraints := []model.Constraint{{Name: "c0", Shape: model.GE, Lo: 0}}
	rows := []map[int]float64{{0: 1}}

	m, err := model.Build(structural, cost, model.Minimize, constraints, rows, buildOpts())
	require.NoError(t, err)

	params := config.Default()
	params.FactorizationType = "BOGUS"
	_, err = simplex.NewEngine(m, params)
	assert.Error(t, err)
}
