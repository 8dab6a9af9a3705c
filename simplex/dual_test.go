// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplexlp/engine/config"
	"github.com/simplexlp/engine/model"
	"github.com/simplexlp/engine/simplex"
)

// TestDualVariantSolvesSimpleGE exercises config.AlgorithmDual end to end:
// the all-logical starting basis is primal-infeasible (the GE row's
// logical variable sits above its zero upper bound) but already
// dual-feasible, so a single dual pivot through the piecewise-linear dual
// ratio test (DualPhaseIIFunction, driven to a non-default value here)
// should land on the exact optimum.
func TestDualVariantSolvesSimpleGE(t *testing.T) {
	structural := []model.Variable{model.NewVariable("x", 0, math.Inf(1))}
	cost := []float64{1}
	constraints := []model.Constraint{{Name: "c0", Shape: model.GE, Lo: 5}}
	rows := []map[int]float64{{0: 1}}

	m, err := model.Build(structural, cost, model.Minimize, constraints, rows, buildOpts())
	require.NoError(t, err)

	params := config.Default()
	params.Algorithm = config.AlgorithmDual
	params.DualPhaseIIFunction = config.DualPiecewise

	eng, err := simplex.NewEngine(m, params)
	require.NoError(t, err)

	res := eng.Solve(context.Background())
	require.Equal(t, simplex.Optimal, res.Status)
	assert.InDelta(t, 5, res.Objective, 1e-9)
	assert.InDelta(t, 5, res.X[0], 1e-9)
}

// TestDualAlgorithmRejectedInConfig confirms Validate catches an unknown
// Algorithm value the same way it catches the other enum fields.
func TestDualAlgorithmRejectedInConfig(t *testing.T) {
	p := config.Default()
	p.Algorithm = "SIDEWAYS"
	assert.ErrorIs(t, p.Validate(), config.ErrInvalidConfiguration)
}
