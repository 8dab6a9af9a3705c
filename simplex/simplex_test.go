// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex_test

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplexlp/engine/config"
	"github.com/simplexlp/engine/model"
	"github.com/simplexlp/engine/simplex"
	"github.com/simplexlp/engine/tolerance"
	"github.com/simplexlp/engine/warmstart"
)

func buildOpts() model.BuildOptions {
	return model.BuildOptions{SparsityRatio: 0.25, Tolerance: tolerance.DefaultConfig()}
}

func TestSolveTrivialMinimization(t *testing.T) {
	structural := []model.Variable{
		model.NewVariable("x0", 0, math.Inf(1)),
		model.NewVariable("x1", 0, math.Inf(1)),
	}
	cost := []float64{1, 1}
	constraints := []model.Constraint{{Name: "c0", Shape: model.GE, Lo: 10}}
	rows := []map[int]float64{{0: 1, 1: 1}}

	m, err := model.Build(structural, cost, model.Minimize, constraints, rows, buildOpts())
	require.NoError(t, err)

	eng, err := simplex.NewEngine(m, config.Default())
	require.NoError(t, err)

	res := eng.Solve(context.Background())
	assert.Equal(t, simplex.Optimal, res.Status)
	assert.InDelta(t, 10, res.Objective, 1e-6)
	assert.InDelta(t, 10, res.X[0]+res.X[1], 1e-6)
}

func TestSolveInfeasible(t *testing.T) {
	structural := []model.Variable{model.NewVariable("x0", 0, 5)}
	cost := []float64{1}
	constraints := []model.Constraint{{Name: "c0", Shape: model.GE, Lo: 10}}
	rows := []map[int]float64{{0: 1}}

	m, err := model.Build(structural, cost, model.Minimize, constraints, rows, buildOpts())
	require.NoError(t, err)

	eng, err := simplex.NewEngine(m, config.Default())
	require.NoError(t, err)

	res := eng.Solve(context.Background())
	assert.Equal(t, simplex.PrimalInfeasible, res.Status)
}

func TestSolveUnbounded(t *testing.T) {
	structural := []model.Variable{model.NewVariable("x0", 0, math.Inf(1))}
	cost := []float64{-1}
	constraints := []model.Constraint{{Name: "c0", Shape: model.NonBinding}}
	rows := []map[int]float64{{0: 1}}

	m, err := model.Build(structural, cost, model.Minimize, constraints, rows, buildOpts())
	require.NoError(t, err)

	eng, err := simplex.NewEngine(m, config.Default())
	require.NoError(t, err)

	res := eng.Solve(context.Background())
	assert.Equal(t, simplex.DualUnbounded, res.Status)
}

func TestWarmStartRoundTripPreservesSolution(t *testing.T) {
	structural := []model.Variable{
		model.NewVariable("x0", 0, math.Inf(1)),
		model.NewVariable("x1", 0, math.Inf(1)),
	}
	cost := []float64{2, 3}
	constraints := []model.Constraint{
		{Name: "c0", Shape: model.LE, Hi: 20},
		{Name: "c1", Shape: model.GE, Lo: 4},
	}
	rows := []map[int]float64{
		{0: 1, 1: 1},
		{0: 1, 1: 0},
	}

	m, err := model.Build(structural, cost, model.Minimize, constraints, rows, buildOpts())
	require.NoError(t, err)

	eng, err := simplex.NewEngine(m, config.Default())
	require.NoError(t, err)
	res := eng.Solve(context.Background())
	require.Equal(t, simplex.Optimal, res.Status)

	total := m.NumStructural + m.NumLogical
	snap := eng.BasisSnapshot()

	var bas bytes.Buffer
	require.NoError(t, warmstart.EncodeBAS(&bas, snap))
	fromBAS, err := warmstart.DecodeBAS(&bas, total)
	require.NoError(t, err)

	var pbf bytes.Buffer
	require.NoError(t, warmstart.EncodePBF(&pbf, snap, total, false))
	fromPBF, _, _, err := warmstart.DecodePBF(&pbf)
	require.NoError(t, err)

	for _, decoded := range []warmstart.Snapshot{fromBAS, fromPBF} {
		eng2, err := simplex.NewEngine(m, config.Default())
		require.NoError(t, err)
		require.NoError(t, eng2.LoadBasis(decoded))
		res2 := eng2.Solve(context.Background())
		require.Equal(t, simplex.Optimal, res2.Status)
		assert.InDelta(t, res.Objective, res2.Objective, 1e-6)
		for j := range res.X {
			assert.InDelta(t, res.X[j], res2.X[j], 1e-6)
		}
	}
}
