// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/simplexlp/engine/config"
	"github.com/simplexlp/engine/model"
	"github.com/simplexlp/engine/simplex"
)

// TestSolveRandomFeasibleLPs builds a batch of small random LPs over
// nonnegative variables with m random LE rows whose right-hand sides are
// nonnegative, so the all-slack basis is always feasible. An Optimal result
// must satisfy every row within tolerance; DualUnbounded and
// PrimalInfeasible are also accepted, and any other status fails the
// test. The generator follows the
// pack's randomized-LP convention of a seeded rand.Rand driving repeated
// trials rather than a table of fixed fixtures.
func TestSolveRandomFeasibleLPs(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	const trials = 40
	for trial := 0; trial < trials; trial++ {
		n := rnd.Intn(5) + 2 // at least two structural variables
		m := rnd.Intn(n-1) + 1

		structural := make([]model.Variable, n)
		for j := range structural {
			structural[j] = model.NewVariable(nameOf(j), 0, math.Inf(1))
		}

		cost := make([]float64, n)
		for j := range cost {
			cost[j] = rnd.Float64()*10 - 2
		}

		rows := make([]map[int]float64, m)
		constraints := make([]model.Constraint, m)
		for i := 0; i < m; i++ {
			row := make(map[int]float64, n)
			rhs := 0.0
			for j := 0; j < n; j++ {
				a := math.Round(rnd.Float64()*6) - 3
				if a == 0 {
					continue
				}
				row[j] = a
				if a > 0 {
					rhs += a * 5 // keeps an all-zero point feasible against LE rows
				}
			}
			rows[i] = row
			constraints[i] = model.Constraint{Name: nameOf(n + i), Shape: model.LE, Hi: rhs + rnd.Float64()*10}
		}

		mdl, err := model.Build(structural, cost, model.Minimize, constraints, rows, buildOpts())
		require.NoError(t, err)

		eng, err := simplex.NewEngine(mdl, config.Default())
		require.NoError(t, err)

		res := eng.Solve(context.Background())
		switch res.Status {
		case simplex.Optimal:
			for i := 0; i < m; i++ {
				lhs := 0.0
				for j, a := range rows[i] {
					lhs += a * res.X[j]
				}
				require.LessOrEqual(t, lhs, constraints[i].Hi+1e-6, "trial %d row %d violated", trial, i)
			}
		case simplex.DualUnbounded, simplex.PrimalInfeasible:
			// Both are accepted for a random LP; any other status, such as
			// a numerical failure or a limit, is a test failure.
		default:
			t.Fatalf("trial %d: unexpected status %s (err=%v)", trial, res.Status, res.Err)
		}
	}
}

func nameOf(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	return string(letters[i%len(letters)])
}
