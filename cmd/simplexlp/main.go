// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command simplexlp is a minimal end-to-end driver: it reads a tiny
// in-repo JSON problem description, builds a canonical model, runs the
// simplex engine, and prints the result. It exists to exercise the full
// pipeline without pulling in an MPS parser, which stays out of scope.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/simplexlp/engine/config"
	"github.com/simplexlp/engine/internal/floatutil"
	"github.com/simplexlp/engine/internal/obslog"
	"github.com/simplexlp/engine/model"
	"github.com/simplexlp/engine/simplex"
	"github.com/simplexlp/engine/tolerance"
)

func main() {
	problemPath := flag.String("problem", "", "path to a JSON problem description")
	configPath := flag.String("config", "", "path to a YAML configuration file (defaults used if omitted)")
	verbose := flag.Bool("verbose", false, "log solver lifecycle events to stderr")
	flag.Parse()

	if *problemPath == "" {
		fmt.Fprintln(os.Stderr, "simplexlp: -problem is required")
		os.Exit(2)
	}

	if err := run(*problemPath, *configPath, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "simplexlp:", err)
		os.Exit(1)
	}
}

func run(problemPath, configPath string, verbose bool) error {
	params := config.Default()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return err
		}
		params, err = config.FromYAML(data)
		if err != nil {
			return err
		}
	}

	data, err := os.ReadFile(problemPath)
	if err != nil {
		return err
	}
	m, err := buildModel(data)
	if err != nil {
		return err
	}

	eng, err := simplex.NewEngine(m, params)
	if err != nil {
		return err
	}
	if verbose {
		eng.SetLogger(obslog.New(os.Stderr, zerolog.DebugLevel))
	}

	ctx := context.Background()
	if params.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(params.TimeLimit*float64(time.Second)))
		defer cancel()
	}

	res := eng.Solve(ctx)
	printResult(res, m)
	return nil
}

// jsonProblem is the tiny in-repo problem format: no MPS, no presolve, no
// scaling — a direct description of structural variables, cost, and rows.
type jsonProblem struct {
	Sense       string              `json:"sense"`
	Variables   []jsonVariable      `json:"variables"`
	Cost        []float64           `json:"cost"`
	Constraints []jsonConstraint    `json:"constraints"`
	Rows        []map[string]float64 `json:"rows"`
}

type jsonVariable struct {
	Name string   `json:"name"`
	Lo   *float64 `json:"lo"`
	Hi   *float64 `json:"hi"`
}

type jsonConstraint struct {
	Name  string  `json:"name"`
	Shape string  `json:"shape"`
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
}

func buildModel(data []byte) (*model.Computational, error) {
	var p jsonProblem
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	structural := make([]model.Variable, len(p.Variables))
	for i, v := range p.Variables {
		lo, hi := 0.0, math.Inf(1)
		if v.Lo != nil {
			lo = *v.Lo
		}
		if v.Hi != nil {
			hi = *v.Hi
		}
		structural[i] = model.NewVariable(v.Name, lo, hi)
	}

	sense := model.Minimize
	if p.Sense == "max" {
		sense = model.Maximize
	}

	constraints := make([]model.Constraint, len(p.Constraints))
	for i, c := range p.Constraints {
		shape, err := parseShape(c.Shape)
		if err != nil {
			return nil, err
		}
		constraints[i] = model.Constraint{Name: c.Name, Shape: shape, Lo: c.Lo, Hi: c.Hi}
	}

	rows := make([]map[int]float64, len(p.Rows))
	for i, row := range p.Rows {
		r := make(map[int]float64, len(row))
		for k, v := range row {
			idx, err := strconv.Atoi(k)
			if err != nil {
				return nil, err
			}
			r[idx] = v
		}
		rows[i] = r
	}

	return model.Build(structural, p.Cost, sense, constraints, rows, model.BuildOptions{
		SparsityRatio: config.Default().SparsityRatio,
		Tolerance:     tolerance.DefaultConfig(),
	})
}

func parseShape(s string) (model.ConstraintShape, error) {
	switch s {
	case "le":
		return model.LE, nil
	case "ge":
		return model.GE, nil
	case "eq":
		return model.EQ, nil
	case "range":
		return model.Range, nil
	case "", "nonbinding":
		return model.NonBinding, nil
	default:
		return 0, fmt.Errorf("simplexlp: unknown constraint shape %q", s)
	}
}

func printResult(res simplex.Result, m *model.Computational) {
	fmt.Printf("status: %s\n", res.Status)
	fmt.Printf("run_id: %s\n", res.RunID)
	fmt.Printf("objective: %g\n", res.Objective)
	fmt.Printf("iterations: %d (reinversions: %d, bad: %d, degenerate: %d)\n",
		res.Iterations, res.Reinversions, res.BadIterations, res.DegenerateIterations)
	for i := 0; i < m.NumStructural; i++ {
		fmt.Printf("%s = %g\n", m.Variables[i].Name, res.X[i])
	}
	if res.Status == simplex.Optimal && len(res.X) > 0 {
		structural := res.X[:m.NumStructural]
		fmt.Printf("||x||_2 = %g, max|x_j| = %g, sum(x) = %g\n",
			floatutil.Norm(structural, 2), floatutil.Norm(structural, math.Inf(1)), floatutil.Sum(structural))
	}
}
