// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package model builds the canonical computational LP model consumed by
// the simplex engine: structural and logical columns packed into one
// sparse matrix, with constraints converted into logical (slack/surplus/
// artificial-free) columns so the engine never has to reason about
// constraint shapes directly.
package model

import (
	"math"

	"github.com/pkg/errors"

	"github.com/simplexlp/engine/matrix"
	"github.com/simplexlp/engine/tolerance"
	"github.com/simplexlp/engine/vector"
)

// VarType is a pure function of a variable's bound finiteness, per §3.
type VarType uint8

const (
	Free VarType = iota
	Plus         // ℓ finite, u = +∞
	Minus        // u finite, ℓ = -∞
	Bounded
	Fixed // ℓ == u
)

// ClassifyBounds returns the VarType implied by (lo, hi).
func ClassifyBounds(lo, hi float64) VarType {
	loFinite := !math.IsInf(lo, -1)
	hiFinite := !math.IsInf(hi, 1)
	switch {
	case loFinite && hiFinite && lo == hi:
		return Fixed
	case loFinite && hiFinite:
		return Bounded
	case loFinite:
		return Plus
	case hiFinite:
		return Minus
	default:
		return Free
	}
}

// Variable is immutable once the model is built.
type Variable struct {
	Name string
	Type VarType
	Lo   float64
	Hi   float64
}

// NewVariable builds a Variable, deriving Type from the bounds.
func NewVariable(name string, lo, hi float64) Variable {
	return Variable{Name: name, Type: ClassifyBounds(lo, hi), Lo: lo, Hi: hi}
}

// ConstraintShape is the relational shape of a user-supplied row.
type ConstraintShape uint8

const (
	LE ConstraintShape = iota
	GE
	EQ
	Range
	NonBinding
)

// Constraint is a user-supplied row before canonicalization.
type Constraint struct {
	Name  string
	Shape ConstraintShape
	Lo    float64 // meaningful for GE, Range (EQ uses Hi)
	Hi    float64 // meaningful for LE, Range, EQ
}

// ObjectiveSense is the optimization direction.
type ObjectiveSense uint8

const (
	Minimize ObjectiveSense = iota
	Maximize
)

// Computational is the canonicalized (A, b, c, ℓ, u, variable types,
// objective sense) model handed to the engine, matching §6's
// ComputationalModel.
type Computational struct {
	Matrix    *matrix.Matrix
	RHS       []float64
	Cost      []float64
	CostConst float64
	Variables []Variable
	Sense     ObjectiveSense

	NumStructural int
	NumLogical    int
}

// BuildOptions gates the optional perturbation/shift step of §4.E.3.
type BuildOptions struct {
	SparsityRatio float64
	Tolerance     tolerance.Config
	PerturbCost   []float64 // additive perturbation to c, nil to skip
	PerturbRHS    []float64 // additive perturbation to b, nil to skip
}

// ErrColumnCountMismatch is returned when a constraint row's coefficient map
// references a structural column outside [0, n).
var ErrColumnCountMismatch = errors.New("model: coefficient column index out of range")

// Build transforms a user-supplied (constraints, structural variables,
// coefficient rows, cost) problem into the canonical Computational model
// per §4.E:
//
//  1. append one logical variable per constraint (a unit column in its row,
//     bounds derived from the constraint shape);
//  2. compute b_i from the bound side that exists;
//  3. optionally perturb c/b per opts.
func Build(structural []Variable, cost []float64, sense ObjectiveSense,
	constraints []Constraint, rows []map[int]float64, opts BuildOptions) (*Computational, error) {

	n := len(structural)
	m := len(constraints)
	if len(cost) != n {
		return nil, errors.New("model: cost length must equal number of structural variables")
	}
	if len(rows) != m {
		return nil, errors.New("model: row count must equal constraint count")
	}

	sc := vector.NewScratch(n + m)
	A := matrix.New(m, n+m, opts.SparsityRatio, opts.Tolerance, sc)

	variables := make([]Variable, 0, n+m)
	variables = append(variables, structural...)

	b := make([]float64, m)
	c := make([]float64, n+m)
	copy(c, cost)

	for i, con := range constraints {
		for j, x := range rows[i] {
			if j < 0 || j >= n {
				return nil, errors.Wrapf(ErrColumnCountMismatch, "row %d column %d", i, j)
			}
			if x != 0 {
				A.Set(i, j, x)
			}
		}
		lo, hi, rhs, err := logicalBoundsAndRHS(con)
		if err != nil {
			return nil, errors.Wrapf(err, "constraint %d (%s)", i, con.Name)
		}
		b[i] = rhs
		A.Set(i, n+i, 1)
		variables = append(variables, NewVariable(logicalName(con, i), lo, hi))
	}

	if opts.PerturbCost != nil {
		if len(opts.PerturbCost) != n+m {
			return nil, errors.New("model: perturb cost length mismatch")
		}
		for i := range c {
			c[i] += opts.PerturbCost[i]
		}
	}
	if opts.PerturbRHS != nil {
		if len(opts.PerturbRHS) != m {
			return nil, errors.New("model: perturb rhs length mismatch")
		}
		for i := range b {
			b[i] += opts.PerturbRHS[i]
		}
	}

	return &Computational{
		Matrix:        A,
		RHS:           b,
		Cost:          c,
		Variables:     variables,
		Sense:         sense,
		NumStructural: n,
		NumLogical:    m,
	}, nil
}

func logicalName(con Constraint, i int) string {
	if con.Name != "" {
		return "logical:" + con.Name
	}
	return "logical#" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// logicalBoundsAndRHS derives the logical variable's (lo, hi) and the row's
// right-hand side from the constraint shape, per §4.E:
//
//	≤           ℓ=0, u=+∞,           b = upper bound
//	≥           ℓ=-∞, u=0,           b = lower bound
//	range       ℓ=0, u=(hi-lo),      b = upper bound
//	=           ℓ=u=0,               b = the (shared) bound
//	non-binding ℓ=-∞, u=+∞,          b = 0
func logicalBoundsAndRHS(con Constraint) (lo, hi, rhs float64, err error) {
	switch con.Shape {
	case LE:
		return 0, math.Inf(1), con.Hi, nil
	case GE:
		return math.Inf(-1), 0, con.Lo, nil
	case Range:
		if con.Hi < con.Lo {
			return 0, 0, 0, errors.New("model: range constraint has hi < lo")
		}
		return 0, con.Hi - con.Lo, con.Hi, nil
	case EQ:
		return 0, 0, con.Hi, nil
	case NonBinding:
		return math.Inf(-1), math.Inf(1), 0, nil
	default:
		return 0, 0, 0, errors.New("model: unknown constraint shape")
	}
}
