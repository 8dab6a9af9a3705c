// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simplex implements the control loop that ties the lower
// components together into a solve: basis factorization (package basis),
// feasibility classification (package feasibility), pricing (package
// pricing), and the ratio tests (package ratiotest) over a canonical
// model (package model).
package simplex

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/simplexlp/engine/basis"
	"github.com/simplexlp/engine/config"
	"github.com/simplexlp/engine/feasibility"
	"github.com/simplexlp/engine/model"
	"github.com/simplexlp/engine/partition"
	"github.com/simplexlp/engine/pricing"
	"github.com/simplexlp/engine/ratiotest"
	"github.com/simplexlp/engine/tolerance"
	"github.com/simplexlp/engine/vector"
)

// Variable-state partitions, over the full n+m column range.
const (
	partBasic = iota
	partAtLower
	partAtUpper
	partFixed
	partFree
)

// Engine is one solve's worth of state: a canonical model, a basis
// factorization, and the working vectors the control loop mutates each
// iteration. An Engine owns its vector.Scratch buffer and ETM lists
// exclusively — running two solves in parallel means constructing two
// Engines (§5).
type Engine struct {
	model  *model.Computational
	params config.Params
	tol    tolerance.Config
	ratio  float64
	sc     *vector.Scratch

	fact   basis.Factorization
	states *partition.List
	feas   *feasibility.BasicPartition
	pricer *pricing.Pricer
	expand *ratiotest.Expand

	basisHead []int
	xB        []float64
	value     []float64 // nonbasic pinned value, indexed by variable

	logger zerolog.Logger
	runID  uuid.UUID
}

// NewEngine builds an Engine over a canonical model with the given
// parameters, starting from the all-logical basis (§4.J step 1): every
// logical variable basic, every structural variable pinned to whichever
// finite bound it has (lower preferred), free variables pinned at zero.
func NewEngine(m *model.Computational, params config.Params) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	method, err := nontriMethod(params.NontriangularMethod)
	if err != nil {
		return nil, err
	}
	tol, err := tolerance.NewConfig(params.EAbsolute, params.ERelative)
	if err != nil {
		return nil, err
	}

	rows, _ := m.Matrix.Dims()
	total := m.NumStructural + m.NumLogical
	sc := vector.NewScratch(total)

	floor := params.EFeasibility / params.ExpandDividerDphI
	delta := params.EFeasibility * params.ExpandMultiplierDphI / params.ExpandDividerDphI

	fact, err := newFactorization(params, rows, tol, sc, method)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		model:     m,
		params:    params,
		tol:       tol,
		ratio:     params.SparsityRatio,
		sc:        sc,
		fact:      fact,
		states:    partition.New(total, 5),
		feas:      feasibility.NewBasicPartition(rows),
		pricer:    pricing.New(),
		expand:    ratiotest.NewExpand(params.EFeasibility, floor, delta, params.ExpandEnabled),
		basisHead: make([]int, rows),
		xB:        make([]float64, rows),
		value:     make([]float64, total),
		logger:    zerolog.Nop(),
		runID:     uuid.New(),
	}
	e.initStates()
	return e, nil
}

// SetLogger installs a structured logger for solver lifecycle events
// (§4.M). The default, zerolog.Nop(), never performs I/O.
func (e *Engine) SetLogger(l zerolog.Logger) { e.logger = l }

// RunID reports the UUID tagging this Engine's solve, attached to every
// log line and returned in Result for cross-log correlation.
func (e *Engine) RunID() uuid.UUID { return e.runID }

// newFactorization builds the basis.Factorization named by
// params.FactorizationType: PFI's Markowitz-ordered ETM chain, or a dense
// LU rebuilt each reinversion with the same ETM chain layered on top of
// it. Validate already rejects any other value, so the default case here
// is unreachable in practice.
func newFactorization(params config.Params, rows int, tol tolerance.Config, sc *vector.Scratch, method basis.NontriMethod) (basis.Factorization, error) {
	switch params.FactorizationType {
	case config.FactorizationLU:
		return basis.NewLU(rows, params.SparsityRatio, tol, sc, params.EPivot), nil
	case config.FactorizationPFI:
		return basis.NewPFI(rows, params.SparsityRatio, tol, sc,
			params.EPivot, params.PivotThreshold, method), nil
	default:
		return nil, errors.Errorf("simplex: unknown factorization type %q", params.FactorizationType)
	}
}

func nontriMethod(m config.NontriMethod) (basis.NontriMethod, error) {
	switch m {
	case config.MethodSearch:
		return basis.Search, nil
	case config.MethodBlockTriangular:
		return basis.BlockTriangular, nil
	case config.MethodBlockOrderedTriangular:
		return basis.BlockOrderedTriangular, nil
	default:
		return 0, errors.Errorf("simplex: unknown nontriangular method %q", m)
	}
}

func (e *Engine) logicalOf(row int) int { return e.model.NumStructural + row }

func (e *Engine) initStates() {
	n := e.model.NumStructural
	rows := len(e.xB)
	for i := 0; i < rows; i++ {
		v := n + i
		e.states.Move(v, partBasic)
		e.basisHead[i] = v
	}
	for j := 0; j < n; j++ {
		va := e.model.Variables[j]
		switch va.Type {
		case model.Fixed:
			e.states.Move(j, partFixed)
			e.value[j] = va.Lo
		case model.Free:
			e.states.Move(j, partFree)
			e.value[j] = 0
		case model.Minus: // only the upper bound is finite
			e.states.Move(j, partAtUpper)
			e.value[j] = va.Hi
		default: // Plus or Bounded: pin at the lower bound
			e.states.Move(j, partAtLower)
			e.value[j] = va.Lo
		}
	}
}

// boundsOf returns the (lo, hi) of variable v.
func (e *Engine) boundsOf(v int) (float64, float64) {
	va := e.model.Variables[v]
	return va.Lo, va.Hi
}

// nonbasicState maps a variable's current partition to the
// feasibility.NonbasicState the reduced-cost classifier and pricer expect.
func (e *Engine) nonbasicState(v int) feasibility.NonbasicState {
	switch e.states.Where(v) {
	case partAtLower:
		return feasibility.AtLower
	case partAtUpper:
		return feasibility.AtUpper
	case partFixed:
		return feasibility.FixedState
	default:
		return feasibility.FreeState
	}
}

// objective returns the phase-II objective c·x over the current basic and
// nonbasic values, plus the model's constant cost term.
func (e *Engine) objective() float64 {
	var total float64
	n := e.model.NumStructural
	rows := len(e.xB)
	for i := 0; i < rows; i++ {
		total = e.tol.StableAdd(total, e.model.Cost[e.basisHead[i]]*e.xB[i])
	}
	for j := 0; j < n+e.model.NumLogical; j++ {
		if e.states.Where(j) != partBasic {
			total = e.tol.StableAdd(total, e.model.Cost[j]*e.value[j])
		}
	}
	return total + e.model.CostConst
}

// solution assembles the full n+m primal vector from xB and the nonbasic
// pinned values.
func (e *Engine) solution() []float64 {
	total := e.model.NumStructural + e.model.NumLogical
	x := make([]float64, total)
	for j := 0; j < total; j++ {
		x[j] = e.value[j]
	}
	for i, v := range e.basisHead {
		x[v] = e.xB[i]
	}
	return x
}

