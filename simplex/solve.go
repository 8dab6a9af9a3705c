// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/simplexlp/engine/basis"
	"github.com/simplexlp/engine/config"
	"github.com/simplexlp/engine/feasibility"
	"github.com/simplexlp/engine/model"
	"github.com/simplexlp/engine/pricing"
	"github.com/simplexlp/engine/ratiotest"
	"github.com/simplexlp/engine/vector"
)

// boundFlipSentinel marks a ratiotest.PrimalResult whose blocking
// breakpoint is the entering variable's own opposite bound rather than a
// basic row: a pivot-free bound-to-bound move.
const boundFlipSentinel = -1

// Status is the terminal outcome of a solve (§6).
type Status int

const (
	Optimal Status = iota
	PrimalInfeasible
	DualUnbounded
	IterationLimit
	TimeLimit
	NumericalFailure
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "OPTIMAL"
	case PrimalInfeasible:
		return "PRIMAL_INFEASIBLE"
	case DualUnbounded:
		return "DUAL_UNBOUNDED"
	case IterationLimit:
		return "ITERATION_LIMIT"
	case TimeLimit:
		return "TIME_LIMIT"
	case NumericalFailure:
		return "NUMERICAL_FAILURE"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of a call to Solve.
type Result struct {
	Status               Status
	RunID                uuid.UUID
	Objective            float64
	X                     []float64
	Dual                  []float64
	Iterations            int
	Reinversions          int
	BadIterations         int
	DegenerateIterations  int
	Err                   error
}

// Solve runs the control loop of §4.J to completion or to a terminal
// condition: Init has already happened in NewEngine, so Solve begins at
// Reinvert.
func (e *Engine) Solve(ctx context.Context) Result {
	start := time.Now()

	if err := e.reinvert(); err != nil {
		return e.finish(NumericalFailure, err, 0, 1, 0, 0)
	}
	reinversions := 1
	iterations, bad, degenerate := 0, 0, 0
	consecutiveFailures := 0

	for {
		select {
		case <-ctx.Done():
			return e.finish(TimeLimit, ctx.Err(), iterations, reinversions, bad, degenerate)
		default:
		}
		if e.params.IterationLimit > 0 && iterations >= e.params.IterationLimit {
			return e.finish(IterationLimit, nil, iterations, reinversions, bad, degenerate)
		}
		if e.params.TimeLimit > 0 && time.Since(start).Seconds() > e.params.TimeLimit {
			return e.finish(TimeLimit, nil, iterations, reinversions, bad, degenerate)
		}

		e.expand.Advance()
		dual := e.params.Algorithm == config.AlgorithmDual
		phaseOne := !dual && !e.feas.IsFeasible()
		before := e.phaseObjective(phaseOne)

		var status Status
		var done bool
		var err error
		if dual {
			status, done, err = e.iterateDual()
		} else {
			status, done, err = e.iterate(phaseOne)
		}
		if err != nil {
			consecutiveFailures++
			if consecutiveFailures > 1 {
				return e.finish(NumericalFailure, err, iterations, reinversions, bad, degenerate)
			}
			if rerr := e.reinvert(); rerr != nil {
				return e.finish(NumericalFailure, errors.Wrap(rerr, err.Error()), iterations, reinversions, bad, degenerate)
			}
			reinversions++
			continue
		}
		consecutiveFailures = 0
		if done {
			return e.finish(status, nil, iterations, reinversions, bad, degenerate)
		}
		iterations++

		after := e.phaseObjective(phaseOne)
		switch {
		case after == before:
			degenerate++
		case phaseOne && after > before:
			bad++
		case !phaseOne && after < before:
			bad++
		}

		e.logger.Debug().
			Str("run_id", e.runID.String()).
			Int("iteration", iterations).
			Bool("phase_one", phaseOne).
			Float64("objective", after).
			Msg("iteration complete")

		if e.fact.UpdateCount() >= e.params.ReinversionFrequency {
			if err := e.reinvert(); err != nil {
				return e.finish(NumericalFailure, err, iterations, reinversions, bad, degenerate)
			}
			reinversions++
		}
	}
}

// iterate runs steps (b)-(d) of §4.J once: price, select a pivot, apply
// it. The returned bool reports whether the solve is over (status is then
// meaningful); otherwise the loop continues.
func (e *Engine) iterate(phaseOne bool) (Status, bool, error) {
	pi := e.computeDual(phaseOne)
	cands := e.priceCandidates(phaseOne, pi)

	attempted := false
	for {
		best, ok := e.pricer.Select(cands)
		if !ok {
			e.pricer.ReleaseUsed()
			if attempted {
				return 0, false, errors.New("simplex: no stable pivot among priced candidates")
			}
			if phaseOne {
				return PrimalInfeasible, true, nil
			}
			return Optimal, true, nil
		}
		attempted = true

		rawAlpha := e.ftranColumn(best.Index)
		dir := directionOf(best.State, best.D)
		rows := e.primalRows(best.Index, rawAlpha, dir, phaseOne)
		res := ratiotest.Primal(rows, ratiotest.Dantzig, e.params.EPivot, e.expand.Working())
		if res.Unbounded {
			e.pricer.ReleaseUsed()
			if phaseOne {
				return PrimalInfeasible, true, nil
			}
			return DualUnbounded, true, nil
		}

		if res.OutgoingRow == boundFlipSentinel {
			e.applyBoundFlip(best.Index, dir, res.Theta, rawAlpha)
			e.pricer.ReleaseUsed()
			return 0, false, nil
		}

		if err := e.applyPivot(best.Index, dir, rawAlpha, res); err != nil {
			e.pricer.LockLastIndex()
			continue
		}
		e.pricer.ReleaseUsed()
		return 0, false, nil
	}
}

// iterateDual runs one pivot of the dual variant (§1, §4.G's dual
// feasibility partition): select the most primal-infeasible basic row,
// BTRAN the unit row vector to price every nonbasic column against it, and
// ratio-test columns instead of rows. Dual-infeasible columns (wrong-signed
// reduced cost for their pinned state) route through the phase-I dual
// ratio test (no bound flips); once every column is dual-feasible the
// phase-II test takes over, supporting BFRT.
func (e *Engine) iterateDual() (Status, bool, error) {
	row, class, mag, ok := e.selectDualLeavingRow()
	if !ok {
		return Optimal, true, nil
	}

	cands := e.dualColumnCandidates(row)
	var res ratiotest.DualResult
	if e.dualFeasible(cands) {
		res = ratiotest.DualPhaseII(cands, mag, e.params.EPivot, dualStrategy(e.params.DualPhaseIIFunction))
	} else {
		res = ratiotest.DualPhaseI(cands, mag, e.objective(), dualStrategy(e.params.DualPhaseIFunction), e.params.EPivot)
	}
	if res.NoStablePivot {
		return PrimalInfeasible, true, nil
	}

	e.applyDualFlips(res.Flips)

	cand, found := dualCandidateByIndex(cands, res.Incoming)
	if !found {
		return 0, false, errors.New("simplex: dual ratio test chose an unknown column")
	}
	dir := directionOf(cand.State, cand.D)
	rawAlpha := e.ftranColumn(res.Incoming)

	denom := dir * rawAlpha.At(row)
	if denom == 0 {
		return 0, false, errors.New("simplex: zero pivot in dual ratio test")
	}
	lo, hi := e.boundsOf(e.basisHead[row])
	hitsUpper := class == feasibility.AboveUpper
	target := lo
	if hitsUpper {
		target = hi
	}
	theta := (e.xB[row] - target) / denom

	primalRes := ratiotest.PrimalResult{OutgoingRow: row, Theta: theta, HitsUpper: hitsUpper}
	if err := e.applyPivot(res.Incoming, dir, rawAlpha, primalRes); err != nil {
		return 0, false, err
	}
	return 0, false, nil
}

// selectDualLeavingRow picks the basic row with the largest bound
// violation (Dantzig rule over primal infeasibility, the dual-variant
// analogue of pricing a column in the primal variant).
func (e *Engine) selectDualLeavingRow() (int, feasibility.Class, float64, bool) {
	lo, hi := e.basicBoundsArrays()
	bestRow, bestMag := -1, 0.0
	var bestClass feasibility.Class

	it := e.feas.Iterate(feasibility.BelowLower)
	for {
		i, ok := it.Next()
		if !ok {
			break
		}
		if mag := lo[i] - e.xB[i]; mag > bestMag {
			bestRow, bestMag, bestClass = i, mag, feasibility.BelowLower
		}
	}
	it = e.feas.Iterate(feasibility.AboveUpper)
	for {
		i, ok := it.Next()
		if !ok {
			break
		}
		if mag := e.xB[i] - hi[i]; mag > bestMag {
			bestRow, bestMag, bestClass = i, mag, feasibility.AboveUpper
		}
	}
	if bestRow < 0 {
		return 0, feasibility.Feasible, 0, false
	}
	return bestRow, bestClass, bestMag, true
}

// dualColumnCandidates prices every nonbasic column against the chosen
// leaving row: alpha is the row's entry in B^-1 A_j (via BTRAN of the unit
// row vector), d is the column's ordinary reduced cost (always the true
// objective — the dual variant has no composite phase-I cost of its own).
func (e *Engine) dualColumnCandidates(row int) []ratiotest.DualCandidate {
	pi := e.computeDual(false)
	rho := vector.New(len(e.xB), e.ratio, e.tol, e.sc)
	rho.Set(row, 1)
	e.fact.Btran(rho)

	total := e.model.NumStructural + e.model.NumLogical
	var cands []ratiotest.DualCandidate
	for j := 0; j < total; j++ {
		part := e.states.Where(j)
		if part == partBasic || part == partFixed {
			continue
		}
		col := e.model.Matrix.Column(j)
		alpha := rho.DotProduct(col)
		if alpha == 0 {
			continue
		}
		lo, hi := e.boundsOf(j)
		cands = append(cands, ratiotest.DualCandidate{
			Index: j,
			Alpha: alpha,
			D:     e.model.Cost[j] - pi.DotProduct(col),
			State: e.nonbasicState(j),
			Lo:    lo,
			Hi:    hi,
		})
	}
	return cands
}

// dualFeasible reports whether every priced column's reduced cost already
// has the sign its pinned state requires (§4.G).
func (e *Engine) dualFeasible(cands []ratiotest.DualCandidate) bool {
	for _, c := range cands {
		if feasibility.ClassifyReducedCost(c.State, c.D, e.params.EOptimality) != feasibility.Feasible {
			return false
		}
	}
	return true
}

// applyDualFlips replays the BFRT bound flips the phase-II dual ratio test
// found onto x_B before the real pivot is applied, exactly as a bound flip
// on the entering column does in the primal variant (applyBoundFlip), but
// for a column other than the one about to enter the basis.
func (e *Engine) applyDualFlips(flips []ratiotest.BoundFlip) {
	if len(flips) == 0 {
		return
	}
	for _, f := range flips {
		delta := f.Delta
		if !f.ToUpper {
			delta = -delta
		}
		alpha := e.ftranColumn(f.Index)
		it := alpha.Iterator()
		for {
			i, a, ok := it.Next()
			if !ok {
				break
			}
			e.xB[i] = e.tol.StableAddAbs(e.xB[i], -delta*a)
		}
		lo, hi := e.boundsOf(f.Index)
		if f.ToUpper {
			e.value[f.Index] = hi
			e.states.Move(f.Index, partAtUpper)
		} else {
			e.value[f.Index] = lo
			e.states.Move(f.Index, partAtLower)
		}
	}
	lo, hi := e.basicBoundsArrays()
	e.feas.Recompute(e.xB, lo, hi, e.params.EFeasibility)
}

func dualCandidateByIndex(cands []ratiotest.DualCandidate, idx int) (ratiotest.DualCandidate, bool) {
	for _, c := range cands {
		if c.Index == idx {
			return c, true
		}
	}
	return ratiotest.DualCandidate{}, false
}

func dualStrategy(f config.DualPhaseFunction) ratiotest.Strategy {
	switch f {
	case config.DualPiecewise:
		return ratiotest.PiecewiseLinear
	case config.DualPiecewiseGuarded:
		return ratiotest.PiecewiseLinearGuarded
	default:
		return ratiotest.Dantzig
	}
}

func directionOf(state feasibility.NonbasicState, d float64) float64 {
	switch state {
	case feasibility.AtUpper:
		return -1
	case feasibility.FreeState:
		if d > 0 {
			return -1
		}
		return 1
	default: // AtLower, FixedState (never eligible, direction unused)
		return 1
	}
}

// computeDual returns π = B^-T c_B for phase II, or π = B^-T z for phase
// I where z_i is -1/+1/0 per the basic row's feasibility class (§4.G's
// composite objective, priced the same way as the true cost in phase II).
func (e *Engine) computeDual(phaseOne bool) *vector.Vector {
	rows := len(e.xB)
	cB := vector.New(rows, e.ratio, e.tol, e.sc)
	for i := 0; i < rows; i++ {
		var w float64
		if phaseOne {
			switch e.feas.ClassOf(i) {
			case feasibility.BelowLower:
				w = -1
			case feasibility.AboveUpper:
				w = 1
			}
		} else {
			w = e.model.Cost[e.basisHead[i]]
		}
		if w != 0 {
			cB.Set(i, w)
		}
	}
	e.fact.Btran(cB)
	return cB
}

func (e *Engine) priceCandidates(phaseOne bool, pi *vector.Vector) []pricing.Candidate {
	total := e.model.NumStructural + e.model.NumLogical
	var cands []pricing.Candidate
	for j := 0; j < total; j++ {
		part := e.states.Where(j)
		if part == partBasic || part == partFixed {
			continue
		}
		var cj float64
		if !phaseOne {
			cj = e.model.Cost[j]
		}
		col := e.model.Matrix.Column(j)
		d := cj - pi.DotProduct(col)
		cands = append(cands, pricing.Candidate{Index: j, D: d, State: e.nonbasicState(j)})
	}
	return cands
}

func (e *Engine) ftranColumn(j int) *vector.Vector {
	col := e.model.Matrix.Column(j)
	alpha := vector.New(col.Length(), e.ratio, e.tol, e.sc)
	alpha.AddVector(1, col)
	e.fact.Ftran(alpha)
	return alpha
}

// primalRows builds the ratio-test input rows, folding the entering
// direction into the effective per-row coefficient (§4.J step (c)/(d)) and
// relaxing the phase-I bound on whichever side the row is already in
// violation of, so an infeasible basic row is free to move toward
// feasibility without immediately reblocking (the open-question decision
// for the composite phase-I ratio test, recorded in the design ledger).
func (e *Engine) primalRows(entering int, alpha *vector.Vector, dir float64, phaseOne bool) []ratiotest.PrimalRow {
	rows := len(e.xB)
	out := make([]ratiotest.PrimalRow, 0, rows+1)
	it := alpha.Iterator()
	for {
		i, a, ok := it.Next()
		if !ok {
			break
		}
		eff := dir * a
		if eff == 0 {
			continue
		}
		v := e.basisHead[i]
		lo, hi := e.boundsOf(v)
		if phaseOne {
			switch e.feas.ClassOf(i) {
			case feasibility.BelowLower:
				lo = math.Inf(-1)
			case feasibility.AboveUpper:
				hi = math.Inf(1)
			}
		}
		out = append(out, ratiotest.PrimalRow{Index: i, Value: e.xB[i], Lo: lo, Hi: hi, Alpha: eff})
	}
	loE, hiE := e.boundsOf(entering)
	if !math.IsInf(loE, -1) && !math.IsInf(hiE, 1) {
		out = append(out, ratiotest.PrimalRow{Index: boundFlipSentinel, Value: hiE - loE, Lo: 0, Hi: math.Inf(1), Alpha: 1})
	}
	return out
}

// applyPivot implements §4.J step (d) for a real basis change: it updates
// x_B, determines the outgoing variable's new nonbasic state, appends the
// ETM, and moves both variables between partitions. It returns the PFI's
// ErrZeroPivot unmodified so the caller can lock the column and retry.
func (e *Engine) applyPivot(entering int, dir float64, rawAlpha *vector.Vector, res ratiotest.PrimalResult) error {
	p := res.OutgoingRow
	theta := res.Theta

	vOut := e.basisHead[p]
	lo, hi := e.boundsOf(vOut)
	outgoingVal, newState := lo, partAtLower
	if res.HitsUpper {
		outgoingVal, newState = hi, partAtUpper
	}
	if e.model.Variables[vOut].Type == model.Fixed {
		newState = partFixed
	}
	enteringNew := e.value[entering] + dir*theta

	if err := e.fact.Append(rawAlpha, p, entering); err != nil {
		return err
	}

	it := rawAlpha.Iterator()
	for {
		i, a, ok := it.Next()
		if !ok {
			break
		}
		if i == p {
			continue
		}
		e.xB[i] = e.tol.StableAddAbs(e.xB[i], -theta*dir*a)
	}

	e.value[vOut] = outgoingVal
	e.states.Move(vOut, newState)
	e.states.Move(entering, partBasic)
	e.basisHead[p] = entering
	e.xB[p] = enteringNew

	lo2, hi2 := e.basicBoundsArrays()
	e.feas.Recompute(e.xB, lo2, hi2, e.params.EFeasibility)
	return nil
}

// applyBoundFlip implements the pivot-free bound-to-bound move: x_B shifts
// by the entering variable's full bound gap but no row leaves the basis.
func (e *Engine) applyBoundFlip(entering int, dir, theta float64, rawAlpha *vector.Vector) {
	it := rawAlpha.Iterator()
	for {
		i, a, ok := it.Next()
		if !ok {
			break
		}
		e.xB[i] = e.tol.StableAddAbs(e.xB[i], -theta*dir*a)
	}
	lo, hi := e.boundsOf(entering)
	if dir > 0 {
		e.value[entering] = hi
		e.states.Move(entering, partAtUpper)
	} else {
		e.value[entering] = lo
		e.states.Move(entering, partAtLower)
	}
	lo2, hi2 := e.basicBoundsArrays()
	e.feas.Recompute(e.xB, lo2, hi2, e.params.EFeasibility)
}

// reinvert implements §4.J step 2: factor B, compute x_B, reset the lock
// set, recompute feasibility. A singular basis is not fatal here — the
// logical fallback already patched the basis head — it is only logged.
func (e *Engine) reinvert() error {
	err := e.fact.Reinvert(e.basisHead, e.model.Matrix, e.logicalOf)
	copy(e.basisHead, e.fact.BasisHead())
	if err != nil && !errors.Is(err, basis.ErrBasisSingular) {
		return err
	}
	if errors.Is(err, basis.ErrBasisSingular) {
		e.logger.Info().
			Str("run_id", e.runID.String()).
			Int("singularity", e.fact.Singularity()).
			Msg("reinversion found a singular basis; logical fallback applied")
	} else {
		e.logger.Info().Str("run_id", e.runID.String()).Msg("reinversion complete")
	}
	e.computeXB()
	e.pricer.ReleaseUsed()
	lo, hi := e.basicBoundsArrays()
	e.feas.Recompute(e.xB, lo, hi, e.params.EFeasibility)
	return nil
}

// computeXB solves x_B = B^-1(b - Σ_{j nonbasic} A_j·value_j) via FTRAN.
func (e *Engine) computeXB() {
	rows := len(e.xB)
	rhs := vector.New(rows, e.ratio, e.tol, e.sc)
	for i, b := range e.model.RHS {
		if b != 0 {
			rhs.Set(i, b)
		}
	}
	total := len(e.value)
	for j := 0; j < total; j++ {
		if e.states.Where(j) == partBasic {
			continue
		}
		v := e.value[j]
		if v == 0 {
			continue
		}
		rhs.AddVector(-v, e.model.Matrix.Column(j))
	}
	e.fact.Ftran(rhs)
	for i := 0; i < rows; i++ {
		e.xB[i] = rhs.At(i)
	}
}

func (e *Engine) basicBoundsArrays() ([]float64, []float64) {
	rows := len(e.xB)
	lo := make([]float64, rows)
	hi := make([]float64, rows)
	for i, v := range e.basisHead {
		lo[i], hi[i] = e.boundsOf(v)
	}
	return lo, hi
}

func (e *Engine) phaseObjective(phaseOne bool) float64 {
	if phaseOne {
		lo, hi := e.basicBoundsArrays()
		return feasibility.PhaseIObjective(e.feas, e.xB, lo, hi, e.tol)
	}
	return e.objective()
}

func (e *Engine) dualSolution() []float64 {
	pi := e.computeDual(false)
	rows := len(e.xB)
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = pi.At(i)
	}
	return out
}

func (e *Engine) finish(status Status, err error, iterations, reinversions, bad, degenerate int) Result {
	res := Result{
		Status:               status,
		RunID:                e.runID,
		Objective:             e.objective(),
		X:                     e.solution(),
		Dual:                  e.dualSolution(),
		Iterations:            iterations,
		Reinversions:          reinversions,
		BadIterations:         bad,
		DegenerateIterations:  degenerate,
	}
	if err != nil {
		res.Err = errors.Cause(err)
	}
	e.logger.Info().
		Str("run_id", e.runID.String()).
		Str("status", status.String()).
		Float64("objective", res.Objective).
		Int("iterations", iterations).
		Msg("solve terminated")
	return res
}
