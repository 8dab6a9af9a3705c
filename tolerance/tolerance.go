// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tolerance provides the cancellation-aware arithmetic that every
// dot product and vector accumulation in the engine must funnel through.
// Naive floating point += drifts across refactorizations; the Stable
// family below is the single place that decides when a sum is numerically
// meaningless and should be snapped to zero.
package tolerance

import "math"

// Config holds the two tolerances that gate stable addition. Zero value is
// not valid; use NewConfig or DefaultConfig.
type Config struct {
	Abs float64 // ρ_abs
	Rel float64 // ρ_rel
}

// DefaultConfig matches the defaults used throughout the reference solver's
// test corpus.
func DefaultConfig() Config {
	return Config{Abs: 1e-12, Rel: 1e-10}
}

// NewConfig validates and returns a Config built from explicit tolerances.
func NewConfig(abs, rel float64) (Config, error) {
	if abs < 0 || rel < 0 {
		return Config{}, errNegativeTolerance
	}
	return Config{Abs: abs, Rel: rel}, nil
}

var errNegativeTolerance = errorString("tolerance: absolute/relative tolerance must be non-negative")

type errorString string

func (e errorString) Error() string { return string(e) }

// StableAdd returns a+b, or 0 if the cancellation between a and b is judged
// catastrophic relative to c. The criterion: let s = a+b; if
// |s|/max(|a|,|b|) < Rel or |s| < Abs, the result is snapped to zero.
//
// sign(StableAdd(a,b)) is always one of {sign(a+b), 0}, and StableAdd is
// monotone under scaling both a and b by a common positive factor.
func (c Config) StableAdd(a, b float64) float64 {
	s := a + b
	if s == 0 {
		return 0
	}
	denom := math.Max(math.Abs(a), math.Abs(b))
	if denom == 0 {
		return 0
	}
	if math.Abs(s)/denom < c.Rel || math.Abs(s) < c.Abs {
		return 0
	}
	return s
}

// StableAddAbs is the absolute-tolerance-only variant used by vector
// accumulators (e.g. the basic-value update along a pivot column) where
// relative cancellation would incorrectly zero out a small but legitimate
// update against a much larger running total.
func (c Config) StableAddAbs(a, b float64) float64 {
	s := a + b
	if math.Abs(s) < c.Abs {
		return 0
	}
	return s
}

// StableSum reduces a slice with StableAdd, left to right. Used sparingly —
// most accumulation in the engine is pairwise against a running total, not a
// bulk reduction, and only the tests call it; BTRAN accumulates through
// the vector package's DotProduct instead.
func (c Config) StableSum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total = c.StableAdd(total, x)
	}
	return total
}
