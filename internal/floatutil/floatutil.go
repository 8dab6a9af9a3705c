// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package floatutil carries the handful of allocation-free float64-slice
// helpers the CLI needs to summarize a solution, trimmed from the pack's
// general-purpose floats routines down to Sum, Max and Norm; the CLI's
// solution report calls Sum and Norm.
package floatutil

import "math"

// Sum returns the sum of the elements of s.
func Sum(s []float64) float64 {
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum
}

// Max returns the maximum value in s and its index. It panics if s is
// empty.
func Max(s []float64) (max float64, ind int) {
	if len(s) == 0 {
		panic("floatutil: zero length slice")
	}
	max = s[0]
	for i, v := range s {
		if v > max {
			max = v
			ind = i
		}
	}
	return max, ind
}

// Norm returns the L-norm of s: (sum_i |s_i|^L)^(1/L). L = math.Inf(1)
// gives the infinity norm, max_i |s_i|.
func Norm(s []float64, L float64) float64 {
	if len(s) == 0 {
		return 0
	}
	if L == 2 {
		var norm float64
		for _, v := range s {
			norm += v * v
		}
		return math.Sqrt(norm)
	}
	if math.IsInf(L, 1) {
		var norm float64
		for _, v := range s {
			norm = math.Max(norm, math.Abs(v))
		}
		return norm
	}
	var norm float64
	for _, v := range s {
		norm += math.Pow(math.Abs(v), L)
	}
	return math.Pow(norm, 1/L)
}
