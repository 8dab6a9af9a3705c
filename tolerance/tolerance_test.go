// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tolerance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStableAddSign(t *testing.T) {
	c := DefaultConfig()
	cases := []struct {
		a, b float64
	}{
		{1, -1 + 1e-20},
		{1e8, -1e8},
		{3, 4},
		{-3, -4},
		{0, 0},
	}
	for _, tc := range cases {
		got := c.StableAdd(tc.a, tc.b)
		want := tc.a + tc.b
		if got != 0 {
			assert.Equal(t, math.Signbit(want), math.Signbit(got), "sign mismatch for (%v,%v)", tc.a, tc.b)
		}
	}
}

func TestStableAddCancellation(t *testing.T) {
	c := DefaultConfig()
	got := c.StableAdd(1.0, -1.0+1e-16)
	assert.Equal(t, 0.0, got, "catastrophic cancellation should snap to zero")
}

func TestStableAddMonotoneUnderScaling(t *testing.T) {
	c := DefaultConfig()
	a, b, lambda := 5.0, -4.999999, 10.0
	s1 := c.StableAdd(a, b)
	s2 := c.StableAdd(a*lambda, b*lambda)
	if s1 == 0 {
		assert.Equal(t, 0.0, s2)
		return
	}
	assert.InEpsilon(t, s1*lambda, s2, 1e-9)
}

func TestStableAddAbsKeepsSmallUpdates(t *testing.T) {
	c := DefaultConfig()
	got := c.StableAddAbs(1e6, 2e-13)
	assert.NotEqual(t, 0.0, got, "absolute variant must not reject a legitimate small addend")
}

func TestStableSum(t *testing.T) {
	c := DefaultConfig()
	got := c.StableSum([]float64{1, 2, 3, 4})
	assert.InDelta(t, 10.0, got, 1e-9)
}
