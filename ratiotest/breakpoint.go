// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ratiotest implements the primal and dual ratio tests: given a
// pivot direction, choose the outgoing (primal) or incoming (dual)
// variable and the step length, walking breakpoints in ascending order
// without a full pre-sort.
package ratiotest

// Breakpoint is one candidate step in the ratio test.
type Breakpoint struct {
	Index      int     // variable or row index the breakpoint belongs to
	Value      float64 // |d_j / α_j|, the step at which this breakpoint is hit
	FuncValue  float64 // the objective/function value contribution at this breakpoint
	SlopeDelta float64 // ±1 slope-update carried by dual phase-I breakpoints (§4.H.2)
}

// Heap is the shared breakpoint machinery of §4.H.1: a binary-heap-sorted
// live prefix that GetNextElement shrinks by one each call, so the overall
// traversal visits breakpoints in ascending Value order without a full
// upfront sort.
type Heap struct {
	items []Breakpoint
	live  int
}

// NewHeap builds a Heap over the given breakpoints, heapifying the full
// set as the initial live prefix.
func NewHeap(items []Breakpoint) *Heap {
	h := &Heap{items: items, live: len(items)}
	for i := h.live/2 - 1; i >= 0; i-- {
		h.siftDown(i, h.live)
	}
	return h
}

// Len reports the number of breakpoints still live.
func (h *Heap) Len() int { return h.live }

// GetNextElement extracts the minimum-Value breakpoint among the first n
// live elements via a single sift-down, swaps it to position n-1, and
// shrinks the live prefix by one. Callers pass n = h.Len() to walk
// breakpoints in ascending order one at a time.
func (h *Heap) GetNextElement(n int) (Breakpoint, bool) {
	if n <= 0 || n > h.live {
		return Breakpoint{}, false
	}
	min := h.items[0]
	last := n - 1
	h.items[0] = h.items[last]
	h.items[last] = min
	h.siftDown(0, last)
	h.live--
	return min, true
}

func (h *Heap) siftDown(i, n int) {
	for {
		l, r := 2*i+1, 2*i+2
		smallest := i
		if l < n && h.items[l].Value < h.items[smallest].Value {
			smallest = l
		}
		if r < n && h.items[r].Value < h.items[smallest].Value {
			smallest = r
		}
		if smallest == i {
			return
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
