// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vector

// Scratch is the shared scatter buffer used by dot products and additions
// that mix a sparse operand against a dense one. It is instance-owned (one
// per Engine, see §5 of the design notes) rather than process-global: a
// worker running its own Engine allocates its own Scratch and never shares
// it with another goroutine.
//
// The buffer grows monotonically and is zeroed only on the indices an
// operation actually touched, never with a full-length memset, so its cost
// is proportional to the nonzero count of the operation that used it.
type Scratch struct {
	buf     []float64
	touched []int
	mark    []bool
}

// NewScratch returns a Scratch with an initial capacity of n.
func NewScratch(n int) *Scratch {
	return &Scratch{
		buf:  make([]float64, n),
		mark: make([]bool, n),
	}
}

// reserve grows the buffer to at least n entries.
func (s *Scratch) reserve(n int) {
	if len(s.buf) >= n {
		return
	}
	grown := make([]float64, n)
	copy(grown, s.buf)
	s.buf = grown
	grownMark := make([]bool, n)
	copy(grownMark, s.mark)
	s.mark = grownMark
}

// touch records index i as live scatter state for the next clear.
func (s *Scratch) touch(i int) {
	if !s.mark[i] {
		s.mark[i] = true
		s.touched = append(s.touched, i)
	}
}

// set scatters x into index i of the buffer, reserving space first.
func (s *Scratch) set(i int, x float64) {
	s.reserve(i + 1)
	s.touch(i)
	s.buf[i] = x
}

// at reads the scratch value at i, or 0 if i was never touched this round.
func (s *Scratch) at(i int) float64 {
	if i >= len(s.buf) || !s.mark[i] {
		return 0
	}
	return s.buf[i]
}

// clear zeroes every index touched since the last clear. This is the only
// way the buffer is reset — never a full-length memset.
func (s *Scratch) clear() {
	for _, i := range s.touched {
		s.buf[i] = 0
		s.mark[i] = false
	}
	s.touched = s.touched[:0]
}
