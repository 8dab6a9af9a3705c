// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package partition implements a set of k disjoint partitions over the
// integers [0, n), supporting O(1) insert, remove, and move-between-
// partitions. It backs the variable-state and feasibility classifications
// (BASIC/NONBASIC_*, M/F/P) as well as the row/column live-count buckets
// used by the PFI reinversion passes.
package partition

// node is one element of a partition's doubly-linked list.
type node struct {
	prev, next int // element indices, or -1 for list ends
	part       int // current partition id, or -1 if not present
	data       any // attached associated data (e.g. a value handle)
}

// List is a multi-partition set over [0, n).
type List struct {
	n      int
	k      int
	nodes  []node
	heads  []int // heads[p] is the first element index in partition p, or -1
	tails  []int
	counts []int
}

// New returns a List over [0,n) with k partitions, all elements initially
// absent from every partition (caller inserts each element explicitly).
func New(n, k int) *List {
	l := &List{n: n, k: k}
	l.nodes = make([]node, n)
	for i := range l.nodes {
		l.nodes[i] = node{prev: -1, next: -1, part: -1}
	}
	l.heads = make([]int, k)
	l.tails = make([]int, k)
	for p := range l.heads {
		l.heads[p] = -1
		l.tails[p] = -1
	}
	l.counts = make([]int, k)
	return l
}

// Insert places element i into partition p. i must not currently belong to
// any partition.
func (l *List) Insert(p, i int) {
	if l.nodes[i].part != -1 {
		panic("partition: element already belongs to a partition")
	}
	l.linkTail(p, i)
}

func (l *List) linkTail(p, i int) {
	l.nodes[i].part = p
	l.nodes[i].prev = l.tails[p]
	l.nodes[i].next = -1
	if l.tails[p] != -1 {
		l.nodes[l.tails[p]].next = i
	} else {
		l.heads[p] = i
	}
	l.tails[p] = i
	l.counts[p]++
}

// Remove deletes element i from whatever partition it currently belongs to.
func (l *List) Remove(i int) {
	nd := &l.nodes[i]
	p := nd.part
	if p == -1 {
		panic("partition: element does not belong to any partition")
	}
	if nd.prev != -1 {
		l.nodes[nd.prev].next = nd.next
	} else {
		l.heads[p] = nd.next
	}
	if nd.next != -1 {
		l.nodes[nd.next].prev = nd.prev
	} else {
		l.tails[p] = nd.prev
	}
	l.counts[p]--
	nd.prev, nd.next, nd.part = -1, -1, -1
}

// Move relocates element i into partition newPartition in O(1).
func (l *List) Move(i, newPartition int) {
	if l.nodes[i].part != -1 {
		l.Remove(i)
	}
	l.linkTail(newPartition, i)
}

// Where reports which partition element i currently belongs to, or -1.
func (l *List) Where(i int) int { return l.nodes[i].part }

// Count reports the number of elements currently in partition p.
func (l *List) Count(p int) int { return l.counts[p] }

// SetData attaches associated data to element i.
func (l *List) SetData(i int, data any) { l.nodes[i].data = data }

// Data returns the associated data attached to element i.
func (l *List) Data(i int) any { return l.nodes[i].data }

// Iterator walks one partition front to back.
type Iterator struct {
	l   *List
	cur int
}

// Iterate returns an Iterator over partition p.
func (l *List) Iterate(p int) *Iterator {
	return &Iterator{l: l, cur: l.heads[p]}
}

// Next returns the next element in the partition, or (0, false) when done.
func (it *Iterator) Next() (int, bool) {
	if it.cur == -1 {
		return 0, false
	}
	i := it.cur
	it.cur = it.l.nodes[i].next
	return i, true
}
