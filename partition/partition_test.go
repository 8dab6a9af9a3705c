// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func drain(l *List, p int) []int {
	var out []int
	it := l.Iterate(p)
	for {
		i, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, i)
	}
	return out
}

func TestInsertWhereCount(t *testing.T) {
	l := New(5, 3)
	l.Insert(0, 0)
	l.Insert(0, 1)
	l.Insert(1, 2)
	assert.Equal(t, 0, l.Where(0))
	assert.Equal(t, 1, l.Where(2))
	assert.Equal(t, 2, l.Count(0))
	assert.Equal(t, 1, l.Count(1))
	assert.Equal(t, 0, l.Count(2))
}

func TestMoveBetweenPartitions(t *testing.T) {
	l := New(4, 2)
	for i := 0; i < 4; i++ {
		l.Insert(0, i)
	}
	l.Move(2, 1)
	assert.Equal(t, 1, l.Where(2))
	assert.Equal(t, 3, l.Count(0))
	assert.Equal(t, 1, l.Count(1))
	assert.ElementsMatch(t, []int{0, 1, 3}, drain(l, 0))
	assert.ElementsMatch(t, []int{2}, drain(l, 1))
}

func TestRemove(t *testing.T) {
	l := New(3, 1)
	l.Insert(0, 0)
	l.Insert(0, 1)
	l.Insert(0, 2)
	l.Remove(1)
	assert.Equal(t, -1, l.Where(1))
	assert.ElementsMatch(t, []int{0, 2}, drain(l, 0))
}

func TestAssociatedData(t *testing.T) {
	l := New(2, 1)
	l.Insert(0, 0)
	l.SetData(0, 3.5)
	assert.Equal(t, 3.5, l.Data(0))
}
