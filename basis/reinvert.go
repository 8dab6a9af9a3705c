// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package basis

import (
	"math"
	"sort"

	"github.com/simplexlp/engine/partition"
	"github.com/simplexlp/engine/vector"
)

// pivot is a recorded (row, candidate-column) assignment produced by the
// R, C, or M passes. candidate is an index into the working basisHead
// snapshot, i.e. the k-th basic variable being reinverted, not a row or a
// raw variable index.
type pivot struct {
	row       int
	candidate int
}

// bump holds the live bipartite row/column structure reinversion mutates
// as it matches rows to candidate columns. Candidate k's column values are
// restricted to rows that are still live; the same is true symmetrically
// for a row's live columns. Assignment removes both the row and the
// column from every other side's live set in O(degree).
type bump struct {
	m int

	colRows []map[int]float64 // candidate k -> {row: value}, live rows only
	rowCols []map[int]float64 // row r -> {candidate k: value}, live cols only

	rowAssigned []bool
	colAssigned []bool

	rowsByCount *partition.List // partition p holds rows with exactly p live candidates
	colsByCount *partition.List // partition p holds candidates with exactly p live rows
}

func newBump(m int, colValues [][]struct {
	row int
	val float64
}) *bump {
	b := &bump{
		m:           m,
		colRows:     make([]map[int]float64, m),
		rowCols:     make([]map[int]float64, m),
		rowAssigned: make([]bool, m),
		colAssigned: make([]bool, m),
		rowsByCount: partition.New(m, m+1),
		colsByCount: partition.New(m, m+1),
	}
	for r := 0; r < m; r++ {
		b.rowCols[r] = map[int]float64{}
	}
	for k := 0; k < m; k++ {
		b.colRows[k] = map[int]float64{}
		for _, rv := range colValues[k] {
			b.colRows[k][rv.row] = rv.val
			b.rowCols[rv.row][k] = rv.val
		}
	}
	for r := 0; r < m; r++ {
		b.rowsByCount.Insert(len(b.rowCols[r]), r)
	}
	for k := 0; k < m; k++ {
		b.colsByCount.Insert(len(b.colRows[k]), k)
	}
	return b
}

// assign removes row r and candidate k from every live set they still
// participate in, recording the match.
func (b *bump) assign(r, k int) {
	b.rowAssigned[r] = true
	b.colAssigned[k] = true
	for k2 := range b.rowCols[r] {
		if k2 == k || b.colAssigned[k2] {
			continue
		}
		delete(b.colRows[k2], r)
		b.colsByCount.Move(len(b.colRows[k2]), k2)
	}
	for r2 := range b.colRows[k] {
		if r2 == r || b.rowAssigned[r2] {
			continue
		}
		delete(b.rowCols[r2], k)
		b.rowsByCount.Move(len(b.rowCols[r2]), r2)
	}
	b.rowsByCount.Remove(r)
	b.colsByCount.Remove(k)
}

// discardColumn removes candidate k from consideration entirely without
// assigning it to any row (used by the SEARCH strategy when the only
// available pivot is numerically unstable).
func (b *bump) discardColumn(k int) {
	b.colAssigned[k] = true
	for r := range b.colRows[k] {
		delete(b.rowCols[r], k)
		b.rowsByCount.Move(len(b.rowCols[r]), r)
	}
	b.colsByCount.Remove(k)
}

func (b *bump) firstInPartition(part *partition.List, p int) (int, bool) {
	it := part.Iterate(p)
	return firstFrom(it)
}

func firstFrom(it *partition.Iterator) (int, bool) {
	return it.Next()
}

// Reinvert rebuilds the frozen ETM list from scratch for the basis
// described by basisHead, discarding all update ETMs (§4.F.1). cols
// supplies the column of any variable index; logicalOf(row) gives the
// variable index of row's logical variable, used both to interpret an
// implicit identity column and as the fallback when a row is left
// unassigned (singular).
//
// basisHead is mutated in place to reflect the row reassignment R/C/M
// produce, and any forced logical substitutions.
func (p *PFI) Reinvert(basisHead []int, cols ColumnProvider, logicalOf func(row int) int) error {
	m := p.m
	copy(p.basisHead, basisHead)
	p.frozen = nil
	p.update = nil
	p.singularity = 0

	colValues := make([][]struct {
		row int
		val float64
	}, m)
	for k := 0; k < m; k++ {
		col := cols.Column(basisHead[k])
		it := col.Iterator()
		for {
			r, x, ok := it.Next()
			if !ok {
				break
			}
			colValues[k] = append(colValues[k], struct {
				row int
				val float64
			}{r, x})
		}
	}
	bp := newBump(m, colValues)

	var order []pivot
	var deferred []pivot

	// R pass: rows with exactly one live candidate column.
	for {
		r, ok := bp.firstInPartition(bp.rowsByCount, 1)
		if !ok {
			break
		}
		var k int
		for cand := range bp.rowCols[r] {
			k = cand
			break
		}
		order = append(order, pivot{row: r, candidate: k})
		bp.assign(r, k)
	}

	// C pass: candidate columns with exactly one live row; recorded, not
	// yet turned into ETMs.
	for {
		k, ok := bp.firstInPartition(bp.colsByCount, 1)
		if !ok {
			break
		}
		var r int
		for row := range bp.colRows[k] {
			r = row
			break
		}
		deferred = append(deferred, pivot{row: r, candidate: k})
		bp.assign(r, k)
	}

	// M pass over the remaining bump.
	switch p.method {
	case Search:
		p.mPassSearch(bp, &order)
	case BlockTriangular:
		p.mPassBlock(bp, &order, false)
	case BlockOrderedTriangular:
		p.mPassBlock(bp, &order, true)
	default:
		return ErrUnknownMethod
	}

	// Any row still unassigned is singular: fill with its logical variable.
	for r := 0; r < m; r++ {
		if !bp.rowAssigned[r] {
			p.basisHead[r] = logicalOf(r)
			p.singularity++
			unit := vector.New(m, p.ratio, p.tol, p.sc)
			unit.Set(r, 1)
			e, err := newETM(unit, r, p.ratio, p.tol, p.sc)
			if err != nil {
				return err
			}
			p.frozen = append(p.frozen, e)
		}
	}

	// Build ETMs for the immediate (R + M) pivots in the order found.
	// A pivot whose FTRAN'd column is zero at its row is singular: the row
	// falls back to its logical variable like an unassigned row does.
	for _, pv := range order {
		e, err := p.buildPivotETM(pv, colValues)
		if err == ErrZeroPivot {
			p.basisHead[pv.row] = logicalOf(pv.row)
			p.singularity++
			unit := vector.New(m, p.ratio, p.tol, p.sc)
			unit.Set(pv.row, 1)
			e, err = newETM(unit, pv.row, p.ratio, p.tol, p.sc)
			if err != nil {
				return err
			}
			p.frozen = append(p.frozen, e)
			continue
		}
		if err != nil {
			return err
		}
		p.frozen = append(p.frozen, e)
		p.basisHead[pv.row] = basisHead[pv.candidate]
	}

	// C-pass flush: apply deferred pivots in reverse of recording order.
	for i := len(deferred) - 1; i >= 0; i-- {
		pv := deferred[i]
		e, err := p.buildPivotETM(pv, colValues)
		if err != nil {
			return err
		}
		p.frozen = append(p.frozen, e)
		p.basisHead[pv.row] = basisHead[pv.candidate]
	}

	if p.singularity > 0 {
		return ErrBasisSingular
	}
	return nil
}

// buildPivotETM reconstructs the FTRAN'd column for a pivot from the raw
// column values captured before the pass began, then builds its ETM. This
// mirrors §4.F.1(iii)'s "columns update" step done lazily: rather than
// eagerly FTRAN-ing every other live column through each new ETM, the
// column is FTRAN'd once, on demand, through every ETM built so far.
func (p *PFI) buildPivotETM(pv pivot, colValues [][]struct {
	row int
	val float64
}) (ETM, error) {
	col := vector.New(p.m, p.ratio, p.tol, p.sc)
	for _, rv := range colValues[pv.candidate] {
		col.Set(rv.row, rv.val)
	}
	for _, e := range p.frozen {
		e.ftran(col, p.tol)
	}
	return newETM(col, pv.row, p.ratio, p.tol, p.sc)
}

// mPassSearch implements the SEARCH non-triangular strategy (§4.F.1): a
// single pass over remaining live rows, picking the first live column and
// checking numerical stability against the column's current live maximum.
func (p *PFI) mPassSearch(bp *bump, order *[]pivot) {
	rows := make([]int, 0, bp.m)
	for r := 0; r < bp.m; r++ {
		if !bp.rowAssigned[r] {
			rows = append(rows, r)
		}
	}
	for _, r := range rows {
		if bp.rowAssigned[r] {
			continue
		}
		for len(bp.rowCols[r]) > 0 {
			k := firstKey(bp.rowCols[r])
			val := bp.rowCols[r][k]
			if p.isStable(bp, k, val) {
				*order = append(*order, pivot{row: r, candidate: k})
				bp.assign(r, k)
				break
			}
			bp.discardColumn(k)
		}
	}
}

func (p *PFI) isStable(bp *bump, k int, val float64) bool {
	colMax := 0.0
	for _, v := range bp.colRows[k] {
		if a := math.Abs(v); a > colMax {
			colMax = a
		}
	}
	if colMax == 0 {
		return false
	}
	return math.Abs(val) > p.pivotThreshold*colMax && math.Abs(val) > p.ePivot
}

func firstKey(m map[int]float64) int {
	for k := range m {
		return k
	}
	panic("basis: firstKey on empty map")
}

// mPassBlock implements BLOCK_TRIANGULAR / BLOCK_ORDERED_TRIANGULAR: a
// transversal (bipartite matching) followed by Tarjan SCC over the
// off-diagonal dependency graph, pivoted block by block. markowitz
// requests ascending-nonzero-count ordering within each block.
func (p *PFI) mPassBlock(bp *bump, order *[]pivot, markowitz bool) {
	liveRows := liveIndices(bp.rowAssigned)
	liveCols := liveIndices(bp.colAssigned)
	if len(liveRows) == 0 {
		return
	}

	match := kuhnMatch(bp, liveRows, liveCols)

	n := len(liveRows)
	rowPos := make(map[int]int, n)
	for i, r := range liveRows {
		rowPos[r] = i
	}
	adj := make([][]int, n)
	for i, r := range liveRows {
		k, ok := match[r]
		if !ok {
			continue
		}
		for r2, v := range bp.colRows[k] {
			if v == 0 || r2 == r {
				continue
			}
			if j, ok := rowPos[r2]; ok {
				adj[j] = append(adj[j], i)
			}
		}
	}
	comps := tarjanSCC(n, adj)

	for _, comp := range comps {
		if markowitz {
			sort.Slice(comp, func(a, b int) bool {
				ka, oka := match[liveRows[comp[a]]]
				kb, okb := match[liveRows[comp[b]]]
				if !oka || !okb {
					return false
				}
				return len(bp.colRows[ka]) < len(bp.colRows[kb])
			})
		}
		for _, pos := range comp {
			r := liveRows[pos]
			if bp.rowAssigned[r] {
				continue
			}
			k, ok := match[r]
			if !ok || bp.colAssigned[k] {
				continue
			}
			val := bp.rowCols[r][k]
			if !p.isStable(bp, k, val) {
				bp.discardColumn(k)
				continue
			}
			*order = append(*order, pivot{row: r, candidate: k})
			bp.assign(r, k)
		}
	}
}

func liveIndices(assigned []bool) []int {
	var out []int
	for i, a := range assigned {
		if !a {
			out = append(out, i)
		}
	}
	return out
}

// kuhnMatch finds a maximum bipartite matching between liveRows and
// liveCols over bp's live nonzero structure, via repeated augmenting-path
// search (Kuhn's algorithm) — adequate for the bump, which is the small
// non-triangular remainder after the R and C passes, not the full basis.
func kuhnMatch(bp *bump, liveRows, liveCols []int) map[int]int {
	matchRowOf := map[int]int{} // col -> row
	matchColOf := map[int]int{} // row -> col

	var try func(r int, visited map[int]bool) bool
	try = func(r int, visited map[int]bool) bool {
		for k := range bp.rowCols[r] {
			if visited[k] {
				continue
			}
			visited[k] = true
			owner, taken := matchRowOf[k]
			if !taken || try(owner, visited) {
				matchRowOf[k] = r
				matchColOf[r] = k
				return true
			}
		}
		return false
	}

	for _, r := range liveRows {
		try(r, map[int]bool{})
	}
	_ = liveCols
	return matchColOf
}
