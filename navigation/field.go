// Package navigation routes ground agents around static walls with grid flow fields
package navigation

import (
	"container/heap"
	"math"
)

// Step is one of the eight moves between neighboring cells
// Grid y grows with world z, so North points toward -z
type Step int8

const (
	StepNone Step = -1 // Blocked or unreachable
	StepHere Step = -2 // Already at the target
)

const (
	North Step = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// Move costs approximate Euclidean length
const (
	straightCost = 10
	diagonalCost = 14
	unreachable  = math.MaxInt32
)

var moves = [8]struct{ dx, dy, cost int }{
	North:     {0, -1, straightCost},
	NorthEast: {1, -1, diagonalCost},
	East:      {1, 0, straightCost},
	SouthEast: {1, 1, diagonalCost},
	South:     {0, 1, straightCost},
	SouthWest: {-1, 1, diagonalCost},
	West:      {-1, 0, straightCost},
	NorthWest: {-1, -1, diagonalCost},
}

// Offset returns the cell delta of s; markers move nowhere
func (s Step) Offset() (dx, dy int) {
	if s < North || s > NorthWest {
		return 0, 0
	}
	return moves[s].dx, moves[s].dy
}

// Field is the walking distance from every cell to one target cell
// and the step each cell takes to get closer
type Field struct {
	grid   *Grid
	tx, ty int
	ok     bool
	dist   []int32
	next   []Step
	open   frontier
}

func newField(g *Grid) *Field {
	n := g.Width * g.Height
	return &Field{
		grid: g,
		dist: make([]int32, n),
		next: make([]Step, n),
	}
}

// Target returns the target cell and whether the field has been built
func (f *Field) Target() (x, y int, ok bool) {
	return f.tx, f.ty, f.ok
}

// Next returns the step to take from a cell, StepNone when blocked or off the grid
func (f *Field) Next(x, y int) Step {
	i, in := f.index(x, y)
	if !f.ok || !in {
		return StepNone
	}
	return f.next[i]
}

// Distance returns the walking cost to the target, -1 when unreachable
func (f *Field) Distance(x, y int) int {
	i, in := f.index(x, y)
	if !f.ok || !in || f.dist[i] == unreachable {
		return -1
	}
	return int(f.dist[i])
}

func (f *Field) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= f.grid.Width || y >= f.grid.Height {
		return 0, false
	}
	return y*f.grid.Width + x, true
}

// cutsCorner reports a diagonal move that would squeeze past a blocked cell
func (f *Field) cutsCorner(x, y int, s Step) bool {
	m := moves[s]
	if m.dx == 0 || m.dy == 0 {
		return false
	}
	return f.grid.Blocked(x+m.dx, y) || f.grid.Blocked(x, y+m.dy)
}

// build runs Dijkstra outward from the target, then points every reached cell
// at its cheapest neighbor; a target off the grid leaves the field unbuilt
func (f *Field) build(tx, ty int) bool {
	ti, in := f.index(tx, ty)
	f.tx, f.ty, f.ok = tx, ty, in
	if !in {
		return false
	}
	for i := range f.dist {
		f.dist[i] = unreachable
		f.next[i] = StepNone
	}

	w := f.grid.Width
	f.dist[ti] = 0
	f.open = f.open[:0]
	heap.Push(&f.open, node{idx: ti})

	for f.open.Len() > 0 {
		cur := heap.Pop(&f.open).(node)
		if cur.d > f.dist[cur.idx] {
			continue
		}
		cx, cy := cur.idx%w, cur.idx/w
		for s := North; s <= NorthWest; s++ {
			m := moves[s]
			nx, ny := cx+m.dx, cy+m.dy
			ni, in := f.index(nx, ny)
			if !in || f.grid.Blocked(nx, ny) || f.cutsCorner(cx, cy, s) {
				continue
			}
			if d := cur.d + int32(m.cost); d < f.dist[ni] {
				f.dist[ni] = d
				heap.Push(&f.open, node{idx: ni, d: d})
			}
		}
	}

	for i, d := range f.dist {
		if d == unreachable {
			continue
		}
		if d == 0 {
			f.next[i] = StepHere
			continue
		}
		x, y := i%w, i/w
		best, bestD := StepNone, d
		for s := North; s <= NorthWest; s++ {
			ni, in := f.index(x+moves[s].dx, y+moves[s].dy)
			if !in || f.dist[ni] >= bestD || f.cutsCorner(x, y, s) {
				continue
			}
			best, bestD = s, f.dist[ni]
		}
		f.next[i] = best
	}
	return true
}

// escape picks the free neighbor closest to the target, for agents standing in a wall margin
func (f *Field) escape(x, y int) Step {
	best, bestD := StepNone, unreachable
	for s := North; s <= NorthWest; s++ {
		if d := f.Distance(x+moves[s].dx, y+moves[s].dy); d >= 0 && d < bestD {
			best, bestD = s, d
		}
	}
	return best
}

type node struct {
	idx int
	d   int32
}

// frontier is the Dijkstra open set ordered by distance
type frontier []node

func (q frontier) Len() int           { return len(q) }
func (q frontier) Less(i, j int) bool { return q[i].d < q[j].d }
func (q frontier) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *frontier) Push(x any)        { *q = append(*q, x.(node)) }
func (q *frontier) Pop() any {
	old := *q
	n := old[len(old)-1]
	*q = old[:len(old)-1]
	return n
}
