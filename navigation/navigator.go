package navigation

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dead-signal/vmath"
)

// Navigator answers heading queries from flow fields cached per target cell
// Not safe for concurrent use
type Navigator struct {
	grid  *Grid
	limit int

	fields map[int]*Field
	order  []int // Insertion order for eviction

	computes int
}

// NewNavigator creates a navigator keeping at most limit fields
func NewNavigator(grid *Grid, limit int) *Navigator {
	return &Navigator{
		grid:   grid,
		limit:  max(limit, 1),
		fields: make(map[int]*Field),
	}
}

// Heading returns the horizontal unit direction to walk from toward to
// False means no route is known and the caller should go straight
func (n *Navigator) Heading(from, to mgl64.Vec3) (mgl64.Vec3, bool) {
	fx, fy, ok := n.grid.Cell(from)
	if !ok {
		return mgl64.Vec3{}, false
	}
	tx, ty, ok := n.grid.Cell(to)
	if !ok || (fx == tx && fy == ty) {
		return mgl64.Vec3{}, false
	}

	f := n.field(tx, ty)
	step := f.Next(fx, fy)
	if step == StepNone && n.grid.Blocked(fx, fy) {
		step = f.escape(fx, fy)
	}
	if step < North {
		return mgl64.Vec3{}, false
	}

	// Aim at the next cell center, or the target itself when it is adjacent
	dx, dy := step.Offset()
	nx, ny := fx+dx, fy+dy
	aim := n.grid.Center(nx, ny)
	if nx == tx && ny == ty {
		aim = to
	}
	d := vmath.Horizontal(aim.Sub(from))
	if d.Len() < 1e-9 {
		return mgl64.Vec3{}, false
	}
	return d.Normalize(), true
}

// Computes returns how many fields were built
func (n *Navigator) Computes() int {
	return n.computes
}

func (n *Navigator) field(tx, ty int) *Field {
	key := ty*n.grid.Width + tx
	if f, ok := n.fields[key]; ok {
		return f
	}

	var f *Field
	if len(n.order) >= n.limit {
		oldest := n.order[0]
		n.order = n.order[1:]
		f = n.fields[oldest]
		delete(n.fields, oldest)
	} else {
		f = newField(n.grid)
	}
	f.build(tx, ty)
	n.computes++

	n.fields[key] = f
	n.order = append(n.order, key)
	return f
}
