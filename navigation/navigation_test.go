package navigation

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dead-signal/vmath"
)

func box(x0, z0, x1, z1 float64) vmath.AABB {
	return vmath.AABB{
		Center: mgl64.Vec3{(x0 + x1) / 2, 1, (z0 + z1) / 2},
		Half:   mgl64.Vec3{(x1 - x0) / 2, 1, (z1 - z0) / 2},
	}
}

// room is a 20x20 box with a wall across z=0 open only at x in [6,10]
func room() []vmath.AABB {
	return []vmath.AABB{
		box(-10, -10.5, 10, -10), // north
		box(-10, 10, 10, 10.5),   // south
		box(-10.5, -10, -10, 10), // west
		box(10, -10, 10.5, 10),   // east
		box(-10, -0.25, 6, 0.25), // divider with a gap on the east side
	}
}

// gridOf builds a unit grid with the given cells blocked
func gridOf(w, h int, blocked func(x, y int) bool) *Grid {
	g := &Grid{Size: 1, Width: w, Height: h, blocked: make([]bool, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.blocked[y*w+x] = blocked(x, y)
		}
	}
	return g
}

func TestFieldOpenGrid(t *testing.T) {
	f := newField(gridOf(5, 5, func(int, int) bool { return false }))
	if !f.build(2, 2) {
		t.Fatal("build failed")
	}

	if f.Next(2, 2) != StepHere {
		t.Errorf("target step = %d", f.Next(2, 2))
	}
	if got := f.Next(2, 0); got != South {
		t.Errorf("north cell step = %d, want South", got)
	}
	if got := f.Next(0, 0); got != SouthEast {
		t.Errorf("corner step = %d, want SouthEast", got)
	}
	if got := f.Distance(0, 0); got != 2*diagonalCost {
		t.Errorf("corner distance = %d", got)
	}
	if f.Next(-1, 0) != StepNone || f.Distance(9, 9) != -1 {
		t.Error("out of range not rejected")
	}
	if dx, dy := StepHere.Offset(); dx != 0 || dy != 0 {
		t.Error("marker step moves")
	}
}

func TestFieldBlockedAndCorners(t *testing.T) {
	// Column x=1 is a wall except at y=4
	f := newField(gridOf(3, 5, func(x, y int) bool { return x == 1 && y != 4 }))
	f.build(2, 0)

	if f.Next(1, 0) != StepNone {
		t.Error("wall cell has a step")
	}
	// From the far side the only route is through the gap
	if f.Distance(0, 0) <= f.Distance(0, 4) {
		t.Errorf("distance through gap not longer: %d <= %d", f.Distance(0, 0), f.Distance(0, 4))
	}
	if got := f.Next(0, 4); got != East {
		t.Errorf("gap approach step = %d, want East (no corner cut)", got)
	}

	if f.build(5, 5) {
		t.Error("out of range target built")
	}
	if _, _, ok := f.Target(); ok {
		t.Error("field reports a target after a failed build")
	}
}

func TestGridRasterizesWalls(t *testing.T) {
	g := NewGrid(room(), 0.5, 0.4)
	if g.Width == 0 || g.Height == 0 {
		t.Fatal("empty grid")
	}

	x, y, ok := g.Cell(mgl64.Vec3{0, 0, 0})
	if !ok || !g.Blocked(x, y) {
		t.Error("divider not blocked")
	}
	x, y, ok = g.Cell(mgl64.Vec3{8, 0, 0})
	if !ok || g.Blocked(x, y) {
		t.Error("gap blocked")
	}
	x, y, ok = g.Cell(mgl64.Vec3{0, 0, 5})
	if !ok || g.Blocked(x, y) {
		t.Error("open floor blocked")
	}
	if _, _, ok := g.Cell(mgl64.Vec3{100, 0, 0}); ok {
		t.Error("outside point mapped to a cell")
	}
	if !g.Blocked(-1, 0) {
		t.Error("out of range not blocked")
	}

	c := g.Center(x, y)
	if cx, cy, _ := g.Cell(c); cx != x || cy != y {
		t.Errorf("center maps to %d,%d not %d,%d", cx, cy, x, y)
	}

	if empty := NewGrid(nil, 0.5, 0.4); empty.Width != 0 {
		t.Error("grid without walls has cells")
	}
}

func TestNavigatorRoutesThroughGap(t *testing.T) {
	n := NewNavigator(NewGrid(room(), 0.5, 0.4), 2)
	from := mgl64.Vec3{-5, 0.9, 5}
	to := mgl64.Vec3{-5, 0.9, -5}

	// Straight line crosses the divider; the route must head east toward the gap
	h, ok := n.Heading(from, to)
	if !ok {
		t.Fatal("no heading")
	}
	if h.X() <= 0 {
		t.Errorf("heading %v does not lead toward the gap", h)
	}
	if d := h.Len(); d < 0.999 || d > 1.001 {
		t.Errorf("heading not unit: %v", d)
	}
	if h.Y() != 0 {
		t.Errorf("heading has vertical part: %v", h)
	}

	// Walking the headings reaches the target
	pos := from
	for i := 0; i < 400; i++ {
		h, ok := n.Heading(pos, to)
		if !ok {
			break
		}
		pos = pos.Add(h.Mul(0.25))
	}
	if vmath.HorizontalDist(pos, to) > 1 {
		t.Errorf("walk ended at %v, target %v", pos, to)
	}
	if n.Computes() != 1 {
		t.Errorf("fields computed = %d, want 1 for a fixed target", n.Computes())
	}
}

func TestNavigatorFallbacks(t *testing.T) {
	n := NewNavigator(NewGrid(room(), 0.5, 0.4), 1)

	if _, ok := n.Heading(mgl64.Vec3{1, 0, 5}, mgl64.Vec3{1.1, 0, 5.1}); ok {
		t.Error("same cell produced a heading")
	}
	if _, ok := n.Heading(mgl64.Vec3{100, 0, 0}, mgl64.Vec3{0, 0, 5}); ok {
		t.Error("outside start produced a heading")
	}

	// Cache evicts beyond its limit
	n.Heading(mgl64.Vec3{-5, 0, 5}, mgl64.Vec3{5, 0, 5})
	n.Heading(mgl64.Vec3{-5, 0, 5}, mgl64.Vec3{5, 0, -5})
	n.Heading(mgl64.Vec3{-5, 0, 5}, mgl64.Vec3{5, 0, 5})
	if n.Computes() != 3 || len(n.fields) != 1 {
		t.Errorf("computes %d fields %d", n.Computes(), len(n.fields))
	}

	// Pressed into the divider margin still finds a way out
	if _, ok := n.Heading(mgl64.Vec3{-5, 0, 0.3}, mgl64.Vec3{-5, 0, 5}); !ok {
		t.Error("no escape from wall margin")
	}
}
