package navigation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dead-signal/vmath"
)

// Grid rasterizes wall footprints onto square XZ cells
// Cell (0,0) covers [Origin.X, Origin.X+Size) × [Origin.Z, Origin.Z+Size)
type Grid struct {
	Origin        mgl64.Vec3
	Size          float64
	Width, Height int
	blocked       []bool
}

// NewGrid covers the union of walls and marks every cell whose center lies within
// clearance of a wall footprint; no walls yields an empty grid
func NewGrid(walls []vmath.AABB, size, clearance float64) *Grid {
	if len(walls) == 0 || !(size > 0) {
		return &Grid{Size: size}
	}
	lo := mgl64.Vec3{math.Inf(1), 0, math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), 0, math.Inf(-1)}
	for _, w := range walls {
		mn, mx := w.Min(), w.Max()
		lo[0], lo[2] = math.Min(lo[0], mn.X()), math.Min(lo[2], mn.Z())
		hi[0], hi[2] = math.Max(hi[0], mx.X()), math.Max(hi[2], mx.Z())
	}

	g := &Grid{
		Origin: lo,
		Size:   size,
		Width:  int(math.Ceil((hi.X()-lo.X())/size)) + 1,
		Height: int(math.Ceil((hi.Z()-lo.Z())/size)) + 1,
	}
	g.blocked = make([]bool, g.Width*g.Height)
	for _, w := range walls {
		mn, mx := w.Min(), w.Max()
		x0, y0, _ := g.clampedCell(mgl64.Vec3{mn.X() - clearance, 0, mn.Z() - clearance})
		x1, y1, _ := g.clampedCell(mgl64.Vec3{mx.X() + clearance, 0, mx.Z() + clearance})
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				c := g.Center(x, y)
				if math.Abs(c.X()-w.Center.X()) <= w.Half.X()+clearance &&
					math.Abs(c.Z()-w.Center.Z()) <= w.Half.Z()+clearance {
					g.blocked[y*g.Width+x] = true
				}
			}
		}
	}
	return g
}

// Cell returns the cell containing p
func (g *Grid) Cell(p mgl64.Vec3) (int, int, bool) {
	if g.Width == 0 || !vmath.FiniteVec(p) {
		return 0, 0, false
	}
	x := int(math.Floor((p.X() - g.Origin.X()) / g.Size))
	y := int(math.Floor((p.Z() - g.Origin.Z()) / g.Size))
	return x, y, x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

func (g *Grid) clampedCell(p mgl64.Vec3) (int, int, bool) {
	x, y, ok := g.Cell(p)
	return min(max(x, 0), g.Width-1), min(max(y, 0), g.Height-1), ok
}

// Center returns the world center of a cell at height 0
func (g *Grid) Center(x, y int) mgl64.Vec3 {
	return mgl64.Vec3{
		g.Origin.X() + (float64(x)+0.5)*g.Size,
		0,
		g.Origin.Z() + (float64(y)+0.5)*g.Size,
	}
}

// Blocked reports whether a cell is inside a wall; out of range counts as blocked
func (g *Grid) Blocked(x, y int) bool {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return true
	}
	return g.blocked[y*g.Width+x]
}
