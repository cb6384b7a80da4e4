package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned box by center and half extents
type AABB struct {
	Center mgl64.Vec3
	Half   mgl64.Vec3
}

// Min returns the low corner
func (b AABB) Min() mgl64.Vec3 { return b.Center.Sub(b.Half) }

// Max returns the high corner
func (b AABB) Max() mgl64.Vec3 { return b.Center.Add(b.Half) }

// Overlaps reports strict interpenetration on all three axes
func (b AABB) Overlaps(o AABB) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(b.Center[i]-o.Center[i]) >= b.Half[i]+o.Half[i] {
			return false
		}
	}
	return true
}

// Contains reports whether p lies inside the box (inclusive)
func (b AABB) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(p[i]-b.Center[i]) > b.Half[i] {
			return false
		}
	}
	return true
}

// RayAABB returns the entry distance of a ray into a box
// dir must be unit length; origin inside the box hits at 0
func RayAABB(origin, dir mgl64.Vec3, box AABB, maxDist float64) (float64, bool) {
	lo, hi := box.Min(), box.Max()
	tMin, tMax := 0.0, maxDist
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (lo[i] - origin[i]) * inv
		t2 := (hi[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// SeparateOverlapXZ pushes two overlapping boxes apart along the horizontal axis of least penetration
// Displacement is split by inverse mass ratio; a zero mass side does not move
// Returns the displacements for a and b
func SeparateOverlapXZ(a, b AABB, massA, massB, margin float64) (mgl64.Vec3, mgl64.Vec3, bool) {
	if !a.Overlaps(b) {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}

	dx := b.Center.X() - a.Center.X()
	dz := b.Center.Z() - a.Center.Z()
	px := a.Half.X() + b.Half.X() - math.Abs(dx)
	pz := a.Half.Z() + b.Half.Z() - math.Abs(dz)

	var n mgl64.Vec3
	var depth float64
	if px < pz {
		depth = px
		n = mgl64.Vec3{sign(dx), 0, 0}
	} else {
		depth = pz
		n = mgl64.Vec3{0, 0, sign(dz)}
	}
	depth += margin

	ratioA, ratioB := 0.5, 0.5
	switch {
	case massA <= 0 && massB <= 0:
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	case massA <= 0:
		ratioA, ratioB = 0, 1
	case massB <= 0:
		ratioA, ratioB = 1, 0
	default:
		total := massA + massB
		ratioA = massB / total
		ratioB = massA / total
	}

	return n.Mul(-depth * ratioA), n.Mul(depth * ratioB), true
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}
