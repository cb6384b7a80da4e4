package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dead-signal/vmath"
)

// RaycastHit is the nearest body struck by a ray
type RaycastHit struct {
	Handle   Handle
	Point    mgl64.Vec3
	Distance float64
	Category Category
	// Ground is set when the hit is the infinite ground plane
	Ground bool
}

// Raycast returns the nearest body whose category is in mask along origin+dir*t, t ∈ [0, maxDist]
// Direction need not be normalized; zero or non-finite input never hits
func (r *Registry) Raycast(origin, dir mgl64.Vec3, maxDist float64, mask Category) (RaycastHit, bool) {
	if !vmath.FiniteVec(origin) || !vmath.FiniteVec(dir) || !vmath.IsFinite(maxDist) || maxDist <= 0 {
		return RaycastHit{}, false
	}
	dir = vmath.SafeNormalize(dir)
	if dir.Len() == 0 {
		return RaycastHit{}, false
	}

	best := RaycastHit{Distance: math.Inf(1)}
	hit := false

	for i := range r.bodies {
		b := &r.bodies[i]
		if !b.alive || b.Category&mask == 0 {
			continue
		}

		if b.plane {
			if dir.Y() >= 0 {
				continue
			}
			t := (r.cfg.GroundHeight - origin.Y()) / dir.Y()
			if t < 0 || t > maxDist || t >= best.Distance {
				continue
			}
			best = RaycastHit{
				Handle:   Handle{Index: uint32(i), Gen: b.gen},
				Point:    origin.Add(dir.Mul(t)),
				Distance: t,
				Category: CategoryWorld,
				Ground:   true,
			}
			hit = true
			continue
		}

		t, ok := vmath.RayAABB(origin, dir, b.Bounds(), maxDist)
		if !ok || t >= best.Distance {
			continue
		}
		best = RaycastHit{
			Handle:   Handle{Index: uint32(i), Gen: b.gen},
			Point:    origin.Add(dir.Mul(t)),
			Distance: t,
			Category: b.Category,
		}
		hit = true
	}

	return best, hit
}
