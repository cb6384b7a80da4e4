package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/vmath"
)

// accumulatorEpsilon absorbs float drift so a delta of exactly one sub-step runs one sub-step
const accumulatorEpsilon = 1e-9

// Step advances the world by dt seconds in fixed sub-steps, at most MaxSubSteps per call
// Non-finite or negative dt is treated as zero; backlog beyond the cap is dropped
// Forces applied since the previous call are cleared, owners receive synced transforms
// Returns the number of sub-steps executed
func (r *Registry) Step(dt float64) int {
	if !vmath.IsFinite(dt) || dt < 0 {
		dt = 0
	}

	h := r.cfg.FixedStep
	r.accumulator += dt

	steps := 0
	for r.accumulator+accumulatorEpsilon >= h && steps < r.cfg.MaxSubSteps {
		r.subStep(h)
		r.accumulator -= h
		steps++
	}
	if r.accumulator+accumulatorEpsilon >= h {
		// Catch-up cap reached, drop the backlog instead of spiralling
		r.accumulator = 0
	}
	if r.accumulator < 0 {
		r.accumulator = 0
	}

	for i := range r.bodies {
		r.bodies[i].force = mgl64.Vec3{}
	}
	r.sync()

	return steps
}

// subStep integrates one fixed step and dispatches contacts produced by it
func (r *Registry) subStep(h float64) {
	for i := range r.bodies {
		b := &r.bodies[i]
		if !b.alive || b.plane || b.Static() {
			continue
		}
		idx := uint32(i)

		if b.impulse != (mgl64.Vec3{}) {
			b.Velocity = b.Velocity.Add(b.impulse.Mul(b.invMass))
			b.impulse = mgl64.Vec3{}
		}

		accel := b.force.Mul(b.invMass)
		accel[1] += r.cfg.Gravity * b.GravityScale
		b.Velocity = b.Velocity.Add(accel.Mul(h))

		if b.Projectile() {
			r.advanceProjectile(idx, b, h)
			continue
		}
		r.integrate(idx, b, h)
	}

	r.resolvePairs()
	r.dispatchContacts()
}

// integrate moves a dynamic body axis by axis, resolving against world boxes and the ground plane
func (r *Registry) integrate(idx uint32, b *Body, h float64) {
	delta := b.Velocity.Mul(h)
	half := b.Shape.Half

	var cands []uint32
	if b.Mask&CategoryWorld != 0 {
		r.scratch = r.bp.candidates(idx, delta.X(), delta.Z(), CategoryWorld, r.scratch)
		cands = r.scratch
	}

	// X axis
	b.Position[0] += delta.X()
	if box, ok := r.worldOverlap(b, cands); ok {
		if delta.X() > 0 {
			b.Position[0] = box.Min().X() - half.X()
		} else if delta.X() < 0 {
			b.Position[0] = box.Max().X() + half.X()
		}
		b.Velocity[0] = 0
	}

	// Z axis
	b.Position[2] += delta.Z()
	if box, ok := r.worldOverlap(b, cands); ok {
		if delta.Z() > 0 {
			b.Position[2] = box.Min().Z() - half.Z()
		} else if delta.Z() < 0 {
			b.Position[2] = box.Max().Z() + half.Z()
		}
		b.Velocity[2] = 0
	}

	// Y axis, world boxes then ground plane
	b.Position[1] += delta.Y()
	b.Grounded = false
	if box, ok := r.worldOverlap(b, cands); ok {
		if delta.Y() <= 0 {
			b.Position[1] = box.Max().Y() + half.Y()
			b.Grounded = true
		} else {
			b.Position[1] = box.Min().Y() - half.Y()
		}
		b.Velocity[1] = 0
	}

	bottom := b.Position.Y() - half.Y()
	ground := r.cfg.GroundHeight
	if bottom <= ground {
		b.Position[1] = ground + half.Y()
		if b.Velocity.Y() < 0 {
			b.Velocity[1] = 0
		}
		b.Grounded = true
	} else if bottom <= ground+parameter.PhysicsGroundEpsilon && b.Velocity.Y() <= 0 {
		b.Grounded = true
	}

	r.bp.move(idx, b)
}

// worldOverlap returns the first world box among candidates overlapping b
func (r *Registry) worldOverlap(b *Body, cands []uint32) (vmath.AABB, bool) {
	bounds := b.Bounds()
	for _, ci := range cands {
		o := &r.bodies[ci]
		if !o.alive || o.plane || o.Category != CategoryWorld {
			continue
		}
		box := o.Bounds()
		if bounds.Overlaps(box) {
			return box, true
		}
	}
	return vmath.AABB{}, false
}

// advanceProjectile sweeps a projectile along its path, destroying it on expiry or first qualifying hit
func (r *Registry) advanceProjectile(idx uint32, b *Body, h float64) {
	handle := Handle{Index: idx, Gen: b.gen}

	if b.Lifetime > 0 {
		b.Lifetime -= h
		if b.Lifetime <= 0 {
			r.RemoveBody(handle)
			return
		}
	}

	from := b.Position
	move := b.Velocity.Mul(h)
	length := move.Len()
	if length == 0 {
		return
	}
	dir := move.Mul(1 / length)

	bestT := length
	var bestIdx uint32
	hit := false

	r.scratch = r.bp.candidates(idx, move.X(), move.Z(), b.Mask, r.scratch)
	for _, ci := range r.scratch {
		o := &r.bodies[ci]
		if !o.alive || o.plane || !interacts(b, o) {
			continue
		}
		expanded := vmath.AABB{Center: o.Position, Half: o.Shape.Half.Add(b.Shape.Half)}
		if t, ok := vmath.RayAABB(from, dir, expanded, bestT); ok && (!hit || t < bestT) {
			bestT, bestIdx, hit = t, ci, true
		}
	}

	// Ground plane is a world body
	if b.Mask&CategoryWorld != 0 && dir.Y() < 0 {
		ground := r.cfg.GroundHeight + b.Shape.Half.Y()
		if t := (ground - from.Y()) / dir.Y(); t >= 0 && t <= bestT {
			bestT, bestIdx, hit = t, r.ground.Index, true
		}
	}

	if !hit {
		b.Position = from.Add(move)
		r.bp.move(idx, b)
		return
	}

	other := &r.bodies[bestIdx]
	r.contacts = append(r.contacts, Contact{
		A:     handle,
		B:     Handle{Index: bestIdx, Gen: other.gen},
		Point: from.Add(dir.Mul(bestT)),
	})
	r.RemoveBody(handle)
}

// resolvePairs separates interpenetrating dynamic bodies and records trigger overlap starts
func (r *Registry) resolvePairs() {
	current := make(map[pairKey]bool, len(r.overlaps))

	for i := range r.bodies {
		b := &r.bodies[i]
		if !b.alive || b.plane || b.Static() || b.Projectile() {
			continue
		}
		idx := uint32(i)
		mask := b.Mask &^ (CategoryWorld | CategoryProjectile)
		if mask == 0 {
			continue
		}

		r.scratch = r.bp.candidates(idx, 0, 0, mask, r.scratch)
		for _, ci := range r.scratch {
			o := &r.bodies[ci]
			if !o.alive || o.plane || !interacts(b, o) {
				continue
			}
			// Dynamic pairs are visited from both sides, handle once
			if !o.Static() && ci < idx {
				continue
			}
			if !b.Bounds().Overlaps(o.Bounds()) {
				continue
			}

			if trigger(b, o) {
				key := pairKey{a: ci, b: idx}
				current[key] = true
				if !r.overlaps[key] {
					r.contacts = append(r.contacts, Contact{
						A:       Handle{Index: ci, Gen: o.gen},
						B:       Handle{Index: idx, Gen: b.gen},
						Trigger: true,
						Point:   o.Position,
					})
				}
				continue
			}

			massA, massB := b.Mass, o.Mass
			if o.Static() {
				massB = 0
			}
			da, db, ok := vmath.SeparateOverlapXZ(b.Bounds(), o.Bounds(), massA, massB, parameter.PhysicsSeparationMargin)
			if !ok {
				continue
			}
			b.Position = b.Position.Add(da)
			o.Position = o.Position.Add(db)
			r.bp.move(idx, b)
			r.bp.move(ci, o)
		}
	}

	r.overlaps = current
}

// dispatchContacts hands buffered contacts to the handler; the handler may add or remove bodies
func (r *Registry) dispatchContacts() {
	if len(r.contacts) == 0 {
		return
	}
	pending := r.contacts
	r.contacts = nil
	if r.onContact != nil {
		for _, c := range pending {
			r.onContact(c)
		}
	}
	if r.contacts == nil {
		r.contacts = pending[:0]
	}
}

// sync pushes transforms back to owners
func (r *Registry) sync() {
	for i := range r.bodies {
		b := &r.bodies[i]
		if !b.alive || b.Owner == nil {
			continue
		}
		b.Owner.SyncTransform(b.Position, b.Velocity)
	}
}
