// Package physics owns rigid bodies for the player, enemies, pickups, world geometry and projectiles
// Bodies live in an arena addressed by generation-checked handles and are stepped at a fixed sub-step
package physics

import (
	"errors"
	"io"
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/vmath"
)

var (
	// ErrBodyLimit is returned when the arena is full
	ErrBodyLimit = errors.New("physics: body limit reached")
	// ErrInvalidBody is returned for specs with non-finite transforms or empty shapes
	ErrInvalidBody = errors.New("physics: invalid body spec")
)

// Config tunes the physics world
type Config struct {
	FixedStep    float64 `yaml:"fixed_step"`
	MaxSubSteps  int     `yaml:"max_sub_steps"`
	Gravity      float64 `yaml:"gravity"`
	GroundHeight float64 `yaml:"ground_height"`
	MaxBodies    int     `yaml:"max_bodies"`

	// Broadphase coverage in world units
	MinX     float64 `yaml:"min_x"`
	MinZ     float64 `yaml:"min_z"`
	Width    int     `yaml:"width"`
	Depth    int     `yaml:"depth"`
	CellSize int     `yaml:"cell_size"`
}

// DefaultConfig returns the parameter defaults
func DefaultConfig() Config {
	return Config{
		FixedStep:    parameter.PhysicsFixedStep,
		MaxSubSteps:  parameter.PhysicsMaxSubSteps,
		Gravity:      parameter.PhysicsGravity,
		GroundHeight: parameter.PhysicsGroundHeight,
		MaxBodies:    parameter.PhysicsMaxBodies,
		MinX:         parameter.BroadphaseMinX,
		MinZ:         parameter.BroadphaseMinZ,
		Width:        parameter.BroadphaseWidth,
		Depth:        parameter.BroadphaseDepth,
		CellSize:     parameter.BroadphaseCellSize,
	}
}

// Contact reports a trigger overlap start or a projectile hit
// A is the trigger/projectile side, B the body it touched
type Contact struct {
	A, B    Handle
	Trigger bool
	Point   mgl64.Vec3
}

// ContactHandler receives contacts after each sub-step
type ContactHandler func(Contact)

type pairKey struct{ a, b uint32 }

// Registry is the physics world
type Registry struct {
	cfg    Config
	logger *log.Logger

	bodies []Body
	free   []uint32
	count  int

	ground Handle
	bp     *broadphase

	accumulator float64
	onContact   ContactHandler
	contacts    []Contact
	overlaps    map[pairKey]bool
	scratch     []uint32
}

// NewRegistry creates a world containing only the static ground plane
func NewRegistry(cfg Config, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if cfg.FixedStep <= 0 || !vmath.IsFinite(cfg.FixedStep) {
		cfg.FixedStep = parameter.PhysicsFixedStep
	}
	if cfg.MaxSubSteps <= 0 {
		cfg.MaxSubSteps = parameter.PhysicsMaxSubSteps
	}
	if cfg.MaxBodies <= 0 {
		cfg.MaxBodies = parameter.PhysicsMaxBodies
	}
	if cfg.CellSize <= 0 {
		cfg.CellSize = parameter.BroadphaseCellSize
	}

	r := &Registry{
		cfg:      cfg,
		logger:   logger,
		bp:       newBroadphase(cfg),
		overlaps: make(map[pairKey]bool),
	}
	r.addGround()
	return r
}

func (r *Registry) addGround() {
	idx := r.allocate()
	b := &r.bodies[idx]
	*b = Body{
		Category: CategoryWorld,
		Mask:     DefaultMask(CategoryWorld),
		Position: mgl64.Vec3{0, r.cfg.GroundHeight, 0},
		plane:    true,
		alive:    true,
		gen:      b.gen + 1,
	}
	r.count++
	r.ground = Handle{Index: idx, Gen: b.gen}
}

// allocate pops a free slot or grows the arena
func (r *Registry) allocate() uint32 {
	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		return idx
	}
	r.bodies = append(r.bodies, Body{})
	return uint32(len(r.bodies) - 1)
}

// Config returns the active configuration
func (r *Registry) Config() Config {
	return r.cfg
}

// Ground returns the handle of the static ground plane
func (r *Registry) Ground() Handle {
	return r.ground
}

// SetContactHandler installs the contact callback, nil disables it
func (r *Registry) SetContactHandler(fn ContactHandler) {
	r.onContact = fn
}

// Count returns the number of live bodies including the ground plane
func (r *Registry) Count() int {
	return r.count
}

// AddBody registers a body and returns its handle
func (r *Registry) AddBody(spec BodySpec) (Handle, error) {
	if r.count >= r.cfg.MaxBodies {
		return Handle{}, ErrBodyLimit
	}
	if !vmath.FiniteVec(spec.Position) || !vmath.FiniteVec(spec.Velocity) || !vmath.FiniteVec(spec.Shape.Half) {
		return Handle{}, ErrInvalidBody
	}
	if spec.Shape.Half.X() <= 0 || spec.Shape.Half.Y() <= 0 || spec.Shape.Half.Z() <= 0 {
		return Handle{}, ErrInvalidBody
	}

	mask := spec.Mask
	if mask == 0 {
		mask = DefaultMask(spec.Category)
	}
	invMass := 0.0
	if spec.Mass > 0 && vmath.IsFinite(spec.Mass) {
		invMass = 1 / spec.Mass
	}

	idx := r.allocate()
	b := &r.bodies[idx]
	gen := b.gen + 1
	*b = Body{
		Owner:        spec.Owner,
		Shape:        spec.Shape,
		Category:     spec.Category,
		Mask:         mask,
		Mass:         spec.Mass,
		Position:     spec.Position,
		Velocity:     spec.Velocity,
		Lifetime:     spec.Lifetime,
		GravityScale: spec.GravityScale,
		UserData:     spec.UserData,
		invMass:      invMass,
		alive:        true,
		gen:          gen,
	}
	r.count++
	r.bp.insert(idx, b)

	return Handle{Index: idx, Gen: gen}, nil
}

// AddProjectile registers a transient projectile travelling from origin with velocity
func (r *Registry) AddProjectile(owner Owner, origin, velocity mgl64.Vec3, radius, lifetime float64) (Handle, error) {
	return r.AddBody(BodySpec{
		Owner:    owner,
		Shape:    Sphere(radius),
		Category: CategoryProjectile,
		Mass:     0.01,
		Position: origin,
		Velocity: velocity,
		Lifetime: lifetime,
	})
}

// RemoveBody unregisters a body; stale or zero handles are ignored
func (r *Registry) RemoveBody(h Handle) {
	b := r.get(h)
	if b == nil || b.plane {
		return
	}
	r.bp.remove(h.Index)
	for k := range r.overlaps {
		if k.a == h.Index || k.b == h.Index {
			delete(r.overlaps, k)
		}
	}
	b.alive = false
	b.Owner = nil
	r.free = append(r.free, h.Index)
	r.count--
}

// get resolves a handle to its live body
func (r *Registry) get(h Handle) *Body {
	if !h.Valid() || int(h.Index) >= len(r.bodies) {
		return nil
	}
	b := &r.bodies[h.Index]
	if !b.alive || b.gen != h.Gen {
		return nil
	}
	return b
}

// Body returns a copy of the body state
func (r *Registry) Body(h Handle) (Body, bool) {
	b := r.get(h)
	if b == nil {
		return Body{}, false
	}
	return *b, true
}

// Alive reports whether the handle still refers to a registered body
func (r *Registry) Alive(h Handle) bool {
	return r.get(h) != nil
}

// Position returns the current body position
func (r *Registry) Position(h Handle) (mgl64.Vec3, bool) {
	b := r.get(h)
	if b == nil {
		return mgl64.Vec3{}, false
	}
	return b.Position, true
}

// Grounded reports whether the body rests on the ground plane or a world box
func (r *Registry) Grounded(h Handle) bool {
	b := r.get(h)
	return b != nil && b.Grounded
}

// ApplyForce accumulates a force integrated over the next Step call
// A call that executes no sub-step drops it; per-frame velocity targets use ApplyImpulse
func (r *Registry) ApplyForce(h Handle, f mgl64.Vec3) {
	b := r.get(h)
	if b == nil || b.Static() || !vmath.FiniteVec(f) {
		return
	}
	b.force = b.force.Add(f)
}

// ApplyImpulse accumulates an instantaneous velocity change scaled by inverse mass
// Pending impulses survive Step calls that execute no sub-step
func (r *Registry) ApplyImpulse(h Handle, j mgl64.Vec3) {
	b := r.get(h)
	if b == nil || b.Static() || !vmath.FiniteVec(j) {
		return
	}
	b.impulse = b.impulse.Add(j)
}

// PendingVelocity returns the velocity the body will start its next sub-step with
func (r *Registry) PendingVelocity(h Handle) mgl64.Vec3 {
	b := r.get(h)
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.Velocity.Add(b.impulse.Mul(b.invMass))
}

// SetPosition teleports a body
func (r *Registry) SetPosition(h Handle, p mgl64.Vec3) {
	b := r.get(h)
	if b == nil || b.plane || !vmath.FiniteVec(p) {
		return
	}
	b.Position = p
	r.bp.move(h.Index, b)
}

// SetVelocity overrides a body velocity
func (r *Registry) SetVelocity(h Handle, v mgl64.Vec3) {
	b := r.get(h)
	if b == nil || b.Static() || !vmath.FiniteVec(v) {
		return
	}
	b.Velocity = v
}

// SetShape replaces the body shape keeping its bottom on the same height
func (r *Registry) SetShape(h Handle, s Shape) {
	b := r.get(h)
	if b == nil || b.plane || s.Half.X() <= 0 || s.Half.Y() <= 0 || s.Half.Z() <= 0 {
		return
	}
	bottom := b.Position.Y() - b.Shape.Half.Y()
	b.Shape = s
	b.Position[1] = bottom + s.Half.Y()
	r.bp.move(h.Index, b)
}

// Reset removes every body except the ground plane
func (r *Registry) Reset() {
	r.bp.reset()
	r.bodies = r.bodies[:0]
	r.free = r.free[:0]
	r.count = 0
	r.accumulator = 0
	r.contacts = r.contacts[:0]
	r.overlaps = make(map[pairKey]bool)
	r.addGround()
}

// Each visits every live non-plane body; fn must not add or remove bodies
func (r *Registry) Each(fn func(Handle, *Body)) {
	for i := range r.bodies {
		b := &r.bodies[i]
		if !b.alive || b.plane {
			continue
		}
		fn(Handle{Index: uint32(i), Gen: b.gen}, b)
	}
}
