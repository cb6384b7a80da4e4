package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dead-signal/vmath"
)

// Category is a collision bitmask bit
type Category uint8

const (
	CategoryPlayer Category = 1 << iota
	CategoryEnemy
	CategoryWorld
	CategoryPickup
	CategoryProjectile
)

// CategoryAll matches every category in queries
const CategoryAll = CategoryPlayer | CategoryEnemy | CategoryWorld | CategoryPickup | CategoryProjectile

// DefaultMask returns the collision mask for a category
// Projectiles never touch the player or each other; pickups only ever overlap the player
func DefaultMask(c Category) Category {
	switch c {
	case CategoryPlayer:
		return CategoryWorld | CategoryEnemy | CategoryPickup
	case CategoryEnemy:
		return CategoryWorld | CategoryPlayer | CategoryProjectile
	case CategoryProjectile:
		return CategoryWorld | CategoryEnemy
	case CategoryPickup:
		return CategoryPlayer
	case CategoryWorld:
		return CategoryPlayer | CategoryEnemy | CategoryProjectile
	}
	return 0
}

// String returns the broadphase tag for a single category
func (c Category) String() string {
	switch c {
	case CategoryPlayer:
		return "player"
	case CategoryEnemy:
		return "enemy"
	case CategoryWorld:
		return "world"
	case CategoryPickup:
		return "pickup"
	case CategoryProjectile:
		return "projectile"
	}
	return "none"
}

// tags expands a mask into broadphase tags
func (c Category) tags() []string {
	var out []string
	for bit := CategoryPlayer; bit <= CategoryProjectile; bit <<= 1 {
		if c&bit != 0 {
			out = append(out, bit.String())
		}
	}
	return out
}

// Handle identifies a registered body; the zero Handle is never valid
// Generation guards against use after the arena slot was recycled
type Handle struct {
	Index uint32
	Gen   uint32
}

// Valid reports whether the handle was ever issued
func (h Handle) Valid() bool {
	return h.Gen != 0
}

// Owner receives the post-step transform of its body
type Owner interface {
	SyncTransform(pos, vel mgl64.Vec3)
}

// Shape is an axis-aligned box by half extents
// Spheres and capsules are approximated by their bounding box
type Shape struct {
	Half mgl64.Vec3
}

// Box returns a box shape
func Box(halfX, halfY, halfZ float64) Shape {
	return Shape{Half: mgl64.Vec3{halfX, halfY, halfZ}}
}

// Sphere returns the bounding box of a sphere
func Sphere(radius float64) Shape {
	return Shape{Half: mgl64.Vec3{radius, radius, radius}}
}

// BodySpec describes a body to register
type BodySpec struct {
	Owner    Owner
	Shape    Shape
	Category Category
	// Mask of categories this body interacts with, 0 selects DefaultMask
	Mask     Category
	Mass     float64 // 0 = static
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	// Lifetime in seconds, > 0 destroys the body on expiry
	Lifetime float64
	// GravityScale multiplies world gravity, projectiles typically use 0
	GravityScale float64
	// UserData is an opaque tag for the owner (pickup index, enemy slot)
	UserData int
}

// Body is a registered rigid body
type Body struct {
	Owner        Owner
	Shape        Shape
	Category     Category
	Mask         Category
	Mass         float64
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Lifetime     float64
	GravityScale float64
	Grounded     bool
	UserData     int

	invMass float64
	force   mgl64.Vec3
	impulse mgl64.Vec3
	plane   bool
	alive   bool
	gen     uint32
}

// Static reports whether the body never moves
func (b *Body) Static() bool {
	return b.invMass == 0
}

// Bounds returns the world-space box
func (b *Body) Bounds() vmath.AABB {
	return vmath.AABB{Center: b.Position, Half: b.Shape.Half}
}

// Projectile reports whether the body is a transient projectile
func (b *Body) Projectile() bool {
	return b.Category == CategoryProjectile
}

// interacts reports whether both sides accept each other
func interacts(a, b *Body) bool {
	return a.Mask&b.Category != 0 && b.Mask&a.Category != 0
}

// trigger reports whether a pair only reports overlap without response
func trigger(a, b *Body) bool {
	return a.Category == CategoryPickup || b.Category == CategoryPickup
}
