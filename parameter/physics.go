package parameter

// Physics World
const (
	// PhysicsFixedStep is the integration sub-step in seconds
	PhysicsFixedStep = 1.0 / 60.0

	// PhysicsMaxSubSteps bounds sub-steps per Step call, excess accumulated time is dropped
	PhysicsMaxSubSteps = 3

	// PhysicsGravity is vertical acceleration in units/sec² (negative = down)
	PhysicsGravity = -9.82

	// PhysicsGroundHeight is the y coordinate of the static ground plane
	PhysicsGroundHeight = 0.0

	// PhysicsGroundEpsilon is the distance above ground still counted as grounded
	PhysicsGroundEpsilon = 0.05

	// PhysicsMaxBodies caps registered bodies; AddBody fails beyond it
	PhysicsMaxBodies = 512

	// PhysicsLinearDamping is the per-second horizontal velocity retention for airborne bodies
	PhysicsLinearDamping = 0.98

	// PhysicsSeparationMargin is the extra push applied when separating overlapping dynamic bodies
	PhysicsSeparationMargin = 0.01
)

// Broadphase
const (
	// BroadphaseCellSize is the resolv cell edge in world units
	BroadphaseCellSize = 4

	// BroadphaseMinX / MinZ is the world-space origin of the broadphase grid
	BroadphaseMinX = -100.0
	BroadphaseMinZ = -100.0

	// BroadphaseWidth / Depth is the world-space extent covered by the broadphase grid
	BroadphaseWidth = 200
	BroadphaseDepth = 200
)

// Projectiles
const (
	// ProjectileSpeed is the tracer muzzle velocity in units/sec
	ProjectileSpeed = 60.0

	// ProjectileRadius is the tracer collision radius
	ProjectileRadius = 0.05

	// ProjectileLifetime is the tracer lifetime in seconds
	ProjectileLifetime = 2.0
)
