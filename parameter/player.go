package parameter

import "math"

// Player Body
const (
	// PlayerHalfWidth is the horizontal half extent of the player box
	PlayerHalfWidth = 0.35
	// PlayerHalfHeight is the vertical half extent of the player box (standing)
	PlayerHalfHeight = 0.9
	// PlayerCrouchHalfHeight is the vertical half extent while crouching
	PlayerCrouchHalfHeight = 0.55
	// PlayerEyeHeight is the camera offset above the body center
	PlayerEyeHeight = 0.7
	// PlayerMass in kg
	PlayerMass = 70.0
)

// Player Vitals
const (
	PlayerMaxHealth  = 100.0
	PlayerMaxBattery = 100.0

	// BatteryDrainPerSecond empties a full battery in ~5 minutes
	BatteryDrainPerSecond = 100.0 / 300.0

	// BatteryCriticalLevel is the level counted as darkness for madness accumulation
	BatteryCriticalLevel = 10.0
)

// Look
const (
	// LookSensitivityDefault is radians per input delta unit
	LookSensitivityDefault = 0.002
	LookSensitivityMin     = 0.0001
	LookSensitivityMax     = 0.05
)

// PitchLimit clamps look pitch to ±82°
var PitchLimit = 82.0 * math.Pi / 180.0

// Movement
const (
	// MoveAcceleration is horizontal acceleration from intent in units/sec²
	MoveAcceleration = 40.0
	// MoveGroundFriction is horizontal deceleration with no intent in units/sec²
	MoveGroundFriction = 30.0

	WalkMaxSpeed   = 5.0
	SprintMaxSpeed = 8.0
	CrouchMaxSpeed = 2.5

	// JumpVelocity is the vertical velocity change produced by the jump impulse
	JumpVelocity = 5.0

	// StrideInterval is seconds between footstep sound events at walk speed
	StrideInterval = 0.5
	// StrideMinSpeed is the horizontal speed below which no footsteps are emitted
	StrideMinSpeed = 0.5

	FootstepVolumeWalk   = 0.3
	FootstepVolumeSprint = 0.6
	FootstepVolumeCrouch = 0.1
)

// Weapon
const (
	WeaponClipMax      = 8
	WeaponAmmoReserve  = 24
	WeaponFireCooldown = 0.25
	WeaponReloadTime   = 1.5
	WeaponRecoil       = 0.03
	WeaponRange        = 50.0
	WeaponDamage       = 25.0

	GunshotVolume    = 1.0
	EmptyClickVolume = 0.05
	ImpactVolume     = 0.4
	PickupVolume     = 0.2
)

// Interaction
const (
	// InteractReach is the maximum raycast distance for interact queries
	InteractReach = 2.5
)

// Madness
const (
	// MadnessSignalRadius is the distance at which signal exposure starts
	MadnessSignalRadius = 20.0
	// MadnessSignalRate is accumulation per second at zero distance from the signal source
	MadnessSignalRate = 0.02
	// MadnessDarknessRate is accumulation per second while in darkness
	MadnessDarknessRate = 0.004
	// MadnessSprintRate is accumulation per second after sustained sprinting
	MadnessSprintRate = 0.003
	// MadnessSprintThreshold is seconds of continuous sprint before accumulation
	MadnessSprintThreshold = 2.0
	// MadnessDecayRate is the baseline decay per second
	MadnessDecayRate = 0.002
)

// MadnessThresholds are levels reported to the story collaborator on upward crossing
var MadnessThresholds = []float64{0.25, 0.5, 0.75, 1.0}
