package parameter

// Enemy Pool & Spawning
const (
	// EnemyMaxActive is the arena size and concurrent active cap
	EnemyMaxActive = 8

	// SpawnMinDistance / SpawnMaxDistance is the player distance band that triggers a spawn point
	SpawnMinDistance = 12.0
	SpawnMaxDistance = 35.0

	// DespawnDistance returns a live enemy to the pool
	DespawnDistance = 60.0

	// DeathDespawnDelay is seconds between death and pool return
	DeathDespawnDelay = 3.0

	// SpawnRespawnDelay is seconds before a spawn point re-arms after its enemy despawned
	SpawnRespawnDelay = 30.0
)

// Enemy Body
const (
	EnemyHalfWidth  = 0.4
	EnemyHalfHeight = 0.9
	EnemyMass       = 80.0

	// EnemySteerAcceleration is how fast enemies reach their desired velocity (units/sec²)
	EnemySteerAcceleration = 20.0
)

// Perception
const (
	// SightDotThreshold is the forward cone threshold (~120° field of view)
	SightDotThreshold = 0.5

	// LoseInterestFactor scales detection range into the chase lose-interest distance
	LoseInterestFactor = 1.5

	// AttackExitFactor scales attack range into the attack → chase exit distance
	AttackExitFactor = 1.5

	// DetectionGainSight is detection level gained per second while the player is seen
	DetectionGainSight = 1.0
	// DetectionGainSoundScale multiplies alert volume into detection level
	DetectionGainSoundScale = 0.5
	// DetectionDecay is detection level lost per second without perception
	DetectionDecay = 0.1
	// DetectionSuspicionLevel sends a patrolling enemy toward the last alert it could not hear directly
	DetectionSuspicionLevel = 0.4

	// AlertRadius is the bus alert radius at volume 1.0
	AlertRadius = 25.0

	// AttackVolume is the sound level of a melee strike
	AttackVolume = 0.5
)

// AI Timing
const (
	// IdleMinTime is seconds in idle before a patrol may start
	IdleMinTime = 2.0
	// IdlePatrolRate is the per-second rate of the idle → patrol random timeout
	IdlePatrolRate = 0.2
	// IdleRestlessness multiplies the patrol rate at full detection level
	IdleRestlessness = 5.0

	// InvestigateTimeout is seconds without re-acquiring before giving up
	InvestigateTimeout = 5.0
	// InvestigateScanRate is the scan rotation speed in radians/sec
	InvestigateScanRate = 0.8
	// InvestigateArriveDistance is the distance counted as reaching the point
	InvestigateArriveDistance = 1.0
	// InvestigateScanHalfAngle is the view sweep amplitude while travelling, radians
	InvestigateScanHalfAngle = 0.6

	// PatrolRadius bounds wander targets around the patrol center
	PatrolRadius = 8.0
	// PatrolLegs is the number of wander legs before returning to idle
	PatrolLegs = 4
	// PatrolLegTimeout abandons an unreachable wander target
	PatrolLegTimeout = 8.0
	// PatrolArriveDistance is the distance counted as reaching a wander target
	PatrolArriveDistance = 0.5

	PatrolSpeedFactor      = 0.5
	InvestigateSpeedFactor = 0.7

	// TurnRate is the max facing rotation in radians/sec while moving
	TurnRate = 4.0
)

// EnemyTypeStats is the fixed stat block per enemy type, index-aligned with enemy.Type
// Columns: MaxHealth, Speed, DetectionRange, AttackRange, AttackDamage, AttackCooldown
var EnemyTypeStats = [3][6]float64{
	{50, 2.5, 12, 1.5, 10, 1.5},  // infected_scientist
	{100, 3.5, 18, 2.0, 20, 2.0}, // corrupted_soldier
	{150, 4.5, 25, 2.5, 30, 2.5}, // signal_entity
}

// Navigation
const (
	// NavCellSize is the flow field grid resolution in world units
	NavCellSize = 0.5

	// NavClearance inflates walls so paths keep the enemy body off them
	NavClearance = EnemyHalfWidth

	// NavFieldCache is the number of per-target flow fields kept
	NavFieldCache = 8
)
