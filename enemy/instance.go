package enemy

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/lixenwraith/dead-signal/engine/fsm"
	"github.com/lixenwraith/dead-signal/physics"
	"github.com/lixenwraith/dead-signal/sound"
)

// Instance is one enemy; it lives in a Pool slot and doubles as the snapshot record
type Instance struct {
	ID       uuid.UUID  `msgpack:"id"`
	Type     Type       `msgpack:"type"`
	Health   float64    `msgpack:"health"`
	Position mgl64.Vec3 `msgpack:"position"`
	Velocity mgl64.Vec3 `msgpack:"velocity"`
	Yaw      float64    `msgpack:"yaw"`

	State          fsm.Cursor `msgpack:"state"`
	DetectionLevel float64    `msgpack:"detection_level"`

	PatrolCenter mgl64.Vec3 `msgpack:"patrol_center"`
	PatrolTarget mgl64.Vec3 `msgpack:"patrol_target"`
	PatrolLeg    int        `msgpack:"patrol_leg"`
	LegStart     float64    `msgpack:"leg_start"`

	// Investigation point is meaningful only with HasInvestigation
	InvestigationPoint mgl64.Vec3 `msgpack:"investigation_point"`
	HasInvestigation   bool       `msgpack:"has_investigation"`
	// Emit time and volume of the sound that placed the point, zero volume for sightings
	PointTime    float64    `msgpack:"point_time"`
	PointVolume  float64    `msgpack:"point_volume"`
	LastKnown    mgl64.Vec3 `msgpack:"last_known"`
	LastAcquired float64    `msgpack:"last_acquired"`

	// Latest alert received while patrolling, followed once detection is high enough
	Alert    sound.Event `msgpack:"alert"`
	HasAlert bool        `msgpack:"has_alert"`

	// HeardSeq is the newest sound event already acted on
	HeardSeq uint64 `msgpack:"heard_seq"`

	LastAttackTime float64 `msgpack:"last_attack_time"`
	DiedAt         float64 `msgpack:"died_at"`
	SpawnPoint     int     `msgpack:"spawn_point"`

	Body physics.Handle `msgpack:"-"`
	Slot int            `msgpack:"-"`
}

// SyncTransform implements physics.Owner
func (in *Instance) SyncTransform(pos, vel mgl64.Vec3) {
	in.Position = pos
	in.Velocity = vel
}

// Dying reports whether the instance reached the terminal state
func (in *Instance) Dying() bool {
	return in.State.State == StateDying
}

// View is the read-only per-instance snapshot for renderers
type View struct {
	ID       uuid.UUID
	Type     Type
	State    string
	Health   float64
	Position mgl64.Vec3
	Yaw      float64
}
