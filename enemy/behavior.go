package enemy

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/sound"
	"github.com/lixenwraith/dead-signal/vmath"
)

// steer moves the body toward a desired horizontal velocity, changing it by at most
// EnemySteerAcceleration·dt per tick
func (c *Controller) steer(a *agent, desired mgl64.Vec3) {
	if a.dt <= 0 {
		return
	}
	vh := vmath.Horizontal(c.phys.PendingVelocity(a.inst.Body))
	dv := desired.Sub(vh)
	if limit := parameter.EnemySteerAcceleration * a.dt; dv.Len() > limit {
		dv = dv.Mul(limit / dv.Len())
	}
	c.phys.ApplyImpulse(a.inst.Body, dv.Mul(parameter.EnemyMass))
}

// face rotates toward yaw at the bounded turn rate
func (c *Controller) face(a *agent, yaw float64) {
	a.inst.Yaw = vmath.RotateToward(a.inst.Yaw, yaw, parameter.TurnRate*a.dt)
}

// moveToward steers at speed toward target, facing the motion offset by yawOffset
// Returns whether the target is within arrive
func (c *Controller) moveToward(a *agent, target mgl64.Vec3, speed, arrive, yawOffset float64) bool {
	to := vmath.Horizontal(target.Sub(a.inst.Position))
	if to.Len() <= arrive {
		c.steer(a, mgl64.Vec3{})
		return true
	}
	heading := vmath.SafeNormalize(to)
	if c.nav != nil {
		if h, ok := c.nav.Heading(a.inst.Position, target); ok {
			heading = h
		}
	}
	c.steer(a, heading.Mul(speed))
	c.face(a, vmath.YawToward(heading, a.inst.Yaw)+yawOffset)
	return false
}

func (c *Controller) hold(a *agent) {
	c.steer(a, mgl64.Vec3{})
}

// pickPatrolTarget draws a uniform point in the patrol disc
func (c *Controller) pickPatrolTarget(a *agent) {
	angle := c.rng.Float64() * 2 * math.Pi
	r := parameter.PatrolRadius * math.Sqrt(c.rng.Float64())
	center := a.inst.PatrolCenter
	a.inst.PatrolTarget = mgl64.Vec3{center.X() + r*math.Cos(angle), center.Y(), center.Z() + r*math.Sin(angle)}
	a.inst.LegStart = a.now
}

func (c *Controller) patrolBegin(a *agent) {
	a.inst.PatrolLeg = 0
	a.inst.HasInvestigation = false
	a.inst.HasAlert = false
	c.pickPatrolTarget(a)
}

func (c *Controller) patrolMove(a *agent) {
	inst := a.inst
	if inst.PatrolLeg >= parameter.PatrolLegs {
		c.hold(a)
		return
	}
	arrived := c.moveToward(a, inst.PatrolTarget, a.stats.Speed*parameter.PatrolSpeedFactor, parameter.PatrolArriveDistance, 0)
	if arrived || a.now-inst.LegStart > parameter.PatrolLegTimeout {
		inst.PatrolLeg++
		if inst.PatrolLeg < parameter.PatrolLegs {
			c.pickPatrolTarget(a)
		}
	}
}

// investigateBegin picks the point to investigate: live sighting, fresh sound, pending alert, then last known position
func (c *Controller) investigateBegin(a *agent) {
	inst := a.inst
	inst.PointTime, inst.PointVolume = a.now, 0
	switch {
	case a.sees:
		inst.InvestigationPoint = a.ctx.PlayerPos
	case a.heard:
		c.acquireSound(a)
	case inst.HasAlert:
		inst.InvestigationPoint = inst.Alert.Position
		inst.PointTime, inst.PointVolume = inst.Alert.Time, inst.Alert.Volume
	default:
		inst.InvestigationPoint = inst.LastKnown
	}
	inst.HasAlert = false
	inst.HasInvestigation = true
	inst.LastAcquired = a.now
}

// acquireSound moves the investigation point to the perceived sound
func (c *Controller) acquireSound(a *agent) {
	inst := a.inst
	inst.InvestigationPoint = a.sound.Position
	inst.PointTime, inst.PointVolume = a.sound.Time, a.sound.Volume
	inst.HeardSeq = max(inst.HeardSeq, a.sound.Seq)
	inst.LastAcquired = a.now
}

// supersedes reports whether a heard sound should replace the current point
// A quieter sound emitted together with the one that placed it, such as a bullet impact, does not
func supersedes(inst *Instance, ev sound.Event) bool {
	return ev.Time > inst.PointTime || ev.Volume >= inst.PointVolume
}

func (c *Controller) investigateMove(a *agent) {
	inst := a.inst
	// Fresh sounds re-acquire and move the point
	if a.heard {
		if supersedes(inst, a.sound) {
			c.acquireSound(a)
		} else {
			inst.HeardSeq = max(inst.HeardSeq, a.sound.Seq)
		}
	}
	if a.sees {
		inst.LastAcquired = a.now
	}

	// Sweep the view while travelling, turn in place once there
	sweep := parameter.InvestigateScanHalfAngle * math.Sin(parameter.InvestigateScanRate*inst.State.TimeInState)
	speed := a.stats.Speed * parameter.InvestigateSpeedFactor
	if c.moveToward(a, inst.InvestigationPoint, speed, parameter.InvestigateArriveDistance, sweep) {
		inst.Yaw = vmath.WrapAngle(inst.Yaw + parameter.InvestigateScanRate*a.dt)
	}
}

func (c *Controller) chaseMove(a *agent) {
	a.inst.LastKnown = a.ctx.PlayerPos
	if a.heard {
		a.inst.HeardSeq = max(a.inst.HeardSeq, a.sound.Seq)
	}
	c.moveToward(a, a.ctx.PlayerPos, a.stats.Speed, a.stats.AttackRange*0.5, 0)
}

// strike holds position, faces the player and attacks at most once per cooldown of simulation time
func (c *Controller) strike(a *agent) {
	inst := a.inst
	c.steer(a, mgl64.Vec3{})
	c.face(a, vmath.YawToward(a.ctx.PlayerPos.Sub(inst.Position), inst.Yaw))
	inst.LastKnown = a.ctx.PlayerPos

	if !a.ctx.PlayerAlive || a.ctx.Damage == nil || a.dist > a.stats.AttackRange {
		return
	}
	if a.now-inst.LastAttackTime < a.stats.AttackCooldown {
		return
	}
	inst.LastAttackTime = a.now
	a.ctx.Damage(a.stats.AttackDamage)
	if c.bus != nil {
		c.bus.Emit(inst.Position, parameter.AttackVolume, sound.TypeAttack, a.now)
	}
}

func (c *Controller) die(a *agent) {
	a.inst.Health = 0
	a.inst.DiedAt = a.now
	a.inst.HasInvestigation = false
	c.phys.SetVelocity(a.inst.Body, mgl64.Vec3{0, a.inst.Velocity.Y(), 0})
}
