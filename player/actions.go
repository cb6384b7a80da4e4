package player

import (
	"github.com/lixenwraith/dead-signal/input"
	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/physics"
	"github.com/lixenwraith/dead-signal/sound"
	"github.com/lixenwraith/dead-signal/vmath"
)

// updateWeapon runs the ready / firing / reloading machine
func (c *Controller) updateWeapon(in input.Intents, now float64, env Environment) {
	w := &c.state.Weapon
	firePressed := in.Fire && !c.state.FireLatch
	c.state.FireLatch = in.Fire

	if w.IsReloading {
		if now-w.ReloadStartTime < c.cfg.ReloadTime {
			return
		}
		moved := min(w.ClipMax-w.ClipCurrent, w.AmmoReserve)
		w.ClipCurrent += moved
		w.AmmoReserve -= moved
		w.IsReloading = false
	}

	if in.Reload && w.ClipCurrent < w.ClipMax && w.AmmoReserve > 0 {
		w.IsReloading = true
		w.ReloadStartTime = now
		return
	}

	if !in.Fire {
		return
	}
	if w.ClipCurrent == 0 {
		if firePressed {
			c.bus.Emit(c.state.Position, parameter.EmptyClickVolume, sound.TypeEmptyClick, now)
		}
		return
	}
	if now-w.LastFiredTime < c.cfg.FireCooldown {
		return
	}
	c.fire(now, env)
}

func (c *Controller) fire(now float64, env Environment) {
	w := &c.state.Weapon
	eye := c.Eye()
	dir := c.LookDirection()

	w.ClipCurrent--
	w.LastFiredTime = now
	c.state.Pitch = vmath.Clamp(c.state.Pitch+c.cfg.Recoil, -parameter.PitchLimit, parameter.PitchLimit)

	c.bus.Emit(c.state.Position, parameter.GunshotVolume, sound.TypeGunshot, now)

	if hit, ok := c.ray.Raycast(eye, dir, c.cfg.Range, physics.CategoryEnemy|physics.CategoryWorld); ok {
		if hit.Category == physics.CategoryEnemy && env.Targets != nil {
			env.Targets.Hit(hit.Handle, c.cfg.Damage, now)
		}
		c.bus.Emit(hit.Point, parameter.ImpactVolume, sound.TypeImpact, now)
	}

	// Visual tracer only, damage is resolved by the raycast above
	origin := eye.Add(dir.Mul(0.5))
	if _, err := c.phys.AddProjectile(nil, origin, dir.Mul(parameter.ProjectileSpeed), parameter.ProjectileRadius, parameter.ProjectileLifetime); err != nil {
		c.logger.Printf("[player] tracer dropped: %v", err)
	}
}

// updateFlashlight toggles on a rising edge and drains linearly while on
func (c *Controller) updateFlashlight(in input.Intents, dt float64) {
	if in.FlashlightToggle && !c.state.LightLatch {
		if c.state.FlashlightOn {
			c.state.FlashlightOn = false
		} else if c.state.Battery > 0 {
			c.state.FlashlightOn = true
		}
	}
	c.state.LightLatch = in.FlashlightToggle

	if !c.state.FlashlightOn {
		return
	}
	c.state.Battery -= c.cfg.BatteryDrain * dt
	if c.state.Battery <= 0 {
		c.state.Battery = 0
		c.state.FlashlightOn = false
	}
}

// madnessRate is the net madness change per second for the current state
func (c *Controller) madnessRate(env Environment) float64 {
	rate := -c.cfg.MadnessDecayRate

	if env.SignalStrength > 0 {
		d := c.state.Position.Sub(env.SignalSource).Len()
		if d < c.cfg.MadnessSignalRadius {
			rate += c.cfg.MadnessSignalRate * (1 - d/c.cfg.MadnessSignalRadius) * env.SignalStrength
		}
	}
	if !c.state.FlashlightOn || c.state.Battery < parameter.BatteryCriticalLevel {
		rate += c.cfg.MadnessDarknessRate
	}
	if c.state.SprintTime > c.cfg.MadnessSprintThreshold {
		rate += c.cfg.MadnessSprintRate
	}
	return rate
}

func (c *Controller) updateMadness(dt float64, env Environment) {
	c.state.Madness = vmath.Clamp01(c.state.Madness + c.madnessRate(env)*dt)

	for c.state.MadnessCrossed < len(c.cfg.MadnessThresholds) {
		level := c.cfg.MadnessThresholds[c.state.MadnessCrossed]
		if c.state.Madness < level {
			break
		}
		c.state.MadnessCrossed++
		c.notifier.MadnessThresholdCrossed(level)
	}
}
