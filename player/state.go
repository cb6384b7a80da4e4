// Package player turns input intents into movement forces, weapon and flashlight use, and madness
package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/vmath"
)

// Weapon is the sidearm sub-state
type Weapon struct {
	AmmoReserve     int     `msgpack:"ammo_reserve"`
	ClipCurrent     int     `msgpack:"clip_current"`
	ClipMax         int     `msgpack:"clip_max"`
	LastFiredTime   float64 `msgpack:"last_fired_time"`
	IsReloading     bool    `msgpack:"is_reloading"`
	ReloadStartTime float64 `msgpack:"reload_start_time"`
}

// State is the complete serializable player state
type State struct {
	Position mgl64.Vec3 `msgpack:"position"`
	Velocity mgl64.Vec3 `msgpack:"velocity"`
	Yaw      float64    `msgpack:"yaw"`
	Pitch    float64    `msgpack:"pitch"`

	Health       float64 `msgpack:"health"`
	Battery      float64 `msgpack:"battery"`
	FlashlightOn bool    `msgpack:"flashlight_on"`
	Madness      float64 `msgpack:"madness"`
	IsDead       bool    `msgpack:"is_dead"`

	Grounded   bool    `msgpack:"grounded"`
	Crouching  bool    `msgpack:"crouching"`
	Sprinting  bool    `msgpack:"sprinting"`
	SprintTime float64 `msgpack:"sprint_time"`

	// Rising-edge latches
	JumpLatch     bool `msgpack:"jump_latch"`
	FireLatch     bool `msgpack:"fire_latch"`
	LightLatch    bool `msgpack:"light_latch"`
	InteractLatch bool `msgpack:"interact_latch"`

	StrideTimer float64 `msgpack:"stride_timer"`
	// MadnessCrossed counts thresholds already reported
	MadnessCrossed int `msgpack:"madness_crossed"`

	Weapon Weapon `msgpack:"weapon"`
}

// HUD is the read-only snapshot for the UI collaborator
type HUD struct {
	Health         float64
	MaxHealth      float64
	AmmoReserve    int
	ClipCurrent    int
	ClipMax        int
	BatteryPercent float64
	MadnessPercent float64

	FlashlightOn bool
	Reloading    bool
	Dead         bool
}

// Config tunes the controller
type Config struct {
	MaxHealth   float64 `yaml:"max_health"`
	MaxBattery  float64 `yaml:"max_battery"`
	Sensitivity float64 `yaml:"sensitivity"`

	WalkSpeed    float64 `yaml:"walk_speed"`
	SprintSpeed  float64 `yaml:"sprint_speed"`
	CrouchSpeed  float64 `yaml:"crouch_speed"`
	Acceleration float64 `yaml:"acceleration"`
	Friction     float64 `yaml:"friction"`
	JumpVelocity float64 `yaml:"jump_velocity"`

	ClipMax      int     `yaml:"clip_max"`
	AmmoReserve  int     `yaml:"ammo_reserve"`
	FireCooldown float64 `yaml:"fire_cooldown"`
	ReloadTime   float64 `yaml:"reload_time"`
	Recoil       float64 `yaml:"recoil"`
	Range        float64 `yaml:"range"`
	Damage       float64 `yaml:"damage"`

	BatteryDrain float64 `yaml:"battery_drain"`

	MadnessSignalRadius    float64   `yaml:"madness_signal_radius"`
	MadnessSignalRate      float64   `yaml:"madness_signal_rate"`
	MadnessDarknessRate    float64   `yaml:"madness_darkness_rate"`
	MadnessSprintRate      float64   `yaml:"madness_sprint_rate"`
	MadnessSprintThreshold float64   `yaml:"madness_sprint_threshold"`
	MadnessDecayRate       float64   `yaml:"madness_decay_rate"`
	MadnessThresholds      []float64 `yaml:"madness_thresholds"`
}

// DefaultConfig returns the parameter defaults
func DefaultConfig() Config {
	return Config{
		MaxHealth:   parameter.PlayerMaxHealth,
		MaxBattery:  parameter.PlayerMaxBattery,
		Sensitivity: parameter.LookSensitivityDefault,

		WalkSpeed:    parameter.WalkMaxSpeed,
		SprintSpeed:  parameter.SprintMaxSpeed,
		CrouchSpeed:  parameter.CrouchMaxSpeed,
		Acceleration: parameter.MoveAcceleration,
		Friction:     parameter.MoveGroundFriction,
		JumpVelocity: parameter.JumpVelocity,

		ClipMax:      parameter.WeaponClipMax,
		AmmoReserve:  parameter.WeaponAmmoReserve,
		FireCooldown: parameter.WeaponFireCooldown,
		ReloadTime:   parameter.WeaponReloadTime,
		Recoil:       parameter.WeaponRecoil,
		Range:        parameter.WeaponRange,
		Damage:       parameter.WeaponDamage,

		BatteryDrain: parameter.BatteryDrainPerSecond,

		MadnessSignalRadius:    parameter.MadnessSignalRadius,
		MadnessSignalRate:      parameter.MadnessSignalRate,
		MadnessDarknessRate:    parameter.MadnessDarknessRate,
		MadnessSprintRate:      parameter.MadnessSprintRate,
		MadnessSprintThreshold: parameter.MadnessSprintThreshold,
		MadnessDecayRate:       parameter.MadnessDecayRate,
		MadnessThresholds:      append([]float64(nil), parameter.MadnessThresholds...),
	}
}

// sanitize replaces unusable values with defaults
func (c Config) sanitize() Config {
	d := DefaultConfig()
	pos := func(v, def float64) float64 {
		if !(v > 0) || !vmath.IsFinite(v) {
			return def
		}
		return v
	}
	c.MaxHealth = pos(c.MaxHealth, d.MaxHealth)
	c.MaxBattery = pos(c.MaxBattery, d.MaxBattery)
	c.Sensitivity = ClampSensitivity(c.Sensitivity)
	c.WalkSpeed = pos(c.WalkSpeed, d.WalkSpeed)
	c.SprintSpeed = pos(c.SprintSpeed, d.SprintSpeed)
	c.CrouchSpeed = pos(c.CrouchSpeed, d.CrouchSpeed)
	c.Acceleration = pos(c.Acceleration, d.Acceleration)
	c.Friction = pos(c.Friction, d.Friction)
	c.JumpVelocity = pos(c.JumpVelocity, d.JumpVelocity)
	if c.ClipMax <= 0 {
		c.ClipMax = d.ClipMax
	}
	if c.AmmoReserve < 0 {
		c.AmmoReserve = 0
	}
	c.FireCooldown = pos(c.FireCooldown, d.FireCooldown)
	c.ReloadTime = pos(c.ReloadTime, d.ReloadTime)
	c.Range = pos(c.Range, d.Range)
	c.Damage = pos(c.Damage, d.Damage)
	if !vmath.IsFinite(c.Recoil) || c.Recoil < 0 {
		c.Recoil = d.Recoil
	}
	if !vmath.IsFinite(c.BatteryDrain) || c.BatteryDrain < 0 {
		c.BatteryDrain = d.BatteryDrain
	}
	c.MadnessSignalRadius = pos(c.MadnessSignalRadius, d.MadnessSignalRadius)
	nonNeg := func(v, def float64) float64 {
		if !vmath.IsFinite(v) || v < 0 {
			return def
		}
		return v
	}
	c.MadnessSignalRate = nonNeg(c.MadnessSignalRate, d.MadnessSignalRate)
	c.MadnessDarknessRate = nonNeg(c.MadnessDarknessRate, d.MadnessDarknessRate)
	c.MadnessSprintRate = nonNeg(c.MadnessSprintRate, d.MadnessSprintRate)
	c.MadnessSprintThreshold = nonNeg(c.MadnessSprintThreshold, d.MadnessSprintThreshold)
	c.MadnessDecayRate = nonNeg(c.MadnessDecayRate, d.MadnessDecayRate)
	if len(c.MadnessThresholds) == 0 {
		c.MadnessThresholds = d.MadnessThresholds
	}
	return c
}

// ClampSensitivity returns s when inside the accepted range, the default otherwise
func ClampSensitivity(s float64) float64 {
	if !vmath.IsFinite(s) || s < parameter.LookSensitivityMin || s > parameter.LookSensitivityMax {
		return parameter.LookSensitivityDefault
	}
	return s
}

// newState is the fresh-game state
func newState(cfg Config) State {
	return State{
		Health:  cfg.MaxHealth,
		Battery: cfg.MaxBattery,
		Weapon: Weapon{
			AmmoReserve:   cfg.AmmoReserve,
			ClipCurrent:   cfg.ClipMax,
			ClipMax:       cfg.ClipMax,
			LastFiredTime: -cfg.FireCooldown,
		},
	}
}

// clampState enforces every state invariant on write
func clampState(s *State, cfg Config) {
	if !vmath.FiniteVec(s.Position) {
		s.Position = mgl64.Vec3{}
	}
	if !vmath.FiniteVec(s.Velocity) {
		s.Velocity = mgl64.Vec3{}
	}
	s.Yaw = vmath.WrapAngle(vmath.Sanitize(s.Yaw, 0))
	s.Pitch = vmath.Clamp(vmath.Sanitize(s.Pitch, 0), -parameter.PitchLimit, parameter.PitchLimit)

	s.Health = vmath.Clamp(s.Health, 0, cfg.MaxHealth)
	if s.Health == 0 {
		s.IsDead = true
	}
	s.Battery = vmath.Clamp(s.Battery, 0, cfg.MaxBattery)
	if s.Battery == 0 {
		s.FlashlightOn = false
	}
	s.Madness = vmath.Clamp01(s.Madness)
	s.SprintTime = math.Max(0, vmath.Sanitize(s.SprintTime, 0))
	s.StrideTimer = math.Max(0, vmath.Sanitize(s.StrideTimer, 0))
	if s.MadnessCrossed < 0 {
		s.MadnessCrossed = 0
	}
	if s.MadnessCrossed > len(cfg.MadnessThresholds) {
		s.MadnessCrossed = len(cfg.MadnessThresholds)
	}

	w := &s.Weapon
	if w.ClipMax <= 0 {
		w.ClipMax = cfg.ClipMax
	}
	if w.ClipCurrent < 0 {
		w.ClipCurrent = 0
	}
	if w.ClipCurrent > w.ClipMax {
		w.ClipCurrent = w.ClipMax
	}
	if w.AmmoReserve < 0 {
		w.AmmoReserve = 0
	}
	w.LastFiredTime = vmath.Sanitize(w.LastFiredTime, -cfg.FireCooldown)
	w.ReloadStartTime = vmath.Sanitize(w.ReloadStartTime, 0)
}
