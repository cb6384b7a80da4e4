package player

import (
	"io"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dead-signal/event"
	"github.com/lixenwraith/dead-signal/facility"
	"github.com/lixenwraith/dead-signal/input"
	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/physics"
	"github.com/lixenwraith/dead-signal/sound"
	"github.com/lixenwraith/dead-signal/vmath"
)

// Raycaster is the scene query used for weapon hits and interaction
type Raycaster interface {
	Raycast(origin, dir mgl64.Vec3, maxDist float64, mask physics.Category) (physics.RaycastHit, bool)
}

// HitReceiver applies weapon damage to whatever owns the struck body
type HitReceiver interface {
	Hit(h physics.Handle, damage, now float64) bool
}

// ItemSource resolves and consumes pickups by body
type ItemSource interface {
	Take(h physics.Handle) (facility.Pickup, bool)
}

// Environment is the per-tick world context the controller reads
type Environment struct {
	SignalSource   mgl64.Vec3
	SignalStrength float64 // 0 disables signal exposure
	Targets        HitReceiver
	Items          ItemSource
}

// Controller owns the player state and its physics body
type Controller struct {
	cfg      Config
	phys     *physics.Registry
	bus      *sound.Bus
	notifier event.Notifier
	logger   *log.Logger
	ray      Raycaster

	state State
	body  physics.Handle
	now   float64 // Time of the last Update
}

// NewController creates a controller with a fresh state and no body; call Spawn
func NewController(cfg Config, phys *physics.Registry, bus *sound.Bus, notifier event.Notifier, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if notifier == nil {
		notifier = event.Discard{}
	}
	cfg = cfg.sanitize()
	return &Controller{
		cfg:      cfg,
		phys:     phys,
		bus:      bus,
		notifier: notifier,
		logger:   logger,
		ray:      phys,
		state:    newState(cfg),
	}
}

// SetRaycaster overrides the scene query, nil restores the physics registry
func (c *Controller) SetRaycaster(r Raycaster) {
	if r == nil {
		c.ray = c.phys
		return
	}
	c.ray = r
}

// SetSensitivity changes look sensitivity; out of range values select the default
func (c *Controller) SetSensitivity(s float64) {
	c.cfg.Sensitivity = ClampSensitivity(s)
}

// Sensitivity returns the active look sensitivity
func (c *Controller) Sensitivity() float64 {
	return c.cfg.Sensitivity
}

// Config returns the sanitized configuration
func (c *Controller) Config() Config {
	return c.cfg
}

// Spawn places the player body at pos facing yaw, replacing any previous body
func (c *Controller) Spawn(pos mgl64.Vec3, yaw float64) error {
	c.phys.RemoveBody(c.body)
	c.state.Position = pos
	c.state.Velocity = mgl64.Vec3{}
	c.state.Yaw = yaw
	c.state.Pitch = 0
	clampState(&c.state, c.cfg)
	return c.addBody()
}

func (c *Controller) addBody() error {
	h, err := c.phys.AddBody(physics.BodySpec{
		Owner:        c,
		Shape:        c.shape(),
		Category:     physics.CategoryPlayer,
		Mass:         parameter.PlayerMass,
		Position:     c.state.Position,
		Velocity:     c.state.Velocity,
		GravityScale: 1,
	})
	if err != nil {
		c.logger.Printf("[player] body allocation failed: %v", err)
		c.body = physics.Handle{}
		return err
	}
	c.body = h
	return nil
}

func (c *Controller) shape() physics.Shape {
	half := parameter.PlayerHalfHeight
	if c.state.Crouching {
		half = parameter.PlayerCrouchHalfHeight
	}
	return physics.Box(parameter.PlayerHalfWidth, half, parameter.PlayerHalfWidth)
}

// Body returns the player physics handle
func (c *Controller) Body() physics.Handle {
	return c.body
}

// SyncTransform implements physics.Owner
func (c *Controller) SyncTransform(pos, vel mgl64.Vec3) {
	c.state.Position = pos
	c.state.Velocity = vel
}

// Reset restores a fresh-game state and drops the body
func (c *Controller) Reset() {
	c.phys.RemoveBody(c.body)
	c.body = physics.Handle{}
	c.state = newState(c.cfg)
}

// State returns a copy of the current state
func (c *Controller) State() State {
	return c.state
}

// Restore replaces the state, clamping invariants, and recreates the body
func (c *Controller) Restore(s State) error {
	clampState(&s, c.cfg)
	c.phys.RemoveBody(c.body)
	c.state = s
	return c.addBody()
}

// Dead reports the terminal death flag
func (c *Controller) Dead() bool {
	return c.state.IsDead
}

// HUD returns the UI snapshot
func (c *Controller) HUD() HUD {
	s := &c.state
	return HUD{
		Health:         s.Health,
		MaxHealth:      c.cfg.MaxHealth,
		AmmoReserve:    s.Weapon.AmmoReserve,
		ClipCurrent:    s.Weapon.ClipCurrent,
		ClipMax:        s.Weapon.ClipMax,
		BatteryPercent: 100 * s.Battery / c.cfg.MaxBattery,
		MadnessPercent: 100 * s.Madness,
		FlashlightOn:   s.FlashlightOn,
		Reloading:      s.Weapon.IsReloading,
		Dead:           s.IsDead,
	}
}

// Eye returns the camera position
func (c *Controller) Eye() mgl64.Vec3 {
	offset := parameter.PlayerEyeHeight
	if c.state.Crouching {
		offset *= parameter.PlayerCrouchHalfHeight / parameter.PlayerHalfHeight
	}
	return c.state.Position.Add(mgl64.Vec3{0, offset, 0})
}

// LookDirection returns the unit view vector
func (c *Controller) LookDirection() mgl64.Vec3 {
	return vmath.Direction(c.state.Yaw, c.state.Pitch)
}

// Update runs one tick of player logic; dead players are frozen
func (c *Controller) Update(in input.Intents, dt, now float64, env Environment) {
	if c.state.IsDead {
		return
	}
	if !vmath.IsFinite(dt) || dt < 0 {
		dt = 0
	}
	c.now = now
	if b, ok := c.phys.Body(c.body); ok {
		c.state.Grounded = b.Grounded
	}

	c.look(in)
	moving := c.stance(in, dt)
	c.move(in, dt)
	c.jump(in)
	c.updateWeapon(in, now, env)
	c.updateFlashlight(in, dt)
	c.updateMadness(dt, env)
	c.footsteps(moving, dt, now)
	c.interact(in, env)

	clampState(&c.state, c.cfg)
}

func (c *Controller) look(in input.Intents) {
	dx := vmath.Sanitize(in.LookDeltaX, 0)
	dy := vmath.Sanitize(in.LookDeltaY, 0)
	sens := c.cfg.Sensitivity
	c.state.Yaw = vmath.WrapAngle(c.state.Yaw - dx*sens)
	c.state.Pitch = vmath.Clamp(c.state.Pitch-dy*sens, -parameter.PitchLimit, parameter.PitchLimit)
}

// stance resolves crouch and sprint; crouch overrides sprint when both are held
// Returns whether any movement intent is present
func (c *Controller) stance(in input.Intents, dt float64) bool {
	moving := in.MoveForward != in.MoveBackward || in.MoveLeft != in.MoveRight

	if in.Crouch != c.state.Crouching {
		c.state.Crouching = in.Crouch
		c.phys.SetShape(c.body, c.shape())
	}
	c.state.Sprinting = in.Sprint && !c.state.Crouching && moving

	if c.state.Sprinting {
		c.state.SprintTime += dt
	} else {
		c.state.SprintTime = 0
	}
	return moving
}

func (c *Controller) maxSpeed() float64 {
	switch {
	case c.state.Crouching:
		return c.cfg.CrouchSpeed
	case c.state.Sprinting:
		return c.cfg.SprintSpeed
	}
	return c.cfg.WalkSpeed
}

// move converts directional intent into a capped velocity change, or friction without intent
// The change is queued as an impulse so it lands once whatever sub-steps the frame runs
func (c *Controller) move(in input.Intents, dt float64) {
	if dt <= 0 {
		return
	}

	var wish mgl64.Vec3
	if in.MoveForward {
		wish = wish.Add(vmath.Forward(c.state.Yaw))
	}
	if in.MoveBackward {
		wish = wish.Sub(vmath.Forward(c.state.Yaw))
	}
	if in.MoveRight {
		wish = wish.Add(vmath.Right(c.state.Yaw))
	}
	if in.MoveLeft {
		wish = wish.Sub(vmath.Right(c.state.Yaw))
	}
	wish = vmath.SafeNormalize(wish)

	// Include changes queued by earlier frames that ran no sub-step
	vh := vmath.Horizontal(c.phys.PendingVelocity(c.body))
	var target mgl64.Vec3

	if wish.Len() > 0 {
		target = vmath.ClampHorizontal(vh.Add(wish.Mul(c.cfg.Acceleration*dt)), c.maxSpeed())
	} else if c.state.Grounded {
		speed := vh.Len()
		if speed == 0 {
			return
		}
		drop := math.Min(speed, c.cfg.Friction*dt)
		target = vh.Mul((speed - drop) / speed)
	} else {
		return
	}

	c.phys.ApplyImpulse(c.body, target.Sub(vh).Mul(parameter.PlayerMass))
}

// jump applies the vertical impulse on a grounded rising edge
func (c *Controller) jump(in input.Intents) {
	if !in.Jump {
		c.state.JumpLatch = false
		return
	}
	if !c.state.JumpLatch && c.state.Grounded {
		c.phys.ApplyImpulse(c.body, mgl64.Vec3{0, c.cfg.JumpVelocity * parameter.PlayerMass, 0})
		c.state.Grounded = false
	}
	c.state.JumpLatch = true
}

func (c *Controller) footsteps(moving bool, dt, now float64) {
	speed := vmath.Horizontal(c.state.Velocity).Len()
	if !moving || !c.state.Grounded || speed < parameter.StrideMinSpeed {
		c.state.StrideTimer = 0
		return
	}

	interval := parameter.StrideInterval * c.cfg.WalkSpeed / c.maxSpeed()
	volume := parameter.FootstepVolumeWalk
	switch {
	case c.state.Crouching:
		volume = parameter.FootstepVolumeCrouch
	case c.state.Sprinting:
		volume = parameter.FootstepVolumeSprint
	}

	c.state.StrideTimer += dt
	if c.state.StrideTimer >= interval {
		c.state.StrideTimer -= interval
		c.bus.Emit(c.state.Position, volume, sound.TypeFootstep, now)
	}
}

// interact collects the pickup in front of the eye on a rising edge
func (c *Controller) interact(in input.Intents, env Environment) {
	pressed := in.Interact && !c.state.InteractLatch
	c.state.InteractLatch = in.Interact
	if !pressed || env.Items == nil {
		return
	}

	hit, ok := c.ray.Raycast(c.Eye(), c.LookDirection(), parameter.InteractReach, physics.CategoryPickup|physics.CategoryWorld)
	if !ok || hit.Category != physics.CategoryPickup {
		return
	}
	if item, ok := env.Items.Take(hit.Handle); ok {
		c.Collect(item)
	}
}

// ApplyDamage subtracts health; returns false when ignored (dead, non-positive or NaN)
func (c *Controller) ApplyDamage(amount float64) bool {
	if c.state.IsDead || !(amount > 0) || !vmath.IsFinite(amount) {
		return false
	}
	c.state.Health = math.Max(0, c.state.Health-amount)
	if c.state.Health == 0 {
		c.state.IsDead = true
		c.logger.Printf("[player] killed")
	}
	c.notifier.PlayerDamaged(amount)
	return true
}

// Collect applies an item effect and notifies the story collaborator
func (c *Controller) Collect(item facility.Pickup) {
	if c.state.IsDead {
		return
	}
	amount := vmath.Sanitize(item.Amount, 0)
	if amount < 0 {
		amount = 0
	}
	switch item.Kind {
	case facility.ItemAmmo:
		c.state.Weapon.AmmoReserve += int(amount)
	case facility.ItemBattery:
		c.state.Battery = math.Min(c.cfg.MaxBattery, c.state.Battery+amount)
	case facility.ItemHealth:
		c.state.Health = math.Min(c.cfg.MaxHealth, c.state.Health+amount)
	}
	c.bus.Emit(item.Position, parameter.PickupVolume, sound.TypePickup, c.now)
	c.notifier.ItemCollected(item.ID)
}
