package enemy

import (
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/lixenwraith/dead-signal/engine/fsm"
	"github.com/lixenwraith/dead-signal/event"
	"github.com/lixenwraith/dead-signal/facility"
	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/physics"
	"github.com/lixenwraith/dead-signal/sound"
	"github.com/lixenwraith/dead-signal/vmath"
)

// Config tunes the enemy population
type Config struct {
	Stats     [typeCount]Stats
	MaxActive int

	SpawnMinDistance  float64
	SpawnMaxDistance  float64
	DespawnDistance   float64
	DeathDespawnDelay float64
	RespawnDelay      float64
	AlertRadius       float64

	SpawnPoints []facility.SpawnPoint
	// Table overrides the built-in transition table when set
	Table *fsm.RootConfig
	// Seed drives patrol targets, spawn facing and idle timeouts
	Seed uint64
}

// DefaultConfig returns the parameter defaults without spawn points
func DefaultConfig() Config {
	return Config{
		Stats:             DefaultStats(),
		MaxActive:         parameter.EnemyMaxActive,
		SpawnMinDistance:  parameter.SpawnMinDistance,
		SpawnMaxDistance:  parameter.SpawnMaxDistance,
		DespawnDistance:   parameter.DespawnDistance,
		DeathDespawnDelay: parameter.DeathDespawnDelay,
		RespawnDelay:      parameter.SpawnRespawnDelay,
		AlertRadius:       parameter.AlertRadius,
		Seed:              1,
	}
}

// Context is the per-tick view of the player the AI reads
type Context struct {
	PlayerPos   mgl64.Vec3
	PlayerAlive bool
	// Damage applies an attack to the player; nil disables attacks
	Damage func(amount float64) bool
}

// SpawnState tracks one spawn point
type SpawnState struct {
	Occupied bool    `msgpack:"occupied"`
	RearmAt  float64 `msgpack:"rearm_at"`
	// Failed suppresses repeated exhaustion logs until the next success
	Failed bool `msgpack:"failed"`
}

// agent is the FSM context: one instance plus this tick's perception
type agent struct {
	c     *Controller
	inst  *Instance
	stats Stats
	ctx   Context
	dt    float64
	now   float64

	dist  float64 // Horizontal distance to the player
	sees  bool
	heard bool
	sound sound.Event
}

// Navigator suggests a horizontal heading around static obstacles
// False leaves the agent walking straight at its target
type Navigator interface {
	Heading(from, to mgl64.Vec3) (mgl64.Vec3, bool)
}

// Controller owns the pool, the shared table and spawn bookkeeping
type Controller struct {
	cfg      Config
	phys     *physics.Registry
	bus      *sound.Bus
	notifier event.Notifier
	logger   *log.Logger

	machine *fsm.Machine[*agent]
	pool    *Pool
	types   []Type // Per spawn point
	spawns  []SpawnState

	pcg *rand.PCG
	rng *rand.Rand
	nav Navigator

	scratch agent
	ctx     Context
	now     float64

	spawnFailures int
	kills         int
}

// NewController validates the config, loads the table and subscribes to the bus
func NewController(cfg Config, phys *physics.Registry, bus *sound.Bus, notifier event.Notifier, logger *log.Logger) (*Controller, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if notifier == nil {
		notifier = event.Discard{}
	}
	cfg = cfg.sanitize()

	table := DefaultTableConfig()
	if cfg.Table != nil {
		table = *cfg.Table
	}
	m, err := newMachine(table)
	if err != nil {
		return nil, err
	}

	types := make([]Type, len(cfg.SpawnPoints))
	for i, sp := range cfg.SpawnPoints {
		t, err := ParseType(sp.Type)
		if err != nil {
			return nil, fmt.Errorf("spawn point %d: %w", i, err)
		}
		types[i] = t
	}

	pcg := rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)
	c := &Controller{
		cfg:      cfg,
		phys:     phys,
		bus:      bus,
		notifier: notifier,
		logger:   logger,
		machine:  m,
		pool:     NewPool(cfg.MaxActive),
		types:    types,
		spawns:   make([]SpawnState, len(cfg.SpawnPoints)),
		pcg:      pcg,
		rng:      rand.New(pcg),
	}
	if bus != nil {
		bus.Subscribe(c)
	}
	return c, nil
}

// SetNavigator routes movement through n; nil restores straight-line steering
func (c *Controller) SetNavigator(n Navigator) {
	c.nav = n
}

func (cfg Config) sanitize() Config {
	d := DefaultConfig()
	for i := range cfg.Stats {
		cfg.Stats[i] = cfg.Stats[i].sanitize(d.Stats[i])
	}
	if cfg.MaxActive <= 0 {
		cfg.MaxActive = d.MaxActive
	}
	pos := func(v, def float64) float64 {
		if !(v > 0) || !vmath.IsFinite(v) {
			return def
		}
		return v
	}
	cfg.SpawnMinDistance = pos(cfg.SpawnMinDistance, d.SpawnMinDistance)
	cfg.SpawnMaxDistance = pos(cfg.SpawnMaxDistance, d.SpawnMaxDistance)
	if cfg.SpawnMaxDistance < cfg.SpawnMinDistance {
		cfg.SpawnMinDistance, cfg.SpawnMaxDistance = d.SpawnMinDistance, d.SpawnMaxDistance
	}
	cfg.DespawnDistance = pos(cfg.DespawnDistance, d.DespawnDistance)
	// Spawned enemies start inside the despawn distance
	if cfg.DespawnDistance < cfg.SpawnMaxDistance {
		cfg.DespawnDistance = max(d.DespawnDistance, cfg.SpawnMaxDistance)
	}
	cfg.DeathDespawnDelay = pos(cfg.DeathDespawnDelay, d.DeathDespawnDelay)
	cfg.RespawnDelay = pos(cfg.RespawnDelay, d.RespawnDelay)
	cfg.AlertRadius = pos(cfg.AlertRadius, d.AlertRadius)
	return cfg
}

// StateName resolves a state id through the loaded table
func (c *Controller) StateName(id fsm.StateID) string {
	return c.machine.StateName(id)
}

// Active returns the number of live instances
func (c *Controller) Active() int {
	return c.pool.Active()
}

// SpawnFailures counts spawns dropped for lack of a slot or body
func (c *Controller) SpawnFailures() int {
	return c.spawnFailures
}

// Kills counts enemies killed since the last reset
func (c *Controller) Kills() int {
	return c.kills
}

// Views returns render snapshots of active instances in slot order
func (c *Controller) Views() []View {
	out := make([]View, 0, c.pool.Active())
	c.pool.Each(func(in *Instance) {
		out = append(out, View{
			ID:       in.ID,
			Type:     in.Type,
			State:    c.machine.StateName(in.State.State),
			Health:   in.Health,
			Position: in.Position,
			Yaw:      in.Yaw,
		})
	})
	return out
}

// Update runs every active instance, then despawn and spawn evaluation
func (c *Controller) Update(ctx Context, dt, now float64) {
	if !vmath.IsFinite(dt) || dt < 0 {
		dt = 0
	}
	c.ctx = ctx
	c.now = now

	for i := 0; i < c.pool.Cap(); i++ {
		inst, ok := c.pool.Get(i)
		if !ok {
			continue
		}
		c.updateInstance(inst, ctx, dt, now)
	}
	c.evaluateSpawns(ctx, now)
}

func (c *Controller) updateInstance(inst *Instance, ctx Context, dt, now float64) {
	if inst.Dying() {
		c.hold(&agent{c: c, inst: inst})
		if now-inst.DiedAt >= c.cfg.DeathDespawnDelay {
			c.despawn(inst, now)
		}
		return
	}
	if vmath.HorizontalDist(inst.Position, ctx.PlayerPos) > c.cfg.DespawnDistance {
		c.despawn(inst, now)
		return
	}

	a := &c.scratch
	*a = agent{c: c, inst: inst, stats: c.cfg.Stats[inst.Type], ctx: ctx, dt: dt, now: now}
	c.perceive(a)

	if a.sees {
		inst.DetectionLevel += parameter.DetectionGainSight * dt
	} else {
		inst.DetectionLevel -= parameter.DetectionDecay * dt
	}
	inst.DetectionLevel = vmath.Clamp01(inst.DetectionLevel)

	c.machine.Update(a, &inst.State, dt)
}

// perceive fills sight and hearing for this tick
func (c *Controller) perceive(a *agent) {
	inst := a.inst
	to := vmath.Horizontal(a.ctx.PlayerPos.Sub(inst.Position))
	a.dist = to.Len()

	if a.ctx.PlayerAlive && a.dist <= a.stats.DetectionRange {
		dir := vmath.SafeNormalize(to)
		a.sees = a.dist == 0 || vmath.Forward(inst.Yaw).Dot(dir) > parameter.SightDotThreshold
	}

	if c.bus == nil {
		return
	}
	if ev, ok := c.bus.Loudest(inst.Position, a.stats.DetectionRange, a.now, inst.HeardSeq); ok {
		a.heard = true
		a.sound = ev
	}
}

// Alert implements sound.Listener
// Instances within volume × AlertRadius raise detection; idle ones start investigating immediately
func (c *Controller) Alert(ev sound.Event) {
	radius := ev.Volume * c.cfg.AlertRadius
	c.pool.Each(func(inst *Instance) {
		if inst.Dying() || inst.Position.Sub(ev.Position).Len() > radius {
			return
		}
		inst.DetectionLevel = vmath.Clamp01(inst.DetectionLevel + ev.Volume*parameter.DetectionGainSoundScale)

		if inst.State.State == StatePatrol {
			inst.Alert, inst.HasAlert = ev, true
			return
		}
		if inst.State.State != StateIdle || ev.Seq <= inst.HeardSeq {
			return
		}
		a := &agent{
			c:     c,
			inst:  inst,
			stats: c.cfg.Stats[inst.Type],
			ctx:   c.ctx,
			now:   ev.Time,
			heard: true,
			sound: ev,
		}
		c.machine.Transition(a, &inst.State, StateInvestigate)
	})
}

// Hit applies weapon damage at simulation time now to the instance owning body h
func (c *Controller) Hit(h physics.Handle, damage, now float64) bool {
	if !(damage > 0) || !vmath.IsFinite(damage) {
		return false
	}
	b, ok := c.phys.Body(h)
	if !ok || b.Category != physics.CategoryEnemy {
		return false
	}
	inst, ok := c.pool.Get(b.UserData)
	if !ok || inst.Body != h || inst.Dying() {
		return false
	}

	inst.Health = math.Max(0, inst.Health-damage)
	inst.DetectionLevel = 1
	if inst.Health > 0 {
		return true
	}

	c.kills++
	c.notifier.EnemyKilled(inst.ID.String())
	c.logger.Printf("[enemy] %s %s killed", inst.Type, inst.ID)
	c.machine.Transition(&agent{c: c, inst: inst, now: now}, &inst.State, StateDying)
	return true
}

// spawn places a new instance at spawn point i
func (c *Controller) spawn(i int, ctx Context, now float64) error {
	slot, ok := c.pool.Acquire()
	if !ok {
		return ErrPoolExhausted
	}
	inst, _ := c.pool.Get(slot)
	sp := c.cfg.SpawnPoints[i]
	t := c.types[i]
	stats := c.cfg.Stats[t]

	*inst = Instance{
		ID:             uuid.New(),
		Type:           t,
		Health:         stats.MaxHealth,
		Position:       sp.Position,
		Yaw:            vmath.WrapAngle(c.rng.Float64() * 2 * math.Pi),
		PatrolCenter:   sp.Position,
		LastAttackTime: now - stats.AttackCooldown,
		SpawnPoint:     i,
		Slot:           slot,
	}
	if err := c.addBody(inst); err != nil {
		c.pool.Release(slot)
		return err
	}
	if err := c.machine.Init(&agent{c: c, inst: inst, stats: stats, ctx: ctx, now: now}, &inst.State); err != nil {
		c.removeInstance(inst)
		return err
	}
	return nil
}

func (c *Controller) addBody(inst *Instance) error {
	h, err := c.phys.AddBody(physics.BodySpec{
		Owner:        inst,
		Shape:        physics.Box(parameter.EnemyHalfWidth, parameter.EnemyHalfHeight, parameter.EnemyHalfWidth),
		Category:     physics.CategoryEnemy,
		Mass:         parameter.EnemyMass,
		Position:     inst.Position,
		Velocity:     inst.Velocity,
		GravityScale: 1,
		UserData:     inst.Slot,
	})
	if err != nil {
		return err
	}
	inst.Body = h
	return nil
}

func (c *Controller) removeInstance(inst *Instance) {
	c.phys.RemoveBody(inst.Body)
	c.pool.Release(inst.Slot)
}

// despawn returns the instance to the pool and schedules its spawn point to re-arm
func (c *Controller) despawn(inst *Instance, now float64) {
	if sp := inst.SpawnPoint; sp >= 0 && sp < len(c.spawns) {
		c.spawns[sp].Occupied = false
		c.spawns[sp].RearmAt = now + c.cfg.RespawnDelay
	}
	c.removeInstance(inst)
}

// evaluateSpawns fires armed spawn points inside the player distance band
func (c *Controller) evaluateSpawns(ctx Context, now float64) {
	if !ctx.PlayerAlive {
		return
	}
	for i := range c.spawns {
		s := &c.spawns[i]
		if s.Occupied || now < s.RearmAt {
			continue
		}
		d := vmath.HorizontalDist(c.cfg.SpawnPoints[i].Position, ctx.PlayerPos)
		if d < c.cfg.SpawnMinDistance || d > c.cfg.SpawnMaxDistance {
			continue
		}
		if err := c.spawn(i, ctx, now); err != nil {
			c.spawnFailures++
			if !s.Failed {
				c.logger.Printf("[enemy] spawn point %d: %v", i, err)
			}
			s.Failed = true
			continue
		}
		s.Occupied = true
		s.Failed = false
	}
}

// Reset despawns everything and re-arms all spawn points
func (c *Controller) Reset() {
	c.pool.Each(func(inst *Instance) {
		c.phys.RemoveBody(inst.Body)
	})
	c.pool.Reset()
	for i := range c.spawns {
		c.spawns[i] = SpawnState{}
	}
	c.pcg.Seed(c.cfg.Seed, c.cfg.Seed^0x9e3779b97f4a7c15)
	c.ctx = Context{}
	c.now = 0
	c.spawnFailures = 0
	c.kills = 0
}

// Snapshot is the serializable controller state
type Snapshot struct {
	Enemies []Instance   `msgpack:"enemies"`
	Spawns  []SpawnState `msgpack:"spawns"`
	RNG     []byte       `msgpack:"rng"`
	Kills   int          `msgpack:"kills"`
}

// Snapshot copies instances in slot order with spawn and random state
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Enemies: make([]Instance, 0, c.pool.Active()),
		Spawns:  append([]SpawnState(nil), c.spawns...),
		Kills:   c.kills,
	}
	c.pool.Each(func(inst *Instance) {
		rec := *inst
		rec.Body = physics.Handle{}
		rec.Slot = 0
		s.Enemies = append(s.Enemies, rec)
	})
	// PCG marshaling never fails
	s.RNG, _ = c.pcg.MarshalBinary()
	return s
}

// Check reports whether s fits the pool and carries a readable random state
// It does not touch the current population
func (c *Controller) Check(s Snapshot) error {
	n := 0
	for _, rec := range s.Enemies {
		if c.restorable(rec) {
			n++
		}
	}
	if n > c.cfg.MaxActive {
		return fmt.Errorf("restore %d enemies into %d slots: %w", n, c.cfg.MaxActive, ErrPoolExhausted)
	}
	if len(s.RNG) > 0 {
		var pcg rand.PCG
		if err := pcg.UnmarshalBinary(s.RNG); err != nil {
			return fmt.Errorf("enemy rng: %w", err)
		}
	}
	return nil
}

func (c *Controller) restorable(rec Instance) bool {
	return rec.Type < typeCount && c.machine.StateName(rec.State.State) != ""
}

// Restore replaces the population with s, recreating bodies
// Records with an unknown state or type are dropped with a log line
// A snapshot failing Check leaves the population untouched
func (c *Controller) Restore(s Snapshot) error {
	if err := c.Check(s); err != nil {
		return err
	}
	c.pool.Each(func(inst *Instance) {
		c.phys.RemoveBody(inst.Body)
	})
	c.pool.Reset()

	c.spawns = make([]SpawnState, len(c.cfg.SpawnPoints))
	copy(c.spawns, s.Spawns)
	c.kills = s.Kills
	if len(s.RNG) > 0 {
		if err := c.pcg.UnmarshalBinary(s.RNG); err != nil {
			return fmt.Errorf("enemy rng: %w", err)
		}
	}

	for _, rec := range s.Enemies {
		if !c.restorable(rec) {
			c.logger.Printf("[enemy] restore dropped %s: type %d state %d", rec.ID, rec.Type, rec.State.State)
			continue
		}
		slot, ok := c.pool.Acquire()
		if !ok {
			return fmt.Errorf("restore %d enemies: %w", len(s.Enemies), ErrPoolExhausted)
		}
		inst, _ := c.pool.Get(slot)
		*inst = rec
		inst.Slot = slot
		inst.Health = vmath.Clamp(inst.Health, 0, c.cfg.Stats[inst.Type].MaxHealth)
		inst.DetectionLevel = vmath.Clamp01(inst.DetectionLevel)
		if err := c.addBody(inst); err != nil {
			c.pool.Release(slot)
			return fmt.Errorf("restore %s: %w", rec.ID, err)
		}
	}
	return nil
}
