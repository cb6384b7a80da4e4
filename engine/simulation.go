// Package engine composes physics, player, enemies and sound into the per-frame simulation tick
package engine

import (
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"github.com/lixenwraith/dead-signal/config"
	"github.com/lixenwraith/dead-signal/enemy"
	"github.com/lixenwraith/dead-signal/engine/fsm"
	"github.com/lixenwraith/dead-signal/event"
	"github.com/lixenwraith/dead-signal/facility"
	"github.com/lixenwraith/dead-signal/input"
	"github.com/lixenwraith/dead-signal/navigation"
	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/physics"
	"github.com/lixenwraith/dead-signal/player"
	"github.com/lixenwraith/dead-signal/sound"
	"github.com/lixenwraith/dead-signal/status"
	"github.com/lixenwraith/dead-signal/vmath"
)

// Option customizes a Simulation at construction
type Option func(*options)

type options struct {
	logger    *log.Logger
	metrics   *status.Registry
	raycaster player.Raycaster
	listeners []sound.Listener
}

// WithLogger routes component logs to l
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics publishes runtime metrics into r
func WithMetrics(r *status.Registry) Option {
	return func(o *options) { o.metrics = r }
}

// WithRaycaster replaces the registry as the player's scene query
func WithRaycaster(r player.Raycaster) Option {
	return func(o *options) { o.raycaster = r }
}

// WithSoundListener subscribes l to the sound bus after the enemy controller
func WithSoundListener(l sound.Listener) Option {
	return func(o *options) { o.listeners = append(o.listeners, l) }
}

// phase is one isolated step of the tick
type phase struct {
	name string
	run  func()
}

// Simulation owns every gameplay component and the single simulation timeline
// Not safe for concurrent use; Runner serializes access
type Simulation struct {
	cfg    config.Config
	logger *log.Logger

	router  *event.Router
	phys    *physics.Registry
	bus     *sound.Bus
	fac     *facility.Facility
	player  *player.Controller
	enemies *enemy.Controller

	machine *fsm.Machine[*Simulation]
	cursor  fsm.Cursor
	clock   Clock
	ending  Ending
	choice  Ending

	// Per-tick inputs read by the phases
	in     input.Intents
	dt     float64
	phases []phase
	env    player.Environment

	hud         player.HUD
	subSteps    int
	phasePanics int

	metrics       *status.Registry
	statTicks     *atomic.Int64
	statSubSteps  *atomic.Int64
	statPanics    *atomic.Int64
	statActive    *atomic.Int64
	statSpawnFail *atomic.Int64
	statKills     *atomic.Int64
	statSounds    *atomic.Int64
	statBodies    *atomic.Int64
	statMadness   *status.AtomicFloat
	statState     *status.AtomicString
	statRoom      *status.AtomicString
}

// NewSimulation validates cfg, builds every component and starts a session in the playing state
func NewSimulation(cfg config.Config, opts ...Option) (*Simulation, error) {
	adjusted, err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("new simulation: %w", err)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard, "", 0)
	}
	if o.metrics == nil {
		o.metrics = status.NewRegistry()
	}
	for _, a := range adjusted {
		o.logger.Printf("[config] adjusted %s", a)
	}

	s := &Simulation{
		cfg:     cfg,
		logger:  o.logger,
		metrics: o.metrics,
	}
	s.router = event.NewRouter(s.clock.Now, s.logger)
	s.phys = physics.NewRegistry(cfg.Physics, s.logger)
	s.bus = sound.NewBus(cfg.Sound.Memory)

	s.fac = facility.New(cfg.Layout, s.phys, s.router, s.logger)
	if err := s.fac.Build(); err != nil {
		return nil, fmt.Errorf("build facility: %w", err)
	}

	s.player = player.NewController(cfg.Player, s.phys, s.bus, s.router, s.logger)
	if o.raycaster != nil {
		s.player.SetRaycaster(o.raycaster)
	}

	s.enemies, err = enemy.NewController(cfg.EnemyConfig(), s.phys, s.bus, s.router, s.logger)
	if err != nil {
		return nil, fmt.Errorf("enemy controller: %w", err)
	}
	if cfg.Enemy.Navigate {
		s.enemies.SetNavigator(newNavigator(cfg.Layout))
	}
	for _, l := range o.listeners {
		s.bus.Subscribe(l)
	}

	s.machine, err = newSessionMachine()
	if err != nil {
		return nil, err
	}

	source, strength := s.fac.SignalSource()
	s.env = player.Environment{
		SignalSource:   source,
		SignalStrength: strength,
		Targets:        s.enemies,
		Items:          s.fac,
	}

	// Strict order: forces before integration, integration before perception, perception before decay
	s.phases = []phase{
		{"player", s.updatePlayer},
		{"physics", s.stepPhysics},
		{"facility", s.updateFacility},
		{"enemy", s.updateEnemies},
		{"sound", s.decaySounds},
		{"terminal", s.checkTerminal},
	}

	s.phys.SetContactHandler(s.onContact)
	s.bindMetrics()

	if err := s.start(); err != nil {
		return nil, err
	}
	return s, nil
}

// newNavigator rasterizes the layout walls for enemy routing
func newNavigator(layout facility.Layout) *navigation.Navigator {
	walls := make([]vmath.AABB, len(layout.Walls))
	for i, w := range layout.Walls {
		walls[i] = w.AABB()
	}
	grid := navigation.NewGrid(walls, parameter.NavCellSize, parameter.NavClearance)
	return navigation.NewNavigator(grid, parameter.NavFieldCache)
}

func (s *Simulation) bindMetrics() {
	s.statTicks = s.metrics.Ints.Get(status.KeyTicks)
	s.statSubSteps = s.metrics.Ints.Get(status.KeySubSteps)
	s.statPanics = s.metrics.Ints.Get(status.KeyPhasePanics)
	s.statActive = s.metrics.Ints.Get(status.KeyEnemyActive)
	s.statSpawnFail = s.metrics.Ints.Get(status.KeySpawnFailures)
	s.statKills = s.metrics.Ints.Get(status.KeyEnemyKills)
	s.statSounds = s.metrics.Ints.Get(status.KeySoundEvents)
	s.statBodies = s.metrics.Ints.Get(status.KeyPhysicsBodies)
	s.statMadness = s.metrics.Floats.Get(status.KeyPlayerMadness)
	s.statState = s.metrics.Strings.Get(status.KeyGameState)
	s.statRoom = s.metrics.Strings.Get(status.KeyPlayerRoom)
}

// start spawns the player and enters the initial session state
func (s *Simulation) start() error {
	layout := s.fac.Layout()
	if err := s.player.Spawn(layout.PlayerStart, layout.PlayerYaw); err != nil {
		return fmt.Errorf("spawn player: %w", err)
	}
	if err := s.machine.Init(s, &s.cursor); err != nil {
		return fmt.Errorf("session state: %w", err)
	}
	s.hud = s.player.HUD()
	s.publish()
	return nil
}

// Tick runs one frame of simulation; a no-op unless playing
func (s *Simulation) Tick(in input.Intents, dt float64) Outcome {
	if s.State() != StatePlaying {
		return s.Outcome()
	}

	s.in = in
	s.dt = s.clampDelta(dt)
	s.clock.advance(s.dt)

	for _, p := range s.phases {
		s.runPhase(p)
	}

	s.hud = s.player.HUD()
	s.publish()
	return s.Outcome()
}

// clampDelta maps NaN, infinities and negatives to 0 and caps long frames
func (s *Simulation) clampDelta(dt float64) float64 {
	if !vmath.IsFinite(dt) || dt < 0 {
		return 0
	}
	if dt > s.cfg.Engine.MaxFrameDelta {
		return s.cfg.Engine.MaxFrameDelta
	}
	return dt
}

// runPhase isolates a panic to its phase so the remaining phases still run
func (s *Simulation) runPhase(p phase) {
	defer func() {
		if r := recover(); r != nil {
			s.phasePanics++
			s.statPanics.Add(1)
			s.logger.Printf("[engine] phase %s panic at t=%.3f: %v", p.name, s.clock.Now(), r)
		}
	}()
	p.run()
}

func (s *Simulation) updatePlayer() {
	s.player.Update(s.in, s.dt, s.clock.Now(), s.env)
}

func (s *Simulation) stepPhysics() {
	s.subSteps = s.phys.Step(s.dt)
}

func (s *Simulation) updateFacility() {
	s.fac.UpdateRoom(s.player.State().Position)
}

func (s *Simulation) updateEnemies() {
	ps := s.player.State()
	s.enemies.Update(enemy.Context{
		PlayerPos:   ps.Position,
		PlayerAlive: !ps.IsDead,
		Damage:      s.player.ApplyDamage,
	}, s.dt, s.clock.Now())
}

func (s *Simulation) decaySounds() {
	s.bus.Decay(s.clock.Now())
}

func (s *Simulation) checkTerminal() {
	s.machine.Update(s, &s.cursor, s.dt)
}

// onContact collects auto pickups the player walks into
func (s *Simulation) onContact(c physics.Contact) {
	if !c.Trigger {
		return
	}
	var other physics.Handle
	switch s.player.Body() {
	case c.A:
		other = c.B
	case c.B:
		other = c.A
	default:
		return
	}
	p, ok := s.fac.Pickup(other)
	if !ok || !p.Auto {
		return
	}
	if item, ok := s.fac.Take(other); ok {
		s.player.Collect(item)
	}
}

// finish fixes the ending on entry to a terminal state and notifies the story collaborator
func (s *Simulation) finish() {
	switch s.State() {
	case StateDead:
		s.ending = EndingDeath
	case StateInsane:
		s.ending = EndingInsanity
	case StateComplete:
		s.ending = s.choice
		if !s.ending.Choice() {
			s.ending = EndingEscape
		}
	}
	s.logger.Printf("[engine] session over at t=%.3f: %s (%s)", s.clock.Now(), s.State(), s.ending)
	s.router.GameOver(s.ending.String())
}

func (s *Simulation) publish() {
	s.statTicks.Store(int64(s.clock.Ticks()))
	s.statSubSteps.Store(int64(s.subSteps))
	s.statActive.Store(int64(s.enemies.Active()))
	s.statSpawnFail.Store(int64(s.enemies.SpawnFailures()))
	s.statKills.Store(int64(s.enemies.Kills()))
	s.statSounds.Store(int64(s.bus.Len()))
	s.statBodies.Store(int64(s.phys.Count()))
	s.statMadness.Set(s.player.State().Madness)
	s.statState.Store(s.State().String())
	s.statRoom.Store(s.fac.Room())
}

// Pause freezes the clock; returns false unless the session was playing
func (s *Simulation) Pause() bool {
	if s.State() != StatePlaying {
		return false
	}
	s.machine.Transition(s, &s.cursor, fsm.StateID(StatePaused))
	s.publish()
	return true
}

// Resume continues a paused session
func (s *Simulation) Resume() bool {
	if s.State() != StatePaused {
		return false
	}
	s.machine.Transition(s, &s.cursor, fsm.StateID(StatePlaying))
	s.publish()
	return true
}

// NewGame fully resets every component and starts a fresh session
func (s *Simulation) NewGame() error {
	s.enemies.Reset()
	s.player.Reset()
	s.removeProjectiles()
	s.bus.Reset()
	s.router.Reset()
	s.clock.reset()
	s.ending, s.choice = EndingNone, EndingNone
	s.subSteps, s.phasePanics = 0, 0
	s.in = input.Intents{}

	if err := s.fac.Reset(); err != nil {
		return fmt.Errorf("new game: %w", err)
	}
	if err := s.start(); err != nil {
		return fmt.Errorf("new game: %w", err)
	}
	s.logger.Printf("[engine] new game")
	return nil
}

// removeProjectiles drops in-flight tracers, which no component owns
func (s *Simulation) removeProjectiles() {
	var stale []physics.Handle
	s.phys.Each(func(h physics.Handle, b *physics.Body) {
		if b.Category == physics.CategoryProjectile {
			stale = append(stale, h)
		}
	})
	for _, h := range stale {
		s.phys.RemoveBody(h)
	}
}

// RecordEnding stores the story choice applied when the session completes
func (s *Simulation) RecordEnding(e Ending) error {
	if !e.Choice() {
		return fmt.Errorf("%w: %s", ErrInvalidEnding, e)
	}
	if s.State().Terminal() {
		return fmt.Errorf("record ending %s: session already over", e)
	}
	s.choice = e
	return nil
}

// State returns the session state
func (s *Simulation) State() GameState {
	return GameState(s.cursor.State)
}

// Outcome summarizes the session
func (s *Simulation) Outcome() Outcome {
	return Outcome{
		State:  s.State(),
		Ending: s.ending,
		Time:   s.clock.Now(),
	}
}

// HUD returns the snapshot refreshed by the last tick
func (s *Simulation) HUD() player.HUD {
	return s.hud
}

// Now returns simulated seconds
func (s *Simulation) Now() float64 {
	return s.clock.Now()
}

// PhasePanics returns recovered phase panics since the session started
func (s *Simulation) PhasePanics() int {
	return s.phasePanics
}

// Router exposes story notifications for subscription
func (s *Simulation) Router() *event.Router {
	return s.router
}

// Bus exposes the sound bus for listeners such as the audio cue sink
func (s *Simulation) Bus() *sound.Bus {
	return s.bus
}

// Metrics returns the registry the simulation publishes into
func (s *Simulation) Metrics() *status.Registry {
	return s.metrics
}

// Layout returns the static facility description
func (s *Simulation) Layout() facility.Layout {
	return s.fac.Layout()
}

// Player exposes the controller for input-independent settings such as sensitivity
func (s *Simulation) Player() *player.Controller {
	return s.player
}
