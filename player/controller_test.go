package player

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dead-signal/facility"
	"github.com/lixenwraith/dead-signal/input"
	"github.com/lixenwraith/dead-signal/physics"
	"github.com/lixenwraith/dead-signal/sound"
)

const tick = 1.0 / 60

type recorder struct {
	damaged    []float64
	thresholds []float64
	items      []string
}

func (r *recorder) EnemyKilled(string)                    {}
func (r *recorder) RoomEntered(string)                    {}
func (r *recorder) ItemCollected(id string)               { r.items = append(r.items, id) }
func (r *recorder) PlayerDamaged(amount float64)          { r.damaged = append(r.damaged, amount) }
func (r *recorder) MadnessThresholdCrossed(level float64) { r.thresholds = append(r.thresholds, level) }

type harness struct {
	c    *Controller
	phys *physics.Registry
	bus  *sound.Bus
	rec  *recorder
	now  float64
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	phys := physics.NewRegistry(physics.DefaultConfig(), nil)
	bus := sound.NewBus(0)
	rec := &recorder{}
	c := NewController(DefaultConfig(), phys, bus, rec, nil)
	if err := c.Spawn(mgl64.Vec3{0, 0.9, 0}, 0); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	phys.Step(tick)
	return &harness{c: c, phys: phys, bus: bus, rec: rec}
}

// run advances player then physics for n ticks with the same intents
func (h *harness) run(in input.Intents, n int, env Environment) {
	for i := 0; i < n; i++ {
		h.now += tick
		h.c.Update(in, tick, h.now, env)
		h.phys.Step(tick)
	}
}

func (h *harness) countSounds(typ sound.Type) int {
	n := 0
	for _, ev := range h.bus.Events() {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func TestInvariantsHoldUnderRandomInput(t *testing.T) {
	h := newHarness(t)
	rng := rand.New(rand.NewSource(7))
	env := Environment{SignalSource: mgl64.Vec3{3, 1, -3}, SignalStrength: 1}
	cfg := h.c.Config()

	for i := 0; i < 3000; i++ {
		in := input.Intents{
			MoveForward:      rng.Intn(2) == 0,
			MoveBackward:     rng.Intn(4) == 0,
			MoveLeft:         rng.Intn(3) == 0,
			MoveRight:        rng.Intn(3) == 0,
			Jump:             rng.Intn(5) == 0,
			Crouch:           rng.Intn(4) == 0,
			Sprint:           rng.Intn(2) == 0,
			Fire:             rng.Intn(3) == 0,
			Reload:           rng.Intn(10) == 0,
			FlashlightToggle: rng.Intn(20) == 0,
			LookDeltaX:       rng.NormFloat64() * 50,
			LookDeltaY:       rng.NormFloat64() * 50,
		}
		if i%97 == 0 {
			in.LookDeltaX = math.NaN()
		}
		dt := tick
		if i%53 == 0 {
			dt = rng.Float64() * 0.2
		}
		h.now += dt
		h.c.Update(in, dt, h.now, env)
		h.phys.Step(dt)
		if rng.Intn(200) == 0 {
			h.c.ApplyDamage(rng.Float64() * 15)
		}

		s := h.c.State()
		w := s.Weapon
		switch {
		case w.ClipCurrent < 0 || w.ClipCurrent > w.ClipMax:
			t.Fatalf("tick %d: clip %d/%d", i, w.ClipCurrent, w.ClipMax)
		case w.AmmoReserve < 0:
			t.Fatalf("tick %d: reserve %d", i, w.AmmoReserve)
		case s.Health < 0 || s.Health > cfg.MaxHealth:
			t.Fatalf("tick %d: health %v", i, s.Health)
		case s.Madness < 0 || s.Madness > 1:
			t.Fatalf("tick %d: madness %v", i, s.Madness)
		case s.Battery < 0 || s.Battery > cfg.MaxBattery:
			t.Fatalf("tick %d: battery %v", i, s.Battery)
		case math.Abs(s.Pitch) > 82*math.Pi/180+1e-9:
			t.Fatalf("tick %d: pitch %v", i, s.Pitch)
		case s.Health == 0 && !s.IsDead:
			t.Fatalf("tick %d: zero health but alive", i)
		}
	}
}

func TestEmptyClickIsCostFree(t *testing.T) {
	h := newHarness(t)
	s := h.c.State()
	s.Weapon.ClipCurrent = 0
	s.Weapon.AmmoReserve = 10
	s.Weapon.LastFiredTime = -5
	if err := h.c.Restore(s); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	h.run(input.Intents{Fire: true}, 30, Environment{})

	w := h.c.State().Weapon
	if w.AmmoReserve != 10 || w.ClipCurrent != 0 {
		t.Errorf("empty fire cost ammo: clip %d reserve %d", w.ClipCurrent, w.AmmoReserve)
	}
	if w.LastFiredTime != -5 {
		t.Errorf("empty fire reset cooldown: %v", w.LastFiredTime)
	}
	if n := h.countSounds(sound.TypeEmptyClick); n != 1 {
		t.Errorf("empty clicks = %d, want 1 for one held press", n)
	}
	if n := h.countSounds(sound.TypeGunshot); n != 0 {
		t.Errorf("gunshots = %d", n)
	}
}

func TestFireRespectsCooldown(t *testing.T) {
	h := newHarness(t)
	// One second of held fire at 0.25s cooldown
	h.run(input.Intents{Fire: true}, 60, Environment{})

	w := h.c.State().Weapon
	if fired := w.ClipMax - w.ClipCurrent; fired != 4 {
		t.Errorf("fired %d rounds in 1s, want 4", fired)
	}
	if n := h.countSounds(sound.TypeGunshot); n != 4 {
		t.Errorf("gunshots = %d", n)
	}
	if h.c.State().Pitch <= 0 {
		t.Error("no recoil applied")
	}
}

func TestReloadMovesMinimumOnce(t *testing.T) {
	tests := []struct {
		name             string
		clip, reserve    int
		wantClip, wantRe int
	}{
		{"reserve limited", 2, 3, 5, 0},
		{"clip limited", 5, 20, 8, 17},
		{"exact", 0, 8, 8, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			s := h.c.State()
			s.Weapon.ClipCurrent = tt.clip
			s.Weapon.AmmoReserve = tt.reserve
			h.c.Restore(s)

			h.c.Update(input.Intents{Reload: true}, tick, 10, Environment{})
			if !h.c.State().Weapon.IsReloading {
				t.Fatal("reload did not start")
			}
			// Pressing again mid-reload does not restart the timer
			h.c.Update(input.Intents{Reload: true}, tick, 11, Environment{})
			if got := h.c.State().Weapon.ReloadStartTime; got != 10 {
				t.Errorf("reload restarted at %v", got)
			}
			if w := h.c.State().Weapon; w.ClipCurrent != tt.clip {
				t.Errorf("rounds moved early: %d", w.ClipCurrent)
			}

			h.c.Update(input.Intents{}, tick, 11.5, Environment{})
			w := h.c.State().Weapon
			if w.IsReloading || w.ClipCurrent != tt.wantClip || w.AmmoReserve != tt.wantRe {
				t.Errorf("after reload: clip %d reserve %d reloading %v", w.ClipCurrent, w.AmmoReserve, w.IsReloading)
			}
		})
	}
}

func TestReloadNeedsReserveAndRoom(t *testing.T) {
	h := newHarness(t)
	h.c.Update(input.Intents{Reload: true}, tick, 1, Environment{})
	if h.c.State().Weapon.IsReloading {
		t.Error("reload started with a full clip")
	}

	s := h.c.State()
	s.Weapon.ClipCurrent = 3
	s.Weapon.AmmoReserve = 0
	h.c.Restore(s)
	h.c.Update(input.Intents{Reload: true}, tick, 2, Environment{})
	if h.c.State().Weapon.IsReloading {
		t.Error("reload started with an empty reserve")
	}
}

func TestDamageIsTerminal(t *testing.T) {
	h := newHarness(t)
	s := h.c.State()
	s.Health = 10
	h.c.Restore(s)

	if !h.c.ApplyDamage(25) {
		t.Fatal("damage ignored")
	}
	got := h.c.State()
	if got.Health != 0 || !got.IsDead {
		t.Fatalf("health %v dead %v", got.Health, got.IsDead)
	}
	if h.c.ApplyDamage(5) {
		t.Error("dead player took damage")
	}
	if len(h.rec.damaged) != 1 || h.rec.damaged[0] != 25 {
		t.Errorf("damage notifications = %v", h.rec.damaged)
	}

	// Dead players ignore input
	before := h.c.State()
	h.c.Update(input.Intents{Fire: true, LookDeltaX: 100}, tick, 5, Environment{})
	if after := h.c.State(); after.Yaw != before.Yaw || after.Weapon != before.Weapon {
		t.Error("dead player state changed")
	}
}

func TestDamageRejectsBadAmounts(t *testing.T) {
	h := newHarness(t)
	for _, amt := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		if h.c.ApplyDamage(amt) {
			t.Errorf("ApplyDamage(%v) accepted", amt)
		}
	}
	if h.c.State().Health != h.c.Config().MaxHealth {
		t.Error("health changed")
	}
}

func TestMadnessThresholdsReportedOnce(t *testing.T) {
	h := newHarness(t)
	env := Environment{SignalSource: mgl64.Vec3{0, 0.9, 0}, SignalStrength: 50}

	// Signal at the player position: rate ~1/s
	h.run(input.Intents{}, 150, env)
	if m := h.c.State().Madness; m != 1 {
		t.Fatalf("madness = %v, want saturated", m)
	}
	want := []float64{0.25, 0.5, 0.75, 1.0}
	if len(h.rec.thresholds) != len(want) {
		t.Fatalf("thresholds = %v", h.rec.thresholds)
	}
	for i := range want {
		if h.rec.thresholds[i] != want[i] {
			t.Errorf("threshold %d = %v, want %v", i, h.rec.thresholds[i], want[i])
		}
	}

	h.run(input.Intents{}, 60, env)
	if len(h.rec.thresholds) != len(want) {
		t.Errorf("thresholds re-reported: %v", h.rec.thresholds)
	}
}

func TestMadnessDecaysWithLightAway(t *testing.T) {
	h := newHarness(t)
	s := h.c.State()
	s.Madness = 0.3
	s.MadnessCrossed = 1
	h.c.Restore(s)

	// Light on, far from any signal
	h.c.Update(input.Intents{FlashlightToggle: true}, tick, tick, Environment{})
	before := h.c.State().Madness
	h.run(input.Intents{}, 120, Environment{})
	if after := h.c.State().Madness; after >= before {
		t.Errorf("madness %v did not decay from %v", after, before)
	}
}

func TestFlashlightDrainsAndStops(t *testing.T) {
	h := newHarness(t)
	s := h.c.State()
	s.Battery = 0.01
	h.c.Restore(s)

	h.c.Update(input.Intents{FlashlightToggle: true}, tick, tick, Environment{})
	h.c.Update(input.Intents{FlashlightToggle: true}, 1, 1, Environment{})
	got := h.c.State()
	if got.Battery != 0 || got.FlashlightOn {
		t.Errorf("battery %v light %v", got.Battery, got.FlashlightOn)
	}

	// Empty battery cannot switch on
	h.c.Update(input.Intents{}, tick, 2, Environment{})
	h.c.Update(input.Intents{FlashlightToggle: true}, tick, 3, Environment{})
	if h.c.State().FlashlightOn {
		t.Error("light switched on with empty battery")
	}
}

func TestCrouchOverridesSprint(t *testing.T) {
	h := newHarness(t)
	h.run(input.Intents{MoveForward: true, Sprint: true, Crouch: true}, 90, Environment{})

	s := h.c.State()
	if !s.Crouching || s.Sprinting || s.SprintTime != 0 {
		t.Errorf("crouch %v sprint %v sprintTime %v", s.Crouching, s.Sprinting, s.SprintTime)
	}
	speed := math.Hypot(s.Velocity.X(), s.Velocity.Z())
	if speed > h.c.Config().CrouchSpeed+1e-6 {
		t.Errorf("crouch speed %v above cap", speed)
	}
	b, _ := h.phys.Body(h.c.Body())
	if b.Shape.Half.Y() != 0.55 {
		t.Errorf("crouch shape half height %v", b.Shape.Half.Y())
	}
}

func TestMovementCappedAndYawRelative(t *testing.T) {
	h := newHarness(t)
	h.run(input.Intents{MoveForward: true}, 120, Environment{})

	s := h.c.State()
	speed := math.Hypot(s.Velocity.X(), s.Velocity.Z())
	if speed > h.c.Config().WalkSpeed+1e-6 || speed < h.c.Config().WalkSpeed*0.9 {
		t.Errorf("walk speed %v", speed)
	}
	if s.Position.Z() >= -1 || math.Abs(s.Position.X()) > 1e-6 {
		t.Errorf("yaw 0 forward should move along -Z, at %v", s.Position)
	}

	// Friction stops the player without intent
	h.run(input.Intents{}, 60, Environment{})
	if v := h.c.State().Velocity; math.Hypot(v.X(), v.Z()) > 1e-6 {
		t.Errorf("still sliding at %v", v)
	}
}

func TestMovementIndependentOfFrameRate(t *testing.T) {
	for _, hz := range []float64{30, 60, 144, 240} {
		h := newHarness(t)
		dt := 1 / hz
		walk := h.c.Config().WalkSpeed

		peak := 0.0
		for i := 0; i < int(3*hz); i++ {
			h.now += dt
			h.c.Update(input.Intents{MoveForward: true}, dt, h.now, Environment{})
			h.phys.Step(dt)
			v := h.c.State().Velocity
			peak = math.Max(peak, math.Hypot(v.X(), v.Z()))
		}
		if peak > walk+1e-6 || peak < walk*0.9 {
			t.Errorf("%v Hz: peak speed %v, cap %v", hz, peak, walk)
		}

		flips := 0
		prev := h.c.State().Velocity.Z()
		for i := 0; i < int(2*hz); i++ {
			h.now += dt
			h.c.Update(input.Intents{}, dt, h.now, Environment{})
			h.phys.Step(dt)
			vz := h.c.State().Velocity.Z()
			if vz*prev < 0 {
				flips++
			}
			if vz != 0 {
				prev = vz
			}
		}
		v := h.c.State().Velocity
		if flips != 0 || math.Hypot(v.X(), v.Z()) > 1e-6 {
			t.Errorf("%v Hz: %d direction flips, still moving at %v", hz, flips, v)
		}
	}
}

func TestJumpNeedsRisingEdge(t *testing.T) {
	h := newHarness(t)
	jv := h.c.Config().JumpVelocity

	h.run(input.Intents{Jump: true}, 1, Environment{})
	if vy := h.c.State().Velocity.Y(); vy < jv*0.9 {
		t.Fatalf("jump vy = %v", vy)
	}

	// Holding through landing does not jump again
	h.run(input.Intents{Jump: true}, 120, Environment{})
	if !h.c.State().Grounded || h.c.State().Velocity.Y() > 0 {
		t.Fatalf("held jump re-triggered: %+v", h.c.State().Velocity)
	}

	h.run(input.Intents{}, 1, Environment{})
	h.run(input.Intents{Jump: true}, 1, Environment{})
	if vy := h.c.State().Velocity.Y(); vy < jv*0.9 {
		t.Errorf("re-press did not jump, vy = %v", vy)
	}
}

func TestLookClampsPitch(t *testing.T) {
	h := newHarness(t)
	h.c.Update(input.Intents{LookDeltaY: -1e6}, tick, tick, Environment{})
	if p := h.c.State().Pitch; math.Abs(p-82*math.Pi/180) > 1e-9 {
		t.Errorf("pitch = %v", p)
	}
	h.c.Update(input.Intents{LookDeltaY: 1e6}, tick, 2*tick, Environment{})
	if p := h.c.State().Pitch; math.Abs(p+82*math.Pi/180) > 1e-9 {
		t.Errorf("pitch = %v", p)
	}
}

func TestCollectCapsAndNotifies(t *testing.T) {
	h := newHarness(t)
	s := h.c.State()
	s.Health = 90
	s.Battery = 20
	h.c.Restore(s)

	h.c.Collect(facility.Pickup{ID: "med", Kind: facility.ItemHealth, Amount: 40})
	h.c.Collect(facility.Pickup{ID: "bat", Kind: facility.ItemBattery, Amount: 50})
	h.c.Collect(facility.Pickup{ID: "ammo", Kind: facility.ItemAmmo, Amount: 16})

	got := h.c.State()
	if got.Health != 100 || got.Battery != 70 || got.Weapon.AmmoReserve != h.c.Config().AmmoReserve+16 {
		t.Errorf("health %v battery %v reserve %d", got.Health, got.Battery, got.Weapon.AmmoReserve)
	}
	if len(h.rec.items) != 3 || h.rec.items[0] != "med" {
		t.Errorf("items = %v", h.rec.items)
	}
}

type stubTargets struct {
	hits []physics.Handle
}

func (s *stubTargets) Hit(h physics.Handle, _, _ float64) bool {
	s.hits = append(s.hits, h)
	return true
}

func TestFireRaycastHitsEnemy(t *testing.T) {
	h := newHarness(t)
	enemy, err := h.phys.AddBody(physics.BodySpec{
		Shape:    physics.Box(0.4, 0.9, 0.4),
		Category: physics.CategoryEnemy,
		Position: mgl64.Vec3{0, 0.9, -10},
	})
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	targets := &stubTargets{}

	h.run(input.Intents{Fire: true}, 1, Environment{Targets: targets})
	if len(targets.hits) != 1 || targets.hits[0] != enemy {
		t.Errorf("hits = %v", targets.hits)
	}
	if h.countSounds(sound.TypeImpact) != 1 {
		t.Error("no impact sound at hit point")
	}
}

func TestInteractTakesPickupInReach(t *testing.T) {
	h := newHarness(t)
	layout := facility.Layout{
		Exit: facility.Box{Center: mgl64.Vec3{0, 1, 50}, Half: mgl64.Vec3{1, 1, 1}},
		Pickups: []facility.Pickup{
			{ID: "keycard", Kind: facility.ItemKey, Amount: 1, Position: mgl64.Vec3{0, 1.6, -1.5}},
		},
	}
	fac := facility.New(layout, h.phys, nil, nil)
	if err := fac.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	env := Environment{Items: fac}

	h.run(input.Intents{Interact: true}, 1, env)
	if !fac.HasItem("keycard") {
		t.Fatal("interact did not collect")
	}
	if len(h.rec.items) != 1 || h.rec.items[0] != "keycard" {
		t.Errorf("items = %v", h.rec.items)
	}
}
