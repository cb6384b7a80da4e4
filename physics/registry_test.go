package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type recordingOwner struct {
	syncs int
	pos   mgl64.Vec3
	vel   mgl64.Vec3
}

func (o *recordingOwner) SyncTransform(pos, vel mgl64.Vec3) {
	o.syncs++
	o.pos = pos
	o.vel = vel
}

func newTestRegistry() *Registry {
	return NewRegistry(DefaultConfig(), nil)
}

func addPlayer(t *testing.T, r *Registry, pos mgl64.Vec3, owner Owner) Handle {
	t.Helper()
	h, err := r.AddBody(BodySpec{
		Owner:        owner,
		Shape:        Box(0.35, 0.9, 0.35),
		Category:     CategoryPlayer,
		Mass:         70,
		Position:     pos,
		GravityScale: 1,
	})
	if err != nil {
		t.Fatalf("AddBody player: %v", err)
	}
	return h
}

func TestDefaultMaskMatrix(t *testing.T) {
	tests := []struct {
		a, b Category
		want bool
	}{
		{CategoryPlayer, CategoryWorld, true},
		{CategoryPlayer, CategoryEnemy, true},
		{CategoryPlayer, CategoryPickup, true},
		{CategoryPlayer, CategoryProjectile, false},
		{CategoryEnemy, CategoryProjectile, true},
		{CategoryProjectile, CategoryProjectile, false},
		{CategoryProjectile, CategoryWorld, true},
		{CategoryPickup, CategoryEnemy, false},
	}
	for _, tt := range tests {
		a := &Body{Category: tt.a, Mask: DefaultMask(tt.a)}
		b := &Body{Category: tt.b, Mask: DefaultMask(tt.b)}
		if got := interacts(a, b); got != tt.want {
			t.Errorf("%s vs %s: interacts = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAddBodyLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBodies = 2
	r := NewRegistry(cfg, nil)

	addPlayer(t, r, mgl64.Vec3{0, 0.9, 0}, nil)
	_, err := r.AddBody(BodySpec{Shape: Box(1, 1, 1), Category: CategoryWorld, Position: mgl64.Vec3{5, 1, 5}})
	if !errors.Is(err, ErrBodyLimit) {
		t.Fatalf("expected ErrBodyLimit, got %v", err)
	}
	if r.Count() != 2 {
		t.Errorf("Count = %d, want 2", r.Count())
	}
}

func TestAddBodyRejectsInvalid(t *testing.T) {
	r := newTestRegistry()
	_, err := r.AddBody(BodySpec{Shape: Box(1, 1, 1), Category: CategoryWorld, Position: mgl64.Vec3{math.NaN(), 0, 0}})
	if !errors.Is(err, ErrInvalidBody) {
		t.Errorf("NaN position: got %v", err)
	}
	_, err = r.AddBody(BodySpec{Shape: Box(0, 1, 1), Category: CategoryWorld})
	if !errors.Is(err, ErrInvalidBody) {
		t.Errorf("empty shape: got %v", err)
	}
}

func TestStaleHandleAfterRemove(t *testing.T) {
	r := newTestRegistry()
	h := addPlayer(t, r, mgl64.Vec3{0, 0.9, 0}, nil)
	r.RemoveBody(h)
	if r.Alive(h) {
		t.Fatal("removed handle still alive")
	}

	// Slot is recycled with a new generation
	h2 := addPlayer(t, r, mgl64.Vec3{0, 0.9, 0}, nil)
	if h2.Index != h.Index {
		t.Fatalf("expected slot reuse, got %d vs %d", h2.Index, h.Index)
	}
	if r.Alive(h) {
		t.Error("stale handle resolves to recycled slot")
	}
	r.RemoveBody(h) // no-op
	if !r.Alive(h2) {
		t.Error("removing stale handle affected the new body")
	}

	// Ground plane cannot be removed
	r.RemoveBody(r.Ground())
	if !r.Alive(r.Ground()) {
		t.Error("ground plane removed")
	}
}

func TestRaycastNearest(t *testing.T) {
	r := newTestRegistry()
	wall, _ := r.AddBody(BodySpec{Shape: Box(2, 2, 0.5), Category: CategoryWorld, Position: mgl64.Vec3{0, 2, -10}})
	enemy, _ := r.AddBody(BodySpec{Shape: Box(0.4, 0.9, 0.4), Category: CategoryEnemy, Mass: 80, Position: mgl64.Vec3{0, 0.9, -5}})

	origin := mgl64.Vec3{0, 1, 0}
	forward := mgl64.Vec3{0, 0, -1}

	hit, ok := r.Raycast(origin, forward, 50, CategoryWorld)
	if !ok || hit.Handle != wall || math.Abs(hit.Distance-9.5) > 1e-9 {
		t.Fatalf("world ray: ok=%v hit=%+v", ok, hit)
	}

	hit, ok = r.Raycast(origin, forward, 50, CategoryWorld|CategoryEnemy)
	if !ok || hit.Handle != enemy || hit.Category != CategoryEnemy {
		t.Fatalf("enemy ray: ok=%v hit=%+v", ok, hit)
	}

	hit, ok = r.Raycast(origin, mgl64.Vec3{0, -2, 0}, 50, CategoryWorld)
	if !ok || !hit.Ground || math.Abs(hit.Distance-1) > 1e-9 {
		t.Fatalf("ground ray: ok=%v hit=%+v", ok, hit)
	}

	if _, ok := r.Raycast(origin, mgl64.Vec3{}, 50, CategoryAll); ok {
		t.Error("zero direction must not hit")
	}
	if _, ok := r.Raycast(origin, forward, 3, CategoryEnemy); ok {
		t.Error("ray shorter than target distance must not hit")
	}
}

func TestSetShapeKeepsBottom(t *testing.T) {
	r := newTestRegistry()
	h := addPlayer(t, r, mgl64.Vec3{0, 0.9, 0}, nil)
	r.SetShape(h, Box(0.35, 0.5, 0.35))
	b, _ := r.Body(h)
	if math.Abs(b.Position.Y()-0.5) > 1e-12 {
		t.Errorf("center y = %v, want 0.5", b.Position.Y())
	}
}
