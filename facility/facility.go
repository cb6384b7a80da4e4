package facility

import (
	"fmt"
	"io"
	"log"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dead-signal/event"
	"github.com/lixenwraith/dead-signal/physics"
	"github.com/lixenwraith/dead-signal/vmath"
)

// PickupHalfExtent is the half size of a pickup trigger box
const PickupHalfExtent = 0.3

// Facility is the live world built from a Layout
type Facility struct {
	layout   Layout
	phys     *physics.Registry
	notifier event.Notifier
	logger   *log.Logger

	walls     []physics.Handle
	pickups   map[physics.Handle]int // Body → index into layout.Pickups
	collected map[string]bool
	room      string
}

// New creates the facility without registering bodies; call Build
func New(layout Layout, phys *physics.Registry, notifier event.Notifier, logger *log.Logger) *Facility {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if notifier == nil {
		notifier = event.Discard{}
	}
	return &Facility{
		layout:    layout,
		phys:      phys,
		notifier:  notifier,
		logger:    logger,
		pickups:   make(map[physics.Handle]int),
		collected: make(map[string]bool),
	}
}

// Layout returns the static description
func (f *Facility) Layout() Layout {
	return f.layout
}

// Build registers wall and uncollected pickup bodies
// Existing facility bodies are removed first so Build doubles as a rebuild after restore
func (f *Facility) Build() error {
	f.clearBodies()

	for i, w := range f.layout.Walls {
		h, err := f.phys.AddBody(physics.BodySpec{
			Shape:    physics.Box(w.Half.X(), w.Half.Y(), w.Half.Z()),
			Category: physics.CategoryWorld,
			Position: w.Center,
		})
		if err != nil {
			return fmt.Errorf("wall %d: %w", i, err)
		}
		f.walls = append(f.walls, h)
	}

	for i, p := range f.layout.Pickups {
		if f.collected[p.ID] {
			continue
		}
		h, err := f.phys.AddBody(physics.BodySpec{
			Shape:    physics.Box(PickupHalfExtent, PickupHalfExtent, PickupHalfExtent),
			Category: physics.CategoryPickup,
			Position: p.Position,
			UserData: i,
		})
		if err != nil {
			return fmt.Errorf("pickup %s: %w", p.ID, err)
		}
		f.pickups[h] = i
	}
	return nil
}

func (f *Facility) clearBodies() {
	for _, h := range f.walls {
		f.phys.RemoveBody(h)
	}
	f.walls = f.walls[:0]

	// Layout order keeps handle reuse identical across rebuilds
	hs := make([]physics.Handle, 0, len(f.pickups))
	for h := range f.pickups {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return f.pickups[hs[i]] < f.pickups[hs[j]] })
	for _, h := range hs {
		f.phys.RemoveBody(h)
		delete(f.pickups, h)
	}
}

// Pickup resolves a body handle without taking it
func (f *Facility) Pickup(h physics.Handle) (Pickup, bool) {
	i, ok := f.pickups[h]
	if !ok {
		return Pickup{}, false
	}
	return f.layout.Pickups[i], true
}

// Take consumes the pickup behind h, removing its body and marking it collected
func (f *Facility) Take(h physics.Handle) (Pickup, bool) {
	i, ok := f.pickups[h]
	if !ok {
		return Pickup{}, false
	}
	p := f.layout.Pickups[i]
	delete(f.pickups, h)
	f.phys.RemoveBody(h)
	f.collected[p.ID] = true
	return p, true
}

// Collected returns collected item ids in sorted order
func (f *Facility) Collected() []string {
	out := make([]string, 0, len(f.collected))
	for id := range f.collected {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// HasItem reports whether an item id was collected
func (f *Facility) HasItem(id string) bool {
	return f.collected[id]
}

// RestoreCollected replaces the collected set and rebuilds bodies
// Unknown ids are kept so saves survive layout edits
func (f *Facility) RestoreCollected(ids []string) error {
	f.collected = make(map[string]bool, len(ids))
	for _, id := range ids {
		f.collected[id] = true
	}
	f.room = ""
	return f.Build()
}

// UpdateRoom tracks the room containing pos and notifies on entry
// Positions outside every room keep the previous room
func (f *Facility) UpdateRoom(pos mgl64.Vec3) {
	for _, r := range f.layout.Rooms {
		if !containsXZ(r.Bounds, pos) {
			continue
		}
		if r.ID != f.room {
			f.room = r.ID
			f.notifier.RoomEntered(r.ID)
		}
		return
	}
}

// SetRoom restores the current room without notifying
func (f *Facility) SetRoom(id string) {
	f.room = id
}

// Room returns the id of the last entered room
func (f *Facility) Room() string {
	return f.room
}

// ExitReached reports whether pos is inside the exit zone with every required item collected
func (f *Facility) ExitReached(pos mgl64.Vec3) bool {
	if !f.layout.Exit.AABB().Contains(pos) {
		return false
	}
	for _, id := range f.layout.RequiredItems {
		if !f.collected[id] {
			return false
		}
	}
	return true
}

// SignalSource returns the madness signal position and strength
func (f *Facility) SignalSource() (mgl64.Vec3, float64) {
	return f.layout.SignalSource, f.layout.SignalStrength
}

// SpawnPoints returns the static spawn descriptions
func (f *Facility) SpawnPoints() []SpawnPoint {
	return f.layout.SpawnPoints
}

// Reset forgets progress and rebuilds every body
func (f *Facility) Reset() error {
	f.collected = make(map[string]bool)
	f.room = ""
	return f.Build()
}

func containsXZ(b Box, p mgl64.Vec3) bool {
	return vmath.Clamp(p.X(), b.Center.X()-b.Half.X(), b.Center.X()+b.Half.X()) == p.X() &&
		vmath.Clamp(p.Z(), b.Center.Z()-b.Half.Z(), b.Center.Z()+b.Half.Z()) == p.Z()
}
