// Package facility holds the static level description and the world-side state built from it:
// wall bodies, pickups, room tracking, the signal source and the exit zone
package facility

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dead-signal/vmath"
)

// ErrInvalidLayout is wrapped by every layout validation failure
var ErrInvalidLayout = errors.New("facility: invalid layout")

// ItemKind selects how a pickup affects the player
type ItemKind string

const (
	ItemAmmo     ItemKind = "ammo"
	ItemBattery  ItemKind = "battery"
	ItemHealth   ItemKind = "health"
	ItemKey      ItemKind = "key"
	ItemDocument ItemKind = "document"
)

// Box is an axis-aligned region given by center and half extents
type Box struct {
	Center mgl64.Vec3 `yaml:"center"`
	Half   mgl64.Vec3 `yaml:"half"`
}

// AABB converts to the math type
func (b Box) AABB() vmath.AABB {
	return vmath.AABB{Center: b.Center, Half: b.Half}
}

// Room is a named region used for story notifications
type Room struct {
	ID     string `yaml:"id"`
	Bounds Box    `yaml:"bounds"`
}

// SpawnPoint releases one enemy of Type when the player is in the spawn band
type SpawnPoint struct {
	Position mgl64.Vec3 `yaml:"position"`
	Type     string     `yaml:"type"`
}

// Pickup is a collectible item
// Auto pickups are taken on touch, the rest need an interact within reach
type Pickup struct {
	ID       string     `yaml:"id"`
	Kind     ItemKind   `yaml:"kind"`
	Amount   float64    `yaml:"amount"`
	Position mgl64.Vec3 `yaml:"position"`
	Auto     bool       `yaml:"auto"`
}

// Layout is the static description of the facility
type Layout struct {
	PlayerStart mgl64.Vec3 `yaml:"player_start"`
	PlayerYaw   float64    `yaml:"player_yaw"`

	Walls       []Box        `yaml:"walls"`
	Rooms       []Room       `yaml:"rooms"`
	SpawnPoints []SpawnPoint `yaml:"spawn_points"`
	Pickups     []Pickup     `yaml:"pickups"`

	// Signal source drives madness accumulation, strength 0 disables it
	SignalSource   mgl64.Vec3 `yaml:"signal_source"`
	SignalStrength float64    `yaml:"signal_strength"`

	// Completion: player inside Exit holding every RequiredItems id
	Exit          Box      `yaml:"exit"`
	RequiredItems []string `yaml:"required_items"`
}

// Validate checks structural consistency; numeric ranges are the config layer's job
func (l *Layout) Validate() error {
	if !vmath.FiniteVec(l.PlayerStart) {
		return fmt.Errorf("%w: player start not finite", ErrInvalidLayout)
	}
	for i, w := range l.Walls {
		if !validBox(w) {
			return fmt.Errorf("%w: wall %d has invalid extents", ErrInvalidLayout, i)
		}
	}
	if !validBox(l.Exit) {
		return fmt.Errorf("%w: exit zone has invalid extents", ErrInvalidLayout)
	}

	rooms := make(map[string]bool, len(l.Rooms))
	for _, r := range l.Rooms {
		if r.ID == "" {
			return fmt.Errorf("%w: room without id", ErrInvalidLayout)
		}
		if rooms[r.ID] {
			return fmt.Errorf("%w: duplicate room %q", ErrInvalidLayout, r.ID)
		}
		if !validBox(r.Bounds) {
			return fmt.Errorf("%w: room %q has invalid bounds", ErrInvalidLayout, r.ID)
		}
		rooms[r.ID] = true
	}

	items := make(map[string]bool, len(l.Pickups))
	for _, p := range l.Pickups {
		if p.ID == "" {
			return fmt.Errorf("%w: pickup without id", ErrInvalidLayout)
		}
		if items[p.ID] {
			return fmt.Errorf("%w: duplicate pickup %q", ErrInvalidLayout, p.ID)
		}
		switch p.Kind {
		case ItemAmmo, ItemBattery, ItemHealth, ItemKey, ItemDocument:
		default:
			return fmt.Errorf("%w: pickup %q has unknown kind %q", ErrInvalidLayout, p.ID, p.Kind)
		}
		if !vmath.FiniteVec(p.Position) {
			return fmt.Errorf("%w: pickup %q position not finite", ErrInvalidLayout, p.ID)
		}
		items[p.ID] = true
	}
	for _, id := range l.RequiredItems {
		if !items[id] {
			return fmt.Errorf("%w: required item %q is not placed", ErrInvalidLayout, id)
		}
	}

	for i, sp := range l.SpawnPoints {
		if !vmath.FiniteVec(sp.Position) {
			return fmt.Errorf("%w: spawn point %d position not finite", ErrInvalidLayout, i)
		}
	}
	return nil
}

func validBox(b Box) bool {
	return vmath.FiniteVec(b.Center) && vmath.FiniteVec(b.Half) &&
		b.Half.X() > 0 && b.Half.Y() > 0 && b.Half.Z() > 0
}

// wall builds a wall box from its XZ footprint corners, floor to height
func wall(x0, z0, x1, z1, height float64) Box {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if z0 > z1 {
		z0, z1 = z1, z0
	}
	return Box{
		Center: mgl64.Vec3{(x0 + x1) / 2, height / 2, (z0 + z1) / 2},
		Half:   mgl64.Vec3{(x1 - x0) / 2, height / 2, (z1 - z0) / 2},
	}
}

func room(id string, x0, z0, x1, z1 float64) Room {
	return Room{ID: id, Bounds: wall(x0, z0, x1, z1, 4)}
}

// DefaultLayout is the research station: entrance hall, a long corridor, the signal lab
func DefaultLayout() Layout {
	const h = 3.0
	const t = 0.25 // Wall half thickness

	return Layout{
		PlayerStart: mgl64.Vec3{0, 0.9, 0},
		PlayerYaw:   0,

		Walls: []Box{
			// Entrance hall x[-10,10] z[-10,10], door to corridor at x[-3,3]
			wall(-10, 10-t, 10, 10+t, h),
			wall(-10-t, -10, -10+t, 10, h),
			wall(10-t, -10, 10+t, 10, h),
			wall(-10, -10-t, -3, -10+t, h),
			wall(3, -10-t, 10, -10+t, h),

			// Corridor x[-3,3] z[-50,-10]
			wall(-3-t, -50, -3+t, -10, h),
			wall(3-t, -50, 3+t, -10, h),

			// Signal lab x[-20,20] z[-80,-50], door from corridor at x[-3,3]
			wall(-20, -50-t, -3, -50+t, h),
			wall(3, -50-t, 20, -50+t, h),
			wall(-20-t, -80, -20+t, -50, h),
			wall(20-t, -80, 20+t, -50, h),
			wall(-20, -80-t, 20, -80+t, h),

			// Lab benches
			wall(-12, -62, -6, -60, 1),
			wall(6, -72, 12, -70, 1),
		},

		Rooms: []Room{
			room("entrance", -10, -10, 10, 10),
			room("corridor", -3, -50, 3, -10),
			room("signal_lab", -20, -80, 20, -50),
		},

		SpawnPoints: []SpawnPoint{
			{Position: mgl64.Vec3{0, 0.9, -30}, Type: "infected_scientist"},
			{Position: mgl64.Vec3{14, 0.9, -58}, Type: "corrupted_soldier"},
			{Position: mgl64.Vec3{-14, 0.9, -74}, Type: "signal_entity"},
			{Position: mgl64.Vec3{6, 0.9, 6}, Type: "infected_scientist"},
		},

		Pickups: []Pickup{
			{ID: "ammo_entrance", Kind: ItemAmmo, Amount: 16, Position: mgl64.Vec3{6, 0.3, -6}, Auto: true},
			{ID: "battery_corridor", Kind: ItemBattery, Amount: 50, Position: mgl64.Vec3{-2, 0.3, -25}, Auto: true},
			{ID: "medkit_corridor", Kind: ItemHealth, Amount: 40, Position: mgl64.Vec3{2, 0.3, -42}, Auto: true},
			{ID: "ammo_lab", Kind: ItemAmmo, Amount: 24, Position: mgl64.Vec3{-16, 0.3, -55}, Auto: true},
			{ID: "keycard_lab", Kind: ItemKey, Amount: 1, Position: mgl64.Vec3{9, 1.4, -71}},
			{ID: "log_director", Kind: ItemDocument, Amount: 1, Position: mgl64.Vec3{-9, 1.4, -61}},
		},

		SignalSource:   mgl64.Vec3{0, 1, -68},
		SignalStrength: 1,

		Exit:          Box{Center: mgl64.Vec3{0, 1.5, -78}, Half: mgl64.Vec3{2, 1.5, 1.5}},
		RequiredItems: []string{"keycard_lab"},
	}
}
