// Package sound is the time-decaying perceptual event bus coupling player actions to enemy hearing
package sound

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/vmath"
)

// Type classifies a sound event
type Type uint8

const (
	TypeFootstep Type = iota
	TypeGunshot
	TypeEmptyClick
	TypeImpact
	TypePickup
	TypeAttack
)

func (t Type) String() string {
	switch t {
	case TypeFootstep:
		return "footstep"
	case TypeGunshot:
		return "gunshot"
	case TypeEmptyClick:
		return "empty_click"
	case TypeImpact:
		return "impact"
	case TypePickup:
		return "pickup"
	case TypeAttack:
		return "attack"
	}
	return "unknown"
}

// Event is a transient stimulus; Volume is always in (0,1]
type Event struct {
	Seq      uint64     `msgpack:"seq"`
	Position mgl64.Vec3 `msgpack:"position"`
	Volume   float64    `msgpack:"volume"`
	Type     Type       `msgpack:"type"`
	Time     float64    `msgpack:"time"`
}

// Listener is alerted synchronously on every accepted Emit
type Listener interface {
	Alert(ev Event)
}

// Bus stores recent events in emission order
// Not safe for concurrent use; owned by the simulation goroutine
type Bus struct {
	memory    float64
	capacity  int
	events    []Event
	listeners []Listener
	seq       uint64
}

// NewBus creates a bus forgetting events older than memory seconds
// Non-positive or non-finite memory selects the default
func NewBus(memory float64) *Bus {
	if memory <= 0 || !vmath.IsFinite(memory) {
		memory = parameter.SoundMemoryDuration
	}
	return &Bus{
		memory:   memory,
		capacity: parameter.SoundMaxEvents,
		events:   make([]Event, 0, 32),
	}
}

// Memory returns the retention window in seconds
func (b *Bus) Memory() float64 {
	return b.memory
}

// Subscribe registers a listener; listeners are alerted in subscription order
func (b *Bus) Subscribe(l Listener) {
	if l == nil {
		return
	}
	b.listeners = append(b.listeners, l)
}

// Emit records an event at now and alerts listeners before returning
// Volume above 1 clamps to 1; non-positive, NaN or a non-finite position drops the event
func (b *Bus) Emit(pos mgl64.Vec3, volume float64, typ Type, now float64) (Event, bool) {
	if !(volume > 0) || !vmath.FiniteVec(pos) || !vmath.IsFinite(now) {
		return Event{}, false
	}
	if volume > 1 {
		volume = 1
	}

	b.seq++
	ev := Event{
		Seq:      b.seq,
		Position: pos,
		Volume:   volume,
		Type:     typ,
		Time:     now,
	}

	// Bounded: oldest falls off first
	if len(b.events) >= b.capacity {
		copy(b.events, b.events[1:])
		b.events = b.events[:len(b.events)-1]
	}
	b.events = append(b.events, ev)

	for _, l := range b.listeners {
		l.Alert(ev)
	}
	return ev, true
}

// Decay prunes events with now - Time > memory
func (b *Bus) Decay(now float64) {
	keep := b.events[:0]
	for _, ev := range b.events {
		if !b.expired(ev, now) {
			keep = append(keep, ev)
		}
	}
	// Zero the tail so stale events are not retained by the backing array
	for i := len(keep); i < len(b.events); i++ {
		b.events[i] = Event{}
	}
	b.events = keep
}

func (b *Bus) expired(ev Event, now float64) bool {
	return now-ev.Time > b.memory
}

// Heard returns the newest unexpired event within radius of pos
func (b *Bus) Heard(pos mgl64.Vec3, radius, now float64) (Event, bool) {
	if !(radius > 0) {
		return Event{}, false
	}
	r2 := radius * radius
	for i := len(b.events) - 1; i >= 0; i-- {
		ev := b.events[i]
		if b.expired(ev, now) || ev.Time > now {
			continue
		}
		if ev.Position.Sub(pos).LenSqr() <= r2 {
			return ev, true
		}
	}
	return Event{}, false
}

// Loudest returns the loudest unexpired event within radius of pos numbered after seq
// Equal volumes resolve to the newest
func (b *Bus) Loudest(pos mgl64.Vec3, radius, now float64, after uint64) (Event, bool) {
	if !(radius > 0) {
		return Event{}, false
	}
	r2 := radius * radius
	var best Event
	found := false
	for i := len(b.events) - 1; i >= 0; i-- {
		ev := b.events[i]
		if ev.Seq <= after || b.expired(ev, now) || ev.Time > now {
			continue
		}
		if ev.Position.Sub(pos).LenSqr() > r2 {
			continue
		}
		if !found || ev.Volume > best.Volume {
			best, found = ev, true
		}
	}
	return best, found
}

// Len returns the number of retained events
func (b *Bus) Len() int {
	return len(b.events)
}

// Events returns a copy of retained events, oldest first
func (b *Bus) Events() []Event {
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}

// Restore replaces retained events without alerting listeners
// Sequence numbering continues after the highest restored event
func (b *Bus) Restore(events []Event) {
	b.events = b.events[:0]
	b.seq = 0
	for _, ev := range events {
		if !(ev.Volume > 0) || ev.Volume > 1 || !vmath.FiniteVec(ev.Position) {
			continue
		}
		if len(b.events) >= b.capacity {
			break
		}
		b.events = append(b.events, ev)
		if ev.Seq > b.seq {
			b.seq = ev.Seq
		}
	}
}

// Seq returns the sequence number of the latest emitted event
func (b *Bus) Seq() uint64 {
	return b.seq
}

// SetSeq continues numbering after seq; lower values are ignored
// Saves carry it so listeners that track the last heard Seq keep hearing after a restore
func (b *Bus) SetSeq(seq uint64) {
	if seq > b.seq {
		b.seq = seq
	}
}

// Reset drops all events; listeners stay subscribed
func (b *Bus) Reset() {
	b.events = b.events[:0]
	b.seq = 0
}
