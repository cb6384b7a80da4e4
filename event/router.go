// Package event carries story notifications from the simulation to narrative, HUD and audio consumers
package event

import (
	"fmt"
	"io"
	"log"

	"github.com/oklog/ulid/v2"

	"github.com/lixenwraith/dead-signal/parameter"
)

// GameEvent is one recorded notification
type GameEvent struct {
	ID      ulid.ULID
	Type    EventType
	Time    float64 // Simulation seconds
	Subject string  // Enemy, room, item id or ending name
	Value   float64 // Damage amount or madness level
}

func (e GameEvent) String() string {
	switch e.Type {
	case EventPlayerDamaged, EventMadnessThresholdCrossed:
		return fmt.Sprintf("%.2f %s %.2f", e.Time, e.Type, e.Value)
	}
	return fmt.Sprintf("%.2f %s %s", e.Time, e.Type, e.Subject)
}

// Notifier is the fire-and-forget story collaborator
type Notifier interface {
	EnemyKilled(id string)
	RoomEntered(id string)
	ItemCollected(id string)
	PlayerDamaged(amount float64)
	MadnessThresholdCrossed(level float64)
}

// Handler consumes a recorded notification
type Handler func(GameEvent)

// Router fans notifications out to handlers and keeps a bounded history
// Not safe for concurrent use; cross-goroutine consumers attach a Queue
type Router struct {
	logger   *log.Logger
	now      func() float64
	handlers map[EventType][]Handler
	any      []Handler
	queue    *Queue

	history []GameEvent
	start   int // Ring start once history is full
	size    int
}

// NewRouter creates a router; clock supplies simulation time and may be nil
func NewRouter(clock func() float64, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if clock == nil {
		clock = func() float64 { return 0 }
	}
	return &Router{
		logger:   logger,
		now:      clock,
		handlers: make(map[EventType][]Handler),
		history:  make([]GameEvent, 0, parameter.EventHistorySize),
		size:     parameter.EventHistorySize,
	}
}

// Subscribe adds a handler for one type; EventNone subscribes to every type
func (r *Router) Subscribe(et EventType, h Handler) {
	if h == nil {
		return
	}
	if et == EventNone {
		r.any = append(r.any, h)
		return
	}
	r.handlers[et] = append(r.handlers[et], h)
}

// AttachQueue mirrors every notification into q for another goroutine
func (r *Router) AttachQueue(q *Queue) {
	r.queue = q
}

// Emit records a notification and dispatches it synchronously
// A panicking handler is logged and does not stop the others
func (r *Router) Emit(et EventType, subject string, value float64) GameEvent {
	ev := GameEvent{
		ID:      ulid.Make(),
		Type:    et,
		Time:    r.now(),
		Subject: subject,
		Value:   value,
	}
	r.record(ev)

	if r.queue != nil {
		r.queue.Push(ev)
	}
	for _, h := range r.handlers[et] {
		r.dispatch(h, ev)
	}
	for _, h := range r.any {
		r.dispatch(h, ev)
	}
	return ev
}

func (r *Router) dispatch(h Handler, ev GameEvent) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Printf("[event] handler panic on %s: %v", ev.Type, p)
		}
	}()
	h(ev)
}

func (r *Router) record(ev GameEvent) {
	if len(r.history) < r.size {
		r.history = append(r.history, ev)
		return
	}
	r.history[r.start] = ev
	r.start = (r.start + 1) % r.size
}

// History returns recorded notifications oldest first
func (r *Router) History() []GameEvent {
	out := make([]GameEvent, 0, len(r.history))
	out = append(out, r.history[r.start:]...)
	out = append(out, r.history[:r.start]...)
	return out
}

// Count returns how many recorded notifications have the given type
func (r *Router) Count(et EventType) int {
	n := 0
	for _, ev := range r.history {
		if ev.Type == et {
			n++
		}
	}
	return n
}

// Reset clears history; handlers stay subscribed
func (r *Router) Reset() {
	r.history = r.history[:0]
	r.start = 0
}

func (r *Router) EnemyKilled(id string) { r.Emit(EventEnemyKilled, id, 0) }

func (r *Router) RoomEntered(id string) { r.Emit(EventRoomEntered, id, 0) }

func (r *Router) ItemCollected(id string) { r.Emit(EventItemCollected, id, 0) }

func (r *Router) PlayerDamaged(amount float64) { r.Emit(EventPlayerDamaged, "", amount) }

func (r *Router) MadnessThresholdCrossed(level float64) {
	r.Emit(EventMadnessThresholdCrossed, "", level)
}

// GameOver records the ending chosen by the simulation
func (r *Router) GameOver(ending string) { r.Emit(EventGameOver, ending, 0) }

// Discard is a Notifier that drops everything
type Discard struct{}

func (Discard) EnemyKilled(string)              {}
func (Discard) RoomEntered(string)              {}
func (Discard) ItemCollected(string)            {}
func (Discard) PlayerDamaged(float64)           {}
func (Discard) MadnessThresholdCrossed(float64) {}
