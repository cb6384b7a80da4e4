package event

import (
	"sync"

	"github.com/lixenwraith/dead-signal/parameter"
)

// Queue carries notifications from the simulation goroutine to a viewer
// When full the oldest notification is overwritten and counted as dropped
type Queue struct {
	mu      sync.Mutex
	ring    [parameter.EventQueueSize]GameEvent
	first   int
	n       int
	dropped uint64
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends ev
func (q *Queue) Push(ev GameEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.n == len(q.ring) {
		q.ring[q.first] = ev
		q.first = (q.first + 1) % len(q.ring)
		q.dropped++
		return
	}
	q.ring[(q.first+q.n)%len(q.ring)] = ev
	q.n++
}

// Drain removes and returns pending notifications oldest first, nil when empty
func (q *Queue) Drain() []GameEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.n == 0 {
		return nil
	}
	out := make([]GameEvent, q.n)
	for i := range out {
		out[i] = q.ring[(q.first+i)%len(q.ring)]
	}
	q.first, q.n = 0, 0
	return out
}

// Len returns the number of pending notifications
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n
}

// Dropped returns how many notifications were overwritten before being drained
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
