package engine

import (
	"sync"
	"time"
)

// PausableClock is wall time that stops while paused
// The runner derives frame deltas from it so a long pause never becomes one huge frame
type PausableClock struct {
	mu sync.RWMutex

	source func() time.Time
	start  time.Time

	paused      bool
	pauseStart  time.Time
	totalPaused time.Duration
}

// NewPausableClock starts a clock on the real monotonic time source
func NewPausableClock() *PausableClock {
	return newPausableClock(time.Now)
}

func newPausableClock(source func() time.Time) *PausableClock {
	return &PausableClock{
		source: source,
		start:  source(),
	}
}

// Now returns start plus unpaused elapsed time
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.paused {
		return pc.start.Add(pc.pauseStart.Sub(pc.start) - pc.totalPaused)
	}
	return pc.start.Add(pc.source().Sub(pc.start) - pc.totalPaused)
}

// Pause freezes Now; repeated calls are no-ops
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused {
		return
	}
	pc.paused = true
	pc.pauseStart = pc.source()
}

// Resume continues from the frozen instant
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.paused {
		return
	}
	pc.totalPaused += pc.source().Sub(pc.pauseStart)
	pc.paused = false
	pc.pauseStart = time.Time{}
}

// IsPaused reports the pause state
func (pc *PausableClock) IsPaused() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.paused
}

// TotalPaused returns cumulative pause time including a pause in progress
func (pc *PausableClock) TotalPaused() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	total := pc.totalPaused
	if pc.paused {
		total += pc.source().Sub(pc.pauseStart)
	}
	return total
}
