package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sasha-s/go-deadlock"

	"github.com/lixenwraith/dead-signal/input"
	"github.com/lixenwraith/dead-signal/status"
)

// InputSource supplies the intents for the tick starting at now
type InputSource func(now time.Time) input.Intents

// Runner drives Simulation.Tick from wall time on its own goroutine
// Other goroutines reach the simulation only through Read and Do
type Runner struct {
	mu  deadlock.RWMutex
	sim *Simulation

	source InputSource
	clock  *PausableClock

	// Tick configuration
	tickInterval     time.Duration
	lastTickTime     time.Time // Last tick in pausable time
	nextTickDeadline time.Time

	// Control
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
	crash    func(any)

	// Signalled after each tick, dropped if the reader is behind
	updates chan struct{}

	statOverruns *atomic.Int64
}

// NewRunner creates a stopped runner; nil source feeds empty intents
// Returns the channel signalled after each completed tick
func NewRunner(sim *Simulation, tickInterval time.Duration, source InputSource) (*Runner, <-chan struct{}) {
	if tickInterval <= 0 {
		tickInterval = sim.cfg.Engine.TickInterval
	}
	if source == nil {
		source = func(time.Time) input.Intents { return input.Intents{} }
	}
	r := &Runner{
		sim:          sim,
		source:       source,
		clock:        NewPausableClock(),
		tickInterval: tickInterval,
		stopChan:     make(chan struct{}),
		updates:      make(chan struct{}, 1),
		statOverruns: sim.metrics.Ints.Get(status.KeyRunnerOverruns),
	}
	return r, r.updates
}

// SetCrashHandler receives a panic escaping the loop goroutine; must be called before Start
// Without one the panic propagates and kills the process
func (r *Runner) SetCrashHandler(fn func(any)) {
	r.crash = fn
}

// Name identifies the runner as a service
func (r *Runner) Name() string { return "runner" }

// Start launches the loop goroutine once
func (r *Runner) Start() error {
	if !r.running.CompareAndSwap(false, true) {
		return nil
	}
	r.wg.Add(1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				if r.crash == nil {
					panic(p)
				}
				r.crash(p)
			}
		}()
		r.loop()
	}()
	return nil
}

// Stop halts the loop and waits for it to exit
func (r *Runner) Stop() error {
	r.stopOnce.Do(func() {
		if r.running.CompareAndSwap(true, false) {
			close(r.stopChan)
			r.wg.Wait()
		}
	})
	return nil
}

func (r *Runner) loop() {
	defer r.wg.Done()

	r.mu.Lock()
	r.lastTickTime = r.clock.Now()
	r.nextTickDeadline = r.lastTickTime.Add(r.tickInterval)
	r.mu.Unlock()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		default:
		}

		var sleep time.Duration
		if r.clock.IsPaused() {
			sleep = r.tickInterval * 2
		} else {
			now := r.clock.Now()

			r.mu.RLock()
			deadline := r.nextTickDeadline
			r.mu.RUnlock()

			if now.Before(deadline) {
				sleep = deadline.Sub(now)
			} else {
				r.tick(now)

				select {
				case r.updates <- struct{}{}:
				default:
				}

				r.mu.RLock()
				deadline = r.nextTickDeadline
				r.mu.RUnlock()
				sleep = max(deadline.Sub(r.clock.Now()), 0)
			}
		}

		if sleep > 0 {
			timer.Reset(sleep)
			select {
			case <-timer.C:
			case <-r.stopChan:
				return
			}
		}
	}
}

// tick advances the simulation by the pausable time elapsed since the previous tick
func (r *Runner) tick(now time.Time) {
	in := r.source(time.Now())

	r.mu.Lock()
	defer r.mu.Unlock()

	dt := now.Sub(r.lastTickTime).Seconds()
	r.lastTickTime = now
	r.sim.Tick(in, dt)
	r.syncClock()

	r.nextTickDeadline = r.nextTickDeadline.Add(r.tickInterval)
	// Fell behind: resynchronize instead of bursting ticks
	if now.Sub(r.nextTickDeadline) > r.tickInterval*2 {
		r.nextTickDeadline = now.Add(r.tickInterval)
		r.statOverruns.Add(1)
	}
}

// Read runs fn with shared access; fn must not retain the simulation
func (r *Runner) Read(fn func(*Simulation)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn(r.sim)
}

// Do runs fn with exclusive access between ticks
func (r *Runner) Do(fn func(*Simulation)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.sim)
	r.syncClock()
}

// TogglePause pauses a playing session or resumes a paused one
func (r *Runner) TogglePause() {
	r.Do(func(s *Simulation) {
		if !s.Pause() {
			s.Resume()
		}
	})
}

// syncClock keeps wall time frozen whenever the session is not playing
func (r *Runner) syncClock() {
	if r.sim.State() == StatePlaying {
		if r.clock.IsPaused() {
			r.clock.Resume()
			// Next delta starts at the resume instant
			r.lastTickTime = r.clock.Now()
		}
		return
	}
	r.clock.Pause()
}
