package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lixenwraith/dead-signal/input"
)

// fakeTime is a manually advanced time source
type fakeTime struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeTime) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeTime) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestPausableClockFreezes(t *testing.T) {
	ft := &fakeTime{now: time.Unix(1000, 0)}
	pc := newPausableClock(ft.Now)
	start := pc.Now()

	ft.Advance(time.Second)
	if got := pc.Now().Sub(start); got != time.Second {
		t.Fatalf("elapsed = %v", got)
	}

	pc.Pause()
	pc.Pause()
	ft.Advance(5 * time.Second)
	if got := pc.Now().Sub(start); got != time.Second {
		t.Errorf("paused elapsed = %v", got)
	}
	if pc.TotalPaused() != 5*time.Second {
		t.Errorf("total paused = %v", pc.TotalPaused())
	}

	pc.Resume()
	ft.Advance(2 * time.Second)
	if got := pc.Now().Sub(start); got != 3*time.Second {
		t.Errorf("resumed elapsed = %v", got)
	}
	if pc.IsPaused() {
		t.Error("still paused")
	}
}

func waitTicks(t *testing.T, updates <-chan struct{}, n int) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for i := 0; i < n; i++ {
		select {
		case <-updates:
		case <-deadline:
			t.Fatalf("only %d of %d ticks arrived", i, n)
		}
	}
}

func TestRunnerDrivesTicks(t *testing.T) {
	s := newSim(t, quietConfig())
	var polls atomic.Int64
	r, updates := NewRunner(s, time.Millisecond, func(time.Time) input.Intents {
		polls.Add(1)
		return input.Intents{MoveForward: true}
	})
	r.Start()
	r.Start()
	waitTicks(t, updates, 5)
	r.Stop()
	r.Stop()

	var now float64
	r.Read(func(s *Simulation) { now = s.Now() })
	if now <= 0 {
		t.Errorf("simulated time = %v", now)
	}
	if polls.Load() < 5 {
		t.Errorf("input polled %d times", polls.Load())
	}
}

func TestRunnerPauseStopsTime(t *testing.T) {
	s := newSim(t, quietConfig())
	r, updates := NewRunner(s, time.Millisecond, nil)
	r.Start()
	defer r.Stop()
	waitTicks(t, updates, 2)

	r.TogglePause()
	var paused float64
	r.Read(func(s *Simulation) {
		paused = s.Now()
		if s.State() != StatePaused {
			t.Errorf("state = %s", s.State())
		}
	})
	time.Sleep(20 * time.Millisecond)
	r.Read(func(s *Simulation) {
		if s.Now() != paused {
			t.Errorf("time moved while paused: %v -> %v", paused, s.Now())
		}
	})

	r.TogglePause()
	// Drain a tick that may have been signalled before the pause
	waitTicks(t, updates, 2)
	r.Read(func(s *Simulation) {
		if s.Now() <= paused {
			t.Error("time did not resume")
		}
	})
}

func TestRunnerDoNewGame(t *testing.T) {
	s := newSim(t, quietConfig())
	r, updates := NewRunner(s, time.Millisecond, nil)
	r.Start()
	defer r.Stop()
	waitTicks(t, updates, 3)

	var err error
	r.Do(func(s *Simulation) { err = s.NewGame() })
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	r.Read(func(s *Simulation) {
		if s.State() != StatePlaying {
			t.Errorf("state = %s", s.State())
		}
	})
}
