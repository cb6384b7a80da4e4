package engine

import (
	"fmt"

	"github.com/lixenwraith/dead-signal/enemy"
	"github.com/lixenwraith/dead-signal/engine/fsm"
	"github.com/lixenwraith/dead-signal/input"
	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/player"
	"github.com/lixenwraith/dead-signal/save"
	"github.com/lixenwraith/dead-signal/sound"
	"github.com/lixenwraith/dead-signal/vmath"
)

// Snapshot captures the complete session for persistence
func (s *Simulation) Snapshot() save.Snapshot {
	snap := save.New()
	snap.Clock = s.clock.Now()
	snap.State = uint8(s.State())
	snap.Ending = uint8(s.ending)
	snap.Choice = uint8(s.choice)
	snap.Player = s.player.State()
	snap.Enemies = s.enemies.Snapshot()
	snap.Sounds = s.bus.Events()
	snap.SoundSeq = s.bus.Seq()
	snap.Collected = s.fac.Collected()
	snap.Room = s.fac.Room()
	return snap
}

// Restore replaces the session with snap
// Terminal states are restored without re-notifying the ending
// On failure the session is left as it was
func (s *Simulation) Restore(snap save.Snapshot) error {
	if snap.Version != parameter.SnapshotVersion {
		return fmt.Errorf("restore: %w: %d", save.ErrVersion, snap.Version)
	}
	state := GameState(snap.State)
	if _, ok := gameStateNames[state]; !ok {
		return fmt.Errorf("restore: %w: state %d", save.ErrCorrupt, snap.State)
	}
	if !vmath.IsFinite(snap.Clock) || snap.Clock < 0 {
		return fmt.Errorf("restore: %w: clock %v", save.ErrCorrupt, snap.Clock)
	}
	if int(snap.Ending) >= len(endingNames) || int(snap.Choice) >= len(endingNames) {
		return fmt.Errorf("restore: %w: ending %d choice %d", save.ErrCorrupt, snap.Ending, snap.Choice)
	}
	if err := s.enemies.Check(snap.Enemies); err != nil {
		return fmt.Errorf("restore enemies: %w", err)
	}

	prev := s.Snapshot()
	if err := s.apply(snap); err != nil {
		if rerr := s.apply(prev); rerr != nil {
			s.logger.Printf("[engine] rollback after failed restore: %v", rerr)
		}
		return err
	}
	s.logger.Printf("[engine] restored %s at t=%.3f", snap.ID, snap.Clock)
	return nil
}

// apply overwrites every component from a validated snapshot
func (s *Simulation) apply(snap save.Snapshot) error {
	s.removeProjectiles()
	if err := s.fac.RestoreCollected(snap.Collected); err != nil {
		return fmt.Errorf("restore facility: %w", err)
	}
	s.fac.SetRoom(snap.Room)
	if err := s.player.Restore(snap.Player); err != nil {
		return fmt.Errorf("restore player: %w", err)
	}
	if err := s.enemies.Restore(snap.Enemies); err != nil {
		return fmt.Errorf("restore enemies: %w", err)
	}
	s.bus.Restore(snap.Sounds)
	s.bus.SetSeq(snap.SoundSeq)

	s.clock.restore(snap.Clock)
	s.ending = Ending(snap.Ending)
	s.choice = Ending(snap.Choice)
	s.cursor = fsm.Cursor{State: fsm.StateID(snap.State)}
	s.in = input.Intents{}
	s.subSteps = 0

	s.hud = s.player.HUD()
	s.publish()
	return nil
}

// Frame is a read-only view of one tick for renderers
type Frame struct {
	Outcome   Outcome
	Player    player.State
	HUD       player.HUD
	Enemies   []enemy.View
	Sounds    []sound.Event
	Room      string
	Collected []string
}

// Frame copies the state a renderer needs
func (s *Simulation) Frame() Frame {
	return Frame{
		Outcome:   s.Outcome(),
		Player:    s.player.State(),
		HUD:       s.hud,
		Enemies:   s.enemies.Views(),
		Sounds:    s.bus.Events(),
		Room:      s.fac.Room(),
		Collected: s.fac.Collected(),
	}
}
