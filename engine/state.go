package engine

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/dead-signal/engine/fsm"
)

// ErrInvalidEnding rejects RecordEnding with an outcome that is not a story choice
var ErrInvalidEnding = errors.New("engine: ending is not a story choice")

// GameState is the top-level session state
type GameState uint8

const (
	StatePlaying GameState = iota + 1
	StatePaused
	StateDead
	StateInsane
	StateComplete
)

var gameStateNames = map[GameState]string{
	StatePlaying:  "playing",
	StatePaused:   "paused",
	StateDead:     "dead",
	StateInsane:   "insane",
	StateComplete: "complete",
}

func (s GameState) String() string {
	if name, ok := gameStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the session is over
func (s GameState) Terminal() bool {
	return s == StateDead || s == StateInsane || s == StateComplete
}

// Ending is the narrative outcome of a finished session
type Ending uint8

const (
	EndingNone Ending = iota
	// Forced by terminal conditions
	EndingDeath
	EndingInsanity
	// Story choices available at completion
	EndingEscape
	EndingBroadcast
	EndingSilence
)

var endingNames = [...]string{
	EndingNone:      "none",
	EndingDeath:     "death",
	EndingInsanity:  "insanity",
	EndingEscape:    "escape",
	EndingBroadcast: "broadcast",
	EndingSilence:   "silence",
}

func (e Ending) String() string {
	if int(e) < len(endingNames) {
		return endingNames[e]
	}
	return "unknown"
}

// Choice reports whether the story collaborator may record e
func (e Ending) Choice() bool {
	return e >= EndingEscape && e <= EndingSilence
}

// ParseEnding resolves an ending name
func ParseEnding(name string) (Ending, error) {
	for i, n := range endingNames {
		if n == name {
			return Ending(i), nil
		}
	}
	return EndingNone, fmt.Errorf("unknown ending %q", name)
}

// Outcome is the session summary returned by every tick
type Outcome struct {
	State  GameState
	Ending Ending
	Time   float64
}

// Over reports whether the session reached a terminal state
func (o Outcome) Over() bool {
	return o.State.Terminal()
}

var gameStateIDs = map[string]fsm.StateID{
	"playing":  fsm.StateID(StatePlaying),
	"paused":   fsm.StateID(StatePaused),
	"dead":     fsm.StateID(StateDead),
	"insane":   fsm.StateID(StateInsane),
	"complete": fsm.StateID(StateComplete),
}

// sessionTable orders terminal checks by priority; the first passing guard wins the tick
const sessionTable = `
initial: playing
states:
  playing:
    transitions:
      - target: dead
        guard: player_dead
        priority: 1
      - target: insane
        guard: insane
        priority: 2
      - target: complete
        guard: exit_reached
        priority: 3
  paused: {}
  dead:
    terminal: true
    on_enter: [game_over]
  insane:
    terminal: true
    on_enter: [game_over]
  complete:
    terminal: true
    on_enter: [game_over]
`

// newSessionMachine compiles the session table against the simulation's guards
func newSessionMachine() (*fsm.Machine[*Simulation], error) {
	m := fsm.NewMachine[*Simulation]()

	m.RegisterGuard("player_dead", func(s *Simulation) bool {
		return s.player.Dead()
	})
	m.RegisterGuard("insane", func(s *Simulation) bool {
		return s.player.State().Madness >= s.cfg.Engine.InsanityThreshold
	})
	m.RegisterGuard("exit_reached", func(s *Simulation) bool {
		return s.fac.ExitReached(s.player.State().Position)
	})
	m.RegisterAction("game_over", func(s *Simulation) {
		s.finish()
	})

	cfg, err := fsm.ParseConfig([]byte(sessionTable))
	if err != nil {
		return nil, fmt.Errorf("session table: %w", err)
	}
	if err := m.LoadConfig(cfg, gameStateIDs); err != nil {
		return nil, fmt.Errorf("session table: %w", err)
	}
	return m, nil
}
