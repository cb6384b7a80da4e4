package enemy

import (
	"fmt"

	"github.com/lixenwraith/dead-signal/engine/fsm"
	"github.com/lixenwraith/dead-signal/parameter"
	"github.com/lixenwraith/dead-signal/vmath"
)

// Fixed state ids so cursors survive snapshots and table reloads
const (
	StateIdle fsm.StateID = iota + 1
	StatePatrol
	StateInvestigate
	StateChase
	StateAttack
	StateDying
)

// StateIDs maps table state names to their fixed ids
var StateIDs = map[string]fsm.StateID{
	"idle":        StateIdle,
	"patrol":      StatePatrol,
	"investigate": StateInvestigate,
	"chase":       StateChase,
	"attack":      StateAttack,
	"dying":       StateDying,
}

// DefaultTable is the built-in AI transition table
// Priorities order transitions within a state, lower first
const DefaultTable = `
initial: idle
global:
  - target: dying
    guard: dead
states:
  idle:
    on_enter: [hold]
    on_update: [hold]
    transitions:
      - target: investigate
        guard: perceived
        priority: 1
      - target: patrol
        guard: idle_timeout
        priority: 2
  patrol:
    on_enter: [patrol_begin]
    on_update: [patrol_move]
    transitions:
      - target: chase
        guard: sight
        priority: 1
      - target: investigate
        guard: heard
        priority: 2
      - target: investigate
        guard: suspicious
        priority: 3
      - target: idle
        guard: patrol_done
        priority: 4
  investigate:
    on_enter: [investigate_begin]
    on_update: [investigate_move]
    transitions:
      - target: attack
        guard: in_attack_range
        priority: 1
      - target: chase
        guard: sight
        priority: 2
      - target: patrol
        guard: investigate_timeout
        priority: 3
  chase:
    on_update: [chase_move]
    transitions:
      - target: attack
        guard: in_attack_range
        priority: 1
      - target: investigate
        guard: lost_interest
        priority: 2
  attack:
    on_enter: [strike]
    on_update: [strike]
    transitions:
      - target: chase
        guard: beyond_attack_exit
        priority: 1
  dying:
    terminal: true
    on_enter: [die]
    on_update: [hold]
`

// DefaultTableConfig parses DefaultTable
func DefaultTableConfig() fsm.RootConfig {
	cfg, err := fsm.ParseConfig([]byte(DefaultTable))
	if err != nil {
		panic(fmt.Sprintf("enemy: built-in table: %v", err))
	}
	return cfg
}

// newMachine registers the AI vocabulary and loads a table
func newMachine(table fsm.RootConfig) (*fsm.Machine[*agent], error) {
	m := fsm.NewMachine[*agent]()

	// --- GUARDS ---

	m.RegisterGuard("dead", func(a *agent) bool { return a.inst.Health <= 0 })
	m.RegisterGuard("sight", func(a *agent) bool { return a.sees })
	m.RegisterGuard("heard", func(a *agent) bool { return a.heard })
	m.RegisterGuard("perceived", func(a *agent) bool { return a.sees || a.heard })

	m.RegisterGuard("in_attack_range", func(a *agent) bool {
		return a.ctx.PlayerAlive && a.dist <= a.stats.AttackRange
	})
	m.RegisterGuard("beyond_attack_exit", func(a *agent) bool {
		return !a.ctx.PlayerAlive || a.dist > a.stats.AttackRange*parameter.AttackExitFactor
	})
	m.RegisterGuard("lost_interest", func(a *agent) bool {
		return !a.sees && !a.heard && a.dist > a.stats.DetectionRange*parameter.LoseInterestFactor
	})

	m.RegisterGuard("investigate_timeout", func(a *agent) bool {
		return a.now-a.inst.LastAcquired > parameter.InvestigateTimeout
	})
	m.RegisterGuard("suspicious", func(a *agent) bool {
		return a.inst.HasAlert && a.inst.DetectionLevel >= parameter.DetectionSuspicionLevel
	})
	// Rate-based timeout keeps the patrol start independent of tick rate; detection makes it restless
	m.RegisterGuard("idle_timeout", func(a *agent) bool {
		if a.inst.State.TimeInState < parameter.IdleMinTime {
			return false
		}
		rate := parameter.IdlePatrolRate * (1 + parameter.IdleRestlessness*a.inst.DetectionLevel)
		return a.c.rng.Float64() < vmath.ChanceInInterval(rate, a.dt)
	})
	m.RegisterGuard("patrol_done", func(a *agent) bool {
		return a.inst.PatrolLeg >= parameter.PatrolLegs
	})

	// --- ACTIONS ---

	m.RegisterAction("hold", func(a *agent) { a.c.hold(a) })
	m.RegisterAction("patrol_begin", func(a *agent) { a.c.patrolBegin(a) })
	m.RegisterAction("patrol_move", func(a *agent) { a.c.patrolMove(a) })
	m.RegisterAction("investigate_begin", func(a *agent) { a.c.investigateBegin(a) })
	m.RegisterAction("investigate_move", func(a *agent) { a.c.investigateMove(a) })
	m.RegisterAction("chase_move", func(a *agent) { a.c.chaseMove(a) })
	m.RegisterAction("strike", func(a *agent) { a.c.strike(a) })
	m.RegisterAction("die", func(a *agent) { a.c.die(a) })

	if err := m.LoadConfig(table, StateIDs); err != nil {
		return nil, fmt.Errorf("enemy table: %w", err)
	}
	for name := range StateIDs {
		if _, ok := m.StateByName(name); !ok {
			return nil, fmt.Errorf("enemy table: missing state %q", name)
		}
	}
	if !m.IsTerminal(StateDying) {
		return nil, fmt.Errorf("enemy table: dying must be terminal")
	}
	return m, nil
}
