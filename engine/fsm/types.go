// Package fsm is a flat finite state machine driven by prioritized guarded transitions
// The graph is immutable after load and shared; per-entity progress lives in a Cursor
package fsm

// StateID is a unique identifier for a node
type StateID int

// StateNone marks an uninitialized cursor
const StateNone StateID = 0

// Machine is the generic transition table runtime
// T is the context type passed to actions and guards
type Machine[T any] struct {
	nodes  map[StateID]*Node[T]
	global []Transition[T] // Checked before a state's own transitions

	InitialStateID StateID

	// Names resolvable from a loaded table
	guardReg  map[string]GuardFunc[T]
	actionReg map[string]ActionFunc[T]
}

// Node represents a state
type Node[T any] struct {
	ID   StateID
	Name string

	// Terminal nodes never leave, global transitions included
	Terminal bool

	OnEnter  []Action[T]
	OnUpdate []Action[T]
	OnExit   []Action[T]

	// Transitions sorted by evaluation priority
	Transitions []Transition[T]
}

// Transition defines a link between states
type Transition[T any] struct {
	TargetID StateID
	Priority int          // Lower evaluates first
	Guard    GuardFunc[T] // nil = Always true
	Name     string       // Guard name for diagnostics
}

// Action is a named side effect run on enter, update or exit
type Action[T any] struct {
	Name string
	Func ActionFunc[T]
}

// GuardFunc returns true if the transition should occur
type GuardFunc[T any] func(ctx T) bool

// ActionFunc executes a side effect
type ActionFunc[T any] func(ctx T)

// Cursor is the per-entity position inside a shared machine
type Cursor struct {
	State       StateID
	TimeInState float64 // Seconds since last transition
}
