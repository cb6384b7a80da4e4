// Package input turns terminal key events into per-tick player intents
package input

// Intents is the per-tick input snapshot consumed by the player controller
// Booleans are level states; edge detection belongs to the consumer
type Intents struct {
	MoveForward      bool
	MoveBackward     bool
	MoveLeft         bool
	MoveRight        bool
	Jump             bool
	Crouch           bool
	Sprint           bool
	Fire             bool
	Reload           bool
	Interact         bool
	FlashlightToggle bool

	// Look deltas in mouse units since the previous tick
	LookDeltaX float64
	LookDeltaY float64
}

// Action discriminates bindable actions
type Action uint8

const (
	ActionNone Action = iota

	// Held gameplay actions
	ActionMoveForward
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionJump
	ActionCrouch
	ActionSprint
	ActionFire
	ActionReload
	ActionInteract
	ActionFlashlight

	// Look impulses, accumulated per press
	ActionLookLeft
	ActionLookRight
	ActionLookUp
	ActionLookDown

	// System actions, reported once per press
	ActionQuit
	ActionPause
	ActionNewGame
	ActionSave
	ActionLoad

	actionCount
)

// System reports whether the action is handled outside the simulation
func (a Action) System() bool {
	return a >= ActionQuit && a < actionCount
}

// look reports whether the action is a look impulse
func (a Action) look() bool {
	return a >= ActionLookLeft && a <= ActionLookDown
}
