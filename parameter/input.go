package parameter

import "time"

// Terminal Input
const (
	// InputHoldDuration keeps a key held after its last press or auto-repeat
	// Terminals report no key release, so holds decay instead
	InputHoldDuration = 180 * time.Millisecond

	// LookKeyStep is the look delta produced by one look-key press, in mouse units
	LookKeyStep = 40.0

	// LookMouseScale converts terminal cell motion into mouse units
	LookMouseScale = 8.0
)
