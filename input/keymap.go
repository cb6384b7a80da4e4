package input

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/dead-signal/parameter"
)

// KeyMap accumulates terminal events between simulation ticks
// Terminals deliver presses and auto-repeats but no releases, so a held action
// stays active for InputHoldDuration after its most recent event
// Safe for one producer (event goroutine) and one consumer (runner)
type KeyMap struct {
	mu    sync.Mutex
	table *KeyTable
	hold  time.Duration

	heldUntil [actionCount]time.Time
	pulses    [actionCount]bool // Pressed since last Poll, kept for one poll even if hold expired
	system    []Action

	lookX, lookY   float64
	mouseX, mouseY int
	mouseKnown     bool
}

// NewKeyMap creates a keymap; nil table selects DefaultKeyTable
func NewKeyMap(table *KeyTable) *KeyMap {
	if table == nil {
		table = DefaultKeyTable()
	}
	return &KeyMap{
		table: table,
		hold:  parameter.InputHoldDuration,
	}
}

// HandleKey records a key event at now and returns the bound action
func (km *KeyMap) HandleKey(ev *tcell.EventKey, now time.Time) Action {
	a := km.table.Lookup(ev)
	if a == ActionNone {
		return a
	}

	km.mu.Lock()
	defer km.mu.Unlock()

	switch {
	case a.System():
		km.system = append(km.system, a)
	case a.look():
		switch a {
		case ActionLookLeft:
			km.lookX -= parameter.LookKeyStep
		case ActionLookRight:
			km.lookX += parameter.LookKeyStep
		case ActionLookUp:
			km.lookY -= parameter.LookKeyStep
		case ActionLookDown:
			km.lookY += parameter.LookKeyStep
		}
	default:
		km.heldUntil[a] = now.Add(km.hold)
		km.pulses[a] = true
	}
	return a
}

// HandleMouse converts pointer motion into look deltas and left button into fire
func (km *KeyMap) HandleMouse(ev *tcell.EventMouse, now time.Time) {
	x, y := ev.Position()

	km.mu.Lock()
	defer km.mu.Unlock()

	if km.mouseKnown {
		km.lookX += float64(x-km.mouseX) * parameter.LookMouseScale
		km.lookY += float64(y-km.mouseY) * parameter.LookMouseScale
	}
	km.mouseX, km.mouseY, km.mouseKnown = x, y, true

	if ev.Buttons()&tcell.Button1 != 0 {
		km.heldUntil[ActionFire] = now.Add(km.hold)
		km.pulses[ActionFire] = true
	}
}

// Poll returns intents active at now and resets look deltas
// An action pressed since the previous poll is reported at least once
func (km *KeyMap) Poll(now time.Time) Intents {
	km.mu.Lock()
	defer km.mu.Unlock()

	held := func(a Action) bool {
		on := km.pulses[a] || now.Before(km.heldUntil[a])
		km.pulses[a] = false
		return on
	}

	in := Intents{
		MoveForward:      held(ActionMoveForward),
		MoveBackward:     held(ActionMoveBackward),
		MoveLeft:         held(ActionMoveLeft),
		MoveRight:        held(ActionMoveRight),
		Jump:             held(ActionJump),
		Crouch:           held(ActionCrouch),
		Sprint:           held(ActionSprint),
		Fire:             held(ActionFire),
		Reload:           held(ActionReload),
		Interact:         held(ActionInteract),
		FlashlightToggle: held(ActionFlashlight),
		LookDeltaX:       km.lookX,
		LookDeltaY:       km.lookY,
	}
	km.lookX, km.lookY = 0, 0
	return in
}

// DrainSystem returns system actions pressed since the previous drain
func (km *KeyMap) DrainSystem() []Action {
	km.mu.Lock()
	defer km.mu.Unlock()
	if len(km.system) == 0 {
		return nil
	}
	out := km.system
	km.system = nil
	return out
}

// Release drops every held action, used on pause and focus loss
func (km *KeyMap) Release() {
	km.mu.Lock()
	defer km.mu.Unlock()
	for i := range km.heldUntil {
		km.heldUntil[i] = time.Time{}
		km.pulses[i] = false
	}
	km.lookX, km.lookY = 0, 0
}
