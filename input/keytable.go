package input

import "github.com/gdamore/tcell/v2"

// KeyTable maps keys to actions
type KeyTable struct {
	// Special keys (Ctrl+*, arrows, function keys)
	Keys map[tcell.Key]Action

	// Printable rune bindings, matched case-insensitively for letters
	Runes map[rune]Action
}

// DefaultKeyTable returns the default key bindings
// WASD moves, arrows look, space jumps; terminals cannot report modifier-only presses
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		Keys: map[tcell.Key]Action{
			tcell.KeyCtrlQ:  ActionQuit,
			tcell.KeyCtrlC:  ActionQuit,
			tcell.KeyEscape: ActionPause,
			tcell.KeyCtrlN:  ActionNewGame,
			tcell.KeyCtrlS:  ActionSave,
			tcell.KeyCtrlL:  ActionLoad,
			tcell.KeyLeft:   ActionLookLeft,
			tcell.KeyRight:  ActionLookRight,
			tcell.KeyUp:     ActionLookUp,
			tcell.KeyDown:   ActionLookDown,
			tcell.KeyEnter:  ActionFire,
		},

		Runes: map[rune]Action{
			'w': ActionMoveForward,
			's': ActionMoveBackward,
			'a': ActionMoveLeft,
			'd': ActionMoveRight,
			' ': ActionJump,
			'c': ActionCrouch,
			'x': ActionSprint,
			'f': ActionFire,
			'r': ActionReload,
			'e': ActionInteract,
			'l': ActionFlashlight,
			'p': ActionPause,
		},
	}
}

// Clone returns a deep copy
func (kt *KeyTable) Clone() *KeyTable {
	out := &KeyTable{
		Keys:  make(map[tcell.Key]Action, len(kt.Keys)),
		Runes: make(map[rune]Action, len(kt.Runes)),
	}
	for k, v := range kt.Keys {
		out.Keys[k] = v
	}
	for k, v := range kt.Runes {
		out.Runes[k] = v
	}
	return out
}

// Lookup resolves a key event to an action
func (kt *KeyTable) Lookup(ev *tcell.EventKey) Action {
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if a, ok := kt.Runes[r]; ok {
			return a
		}
		// Shifted letter falls back to its lowercase binding
		if r >= 'A' && r <= 'Z' {
			return kt.Runes[r+('a'-'A')]
		}
		return ActionNone
	}
	return kt.Keys[ev.Key()]
}
