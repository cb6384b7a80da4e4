package input

// actionRegistry maps canonical action names to actions
// Used by keymap config loader to resolve YAML action strings to bindings
var actionRegistry = map[string]Action{
	// Unbind sentinel
	"none": ActionNone,

	// Movement
	"move_forward":  ActionMoveForward,
	"move_backward": ActionMoveBackward,
	"move_left":     ActionMoveLeft,
	"move_right":    ActionMoveRight,
	"jump":          ActionJump,
	"crouch":        ActionCrouch,
	"sprint":        ActionSprint,

	// Weapon & tools
	"fire":       ActionFire,
	"reload":     ActionReload,
	"interact":   ActionInteract,
	"flashlight": ActionFlashlight,

	// Look
	"look_left":  ActionLookLeft,
	"look_right": ActionLookRight,
	"look_up":    ActionLookUp,
	"look_down":  ActionLookDown,

	// System
	"quit":     ActionQuit,
	"pause":    ActionPause,
	"new_game": ActionNewGame,
	"save":     ActionSave,
	"load":     ActionLoad,
}

// actionNames is the reverse of actionRegistry
var actionNames = func() map[Action]string {
	m := make(map[Action]string, len(actionRegistry))
	for name, a := range actionRegistry {
		m[a] = name
	}
	return m
}()

// ActionByName resolves a canonical action name
func ActionByName(name string) (Action, bool) {
	a, ok := actionRegistry[name]
	return a, ok
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}
