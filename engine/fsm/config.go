package fsm

// RootConfig represents the top-level table structure
type RootConfig struct {
	InitialState string                  `yaml:"initial"`
	States       map[string]*StateConfig `yaml:"states"`
	// Global transitions apply from every non-terminal state
	Global []TransitionConfig `yaml:"global,omitempty"`
}

// StateConfig represents a single state definition
type StateConfig struct {
	Terminal    bool               `yaml:"terminal,omitempty"`
	OnEnter     []string           `yaml:"on_enter,omitempty"`
	OnUpdate    []string           `yaml:"on_update,omitempty"`
	OnExit      []string           `yaml:"on_exit,omitempty"`
	Transitions []TransitionConfig `yaml:"transitions,omitempty"`
}

// TransitionConfig represents a transition definition
type TransitionConfig struct {
	Target   string `yaml:"target"`             // Target state name
	Guard    string `yaml:"guard,omitempty"`    // Guard function name, empty = always
	Priority int    `yaml:"priority,omitempty"` // Lower evaluates first, ties keep file order
}
