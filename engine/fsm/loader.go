package fsm

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ParseConfig decodes a YAML transition table
func ParseConfig(data []byte) (RootConfig, error) {
	var config RootConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return RootConfig{}, fmt.Errorf("failed to unmarshal FSM config: %w", err)
	}
	return config, nil
}

// LoadConfigFile reads and loads a YAML table from disk
func (m *Machine[T]) LoadConfigFile(path string, ids map[string]StateID) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read FSM config %s: %w", path, err)
	}
	config, err := ParseConfig(data)
	if err != nil {
		return err
	}
	return m.LoadConfig(config, ids)
}

// LoadConfig populates the Machine from a decoded table
// ids pins state names to caller-owned identifiers; nil assigns ids in sorted name order
// Validates all references (states, guards, actions) and clears existing graph data before loading
func (m *Machine[T]) LoadConfig(config RootConfig, ids map[string]StateID) error {
	if len(config.States) == 0 {
		return fmt.Errorf("FSM config has no states")
	}

	m.nodes = make(map[StateID]*Node[T])
	m.global = nil
	m.InitialStateID = StateNone

	// Sort keys for deterministic ID generation and error order
	stateNames := make([]string, 0, len(config.States))
	for name := range config.States {
		stateNames = append(stateNames, name)
	}
	sort.Strings(stateNames)

	nameToID := make(map[string]StateID, len(stateNames))
	for i, name := range stateNames {
		if ids == nil {
			nameToID[name] = StateID(i + 1)
			continue
		}
		id, ok := ids[name]
		if !ok {
			return fmt.Errorf("state '%s' has no assigned id", name)
		}
		nameToID[name] = id
	}

	for _, name := range stateNames {
		cfg := config.States[name]
		if cfg == nil {
			cfg = &StateConfig{}
		}
		node := m.AddState(nameToID[name], name)
		node.Terminal = cfg.Terminal

		var err error
		if node.OnEnter, err = m.compileActions(cfg.OnEnter); err != nil {
			return fmt.Errorf("state '%s' OnEnter: %w", name, err)
		}
		if node.OnUpdate, err = m.compileActions(cfg.OnUpdate); err != nil {
			return fmt.Errorf("state '%s' OnUpdate: %w", name, err)
		}
		if node.OnExit, err = m.compileActions(cfg.OnExit); err != nil {
			return fmt.Errorf("state '%s' OnExit: %w", name, err)
		}

		for _, tc := range cfg.Transitions {
			t, err := m.compileTransition(tc, nameToID)
			if err != nil {
				return fmt.Errorf("state '%s' transitions: %w", name, err)
			}
			node.Transitions = append(node.Transitions, t)
		}
	}

	for _, tc := range config.Global {
		t, err := m.compileTransition(tc, nameToID)
		if err != nil {
			return fmt.Errorf("global transitions: %w", err)
		}
		m.global = append(m.global, t)
	}

	initial, ok := nameToID[config.InitialState]
	if !ok {
		return fmt.Errorf("initial state '%s' not defined", config.InitialState)
	}
	m.InitialStateID = initial

	return m.Compile()
}

func (m *Machine[T]) compileActions(names []string) ([]Action[T], error) {
	if len(names) == 0 {
		return nil, nil
	}
	actions := make([]Action[T], 0, len(names))
	for _, name := range names {
		fn, ok := m.actionReg[name]
		if !ok {
			return nil, fmt.Errorf("unknown action '%s'", name)
		}
		actions = append(actions, Action[T]{Name: name, Func: fn})
	}
	return actions, nil
}

func (m *Machine[T]) compileTransition(tc TransitionConfig, nameToID map[string]StateID) (Transition[T], error) {
	target, ok := nameToID[tc.Target]
	if !ok {
		return Transition[T]{}, fmt.Errorf("unknown target state '%s'", tc.Target)
	}
	t := Transition[T]{
		TargetID: target,
		Priority: tc.Priority,
		Name:     tc.Guard,
	}
	if tc.Guard != "" {
		guard, ok := m.guardReg[tc.Guard]
		if !ok {
			return Transition[T]{}, fmt.Errorf("unknown guard '%s'", tc.Guard)
		}
		t.Guard = guard
	}
	return t, nil
}
