package fsm

import (
	"fmt"
	"sort"
)

// NewMachine creates a new FSM instance
func NewMachine[T any]() *Machine[T] {
	return &Machine[T]{
		nodes:     make(map[StateID]*Node[T]),
		guardReg:  make(map[string]GuardFunc[T]),
		actionReg: make(map[string]ActionFunc[T]),
	}
}

// RegisterGuard adds a predicate function to the registry
func (m *Machine[T]) RegisterGuard(name string, fn GuardFunc[T]) {
	m.guardReg[name] = fn
}

// RegisterAction adds a side-effect function to the registry
func (m *Machine[T]) RegisterAction(name string, fn ActionFunc[T]) {
	m.actionReg[name] = fn
}

// AddState adds a node to the machine manually
// Panics on StateNone or duplicate ids, both are programmer errors
func (m *Machine[T]) AddState(id StateID, name string) *Node[T] {
	if id == StateNone {
		panic(fmt.Sprintf("fsm: state %q uses reserved id 0", name))
	}
	if _, exists := m.nodes[id]; exists {
		panic(fmt.Sprintf("fsm: duplicate state id %d (%s)", id, name))
	}
	node := &Node[T]{
		ID:   id,
		Name: name,
	}
	m.nodes[id] = node
	return node
}

// AddTransition adds a transition to a specific node
func (m *Machine[T]) AddTransition(sourceID StateID, t Transition[T]) {
	if node, ok := m.nodes[sourceID]; ok {
		node.Transitions = append(node.Transitions, t)
	}
}

// AddGlobalTransition adds a transition evaluated from every non-terminal state before its own
func (m *Machine[T]) AddGlobalTransition(t Transition[T]) {
	m.global = append(m.global, t)
}

// Compile orders transitions by priority and checks every target exists
// Must be called after all nodes are added and before Update
func (m *Machine[T]) Compile() error {
	byPriority := func(ts []Transition[T]) {
		sort.SliceStable(ts, func(i, j int) bool { return ts[i].Priority < ts[j].Priority })
	}

	for id, node := range m.nodes {
		for _, t := range node.Transitions {
			if _, ok := m.nodes[t.TargetID]; !ok {
				return fmt.Errorf("state %d (%s) targets missing state %d", id, node.Name, t.TargetID)
			}
		}
		byPriority(node.Transitions)
	}
	for _, t := range m.global {
		if _, ok := m.nodes[t.TargetID]; !ok {
			return fmt.Errorf("global transition targets missing state %d", t.TargetID)
		}
	}
	byPriority(m.global)

	if m.InitialStateID != StateNone {
		if _, ok := m.nodes[m.InitialStateID]; !ok {
			return fmt.Errorf("initial state %d not found", m.InitialStateID)
		}
	}
	return nil
}
