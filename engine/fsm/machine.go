package fsm

import (
	"fmt"
)

// Init places a cursor in the initial state and runs its OnEnter actions
func (m *Machine[T]) Init(ctx T, c *Cursor) error {
	return m.InitAt(ctx, c, m.InitialStateID)
}

// InitAt places a cursor in an explicit state, used when restoring
func (m *Machine[T]) InitAt(ctx T, c *Cursor, id StateID) error {
	node, ok := m.nodes[id]
	if !ok {
		return fmt.Errorf("initial state ID %d not found", id)
	}
	c.State = id
	c.TimeInState = 0
	for _, action := range node.OnEnter {
		action.Func(ctx)
	}
	return nil
}

// Update advances the cursor by dt seconds, runs OnUpdate actions of the active state
// and takes the first transition whose guard passes
// Global transitions are evaluated before the state's own; terminal states never leave
// Returns true if a transition happened
func (m *Machine[T]) Update(ctx T, c *Cursor, dt float64) bool {
	node, ok := m.nodes[c.State]
	if !ok {
		return false
	}

	c.TimeInState += dt

	for _, action := range node.OnUpdate {
		action.Func(ctx)
	}

	target, ok := m.evaluate(ctx, node)
	if !ok {
		return false
	}
	m.Transition(ctx, c, target)
	return true
}

// Evaluate reports the transition that would fire without applying it
func (m *Machine[T]) Evaluate(ctx T, c *Cursor) (StateID, bool) {
	node, ok := m.nodes[c.State]
	if !ok {
		return StateNone, false
	}
	return m.evaluate(ctx, node)
}

func (m *Machine[T]) evaluate(ctx T, node *Node[T]) (StateID, bool) {
	if node.Terminal {
		return StateNone, false
	}
	for _, trans := range m.global {
		if trans.TargetID == node.ID {
			continue
		}
		if trans.Guard == nil || trans.Guard(ctx) {
			return trans.TargetID, true
		}
	}
	for _, trans := range node.Transitions {
		if trans.Guard == nil || trans.Guard(ctx) {
			return trans.TargetID, true
		}
	}
	return StateNone, false
}

// Transition performs a state change, running exit then enter actions
// Self transitions restart the state timer without running actions
func (m *Machine[T]) Transition(ctx T, c *Cursor, targetID StateID) {
	if c.State == targetID {
		c.TimeInState = 0
		return
	}

	targetNode, ok := m.nodes[targetID]
	if !ok {
		panic(fmt.Sprintf("FSM: Attempted transition to unknown state ID %d", targetID))
	}

	if current, ok := m.nodes[c.State]; ok {
		if current.Terminal {
			return
		}
		for _, action := range current.OnExit {
			action.Func(ctx)
		}
	}

	c.State = targetID
	c.TimeInState = 0

	for _, action := range targetNode.OnEnter {
		action.Func(ctx)
	}
}

// StateName returns the configured name of a state
func (m *Machine[T]) StateName(id StateID) string {
	if node, ok := m.nodes[id]; ok {
		return node.Name
	}
	return ""
}

// StateByName resolves a configured name
func (m *Machine[T]) StateByName(name string) (StateID, bool) {
	for id, node := range m.nodes {
		if node.Name == name {
			return id, true
		}
	}
	return StateNone, false
}

// IsTerminal reports whether a state never transitions out
func (m *Machine[T]) IsTerminal(id StateID) bool {
	node, ok := m.nodes[id]
	return ok && node.Terminal
}
