// Package state drives the top level of the game: which screen is active and how
// the game moves between them.
package state

import (
	"fmt"

	"go.uber.org/zap"
)

// State is one screen of the game. Each state owns its world and scheduler.
type State interface {
	// Update advances the state by one tick and reports what should happen next.
	Update(dt float64) Event
	// Finished reports whether the state wants the game to end.
	Finished() bool
	// Exit releases what the state holds. It is called once, when the state is left.
	Exit()
}

// EventKind tells the machine what to do after a tick.
type EventKind int

const (
	EventNone EventKind = iota
	EventShutdown
	EventChangeState
)

func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "none"
	case EventShutdown:
		return "shutdown"
	case EventChangeState:
		return "change state"
	}
	return "unknown"
}

// Event is returned by State.Update.
type Event struct {
	Kind EventKind
	Next State
}

// None keeps the current state.
func None() Event { return Event{} }

// Shutdown ends the game.
func Shutdown() Event { return Event{Kind: EventShutdown} }

// ChangeState replaces the current state with next.
func ChangeState(next State) Event { return Event{Kind: EventChangeState, Next: next} }

// Machine holds the active state.
type Machine struct {
	current State
	log     *zap.Logger
}

// NewMachine starts with initial as the active state.
func NewMachine(initial State, log *zap.Logger) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Machine{current: initial, log: log}
}

// Current returns the active state, or nil once the machine has stopped.
func (m *Machine) Current() State {
	return m.current
}

// Running reports whether there is an active state.
func (m *Machine) Running() bool {
	return m.current != nil
}

// Update ticks the active state and applies the event it returns. It reports false
// once the machine has stopped, either on Shutdown or because the state finished.
func (m *Machine) Update(dt float64) bool {
	if m.current == nil {
		return false
	}

	event := m.current.Update(dt)
	switch event.Kind {
	case EventShutdown:
		m.Stop("shutdown requested")
		return false
	case EventChangeState:
		if event.Next == nil {
			m.log.Warn("state change without a next state ignored")
			break
		}
		m.log.Info("changing state", zap.String("from", describe(m.current)), zap.String("to", describe(event.Next)))
		m.current.Exit()
		m.current = event.Next
	}

	if m.current.Finished() {
		m.Stop("state finished")
		return false
	}
	return true
}

// Stop exits the active state.
func (m *Machine) Stop(reason string) {
	if m.current == nil {
		return
	}
	m.log.Info("stopping", zap.String("reason", reason), zap.String("state", describe(m.current)))
	m.current.Exit()
	m.current = nil
}

func describe(s State) string {
	if str, ok := s.(fmt.Stringer); ok {
		return str.String()
	}
	return fmt.Sprintf("%T", s)
}
