package interact

import "github.com/matzehuels/rrgraph/pkg/rrg"

// State is the hover state: either Idle or Hovering.
type State interface {
	isState()
}

// Idle means no marker is hovered.
type Idle struct{}

// Hovering means the marker with ID is hovered.
type Hovering struct {
	ID string
}

func (Idle) isState()     {}
func (Hovering) isState() {}

// Machine is the single-slot hover state machine.
type Machine struct {
	state   State
	pointer rrg.Screen

	// OnTransition, if set, is called after every state change.
	OnTransition func(from, to State)
}

// NewMachine returns a machine in the Idle state.
func NewMachine() *Machine {
	return &Machine{state: Idle{}}
}

// State returns the current state.
func (m *Machine) State() State {
	if m.state == nil {
		return Idle{}
	}
	return m.state
}

// Pointer returns the last known pointer position.
func (m *Machine) Pointer() rrg.Screen {
	return m.pointer
}

// Hovered returns the hovered sector ID, if any.
func (m *Machine) Hovered() (string, bool) {
	if h, ok := m.State().(Hovering); ok {
		return h.ID, true
	}
	return "", false
}

// Enter handles the pointer entering marker id. Entering a marker while
// another is hovered replaces it without passing through Idle.
func (m *Machine) Enter(id string, pointer rrg.Screen) {
	m.pointer = pointer
	if cur, ok := m.Hovered(); ok && cur == id {
		return
	}
	m.transition(Hovering{ID: id})
}

// Leave handles the pointer leaving marker id. A leave for a marker that is
// not the hovered one is stale and ignored.
func (m *Machine) Leave(id string) {
	if cur, ok := m.Hovered(); !ok || cur != id {
		return
	}
	m.transition(Idle{})
}

// Move updates the pointer position. It does not change the state.
func (m *Machine) Move(pointer rrg.Screen) {
	m.pointer = pointer
}

// Reset returns the machine to Idle, e.g. when the pointer leaves the chart.
func (m *Machine) Reset() {
	if _, ok := m.Hovered(); !ok {
		return
	}
	m.transition(Idle{})
}

func (m *Machine) transition(to State) {
	from := m.State()
	m.state = to
	if m.OnTransition != nil {
		m.OnTransition(from, to)
	}
}
