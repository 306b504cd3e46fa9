package interact

import (
	"testing"

	"github.com/matzehuels/rrgraph/pkg/rrg"
)

func recorder(m *Machine) *[]State {
	var seen []State
	m.OnTransition = func(_, to State) { seen = append(seen, to) }
	return &seen
}

func TestMachineEnterLeave(t *testing.T) {
	m := NewMachine()
	if _, ok := m.State().(Idle); !ok {
		t.Fatalf("initial state = %#v, want Idle", m.State())
	}

	m.Enter("XLK", rrg.Screen{X: 10, Y: 20})
	if id, ok := m.Hovered(); !ok || id != "XLK" {
		t.Fatalf("Hovered() = %q, %v, want XLK, true", id, ok)
	}
	if m.Pointer() != (rrg.Screen{X: 10, Y: 20}) {
		t.Errorf("Pointer() = %+v", m.Pointer())
	}

	m.Leave("XLK")
	if _, ok := m.State().(Idle); !ok {
		t.Errorf("state after leave = %#v, want Idle", m.State())
	}
}

func TestMachineDirectHandOver(t *testing.T) {
	m := NewMachine()
	seen := recorder(m)

	m.Enter("A", rrg.Screen{X: 100, Y: 100})
	m.Enter("B", rrg.Screen{X: 130, Y: 100})
	// The browser delivers A's leave after B's enter.
	m.Leave("A")

	want := []State{Hovering{ID: "A"}, Hovering{ID: "B"}}
	if len(*seen) != len(want) {
		t.Fatalf("transitions = %#v, want %#v", *seen, want)
	}
	for i := range want {
		if (*seen)[i] != want[i] {
			t.Errorf("transition %d = %#v, want %#v", i, (*seen)[i], want[i])
		}
	}
	if id, _ := m.Hovered(); id != "B" {
		t.Errorf("Hovered() = %q, want B", id)
	}
}

func TestMachineIgnoresRedundantEvents(t *testing.T) {
	m := NewMachine()
	seen := recorder(m)

	m.Leave("A")
	m.Reset()
	m.Enter("A", rrg.Screen{})
	m.Enter("A", rrg.Screen{X: 5})
	m.Move(rrg.Screen{X: 7, Y: 8})

	if len(*seen) != 1 {
		t.Errorf("transitions = %#v, want a single enter", *seen)
	}
	if m.Pointer() != (rrg.Screen{X: 7, Y: 8}) {
		t.Errorf("Pointer() = %+v, want {7 8}", m.Pointer())
	}

	m.Reset()
	if _, ok := m.Hovered(); ok {
		t.Error("Reset did not return to Idle")
	}
}

func TestMachineZeroValue(t *testing.T) {
	var m Machine
	if _, ok := m.State().(Idle); !ok {
		t.Errorf("zero Machine state = %#v, want Idle", m.State())
	}
	m.Enter("X", rrg.Screen{})
	if id, ok := m.Hovered(); !ok || id != "X" {
		t.Errorf("Hovered() = %q, %v", id, ok)
	}
}
