package cli

import (
	"fmt"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/rrgraph/pkg/interact"
	"github.com/matzehuels/rrgraph/pkg/layout"
	"github.com/matzehuels/rrgraph/pkg/rrg"
)

func testLayout(t *testing.T) layout.Layout {
	t.Helper()
	sectors := []rrg.Sector{
		{ID: "XLK", Name: "Technology", Ratio: 102.4, Momentum: 1.3, ChangePercent: 0.8,
			Tail: []rrg.Point{{Ratio: 101.2, Momentum: 0.6}}},
		{ID: "XLE", Name: "Energy", Ratio: 97.8, Momentum: -1.1, Tail: []rrg.Point{}},
		{ID: "XLV", Name: "Health Care", Ratio: 99.1, Momentum: 0.7, Tail: []rrg.Point{}},
	}
	l, err := layout.Build(sectors, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func press(m *inspectModel, key tea.KeyType) {
	m.Update(tea.KeyMsg{Type: key})
}

func hovered(m *inspectModel) string {
	id, _ := m.machine.Hovered()
	return id
}

func TestInspectStepping(t *testing.T) {
	m := newInspectModel(testLayout(t))

	// Screen order is left to right: XLE, XLV, XLK.
	want := []string{"XLE", "XLV", "XLK"}
	for i, w := range want {
		if m.order[i] != w {
			t.Fatalf("order = %v, want %v", m.order, want)
		}
	}

	press(m, tea.KeyTab)
	if got := hovered(m); got != "XLE" {
		t.Fatalf("first tab hovered %q, want XLE", got)
	}
	press(m, tea.KeyTab)
	if got := hovered(m); got != "XLV" {
		t.Fatalf("second tab hovered %q, want XLV", got)
	}
	// Direct hand-over: Idle→XLE, XLE→XLV.
	if m.transitions != 2 {
		t.Errorf("transitions = %d, want 2", m.transitions)
	}

	press(m, tea.KeyShiftTab)
	press(m, tea.KeyShiftTab)
	if got := hovered(m); got != "XLK" {
		t.Errorf("wrap-around hovered %q, want XLK", got)
	}

	press(m, tea.KeyEsc)
	if _, ok := m.machine.State().(interact.Idle); !ok {
		t.Errorf("esc should leave the marker, state = %#v", m.machine.State())
	}
}

func TestInspectMouse(t *testing.T) {
	l := testLayout(t)
	m := newInspectModel(l)

	mk, _ := l.Marker("XLK")
	col, row := m.screenToCell(mk.Center())
	m.Update(tea.MouseMsg{X: col, Y: row + headerLines, Action: tea.MouseActionMotion})
	if got := hovered(m); got != "XLK" {
		t.Fatalf("mouse over XLK hovered %q", got)
	}
	if m.order[m.cursor] != "XLK" {
		t.Errorf("cursor not synced to mouse hover")
	}

	// Far corner: nothing there.
	m.Update(tea.MouseMsg{X: 0, Y: headerLines, Action: tea.MouseActionMotion})
	if got := hovered(m); got != "" {
		t.Errorf("empty cell left %q hovered", got)
	}
}

func TestInspectView(t *testing.T) {
	m := newInspectModel(testLayout(t))

	idle := m.View()
	if !strings.Contains(idle, "Quadrants") {
		t.Error("idle view should show the quadrant legend")
	}

	press(m, tea.KeyTab)
	view := m.View()
	for _, want := range []string{"XLE", "Energy", "LAGGING", "RS-Ratio"} {
		if !strings.Contains(view, want) {
			t.Errorf("hover view missing %q", want)
		}
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestInspectEmptyLayout(t *testing.T) {
	m := newInspectModel(layout.Layout{Frame: rrg.DefaultFrame()})
	press(m, tea.KeyTab)
	if got := hovered(m); got != "" {
		t.Errorf("empty layout hovered %q", got)
	}
	_ = m.View()
}

func TestInspectPointerValue(t *testing.T) {
	l := testLayout(t)
	m := newInspectModel(l)

	if got := m.pointerLine(); got != "" {
		t.Errorf("no mouse yet, pointer line = %q", got)
	}

	col, row := m.screenToCell(l.Crosshair)
	m.Update(tea.MouseMsg{X: col, Y: row + headerLines, Action: tea.MouseActionMotion})
	v := l.Mapper().Unmap(m.cellToScreen(col, row))
	want := fmt.Sprintf("%.2f / %+.2f", v.Ratio, v.Momentum)
	if !strings.Contains(m.pointerLine(), want) {
		t.Errorf("pointer line %q missing %q", m.pointerLine(), want)
	}
	if !strings.Contains(m.View(), want) {
		t.Errorf("view missing pointer value %q", want)
	}
	// The crosshair cell stays near neutral.
	if math.Abs(v.Ratio-rrg.NeutralRatio) > l.Domain.Spread() || math.Abs(v.Momentum) > l.Domain.Spread() {
		t.Errorf("crosshair cell maps to %+v, far from neutral", v)
	}

	// Top-left cell is inside the padding.
	m.Update(tea.MouseMsg{X: 0, Y: headerLines, Action: tea.MouseActionMotion})
	if got := m.pointerLine(); got != "" {
		t.Errorf("pointer in padding reported %q", got)
	}
}
