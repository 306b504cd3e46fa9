package rrg

import (
	"testing"
)

func TestFrameBounds(t *testing.T) {
	b := DefaultFrame().Bounds()
	want := Bounds{Left: 55, Top: 30, Width: 415, Height: 315}
	if b != want {
		t.Errorf("Bounds = %+v, want %+v", b, want)
	}
	if b.Right() != 470 || b.Bottom() != 345 {
		t.Errorf("Right/Bottom = %v/%v, want 470/345", b.Right(), b.Bottom())
	}
}

func TestMapToScreen(t *testing.T) {
	d := Domain{90, 110, -10, 10}
	b := Bounds{Left: 10, Top: 20, Width: 200, Height: 100}

	tests := []struct {
		name string
		p    Point
		want Screen
	}{
		{"Center", Point{100, 0}, Screen{110, 70}},
		{"TopLeft", Point{90, 10}, Screen{10, 20}},
		{"BottomRight", Point{110, -10}, Screen{210, 120}},
		{"OutsideNotClamped", Point{120, 20}, Screen{310, -30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapToScreen(tt.p, d, b)
			if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) {
				t.Errorf("MapToScreen(%+v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestMapToScreenMonotonic(t *testing.T) {
	d := Domain{95, 105, -5, 5}
	b := DefaultFrame().Bounds()

	prev := MapToScreen(Point{95, 0}, d, b)
	for r := 95.5; r <= 105; r += 0.5 {
		cur := MapToScreen(Point{r, 0}, d, b)
		if cur.X <= prev.X {
			t.Fatalf("x not increasing at ratio %v: %v <= %v", r, cur.X, prev.X)
		}
		prev = cur
	}

	prev = MapToScreen(Point{100, -5}, d, b)
	for m := -4.5; m <= 5; m += 0.5 {
		cur := MapToScreen(Point{100, m}, d, b)
		if cur.Y >= prev.Y {
			t.Fatalf("y not decreasing at momentum %v: %v >= %v", m, cur.Y, prev.Y)
		}
		prev = cur
	}
}

func TestMapperUnmap(t *testing.T) {
	m := Mapper{Domain: Domain{97, 103, -3, 3}, Bounds: DefaultFrame().Bounds()}
	for _, p := range []Point{{100, 0}, {97, 3}, {102.25, -1.75}} {
		got := m.Unmap(m.Map(p))
		if !approx(got.Ratio, p.Ratio) || !approx(got.Momentum, p.Momentum) {
			t.Errorf("Unmap(Map(%+v)) = %+v", p, got)
		}
	}
}
