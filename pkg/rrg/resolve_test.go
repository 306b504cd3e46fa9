package rrg

import (
	"math"
	"math/rand/v2"
	"testing"
)

func dist(a, b Screen) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func TestResolveCoincidentPair(t *testing.T) {
	r := DefaultResolver()
	b := DefaultFrame().Bounds()
	ideal := []Screen{{200, 200}, {200, 200}}

	res := r.Resolve(ideal, b)

	if got := res.Positions[0]; got != (Screen{180, 200}) {
		t.Errorf("Positions[0] = %+v, want {180 200}", got)
	}
	if got := res.Positions[1]; got != (Screen{220, 200}) {
		t.Errorf("Positions[1] = %+v, want {220 200}", got)
	}
	if dx := res.Positions[1].X - res.Positions[0].X; dx != 40 {
		t.Errorf("horizontal separation = %v, want 40", dx)
	}
	if !res.Converged || res.Rounds != 2 {
		t.Errorf("Converged=%v Rounds=%d, want true/2", res.Converged, res.Rounds)
	}
	if ideal[0] != (Screen{200, 200}) {
		t.Error("Resolve modified its input")
	}
}

func TestResolveCoincidentPairAtWall(t *testing.T) {
	r := DefaultResolver()
	b := DefaultFrame().Bounds()
	wall := b.Right() - r.Radius
	ideal := []Screen{{wall - 5, 200}, {wall - 5, 200}}

	res := r.Resolve(ideal, b)

	if got := res.Positions[1]; got != (Screen{wall, 200}) {
		t.Errorf("Positions[1] = %+v, want pinned at {%v 200}", got, wall)
	}
	if got := res.Positions[0]; !approx(got.X, wall-40) || got.Y != 200 {
		t.Errorf("Positions[0] = %+v, want {%v 200}", got, wall-40)
	}
	if !res.Converged {
		t.Error("pair against a wall should still converge")
	}
}

func TestResolveClusterInCorner(t *testing.T) {
	r := DefaultResolver()
	b := DefaultFrame().Bounds()
	corner := Screen{b.Right(), b.Top}
	ideal := []Screen{corner, corner, corner, corner}

	res := r.Resolve(ideal, b)
	if !res.Converged {
		t.Skip("budget exhausted; separation is best effort")
	}
	for i := range res.Positions {
		for j := i + 1; j < len(res.Positions); j++ {
			if d := dist(res.Positions[i], res.Positions[j]); d < r.MinDistance()-1e-6 {
				t.Errorf("markers %d,%d at distance %.3f after clamp", i, j, d)
			}
		}
	}
}

func TestResolveSingleMarker(t *testing.T) {
	r := DefaultResolver()
	b := DefaultFrame().Bounds()

	res := r.Resolve([]Screen{b.Center()}, b)
	if res.Positions[0] != b.Center() {
		t.Errorf("Positions[0] = %+v, want %+v", res.Positions[0], b.Center())
	}
	if res.Rounds != 0 || !res.Converged {
		t.Errorf("Rounds=%d Converged=%v, want 0/true", res.Rounds, res.Converged)
	}

	res = r.Resolve([]Screen{{0, 1000}}, b)
	want := Screen{b.Left + r.Radius, b.Bottom() - r.Radius}
	if res.Positions[0] != want {
		t.Errorf("out of bounds marker = %+v, want %+v", res.Positions[0], want)
	}
}

func TestResolveEmpty(t *testing.T) {
	res := DefaultResolver().Resolve(nil, DefaultFrame().Bounds())
	if len(res.Positions) != 0 || !res.Converged {
		t.Errorf("Resolve(nil) = %+v", res)
	}
}

func TestResolvePartialOverlap(t *testing.T) {
	r := DefaultResolver()
	b := Bounds{Left: 0, Top: 0, Width: 1000, Height: 1000}

	res := r.Resolve([]Screen{{500, 500}, {500, 530}}, b)
	// Pushed apart along the vertical axis by (40-30)/2 each.
	if p := res.Positions[0]; !approx(p.X, 500) || !approx(p.Y, 495) {
		t.Errorf("Positions[0] = %+v, want {500 495}", p)
	}
	if p := res.Positions[1]; !approx(p.X, 500) || !approx(p.Y, 535) {
		t.Errorf("Positions[1] = %+v, want {500 535}", p)
	}
}

func TestResolveSeparation(t *testing.T) {
	r := DefaultResolver()
	b := Bounds{Left: 0, Top: 0, Width: 2000, Height: 2000}
	rng := rand.New(rand.NewPCG(1, 2))

	for trial := 0; trial < 100; trial++ {
		n := 2 + rng.IntN(11)
		ideal := make([]Screen, n)
		for i := range ideal {
			ideal[i] = Screen{900 + rng.Float64()*200, 900 + rng.Float64()*200}
		}

		res := r.Resolve(ideal, b)
		if len(res.Positions) != n {
			t.Fatalf("trial %d: %d positions, want %d", trial, len(res.Positions), n)
		}
		if res.Rounds > r.Rounds {
			t.Fatalf("trial %d: used %d rounds, budget %d", trial, res.Rounds, r.Rounds)
		}
		if !res.Converged {
			continue
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if d := dist(res.Positions[i], res.Positions[j]); d < r.MinDistance()-1e-6 {
					t.Errorf("trial %d: markers %d,%d at distance %.3f < %.1f", trial, i, j, d, r.MinDistance())
				}
			}
		}
	}
}

func TestResolveClamp(t *testing.T) {
	r := DefaultResolver()
	b := DefaultFrame().Bounds()
	rng := rand.New(rand.NewPCG(3, 4))

	ideal := make([]Screen, 12)
	for i := range ideal {
		ideal[i] = Screen{-100 + rng.Float64()*700, -100 + rng.Float64()*600}
	}
	res := r.Resolve(ideal, b)
	for i, p := range res.Positions {
		if p.X < b.Left+r.Radius || p.X > b.Right()-r.Radius ||
			p.Y < b.Top+r.Radius || p.Y > b.Bottom()-r.Radius {
			t.Errorf("Positions[%d] = %+v escapes %+v", i, p, b)
		}
	}
}

func TestResolveBudgetExhausted(t *testing.T) {
	r := Resolver{Radius: 18, Gap: 4, Rounds: 1}
	b := Bounds{Left: 0, Top: 0, Width: 1000, Height: 1000}

	// Three coincident markers cannot be separated in a single round.
	res := r.Resolve([]Screen{{500, 500}, {500, 500}, {500, 500}}, b)
	if res.Converged {
		t.Error("Converged = true, want false")
	}
	if res.Rounds != 1 {
		t.Errorf("Rounds = %d, want 1", res.Rounds)
	}
}

func TestClampRangeInverted(t *testing.T) {
	if got := clampRange(5, 10, 0); got != 5 {
		t.Errorf("clampRange inverted = %v, want midpoint 5", got)
	}
}
