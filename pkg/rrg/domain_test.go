package rrg

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/rrgraph/pkg/errors"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func TestComputeDomain(t *testing.T) {
	tests := []struct {
		name    string
		sectors []Sector
		opts    []DomainOption
		want    Domain
	}{
		{
			name:    "SingleNeutral",
			sectors: []Sector{{ID: "A", Ratio: 100, Momentum: 0}},
			want:    Domain{98.5, 101.5, -1.5, 1.5},
		},
		{
			name: "RatioDominates",
			sectors: []Sector{
				{ID: "A", Ratio: 110, Momentum: 1},
				{ID: "B", Ratio: 95, Momentum: -2},
			},
			want: Domain{88, 112, -12, 12},
		},
		{
			name: "MomentumDominates",
			sectors: []Sector{
				{ID: "A", Ratio: 101, Momentum: -5},
			},
			want: Domain{94, 106, -6, 6},
		},
		{
			name: "TailExtendsDomain",
			sectors: []Sector{
				{ID: "A", Ratio: 101, Momentum: 0.5, Tail: []Point{{90, 0}, {95, 0.2}}},
			},
			want: Domain{88, 112, -12, 12},
		},
		{
			name:    "MomentumFloorAboveRatio",
			sectors: []Sector{{ID: "A", Ratio: 100, Momentum: 0}},
			opts:    []DomainOption{WithMinSpread(0.5, 2)},
			want:    Domain{98, 102, -2, 2},
		},
		{
			name:    "CustomPadding",
			sectors: []Sector{{ID: "A", Ratio: 105, Momentum: 0}},
			opts:    []DomainOption{WithPadding(2)},
			want:    Domain{90, 110, -10, 10},
		},
		{
			name:    "IgnoresInvalidPadding",
			sectors: []Sector{{ID: "A", Ratio: 105, Momentum: 0}},
			opts:    []DomainOption{WithPadding(-1)},
			want:    Domain{94, 106, -6, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDomain(tt.sectors, tt.opts...)
			if err != nil {
				t.Fatalf("ComputeDomain: %v", err)
			}
			if !approx(got.RatioMin, tt.want.RatioMin) || !approx(got.RatioMax, tt.want.RatioMax) ||
				!approx(got.MomentumMin, tt.want.MomentumMin) || !approx(got.MomentumMax, tt.want.MomentumMax) {
				t.Errorf("ComputeDomain = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeDomainZeroFloors(t *testing.T) {
	d, err := ComputeDomain([]Sector{{ID: "A", Ratio: 100}}, WithMinSpread(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if d.Spread() != degenerateSpread {
		t.Errorf("Spread() = %v, want fallback %v", d.Spread(), degenerateSpread)
	}

	d, err = ComputeDomain([]Sector{{ID: "A", Ratio: 100, Momentum: 2}}, WithMinSpread(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if !approx(d.Spread(), 2.4) {
		t.Errorf("Spread() = %v, want padded momentum deviation 2.4", d.Spread())
	}
}

func TestComputeDomainEmpty(t *testing.T) {
	_, err := ComputeDomain(nil)
	if !errors.Is(err, errors.ErrCodeInsufficientData) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeInsufficientData)
	}
}

func TestComputeDomainSymmetric(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.IntN(12)
		sectors := make([]Sector, n)
		for i := range sectors {
			sectors[i] = Sector{
				ID:       string(rune('A' + i)),
				Ratio:    90 + rng.Float64()*20,
				Momentum: -8 + rng.Float64()*16,
			}
			for k := rng.IntN(6); k > 0; k-- {
				sectors[i].Tail = append(sectors[i].Tail, Point{
					Ratio:    90 + rng.Float64()*20,
					Momentum: -8 + rng.Float64()*16,
				})
			}
		}

		d, err := ComputeDomain(sectors)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		spread := d.RatioMax - NeutralRatio
		if !approx(NeutralRatio-d.RatioMin, spread) || !approx(d.MomentumMax, spread) || !approx(-d.MomentumMin, spread) {
			t.Fatalf("trial %d: domain not symmetric: %+v", trial, d)
		}
		for _, s := range sectors {
			if !inDomain(d, s.Point()) {
				t.Errorf("trial %d: %s %+v outside %+v", trial, s.ID, s.Point(), d)
			}
			for _, p := range s.Tail {
				if !inDomain(d, p) {
					t.Errorf("trial %d: %s tail %+v outside %+v", trial, s.ID, p, d)
				}
			}
		}
	}
}

func TestDomainTicks(t *testing.T) {
	d := Domain{98, 102, -2, 2}

	rt := d.RatioTicks(DefaultTickIntervals)
	want := []float64{98, 99, 100, 101, 102}
	if len(rt) != len(want) {
		t.Fatalf("RatioTicks len = %d, want %d", len(rt), len(want))
	}
	for i := range want {
		if !approx(rt[i], want[i]) {
			t.Errorf("RatioTicks[%d] = %v, want %v", i, rt[i], want[i])
		}
	}

	mt := d.MomentumTicks(DefaultTickIntervals)
	if !approx(mt[2], 0) {
		t.Errorf("MomentumTicks middle = %v, want 0", mt[2])
	}

	if got := d.RatioTicks(0); len(got) != 2 {
		t.Errorf("RatioTicks(0) len = %d, want 2", len(got))
	}
}

func inDomain(d Domain, p Point) bool {
	return p.Ratio >= d.RatioMin && p.Ratio <= d.RatioMax &&
		p.Momentum >= d.MomentumMin && p.Momentum <= d.MomentumMax
}
