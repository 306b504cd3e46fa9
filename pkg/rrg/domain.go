package rrg

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/rrgraph/pkg/errors"
)

// Domain defaults.
const (
	DefaultPadding           = 1.2
	DefaultMinRatioSpread    = 1.5
	DefaultMinMomentumSpread = 1.0
	DefaultTickIntervals     = 4

	// degenerateSpread is used when the data and the floors give no extent.
	degenerateSpread = 1.0
)

// Domain is the visible value range. It is always symmetric about
// (NeutralRatio, NeutralMomentum) with equal half-extent on both axes.
type Domain struct {
	RatioMin    float64 `json:"rs_ratio_min" msgpack:"rs_ratio_min"`
	RatioMax    float64 `json:"rs_ratio_max" msgpack:"rs_ratio_max"`
	MomentumMin float64 `json:"rs_momentum_min" msgpack:"rs_momentum_min"`
	MomentumMax float64 `json:"rs_momentum_max" msgpack:"rs_momentum_max"`
}

// Spread returns the half-extent of the domain.
func (d Domain) Spread() float64 {
	return (d.RatioMax - d.RatioMin) / 2
}

// RatioTicks returns n+1 evenly spaced ratio values from RatioMin to RatioMax.
func (d Domain) RatioTicks(n int) []float64 {
	return ticks(d.RatioMin, d.RatioMax, n)
}

// MomentumTicks returns n+1 evenly spaced momentum values from MomentumMin
// to MomentumMax.
func (d Domain) MomentumTicks(n int) []float64 {
	return ticks(d.MomentumMin, d.MomentumMax, n)
}

func ticks(lo, hi float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	out := make([]float64, n+1)
	floats.Span(out, lo, hi)
	return out
}

// DomainOption configures ComputeDomain.
type DomainOption func(*domainConfig)

type domainConfig struct {
	padding           float64
	minRatioSpread    float64
	minMomentumSpread float64
}

// WithPadding sets the multiplier applied to the largest deviation.
// Values <= 0 are ignored.
func WithPadding(p float64) DomainOption {
	return func(c *domainConfig) {
		if p > 0 {
			c.padding = p
		}
	}
}

// WithMinSpread sets the spread floors for each axis. Negative values are
// ignored.
func WithMinSpread(ratio, momentum float64) DomainOption {
	return func(c *domainConfig) {
		if ratio >= 0 {
			c.minRatioSpread = ratio
		}
		if momentum >= 0 {
			c.minMomentumSpread = momentum
		}
	}
}

// ComputeDomain derives the domain enclosing every current and tail point of
// sectors. The half-extent is the largest padded deviation from neutral over
// both axes, floored per axis so a flat data set still gets a readable plot.
//
// Returns an error with code errors.ErrCodeInsufficientData when sectors is
// empty.
func ComputeDomain(sectors []Sector, opts ...DomainOption) (Domain, error) {
	if len(sectors) == 0 {
		return Domain{}, errors.InsufficientData()
	}

	cfg := domainConfig{
		padding:           DefaultPadding,
		minRatioSpread:    DefaultMinRatioSpread,
		minMomentumSpread: DefaultMinMomentumSpread,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var ratios, moms []float64
	for _, s := range sectors {
		ratios = append(ratios, s.Ratio)
		moms = append(moms, s.Momentum)
		for _, p := range s.Tail {
			ratios = append(ratios, p.Ratio)
			moms = append(moms, p.Momentum)
		}
	}

	ratioDev := math.Max(floats.Max(ratios)-NeutralRatio, NeutralRatio-floats.Min(ratios))
	momDev := math.Max(math.Abs(floats.Max(moms)), math.Abs(floats.Min(moms)))

	ratioSpread := math.Max(ratioDev*cfg.padding, cfg.minRatioSpread)
	momSpread := math.Max(momDev*cfg.padding, cfg.minMomentumSpread)
	spread := math.Max(ratioSpread, momSpread)
	if spread <= 0 {
		// Zero floors with every point at neutral.
		spread = degenerateSpread
	}

	return Domain{
		RatioMin:    NeutralRatio - spread,
		RatioMax:    NeutralRatio + spread,
		MomentumMin: NeutralMomentum - spread,
		MomentumMax: NeutralMomentum + spread,
	}, nil
}
