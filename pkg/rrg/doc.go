// Package rrg provides the geometry of a Relative Rotation Graph (RRG).
//
// # Overview
//
// An RRG plots each sector on two axes: RS-Ratio (relative strength, neutral
// at 100) on the horizontal axis and RS-Momentum (rate of change of that
// strength, neutral at 0) on the vertical axis. The two neutral lines divide
// the plane into four quadrants that sectors rotate through clockwise:
// improving, leading, weakening, lagging.
//
// This package turns already-computed sector analytics into screen geometry
// in four steps:
//
//  1. [ComputeDomain] derives a square domain centred on (100, 0) that
//     encloses every current and historical point.
//  2. [MapToScreen] (or a [Mapper]) maps domain points into the padded plot
//     rectangle of a [Frame].
//  3. [Resolver.Resolve] separates overlapping circular markers by iterative
//     pairwise relaxation and clamps them into the plot.
//  4. [Classify] assigns each sector to a [Quadrant].
//
// The package has no I/O and no shared state: every function is a pure
// function of its arguments, so callers may run layouts concurrently.
//
// # Usage
//
//	sectors := []rrg.Sector{
//	    {ID: "XLK", Ratio: 103.1, Momentum: 1.4},
//	    {ID: "XLE", Ratio: 97.2, Momentum: -0.8},
//	}
//	dom, err := rrg.ComputeDomain(sectors)
//	if err != nil {
//	    return err // errors.ErrCodeInsufficientData for an empty set
//	}
//	bounds := rrg.DefaultFrame().Bounds()
//	ideal := make([]rrg.Screen, len(sectors))
//	for i, s := range sectors {
//	    ideal[i] = rrg.MapToScreen(s.Point(), dom, bounds)
//	}
//	res := rrg.DefaultResolver().Resolve(ideal, bounds)
//
// # Collision Resolution
//
// Relaxation is a best-effort heuristic with a fixed round budget. With many
// markers in a small plot it can exhaust the budget before every pair is
// separated; [Resolution.Converged] reports whether it did. Clamping runs
// after relaxation, so a clamped marker may re-overlap a neighbour.
package rrg
