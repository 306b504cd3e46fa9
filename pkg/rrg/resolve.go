package rrg

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Resolver defaults.
const (
	DefaultRadius = 18.0
	DefaultGap    = 4.0
	DefaultRounds = 20
)

// Resolver separates overlapping circular markers of a common radius.
type Resolver struct {
	Radius float64 // marker radius in pixels
	Gap    float64 // minimum empty space between two markers
	Rounds int     // relaxation round budget
}

// DefaultResolver returns a Resolver with radius 18, gap 4 and 20 rounds.
func DefaultResolver() Resolver {
	return Resolver{Radius: DefaultRadius, Gap: DefaultGap, Rounds: DefaultRounds}
}

// MinDistance is the centre-to-centre distance at which two markers stop
// overlapping.
func (r Resolver) MinDistance() float64 {
	return 2*r.Radius + r.Gap
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	Positions []Screen `json:"positions" msgpack:"positions"`
	Rounds    int      `json:"rounds" msgpack:"rounds"`
	Converged bool     `json:"converged" msgpack:"converged"`
}

// Resolve pushes overlapping markers apart and clamps every marker inside
// bounds shrunk by the radius. The returned positions are index-aligned with
// ideal, which is not modified.
//
// Each round visits every pair (i, j) with i < j in input order. A pair
// closer than MinDistance is pushed apart symmetrically along the line
// joining them; an exactly coincident pair is split horizontally, i to the
// left and j to the right. Markers are held inside the bounds after every
// push, and when a wall absorbs part of a push the free marker of the pair
// takes the remainder. Relaxation stops after the first round with no
// correction, or when the budget runs out.
func (r Resolver) Resolve(ideal []Screen, b Bounds) Resolution {
	pos := make([]r2.Vec, len(ideal))
	for i, s := range ideal {
		pos[i] = r2.Vec{X: s.X, Y: s.Y}
	}

	res := Resolution{Converged: true}
	if len(pos) > 1 {
		res.Rounds, res.Converged = r.relax(pos, b)
	}

	res.Positions = make([]Screen, len(pos))
	for i, p := range pos {
		res.Positions[i] = r.clamp(p, b)
	}
	return res
}

// separationTolerance absorbs floating point error in pair distances.
const separationTolerance = 1e-9

func (r Resolver) relax(pos []r2.Vec, b Bounds) (rounds int, converged bool) {
	minD := r.MinDistance()
	for rounds < r.Rounds {
		rounds++
		moved := false
		for i := 0; i < len(pos); i++ {
			for j := i + 1; j < len(pos); j++ {
				if r.separate(pos, i, j, minD, b) {
					moved = true
				}
			}
		}
		if !moved {
			return rounds, true
		}
	}
	return rounds, false
}

// separate pushes pos[i] and pos[j] apart if they are closer than minD and
// reports whether it moved them.
func (r Resolver) separate(pos []r2.Vec, i, j int, minD float64, b Bounds) bool {
	delta := r2.Sub(pos[j], pos[i])
	d := r2.Norm(delta)
	if d >= minD-separationTolerance {
		return false
	}

	dir := r2.Vec{X: 1}
	if d > 0 {
		dir = r2.Unit(delta)
	}
	push := r2.Scale((minD-d)/2, dir)
	pos[i] = r.pin(r2.Sub(pos[i], push), b)
	pos[j] = r.pin(r2.Add(pos[j], push), b)

	// A wall took part of the push: move i back further, then j.
	if short := minD - r2.Dot(r2.Sub(pos[j], pos[i]), dir); short > separationTolerance {
		pos[i] = r.pin(r2.Sub(pos[i], r2.Scale(short, dir)), b)
	}
	if short := minD - r2.Dot(r2.Sub(pos[j], pos[i]), dir); short > separationTolerance {
		pos[j] = r.pin(r2.Add(pos[j], r2.Scale(short, dir)), b)
	}
	return true
}

func (r Resolver) pin(p r2.Vec, b Bounds) r2.Vec {
	s := r.clamp(p, b)
	return r2.Vec{X: s.X, Y: s.Y}
}

func (r Resolver) clamp(p r2.Vec, b Bounds) Screen {
	return Screen{
		X: clampRange(p.X, b.Left+r.Radius, b.Right()-r.Radius),
		Y: clampRange(p.Y, b.Top+r.Radius, b.Bottom()-r.Radius),
	}
}

// clampRange limits v to [lo, hi]. When the range is inverted (bounds
// narrower than a marker) the midpoint is used.
func clampRange(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Min(math.Max(v, lo), hi)
}
