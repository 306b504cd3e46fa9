package rrg

import (
	"fmt"
	"math"
)

// Quadrant is one of the four RRG regions.
type Quadrant int

// Quadrants in rotation order (clockwise from top-left).
const (
	Improving Quadrant = iota
	Leading
	Weakening
	Lagging
)

// Quadrants lists every quadrant in legend order.
var Quadrants = []Quadrant{Improving, Leading, Lagging, Weakening}

var quadrantNames = map[Quadrant]string{
	Improving: "improving",
	Leading:   "leading",
	Weakening: "weakening",
	Lagging:   "lagging",
}

var quadrantColors = map[Quadrant]string{
	Improving: "#0a84ff",
	Leading:   "#30d158",
	Weakening: "#ff9f0a",
	Lagging:   "#ff453a",
}

// Classify assigns a point to a quadrant. Values exactly on a neutral line
// belong to the upper or right side: ratio 100 counts as strong and momentum
// 0 counts as rising.
func Classify(ratio, momentum float64) Quadrant {
	strong := ratio >= NeutralRatio
	rising := momentum >= NeutralMomentum
	switch {
	case strong && rising:
		return Leading
	case strong:
		return Weakening
	case rising:
		return Improving
	default:
		return Lagging
	}
}

// String returns the lowercase quadrant name.
func (q Quadrant) String() string {
	if s, ok := quadrantNames[q]; ok {
		return s
	}
	return fmt.Sprintf("quadrant(%d)", int(q))
}

// Label returns the uppercase name used in legends and region labels.
func (q Quadrant) Label() string {
	switch q {
	case Improving:
		return "IMPROVING"
	case Leading:
		return "LEADING"
	case Weakening:
		return "WEAKENING"
	case Lagging:
		return "LAGGING"
	}
	return q.String()
}

// Color returns the quadrant's palette colour.
func (q Quadrant) Color() string {
	return quadrantColors[q]
}

// MarshalText encodes the quadrant as its lowercase name.
func (q Quadrant) MarshalText() ([]byte, error) {
	s, ok := quadrantNames[q]
	if !ok {
		return nil, fmt.Errorf("unknown quadrant %d", int(q))
	}
	return []byte(s), nil
}

// UnmarshalText decodes a lowercase quadrant name.
func (q *Quadrant) UnmarshalText(b []byte) error {
	v, err := ParseQuadrant(string(b))
	if err != nil {
		return err
	}
	*q = v
	return nil
}

// ParseQuadrant parses a lowercase quadrant name.
func ParseQuadrant(s string) (Quadrant, error) {
	for q, name := range quadrantNames {
		if name == s {
			return q, nil
		}
	}
	return 0, fmt.Errorf("unknown quadrant %q", s)
}

// Heading returns the sector's direction of travel in degrees, measured
// counter-clockwise from the positive ratio axis in [0, 360). The reference
// is the most recent tail point that differs from the current point; a
// sector without such a point has heading 0.
func (s Sector) Heading() float64 {
	cur := s.Point()
	for i := len(s.Tail) - 1; i >= 0; i-- {
		p := s.Tail[i]
		if p == cur {
			continue
		}
		deg := math.Atan2(cur.Momentum-p.Momentum, cur.Ratio-p.Ratio) * 180 / math.Pi
		if deg < 0 {
			deg += 360
		}
		return deg
	}
	return 0
}
