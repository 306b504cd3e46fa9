package rrg

// Screen is a pixel position. Y grows downward.
type Screen struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Bounds is the padded plot rectangle in pixels.
type Bounds struct {
	Left   float64 `json:"left" msgpack:"left"`
	Top    float64 `json:"top" msgpack:"top"`
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
}

// Right returns the x coordinate of the right edge.
func (b Bounds) Right() float64 { return b.Left + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b Bounds) Bottom() float64 { return b.Top + b.Height }

// Center returns the midpoint of the rectangle.
func (b Bounds) Center() Screen {
	return Screen{X: b.Left + b.Width/2, Y: b.Top + b.Height/2}
}

// Contains reports whether s lies inside the rectangle, edges included.
func (b Bounds) Contains(s Screen) bool {
	return s.X >= b.Left && s.X <= b.Right() && s.Y >= b.Top && s.Y <= b.Bottom()
}

// Insets are per-side paddings between the frame edge and the plot.
type Insets struct {
	Top    float64 `json:"top" msgpack:"top"`
	Right  float64 `json:"right" msgpack:"right"`
	Bottom float64 `json:"bottom" msgpack:"bottom"`
	Left   float64 `json:"left" msgpack:"left"`
}

// Frame is the full drawing surface. Axis labels and ticks live in the
// padding, markers live in Bounds.
type Frame struct {
	Width   float64 `json:"width" msgpack:"width"`
	Height  float64 `json:"height" msgpack:"height"`
	Padding Insets  `json:"padding" msgpack:"padding"`
}

// Default frame geometry.
const (
	DefaultFrameWidth  = 500.0
	DefaultFrameHeight = 400.0
)

// DefaultInsets leaves room for tick labels on the left and bottom.
var DefaultInsets = Insets{Top: 30, Right: 30, Bottom: 55, Left: 55}

// DefaultFrame returns the standard 500x400 frame.
func DefaultFrame() Frame {
	return Frame{Width: DefaultFrameWidth, Height: DefaultFrameHeight, Padding: DefaultInsets}
}

// Bounds returns the plot rectangle inside the padding.
func (f Frame) Bounds() Bounds {
	return Bounds{
		Left:   f.Padding.Left,
		Top:    f.Padding.Top,
		Width:  f.Width - f.Padding.Left - f.Padding.Right,
		Height: f.Height - f.Padding.Top - f.Padding.Bottom,
	}
}

// MapToScreen maps a domain point into bounds. Ratio grows to the right and
// momentum grows upward. Points outside the domain map outside bounds; no
// clamping happens here.
func MapToScreen(p Point, d Domain, b Bounds) Screen {
	return Screen{
		X: b.Left + (p.Ratio-d.RatioMin)/(d.RatioMax-d.RatioMin)*b.Width,
		Y: b.Top + (d.MomentumMax-p.Momentum)/(d.MomentumMax-d.MomentumMin)*b.Height,
	}
}

// Mapper binds a domain to bounds for repeated mapping.
type Mapper struct {
	Domain Domain
	Bounds Bounds
}

// Map converts a domain point to a screen position.
func (m Mapper) Map(p Point) Screen {
	return MapToScreen(p, m.Domain, m.Bounds)
}

// Unmap converts a screen position back to a domain point.
func (m Mapper) Unmap(s Screen) Point {
	d, b := m.Domain, m.Bounds
	return Point{
		Ratio:    d.RatioMin + (s.X-b.Left)/b.Width*(d.RatioMax-d.RatioMin),
		Momentum: d.MomentumMax - (s.Y-b.Top)/b.Height*(d.MomentumMax-d.MomentumMin),
	}
}
