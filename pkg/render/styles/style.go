package styles

import "bytes"

// Style defines the visual appearance of an RRG.
type Style interface {
	// Name returns the style's registered name.
	Name() string
	// RenderDefs writes SVG <defs> and shared CSS.
	RenderDefs(buf *bytes.Buffer)
	// RenderBackground fills the whole frame.
	RenderBackground(buf *bytes.Buffer, width, height float64)
	// RenderRegion writes one quadrant background rectangle and its label.
	RenderRegion(buf *bytes.Buffer, r Region)
	// RenderGridLine writes a tick grid line.
	RenderGridLine(buf *bytes.Buffer, l Line)
	// RenderCrosshair writes one of the two neutral axis lines.
	RenderCrosshair(buf *bytes.Buffer, l Line)
	// RenderTickLabel writes an axis tick label.
	RenderTickLabel(buf *bytes.Buffer, t Text)
	// RenderAxisTitle writes an axis title.
	RenderAxisTitle(buf *bytes.Buffer, t Text)
	// RenderTrail writes a marker's trailing path.
	RenderTrail(buf *bytes.Buffer, t Trail)
	// RenderMarker writes a marker circle and its label.
	RenderMarker(buf *bytes.Buffer, m Marker)
	// RenderTooltip writes tooltip content at the local origin. The caller
	// positions it with a transform.
	RenderTooltip(buf *bytes.Buffer, t Tooltip)
	// RenderLegendItem writes one legend entry.
	RenderLegendItem(buf *bytes.Buffer, l LegendItem)
}

// Region is a quadrant background rectangle.
type Region struct {
	Label      string
	Color      string
	X, Y, W, H float64
	LabelX     float64
	LabelY     float64
	LabelAlign string // "start" or "end"
}

// Line is a straight line segment.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// Text is a positioned label.
type Text struct {
	X, Y   float64
	Text   string
	Anchor string  // "start", "middle" or "end"
	Rotate float64 // degrees around (X, Y)
}

// Point is a polyline vertex.
type Point struct {
	X, Y float64
}

// Trail is a marker's trailing path.
type Trail struct {
	ID      string
	Color   string
	Points  []Point
	Visible bool
}

// Marker is a sector bubble.
type Marker struct {
	ID          string
	Label       string
	X, Y, R     float64
	Color       string
	StrokeWidth float64
	Hovered     bool
}

// Tooltip is the hover card content.
type Tooltip struct {
	ID          string
	W, H        float64
	Title       string
	Values      string // ratio and momentum line
	Quadrant    string // quadrant and heading line
	QuadColor   string
	Change      string
	ChangeColor string
}

// LegendItem is a legend swatch and label.
type LegendItem struct {
	X, Y  float64
	Label string
	Color string
	Count int
}
