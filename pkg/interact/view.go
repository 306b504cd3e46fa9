package interact

import (
	"math"

	"github.com/matzehuels/rrgraph/pkg/layout"
	"github.com/matzehuels/rrgraph/pkg/rrg"
)

// Marker stroke widths and hover growth.
const (
	StrokeWidth      = 1.5
	HoverStrokeWidth = 2.5
	HoverGrowth      = 2.0
)

// Tooltip defaults.
const (
	DefaultTooltipWidth  = 155.0
	DefaultTooltipHeight = 72.0
	DefaultTooltipOffset = 12.0
)

// Options configures Render. Zero values select defaults.
type Options struct {
	TooltipWidth  float64
	TooltipHeight float64
	TooltipOffset float64
}

func (o Options) withDefaults() Options {
	if o.TooltipWidth <= 0 {
		o.TooltipWidth = DefaultTooltipWidth
	}
	if o.TooltipHeight <= 0 {
		o.TooltipHeight = DefaultTooltipHeight
	}
	if o.TooltipOffset <= 0 {
		o.TooltipOffset = DefaultTooltipOffset
	}
	return o
}

// View is the hover overlay for one frame. All fields are nil when idle.
type View struct {
	Emphasis *Emphasis    `json:"emphasis,omitempty"`
	Trail    []rrg.Screen `json:"trail,omitempty"`
	Tooltip  *Tooltip     `json:"tooltip,omitempty"`
}

// Active reports whether the view shows a hovered marker.
func (v View) Active() bool { return v.Emphasis != nil }

// Emphasis is the restyled hovered marker.
type Emphasis struct {
	ID          string  `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Radius      float64 `json:"radius"`
	StrokeWidth float64 `json:"strokeWidth"`
	Color       string  `json:"color"`
}

// Tooltip is the positioned tooltip box.
type Tooltip struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Flipped bool    `json:"flipped"`
	Payload Payload `json:"payload"`
}

// Payload is the data shown in the tooltip.
type Payload struct {
	SectorID       string       `json:"sectorId"`
	Name           string       `json:"name"`
	Ratio          float64      `json:"ratio"`
	Momentum       float64      `json:"momentum"`
	Quadrant       rrg.Quadrant `json:"quadrant"`
	HeadingDegrees float64      `json:"headingDegrees"`
	ChangePercent  float64      `json:"changePercent"`
}

// NewPayload builds the tooltip payload for a marker.
func NewPayload(m layout.Marker) Payload {
	return Payload{
		SectorID:       m.ID,
		Name:           m.DisplayName(),
		Ratio:          m.Ratio,
		Momentum:       m.Momentum,
		Quadrant:       m.Quadrant,
		HeadingDegrees: m.Heading,
		ChangePercent:  m.ChangePercent,
	}
}

// Render computes the hover overlay for the machine's current state. A
// hovered ID that is not in the layout (for example after a data refresh)
// renders as idle.
func Render(l layout.Layout, m *Machine, opts Options) View {
	id, ok := m.Hovered()
	if !ok {
		return View{}
	}
	mk, ok := l.Marker(id)
	if !ok {
		return View{}
	}
	opts = opts.withDefaults()

	return View{
		Emphasis: &Emphasis{
			ID:          mk.ID,
			X:           mk.X,
			Y:           mk.Y,
			Radius:      l.Radius + HoverGrowth,
			StrokeWidth: HoverStrokeWidth,
			Color:       mk.Quadrant.Color(),
		},
		Trail:   mk.Trail,
		Tooltip: placeTooltip(l.Frame, m.Pointer(), opts, NewPayload(mk)),
	}
}

// placeTooltip anchors the box beside the pointer. Past the horizontal
// midline of the frame the box flips to the pointer's left; vertically it is
// centred on the pointer and kept inside the frame.
func placeTooltip(f rrg.Frame, p rrg.Screen, opts Options, payload Payload) *Tooltip {
	w, h := opts.TooltipWidth, opts.TooltipHeight
	t := &Tooltip{Width: w, Height: h, Payload: payload}

	if p.X > f.Width/2 {
		t.Flipped = true
		t.X = p.X - opts.TooltipOffset - w
	} else {
		t.X = p.X + opts.TooltipOffset
	}

	t.Y = p.Y - h/2
	t.Y = math.Max(0, math.Min(t.Y, f.Height-h))
	return t
}
