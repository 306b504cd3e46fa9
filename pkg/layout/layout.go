package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/rrgraph/pkg/errors"
	"github.com/matzehuels/rrgraph/pkg/rrg"
)

// =============================================================================
// Layout - Drawable RRG
// =============================================================================

// Layout is the complete set of drawable primitives for one sector set.
type Layout struct {
	Frame  rrg.Frame  `json:"frame" msgpack:"frame"`
	Bounds rrg.Bounds `json:"bounds" msgpack:"bounds"`
	Domain rrg.Domain `json:"domain" msgpack:"domain"`
	Radius float64    `json:"radius" msgpack:"radius"`
	Style  string     `json:"style,omitempty" msgpack:"style,omitempty"`

	Crosshair     rrg.Screen `json:"crosshair" msgpack:"crosshair"`
	Regions       []Region   `json:"regions" msgpack:"regions"`
	RatioTicks    []Tick     `json:"ratio_ticks" msgpack:"ratio_ticks"`
	MomentumTicks []Tick     `json:"momentum_ticks" msgpack:"momentum_ticks"`
	Markers       []Marker   `json:"markers" msgpack:"markers"`
	Legend        []Legend   `json:"legend" msgpack:"legend"`

	Resolution Stats `json:"resolution" msgpack:"resolution"`
}

// Mapper returns the coordinate mapper the layout was built with.
func (l Layout) Mapper() rrg.Mapper {
	return rrg.Mapper{Domain: l.Domain, Bounds: l.Bounds}
}

// Marker looks up a marker by sector ID.
func (l Layout) Marker(id string) (Marker, bool) {
	for _, m := range l.Markers {
		if m.ID == id {
			return m, true
		}
	}
	return Marker{}, false
}

// Count returns the number of markers in quadrant q.
func (l Layout) Count(q rrg.Quadrant) int {
	n := 0
	for _, m := range l.Markers {
		if m.Quadrant == q {
			n++
		}
	}
	return n
}

// =============================================================================
// Primitives
// =============================================================================

// Marker is one positioned sector.
type Marker struct {
	ID    string `json:"id" msgpack:"id"`
	Name  string `json:"name,omitempty" msgpack:"name,omitempty"`
	Color string `json:"color" msgpack:"color"`

	Quadrant      rrg.Quadrant `json:"quadrant" msgpack:"quadrant"`
	Ratio         float64      `json:"rs_ratio" msgpack:"rs_ratio"`
	Momentum      float64      `json:"rs_momentum" msgpack:"rs_momentum"`
	ChangePercent float64      `json:"change_percent" msgpack:"change_percent"`
	Heading       float64      `json:"heading_degrees" msgpack:"heading_degrees"`

	Ideal rrg.Screen   `json:"ideal" msgpack:"ideal"`
	X     float64      `json:"x" msgpack:"x"`
	Y     float64      `json:"y" msgpack:"y"`
	Trail []rrg.Screen `json:"trail,omitempty" msgpack:"trail,omitempty"`
}

// Center returns the resolved marker centre.
func (m Marker) Center() rrg.Screen { return rrg.Screen{X: m.X, Y: m.Y} }

// DisplayName returns the name if set, otherwise the ID.
func (m Marker) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// Region is a quadrant background rectangle.
type Region struct {
	Quadrant rrg.Quadrant `json:"quadrant" msgpack:"quadrant"`
	Label    string       `json:"label" msgpack:"label"`
	Color    string       `json:"color" msgpack:"color"`
	X        float64      `json:"x" msgpack:"x"`
	Y        float64      `json:"y" msgpack:"y"`
	Width    float64      `json:"width" msgpack:"width"`
	Height   float64      `json:"height" msgpack:"height"`
}

// Tick is an axis tick. Pos is the x coordinate for ratio ticks and the y
// coordinate for momentum ticks.
type Tick struct {
	Value float64 `json:"value" msgpack:"value"`
	Pos   float64 `json:"pos" msgpack:"pos"`
	Label string  `json:"label" msgpack:"label"`
}

// Legend is one legend entry.
type Legend struct {
	Quadrant rrg.Quadrant `json:"quadrant" msgpack:"quadrant"`
	Label    string       `json:"label" msgpack:"label"`
	Color    string       `json:"color" msgpack:"color"`
	Count    int          `json:"count" msgpack:"count"`
}

// Stats reports how the collision resolver finished.
type Stats struct {
	Rounds    int  `json:"rounds" msgpack:"rounds"`
	Converged bool `json:"converged" msgpack:"converged"`
}

// =============================================================================
// Build
// =============================================================================

// Options configures Build. Zero values select the package defaults. Gap and
// the spread floors accept zero, so nil selects their defaults instead.
type Options struct {
	Frame             rrg.Frame
	Radius            float64
	Gap               *float64
	Rounds            int
	Padding           float64
	MinRatioSpread    *float64
	MinMomentumSpread *float64
	RatioTicks        int
	MomentumTicks     int
	Style             string
}

// WithDefaults returns a copy of o with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Frame.Width <= 0 || o.Frame.Height <= 0 {
		o.Frame = rrg.DefaultFrame()
	}
	if o.Radius <= 0 {
		o.Radius = rrg.DefaultRadius
	}
	o.Gap = orDefault(o.Gap, rrg.DefaultGap)
	if o.Rounds <= 0 {
		o.Rounds = rrg.DefaultRounds
	}
	if o.Padding <= 0 {
		o.Padding = rrg.DefaultPadding
	}
	o.MinRatioSpread = orDefault(o.MinRatioSpread, rrg.DefaultMinRatioSpread)
	o.MinMomentumSpread = orDefault(o.MinMomentumSpread, rrg.DefaultMinMomentumSpread)
	if o.RatioTicks <= 0 {
		o.RatioTicks = rrg.DefaultTickIntervals
	}
	if o.MomentumTicks <= 0 {
		o.MomentumTicks = rrg.DefaultTickIntervals
	}
	return o
}

// Float64 returns a pointer to v, for the optional fields of Options.
func Float64(v float64) *float64 { return &v }

// orDefault keeps p when it holds a usable value and otherwise points at def.
func orDefault(p *float64, def float64) *float64 {
	if p == nil || *p < 0 || math.IsNaN(*p) {
		return Float64(def)
	}
	return p
}

// Build lays out sectors. The whole batch is rejected if any sector is
// invalid (errors.ErrCodeInvalidSector), and an empty batch yields
// errors.ErrCodeInsufficientData.
func Build(sectors []rrg.Sector, opts Options) (Layout, error) {
	opts = opts.WithDefaults()

	if err := rrg.ValidateSectors(sectors); err != nil {
		return Layout{}, err
	}

	dom, err := rrg.ComputeDomain(sectors,
		rrg.WithPadding(opts.Padding),
		rrg.WithMinSpread(*opts.MinRatioSpread, *opts.MinMomentumSpread),
	)
	if err != nil {
		return Layout{}, err
	}

	bounds := opts.Frame.Bounds()
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput,
			"frame %vx%v leaves no room for the plot inside its padding", opts.Frame.Width, opts.Frame.Height)
	}
	mapper := rrg.Mapper{Domain: dom, Bounds: bounds}

	ideal := make([]rrg.Screen, len(sectors))
	for i, s := range sectors {
		ideal[i] = mapper.Map(s.Point())
	}

	resolver := rrg.Resolver{Radius: opts.Radius, Gap: *opts.Gap, Rounds: opts.Rounds}
	res := resolver.Resolve(ideal, bounds)

	l := Layout{
		Frame:      opts.Frame,
		Bounds:     bounds,
		Domain:     dom,
		Radius:     opts.Radius,
		Style:      opts.Style,
		Crosshair:  mapper.Map(rrg.Point{Ratio: rrg.NeutralRatio, Momentum: rrg.NeutralMomentum}),
		Markers:    make([]Marker, len(sectors)),
		Resolution: Stats{Rounds: res.Rounds, Converged: res.Converged},
	}

	for i, s := range sectors {
		q := s.Quadrant()
		color := s.Color
		if color == "" {
			color = q.Color()
		}
		pos := res.Positions[i]
		l.Markers[i] = Marker{
			ID:            s.ID,
			Name:          s.Name,
			Color:         color,
			Quadrant:      q,
			Ratio:         s.Ratio,
			Momentum:      s.Momentum,
			ChangePercent: s.ChangePercent,
			Heading:       s.Heading(),
			Ideal:         ideal[i],
			X:             pos.X,
			Y:             pos.Y,
			Trail:         buildTrail(s, mapper, pos),
		}
	}

	l.Regions = buildRegions(bounds, l.Crosshair)
	l.RatioTicks = buildTicks(dom.RatioTicks(opts.RatioTicks), func(v float64) float64 {
		return mapper.Map(rrg.Point{Ratio: v, Momentum: rrg.NeutralMomentum}).X
	})
	l.MomentumTicks = buildTicks(dom.MomentumTicks(opts.MomentumTicks), func(v float64) float64 {
		return mapper.Map(rrg.Point{Ratio: rrg.NeutralRatio, Momentum: v}).Y
	})
	l.Legend = buildLegend(l)

	return l, nil
}

func buildTrail(s rrg.Sector, m rrg.Mapper, resolved rrg.Screen) []rrg.Screen {
	tail := s.Tail
	if n := len(tail); n > 0 && tail[n-1] == s.Point() {
		tail = tail[:n-1]
	}
	if len(tail) == 0 {
		return nil
	}
	out := make([]rrg.Screen, 0, len(tail)+1)
	for _, p := range tail {
		out = append(out, m.Map(p))
	}
	return append(out, resolved)
}

func buildRegions(b rrg.Bounds, c rrg.Screen) []Region {
	leftW, rightW := c.X-b.Left, b.Right()-c.X
	topH, bottomH := c.Y-b.Top, b.Bottom()-c.Y

	rect := func(q rrg.Quadrant, x, y, w, h float64) Region {
		return Region{Quadrant: q, Label: q.Label(), Color: q.Color(), X: x, Y: y, Width: w, Height: h}
	}
	return []Region{
		rect(rrg.Improving, b.Left, b.Top, leftW, topH),
		rect(rrg.Leading, c.X, b.Top, rightW, topH),
		rect(rrg.Weakening, c.X, c.Y, rightW, bottomH),
		rect(rrg.Lagging, b.Left, c.Y, leftW, bottomH),
	}
}

func buildTicks(values []float64, pos func(float64) float64) []Tick {
	step := 0.0
	if len(values) > 1 {
		step = values[1] - values[0]
	}
	out := make([]Tick, len(values))
	for i, v := range values {
		out[i] = Tick{Value: v, Pos: pos(v), Label: formatTick(v, step)}
	}
	return out
}

// formatTick picks just enough decimals to tell neighbouring ticks apart.
func formatTick(v, step float64) string {
	decimals := 0
	switch {
	case step == 0 || step >= 1:
	case step >= 0.1:
		decimals = 1
	default:
		decimals = 2
	}
	// Avoid "-0".
	if math.Abs(v) < math.Pow(10, -float64(decimals))/2 {
		v = 0
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

func buildLegend(l Layout) []Legend {
	out := make([]Legend, len(rrg.Quadrants))
	for i, q := range rrg.Quadrants {
		out[i] = Legend{Quadrant: q, Label: q.Label(), Color: q.Color(), Count: l.Count(q)}
	}
	return out
}
