package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/rrgraph/pkg/interact"
	"github.com/matzehuels/rrgraph/pkg/layout"
	"github.com/matzehuels/rrgraph/pkg/render/styles"
	"github.com/matzehuels/rrgraph/pkg/rrg"
)

const legendHeight = 32.0

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       styles.Style
	view        interact.View
	interactive bool
	legend      bool
}

// WithStyle sets the visual style. Defaults to [styles.Dark].
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithHover bakes a hover state into the output.
func WithHover(v interact.View) SVGOption { return func(r *svgRenderer) { r.view = v } }

// WithInteraction embeds the browser hover script.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// WithLegend adds a quadrant legend strip below the chart.
func WithLegend() SVGOption { return func(r *svgRenderer) { r.legend = true } }

// RenderSVG renders the layout as SVG. It does not modify l and is safe to
// call concurrently.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	width, height := l.Frame.Width, l.Frame.Height
	total := height
	if r.legend {
		total += legendHeight
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" class="rrg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" data-width="%.1f" data-height="%.1f">`+"\n",
		width, total, width, total, width, height)

	r.style.RenderDefs(&buf)
	r.style.RenderBackground(&buf, width, total)
	renderAxes(&buf, r.style, l)
	renderTrails(&buf, r, l)
	renderMarkers(&buf, r, l)
	renderTooltips(&buf, r, l)

	if r.legend {
		renderLegend(&buf, r.style, l)
	}
	if r.interactive {
		renderHoverScript(&buf)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Dark()}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r svgRenderer) hovered() string {
	if r.view.Emphasis == nil {
		return ""
	}
	return r.view.Emphasis.ID
}

func renderAxes(buf *bytes.Buffer, s styles.Style, l layout.Layout) {
	b := l.Bounds

	for _, reg := range l.Regions {
		s.RenderRegion(buf, regionFor(reg))
	}

	for _, t := range l.RatioTicks {
		s.RenderGridLine(buf, styles.Line{X1: t.Pos, Y1: b.Top, X2: t.Pos, Y2: b.Bottom()})
	}
	for _, t := range l.MomentumTicks {
		s.RenderGridLine(buf, styles.Line{X1: b.Left, Y1: t.Pos, X2: b.Right(), Y2: t.Pos})
	}

	s.RenderCrosshair(buf, styles.Line{X1: l.Crosshair.X, Y1: b.Top, X2: l.Crosshair.X, Y2: b.Bottom()})
	s.RenderCrosshair(buf, styles.Line{X1: b.Left, Y1: l.Crosshair.Y, X2: b.Right(), Y2: l.Crosshair.Y})

	for _, t := range l.RatioTicks {
		s.RenderTickLabel(buf, styles.Text{X: t.Pos, Y: b.Bottom() + 18, Text: t.Label, Anchor: "middle"})
	}
	for _, t := range l.MomentumTicks {
		s.RenderTickLabel(buf, styles.Text{X: b.Left - 10, Y: t.Pos + 3, Text: t.Label, Anchor: "end"})
	}

	s.RenderAxisTitle(buf, styles.Text{X: b.Left + b.Width/2, Y: l.Frame.Height - 8, Text: "Relative Strength"})
	s.RenderAxisTitle(buf, styles.Text{X: 14, Y: b.Top + b.Height/2, Text: "Momentum (%)", Rotate: -90})
}

func regionFor(reg layout.Region) styles.Region {
	out := styles.Region{
		Label: reg.Label, Color: reg.Color,
		X: reg.X, Y: reg.Y, W: reg.Width, H: reg.Height,
	}
	const inset = 8.0
	switch reg.Quadrant {
	case rrg.Improving:
		out.LabelX, out.LabelY, out.LabelAlign = reg.X+inset, reg.Y+inset+6, "start"
	case rrg.Leading:
		out.LabelX, out.LabelY, out.LabelAlign = reg.X+reg.Width-inset, reg.Y+inset+6, "end"
	case rrg.Weakening:
		out.LabelX, out.LabelY, out.LabelAlign = reg.X+reg.Width-inset, reg.Y+reg.Height-inset, "end"
	default:
		out.LabelX, out.LabelY, out.LabelAlign = reg.X+inset, reg.Y+reg.Height-inset, "start"
	}
	return out
}

func renderTrails(buf *bytes.Buffer, r svgRenderer, l layout.Layout) {
	hovered := r.hovered()
	for _, m := range l.Markers {
		// Static output without interaction only needs the hovered trail.
		if !r.interactive && m.ID != hovered {
			continue
		}
		pts := make([]styles.Point, len(m.Trail))
		for i, p := range m.Trail {
			pts[i] = styles.Point{X: p.X, Y: p.Y}
		}
		r.style.RenderTrail(buf, styles.Trail{
			ID:      m.ID,
			Color:   m.Quadrant.Color(),
			Points:  pts,
			Visible: m.ID == hovered,
		})
	}
}

func renderMarkers(buf *bytes.Buffer, r svgRenderer, l layout.Layout) {
	hovered := r.hovered()
	var top *layout.Marker
	for i := range l.Markers {
		if l.Markers[i].ID == hovered {
			top = &l.Markers[i]
			continue
		}
		renderMarker(buf, r, l, l.Markers[i])
	}
	// The hovered marker is drawn last so it sits above its neighbours.
	if top != nil {
		renderMarker(buf, r, l, *top)
	}
}

func renderMarker(buf *bytes.Buffer, r svgRenderer, l layout.Layout, m layout.Marker) {
	sm := styles.Marker{
		ID: m.ID, Label: m.ID,
		X: m.X, Y: m.Y, R: l.Radius,
		Color:       m.Color,
		StrokeWidth: interact.StrokeWidth,
	}
	if e := r.view.Emphasis; e != nil && e.ID == m.ID {
		sm.R, sm.StrokeWidth, sm.Color, sm.Hovered = e.Radius, e.StrokeWidth, e.Color, true
	}

	fmt.Fprintf(buf, `  <g class="marker" data-id="%s" data-r="%.2f" data-stroke="%.1f" data-color="%s" data-quadrant-color="%s" cursor="pointer">`+"\n",
		styles.EscapeXML(m.ID), l.Radius, interact.StrokeWidth, styles.EscapeXML(m.Color), m.Quadrant.Color())
	r.style.RenderMarker(buf, sm)
	buf.WriteString("  </g>\n")
}

func renderTooltips(buf *bytes.Buffer, r svgRenderer, l layout.Layout) {
	hovered := r.hovered()
	for _, m := range l.Markers {
		visible := m.ID == hovered && r.view.Tooltip != nil
		if !r.interactive && !visible {
			continue
		}

		x, y := 0.0, 0.0
		w, h := interact.DefaultTooltipWidth, interact.DefaultTooltipHeight
		payload := interact.NewPayload(m)
		if visible {
			t := r.view.Tooltip
			x, y, w, h, payload = t.X, t.Y, t.Width, t.Height, t.Payload
		}

		fmt.Fprintf(buf, `  <g class="tooltip" data-for="%s" data-w="%.1f" data-h="%.1f" data-offset="%.1f" transform="translate(%.1f,%.1f)" visibility="%s" pointer-events="none">`+"\n",
			styles.EscapeXML(m.ID), w, h, interact.DefaultTooltipOffset, x, y, visibilityOf(visible))
		r.style.RenderTooltip(buf, tooltipFor(payload, w, h))
		buf.WriteString("  </g>\n")
	}
}

func tooltipFor(p interact.Payload, w, h float64) styles.Tooltip {
	changeColor := rrg.Leading.Color()
	if p.ChangePercent < 0 {
		changeColor = rrg.Lagging.Color()
	}
	return styles.Tooltip{
		ID:          p.SectorID,
		W:           w,
		H:           h,
		Title:       p.Name,
		Values:      fmt.Sprintf("RS %.2f  Mom %+.2f", p.Ratio, p.Momentum),
		Quadrant:    fmt.Sprintf("%s  %s %.0f°", p.Quadrant.Label(), HeadingArrow(p.HeadingDegrees), p.HeadingDegrees),
		QuadColor:   p.Quadrant.Color(),
		Change:      fmt.Sprintf("%+.2f%%", p.ChangePercent),
		ChangeColor: changeColor,
	}
}

// HeadingArrow returns the compass arrow closest to a heading in degrees.
func HeadingArrow(deg float64) string {
	arrows := []string{"→", "↗", "↑", "↖", "←", "↙", "↓", "↘"}
	i := int((deg+22.5)/45) % len(arrows)
	if i < 0 {
		i += len(arrows)
	}
	return arrows[i]
}

func renderLegend(buf *bytes.Buffer, s styles.Style, l layout.Layout) {
	if len(l.Legend) == 0 {
		return
	}
	step := l.Bounds.Width / float64(len(l.Legend))
	y := l.Frame.Height + legendHeight/2
	for i, lg := range l.Legend {
		s.RenderLegendItem(buf, styles.LegendItem{
			X:     l.Bounds.Left + float64(i)*step + 6,
			Y:     y,
			Label: lg.Label,
			Color: lg.Color,
			Count: lg.Count,
		})
	}
}

func visibilityOf(v bool) string {
	if v {
		return "visible"
	}
	return "hidden"
}
