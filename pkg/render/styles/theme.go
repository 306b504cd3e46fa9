package styles

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Style names.
const (
	NameDark  = "dark"
	NameLight = "light"
)

const monoFont = "ui-monospace, SFMono-Regular, Menlo, Consolas, monospace"
const sansFont = "-apple-system, BlinkMacSystemFont, 'Segoe UI', Helvetica, Arial, sans-serif"

// Theme is a palette-driven Style. Dark and Light differ only in colours.
type Theme struct {
	name string

	Background    string
	Grid          string
	Crosshair     string
	TickText      string
	TitleText     string
	RegionOpacity float64
	MarkerFill    float64 // fill opacity of marker bubbles
	TooltipFill   string
	TooltipStroke string
	TooltipTitle  string
	TooltipMuted  string
}

// Dark returns the default dark style.
func Dark() Theme {
	return Theme{
		name:          NameDark,
		Background:    "#111113",
		Grid:          "rgba(255,255,255,0.04)",
		Crosshair:     "rgba(255,255,255,0.12)",
		TickText:      "rgba(255,255,255,0.3)",
		TitleText:     "rgba(255,255,255,0.25)",
		RegionOpacity: 0.035,
		MarkerFill:    0.094,
		TooltipFill:   "rgba(26,26,26,0.95)",
		TooltipStroke: "rgba(255,255,255,0.1)",
		TooltipTitle:  "#ffffff",
		TooltipMuted:  "rgba(255,255,255,0.5)",
	}
}

// Light returns the light style.
func Light() Theme {
	return Theme{
		name:          NameLight,
		Background:    "#ffffff",
		Grid:          "rgba(0,0,0,0.06)",
		Crosshair:     "rgba(0,0,0,0.2)",
		TickText:      "rgba(0,0,0,0.45)",
		TitleText:     "rgba(0,0,0,0.4)",
		RegionOpacity: 0.06,
		MarkerFill:    0.14,
		TooltipFill:   "rgba(255,255,255,0.97)",
		TooltipStroke: "rgba(0,0,0,0.12)",
		TooltipTitle:  "#111111",
		TooltipMuted:  "rgba(0,0,0,0.55)",
	}
}

var registry = map[string]func() Theme{
	NameDark:  Dark,
	NameLight: Light,
}

// Lookup returns the style registered under name.
func Lookup(name string) (Style, bool) {
	fn, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// Names returns the registered style names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (t Theme) Name() string { return t.name }

func (t Theme) RenderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>\n    .mono { font-family: %s; }\n    .sans { font-family: %s; }\n  </style>\n",
		monoFont, sansFont)
}

func (t Theme) RenderBackground(buf *bytes.Buffer, width, height float64) {
	fmt.Fprintf(buf, `  <rect class="background" x="0" y="0" width="%.2f" height="%.2f" rx="12" fill="%s"/>`+"\n",
		width, height, t.Background)
}

func (t Theme) RenderRegion(buf *bytes.Buffer, r Region) {
	fmt.Fprintf(buf, `  <rect class="region" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="%.3f"/>`+"\n",
		r.X, r.Y, r.W, r.H, EscapeXML(r.Color), t.RegionOpacity)
	fmt.Fprintf(buf, `  <text class="region-label sans" x="%.2f" y="%.2f" fill="%s" fill-opacity="0.45" font-size="9" font-weight="600" letter-spacing="1" text-anchor="%s">%s</text>`+"\n",
		r.LabelX, r.LabelY, EscapeXML(r.Color), r.LabelAlign, EscapeXML(r.Label))
}

func (t Theme) RenderGridLine(buf *bytes.Buffer, l Line) {
	fmt.Fprintf(buf, `  <line class="grid" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
		l.X1, l.Y1, l.X2, l.Y2, t.Grid)
}

func (t Theme) RenderCrosshair(buf *bytes.Buffer, l Line) {
	fmt.Fprintf(buf, `  <line class="crosshair" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
		l.X1, l.Y1, l.X2, l.Y2, t.Crosshair)
}

func (t Theme) RenderTickLabel(buf *bytes.Buffer, x Text) {
	fmt.Fprintf(buf, `  <text class="tick mono" x="%.2f" y="%.2f" fill="%s" font-size="9" text-anchor="%s">%s</text>`+"\n",
		x.X, x.Y, t.TickText, anchorOr(x.Anchor), EscapeXML(x.Text))
}

func (t Theme) RenderAxisTitle(buf *bytes.Buffer, x Text) {
	rot := ""
	if x.Rotate != 0 {
		rot = fmt.Sprintf(` transform="rotate(%.0f, %.2f, %.2f)"`, x.Rotate, x.X, x.Y)
	}
	fmt.Fprintf(buf, `  <text class="axis-title sans" x="%.2f" y="%.2f" fill="%s" font-size="10" font-weight="500" text-anchor="%s"%s>%s</text>`+"\n",
		x.X, x.Y, t.TitleText, anchorOr(x.Anchor), rot, EscapeXML(x.Text))
}

func (t Theme) RenderTrail(buf *bytes.Buffer, tr Trail) {
	if len(tr.Points) < 2 {
		return
	}
	var pts strings.Builder
	for i, p := range tr.Points {
		if i > 0 {
			pts.WriteByte(' ')
		}
		fmt.Fprintf(&pts, "%.2f,%.2f", p.X, p.Y)
	}
	fmt.Fprintf(buf, `  <g class="trail" data-for="%s" visibility="%s">`+"\n", EscapeXML(tr.ID), visibility(tr.Visible))
	fmt.Fprintf(buf, `    <polyline points="%s" fill="none" stroke="%s" stroke-width="1.5" stroke-opacity="0.7" stroke-linejoin="round" stroke-dasharray="3 2"/>`+"\n",
		pts.String(), EscapeXML(tr.Color))
	for _, p := range tr.Points[:len(tr.Points)-1] {
		fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="2.5" fill="%s" fill-opacity="0.6"/>`+"\n", p.X, p.Y, EscapeXML(tr.Color))
	}
	buf.WriteString("  </g>\n")
}

func (t Theme) RenderMarker(buf *bytes.Buffer, m Marker) {
	cls := "marker-circle"
	if m.Hovered {
		cls += " hovered"
	}
	fmt.Fprintf(buf, `    <circle class="%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.3f" stroke="%s" stroke-width="%.1f"/>`+"\n",
		cls, m.X, m.Y, m.R, EscapeXML(m.Color), t.MarkerFill, EscapeXML(m.Color), m.StrokeWidth)
	fmt.Fprintf(buf, `    <text class="marker-label mono" x="%.2f" y="%.2f" fill="%s" font-size="9" font-weight="700" text-anchor="middle" pointer-events="none">%s</text>`+"\n",
		m.X, m.Y+3.5, EscapeXML(m.Color), EscapeXML(TruncateLabel(m.Label, 5)))
}

func (t Theme) RenderTooltip(buf *bytes.Buffer, tt Tooltip) {
	fmt.Fprintf(buf, `    <rect width="%.2f" height="%.2f" rx="8" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
		tt.W, tt.H, t.TooltipFill, t.TooltipStroke)
	fmt.Fprintf(buf, `    <text class="sans" x="12" y="20" fill="%s" font-size="12" font-weight="700">%s</text>`+"\n",
		t.TooltipTitle, EscapeXML(TruncateLabel(tt.Title, 20)))
	fmt.Fprintf(buf, `    <text class="mono" x="12" y="36" fill="%s" font-size="10">%s</text>`+"\n",
		t.TooltipMuted, EscapeXML(tt.Values))
	fmt.Fprintf(buf, `    <text class="sans" x="12" y="51" fill="%s" font-size="9" font-weight="600" letter-spacing="0.5">%s</text>`+"\n",
		tt.QuadColor, EscapeXML(tt.Quadrant))
	fmt.Fprintf(buf, `    <text class="mono" x="12" y="65" fill="%s" font-size="11" font-weight="600">%s</text>`+"\n",
		tt.ChangeColor, EscapeXML(tt.Change))
}

func (t Theme) RenderLegendItem(buf *bytes.Buffer, l LegendItem) {
	fmt.Fprintf(buf, `  <circle class="legend-swatch" cx="%.2f" cy="%.2f" r="5" fill="%s"/>`+"\n", l.X, l.Y, EscapeXML(l.Color))
	fmt.Fprintf(buf, `  <text class="legend-label sans" x="%.2f" y="%.2f" fill="%s" font-size="10" font-weight="600" letter-spacing="1">%s (%d)</text>`+"\n",
		l.X+10, l.Y+3.5, EscapeXML(l.Color), EscapeXML(l.Label), l.Count)
}

func anchorOr(a string) string {
	if a == "" {
		return "middle"
	}
	return a
}

func visibility(v bool) string {
	if v {
		return "visible"
	}
	return "hidden"
}
