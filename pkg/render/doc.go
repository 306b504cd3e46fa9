// Package render converts rendered RRG charts between output formats.
//
// # Overview
//
// Charts are drawn as SVG by the [sink] subpackage. The [ToPDF] and [ToPNG]
// functions convert that SVG to other formats using the external
// rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(l, sink.WithStyle(styles.Dark()))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
//
// Subpackages:
//   - [sink]: output formats (SVG, JSON, msgpack, PNG, PDF)
//   - [styles]: visual styles (dark, light)
//
// [sink]: github.com/matzehuels/rrgraph/pkg/render/sink
// [styles]: github.com/matzehuels/rrgraph/pkg/render/styles
package render
