// Package sink provides output format renderers for RRG layouts.
//
// # Overview
//
// A "sink" transforms a computed [layout.Layout] into a final output format:
//
//   - SVG: vector chart with an embedded hover script
//   - JSON: layout data (and optional hover view) for external tools
//   - msgpack: the same document in a compact binary encoding
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster image output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] draws quadrant regions, grid, crosshair, tick labels, axis
// titles, trails and markers:
//
//	svg := sink.RenderSVG(l,
//	    sink.WithStyle(styles.Dark()),
//	    sink.WithInteraction(),
//	    sink.WithLegend(),
//	)
//
// [WithInteraction] embeds a small script that runs the same single-slot
// hover machine as package interact in the browser. [WithHover] instead bakes
// one hover state into the image, which is how PNG and PDF exports show a
// tooltip.
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] render SVG first, then convert via
// [render.ToPDF] and [render.ToPNG]. These require librsvg:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [layout.Layout]: github.com/matzehuels/rrgraph/pkg/layout.Layout
// [render.ToPDF]: github.com/matzehuels/rrgraph/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/rrgraph/pkg/render.ToPNG
package sink
