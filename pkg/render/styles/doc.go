// Package styles defines the visual styles for RRG rendering.
//
// A [Style] writes SVG fragments for each primitive of a layout: quadrant
// regions, grid and crosshair lines, tick labels, trails, markers, tooltips
// and the legend. The sink decides what to draw and in which order; the
// style decides how it looks.
//
// Two styles ship with the package:
//
//   - dark: translucent strokes on a near-black card (the default)
//   - light: the same geometry on white, for print and PDF export
//
// Use [Lookup] to resolve a style by name.
package styles
