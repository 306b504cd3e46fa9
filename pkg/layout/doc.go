// Package layout composes the rrg geometry into a drawable Relative Rotation
// Graph.
//
// # Overview
//
// [Build] runs the full layout for one sector set: it validates the batch,
// derives the domain, maps every sector into the plot, separates overlapping
// markers and classifies each sector. The result is a [Layout] holding every
// primitive a renderer needs:
//
//   - Markers: resolved centres, radius, colour, quadrant and trail
//   - Regions: the four quadrant background rectangles
//   - Ticks: axis tick positions and labels
//   - Crosshair: the screen position of the neutral point (100, 0)
//   - Legend: quadrants in legend order with per-quadrant counts
//
// A Layout is a plain value. It can be serialized with [MarshalLayout] and
// re-read with [UnmarshalLayout], so the expensive part runs once and
// rendering can happen later or elsewhere.
//
// # Trails
//
// Each marker's trail is its tail history mapped to screen space, with the
// resolved marker centre as the final vertex. When the most recent tail
// point equals the current value it is dropped so the path does not end in
// a kink between the ideal and resolved positions.
package layout
