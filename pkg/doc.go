// Package pkg provides the libraries behind rrgraph, a Relative Rotation
// Graph (RRG) layout engine.
//
// # Overview
//
// An RRG plots each sector by relative strength (RS-Ratio, x) against the
// momentum of that strength (RS-Momentum, y). The plane is split at the
// neutral point (100, 0) into four quadrants: improving, leading, weakening
// and lagging. rrgraph turns a batch of sector readings into drawable
// primitives with non-overlapping markers.
//
// # Architecture
//
//	Sector file (JSON / msgpack)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [rrg] package (domain scaler, coordinate mapper, collision resolver, classifier)
//	         ↓
//	    [layout] package (markers, trails, regions, ticks, legend)
//	         ↓
//	    [interact] package (hover state machine + overlay)
//	         ↓
//	    [render/sink] package (SVG / PNG / PDF / JSON / msgpack)
//
// # Quick Start
//
//	sectors, _ := io.ImportSectors("sectors.json")
//	l, _ := layout.Build(sectors, layout.Options{})
//	svg := sink.RenderSVG(l, sink.WithInteraction())
//
// # Main Packages
//
// [rrg] - Geometry: [rrg.ComputeDomain], [rrg.MapToScreen],
// [rrg.Resolver] and [rrg.Classify].
//
// [layout] - The serialisable [layout.Layout] built by [layout.Build].
//
// [interact] - The hover [interact.Machine] and the tooltip overlay it
// produces.
//
// [render] - SVG to PNG/PDF conversion via rsvg-convert, with the
// [render/sink] output formats and [render/styles] themes.
//
// [io] - Sector file decoding, validation and export (JSON and msgpack).
//
// [pipeline] - The cached load → layout → render pipeline shared by the CLI
// and the HTTP server.
//
// [cache] - File, Redis and null caches plus the cache keyer.
//
// [observability] - Hook registry for metrics.
//
// [errors] - Structured error codes.
//
// [rrg]: https://pkg.go.dev/github.com/matzehuels/rrgraph/pkg/rrg
// [layout]: https://pkg.go.dev/github.com/matzehuels/rrgraph/pkg/layout
// [interact]: https://pkg.go.dev/github.com/matzehuels/rrgraph/pkg/interact
// [io]: https://pkg.go.dev/github.com/matzehuels/rrgraph/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/rrgraph/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/rrgraph/pkg/render/sink
// [render/styles]: https://pkg.go.dev/github.com/matzehuels/rrgraph/pkg/render/styles
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/rrgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/rrgraph/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/rrgraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/rrgraph/pkg/errors
package pkg
