package sink

import (
	"context"

	"github.com/matzehuels/rrgraph/pkg/layout"
	"github.com/matzehuels/rrgraph/pkg/render"
)

// ExportOption configures PNG and PDF rendering.
type ExportOption func(*exporter)

type exporter struct {
	ctx     context.Context
	svgOpts []SVGOption
	scale   float64
}

// WithSVGOptions passes options through to the underlying SVG renderer.
func WithSVGOptions(opts ...SVGOption) ExportOption {
	return func(e *exporter) { e.svgOpts = append(e.svgOpts, opts...) }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
// PDF output ignores it.
func WithScale(s float64) ExportOption {
	return func(e *exporter) { e.scale = s }
}

// WithContext bounds the external converter's run time.
func WithContext(ctx context.Context) ExportOption {
	return func(e *exporter) { e.ctx = ctx }
}

func newExporter(opts ...ExportOption) exporter {
	e := exporter{ctx: context.Background(), scale: 2.0}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// RenderPNG renders the layout as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(l layout.Layout, opts ...ExportOption) ([]byte, error) {
	e := newExporter(opts...)
	return render.ToPNGContext(e.ctx, RenderSVG(l, e.svgOpts...), e.scale)
}

// RenderPDF renders the layout as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(l layout.Layout, opts ...ExportOption) ([]byte, error) {
	e := newExporter(opts...)
	return render.ToPDFContext(e.ctx, RenderSVG(l, e.svgOpts...))
}
