package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/rrgraph/pkg/interact"
	"github.com/matzehuels/rrgraph/pkg/layout"
	"github.com/matzehuels/rrgraph/pkg/render/sink"
	"github.com/matzehuels/rrgraph/pkg/render/styles"
)

// RenderFromLayout generates artifacts in the requested formats. Options
// must already carry render defaults.
func RenderFromLayout(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	view := opts.HoverView(l)
	svgOpts := buildSVGOptions(opts, view)
	jsonOpts := []sink.JSONOption{sink.WithJSONStyle(opts.Style), sink.WithJSONHover(view)}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(l,
				sink.WithSVGOptions(svgOpts...), sink.WithScale(opts.Scale), sink.WithContext(ctx))
		case FormatPDF:
			data, err = sink.RenderPDF(l, sink.WithSVGOptions(svgOpts...), sink.WithContext(ctx))
		case FormatJSON:
			data, err = sink.RenderJSON(l, jsonOpts...)
		case FormatMsgpack:
			data, err = sink.RenderMsgpack(l, jsonOpts...)
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options, view interact.View) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if s, ok := styles.Lookup(opts.Style); ok {
		svgOpts = append(svgOpts, sink.WithStyle(s))
	}
	if view.Active() {
		svgOpts = append(svgOpts, sink.WithHover(view))
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	if opts.Legend {
		svgOpts = append(svgOpts, sink.WithLegend())
	}
	return svgOpts
}
