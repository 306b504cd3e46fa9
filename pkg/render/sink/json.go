package sink

import (
	"encoding/json"

	"github.com/matzehuels/rrgraph/pkg/interact"
	"github.com/matzehuels/rrgraph/pkg/layout"
)

// JSONOption configures JSON and msgpack rendering.
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style string
	view  *interact.View
}

// WithJSONStyle records the style name in the output for round-trip rendering.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONHover includes a hover view (emphasis, trail, tooltip) in the output.
func WithJSONHover(v interact.View) JSONOption {
	return func(r *jsonRenderer) {
		if v.Active() {
			r.view = &v
		}
	}
}

// Document is the JSON and msgpack export format: the layout plus an optional
// hover view.
type Document struct {
	layout.Layout
	Hover *interact.View `json:"hover,omitempty"`
}

func newDocument(l layout.Layout, opts ...JSONOption) Document {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.style != "" {
		l.Style = r.style
	}
	return Document{Layout: l, Hover: r.view}
}

// RenderJSON exports the layout as a pretty-printed JSON document. The output
// can be read back with layout.UnmarshalLayout, which ignores the hover view.
//
// RenderJSON returns an error only if JSON marshaling fails. It does not
// modify l and is safe to call concurrently.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	return json.MarshalIndent(newDocument(l, opts...), "", "  ")
}
