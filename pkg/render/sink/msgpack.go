package sink

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/rrgraph/pkg/interact"
	"github.com/matzehuels/rrgraph/pkg/layout"
)

// RenderMsgpack exports the same document as [RenderJSON] in msgpack
// encoding. Keys match the JSON field names.
func RenderMsgpack(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	doc := newDocument(l, opts...)

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(msgpackDocument{Layout: doc.Layout, Hover: doc.Hover}); err != nil {
		return nil, fmt.Errorf("encode msgpack: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeMsgpack reads a document written by [RenderMsgpack].
func DecodeMsgpack(data []byte) (Document, error) {
	var doc msgpackDocument
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode msgpack: %w", err)
	}
	if err := layout.Validate(doc.Layout); err != nil {
		return Document{}, err
	}
	return Document{Layout: doc.Layout, Hover: doc.Hover}, nil
}

// msgpackDocument nests the layout under a key instead of embedding it.
type msgpackDocument struct {
	Layout layout.Layout  `json:"layout"`
	Hover  *interact.View `json:"hover,omitempty"`
}
