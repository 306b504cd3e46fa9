package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/rrgraph/pkg/rrg"
)

// WriteSectors encodes sectors as a {"sectors": [...]} JSON document.
// The output can be re-read with [ReadSectors].
func WriteSectors(w io.Writer, sectors []rrg.Sector) error {
	return Encode(w, sectors, FormatJSON)
}

// Encode writes sectors in the given format.
func Encode(w io.Writer, sectors []rrg.Sector, format Format) error {
	doc := struct {
		Sectors []rrg.Sector `json:"sectors" msgpack:"sectors"`
	}{Sectors: normalizeTails(sectors)}

	switch format {
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	}
}

// ExportSectors writes sectors to a file at path, choosing the encoding from
// the file extension.
func ExportSectors(sectors []rrg.Sector, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Encode(f, sectors, FormatForPath(path))
}

// normalizeTails replaces nil tails with empty ones so the required "tail"
// key is always written.
func normalizeTails(sectors []rrg.Sector) []rrg.Sector {
	out := make([]rrg.Sector, len(sectors))
	for i, s := range sectors {
		if s.Tail == nil {
			s.Tail = []rrg.Point{}
		}
		out[i] = s
	}
	return out
}
