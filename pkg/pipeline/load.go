package pipeline

import (
	"fmt"
	"os"

	"github.com/matzehuels/rrgraph/pkg/errors"
	sectorio "github.com/matzehuels/rrgraph/pkg/io"
	"github.com/matzehuels/rrgraph/pkg/layout"
	"github.com/matzehuels/rrgraph/pkg/render/sink"
	"github.com/matzehuels/rrgraph/pkg/rrg"
)

// LoadSectors reads and validates a sector file (JSON, or msgpack by
// extension).
func LoadSectors(path string) ([]rrg.Sector, error) {
	return sectorio.ImportSectors(path)
}

// LoadLayout reads a stored layout. Msgpack documents written by the
// msgpack format are accepted alongside JSON layout files.
func LoadLayout(path string) (layout.Layout, error) {
	if sectorio.FormatForPath(path) != sectorio.FormatMsgpack {
		return layout.ReadLayoutFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return layout.Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return layout.Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := sink.DecodeMsgpack(data)
	if err != nil {
		return layout.Layout{}, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode %s", path)
	}
	if err := layout.Validate(doc.Layout); err != nil {
		return layout.Layout{}, err
	}
	return doc.Layout, nil
}
