package io

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/matzehuels/rrgraph/pkg/errors"
	"github.com/matzehuels/rrgraph/pkg/rrg"
)

// Format is a sector file encoding.
type Format string

// Supported formats.
const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// FormatForPath guesses the format from a file extension. Anything that is
// not .msgpack or .mpk is read as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mpk":
		return FormatMsgpack
	}
	return FormatJSON
}

type payload struct {
	Sectors []wireSector `json:"sectors" msgpack:"sectors"`
}

// wireSector distinguishes missing keys from zero values.
type wireSector struct {
	ID            string       `json:"id" msgpack:"id" validate:"required,max=32"`
	Name          string       `json:"name" msgpack:"name"`
	Color         string       `json:"color" msgpack:"color"`
	Ratio         *float64     `json:"rs_ratio" msgpack:"rs_ratio" validate:"required"`
	Momentum      *float64     `json:"rs_momentum" msgpack:"rs_momentum" validate:"required"`
	Tail          *[]rrg.Point `json:"tail" msgpack:"tail" validate:"required"`
	ChangePercent float64      `json:"change_percent" msgpack:"change_percent"`
}

// ReadSectors decodes a JSON sector list from r.
//
// The returned sectors are validated: every record has its required keys,
// finite values and a unique id. ReadSectors does not close r.
func ReadSectors(r io.Reader) ([]rrg.Sector, error) {
	return Decode(r, FormatJSON)
}

// Decode decodes a sector list in the given format from r.
func Decode(r io.Reader, format Format) ([]rrg.Sector, error) {
	var (
		wire []wireSector
		err  error
	)
	switch format {
	case FormatMsgpack:
		wire, err = decodeMsgpack(r)
	case FormatJSON, "":
		wire, err = decodeJSON(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported sector format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return fromWire(wire)
}

// ImportSectors reads a sector file at path, choosing the decoder from the
// file extension.
func ImportSectors(path string) ([]rrg.Sector, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f, FormatForPath(path))
}

func decodeJSON(r io.Reader) ([]wireSector, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode sectors")
	}

	dec := json.NewDecoder(br)
	if first == '[' {
		var list []wireSector
		if err := dec.Decode(&list); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode sectors")
		}
		return list, nil
	}
	var p payload
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode sectors")
	}
	return p.Sectors, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = br.ReadByte()
			continue
		}
		return b[0], nil
	}
}

func decodeMsgpack(r io.Reader) ([]wireSector, error) {
	dec := msgpack.NewDecoder(r)
	code, err := dec.PeekCode()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode sectors")
	}

	if msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32 {
		var list []wireSector
		if err := dec.Decode(&list); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode sectors")
		}
		return list, nil
	}
	var p payload
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode sectors")
	}
	return p.Sectors, nil
}

func fromWire(wire []wireSector) ([]rrg.Sector, error) {
	out := make([]rrg.Sector, len(wire))
	for i := range wire {
		w := &wire[i]
		if err := validateWire(i, w); err != nil {
			return nil, err
		}
		out[i] = rrg.Sector{
			ID:            w.ID,
			Name:          w.Name,
			Color:         w.Color,
			Ratio:         *w.Ratio,
			Momentum:      *w.Momentum,
			Tail:          *w.Tail,
			ChangePercent: w.ChangePercent,
		}
	}
	if err := rrg.ValidateSectors(out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte, format Format) ([]rrg.Sector, error) {
	return Decode(bytes.NewReader(data), format)
}
