package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/rrgraph/pkg/errors"
)

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that the layout can be rendered.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidLayout, err, "unmarshal layout")
	}
	if err := Validate(l); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks that a deserialized layout is complete enough to render.
func Validate(l Layout) error {
	if l.Frame.Width <= 0 || l.Frame.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "layout frame must have positive size")
	}
	if l.Bounds.Width <= 0 || l.Bounds.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "layout bounds must have positive size")
	}
	if l.Domain.RatioMax <= l.Domain.RatioMin || l.Domain.MomentumMax <= l.Domain.MomentumMin {
		return errors.New(errors.ErrCodeInvalidLayout, "layout domain is empty")
	}
	if len(l.Markers) == 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "layout must contain markers")
	}
	if l.Radius <= 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "layout radius must be positive")
	}
	for _, m := range l.Markers {
		if err := errors.ValidateSectorID(m.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLayout, err, "layout marker")
		}
		if err := errors.ValidateColor(m.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLayout, err, "layout marker %q", m.ID)
		}
	}
	for _, r := range l.Regions {
		if err := errors.ValidateColor(r.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLayout, err, "layout region %s", r.Label)
		}
	}
	for _, lg := range l.Legend {
		if err := errors.ValidateColor(lg.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLayout, err, "layout legend %s", lg.Label)
		}
	}
	return nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
