package rrg

import (
	"fmt"

	"github.com/matzehuels/rrgraph/pkg/errors"
)

// Neutral values of the two axes.
const (
	NeutralRatio    = 100.0
	NeutralMomentum = 0.0
)

// Point is a single domain coordinate.
type Point struct {
	Ratio    float64 `json:"rs_ratio" msgpack:"rs_ratio"`
	Momentum float64 `json:"rs_momentum" msgpack:"rs_momentum"`
}

// Sector is one plotted entity. Sectors are treated as immutable for the
// duration of a layout.
type Sector struct {
	ID       string  `json:"id" msgpack:"id"`
	Name     string  `json:"name,omitempty" msgpack:"name,omitempty"`
	Color    string  `json:"color,omitempty" msgpack:"color,omitempty"`
	Ratio    float64 `json:"rs_ratio" msgpack:"rs_ratio"`
	Momentum float64 `json:"rs_momentum" msgpack:"rs_momentum"`

	// Tail holds historical points, oldest first. A nil tail means no history.
	Tail []Point `json:"tail" msgpack:"tail"`

	ChangePercent float64 `json:"change_percent,omitempty" msgpack:"change_percent,omitempty"`
}

// Point returns the sector's current position.
func (s Sector) Point() Point {
	return Point{Ratio: s.Ratio, Momentum: s.Momentum}
}

// Quadrant classifies the sector's current position.
func (s Sector) Quadrant() Quadrant {
	return Classify(s.Ratio, s.Momentum)
}

// DisplayName returns the name if set, otherwise the ID.
func (s Sector) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// ValidateSectors checks a batch before layout. It fails on the first
// offending sector; a single bad record rejects the whole batch.
func ValidateSectors(sectors []Sector) error {
	seen := make(map[string]struct{}, len(sectors))
	for i, s := range sectors {
		if err := errors.ValidateSectorID(s.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSector, err, "sector #%d", i)
		}
		if _, dup := seen[s.ID]; dup {
			return errors.New(errors.ErrCodeInvalidSector, "duplicate sector id %q", s.ID)
		}
		seen[s.ID] = struct{}{}

		if err := errors.ValidateColor(s.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSector, err, "sector %q", s.ID)
		}
		if err := validatePoint(s.Point(), ""); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSector, err, "sector %q", s.ID)
		}
		for j, p := range s.Tail {
			if err := validatePoint(p, fmt.Sprintf("tail[%d].", j)); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidSector, err, "sector %q", s.ID)
			}
		}
		if err := errors.ValidateFinite("change_percent", s.ChangePercent); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSector, err, "sector %q", s.ID)
		}
	}
	return nil
}

func validatePoint(p Point, prefix string) error {
	if err := errors.ValidateFinite(prefix+"rs_ratio", p.Ratio); err != nil {
		return err
	}
	return errors.ValidateFinite(prefix+"rs_momentum", p.Momentum)
}
