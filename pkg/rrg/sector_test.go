package rrg

import (
	"math"
	"testing"

	"github.com/matzehuels/rrgraph/pkg/errors"
)

func TestValidateSectors(t *testing.T) {
	tests := []struct {
		name    string
		sectors []Sector
		wantErr bool
	}{
		{"Empty", nil, false},
		{"Valid", []Sector{{ID: "XLK", Ratio: 101, Momentum: 0.5, Tail: []Point{{100, 0}}}}, false},
		{"NilTail", []Sector{{ID: "XLK", Ratio: 101}}, false},
		{"EmptyID", []Sector{{ID: "", Ratio: 101}}, true},
		{"Duplicate", []Sector{{ID: "XLK"}, {ID: "XLE"}, {ID: "XLK"}}, true},
		{"NaNRatio", []Sector{{ID: "XLK", Ratio: math.NaN()}}, true},
		{"InfMomentum", []Sector{{ID: "XLK", Momentum: math.Inf(1)}}, true},
		{"NaNTail", []Sector{{ID: "XLK", Tail: []Point{{math.NaN(), 0}}}}, true},
		{"BadColor", []Sector{{ID: "XLK", Color: "green"}}, true},
		{"NaNChange", []Sector{{ID: "XLK", ChangePercent: math.NaN()}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSectors(tt.sectors)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateSectors() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidSector) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidSector)
			}
		})
	}
}

func TestSectorDisplayName(t *testing.T) {
	if got := (Sector{ID: "XLK"}).DisplayName(); got != "XLK" {
		t.Errorf("DisplayName() = %q, want XLK", got)
	}
	if got := (Sector{ID: "XLK", Name: "Technology"}).DisplayName(); got != "Technology" {
		t.Errorf("DisplayName() = %q, want Technology", got)
	}
}
