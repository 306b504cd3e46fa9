package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateSectorID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"ticker", "XLK", false},
		{"long ticker", "XLRE", false},
		{"with dot", "BRK.B", false},
		{"with dash", "sector-1", false},

		{"empty", "", true},
		{"too long", strings.Repeat("X", 40), true},
		{"space", "XL K", true},
		{"tab", "XL\tK", true},
		{"control char", "XL\x01K", true},
		{"angle bracket", "<XLK>", true},
		{"quote", `XL"K`, true},
		{"ampersand", "S&P", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSectorID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSectorID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSector) {
				t.Errorf("ValidateSectorID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidSector)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"#fff", false},
		{"#0a84ff", false},
		{"#0A84FF", false},
		{"#0a84ff18", false},
		{"0a84ff", true},
		{"#0a84f", true},
		{"red", true},
		{"#gggggg", true},
	}

	for _, tt := range tests {
		err := ValidateColor(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateFinite(t *testing.T) {
	tests := []struct {
		name    string
		v       float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"negative", -3.2, false},
		{"neutral ratio", 100, false},
		{"NaN", math.NaN(), true},
		{"+Inf", math.Inf(1), true},
		{"-Inf", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFinite("rs_ratio", tt.v)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFinite(%v) error = %v, wantErr %v", tt.v, err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "rs_ratio") {
				t.Errorf("error %q should name the field", err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidSector,
		ErrCodeInvalidFormat,
		ErrCodeInvalidStyle,
		ErrCodeInvalidConfig,
		ErrCodeInvalidLayout,
		ErrCodeInsufficientData,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
