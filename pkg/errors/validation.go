package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// maxSectorIDLength bounds ticker-like identifiers.
const maxSectorIDLength = 32

// ValidateSectorID validates a sector identifier (typically an ETF ticker).
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No whitespace or control characters
//   - No markup characters that would break SVG attributes (<, >, ", ', &)
//   - Maximum length of 32 characters
func ValidateSectorID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSector, "sector id cannot be empty")
	}

	if len(id) > maxSectorIDLength {
		return New(ErrCodeInvalidSector, "sector id too long (max %d characters): %q", maxSectorIDLength, id)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidSector, "sector id contains whitespace or control characters: %q", id)
		}
	}

	if strings.ContainsAny(id, `<>"'&`) {
		return New(ErrCodeInvalidSector, "sector id contains markup characters: %q", id)
	}

	return nil
}

// hexColorRegex matches #rgb, #rrggbb and #rrggbbaa colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateColor validates an optional presentation color. Empty is allowed.
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidSector, "invalid color %q (must be #rgb or #rrggbb)", color)
	}
	return nil
}

// ValidateFinite rejects NaN and infinite values. field names the value in
// the error message.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) {
		return New(ErrCodeInvalidSector, "%s is NaN", field)
	}
	if math.IsInf(v, 0) {
		return New(ErrCodeInvalidSector, "%s is infinite", field)
	}
	return nil
}
