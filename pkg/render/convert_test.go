package render

import (
	"testing"

	"github.com/matzehuels/rrgraph/pkg/errors"
)

func TestConvertWithoutBinary(t *testing.T) {
	old := converterBinary
	converterBinary = "rsvg-convert-does-not-exist"
	defer func() { converterBinary = old }()

	if Available() {
		t.Fatal("Available() = true for a missing binary")
	}
	_, err := ToPDF([]byte("<svg/>"))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPDF error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
	_, err = ToPNG([]byte("<svg/>"), 2)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

func TestToPNG(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`)
	png, err := ToPNG(svg, 1)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("output is not a PNG")
	}
}
