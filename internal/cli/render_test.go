package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/rrgraph/pkg/pipeline"
	"github.com/matzehuels/rrgraph/pkg/rrg"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " SVG , msgpack", []string{"svg", "msgpack"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestParsePointer(t *testing.T) {
	tests := []struct {
		input   string
		want    rrg.Screen
		wantErr bool
	}{
		{"120,80", rrg.Screen{X: 120, Y: 80}, false},
		{" 12.5 , 7 ", rrg.Screen{X: 12.5, Y: 7}, false},
		{"120", rrg.Screen{}, true},
		{"a,1", rrg.Screen{}, true},
		{"1,b", rrg.Screen{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parsePointer(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePointer(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parsePointer(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/sectors.json", "data/sectors"},
		{"", "data/sectors.layout.json", "data/sectors"},
		{"out/chart.svg", "sectors.json", "out/chart"},
		{"out/chart.mpk", "sectors.json", "out/chart"},
		{"out/chart", "sectors.json", "out/chart"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		pipeline.FormatSVG:     "svg",
		pipeline.FormatPNG:     "png",
		pipeline.FormatPDF:     "pdf",
		pipeline.FormatJSON:    "layout.json",
		pipeline.FormatMsgpack: "layout.mpk",
	}
	for format, want := range tests {
		if got := extension(format); got != want {
			t.Errorf("extension(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "sectors.json")
	artifacts := map[string][]byte{
		pipeline.FormatSVG:  []byte("<svg/>"),
		pipeline.FormatJSON: []byte("{}"),
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   []string{pipeline.FormatSVG, pipeline.FormatJSON},
		input:     input,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "sectors.svg"), filepath.Join(dir, "sectors.layout.json")}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}

	single := filepath.Join(dir, "exact-name.svg")
	if _, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   []string{pipeline.FormatSVG},
		input:     input,
		output:    single,
	}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(single)
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("single output = %q, %v", data, err)
	}

	if _, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   []string{pipeline.FormatPNG},
		input:     input,
	}); err == nil {
		t.Error("missing artifact should fail")
	}
}

func TestOptionalFloatFlag(t *testing.T) {
	var opts pipeline.Options
	f := optionalFloat{&opts.Gap}
	if f.String() != "" || opts.Gap != nil {
		t.Fatal("unset flag should leave the option nil")
	}
	if err := f.Set("0"); err != nil {
		t.Fatal(err)
	}
	if opts.Gap == nil || *opts.Gap != 0 {
		t.Errorf("Gap = %v, want explicit 0", opts.Gap)
	}
	if f.String() != "0" {
		t.Errorf("String() = %q", f.String())
	}
	if err := f.Set("wide"); err == nil {
		t.Error("non-numeric value should be rejected")
	}
}
