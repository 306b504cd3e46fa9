package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/rrgraph/pkg/pipeline"
)

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes one file per format and returns the paths in
// format order. A single format honours output verbatim; several formats
// use output (or the input name) as a base path.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	if len(p.formats) == 1 && p.output != "" {
		f := p.formats[0]
		if err := writeFile(p.output, p.artifacts[f]); err != nil {
			return nil, err
		}
		return []string{p.output}, nil
	}

	base := basePath(p.output, p.input)
	paths := make([]string, 0, len(p.formats))
	for _, f := range p.formats {
		data, ok := p.artifacts[f]
		if !ok {
			return paths, fmt.Errorf("missing %s artifact", f)
		}
		path := base + "." + extension(f)
		if err := writeFile(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// extension maps a format to its file extension. JSON and msgpack
// artifacts are layout documents and carry a ".layout" infix so that they
// never overwrite a sector file.
func extension(format string) string {
	switch format {
	case pipeline.FormatJSON:
		return "layout.json"
	case pipeline.FormatMsgpack:
		return "layout.mpk"
	}
	return format
}

// basePath derives the base output path. An empty output strips the
// extension (and a trailing ".layout") from input; a known format
// extension is stripped from output.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, ".layout")
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] || ext == "mpk" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for path; "-" means stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}
