package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheClearCommand(t *testing.T) {
	status := isolate(t)
	input := writeSectors(t, testSectorsJSON)

	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(status.String(), "Cache is empty") {
		t.Errorf("clear on a fresh cache:\n%s", status)
	}

	if _, err := execute(t, "render", input, "-f", "svg"); err != nil {
		t.Fatal(err)
	}

	status.Reset()
	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	// One layout and one svg artifact.
	if !strings.Contains(status.String(), "Cleared 2 cached entries") {
		t.Errorf("unexpected clear output:\n%s", status)
	}
}

func TestCachePathCommand(t *testing.T) {
	status := isolate(t)

	if _, err := execute(t, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if strings.TrimSpace(status.String()) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(status.String()), want)
	}
}
