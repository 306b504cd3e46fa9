package styles

import (
	"bytes"
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"dark", "light", "DARK"} {
		s, ok := Lookup(name)
		if !ok {
			t.Errorf("Lookup(%q) not found", name)
			continue
		}
		if s.Name() != strings.ToLower(name) {
			t.Errorf("Lookup(%q).Name() = %q", name, s.Name())
		}
	}
	if _, ok := Lookup("handdrawn"); ok {
		t.Error("Lookup(handdrawn) should fail")
	}
	if got := Names(); len(got) != 2 || got[0] != "dark" || got[1] != "light" {
		t.Errorf("Names() = %v", got)
	}
}

func TestRenderMarker(t *testing.T) {
	tests := []struct {
		name     string
		marker   Marker
		contains []string
	}{
		{
			name:   "basic",
			marker: Marker{ID: "XLK", Label: "XLK", X: 100, Y: 50, R: 18, Color: "#30d158", StrokeWidth: 1.5},
			contains: []string{
				`class="marker-circle"`,
				`cx="100.00"`,
				`cy="50.00"`,
				`r="18.00"`,
				`stroke="#30d158"`,
				`stroke-width="1.5"`,
				`>XLK</text>`,
			},
		},
		{
			name:     "hovered",
			marker:   Marker{ID: "XLK", Label: "XLK", R: 20, Color: "#30d158", StrokeWidth: 2.5, Hovered: true},
			contains: []string{`class="marker-circle hovered"`, `r="20.00"`, `stroke-width="2.5"`},
		},
		{
			name:     "escaped label",
			marker:   Marker{Label: "A<B", Color: "#fff"},
			contains: []string{`A&lt;B`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Dark().RenderMarker(&buf, tt.marker)
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRenderTrail(t *testing.T) {
	var buf bytes.Buffer
	Light().RenderTrail(&buf, Trail{ID: "XLK", Color: "#0a84ff", Points: []Point{{1, 2}}})
	if buf.Len() != 0 {
		t.Errorf("single-point trail rendered %q", buf.String())
	}

	Light().RenderTrail(&buf, Trail{ID: "XLK", Color: "#0a84ff", Points: []Point{{1, 2}, {3, 4}, {5, 6}}})
	out := buf.String()
	for _, want := range []string{`data-for="XLK"`, `visibility="hidden"`, `points="1.00,2.00 3.00,4.00 5.00,6.00"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "<circle"); n != 2 {
		t.Errorf("trail vertices = %d, want 2 (final vertex is the marker)", n)
	}
}

func TestThemesDiffer(t *testing.T) {
	var dark, light bytes.Buffer
	Dark().RenderBackground(&dark, 500, 400)
	Light().RenderBackground(&light, 500, 400)
	if dark.String() == light.String() {
		t.Error("dark and light backgrounds are identical")
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"XLK", 5, "XLK"},
		{"XLRE", 4, "XLRE"},
		{"ABCDEFG", 5, "ABC.."},
		{"ABCDEFG", 1, "A.."},
	}
	for _, tt := range tests {
		if got := TruncateLabel(tt.in, tt.n); got != tt.want {
			t.Errorf("TruncateLabel(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
