package styles

import (
	"bytes"
	"encoding/xml"
)

// EscapeXML escapes text for use in SVG content and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// TruncateLabel shortens s to at most n runes, marking the cut with "..".
func TruncateLabel(s string, n int) string {
	r := []rune(s)
	if n < 3 {
		n = 3
	}
	if len(r) <= n {
		return s
	}
	return string(r[:n-2]) + ".."
}
