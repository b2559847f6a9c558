package headers

import (
	"sort"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// ParseHeaders converts an array of header strings ("Key: Value") into a map.
// Lines without a colon, with an invalid field name or with invalid value
// bytes are skipped.
func ParseHeaders(h []string) map[string]string {
	m := make(map[string]string)
	for _, hdr := range h {
		parts := strings.SplitN(hdr, ":", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if !httpguts.ValidHeaderFieldName(name) || !httpguts.ValidHeaderFieldValue(value) {
			continue
		}
		m[name] = value
	}
	return m
}

// ParseLines parses newline-separated "Name: Value" pairs
func ParseLines(text string) map[string]string {
	return ParseHeaders(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
}

// Format renders a header map back into newline-separated lines, sorted by name
func Format(h map[string]string) string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+h[k])
	}
	return strings.Join(lines, "\n")
}

