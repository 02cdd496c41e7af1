// Package placeholder fills named placeholders in message templates.
//
// A placeholder is a key enclosed in an open/close marker pair, "%(name)" with
// the default markers. Keys missing from the table are left untouched so that a
// template referencing a key this version does not know still renders.
package placeholder

import "strings"

const (
	// DefaultOpen starts a placeholder.
	DefaultOpen = "%("
	// DefaultClose ends a placeholder.
	DefaultClose = ")"
)

// Template holds the marker pair used to find placeholders.
type Template struct {
	Open  string
	Close string
}

// New returns a Template using the given markers.
// Empty markers fall back to the defaults.
func New(open, close string) Template {
	if open == "" {
		open = DefaultOpen
	}
	if close == "" {
		close = DefaultClose
	}
	return Template{Open: open, Close: close}
}

// Render fills text using the default markers.
func Render(text string, table map[string]string) string {
	return New(DefaultOpen, DefaultClose).Fill(text, table)
}

// Fill scans text once, left to right, and replaces every known placeholder
// with its value. Substituted values are not scanned again. Markers do not
// nest: the key runs from an open marker to the next close marker.
func (t Template) Fill(text string, table map[string]string) string {
	if t.Open == "" || t.Close == "" {
		t = New(t.Open, t.Close)
	}

	var sb strings.Builder
	sb.Grow(len(text))

	rest := text
	for {
		start := strings.Index(rest, t.Open)
		if start < 0 {
			sb.WriteString(rest)
			break
		}
		sb.WriteString(rest[:start])

		after := rest[start+len(t.Open):]
		end := strings.Index(after, t.Close)
		if end < 0 {
			// unterminated marker: keep the tail as is
			sb.WriteString(rest[start:])
			break
		}

		key := after[:end]
		if value, ok := table[key]; ok {
			sb.WriteString(value)
		} else {
			sb.WriteString(rest[start : start+len(t.Open)+end+len(t.Close)])
		}
		rest = after[end+len(t.Close):]
	}

	return sb.String()
}
