package report

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format selects the on-disk encoding of a report.
type Format uint8

const (
	FormatTOML    Format = iota // human-readable, the default
	FormatMsgpack               // compact binary
)

// String returns the string representation of Format.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// Ext returns the file extension of the format, dot included.
func (f Format) Ext() string {
	return "." + f.String()
}

// ParseFormat converts a string to Format. An empty string selects TOML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "toml":
		return FormatTOML, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return FormatTOML, fmt.Errorf("invalid report format: %q (expected: toml|msgpack)", s)
	}
}

// FormatFromPath infers the format from a report file name.
func FormatFromPath(path string) (Format, error) {
	switch ext := filepath.Ext(path); ext {
	case FormatTOML.Ext():
		return FormatTOML, nil
	case FormatMsgpack.Ext():
		return FormatMsgpack, nil
	default:
		return FormatTOML, fmt.Errorf("%s: unknown report extension %q", path, ext)
	}
}
