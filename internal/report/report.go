// Package report builds, encodes and stores crash reports.
//
// A Report is assembled once at fault time by Capture, encoded (TOML by
// default) and written to a uniquely named file by a Persister. Reports are
// plain values; nothing in this package keeps global state.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"

	"oops/internal/osinfo"
	"oops/internal/stack"
)

// skipFrames hides Capture itself from the recorded backtrace.
const skipFrames = 1

// Method tells what triggered a report.
type Method uint8

const (
	// MethodPanic is a recovered Go panic.
	MethodPanic Method = iota + 1
)

// String returns the string representation of Method.
func (m Method) String() string {
	switch m {
	case MethodPanic:
		return "Panic"
	default:
		return "Unknown"
	}
}

// ParseMethod converts a string to Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "panic":
		return MethodPanic, nil
	default:
		return 0, fmt.Errorf("invalid report method: %q (expected: Panic)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if m != MethodPanic {
		return nil, fmt.Errorf("unknown report method %d", m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// EncodeMsgpack stores the method by name, like the TOML encoding.
func (m Method) EncodeMsgpack(enc *msgpack.Encoder) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	return enc.EncodeString(string(text))
}

// DecodeMsgpack reads a method stored by EncodeMsgpack.
func (m *Method) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	return m.UnmarshalText([]byte(s))
}

// Report is the structured record of a single fault.
type Report struct {
	Name            string `toml:"name" msgpack:"name"`
	OperatingSystem string `toml:"operating_system" msgpack:"operating_system"`
	Version         string `toml:"version" msgpack:"version"`
	Explanation     string `toml:"explanation" msgpack:"explanation"`
	Cause           string `toml:"cause" msgpack:"cause"`
	Method          Method `toml:"method" msgpack:"method"`
	Backtrace       string `toml:"backtrace" msgpack:"backtrace"`
	Breadcrumbs     string `toml:"breadcrumbs,omitempty" msgpack:"breadcrumbs,omitempty"`
}

// Capture assembles a report for the calling goroutine. The operating system
// descriptor and the backtrace are read at call time; the backtrace starts at
// the frame that panicked when called during a panic, at the caller otherwise.
func Capture(name, version string, method Method, explanation, cause string) Report {
	frames := stack.TrimPanic(stack.Capture(skipFrames))
	return Report{
		Name:            name,
		OperatingSystem: osinfo.Describe(),
		Version:         version,
		Explanation:     explanation,
		Cause:           cause,
		Method:          method,
		Backtrace:       stack.Format(frames),
	}
}

// WithBreadcrumbs returns a copy of r carrying the given event trail.
func (r Report) WithBreadcrumbs(trail string) Report {
	r.Breadcrumbs = trail
	return r
}

// Serialize renders the report as TOML.
func (r Report) Serialize() (string, error) {
	data, err := r.Encode(FormatTOML)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Encode renders the report in the given format.
func (r Report) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(r); err != nil {
			return nil, fmt.Errorf("failed to encode report as TOML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatMsgpack:
		data, err := msgpack.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to encode report as msgpack: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown report format: %v", format)
	}
}

// Decode parses a report previously produced by Encode.
func Decode(format Format, data []byte) (Report, error) {
	var r Report
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&r); err != nil {
			return Report{}, fmt.Errorf("failed to parse TOML report: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &r); err != nil {
			return Report{}, fmt.Errorf("failed to parse msgpack report: %w", err)
		}
	default:
		return Report{}, fmt.Errorf("unknown report format: %v", format)
	}
	return r, nil
}
