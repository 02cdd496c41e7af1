package report

import "fmt"

// UnknownCause is recorded when a panic value carries no text.
const UnknownCause = "Unknown"

// Cause extracts a displayable cause from a recovered panic value. Strings,
// errors, fmt.Stringer values and byte slices map to their text; anything
// else, nil included, maps to UnknownCause.
func Cause(payload any) string {
	switch v := payload.(type) {
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return UnknownCause
	}
}

// Explain describes where the fault happened. A zero line or an empty file
// means the location is unknown.
func Explain(file string, line int) string {
	if file == "" || line <= 0 {
		return "Panic location unknown.\n"
	}
	return fmt.Sprintf("Panic occurred in file '%s' at line %d\n", file, line)
}
