package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1 // span start
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd // span end
	// KindPoint represents an instant event.
	KindPoint // instant event
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	// ScopeHandler is the fault handler as a whole.
	ScopeHandler Scope = iota + 1
	// ScopeStage is one pipeline stage (capture, persist, render).
	ScopeStage
	// ScopeHost is a breadcrumb recorded by the host program.
	ScopeHost
	ScopeDebug // internal chatter
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeHandler:
		return "handler"
	case ScopeStage:
		return "stage"
	case ScopeHost:
		return "host"
	case ScopeDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier
	ParentID uint64            // parent span (0 if root)
	Name     string            // e.g. "persist", "config loaded"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs
}
