// Package stack captures and formats the goroutine call stack at fault time.
package stack

import (
	"fmt"
	"math/bits"
	"runtime"
	"strings"

	"fortio.org/safecast"
)

const (
	// hexWidth is the width of a formatted program counter, "0x" included.
	hexWidth = bits.UintSize/4 + 2
	// symbolPadding aligns continuation lines under the address column.
	symbolPadding = hexWidth + 6

	maxDepth = 256

	panicFunc = "runtime.gopanic"
)

// Symbol is a code location resolved from a program counter.
type Symbol struct {
	Name string // function name, empty if unknown
	File string // source file, empty if unknown
	Line uint32 // 0 if unknown
}

// Frame is one captured stack entry. A frame resolves to several symbols when
// calls were inlined into it.
type Frame struct {
	Index   int
	PC      uintptr
	Symbols []Symbol
}

// Capture walks the calling goroutine's stack. skip counts frames above the
// caller of Capture, so Capture(0) starts at the function that called it.
// Calls inlined into a function are reported as extra symbols of its frame.
func Capture(skip int) []Frame {
	pcs := make([]uintptr, maxDepth)
	for {
		n := runtime.Callers(skip+2, pcs)
		if n < len(pcs) {
			pcs = pcs[:n]
			break
		}
		pcs = make([]uintptr, len(pcs)*2)
	}
	if len(pcs) == 0 {
		return nil
	}

	return group(runtime.CallersFrames(pcs).Next)
}

// group folds the frames produced by next into one Frame per physical call
// site. An unresolved entry becomes a frame of its own.
func group(next func() (runtime.Frame, bool)) []Frame {
	var (
		frames    []Frame
		pending   []Symbol
		pendingPC uintptr
	)
	flush := func(pc uintptr) {
		frames = append(frames, Frame{Index: len(frames), PC: pc, Symbols: pending})
		pending = nil
	}

	for {
		fr, more := next()
		if fr.Function == "" && fr.File == "" {
			if len(pending) > 0 {
				flush(pendingPC)
			}
			flush(fr.PC)
		} else {
			pending = append(pending, symbolOf(fr))
			pendingPC = fr.PC
			// Func is only set on the physical frame that closes an inlining chain.
			if fr.Func != nil || !more {
				flush(fr.PC)
			}
		}
		if !more {
			break
		}
	}
	return frames
}

func symbolOf(fr runtime.Frame) Symbol {
	sym := Symbol{Name: fr.Function, File: fr.File}
	if line, err := safecast.Conv[uint32](fr.Line); err == nil {
		sym.Line = line
	}
	return sym
}

// TrimPanic drops the frames that belong to the panic machinery, up to and
// including runtime.gopanic plus the runtime helpers that raised a runtime
// error (runtime.panicmem, runtime.sigpanic, ...), and renumbers the rest.
// Frames are returned unchanged when no panic frame is present.
func TrimPanic(frames []Frame) []Frame {
	cut := -1
	for i, fr := range frames {
		if fr.calls(func(name string) bool { return name == panicFunc }) {
			cut = i
			break
		}
	}
	if cut < 0 {
		return frames
	}

	start := cut + 1
	for start < len(frames) && frames[start].calls(isRuntime) {
		start++
	}

	rest := make([]Frame, 0, len(frames)-start)
	for i, fr := range frames[start:] {
		fr.Index = i
		rest = append(rest, fr)
	}
	return rest
}

func (fr Frame) calls(match func(string) bool) bool {
	for _, sym := range fr.Symbols {
		if match(sym.Name) {
			return true
		}
	}
	return false
}

func isRuntime(name string) bool {
	return strings.HasPrefix(name, "runtime.")
}

// Format renders frames as a human-readable listing. Every frame starts on a
// new line with its index and address, followed by its symbols.
func Format(frames []Frame) string {
	var sb strings.Builder
	for _, fr := range frames {
		fmt.Fprintf(&sb, "\n%04d: 0x%0*x", fr.Index, hexWidth-2, uint64(fr.PC))

		if len(fr.Symbols) == 0 {
			sb.WriteString(" - <unresolved>")
			continue
		}

		for i, sym := range fr.Symbols {
			if i != 0 {
				sb.WriteString("\n")
				sb.WriteString(strings.Repeat(" ", symbolPadding))
			}

			name := sym.Name
			if name == "" {
				name = "<unknown>"
			}
			sb.WriteString(" - ")
			sb.WriteString(name)

			if sym.File != "" && sym.Line != 0 {
				fmt.Fprintf(&sb, "\n%sat %s:%d", strings.Repeat(" ", symbolPadding), sym.File, sym.Line)
			}
		}
	}
	return sb.String()
}

// Trace captures and formats the stack of the caller, skipping skip frames.
func Trace(skip int) string {
	return Format(Capture(skip + 1))
}

// Location returns the first resolved source position in frames.
func Location(frames []Frame) (file string, line int, ok bool) {
	for _, fr := range frames {
		for _, sym := range fr.Symbols {
			if sym.File != "" && sym.Line != 0 {
				return sym.File, int(sym.Line), true
			}
		}
	}
	return "", 0, false
}
