// Package oops replaces Go's panic dump with a short apology, a crash report
// written to the temporary directory, and instructions for filing it.
//
// Install the handler once and recover at the top of main:
//
//	func main() {
//		oops.Setup(oops.Metadata{
//			Name:       "The justjs runtime",
//			ShortName:  "justjs",
//			Version:    "0.1.0",
//			Repository: "https://github.com/exact-rs/just",
//			Messages:   oops.DefaultMessages(),
//		})
//		defer oops.Recover()
//		...
//	}
//
// Goroutines started by the program recover through Guard. Setting
// GOTRACEBACK in the environment keeps the Go runtime's own panic output.
package oops

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/fatih/color"

	"oops/internal/config"
	"oops/internal/fault"
	"oops/internal/present"
	"oops/internal/report"
	"oops/internal/trace"
)

type (
	// Metadata describes the program that crashed.
	Metadata = present.Metadata
	// Messages configures the head, body and footer of the crash message.
	Messages = present.Messages
	// Section is the template and color of one message part.
	Section = present.Section
	// Color is a foreground color attribute.
	Color = color.Attribute
	// Format is the on-disk encoding of reports.
	Format = report.Format
	// ColorMode selects when the message is colored.
	ColorMode = config.ColorMode
)

const (
	FormatTOML    = report.FormatTOML
	FormatMsgpack = report.FormatMsgpack

	ColorAuto = config.ColorAuto
	ColorOn   = config.ColorOn
	ColorOff  = config.ColorOff
)

// exitCode matches the status the Go runtime uses for unrecovered panics.
const exitCode = 2

// DefaultMessages returns the built-in wording in red, white and green.
func DefaultMessages() Messages {
	return present.DefaultMessages()
}

// Style selects what happens on panic.
type Style uint8

const (
	// StyleHuman prints the friendly message and stores a report.
	StyleHuman Style = iota
	// StyleDebug leaves the panic to the Go runtime.
	StyleDebug
)

// DefaultStyle returns StyleDebug when GOTRACEBACK is set, StyleHuman otherwise.
func DefaultStyle() Style {
	if _, ok := os.LookupEnv("GOTRACEBACK"); ok {
		return StyleDebug
	}
	return StyleHuman
}

type settings struct {
	style  Style
	dir    string
	format Format
	color  ColorMode
	out    io.Writer
	stderr io.Writer
	tracer trace.Tracer
	exit   func(int)
}

// Option customizes Setup.
type Option func(*settings)

// WithStyle overrides DefaultStyle.
func WithStyle(s Style) Option { return func(o *settings) { o.style = s } }

// WithReportDir stores reports in dir instead of the temporary directory.
func WithReportDir(dir string) Option { return func(o *settings) { o.dir = dir } }

// WithFormat selects the report encoding.
func WithFormat(f Format) Option { return func(o *settings) { o.format = f } }

// WithColor selects when the message is colored.
func WithColor(m ColorMode) Option { return func(o *settings) { o.color = m } }

// WithOutput sends the crash message and unsaved reports to w instead of stderr.
func WithOutput(w io.Writer) Option {
	return func(o *settings) {
		o.out = w
		o.stderr = w
	}
}

// WithTracer replaces the default breadcrumb ring.
func WithTracer(t trace.Tracer) Option { return func(o *settings) { o.tracer = t } }

// WithExit replaces os.Exit, called once the crash has been reported.
func WithExit(exit func(int)) Option { return func(o *settings) { o.exit = exit } }

type installed struct {
	style   Style
	handler *fault.Handler
	tracer  trace.Tracer
	exit    func(int)
}

var current atomic.Pointer[installed]

// Setup installs the process-wide crash handler, replacing any previous one.
// The color mode is resolved here, once.
func Setup(meta Metadata, opts ...Option) {
	s := settings{
		style:  DefaultStyle(),
		format: FormatTOML,
		color:  ColorAuto,
		out:    os.Stderr,
		stderr: os.Stderr,
		exit:   os.Exit,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.tracer == nil {
		s.tracer = trace.NewRingTracer(trace.DefaultRingSize, trace.LevelDetail)
	}

	f, _ := s.out.(*os.File)
	current.Store(&installed{
		style:   s.style,
		handler: &fault.Handler{
			Meta:      meta,
			Persister: report.Persister{Dir: s.dir, Format: s.format},
			Presenter: present.Presenter{Out: s.out, Color: s.color.Enabled(f)},
			Stderr:    s.stderr,
			Tracer:    s.tracer,
		},
		tracer: s.tracer,
		exit:   s.exit,
	})
}

// Recover reports a panic of the calling goroutine and terminates the
// process. It must be deferred directly:
//
//	defer oops.Recover()
//
// Without an installed handler, or in StyleDebug, the panic continues.
func Recover() {
	r := recover()
	if r == nil {
		return
	}
	handle(r)
}

// Guard runs fn and reports a panic escaping it. Use it for goroutines:
//
//	go oops.Guard(worker)
func Guard(fn func()) {
	defer Recover()
	fn()
}

func handle(r any) {
	inst := current.Load()
	if inst == nil || inst.style == StyleDebug {
		panic(r)
	}
	if _, err := inst.handler.Handle(r); err != nil {
		panic(fmt.Sprintf("oops: printing error message to console failed: %v", err))
	}
	inst.exit(exitCode)
}

// Breadcrumb records what the program is doing. The most recent breadcrumbs
// are attached to the next crash report.
func Breadcrumb(name, detail string) {
	inst := current.Load()
	if inst == nil {
		return
	}
	trace.Point(inst.tracer, trace.ScopeHost, name, detail)
}
