// Package fault runs the crash pipeline for a recovered panic.
package fault

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"oops/internal/present"
	"oops/internal/report"
	"oops/internal/stack"
	"oops/internal/trace"
)

// Handler turns a panic value into a stored report and a console message.
type Handler struct {
	Meta      present.Metadata
	Persister report.Persister
	Presenter present.Presenter
	// Stderr receives the serialized report when it cannot be stored.
	// Defaults to os.Stderr.
	Stderr io.Writer
	Tracer trace.Tracer
}

// Handle captures a report for payload, tries to persist it and always
// renders the message. It returns the stored report path ("" when storing
// failed) and the error of the message rendering, if any.
func (h *Handler) Handle(payload any) (string, error) {
	tr := h.Tracer
	if tr == nil {
		tr = trace.Nop
	}

	// dump before our own spans land in the ring
	breadcrumbs := dumpBreadcrumbs(tr)

	root := trace.Begin(tr, trace.ScopeHandler, "fault", 0)
	defer root.End("")

	span := trace.Begin(tr, trace.ScopeStage, "capture", root.ID())
	file, line, _ := stack.Location(stack.TrimPanic(stack.Capture(0)))
	rep := report.Capture(h.Meta.ShortName, h.Meta.Version, report.MethodPanic, report.Explain(file, line), report.Cause(payload))
	if breadcrumbs != "" {
		rep = rep.WithBreadcrumbs(breadcrumbs)
	}
	span.WithExtra("cause", rep.Cause).End("")

	span = trace.Begin(tr, trace.ScopeStage, "persist", root.ID())
	path, err := h.Persister.Persist(rep)
	if err != nil {
		span.End(err.Error())
		h.dumpReport(rep)
	} else {
		span.WithExtra("path", path).End("")
	}

	span = trace.Begin(tr, trace.ScopeStage, "render", root.ID())
	p := h.Presenter
	if p.Out == nil {
		p.Out = os.Stderr
	}
	if err := p.Render(path, h.Meta); err != nil {
		span.End(err.Error())
		return path, fmt.Errorf("failed to print crash message: %w", err)
	}
	span.End("")
	return path, nil
}

// dumpReport writes an unsaved report to stderr so the data is not lost.
func (h *Handler) dumpReport(rep report.Report) {
	w := h.Stderr
	if w == nil {
		w = os.Stderr
	}
	text, err := rep.Serialize()
	if err != nil {
		fmt.Fprintf(w, "oops: %v\n", err)
		return
	}
	fmt.Fprintln(w, text)
}

func dumpBreadcrumbs(tr trace.Tracer) string {
	d, ok := tr.(trace.Dumper)
	if !ok {
		return ""
	}
	var buf bytes.Buffer
	if err := d.Dump(&buf, trace.FormatText); err != nil {
		return ""
	}
	return buf.String()
}
