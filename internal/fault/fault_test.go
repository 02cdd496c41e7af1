package fault

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"oops/internal/present"
	"oops/internal/report"
	"oops/internal/trace"
)

func demoMeta() present.Metadata {
	return present.Metadata{
		Name:       "The demo runtime",
		ShortName:  "demo",
		Version:    "1.0",
		Repository: "https://example.com/demo",
		Messages:   present.DefaultMessages(),
	}
}

// crash panics with payload and runs h from the deferred recover, the way
// the registration glue does.
func crash(t *testing.T, h *Handler, payload any) (path string, err error) {
	t.Helper()
	func() {
		defer func() {
			if r := recover(); r != nil {
				path, err = h.Handle(r)
			}
		}()
		explode(payload)
	}()
	return path, err
}

//go:noinline
func explode(payload any) {
	panic(payload)
}

func TestHandleStoresReport(t *testing.T) {
	dir := t.TempDir()
	var console, stderr bytes.Buffer
	h := &Handler{
		Meta:      demoMeta(),
		Persister: report.Persister{Dir: dir},
		Presenter: present.Presenter{Out: &console},
		Stderr:    &stderr,
	}

	path, err := crash(t, h, "OMG EVERYTHING IS ON FIRE!!!")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("report stored at %q, want inside %q", path, dir)
	}
	if stderr.Len() != 0 {
		t.Fatalf("fallback dump used although the report was stored:\n%s", stderr.String())
	}
	if !strings.Contains(console.String(), `report file at "`+path+`"`) {
		t.Fatalf("message does not mention the report path:\n%s", console.String())
	}
	if !strings.Contains(console.String(), "The demo runtime v1.0 had a problem and crashed.") {
		t.Fatalf("head missing:\n%s", console.String())
	}

	rep, err := report.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rep.Name != "demo" || rep.Version != "1.0" || rep.Cause != "OMG EVERYTHING IS ON FIRE!!!" {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if !strings.HasPrefix(rep.Explanation, "Panic occurred in file '") || !strings.Contains(rep.Explanation, "fault_test.go") {
		t.Fatalf("Explanation = %q", rep.Explanation)
	}
	if !strings.Contains(strings.SplitN(rep.Backtrace, "\n", 3)[1], "explode") {
		t.Fatalf("backtrace does not start at the panicking frame:\n%s", rep.Backtrace)
	}
}

func TestHandlePersistFailureFallsBack(t *testing.T) {
	var console, stderr bytes.Buffer
	h := &Handler{
		Meta:      demoMeta(),
		Persister: report.Persister{Dir: filepath.Join(t.TempDir(), "missing")},
		Presenter: present.Presenter{Out: &console},
		Stderr:    &stderr,
	}

	path, err := crash(t, h, errors.New("disk on fire"))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if path != "" {
		t.Fatalf("path = %q, want empty", path)
	}
	if !strings.Contains(console.String(), present.FailedPath) {
		t.Fatalf("sentinel path missing:\n%s", console.String())
	}

	dumped, err := report.Decode(report.FormatTOML, stderr.Bytes())
	if err != nil {
		t.Fatalf("fallback dump is not a report: %v\n%s", err, stderr.String())
	}
	if dumped.Cause != "disk on fire" || dumped.Name != "demo" {
		t.Fatalf("unexpected dumped report: %+v", dumped)
	}
}

func TestHandleUnknownPayload(t *testing.T) {
	dir := t.TempDir()
	h := &Handler{
		Meta:      demoMeta(),
		Persister: report.Persister{Dir: dir},
		Presenter: present.Presenter{Out: &bytes.Buffer{}},
	}
	path, err := crash(t, h, 42)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	rep, err := report.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rep.Cause != report.UnknownCause {
		t.Fatalf("Cause = %q, want %q", rep.Cause, report.UnknownCause)
	}
}

type brokenConsole struct{}

func (brokenConsole) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestHandleReportsConsoleFailure(t *testing.T) {
	h := &Handler{
		Meta:      demoMeta(),
		Persister: report.Persister{Dir: t.TempDir()},
		Presenter: present.Presenter{Out: brokenConsole{}},
	}
	path, err := crash(t, h, "boom")
	if err == nil {
		t.Fatalf("Handle swallowed the console error")
	}
	if path == "" {
		t.Fatalf("report should still be stored when the console fails")
	}
}

func TestHandleAttachesBreadcrumbs(t *testing.T) {
	ring := trace.NewRingTracer(16, trace.LevelDetail)
	trace.Point(ring, trace.ScopeHost, "loaded config", "demo.toml")

	h := &Handler{
		Meta:      demoMeta(),
		Persister: report.Persister{Dir: t.TempDir()},
		Presenter: present.Presenter{Out: &bytes.Buffer{}},
		Tracer:    ring,
	}
	path, err := crash(t, h, "boom")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	rep, err := report.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.Contains(rep.Breadcrumbs, "• loaded config (demo.toml)") {
		t.Fatalf("Breadcrumbs = %q", rep.Breadcrumbs)
	}

	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanEnd {
			names = append(names, ev.Name)
		}
	}
	if strings.Join(names, ",") != "capture,persist,render,fault" {
		t.Fatalf("pipeline spans = %v", names)
	}
}
