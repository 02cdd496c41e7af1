package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleReport() Report {
	return Capture("demo", "1.0", MethodPanic, Explain("main.go", 42), "OMG EVERYTHING IS ON FIRE!!!")
}

func TestCaptureFillsFields(t *testing.T) {
	r := sampleReport()
	if r.Name != "demo" || r.Version != "1.0" || r.Method != MethodPanic {
		t.Fatalf("unexpected report header: %+v", r)
	}
	if r.Explanation != "Panic occurred in file 'main.go' at line 42\n" {
		t.Fatalf("Explanation = %q", r.Explanation)
	}
	if r.OperatingSystem == "" {
		t.Fatalf("OperatingSystem is empty")
	}
	if !strings.Contains(r.Backtrace, "sampleReport") {
		t.Fatalf("Backtrace does not start at the caller:\n%s", r.Backtrace)
	}
	if strings.Contains(r.Backtrace, "report.Capture") {
		t.Fatalf("Backtrace includes Capture itself:\n%s", r.Backtrace)
	}
}

func TestSerializeIsDeterministic(t *testing.T) {
	r := Report{
		Name:            "demo",
		OperatingSystem: "Linux",
		Version:         "1.0",
		Explanation:     "Panic location unknown.\n",
		Cause:           "boom",
		Method:          MethodPanic,
		Backtrace:       "\n0000: 0x0000000000000001 - <unresolved>",
	}
	first, err := r.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	second, err := r.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if first != second {
		t.Fatalf("Serialize is not deterministic:\n%s\n---\n%s", first, second)
	}
	for _, key := range []string{"name", "operating_system", "version", "explanation", "cause", "method", "backtrace"} {
		if !strings.Contains(first, key+" = ") {
			t.Fatalf("serialized report lacks %q:\n%s", key, first)
		}
	}
	if !strings.Contains(first, `method = "Panic"`) {
		t.Fatalf("method not encoded by name:\n%s", first)
	}
	if strings.Contains(first, "breadcrumbs") {
		t.Fatalf("empty breadcrumbs must be omitted:\n%s", first)
	}
	if strings.Index(first, "name =") > strings.Index(first, "backtrace =") {
		t.Fatalf("fields out of order:\n%s", first)
	}
}

func TestPersistAndLoad(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []Format{FormatTOML, FormatMsgpack} {
		r := sampleReport().WithBreadcrumbs("• opened config\n")
		path, err := Persister{Dir: dir, Format: format}.Persist(r)
		if err != nil {
			t.Fatalf("Persist(%v): %v", format, err)
		}
		base := filepath.Base(path)
		if !strings.HasPrefix(base, "report-") || filepath.Ext(base) != format.Ext() {
			t.Fatalf("unexpected report name %q", base)
		}

		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q): %v", path, err)
		}
		if got != r {
			t.Fatalf("round trip (%v) mismatch:\ngot  %+v\nwant %+v", format, got, r)
		}
	}
}

func TestPersistUsesDistinctPaths(t *testing.T) {
	dir := t.TempDir()
	p := Persister{Dir: dir}
	r := sampleReport()
	a, err := p.Persist(r)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	b, err := p.Persist(r)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if a == b {
		t.Fatalf("two reports persisted to the same path %q", a)
	}
	paths, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("List = %v, want 2 reports", paths)
	}
}

func TestPersistDefaultsToTempDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)
	path, err := Persister{}.Persist(sampleReport())
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if filepath.Dir(path) != os.TempDir() {
		t.Fatalf("Persist wrote to %q, want %q", path, os.TempDir())
	}
}

func TestPersistFailureLeavesNothing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	path, err := Persister{Dir: missing}.Persist(sampleReport())
	if err == nil {
		t.Fatalf("Persist into missing dir succeeded: %q", path)
	}
	if path != "" {
		t.Fatalf("Persist returned a path on failure: %q", path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Persist error = %v, want ErrNotExist", err)
	}
}

func TestListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"report-a.toml", "report-b.msgpack", "report-c.txt", "notes.toml", ".report-x.tmp"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	paths, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{filepath.Join(dir, "report-a.toml"), filepath.Join(dir, "report-b.msgpack")}
	if fmt.Sprint(paths) != fmt.Sprint(want) {
		t.Fatalf("List = %v, want %v", paths, want)
	}

	none, err := List(filepath.Join(dir, "missing"))
	if err != nil || len(none) != 0 {
		t.Fatalf("List(missing) = %v, %v", none, err)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	if _, err := Load("report-1.json"); err == nil {
		t.Fatalf("Load accepted an unknown extension")
	}
}

type stringer struct{}

func (stringer) String() string { return "stringer cause" }

func TestCause(t *testing.T) {
	cases := []struct {
		payload any
		want    string
	}{
		{"static text", "static text"},
		{errors.New("wrapped failure"), "wrapped failure"},
		{stringer{}, "stringer cause"},
		{[]byte("bytes"), "bytes"},
		{42, UnknownCause},
		{nil, UnknownCause},
		{struct{ X int }{1}, UnknownCause},
	}
	for _, tc := range cases {
		if got := Cause(tc.payload); got != tc.want {
			t.Fatalf("Cause(%#v) = %q, want %q", tc.payload, got, tc.want)
		}
	}
}

func TestExplain(t *testing.T) {
	if got := Explain("", 0); got != "Panic location unknown.\n" {
		t.Fatalf("Explain unknown = %q", got)
	}
	if got := Explain("/src/main.go", 7); got != "Panic occurred in file '/src/main.go' at line 7\n" {
		t.Fatalf("Explain = %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatTOML, true},
		{"TOML", FormatTOML, true},
		{"msgpack", FormatMsgpack, true},
		{"yaml", FormatTOML, false},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Fatalf("ParseFormat(%q) = %v, %v", tc.in, got, err)
		}
	}
}

func TestMethodText(t *testing.T) {
	var m Method
	if err := m.UnmarshalText([]byte("Panic")); err != nil || m != MethodPanic {
		t.Fatalf("UnmarshalText = %v, %v", m, err)
	}
	if err := m.UnmarshalText([]byte("Signal")); err == nil {
		t.Fatalf("UnmarshalText accepted an unknown method")
	}
}
