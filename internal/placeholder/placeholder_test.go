package placeholder

import "testing"

func TestRenderKnownKeys(t *testing.T) {
	table := map[string]string{
		"name":    "demo",
		"version": "1.0",
	}
	cases := []struct {
		input string
		want  string
	}{
		{"%(name) v%(version)", "demo v1.0"},
		{"%(name)%(name)", "demodemo"},
		{"crashed: %(name)!", "crashed: demo!"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Render(tc.input, table); got != tc.want {
			t.Fatalf("Render(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestRenderWithoutPlaceholdersIsIdentity(t *testing.T) {
	table := map[string]string{"name": "demo"}
	inputs := []string{
		"plain text",
		"name version",
		"100% sure (really)",
		"line one\nline two\n",
	}
	for _, in := range inputs {
		if got := Render(in, table); got != in {
			t.Fatalf("Render(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestRenderUnknownKeyPassesThrough(t *testing.T) {
	table := map[string]string{"name": "demo"}
	cases := []struct {
		input string
		want  string
	}{
		{"%(future_key)", "%(future_key)"},
		{"%(name) %(nope)", "demo %(nope)"},
		{"%()", "%()"},
	}
	for _, tc := range cases {
		if got := Render(tc.input, table); got != tc.want {
			t.Fatalf("Render(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestRenderUnterminatedMarker(t *testing.T) {
	table := map[string]string{"name": "demo"}
	cases := []struct {
		input string
		want  string
	}{
		{"%(name", "%(name"},
		{"%(name) and %(name", "demo and %(name"},
		{"tail %(", "tail %("},
	}
	for _, tc := range cases {
		if got := Render(tc.input, table); got != tc.want {
			t.Fatalf("Render(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestRenderNestedOpenMarkerIsPartOfKey(t *testing.T) {
	table := map[string]string{"name": "demo"}
	cases := []struct {
		input string
		want  string
	}{
		{"%(a%(name)", "%(a%(name)"},
		{"%(a%(name) %(name)", "%(a%(name) demo"},
		{"%(%(name))", "%(%(name))"},
	}
	for _, tc := range cases {
		if got := Render(tc.input, table); got != tc.want {
			t.Fatalf("Render(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestRenderDoesNotRescanValues(t *testing.T) {
	table := map[string]string{
		"a": "%(b)",
		"b": "oops",
	}
	if got := Render("%(a)", table); got != "%(b)" {
		t.Fatalf("Render = %q, want %q", got, "%(b)")
	}
}

func TestCustomMarkers(t *testing.T) {
	tmpl := New("{{", "}}")
	table := map[string]string{"name": "demo"}
	if got := tmpl.Fill("hello {{name}} %(name)", table); got != "hello demo %(name)" {
		t.Fatalf("Fill = %q", got)
	}

	var zero Template
	if got := zero.Fill("%(name)", table); got != "demo" {
		t.Fatalf("zero Template Fill = %q, want default markers", got)
	}
}

func TestRenderDoesNotMutateTable(t *testing.T) {
	table := map[string]string{"name": "demo"}
	_ = Render("%(name) %(other)", table)
	if len(table) != 1 || table["name"] != "demo" {
		t.Fatalf("table mutated: %v", table)
	}
}
