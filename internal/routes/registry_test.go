package routes

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const emptyRegistry = "# Users can modify this dictionary to change route prefixes\napp_routes = {}\n"

func TestNewRendersEmptyMapping(t *testing.T) {
	got := string(New().Bytes())
	if got != emptyRegistry {
		t.Errorf("New().Bytes() = %q, want %q", got, emptyRegistry)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Entry
	}{
		{
			name:  "empty mapping",
			input: emptyRegistry,
			want:  nil,
		},
		{
			name:  "multi-line with trailing comma",
			input: "app_routes = {\n    \"alpha\": \"/alpha\",\n    \"beta\": \"/api/beta\",\n}\n",
			want:  []Entry{{"alpha", "/alpha"}, {"beta", "/api/beta"}},
		},
		{
			name:  "single line without trailing comma",
			input: `app_routes = {"alpha": "/alpha", 'beta': '/b'}`,
			want:  []Entry{{"alpha", "/alpha"}, {"beta", "/b"}},
		},
		{
			name:  "comments and blank lines",
			input: "app_routes = {\n    # public api\n\n    \"alpha\": \"/alpha\",  # default\n}\n",
			want:  []Entry{{"alpha", "/alpha"}},
		},
		{
			name:  "escaped quote",
			input: `app_routes = {"a": "/x\"y"}`,
			want:  []Entry{{"a", `/x"y`}},
		},
		{
			name:  "python escapes",
			input: `app_routes = {"a": "/x\ty", 'b': '/it\'s', "c": "/back\\slash"}`,
			want:  []Entry{{"a", "/x\ty"}, {"b", "/it's"}, {"c", `/back\slash`}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			got := r.Entries()
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("entry[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"no assignment", "routes = {}\n", ErrNoMapping},
		{"unterminated", "app_routes = {\n    \"a\": \"/a\",\n", ErrMalformed},
		{"missing colon", `app_routes = {"a" "/a"}`, ErrMalformed},
		{"bare identifier", `app_routes = {a: "/a"}`, ErrMalformed},
		{"unterminated string", `app_routes = {"a": "/a}`, ErrMalformed},
		{"missing comma", `app_routes = {"a": "/a" "b": "/b"}`, ErrMalformed},
		{"missing comma across lines", "app_routes = {\n    \"a\": \"/a\"\n    \"b\": \"/b\",\n}\n", ErrMalformed},
		{"hex escape", `app_routes = {"a": "/\x41"}`, ErrMalformed},
		{"unicode escape", `app_routes = {"a": "/\u0041"}`, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseMalformedReportsLine(t *testing.T) {
	_, err := Parse([]byte("# header\napp_routes = {\n    \"a\": \"/a\",\n    b: 1,\n}\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "line 4") {
		t.Errorf("error should name line 4, got: %v", err)
	}
}

func TestParseDuplicateKeyLastWins(t *testing.T) {
	r, err := Parse([]byte(`app_routes = {"a": "/first", "a": "/second"}`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	if p, _ := r.Get("a"); p != "/second" {
		t.Errorf("Get(a) = %q, want %q", p, "/second")
	}
	if len(r.Warnings()) != 1 {
		t.Errorf("Warnings() = %v, want one duplicate warning", r.Warnings())
	}
}

func TestAddIsIdempotent(t *testing.T) {
	r := New()
	if !r.Add("alpha", "/alpha") {
		t.Fatal("first Add() = false, want true")
	}
	if r.Add("alpha", "/other") {
		t.Fatal("second Add() = true, want false")
	}
	if p, _ := r.Get("alpha"); p != "/alpha" {
		t.Errorf("Get(alpha) = %q, want %q", p, "/alpha")
	}
}

func TestLookupDefaultsToName(t *testing.T) {
	r := New()
	r.Add("api", "/v1")

	if got := r.Lookup("api"); got != "/v1" {
		t.Errorf("Lookup(api) = %q, want %q", got, "/v1")
	}
	if got := r.Lookup("widgets"); got != "/widgets" {
		t.Errorf("Lookup(widgets) = %q, want %q", got, "/widgets")
	}
}

func TestRoundTripPreservesSurroundingText(t *testing.T) {
	input := "\"\"\"Route prefixes.\"\"\"\nimport os\n\napp_routes = {\n    \"alpha\": \"/custom\",\n}\n\nDEBUG = os.getenv(\"DEBUG\")\n"

	r, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := string(r.Bytes()); got != input {
		t.Errorf("round trip changed file:\n got: %q\nwant: %q", got, input)
	}

	r.Add("beta", "/beta")
	out := string(r.Bytes())
	for _, want := range []string{`"alpha": "/custom",`, `"beta": "/beta",`, "import os\n", "DEBUG = os.getenv"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	again, err := Parse([]byte(out))
	if err != nil {
		t.Fatalf("re-parse error: %v", err)
	}
	if again.Len() != 2 {
		t.Errorf("re-parsed Len() = %d, want 2", again.Len())
	}
}

func TestAddKeepsLiteralLayout(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty mapping",
			input: "app_routes = {}\n",
			want:  "app_routes = {\n    \"new\": \"/new\",\n}\n",
		},
		{
			name:  "comments inside mapping",
			input: "app_routes = {\n    # public API lives under /v1\n    \"api\": \"/v1\",  # keep in sync with gateway\n}\n",
			want:  "app_routes = {\n    # public API lives under /v1\n    \"api\": \"/v1\",  # keep in sync with gateway\n    \"new\": \"/new\",\n}\n",
		},
		{
			name:  "last entry without comma",
			input: "app_routes = {\n    \"api\": \"/v1\"  # no comma\n}\n",
			want:  "app_routes = {\n    \"api\": \"/v1\",  # no comma\n    \"new\": \"/new\",\n}\n",
		},
		{
			name:  "brace on entry line",
			input: "app_routes = {\n    \"api\": \"/v1\"}\n",
			want:  "app_routes = {\n    \"api\": \"/v1\",\n    \"new\": \"/new\",\n}\n",
		},
		{
			name:  "single line",
			input: `app_routes = {"api": "/v1", 'b': '/b'}` + "\n",
			want:  `app_routes = {"api": "/v1", 'b': '/b', "new": "/new"}` + "\n",
		},
		{
			name:  "comment only",
			input: "app_routes = {\n    # nothing yet\n}\n",
			want:  "app_routes = {\n    # nothing yet\n    \"new\": \"/new\",\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if !r.Add("new", "/new") {
				t.Fatal("Add() = false, want true")
			}
			got := string(r.Bytes())
			if got != tt.want {
				t.Errorf("Bytes() =\n%s\nwant:\n%s", got, tt.want)
			}

			again, err := Parse([]byte(got))
			if err != nil {
				t.Fatalf("re-parse error: %v", err)
			}
			if p, ok := again.Get("new"); !ok || p != "/new" {
				t.Errorf("re-parsed Get(new) = %q, %v", p, ok)
			}
		})
	}
}

func TestAddLeavesEscapedPrefixesAlone(t *testing.T) {
	input := `app_routes = {"a": "/x\ty"}` + "\n"
	r, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	r.Add("b", "/b")
	got := string(r.Bytes())
	if !strings.Contains(got, `"a": "/x\ty"`) {
		t.Errorf("existing entry rewritten: %s", got)
	}
}

func TestEnsure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.py")

	created, err := Ensure(path)
	if err != nil {
		t.Fatalf("Ensure() error: %v", err)
	}
	if !created {
		t.Error("Ensure() created = false on missing file")
	}
	data, _ := os.ReadFile(path)
	if string(data) != emptyRegistry {
		t.Errorf("created registry = %q, want %q", data, emptyRegistry)
	}

	if err := os.WriteFile(path, []byte("app_routes = {\"x\": \"/x\"}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	created, err = Ensure(path)
	if err != nil {
		t.Fatalf("Ensure() error: %v", err)
	}
	if created {
		t.Error("Ensure() created = true on existing file")
	}
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), `"x"`) {
		t.Error("Ensure() modified an existing registry")
	}
}

func TestAddDefaultTwiceKeepsOneEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.py")

	for i, want := range []bool{true, false} {
		added, err := register(path, "alpha")
		if err != nil {
			t.Fatalf("register() #%d error: %v", i+1, err)
		}
		if added != want {
			t.Errorf("register() #%d added = %v, want %v", i+1, added, want)
		}
	}

	data, _ := os.ReadFile(path)
	if n := strings.Count(string(data), `"alpha":`); n != 1 {
		t.Errorf("registry has %d alpha entries, want 1:\n%s", n, data)
	}
}

func TestAddDefaultKeepsOtherEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.py")
	if err := os.WriteFile(path, []byte("app_routes = {\n    \"api\": \"/v1\",\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := register(path, "alpha"); err != nil {
		t.Fatalf("register(alpha) error: %v", err)
	}
	if _, err := register(path, "beta"); err != nil {
		t.Fatalf("register(beta) error: %v", err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := []Entry{{"api", "/v1"}, {"alpha", "/alpha"}, {"beta", "/beta"}}
	got := r.Entries()
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAddDefaultOnUnparsableRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.py")
	original := "routes = []\n"
	if err := os.WriteFile(path, []byte(original), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := register(path, "alpha"); !errors.Is(err, ErrNoMapping) {
		t.Fatalf("register() error = %v, want ErrNoMapping", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != original {
		t.Errorf("registry modified on error: %q", data)
	}
}

// register performs the load-add-save cycle used when an app is created.
func register(path, name string) (bool, error) {
	if _, err := Ensure(path); err != nil {
		return false, err
	}
	r, err := Load(path)
	if err != nil {
		return false, err
	}
	if !r.Add(name, DefaultPrefix(name)) {
		return false, nil
	}
	return true, r.Save(path)
}
