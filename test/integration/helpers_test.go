//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fastgen-labs/fastgen/internal/scaffold"
)

// setupProject isolates the user config directory and creates a fresh
// project. It returns the project root.
func setupProject(t *testing.T, name string) string {
	t.Helper()
	t.Setenv("FASTGEN_HOME", t.TempDir())

	parent := t.TempDir()
	if _, err := scaffold.CreateProject(parent, name, scaffold.Options{Version: "1.0.0"}); err != nil {
		t.Fatalf("CreateProject(%s): %v", name, err)
	}
	return filepath.Join(parent, name)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	if content := readFile(t, path); !strings.Contains(content, substr) {
		t.Errorf("%s does not contain %q\n--- content ---\n%s", path, substr, content)
	}
}
