package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const gitignoreFile = ".gitignore"

var gitignoreEntries = []string{
	"__pycache__/",
	"*.pyc",
	".venv/",
	"test.db",
}

// ensureGitignore appends any missing entries to the project's .gitignore,
// creating it if needed. Existing lines are kept. It reports whether the
// file changed.
func ensureGitignore(root string) (bool, error) {
	path := filepath.Join(root, gitignoreFile)

	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading .gitignore: %w", err)
	}

	present := make(map[string]bool)
	for _, l := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(l)] = true
	}

	var missing []string
	for _, e := range gitignoreEntries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	var b strings.Builder
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		b.WriteByte('\n')
	}
	for _, e := range missing {
		b.WriteString(e)
		b.WriteByte('\n')
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("opening .gitignore for append: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		return false, fmt.Errorf("writing to .gitignore: %w", err)
	}
	return true, nil
}
