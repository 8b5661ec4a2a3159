// Package routing evaluates, in Go, what the generated settings/routing.py
// does at application startup: discover every module under routers/, keep
// the ones exposing a module-level router, and mount each under the prefix
// registered in routes.py or /<module> by default.
//
// The result is a mount table and a chi router mirroring it, which lets the
// CLI report the effective URL layout without running the application.
package routing

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/fastgen-labs/fastgen/internal/routes"
	"github.com/fastgen-labs/fastgen/internal/scaffold"
	"github.com/go-chi/chi/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidPrefix is returned by Router for prefixes FastAPI would reject.
var ErrInvalidPrefix = errors.New("invalid mount prefix")

// Matches "router = APIRouter()" and "from x import router" at module level.
var routerDecl = regexp.MustCompile(`(?m)^(router\s*[:=]|from\s+\S+\s+import\s+.*\brouter\b)`)

// Mount describes one router included by the aggregation logic.
type Mount struct {
	Module string
	Prefix string
	Tag    string
	// Custom is true when the prefix comes from routes.py.
	Custom bool
}

// Plan builds the mount table for the project at root, ordered by module name.
func Plan(root string) ([]Mount, error) {
	dir := filepath.Join(root, "routers")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading routers directory: %w", err)
	}

	reg, err := loadRegistry(filepath.Join(root, "routes.py"))
	if err != nil {
		return nil, err
	}

	var mounts []Mount
	for _, entry := range entries {
		module, source, ok := moduleSource(dir, entry)
		if !ok {
			continue
		}
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", source, err)
		}
		if !routerDecl.Match(data) {
			continue
		}

		prefix, custom := reg.Get(module)
		if !custom {
			prefix = routes.DefaultPrefix(module)
		}
		mounts = append(mounts, Mount{
			Module: module,
			Prefix: prefix,
			Tag:    capitalize(module),
			Custom: custom,
		})
	}

	sort.Slice(mounts, func(i, j int) bool { return mounts[i].Module < mounts[j].Module })
	return mounts, nil
}

// Router returns a chi router with the root route and one stub sub-router
// per mount. Handlers answer with the same greetings the scaffolds render.
func Router(mounts []Mount) (chi.Router, error) {
	r := chi.NewRouter()
	r.Get("/", messageHandler(scaffold.RootMessage))

	seen := make(map[string]string)
	for _, m := range mounts {
		if err := validatePrefix(m.Prefix); err != nil {
			return nil, fmt.Errorf("module %s: %w", m.Module, err)
		}
		if other, ok := seen[m.Prefix]; ok {
			return nil, fmt.Errorf("module %s: %w: %q already used by %s", m.Module, ErrInvalidPrefix, m.Prefix, other)
		}
		seen[m.Prefix] = m.Module

		sub := chi.NewRouter()
		sub.Get("/", messageHandler(scaffold.AppMessage(m.Module)))
		r.Mount(m.Prefix, sub)
	}
	return r, nil
}

// Table walks r and returns "METHOD route" lines in sorted order.
func Table(r chi.Routes) ([]string, error) {
	var lines []string
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		lines = append(lines, method+" "+route)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking routes: %w", err)
	}
	sort.Strings(lines)
	return lines, nil
}

// moduleSource maps a routers/ entry to its module name and source file.
// Packages are directories holding an __init__.py.
func moduleSource(dir string, entry os.DirEntry) (string, string, bool) {
	name := entry.Name()
	if strings.HasPrefix(name, ".") {
		return "", "", false
	}
	if entry.IsDir() {
		initFile := filepath.Join(dir, name, "__init__.py")
		if _, err := os.Stat(initFile); err != nil || name == "__pycache__" {
			return "", "", false
		}
		return name, initFile, true
	}
	if !strings.HasSuffix(name, ".py") || name == "__init__.py" {
		return "", "", false
	}
	return strings.TrimSuffix(name, ".py"), filepath.Join(dir, name), true
}

func loadRegistry(path string) (*routes.Registry, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return routes.New(), nil
	}
	return routes.Load(path)
}

func validatePrefix(p string) error {
	switch {
	case p == "":
		return fmt.Errorf("%w: empty prefix", ErrInvalidPrefix)
	case !strings.HasPrefix(p, "/"):
		return fmt.Errorf("%w: %q must start with '/'", ErrInvalidPrefix, p)
	case strings.HasSuffix(p, "/"):
		return fmt.Errorf("%w: %q must not end with '/'", ErrInvalidPrefix, p)
	}
	return nil
}

// capitalize upper-cases the first letter and lower-cases the rest, the way
// the generated code derives OpenAPI tags.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	rs := []rune(s)
	return cases.Upper(language.Und).String(string(rs[:1])) + cases.Lower(language.Und).String(string(rs[1:]))
}

func messageHandler(msg string) http.HandlerFunc {
	body, _ := json.Marshal(map[string]string{"message": msg})
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}
}
