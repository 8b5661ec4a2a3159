package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/fastgen-labs/fastgen/internal/logger"
	"github.com/fastgen-labs/fastgen/internal/project"
	"github.com/fastgen-labs/fastgen/internal/routes"
)

const (
	projectSet     = "scaffolds/project"
	routerTemplate = "scaffolds/app/router.py.tmpl"

	RoutersDir   = "routers"
	SettingsDir  = "settings"
	AlembicDir   = "alembic"
	RegistryFile = "routes.py"
	DatabaseFile = "settings/database.py"
	RoutingFile  = "settings/routing.py"
)

var (
	// ErrNotProject is returned when an app is created outside a project,
	// i.e. the routers directory is missing.
	ErrNotProject = errors.New("no routers directory found; are you inside a FastAPI project?")
	// ErrInvalidName is returned for names that cannot be used.
	ErrInvalidName = errors.New("invalid name")
)

// App names become Python module names and function identifiers.
var appNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RootMessage is the greeting served by the generated application root.
const RootMessage = "Welcome to FastAPI Project"

// AppMessage returns the greeting served by an app's router stub.
func AppMessage(app string) string {
	return "Welcome to the " + app + " app"
}

// Data holds all template variables available to scaffold templates.
type Data struct {
	AppName string
	// Message is the greeting returned by the rendered handler.
	Message string
}

// Options controls how generation treats existing files.
type Options struct {
	// Force rewrites files that already exist. Without it they are skipped.
	Force bool
	// Version is the generator version recorded in the project manifest.
	Version string
}

// Result holds the outcome of a scaffold generation. Paths are relative to
// OutputDir and use forward slashes.
type Result struct {
	OutputDir string
	Files     []string
	Skipped   []string
	Warnings  []string
}

// AppResult extends Result with the registry outcome.
type AppResult struct {
	Result
	// Registered is true when routes.py gained an entry for the app.
	Registered bool
	Prefix     string
}

// CreateProject creates a new project named name inside parentDir.
func CreateProject(parentDir, name string, opts Options) (*Result, error) {
	if err := validateProjectName(name); err != nil {
		return nil, err
	}

	root := filepath.Join(parentDir, name)
	for _, dir := range []string{root, filepath.Join(root, RoutersDir), filepath.Join(root, SettingsDir), filepath.Join(root, AlembicDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	result := &Result{OutputDir: root}
	data := &Data{Message: RootMessage}

	err := fs.WalkDir(scaffoldFS, projectSet, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := strings.TrimSuffix(strings.TrimPrefix(p, projectSet+"/"), ".tmpl")
		content, err := render(p, data)
		if err != nil {
			return err
		}
		return writeFile(root, rel, content, opts.Force, result)
	})
	if err != nil {
		return nil, err
	}

	if err := writeFile(root, RegistryFile, routes.New().Bytes(), opts.Force, result); err != nil {
		return nil, err
	}

	changed, err := ensureGitignore(root)
	if err != nil {
		return nil, err
	}
	if changed {
		result.Files = append(result.Files, gitignoreFile)
	}

	manifestRel := filepath.ToSlash(mustRel(root, project.Path(root)))
	if project.Exists(root) && !opts.Force {
		result.Skipped = append(result.Skipped, manifestRel)
	} else {
		m := &project.Manifest{Name: name, GeneratorVersion: versionOrDev(opts.Version)}
		if err := project.Save(root, m); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, manifestRel)
	}

	logger.L().Info("project.created", "root", root, "written", len(result.Files), "skipped", len(result.Skipped))
	return result, nil
}

// CreateApp registers a new app in the project at root: it renders
// routers/<name>.py, makes sure the shared settings files and routes.py
// exist, and adds "<name>": "/<name>" to the registry unless an entry for
// name is already present.
func CreateApp(root, name string, opts Options) (*AppResult, error) {
	if !appNamePattern.MatchString(name) {
		return nil, fmt.Errorf("%w %q: must be a Python identifier matching [A-Za-z_][A-Za-z0-9_]*", ErrInvalidName, name)
	}

	info, err := os.Stat(filepath.Join(root, RoutersDir))
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotProject)
	}

	// An unreadable registry would leave a router stub without an entry.
	registryPath := filepath.Join(root, RegistryFile)
	if _, err := os.Stat(registryPath); err == nil {
		if _, err := routes.Load(registryPath); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Join(root, SettingsDir), 0755); err != nil {
		return nil, fmt.Errorf("creating settings directory: %w", err)
	}

	result := &AppResult{Result: Result{OutputDir: root}}
	data := &Data{AppName: name, Message: AppMessage(name)}

	content, err := render(routerTemplate, data)
	if err != nil {
		return nil, err
	}
	if err := writeFile(root, path.Join(RoutersDir, name+".py"), content, opts.Force, &result.Result); err != nil {
		return nil, err
	}

	// Shared settings are only written when missing, even with Force.
	for _, rel := range []string{DatabaseFile, RoutingFile} {
		content, err := render(path.Join(projectSet, rel+".tmpl"), data)
		if err != nil {
			return nil, err
		}
		if err := writeFile(root, rel, content, false, &result.Result); err != nil {
			return nil, err
		}
	}

	created, err := routes.Ensure(registryPath)
	if err != nil {
		return nil, err
	}
	if created {
		result.Files = append(result.Files, RegistryFile)
	}

	reg, err := routes.Load(registryPath)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, reg.Warnings()...)
	if reg.Add(name, routes.DefaultPrefix(name)) {
		if err := reg.Save(registryPath); err != nil {
			return nil, err
		}
		result.Registered = true
		if !created {
			result.Files = append(result.Files, RegistryFile)
		}
	}
	result.Prefix = reg.Lookup(name)

	if project.Exists(root) {
		if warn, err := recordApp(root, name, opts.Version); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("could not update project manifest: %v", err))
		} else if warn != "" {
			result.Warnings = append(result.Warnings, warn)
		}
	}

	logger.L().Info("app.created", "root", root, "app", name, "prefix", result.Prefix, "registered", result.Registered)
	return result, nil
}

// recordApp adds name to the project manifest and returns any version
// compatibility warning.
func recordApp(root, name, version string) (string, error) {
	m, err := project.Load(root)
	if err != nil {
		return "", err
	}
	warn := project.CheckCompatibility(m, versionOrDev(version))
	if m.AddApp(name) {
		if err := project.Save(root, m); err != nil {
			return warn, err
		}
	}
	return warn, nil
}

// render executes an embedded template with data.
func render(name string, data *Data) ([]byte, error) {
	raw, err := fs.ReadFile(scaffoldFS, name)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", name, err)
	}

	tmpl, err := template.New(path.Base(name)).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// writeFile writes content to root/rel unless the file exists and force is
// false, recording the outcome in result.
func writeFile(root, rel string, content []byte, force bool, result *Result) error {
	dst := filepath.Join(root, filepath.FromSlash(rel))

	if !force {
		if _, err := os.Stat(dst); err == nil {
			logger.L().Debug("scaffold.skip", "path", dst)
			result.Skipped = append(result.Skipped, rel)
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(dst, content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}

	logger.L().Debug("scaffold.write", "path", dst, "bytes", len(content))
	result.Files = append(result.Files, rel)
	return nil
}

func validateProjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: project name must not be empty", ErrInvalidName)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w %q: project name must be a single directory name", ErrInvalidName, name)
	}
	return nil
}

func versionOrDev(v string) string {
	if v == "" {
		return "dev"
	}
	return v
}

func mustRel(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return rel
}
