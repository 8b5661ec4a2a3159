package project

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fastgen-labs/fastgen/internal/branding"
	"go.yaml.in/yaml/v3"
)

const manifestFile = "project.yaml"

// Manifest represents the .fastgen/project.yaml structure.
type Manifest struct {
	Name             string   `yaml:"name"`
	GeneratorVersion string   `yaml:"generator_version"`
	Apps             []string `yaml:"apps,omitempty"`
}

// Dir returns the metadata directory inside a project.
func Dir(root string) string {
	return filepath.Join(root, branding.HomeDir())
}

// Path returns the full path to the manifest for a project.
func Path(root string) string {
	return filepath.Join(Dir(root), manifestFile)
}

// Exists reports whether the project at root has a manifest.
func Exists(root string) bool {
	_, err := os.Stat(Path(root))
	return err == nil
}

// AddApp records an app name. It returns false when already recorded.
func (m *Manifest) AddApp(name string) bool {
	if slices.Contains(m.Apps, name) {
		return false
	}
	m.Apps = append(m.Apps, name)
	return true
}

// Load reads, validates, and parses the manifest of the project at root.
func Load(root string) (*Manifest, error) {
	path := Path(root)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project manifest: %w", err)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid project manifest %s: %s", path, result.Summary())
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing project manifest: %w", err)
	}
	return &m, nil
}

// Save writes the manifest, creating the metadata directory if needed.
func Save(root string, m *Manifest) error {
	if err := os.MkdirAll(Dir(root), 0755); err != nil {
		return fmt.Errorf("creating %s directory: %w", branding.HomeDir(), err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling project manifest: %w", err)
	}

	if err := os.WriteFile(Path(root), data, 0644); err != nil {
		return fmt.Errorf("writing project manifest: %w", err)
	}
	return nil
}

// Summary joins the issues into a single line.
func (r *ValidationResult) Summary() string {
	msgs := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		msg := issue.Message
		if issue.Path != "" {
			msg = issue.Path + ": " + msg
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}
