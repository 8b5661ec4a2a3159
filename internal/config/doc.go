// Package config manages user-level settings stored at ~/.fastgen/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the default overwrite policy applied when scaffolding over existing files.
package config
