// Package cli defines the Cobra command tree for the fastgen CLI. Each file
// in this package registers one top-level command (create-project,
// create-app, routes, etc.) with the root command. Command implementations
// delegate to internal packages for the scaffolding logic and only handle
// flag parsing and output formatting.
package cli
