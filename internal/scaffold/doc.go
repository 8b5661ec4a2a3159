// Package scaffold generates FastAPI projects and apps from embedded
// templates. It powers the "fastgen create-project" and "fastgen create-app"
// commands: creating the fixed project layout, rendering router stubs, and
// registering each app in the project's routes.py registry.
//
// Existing files are never overwritten unless Options.Force is set.
package scaffold
