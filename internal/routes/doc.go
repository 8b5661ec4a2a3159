// Package routes reads and writes the routes.py registry of a generated
// project. The registry is a single Python dict literal, app_routes, mapping
// an app name to the URL prefix its router is mounted under.
//
// The file is parsed into an ordered mapping. Writing it back keeps the
// literal as the user left it, comments included, and appends new entries
// before the closing brace. Text before and after the literal is preserved.
package routes
