// Package project manages the .fastgen/project.yaml manifest written into
// every generated project. The manifest records the project name, the
// generator version that created it, and the apps registered so far, and is
// validated against an embedded JSON Schema on every load.
package project
