package project

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckCompatibility returns a warning when the manifest was produced by a
// newer major version of the generator than binaryVersion. Unparseable
// versions, such as "dev" builds, are never compared.
func CheckCompatibility(m *Manifest, binaryVersion string) string {
	pv, err := parseSemver(m.GeneratorVersion)
	if err != nil {
		return ""
	}
	bv, err := parseSemver(binaryVersion)
	if err != nil {
		return ""
	}
	if pv.Major() > bv.Major() {
		return fmt.Sprintf("project was generated by version %s; this binary is %s and may produce incompatible files",
			pv.Original(), bv.Original())
	}
	return ""
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(version, "v"))
}
