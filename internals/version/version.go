package version

import "strings"

// SemVer is set at build time for releases.
//
// Example:
//
//	-ldflags "-X github.com/foremanhq/foreman/internals/version.SemVer=1.2.3"
var SemVer = "0.0.0-dev"

// Version returns a SemVer string with best-effort build identity metadata.
// The metadata changes on rebuilds, which is what lets the CLI tell a stale
// daemon from a current one.
//
// Examples:
//   - 1.2.3+a1b2c3d4e5f6.9f2c1a0b77de
//   - 0.0.0-dev+a1b2c3d4e5f6-dirty.1e4b9caa2210
func Version() string {
	v := strings.TrimSpace(SemVer)
	if v == "" {
		v = "0.0.0-dev"
	}
	meta := Identity()
	if meta == "" || meta == "unknown" {
		return v
	}
	if strings.Contains(v, "+") {
		return v + "." + meta
	}
	return v + "+" + meta
}
