// Package version provides build-time version information.
package version

import "fmt"

// Info contains version details injected via ldflags.
type Info struct {
	Version   string // semantic version from git tags
	GitCommit string // short commit hash
	BuildTime string // RFC3339 build timestamp
}

// String renders the version for startup logs, e.g.
// "v1.2.0 (abc1234, built 2026-08-01T10:00:00Z)".
func (i Info) String() string {
	v := i.Version
	if v == "" {
		v = "dev"
	}
	if i.GitCommit == "" {
		return v
	}
	return fmt.Sprintf("%s (%s, built %s)", v, i.GitCommit, i.BuildTime)
}
