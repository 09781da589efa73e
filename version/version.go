// Package version holds build details, set at link time with -ldflags.
package version

import (
	"fmt"
	"strings"
)

// Build and version details
var (
	GitCommit   = ""
	GitBranch   = ""
	GitUpstream = ""
	BuildDate   = ""
	Version     = "unknown"
)

// String formats a string with version details. Unset details are omitted.
func String() string {
	var lines []string
	add := func(name, val string) {
		if val != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", name, val))
		}
	}
	add("git commit", GitCommit)
	add("git branch", GitBranch)
	add("git upstream", GitUpstream)
	add("build date", BuildDate)
	add("version", Version)
	return strings.Join(lines, "\n")
}

// LogFields returns build and version details as logger key-value pairs.
func LogFields() []interface{} {
	return []interface{}{
		"GitCommit", GitCommit,
		"GitBranch", GitBranch,
		"GitUpstream", GitUpstream,
		"BuildDate", BuildDate,
		"Version", Version,
	}
}
