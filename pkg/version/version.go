// Package version exposes build version information for GoSQLDev
package version

import "fmt"

// Populated via -ldflags at build time
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Info returns the formatted version string.
func Info() string {
	return fmt.Sprintf("Version: %s\nGitCommit: %s\nBuildTime: %s",
		Version, GitCommit, BuildTime)
}
