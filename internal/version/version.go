package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String reports the build in a single line for startup logs and /health.
func String() string {
	return fmt.Sprintf("census.report %s (%s, built %s)", Version, GitSHA, BuildTime)
}
