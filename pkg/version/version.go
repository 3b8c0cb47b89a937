// Package version provides build and version information for ytsearch.
package version

import (
	"fmt"
	"runtime"
)

// Name is the program name used in version strings and the User-Agent.
const Name = "ytsearch"

// Version is set via ldflags at build time:
// -X github.com/Aman-CERP/ytsearch/pkg/version.Version=$(VERSION)
var Version = "dev"

// Build information set via ldflags.
var (
	// Commit is the short git commit hash.
	Commit = "unknown"

	// Date is the build date in RFC3339 format.
	Date = "unknown"

	// GoVersion is the Go toolchain the binary was built with.
	GoVersion = runtime.Version()
)

// BuildInfo is structured version information for JSON output.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// String returns a one-line version string with all build info.
func String() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s, go: %s)",
		Name, Version, Commit, Date, GoVersion)
}

// Short returns just the version.
func Short() string {
	return Version
}

// UserAgent returns the User-Agent sent to the Data API.
func UserAgent() string {
	return Name + "/" + Version
}

// GetInfo returns structured version information.
func GetInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
