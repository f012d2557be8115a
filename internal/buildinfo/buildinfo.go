// Package buildinfo holds the build metadata injected into cmd/codemedic.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Set stores the build metadata received from linker-injected variables.
func Set(v, c, d, b string) {
	version = v
	commit = c
	date = d
	builtBy = b
}

// Version returns the build version string.
func Version() string { return version }

// Commit returns the build commit hash.
func Commit() string { return commit }

// Date returns the build date string.
func Date() string { return date }

// BuiltBy returns the build agent string.
func BuiltBy() string { return builtBy }

// UserAgent is the User-Agent sent to the GitHub API.
func UserAgent() string { return "codemedic/" + version }

// Summary is the one-line output of --version.
func Summary() string {
	return fmt.Sprintf("%s (commit %s, built %s by %s)", version, shortCommit(), date, builtBy)
}

func shortCommit() string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}

// Enrich fills a missing commit from the VCS revision and a missing builder
// from the Go version.
func Enrich() {
	if commit != "none" && builtBy != "unknown" {
		return
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if commit == "none" {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				commit = setting.Value
			}
		}
	}

	if builtBy == "unknown" {
		builtBy = info.GoVersion
	}
}
