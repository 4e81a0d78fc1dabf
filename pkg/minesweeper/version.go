// Package minesweeper provides a knowledge-based constraint inference engine
// for Minesweeper.
//
// Version: 0.1.0
//
// The engine derives every cell that can be proven safe or proven to be a
// mine from neighbour-count observations, combining constraints by subset
// subtraction until a fixpoint is reached. It is not a SAT solver: facts
// that need case analysis beyond pairwise subsets are not derived.
package minesweeper

import "runtime"

// Version represents the current version of the gokansweeper engine.
const Version = "0.1.0"

// Build metadata, set at link time:
//
//	go build -ldflags "-X github.com/gitrdm/gokansweeper/pkg/minesweeper.gitCommit=$(git rev-parse HEAD) \
//	    -X github.com/gitrdm/gokansweeper/pkg/minesweeper.buildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	gitCommit string
	buildDate string
)

// VersionInfo provides detailed version information.
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetVersionInfo returns detailed version information.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GoVersion: runtime.Version(),
		GitCommit: gitCommit,
		BuildDate: buildDate,
	}
}
