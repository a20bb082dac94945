// Package bininfo carries build metadata injected with -ldflags -X.
package bininfo

var (
	// Version is the SemVer version of the binary.
	Version = "v0.0.0"

	// Commit is the git revision the binary was built from.
	Commit = "unknown"

	// BuildTime is the time at which the application was built.
	BuildTime = "1970-01-01T00:00:00Z"
)

// String is the version line printed by the CLI.
func String() string {
	return Version + " (" + Commit + ", built " + BuildTime + ")"
}
