// Package version provides build-time version information.
//
// Variables are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/version.Version=1.0.0 \
//	                   -X github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

// Build-time variables (set via ldflags)
var (
	// Version is the semantic version (e.g., "1.0.0")
	Version = "dev"

	// Commit is the git commit hash (short form)
	Commit = "unknown"
)

// product is the name sent in the User-Agent header.
const product = "cryptotracker"

// String returns a formatted version string.
func String() string {
	return Version + " (" + Commit + ")"
}

// UserAgent returns the User-Agent sent to the market API,
// e.g. "cryptotracker/1.0.0".
func UserAgent() string {
	return product + "/" + Version
}
