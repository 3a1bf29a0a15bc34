// Package buildinfo holds the release stamp of the molline binary.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/molline/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/molline/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/molline/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// The version also scopes cache keys, so an upgrade never serves records
// written by an older serializer.
package buildinfo

import "fmt"

var (
	Version = "dev"     // release tag, e.g. "v0.3.0"
	Commit  = "none"    // git SHA
	Date    = "unknown" // RFC 3339 build time
)

// CacheScope returns the prefix that separates cache entries of different
// releases.
func CacheScope() string {
	return Version + ":"
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
