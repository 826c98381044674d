// Package buildinfo carries the values stamped into the binary at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/quicklog/internal/buildinfo.Version=v0.3.0 \
//	  -X github.com/dmitrijs2005/quicklog/internal/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/dmitrijs2005/quicklog/internal/buildinfo.Date=$(date -u +%Y-%m-%d)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the build values for --version and the REPL banner.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
