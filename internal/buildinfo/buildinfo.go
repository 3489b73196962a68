// Package buildinfo is stamped at link time:
//
//	go build -ldflags "-X github.com/ISmeneger/webform-e2e/internal/buildinfo.Version=v0.3.0"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("webform %s (commit=%s, date=%s)", Version, Commit, Date)
}
