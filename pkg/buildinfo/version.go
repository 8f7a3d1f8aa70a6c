// Package buildinfo carries the binary's version stamp.
//
// Release builds inject the values with ldflags:
//
//	go build -ldflags "-X github.com/mapweaver/mapweaver/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/mapweaver/mapweaver/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/mapweaver/mapweaver/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// A plain `go build` from a checkout falls back to the VCS metadata the
// toolchain embeds, so a source build still reports its commit.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Stamp values, overridden at link time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	if Commit != "none" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			Commit = s.Value
		case "vcs.time":
			Date = s.Value
		}
	}
}

// String formats the full stamp, one field per line.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template for the stamp.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
