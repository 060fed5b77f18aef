// Package version holds build metadata, set with -ldflags at release time:
//
//	go build -ldflags "-X github.com/omar4-4mohsen/dates-monitor/internal/version.Version=v1.2.0"
package version

var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)
