// Package buildinfo is filled in by the linker:
//
//	go build -ldflags "-X github.com/ozontech/cube-storage/buildinfo.Version=v0.1.0"
package buildinfo

var (
	Version   = "dev"
	BuildTime = "unknown"
)
