// Package buildinfo provides build information for LoriKV binaries.
//
// Version, Commit, and BuildTime are injected at build time:
//
//	go build -ldflags "-X github.com/lorikv/lorikv-go/internal/infra/buildinfo.Version=v1.0.0"
//
// GoVersion is taken from the running toolchain.
package buildinfo
