// Package buildinfo exposes build-time information injected via ldflags:
//
//   - Version: semantic version (e.g. "v1.0.0")
//   - Commit: git commit hash
//   - BuildTime: build timestamp
//
// Commit falls back to the VCS revision recorded by the Go toolchain and
// GoVersion always reflects the running binary.
//
//	go build -ldflags "-X github.com/yndnr/memkv-go/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo
