// Package command provides the memkv-cli commands.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: App, global flags and profile defaults
//   - kv.go: ping, echo, get, set and raw
//   - admin.go: health and metrics against the admin HTTP server
//   - bench.go: concurrent SET/GET load generator
//   - repl.go: interactive mode
//
// Commands parse flags, talk to the server through internal/cli/connection
// and render results with internal/cli/output to the app's Writer.
package command
