// Package output renders memkv-cli results.
//
//   - formatter.go: Format names and the Formatter factory
//   - text.go: redis-cli style rendering of reply frames
//   - json.go, yaml.go: machine-readable rendering
//   - table.go: aligned tables for structured results (bench, health)
//   - spinner.go: progress animation for long-running commands
//
// Reply frames are converted with FrameValue before JSON or YAML encoding.
package output
