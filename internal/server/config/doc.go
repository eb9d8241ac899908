// Package config provides server configuration for memkv.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - load.go: Loading through internal/infra/confloader
//   - verify.go: Validation (address formats, ranges, port conflicts)
//   - sanitize.go: Log sanitization (hide sensitive values)
package config
