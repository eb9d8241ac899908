// Package config holds the memkv-cli profile (~/.memkv/cli.yaml).
//
// The profile supplies defaults for the global flags. Values given on the
// command line or through the environment take precedence.
package config
