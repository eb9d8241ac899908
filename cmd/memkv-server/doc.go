// Package main provides the entry point for memkv-server.
//
// memkv-server is an in-memory key-value server speaking a subset of the
// Redis protocol (RESP). It serves PING, ECHO, GET and SET with optional
// PX expiry from a single shared store, and optionally an admin HTTP
// listener with Prometheus metrics and health endpoints.
//
// Usage:
//
//	memkv-server [flags]
//	memkv-server --config /etc/memkv/memkv.yaml
//
// Configuration comes from defaults, the YAML file and MEMKV_* environment
// variables, in increasing priority. Changes to log.level in the file are
// applied without a restart.
package main
