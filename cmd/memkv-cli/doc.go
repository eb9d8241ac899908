// Package main provides the entry point for memkv-cli.
//
// memkv-cli talks to a memkv server over RESP and to its admin HTTP
// server:
//
//	memkv-cli ping
//	memkv-cli set greeting hello --px 5000
//	memkv-cli -o json get greeting
//	memkv-cli bench -c 50 -n 100000
//	memkv-cli --token $TOKEN metrics
//	memkv-cli repl
//
// Defaults for --server, --admin, --output and --token are read from
// ~/.memkv/cli.yaml when present.
package main
