// Package repl provides the interactive mode of memkv-cli.
//
//   - repl.go: read-eval-print loop, line splitting and builtins
//   - completer.go: command name completion used by help
//   - history.go: command history persisted to ~/.memkv/history
//
// Lines that are not builtins are sent to the server as commands and the
// reply is printed the way redis-cli prints it.
package repl
