// Package logger provides structured logging for memkv.
//
// This package wraps log/slog:
//
//   - logger.go: Logger interface, configuration and the global level
//   - context.go: Context-aware logging with request and connection IDs
//   - redact.go: Stored-value and credential redaction
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering with runtime adjustment
//   - Automatic masking of attributes that carry stored values
//   - Context propagation for request tracing
package logger
