// Package logger provides structured logging for ipadmin-cli.
//
// This package wraps log/slog:
//
//   - logger.go: Logger interface, configuration and level control
//   - context.go: Context-aware logging with request IDs
//   - redact.go: Redaction of credentials before they reach a handler
//
// The CLI logs to stderr in text form at warn level by default so that
// command output on stdout stays machine-readable. --verbose lowers the
// level to debug.
package logger
