// Package logger provides structured logging for ipadmin-cli.
package logger

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	loggerKey    contextKey = "ipadmin.logger"
	requestIDKey contextKey = "ipadmin.request_id"
	commandKey   contextKey = "ipadmin.command"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRequestID adds the X-Request-ID of an outgoing API call to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithCommand records the CLI command being executed, e.g. "ip list".
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandKey, command)
}

// CommandFromContext extracts the CLI command name from context.
func CommandFromContext(ctx context.Context) string {
	if c, ok := ctx.Value(commandKey).(string); ok {
		return c
	}
	return ""
}

// L is a shorthand for FromContext that also enriches the logger
// with the request ID and command from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)

	if reqID := RequestIDFromContext(ctx); reqID != "" {
		l = l.With("request_id", reqID)
	}
	if cmd := CommandFromContext(ctx); cmd != "" {
		l = l.With("command", cmd)
	}

	return l
}
