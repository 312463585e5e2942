package logger

import (
	"context"
	"testing"
)

func TestWithLogger_FromContext(t *testing.T) {
	l, buf := newJSONLogger(t, "info")

	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info("test message")

	if buf.Len() == 0 {
		t.Error("Logger from context should produce output")
	}
}

func TestFromContext_Default(t *testing.T) {
	if l := FromContext(context.Background()); l == nil {
		t.Error("FromContext should return default logger, got nil")
	}
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty string", got)
	}

	ctx = WithRequestID(ctx, "01JB7Q9ZK3M8Y")
	if got := RequestIDFromContext(ctx); got != "01JB7Q9ZK3M8Y" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
}

func TestCommand(t *testing.T) {
	ctx := context.Background()
	if got := CommandFromContext(ctx); got != "" {
		t.Errorf("CommandFromContext() = %q, want empty string", got)
	}

	ctx = WithCommand(ctx, "ip list")
	if got := CommandFromContext(ctx); got != "ip list" {
		t.Errorf("CommandFromContext() = %q", got)
	}
}

func TestL_Enriches(t *testing.T) {
	l, buf := newJSONLogger(t, "info")

	ctx := WithLogger(context.Background(), l)
	ctx = WithRequestID(ctx, "req-12345")
	ctx = WithCommand(ctx, "audit list")

	L(ctx).Info("test message")

	entry := decodeEntry(t, buf)
	if entry["request_id"] != "req-12345" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
	if entry["command"] != "audit list" {
		t.Errorf("command = %v", entry["command"])
	}
}

func TestL_NoEnrichment(t *testing.T) {
	l, buf := newJSONLogger(t, "info")

	L(WithLogger(context.Background(), l)).Info("plain")

	entry := decodeEntry(t, buf)
	if _, ok := entry["request_id"]; ok {
		t.Error("request_id should be absent")
	}
}
