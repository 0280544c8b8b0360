package logger_test

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
)

func TestWithContext_FromContext_RoundTrip(t *testing.T) {
	t.Parallel()

	core, _ := observer.New(zap.InfoLevel)
	stored := logger.NewFromZap(zap.New(core))

	ctx := logger.WithContext(context.Background(), stored)
	if got := logger.FromContext(ctx); got != stored {
		t.Errorf("FromContext returned %v, want the stored logger", got)
	}
}

func TestFromContext_FallbackIsUsable(t *testing.T) {
	t.Parallel()

	fallback := logger.FromContext(context.Background())
	if fallback == nil {
		t.Fatal("FromContext on an empty context returned nil")
	}

	fallback.Debug("filtered")
	fallback.Warn("with field", logger.String("key", "value"))
}

func TestWith_AttachesFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	base := logger.NewFromZap(zap.New(core))

	reqLog := base.With(logger.String("request_id", "abc-123"))
	reqLog.Info("handled", logger.Int("status", 201))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "abc-123" {
		t.Errorf("request_id = %v, want abc-123", fields["request_id"])
	}
	if fields["status"] != int64(201) {
		t.Errorf("status = %v, want 201", fields["status"])
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	t.Parallel()

	l, err := logger.New(logger.Config{Level: "error", Format: "console", OutputPaths: []string{"stderr"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Info("dropped")
	_ = l.Sync()

	if nop := logger.NewNop(); nop.With(logger.Bool("x", true)) != nop {
		t.Error("NoOpLogger.With should return itself")
	}
}
