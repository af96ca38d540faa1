package observability

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestInitTracer_ShutdownIsClean(t *testing.T) {
	shutdown, err := InitTracer("catalog-assist-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected a shutdown function")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

func TestStartSpan_PropagatesTraceID(t *testing.T) {
	shutdown, err := InitTracer("catalog-assist-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer shutdown(context.Background())

	ctx, span := StartSpan(context.Background(), "snapshot.refresh",
		attribute.Int("product_count", 3),
	)
	defer span.End()

	if TraceIDFromContext(ctx) == "" {
		t.Error("expected a trace id inside an active span")
	}
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	if id := TraceIDFromContext(context.Background()); id != "" {
		t.Errorf("expected empty trace id without a span, got %q", id)
	}
}
