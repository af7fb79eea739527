package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc/connectivity"
)

func TestProvidersShareConnWithoutClosingIt(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	// grpc.NewClient does not dial, so no collector is needed.
	conn, err := NewConn("localhost:4317")
	if err != nil {
		t.Fatalf("NewConn() error = %v", err)
	}

	tp, err := InitTracerProvider(ctx, conn, "test", "test")
	if err != nil {
		t.Fatalf("InitTracerProvider() error = %v", err)
	}
	lp, _, err := InitLoggerProvider(ctx, conn, "test", "test")
	if err != nil {
		t.Fatalf("InitLoggerProvider() error = %v", err)
	}

	// Nothing was recorded, so shutdown has nothing to export.
	if err := tp.Shutdown(ctx); err != nil {
		t.Errorf("tracer Shutdown() error = %v", err)
	}
	if err := lp.Shutdown(ctx); err != nil {
		t.Errorf("logger Shutdown() error = %v", err)
	}
	if conn.GetState() == connectivity.Shutdown {
		t.Fatalf("provider shutdown closed the shared connection")
	}

	if err := conn.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if conn.GetState() != connectivity.Shutdown {
		t.Errorf("state after Close() = %v, want Shutdown", conn.GetState())
	}
}
