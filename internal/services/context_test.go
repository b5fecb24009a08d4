package services_test

import (
	"context"
	"testing"

	"vidcat/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithAssetID(ctx, "0123456789abcdef")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.AssetIDFromContext(ctx); !ok || id != "0123456789abcdef" {
		t.Fatalf("unexpected asset id: %v %v", id, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithAssetID(ctx, "")
	ctx = services.WithRequestID(ctx, "")
	if _, ok := services.AssetIDFromContext(ctx); ok {
		t.Fatal("expected no asset id value")
	}
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id value")
	}
}
