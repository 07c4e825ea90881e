package services_test

import (
	"context"
	"testing"

	"shuttle/internal/services"
)

func TestContextCarriers(t *testing.T) {
	ctx := context.Background()

	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id on empty context")
	}

	ctx = services.WithRequestID(ctx, "req-123")
	ctx = services.WithInputFile(ctx, "/tmp/movie.srt")
	ctx = services.WithStage(ctx, "translate")

	if id, ok := services.RequestIDFromContext(ctx); !ok || id != "req-123" {
		t.Fatalf("expected request id req-123, got %q (%v)", id, ok)
	}
	if path, ok := services.InputFileFromContext(ctx); !ok || path != "/tmp/movie.srt" {
		t.Fatalf("expected input file, got %q (%v)", path, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "translate" {
		t.Fatalf("expected stage translate, got %q (%v)", stage, ok)
	}
}

func TestEmptyValuesAreNotStored(t *testing.T) {
	ctx := services.WithRequestID(context.Background(), "")
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected empty request id to be ignored")
	}
	ctx = services.WithStage(context.Background(), "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected empty stage to be ignored")
	}
}
