package services_test

import (
	"context"
	"testing"

	"autonameow/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithFile(ctx, "/tmp/gmail.pdf")
	ctx = services.WithSessionID(ctx, "sess-123")
	ctx = services.WithRule(ctx, "gmail")

	if file, ok := services.FileFromContext(ctx); !ok || file != "/tmp/gmail.pdf" {
		t.Fatalf("unexpected file: %v %v", file, ok)
	}
	if id, ok := services.SessionIDFromContext(ctx); !ok || id != "sess-123" {
		t.Fatalf("unexpected session id: %v %v", id, ok)
	}
	if rule, ok := services.RuleFromContext(ctx); !ok || rule != "gmail" {
		t.Fatalf("unexpected rule: %v %v", rule, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithFile(ctx, "")
	ctx = services.WithSessionID(ctx, "")
	if _, ok := services.FileFromContext(ctx); ok {
		t.Fatal("expected no file value")
	}
	if _, ok := services.SessionIDFromContext(ctx); ok {
		t.Fatal("expected no session value")
	}
}
