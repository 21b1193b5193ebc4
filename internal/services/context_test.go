package services_test

import (
	"context"
	"testing"

	"kslingo/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithSection(ctx, "00_Greetings")

	if rid, ok := services.RunIDFromContext(ctx); !ok || rid != "run-123" {
		t.Fatalf("unexpected run id: %v %v", rid, ok)
	}
	if section, ok := services.SectionFromContext(ctx); !ok || section != "00_Greetings" {
		t.Fatalf("unexpected section: %v %v", section, ok)
	}
}

func TestSectionBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSection(ctx, "")
	if _, ok := services.SectionFromContext(ctx); ok {
		t.Fatal("expected no section value")
	}
	ctx = services.WithRunID(ctx, "")
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
}
