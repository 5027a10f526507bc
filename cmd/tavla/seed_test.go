package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/farran/tavla/internal/adapters/storage/sqlite"
	"github.com/farran/tavla/internal/app"
)

func TestSeedDemoProducesAlignedBoard(t *testing.T) {
	repo, err := sqlite.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	}()
	ctx := context.Background()

	boardID, err := seedDemo(ctx, repo, "demo")
	if err != nil {
		t.Fatalf("seedDemo() error = %v", err)
	}

	nextID := 0
	idGen := func() string {
		nextID++
		return fmt.Sprintf("id-%d", nextID)
	}
	svc := app.NewService(repo, repo, repo, idGen, nil, app.ServiceConfig{PreserveWIPLimits: true})
	result, err := svc.Regenerate(ctx, boardID, true)
	if err != nil {
		t.Fatalf("Regenerate() error = %v", err)
	}
	if result.ColumnsCreated != 4 {
		t.Fatalf("ColumnsCreated = %d, want 4", result.ColumnsCreated)
	}

	report, err := svc.AnalyzeBoard(ctx, boardID)
	if err != nil {
		t.Fatalf("AnalyzeBoard() error = %v", err)
	}
	if len(report.Unmapped) != 0 {
		t.Fatalf("Unmapped = %#v, want none after regenerate", report.Unmapped)
	}
	for id, warnings := range report.Warnings {
		if len(warnings) != 0 {
			t.Fatalf("column %s warnings = %#v, want none", id, warnings)
		}
	}

	validation := svc.ValidateMove(ctx, "demo", "review", "todo")
	if validation.Valid {
		t.Fatalf("ValidateMove(review->todo) = valid, want rejected")
	}
	validation = svc.ValidateMove(ctx, "demo", "review", "prog")
	if !validation.Valid {
		t.Fatalf("ValidateMove(review->prog) = invalid: %s", validation.Reason)
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Setenv("TAVLA_TEST_FLAG", "true")
	val, ok := parseBoolEnv("TAVLA_TEST_FLAG")
	if !ok || !val {
		t.Fatalf("parseBoolEnv() = (%t, %t), want (true, true)", val, ok)
	}

	t.Setenv("TAVLA_TEST_FLAG", "not-a-bool")
	if _, ok := parseBoolEnv("TAVLA_TEST_FLAG"); ok {
		t.Fatalf("parseBoolEnv() ok = true for invalid value")
	}
}
