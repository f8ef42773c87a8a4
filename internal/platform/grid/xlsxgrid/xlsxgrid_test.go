package xlsxgrid

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"perfreview/internal/platform/grid"
)

func newTestWorkbook(t *testing.T) (*Workbook, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "evaluations.xlsx")
	wb, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = wb.Close() })
	return wb, path
}

func TestWorkbookRoundTripSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	wb, path := newTestWorkbook(t)

	if err := wb.CreateTable(ctx, "評価明細DB"); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	rows := [][]any{
		{"評価ID", "項目ID"},
		{"E1", "B-1"},
	}
	if err := wb.WriteRange(ctx, "評価明細DB", 1, 1, rows); err != nil {
		t.Fatalf("WriteRange failed: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := grid.ReadAll(ctx, reopened, "評価明細DB")
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != 2 || got[1][0] != "E1" || got[1][1] != "B-1" {
		t.Fatalf("unexpected rows: %#v", got)
	}
}

func TestWorkbookMissingSheet(t *testing.T) {
	wb, _ := newTestWorkbook(t)
	if _, _, err := wb.Dimensions(context.Background(), "nope"); !errors.Is(err, grid.ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}
