package evaluation

import (
	"context"
	"testing"
)

func TestOverviewAndStats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)

	rows, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[2].EmployeeName != "unknown" || rows[2].Grade != "-" {
		t.Fatalf("missing evaluee should be reported as unknown: %#v", rows[2])
	}
	if rows[3].TotalScore != 85.0 || rows[3].TotalRank != "A" || rows[3].EmployeeName != "Sato" {
		t.Fatalf("unexpected completed row %#v", rows[3])
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalCount != 4 || stats.CompletedCount != 1 || stats.PendingCount != 3 {
		t.Fatalf("unexpected stats %#v", stats)
	}
	if stats.StatusCounts["1_self_input"] != 2 || stats.StatusCounts["6_complete"] != 1 {
		t.Fatalf("unexpected status counts %#v", stats.StatusCounts)
	}
}

func TestEmployeeLookups(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)

	all, err := svc.Employees(ctx)
	if err != nil || len(all) != 5 {
		t.Fatalf("Employees = %d, %v", len(all), err)
	}
	emp, err := svc.Employee(ctx, "2003")
	if err != nil || emp.Name != "Ito" {
		t.Fatalf("Employee = %#v, %v", emp, err)
	}
	if _, err := svc.Employee(ctx, "9999"); KindOf(err) != KindNotFound || MessageOf(err) != "employee not found (id: 9999)" {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Employee(ctx, " "); KindOf(err) != KindInvalidInput {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestHeaderIndex(t *testing.T) {
	svc, _ := newFixture(t)
	entries, err := svc.HeaderIndex(context.Background())
	if err != nil {
		t.Fatalf("HeaderIndex failed: %v", err)
	}
	found := map[string]int{}
	for _, e := range entries {
		found[e.Key] = e.Column
	}
	if found["評価id"] != 1 || found["a-1_目標"] != 13 || found["a1結果"] != 14 {
		t.Fatalf("unexpected header index %#v", found)
	}
}

func TestPendingReminders(t *testing.T) {
	svc, _ := newFixture(t)
	reminders, err := svc.PendingReminders(context.Background())
	if err != nil {
		t.Fatalf("PendingReminders failed: %v", err)
	}
	if len(reminders) != 1 {
		t.Fatalf("expected one reminder, got %#v", reminders)
	}
	r := reminders[0]
	if r.EvaluationID != "E2" || r.EvaluatorEmail != suzukiEmail || r.EvalueeName != "Kato" || r.Role != "Evaluator1" {
		t.Fatalf("unexpected reminder %#v", r)
	}
}
