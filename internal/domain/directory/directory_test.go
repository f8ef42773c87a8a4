package directory

import (
	"testing"
	"time"
)

func sampleRows() [][]any {
	return [][]any{
		{"社員ID", "氏名", "メール", "部署", "性別", "生年月日", "入社日", "等級", "席番号", "評価者1", "評価者2", "評価者3", "状態"},
		{1001.0, "Sato", "Sato@Example.com", "Sales", "F", time.Date(1990, 2, 3, 0, 0, 0, 0, time.UTC), "2015/04/01", "G2", "12", "2001", "2002", "2003", "active"},
		{"2001", "Suzuki", "suzuki@example.com", "Sales", "M", nil, nil, "G4", "", "2003", "", "", "active"},
		{"2002", "Tanaka", "tanaka@example.com", "Sales", "M", nil, nil, "G5", "", "", "", "", "active"},
		{"2003", "Ito", "ito@example.com", "HQ", "F", nil, nil, "G6", "", "", "", "", "active"},
		{"", "ghost", "ghost@example.com"},
		{"2001", "Duplicate", "dup@example.com"},
	}
}

func TestLookups(t *testing.T) {
	d := New(sampleRows(), "2006/01/02")
	if d.Len() != 4 {
		t.Fatalf("expected 4 employees, got %d", d.Len())
	}

	emp, ok := d.ByEmail("  sato@EXAMPLE.com ")
	if !ok || emp.ID != "1001" {
		t.Fatalf("case-insensitive email lookup failed: %#v", emp)
	}
	if emp.DateOfBirth != "1990/02/03" || emp.JoinDate != "2015/04/01" {
		t.Fatalf("unexpected dates %q %q", emp.DateOfBirth, emp.JoinDate)
	}
	if emp.EvaluatorID(2) != "2002" || emp.EvaluatorID(4) != "" {
		t.Fatalf("unexpected evaluator slots %#v", emp.EvaluatorIDs)
	}

	if got, _ := d.ByID("2001"); got.Name != "Suzuki" {
		t.Fatalf("first row should win on duplicate id, got %q", got.Name)
	}
	if _, ok := d.ByEmail("dup@example.com"); ok {
		t.Fatal("skipped duplicate row must not be reachable by email")
	}
	if _, ok := d.ByID("9999"); ok {
		t.Fatal("unexpected hit for unknown id")
	}
	if d.Name("9999", "(unset)") != "(unset)" {
		t.Fatal("expected fallback name")
	}
}

func TestEvaluatorRelationships(t *testing.T) {
	d := New(sampleRows(), "2006/01/02")

	if !d.IsEvaluatorOf("2002", "1001") {
		t.Fatal("2002 evaluates 1001")
	}
	if d.IsEvaluatorOf("1001", "2001") {
		t.Fatal("1001 evaluates nobody")
	}

	subs := d.SubordinatesOf("2003")
	if len(subs) != 2 || !subs["1001"] || !subs["2001"] {
		t.Fatalf("unexpected subordinates %#v", subs)
	}
	if len(d.SubordinatesOf("")) != 0 {
		t.Fatal("blank evaluator id matches nobody")
	}
	if slots := d.EvaluatorSlots("2003", "1001"); len(slots) != 1 || slots[0] != 3 {
		t.Fatalf("unexpected slots %v", slots)
	}
}

func TestRoleResolution(t *testing.T) {
	d := New(sampleRows(), "2006/01/02")
	r := NewRoleResolver([]string{"Boss@Example.com", " "})

	cases := []struct {
		email string
		want  Role
	}{
		{"boss@example.com", RoleAdmin},
		{"ito@example.com", RoleEvaluator},
		{"sato@example.com", RoleEmployee},
		{"nobody@example.com", RoleUnknown},
	}
	for _, tc := range cases {
		if got := r.Resolve(d, tc.email); got != tc.want {
			t.Fatalf("Resolve(%q) = %s, want %s", tc.email, got, tc.want)
		}
	}

	adminRows := append(sampleRows(), []any{"3000", "Boss", "boss@example.com"})
	if got := r.Resolve(New(adminRows, "2006/01/02"), "boss@example.com"); got != RoleAdmin {
		t.Fatalf("admin list must win over directory membership, got %s", got)
	}
}

func TestCandidates(t *testing.T) {
	d := New(sampleRows(), "2006/01/02")
	r := NewRoleResolver(nil)

	if got := r.Candidates(d, "sato@example.com", "1001"); len(got) != 1 || got[0] != RoleEmployee {
		t.Fatalf("evaluee candidates %v", got)
	}
	if got := r.Candidates(d, "tanaka@example.com", "1001"); len(got) != 1 || got[0] != RoleEvaluator2 {
		t.Fatalf("evaluator candidates %v", got)
	}
	if got := r.Candidates(d, "tanaka@example.com", "2001"); len(got) != 0 {
		t.Fatalf("unrelated caller should have no role, got %v", got)
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"Evaluee":    RoleEmployee,
		"EMPLOYEE":   RoleEmployee,
		"evaluator2": RoleEvaluator2,
		"eval3":      RoleEvaluator3,
		"admin":      RoleAdmin,
		"root":       RoleUnknown,
	}
	for in, want := range cases {
		if got := ParseRole(in); got != want {
			t.Fatalf("ParseRole(%q) = %s, want %s", in, got, want)
		}
	}
	if RoleEvaluator3.Slot() != 3 || RoleAdmin.Slot() != 0 || EvaluatorRole(1) != RoleEvaluator1 {
		t.Fatal("slot mapping broken")
	}
}
