package evaluation

import (
	"context"
	"testing"
	"time"

	"perfreview/internal/domain/directory"
	"perfreview/internal/platform/grid"
	"perfreview/internal/platform/lock"
)

var testTables = Tables{
	Directory:   "directory",
	Headers:     "headers",
	Details:     "details",
	CommonItems: "common",
	GradeItems:  "grades",
}

const (
	satoEmail   = "hanako.sato@example.com"
	katoEmail   = "ken.kato@example.com"
	suzukiEmail = "ichiro.suzuki@example.com"
	tanakaEmail = "jiro.tanaka@example.com"
	itoEmail    = "saburo.ito@example.com"
	adminEmail  = "boss@example.com"
)

// Header columns deliberately differ from the legacy layout and use
// full-width and spaced spellings.
var headerRow = []any{
	"評価ID", "被評価者ID", "評価期間", "対象期間From", "対象期間To", "ステータス", "総合点", "総合ランク",
	"本人所見", "評価者1所見", "評価者2所見", "評価者3所見", "Ａ－１＿目標", "A-1 結果", "A-2_目標", "A-2_結果", "社長評価点",
}

func headerData(cells ...any) []any {
	row := make([]any, len(headerRow))
	copy(row, cells)
	return row
}

func newFixture(t *testing.T) (*Service, *grid.Memory) {
	t.Helper()
	g := grid.NewMemory()
	g.Put(testTables.Directory, [][]any{
		{"id", "name", "email", "department", "gender", "dob", "joined", "grade", "number", "eval1", "eval2", "eval3", "status"},
		{"1001", "Sato", satoEmail, "Sales", "F", time.Date(1990, 2, 3, 0, 0, 0, 0, time.UTC), "2015/04/01", "G2", "12", "2001", "2002", "2003", "active"},
		{"1002", "Kato", katoEmail, "Sales", "M", nil, nil, "G3", "13", "2001", "", "", "active"},
		{"2001", "Suzuki", suzukiEmail, "Sales", "M", nil, nil, "G4", "3", "", "", "", "active"},
		{"2002", "Tanaka", tanakaEmail, "Sales", "M", nil, nil, "G5", "2", "", "", "", "active"},
		{"2003", "Ito", itoEmail, "HQ", "M", nil, nil, "G6", "1", "", "", "", "active"},
	})
	g.Put(testTables.Headers, [][]any{
		headerRow,
		headerData("E1", "1001", "2025H1", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), "2025/09/30", "1_self_input"),
		headerData("E2", "1002", "2025H1", "2025/04/01", "2025/09/30", "2_評価者1入力中"),
		headerData("E3", "", "2025H1", "2025/04/01", "2025/09/30", "1_self_input"),
		headerData("E4", "1001", "2024H2", "2024/10/01", "2025/03/31", "6_complete", 85.0, "A"),
	})
	g.Put(testTables.Details, [][]any{
		{"evaluationId", "itemId", "s0", "a0", "s1", "a1", "s2", "a2", "s3", "a3"},
		{"E2", "C-1", 3.0, "ok", nil, nil, nil, nil, nil, nil},
	})
	g.Put(testTables.CommonItems, [][]any{
		{"id", "category", "subCategory", "item", "description", "maxScore"},
		{"A-1", "1.goals", "goal", "Goal 1", "first goal", 20.0},
		{"C-1", "3.behaviour", "team", "Teamwork", "works with others", 10.0},
	})
	g.Put(testTables.GradeItems, [][]any{
		{"grade", "itemId", "item", "maxScore"},
		{"G2", "G2-1", "Owns own work", 10.0},
		{"G3", "G3-1", "Coaches juniors", 15.0},
	})

	svc := NewService(g, lock.NewKeyedMutex(), testTables, directory.NewRoleResolver([]string{adminEmail}), "2006/01/02")
	return svc, g
}

func scoreRef(v float64) *Score {
	s := ScoreOf(v)
	return &s
}

func readTable(t *testing.T, g grid.Grid, table string) [][]any {
	t.Helper()
	rows, err := grid.ReadAll(context.Background(), g, table)
	if err != nil {
		t.Fatalf("read %s: %v", table, err)
	}
	return rows
}

func countDetailRows(rows [][]any, evaluationID, itemID string) int {
	n := 0
	for _, r := range rows[1:] {
		if grid.TrimText(r[0]) == evaluationID && grid.TrimText(r[1]) == itemID {
			n++
		}
	}
	return n
}
