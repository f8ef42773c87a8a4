package evaluation

import (
	"context"
	"fmt"

	"perfreview/internal/platform/grid"
)

func DefaultHeaderRows(t Tables) map[string][]any {
	return map[string][]any{
		t.Directory: {"社員ID", "氏名", "メールアドレス", "部署", "性別", "生年月日", "入社日", "等級", "社員番号", "評価者1ID", "評価者2ID", "評価者3ID", "在籍状況"},
		t.Headers: {"評価ID", "評価期間", "対象期間From", "対象期間To", "被評価者ID", "ステータス", "総合点", "総合ランク",
			"本人所見", "評価者1所見", "評価者2所見", "評価者3所見", "A-1_目標", "A-1_結果", "A-2_目標", "A-2_結果", "社長評価点"},
		t.Details: {"評価ID", "項目ID", "本人点数", "本人達成度", "評価者1点数", "評価者1達成度",
			"評価者2点数", "評価者2達成度", "評価者3点数", "評価者3達成度"},
		t.CommonItems: {"項目ID", "大分類", "中分類", "評価項目", "説明", "配点"},
		t.GradeItems:  {"等級", "項目ID", "評価項目", "配点"},
	}
}

func (t Tables) names() []string {
	return []string{t.Directory, t.Headers, t.Details, t.CommonItems, t.GradeItems}
}

func Bootstrap(ctx context.Context, g grid.Grid, t Tables) error {
	headers := DefaultHeaderRows(t)
	for _, table := range t.names() {
		if err := ensureTable(ctx, g, table); err != nil {
			return err
		}
		if err := ensureHeaderRow(ctx, g, table, headers[table]); err != nil {
			return err
		}
	}
	return nil
}

func ensureTable(ctx context.Context, g grid.Grid, table string) error {
	creator, ok := g.(grid.TableCreator)
	if !ok {
		return nil
	}
	if err := creator.CreateTable(ctx, table); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

func ensureHeaderRow(ctx context.Context, g grid.Grid, table string, header []any) error {
	lastRow, _, err := g.Dimensions(ctx, table)
	if err != nil {
		return err
	}
	if lastRow > 0 {
		return nil
	}
	return g.WriteRange(ctx, table, 1, 1, [][]any{header})
}

func SeedDemo(ctx context.Context, g grid.Grid, t Tables) error {
	if err := Bootstrap(ctx, g, t); err != nil {
		return err
	}
	data := map[string][][]any{
		t.Directory: {
			{"1001", "佐藤 花子", "hanako.sato@example.com", "営業部", "女性", "1990/02/03", "2015/04/01", "G2", "12", "2001", "2002", "2003", "在籍"},
			{"2001", "鈴木 一郎", "ichiro.suzuki@example.com", "営業部", "男性", "1980/05/06", "2005/04/01", "G4", "3", "", "", "", "在籍"},
			{"2002", "田中 次郎", "jiro.tanaka@example.com", "営業部", "男性", "1975/07/08", "2000/04/01", "G5", "2", "", "", "", "在籍"},
			{"2003", "伊藤 三郎", "saburo.ito@example.com", "経営企画", "男性", "1970/09/10", "1995/04/01", "G6", "1", "", "", "", "在籍"},
		},
		t.Headers: {
			{"E1", "2025年度上期", "2025/04/01", "2025/09/30", "1001", StatusSelfInput.Label()},
		},
		t.CommonItems: {
			{"A-1", "1.目標評価", "目標", "目標1", "期初に設定した目標1", 20.0},
			{"A-2", "1.目標評価", "目標", "目標2", "期初に設定した目標2", 20.0},
			{"C-1", "3.行動評価", "協調性", "チームワーク", "周囲と協力して業務を進める", 10.0},
		},
		t.GradeItems: {
			{"G2", "G2-1", "担当業務を自律的に遂行する", 10.0},
			{"G4", "G4-1", "チームを率いて成果を出す", 15.0},
		},
	}
	for _, table := range t.names() {
		rows, ok := data[table]
		if !ok {
			continue
		}
		lastRow, _, err := g.Dimensions(ctx, table)
		if err != nil {
			return err
		}
		if lastRow > 1 {
			continue
		}
		if err := g.WriteRange(ctx, table, 2, 1, padRows(rows)); err != nil {
			return fmt.Errorf("seed %s: %w", table, err)
		}
	}
	return nil
}

func padRows(rows [][]any) [][]any {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = make([]any, width)
		copy(out[i], r)
	}
	return out
}
