package evaluation

import (
	"context"
	"sort"
	"strings"

	"perfreview/internal/platform/grid"
)

// Detail table columns, zero-based. The detail table is strictly positional.
const (
	detailEvaluationID = iota
	detailItemID
	detailEvalueeScore
	detailEvalueeAchievement
	detailEval1Score
	detailEval1Achievement
	detailEval2Score
	detailEval2Achievement
	detailEval3Score
	detailEval3Achievement
	detailColumns
)

const noAchievement = "-"

func detailRow(evaluationID, itemID string, in DetailInput) []any {
	return []any{
		evaluationID,
		itemID,
		in.Score.Evaluee.cell(), achievementCell(in.Achievement.Evaluee),
		in.Score.Eval1.cell(), achievementCell(in.Achievement.Eval1),
		in.Score.Eval2.cell(), achievementCell(in.Achievement.Eval2),
		in.Score.Eval3.cell(), achievementCell(in.Achievement.Eval3),
	}
}

func achievementCell(a *string) any {
	if a == nil {
		return noAchievement
	}
	return *a
}

func (s *Service) UpsertDetails(ctx context.Context, evaluationID string, items map[string]DetailInput) (updated, appended int, err error) {
	defer settle("upsert details", &err)
	evaluationID = strings.TrimSpace(evaluationID)
	if evaluationID == "" {
		return 0, 0, invalid(ErrEvaluationIDRequired)
	}
	unlock, err := s.Locker.Lock(ctx, s.saveLockKeys(evaluationID, items)...)
	if err != nil {
		return 0, 0, err
	}
	defer unlock()
	return s.upsertDetails(ctx, evaluationID, items)
}

// upsertDetails rewrites the full row of every item that already has one for
// evaluationID, from the first column, and appends one row per new item
// after the current last row. Rows of other evaluations are never touched.
// The caller holds the keys from saveLockKeys.
func (s *Service) upsertDetails(ctx context.Context, evaluationID string, items map[string]DetailInput) (int, int, error) {
	if len(items) == 0 {
		return 0, 0, nil
	}
	rows, err := s.readTable(ctx, s.Tables.Details)
	if err != nil {
		return 0, 0, err
	}
	existing := make(map[string]int)
	for i := 1; i < len(rows); i++ {
		if cellText(rows[i], detailEvaluationID) != evaluationID {
			continue
		}
		itemID := cellText(rows[i], detailItemID)
		if _, seen := existing[itemID]; itemID != "" && !seen {
			existing[itemID] = i + 1
		}
	}

	ids := make([]string, 0, len(items))
	for id := range items {
		if strings.TrimSpace(id) != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var updated int
	var pending [][]any
	for _, id := range ids {
		itemID := strings.TrimSpace(id)
		row := detailRow(evaluationID, itemID, items[id])
		if rowNum, ok := existing[itemID]; ok {
			if rowNum < 0 {
				continue
			}
			if err := s.Grid.WriteRange(ctx, s.Tables.Details, rowNum, 1, [][]any{row}); err != nil {
				return updated, 0, err
			}
			updated++
			continue
		}
		existing[itemID] = -1
		pending = append(pending, row)
	}

	if len(pending) > 0 {
		start := max(len(rows), 1) + 1
		if err := s.Grid.WriteRange(ctx, s.Tables.Details, start, 1, pending); err != nil {
			return updated, 0, err
		}
	}
	return updated, len(pending), nil
}

func parseDetails(rows [][]any, evaluationID string) map[string]Detail {
	out := make(map[string]Detail)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if cellText(row, detailEvaluationID) != evaluationID {
			continue
		}
		itemID := cellText(row, detailItemID)
		if _, seen := out[itemID]; itemID == "" || seen {
			continue
		}
		out[itemID] = Detail{
			Score: RoleValues[Score]{
				Evaluee: scoreCell(row, detailEvalueeScore),
				Eval1:   scoreCell(row, detailEval1Score),
				Eval2:   scoreCell(row, detailEval2Score),
				Eval3:   scoreCell(row, detailEval3Score),
			},
			Achievement: RoleValues[string]{
				Evaluee: achievementText(row, detailEvalueeAchievement),
				Eval1:   achievementText(row, detailEval1Achievement),
				Eval2:   achievementText(row, detailEval2Achievement),
				Eval3:   achievementText(row, detailEval3Achievement),
			},
		}
	}
	return out
}

func cellAt(row []any, col int) any {
	if col < len(row) {
		return row[col]
	}
	return nil
}

func cellText(row []any, col int) string {
	return grid.TrimText(cellAt(row, col))
}

func scoreCell(row []any, col int) Score {
	v := cellAt(row, col)
	if grid.IsBlank(v) {
		return Score{}
	}
	if f, ok := grid.Number(v); ok {
		return ScoreOf(f)
	}
	return Score{}
}

func achievementText(row []any, col int) string {
	v := cellAt(row, col)
	if grid.IsBlank(v) {
		return noAchievement
	}
	return grid.Text(v)
}

// saveLockKeys names the locks a save of evaluationID needs. Appends from
// different evaluations race on the last detail row, so any save with
// details also takes the table key.
func (s *Service) saveLockKeys(evaluationID string, items map[string]DetailInput) []string {
	keys := []string{evaluationLockKey(evaluationID)}
	if len(items) > 0 {
		keys = append(keys, "table:"+s.Tables.Details)
	}
	return keys
}

func evaluationLockKey(id string) string {
	return "evaluation:" + id
}
