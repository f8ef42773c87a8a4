package evaluation

import (
	"perfreview/internal/domain/schema"
	"perfreview/internal/platform/grid"
)

type field struct {
	names    []string
	position int
}

var (
	fieldEvaluationID   = field{names: []string{"評価ID", "evaluationId"}, position: 0}
	fieldPeriod         = field{names: []string{"評価期間", "period"}, position: 1}
	fieldPeriodFrom     = field{names: []string{"対象期間From", "periodFrom"}, position: 2}
	fieldPeriodTo       = field{names: []string{"対象期間To", "periodTo"}, position: 3}
	fieldEvalueeID      = field{names: []string{"被評価者ID", "evalueeId"}, position: 4}
	fieldStatus         = field{names: []string{"ステータス", "status"}, position: 5}
	fieldTotalScore     = field{names: []string{"総合点", "totalScore"}, position: 6}
	fieldTotalRank      = field{names: []string{"総合ランク", "totalRank"}, position: 7}
	fieldPresidentScore = field{names: []string{"社長評価点", "presidentScore"}, position: 7}
)

var commentFields = map[CommentSlot]field{
	CommentEvaluee: {names: []string{"本人所見", "evalueeComment"}, position: 8},
	CommentEval1:   {names: []string{"評価者1所見", "eval1Comment"}, position: 9},
	CommentEval2:   {names: []string{"評価者2所見", "eval2Comment"}, position: 10},
	CommentEval3:   {names: []string{"評価者3所見", "eval3Comment"}, position: 11},
}

var goalPositions = map[string][2]int{
	"A-1": {12, 13},
	"A-2": {14, 15},
}

var defaultGoalSlots = []string{"A-1", "A-2"}

func commentField(slot CommentSlot) field {
	return commentFields[slot]
}

func goalField(slot string) field {
	pos := -1
	if p, ok := goalPositions[slot]; ok {
		pos = p[0]
	}
	return field{names: []string{slot + "_目標", slot + "_goal"}, position: pos}
}

func resultField(slot string) field {
	pos := -1
	if p, ok := goalPositions[slot]; ok {
		pos = p[1]
	}
	return field{names: []string{slot + "_結果", slot + "_result"}, position: pos}
}

func (f field) column(s schema.Schema) (int, bool) {
	if col, ok := s.LookupAny(f.names...); ok {
		return col, true
	}
	if f.position >= 0 {
		return f.position, true
	}
	return 0, false
}

func (f field) writeColumn(s schema.Schema) (int, bool) {
	if col, ok := s.LookupAny(f.names...); ok {
		return col, true
	}
	if f.names[0] == fieldStatus.names[0] {
		return f.position, true
	}
	return 0, false
}

func (f field) value(s schema.Schema, row []any) any {
	col, ok := f.column(s)
	if !ok || col >= len(row) {
		return nil
	}
	return row[col]
}

func (f field) text(s schema.Schema, row []any) string {
	return grid.TrimText(f.value(s, row))
}

func (f field) label() string {
	return f.names[0]
}
