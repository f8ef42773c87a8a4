package evaluation

import "strings"

type Status int

const (
	StatusUnknown Status = iota
	StatusSelfInput
	StatusEvaluator1Input
	StatusEvaluator2Input
	StatusEvaluator3Input
	StatusFinalReview
	StatusComplete
)

var statusCodes = [...]string{
	StatusSelfInput:       "1_self_input",
	StatusEvaluator1Input: "2_evaluator1_input",
	StatusEvaluator2Input: "3_evaluator2_input",
	StatusEvaluator3Input: "4_evaluator3_input",
	StatusFinalReview:     "5_final_review",
	StatusComplete:        "6_complete",
}

var statusLabels = [...]string{
	StatusSelfInput:       "1_本人入力中",
	StatusEvaluator1Input: "2_評価者1入力中",
	StatusEvaluator2Input: "3_評価者2入力中",
	StatusEvaluator3Input: "4_評価者3入力中",
	StatusFinalReview:     "5_最終確認中",
	StatusComplete:        "6_完了",
}

func ParseStatus(raw string) (Status, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StatusUnknown, false
	}
	for s := StatusSelfInput; s <= StatusComplete; s++ {
		if raw == statusLabels[s] || strings.EqualFold(raw, statusCodes[s]) {
			return s, true
		}
	}
	return StatusUnknown, false
}

func (s Status) Valid() bool {
	return s >= StatusSelfInput && s <= StatusComplete
}

func (s Status) Code() string {
	if !s.Valid() {
		return ""
	}
	return statusCodes[s]
}

func (s Status) Label() string {
	if !s.Valid() {
		return ""
	}
	return statusLabels[s]
}

func (s Status) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return s.Code()
}

func (s Status) Render(previous string) string {
	if isLabel(previous) {
		return s.Label()
	}
	return s.Code()
}

func isLabel(raw string) bool {
	raw = strings.TrimSpace(raw)
	for _, label := range statusLabels {
		if label != "" && raw == label {
			return true
		}
	}
	return false
}
