package evaluation

import (
	"perfreview/internal/domain/catalog"
	"perfreview/internal/domain/directory"
)

type RoleValues[T any] struct {
	Evaluee T `json:"evaluee"`
	Eval1   T `json:"eval1"`
	Eval2   T `json:"eval2"`
	Eval3   T `json:"eval3"`
}

type Goal struct {
	Goal   string `json:"goal"`
	Result string `json:"result"`
}

type Header struct {
	EvaluationID   string             `json:"evaluationId"`
	Period         string             `json:"period"`
	PeriodFrom     string             `json:"periodFrom"`
	PeriodTo       string             `json:"periodTo"`
	EvalueeID      string             `json:"evalueeId"`
	Status         string             `json:"status"`
	StatusCode     string             `json:"statusCode"`
	Comments       RoleValues[string] `json:"comments"`
	Goals          map[string]Goal    `json:"goals"`
	PresidentScore any                `json:"presidentScore"`

	EvalueeName       string `json:"evalueeName"`
	EvalueeDepartment string `json:"evalueeDepartment"`
	EvalueeGender     string `json:"evalueeGender"`
	EvalueeDob        string `json:"evalueeDob"`
	EvalueeJoined     string `json:"evalueeJoined"`
	EvalueeGrade      string `json:"evalueeGrade"`
	EvalueeNumber     string `json:"evalueeNumber"`
	Eval1ID           string `json:"eval1Id"`
	Eval1Name         string `json:"eval1Name"`
	Eval2ID           string `json:"eval2Id"`
	Eval2Name         string `json:"eval2Name"`
	Eval3ID           string `json:"eval3Id"`
	Eval3Name         string `json:"eval3Name"`
}

type Detail struct {
	Score       RoleValues[Score]  `json:"score"`
	Achievement RoleValues[string] `json:"achievement"`
}

type LoggedIn struct {
	Email string         `json:"email"`
	Role  directory.Role `json:"role"`
}

type Evaluation struct {
	Header   Header            `json:"header"`
	Items    []catalog.Item    `json:"items"`
	Details  map[string]Detail `json:"details"`
	LoggedIn LoggedIn          `json:"loggedIn"`
}

type SaveResult struct {
	EvaluationID string `json:"evaluationId"`
	Status       string `json:"status"`
	Advanced     bool   `json:"advanced"`
	Updated      int    `json:"updatedDetails"`
	Appended     int    `json:"appendedDetails"`
}

const (
	ActionSelfInput         = "self_input"
	ActionAwaitingEvaluator = "awaiting_evaluator"
)

func EvaluatorAction(n int) string {
	switch n {
	case 1:
		return "evaluator1_input"
	case 2:
		return "evaluator2_input"
	case 3:
		return "evaluator3_input"
	default:
		return ""
	}
}

type MyTask struct {
	EvaluationID   string `json:"evaluationId"`
	Period         string `json:"period"`
	Status         string `json:"status"`
	RequiredAction string `json:"requiredAction"`
	IsPending      bool   `json:"isPending"`
}

type SubordinateTask struct {
	EvaluationID   string `json:"evaluationId"`
	Period         string `json:"period"`
	EvalueeName    string `json:"evalueeName"`
	Status         string `json:"status"`
	RequiredAction string `json:"requiredAction"`
}

type Dashboard struct {
	MyTask           *MyTask           `json:"myTask"`
	SubordinateTasks []SubordinateTask `json:"subordinateTasks"`
}

type OverviewRow struct {
	EvaluationID string `json:"evaluationId"`
	Period       string `json:"period"`
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Grade        string `json:"grade"`
	Status       string `json:"status"`
	TotalScore   any    `json:"totalScore"`
	TotalRank    any    `json:"totalRank"`
}

type Stats struct {
	TotalCount     int            `json:"totalCount"`
	CompletedCount int            `json:"completedCount"`
	PendingCount   int            `json:"pendingCount"`
	StatusCounts   map[string]int `json:"statusCounts"`
}

type Reminder struct {
	EvaluationID   string         `json:"evaluationId"`
	Period         string         `json:"period"`
	EvalueeName    string         `json:"evalueeName"`
	Status         string         `json:"status"`
	Role           directory.Role `json:"role"`
	EvaluatorID    string         `json:"evaluatorId"`
	EvaluatorName  string         `json:"evaluatorName"`
	EvaluatorEmail string         `json:"evaluatorEmail"`
}
