package evaluation

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type Score struct {
	Value float64
	Set   bool
}

func ScoreOf(v float64) Score {
	return Score{Value: v, Set: true}
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Set {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Score{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			*s = Score{}
			return nil
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return ErrInvalidData
		}
		*s = ScoreOf(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = ScoreOf(v)
	return nil
}

func (s Score) cell() any {
	if !s.Set {
		return nil
	}
	return s.Value
}

type DetailInput struct {
	Score       RoleValues[Score]   `json:"score"`
	Achievement RoleValues[*string] `json:"achievement"`
}

type Payload struct {
	EvaluationID   string                 `json:"evaluationId"`
	Comments       map[string]string      `json:"comments"`
	Goals          map[string]Goal        `json:"goals"`
	PresidentScore *Score                 `json:"presidentScore"`
	Details        map[string]DetailInput `json:"details"`
}

func DecodePayload(raw []byte) (*Payload, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, invalid(ErrInvalidData)
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &Error{Kind: KindInvalidInput, Message: ErrInvalidData.Error(), Err: err}
	}
	return &p, nil
}

func (p *Payload) validate() error {
	if p == nil {
		return invalid(ErrInvalidData)
	}
	p.EvaluationID = strings.TrimSpace(p.EvaluationID)
	if p.EvaluationID == "" {
		return invalid(ErrEvaluationIDRequired)
	}
	return nil
}
