package evaluation

import (
	"encoding/json"
	"testing"
)

func TestDecodePayload(t *testing.T) {
	raw := []byte(`{
		"evaluationId": "E1",
		"comments": {"eval1": "fine"},
		"goals": {"A-1": {"goal": "ship", "result": "shipped"}},
		"details": {
			"C-1": {"score": {"evaluee": "4.5", "eval1": "", "eval2": null, "eval3": 3}, "achievement": {"eval1": "good"}}
		}
	}`)
	p, err := DecodePayload(raw)
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	d := p.Details["C-1"]
	if d.Score.Evaluee != ScoreOf(4.5) || d.Score.Eval1.Set || d.Score.Eval2.Set || d.Score.Eval3 != ScoreOf(3) {
		t.Fatalf("unexpected scores %#v", d.Score)
	}
	if d.Achievement.Eval1 == nil || *d.Achievement.Eval1 != "good" || d.Achievement.Evaluee != nil {
		t.Fatalf("unexpected achievements %#v", d.Achievement)
	}
	row := detailRow("E1", "C-1", d)
	if row[2] != 4.5 || row[3] != "-" || row[4] != nil || row[5] != "good" {
		t.Fatalf("unexpected detail row %#v", row)
	}
}

func TestDecodePayloadRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{``, `"E1"`, `[]`, `42`, `{"details": {"C-1": {"score": {"evaluee": "many"}}}}`} {
		_, err := DecodePayload([]byte(raw))
		if KindOf(err) != KindInvalidInput || MessageOf(err) != "invalid data" {
			t.Fatalf("DecodePayload(%q) = %v, want invalid data", raw, err)
		}
	}
}

func TestDecodePayloadPresidentScore(t *testing.T) {
	for _, raw := range []string{
		`{"evaluationId":"E1","presidentScore":{"nested":[1,2]}}`,
		`{"evaluationId":"E1","presidentScore":[80]}`,
		`{"evaluationId":"E1","presidentScore":"high"}`,
		`{"evaluationId":"E1","presidentScore":true}`,
	} {
		if _, err := DecodePayload([]byte(raw)); KindOf(err) != KindInvalidInput {
			t.Fatalf("DecodePayload(%s) = %v, want invalid data", raw, err)
		}
	}

	p, err := DecodePayload([]byte(`{"evaluationId":"E1","presidentScore":"88"}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.PresidentScore == nil || p.PresidentScore.cell() != 88.0 {
		t.Fatalf("unexpected president score %#v", p.PresidentScore)
	}

	p, err = DecodePayload([]byte(`{"evaluationId":"E1","presidentScore":null}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.PresidentScore != nil {
		t.Fatalf("null president score should be treated as absent, got %#v", p.PresidentScore)
	}
}

func TestScoreEncodesNull(t *testing.T) {
	out, err := json.Marshal(RoleValues[Score]{Eval1: ScoreOf(7)})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `{"evaluee":null,"eval1":7,"eval2":null,"eval3":null}` {
		t.Fatalf("unexpected json %s", out)
	}
}
