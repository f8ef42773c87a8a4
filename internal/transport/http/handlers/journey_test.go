package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"perfreview/internal/app/server"
	"perfreview/internal/domain/auth"
	"perfreview/internal/platform/config"
)

const (
	secret      = "test-secret"
	satoEmail   = "hanako.sato@example.com"
	suzukiEmail = "ichiro.suzuki@example.com"
	tanakaEmail = "jiro.tanaka@example.com"
	adminEmail  = "boss@example.com"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.Environment = "test"
	cfg.JWTSecret = secret
	cfg.AdminEmails = []string{adminEmail}
	cfg.RateLimitPerMinute = 1000

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return ts
}

func token(t *testing.T, email string) string {
	t.Helper()
	tok, err := auth.GenerateToken(secret, auth.Claims{Email: email}, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return tok
}

func call(t *testing.T, ts *httptest.Server, method, path, email string, body string) (int, envelope, http.Header) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if email != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, email))
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: decode envelope: %v (%s)", method, path, err, raw)
		}
	} else {
		env.Data = raw
	}
	return resp.StatusCode, env, resp.Header
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
	return out
}

func TestEvaluationJourney(t *testing.T) {
	ts := newTestServer(t)

	if code, _, _ := call(t, ts, http.MethodGet, "/api/v1/evaluations/E1", "", ""); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}

	code, env, _ := call(t, ts, http.MethodGet, "/api/v1/dashboard", satoEmail, "")
	if code != http.StatusOK {
		t.Fatalf("dashboard failed: %d", code)
	}
	dashboard := decode[struct {
		MyTask *struct {
			EvaluationID   string `json:"evaluationId"`
			RequiredAction string `json:"requiredAction"`
		} `json:"myTask"`
	}](t, env)
	if dashboard.MyTask == nil || dashboard.MyTask.EvaluationID != "E1" || dashboard.MyTask.RequiredAction != "self_input" {
		t.Fatalf("unexpected dashboard %s", env.Data)
	}

	selfInput := `{
		"comments": {"evaluee": "I met my goals"},
		"goals": {"A-1": {"goal": "Grow sales", "result": "+12%"}},
		"details": {"C-1": {"score": {"evaluee": "4"}, "achievement": {"evaluee": "good"}}}
	}`
	code, env, _ = call(t, ts, http.MethodPut, "/api/v1/evaluations/E1?submit=true", satoEmail, selfInput)
	if code != http.StatusOK {
		t.Fatalf("self submit failed: %d %+v", code, env)
	}
	saved := decode[struct {
		Status   string `json:"status"`
		Advanced bool   `json:"advanced"`
		Appended int    `json:"appendedDetails"`
	}](t, env)
	if !saved.Advanced || saved.Status != "2_評価者1入力中" || saved.Appended != 1 || env.Message != "submitted" {
		t.Fatalf("unexpected save result %s (%s)", env.Data, env.Message)
	}

	code, env, _ = call(t, ts, http.MethodPut, "/api/v1/evaluations/E1?submit=true", tanakaEmail, `{"comments": {"eval2": "early"}}`)
	if code != http.StatusOK {
		t.Fatalf("out-of-turn save failed: %d", code)
	}
	early := decode[struct {
		Advanced bool `json:"advanced"`
	}](t, env)
	if early.Advanced {
		t.Fatal("evaluator 2 must not advance while evaluator 1 is due")
	}

	code, env, _ = call(t, ts, http.MethodGet, "/api/v1/evaluations/E1", suzukiEmail, "")
	if code != http.StatusOK {
		t.Fatalf("get evaluation failed: %d", code)
	}
	ev := decode[struct {
		Header struct {
			Status   string `json:"status"`
			Comments struct {
				Evaluee string `json:"evaluee"`
				Eval2   string `json:"eval2"`
			} `json:"comments"`
		} `json:"header"`
		Details map[string]struct {
			Score struct {
				Evaluee *float64 `json:"evaluee"`
				Eval1   *float64 `json:"eval1"`
			} `json:"score"`
		} `json:"details"`
		LoggedIn struct {
			Role string `json:"role"`
		} `json:"loggedIn"`
	}](t, env)
	if ev.LoggedIn.Role != "Evaluator1" || ev.Header.Comments.Evaluee != "I met my goals" || ev.Header.Comments.Eval2 != "early" {
		t.Fatalf("unexpected evaluation %s", env.Data)
	}
	if s := ev.Details["C-1"].Score; s.Evaluee == nil || *s.Evaluee != 4 || s.Eval1 != nil {
		t.Fatalf("unexpected detail scores %s", env.Data)
	}

	code, _, header := call(t, ts, http.MethodGet, "/api/v1/evaluations/E1/pdf", suzukiEmail, "")
	if code != http.StatusOK || header.Get("Content-Type") != "application/pdf" {
		t.Fatalf("pdf export failed: %d %s", code, header.Get("Content-Type"))
	}
}

func TestSaveRejections(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name  string
		path  string
		email string
		body  string
		want  int
	}{
		{"stranger", "/api/v1/evaluations/E1", "nobody@example.com", `{}`, http.StatusForbidden},
		{"not an object", "/api/v1/evaluations/E1", satoEmail, `"E1"`, http.StatusBadRequest},
		{"id mismatch", "/api/v1/evaluations/E1", satoEmail, `{"evaluationId": "E2"}`, http.StatusBadRequest},
		{"bad submit flag", "/api/v1/evaluations/E1?submit=maybe", satoEmail, `{}`, http.StatusBadRequest},
		{"unknown evaluation", "/api/v1/evaluations/E9", satoEmail, `{}`, http.StatusNotFound},
		{"unknown role name", "/api/v1/evaluations/E1?as=boss", satoEmail, `{}`, http.StatusBadRequest},
		{"role not held", "/api/v1/evaluations/E1?as=eval1", satoEmail, `{}`, http.StatusForbidden},
	}
	for _, tc := range cases {
		code, env, _ := call(t, ts, http.MethodPut, tc.path, tc.email, tc.body)
		if code != tc.want || env.Success {
			t.Fatalf("%s: expected %d, got %d (%+v)", tc.name, tc.want, code, env)
		}
	}

	if code, env, _ := call(t, ts, http.MethodPut, "/api/v1/evaluations/E1?as=Evaluee", satoEmail, `{}`); code != http.StatusOK || !env.Success {
		t.Fatalf("saving as a held role should succeed, got %d (%+v)", code, env)
	}

	code, env, _ := call(t, ts, http.MethodGet, "/api/v1/evaluations/E9", satoEmail, "")
	if code != http.StatusNotFound || !strings.Contains(env.Message, "E9") {
		t.Fatalf("expected not found naming E9, got %d %q", code, env.Message)
	}
}

func TestAdminRoutes(t *testing.T) {
	ts := newTestServer(t)

	if code, _, _ := call(t, ts, http.MethodGet, "/api/v1/admin/stats", satoEmail, ""); code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", code)
	}

	code, env, _ := call(t, ts, http.MethodGet, "/api/v1/admin/stats", adminEmail, "")
	if code != http.StatusOK {
		t.Fatalf("stats failed: %d", code)
	}
	stats := decode[struct {
		TotalCount   int `json:"totalCount"`
		PendingCount int `json:"pendingCount"`
	}](t, env)
	if stats.TotalCount != 1 || stats.PendingCount != 1 {
		t.Fatalf("unexpected stats %s", env.Data)
	}

	code, env, _ = call(t, ts, http.MethodGet, "/api/v1/admin/overview?limit=10", adminEmail, "")
	if code != http.StatusOK {
		t.Fatalf("overview failed: %d", code)
	}
	overview := decode[struct {
		Total int `json:"total"`
		Items []struct {
			EmployeeName string `json:"employeeName"`
		} `json:"items"`
	}](t, env)
	if overview.Total != 1 || overview.Items[0].EmployeeName != "佐藤 花子" {
		t.Fatalf("unexpected overview %s", env.Data)
	}

	if code, _, _ := call(t, ts, http.MethodGet, "/api/v1/admin/employees/2001", adminEmail, ""); code != http.StatusOK {
		t.Fatalf("employee lookup failed: %d", code)
	}
	if code, _, _ := call(t, ts, http.MethodGet, "/api/v1/admin/employees/9999", adminEmail, ""); code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown employee, got %d", code)
	}
	if code, _, _ := call(t, ts, http.MethodGet, "/api/v1/admin/headers", adminEmail, ""); code != http.StatusOK {
		t.Fatalf("header index failed: %d", code)
	}

	// Move E1 to evaluator 1 so there is someone to remind.
	if code, _, _ := call(t, ts, http.MethodPut, "/api/v1/evaluations/E1?submit=true", satoEmail, `{}`); code != http.StatusOK {
		t.Fatalf("submit failed: %d", code)
	}
	code, env, _ = call(t, ts, http.MethodPost, "/api/v1/admin/reminders/run", adminEmail, "")
	if code != http.StatusOK {
		t.Fatalf("reminder run failed: %d", code)
	}
	summary := decode[struct {
		Pending int `json:"pending"`
		Sent    int `json:"sent"`
	}](t, env)
	if summary.Pending != 1 || summary.Sent != 1 {
		t.Fatalf("unexpected reminder summary %s", env.Data)
	}

	code, env, _ = call(t, ts, http.MethodGet, "/api/v1/admin/metrics", adminEmail, "")
	if code != http.StatusOK || !bytes.Contains(env.Data, []byte(`"savesTotal":1`)) {
		t.Fatalf("unexpected metrics %d %s", code, env.Data)
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := ts.Client().Get(ts.URL + path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
		if resp.Header.Get("X-Request-ID") == "" {
			t.Fatalf("%s: expected request id header", path)
		}
	}
}
