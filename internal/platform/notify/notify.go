package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"

	"perfreview/internal/domain/evaluation"
)

type Notifier interface {
	Remind(ctx context.Context, r evaluation.Reminder) error
}

func Message(r evaluation.Reminder) string {
	period := r.Period
	if period == "" {
		period = "-"
	}
	return fmt.Sprintf("%s さん: %s (%s) の評価が入力待ちです。評価ID %s / ステータス %s",
		r.EvaluatorName, r.EvalueeName, period, r.EvaluationID, r.Status)
}

type Log struct{}

func (Log) Remind(_ context.Context, r evaluation.Reminder) error {
	slog.Info("evaluation reminder",
		"evaluationId", r.EvaluationID,
		"evaluator", r.EvaluatorEmail,
		"role", r.Role,
		"message", Message(r),
	)
	return nil
}

type Slack struct {
	API *slack.Client
}

func NewSlack(token string, opts ...slack.Option) *Slack {
	return &Slack{API: slack.New(token, opts...)}
}

func (s *Slack) Remind(ctx context.Context, r evaluation.Reminder) error {
	email := strings.TrimSpace(r.EvaluatorEmail)
	if email == "" {
		return fmt.Errorf("remind %s: evaluator has no email", r.EvaluationID)
	}
	user, err := s.API.GetUserByEmailContext(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup slack user %s: %w", email, err)
	}
	channel, _, _, err := s.API.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{user.ID},
	})
	if err != nil {
		return fmt.Errorf("open dm with %s: %w", user.ID, err)
	}
	if _, _, err := s.API.PostMessageContext(ctx, channel.ID, slack.MsgOptionText(Message(r), false)); err != nil {
		return fmt.Errorf("post reminder to %s: %w", user.ID, err)
	}
	return nil
}
