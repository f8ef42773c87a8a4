package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"perfreview/internal/domain/evaluation"
	"perfreview/internal/platform/notify"
)

const JobReminders = "evaluation_reminders"

type ReminderSource interface {
	PendingReminders(ctx context.Context) ([]evaluation.Reminder, error)
}

type Service struct {
	Reminders ReminderSource
	Notifier  notify.Notifier
	Schedule  cron.Schedule
	Location  *time.Location
	queue     chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

type ReminderSummary struct {
	Pending int `json:"pending"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

func ParseSchedule(expr string) (cron.Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", expr, err)
	}
	return sched, nil
}

func New(reminders ReminderSource, notifier notify.Notifier, schedule cron.Schedule, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		Reminders: reminders,
		Notifier:  notifier,
		Schedule:  schedule,
		Location:  loc,
		queue:     make(chan job, 16),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Schedule == nil {
		slog.Info("reminder schedule disabled")
		return
	}
	go s.scheduleReminders(ctx)
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	start := time.Now()
	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	slog.Info("job run finished",
		"jobType", j.Type,
		"status", status,
		"durationMs", time.Since(start).Milliseconds(),
		"details", details,
	)
	return details, err
}

func (s *Service) scheduleReminders(ctx context.Context) {
	for {
		now := time.Now().In(s.Location)
		next := s.Schedule.Next(now)
		wait := next.Sub(now)
		slog.Info("next reminder run", "at", next.Format(time.RFC3339), "in", wait.Round(time.Second).String())

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		s.Enqueue(JobReminders, func(ctx context.Context) (any, error) {
			return s.SendReminders(ctx)
		})
	}
}

func (s *Service) SendReminders(ctx context.Context) (ReminderSummary, error) {
	reminders, err := s.Reminders.PendingReminders(ctx)
	if err != nil {
		return ReminderSummary{}, err
	}
	summary := ReminderSummary{Pending: len(reminders)}
	for _, r := range reminders {
		if err := s.Notifier.Remind(ctx, r); err != nil {
			summary.Failed++
			slog.Warn("reminder delivery failed", "evaluationId", r.EvaluationID, "evaluator", r.EvaluatorEmail, "err", err)
			continue
		}
		summary.Sent++
	}
	return summary, nil
}
