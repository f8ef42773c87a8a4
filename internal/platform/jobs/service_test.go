package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"perfreview/internal/domain/evaluation"
)

type staticReminders struct {
	list []evaluation.Reminder
	err  error
}

func (s staticReminders) PendingReminders(context.Context) ([]evaluation.Reminder, error) {
	return s.list, s.err
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	fail map[string]bool
}

func (n *recordingNotifier) Remind(_ context.Context, r evaluation.Reminder) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail[r.EvaluationID] {
		return errors.New("delivery failed")
	}
	n.sent = append(n.sent, r.EvaluationID)
	return nil
}

func TestParseSchedule(t *testing.T) {
	sched, err := ParseSchedule("0 9 * * 1-5")
	if err != nil {
		t.Fatalf("ParseSchedule failed: %v", err)
	}
	friday := time.Date(2025, 6, 6, 10, 0, 0, 0, time.UTC)
	if next := sched.Next(friday); !next.Equal(time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected next Monday 09:00, got %v", next)
	}
	if sched, err := ParseSchedule("  "); err != nil || sched != nil {
		t.Fatalf("blank schedule should disable, got %v, %v", sched, err)
	}
	if _, err := ParseSchedule("every day"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSendRemindersCountsFailures(t *testing.T) {
	notifier := &recordingNotifier{fail: map[string]bool{"E3": true}}
	svc := New(staticReminders{list: []evaluation.Reminder{
		{EvaluationID: "E1"}, {EvaluationID: "E2"}, {EvaluationID: "E3"},
	}}, notifier, nil, nil)

	summary, err := svc.SendReminders(context.Background())
	if err != nil {
		t.Fatalf("SendReminders failed: %v", err)
	}
	if summary != (ReminderSummary{Pending: 3, Sent: 2, Failed: 1}) {
		t.Fatalf("unexpected summary %#v", summary)
	}
}

func TestSendRemindersSourceError(t *testing.T) {
	svc := New(staticReminders{err: errors.New("grid down")}, &recordingNotifier{}, nil, nil)
	if _, err := svc.SendReminders(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestWorkerRunsQueuedJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := New(staticReminders{}, &recordingNotifier{}, nil, time.UTC)
	svc.Start(ctx)

	done := make(chan struct{})
	svc.Enqueue("test", func(context.Context) (any, error) {
		close(done)
		return nil, nil
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queued job did not run")
	}
}
