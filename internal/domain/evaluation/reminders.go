package evaluation

import (
	"context"
	"log/slog"

	"perfreview/internal/domain/directory"
	"perfreview/internal/platform/grid"
)

func (s *Service) PendingReminders(ctx context.Context) (out []Reminder, err error) {
	defer settle("load reminders", &err)
	dir, err := s.loadDirectory(ctx)
	if err != nil {
		return nil, err
	}
	headers, err := s.loadHeaders(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range headers.records() {
		st, raw := rec.status()
		writer, ok := AuthorizedWriter(st)
		slot := writer.Slot()
		if !ok || slot == 0 {
			continue
		}
		id := rec.text(fieldEvaluationID)
		evaluee, ok := dir.ByID(rec.text(fieldEvalueeID))
		if !ok {
			slog.Warn("reminder skipped, evaluee not in directory", "evaluationId", id)
			continue
		}
		evaluator, ok := dir.ByID(evaluee.EvaluatorID(slot))
		if !ok || evaluator.Email == "" {
			slog.Warn("reminder skipped, evaluator unreachable", "evaluationId", id, "slot", slot)
			continue
		}
		out = append(out, Reminder{
			EvaluationID:   id,
			Period:         grid.DateText(rec.value(fieldPeriod), s.DateLayout),
			EvalueeName:    evaluee.Name,
			Status:         raw,
			Role:           directory.EvaluatorRole(slot),
			EvaluatorID:    evaluator.ID,
			EvaluatorName:  evaluator.Name,
			EvaluatorEmail: evaluator.Email,
		})
	}
	return out, nil
}
