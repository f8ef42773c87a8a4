package evaluation

import (
	"context"
	"strings"

	"perfreview/internal/domain/directory"
	"perfreview/internal/domain/schema"
	"perfreview/internal/platform/grid"
)

const (
	unknownEmployeeName = "unknown"
	unknownGrade        = "-"
)

func (s *Service) Overview(ctx context.Context) (out []OverviewRow, err error) {
	defer settle("load overview", &err)
	dir, err := s.loadDirectory(ctx)
	if err != nil {
		return nil, err
	}
	headers, err := s.loadHeaders(ctx)
	if err != nil {
		return nil, err
	}
	out = []OverviewRow{}
	for _, rec := range headers.records() {
		_, raw := rec.status()
		if raw == "" {
			continue
		}
		row := OverviewRow{
			EvaluationID: rec.text(fieldEvaluationID),
			Period:       grid.DateText(rec.value(fieldPeriod), s.DateLayout),
			EmployeeID:   rec.text(fieldEvalueeID),
			EmployeeName: unknownEmployeeName,
			Grade:        unknownGrade,
			Status:       raw,
			TotalScore:   grid.Plain(rec.value(fieldTotalScore), s.DateLayout),
			TotalRank:    grid.Plain(rec.value(fieldTotalRank), s.DateLayout),
		}
		if emp, ok := dir.ByID(row.EmployeeID); ok {
			row.EmployeeName = emp.Name
			row.Grade = emp.Grade
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Service) Stats(ctx context.Context) (out Stats, err error) {
	defer settle("load stats", &err)
	headers, err := s.loadHeaders(ctx)
	if err != nil {
		return Stats{}, err
	}
	out = Stats{StatusCounts: map[string]int{}}
	for _, rec := range headers.records() {
		st, raw := rec.status()
		if raw == "" {
			continue
		}
		out.TotalCount++
		if st == StatusComplete {
			out.CompletedCount++
		} else {
			out.PendingCount++
		}
		out.StatusCounts[raw]++
	}
	return out, nil
}

func (s *Service) Employees(ctx context.Context) (out []directory.Employee, err error) {
	defer settle("load employees", &err)
	dir, err := s.loadDirectory(ctx)
	if err != nil {
		return nil, err
	}
	return dir.All(), nil
}

func (s *Service) Employee(ctx context.Context, employeeID string) (out directory.Employee, err error) {
	defer settle("load employee", &err)
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return directory.Employee{}, invalid(ErrEmployeeIDRequired)
	}
	dir, err := s.loadDirectory(ctx)
	if err != nil {
		return directory.Employee{}, err
	}
	emp, ok := dir.ByID(employeeID)
	if !ok {
		return directory.Employee{}, notFound(ErrEmployeeNotFound, "employee not found (id: %s)", employeeID)
	}
	return emp, nil
}

func (s *Service) HeaderIndex(ctx context.Context) (out []schema.Entry, err error) {
	defer settle("load header index", &err)
	headers, err := s.loadHeaders(ctx)
	if err != nil {
		return nil, err
	}
	return headers.schema.Entries(), nil
}
