package evaluation

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"perfreview/internal/domain/catalog"
	"perfreview/internal/domain/directory"
	"perfreview/internal/platform/grid"
	"perfreview/internal/platform/lock"
)

type Tables struct {
	Directory   string
	Headers     string
	Details     string
	CommonItems string
	GradeItems  string
}

type Observer interface {
	ObserveSave(role string, submitted, advanced bool)
}

type Service struct {
	Grid       grid.Grid
	Locker     lock.Locker
	Tables     Tables
	Roles      directory.RoleResolver
	DateLayout string
	Observer   Observer
}

func NewService(g grid.Grid, locker lock.Locker, tables Tables, roles directory.RoleResolver, dateLayout string) *Service {
	if dateLayout == "" {
		dateLayout = "2006/01/02"
	}
	return &Service{
		Grid:       g,
		Locker:     locker,
		Tables:     tables,
		Roles:      roles,
		DateLayout: dateLayout,
	}
}

func (s *Service) loadDirectory(ctx context.Context) (*directory.Directory, error) {
	rows, err := s.readTable(ctx, s.Tables.Directory)
	if err != nil {
		return nil, err
	}
	return directory.New(rows, s.DateLayout), nil
}

func (s *Service) GetEvaluation(ctx context.Context, evaluationID, callerEmail string) (out *Evaluation, err error) {
	defer settle("load evaluation", &err)
	evaluationID = strings.TrimSpace(evaluationID)
	callerEmail = strings.ToLower(strings.TrimSpace(callerEmail))
	slog.Info("get evaluation started", "evaluationId", evaluationID, "caller", callerEmail)

	dir, err := s.loadDirectory(ctx)
	if err != nil {
		return nil, err
	}
	headers, err := s.loadHeaders(ctx)
	if err != nil {
		return nil, err
	}
	detailRows, err := s.readTable(ctx, s.Tables.Details)
	if err != nil {
		return nil, err
	}
	commonRows, err := s.readTable(ctx, s.Tables.CommonItems)
	if err != nil {
		return nil, err
	}
	gradeRows, err := s.readTable(ctx, s.Tables.GradeItems)
	if err != nil {
		return nil, err
	}

	rec, ok := headers.find(evaluationID)
	if !ok {
		return nil, notFound(ErrHeaderNotFound, "evaluation %q not found in %s", evaluationID, headers.name)
	}
	evalueeID := rec.text(fieldEvalueeID)
	if evalueeID == "" {
		return nil, notFound(ErrEvalueeNotConfigured, "evaluee not configured for evaluation %q", evaluationID)
	}
	evaluee, ok := dir.ByID(evalueeID)
	if !ok {
		return nil, notFound(ErrEmployeeNotFound, "employee %q not found in %s", evalueeID, s.Tables.Directory)
	}

	items := catalog.Build(commonRows, gradeRows, evaluee.Grade, detailRows, evaluationID)
	header := s.buildHeader(rec, goalSlots(items))
	enrichHeader(&header, dir, evaluee)

	st, _ := rec.status()
	role := pickRole(s.Roles.Candidates(dir, callerEmail, evalueeID), st)

	out = &Evaluation{
		Header:   header,
		Items:    items,
		Details:  parseDetails(detailRows, evaluationID),
		LoggedIn: LoggedIn{Email: callerEmail, Role: role},
	}
	if out.Items == nil {
		out.Items = []catalog.Item{}
	}
	slog.Info("get evaluation finished", "evaluationId", evaluationID, "items", len(out.Items), "role", role)
	return out, nil
}

func goalSlots(items []catalog.Item) []string {
	slots := append([]string(nil), defaultGoalSlots...)
	seen := map[string]bool{}
	for _, slot := range slots {
		seen[slot] = true
	}
	for _, item := range items {
		if item.IsGoal && !seen[item.ID] {
			seen[item.ID] = true
			slots = append(slots, item.ID)
		}
	}
	return slots
}

func (s *Service) buildHeader(rec headerRecord, slots []string) Header {
	st, raw := rec.status()
	h := Header{
		EvaluationID: rec.text(fieldEvaluationID),
		Period:       grid.DateText(rec.value(fieldPeriod), s.DateLayout),
		PeriodFrom:   grid.DateText(rec.value(fieldPeriodFrom), s.DateLayout),
		PeriodTo:     grid.DateText(rec.value(fieldPeriodTo), s.DateLayout),
		EvalueeID:    rec.text(fieldEvalueeID),
		Status:       raw,
		StatusCode:   st.Code(),
		Comments: RoleValues[string]{
			Evaluee: rec.raw(commentField(CommentEvaluee)),
			Eval1:   rec.raw(commentField(CommentEval1)),
			Eval2:   rec.raw(commentField(CommentEval2)),
			Eval3:   rec.raw(commentField(CommentEval3)),
		},
		Goals:          make(map[string]Goal, len(slots)),
		PresidentScore: grid.Plain(rec.value(fieldPresidentScore), s.DateLayout),
	}
	for _, slot := range slots {
		h.Goals[slot] = Goal{
			Goal:   rec.raw(goalField(slot)),
			Result: rec.raw(resultField(slot)),
		}
	}
	return h
}

const unsetName = "(unset)"

func enrichHeader(h *Header, dir *directory.Directory, evaluee directory.Employee) {
	h.EvalueeName = evaluee.Name
	h.EvalueeDepartment = evaluee.Department
	h.EvalueeGender = evaluee.Gender
	h.EvalueeDob = evaluee.DateOfBirth
	h.EvalueeJoined = evaluee.JoinDate
	h.EvalueeGrade = evaluee.Grade
	h.EvalueeNumber = evaluee.SeatNumber
	h.Eval1ID = evaluee.EvaluatorID(1)
	h.Eval1Name = dir.Name(h.Eval1ID, unsetName)
	h.Eval2ID = evaluee.EvaluatorID(2)
	h.Eval2Name = dir.Name(h.Eval2ID, unsetName)
	h.Eval3ID = evaluee.EvaluatorID(3)
	h.Eval3Name = dir.Name(h.Eval3ID, unsetName)
}

func (s *Service) ResolveRole(ctx context.Context, callerEmail, evaluationID string) (directory.Role, error) {
	return s.ResolveRoleAs(ctx, callerEmail, evaluationID, directory.RoleUnknown)
}

// ResolveRoleAs is ResolveRole with a requested role. RoleUnknown requests
// nothing; any other role must be one the caller holds.
func (s *Service) ResolveRoleAs(ctx context.Context, callerEmail, evaluationID string, want directory.Role) (role directory.Role, err error) {
	defer settle("resolve role", &err)
	if s.Roles.IsAdmin(callerEmail) {
		if want != directory.RoleUnknown && want != directory.RoleAdmin {
			return directory.RoleUnknown, Denied(ErrNoRole, "you do not hold role "+string(want)+" on this evaluation")
		}
		return directory.RoleAdmin, nil
	}
	dir, err := s.loadDirectory(ctx)
	if err != nil {
		return directory.RoleUnknown, err
	}
	headers, err := s.loadHeaders(ctx)
	if err != nil {
		return directory.RoleUnknown, err
	}
	evaluationID = strings.TrimSpace(evaluationID)
	rec, ok := headers.find(evaluationID)
	if !ok {
		return directory.RoleUnknown, notFound(ErrHeaderNotFound, "header not found: %s", evaluationID)
	}
	candidates := s.Roles.Candidates(dir, callerEmail, rec.text(fieldEvalueeID))
	if want == directory.RoleUnknown {
		st, _ := rec.status()
		return pickRole(candidates, st), nil
	}
	if !slices.Contains(candidates, want) {
		return directory.RoleUnknown, Denied(ErrNoRole, "you do not hold role "+string(want)+" on this evaluation")
	}
	return want, nil
}

// SaveEvaluation writes the caller's header fields and the submitted details,
// and on submit advances the status when role is the current stage's writer.
// A submit by any other role is applied without advancing and without error.
func (s *Service) SaveEvaluation(ctx context.Context, role directory.Role, isSubmit bool, p *Payload) (res SaveResult, err error) {
	defer settle("save evaluation", &err)
	if err := p.validate(); err != nil {
		return SaveResult{}, err
	}
	id := p.EvaluationID
	slog.Info("save evaluation started", "evaluationId", id, "role", role, "submit", isSubmit)

	unlock, err := s.Locker.Lock(ctx, s.saveLockKeys(id, p.Details)...)
	if err != nil {
		return SaveResult{}, err
	}
	defer unlock()

	headers, err := s.loadHeaders(ctx)
	if err != nil {
		return SaveResult{}, err
	}
	rec, ok := headers.find(id)
	if !ok {
		return SaveResult{}, notFound(ErrHeaderNotFound, "header not found: %s", id)
	}
	if rec.text(fieldEvalueeID) == "" {
		return SaveResult{}, notFound(ErrEvalueeNotConfigured, "evaluee not configured for evaluation %q", id)
	}

	current, rawStatus := rec.status()
	for _, w := range planHeaderWrites(role, current, p) {
		if _, err := s.writeCell(ctx, headers, rec, w.field, w.value); err != nil {
			return SaveResult{}, err
		}
	}

	res = SaveResult{EvaluationID: id, Status: rawStatus}
	if isSubmit {
		if next, ok := Advance(current, role); ok {
			rendered := next.Render(rawStatus)
			if _, err := s.writeCell(ctx, headers, rec, fieldStatus, rendered); err != nil {
				return SaveResult{}, err
			}
			res.Status = rendered
			res.Advanced = true
		} else {
			slog.Info("submit did not advance status", "evaluationId", id, "role", role, "status", rawStatus)
		}
	}

	res.Updated, res.Appended, err = s.upsertDetails(ctx, id, p.Details)
	if err != nil {
		return SaveResult{}, err
	}

	if s.Observer != nil {
		s.Observer.ObserveSave(string(role), isSubmit, res.Advanced)
	}
	slog.Info("save evaluation finished", "evaluationId", id, "status", res.Status, "advanced", res.Advanced,
		"updated", res.Updated, "appended", res.Appended)
	return res, nil
}

func (s *Service) GetDashboard(ctx context.Context, callerEmail string) (out Dashboard, err error) {
	defer settle("load dashboard", &err)
	out = Dashboard{SubordinateTasks: []SubordinateTask{}}

	dir, err := s.loadDirectory(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	headers, err := s.loadHeaders(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	me, ok := dir.ByEmail(callerEmail)
	if !ok {
		slog.Info("dashboard caller not in directory", "caller", callerEmail)
		return out, nil
	}

	records := headers.records()
	for _, rec := range records {
		st, raw := rec.status()
		if rec.text(fieldEvalueeID) != me.ID || st == StatusComplete {
			continue
		}
		task := &MyTask{
			EvaluationID:   rec.text(fieldEvaluationID),
			Period:         grid.DateText(rec.value(fieldPeriod), s.DateLayout),
			Status:         raw,
			RequiredAction: ActionAwaitingEvaluator,
			IsPending:      true,
		}
		if st == StatusSelfInput {
			task.RequiredAction = ActionSelfInput
			task.IsPending = false
		}
		out.MyTask = task
		break
	}

	subordinates := dir.SubordinatesOf(me.ID)
	if len(subordinates) == 0 {
		return out, nil
	}
	for _, rec := range records {
		evalueeID := rec.text(fieldEvalueeID)
		if !subordinates[evalueeID] {
			continue
		}
		st, raw := rec.status()
		if st == StatusComplete {
			continue
		}
		evaluee, ok := dir.ByID(evalueeID)
		if !ok {
			continue
		}
		writer, ok := AuthorizedWriter(st)
		slot := writer.Slot()
		if !ok || slot == 0 || evaluee.EvaluatorID(slot) != me.ID {
			continue
		}
		out.SubordinateTasks = append(out.SubordinateTasks, SubordinateTask{
			EvaluationID:   rec.text(fieldEvaluationID),
			Period:         grid.DateText(rec.value(fieldPeriod), s.DateLayout),
			EvalueeName:    evaluee.Name,
			Status:         raw,
			RequiredAction: EvaluatorAction(slot),
		})
	}
	return out, nil
}
