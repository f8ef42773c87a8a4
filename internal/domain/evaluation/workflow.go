package evaluation

import (
	"sort"

	"perfreview/internal/domain/directory"
)

type transition struct {
	writer directory.Role
	next   Status
}

var transitions = map[Status]transition{
	StatusSelfInput:       {writer: directory.RoleEmployee, next: StatusEvaluator1Input},
	StatusEvaluator1Input: {writer: directory.RoleEvaluator1, next: StatusEvaluator2Input},
	StatusEvaluator2Input: {writer: directory.RoleEvaluator2, next: StatusEvaluator3Input},
	StatusEvaluator3Input: {writer: directory.RoleEvaluator3, next: StatusFinalReview},
	StatusFinalReview:     {writer: directory.RoleAdmin, next: StatusComplete},
}

func AuthorizedWriter(current Status) (directory.Role, bool) {
	t, ok := transitions[current]
	if !ok {
		return directory.RoleUnknown, false
	}
	return t.writer, true
}

func Advance(current Status, role directory.Role) (Status, bool) {
	t, ok := transitions[current]
	if !ok || t.writer != role {
		return current, false
	}
	return t.next, true
}

type CommentSlot string

const (
	CommentEvaluee CommentSlot = "evaluee"
	CommentEval1   CommentSlot = "eval1"
	CommentEval2   CommentSlot = "eval2"
	CommentEval3   CommentSlot = "eval3"
)

func CommentSlots(role directory.Role) []CommentSlot {
	switch role {
	case directory.RoleEmployee:
		return []CommentSlot{CommentEvaluee}
	case directory.RoleEvaluator1:
		return []CommentSlot{CommentEval1}
	case directory.RoleEvaluator2:
		return []CommentSlot{CommentEval2}
	case directory.RoleEvaluator3:
		return []CommentSlot{CommentEval3}
	case directory.RoleAdmin:
		return []CommentSlot{CommentEval1, CommentEval2, CommentEval3}
	default:
		return nil
	}
}

type headerWrite struct {
	field field
	value any
}

// planHeaderWrites decides which header cells a save by role touches. Only
// keys present in the payload are written.
func planHeaderWrites(role directory.Role, current Status, p *Payload) []headerWrite {
	var writes []headerWrite
	for _, slot := range CommentSlots(role) {
		text, ok := p.Comments[string(slot)]
		if !ok {
			continue
		}
		writes = append(writes, headerWrite{field: commentField(slot), value: text})
	}

	if role != directory.RoleUnknown && current != StatusComplete {
		slots := make([]string, 0, len(p.Goals))
		for slot := range p.Goals {
			slots = append(slots, slot)
		}
		sort.Strings(slots)
		for _, slot := range slots {
			goal := p.Goals[slot]
			writes = append(writes,
				headerWrite{field: goalField(slot), value: goal.Goal},
				headerWrite{field: resultField(slot), value: goal.Result},
			)
		}
	}

	if role == directory.RoleAdmin && p.PresidentScore != nil {
		writes = append(writes, headerWrite{field: fieldPresidentScore, value: p.PresidentScore.cell()})
	}
	return writes
}

// pickRole chooses among the roles a caller holds on one evaluation: the
// authorized writer for current when held, otherwise the first candidate.
func pickRole(candidates []directory.Role, current Status) directory.Role {
	if len(candidates) == 0 {
		return directory.RoleUnknown
	}
	if writer, ok := AuthorizedWriter(current); ok {
		for _, role := range candidates {
			if role == writer {
				return role
			}
		}
	}
	return candidates[0]
}
