package directory

import "strings"

type Role string

const (
	RoleUnknown    Role = "Unknown"
	RoleEmployee   Role = "Employee"
	RoleEvaluator  Role = "Evaluator"
	RoleEvaluator1 Role = "Evaluator1"
	RoleEvaluator2 Role = "Evaluator2"
	RoleEvaluator3 Role = "Evaluator3"
	RoleAdmin      Role = "Admin"
)

var evaluatorRoles = [3]Role{RoleEvaluator1, RoleEvaluator2, RoleEvaluator3}

func EvaluatorRole(n int) Role {
	if n < 1 || n > len(evaluatorRoles) {
		return RoleUnknown
	}
	return evaluatorRoles[n-1]
}

func (r Role) Slot() int {
	for i, role := range evaluatorRoles {
		if r == role {
			return i + 1
		}
	}
	return 0
}

func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "employee", "evaluee", "self":
		return RoleEmployee
	case "evaluator":
		return RoleEvaluator
	case "evaluator1", "eval1":
		return RoleEvaluator1
	case "evaluator2", "eval2":
		return RoleEvaluator2
	case "evaluator3", "eval3":
		return RoleEvaluator3
	case "admin":
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

type RoleResolver struct {
	admins map[string]struct{}
}

func NewRoleResolver(adminEmails []string) RoleResolver {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		if key := emailKey(email); key != "" {
			admins[key] = struct{}{}
		}
	}
	return RoleResolver{admins: admins}
}

func (r RoleResolver) IsAdmin(email string) bool {
	_, ok := r.admins[emailKey(email)]
	return ok
}

func (r RoleResolver) Resolve(d *Directory, email string) Role {
	if r.IsAdmin(email) {
		return RoleAdmin
	}
	emp, ok := d.ByEmail(email)
	if !ok {
		return RoleUnknown
	}
	if d.IsEvaluator(emp.ID) {
		return RoleEvaluator
	}
	return RoleEmployee
}

func (r RoleResolver) Candidates(d *Directory, email, evalueeID string) []Role {
	if r.IsAdmin(email) {
		return []Role{RoleAdmin}
	}
	emp, ok := d.ByEmail(email)
	if !ok {
		return nil
	}
	var roles []Role
	if emp.ID == strings.TrimSpace(evalueeID) {
		roles = append(roles, RoleEmployee)
	}
	for _, slot := range d.EvaluatorSlots(emp.ID, evalueeID) {
		roles = append(roles, EvaluatorRole(slot))
	}
	return roles
}
