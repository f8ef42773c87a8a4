package directory

import (
	"strings"

	"perfreview/internal/platform/grid"
)

type Directory struct {
	employees []Employee
	byID      map[string]int
	byEmail   map[string]int
}

func New(rows [][]any, dateLayout string) *Directory {
	d := &Directory{
		byID:    make(map[string]int),
		byEmail: make(map[string]int),
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		emp := parseRow(row, dateLayout)
		if emp.ID == "" {
			continue
		}
		if _, dup := d.byID[emp.ID]; dup {
			continue
		}
		idx := len(d.employees)
		d.employees = append(d.employees, emp)
		d.byID[emp.ID] = idx
		if key := emailKey(emp.Email); key != "" {
			if _, taken := d.byEmail[key]; !taken {
				d.byEmail[key] = idx
			}
		}
	}
	return d
}

func parseRow(row []any, dateLayout string) Employee {
	cell := func(col int) any {
		if col < len(row) {
			return row[col]
		}
		return nil
	}
	return Employee{
		ID:          grid.TrimText(cell(colID)),
		Name:        grid.TrimText(cell(colName)),
		Email:       grid.TrimText(cell(colEmail)),
		Department:  grid.TrimText(cell(colDepartment)),
		Gender:      grid.TrimText(cell(colGender)),
		DateOfBirth: grid.DateText(cell(colDateOfBirth), dateLayout),
		JoinDate:    grid.DateText(cell(colJoinDate), dateLayout),
		Grade:       grid.TrimText(cell(colGrade)),
		SeatNumber:  grid.TrimText(cell(colSeatNumber)),
		EvaluatorIDs: [3]string{
			grid.TrimText(cell(colEvaluator1)),
			grid.TrimText(cell(colEvaluator2)),
			grid.TrimText(cell(colEvaluator3)),
		},
		Status: grid.TrimText(cell(colStatus)),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d *Directory) ByEmail(email string) (Employee, bool) {
	idx, ok := d.byEmail[emailKey(email)]
	if !ok {
		return Employee{}, false
	}
	return d.employees[idx], true
}

func (d *Directory) ByID(id string) (Employee, bool) {
	idx, ok := d.byID[strings.TrimSpace(id)]
	if !ok {
		return Employee{}, false
	}
	return d.employees[idx], true
}

func (d *Directory) Name(id, fallback string) string {
	if emp, ok := d.ByID(id); ok && emp.Name != "" {
		return emp.Name
	}
	return fallback
}

func (d *Directory) IsEvaluatorOf(candidateID, employeeID string) bool {
	return len(d.EvaluatorSlots(candidateID, employeeID)) > 0
}

func (d *Directory) EvaluatorSlots(candidateID, employeeID string) []int {
	candidateID = strings.TrimSpace(candidateID)
	emp, ok := d.ByID(employeeID)
	if !ok || candidateID == "" {
		return nil
	}
	var slots []int
	for i, id := range emp.EvaluatorIDs {
		if id == candidateID {
			slots = append(slots, i+1)
		}
	}
	return slots
}

func (d *Directory) SubordinatesOf(evaluatorID string) map[string]bool {
	evaluatorID = strings.TrimSpace(evaluatorID)
	out := make(map[string]bool)
	if evaluatorID == "" {
		return out
	}
	for _, emp := range d.employees {
		for _, id := range emp.EvaluatorIDs {
			if id == evaluatorID {
				out[emp.ID] = true
				break
			}
		}
	}
	return out
}

func (d *Directory) IsEvaluator(id string) bool {
	return len(d.SubordinatesOf(id)) > 0
}

func (d *Directory) All() []Employee {
	out := make([]Employee, len(d.employees))
	copy(out, d.employees)
	return out
}

func (d *Directory) Len() int {
	return len(d.employees)
}
