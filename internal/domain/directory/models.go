package directory

// Directory table columns, zero-based.
const (
	colID = iota
	colName
	colEmail
	colDepartment
	colGender
	colDateOfBirth
	colJoinDate
	colGrade
	colSeatNumber
	colEvaluator1
	colEvaluator2
	colEvaluator3
	colStatus
)

type Employee struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Department   string    `json:"department"`
	Gender       string    `json:"gender"`
	DateOfBirth  string    `json:"dateOfBirth"`
	JoinDate     string    `json:"joinDate"`
	Grade        string    `json:"grade"`
	SeatNumber   string    `json:"seatNumber"`
	EvaluatorIDs [3]string `json:"evaluatorIds"`
	Status       string    `json:"status"`
}

func (e Employee) EvaluatorID(n int) string {
	if n < 1 || n > len(e.EvaluatorIDs) {
		return ""
	}
	return e.EvaluatorIDs[n-1]
}
