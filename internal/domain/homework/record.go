// internal/domain/homework/record.go
package homework

// Status is a review state reported by the homework API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// Verdicts maps every recognised status to the text shown to the student.
var Verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Response field names.
const (
	KeyHomeworks    = "homeworks"
	KeyCurrentDate  = "current_date"
	KeyHomeworkName = "homework_name"
	KeyStatus       = "status"
)

// Record is one decoded element of the "homeworks" array.
type Record map[string]any

// Name returns the homework name, or "" when it is absent or not a string.
func (r Record) Name() string {
	s, _ := r[KeyHomeworkName].(string)
	return s
}

// Status returns the raw status code, or "" when it is absent or not a string.
func (r Record) Status() Status {
	s, _ := r[KeyStatus].(string)
	return Status(s)
}

// Response is a validated API payload.
type Response struct {
	Homeworks   []Record
	CurrentDate int64
}
