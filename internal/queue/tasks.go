package queue

const (
	TypeExamReminder = "exam:reminder"
)

type ExamReminderPayload struct {
	ExamID string `json:"exam_id"`
}
