package models

// RegistrationNotification is the payload accepted by the notifier endpoint.
// Field names follow the browser contract and are therefore camelCase.
type RegistrationNotification struct {
	FullName       string `json:"fullName"`
	Age            int    `json:"age"`
	Email          string `json:"email"`
	LessonTitle    string `json:"lessonTitle"`
	LessonLanguage string `json:"lessonLanguage"`
	LessonLevel    string `json:"lessonLevel"`
}

// RegistrationOutcome labels how the notifier handled a submission.
type RegistrationOutcome string

const (
	OutcomeAccepted  RegistrationOutcome = "accepted"
	OutcomeRejected  RegistrationOutcome = "rejected"
	OutcomeDuplicate RegistrationOutcome = "duplicate"
	OutcomeFailed    RegistrationOutcome = "failed"
)
