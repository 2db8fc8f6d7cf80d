package exam

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/aptisure/aptisure-api/internal/question"
)

var ErrTestNotFound = errors.New("test not found")

// Definition is a named, ordered collection of questions with scoring and
// duration metadata. Questions carry answer keys; only sanitized projections
// leave the server before submission.
type Definition struct {
	ID              uuid.UUID
	Title           string
	Company         string
	DurationMinutes int
	TotalMarks      int
	Difficulty      string
	Questions       []question.Question
	CreatedAt       time.Time
}

// Summary is the list projection of a definition (questions withheld).
type Summary struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	DurationMinutes int       `json:"duration"`
	TotalMarks      int       `json:"totalMarks"`
	Difficulty      string    `json:"difficulty"`
	QuestionCount   int       `json:"questionCount"`
}

// StartResponse is the payload handed to a client beginning a test.
type StartResponse struct {
	ID              uuid.UUID            `json:"id"`
	Title           string               `json:"title"`
	Company         string               `json:"company"`
	DurationMinutes int                  `json:"duration"`
	TotalMarks      int                  `json:"totalMarks"`
	Difficulty      string               `json:"difficulty"`
	Questions       []question.Sanitized `json:"questions"`
}

// SubmittedAnswer is one client-selected option for a test question.
type SubmittedAnswer struct {
	QuestionID     uuid.UUID `json:"questionId"`
	SelectedOption int       `json:"selectedOption"`
}

// BreakdownEntry records per-question correctness in a result. Entries
// mirror the submitted answers, preserving their order.
type BreakdownEntry struct {
	QuestionID     uuid.UUID `json:"questionId"`
	SelectedOption int       `json:"selectedOption"`
	IsCorrect      bool      `json:"isCorrect"`
}

// Result is the persisted, append-only record of a scored test submission.
// TotalMarks is a snapshot of the definition's value at submission time.
type Result struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TestID     uuid.UUID
	Score      int
	TotalMarks int
	Percentage int
	Breakdown  []BreakdownEntry
	CreatedAt  time.Time
}

// ResultSummary is the recent-results list projection with the test title
// joined in.
type ResultSummary struct {
	ID         uuid.UUID `json:"id"`
	TestName   string    `json:"testName"`
	Score      int       `json:"score"`
	TotalMarks int       `json:"totalMarks"`
	Percentage int       `json:"percentage"`
	Date       time.Time `json:"date"`
}

// SubmitResponse is returned to the client after scoring.
type SubmitResponse struct {
	ResultID   uuid.UUID        `json:"resultId"`
	Score      int              `json:"score"`
	TotalMarks int              `json:"totalMarks"`
	Percentage int              `json:"percentage"`
	Breakdown  []BreakdownEntry `json:"breakdown"`
	TestName   string           `json:"testName"`
}
