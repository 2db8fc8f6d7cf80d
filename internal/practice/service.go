package practice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aptisure/aptisure-api/internal/progress"
	"github.com/aptisure/aptisure-api/internal/question"
)

// Mode tags for attempt records.
const (
	ModePractice = "practice"
	ModeTest     = "test"
)

// Attempt is the append-only record of one practice submission. One row per
// submission, correct or not, never mutated.
type Attempt struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	QuestionID     uuid.UUID
	SelectedOption int
	IsCorrect      bool
	Mode           string
	TimeTaken      *int // seconds, optional
	CreatedAt      time.Time
}

// AttemptStore persists attempt records.
type AttemptStore interface {
	Insert(ctx context.Context, a Attempt) error
}

// Feedback is returned for every practice submission. The answer key and
// solution are always included: practice mode is for learning.
type Feedback struct {
	IsCorrect          bool   `json:"isCorrect"`
	CorrectOptionIndex int    `json:"correctOptionIndex"`
	Solution           string `json:"solution"`
}

// Service implements the single-question practice flow.
type Service struct {
	questions question.Store
	attempts  AttemptStore
	tracker   *progress.Tracker
	logger    zerolog.Logger
}

// NewService creates the practice service.
func NewService(questions question.Store, attempts AttemptStore, tracker *progress.Tracker, logger zerolog.Logger) *Service {
	return &Service{
		questions: questions,
		attempts:  attempts,
		tracker:   tracker,
		logger:    logger.With().Str("component", "practice").Logger(),
	}
}

// SubmitAnswer grades one practice answer, records the attempt, and credits
// the solve when correct. Credits flow through the same idempotent tracker
// primitive as test submissions.
func (s *Service) SubmitAnswer(ctx context.Context, userID, questionID uuid.UUID, selectedOption int, timeTaken *int) (Feedback, error) {
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return Feedback{}, err
	}

	isCorrect := selectedOption == q.CorrectOptionIndex

	attempt := Attempt{
		UserID:         userID,
		QuestionID:     questionID,
		SelectedOption: selectedOption,
		IsCorrect:      isCorrect,
		Mode:           ModePractice,
		TimeTaken:      timeTaken,
	}
	if err := s.attempts.Insert(ctx, attempt); err != nil {
		return Feedback{}, fmt.Errorf("record attempt: %w", err)
	}

	if isCorrect {
		if err := s.tracker.Credit(ctx, userID, questionID, q.Difficulty); err != nil {
			return Feedback{}, err
		}
	}

	s.logger.Debug().
		Str("user_id", userID.String()).
		Str("question_id", questionID.String()).
		Bool("correct", isCorrect).
		Msg("practice attempt recorded")

	return Feedback{
		IsCorrect:          isCorrect,
		CorrectOptionIndex: q.CorrectOptionIndex,
		Solution:           q.Solution,
	}, nil
}
