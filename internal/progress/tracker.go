package progress

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aptisure/aptisure-api/internal/question"
)

// Stats holds a user's solved-question counters. The total counter always
// equals easy+medium+hard.
type Stats struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
	Total  int `json:"total"`
}

// Credit instructs the tracker to record a first-time solve.
type Credit struct {
	QuestionID uuid.UUID
	Difficulty string
}

// Store persists the solved set and counters. CreditSolve must be atomic:
// two concurrent first-time solves of the same question by the same user
// result in exactly one increment.
type Store interface {
	// CreditSolve inserts the question into the user's solved set and bumps
	// the matching counters. Returns false without changes when the question
	// was already credited.
	CreditSolve(ctx context.Context, userID, questionID uuid.UUID, difficulty string) (bool, error)
	SolvedStats(ctx context.Context, userID uuid.UUID) (Stats, error)
}

// Tracker owns all mutations of user solve progress. Both the practice and
// the test submission paths funnel through Credit, so a question is counted
// at most once per user regardless of mode.
type Tracker struct {
	store  Store
	logger zerolog.Logger
}

// NewTracker creates a progress tracker over the given store.
func NewTracker(store Store, logger zerolog.Logger) *Tracker {
	return &Tracker{
		store:  store,
		logger: logger.With().Str("component", "progress").Logger(),
	}
}

// Credit records a correct answer, incrementing the user's counters only the
// first time the question is solved. Safe to retry.
func (t *Tracker) Credit(ctx context.Context, userID, questionID uuid.UUID, difficulty string) error {
	if !question.IsValidDifficulty(difficulty) {
		return fmt.Errorf("%w: %q", question.ErrInvalidDifficulty, difficulty)
	}

	credited, err := t.store.CreditSolve(ctx, userID, questionID, difficulty)
	if err != nil {
		return fmt.Errorf("credit solve: %w", err)
	}
	if credited {
		t.logger.Debug().
			Str("user_id", userID.String()).
			Str("question_id", questionID.String()).
			Str("difficulty", difficulty).
			Msg("question credited")
	}
	return nil
}

// Stats returns the user's solved counters.
func (t *Tracker) Stats(ctx context.Context, userID uuid.UUID) (Stats, error) {
	stats, err := t.store.SolvedStats(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("solved stats: %w", err)
	}
	return stats, nil
}
