package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aptisure/aptisure-api/internal/practice"
)

// AttemptRepository persists append-only practice attempt records.
type AttemptRepository struct {
	db DBTX
}

var _ practice.AttemptStore = (*AttemptRepository)(nil)

func NewAttemptRepository(db DBTX) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Insert stores one attempt row. Attempts are never updated or deleted.
func (r *AttemptRepository) Insert(ctx context.Context, a practice.Attempt) error {
	id := a.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO attempts (attempt_id, user_id, question_id, selected_option, is_correct, mode, time_taken_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, a.UserID, a.QuestionID, a.SelectedOption, a.IsCorrect, a.Mode, a.TimeTaken)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}
