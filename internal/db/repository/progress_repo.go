package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aptisure/aptisure-api/internal/progress"
)

// ProgressRepository persists the per-user solved set and counters.
type ProgressRepository struct {
	db DBTX
}

var _ progress.Store = (*ProgressRepository)(nil)

func NewProgressRepository(db DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *ProgressRepository) WithTx(tx DBTX) *ProgressRepository {
	return &ProgressRepository{db: tx}
}

// creditSolveSQL inserts into the solved set and bumps the counters in one
// statement. The counter update is gated on the insert landing, so a
// question already in the set changes nothing: concurrent first-time solves
// of the same question resolve to exactly one increment.
const creditSolveSQL = `
WITH first_solve AS (
	INSERT INTO solved_questions (user_id, question_id)
	VALUES ($1, $2)
	ON CONFLICT (user_id, question_id) DO NOTHING
	RETURNING question_id
)
UPDATE users SET
	solved_easy   = solved_easy   + CASE WHEN $3 = 'Easy'   THEN 1 ELSE 0 END,
	solved_medium = solved_medium + CASE WHEN $3 = 'Medium' THEN 1 ELSE 0 END,
	solved_hard   = solved_hard   + CASE WHEN $3 = 'Hard'   THEN 1 ELSE 0 END,
	solved_total  = solved_total  + 1
WHERE user_id = $1 AND EXISTS (SELECT 1 FROM first_solve)`

// CreditSolve records a first-time solve. Returns false when the question
// was already credited for this user.
func (r *ProgressRepository) CreditSolve(ctx context.Context, userID, questionID uuid.UUID, difficulty string) (bool, error) {
	tag, err := r.db.Exec(ctx, creditSolveSQL, userID, questionID, difficulty)
	if err != nil {
		return false, fmt.Errorf("credit solve: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SolvedStats reads the user's counters.
func (r *ProgressRepository) SolvedStats(ctx context.Context, userID uuid.UUID) (progress.Stats, error) {
	var stats progress.Stats
	err := r.db.QueryRow(ctx, `
		SELECT solved_easy, solved_medium, solved_hard, solved_total
		FROM users WHERE user_id = $1`, userID).
		Scan(&stats.Easy, &stats.Medium, &stats.Hard, &stats.Total)
	if err != nil {
		return progress.Stats{}, fmt.Errorf("solved stats: %w", err)
	}
	return stats, nil
}
