package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aptisure/aptisure-api/internal/exam"
	"github.com/aptisure/aptisure-api/internal/progress"
)

// ResultRepository persists scored test submissions.
type ResultRepository struct {
	pool     *pgxpool.Pool
	progress *ProgressRepository
}

var _ exam.ResultStore = (*ResultRepository)(nil)

func NewResultRepository(pool *pgxpool.Pool, progressRepo *ProgressRepository) *ResultRepository {
	return &ResultRepository{pool: pool, progress: progressRepo}
}

// SaveWithCredits inserts the result row and applies every solve credit in
// a single transaction. A crash before commit leaves neither the result nor
// the counters behind; a retried submission re-runs the idempotent credits
// harmlessly.
func (r *ResultRepository) SaveWithCredits(ctx context.Context, res exam.Result, credits []progress.Credit) (uuid.UUID, error) {
	breakdown, err := json.Marshal(res.Breakdown)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal breakdown: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	resultID := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO test_results (result_id, user_id, test_id, score, total_marks, percentage, answers)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		resultID, res.UserID, res.TestID, res.Score, res.TotalMarks, res.Percentage, breakdown)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert result: %w", err)
	}

	progressTx := r.progress.WithTx(tx)
	for _, c := range credits {
		if _, err := progressTx.CreditSolve(ctx, res.UserID, c.QuestionID, c.Difficulty); err != nil {
			return uuid.Nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit tx: %w", err)
	}
	return resultID, nil
}

// ListRecentByUser returns the user's most recent result summaries, newest
// first, with the test title joined in.
func (r *ResultRepository) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]exam.ResultSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT res.result_id, t.title, res.score, res.total_marks, res.percentage, res.created_at
		FROM test_results res
		JOIN tests t ON t.test_id = res.test_id
		WHERE res.user_id = $1
		ORDER BY res.created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []exam.ResultSummary
	for rows.Next() {
		var s exam.ResultSummary
		if err := rows.Scan(&s.ID, &s.TestName, &s.Score, &s.TotalMarks, &s.Percentage, &s.Date); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}
