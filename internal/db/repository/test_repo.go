package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aptisure/aptisure-api/internal/exam"
)

// TestRepository provides Postgres access to test definitions.
type TestRepository struct {
	db DBTX
}

var _ exam.DefinitionStore = (*TestRepository)(nil)

func NewTestRepository(db DBTX) *TestRepository {
	return &TestRepository{db: db}
}

// List returns all definitions without their question lists, with a
// question count joined in.
func (r *TestRepository) List(ctx context.Context) ([]exam.Summary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.test_id, t.title, t.company, t.duration_minutes, t.total_marks, t.difficulty,
		       COUNT(tq.question_id)
		FROM tests t
		LEFT JOIN test_questions tq ON tq.test_id = t.test_id
		GROUP BY t.test_id
		ORDER BY t.created_at`)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	defer rows.Close()

	var tests []exam.Summary
	for rows.Next() {
		var s exam.Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.Company, &s.DurationMinutes, &s.TotalMarks, &s.Difficulty, &s.QuestionCount); err != nil {
			return nil, fmt.Errorf("scan test: %w", err)
		}
		tests = append(tests, s)
	}
	return tests, rows.Err()
}

// GetWithQuestions loads a definition with its ordered question list,
// including answer keys.
func (r *TestRepository) GetWithQuestions(ctx context.Context, id uuid.UUID) (exam.Definition, error) {
	var def exam.Definition
	err := r.db.QueryRow(ctx, `
		SELECT test_id, title, company, duration_minutes, total_marks, difficulty, created_at
		FROM tests WHERE test_id = $1`, id).
		Scan(&def.ID, &def.Title, &def.Company, &def.DurationMinutes, &def.TotalMarks, &def.Difficulty, &def.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exam.Definition{}, exam.ErrTestNotFound
		}
		return exam.Definition{}, fmt.Errorf("get test: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT q.question_id, q.title, q.image, q.options, q.correct_option_index, q.solution,
		       q.qtype, q.difficulty, q.tags
		FROM test_questions tq
		JOIN questions q ON q.question_id = tq.question_id
		WHERE tq.test_id = $1
		ORDER BY tq.position`, id)
	if err != nil {
		return exam.Definition{}, fmt.Errorf("get test questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return exam.Definition{}, fmt.Errorf("scan test question: %w", err)
		}
		def.Questions = append(def.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return exam.Definition{}, err
	}
	return def, nil
}
