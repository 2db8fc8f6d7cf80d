package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aptisure/aptisure-api/internal/question"
)

const questionColumns = "question_id, title, image, options, correct_option_index, solution, qtype, difficulty, tags"

// QuestionRepository provides Postgres access to the question pool.
type QuestionRepository struct {
	db DBTX
}

var _ question.Store = (*QuestionRepository)(nil)

func NewQuestionRepository(db DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// GetByID fetches one full question.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (question.Question, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE question_id = $1", id)

	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return question.Question{}, question.ErrNotFound
		}
		return question.Question{}, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

// SampleRandom returns up to limit uniformly random matching questions.
// ORDER BY random() keeps the selection uniform and duplicate-free within a
// single call; a short population simply yields fewer rows.
func (r *QuestionRepository) SampleRandom(ctx context.Context, filter question.Filter, limit int) ([]question.Question, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("qtype = $%d", len(args)))
	}
	if filter.Difficulty != "" {
		args = append(args, filter.Difficulty)
		conds = append(conds, fmt.Sprintf("difficulty = $%d", len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conds = append(conds, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}

	query := "SELECT " + questionColumns + " FROM questions"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY random() LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sample questions: %w", err)
	}
	defer rows.Close()

	var qs []question.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		qs = append(qs, q)
	}
	return qs, rows.Err()
}

func scanQuestion(row pgx.Row) (question.Question, error) {
	var q question.Question
	err := row.Scan(
		&q.ID,
		&q.Title,
		&q.Image,
		&q.Options,
		&q.CorrectOptionIndex,
		&q.Solution,
		&q.Type,
		&q.Difficulty,
		&q.Tags,
	)
	return q, err
}
