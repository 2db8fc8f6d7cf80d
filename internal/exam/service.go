package exam

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aptisure/aptisure-api/internal/progress"
	"github.com/aptisure/aptisure-api/internal/question"
)

// DefinitionStore provides access to test definitions.
type DefinitionStore interface {
	List(ctx context.Context) ([]Summary, error)
	// GetWithQuestions returns ErrTestNotFound for unknown ids.
	GetWithQuestions(ctx context.Context, id uuid.UUID) (Definition, error)
}

// ResultStore persists scored submissions. SaveWithCredits applies the
// result insert and every progress credit within one transaction, so a crash
// can never leave a saved result without its counters (replays are absorbed
// by the credit's idempotence).
type ResultStore interface {
	SaveWithCredits(ctx context.Context, res Result, credits []progress.Credit) (uuid.UUID, error)
	ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]ResultSummary, error)
}

// ListCache caches test reference data (definitions change rarely).
type ListCache interface {
	GetList(ctx context.Context) ([]Summary, error)
	SetList(ctx context.Context, tests []Summary) error
	GetStart(ctx context.Context, id uuid.UUID) (*StartResponse, error)
	SetStart(ctx context.Context, id uuid.UUID, resp StartResponse) error
}

// ServiceOptions tunes the exam service.
type ServiceOptions struct {
	RecentResultsLimit int
}

// Service orchestrates listing, starting, and scoring company test sets.
type Service struct {
	defs        DefinitionStore
	results     ResultStore
	cache       ListCache
	recentLimit int
	logger      zerolog.Logger
}

// NewService creates the exam service. cache may be nil (caching disabled).
func NewService(defs DefinitionStore, results ResultStore, cache ListCache, opts ServiceOptions, logger zerolog.Logger) *Service {
	if opts.RecentResultsLimit <= 0 {
		opts.RecentResultsLimit = 5
	}
	return &Service{
		defs:        defs,
		results:     results,
		cache:       cache,
		recentLimit: opts.RecentResultsLimit,
		logger:      logger.With().Str("component", "exam").Logger(),
	}
}

// List returns all test definitions without their question lists.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetList(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	tests, err := s.defs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, tests); err != nil {
			s.logger.Warn().Err(err).Msg("test list cache write failed")
		}
	}
	return tests, nil
}

// Start returns the definition with sanitized questions for the client to
// begin answering. Answer keys never leave this call.
func (s *Service) Start(ctx context.Context, id uuid.UUID) (StartResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetStart(ctx, id); err == nil && cached != nil {
			return *cached, nil
		}
	}

	def, err := s.defs.GetWithQuestions(ctx, id)
	if err != nil {
		return StartResponse{}, err
	}

	resp := StartResponse{
		ID:              def.ID,
		Title:           def.Title,
		Company:         def.Company,
		DurationMinutes: def.DurationMinutes,
		TotalMarks:      def.TotalMarks,
		Difficulty:      def.Difficulty,
		Questions:       make([]question.Sanitized, len(def.Questions)),
	}
	for i, q := range def.Questions {
		resp.Questions[i] = q.Sanitize()
	}

	if s.cache != nil {
		if err := s.cache.SetStart(ctx, id, resp); err != nil {
			s.logger.Warn().Err(err).Msg("test start cache write failed")
		}
	}
	return resp, nil
}

// Questions returns the full question list including answer keys, for
// post-hoc review of a completed test.
func (s *Service) Questions(ctx context.Context, id uuid.UUID) ([]question.Question, error) {
	def, err := s.defs.GetWithQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	return def.Questions, nil
}

// Submit scores the submitted answers, persists the result, and credits
// every first-time-correct solve. The result insert and the credits commit
// in one transaction.
func (s *Service) Submit(ctx context.Context, userID, testID uuid.UUID, answers []SubmittedAnswer) (SubmitResponse, error) {
	def, err := s.defs.GetWithQuestions(ctx, testID)
	if err != nil {
		return SubmitResponse{}, err
	}

	outcome := ScoreSubmission(def, answers)

	res := Result{
		UserID:     userID,
		TestID:     testID,
		Score:      outcome.Score,
		TotalMarks: def.TotalMarks,
		Percentage: outcome.Percentage,
		Breakdown:  outcome.Breakdown,
	}

	resultID, err := s.results.SaveWithCredits(ctx, res, outcome.Credits)
	if err != nil {
		return SubmitResponse{}, fmt.Errorf("save result: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("test_id", testID.String()).
		Int("score", outcome.Score).
		Int("percentage", outcome.Percentage).
		Msg("test submitted")

	return SubmitResponse{
		ResultID:   resultID,
		Score:      outcome.Score,
		TotalMarks: def.TotalMarks,
		Percentage: outcome.Percentage,
		Breakdown:  outcome.Breakdown,
		TestName:   def.Title,
	}, nil
}

// RecentResults returns the user's most recent result summaries, newest
// first.
func (s *Service) RecentResults(ctx context.Context, userID uuid.UUID) ([]ResultSummary, error) {
	results, err := s.results.ListRecentByUser(ctx, userID, s.recentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent results: %w", err)
	}
	return results, nil
}
