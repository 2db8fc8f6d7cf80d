package exam

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/aptisure/aptisure-api/internal/progress"
	"github.com/aptisure/aptisure-api/internal/question"
)

type stubDefinitionStore struct {
	defs  map[uuid.UUID]Definition
	calls int
}

func (s *stubDefinitionStore) List(context.Context) ([]Summary, error) {
	s.calls++
	out := make([]Summary, 0, len(s.defs))
	for _, d := range s.defs {
		out = append(out, Summary{
			ID:            d.ID,
			Title:         d.Title,
			Company:       d.Company,
			TotalMarks:    d.TotalMarks,
			QuestionCount: len(d.Questions),
		})
	}
	return out, nil
}

func (s *stubDefinitionStore) GetWithQuestions(_ context.Context, id uuid.UUID) (Definition, error) {
	s.calls++
	d, ok := s.defs[id]
	if !ok {
		return Definition{}, ErrTestNotFound
	}
	return d, nil
}

// fakeProgressStore backs the idempotent credit path in memory.
type fakeProgressStore struct {
	mu     sync.Mutex
	solved map[uuid.UUID]map[uuid.UUID]bool
	stats  map[uuid.UUID]progress.Stats
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{
		solved: make(map[uuid.UUID]map[uuid.UUID]bool),
		stats:  make(map[uuid.UUID]progress.Stats),
	}
}

func (f *fakeProgressStore) CreditSolve(_ context.Context, userID, questionID uuid.UUID, difficulty string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := f.solved[userID]
	if set == nil {
		set = make(map[uuid.UUID]bool)
		f.solved[userID] = set
	}
	if set[questionID] {
		return false, nil
	}
	set[questionID] = true
	s := f.stats[userID]
	switch difficulty {
	case question.DifficultyEasy:
		s.Easy++
	case question.DifficultyMedium:
		s.Medium++
	case question.DifficultyHard:
		s.Hard++
	}
	s.Total++
	f.stats[userID] = s
	return true, nil
}

func (f *fakeProgressStore) SolvedStats(_ context.Context, userID uuid.UUID) (progress.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats[userID], nil
}

// fakeResultStore applies credits through the shared progress store, the way
// the transactional repository does.
type fakeResultStore struct {
	progress *fakeProgressStore
	saved    []Result
}

func (f *fakeResultStore) SaveWithCredits(ctx context.Context, res Result, credits []progress.Credit) (uuid.UUID, error) {
	res.ID = uuid.New()
	for _, c := range credits {
		if _, err := f.progress.CreditSolve(ctx, res.UserID, c.QuestionID, c.Difficulty); err != nil {
			return uuid.Nil, err
		}
	}
	f.saved = append(f.saved, res)
	return res.ID, nil
}

func (f *fakeResultStore) ListRecentByUser(_ context.Context, userID uuid.UUID, limit int) ([]ResultSummary, error) {
	var out []ResultSummary
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if f.saved[i].UserID != userID {
			continue
		}
		out = append(out, ResultSummary{
			ID:         f.saved[i].ID,
			Score:      f.saved[i].Score,
			TotalMarks: f.saved[i].TotalMarks,
			Percentage: f.saved[i].Percentage,
		})
	}
	return out, nil
}

type memoryCache struct {
	list   []Summary
	starts map[uuid.UUID]StartResponse
}

func newMemoryCache() *memoryCache {
	return &memoryCache{starts: make(map[uuid.UUID]StartResponse)}
}

func (c *memoryCache) GetList(context.Context) ([]Summary, error) { return c.list, nil }
func (c *memoryCache) SetList(_ context.Context, tests []Summary) error {
	c.list = tests
	return nil
}
func (c *memoryCache) GetStart(_ context.Context, id uuid.UUID) (*StartResponse, error) {
	if resp, ok := c.starts[id]; ok {
		return &resp, nil
	}
	return nil, nil
}
func (c *memoryCache) SetStart(_ context.Context, id uuid.UUID, resp StartResponse) error {
	c.starts[id] = resp
	return nil
}

func testDefinition(questions ...question.Question) Definition {
	return Definition{
		ID:              uuid.New(),
		Title:           "TCS NQT Mock",
		Company:         "TCS",
		DurationMinutes: 30,
		TotalMarks:      len(questions),
		Difficulty:      question.DifficultyMedium,
		Questions:       questions,
	}
}

func TestStartSanitizesQuestions(t *testing.T) {
	def := testDefinition(makeQuestion(1, question.DifficultyEasy), makeQuestion(2, question.DifficultyHard))
	defs := &stubDefinitionStore{defs: map[uuid.UUID]Definition{def.ID: def}}
	svc := NewService(defs, &fakeResultStore{progress: newFakeProgressStore()}, nil, ServiceOptions{}, zerolog.Nop())

	resp, err := svc.Start(context.Background(), def.ID)
	assert.NoError(t, err)
	assert.Equal(t, def.Title, resp.Title)
	assert.Len(t, resp.Questions, 2)

	raw, err := json.Marshal(resp)
	assert.NoError(t, err)
	assert.NotContains(t, string(raw), "correctOptionIndex")
	assert.NotContains(t, string(raw), "solution")
}

func TestStartUnknownTest(t *testing.T) {
	defs := &stubDefinitionStore{defs: map[uuid.UUID]Definition{}}
	svc := NewService(defs, &fakeResultStore{progress: newFakeProgressStore()}, nil, ServiceOptions{}, zerolog.Nop())

	_, err := svc.Start(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTestNotFound)
}

func TestListUsesCache(t *testing.T) {
	def := testDefinition(makeQuestion(0, question.DifficultyEasy))
	defs := &stubDefinitionStore{defs: map[uuid.UUID]Definition{def.ID: def}}
	svc := NewService(defs, &fakeResultStore{progress: newFakeProgressStore()}, newMemoryCache(), ServiceOptions{}, zerolog.Nop())

	first, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, defs.calls)

	second, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, defs.calls, "second list must come from the cache")
}

func TestStartUsesCache(t *testing.T) {
	def := testDefinition(makeQuestion(0, question.DifficultyEasy))
	defs := &stubDefinitionStore{defs: map[uuid.UUID]Definition{def.ID: def}}
	svc := NewService(defs, &fakeResultStore{progress: newFakeProgressStore()}, newMemoryCache(), ServiceOptions{}, zerolog.Nop())

	_, err := svc.Start(context.Background(), def.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, defs.calls)

	_, err = svc.Start(context.Background(), def.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, defs.calls)
}

func TestSubmitPersistsResultAndCredits(t *testing.T) {
	q1 := makeQuestion(0, question.DifficultyEasy)
	q2 := makeQuestion(1, question.DifficultyHard)
	def := testDefinition(q1, q2)

	defs := &stubDefinitionStore{defs: map[uuid.UUID]Definition{def.ID: def}}
	store := newFakeProgressStore()
	results := &fakeResultStore{progress: store}
	svc := NewService(defs, results, nil, ServiceOptions{}, zerolog.Nop())

	userID := uuid.New()
	resp, err := svc.Submit(context.Background(), userID, def.ID, []SubmittedAnswer{
		{QuestionID: q1.ID, SelectedOption: 0},
		{QuestionID: q2.ID, SelectedOption: 3},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Score)
	assert.Equal(t, 2, resp.TotalMarks)
	assert.Equal(t, 50, resp.Percentage)
	assert.Equal(t, def.Title, resp.TestName)
	assert.NotEqual(t, uuid.Nil, resp.ResultID)

	assert.Len(t, results.saved, 1)
	assert.Equal(t, userID, results.saved[0].UserID)
	assert.Equal(t, def.ID, results.saved[0].TestID)

	stats, _ := store.SolvedStats(context.Background(), userID)
	assert.Equal(t, progress.Stats{Easy: 1, Total: 1}, stats, "only the correct answer credits")
}

func TestSubmitUnknownTest(t *testing.T) {
	defs := &stubDefinitionStore{defs: map[uuid.UUID]Definition{}}
	svc := NewService(defs, &fakeResultStore{progress: newFakeProgressStore()}, nil, ServiceOptions{}, zerolog.Nop())

	_, err := svc.Submit(context.Background(), uuid.New(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrTestNotFound)
}

func TestSubmitResubmissionDoesNotDoubleCredit(t *testing.T) {
	q := makeQuestion(2, question.DifficultyMedium)
	def := testDefinition(q)

	defs := &stubDefinitionStore{defs: map[uuid.UUID]Definition{def.ID: def}}
	store := newFakeProgressStore()
	svc := NewService(defs, &fakeResultStore{progress: store}, nil, ServiceOptions{}, zerolog.Nop())

	userID := uuid.New()
	answers := []SubmittedAnswer{{QuestionID: q.ID, SelectedOption: 2}}

	_, err := svc.Submit(context.Background(), userID, def.ID, answers)
	assert.NoError(t, err)
	_, err = svc.Submit(context.Background(), userID, def.ID, answers)
	assert.NoError(t, err)

	stats, _ := store.SolvedStats(context.Background(), userID)
	assert.Equal(t, 1, stats.Total, "resubmitting the same test must not inflate counters")
}

func TestRecentResultsHonorsLimit(t *testing.T) {
	q := makeQuestion(0, question.DifficultyEasy)
	def := testDefinition(q)

	defs := &stubDefinitionStore{defs: map[uuid.UUID]Definition{def.ID: def}}
	store := newFakeProgressStore()
	results := &fakeResultStore{progress: store}
	svc := NewService(defs, results, nil, ServiceOptions{RecentResultsLimit: 2}, zerolog.Nop())

	userID := uuid.New()
	for i := 0; i < 4; i++ {
		_, err := svc.Submit(context.Background(), userID, def.ID, nil)
		assert.NoError(t, err)
	}

	recent, err := svc.RecentResults(context.Background(), userID)
	assert.NoError(t, err)
	assert.Len(t, recent, 2)
}
