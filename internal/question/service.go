package question

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store provides access to the question pool.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (Question, error)
	// SampleRandom returns up to limit uniformly random questions matching
	// the filter, without duplicates within a single call.
	SampleRandom(ctx context.Context, filter Filter, limit int) ([]Question, error)
}

// BucketCounts is the requested number of questions per difficulty for a
// generated practice set. Zero-valued buckets are skipped.
type BucketCounts struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// Total sums all buckets.
func (c BucketCounts) Total() int {
	return c.Easy + c.Medium + c.Hard
}

// ServiceOptions tunes the sampler.
type ServiceOptions struct {
	// MaxSetSize caps the total size of a generated practice set.
	MaxSetSize int
	// Rand overrides the shuffle source; used by tests for determinism.
	Rand *rand.Rand
}

// Service samples questions from the store for practice flows.
type Service struct {
	store      Store
	maxSetSize int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a question sampler over the given store.
func NewService(store Store, opts ServiceOptions) *Service {
	if opts.MaxSetSize <= 0 {
		opts.MaxSetSize = 50
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		store:      store,
		maxSetSize: opts.MaxSetSize,
		rng:        rng,
	}
}

// GetRandom returns one random sanitized question matching the filter.
// Returns ErrNotFound when nothing matches.
func (s *Service) GetRandom(ctx context.Context, filter Filter) (Sanitized, error) {
	qs, err := s.store.SampleRandom(ctx, normalizeFilter(filter), 1)
	if err != nil {
		return Sanitized{}, fmt.Errorf("sample question: %w", err)
	}
	if len(qs) == 0 {
		return Sanitized{}, ErrNotFound
	}
	return qs[0].Sanitize(), nil
}

// GetByID returns the full question including the answer key. Intended for
// post-hoc review screens only.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Question, error) {
	return s.store.GetByID(ctx, id)
}

// GenerateSet builds a mixed-difficulty practice set: each difficulty bucket
// is sampled independently, the results are concatenated and then shuffled so
// difficulty is not inferable from position. Buckets short on supply return
// fewer questions rather than failing.
func (s *Service) GenerateSet(ctx context.Context, topic string, counts BucketCounts) ([]Sanitized, error) {
	if counts.Easy < 0 || counts.Medium < 0 || counts.Hard < 0 {
		return nil, fmt.Errorf("%w: negative bucket count", ErrInvalidDifficulty)
	}
	if counts.Total() > s.maxSetSize {
		return nil, fmt.Errorf("requested %d questions, limit is %d", counts.Total(), s.maxSetSize)
	}

	buckets := []struct {
		difficulty string
		count      int
	}{
		{DifficultyEasy, counts.Easy},
		{DifficultyMedium, counts.Medium},
		{DifficultyHard, counts.Hard},
	}

	var combined []Question
	for _, b := range buckets {
		if b.count == 0 {
			continue
		}
		filter := Filter{Difficulty: b.difficulty}
		if topic != "" && topic != MixedPractice {
			filter.Tag = topic
		}
		qs, err := s.store.SampleRandom(ctx, filter, b.count)
		if err != nil {
			return nil, fmt.Errorf("sample %s bucket: %w", b.difficulty, err)
		}
		combined = append(combined, qs...)
	}

	s.shuffle(combined)

	out := make([]Sanitized, len(combined))
	for i, q := range combined {
		out[i] = q.Sanitize()
	}
	return out, nil
}

func (s *Service) shuffle(qs []Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(qs), func(i, j int) {
		qs[i], qs[j] = qs[j], qs[i]
	})
}

// normalizeFilter maps the client-facing wildcard values to unconstrained
// fields.
func normalizeFilter(f Filter) Filter {
	if f.Type == MixedPractice {
		f.Type = ""
	}
	if f.Difficulty == AnyDifficulty {
		f.Difficulty = ""
	}
	return f
}
