package question

import (
	"errors"

	"github.com/google/uuid"
)

// Topic categories for aptitude questions.
const (
	TopicQuants  = "Quants"
	TopicLogical = "Logical"
	TopicVerbal  = "Verbal"
)

// Difficulty levels.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// MixedPractice is the topic filter value that imposes no topic constraint.
const MixedPractice = "Mixed Practice"

// AnyDifficulty is the difficulty filter value that imposes no constraint.
const AnyDifficulty = "Any"

// OptionCount is the fixed number of answer options per question.
const OptionCount = 4

var (
	ErrNotFound          = errors.New("question not found")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

// Question is the full record including the answer key. Never serialized
// to clients during practice-set generation or test start.
type Question struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	Image              *string   `json:"image,omitempty"`
	Options            []string  `json:"options"`
	CorrectOptionIndex int       `json:"correctOptionIndex"`
	Solution           string    `json:"solution,omitempty"`
	Type               string    `json:"type"`
	Difficulty         string    `json:"difficulty"`
	Tags               []string  `json:"tags"`
}

// Sanitized is the answer-free projection served while a question is live.
type Sanitized struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Image      *string   `json:"image,omitempty"`
	Options    []string  `json:"options"`
	Type       string    `json:"type"`
	Difficulty string    `json:"difficulty"`
	Tags       []string  `json:"tags"`
}

// Sanitize strips the answer key and solution text.
func (q Question) Sanitize() Sanitized {
	return Sanitized{
		ID:         q.ID,
		Title:      q.Title,
		Image:      q.Image,
		Options:    q.Options,
		Type:       q.Type,
		Difficulty: q.Difficulty,
		Tags:       q.Tags,
	}
}

// Filter narrows the sampling population. Zero-valued fields impose no
// constraint.
type Filter struct {
	Type       string
	Difficulty string
	Tag        string
}

// IsValidDifficulty reports whether d is a known difficulty level.
func IsValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
