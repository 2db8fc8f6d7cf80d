package exam

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/aptisure/aptisure-api/internal/question"
)

func makeQuestion(correct int, difficulty string) question.Question {
	return question.Question{
		ID:                 uuid.New(),
		Title:              "q",
		Options:            []string{"a", "b", "c", "d"},
		CorrectOptionIndex: correct,
		Difficulty:         difficulty,
	}
}

func TestScoreSubmission(t *testing.T) {
	q1 := makeQuestion(0, question.DifficultyEasy)
	q2 := makeQuestion(2, question.DifficultyMedium)
	def := Definition{
		Title:      "Sample Test",
		TotalMarks: 2,
		Questions:  []question.Question{q1, q2},
	}

	out := ScoreSubmission(def, []SubmittedAnswer{
		{QuestionID: q1.ID, SelectedOption: 0},
		{QuestionID: q2.ID, SelectedOption: 1},
	})

	assert.Equal(t, 1, out.Score)
	assert.Equal(t, 50, out.Percentage)
	assert.Equal(t, []BreakdownEntry{
		{QuestionID: q1.ID, SelectedOption: 0, IsCorrect: true},
		{QuestionID: q2.ID, SelectedOption: 1, IsCorrect: false},
	}, out.Breakdown)
	assert.Len(t, out.Credits, 1)
	assert.Equal(t, q1.ID, out.Credits[0].QuestionID)
	assert.Equal(t, question.DifficultyEasy, out.Credits[0].Difficulty)
}

func TestScoreSubmissionZeroTotalMarks(t *testing.T) {
	q := makeQuestion(1, question.DifficultyEasy)
	def := Definition{TotalMarks: 0, Questions: []question.Question{q}}

	out := ScoreSubmission(def, []SubmittedAnswer{{QuestionID: q.ID, SelectedOption: 1}})

	assert.Equal(t, 1, out.Score)
	assert.Equal(t, 0, out.Percentage, "zero total marks must not divide by zero")
}

func TestScoreSubmissionUnknownQuestionMarkedIncorrect(t *testing.T) {
	q := makeQuestion(3, question.DifficultyHard)
	def := Definition{TotalMarks: 2, Questions: []question.Question{q}}

	stale := uuid.New()
	out := ScoreSubmission(def, []SubmittedAnswer{
		{QuestionID: stale, SelectedOption: 0},
		{QuestionID: q.ID, SelectedOption: 3},
	})

	// The stale reference degrades to incorrect; the rest still scores.
	assert.Equal(t, 1, out.Score)
	assert.Len(t, out.Breakdown, 2)
	assert.False(t, out.Breakdown[0].IsCorrect)
	assert.True(t, out.Breakdown[1].IsCorrect)
	assert.Len(t, out.Credits, 1)
}

func TestScoreSubmissionUnansweredNotInBreakdown(t *testing.T) {
	q1 := makeQuestion(0, question.DifficultyEasy)
	q2 := makeQuestion(0, question.DifficultyEasy)
	def := Definition{TotalMarks: 2, Questions: []question.Question{q1, q2}}

	out := ScoreSubmission(def, []SubmittedAnswer{{QuestionID: q1.ID, SelectedOption: 0}})

	assert.Equal(t, 1, out.Score)
	assert.Equal(t, 50, out.Percentage)
	assert.Len(t, out.Breakdown, 1, "breakdown mirrors submitted answers only")
}

func TestScoreSubmissionPreservesSubmissionOrder(t *testing.T) {
	qs := make([]question.Question, 5)
	answers := make([]SubmittedAnswer, 5)
	for i := range qs {
		qs[i] = makeQuestion(0, question.DifficultyMedium)
	}
	// Submit in reverse definition order.
	for i := range answers {
		answers[i] = SubmittedAnswer{QuestionID: qs[len(qs)-1-i].ID, SelectedOption: 0}
	}
	def := Definition{TotalMarks: 5, Questions: qs}

	out := ScoreSubmission(def, answers)

	for i, entry := range out.Breakdown {
		assert.Equal(t, answers[i].QuestionID, entry.QuestionID)
	}
}

func TestScoreSubmissionEmptyAnswers(t *testing.T) {
	q := makeQuestion(0, question.DifficultyEasy)
	def := Definition{TotalMarks: 1, Questions: []question.Question{q}}

	out := ScoreSubmission(def, nil)

	assert.Equal(t, 0, out.Score)
	assert.Equal(t, 0, out.Percentage)
	assert.Empty(t, out.Breakdown)
	assert.Empty(t, out.Credits)
}

func TestScoreSubmissionDuplicateAnswersFirstWins(t *testing.T) {
	q := makeQuestion(2, question.DifficultyMedium)
	def := Definition{TotalMarks: 1, Questions: []question.Question{q}}

	out := ScoreSubmission(def, []SubmittedAnswer{
		{QuestionID: q.ID, SelectedOption: 0},
		{QuestionID: q.ID, SelectedOption: 2},
	})

	assert.Equal(t, 0, out.Score, "the correct duplicate must not override the first answer")
	assert.Len(t, out.Breakdown, 1)
	assert.Empty(t, out.Credits)
}

func TestPercentageRounding(t *testing.T) {
	assert.Equal(t, 33, percentage(1, 3))
	assert.Equal(t, 67, percentage(2, 3))
	assert.Equal(t, 100, percentage(3, 3))
	assert.Equal(t, 0, percentage(0, 3))
}
