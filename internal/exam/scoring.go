package exam

import (
	"math"

	"github.com/google/uuid"

	"github.com/aptisure/aptisure-api/internal/progress"
	"github.com/aptisure/aptisure-api/internal/question"
)

// Outcome is the computed result of scoring one submission.
type Outcome struct {
	Score      int
	Percentage int
	Breakdown  []BreakdownEntry
	// Credits lists one progress-tracker credit per correct answer.
	Credits []progress.Credit
}

// ScoreSubmission grades submitted answers against the definition's answer
// keys. An answer referencing a question outside the test is marked incorrect
// in place; it never aborts scoring of the remaining entries. Questions left
// unanswered count as incorrect implicitly and do not appear in the
// breakdown. Duplicate answers for the same question keep the first
// occurrence only.
func ScoreSubmission(def Definition, answers []SubmittedAnswer) Outcome {
	byID := make(map[uuid.UUID]question.Question, len(def.Questions))
	for _, q := range def.Questions {
		byID[q.ID] = q
	}

	out := Outcome{
		Breakdown: make([]BreakdownEntry, 0, len(answers)),
	}
	seen := make(map[uuid.UUID]bool, len(answers))
	for _, ans := range answers {
		if seen[ans.QuestionID] {
			continue
		}
		seen[ans.QuestionID] = true

		q, ok := byID[ans.QuestionID]
		isCorrect := ok && ans.SelectedOption == q.CorrectOptionIndex

		out.Breakdown = append(out.Breakdown, BreakdownEntry{
			QuestionID:     ans.QuestionID,
			SelectedOption: ans.SelectedOption,
			IsCorrect:      isCorrect,
		})
		if isCorrect {
			out.Score++
			out.Credits = append(out.Credits, progress.Credit{
				QuestionID: q.ID,
				Difficulty: q.Difficulty,
			})
		}
	}

	out.Percentage = percentage(out.Score, def.TotalMarks)
	return out
}

// percentage rounds score/totalMarks to the nearest whole percent. A zero
// totalMarks yields 0 rather than dividing by zero.
func percentage(score, totalMarks int) int {
	if totalMarks == 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(totalMarks) * 100))
}
