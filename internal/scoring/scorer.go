// Package scoring computes quiz scores. Everything here is pure.
package scoring

import (
	"math"

	"quizcoach/internal/domain"
)

// Score returns the number of correct answers and per-question correctness.
// Missing answers never match.
func Score(questions []domain.Question, answers domain.Answers) (int, []bool) {
	correctness := make([]bool, len(questions))
	score := 0
	for i, q := range questions {
		if got, ok := answers[i]; ok && got == q.CorrectAnswer {
			correctness[i] = true
			score++
		}
	}
	return score, correctness
}

// Percentage returns round(score/total*100), or 0 for an empty quiz.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// Verdict is the headline shown with a final score. Thresholds apply to the
// exact ratio, so 79.5% is still "Good job!".
func Verdict(score, total int) string {
	switch {
	case total <= 0:
		return "Keep practicing!"
	case score*100 >= 80*total:
		return "Excellent!"
	case score*100 >= 60*total:
		return "Good job!"
	default:
		return "Keep practicing!"
	}
}
