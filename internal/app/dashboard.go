package app

import (
	"context"
	"math"

	"quizcoach/internal/domain"
	"quizcoach/internal/scoring"
)

const recentAttempts = 5

// Dashboard returns the user's stats and most recent attempts.
func (s *QuizService) Dashboard(ctx context.Context, userID string) (domain.Dashboard, error) {
	history, err := s.History(ctx, userID)
	if err != nil {
		return domain.Dashboard{}, err
	}
	return BuildDashboard(userID, history), nil
}

// History lists every attempt of the user, newest first, joined with its category.
func (s *QuizService) History(ctx context.Context, userID string) ([]domain.AttemptSummary, error) {
	if s.attempts == nil {
		return []domain.AttemptSummary{}, nil
	}
	attempts, err := s.attempts.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	categories, err := s.questions.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(attempts, categories), nil
}

// Summarize joins attempts with their category name and colour.
func Summarize(attempts []domain.Attempt, categories []domain.Category) []domain.AttemptSummary {
	byID := make(map[string]domain.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	out := make([]domain.AttemptSummary, 0, len(attempts))
	for _, a := range attempts {
		c := byID[a.CategoryID]
		out = append(out, domain.AttemptSummary{
			Attempt:       a,
			CategoryName:  c.Name,
			CategoryColor: c.Color,
			Percentage:    scoring.Percentage(a.Score, a.TotalQuestions),
		})
	}
	return out
}

// BuildDashboard computes stats over history (newest first) and keeps the five latest attempts.
// AverageScore is Σscore/Σquestions as a percentage with one decimal.
func BuildDashboard(userID string, history []domain.AttemptSummary) domain.Dashboard {
	stats := domain.UserStats{TotalAttempts: len(history)}
	correct := 0
	for _, a := range history {
		stats.TotalQuestions += a.TotalQuestions
		correct += a.Score
	}
	// Pooled over every question answered, not a mean of per-attempt percentages.
	if stats.TotalQuestions > 0 {
		stats.AverageScore = math.Round(float64(correct)/float64(stats.TotalQuestions)*1000) / 10
	}

	recent := history
	if len(recent) > recentAttempts {
		recent = recent[:recentAttempts]
	}
	return domain.Dashboard{
		UserID:         userID,
		Stats:          stats,
		RecentAttempts: append([]domain.AttemptSummary{}, recent...),
	}
}
