package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizcoach/internal/domain"
	"quizcoach/internal/seed"
)

func TestQuestionRepositoryCaches(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewStaticQuestionLoader(seed.Categories(), seed.Questions())}
	repo := NewQuestionRepository(loader, time.Minute, 10, nil)

	for i := 0; i < 2; i++ {
		questions, err := repo.FetchQuestions(context.Background(), "algorithms")
		if err != nil {
			t.Fatalf("fetch questions: %v", err)
		}
		if len(questions) != 3 {
			t.Fatalf("expected 3 questions, got %d", len(questions))
		}
	}
	if loader.questionCalls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.questionCalls)
	}
}

func TestQuestionRepositoryExpires(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewStaticQuestionLoader(seed.Categories(), seed.Questions())}
	repo := NewQuestionRepository(loader, time.Minute, 10, nil)
	now := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	if _, err := repo.FetchQuestions(context.Background(), "algorithms"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := repo.FetchQuestions(context.Background(), "algorithms"); err != nil {
		t.Fatalf("fetch after expiry: %v", err)
	}
	if loader.questionCalls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.questionCalls)
	}
}

func TestQuestionRepositoryLimitsAndDropsInvalid(t *testing.T) {
	questions := map[string][]domain.Question{
		"algorithms": {
			{ID: "bad", Text: "Broken", Options: []string{"only one"}, CorrectAnswer: 0},
			{ID: "a", Text: "A", Options: []string{"x", "y"}, CorrectAnswer: 1},
			{ID: "b", Text: "B", Options: []string{"x", "y"}, CorrectAnswer: 5},
		},
	}
	repo := NewQuestionRepository(NewStaticQuestionLoader(seed.Categories(), questions), time.Minute, 2, nil)

	got, err := repo.FetchQuestions(context.Background(), "algorithms")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected only question a, got %+v", got)
	}
}

func TestQuestionRepositoryEmptyCategory(t *testing.T) {
	repo := NewQuestionRepository(NewStaticQuestionLoader(seed.Categories(), seed.Questions()), time.Minute, 10, nil)

	if _, err := repo.FetchQuestions(context.Background(), "networking"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for empty category, got %v", err)
	}
	category, err := repo.FetchCategory(context.Background(), "networking")
	if err != nil {
		t.Fatalf("fetch category: %v", err)
	}
	if category.Name != "Networking" {
		t.Fatalf("unexpected category %+v", category)
	}
	if _, err := repo.FetchCategory(context.Background(), "astrology"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown category, got %v", err)
	}
}

type countingLoader struct {
	QuestionLoader
	questionCalls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, categoryID string, limit int) ([]domain.Question, error) {
	l.questionCalls++
	return l.QuestionLoader.LoadQuestions(ctx, categoryID, limit)
}

func sampleQuestions() []domain.Question {
	return seed.Questions()["algorithms"]
}
