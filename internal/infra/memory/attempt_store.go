package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"quizcoach/internal/domain"
)

// AttemptStore keeps attempts in process memory. It applies the same checks
// the database constraints enforce so both backends fail alike.
type AttemptStore struct {
	mu         sync.RWMutex
	categories map[string]struct{}
	attempts   []domain.Attempt
}

func NewAttemptStore(categories []domain.Category) *AttemptStore {
	known := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		known[c.ID] = struct{}{}
	}
	return &AttemptStore{categories: known}
}

func (s *AttemptStore) Record(ctx context.Context, attempt domain.Attempt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &domain.RecordError{Kind: domain.RecordConnectivity, Err: err}
	}
	if err := attempt.Validate(); err != nil {
		return "", &domain.RecordError{Kind: domain.RecordValidation, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[attempt.CategoryID]; !ok {
		return "", &domain.RecordError{
			Kind: domain.RecordValidation,
			Err:  fmt.Errorf("unknown category %q", attempt.CategoryID),
		}
	}

	attempt.ID = uuid.NewString()
	attempt.Answers = append([]int(nil), attempt.Answers...)
	s.attempts = append(s.attempts, attempt)
	return attempt.ID, nil
}

// ListByUser returns the user's attempts, newest first. limit <= 0 means all.
func (s *AttemptStore) ListByUser(_ context.Context, userID string, limit int) ([]domain.Attempt, error) {
	s.mu.RLock()
	out := make([]domain.Attempt, 0)
	for _, a := range s.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
