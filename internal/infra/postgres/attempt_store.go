package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizcoach/internal/domain"
)

// AttemptStore persists completed attempts in quiz_attempts.
type AttemptStore struct {
	pool *pgxpool.Pool
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool}
}

func (s *AttemptStore) Record(ctx context.Context, attempt domain.Attempt) (string, error) {
	if err := attempt.Validate(); err != nil {
		return "", &domain.RecordError{Kind: domain.RecordValidation, Err: err}
	}
	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return "", &domain.RecordError{Kind: domain.RecordValidation, Err: err}
	}
	id := uuid.NewString()
	var stored string
	err = s.pool.QueryRow(ctx, `
		INSERT INTO quiz_attempts (id, user_id, category_id, score, total_questions, time_taken, answers, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8)
		RETURNING id::text`,
		id, attempt.UserID, attempt.CategoryID, attempt.Score, attempt.TotalQuestions,
		attempt.TimeTaken, string(answers), attempt.CompletedAt,
	).Scan(&stored)
	if err != nil {
		return "", &domain.RecordError{Kind: classify(err), Err: fmt.Errorf("insert attempt: %w", err)}
	}
	return stored, nil
}

func (s *AttemptStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Attempt, error) {
	query := `
		SELECT id::text, user_id, category_id, score, total_questions, time_taken, answers, completed_at
		FROM quiz_attempts
		WHERE user_id = $1
		ORDER BY completed_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	out := []domain.Attempt{}
	for rows.Next() {
		var (
			a   domain.Attempt
			raw []byte
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.CategoryID, &a.Score, &a.TotalQuestions, &a.TimeTaken, &raw, &a.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if err := json.Unmarshal(raw, &a.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers of %s: %w", a.ID, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return out, nil
}

// classify separates rows the database refused from failures to reach it.
// Class 22 (data exception) and 23 (integrity violation) mean the attempt
// itself is bad; anything else is treated as connectivity.
func classify(err error) domain.RecordErrorKind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case "22", "23":
			return domain.RecordValidation
		}
	}
	return domain.RecordConnectivity
}
