package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"quizcoach/internal/domain"
)

type categoryRow struct {
	bun.BaseModel `bun:"table:quiz_categories"`

	ID          string `bun:"id,pk"`
	Name        string `bun:"name,notnull"`
	Description string `bun:"description,notnull"`
	Color       string `bun:"color,notnull"`
	Position    int    `bun:"position,notnull"`
}

type questionRow struct {
	bun.BaseModel `bun:"table:quiz_questions"`

	ID            string    `bun:"id,pk"`
	CategoryID    string    `bun:"category_id,notnull"`
	Question      string    `bun:"question,notnull"`
	Options       []string  `bun:"options,type:jsonb,notnull"`
	CorrectAnswer int       `bun:"correct_answer,notnull"`
	Explanation   string    `bun:"explanation,notnull"`
	Difficulty    string    `bun:"difficulty,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
}

// Seeder loads the built-in catalogue into an empty database.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

func NewSeeder(db *bun.DB, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{db: db, logger: logger}
}

// Seed upserts categories every time and inserts questions only when the
// question table is empty, so edits made in the database survive restarts.
// It returns the number of questions inserted.
func (s *Seeder) Seed(ctx context.Context, categories []domain.Category, questions map[string][]domain.Question) (int, error) {
	inserted := 0
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		cats := make([]categoryRow, 0, len(categories))
		for i, c := range categories {
			cats = append(cats, categoryRow{ID: c.ID, Name: c.Name, Description: c.Description, Color: c.Color, Position: i})
		}
		if len(cats) > 0 {
			_, err := tx.NewInsert().
				Model(&cats).
				On("CONFLICT (id) DO UPDATE").
				Set("name = EXCLUDED.name").
				Set("description = EXCLUDED.description").
				Set("color = EXCLUDED.color").
				Set("position = EXCLUDED.position").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("upsert categories: %w", err)
			}
		}

		exists, err := tx.NewSelect().Model((*questionRow)(nil)).Limit(1).Exists(ctx)
		if err != nil {
			return fmt.Errorf("check questions: %w", err)
		}
		if exists {
			s.logger.Info("questions already present, skipping question seed")
			return nil
		}

		// created_at drives question order, so stagger it to keep seed order.
		base := time.Now().UTC()
		var rows []questionRow
		for _, c := range categories {
			for _, q := range questions[c.ID] {
				if !q.Valid() {
					s.logger.Warn("skipping invalid seed question", zap.String("question_id", q.ID))
					continue
				}
				rows = append(rows, questionRow{
					ID:            q.ID,
					CategoryID:    c.ID,
					Question:      q.Text,
					Options:       q.Options,
					CorrectAnswer: q.CorrectAnswer,
					Explanation:   q.Explanation,
					Difficulty:    difficultyOrDefault(q.Difficulty),
					CreatedAt:     base.Add(time.Duration(len(rows)) * time.Millisecond),
				})
			}
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
		inserted = len(rows)
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("seed complete", zap.Int("categories", len(categories)), zap.Int("questions", inserted))
	return inserted, nil
}

func difficultyOrDefault(d string) string {
	if d == "" {
		return "medium"
	}
	return d
}
