package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"quizcoach/internal/domain"
)

// QuestionLoader fetches categories and question sets from a backing store.
type QuestionLoader interface {
	LoadCategories(ctx context.Context) ([]domain.Category, error)
	LoadQuestions(ctx context.Context, categoryID string, limit int) ([]domain.Question, error)
}

// QuestionRepository caches the catalogue and question sets in Redis as JSON
// and falls back to a loader on cache miss. Keys:
//
//	quiz:categories            JSON []Category
//	quiz:questions:{category}  JSON []Question (already validated and bounded)
//
// Redis errors degrade to a loader call; they never fail a read.
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	limit  int
	logger *zap.Logger
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration, limit int, logger *zap.Logger) *QuestionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		limit:  limit,
		logger: logger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.cached(ctx, r.categoriesKey(), &categories, func() (any, error) {
		return r.loader.LoadCategories(ctx)
	})
	return categories, err
}

func (r *QuestionRepository) FetchCategory(ctx context.Context, categoryID string) (domain.Category, error) {
	categories, err := r.ListCategories(ctx)
	if err != nil {
		return domain.Category{}, err
	}
	for _, c := range categories {
		if c.ID == categoryID {
			return c, nil
		}
	}
	return domain.Category{}, fmt.Errorf("%w: category %q", domain.ErrNotFound, categoryID)
}

func (r *QuestionRepository) FetchQuestions(ctx context.Context, categoryID string) ([]domain.Question, error) {
	var questions []domain.Question
	err := r.cached(ctx, r.questionsKey(categoryID), &questions, func() (any, error) {
		loaded, err := r.loader.LoadQuestions(ctx, categoryID, r.limit)
		if err != nil {
			return nil, err
		}
		valid, invalid := domain.SplitValid(loaded)
		for _, q := range invalid {
			r.logger.Warn("dropping malformed question", zap.String("category_id", categoryID), zap.String("question_id", q.ID))
		}
		return valid, nil
	})
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions for category %q", domain.ErrNotFound, categoryID)
	}
	return questions, nil
}

// cached decodes key into dst, filling it from load on a miss.
func (r *QuestionRepository) cached(ctx context.Context, key string, dst any, load func() (any, error)) error {
	if r.read(ctx, key, dst) {
		return nil
	}

	raw, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if data, err := r.client.Get(ctx, key).Bytes(); err == nil {
			return data, nil
		}

		value, err := load()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		if err := r.client.Set(ctx, key, data, r.ttlWithJitter()).Err(); err != nil {
			r.logger.Warn("question cache write failed", zap.String("key", key), zap.Error(err))
		}
		return data, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw.([]byte), dst)
}

func (r *QuestionRepository) read(ctx context.Context, key string, dst any) bool {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("question cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.logger.Warn("discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (r *QuestionRepository) categoriesKey() string {
	return "quiz:categories"
}

func (r *QuestionRepository) questionsKey(categoryID string) string {
	return "quiz:questions:" + categoryID
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
