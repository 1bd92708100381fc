package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"quizcoach/internal/domain"
)

const categoriesKey = "\x00categories"

// QuestionLoader fetches categories and question sets from a backing store.
// LoadQuestions returns at most limit questions in a stable order; an
// unknown or empty category yields an empty slice.
type QuestionLoader interface {
	LoadCategories(ctx context.Context) ([]domain.Category, error)
	LoadQuestions(ctx context.Context, categoryID string, limit int) ([]domain.Question, error)
}

// QuestionRepository caches categories and question sets with TTL to avoid
// repeated DB hits. It implements app.QuestionProvider.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	limit  int
	logger *zap.Logger
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.Mutex
	rnd   *rand.Rand
	cache map[string]cached
}

type cached struct {
	categories []domain.Category
	questions  []domain.Question
	expiresAt  time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration, limit int, logger *zap.Logger) *QuestionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		limit:  limit,
		logger: logger,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cached),
	}
}

func (r *QuestionRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	entry, err := r.load(ctx, categoriesKey, func() (cached, error) {
		categories, err := r.loader.LoadCategories(ctx)
		return cached{categories: categories}, err
	})
	if err != nil {
		return nil, err
	}
	return entry.categories, nil
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

// FetchQuestions returns the ordered, bounded question set of a category.
// Malformed questions are dropped. An empty set is domain.ErrNotFound.
func (r *QuestionRepository) FetchQuestions(ctx context.Context, categoryID string) ([]domain.Question, error) {
	entry, err := r.load(ctx, categoryID, func() (cached, error) {
		questions, err := r.loader.LoadQuestions(ctx, categoryID, r.limit)
		if err != nil {
			return cached{}, err
		}
		valid, invalid := domain.SplitValid(questions)
		for _, q := range invalid {
			r.logger.Warn("dropping malformed question", zap.String("category_id", categoryID), zap.String("question_id", q.ID))
		}
		return cached{questions: valid}, nil
	})
	if err != nil {
		return nil, err
	}
	if len(entry.questions) == 0 {
		return nil, fmt.Errorf("%w: no questions for category %q", domain.ErrNotFound, categoryID)
	}
	return entry.questions, nil
}

func (r *QuestionRepository) load(ctx context.Context, key string, fill func() (cached, error)) (cached, error) {
	if entry, ok := r.lookup(key); ok {
		return entry, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		if entry, ok := r.lookup(key); ok {
			return entry, nil
		}
		entry, err := fill()
		if err != nil {
			return cached{}, err
		}

		r.mu.Lock()
		entry.expiresAt = r.clock().Add(r.ttlWithJitterLocked())
		r.cache[key] = entry
		r.mu.Unlock()
		return entry, nil
	})
	if err != nil {
		return cached{}, err
	}
	return result.(cached), nil
}

func (r *QuestionRepository) lookup(key string) (cached, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.cache[key]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return cached{}, false
	}
	return entry, true
}

func (r *QuestionRepository) ttlWithJitterLocked() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader serves a fixed in-memory catalogue (demo mode and tests).
type StaticQuestionLoader struct {
	categories []domain.Category
	questions  map[string][]domain.Question
}

func NewStaticQuestionLoader(categories []domain.Category, questions map[string][]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{categories: categories, questions: questions}
}

func (l *StaticQuestionLoader) LoadCategories(context.Context) ([]domain.Category, error) {
	return append([]domain.Category(nil), l.categories...), nil
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, categoryID string, limit int) ([]domain.Question, error) {
	questions := l.questions[categoryID]
	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	return append([]domain.Question(nil), questions...), nil
}
