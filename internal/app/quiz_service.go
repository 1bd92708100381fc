package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quizcoach/internal/domain"
	"quizcoach/internal/metrics"
)

const defaultMaxQuestions = 10

// SessionRepository abstracts how running quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// sessionToucher is implemented by stores that keep an external liveness
// marker which must be refreshed while the session is in use.
type sessionToucher interface {
	Touch(sessionID string)
}

// QuestionProvider loads categories and their question sets (from cache/backing store).
type QuestionProvider interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	FetchCategory(ctx context.Context, categoryID string) (domain.Category, error)
	FetchQuestions(ctx context.Context, categoryID string) ([]domain.Question, error)
}

// AttemptStore records completed attempts and lists them back, newest first.
// A limit <= 0 returns every attempt.
type AttemptStore interface {
	AttemptRecorder
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Attempt, error)
}

// Analyzer turns a completed attempt into study recommendations.
type Analyzer interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error)
}

// Options tunes the quiz service. Zero values fall back to defaults, except TimeLimit.
type Options struct {
	MaxQuestions  int
	TimeLimit     int // seconds, timed mode only; 0 completes a timed quiz at once
	TickInterval  time.Duration
	RecordTimeout time.Duration
	// SessionTTL evicts a session once it has been idle that long. Zero keeps
	// sessions until they are abandoned.
	SessionTTL time.Duration
	Clock         func() time.Time
	Logger        *zap.Logger
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	sessions  SessionRepository
	questions QuestionProvider
	attempts  AttemptStore
	analyzer  Analyzer
	opts      Options
	logger    *zap.Logger

	idleMu sync.Mutex
	idle   map[string]*time.Timer
}

// NewQuizService wires the quiz use cases. attempts and analyzer may be nil:
// attempts are then discarded and analysis always reports unavailable.
func NewQuizService(sessions SessionRepository, questions QuestionProvider, attempts AttemptStore, analyzer Analyzer, opts Options) *QuizService {
	if opts.MaxQuestions <= 0 {
		opts.MaxQuestions = defaultMaxQuestions
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &QuizService{
		sessions:  sessions,
		questions: questions,
		attempts:  attempts,
		analyzer:  analyzer,
		opts:      opts,
		logger:    opts.Logger,
		idle:      make(map[string]*time.Timer),
	}
}

// Categories lists the quiz catalogue.
func (s *QuizService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.questions.ListCategories(ctx)
}

// StartQuiz starts a new session for userID. A category without questions
// returns an empty-state view and no session is registered.
func (s *QuizService) StartQuiz(ctx context.Context, userID, categoryID string, timed bool) (domain.QuizView, error) {
	if userID == "" {
		return domain.QuizView{}, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	category, err := s.questions.FetchCategory(ctx, categoryID)
	if err != nil {
		return domain.QuizView{}, err
	}

	questions, err := s.questions.FetchQuestions(ctx, categoryID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.QuizView{}, err
	}
	if len(questions) > s.opts.MaxQuestions {
		questions = questions[:s.opts.MaxQuestions]
	}

	session := NewSession(SessionConfig{
		ID:            uuid.NewString(),
		UserID:        userID,
		Category:      category,
		Questions:     questions,
		Timed:         timed,
		TimeLimit:     s.opts.TimeLimit,
		TickInterval:  s.opts.TickInterval,
		RecordTimeout: s.opts.RecordTimeout,
		Recorder:      s.recorder(),
		Logger:        s.logger,
		Clock:         s.opts.Clock,
	})
	if session.Status() == domain.StatusEmpty {
		view := session.View()
		view.SessionID = ""
		return view, nil
	}

	s.sessions.Put(session)
	s.touch(session)
	s.logger.Info("quiz started",
		zap.String("session_id", session.ID()),
		zap.String("user_id", userID),
		zap.String("category_id", categoryID),
		zap.Int("questions", len(questions)),
		zap.Bool("timed", timed),
	)
	return session.View(), nil
}

// Session returns a registered session.
func (s *QuizService) Session(sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s.touch(session)
	return session, nil
}

// View returns the current snapshot of a session.
func (s *QuizService) View(_ context.Context, sessionID string) (domain.QuizView, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return domain.QuizView{}, err
	}
	return session.View(), nil
}

// SelectAnswer sets the pending selection for the current question.
func (s *QuizService) SelectAnswer(_ context.Context, sessionID string, optionIndex int) (domain.QuizView, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return domain.QuizView{}, err
	}
	return session.SelectAnswer(optionIndex)
}

// Next commits the pending selection and advances (or finishes).
func (s *QuizService) Next(_ context.Context, sessionID string) (domain.QuizView, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return domain.QuizView{}, err
	}
	return session.Advance()
}

// Previous goes back one question.
func (s *QuizService) Previous(_ context.Context, sessionID string) (domain.QuizView, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return domain.QuizView{}, err
	}
	return session.Retreat()
}

// Expire completes a timed session because the client clock ran out.
func (s *QuizService) Expire(_ context.Context, sessionID string) (domain.QuizView, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return domain.QuizView{}, err
	}
	return session.Expire()
}

// Subscribe returns a channel that receives view updates for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan domain.QuizView, func(), error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Abandon unregisters a session and stops its timer. An in-progress quiz is
// dropped without recording; in-flight analysis for it is discarded.
func (s *QuizService) Abandon(_ context.Context, sessionID string) {
	s.forgetIdle(sessionID)
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	s.sessions.Delete(sessionID)
	session.Close()
}

// touch rearms the idle eviction timer of session.
func (s *QuizService) touch(session *Session) {
	if s.opts.SessionTTL <= 0 {
		return
	}
	id := session.ID()
	s.idleMu.Lock()
	if t, ok := s.idle[id]; ok {
		t.Reset(s.opts.SessionTTL)
	} else {
		s.idle[id] = time.AfterFunc(s.opts.SessionTTL, func() { s.evictIdle(session) })
	}
	s.idleMu.Unlock()

	if t, ok := s.sessions.(sessionToucher); ok {
		t.Touch(id)
	}
}

func (s *QuizService) forgetIdle(sessionID string) {
	s.idleMu.Lock()
	defer s.idleMu.Unlock()
	if t, ok := s.idle[sessionID]; ok {
		t.Stop()
		delete(s.idle, sessionID)
	}
}

// evictIdle abandons session unless a client is still attached to it or its
// countdown is running, in which case the timer is rearmed.
func (s *QuizService) evictIdle(session *Session) {
	id := session.ID()
	if current, ok := s.sessions.Get(id); !ok || current != session {
		s.forgetIdle(id)
		return
	}
	if session.busy() {
		s.touch(session)
		return
	}
	s.logger.Info("idle session evicted",
		zap.String("session_id", id),
		zap.String("status", string(session.Status())),
	)
	s.Abandon(context.Background(), id)
}

// Analyze requests study recommendations for a completed session. The result
// is applied only if ctx is still live and the same session is still
// registered under sessionID; otherwise it is discarded.
func (s *QuizService) Analyze(ctx context.Context, sessionID string) (domain.AnalysisResult, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	req, err := session.AnalysisRequest()
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	result, err := s.AnalyzeAttempt(ctx, req)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	if err := ctx.Err(); err != nil {
		s.logger.Debug("analysis discarded", zap.String("session_id", sessionID), zap.Error(err))
		return domain.AnalysisResult{}, err
	}
	if current, ok := s.sessions.Get(sessionID); !ok || current != session || !session.applyAnalysis(result) {
		s.logger.Debug("analysis discarded", zap.String("session_id", sessionID), zap.String("reason", "session replaced"))
		return domain.AnalysisResult{}, domain.ErrSessionNotFound
	}
	return result, nil
}

// AnalyzeAttempt runs the analysis pipeline for an arbitrary payload. Every
// failure matches domain.ErrAnalysisUnavailable.
func (s *QuizService) AnalyzeAttempt(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	if s.analyzer == nil {
		return domain.AnalysisResult{}, &domain.AnalysisError{Kind: domain.AnalysisUpstream, Err: errors.New("no analyzer configured")}
	}

	start := time.Now()
	result, err := s.analyzer.Analyze(ctx, req)
	metrics.ObserveAnalysis(err, time.Since(start))
	if err != nil {
		s.logger.Warn("analysis failed", zap.String("category", req.CategoryName), zap.Error(err))
		if !errors.Is(err, domain.ErrAnalysisUnavailable) {
			err = &domain.AnalysisError{Kind: domain.AnalysisUpstream, Err: err}
		}
		return domain.AnalysisResult{}, err
	}
	return result, nil
}

func (s *QuizService) recorder() AttemptRecorder {
	if s.attempts == nil {
		return NopRecorder{}
	}
	return s.attempts
}
