package app

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"quizcoach/internal/domain"
	"quizcoach/internal/metrics"
	"quizcoach/internal/scoring"
)

const (
	defaultTickInterval  = time.Second
	defaultRecordTimeout = 10 * time.Second
	emptyStateLabel      = "No questions are available for this category yet."
)

// AttemptRecorder persists completed attempts.
type AttemptRecorder interface {
	Record(ctx context.Context, attempt domain.Attempt) (string, error)
}

// NopRecorder discards attempts (in-memory demo mode).
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, domain.Attempt) (string, error) { return "", nil }

// SessionConfig describes a quiz run for one user.
type SessionConfig struct {
	ID        string
	UserID    string
	Category  domain.Category
	Questions []domain.Question

	Timed     bool
	TimeLimit int // seconds

	TickInterval  time.Duration
	RecordTimeout time.Duration
	Recorder      AttemptRecorder
	Logger        *zap.Logger
	Clock         func() time.Time
}

// selection is the pending choice for the current question. It only becomes
// part of the committed answers on Advance.
type selection struct {
	option int
	set    bool
}

// Session is the quiz runner state machine for one user interaction flow.
type Session struct {
	id            string
	userID        string
	category      domain.Category
	questions     []domain.Question
	timed         bool
	tickInterval  time.Duration
	recordTimeout time.Duration
	recorder      AttemptRecorder
	logger        *zap.Logger
	now           func() time.Time

	mu            sync.Mutex
	status        domain.QuizStatus
	current       int
	answers       domain.Answers
	pending       selection
	timeRemaining int
	startedAt     time.Time
	result        *domain.QuizResult
	record        domain.RecordStatus
	timer         *countdown
	recorded      chan struct{}
	analysis      *domain.AnalysisResult
	closed        bool
	subscribers   map[chan domain.QuizView]struct{}
}

// NewSession creates a session and starts it. A session without questions
// stays in StatusEmpty; a timed session with no time left completes at once.
func NewSession(cfg SessionConfig) *Session {
	s := &Session{
		id:            cfg.ID,
		userID:        cfg.UserID,
		category:      cfg.Category,
		questions:     cfg.Questions,
		timed:         cfg.Timed,
		tickInterval:  cfg.TickInterval,
		recordTimeout: cfg.RecordTimeout,
		recorder:      cfg.Recorder,
		logger:        cfg.Logger,
		now:           cfg.Clock,
		answers:       make(domain.Answers),
		timeRemaining: max(cfg.TimeLimit, 0),
		recorded:      make(chan struct{}),
		subscribers:   make(map[chan domain.QuizView]struct{}),
	}
	if s.tickInterval <= 0 {
		s.tickInterval = defaultTickInterval
	}
	if s.recordTimeout <= 0 {
		s.recordTimeout = defaultRecordTimeout
	}
	if s.recorder == nil {
		s.recorder = NopRecorder{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.logger = s.logger.With(zap.String("session_id", s.id), zap.String("category_id", s.category.ID))

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.questions) == 0 {
		s.status = domain.StatusEmpty
		close(s.recorded)
		return s
	}

	s.status = domain.StatusInProgress
	s.startedAt = s.now()
	metrics.QuizStarted(s.category.ID)

	if s.timed {
		if s.timeRemaining == 0 {
			s.completeLocked(domain.ReasonTimeout)
			return s
		}
		s.timer = startCountdown(s.tickInterval, func() { _, _ = s.TimerTick() })
	}
	return s
}

func (s *Session) ID() string                { return s.id }
func (s *Session) UserID() string            { return s.userID }
func (s *Session) Category() domain.Category { return s.category }

// Status returns the current runner state.
func (s *Session) Status() domain.QuizStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SelectAnswer records optionIndex as the pending selection for the current question.
func (s *Session) SelectAnswer(optionIndex int) (domain.QuizView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return domain.QuizView{}, err
	}
	q := s.questions[s.current]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return domain.QuizView{}, fmt.Errorf("%w: option %d out of range [0,%d)", domain.ErrInvalidInput, optionIndex, len(q.Options))
	}
	s.pending = selection{option: optionIndex, set: true}
	return s.broadcastLocked(), nil
}

// Advance commits the pending selection and moves to the next question, or
// completes the quiz when called on the last one.
func (s *Session) Advance() (domain.QuizView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return domain.QuizView{}, err
	}
	if !s.pending.set {
		return domain.QuizView{}, fmt.Errorf("%w: no answer selected", domain.ErrInvalidState)
	}

	s.answers[s.current] = s.pending.option
	if s.current == len(s.questions)-1 {
		s.completeLocked(domain.ReasonFinished)
		return s.viewLocked(), nil
	}

	s.current++
	s.restorePendingLocked()
	return s.broadcastLocked(), nil
}

// Retreat moves back one question and restores its committed answer as the
// pending selection. Commits for the question being left are kept.
func (s *Session) Retreat() (domain.QuizView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return domain.QuizView{}, err
	}
	if s.current == 0 {
		return domain.QuizView{}, fmt.Errorf("%w: already at the first question", domain.ErrInvalidState)
	}

	s.current--
	s.restorePendingLocked()
	return s.broadcastLocked(), nil
}

// TimerTick decrements the remaining time and completes the quiz at zero.
func (s *Session) TimerTick() (domain.QuizView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return domain.QuizView{}, err
	}
	if !s.timed {
		return domain.QuizView{}, fmt.Errorf("%w: quiz is not timed", domain.ErrInvalidState)
	}

	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	if s.timeRemaining == 0 {
		s.completeLocked(domain.ReasonTimeout)
		return s.viewLocked(), nil
	}
	return s.broadcastLocked(), nil
}

// Expire handles a client-side "time expired" signal: same effect as the
// countdown reaching zero.
func (s *Session) Expire() (domain.QuizView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return domain.QuizView{}, err
	}
	if !s.timed {
		return domain.QuizView{}, fmt.Errorf("%w: quiz is not timed", domain.ErrInvalidState)
	}
	s.timeRemaining = 0
	s.completeLocked(domain.ReasonTimeout)
	return s.viewLocked(), nil
}

// View returns a snapshot for rendering.
func (s *Session) View() domain.QuizView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Result returns the frozen result once the session is completed.
func (s *Session) Result() (domain.QuizResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.QuizResult{}, false
	}
	return *s.result, true
}

// Recorded is closed once the attempt recorder has returned (or immediately
// for empty sessions). It stays open for abandoned in-progress sessions.
func (s *Session) Recorded() <-chan struct{} {
	return s.recorded
}

// RecordStatus returns the persistence outcome of the attempt.
func (s *Session) RecordStatus() domain.RecordStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

// AnalysisRequest builds the analysis payload for a completed session.
func (s *Session) AnalysisRequest() (domain.AnalysisRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != domain.StatusCompleted || s.result == nil {
		return domain.AnalysisRequest{}, fmt.Errorf("%w: quiz is not completed", domain.ErrInvalidState)
	}
	return domain.AnalysisRequest{
		Questions:      s.questions,
		UserAnswers:    append([]int(nil), s.result.Answers...),
		CategoryName:   s.category.Name,
		Score:          s.result.Score,
		TotalQuestions: s.result.TotalQuestions,
	}, nil
}

// Analysis returns the last analysis applied to this session.
func (s *Session) Analysis() (domain.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analysis == nil {
		return domain.AnalysisResult{}, false
	}
	return *s.analysis, true
}

func (s *Session) applyAnalysis(result domain.AnalysisResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.analysis = &result
	return true
}

// Close tears the session down: the countdown stops and subscribers are released.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.timer.stop()
	s.timer = nil
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

// busy reports whether a subscriber is attached or the countdown is running.
func (s *Session) busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && (len(s.subscribers) > 0 || s.timer != nil)
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) requireActiveLocked() error {
	if s.closed {
		return fmt.Errorf("%w: session closed", domain.ErrInvalidState)
	}
	switch s.status {
	case domain.StatusInProgress:
		return nil
	case domain.StatusEmpty:
		return fmt.Errorf("%w: quiz has no questions", domain.ErrInvalidState)
	default:
		return fmt.Errorf("%w: quiz already completed", domain.ErrInvalidState)
	}
}

func (s *Session) restorePendingLocked() {
	if v, ok := s.answers[s.current]; ok {
		s.pending = selection{option: v, set: true}
		return
	}
	s.pending = selection{}
}

// completeLocked freezes the session, scores it and hands the attempt to the
// recorder in the background. The countdown is stopped before anything else.
func (s *Session) completeLocked(reason domain.CompletionReason) {
	s.timer.stop()
	s.timer = nil

	s.pending = selection{}
	s.status = domain.StatusCompleted

	completedAt := s.now()
	elapsed := int(completedAt.Sub(s.startedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	total := len(s.questions)
	score, correctness := scoring.Score(s.questions, s.answers)
	answers := s.answers.Slice(total)
	pct := scoring.Percentage(score, total)

	review := make([]domain.QuestionReview, total)
	for i, q := range s.questions {
		review[i] = domain.QuestionReview{
			Index:         i,
			Question:      q.Text,
			UserAnswer:    answers[i],
			UserOption:    q.OptionText(answers[i]),
			CorrectAnswer: q.CorrectAnswer,
			CorrectOption: q.OptionText(q.CorrectAnswer),
			Correct:       correctness[i],
			Explanation:   q.Explanation,
		}
	}

	s.result = &domain.QuizResult{
		Score:          score,
		TotalQuestions: total,
		Percentage:     pct,
		Verdict:        scoring.Verdict(score, total),
		Correctness:    correctness,
		Answers:        answers,
		TimeTaken:      elapsed,
		Reason:         reason,
		CompletedAt:    completedAt,
		Review:         review,
	}
	s.record = domain.RecordStatus{State: domain.RecordPending}
	metrics.QuizCompleted(reason)

	s.logger.Info("quiz completed",
		zap.String("reason", string(reason)),
		zap.Int("score", score),
		zap.Int("total", total),
		zap.Int("time_taken", elapsed),
	)

	attempt := domain.Attempt{
		UserID:         s.userID,
		CategoryID:     s.category.ID,
		Score:          score,
		TotalQuestions: total,
		TimeTaken:      elapsed,
		Answers:        answers,
		CompletedAt:    completedAt,
	}
	go s.recordAttempt(attempt)

	s.broadcastLocked()
}

func (s *Session) recordAttempt(attempt domain.Attempt) {
	ctx, cancel := context.WithTimeout(context.Background(), s.recordTimeout)
	defer cancel()

	id, err := s.recorder.Record(ctx, attempt)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(s.recorded)

	if err != nil {
		s.logger.Warn("attempt not recorded", zap.Error(err))
		metrics.RecordFailed(err)
		s.record = domain.RecordStatus{
			State:   domain.RecordFailed,
			Warning: "Your score is shown but could not be saved to your history.",
		}
	} else {
		s.record = domain.RecordStatus{State: domain.RecordSaved, AttemptID: id}
	}
	s.broadcastLocked()
}

func (s *Session) viewLocked() domain.QuizView {
	total := len(s.questions)
	v := domain.QuizView{
		SessionID:      s.id,
		Category:       s.category,
		Status:         s.status,
		CurrentIndex:   s.current,
		TotalQuestions: total,
		AnsweredCount:  len(s.answers),
		Timed:          s.timed,
		TimeRemaining:  s.timeRemaining,
		UpdatedAt:      s.now(),
	}
	if s.timed {
		v.TimeDisplay = FormatClock(s.timeRemaining)
	}

	switch s.status {
	case domain.StatusEmpty:
		v.EmptyStateLabel = emptyStateLabel
	case domain.StatusInProgress:
		q := s.questions[s.current]
		v.Question = &domain.QuestionView{
			ID:      q.ID,
			Text:    q.Text,
			Options: append([]string(nil), q.Options...),
		}
		if s.pending.set {
			p := s.pending.option
			v.Pending = &p
		}
		v.IsLastQuestion = s.current == total-1
		v.Progress = int(math.Round(float64(s.current+1) / float64(total) * 100))
	case domain.StatusCompleted:
		result := *s.result
		record := s.record
		v.Result = &result
		v.Record = &record
		v.Progress = 100
	}
	return v
}

func (s *Session) subscribe() (<-chan domain.QuizView, func()) {
	ch := make(chan domain.QuizView, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	// The buffer is empty, so this never blocks while the lock is held.
	ch <- s.viewLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() domain.QuizView {
	v := s.viewLocked()
	for ch := range s.subscribers {
		select {
		case ch <- v:
		default:
			// Drop the oldest snapshot so a slow reader never blocks the runner.
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
	return v
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
