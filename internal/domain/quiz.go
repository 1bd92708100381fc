package domain

import "time"

// QuizStatus is the runner state.
type QuizStatus string

const (
	// StatusEmpty means the category had no questions; the quiz never starts.
	StatusEmpty      QuizStatus = "empty"
	StatusInProgress QuizStatus = "in_progress"
	StatusCompleted  QuizStatus = "completed"
)

// CompletionReason explains how a session reached StatusCompleted.
type CompletionReason string

const (
	ReasonFinished CompletionReason = "finished"
	ReasonTimeout  CompletionReason = "timeout"
)

// RecordState tracks the asynchronous attempt persistence after completion.
type RecordState string

const (
	RecordPending RecordState = "pending"
	RecordSaved   RecordState = "saved"
	RecordFailed  RecordState = "failed"
)

// QuestionView is a question as shown while the quiz is running (no answer key).
type QuestionView struct {
	ID      string   `json:"id"`
	Text    string   `json:"question"`
	Options []string `json:"options"`
}

// QuestionReview is shown per question once the quiz is scored.
type QuestionReview struct {
	Index         int    `json:"index"`
	Question      string `json:"question"`
	UserAnswer    int    `json:"userAnswer"`
	UserOption    string `json:"userOption,omitempty"`
	CorrectAnswer int    `json:"correctAnswer"`
	CorrectOption string `json:"correctOption"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation"`
}

// QuizResult is the frozen outcome of a completed session.
type QuizResult struct {
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	Percentage     int              `json:"percentage"`
	Verdict        string           `json:"verdict"`
	Correctness    []bool           `json:"correctness"`
	Answers        []int            `json:"answers"`
	TimeTaken      int              `json:"timeTaken"`
	Reason         CompletionReason `json:"reason"`
	CompletedAt    time.Time        `json:"completedAt"`
	Review         []QuestionReview `json:"review"`
}

// RecordStatus is the attempt persistence outcome exposed to the client.
type RecordStatus struct {
	State     RecordState `json:"state"`
	AttemptID string      `json:"attemptId,omitempty"`
	Warning   string      `json:"warning,omitempty"`
}

// QuizView is a snapshot of a session for rendering.
type QuizView struct {
	SessionID       string        `json:"sessionId,omitempty"`
	Category        Category      `json:"category"`
	Status          QuizStatus    `json:"status"`
	CurrentIndex    int           `json:"currentIndex"`
	TotalQuestions  int           `json:"totalQuestions"`
	Progress        int           `json:"progress"`
	Question        *QuestionView `json:"question,omitempty"`
	Pending         *int          `json:"pendingSelection,omitempty"`
	AnsweredCount   int           `json:"answeredCount"`
	IsLastQuestion  bool          `json:"isLastQuestion"`
	Timed           bool          `json:"timed"`
	TimeRemaining   int           `json:"timeRemaining"`
	TimeDisplay     string        `json:"timeDisplay,omitempty"`
	Result          *QuizResult   `json:"result,omitempty"`
	Record          *RecordStatus `json:"record,omitempty"`
	EmptyStateLabel string        `json:"emptyState,omitempty"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}
