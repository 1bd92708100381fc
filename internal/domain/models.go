package domain

import (
	"errors"
	"fmt"
	"time"
)

// Unanswered marks a question with no committed answer in ordered answer slices.
const Unanswered = -1

// Category groups questions by topic.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID            string   `json:"id"`
	CategoryID    string   `json:"category_id,omitempty"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty,omitempty"`
}

// Valid reports whether the question has at least two options and a correct
// index that points into them.
func (q Question) Valid() bool {
	return len(q.Options) >= 2 && q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options)
}

// OptionText returns the option at idx, or "" when idx is out of range.
func (q Question) OptionText(idx int) string {
	if idx < 0 || idx >= len(q.Options) {
		return ""
	}
	return q.Options[idx]
}

// SplitValid separates questions that can be asked from malformed ones,
// keeping order.
func SplitValid(questions []Question) (valid, invalid []Question) {
	valid = make([]Question, 0, len(questions))
	for _, q := range questions {
		if q.Valid() {
			valid = append(valid, q)
		} else {
			invalid = append(invalid, q)
		}
	}
	return valid, invalid
}

// Answers maps a question index to the committed option index.
// Indices are present only once answered.
type Answers map[int]int

// Get returns the committed option for question i.
func (a Answers) Get(i int) (int, bool) {
	v, ok := a[i]
	return v, ok
}

// Slice aligns answers to question order, using Unanswered for gaps.
func (a Answers) Slice(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = Unanswered
		if v, ok := a[i]; ok {
			out[i] = v
		}
	}
	return out
}

// Clone returns an independent copy.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// AnswersFromSlice is the inverse of Answers.Slice; negative entries are skipped.
func AnswersFromSlice(in []int) Answers {
	out := make(Answers, len(in))
	for i, v := range in {
		if v >= 0 {
			out[i] = v
		}
	}
	return out
}

// Attempt is the persisted record of one completed quiz session.
type Attempt struct {
	ID             string    `json:"id,omitempty"`
	UserID         string    `json:"userId"`
	CategoryID     string    `json:"categoryId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	TimeTaken      int       `json:"timeTaken"` // seconds
	Answers        []int     `json:"answers"`
	CompletedAt    time.Time `json:"completedAt"`
}

// Validate checks the invariants every stored attempt must hold.
func (a Attempt) Validate() error {
	switch {
	case a.UserID == "":
		return errors.New("user id is required")
	case a.CategoryID == "":
		return errors.New("category id is required")
	case a.TotalQuestions <= 0:
		return fmt.Errorf("total questions must be positive, got %d", a.TotalQuestions)
	case a.Score < 0 || a.Score > a.TotalQuestions:
		return fmt.Errorf("score %d outside [0,%d]", a.Score, a.TotalQuestions)
	case a.TimeTaken < 0:
		return fmt.Errorf("negative time taken %d", a.TimeTaken)
	case len(a.Answers) != a.TotalQuestions:
		return fmt.Errorf("expected %d answers, got %d", a.TotalQuestions, len(a.Answers))
	}
	return nil
}

// AttemptSummary is an attempt joined with its category for dashboard/history views.
type AttemptSummary struct {
	Attempt
	CategoryName  string `json:"categoryName"`
	CategoryColor string `json:"categoryColor"`
	Percentage    int    `json:"percentage"`
}

// UserStats aggregates all attempts of a user.
type UserStats struct {
	TotalAttempts  int     `json:"totalAttempts"`
	AverageScore   float64 `json:"averageScore"` // percent, one decimal
	TotalQuestions int     `json:"totalQuestions"`
}

// Dashboard is the landing view for a signed-in user.
type Dashboard struct {
	UserID         string           `json:"userId"`
	Stats          UserStats        `json:"stats"`
	RecentAttempts []AttemptSummary `json:"recentAttempts"`
}
