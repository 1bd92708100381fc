package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizcoach/internal/domain"
)

func TestBuildPromptListsIncorrectAnswers(t *testing.T) {
	p := BuildPrompt(domain.AnalysisRequest{
		Questions:      sampleQuestions(),
		UserAnswers:    []int{1, 0, 1},
		CategoryName:   "Algorithms & Data Structures",
		Score:          2,
		TotalQuestions: 3,
	})

	require.Len(t, p.Incorrect, 1)
	assert.Equal(t, IncorrectAnswer{
		Question:      "Binary search complexity?",
		CorrectAnswer: "O(log n)",
		UserAnswer:    "O(n^2)",
		Explanation:   "The search space halves each step.",
	}, p.Incorrect[0])
	assert.Equal(t, 67, p.Percentage)
	assert.Equal(t, SystemPrompt, p.System)
	assert.Contains(t, p.User, "Quiz Category: Algorithms & Data Structures")
	assert.Contains(t, p.User, "Score: 2/3 (67%)")
	assert.Contains(t, p.User, "Student's Answer: O(n^2)")
	assert.Contains(t, p.User, "(MDN, YouTube channels like Traversy Media, freeCodeCamp, official documentation)")
	for _, field := range []string{`"weakAreas"`, `"studyRecommendations"`, `"overallFeedback"`, `"nextSteps"`, "high|medium|low", "tutorial|video|documentation|article"} {
		assert.Contains(t, p.User, field)
	}
}

func TestBuildPromptUnansweredSentinel(t *testing.T) {
	p := BuildPrompt(domain.AnalysisRequest{
		Questions:      sampleQuestions(),
		UserAnswers:    []int{1, domain.Unanswered},
		CategoryName:   "Mixed",
		Score:          1,
		TotalQuestions: 3,
	})

	require.Len(t, p.Incorrect, 2)
	assert.Equal(t, "Not answered", p.Incorrect[0].UserAnswer)
	assert.Equal(t, "Not answered", p.Incorrect[1].UserAnswer)
}

func TestBuildPromptPerfectScoreStillPrompts(t *testing.T) {
	p := BuildPrompt(domain.AnalysisRequest{
		Questions:      sampleQuestions(),
		UserAnswers:    []int{1, 0, 2},
		CategoryName:   "Mixed",
		Score:          3,
		TotalQuestions: 3,
	})

	assert.Empty(t, p.Incorrect)
	assert.Equal(t, 100, p.Percentage)
	assert.Contains(t, p.User, "Provide ONLY the JSON response")
}

func TestValidateRequest(t *testing.T) {
	ok := domain.AnalysisRequest{Questions: sampleQuestions(), UserAnswers: []int{0}, Score: 1, TotalQuestions: 3}
	require.NoError(t, ValidateRequest(ok))
	ok.UserAnswers = []int{domain.Unanswered, 2, 0}
	require.NoError(t, ValidateRequest(ok))

	bad := []domain.AnalysisRequest{
		{},
		{Questions: sampleQuestions(), TotalQuestions: 0},
		{Questions: sampleQuestions(), TotalQuestions: 3, Score: 4},
		{Questions: sampleQuestions(), TotalQuestions: 3, UserAnswers: []int{0, 0, 0, 0}},
		{Questions: sampleQuestions(), TotalQuestions: 3, UserAnswers: []int{9}},
		{Questions: sampleQuestions(), TotalQuestions: 3, UserAnswers: []int{0, -5}},
		{Questions: sampleQuestions(), TotalQuestions: 3, UserAnswers: []int{0, 0, 3}},
	}
	for _, req := range bad {
		err := ValidateRequest(req)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "expected invalid input for %+v, got %v", req, err)
	}
}

func TestBuildPromptOutOfRangeAnswerReadsNotAnswered(t *testing.T) {
	p := BuildPrompt(domain.AnalysisRequest{
		Questions:      sampleQuestions(),
		UserAnswers:    []int{9, 0, -5},
		CategoryName:   "Mixed",
		Score:          1,
		TotalQuestions: 3,
	})

	require.Len(t, p.Incorrect, 2)
	assert.Equal(t, "Not answered", p.Incorrect[0].UserAnswer)
	assert.Equal(t, "Not answered", p.Incorrect[1].UserAnswer)
	assert.NotContains(t, p.User, "Student's Answer: \n")
}
