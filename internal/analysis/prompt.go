// Package analysis turns a completed attempt into study recommendations:
// it builds the tutor prompt, validates the untrusted reply and prepares it
// for display.
package analysis

import (
	"fmt"
	"strings"

	"quizcoach/internal/domain"
	"quizcoach/internal/scoring"
)

const (
	SystemPrompt = "You are an expert Computer Science tutor. Always respond with valid JSON only."
	Temperature  = 0.7
	MaxTokens    = 2000

	notAnswered = "Not answered"
)

// IncorrectAnswer is one missed question as presented to the tutor.
type IncorrectAnswer struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
	UserAnswer    string `json:"userAnswer"`
	Explanation   string `json:"explanation"`
}

// Prompt is the request payload for the reasoning service.
type Prompt struct {
	System     string
	User       string
	Incorrect  []IncorrectAnswer
	Percentage int
}

// ValidateRequest rejects payloads that cannot describe a finished quiz.
// Each answer is either domain.Unanswered or an option index of its question.
func ValidateRequest(req domain.AnalysisRequest) error {
	switch {
	case len(req.Questions) == 0:
		return fmt.Errorf("%w: questions are required", domain.ErrInvalidInput)
	case req.TotalQuestions <= 0:
		return fmt.Errorf("%w: totalQuestions must be positive", domain.ErrInvalidInput)
	case req.Score < 0 || req.Score > req.TotalQuestions:
		return fmt.Errorf("%w: score %d outside [0,%d]", domain.ErrInvalidInput, req.Score, req.TotalQuestions)
	case len(req.UserAnswers) > len(req.Questions):
		return fmt.Errorf("%w: more answers than questions", domain.ErrInvalidInput)
	}
	for i, a := range req.UserAnswers {
		if a != domain.Unanswered && (a < 0 || a >= len(req.Questions[i].Options)) {
			return fmt.Errorf("%w: answer %d for question %d outside [0,%d)", domain.ErrInvalidInput, a, i, len(req.Questions[i].Options))
		}
	}
	return nil
}

// BuildPrompt lists every incorrect or unanswered question and asks for the
// AnalysisResult JSON shape. A perfect score still yields a prompt.
func BuildPrompt(req domain.AnalysisRequest) Prompt {
	answers := domain.AnswersFromSlice(req.UserAnswers)
	_, correctness := scoring.Score(req.Questions, answers)

	incorrect := make([]IncorrectAnswer, 0, len(req.Questions))
	for i, q := range req.Questions {
		if correctness[i] {
			continue
		}
		user := notAnswered
		if a, ok := answers.Get(i); ok && q.OptionText(a) != "" {
			user = q.OptionText(a)
		}
		incorrect = append(incorrect, IncorrectAnswer{
			Question:      q.Text,
			CorrectAnswer: q.OptionText(q.CorrectAnswer),
			UserAnswer:    user,
			Explanation:   q.Explanation,
		})
	}

	pct := scoring.Percentage(req.Score, req.TotalQuestions)

	var b strings.Builder
	b.WriteString("You are an expert Computer Science tutor analyzing a student's quiz performance.\n\n")
	fmt.Fprintf(&b, "Quiz Category: %s\n", req.CategoryName)
	fmt.Fprintf(&b, "Score: %d/%d (%d%%)\n\n", req.Score, req.TotalQuestions, pct)
	b.WriteString("Incorrect Answers Analysis:\n")
	if len(incorrect) == 0 {
		b.WriteString("None. Every question was answered correctly.\n")
	}
	for i, item := range incorrect {
		fmt.Fprintf(&b, "\n%d. Question: %s\n", i+1, item.Question)
		fmt.Fprintf(&b, "   Correct Answer: %s\n", item.CorrectAnswer)
		fmt.Fprintf(&b, "   Student's Answer: %s\n", item.UserAnswer)
		fmt.Fprintf(&b, "   Explanation: %s\n", item.Explanation)
	}
	b.WriteString(responseInstructions)

	return Prompt{
		System:     SystemPrompt,
		User:       b.String(),
		Incorrect:  incorrect,
		Percentage: pct,
	}
}

const responseInstructions = `
Based on this performance, provide a JSON response with the following structure:
{
  "weakAreas": [
    {
      "topic": "specific topic name",
      "description": "brief explanation of why this is weak",
      "priority": "high|medium|low"
    }
  ],
  "studyRecommendations": [
    {
      "topic": "topic name",
      "tips": ["tip1", "tip2", "tip3"],
      "resources": [
        {
          "title": "resource title",
          "url": "https://example.com",
          "type": "tutorial|video|documentation|article"
        }
      ]
    }
  ],
  "overallFeedback": "encouraging feedback with specific improvement suggestions",
  "nextSteps": ["actionable step 1", "actionable step 2"]
}

Focus on:
1. Identifying specific CS concepts the student struggles with
2. Providing practical, actionable study tips
3. Recommending high-quality, free learning resources (MDN, YouTube channels like Traversy Media, freeCodeCamp, official documentation)
4. Being encouraging but honest about areas needing improvement
5. Keeping recommendations focused and not overwhelming

Provide ONLY the JSON response, no additional text.
`
