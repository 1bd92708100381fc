package analysis

import "quizcoach/internal/domain"

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q1", Text: "What does CPU stand for?", Options: []string{"Central Process Unit", "Central Processing Unit", "Computer Personal Unit"}, CorrectAnswer: 1, Explanation: "CPU stands for Central Processing Unit."},
		{ID: "q2", Text: "Which structure is LIFO?", Options: []string{"Stack", "Queue", "Tree"}, CorrectAnswer: 0, Explanation: "A stack is last in, first out."},
		{ID: "q3", Text: "Binary search complexity?", Options: []string{"O(n)", "O(n^2)", "O(log n)"}, CorrectAnswer: 2, Explanation: "The search space halves each step."},
	}
}

const wellFormed = `{
  "weakAreas": [
    {"topic": "Search algorithms", "description": "Confused linear and logarithmic time", "priority": "high"},
    {"topic": "Hardware", "description": "Minor terminology slip", "priority": "low"}
  ],
  "studyRecommendations": [
    {
      "topic": "Binary search",
      "tips": ["Trace it on paper", "Count comparisons"],
      "resources": [
        {"title": "MDN", "url": "https://developer.mozilla.org", "type": "documentation"},
        {"title": "Big-O in 10 minutes", "url": "https://example.com/video", "type": "video"}
      ]
    }
  ],
  "overallFeedback": "Solid start.",
  "nextSteps": ["Review complexity classes", "Retake the quiz"]
}`
