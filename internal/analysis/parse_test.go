package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizcoach/internal/domain"
)

func TestParseAnalysisWellFormed(t *testing.T) {
	res, err := ParseAnalysis([]byte(wellFormed))
	require.NoError(t, err)

	assert.Equal(t, "Solid start.", res.OverallFeedback)
	require.Len(t, res.WeakAreas, 2)
	assert.Equal(t, domain.PriorityHigh, res.WeakAreas[0].Priority)
	assert.Equal(t, domain.PriorityLow, res.WeakAreas[1].Priority)
	require.Len(t, res.StudyRecommendations, 1)
	assert.Equal(t, []string{"Trace it on paper", "Count comparisons"}, res.StudyRecommendations[0].Tips)
	require.Len(t, res.StudyRecommendations[0].Resources, 2)
	assert.Equal(t, domain.ResourceDocumentation, res.StudyRecommendations[0].Resources[0].Type)
	assert.Equal(t, domain.ResourceVideo, res.StudyRecommendations[0].Resources[1].Type)
	assert.Equal(t, []string{"Review complexity classes", "Retake the quiz"}, res.NextSteps)
}

func TestParseAnalysisMissingArraysBecomeEmpty(t *testing.T) {
	res, err := ParseAnalysis([]byte(`{"overallFeedback":"Great work!"}`))
	require.NoError(t, err)

	assert.NotNil(t, res.NextSteps)
	assert.Empty(t, res.NextSteps)
	assert.NotNil(t, res.WeakAreas)
	assert.Empty(t, res.WeakAreas)
	assert.NotNil(t, res.StudyRecommendations)
	assert.Empty(t, res.StudyRecommendations)
}

func TestParseAnalysisNonJSON(t *testing.T) {
	_, err := ParseAnalysis([]byte("I'm sorry, I cannot analyze this quiz."))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
	assert.True(t, errors.Is(err, domain.ErrAnalysisUnavailable))

	var aErr *domain.AnalysisError
	require.True(t, errors.As(err, &aErr))
	assert.Equal(t, domain.AnalysisMalformed, aErr.Kind)
}

func TestParseAnalysisRequiresFeedback(t *testing.T) {
	for _, raw := range []string{`{"weakAreas":[]}`, `{"overallFeedback": 3}`, `[]`, ``} {
		_, err := ParseAnalysis([]byte(raw))
		assert.True(t, errors.Is(err, domain.ErrMalformedResponse), "input %q: %v", raw, err)
	}
}

func TestParseAnalysisStripsCodeFence(t *testing.T) {
	raw := "```json\n" + wellFormed + "\n```"
	res, err := ParseAnalysis([]byte(raw))
	require.NoError(t, err)
	assert.Len(t, res.WeakAreas, 2)

	res, err = ParseAnalysis([]byte("Here is the analysis:\n" + `{"overallFeedback":"ok"}` + "\nGood luck!"))
	require.NoError(t, err)
	assert.Equal(t, "ok", res.OverallFeedback)
}

func TestParseAnalysisToleratesPartialData(t *testing.T) {
	raw := `{
	  "overallFeedback": "Mixed results.",
	  "weakAreas": [
	    {"topic": "Recursion", "description": "Base cases", "priority": "critical"},
	    "not an object",
	    {"description": "no topic"}
	  ],
	  "studyRecommendations": {"topic": "should be an array"},
	  "nextSteps": ["Practice", 42, ""]
	}`
	res, err := ParseAnalysis([]byte(raw))
	require.NoError(t, err)

	require.Len(t, res.WeakAreas, 1)
	assert.Equal(t, domain.Priority("critical"), res.WeakAreas[0].Priority)
	assert.False(t, res.WeakAreas[0].Priority.Known())
	assert.Empty(t, res.StudyRecommendations)
	assert.Equal(t, []string{"Practice"}, res.NextSteps)
}

func TestParseAnalysisKeepsUnknownResourceType(t *testing.T) {
	raw := `{"overallFeedback":"ok","studyRecommendations":[{"topic":"Graphs","tips":"not a list","resources":[{"title":"Course","url":"https://example.com","type":"course"},{"type":"video"}]}]}`
	res, err := ParseAnalysis([]byte(raw))
	require.NoError(t, err)

	require.Len(t, res.StudyRecommendations, 1)
	rec := res.StudyRecommendations[0]
	assert.Empty(t, rec.Tips)
	require.Len(t, rec.Resources, 1)
	assert.Equal(t, domain.ResourceType("course"), rec.Resources[0].Type)
}
