package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizcoach/internal/domain"
)

func TestRemoteAnalyzerHappyPath(t *testing.T) {
	var got domain.AnalysisRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(wellFormed))
	}))
	defer srv.Close()

	res, err := NewRemoteAnalyzer(srv.URL, time.Second).Analyze(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "Solid start.", res.OverallFeedback)
	assert.Equal(t, []int{1, 0, 1}, got.UserAnswers)
	assert.Equal(t, "Algorithms & Data Structures", got.CategoryName)
	assert.Equal(t, 3, got.TotalQuestions)
}

func TestRemoteAnalyzerUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"OpenAI API key not found"}`))
	}))
	defer srv.Close()

	_, err := NewRemoteAnalyzer(srv.URL, time.Second).Analyze(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAnalysisUnavailable))
	assert.Contains(t, err.Error(), "OpenAI API key not found")

	var aErr *domain.AnalysisError
	require.True(t, errors.As(err, &aErr))
	assert.Equal(t, domain.AnalysisUpstream, aErr.Kind)
}

func TestRemoteAnalyzerMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway</html>"))
	}))
	defer srv.Close()

	_, err := NewRemoteAnalyzer(srv.URL, time.Second).Analyze(context.Background(), sampleRequest())
	assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
}

func TestRemoteAnalyzerNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewRemoteAnalyzer(url, time.Second).Analyze(context.Background(), sampleRequest())
	var aErr *domain.AnalysisError
	require.True(t, errors.As(err, &aErr))
	assert.Equal(t, domain.AnalysisNetwork, aErr.Kind)
}
