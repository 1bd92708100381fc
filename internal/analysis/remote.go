package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"quizcoach/internal/domain"
)

const maxReplyBytes = 1 << 20

// RemoteAnalyzer calls an analyze-quiz endpoint over HTTP.
type RemoteAnalyzer struct {
	url    string
	client *http.Client
}

func NewRemoteAnalyzer(url string, timeout time.Duration) *RemoteAnalyzer {
	return &RemoteAnalyzer{url: url, client: &http.Client{Timeout: timeout}}
}

func (r *RemoteAnalyzer) Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return domain.AnalysisResult{}, &domain.AnalysisError{Kind: domain.AnalysisUpstream, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return domain.AnalysisResult{}, &domain.AnalysisError{Kind: domain.AnalysisUpstream, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return domain.AnalysisResult{}, &domain.AnalysisError{Kind: domain.AnalysisNetwork, Err: err}
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return domain.AnalysisResult{}, &domain.AnalysisError{Kind: domain.AnalysisNetwork, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(reply, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return domain.AnalysisResult{}, &domain.AnalysisError{
			Kind: domain.AnalysisUpstream,
			Err:  fmt.Errorf("status %d: %s", resp.StatusCode, msg),
		}
	}
	return ParseAnalysis(reply)
}
