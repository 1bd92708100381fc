package analysis

import (
	"bytes"
	"strings"

	"quizcoach/internal/domain"
	"quizcoach/internal/llm"
)

// envelope is the only structure a reply must satisfy. Everything below it
// is decoded leniently.
var envelope = llm.Schema{
	Name: "quiz-analysis-envelope",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"overallFeedback"},
		"properties": map[string]any{
			"overallFeedback": map[string]any{"type": "string"},
		},
	},
}

// ParseAnalysis decodes an untrusted reply into an AnalysisResult.
//
// The reply may be wrapped in a markdown code fence or surrounded by prose.
// It fails with a malformed_response AnalysisError when no JSON object can be
// found or overallFeedback is missing. Absent or ill-typed arrays become
// empty, malformed elements are skipped, and out-of-enum priority and type
// values are kept verbatim.
func ParseAnalysis(raw []byte) (domain.AnalysisResult, error) {
	parsed, err := llm.ValidateJSON(envelope, extractObject(raw))
	if err != nil {
		return domain.AnalysisResult{}, &domain.AnalysisError{Kind: domain.AnalysisMalformed, Err: err}
	}
	obj := parsed.(map[string]any)

	return domain.AnalysisResult{
		OverallFeedback:      strings.TrimSpace(str(obj["overallFeedback"])),
		WeakAreas:            weakAreas(obj["weakAreas"]),
		StudyRecommendations: recommendations(obj["studyRecommendations"]),
		NextSteps:            strs(obj["nextSteps"]),
	}, nil
}

func extractObject(raw []byte) []byte {
	body := bytes.TrimSpace(raw)
	if bytes.HasPrefix(body, []byte("```")) {
		if nl := bytes.IndexByte(body, '\n'); nl >= 0 {
			body = body[nl+1:]
		}
		body = bytes.TrimSuffix(bytes.TrimSpace(body), []byte("```"))
		body = bytes.TrimSpace(body)
	}
	if len(body) > 0 && body[0] == '{' {
		return body
	}
	start := bytes.IndexByte(body, '{')
	end := bytes.LastIndexByte(body, '}')
	if start >= 0 && end > start {
		return body[start : end+1]
	}
	return body
}

func weakAreas(v any) []domain.WeakArea {
	out := []domain.WeakArea{}
	for _, item := range list(v) {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		topic := strings.TrimSpace(str(m["topic"]))
		if topic == "" {
			continue
		}
		out = append(out, domain.WeakArea{
			Topic:       topic,
			Description: str(m["description"]),
			Priority:    domain.Priority(strings.TrimSpace(str(m["priority"]))),
		})
	}
	return out
}

func recommendations(v any) []domain.StudyRecommendation {
	out := []domain.StudyRecommendation{}
	for _, item := range list(v) {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		topic := strings.TrimSpace(str(m["topic"]))
		if topic == "" {
			continue
		}
		out = append(out, domain.StudyRecommendation{
			Topic:     topic,
			Tips:      strs(m["tips"]),
			Resources: resources(m["resources"]),
		})
	}
	return out
}

func resources(v any) []domain.Resource {
	out := []domain.Resource{}
	for _, item := range list(v) {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		r := domain.Resource{
			Title: strings.TrimSpace(str(m["title"])),
			URL:   strings.TrimSpace(str(m["url"])),
			Type:  domain.ResourceType(strings.TrimSpace(str(m["type"]))),
		}
		if r.Title == "" && r.URL == "" {
			continue
		}
		if r.Title == "" {
			r.Title = r.URL
		}
		out = append(out, r)
	}
	return out
}

func list(v any) []any {
	items, _ := v.([]any)
	return items
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strs(v any) []string {
	out := []string{}
	for _, item := range list(v) {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
