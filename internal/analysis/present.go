package analysis

import (
	"fmt"
	"io"
	"strings"

	"quizcoach/internal/domain"
)

// Tones and icons are display tokens; the client maps them to colours and glyphs.
const (
	ToneDanger  = "danger"
	ToneWarning = "warning"
	ToneSuccess = "success"
	ToneNeutral = "neutral"

	IconPlay  = "play"
	IconFile  = "file-text"
	IconBook  = "book-open"
	IconGlobe = "globe"
)

type Presentation struct {
	Feedback           string               `json:"overallFeedback"`
	WeakAreas          []WeakAreaView       `json:"weakAreas"`
	Recommendations    []RecommendationView `json:"studyRecommendations"`
	NextSteps          []NextStepView       `json:"nextSteps"`
	HasWeakAreas       bool                 `json:"hasWeakAreas"`
	HasRecommendations bool                 `json:"hasRecommendations"`
	HasNextSteps       bool                 `json:"hasNextSteps"`
}

type WeakAreaView struct {
	Topic       string `json:"topic"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Label       string `json:"label"`
	Tone        string `json:"tone"`
	Recognized  bool   `json:"recognized"`
}

type RecommendationView struct {
	Topic     string         `json:"topic"`
	Tips      []string       `json:"tips"`
	Resources []ResourceView `json:"resources"`
}

type ResourceView struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Type       string `json:"type"`
	Icon       string `json:"icon"`
	Recognized bool   `json:"recognized"`
}

type NextStepView struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Present maps an AnalysisResult to display tokens. Unrecognized priorities
// and resource types get the neutral tone and the globe icon.
func Present(result domain.AnalysisResult) Presentation {
	p := Presentation{
		Feedback:        result.OverallFeedback,
		WeakAreas:       make([]WeakAreaView, 0, len(result.WeakAreas)),
		Recommendations: make([]RecommendationView, 0, len(result.StudyRecommendations)),
		NextSteps:       make([]NextStepView, 0, len(result.NextSteps)),
	}

	for _, w := range result.WeakAreas {
		priority := domain.Priority(strings.ToLower(string(w.Priority)))
		p.WeakAreas = append(p.WeakAreas, WeakAreaView{
			Topic:       w.Topic,
			Description: w.Description,
			Priority:    string(w.Priority),
			Label:       strings.ToUpper(string(w.Priority)),
			Tone:        priorityTone(priority),
			Recognized:  priority.Known(),
		})
	}

	for _, r := range result.StudyRecommendations {
		view := RecommendationView{
			Topic:     r.Topic,
			Tips:      append([]string{}, r.Tips...),
			Resources: make([]ResourceView, 0, len(r.Resources)),
		}
		for _, res := range r.Resources {
			kind := domain.ResourceType(strings.ToLower(string(res.Type)))
			view.Resources = append(view.Resources, ResourceView{
				Title:      res.Title,
				URL:        res.URL,
				Type:       string(res.Type),
				Icon:       resourceIcon(kind),
				Recognized: kind.Known(),
			})
		}
		p.Recommendations = append(p.Recommendations, view)
	}

	for i, step := range result.NextSteps {
		p.NextSteps = append(p.NextSteps, NextStepView{Number: i + 1, Text: step})
	}

	p.HasWeakAreas = len(p.WeakAreas) > 0
	p.HasRecommendations = len(p.Recommendations) > 0
	p.HasNextSteps = len(p.NextSteps) > 0
	return p
}

func priorityTone(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return ToneDanger
	case domain.PriorityMedium:
		return ToneWarning
	case domain.PriorityLow:
		return ToneSuccess
	default:
		return ToneNeutral
	}
}

// Articles share the generic globe icon.
func resourceIcon(t domain.ResourceType) string {
	switch t {
	case domain.ResourceVideo:
		return IconPlay
	case domain.ResourceDocumentation:
		return IconFile
	case domain.ResourceTutorial:
		return IconBook
	default:
		return IconGlobe
	}
}

// RenderText writes the presentation as plain text.
func RenderText(w io.Writer, p Presentation) error {
	var b strings.Builder

	b.WriteString("Overall Feedback\n")
	b.WriteString(p.Feedback)
	b.WriteString("\n")

	if p.HasWeakAreas {
		b.WriteString("\nAreas for Improvement\n")
		for _, wa := range p.WeakAreas {
			label := wa.Label
			if label == "" {
				label = "UNRATED"
			}
			fmt.Fprintf(&b, "  [%s] %s\n", label, wa.Topic)
			if wa.Description != "" {
				fmt.Fprintf(&b, "      %s\n", wa.Description)
			}
		}
	}

	if p.HasRecommendations {
		b.WriteString("\nStudy Recommendations\n")
		for _, rec := range p.Recommendations {
			fmt.Fprintf(&b, "  %s\n", rec.Topic)
			for _, tip := range rec.Tips {
				fmt.Fprintf(&b, "    - %s\n", tip)
			}
			for _, res := range rec.Resources {
				kind := res.Type
				if kind == "" {
					kind = "link"
				}
				fmt.Fprintf(&b, "    > %s (%s) %s\n", res.Title, kind, res.URL)
			}
		}
	}

	if p.HasNextSteps {
		b.WriteString("\nNext Steps\n")
		for _, step := range p.NextSteps {
			fmt.Fprintf(&b, "  %d. %s\n", step.Number, step.Text)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
