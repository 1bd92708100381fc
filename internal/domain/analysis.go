package domain

// Priority ranks a weak area. Values outside the known set are kept verbatim.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Known reports whether p is one of the enumerated priorities.
func (p Priority) Known() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ResourceType classifies a study resource. Values outside the known set are kept verbatim.
type ResourceType string

const (
	ResourceTutorial      ResourceType = "tutorial"
	ResourceVideo         ResourceType = "video"
	ResourceDocumentation ResourceType = "documentation"
	ResourceArticle       ResourceType = "article"
)

// Known reports whether t is one of the enumerated resource types.
func (t ResourceType) Known() bool {
	switch t {
	case ResourceTutorial, ResourceVideo, ResourceDocumentation, ResourceArticle:
		return true
	}
	return false
}

type WeakArea struct {
	Topic       string   `json:"topic"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

type Resource struct {
	Title string       `json:"title"`
	URL   string       `json:"url"`
	Type  ResourceType `json:"type"`
}

type StudyRecommendation struct {
	Topic     string     `json:"topic"`
	Tips      []string   `json:"tips"`
	Resources []Resource `json:"resources"`
}

// AnalysisResult is the structured recommendation derived from one completed attempt.
// It is display-only and never persisted.
type AnalysisResult struct {
	WeakAreas            []WeakArea            `json:"weakAreas"`
	StudyRecommendations []StudyRecommendation `json:"studyRecommendations"`
	OverallFeedback      string                `json:"overallFeedback"`
	NextSteps            []string              `json:"nextSteps"`
}

// AnalysisRequest is the wire payload sent to the analysis service.
type AnalysisRequest struct {
	Questions      []Question `json:"questions"`
	UserAnswers    []int      `json:"userAnswers"`
	CategoryName   string     `json:"categoryName"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"totalQuestions"`
}
