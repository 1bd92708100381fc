package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quizcoach/internal/analysis"
	"quizcoach/internal/app"
	"quizcoach/internal/domain"
)

// Handler exposes the quiz use cases as JSON endpoints.
type Handler struct {
	service *app.QuizService
	logger  *zap.Logger
}

func NewHandler(service *app.QuizService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

type startRequest struct {
	CategoryID string `json:"categoryId" binding:"required"`
	UserID     string `json:"userId" binding:"required"`
	Timed      bool   `json:"timed"`
}

type selectRequest struct {
	OptionIndex *int `json:"optionIndex" binding:"required"`
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) startQuiz(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.service.StartQuiz(c.Request.Context(), req.UserID, req.CategoryID, req.Timed)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusCreated
	if view.SessionID == "" {
		status = http.StatusOK
	}
	c.JSON(status, view)
}

func (h *Handler) getQuiz(c *gin.Context) {
	h.respond(c, func(ctx context.Context, id string) (domain.QuizView, error) {
		return h.service.View(ctx, id)
	})
}

func (h *Handler) selectAnswer(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, func(ctx context.Context, id string) (domain.QuizView, error) {
		return h.service.SelectAnswer(ctx, id, *req.OptionIndex)
	})
}

func (h *Handler) next(c *gin.Context)     { h.respond(c, h.service.Next) }
func (h *Handler) previous(c *gin.Context) { h.respond(c, h.service.Previous) }
func (h *Handler) expire(c *gin.Context)   { h.respond(c, h.service.Expire) }

func (h *Handler) abandon(c *gin.Context) {
	h.service.Abandon(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *Handler) analyzeSession(c *gin.Context) {
	result, err := h.service.Analyze(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis.Present(result))
}

// analyzeQuiz is the analysis service wire endpoint: raw result JSON on
// success, {"error": ...} otherwise.
func (h *Handler) analyzeQuiz(c *gin.Context) {
	var req domain.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := analysis.ValidateRequest(req); err != nil {
		writeError(c, err)
		return
	}
	result, err := h.service.AnalyzeAttempt(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) dashboard(c *gin.Context) {
	dashboard, err := h.service.Dashboard(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *Handler) history(c *gin.Context) {
	history, err := h.service.History(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": history})
}

func (h *Handler) respond(c *gin.Context, action func(context.Context, string) (domain.QuizView, error)) {
	view, err := action(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func writeError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAnalysisUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
