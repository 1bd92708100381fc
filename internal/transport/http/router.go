// Package http exposes the quiz service over REST (gin) and websockets (gorilla).
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quizcoach/internal/app"
	"quizcoach/internal/metrics"
)

// RouterConfig tunes the HTTP surface.
type RouterConfig struct {
	// AnalysisRateLimit is the number of analysis calls per client per minute.
	AnalysisRateLimit int
	Logger            *zap.Logger
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(service *app.QuizService, cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger), metrics.MetricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", metrics.PrometheusHandler())

	h := NewHandler(service, logger)
	limited := RateLimiter(cfg.AnalysisRateLimit, time.Minute)

	api := r.Group("/api")
	api.GET("/categories", h.listCategories)
	api.POST("/quizzes", h.startQuiz)
	api.GET("/quizzes/:id", h.getQuiz)
	api.POST("/quizzes/:id/select", h.selectAnswer)
	api.POST("/quizzes/:id/next", h.next)
	api.POST("/quizzes/:id/previous", h.previous)
	api.POST("/quizzes/:id/expire", h.expire)
	api.DELETE("/quizzes/:id", h.abandon)
	api.POST("/quizzes/:id/analysis", limited, h.analyzeSession)
	api.POST("/analyze-quiz", limited, h.analyzeQuiz)
	api.GET("/users/:userId/dashboard", h.dashboard)
	api.GET("/users/:userId/history", h.history)

	ws := NewWSHandler(service, logger)
	r.GET("/ws/quiz", gin.WrapF(ws.ServeWS))
	return r
}
