package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quizcoach/internal/app"
	"quizcoach/internal/config"
	"quizcoach/internal/infra/memory"
	"quizcoach/internal/infra/postgres"
	redisinfra "quizcoach/internal/infra/redis"
	"quizcoach/internal/metrics"
	"quizcoach/internal/seed"
	transport "quizcoach/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, log, err := loadConfigAndLogger(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	metrics.Init()
	if cfg.Log.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var (
		loader   memory.QuestionLoader = memory.NewStaticQuestionLoader(seed.Categories(), seed.Questions())
		attempts app.AttemptStore      = memory.NewAttemptStore(seed.Categories())
	)
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = postgres.NewQuestionLoader(pool)
		attempts = postgres.NewAttemptStore(pool)
	} else {
		log.Warn("postgres not configured, using built-in questions and in-memory history")
	}

	maxQuestions := cfg.Quiz.MaxQuestions
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	sessionTTL := config.TTLDuration(cfg.Quiz.SessionTTL, 30*time.Minute)
	var questions app.QuestionProvider
	var sessions app.SessionRepository
	if redisClient != nil {
		questions = redisinfra.NewQuestionRepository(redisClient, loader, quizTTL, maxQuestions, log)
		sessions = redisinfra.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, sessionTTL))
	} else {
		questions = memory.NewQuestionRepository(loader, quizTTL, maxQuestions, log)
		sessions = memory.NewSessionStore()
	}

	analyzer, err := buildAnalyzer(ctx, cfg, log)
	if err != nil {
		return err
	}

	service := app.NewQuizService(sessions, questions, attempts, analyzer, app.Options{
		MaxQuestions:  maxQuestions,
		TimeLimit:     config.Seconds(cfg.Quiz.TimeLimit, 300),
		RecordTimeout: config.TTLDuration(cfg.Quiz.RecordTimeout, 10*time.Second),
		SessionTTL:    sessionTTL,
		Logger:        log,
	})
	router := transport.NewRouter(service, transport.RouterConfig{
		AnalysisRateLimit: cfg.Server.RateLimit,
		Logger:            log,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
	}

	go func() {
		log.Info("starting quiz service", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
