package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadReadsSectionsAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
server:
  port: "9090"
  rate_limit: 5
quiz:
  max_questions: 7
  time_limit: 2m
llm:
  provider: openai
  model: gpt-4o-mini
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("QUIZCOACH_POSTGRES_URL", "postgres://localhost/quiz")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Server.RateLimit != 5 {
		t.Fatalf("unexpected server section: %+v", cfg.Server)
	}
	if cfg.Quiz.MaxQuestions != 7 || Seconds(cfg.Quiz.TimeLimit, 300) != 120 {
		t.Fatalf("unexpected quiz section: %+v", cfg.Quiz)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Fatalf("expected api key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.Postgres.URL != "postgres://localhost/quiz" {
		t.Fatalf("expected postgres override, got %q", cfg.Postgres.URL)
	}
}

func TestProviderFollowsExportedKey(t *testing.T) {
	for _, key := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "QUIZCOACH_LLM_PROVIDER"} {
		t.Setenv(key, "")
	}
	if got := Default().LLM.Provider; got != "" {
		t.Fatalf("expected no provider without keys, got %q", got)
	}

	t.Setenv("OPENAI_API_KEY", "sk-env")
	cfg := Default()
	if cfg.LLM.Provider != "openai" || cfg.LLM.APIKey != "sk-env" {
		t.Fatalf("expected openai from OPENAI_API_KEY, got %q / %q", cfg.LLM.Provider, cfg.LLM.APIKey)
	}

	t.Setenv("QUIZCOACH_LLM_PROVIDER", "mock")
	if got := Default().LLM.Provider; got != "mock" {
		t.Fatalf("explicit provider must win, got %q", got)
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := TTLDuration("garbage", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for invalid input, got %v", got)
	}
	if got := TTLDuration("30s", time.Minute); got != 30*time.Second {
		t.Fatalf("expected 30s, got %v", got)
	}
}

func TestSeconds(t *testing.T) {
	if got := Seconds("1m30s", 0); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}
	if got := Seconds("", 300); got != 300 {
		t.Fatalf("expected fallback 300, got %d", got)
	}
}
