package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		// RateLimit is the number of analysis requests a client may issue per minute.
		RateLimit int `yaml:"rate_limit"`
	} `yaml:"server"`
	Log struct {
		Env   string `yaml:"env"`   // "production" selects the JSON encoder
		Level string `yaml:"level"` // debug, info, warn, error
		File  string `yaml:"file"`  // optional rotating file sink
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL           string `yaml:"ttl"`
		MaxQuestions  int    `yaml:"max_questions"`
		TimeLimit     string `yaml:"time_limit"`
		RecordTimeout string `yaml:"record_timeout"`
		// SessionTTL evicts sessions idle for this long.
		SessionTTL string `yaml:"session_ttl"`
	} `yaml:"quiz"`
	Analysis struct {
		// URL points at a remote analyze-quiz endpoint. Empty runs analysis in-process.
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"analysis"`
	LLM struct {
		Provider    string `yaml:"provider"`
		Model       string `yaml:"model"`
		APIKey      string `yaml:"api_key"`
		BaseURL     string `yaml:"base_url"`
		Timeout     string `yaml:"timeout"`
		MaxAttempts int    `yaml:"max_attempts"`
	} `yaml:"llm"`
}

// Load reads YAML config from path and applies QUIZCOACH_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// Default is used when no config file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Server.RateLimit = 10
	cfg.Log.Level = "info"
	cfg.Quiz.MaxQuestions = 10
	cfg.Quiz.TimeLimit = "5m"
	cfg.Quiz.SessionTTL = "30m"
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("QUIZCOACH_LOG_ENV"); v != "" {
		c.Log.Env = v
	}
	if v := os.Getenv("QUIZCOACH_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("QUIZCOACH_POSTGRES_URL"); v != "" {
		c.Postgres.URL = v
	}
	if v := os.Getenv("QUIZCOACH_ANALYSIS_URL"); v != "" {
		c.Analysis.URL = v
	}
	if v := os.Getenv("QUIZCOACH_MAX_QUESTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Quiz.MaxQuestions = n
		}
	}
	if v := os.Getenv("QUIZCOACH_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("QUIZCOACH_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = providerFromKeys()
	}
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case "openai":
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			c.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "gemini":
			c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
}

// providerFromKeys picks the provider whose API key is exported, OpenAI first.
func providerFromKeys() string {
	switch {
	case os.Getenv("OPENAI_API_KEY") != "":
		return "openai"
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		return "anthropic"
	case os.Getenv("GEMINI_API_KEY") != "":
		return "gemini"
	}
	return ""
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Seconds parses a duration string into whole seconds, or returns fallback.
func Seconds(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return int(d / time.Second)
	}
	return fallback
}
