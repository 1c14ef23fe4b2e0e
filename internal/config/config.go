// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/agent.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AFNANSH552/nutrition-ai-agent/internal/agent"
)

// Config is populated from environment variables at startup.
type Config struct {
	// Database. Empty DatabaseURL selects the in-memory provider.
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// HTTP rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool

	// Pipeline holds the scoring weights and pacing thresholds. Validated
	// at load time; a bad value rejects the whole configuration before any
	// user run.
	Pipeline agent.Config
}

// Load reads configuration from environment variables with documented
// defaults and validates the pipeline section.
func Load() (*Config, error) {
	pipeline := agent.DefaultConfig()
	pipeline.W1 = envFloat("SCORE_W1_COND_MATCH", pipeline.W1)
	pipeline.W2 = envFloat("SCORE_W2_GAP_FIT", pipeline.W2)
	pipeline.W3 = envFloat("SCORE_W3_AVAILABILITY", pipeline.W3)
	pipeline.W4 = envFloat("SCORE_W4_NOVELTY", pipeline.W4)
	pipeline.W5 = envFloat("SCORE_W5_ALLERGY_PENALTY", pipeline.W5)
	pipeline.TopN = envInt("TOP_N", pipeline.TopN)
	pipeline.MaxPerDay = envInt("MAX_PER_DAY", pipeline.MaxPerDay)
	pipeline.MinGap = time.Duration(envFloat("MIN_GAP_HOURS", pipeline.MinGap.Hours()) * float64(time.Hour))
	pipeline.QuietStartHour = envInt("QUIET_START_HOUR", pipeline.QuietStartHour)
	pipeline.QuietEndHour = envInt("QUIET_END_HOUR", pipeline.QuietEndHour)
	pipeline.NoveltyWindowDays = envInt("NOVELTY_WINDOW_DAYS", pipeline.NoveltyWindowDays)
	pipeline.GapWindowDays = envInt("GAP_WINDOW_DAYS", pipeline.GapWindowDays)

	if err := pipeline.Validate(); err != nil {
		return nil, err
	}

	return &Config{
		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		Pipeline: pipeline,
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
