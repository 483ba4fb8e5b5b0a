package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth. Empty key disables Bearer auth.
	APIKey string

	// Worker pool
	WorkerCount int
	DocTimeout  time.Duration

	// Upload limits
	MaxUploadBytes int64
	MaxPages       int
	MaxBatchFiles  int

	// Scoring
	PersonaWeight  float64
	JobWeight      float64
	BonusWeight    float64
	BonusThreshold int
	TopK           int
	ExcerptChars   int

	// Stats window
	StatsWindow time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DOCLENS_API_KEY"),

		WorkerCount: envInt("WORKER_COUNT", runtime.GOMAXPROCS(0)),
		DocTimeout:  envDuration("DOC_TIMEOUT", 10*time.Second),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		MaxPages:       envInt("MAX_PAGES", 50),
		MaxBatchFiles:  envInt("MAX_BATCH_FILES", 20),

		PersonaWeight:  envFloat("PERSONA_WEIGHT", 0.3),
		JobWeight:      envFloat("JOB_WEIGHT", 0.5),
		BonusWeight:    envFloat("BONUS_WEIGHT", 0.2),
		BonusThreshold: envInt("BONUS_THRESHOLD", 3),
		TopK:           envInt("TOP_K", 5),
		ExcerptChars:   envInt("EXCERPT_CHARS", 500),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.WorkerCount > runtime.GOMAXPROCS(0) {
		cfg.WorkerCount = runtime.GOMAXPROCS(0)
	}
	if cfg.DocTimeout <= 0 {
		cfg.DocTimeout = 10 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 50
	}
	if cfg.MaxBatchFiles <= 0 {
		cfg.MaxBatchFiles = 20
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.ExcerptChars <= 0 {
		cfg.ExcerptChars = 500
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.PersonaWeight < 0 || c.JobWeight < 0 || c.BonusWeight < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}
	if c.PersonaWeight+c.JobWeight == 0 {
		return fmt.Errorf("at least one of PERSONA_WEIGHT and JOB_WEIGHT must be positive")
	}
	if c.BonusThreshold < 0 {
		return fmt.Errorf("BONUS_THRESHOLD must be non-negative")
	}
	return nil
}

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

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
