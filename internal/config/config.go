// Package config loads service configuration from the environment, with
// optional .env support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the API server needs to run.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// GCSBucket is the bucket statement PDFs are stored in.
	GCSBucket string

	// BigQueryProject and BigQueryDataset locate the audit tables.
	// An empty project disables the BigQuery audit trail.
	BigQueryProject string
	BigQueryDataset string

	// GeminiModel is the model used for extraction, insights and chat.
	GeminiModel string

	// SessionTTL is how long an idle chat session stays alive.
	SessionTTL time.Duration

	// QueueSize and QueueWorkers size the in-memory job queue.
	QueueSize    int
	QueueWorkers int

	// JobMaxRetries is how many times a failed extraction job is retried.
	JobMaxRetries int

	// LogLevel is the zerolog level name.
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present.
func Load() (*Config, error) {
	// Missing .env is fine, real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		GCSBucket:       os.Getenv("GCS_BUCKET"),
		BigQueryProject: os.Getenv("BIGQUERY_PROJECT"),
		BigQueryDataset: getEnv("BIGQUERY_DATASET", "finsight"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.SessionTTL, err = getDuration("CHAT_SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.QueueSize, err = getInt("JOB_QUEUE_SIZE", 100); err != nil {
		return nil, err
	}
	if cfg.QueueWorkers, err = getInt("JOB_QUEUE_WORKERS", 5); err != nil {
		return nil, err
	}
	if cfg.JobMaxRetries, err = getInt("JOB_MAX_RETRIES", 3); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer, got %q", key, v)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be a duration like 30m, got %q", key, v)
	}
	return d, nil
}
