// Package config loads stager configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the stager needs to run. Every field has a
// working default except the Gemini API key.
type Config struct {
	Port    int
	JobsDir string

	// Empty selects the file-backed job store.
	DatabaseURL string

	GeminiAPIKey  string
	GeminiBaseURL string
	VisionModel   string
	ImageModel    string

	RequestTimeout       time.Duration
	MaxTransformAttempts int
	// Zero means unbounded staging fan-out.
	StageConcurrency int

	DownloadTimeout  time.Duration
	DownloadMaxBytes int64

	// Empty disables webhook authentication.
	WebhookSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
}

// Load reads configuration from environment variables, applying
// defaults for everything optional.
func Load() Config {
	return Config{
		Port:    getenvInt("PORT", 8080),
		JobsDir: getenv("BASE_JOBS_DIR", "./stager_jobs"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: getenv("GEMINI_API_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		VisionModel:   getenv("GEMINI_VISION_MODEL", "gemini-2.5-pro"),
		ImageModel:    getenv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),

		RequestTimeout:       getenvDuration("REQUEST_TIMEOUT", 120*time.Second),
		MaxTransformAttempts: getenvInt("MAX_TRANSFORM_ATTEMPTS", 6),
		StageConcurrency:     getenvInt("STAGE_CONCURRENCY", 0),

		DownloadTimeout:  getenvDuration("DOWNLOAD_TIMEOUT", 60*time.Second),
		DownloadMaxBytes: getenvInt64("DOWNLOAD_MAX_BYTES", 50<<20),

		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),

		SMTPHost:     getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getenvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailFrom:    getenv("EMAIL_FROM", "Stage Vision <no-reply@stagevision.com>"),
	}
}

// Validate checks the fields needed to talk to the model provider.
func (c Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.MaxTransformAttempts < 1 {
		return fmt.Errorf("MAX_TRANSFORM_ATTEMPTS must be at least 1")
	}
	if c.StageConcurrency < 0 {
		return fmt.Errorf("STAGE_CONCURRENCY must be non-negative")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

// getenvDuration accepts Go duration strings and, for compatibility
// with older deployments, bare second counts.
func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
