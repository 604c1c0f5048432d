package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// SubmissionConfig tunes the inquiry submission pipeline.
type SubmissionConfig struct {
	MaxPerWindow  int
	Window        time.Duration
	MaxAttempts   int
	BackoffBase   time.Duration
	BackoffCap    time.Duration
	ManualRetries int
	NotifyTimeout time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL     string
	JWTSecret       string
	Port            string
	NotifyURL       string
	NotifyAuthKey   string
	StoreURL        string
	StoreAnonKey    string
	ResendAPIKey    string
	OwnerEmail      string
	FromEmail       string
	StatePath       string
	RateLimitSubmit RateLimitConfig
	Submission      SubmissionConfig
	TokenTTL        time.Duration
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret"),
		Port:          getEnv("PORT", "8080"),
		NotifyURL:     getEnv("NOTIFY_URL", "http://localhost:8080/functions/send-contact-notification"),
		NotifyAuthKey: os.Getenv("NOTIFY_AUTH_KEY"),
		StoreURL:      os.Getenv("STORE_URL"),
		StoreAnonKey:  os.Getenv("STORE_ANON_KEY"),
		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		OwnerEmail:    getEnv("OWNER_EMAIL", "contact@rarefindtalent.com"),
		FromEmail:     getEnv("FROM_EMAIL", "Rare Find Talent <noreply@rarefindtalent.com>"),
		StatePath:     os.Getenv("STATE_PATH"),
		TokenTTL:      parseDuration(getEnv("JWT_TTL", "24h")),
		Submission: SubmissionConfig{
			MaxPerWindow:  getEnvInt("SUBMIT_MAX_PER_WINDOW", 3),
			Window:        parseDurationDefault(getEnv("SUBMIT_WINDOW", "1h"), time.Hour),
			MaxAttempts:   getEnvInt("SUBMIT_MAX_ATTEMPTS", 3),
			BackoffBase:   parseDurationDefault(getEnv("SUBMIT_BACKOFF_BASE", "1s"), time.Second),
			BackoffCap:    parseDurationDefault(getEnv("SUBMIT_BACKOFF_CAP", "5s"), 5*time.Second),
			ManualRetries: getEnvInt("SUBMIT_MANUAL_RETRIES", 2),
			NotifyTimeout: parseDurationDefault(getEnv("NOTIFY_TIMEOUT", "15s"), 15*time.Second),
		},
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SUBMIT", "60/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SUBMIT value: %w", err)
	}
	cfg.RateLimitSubmit = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func parseDuration(input string) time.Duration {
	return parseDurationDefault(input, 24*time.Hour)
}

func parseDurationDefault(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
