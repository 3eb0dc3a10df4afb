package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration
	CORSOrigins             []string
	RateLimitRPM            int
	LoginRateLimitRPM       int
	APIBaseURL              string
	APITimeout              time.Duration
	APIRateLimitRPS         float64
	APIRateLimitBurst       int
	APIBreakerFailures      int
	APIBreakerTimeout       time.Duration
	CredentialFile          string
	CredentialKey           string
	SessionEnforceExpiry    bool
	LogLevel                slog.Level
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),
		CORSOrigins:             splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		RateLimitRPM:            getInt("RATE_LIMIT_RPM", 300),
		LoginRateLimitRPM:       getInt("LOGIN_RATE_LIMIT_RPM", 10),
		APIBaseURL:              getEnv("API_BASE_URL", "http://localhost:8000"),
		APITimeout:              getDuration("API_TIMEOUT", 15*time.Second),
		APIRateLimitRPS:         getFloat("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst:       getInt("API_RATE_LIMIT_BURST", 10),
		APIBreakerFailures:      getInt("API_BREAKER_FAILURES", 5),
		APIBreakerTimeout:       getDuration("API_BREAKER_TIMEOUT", 30*time.Second),
		CredentialFile:          getEnv("CREDENTIAL_FILE", "./state/credential.json"),
		CredentialKey:           strings.TrimSpace(os.Getenv("CREDENTIAL_KEY")),
		SessionEnforceExpiry:    getBool("SESSION_ENFORCE_EXPIRY", false),
		LogLevel:                getLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL")
	}

	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}

	if c.APIRateLimitRPS < 0 {
		return fmt.Errorf("API_RATE_LIMIT_RPS cannot be negative")
	}

	if c.APIBreakerFailures <= 0 {
		return fmt.Errorf("API_BREAKER_FAILURES must be positive")
	}

	if strings.TrimSpace(c.CredentialFile) == "" {
		return fmt.Errorf("CREDENTIAL_FILE cannot be empty")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getLevel(key string, fallback slog.Level) slog.Level {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return fallback
	}

	return level
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}

// LevelFromEnv reads LOG_LEVEL ahead of Load so logging is configured before
// the rest of the configuration is validated.
func LevelFromEnv() slog.Level {
	_ = godotenv.Load()
	return getLevel("LOG_LEVEL", slog.LevelInfo)
}
