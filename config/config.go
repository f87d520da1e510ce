package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Gateway GatewayConfig
	Auth    AuthConfig
	Stream  StreamConfig
	List    ListConfig
	Log     LogConfig
}

type GatewayConfig struct {
	URL     string
	Timeout time.Duration
}

type AuthConfig struct {
	// Token is used directly when set; otherwise Email/Password log in
	// against LoginURL.
	Token    string
	LoginURL string
	Email    string
	Password string
}

type StreamConfig struct {
	// URL of the SSE notification endpoint; derived from the gateway URL
	// when empty.
	URL        string
	RetryDelay time.Duration
}

type ListConfig struct {
	PageSize int
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // text or json
	File       string // empty = stdout only
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	timeoutSec, _ := strconv.Atoi(getEnv("GATEWAY_TIMEOUT_SECONDS", "30"))
	retryMs, _ := strconv.Atoi(getEnv("STREAM_RETRY_MS", "3000"))
	pageSize, _ := strconv.Atoi(getEnv("LIST_PAGE_SIZE", "5"))
	maxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE_MB", "100"))
	maxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "3"))
	maxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE_DAYS", "28"))

	gatewayURL := getEnv("GATEWAY_URL", "http://localhost:8080/api/v1")

	return &Config{
		Gateway: GatewayConfig{
			URL:     gatewayURL,
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		Auth: AuthConfig{
			Token:    getEnv("AUTH_TOKEN", ""),
			LoginURL: getEnv("AUTH_LOGIN_URL", gatewayURL+"/auth/login"),
			Email:    getEnv("AUTH_EMAIL", ""),
			Password: getEnv("AUTH_PASSWORD", ""),
		},
		Stream: StreamConfig{
			URL:        getEnv("STREAM_URL", gatewayURL+"/notifications"),
			RetryDelay: time.Duration(retryMs) * time.Millisecond,
		},
		List: ListConfig{
			PageSize: pageSize,
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "text"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  maxSize,
			MaxBackups: maxBackups,
			MaxAgeDays: maxAge,
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
