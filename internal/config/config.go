package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/GrigstonJC/boardgame-app/internal/logger"
	"github.com/joho/godotenv"
)

const (
	// The backend only allows redirects back to the address the web
	// client was served from, so the callback listener binds there.
	defaultCallbackAddr = "127.0.0.1:5173"

	defaultAPIBaseURL  = "http://localhost:8000"
	defaultHTTPTimeout = 10 * time.Second
)

type Config struct {
	APIBaseURL   string
	CallbackAddr string
	HTTPTimeout  time.Duration

	// Credentials go to this file unless RedisAddr is set.
	CredentialsFile string

	RedisAddr     string
	RedisPassword string
}

func Load() Config {

	// .env is optional
	_ = godotenv.Load()

	cfg := Config{

		APIBaseURL:   getenv("BOARDGAME_API_URL", defaultAPIBaseURL),
		CallbackAddr: getenv("BOARDGAME_CALLBACK_ADDR", defaultCallbackAddr),
		HTTPTimeout:  getDuration("BOARDGAME_HTTP_TIMEOUT", defaultHTTPTimeout),

		CredentialsFile: getenv("BOARDGAME_CREDENTIALS_FILE", defaultCredentialsFile()),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	return cfg

}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn("invalid duration, using default", map[string]any{
			"key":     key,
			"value":   v,
			"default": fallback.String(),
		})
		return fallback
	}
	return d
}

func defaultCredentialsFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".boardgame-credentials.json"
	}
	return filepath.Join(dir, "boardgame", "credentials.json")
}
