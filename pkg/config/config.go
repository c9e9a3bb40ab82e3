package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API      APIConfig
	Web      WebConfig
	Payment  PaymentConfig
	Callback CallbackConfig
	State    StateConfig
}

type WebConfig struct {
	BaseURL string // public site, used for share links
}

type APIConfig struct {
	BaseURL     string
	Timeout     time.Duration
	RateLimit   float64 // requests per second
	RateBurst   int
	UploadLimit int64 // max upload size in bytes
}

type PaymentConfig struct {
	PollInterval    time.Duration
	PollMaxAttempts int
}

type CallbackConfig struct {
	Addr string // listen address for the checkout return redirect
}

type StateConfig struct {
	Path string // override for the state file location
}

func Load() *Config {
	// Missing .env is fine; env vars may come from the shell.
	_ = godotenv.Load()

	return &Config{
		API: APIConfig{
			BaseURL:     getEnv("GUIDES_API_URL", "https://guide-backend-tau.vercel.app/api"),
			Timeout:     getDuration("GUIDES_API_TIMEOUT", 30*time.Second),
			RateLimit:   getFloat("GUIDES_API_RATE_LIMIT", 10),
			RateBurst:   getInt("GUIDES_API_RATE_BURST", 5),
			UploadLimit: getInt64("GUIDES_UPLOAD_LIMIT", 25<<20),
		},
		Web: WebConfig{
			BaseURL: getEnv("GUIDES_WEB_URL", "https://guides-frontend.vercel.app"),
		},
		Payment: PaymentConfig{
			PollInterval:    getDuration("PAYMENT_POLL_INTERVAL", 2*time.Second),
			PollMaxAttempts: getInt("PAYMENT_POLL_MAX_ATTEMPTS", 10),
		},
		Callback: CallbackConfig{
			Addr: getEnv("CALLBACK_ADDR", "127.0.0.1:8787"),
		},
		State: StateConfig{
			Path: getEnv("GUIDES_STATE_PATH", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
