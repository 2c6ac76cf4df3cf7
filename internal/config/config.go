package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all client configuration.
type Config struct {
	ServerURL   string
	LogLevel    string
	LogFormat   string
	HTTPTimeout time.Duration
	// ConfirmSubmit controls whether a manual submit asks for an explicit
	// confirmation first. Timer-expiry submits never ask.
	ConfirmSubmit bool
	// IntegrityBuffer is the capacity of the integrity event queue.
	// A full queue drops events instead of blocking the exam.
	IntegrityBuffer int

	// Stub server settings (cmd/quizlan-stub only).
	StubPort string
	GinMode  string
}

// Load reads configuration from environment variables with sensible
// defaults. It loads .env if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		ServerURL:       getEnv("QUIZLAN_SERVER_URL", "http://127.0.0.1:5000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "pretty"),
		HTTPTimeout:     time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		ConfirmSubmit:   getEnvBool("CONFIRM_SUBMIT", true),
		IntegrityBuffer: getEnvInt("INTEGRITY_BUFFER", 16),
		StubPort:        getEnv("STUB_PORT", "5000"),
		GinMode:         getEnv("GIN_MODE", "debug"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
