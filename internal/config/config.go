// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr   string
	DBPath string

	OllamaURL      string
	Model          string
	FallbackModels []string
	ChatTimeout    time.Duration
	MaxRetries     int

	TranscriptURL string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, falling back to
// defaults that work for local development.
func Load() Config {
	return Config{
		Addr:           envOrDefault("SOUSCHEF_ADDR", ":8080"),
		DBPath:         envOrDefault("SOUSCHEF_DB", "souschef.db"),
		OllamaURL:      envOrDefault("OLLAMA_URL", "http://localhost:11434"),
		Model:          envOrDefault("SOUSCHEF_MODEL", "gemma3:1b"),
		FallbackModels: envList("SOUSCHEF_FALLBACK_MODELS", []string{"gemma3:1b", "llama3.2", "phi4"}),
		ChatTimeout:    envDuration("SOUSCHEF_CHAT_TIMEOUT", 5*time.Minute),
		MaxRetries:     envInt("SOUSCHEF_EXTRACT_RETRIES", 2),
		TranscriptURL:  envOrDefault("SOUSCHEF_TRANSCRIPT_URL", "http://localhost:8081"),
		LogLevel:       envOrDefault("SOUSCHEF_LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("SOUSCHEF_LOG_FORMAT", "console"),
	}
}

func envOrDefault(key, fallback string) string {
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
