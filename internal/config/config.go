package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"finbot/pkg/finbot"
)

// Environment variables recognized by the service.
const (
	envTelegramToken  = "TELEGRAM_TOKEN"
	envTelegramChatID = "TELEGRAM_CHAT_ID"
	envGeminiAPIKey   = "GEMINI_API_KEY"
	envGeminiModel    = "GEMINI_MODEL"
	envGeminiBaseURL  = "GEMINI_BASE_URL"
	envPort           = "PORT"
	envJitterMin      = "FINBOT_QUOTE_JITTER_MIN"
	envJitterMax      = "FINBOT_QUOTE_JITTER_MAX"
	envHTTPTimeout    = "FINBOT_HTTP_TIMEOUT"
	envPortfolio      = "FINBOT_PORTFOLIO"
)

// Config carries all process configuration. It is constructed once at startup
// and passed into each component's constructor; absence of a credential
// disables the corresponding feature rather than failing requests.
type Config struct {
	Port int

	TelegramToken  string
	TelegramChatID string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	QuoteJitterMin time.Duration
	QuoteJitterMax time.Duration
	HTTPTimeout    time.Duration

	Positions []finbot.Position
}

// FromEnv reads the process environment into a Config. Invalid optional
// values fall back to defaults with a warning; FromEnv never fails.
func FromEnv(logger *slog.Logger) Config {
	if logger == nil {
		logger = slog.Default()
	}

	cfg := Config{
		Port:           envInt(logger, envPort, 8080),
		TelegramToken:  strings.TrimSpace(os.Getenv(envTelegramToken)),
		TelegramChatID: strings.TrimSpace(os.Getenv(envTelegramChatID)),
		GeminiAPIKey:   strings.TrimSpace(os.Getenv(envGeminiAPIKey)),
		GeminiModel:    strings.TrimSpace(os.Getenv(envGeminiModel)),
		GeminiBaseURL:  strings.TrimSpace(os.Getenv(envGeminiBaseURL)),
		QuoteJitterMin: envDuration(logger, envJitterMin, 0),
		QuoteJitterMax: envDuration(logger, envJitterMax, 0),
		HTTPTimeout:    envDuration(logger, envHTTPTimeout, 0),
	}

	if raw := strings.TrimSpace(os.Getenv(envPortfolio)); raw != "" {
		positions, err := finbot.ParsePositions([]byte(raw))
		if err != nil {
			logger.Warn("invalid portfolio override, using demo list", "env", envPortfolio, "err", err)
		} else {
			cfg.Positions = positions
		}
	}
	return cfg
}

func envInt(logger *slog.Logger, key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		logger.Warn("invalid integer env value, using default", "env", key, "value", value)
		return fallback
	}
	return parsed
}

func envDuration(logger *slog.Logger, key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 {
		logger.Warn("invalid duration env value, using default", "env", key, "value", value)
		return fallback
	}
	return parsed
}
