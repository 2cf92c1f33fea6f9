package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID", "GEMINI_API_KEY",
		"FINBOT_QUOTE_JITTER_MIN", "FINBOT_QUOTE_JITTER_MAX", "FINBOT_PORTFOLIO",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv(nil)

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.TelegramToken != "" || cfg.GeminiAPIKey != "" {
		t.Errorf("expected empty credentials by default")
	}
	if cfg.QuoteJitterMin != 0 || cfg.QuoteJitterMax != 0 {
		t.Errorf("expected zero jitter overrides by default")
	}
	if cfg.Positions != nil {
		t.Errorf("expected no portfolio override, got %+v", cfg.Positions)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TELEGRAM_TOKEN", " token ")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("FINBOT_QUOTE_JITTER_MIN", "100ms")
	t.Setenv("FINBOT_QUOTE_JITTER_MAX", "200ms")
	t.Setenv("FINBOT_PORTFOLIO", `[{"symbol":"AAPL","cost":150,"shares":10}]`)

	cfg := FromEnv(nil)

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.TelegramToken != "token" {
		t.Errorf("expected trimmed token, got %q", cfg.TelegramToken)
	}
	if cfg.TelegramChatID != "42" {
		t.Errorf("expected chat id 42, got %q", cfg.TelegramChatID)
	}
	if cfg.QuoteJitterMin != 100*time.Millisecond || cfg.QuoteJitterMax != 200*time.Millisecond {
		t.Errorf("unexpected jitter: min=%v max=%v", cfg.QuoteJitterMin, cfg.QuoteJitterMax)
	}
	if len(cfg.Positions) != 1 || cfg.Positions[0].Symbol != "AAPL" {
		t.Errorf("unexpected portfolio override: %+v", cfg.Positions)
	}
}

func TestFromEnvInvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("FINBOT_HTTP_TIMEOUT", "soon")
	t.Setenv("FINBOT_PORTFOLIO", `[{"symbol":"","cost":0}]`)

	cfg := FromEnv(nil)

	if cfg.Port != 8080 {
		t.Errorf("expected fallback port 8080, got %d", cfg.Port)
	}
	if cfg.HTTPTimeout != 0 {
		t.Errorf("expected zero timeout fallback, got %v", cfg.HTTPTimeout)
	}
	if cfg.Positions != nil {
		t.Errorf("expected invalid portfolio to be rejected, got %+v", cfg.Positions)
	}
}
