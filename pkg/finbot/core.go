package finbot

import (
	"log/slog"
	"net/http"
	"time"
)

// HTTPDoer is an interface for making HTTP requests. It enables dependency
// injection for testing without network calls.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Options controls Core initialization.
type Options struct {
	Logger    *slog.Logger
	Positions []Position

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	TelegramToken   string
	TelegramChatID  string
	TelegramBaseURL string

	QuoteJitterMin time.Duration
	QuoteJitterMax time.Duration
	HTTPTimeout    time.Duration

	HTTPClient HTTPDoer // Optional: inject custom client for testing
}

// Core provides access to FinBot business logic.
type Core struct {
	logger    *slog.Logger
	positions []Position
	quotes    *quoteFetcher
	analyst   *analyzer
	notifier  *notifier
}

// New builds a Core from the provided options.
func New(opts Options) *Core {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	positions := opts.Positions
	if len(positions) == 0 {
		positions = DefaultPositions
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout: defaultDuration(opts.HTTPTimeout, 10*time.Second),
		}
	}

	return &Core{
		logger:    logger,
		positions: positions,
		quotes: newQuoteFetcher(quoteFetcherOptions{
			Logger:     logger,
			JitterMin:  opts.QuoteJitterMin,
			JitterMax:  opts.QuoteJitterMax,
			HTTPClient: client,
		}),
		analyst: newAnalyzer(analyzerOptions{
			Logger:  logger,
			APIKey:  opts.GeminiAPIKey,
			Model:   opts.GeminiModel,
			BaseURL: opts.GeminiBaseURL,
		}),
		notifier: newNotifier(notifierOptions{
			Logger:     logger,
			Token:      opts.TelegramToken,
			ChatID:     opts.TelegramChatID,
			BaseURL:    opts.TelegramBaseURL,
			HTTPClient: client,
		}),
	}
}

// Logger returns the core logger.
func (c *Core) Logger() *slog.Logger {
	return c.logger
}

// Positions returns the configured watch list.
func (c *Core) Positions() []Position {
	return c.positions
}

func defaultDuration(v time.Duration, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return v
}
