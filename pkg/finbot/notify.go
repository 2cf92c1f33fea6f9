package finbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTelegramBaseURL = "https://api.telegram.org"
	notifyTimeout          = 10 * time.Second
)

type notifierOptions struct {
	Logger     *slog.Logger
	Token      string
	ChatID     string
	BaseURL    string
	HTTPClient HTTPDoer
}

type notifier struct {
	logger  *slog.Logger
	token   string
	chatID  string
	baseURL string
	client  HTTPDoer
}

func newNotifier(opts notifierOptions) *notifier {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: notifyTimeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultTelegramBaseURL
	}
	return &notifier{
		logger:  logger,
		token:   strings.TrimSpace(opts.Token),
		chatID:  strings.TrimSpace(opts.ChatID),
		baseURL: baseURL,
		client:  client,
	}
}

type telegramMessage struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// Notify posts the message to the configured Telegram chat. Missing
// credentials disable delivery; the caller decides whether the returned
// error is worth more than a log line.
func (c *Core) Notify(ctx context.Context, message string) error {
	return c.notifier.send(ctx, message)
}

func (n *notifier) send(ctx context.Context, message string) error {
	if n.token == "" || n.chatID == "" {
		n.logger.Warn("telegram token or chat id not configured, skipping send")
		return NewError(ErrCodeConfigMissing, "telegram token or chat id not configured")
	}

	payload := telegramMessage{
		ChatID:                n.chatID,
		Text:                  message,
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return WrapError(ErrCodeInternal, "marshal telegram payload", err)
	}

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return WrapError(ErrCodeInternal, "build telegram request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return WrapError(ErrCodeDelivery, "telegram send failed", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return WrapError(ErrCodeDelivery, "telegram send failed", fmt.Errorf("http status %d", resp.StatusCode))
	}
	return nil
}
