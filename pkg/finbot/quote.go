package finbot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultQuoteJitterMin = 500 * time.Millisecond
	defaultQuoteJitterMax = 1500 * time.Millisecond

	// maxResponseSize limits external API responses to 1MB to prevent memory exhaustion.
	maxResponseSize = 1 << 20
)

// Quote fetcher errors. Use errors.Is() to check for these conditions.
var (
	// ErrNoQuote indicates the data source returned no usable price for the symbol.
	ErrNoQuote = errors.New("no quote data available")
)

type quoteFetcherOptions struct {
	Logger     *slog.Logger
	JitterMin  time.Duration
	JitterMax  time.Duration
	HTTPClient HTTPDoer
	Sleep      func(time.Duration) // Optional: inject for testing
	BaseURL    string              // Optional: override quote endpoint for testing
}

type quoteFetcher struct {
	logger    *slog.Logger
	jitterMin time.Duration
	jitterMax time.Duration
	client    HTTPDoer
	sleep     func(time.Duration)
	baseURL   string
}

const defaultQuoteBaseURL = "https://query1.finance.yahoo.com"

func newQuoteFetcher(opts quoteFetcherOptions) *quoteFetcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	jitterMin := opts.JitterMin
	jitterMax := opts.JitterMax
	if jitterMin <= 0 && jitterMax <= 0 {
		jitterMin = defaultQuoteJitterMin
		jitterMax = defaultQuoteJitterMax
	}
	if jitterMax < jitterMin {
		jitterMax = jitterMin
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultQuoteBaseURL
	}
	return &quoteFetcher{
		logger:    logger,
		jitterMin: jitterMin,
		jitterMax: jitterMax,
		client:    client,
		sleep:     sleep,
		baseURL:   baseURL,
	}
}

// FetchQuote returns the latest price for a symbol. The caller decides how a
// failure maps to report content; this method never substitutes a sentinel.
func (c *Core) FetchQuote(ctx context.Context, symbol string) (float64, error) {
	return c.quotes.fetch(ctx, symbol)
}

// fetch sleeps a random sub-second-to-low-second duration before the lookup
// to keep the request pattern below upstream rate limits, then tries the fast
// market price and falls back to the last close of a short historical window.
func (qf *quoteFetcher) fetch(ctx context.Context, symbol string) (float64, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return 0, NewError(ErrCodeInvalidInput, "symbol is required")
	}

	qf.sleep(qf.jitter())

	price, err := qf.fetchChart(ctx, symbol, "1d")
	if err == nil && price > 0 {
		return price, nil
	}
	if err != nil {
		qf.logger.Warn("fast quote failed, trying history", "symbol", symbol, "err", err)
	}

	price, err = qf.fetchChart(ctx, symbol, "5d")
	if err != nil {
		return 0, WrapError(ErrCodeUpstream, fmt.Sprintf("quote lookup failed for %s", symbol), err)
	}
	if price <= 0 {
		return 0, WrapError(ErrCodeUpstream, fmt.Sprintf("quote lookup failed for %s", symbol), ErrNoQuote)
	}
	return price, nil
}

func (qf *quoteFetcher) jitter() time.Duration {
	if qf.jitterMax <= qf.jitterMin {
		return qf.jitterMin
	}
	return qf.jitterMin + time.Duration(rand.Int63n(int64(qf.jitterMax-qf.jitterMin)))
}

// fetchChart queries the chart endpoint for one symbol and range. It prefers
// the meta market price and falls back to the last non-null close.
func (qf *quoteFetcher) fetchChart(ctx context.Context, symbol, window string) (float64, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s", qf.baseURL, symbol, window)
	body, err := qf.httpGet(ctx, url, map[string]string{"User-Agent": "Mozilla/5.0"})
	if err != nil {
		return 0, err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, err
	}
	chart, _ := payload["chart"].(map[string]any)
	results, _ := chart["result"].([]any)
	if len(results) == 0 {
		return 0, ErrNoQuote
	}
	result, _ := results[0].(map[string]any)
	meta, _ := result["meta"].(map[string]any)
	if meta != nil {
		if price, err := parseFloat(meta["regularMarketPrice"]); err == nil && price > 0 {
			return price, nil
		}
	}
	indicators, _ := result["indicators"].(map[string]any)
	quoteArr, _ := indicators["quote"].([]any)
	if len(quoteArr) == 0 {
		return 0, ErrNoQuote
	}
	quote, _ := quoteArr[0].(map[string]any)
	closes, _ := quote["close"].([]any)
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] == nil {
			continue
		}
		price, err := parseFloat(closes[i])
		if err != nil {
			return 0, err
		}
		return price, nil
	}
	return 0, ErrNoQuote
}

func (qf *quoteFetcher) httpGet(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := qf.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
}

func parseFloat(value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, errors.New("no value")
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		if v == "" {
			return 0, errors.New("empty")
		}
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}
