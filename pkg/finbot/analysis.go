package finbot

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-1.5-flash"
	analysisTimeout      = 2 * time.Minute
)

// AnalysisKeyMissing is returned verbatim when no model credential is configured.
const AnalysisKeyMissing = "⚠️ AI Key 未設定，無法進行分析。"

const analysisSystemPrompt = `你是一位金融數據教學助理。請根據提供的股市數據，用繁體中文撰寫一份客觀的數據摘要。
⚠️ 規範：
1. 僅描述數據事實 (如漲跌幅、RSI數值意義)。
2. 嚴禁提供任何買賣建議或預測未來股價。
3. 語氣保持中立、學術。`

type analyzerOptions struct {
	Logger  *slog.Logger
	APIKey  string
	Model   string
	BaseURL string
}

type analyzer struct {
	logger  *slog.Logger
	apiKey  string
	model   string
	baseURL string
}

func newAnalyzer(opts analyzerOptions) *analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	return &analyzer{
		logger:  logger,
		apiKey:  strings.TrimSpace(opts.APIKey),
		model:   model,
		baseURL: strings.TrimSpace(opts.BaseURL),
	}
}

// Analyze submits the data context to the model and returns generated text.
// The returned string is always usable as report content: when the credential
// is absent or the upstream fails, it carries the fixed warning or a fallback
// message, alongside a non-nil error describing what was degraded.
func (c *Core) Analyze(ctx context.Context, dataContext string) (string, error) {
	return c.analyst.analyze(ctx, dataContext)
}

func (a *analyzer) analyze(ctx context.Context, dataContext string) (string, error) {
	if a.apiKey == "" {
		return AnalysisKeyMissing, NewError(ErrCodeConfigMissing, "gemini api key not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, analysisTimeout)
	defer cancel()

	content, err := a.generate(ctx, dataContext)
	if err != nil {
		a.logger.Warn("ai analysis failed", "model", a.model, "err", err)
		return fmt.Sprintf("AI 分析暫時不可用 (%s)", err), WrapError(ErrCodeUpstream, "ai analysis failed", err)
	}
	return content, nil
}

func (a *analyzer) generate(ctx context.Context, dataContext string) (string, error) {
	clientConfig, err := buildGeminiClientConfig(a.baseURL, a.apiKey)
	if err != nil {
		return "", err
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return "", fmt.Errorf("create gemini client failed: %w", err)
	}

	requestConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: analysisSystemPrompt}},
		},
		Temperature: genai.Ptr(float32(0.2)),
	}
	contents := genai.Text("數據如下：\n" + dataContext)

	response, err := client.Models.GenerateContent(ctx, a.model, contents, requestConfig)
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}
	content := strings.TrimSpace(response.Text())
	if content == "" {
		return "", fmt.Errorf("ai response content is empty")
	}
	return content, nil
}

func buildGeminiClientConfig(endpoint, apiKey string) (*genai.ClientConfig, error) {
	baseURL, apiVersion, err := parseGeminiBaseURLAndVersion(endpoint)
	if err != nil {
		return nil, err
	}
	return &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    baseURL,
			APIVersion: apiVersion,
		},
	}, nil
}

func parseGeminiBaseURLAndVersion(endpoint string) (string, string, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = defaultGeminiBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", "", fmt.Errorf("invalid gemini endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", "", fmt.Errorf("invalid gemini endpoint scheme: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", "", fmt.Errorf("invalid gemini endpoint host")
	}

	path := strings.Trim(parsed.Path, "/")
	segments := []string{}
	if path != "" {
		segments = strings.Split(path, "/")
	}

	apiVersion := "v1beta"
	prefixSegments := []string{}
	foundVersion := false
	for idx, segment := range segments {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(segment)), "v1") {
			apiVersion = segment
			prefixSegments = segments[:idx]
			foundVersion = true
			break
		}
	}
	if !foundVersion {
		prefixSegments = segments
	}

	basePath := strings.Trim(strings.Join(prefixSegments, "/"), "/")
	baseURL := fmt.Sprintf("%s://%s/", parsed.Scheme, parsed.Host)
	if basePath != "" {
		baseURL += basePath + "/"
	}
	return baseURL, apiVersion, nil
}
