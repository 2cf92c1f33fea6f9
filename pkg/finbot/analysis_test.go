package finbot

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnalyzeWithoutKey(t *testing.T) {
	a := newAnalyzer(analyzerOptions{})

	text, err := a.analyze(context.Background(), "2330.TW: 現價660, 成本600\n")
	if text != AnalysisKeyMissing {
		t.Fatalf("expected fixed warning, got %q", text)
	}
	if !IsErrorCode(err, ErrCodeConfigMissing) {
		t.Fatalf("expected CONFIG_MISSING, got %v", err)
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	dataContext := "2330.TW: 現價660, 成本600\n"
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"數據摘要：漲幅 10%。"}]}}]}`))
	}))
	defer server.Close()

	a := newAnalyzer(analyzerOptions{APIKey: "key", BaseURL: server.URL})
	text, err := a.analyze(context.Background(), dataContext)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if text != "數據摘要：漲幅 10%。" {
		t.Fatalf("unexpected analysis text: %q", text)
	}
	if !strings.Contains(gotBody, "2330.TW") {
		t.Fatalf("expected data context in model request, got: %s", gotBody)
	}
	if !strings.Contains(gotBody, "金融數據教學助理") {
		t.Fatalf("expected system instruction in model request, got: %s", gotBody)
	}
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	a := newAnalyzer(analyzerOptions{APIKey: "key", BaseURL: server.URL})
	text, err := a.analyze(context.Background(), "data")
	if !IsErrorCode(err, ErrCodeUpstream) {
		t.Fatalf("expected UPSTREAM_ERROR, got %v", err)
	}
	if !strings.HasPrefix(text, "AI 分析暫時不可用 (") {
		t.Fatalf("expected fallback message embedding the error, got %q", text)
	}
}

func TestAnalyzerDefaults(t *testing.T) {
	a := newAnalyzer(analyzerOptions{APIKey: "key"})
	if a.model != defaultGeminiModel {
		t.Fatalf("expected default model, got %q", a.model)
	}
}

func TestParseGeminiBaseURLAndVersion(t *testing.T) {
	cases := []struct {
		in          string
		wantBase    string
		wantVersion string
		wantErr     bool
	}{
		{"", "https://generativelanguage.googleapis.com/", "v1beta", false},
		{"https://generativelanguage.googleapis.com/v1beta", "https://generativelanguage.googleapis.com/", "v1beta", false},
		{"example.com/gateway/v1", "https://example.com/gateway/", "v1", false},
		{"http://127.0.0.1:8080", "http://127.0.0.1:8080/", "v1beta", false},
		{"ftp://example.com", "", "", true},
	}
	for _, tc := range cases {
		base, version, err := parseGeminiBaseURLAndVersion(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseGeminiBaseURLAndVersion(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseGeminiBaseURLAndVersion(%q): %v", tc.in, err)
		}
		if base != tc.wantBase || version != tc.wantVersion {
			t.Fatalf("parseGeminiBaseURLAndVersion(%q) = (%q, %q), want (%q, %q)", tc.in, base, version, tc.wantBase, tc.wantVersion)
		}
	}
}
