package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ppiankov/ideajudge/internal/model"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
		wantErr  bool
	}{
		{"openai", Config{Provider: "openai", APIKey: "k"}, "openai", false},
		{"claude alias", Config{Provider: "Claude", APIKey: "k"}, "anthropic", false},
		{"ollama", Config{Provider: "ollama"}, "ollama", false},
		{"openai without key", Config{Provider: "openai"}, "", true},
		{"gemini without key", Config{Provider: "gemini"}, "", true},
		{"empty", Config{}, "", true},
		{"unknown", Config{Provider: "mistral"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && p.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", p.Name(), tt.wantName)
			}
		})
	}
}

func TestConfigFromModel(t *testing.T) {
	seed := 3
	in := model.LLMConfig{
		Provider:    "ollama",
		Model:       "qwen2.5:14b",
		BaseURL:     "http://gpu.lan:11434",
		Timeout:     60,
		MaxTokens:   2048,
		Temperature: 0.1,
		Seed:        &seed,
		HTTPProxy:   "http://proxy:3128",
	}

	got := ConfigFromModel(in)
	if got.Provider != "ollama" || got.Model != "qwen2.5:14b" || got.BaseURL != in.BaseURL {
		t.Errorf("Unexpected identity fields: %+v", got)
	}
	if got.Timeout != 60 || got.MaxTokens != 2048 || got.Temperature != 0.1 {
		t.Errorf("Unexpected limits: %+v", got)
	}
	if got.Seed == nil || *got.Seed != 3 || got.HTTPProxy != in.HTTPProxy {
		t.Errorf("Unexpected seed/proxy: %+v", got)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("OPENAI_BASE_URL", "https://llm.example.com/v1")
	t.Setenv("OLLAMA_BASE_URL", "http://gpu.lan:11434")

	if got := ApplyEnv(Config{Provider: "gemini"}); got.APIKey != "google-key" {
		t.Errorf("Expected fallback to GOOGLE_API_KEY, got %q", got.APIKey)
	}
	if got := ApplyEnv(Config{Provider: "gemini", APIKey: "explicit"}); got.APIKey != "explicit" {
		t.Errorf("Expected explicit key kept, got %q", got.APIKey)
	}

	got := ApplyEnv(Config{Provider: "openai"})
	if got.APIKey != "openai-key" || got.BaseURL != "https://llm.example.com/v1" {
		t.Errorf("Unexpected openai config: %+v", got)
	}

	if got := ApplyEnv(Config{Provider: "ollama"}); got.BaseURL != "http://gpu.lan:11434" {
		t.Errorf("Unexpected ollama base URL: %q", got.BaseURL)
	}
}

func TestCallError(t *testing.T) {
	cause := fmt.Errorf("OpenAI: %w", ErrEmptyResponse)
	err := fmt.Errorf("evaluate: %w", NewCallError("openai", cause))

	if !errors.Is(err, ErrExternalCall) {
		t.Error("Expected errors.Is(err, ErrExternalCall)")
	}
	if !errors.Is(err, ErrEmptyResponse) {
		t.Error("Expected cause to be reachable")
	}

	var callErr *CallError
	if !errors.As(err, &callErr) || callErr.Provider != "openai" {
		t.Errorf("Expected CallError for openai, got %v", err)
	}
}
