package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/ideajudge/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "gemini", "google":
		return NewGeminiProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, fmt.Errorf("no LLM provider configured (supported: gemini, openai, anthropic, ollama)")

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: gemini, openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:    modelConfig.Provider,
		Model:       modelConfig.Model,
		APIKey:      modelConfig.APIKey,
		BaseURL:     modelConfig.BaseURL,
		Timeout:     modelConfig.Timeout,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
		Seed:        modelConfig.Seed,
		HTTPProxy:   modelConfig.HTTPProxy,
		HTTPSProxy:  modelConfig.HTTPSProxy,
		NoProxy:     modelConfig.NoProxy,
	}
}

// ApplyEnv fills the API key and base URL from the provider's conventional
// environment variables when the configuration leaves them empty.
func ApplyEnv(config Config) Config {
	lookup := func(names ...string) string {
		for _, name := range names {
			if v := os.Getenv(name); v != "" {
				return v
			}
		}
		return ""
	}

	switch strings.ToLower(config.Provider) {
	case "gemini", "google":
		if config.APIKey == "" {
			config.APIKey = lookup("GEMINI_API_KEY", "GOOGLE_API_KEY")
		}
	case "openai":
		if config.APIKey == "" {
			config.APIKey = lookup("OPENAI_API_KEY")
		}
		if config.BaseURL == "" {
			config.BaseURL = lookup("OPENAI_BASE_URL")
		}
	case "anthropic", "claude":
		if config.APIKey == "" {
			config.APIKey = lookup("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if config.BaseURL == "" {
			config.BaseURL = lookup("OLLAMA_BASE_URL")
		}
	}
	return config
}
