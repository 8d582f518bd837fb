package llm

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate sends one instruction and returns the raw model text.
	// The text is untrusted; callers must validate it.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one structured generation
type GenerateRequest struct {
	// Instruction is the complete user prompt
	Instruction string

	// Schema constrains the output; providers without native support embed it in the prompt
	Schema jsonschema.Definition

	// SchemaName labels the schema for providers that require a name
	SchemaName string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Seed requests reproducible sampling where the provider supports it
	Seed *int
}

// GenerateResponse contains the raw model output
type GenerateResponse struct {
	// Text is the generated text, expected to be a JSON document
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "gemini", "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for Gemini/OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	Temperature float32

	// Seed is the default sampling seed, overridden per request
	Seed *int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "gemini",
		Model:       "gemini-2.5-pro",
		Timeout:     120,
		MaxTokens:   8192,
		Temperature: 0.4,
	}
}

const systemPrompt = "你是中国国际大学生创新大赛国家级评审专家。只输出一个符合给定结构的 JSON 对象，不要输出任何解释性文字或 Markdown。"

func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout > 0 {
		return time.Duration(c.Timeout) * time.Second
	}
	return fallback
}

func (c Config) model(req GenerateRequest, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if c.Model != "" {
		return c.Model
	}
	return fallback
}

func (c Config) maxTokens(req GenerateRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 8192
}

func (c Config) seed(req GenerateRequest) *int {
	if req.Seed != nil {
		return req.Seed
	}
	return c.Seed
}
