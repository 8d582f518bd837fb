package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/ppiankov/ideajudge/internal/util"
)

const defaultGeminiModel = "gemini-2.5-pro"

// generativeModel is the part of *genai.GenerativeModel the provider calls
type generativeModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiProvider implements the Provider interface for Google Gemini models
type GeminiProvider struct {
	client *genai.Client
	config Config

	// modelFor builds a configured model handle; replaced in tests
	modelFor func(name string, req GenerateRequest) generativeModel
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}

	client, err := genai.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	p := &GeminiProvider{client: client, config: config}
	p.modelFor = func(name string, req GenerateRequest) generativeModel {
		m := client.GenerativeModel(name)
		p.configure(m, req)
		return m
	}
	return p, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Close releases the underlying client connection
func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

// IsAvailable checks if the provider is properly configured
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	if p.client == nil {
		return false
	}
	_, err := p.client.ListModels(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		util.Log.WithError(err).Warn("Gemini API check failed")
		return false
	}
	return true
}

// Generate runs one structured generation with a JSON response schema
func (p *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	name := p.config.model(req, defaultGeminiModel)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.config.timeout(120*time.Second))
	defer cancel()

	resp, err := p.modelFor(name, req).GenerateContent(ctxWithTimeout, genai.Text(req.Instruction))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("Gemini: %w", ErrEmptyResponse)
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &GenerateResponse{
		Text:       text,
		Model:      name,
		TokensUsed: tokens,
	}, nil
}

// configure applies sampling settings and the response schema to m
func (p *GeminiProvider) configure(m *genai.GenerativeModel, req GenerateRequest) {
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = toGenaiSchema(req.Schema)
	m.SetTemperature(p.config.Temperature)
	m.SetMaxOutputTokens(int32(p.config.maxTokens(req)))
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String())
}

// toGenaiSchema converts the shared contract into Gemini's schema type.
// Gemini has no additionalProperties; closed key sets are enforced by the validator.
func toGenaiSchema(def jsonschema.Definition) *genai.Schema {
	s := &genai.Schema{
		Description: def.Description,
		Enum:        def.Enum,
	}

	switch def.Type {
	case jsonschema.Object:
		s.Type = genai.TypeObject
	case jsonschema.Array:
		s.Type = genai.TypeArray
	case jsonschema.String:
		s.Type = genai.TypeString
	case jsonschema.Number:
		s.Type = genai.TypeNumber
	case jsonschema.Integer:
		s.Type = genai.TypeInteger
	case jsonschema.Boolean:
		s.Type = genai.TypeBoolean
	default:
		s.Type = genai.TypeUnspecified
	}

	if def.Items != nil {
		s.Items = toGenaiSchema(*def.Items)
	}
	if len(def.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(def.Properties))
		for name, prop := range def.Properties {
			s.Properties[name] = toGenaiSchema(prop)
		}
	}
	if len(def.Required) > 0 {
		s.Required = append([]string(nil), def.Required...)
	}
	return s
}
