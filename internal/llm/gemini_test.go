package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/ppiankov/ideajudge/internal/schema"
)

type fakeModel struct {
	resp  *genai.GenerateContentResponse
	err   error
	parts []genai.Part
}

func (f *fakeModel) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.parts = parts
	return f.resp, f.err
}

func newFakeGemini(fake *fakeModel, config Config) (*GeminiProvider, *string) {
	var requested string
	p := &GeminiProvider{config: config}
	p.modelFor = func(name string, req GenerateRequest) generativeModel {
		requested = name
		return fake
	}
	return p, &requested
}

func textResponse(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: parts}},
		},
		UsageMetadata: &genai.UsageMetadata{TotalTokenCount: 120},
	}
}

func TestGeminiProvider_Generate_Success(t *testing.T) {
	fake := &fakeModel{resp: textResponse(genai.Text(`{"overallScore": `), genai.Text(`70}`))}
	provider, requested := newFakeGemini(fake, Config{Model: "gemini-2.5-flash"})

	resp, err := provider.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if resp.Text != testJSON {
		t.Errorf("Unexpected text: %s", resp.Text)
	}
	if resp.TokensUsed != 120 {
		t.Errorf("Expected 120 tokens, got %d", resp.TokensUsed)
	}
	if *requested != "gemini-2.5-flash" || resp.Model != "gemini-2.5-flash" {
		t.Errorf("Expected configured model, got %s / %s", *requested, resp.Model)
	}
	if len(fake.parts) != 1 || fake.parts[0] != genai.Text(testRequest().Instruction) {
		t.Errorf("Expected instruction as the only part, got %v", fake.parts)
	}
}

func TestGeminiProvider_Generate_DefaultModel(t *testing.T) {
	fake := &fakeModel{resp: textResponse(genai.Text(testJSON))}
	provider, requested := newFakeGemini(fake, Config{})

	if _, err := provider.Generate(context.Background(), testRequest()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if *requested != defaultGeminiModel {
		t.Errorf("Expected %s, got %s", defaultGeminiModel, *requested)
	}
}

func TestGeminiProvider_Generate_Error(t *testing.T) {
	boom := errors.New("quota exceeded")
	provider, _ := newFakeGemini(&fakeModel{err: boom}, Config{})

	_, err := provider.Generate(context.Background(), testRequest())
	if !errors.Is(err, boom) {
		t.Fatalf("Expected wrapped API error, got %v", err)
	}
}

func TestGeminiProvider_Generate_Empty(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{"blank text", textResponse(genai.Text("  "))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, _ := newFakeGemini(&fakeModel{resp: tt.resp}, Config{})
			_, err := provider.Generate(context.Background(), testRequest())
			if !errors.Is(err, ErrEmptyResponse) {
				t.Errorf("Expected ErrEmptyResponse, got %v", err)
			}
		})
	}
}

func TestGeminiProvider_Configure(t *testing.T) {
	provider := &GeminiProvider{config: Config{Temperature: 0.2, MaxTokens: 4096}}
	m := &genai.GenerativeModel{}

	provider.configure(m, testRequest())

	if m.ResponseMIMEType != "application/json" {
		t.Errorf("Expected JSON MIME type, got %s", m.ResponseMIMEType)
	}
	if m.ResponseSchema == nil || m.ResponseSchema.Type != genai.TypeObject {
		t.Fatalf("Expected object response schema, got %v", m.ResponseSchema)
	}
	if m.SystemInstruction == nil || len(m.SystemInstruction.Parts) != 1 {
		t.Error("Expected system instruction")
	}
	if m.Temperature == nil || *m.Temperature != 0.2 {
		t.Errorf("Expected temperature 0.2, got %v", m.Temperature)
	}
	if m.MaxOutputTokens == nil || *m.MaxOutputTokens != 4096 {
		t.Errorf("Expected 4096 max tokens, got %v", m.MaxOutputTokens)
	}
}

func TestToGenaiSchema(t *testing.T) {
	def := schema.Build(nil)
	got := toGenaiSchema(def)

	if got.Type != genai.TypeObject {
		t.Fatalf("Expected object, got %v", got.Type)
	}
	if len(got.Required) != len(def.Required) {
		t.Errorf("Expected %d required fields, got %d", len(def.Required), len(got.Required))
	}

	dims, ok := got.Properties["dimensions"]
	if !ok {
		t.Fatal("Expected dimensions property")
	}
	if len(dims.Properties) != 5 {
		t.Errorf("Expected 5 dimensions, got %d", len(dims.Properties))
	}

	points := dims.Properties["innovation"].Properties["scoringPoints"]
	if points.Type != genai.TypeArray || points.Items == nil || points.Items.Type != genai.TypeString {
		t.Errorf("Expected array of strings, got %+v", points)
	}

	enum := toGenaiSchema(jsonschema.Definition{Type: jsonschema.String, Enum: []string{"a", "b"}})
	if len(enum.Enum) != 2 {
		t.Errorf("Expected enum preserved, got %v", enum.Enum)
	}
	if toGenaiSchema(jsonschema.Definition{Type: jsonschema.Integer}).Type != genai.TypeInteger {
		t.Error("Expected integer type")
	}
}
