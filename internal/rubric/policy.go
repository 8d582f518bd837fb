// Package rubric turns an idea into a deterministic evaluation request:
// the instruction text, the response contract and the weight table of the
// rubric policy that owns the idea's category.
package rubric

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/ppiankov/ideajudge/internal/model"
	"github.com/ppiankov/ideajudge/internal/schema"
)

// MinCommentRunes is the requested minimum length of the expert comment
const MinCommentRunes = 250

// Category is one selectable sub-direction of a policy
type Category struct {
	Code  string `json:"code" yaml:"code"`
	Label string `json:"label" yaml:"label"`
}

// Weights maps each dimension to its maximum score
type Weights map[model.DimensionKey]float64

// Total sums the weights
func (w Weights) Total() float64 {
	total := 0.0
	for _, key := range model.DimensionKeys {
		total += w[key]
	}
	return total
}

// Validate checks that the table covers exactly the five dimensions and sums to 100
func (w Weights) Validate() error {
	if len(w) != len(model.DimensionKeys) {
		return fmt.Errorf("weight table has %d entries, want %d", len(w), len(model.DimensionKeys))
	}
	for _, key := range model.DimensionKeys {
		v, ok := w[key]
		if !ok {
			return fmt.Errorf("weight table missing %s", key)
		}
		if v <= 0 {
			return fmt.Errorf("weight for %s must be positive, got %v", key, v)
		}
	}
	if total := w.Total(); math.Abs(total-100) > 1e-9 {
		return fmt.Errorf("weights sum to %v, want 100", total)
	}
	return nil
}

// Policy bundles everything that varies between rubric variants
type Policy interface {
	Name() string
	Label() string
	Categories() []Category
	Category(code string) (Category, bool)
	Weights() Weights
	MinCommentRunes() int

	// Instruction renders the full model instruction for idea. It fails when
	// the idea's category is not covered by the policy.
	Instruction(idea model.Idea) (string, error)

	// Schema is the response contract attached to the request and used by the validator
	Schema() jsonschema.Definition

	// Normalize decodes a structurally valid response into the canonical result
	Normalize(raw []byte) (*model.EvaluationResult, error)

	// Encode renders a canonical result back into the policy's wire shape
	Encode(result *model.EvaluationResult) ([]byte, error)
}

// shape is the implementation-section layout a policy asks the model for
type shape interface {
	fields() schema.Fields
	guidance() []string
	decode(raw []byte) (model.ImplementationDetail, error)
	encode(impl model.ImplementationDetail) map[string]interface{}
}

type policy struct {
	name       string
	label      string
	categories []Category
	weights    Weights
	focus      []string
	shape      shape
}

func (p *policy) Name() string { return p.name }
func (p *policy) Label() string { return p.label }
func (p *policy) MinCommentRunes() int { return MinCommentRunes }
func (p *policy) Categories() []Category { return append([]Category(nil), p.categories...) }
func (p *policy) Schema() jsonschema.Definition { return schema.Build(p.shape.fields()) }

func (p *policy) Weights() Weights {
	w := make(Weights, len(p.weights))
	for k, v := range p.weights {
		w[k] = v
	}
	return w
}

func (p *policy) Category(code string) (Category, bool) {
	for _, c := range p.categories {
		if c.Code == code {
			return c, true
		}
	}
	return Category{}, false
}

func (p *policy) Instruction(idea model.Idea) (string, error) {
	idea = idea.Normalized()
	cat, ok := p.Category(idea.Category)
	if !ok {
		return "", fmt.Errorf("%w: %s not in %s", ErrCategoryMismatch, idea.Category, p.name)
	}
	return renderInstruction(p, idea, cat), nil
}

// envelope is the policy independent part of every response
type envelope struct {
	OverallScore  float64            `json:"overallScore"`
	Dimensions    model.Dimensions   `json:"dimensions"`
	TopicPivots   []model.TopicPivot `json:"topicPivots"`
	ExpertComment string             `json:"expertComment"`
}

func (p *policy) Normalize(raw []byte) (*model.EvaluationResult, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	impl, err := p.shape.decode(raw)
	if err != nil {
		return nil, err
	}

	result := &model.EvaluationResult{
		OverallScore:   env.OverallScore,
		Dimensions:     env.Dimensions,
		TopicPivots:    env.TopicPivots,
		Implementation: impl,
		ExpertComment:  env.ExpertComment,
	}
	if result.TopicPivots == nil {
		result.TopicPivots = []model.TopicPivot{}
	}
	for _, key := range model.DimensionKeys {
		d, _ := result.Dimensions.Get(key)
		if d.ScoringPoints == nil {
			d.ScoringPoints = []string{}
			result.Dimensions.Set(key, d)
		}
	}
	return result, nil
}

func (p *policy) Encode(result *model.EvaluationResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("encode: nil result")
	}

	dims := result.Dimensions
	for _, key := range model.DimensionKeys {
		d, _ := dims.Get(key)
		d.ScoringPoints = orEmpty(d.ScoringPoints)
		dims.Set(key, d)
	}
	pivots := result.TopicPivots
	if pivots == nil {
		pivots = []model.TopicPivot{}
	}

	doc := map[string]interface{}{
		"overallScore":  result.OverallScore,
		"dimensions":    dims,
		"topicPivots":   pivots,
		"expertComment": result.ExpertComment,
	}
	for k, v := range p.shape.encode(result.Implementation) {
		doc[k] = v
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return data, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
