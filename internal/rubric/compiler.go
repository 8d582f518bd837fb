package rubric

import (
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/ppiankov/ideajudge/internal/model"
)

// SchemaName labels the response contract for providers that require a name
const SchemaName = "evaluation_result"

// Request is a fully compiled evaluation request
type Request struct {
	Policy      Policy
	Category    Category
	Model       string
	Instruction string
	Schema      jsonschema.Definition
	SchemaName  string
	Seed        *int
}

// Compiler turns ideas into requests. It holds no mutable state.
type Compiler struct {
	registry *Registry
	pinned   Policy
	model    string
	seed     *int
}

// NewCompiler creates a compiler. An empty pin resolves the policy from each
// idea's category; a non-empty pin must name a registered policy.
func NewCompiler(registry *Registry, pin, modelName string, seed *int) (*Compiler, error) {
	if registry == nil {
		return nil, fmt.Errorf("%w: nil registry", ErrConfiguration)
	}
	c := &Compiler{registry: registry, model: modelName}
	if seed != nil {
		s := *seed
		c.seed = &s
	}
	if pin != "" {
		p, err := registry.Policy(pin)
		if err != nil {
			return nil, err
		}
		c.pinned = p
	}
	return c, nil
}

// Compile builds the request for idea
func (c *Compiler) Compile(idea model.Idea) (*Request, error) {
	idea = idea.Normalized()

	p := c.pinned
	if p == nil {
		resolved, err := c.registry.Resolve(idea.Category)
		if err != nil {
			return nil, err
		}
		p = resolved
	}

	cat, ok := p.Category(idea.Category)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a %s category", ErrCategoryMismatch, idea.Category, p.Name())
	}

	instruction, err := p.Instruction(idea)
	if err != nil {
		return nil, err
	}

	var seed *int
	if c.seed != nil {
		s := *c.seed
		seed = &s
	}

	return &Request{
		Policy:      p,
		Category:    cat,
		Model:       c.model,
		Instruction: instruction,
		Schema:      p.Schema(),
		SchemaName:  SchemaName,
		Seed:        seed,
	}, nil
}
