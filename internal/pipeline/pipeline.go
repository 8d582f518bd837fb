package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ppiankov/ideajudge/internal/llm"
	"github.com/ppiankov/ideajudge/internal/model"
	"github.com/ppiankov/ideajudge/internal/rubric"
	"github.com/ppiankov/ideajudge/internal/score"
	"github.com/ppiankov/ideajudge/internal/util"
	"github.com/ppiankov/ideajudge/internal/validate"
)

// Throttle gates outgoing model calls; keys are provider names
type Throttle interface {
	Wait(ctx context.Context, key string) error
}

// Pipeline runs one evaluation round trip: compile, call, validate, diagnose
type Pipeline struct {
	compiler  *rubric.Compiler
	provider  llm.Provider
	validator *validate.Validator
	scorer    *score.Scorer
	throttle  Throttle
	renderer  *Renderer
	config    *model.Config

	now func() time.Time
}

// NewPipeline creates a pipeline. The provider is explicit configuration:
// nothing in the pipeline reaches for a process-wide client.
func NewPipeline(cfg *model.Config, registry *rubric.Registry, provider llm.Provider, throttle Throttle) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: no model provider", rubric.ErrConfiguration)
	}
	if registry == nil {
		registry = rubric.DefaultRegistry()
	}

	compiler, err := rubric.NewCompiler(registry, cfg.Rubric.Policy, cfg.LLM.Model, cfg.LLM.Seed)
	if err != nil {
		return nil, fmt.Errorf("create compiler: %w", err)
	}

	return &Pipeline{
		compiler:  compiler,
		provider:  provider,
		validator: validate.NewValidator(),
		scorer:    score.NewScorer(),
		throttle:  throttle,
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
		config:    cfg,
		now:       time.Now,
	}, nil
}

// Renderer returns the renderer configured for this pipeline
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Evaluate runs a complete evaluation of idea and returns the report envelope
func (p *Pipeline) Evaluate(ctx context.Context, idea model.Idea) (*model.Report, error) {
	// 1. Minimum completeness, before anything leaves the process
	if err := idea.Validate(); err != nil {
		return nil, err
	}
	idea = idea.Normalized()

	// 2. Compile the request
	req, err := p.compiler.Compile(idea)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	log := util.Log.WithFields(logrus.Fields{
		"policy":   req.Policy.Name(),
		"category": req.Category.Code,
		"provider": p.provider.Name(),
	})

	// 3. Throttle per provider
	if p.throttle != nil {
		if err := p.throttle.Wait(ctx, p.provider.Name()); err != nil {
			return nil, llm.NewCallError(p.provider.Name(), err)
		}
	}

	// 4. External call
	start := p.now()
	resp, err := p.provider.Generate(ctx, llm.GenerateRequest{
		Instruction: req.Instruction,
		Schema:      req.Schema,
		SchemaName:  req.SchemaName,
		Model:       req.Model,
		MaxTokens:   p.config.LLM.MaxTokens,
		Seed:        req.Seed,
	})
	if err != nil {
		log.WithError(err).Warn("Model call failed")
		return nil, llm.NewCallError(p.provider.Name(), err)
	}
	log.WithFields(logrus.Fields{
		"model":    resp.Model,
		"tokens":   resp.TokensUsed,
		"duration": p.now().Sub(start).Round(time.Millisecond),
	}).Debug("Model call finished")
	log.Debugf("Raw model output: %s", resp.Text)

	// 5. Validate and normalize
	result, err := p.validator.Validate(resp.Text, req.Policy)
	if err != nil {
		log.WithError(err).Warn("Model response rejected")
		return nil, err
	}

	modelName := resp.Model
	if modelName == "" {
		modelName = req.Model
	}

	// 6. Diagnostics never change the scores
	report := &model.Report{
		ID:        uuid.NewString(),
		Idea:      idea,
		Policy:    req.Policy.Name(),
		Provider:  p.provider.Name(),
		Model:     modelName,
		CreatedAt: p.now().UTC(),
		Result:    *result,
		Signals:   p.scorer.Diagnose(result),
	}

	log.WithField("report_id", report.ID).WithField("overall", report.Result.OverallScore).Info("Evaluation complete")
	return report, nil
}

// RenderReport renders the report to the specified outputs
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	// Render JSON
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	// Render Markdown
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	// Print summary to stdout
	p.renderer.RenderSummary(os.Stdout, report)

	return nil
}
