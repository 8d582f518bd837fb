package cli

import (
	"fmt"
	"io"

	"github.com/ppiankov/ideajudge/internal/llm"
	"github.com/ppiankov/ideajudge/internal/model"
	"github.com/ppiankov/ideajudge/internal/pipeline"
	"github.com/ppiankov/ideajudge/internal/rubric"
	"github.com/ppiankov/ideajudge/internal/util"
	"github.com/ppiankov/ideajudge/internal/worker"
)

// LLM flags shared by evaluate and batch
var (
	llmProvider string
	llmModel    string
	llmTimeout  int
	rubricPin   string
	httpProxy   string
	httpsProxy  string
	noFooter    bool
)

// applyFlags overrides configuration with flags the user set explicitly
func applyFlags(cfg *model.Config, changed func(string) bool) {
	if changed("provider") {
		cfg.LLM.Provider = llmProvider
		if !changed("model") {
			// The configured model belongs to the configured provider
			cfg.LLM.Model = ""
		}
	}
	if changed("model") {
		cfg.LLM.Model = llmModel
	}
	if changed("llm-timeout") {
		cfg.LLM.Timeout = llmTimeout
	}
	if changed("policy") {
		cfg.Rubric.Policy = rubricPin
	}
	if changed("http-proxy") {
		cfg.LLM.HTTPProxy = httpProxy
	}
	if changed("https-proxy") {
		cfg.LLM.HTTPSProxy = httpsProxy
	}
	if changed("no-footer") {
		cfg.Output.IncludeFooter = !noFooter
	}
	if verbose {
		cfg.Output.Verbose = true
	}
}

// buildPipeline wires the provider, the request limiter and the pipeline.
// The returned release func closes provider resources.
func buildPipeline(cfg *model.Config) (*pipeline.Pipeline, func(), error) {
	llmCfg := llm.ApplyEnv(llm.ConfigFromModel(cfg.LLM))
	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create LLM provider: %w", err)
	}
	release := func() {
		if c, ok := provider.(io.Closer); ok {
			if err := c.Close(); err != nil {
				util.Log.WithError(err).Debug("Close LLM provider")
			}
		}
	}

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	p, err := pipeline.NewPipeline(cfg, rubric.DefaultRegistry(), provider, limiter)
	if err != nil {
		release()
		return nil, nil, err
	}
	return p, release, nil
}
