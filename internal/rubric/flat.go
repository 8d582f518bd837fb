package rubric

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/ppiankov/ideajudge/internal/model"
	"github.com/ppiankov/ideajudge/internal/schema"
)

// flat asks for string-valued scenarios and shortcomings plus a separate
// top-level businessFramework block.
type flat struct{}

type flatImplementation struct {
	PainPointSolving      string   `json:"painPointSolving"`
	PreciseScenarios      []string `json:"preciseScenarios"`
	TechnicalShortcomings []string `json:"technicalShortcomings"`
	ResearchRoadmap       string   `json:"researchRoadmap"`
}

type flatBusiness struct {
	RevenueModel          string   `json:"revenueModel"`
	BusinessFramework     string   `json:"businessFramework"`
	Benchmarks            []string `json:"benchmarks"`
	CompetitiveAdvantages string   `json:"competitiveAdvantages"`
}

// Joined list values are split back on this separator
const flatSeparator = "；"

func (flat) fields() schema.Fields {
	return schema.Fields{
		"implementation": schema.Object("落地场景与技术预警", map[string]jsonschema.Definition{
			"painPointSolving":      schema.Str("痛点解决"),
			"preciseScenarios":      schema.StrList("应用场景"),
			"technicalShortcomings": schema.StrList("技术短板"),
			"researchRoadmap":       schema.Str("改进方向"),
		}),
		"businessFramework": schema.Object("商业框架", map[string]jsonschema.Definition{
			"revenueModel":          schema.Str("收入模式"),
			"businessFramework":     schema.Str("商业框架"),
			"benchmarks":            schema.StrList("对标企业"),
			"competitiveAdvantages": schema.Str("核心优势"),
		}),
	}
}

func (flat) guidance() []string {
	return []string{
		"implementation.painPointSolving：说明项目解决的核心痛点。",
		"implementation.preciseScenarios：以短句列出应用场景。",
		"implementation.technicalShortcomings：以短句列出技术短板，并在 researchRoadmap 中给出改进方向。",
		"businessFramework：给出 revenueModel、businessFramework、benchmarks（对标企业）与 competitiveAdvantages。",
	}
}

func (flat) decode(raw []byte) (model.ImplementationDetail, error) {
	var doc struct {
		Implementation    flatImplementation `json:"implementation"`
		BusinessFramework flatBusiness       `json:"businessFramework"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.ImplementationDetail{}, fmt.Errorf("decode implementation: %w", err)
	}
	impl, biz := doc.Implementation, doc.BusinessFramework

	scenarios := make([]model.Scenario, 0, len(impl.PreciseScenarios))
	for _, s := range impl.PreciseScenarios {
		scenarios = append(scenarios, model.Scenario{Scenario: s})
	}
	breakdown := make([]model.TechnicalDiagnostic, 0, len(impl.TechnicalShortcomings))
	for _, s := range impl.TechnicalShortcomings {
		breakdown = append(breakdown, model.TechnicalDiagnostic{Issue: s})
	}

	return model.ImplementationDetail{
		PainPoint:          impl.PainPointSolving,
		Scenarios:          scenarios,
		TechnicalBreakdown: breakdown,
		ResearchRoadmap:    impl.ResearchRoadmap,
		Business: model.BusinessFramework{
			Framework:     biz.BusinessFramework,
			RevenueModels: split(biz.RevenueModel),
			Benchmarks:    orEmpty(biz.Benchmarks),
			Advantages:    split(biz.CompetitiveAdvantages),
		},
	}, nil
}

func (flat) encode(impl model.ImplementationDetail) map[string]interface{} {
	scenarios := make([]string, 0, len(impl.Scenarios))
	for _, s := range impl.Scenarios {
		scenarios = append(scenarios, s.Scenario)
	}
	shortcomings := make([]string, 0, len(impl.TechnicalBreakdown))
	for _, d := range impl.TechnicalBreakdown {
		shortcomings = append(shortcomings, d.Issue)
	}
	b := impl.Business

	return map[string]interface{}{
		"implementation": flatImplementation{
			PainPointSolving:      impl.PainPoint,
			PreciseScenarios:      scenarios,
			TechnicalShortcomings: shortcomings,
			ResearchRoadmap:       impl.ResearchRoadmap,
		},
		"businessFramework": flatBusiness{
			RevenueModel:          strings.Join(b.RevenueModels, flatSeparator),
			BusinessFramework:     b.Framework,
			Benchmarks:            orEmpty(b.Benchmarks),
			CompetitiveAdvantages: strings.Join(b.Advantages, flatSeparator),
		},
	}
}

func split(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, flatSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
