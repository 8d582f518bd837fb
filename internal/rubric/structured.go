package rubric

import (
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/ppiankov/ideajudge/internal/model"
	"github.com/ppiankov/ideajudge/internal/schema"
)

// structured asks for object-valued scenarios, a per-component technical
// breakdown, and separate business model and market benchmarking blocks.
type structured struct{}

type structuredScenario struct {
	Scenario      string `json:"scenario"`
	ProblemSolved string `json:"problemSolved"`
}

type structuredDiagnostic struct {
	Component    string `json:"component"`
	Issue        string `json:"issue"`
	Optimization string `json:"optimization"`
}

type structuredBusinessModel struct {
	Framework      string   `json:"framework"`
	ProfitModels   []string `json:"profitModels"`
	OperationLogic string   `json:"operationLogic"`
}

type structuredBenchmarking struct {
	Leaders         []string `json:"leaders"`
	OurAdvantages   []string `json:"ourAdvantages"`
	MarketProspect  string   `json:"marketProspect"`
	CompetitiveMoat string   `json:"competitiveMoat"`
}

type structuredImplementation struct {
	PreciseScenarios   []structuredScenario    `json:"preciseScenarios"`
	TechnicalBreakdown []structuredDiagnostic  `json:"technicalBreakdown"`
	BusinessModel      structuredBusinessModel `json:"businessModel"`
	MarketBenchmarking structuredBenchmarking  `json:"marketBenchmarking"`
}

func (structured) fields() schema.Fields {
	return schema.Fields{
		"implementation": schema.Object("落地实施方案", map[string]jsonschema.Definition{
			"preciseScenarios": schema.ObjectList("精准应用场景", map[string]jsonschema.Definition{
				"scenario":      schema.Str("场景"),
				"problemSolved": schema.Str("解决的问题"),
			}),
			"technicalBreakdown": schema.ObjectList("技术细胞级拆解", map[string]jsonschema.Definition{
				"component":    schema.Str("技术环节"),
				"issue":        schema.Str("物理/工程局限"),
				"optimization": schema.Str("优化路径"),
			}),
			"businessModel": schema.Object("商业模式", map[string]jsonschema.Definition{
				"framework":      schema.Str("核心资源、关键业务、渠道通路与收入来源"),
				"profitModels":   schema.StrList("盈利模式"),
				"operationLogic": schema.Str("运营逻辑"),
			}),
			"marketBenchmarking": schema.Object("市场对标", map[string]jsonschema.Definition{
				"leaders":         schema.StrList("行业领先者"),
				"ourAdvantages":   schema.StrList("我方优势"),
				"marketProspect":  schema.Str("市场前景"),
				"competitiveMoat": schema.Str("竞争壁垒"),
			}),
		}),
	}
}

func (structured) guidance() []string {
	return []string{
		"implementation.preciseScenarios：列出精准应用场景，每项给出 scenario 与 problemSolved。",
		"implementation.technicalBreakdown：按技术环节逐项给出 component、issue（具体的物理/工程局限）与 optimization。",
		"implementation.businessModel：framework 需覆盖核心资源、关键业务、渠道通路、收入来源；profitModels 列出盈利模式；operationLogic 说明运营逻辑。",
		"implementation.marketBenchmarking：leaders 列出对标的行业领先者，ourAdvantages 列出我方优势，并给出 marketProspect 与 competitiveMoat。",
	}
}

func (structured) decode(raw []byte) (model.ImplementationDetail, error) {
	var doc struct {
		Implementation structuredImplementation `json:"implementation"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.ImplementationDetail{}, fmt.Errorf("decode implementation: %w", err)
	}
	impl := doc.Implementation

	scenarios := make([]model.Scenario, 0, len(impl.PreciseScenarios))
	for _, s := range impl.PreciseScenarios {
		scenarios = append(scenarios, model.Scenario{Scenario: s.Scenario, ProblemSolved: s.ProblemSolved})
	}
	breakdown := make([]model.TechnicalDiagnostic, 0, len(impl.TechnicalBreakdown))
	for _, d := range impl.TechnicalBreakdown {
		breakdown = append(breakdown, model.TechnicalDiagnostic{Component: d.Component, Issue: d.Issue, Optimization: d.Optimization})
	}

	return model.ImplementationDetail{
		Scenarios:          scenarios,
		TechnicalBreakdown: breakdown,
		Business: model.BusinessFramework{
			Framework:       impl.BusinessModel.Framework,
			RevenueModels:   orEmpty(impl.BusinessModel.ProfitModels),
			OperationLogic:  impl.BusinessModel.OperationLogic,
			Benchmarks:      orEmpty(impl.MarketBenchmarking.Leaders),
			Advantages:      orEmpty(impl.MarketBenchmarking.OurAdvantages),
			MarketProspect:  impl.MarketBenchmarking.MarketProspect,
			CompetitiveMoat: impl.MarketBenchmarking.CompetitiveMoat,
		},
	}, nil
}

func (structured) encode(impl model.ImplementationDetail) map[string]interface{} {
	scenarios := make([]structuredScenario, 0, len(impl.Scenarios))
	for _, s := range impl.Scenarios {
		scenarios = append(scenarios, structuredScenario{Scenario: s.Scenario, ProblemSolved: s.ProblemSolved})
	}
	breakdown := make([]structuredDiagnostic, 0, len(impl.TechnicalBreakdown))
	for _, d := range impl.TechnicalBreakdown {
		breakdown = append(breakdown, structuredDiagnostic{Component: d.Component, Issue: d.Issue, Optimization: d.Optimization})
	}
	b := impl.Business

	return map[string]interface{}{
		"implementation": structuredImplementation{
			PreciseScenarios:   scenarios,
			TechnicalBreakdown: breakdown,
			BusinessModel: structuredBusinessModel{
				Framework:      b.Framework,
				ProfitModels:   orEmpty(b.RevenueModels),
				OperationLogic: b.OperationLogic,
			},
			MarketBenchmarking: structuredBenchmarking{
				Leaders:         orEmpty(b.Benchmarks),
				OurAdvantages:   orEmpty(b.Advantages),
				MarketProspect:  b.MarketProspect,
				CompetitiveMoat: b.CompetitiveMoat,
			},
		},
	}
}
