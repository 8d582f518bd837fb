package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/ideajudge/internal/model"
)

// Renderer writes reports as JSON, Markdown and a terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report envelope as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadJSON reads a report written by RenderJSON
func LoadJSON(path string) (*model.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &report, nil
}

// RenderMarkdown writes Markdown(report) to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	if err := os.WriteFile(path, []byte(r.Markdown(report)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Markdown renders the full report
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder
	res := &report.Result

	fmt.Fprintf(&b, "# %s\n\n", report.Idea.Title)
	fmt.Fprintf(&b, "| 项目 | 内容 |\n|---|---|\n")
	fmt.Fprintf(&b, "| 赛道 | %s |\n", report.Idea.Track)
	fmt.Fprintf(&b, "| 细分方向 | %s |\n", report.Idea.Category)
	fmt.Fprintf(&b, "| 评审规则 | %s |\n", report.Policy)
	fmt.Fprintf(&b, "| 综合得分 | **%g** / 100 |\n\n", res.OverallScore)

	b.WriteString("## 五维评估\n\n")
	b.WriteString("| 维度 | 得分 | 满分 | 雷达值 |\n|---|---|---|---|\n")
	radar := res.Radar()
	for i, key := range model.DimensionKeys {
		d, _ := res.Dimensions.Get(key)
		fmt.Fprintf(&b, "| %s | %g | %g | %.1f |\n", key.Label(), d.Score, d.MaxScore, radar[i].Value)
	}
	b.WriteString("\n")

	for _, key := range model.DimensionKeys {
		d, _ := res.Dimensions.Get(key)
		fmt.Fprintf(&b, "### %s（%g/%g）\n\n", key.Label(), d.Score, d.MaxScore)
		for _, point := range d.ScoringPoints {
			fmt.Fprintf(&b, "- %s\n", point)
		}
		if len(d.ScoringPoints) > 0 {
			b.WriteString("\n")
		}
		if d.HasBridge() {
			fmt.Fprintf(&b, "**桥接策略：** %s\n\n", d.BridgeStrategy)
		} else {
			fmt.Fprintf(&b, "**不足：** %s\n\n", d.Weakness)
			fmt.Fprintf(&b, "**改进：** %s\n\n", d.Improvement)
		}
	}

	if len(res.TopicPivots) > 0 {
		b.WriteString("## 选题升维建议\n\n")
		for i, pivot := range res.TopicPivots {
			fmt.Fprintf(&b, "%d. **%s**\n   - 逻辑：%s\n   - 潜力：%s\n", i+1, pivot.NewTitle, pivot.Logic, pivot.Potential)
		}
		b.WriteString("\n")
	}

	writeImplementation(&b, &res.Implementation)

	b.WriteString("## 专家点评\n\n")
	b.WriteString(res.ExpertComment)
	b.WriteString("\n\n")

	if len(report.Signals) > 0 {
		b.WriteString("## 诊断信号\n\n")
		for _, sig := range report.Signals {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", sig.Severity, sig.Type, sig.Description)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\n*ideajudge · %s · %s/%s · %s*\n",
			report.ID, report.Provider, report.Model, report.CreatedAt.Format("2006-01-02 15:04 MST"))
	}

	return b.String()
}

func writeImplementation(b *strings.Builder, impl *model.ImplementationDetail) {
	b.WriteString("## 落地方案\n\n")

	if impl.PainPoint != "" {
		fmt.Fprintf(b, "**痛点：** %s\n\n", impl.PainPoint)
	}

	if len(impl.Scenarios) > 0 {
		b.WriteString("### 应用场景\n\n")
		for _, s := range impl.Scenarios {
			if s.ProblemSolved != "" {
				fmt.Fprintf(b, "- %s：%s\n", s.Scenario, s.ProblemSolved)
			} else {
				fmt.Fprintf(b, "- %s\n", s.Scenario)
			}
		}
		b.WriteString("\n")
	}

	if len(impl.TechnicalBreakdown) > 0 {
		b.WriteString("### 技术诊断\n\n")
		for _, t := range impl.TechnicalBreakdown {
			line := t.Issue
			if t.Component != "" {
				line = t.Component + "：" + line
			}
			if t.Optimization != "" {
				line += " → " + t.Optimization
			}
			fmt.Fprintf(b, "- %s\n", line)
		}
		b.WriteString("\n")
	}

	if impl.ResearchRoadmap != "" {
		fmt.Fprintf(b, "**研究路线：** %s\n\n", impl.ResearchRoadmap)
	}

	biz := &impl.Business
	b.WriteString("### 商业框架\n\n")
	if biz.Framework != "" {
		fmt.Fprintf(b, "%s\n\n", biz.Framework)
	}
	writeList(b, "盈利模式", biz.RevenueModels)
	if biz.OperationLogic != "" {
		fmt.Fprintf(b, "**运营逻辑：** %s\n\n", biz.OperationLogic)
	}
	writeList(b, "对标案例", biz.Benchmarks)
	writeList(b, "竞争优势", biz.Advantages)
	if biz.MarketProspect != "" {
		fmt.Fprintf(b, "**市场前景：** %s\n\n", biz.MarketProspect)
	}
	if biz.CompetitiveMoat != "" {
		fmt.Fprintf(b, "**竞争壁垒：** %s\n\n", biz.CompetitiveMoat)
	}
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s：**\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

// RenderSummary prints a short terminal summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	res := &report.Result

	fmt.Fprintf(w, "\n%s\n", report.Idea.Title)
	fmt.Fprintf(w, "%s · %s · policy=%s\n", report.Idea.Track, report.Idea.Category, report.Policy)
	fmt.Fprintf(w, "Overall: %g/100\n\n", res.OverallScore)

	for _, key := range model.DimensionKeys {
		d, _ := res.Dimensions.Get(key)
		marker := ""
		if d.HasBridge() {
			marker = "  (bridge)"
		}
		fmt.Fprintf(w, "  %s  %5g/%-3g %s%s\n", key.Label(), d.Score, d.MaxScore, bar(d.Score, d.MaxScore, 20), marker)
	}

	warnings := 0
	for _, sig := range report.Signals {
		if sig.Severity != model.SeverityInfo {
			warnings++
		}
	}
	if warnings > 0 {
		fmt.Fprintf(w, "\n%d diagnostic warning(s); see the Markdown report for details\n", warnings)
	}
}

func bar(score, top float64, width int) string {
	if top <= 0 {
		return strings.Repeat("░", width)
	}
	filled := int(score / top * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
