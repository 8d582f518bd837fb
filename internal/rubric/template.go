package rubric

import (
	"fmt"
	"strings"

	"github.com/ppiankov/ideajudge/internal/model"
)

const persona = "你现在是中国国际大学生创新大赛（2026）国家级评审专家组组长。\n" +
	"请针对以下项目信息提供深度、详尽、极具专业洞察力的中文评审报告。"

// renderInstruction writes the instruction in a fixed section order.
// Nothing here iterates a map, so equal inputs give byte-identical output.
func renderInstruction(p *policy, idea model.Idea, cat Category) string {
	var b strings.Builder

	b.WriteString(persona)
	b.WriteString("\n\n### 评审逻辑指引：\n")
	b.WriteString("1. **脱敏处理**：在生成“选题优化建议”(topicPivots)时，请确保提供的新标题具有高度原创性，" +
		"严禁直接套用历届国赛金奖项目的真实名称，应通过“核心技术词+场景动词+宏大愿景”进行重构。\n")

	fmt.Fprintf(&b, "2. **%s专业性**：\n", p.label)
	for _, clause := range p.focus {
		fmt.Fprintf(&b, "   - %s\n", clause)
	}

	b.WriteString("3. **专家研判深度指标**：\n")
	fmt.Fprintf(&b, "   - **诊断总评**(expertComment)：不少于%d字，需包含项目在当前“四新”背景下的战略卡位分析。\n", p.MinCommentRunes())
	b.WriteString("   - **技术研判**：实施“细胞级”拆解，指出具体环节的物理/工程局限。\n")
	b.WriteString("   - **商业模式**：输出包含核心资源、关键业务、渠道通路、收入来源的完整逻辑。\n")

	b.WriteString("\n### 评分权重：\n")
	for _, key := range model.DimensionKeys {
		w := p.weights[key]
		fmt.Fprintf(&b, "- %s维度 %s：满分 %g 分，score 取值 0-%g，maxScore 必须为 %g\n", key.Label(), key, w, w, w)
	}
	fmt.Fprintf(&b, "- overallScore 为五个维度 score 之和，取值 0-%g\n", p.weights.Total())

	b.WriteString("\n### 维度填写要求：\n")
	b.WriteString("- 每个维度给出 scoringPoints（得分点）、weakness（短板）与 improvement（改进建议）。\n")
	b.WriteString("- 若项目在该维度不具备天然优势，额外给出 bridgeStrategy（桥接策略），说明如何把项目与该维度的评审要点连接起来；否则不填写 bridgeStrategy。\n")

	b.WriteString("\n### 落地实施输出要求：\n")
	for _, line := range p.shape.guidance() {
		fmt.Fprintf(&b, "- %s\n", line)
	}

	b.WriteString("\n### 待评项目信息：\n")
	fmt.Fprintf(&b, "- 赛道：%s\n", idea.Track)
	fmt.Fprintf(&b, "- 细分方向：%s（%s）\n", cat.Label, cat.Code)
	fmt.Fprintf(&b, "- 项目题名：%s\n", idea.Title)
	fmt.Fprintf(&b, "- 核心思路描述：%s\n", idea.Description)

	b.WriteString("\n请严格按JSON输出，不要输出JSON以外的任何文字，内容需详尽、全面、具有指导意义。\n")

	return b.String()
}
