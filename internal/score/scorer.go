// Package score derives diagnostic signals from a validated evaluation.
// Signals are advisory: they never change the scores the model assigned.
package score

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/ppiankov/ideajudge/internal/model"
	"github.com/ppiankov/ideajudge/internal/rubric"
)

// WeakRatio is the share of a dimension's maximum below which it is flagged
const WeakRatio = 0.6

// Scorer generates diagnostic signals for evaluation results
type Scorer struct {
	minCommentRunes int
}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{minCommentRunes: rubric.MinCommentRunes}
}

// Diagnose inspects a validated result and returns its signals in a fixed order:
// consistency first, then per-dimension signals in dimension order, then comment and pivots.
func (s *Scorer) Diagnose(result *model.EvaluationResult) []model.Signal {
	if result == nil {
		return nil
	}

	signals := []model.Signal{s.checkConsistency(result)}

	for _, key := range model.DimensionKeys {
		d, _ := result.Dimensions.Get(key)
		if sig, ok := s.checkWeak(key, d); ok {
			signals = append(signals, sig)
		}
		if d.HasBridge() {
			signals = append(signals, model.Signal{
				Type:        model.SignalBridgeDimension,
				Severity:    model.SeverityInfo,
				Description: fmt.Sprintf("%s维度与项目关联较弱，已给出桥接策略", key.Label()),
				Data: map[string]interface{}{
					"dimension": string(key),
				},
			})
		}
	}

	if sig, ok := s.checkComment(result.ExpertComment); ok {
		signals = append(signals, sig)
	}

	if len(result.TopicPivots) == 0 {
		signals = append(signals, model.Signal{
			Type:        model.SignalNoPivots,
			Severity:    model.SeverityInfo,
			Description: "未给出选题升维建议",
			Data:        map[string]interface{}{"pivots": 0},
		})
	}

	return signals
}

// checkConsistency compares overallScore with the sum of dimension scores
func (s *Scorer) checkConsistency(result *model.EvaluationResult) model.Signal {
	sum := result.DimensionTotal()
	diff := result.OverallScore - sum

	severity := model.SeverityInfo
	switch abs := math.Abs(diff); {
	case abs > 5:
		severity = model.SeverityCritical
	case abs > 0.5:
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalScoreConsistency,
		Severity:    severity,
		Description: fmt.Sprintf("总分 %g，维度合计 %g，差值 %+g", result.OverallScore, sum, diff),
		Data: map[string]interface{}{
			"overall":   result.OverallScore,
			"sum":       sum,
			"diff":      diff,
			"tolerance": 0.5,
		},
	}
}

// checkWeak flags a dimension scored below WeakRatio of its maximum
func (s *Scorer) checkWeak(key model.DimensionKey, d model.DimensionDetail) (model.Signal, bool) {
	if d.MaxScore <= 0 {
		return model.Signal{}, false
	}
	ratio := d.Score / d.MaxScore
	if ratio >= WeakRatio {
		return model.Signal{}, false
	}

	severity := model.SeverityWarning
	if ratio < WeakRatio/2 {
		severity = model.SeverityCritical
	}

	return model.Signal{
		Type:        model.SignalWeakDimension,
		Severity:    severity,
		Description: fmt.Sprintf("%s维度得分 %g/%g，低于满分的 %.0f%%", key.Label(), d.Score, d.MaxScore, WeakRatio*100),
		Data: map[string]interface{}{
			"dimension": string(key),
			"score":     d.Score,
			"max":       d.MaxScore,
			"ratio":     ratio,
			"formula":   "score / maxScore < 0.6",
		},
	}, true
}

func (s *Scorer) checkComment(comment string) (model.Signal, bool) {
	n := utf8.RuneCountInString(comment)
	if n >= s.minCommentRunes {
		return model.Signal{}, false
	}
	return model.Signal{
		Type:        model.SignalShallowComment,
		Severity:    model.SeverityWarning,
		Description: fmt.Sprintf("专家点评 %d 字，少于要求的 %d 字", n, s.minCommentRunes),
		Data: map[string]interface{}{
			"runes":    n,
			"required": s.minCommentRunes,
		},
	}, true
}
