package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ppiankov/ideajudge/internal/model"
	"github.com/ppiankov/ideajudge/internal/rubric"
	"github.com/ppiankov/ideajudge/internal/schema"
)

// scoreTolerance absorbs float noise in model-reported scores
const scoreTolerance = 1e-6

// Validator turns raw model text into a trusted EvaluationResult.
// It is stateless and safe for concurrent use.
type Validator struct{}

// NewValidator creates a validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate parses raw, checks it against the policy contract and score
// bounds, and normalizes it into the canonical result shape.
func (v *Validator) Validate(raw string, policy rubric.Policy) (*model.EvaluationResult, error) {
	if policy == nil {
		return nil, &MalformedResponseError{Reason: "no rubric policy"}
	}

	text := CleanOutput(raw)
	if text == "" {
		return nil, &MalformedResponseError{Reason: "empty response"}
	}
	if !gjson.Valid(text) {
		return nil, &MalformedResponseError{Reason: "response is not valid JSON"}
	}

	doc := gjson.Parse(text)
	if !doc.IsObject() {
		return nil, &MalformedResponseError{Reason: "top-level value is not an object"}
	}

	if violations := schema.Check(policy.Schema(), doc); len(violations) > 0 {
		return nil, &MalformedResponseError{Reason: "response violates contract", Violations: violations}
	}

	if violations := checkBounds(doc, policy.Weights()); len(violations) > 0 {
		return nil, &MalformedResponseError{Reason: "scores out of bounds", Violations: violations}
	}

	result, err := policy.Normalize([]byte(text))
	if err != nil {
		return nil, &MalformedResponseError{Reason: "normalize", Err: err}
	}
	return result, nil
}

// CleanOutput strips whitespace and a surrounding markdown code fence
func CleanOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// checkBounds enforces the weight table on an already structurally valid document
func checkBounds(doc gjson.Result, weights rubric.Weights) []schema.Violation {
	var out []schema.Violation
	add := func(path, format string, args ...interface{}) {
		out = append(out, schema.Violation{Path: path, Reason: fmt.Sprintf(format, args...)})
	}

	total := weights.Total()
	overall := doc.Get("overallScore").Float()
	if overall < -scoreTolerance || overall > total+scoreTolerance {
		add("$.overallScore", "%g outside [0, %g]", overall, total)
	}

	dims := doc.Get("dimensions")
	for _, key := range model.DimensionKeys {
		path := "$.dimensions." + string(key)
		d := dims.Get(string(key))
		weight := weights[key]

		maxScore := d.Get("maxScore").Float()
		if math.Abs(maxScore-weight) > scoreTolerance {
			add(path+".maxScore", "%g does not match weight %g", maxScore, weight)
		}

		score := d.Get("score").Float()
		if score < -scoreTolerance || score > weight+scoreTolerance {
			add(path+".score", "%g outside [0, %g]", score, weight)
		}

		bridge := strings.TrimSpace(d.Get("bridgeStrategy").String())
		weakness := strings.TrimSpace(d.Get("weakness").String())
		improvement := strings.TrimSpace(d.Get("improvement").String())
		if bridge == "" && (weakness == "" || improvement == "") {
			add(path, "needs a bridge strategy or both weakness and improvement")
		}
	}

	return out
}
