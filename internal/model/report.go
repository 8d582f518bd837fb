package model

import "time"

// Report is the envelope around one successful evaluation round trip.
// It lives in memory for the current session; files are written only on request.
type Report struct {
	ID        string    `json:"id"`
	Idea      Idea      `json:"idea"`
	Policy    string    `json:"policy"`   // Rubric policy name (eng, med, ...)
	Provider  string    `json:"provider"` // gemini, openai, anthropic, ollama
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`

	Result EvaluationResult `json:"result"`

	Signals []Signal `json:"signals,omitempty"` // Diagnostics, never change the model's scores
}

// Signal represents a diagnostic signal with transparent data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalScoreConsistency SignalType = "score_consistency" // overallScore vs sum of dimensions
	SignalWeakDimension    SignalType = "weak_dimension"    // Dimension below 60% of its max
	SignalBridgeDimension  SignalType = "bridge_dimension"  // Dimension answered with a bridge strategy
	SignalShallowComment   SignalType = "shallow_comment"   // Expert comment under the requested depth
	SignalNoPivots         SignalType = "no_pivots"         // No topic pivots suggested
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)
