package model

// DimensionKey names one of the five fixed scoring axes
type DimensionKey string

const (
	DimInnovation DimensionKey = "innovation"
	DimEducation  DimensionKey = "education"
	DimBusiness   DimensionKey = "business"
	DimTeam       DimensionKey = "team"
	DimSocial     DimensionKey = "social"
)

// DimensionKeys is the closed dimension set in report order
var DimensionKeys = []DimensionKey{DimInnovation, DimEducation, DimBusiness, DimTeam, DimSocial}

// Label returns the short Chinese label used in reports and charts
func (k DimensionKey) Label() string {
	switch k {
	case DimInnovation:
		return "创新"
	case DimEducation:
		return "教育"
	case DimBusiness:
		return "商业"
	case DimTeam:
		return "团队"
	case DimSocial:
		return "社会"
	default:
		return string(k)
	}
}

// IsDimension reports whether key belongs to the closed dimension set
func IsDimension(key string) bool {
	for _, k := range DimensionKeys {
		if string(k) == key {
			return true
		}
	}
	return false
}

// DimensionDetail is the assessment of one dimension
type DimensionDetail struct {
	Score         float64  `json:"score"`
	MaxScore      float64  `json:"maxScore"`
	ScoringPoints []string `json:"scoringPoints"`
	Weakness      string   `json:"weakness"`
	Improvement   string   `json:"improvement"`

	// BridgeStrategy is set for dimensions the idea does not naturally address.
	// When present it replaces Weakness/Improvement in rendering.
	BridgeStrategy string `json:"bridgeStrategy,omitempty"`
}

// HasBridge reports whether the bridge strategy replaces weakness/improvement
func (d DimensionDetail) HasBridge() bool {
	return d.BridgeStrategy != ""
}

// Dimensions holds exactly one detail per dimension key
type Dimensions struct {
	Innovation DimensionDetail `json:"innovation"`
	Education  DimensionDetail `json:"education"`
	Business   DimensionDetail `json:"business"`
	Team       DimensionDetail `json:"team"`
	Social     DimensionDetail `json:"social"`
}

// Get returns the detail for key; unknown keys yield the zero value and false
func (d *Dimensions) Get(key DimensionKey) (DimensionDetail, bool) {
	p := d.slot(key)
	if p == nil {
		return DimensionDetail{}, false
	}
	return *p, true
}

// Set stores the detail for key; unknown keys are ignored and reported as false
func (d *Dimensions) Set(key DimensionKey, detail DimensionDetail) bool {
	p := d.slot(key)
	if p == nil {
		return false
	}
	*p = detail
	return true
}

func (d *Dimensions) slot(key DimensionKey) *DimensionDetail {
	switch key {
	case DimInnovation:
		return &d.Innovation
	case DimEducation:
		return &d.Education
	case DimBusiness:
		return &d.Business
	case DimTeam:
		return &d.Team
	case DimSocial:
		return &d.Social
	}
	return nil
}

// TopicPivot is a suggested alternative framing of the idea
type TopicPivot struct {
	NewTitle  string `json:"newTitle"`
	Logic     string `json:"logic"`
	Potential string `json:"potential"`
}

// Scenario is a concrete application scenario and the problem it solves
type Scenario struct {
	Scenario      string `json:"scenario"`
	ProblemSolved string `json:"problemSolved,omitempty"`
}

// TechnicalDiagnostic is one technical shortcoming and its optimization path
type TechnicalDiagnostic struct {
	Component    string `json:"component,omitempty"`
	Issue        string `json:"issue"`
	Optimization string `json:"optimization,omitempty"`
}

// BusinessFramework covers the revenue model, benchmarks and competitive position
type BusinessFramework struct {
	Framework       string   `json:"framework"`
	RevenueModels   []string `json:"revenueModels"`
	OperationLogic  string   `json:"operationLogic,omitempty"`
	Benchmarks      []string `json:"benchmarks"`
	Advantages      []string `json:"advantages"`
	MarketProspect  string   `json:"marketProspect,omitempty"`
	CompetitiveMoat string   `json:"competitiveMoat,omitempty"`
}

// ImplementationDetail is the canonical implementation bundle. Every rubric
// policy normalizes its own wire shape into this one.
type ImplementationDetail struct {
	PainPoint          string                `json:"painPoint,omitempty"`
	Scenarios          []Scenario            `json:"scenarios"`
	TechnicalBreakdown []TechnicalDiagnostic `json:"technicalBreakdown"`
	ResearchRoadmap    string                `json:"researchRoadmap,omitempty"`
	Business           BusinessFramework     `json:"business"`
}

// EvaluationResult is the validated, normalized outcome of one evaluation
type EvaluationResult struct {
	OverallScore   float64              `json:"overallScore"`
	Dimensions     Dimensions           `json:"dimensions"`
	TopicPivots    []TopicPivot         `json:"topicPivots"`
	Implementation ImplementationDetail `json:"implementation"`
	ExpertComment  string               `json:"expertComment"`
}

// DimensionTotal sums the dimension scores
func (r *EvaluationResult) DimensionTotal() float64 {
	total := 0.0
	for _, key := range DimensionKeys {
		d, _ := r.Dimensions.Get(key)
		total += d.Score
	}
	return total
}

// RadarPoint is one normalized axis value for the radar chart
type RadarPoint struct {
	Key   DimensionKey `json:"key"`
	Label string       `json:"label"`
	Value float64      `json:"value"` // 0-10
}

// Radar normalizes every dimension score to a 0-10 scale
func (r *EvaluationResult) Radar() []RadarPoint {
	points := make([]RadarPoint, 0, len(DimensionKeys))
	for _, key := range DimensionKeys {
		d, _ := r.Dimensions.Get(key)
		value := 0.0
		if d.MaxScore > 0 {
			value = d.Score / d.MaxScore * 10
		}
		points = append(points, RadarPoint{Key: key, Label: key.Label(), Value: value})
	}
	return points
}
