package model

// Category is the final PPL verdict bucket. Each classification call is a
// fresh, terminal decision; there are no transitions between categories.
type Category string

// Classification categories.
const (
	CategoryHighPPL   Category = "high_ppl_likely"
	CategoryMediumPPL Category = "medium_ppl_possible"
	CategoryLowPPL    Category = "low_ppl_unlikely"
	CategoryOrganic   Category = "no_ppl_organic"
	CategoryUnknown   Category = "unknown_error"
)

// Severity orders categories from least to most severe. UNKNOWN sits outside
// the ordering and reports -1.
func (c Category) Severity() int {
	switch c {
	case CategoryOrganic:
		return 0
	case CategoryLowPPL:
		return 1
	case CategoryMediumPPL:
		return 2
	case CategoryHighPPL:
		return 3
	default:
		return -1
	}
}

// ConfidenceLevel expresses how much the pipeline trusts its own verdict.
type ConfidenceLevel string

// Confidence levels.
const (
	ConfidenceHigh    ConfidenceLevel = "high"
	ConfidenceMedium  ConfidenceLevel = "medium"
	ConfidenceLow     ConfidenceLevel = "low"
	ConfidenceOrganic ConfidenceLevel = "organic"
)

// Recommended actions for downstream automation.
const (
	ActionFilterOut          = "FILTER_OUT"
	ActionManualReview       = "MANUAL_REVIEW"
	ActionProceedWithCaution = "PROCEED_WITH_CAUTION"
	ActionProceed            = "PROCEED"
	ActionExpertReview       = "EXPERT_REVIEW"
)

// ClassificationMetadata echoes the classifier's inputs and parameters for
// audit. Absent optional fields are typed possibilities, not missing map keys.
type ClassificationMetadata struct {
	ComponentScores    ComponentScores    `json:"component_scores"`
	ContextIndicators  []string           `json:"context_indicators,omitempty"`
	AnalysisConfidence float64            `json:"analysis_confidence"`
	ThresholdsUsed     map[string]float64 `json:"thresholds_used,omitempty"`
	FeaturesApplied    bool               `json:"features_applied,omitempty"`
	AdjustedScore      float64            `json:"adjusted_score,omitempty"`
	Error              string             `json:"error,omitempty"`
}

// ClassificationResult is the actionable verdict for one item.
type ClassificationResult struct {
	Category          Category               `json:"category"`
	ConfidenceLevel   ConfidenceLevel        `json:"confidence_level"`
	ProbabilityScore  float64                `json:"probability_score"`
	RiskLevel         string                 `json:"risk_level"`
	RecommendedAction string                 `json:"recommended_action"`
	FilteringDecision bool                   `json:"filtering_decision"`
	Labels            []string               `json:"labels"`
	Metadata          ClassificationMetadata `json:"metadata"`
}
