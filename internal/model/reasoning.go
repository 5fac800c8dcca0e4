package model

import "time"

// DecisionFactors summarizes the quantitative inputs behind a verdict.
type DecisionFactors struct {
	ExplicitMatchCount   int     `json:"explicit_match_count"`
	ImplicitMatchCount   int     `json:"implicit_match_count"`
	TopMatchConfidence   float64 `json:"top_match_confidence"`
	CommercialLikelihood float64 `json:"commercial_likelihood"`
	IndicatorCount       int     `json:"indicator_count"`
	AnalysisConfidence   float64 `json:"analysis_confidence"`
	FinalProbability     float64 `json:"final_probability"`
	Classification       string  `json:"classification"`
}

// TransparencyData is the full structured echo of every pipeline input,
// intended for audit and debugging rather than end-user display.
type TransparencyData struct {
	PatternScore   PatternScore         `json:"pattern_score"`
	Context        ContextResult        `json:"context"`
	Probability    ProbabilityResult    `json:"probability"`
	Classification ClassificationResult `json:"classification"`
	VideoMetadata  map[string]any       `json:"video_metadata,omitempty"`
	Error          bool                 `json:"error"`
	ErrorMessage   string               `json:"error_message,omitempty"`
}

// ReasoningReport is the append-only transparency record for one analyzed
// item. It is never mutated after creation.
type ReasoningReport struct {
	AnalysisSummary       string           `json:"analysis_summary"`
	DetailedReasoning     string           `json:"detailed_reasoning"`
	KeyEvidence           []string         `json:"key_evidence"`
	ConfidenceExplanation string           `json:"confidence_explanation"`
	DecisionFactors       DecisionFactors  `json:"decision_factors"`
	TransparencyData      TransparencyData `json:"transparency_data"`
	GeneratedAt           time.Time        `json:"generated_at"`
}
