package model

import "time"

// AnalysisInput is the per-item input contract. All text fields are required
// but may be empty; empty text simply yields no pattern matches.
type AnalysisInput struct {
	VideoTitle        string         `json:"video_title" yaml:"video_title"`
	VideoDescription  string         `json:"video_description" yaml:"video_description"`
	TranscriptExcerpt string         `json:"transcript_excerpt" yaml:"transcript_excerpt"`
	VideoMetadata     map[string]any `json:"video_metadata,omitempty" yaml:"video_metadata,omitempty"`
}

// CombinedText joins the three text fields for pattern scanning. Empty fields
// contribute nothing.
func (in AnalysisInput) CombinedText() string {
	text := in.VideoTitle
	if in.VideoDescription != "" {
		if text != "" {
			text += "\n"
		}
		text += in.VideoDescription
	}
	if in.TranscriptExcerpt != "" {
		if text != "" {
			text += "\n"
		}
		text += in.TranscriptExcerpt
	}
	return text
}

// ContextResult is the oracle adapter's judgment of commercial intent.
// RawResponse preserves the unparsed oracle output for audit even when the
// adapter fell back to heuristics.
type ContextResult struct {
	CommercialLikelihood float64  `json:"commercial_likelihood"`
	Reasoning            string   `json:"reasoning"`
	KeyIndicators        []string `json:"key_indicators"`
	Confidence           float64  `json:"confidence"`
	RawResponse          string   `json:"raw_response,omitempty"`
	Fallback             bool     `json:"fallback,omitempty"`
}

// ComponentScores breaks the final probability into its weighted inputs.
type ComponentScores struct {
	Explicit float64 `json:"explicit"`
	Implicit float64 `json:"implicit"`
	Context  float64 `json:"context"`
}

// Coarse classification buckets produced by the probability calculator.
const (
	CoarseHighPPL   = "high_ppl_likely"
	CoarseMediumPPL = "medium_ppl_possible"
	CoarseLowPPL    = "low_ppl_unlikely"
	CoarseOrganic   = "no_ppl_organic"
	CoarseUnknown   = "unknown_error"
)

// ProbabilityResult is the single source of truth for how PPL-like an item is.
type ProbabilityResult struct {
	FinalProbability float64         `json:"final_probability"`
	Classification   string          `json:"classification"`
	ConfidenceLevel  string          `json:"confidence_level"`
	ComponentScores  ComponentScores `json:"component_scores"`
	ReasoningSummary string          `json:"reasoning_summary"`
}

// AnalysisResult is the orchestrator's only return type: the complete record
// of one item's analysis, serializable as a flat record for downstream
// collaborators.
type AnalysisResult struct {
	ID              string               `json:"id"`
	IsPPL           bool                 `json:"is_ppl"`
	PPLProbability  float64              `json:"ppl_probability"`
	ConfidenceLevel ConfidenceLevel      `json:"confidence_level"`
	PatternScore    PatternScore         `json:"pattern_score"`
	ExplicitMatches []Match              `json:"explicit_matches"`
	ImplicitMatches []Match              `json:"implicit_matches"`
	ContextAnalysis ContextResult        `json:"context_analysis"`
	Probability     ProbabilityResult    `json:"probability"`
	Classification  ClassificationResult `json:"classification"`
	ReasoningReport ReasoningReport      `json:"reasoning_report"`
	Duration        time.Duration        `json:"duration"`
	AnalyzedAt      time.Time            `json:"analyzed_at"`
}
