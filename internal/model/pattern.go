// Package model defines the core domain records used throughout the pipeline.
package model

import "fmt"

// PatternCategory identifies the signal family a pattern belongs to.
type PatternCategory string

// Explicit disclosure categories.
const (
	CategoryDirectDisclosure      PatternCategory = "direct_disclosure"
	CategoryHashtagDisclosure     PatternCategory = "hashtag_disclosure"
	CategoryDescriptionDisclosure PatternCategory = "description_disclosure"
)

// Implicit commercial-signal categories.
const (
	CategoryPromotionalLanguage PatternCategory = "promotional_language"
	CategoryCommercialContext   PatternCategory = "commercial_context"
	CategoryPurchaseGuidance    PatternCategory = "purchase_guidance"
	CategoryTimingPressure      PatternCategory = "timing_pressure"
)

// ExplicitCategories lists the categories counted as explicit disclosure.
func ExplicitCategories() []PatternCategory {
	return []PatternCategory{
		CategoryDirectDisclosure,
		CategoryHashtagDisclosure,
		CategoryDescriptionDisclosure,
	}
}

// ImplicitCategories lists the categories counted as implicit commercial signals.
func ImplicitCategories() []PatternCategory {
	return []PatternCategory{
		CategoryPromotionalLanguage,
		CategoryCommercialContext,
		CategoryPurchaseGuidance,
		CategoryTimingPressure,
	}
}

// IsExplicit reports whether the category is a direct disclosure signal.
func (c PatternCategory) IsExplicit() bool {
	switch c {
	case CategoryDirectDisclosure, CategoryHashtagDisclosure, CategoryDescriptionDisclosure:
		return true
	default:
		return false
	}
}

// Pattern is one weighted textual indicator from the catalog. Patterns are
// loaded once at startup and never mutated.
type Pattern struct {
	Text        string          `json:"text" yaml:"text"`
	Weight      float64         `json:"weight" yaml:"weight"`
	Category    PatternCategory `json:"category" yaml:"category"`
	Description string          `json:"description" yaml:"description"`
}

// Validate checks the pattern against the catalog's load-time invariants.
func (p Pattern) Validate() error {
	if p.Text == "" {
		return fmt.Errorf("pattern has empty text (category %s)", p.Category)
	}
	if p.Weight < 0 || p.Weight > 1 {
		return fmt.Errorf("pattern %q has weight %.3f outside [0,1]", p.Text, p.Weight)
	}
	if p.Category == "" {
		return fmt.Errorf("pattern %q has no category", p.Text)
	}
	return nil
}

// MatchKind identifies which matching strategy produced a match.
type MatchKind string

// Match kinds, from strongest to weakest evidence.
const (
	MatchExact     MatchKind = "exact"
	MatchFuzzy     MatchKind = "fuzzy"
	MatchSubstring MatchKind = "substring"
)

// Match is a single accepted pattern hit against the analyzed text.
type Match struct {
	Pattern     Pattern   `json:"pattern"`
	Start       int       `json:"start"`
	End         int       `json:"end"`
	MatchedText string    `json:"matched_text"`
	Confidence  float64   `json:"confidence"`
	Kind        MatchKind `json:"kind"`
}

// Overlaps reports whether two matches share any character position.
func (m Match) Overlaps(other Match) bool {
	return m.Start < other.End && other.Start < m.End
}

// PatternScore aggregates a text's matches into explicit and implicit signal
// strengths. One is derived per analyzed item; it is read-only after creation.
type PatternScore struct {
	ExplicitScore    float64         `json:"explicit_score"`
	ImplicitScore    float64         `json:"implicit_score"`
	CombinedScore    float64         `json:"combined_score"`
	Confidence       float64         `json:"confidence"`
	EvidenceCount    int             `json:"evidence_count"`
	DominantCategory PatternCategory `json:"dominant_category"`
	Reasoning        []string        `json:"reasoning"`
}
