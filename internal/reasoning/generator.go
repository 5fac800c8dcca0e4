// Package reasoning assembles the transparency record for one analyzed item:
// summary, narrative, evidence list, confidence explanation, and the full
// structured audit trail.
package reasoning

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cleanfeed/sifter/internal/model"
)

// Evidence caps keep key_evidence bounded regardless of input size.
const (
	maxExplicitEvidence  = 3
	maxImplicitEvidence  = 2
	maxIndicatorEvidence = 3
)

// Input gathers every upstream artifact the report is derived from.
type Input struct {
	PatternScore    model.PatternScore
	ExplicitMatches []model.Match
	ImplicitMatches []model.Match
	Context         model.ContextResult
	Probability     model.ProbabilityResult
	Classification  model.ClassificationResult
	VideoMetadata   map[string]any
}

// Generator builds ReasoningReports. Pure except for the timestamp; safe for
// concurrent use.
type Generator struct {
	logger *slog.Logger
}

// New returns a Generator.
func New(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{logger: logger}
}

// Generate produces the report. It never panics outward: any internal
// failure yields a degraded report with transparency_data.error set.
func (g *Generator) Generate(in Input) (report model.ReasoningReport) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("reasoning generation panicked", "panic", r)
			report = ErrorReport(fmt.Sprintf("reasoning panic: %v", r))
		}
	}()

	return model.ReasoningReport{
		AnalysisSummary:       summary(in.Probability, in.Classification),
		DetailedReasoning:     narrative(in.Probability, in.Context),
		KeyEvidence:           keyEvidence(in.ExplicitMatches, in.ImplicitMatches, in.Context),
		ConfidenceExplanation: confidenceExplanation(in.Classification.ConfidenceLevel, in.Context.Confidence),
		DecisionFactors: model.DecisionFactors{
			ExplicitMatchCount:   len(in.ExplicitMatches),
			ImplicitMatchCount:   len(in.ImplicitMatches),
			TopMatchConfidence:   topConfidence(in.ExplicitMatches),
			CommercialLikelihood: in.Context.CommercialLikelihood,
			IndicatorCount:       len(in.Context.KeyIndicators),
			AnalysisConfidence:   in.Context.Confidence,
			FinalProbability:     in.Probability.FinalProbability,
			Classification:       in.Probability.Classification,
		},
		TransparencyData: model.TransparencyData{
			PatternScore:   in.PatternScore,
			Context:        in.Context,
			Probability:    in.Probability,
			Classification: in.Classification,
			VideoMetadata:  in.VideoMetadata,
		},
		GeneratedAt: time.Now(),
	}
}

// ErrorReport is the degraded report returned when generation itself fails.
func ErrorReport(message string) model.ReasoningReport {
	return model.ReasoningReport{
		AnalysisSummary:       fmt.Sprintf("error during analysis: %s", message),
		DetailedReasoning:     "a system error prevented normal analysis of this item",
		KeyEvidence:           []string{"system error"},
		ConfidenceExplanation: "confidence cannot be assessed due to an error",
		TransparencyData: model.TransparencyData{
			Error:        true,
			ErrorMessage: message,
		},
		GeneratedAt: time.Now(),
	}
}

var categoryDescriptions = map[model.Category]string{
	model.CategoryHighPPL:   "high-probability PPL content",
	model.CategoryMediumPPL: "moderate PPL likelihood",
	model.CategoryLowPPL:    "low PPL likelihood",
	model.CategoryOrganic:   "organic content",
	model.CategoryUnknown:   "analysis unavailable",
}

func summary(prob model.ProbabilityResult, class model.ClassificationResult) string {
	desc, ok := categoryDescriptions[class.Category]
	if !ok {
		desc = "unclassified"
	}
	return fmt.Sprintf("analysis result: %s (probability: %.1f%%, confidence: %s)",
		desc, prob.FinalProbability*100, class.ConfidenceLevel)
}

// narrative walks the three signal tiers with fixed phrasing per tier and
// closes with the weighted verdict.
func narrative(prob model.ProbabilityResult, context model.ContextResult) string {
	explicit := prob.ComponentScores.Explicit
	implicit := prob.ComponentScores.Implicit
	contextScore := prob.ComponentScores.Context

	var parts []string

	switch {
	case explicit > 0.5:
		parts = append(parts, fmt.Sprintf(
			"Explicit PPL patterns detected (strength: %.1f%%). Direct commercial language or advertising markers were found.", explicit*100))
	case explicit > 0.2:
		parts = append(parts, fmt.Sprintf(
			"Weak explicit patterns detected (strength: %.1f%%). Some commercial phrasing exists but is not strong.", explicit*100))
	default:
		parts = append(parts, "No explicit PPL patterns were detected.")
	}

	switch {
	case implicit > 0.4:
		parts = append(parts, fmt.Sprintf(
			"Implicit commercial signals detected (strength: %.1f%%). Indirect commercial intent or bias is present.", implicit*100))
	case implicit > 0.2:
		parts = append(parts, fmt.Sprintf(
			"Faint implicit signals detected (strength: %.1f%%).", implicit*100))
	}

	switch {
	case contextScore > 0.6:
		parts = append(parts, fmt.Sprintf(
			"Context analysis confirmed high commercial likelihood (score: %.1f%%). %s", contextScore*100, context.Reasoning))
	case contextScore > 0.3:
		parts = append(parts, fmt.Sprintf(
			"Context analysis found moderate commercial signals (score: %.1f%%).", contextScore*100))
	default:
		parts = append(parts, "Context analysis indicates organic content characteristics.")
	}

	parts = append(parts, fmt.Sprintf(
		"Weighted blending of all components yields a final PPL probability of %.1f%%.",
		prob.FinalProbability*100))

	return strings.Join(parts, " ")
}

func keyEvidence(explicit, implicit []model.Match, context model.ContextResult) []string {
	var evidence []string

	for i, m := range explicit {
		if i == maxExplicitEvidence {
			break
		}
		if m.Confidence > 0.5 {
			evidence = append(evidence, fmt.Sprintf(
				"explicit pattern: %q (confidence: %.1f%%)", m.MatchedText, m.Confidence*100))
		}
	}

	for i, m := range implicit {
		if i == maxImplicitEvidence {
			break
		}
		if m.Confidence > 0.4 {
			evidence = append(evidence, fmt.Sprintf(
				"implicit pattern: %s signal detected", m.Pattern.Category))
		}
	}

	for i, indicator := range context.KeyIndicators {
		if i == maxIndicatorEvidence {
			break
		}
		evidence = append(evidence, fmt.Sprintf("context indicator: %s", indicator))
	}

	if len(evidence) == 0 {
		evidence = append(evidence, "no notable commercial evidence found")
	}

	return evidence
}

var confidenceTemplates = map[model.ConfidenceLevel]string{
	model.ConfidenceHigh:    "high confidence (context analysis certainty: %.1f%%): multiple analysis components agree and the evidence base is clear",
	model.ConfidenceMedium:  "medium confidence (context analysis certainty: %.1f%%): some components carry uncertainty but the overall tendency is clear",
	model.ConfidenceLow:     "low confidence (context analysis certainty: %.1f%%): components disagree or the evidence is insufficient",
	model.ConfidenceOrganic: "judged organic content, so no confidence grading applies",
}

func confidenceExplanation(level model.ConfidenceLevel, contextConfidence float64) string {
	template, ok := confidenceTemplates[level]
	if !ok {
		return "confidence cannot be assessed"
	}
	if level == model.ConfidenceOrganic {
		return template
	}
	return fmt.Sprintf(template, contextConfidence*100)
}

func topConfidence(matches []model.Match) float64 {
	top := 0.0
	for _, m := range matches {
		if m.Confidence > top {
			top = m.Confidence
		}
	}
	return top
}
