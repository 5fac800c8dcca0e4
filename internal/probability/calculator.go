// Package probability fuses the pattern score and the oracle judgment into
// the final PPL probability, the single number the classifier acts on.
package probability

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/cleanfeed/sifter/internal/model"
)

// Weights blend the three signal components. They must sum to 1.
type Weights struct {
	Explicit float64
	Implicit float64
	Context  float64
}

// DefaultWeights favor explicit disclosure heavily.
func DefaultWeights() Weights {
	return Weights{Explicit: 0.75, Implicit: 0.15, Context: 0.10}
}

// Validate checks that the weights sum to 1 within tolerance.
func (w Weights) Validate() error {
	if sum := w.Explicit + w.Implicit + w.Context; math.Abs(sum-1.0) >= 0.01 {
		return fmt.Errorf("probability weights sum to %.3f, want 1.0", sum)
	}
	return nil
}

// Coarse bucket boundaries on the final probability.
const (
	highThreshold   = 0.65
	mediumThreshold = 0.40
	lowThreshold    = 0.15
)

// Calculator computes the weighted final probability. Safe for concurrent
// use; weights are fixed at construction.
type Calculator struct {
	logger  *slog.Logger
	weights Weights
}

// New returns a Calculator. Invalid weights fall back to the defaults with
// a logged warning rather than failing analysis.
func New(weights Weights, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	if err := weights.Validate(); err != nil {
		logger.Warn("rejecting probability weights, using defaults", "error", err)
		weights = DefaultWeights()
	}
	return &Calculator{logger: logger, weights: weights}
}

// Calculate fuses the signal components. Non-finite inputs yield the neutral
// unknown result instead of propagating NaN downstream.
func (c *Calculator) Calculate(score model.PatternScore, context model.ContextResult) model.ProbabilityResult {
	explicit := clamp01(score.ExplicitScore)
	implicit := clamp01(score.ImplicitScore)
	contextScore := clamp01(context.CommercialLikelihood)

	if !isFinite(score.ExplicitScore) || !isFinite(score.ImplicitScore) || !isFinite(context.CommercialLikelihood) {
		c.logger.Error("non-finite component score in probability calculation")
		return NeutralResult("non-finite component score")
	}

	final := c.weights.Explicit*explicit +
		c.weights.Implicit*implicit +
		c.weights.Context*contextScore
	final = clamp01(final)

	classification, confidenceLevel := classify(final)

	result := model.ProbabilityResult{
		FinalProbability: final,
		Classification:   classification,
		ConfidenceLevel:  confidenceLevel,
		ComponentScores: model.ComponentScores{
			Explicit: explicit,
			Implicit: implicit,
			Context:  contextScore,
		},
		ReasoningSummary: summarize(explicit, implicit, contextScore, context.KeyIndicators, classification),
	}

	c.logger.Info("final probability computed",
		"probability", final,
		"classification", classification,
		"confidence_level", confidenceLevel)

	return result
}

// NeutralResult is the calculator's error output: probability 0.5 in the
// unknown bucket with zeroed components.
func NeutralResult(cause string) model.ProbabilityResult {
	return model.ProbabilityResult{
		FinalProbability: 0.5,
		Classification:   model.CoarseUnknown,
		ConfidenceLevel:  string(model.ConfidenceLow),
		ComponentScores:  model.ComponentScores{},
		ReasoningSummary: fmt.Sprintf("error during analysis: %s", cause),
	}
}

// classify maps the final probability to its coarse bucket and matching
// confidence level.
func classify(probability float64) (string, string) {
	switch {
	case probability >= highThreshold:
		return model.CoarseHighPPL, string(model.ConfidenceHigh)
	case probability >= mediumThreshold:
		return model.CoarseMediumPPL, string(model.ConfidenceMedium)
	case probability >= lowThreshold:
		return model.CoarseLowPPL, string(model.ConfidenceLow)
	default:
		return model.CoarseOrganic, string(model.ConfidenceOrganic)
	}
}

// summarize renders one clause per contributing signal, joined with " | ".
func summarize(explicit, implicit, contextScore float64, indicators []string, classification string) string {
	var parts []string

	switch {
	case explicit > 0.7:
		parts = append(parts, fmt.Sprintf("strong explicit disclosure signals (score: %.2f)", explicit))
	case explicit > 0.3:
		parts = append(parts, fmt.Sprintf("partial explicit disclosure signals (score: %.2f)", explicit))
	default:
		parts = append(parts, "no explicit disclosure signals")
	}

	switch {
	case implicit > 0.5:
		parts = append(parts, fmt.Sprintf("implicit commercial signals detected (score: %.2f)", implicit))
	case implicit > 0.2:
		parts = append(parts, fmt.Sprintf("weak commercial signals detected (score: %.2f)", implicit))
	}

	switch {
	case contextScore > 0.6:
		parts = append(parts, fmt.Sprintf("high contextual commerciality (score: %.2f)", contextScore))
	case contextScore > 0.3:
		parts = append(parts, fmt.Sprintf("moderate contextual commerciality (score: %.2f)", contextScore))
	}

	if len(indicators) > 0 {
		top := indicators
		if len(top) > 3 {
			top = top[:3]
		}
		parts = append(parts, fmt.Sprintf("key indicators: %s", strings.Join(top, ", ")))
	}

	verdict := map[string]string{
		model.CoarseHighPPL:   "high PPL likelihood",
		model.CoarseMediumPPL: "medium PPL likelihood",
		model.CoarseLowPPL:    "low PPL likelihood",
		model.CoarseOrganic:   "likely organic content",
	}[classification]
	if verdict == "" {
		verdict = "unclassified"
	}
	parts = append(parts, fmt.Sprintf("verdict: %s", verdict))

	return strings.Join(parts, " | ")
}

// WeightInfo exposes the configured weights for reporting.
func (c *Calculator) WeightInfo() Weights {
	return c.weights
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
