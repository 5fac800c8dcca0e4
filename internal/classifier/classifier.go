// Package classifier maps the final probability, plus optional textual
// features, to the actionable verdict: category, risk level, recommended
// action, filtering decision, and labels.
package classifier

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/cleanfeed/sifter/internal/common"
	"github.com/cleanfeed/sifter/internal/model"
)

// Thresholds are the category boundaries on the (possibly adjusted)
// probability. They must be strictly ordered inside (0,1).
type Thresholds struct {
	High   float64
	Medium float64
	Low    float64
}

// DefaultThresholds aligns the classifier with the probability calculator's
// coarse buckets.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.65, Medium: 0.40, Low: 0.15}
}

// Validate enforces 0 < Low < Medium < High < 1.
func (t Thresholds) Validate() error {
	if !(0 < t.Low && t.Low < t.Medium && t.Medium < t.High && t.High < 1) {
		return fmt.Errorf("%w: low=%.3f medium=%.3f high=%.3f",
			common.ErrInvalidThresholds, t.Low, t.Medium, t.High)
	}
	return nil
}

// Request carries the inputs of one classification. Text is optional: when
// present it enables the feature-augmented path.
type Request struct {
	Probability       float64
	ComponentScores   model.ComponentScores
	ContextIndicators []string
	Confidence        float64
	Text              string
}

// Classifier holds the adaptive threshold table. Threshold updates are
// validated and applied atomically; concurrent classifications observe
// either the old or the new set, never a partial one.
type Classifier struct {
	logger     *slog.Logger
	thresholds Thresholds
	mu         sync.RWMutex
}

// New returns a Classifier with the default thresholds.
func New(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{logger: logger, thresholds: DefaultThresholds()}
}

// Thresholds returns the current threshold set.
func (c *Classifier) Thresholds() Thresholds {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.thresholds
}

// UpdateThresholds swaps in a new threshold set after validation. Invalid
// updates are rejected and logged, leaving the current set untouched.
func (c *Classifier) UpdateThresholds(t Thresholds) error {
	if err := t.Validate(); err != nil {
		c.logger.Warn("rejecting threshold update", "error", err)
		return err
	}

	c.mu.Lock()
	c.thresholds = t
	c.mu.Unlock()

	c.logger.Info("classification thresholds updated",
		"high", t.High, "medium", t.Medium, "low", t.Low)
	return nil
}

// Classify produces the verdict for one item. When Request.Text is set, the
// secondary feature signals may nudge the probability upward before the
// threshold lookup; they can raise the category but never lower it. Any
// internal panic degrades to the UNKNOWN error verdict.
func (c *Classifier) Classify(req Request) (result model.ClassificationResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("classification panicked", "panic", r)
			result = ErrorResult(fmt.Sprintf("classification panic: %v", r))
		}
	}()

	thresholds := c.Thresholds()

	adjusted := clamp01(req.Probability)
	featuresApplied := false
	var feats textFeatures
	if req.Text != "" {
		feats = extractFeatures(req.Text)
		if boost := feats.boost(); boost > 0 {
			adjusted = clamp01(adjusted + boost)
			featuresApplied = true
		}
	}

	category := categorize(adjusted, thresholds)
	confidenceLevel := c.confidenceLevel(category, req, feats, featuresApplied)

	result = model.ClassificationResult{
		Category:          category,
		ConfidenceLevel:   confidenceLevel,
		ProbabilityScore:  req.Probability,
		RiskLevel:         riskLevel(category),
		RecommendedAction: recommendedAction(category),
		FilteringDecision: category == model.CategoryHighPPL || category == model.CategoryMediumPPL,
		Labels:            buildLabels(category, confidenceLevel, req),
		Metadata: model.ClassificationMetadata{
			ComponentScores:    req.ComponentScores,
			ContextIndicators:  req.ContextIndicators,
			AnalysisConfidence: req.Confidence,
			ThresholdsUsed: map[string]float64{
				"high":   thresholds.High,
				"medium": thresholds.Medium,
				"low":    thresholds.Low,
			},
			FeaturesApplied: featuresApplied,
			AdjustedScore:   adjusted,
		},
	}

	c.logger.Info("classification complete",
		"category", category,
		"confidence_level", confidenceLevel,
		"filtering", result.FilteringDecision)

	return result
}

// ErrorResult is the fail-open verdict: UNKNOWN, routed to expert review,
// never auto-filtered.
func ErrorResult(message string) model.ClassificationResult {
	return model.ClassificationResult{
		Category:          model.CategoryUnknown,
		ConfidenceLevel:   model.ConfidenceLow,
		ProbabilityScore:  0.5,
		RiskLevel:         "UNKNOWN",
		RecommendedAction: model.ActionExpertReview,
		FilteringDecision: false,
		Labels:            []string{"ERROR", "REQUIRES_MANUAL_REVIEW"},
		Metadata:          model.ClassificationMetadata{Error: message},
	}
}

func categorize(probability float64, t Thresholds) model.Category {
	switch {
	case probability >= t.High:
		return model.CategoryHighPPL
	case probability >= t.Medium:
		return model.CategoryMediumPPL
	case probability >= t.Low:
		return model.CategoryLowPPL
	default:
		return model.CategoryOrganic
	}
}

// confidenceLevel blends the incoming analysis confidence with the
// consistency of the component scores (low variance means the signals
// agree). The feature path folds in its own agreement measure.
func (c *Classifier) confidenceLevel(category model.Category, req Request, feats textFeatures, featuresApplied bool) model.ConfidenceLevel {
	if category == model.CategoryOrganic {
		return model.ConfidenceOrganic
	}

	scores := []float64{
		req.ComponentScores.Explicit,
		req.ComponentScores.Implicit,
		req.ComponentScores.Context,
	}
	mean := 0.0
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(scores))
	consistency := 1.0 - variance

	overall := (req.Confidence + consistency) / 2
	if featuresApplied {
		overall = (overall*2 + feats.agreement()) / 3
	}

	switch {
	case overall >= 0.8:
		return model.ConfidenceHigh
	case overall >= 0.5:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func riskLevel(category model.Category) string {
	switch category {
	case model.CategoryHighPPL:
		return "HIGH"
	case model.CategoryMediumPPL:
		return "MEDIUM"
	case model.CategoryLowPPL:
		return "LOW"
	case model.CategoryOrganic:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

func recommendedAction(category model.Category) string {
	switch category {
	case model.CategoryHighPPL:
		return model.ActionFilterOut
	case model.CategoryMediumPPL:
		return model.ActionManualReview
	case model.CategoryLowPPL:
		return model.ActionProceedWithCaution
	case model.CategoryOrganic:
		return model.ActionProceed
	default:
		return model.ActionManualReview
	}
}

var categoryLabels = map[model.Category]string{
	model.CategoryHighPPL:   "PPL_LIKELY",
	model.CategoryMediumPPL: "PPL_POSSIBLE",
	model.CategoryLowPPL:    "PPL_UNLIKELY",
	model.CategoryOrganic:   "ORGANIC_CONTENT",
	model.CategoryUnknown:   "UNKNOWN",
}

var (
	commercialIndicatorTerms = []string{"협찬", "광고", "할인", "이벤트", "제공"}
	brandIndicatorTerms      = []string{"브랜드", "공식", "파트너", "앰버서더"}
)

func buildLabels(category model.Category, confidenceLevel model.ConfidenceLevel, req Request) []string {
	labels := []string{categoryLabels[category]}

	if confidenceLevel != model.ConfidenceOrganic {
		labels = append(labels, "CONFIDENCE_"+strings.ToUpper(string(confidenceLevel)))
	}

	switch {
	case req.ComponentScores.Explicit > 0.7:
		labels = append(labels, "EXPLICIT_PATTERNS_STRONG")
	case req.ComponentScores.Explicit > 0.3:
		labels = append(labels, "EXPLICIT_PATTERNS_WEAK")
	}

	if req.ComponentScores.Implicit > 0.6 {
		labels = append(labels, "IMPLICIT_SIGNALS_DETECTED")
	}

	if indicatorsMention(req.ContextIndicators, commercialIndicatorTerms) {
		labels = append(labels, "COMMERCIAL_LANGUAGE")
	}
	if indicatorsMention(req.ContextIndicators, brandIndicatorTerms) {
		labels = append(labels, "BRAND_RELATIONSHIP")
	}

	return labels
}

func indicatorsMention(indicators, terms []string) bool {
	for _, indicator := range indicators {
		for _, term := range terms {
			if strings.Contains(indicator, term) {
				return true
			}
		}
	}
	return false
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
