package oracle

import (
	"context"

	"github.com/cleanfeed/sifter/internal/model"
)

// DisabledAnalyzer stands in when no oracle credentials are configured. It
// returns the neutral judgment for every item, so classification rests
// entirely on the pattern signals.
type DisabledAnalyzer struct{}

// Analyze returns the neutral judgment.
func (DisabledAnalyzer) Analyze(_ context.Context, _ model.AnalysisInput, _ model.PatternScore) model.ContextResult {
	return model.ContextResult{
		CommercialLikelihood: 0.5,
		Reasoning:            "context analysis disabled: no oracle credentials configured",
		KeyIndicators:        []string{},
		Confidence:           0.0,
		Fallback:             true,
	}
}
