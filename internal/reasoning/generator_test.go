package reasoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanfeed/sifter/internal/model"
)

func strongInput() Input {
	return Input{
		PatternScore: model.PatternScore{
			ExplicitScore: 0.85,
			ImplicitScore: 0.5,
			CombinedScore: 0.8,
			Confidence:    0.9,
			EvidenceCount: 3,
		},
		ExplicitMatches: []model.Match{
			{Pattern: model.Pattern{Text: "협찬", Category: model.CategoryDirectDisclosure}, MatchedText: "협찬", Confidence: 0.95},
			{Pattern: model.Pattern{Text: "#광고", Category: model.CategoryHashtagDisclosure}, MatchedText: "#광고", Confidence: 0.9},
		},
		ImplicitMatches: []model.Match{
			{Pattern: model.Pattern{Text: "특가", Category: model.CategoryPromotionalLanguage}, MatchedText: "특가", Confidence: 0.7},
		},
		Context: model.ContextResult{
			CommercialLikelihood: 0.8,
			Reasoning:            "sponsorship thanks in the opening segment",
			KeyIndicators:        []string{"협찬 감사", "구매 링크", "할인 코드", "네번째 지표"},
			Confidence:           0.85,
		},
		Probability: model.ProbabilityResult{
			FinalProbability: 0.78,
			Classification:   model.CoarseHighPPL,
			ComponentScores:  model.ComponentScores{Explicit: 0.85, Implicit: 0.5, Context: 0.8},
		},
		Classification: model.ClassificationResult{
			Category:        model.CategoryHighPPL,
			ConfidenceLevel: model.ConfidenceHigh,
		},
		VideoMetadata: map[string]any{"video_id": "abc123"},
	}
}

func TestGenerateFullReport(t *testing.T) {
	g := New(nil)

	report := g.Generate(strongInput())

	assert.Contains(t, report.AnalysisSummary, "high-probability PPL content")
	assert.Contains(t, report.AnalysisSummary, "78.0%")

	assert.Contains(t, report.DetailedReasoning, "Explicit PPL patterns detected")
	assert.Contains(t, report.DetailedReasoning, "sponsorship thanks in the opening segment")
	assert.Contains(t, report.DetailedReasoning, "final PPL probability of 78.0%")

	assert.Equal(t, 2, report.DecisionFactors.ExplicitMatchCount)
	assert.Equal(t, 1, report.DecisionFactors.ImplicitMatchCount)
	assert.InDelta(t, 0.95, report.DecisionFactors.TopMatchConfidence, 1e-9)
	assert.Equal(t, 4, report.DecisionFactors.IndicatorCount)

	assert.False(t, report.TransparencyData.Error)
	assert.Equal(t, "abc123", report.TransparencyData.VideoMetadata["video_id"])
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestGenerateKeyEvidenceCaps(t *testing.T) {
	g := New(nil)

	report := g.Generate(strongInput())

	// 2 explicit + 1 implicit + 3 indicators (capped from 4).
	require.Len(t, report.KeyEvidence, 6)
	assert.Contains(t, report.KeyEvidence[0], "협찬")
	assert.Contains(t, report.KeyEvidence[2], string(model.CategoryPromotionalLanguage))

	for _, e := range report.KeyEvidence {
		assert.NotContains(t, e, "네번째 지표")
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	g := New(nil)

	report := g.Generate(Input{})

	assert.Contains(t, report.DetailedReasoning, "No explicit PPL patterns")
	assert.Contains(t, report.DetailedReasoning, "organic content characteristics")
	assert.Equal(t, []string{"no notable commercial evidence found"}, report.KeyEvidence)
	assert.Zero(t, report.DecisionFactors.TopMatchConfidence)
}

func TestGenerateOrganicConfidenceExplanation(t *testing.T) {
	g := New(nil)

	in := Input{
		Classification: model.ClassificationResult{
			Category:        model.CategoryOrganic,
			ConfidenceLevel: model.ConfidenceOrganic,
		},
	}
	report := g.Generate(in)

	assert.Contains(t, report.ConfidenceExplanation, "organic content")
	assert.NotContains(t, report.ConfidenceExplanation, "%!")
}

func TestErrorReport(t *testing.T) {
	report := ErrorReport("stage exploded")

	assert.True(t, report.TransparencyData.Error)
	assert.Equal(t, "stage exploded", report.TransparencyData.ErrorMessage)
	assert.Contains(t, report.AnalysisSummary, "stage exploded")
	assert.Equal(t, []string{"system error"}, report.KeyEvidence)
}

func TestRenderText(t *testing.T) {
	g := New(nil)
	report := g.Generate(strongInput())

	text := RenderText(report)

	assert.Contains(t, text, "PPL Analysis Reasoning Report")
	assert.Contains(t, text, "1. Summary")
	assert.Contains(t, text, "3. Key Evidence")
	assert.Contains(t, text, "- explicit pattern")
	assert.Contains(t, text, "Pattern matches: 2 explicit, 1 implicit")
}
