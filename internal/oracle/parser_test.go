package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanfeed/sifter/internal/common"
)

func TestParseResponseValid(t *testing.T) {
	raw := `{"commercial_likelihood": 0.82, "reasoning": "discount codes and urgency", "key_indicators": ["할인", "쿠폰"], "confidence": 0.9}`

	result, err := parseResponse(raw)

	require.NoError(t, err)
	assert.InDelta(t, 0.82, result.CommercialLikelihood, 1e-9)
	assert.Equal(t, "discount codes and urgency", result.Reasoning)
	assert.Equal(t, []string{"할인", "쿠폰"}, result.KeyIndicators)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	assert.Equal(t, raw, result.RawResponse)
	assert.False(t, result.Fallback)
}

func TestParseResponseMarkdownFenced(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "json fence",
			raw:  "```json\n{\"commercial_likelihood\": 0.7, \"confidence\": 0.8}\n```",
		},
		{
			name: "bare fence",
			raw:  "```\n{\"commercial_likelihood\": 0.7, \"confidence\": 0.8}\n```",
		},
		{
			name: "fence with preamble",
			raw:  "Here is my analysis:\n```json\n{\"commercial_likelihood\": 0.7, \"confidence\": 0.8}\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseResponse(tt.raw)
			require.NoError(t, err)
			assert.InDelta(t, 0.7, result.CommercialLikelihood, 1e-9)
		})
	}
}

func TestParseResponseClampsScores(t *testing.T) {
	result, err := parseResponse(`{"commercial_likelihood": 1.7, "confidence": -0.2}`)

	require.NoError(t, err)
	assert.Equal(t, 1.0, result.CommercialLikelihood)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestParseResponseMissingFieldsDefaultNeutral(t *testing.T) {
	result, err := parseResponse(`{}`)

	require.NoError(t, err)
	assert.Equal(t, 0.5, result.CommercialLikelihood)
	assert.Equal(t, 0.5, result.Confidence)
	assert.Equal(t, "no reasoning provided", result.Reasoning)
	assert.Empty(t, result.KeyIndicators)
}

func TestParseResponseNotJSON(t *testing.T) {
	_, err := parseResponse("I think this video is probably sponsored.")

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrOracleParse)
}

func TestFallbackAnalysisCountsKeywords(t *testing.T) {
	result := fallbackAnalysis("이 영상은 협찬 광고로 할인 쿠폰을 제공합니다")

	assert.InDelta(t, 0.8, result.CommercialLikelihood, 1e-9) // 5 keywords, capped
	assert.Equal(t, 0.3, result.Confidence)
	assert.True(t, result.Fallback)
	assert.Contains(t, result.KeyIndicators, "협찬")
}

func TestFallbackAnalysisNoKeywords(t *testing.T) {
	result := fallbackAnalysis("a quiet walk in the park")

	assert.Zero(t, result.CommercialLikelihood)
	assert.Equal(t, 0.3, result.Confidence)
	assert.True(t, result.Fallback)
	assert.Empty(t, result.KeyIndicators)
}

func TestNeutralResult(t *testing.T) {
	result := neutralResult(assert.AnError)

	assert.Equal(t, 0.5, result.CommercialLikelihood)
	assert.Zero(t, result.Confidence)
	assert.True(t, result.Fallback)
	assert.Contains(t, result.Reasoning, "analysis error")
}
