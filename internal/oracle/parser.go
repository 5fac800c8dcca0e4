package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cleanfeed/sifter/internal/common"
	"github.com/cleanfeed/sifter/internal/model"
)

// parseResponse converts the raw model output into a ContextResult. Scores
// are clamped to [0,1]; absent fields take neutral defaults. A response that
// is not JSON at all is a parse error, which callers turn into the keyword
// fallback.
func parseResponse(raw string) (model.ContextResult, error) {
	content := cleanMarkdownWrapper(raw)

	var parsed struct {
		CommercialLikelihood *float64 `json:"commercial_likelihood"`
		Reasoning            string   `json:"reasoning"`
		KeyIndicators        []string `json:"key_indicators"`
		Confidence           *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return model.ContextResult{}, fmt.Errorf("%w: %v", common.ErrOracleParse, err)
	}

	reasoning := parsed.Reasoning
	if reasoning == "" {
		reasoning = "no reasoning provided"
	}

	return model.ContextResult{
		CommercialLikelihood: clampScore(parsed.CommercialLikelihood),
		Reasoning:            reasoning,
		KeyIndicators:        parsed.KeyIndicators,
		Confidence:           clampScore(parsed.Confidence),
		RawResponse:          raw,
	}, nil
}

// fallbackKeywords are the commercial markers scanned when the oracle reply
// cannot be parsed as JSON.
var fallbackKeywords = []string{
	"협찬", "광고", "후원", "제공", "할인", "이벤트",
	"구매", "링크", "코드", "쿠폰", "프로모션",
}

// fallbackAnalysis derives a weak keyword-based judgment from an unparsable
// oracle response. Capped at 0.8 likelihood with a fixed low confidence.
func fallbackAnalysis(raw string) model.ContextResult {
	lower := strings.ToLower(raw)

	var found []string
	for _, kw := range fallbackKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}

	likelihood := 0.2 * float64(len(found))
	if likelihood > 0.8 {
		likelihood = 0.8
	}

	return model.ContextResult{
		CommercialLikelihood: likelihood,
		Reasoning:            fmt.Sprintf("text-based fallback analysis, commercial keywords found: %v", found),
		KeyIndicators:        found,
		Confidence:           0.3,
		RawResponse:          raw,
		Fallback:             true,
	}
}

// neutralResult is the fail-open judgment used when the oracle call itself
// fails: likelihood 0.5 with zero confidence, so the probability calculator
// leans on the pattern signals instead.
func neutralResult(cause error) model.ContextResult {
	return model.ContextResult{
		CommercialLikelihood: 0.5,
		Reasoning:            fmt.Sprintf("analysis error: %v", cause),
		KeyIndicators:        []string{},
		Confidence:           0.0,
		Fallback:             true,
	}
}

// cleanMarkdownWrapper strips a ```json ... ``` (or bare ```) fence from the
// model output, which some models add despite instructions.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if idx := strings.Index(content, "```json"); idx >= 0 {
		content = content[idx+len("```json"):]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[idx+len("```"):]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	}

	return strings.TrimSpace(content)
}

// clampScore normalizes an optional score to [0,1], defaulting to neutral.
func clampScore(v *float64) float64 {
	if v == nil {
		return 0.5
	}
	switch {
	case *v < 0:
		return 0.0
	case *v > 1:
		return 1.0
	default:
		return *v
	}
}
