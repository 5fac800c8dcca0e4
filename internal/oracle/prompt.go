package oracle

import (
	"encoding/json"
	"fmt"

	"github.com/cleanfeed/sifter/internal/model"
)

const defaultDescriptionLimit = 500

const contextPromptTemplate = `You are an expert at judging whether YouTube content contains paid product placement (PPL).
Analyze the information below holistically and assess the commercial intent of this content.

**Analysis data:**
- Video title: %s
- Video description: %s
- Transcript excerpt: %s
- Pattern analysis result: %s

**Analysis lenses:**
1. **Commercial tone**: marketing language, excessive praise, sales-driven phrasing
2. **Review bias**: objective review vs one-sided recommendation, absence of downsides
3. **Purchase steering**: discount info, purchase links, manufactured urgency
4. **Brand relationship hints**: sponsorship thanks, special relationship with a brand
5. **Overall context**: natural product use vs deliberate exposure

**Important guidance:**
- A mere product mention is not PPL
- Genuine sharing of personal experience is organic content
- Commercial intent must be detected even without an explicit ad disclosure
- Weigh context and tone together

**Output format (respond with JSON only):**
{
  "commercial_likelihood": value between 0.0 and 1.0,
  "reasoning": "specific analysis rationale",
  "key_indicators": ["list of commercial signals found"],
  "confidence": analysis certainty between 0.0 and 1.0
}`

// BuildPrompt renders the context-analysis prompt. The description is
// truncated to limit runes (0 means the default) to bound request size.
func BuildPrompt(input model.AnalysisInput, score model.PatternScore, limit int) string {
	if limit <= 0 {
		limit = defaultDescriptionLimit
	}

	description := input.VideoDescription
	if runes := []rune(description); len(runes) > limit {
		description = string(runes[:limit])
	}

	summary, err := json.MarshalIndent(patternSummary(score), "", "  ")
	if err != nil {
		summary = []byte("{}")
	}

	return fmt.Sprintf(contextPromptTemplate,
		input.VideoTitle, description, input.TranscriptExcerpt, summary)
}

// patternSummary is the compact pattern-score digest embedded in the prompt.
func patternSummary(score model.PatternScore) map[string]any {
	return map[string]any{
		"explicit_score":    round3(score.ExplicitScore),
		"implicit_score":    round3(score.ImplicitScore),
		"combined_score":    round3(score.CombinedScore),
		"evidence_count":    score.EvidenceCount,
		"dominant_category": score.DominantCategory,
	}
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}
