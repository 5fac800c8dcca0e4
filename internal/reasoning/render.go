package reasoning

import (
	"fmt"
	"strings"

	"github.com/cleanfeed/sifter/internal/model"
)

// RenderText formats a report as a plain-text document for terminal output
// or file export.
func RenderText(report model.ReasoningReport) string {
	rule := strings.Repeat("=", 60)
	sub := strings.Repeat("-", 30)

	evidence := make([]string, 0, len(report.KeyEvidence))
	for _, e := range report.KeyEvidence {
		evidence = append(evidence, "- "+e)
	}

	parts := []string{
		rule,
		"PPL Analysis Reasoning Report",
		rule,
		fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04:05")),
		"",
		"1. Summary",
		sub,
		report.AnalysisSummary,
		"",
		"2. Detailed Reasoning",
		sub,
		report.DetailedReasoning,
		"",
		"3. Key Evidence",
		sub,
		strings.Join(evidence, "\n"),
		"",
		"4. Confidence",
		sub,
		report.ConfidenceExplanation,
		"",
		"5. Decision Factors",
		sub,
		fmt.Sprintf("Pattern matches: %d explicit, %d implicit",
			report.DecisionFactors.ExplicitMatchCount, report.DecisionFactors.ImplicitMatchCount),
		fmt.Sprintf("Context commerciality: %.1f%%", report.DecisionFactors.CommercialLikelihood*100),
		fmt.Sprintf("Final probability: %.1f%%", report.DecisionFactors.FinalProbability*100),
		"",
		rule,
	}

	return strings.Join(parts, "\n")
}
