// Package scorer aggregates pattern matches into explicit and implicit signal
// scores and blends them into a combined pattern score.
package scorer

import (
	"fmt"
	"log/slog"

	"github.com/cleanfeed/sifter/internal/matcher"
	"github.com/cleanfeed/sifter/internal/model"
)

// Per-category aggregation weights. Explicit disclosure carries more weight
// than any implicit commercial signal.
var (
	explicitWeights = map[model.PatternCategory]float64{
		model.CategoryDirectDisclosure:      0.85,
		model.CategoryHashtagDisclosure:     0.80,
		model.CategoryDescriptionDisclosure: 0.80,
	}
	implicitWeights = map[model.PatternCategory]float64{
		model.CategoryPromotionalLanguage: 0.45,
		model.CategoryCommercialContext:   0.50,
		model.CategoryPurchaseGuidance:    0.60,
		model.CategoryTimingPressure:      0.65,
	}
)

// Fallback weights for categories missing from the tables above, such as
// custom categories loaded from a catalog file.
const (
	defaultExplicitWeight = 0.5
	defaultImplicitWeight = 0.3
)

// Scorer turns a MatchSet into a PatternScore. Stateless and safe for
// concurrent use.
type Scorer struct {
	logger *slog.Logger
}

// New returns a Scorer.
func New(logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{logger: logger}
}

// Score aggregates the match set. No matches yields the zero score with
// confidence 0 and dominant category "none".
func (s *Scorer) Score(set matcher.MatchSet) model.PatternScore {
	explicitScore := s.explicitScore(set.Explicit)
	implicitScore := s.implicitScore(set.Implicit)

	score := model.PatternScore{
		ExplicitScore:    explicitScore,
		ImplicitScore:    implicitScore,
		CombinedScore:    combine(explicitScore, implicitScore),
		Confidence:       confidence(set),
		EvidenceCount:    set.Total(),
		DominantCategory: dominantCategory(set),
		Reasoning:        reasoning(set, explicitScore, implicitScore),
	}

	s.logger.Debug("pattern score computed",
		"explicit", score.ExplicitScore,
		"implicit", score.ImplicitScore,
		"combined", score.CombinedScore,
		"evidence", score.EvidenceCount)

	return score
}

// explicitScore takes the best hit per category, weights it, and sums across
// categories. Repeats of the same disclosure do not stack.
func (s *Scorer) explicitScore(matches []model.Match) float64 {
	if len(matches) == 0 {
		return 0.0
	}

	best := make(map[model.PatternCategory]float64)
	for _, m := range matches {
		hit := m.Confidence * m.Pattern.Weight
		if hit > best[m.Pattern.Category] {
			best[m.Pattern.Category] = hit
		}
	}

	total := 0.0
	for category, hit := range best {
		weight, ok := explicitWeights[category]
		if !ok {
			weight = defaultExplicitWeight
		}
		total += hit * weight
	}

	return min1(total)
}

// implicitScore averages hits within each category, then applies a
// per-category repetition bonus (capped at 1.3x) and a global bonus when the
// combined evidence is broad (1.1x at 3 matches, 1.2x at 4 or more).
func (s *Scorer) implicitScore(matches []model.Match) float64 {
	if len(matches) == 0 {
		return 0.0
	}

	byCategory := make(map[model.PatternCategory][]float64)
	for _, m := range matches {
		byCategory[m.Pattern.Category] = append(byCategory[m.Pattern.Category], m.Confidence*m.Pattern.Weight)
	}

	globalBonus := 1.0
	switch {
	case len(matches) >= 4:
		globalBonus = 1.2
	case len(matches) >= 3:
		globalBonus = 1.1
	}

	total := 0.0
	for category, hits := range byCategory {
		sum := 0.0
		for _, h := range hits {
			sum += h
		}
		avg := sum / float64(len(hits))

		weight, ok := implicitWeights[category]
		if !ok {
			weight = defaultImplicitWeight
		}

		categoryBonus := 1.0 + float64(len(hits)-1)*0.15
		if categoryBonus > 1.3 {
			categoryBonus = 1.3
		}

		total += avg * weight * categoryBonus * globalBonus
	}

	return min1(total)
}

// combine blends the two component scores. Strong explicit evidence
// dominates; absent that, accumulated implicit evidence is amplified.
func combine(explicitScore, implicitScore float64) float64 {
	switch {
	case explicitScore > 0.6:
		return explicitScore*0.85 + implicitScore*0.15
	case explicitScore > 0.3:
		return explicitScore*0.65 + implicitScore*0.35
	case implicitScore > 0.4:
		boosted := min1(implicitScore * 1.4)
		return explicitScore*0.2 + boosted*0.8
	default:
		return explicitScore*0.3 + implicitScore*0.7
	}
}

// confidence is the mean match confidence adjusted for category diversity
// (up to 1.2x) and the presence of explicit evidence (1.1x).
func confidence(set matcher.MatchSet) float64 {
	all := set.All()
	if len(all) == 0 {
		return 0.0
	}

	sum := 0.0
	categories := make(map[model.PatternCategory]bool)
	for _, m := range all {
		sum += m.Confidence
		categories[m.Pattern.Category] = true
	}
	avg := sum / float64(len(all))

	diversityBonus := 1.0 + float64(len(categories)-1)*0.05
	if diversityBonus > 1.2 {
		diversityBonus = 1.2
	}

	explicitBonus := 1.0
	if len(set.Explicit) > 0 {
		explicitBonus = 1.1
	}

	return min1(avg * diversityBonus * explicitBonus)
}

// dominantCategory is the category with the most matches. Ties break toward
// explicit categories, then by earliest match position, so the result is
// deterministic.
func dominantCategory(set matcher.MatchSet) model.PatternCategory {
	all := set.All()
	if len(all) == 0 {
		return "none"
	}

	counts := make(map[model.PatternCategory]int)
	firstSeen := make(map[model.PatternCategory]int)
	for i, m := range all {
		counts[m.Pattern.Category]++
		if _, ok := firstSeen[m.Pattern.Category]; !ok {
			firstSeen[m.Pattern.Category] = i
		}
	}

	var dominant model.PatternCategory
	bestCount := -1
	for category, count := range counts {
		if count > bestCount ||
			(count == bestCount && firstSeen[category] < firstSeen[dominant]) {
			dominant = category
			bestCount = count
		}
	}

	return dominant
}

// reasoning builds the human-readable evidence trail: explicit hits listed
// individually (top three), implicit hits summarized per category.
func reasoning(set matcher.MatchSet, explicitScore, implicitScore float64) []string {
	var lines []string

	if len(set.Explicit) > 0 {
		lines = append(lines, fmt.Sprintf("found %d explicit disclosure pattern(s) (score: %.2f)",
			len(set.Explicit), explicitScore))
		for i, m := range set.Explicit {
			if i == 3 {
				break
			}
			lines = append(lines, fmt.Sprintf("- %q (confidence: %.2f)", m.MatchedText, m.Confidence))
		}
	}

	if len(set.Implicit) > 0 {
		lines = append(lines, fmt.Sprintf("found %d implicit commercial signal(s) (score: %.2f)",
			len(set.Implicit), implicitScore))

		counts := make(map[model.PatternCategory]int)
		var order []model.PatternCategory
		for _, m := range set.Implicit {
			if counts[m.Pattern.Category] == 0 {
				order = append(order, m.Pattern.Category)
			}
			counts[m.Pattern.Category]++
		}
		for _, category := range order {
			lines = append(lines, fmt.Sprintf("- %s: %d pattern(s)", category, counts[category]))
		}
	}

	if len(lines) == 0 {
		lines = append(lines, "no sponsorship-related patterns found")
	}

	return lines
}

func min1(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}
