package classifier

import "strings"

// Secondary feature vocabularies scanned on the raw text. These are soft
// signals layered on top of the probability, so the lists stay short and
// high-precision.
var (
	commercialTerms = []string{
		"할인", "쿠폰", "특가", "구매", "판매", "이벤트", "프로모션",
		"discount", "coupon", "sale", "buy now",
	}
	brandTerms = []string{
		"브랜드", "공식", "파트너", "앰버서더", "콜라보",
		"official", "partner", "ambassador", "collab",
	}
	disclosureHashtags = []string{
		"#광고", "#협찬", "#제공", "#ad", "#sponsored", "#pr",
	}
	urgencyTerms = []string{
		"마감", "선착순", "오늘만", "지금 바로", "서둘러", "한정",
		"hurry", "limited time", "last chance",
	}
	positiveTerms = []string{
		"최고", "좋아요", "추천", "대박", "완벽",
		"amazing", "best", "love it", "perfect",
	}
	negativeTerms = []string{
		"별로", "아쉬운", "단점", "최악", "실망",
		"disappointing", "worst", "downside",
	}
)

// textFeatures are the secondary signals extracted from free text.
type textFeatures struct {
	commercialCount int
	brandCount      int
	hashtagCount    int
	urgencyCount    int
	sentiment       float64 // [-1,1], positive means promotional praise
}

// extractFeatures counts vocabulary occurrences in the lowercased text.
func extractFeatures(text string) textFeatures {
	lower := strings.ToLower(text)

	positive := countTerms(lower, positiveTerms)
	negative := countTerms(lower, negativeTerms)
	sentiment := 0.0
	if positive+negative > 0 {
		sentiment = float64(positive-negative) / float64(positive+negative)
	}

	return textFeatures{
		commercialCount: countTerms(lower, commercialTerms),
		brandCount:      countTerms(lower, brandTerms),
		hashtagCount:    countTerms(lower, disclosureHashtags),
		urgencyCount:    countTerms(lower, urgencyTerms),
		sentiment:       sentiment,
	}
}

// boost is the additive probability nudge. Always non-negative, so the
// feature path can only raise a verdict's severity, and capped so soft
// signals cannot dominate the primary probability.
func (f textFeatures) boost() float64 {
	b := float64(f.commercialCount)*0.02 +
		float64(f.brandCount)*0.03 +
		float64(f.hashtagCount)*0.05 +
		float64(f.urgencyCount)*0.02
	if f.sentiment > 0 {
		b += f.sentiment * 0.03
	}
	if b > 0.15 {
		b = 0.15
	}
	return b
}

// agreement measures how many feature groups fired: broad agreement across
// groups makes the nudge more trustworthy.
func (f textFeatures) agreement() float64 {
	active := 0
	if f.commercialCount > 0 {
		active++
	}
	if f.brandCount > 0 {
		active++
	}
	if f.hashtagCount > 0 {
		active++
	}
	if f.urgencyCount > 0 {
		active++
	}
	return 0.5 + 0.5*float64(active)/4.0
}

func countTerms(lower string, terms []string) int {
	count := 0
	for _, term := range terms {
		count += strings.Count(lower, term)
	}
	return count
}
