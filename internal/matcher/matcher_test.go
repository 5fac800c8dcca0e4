package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanfeed/sifter/internal/catalog"
	"github.com/cleanfeed/sifter/internal/model"
)

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	return New(catalog.Default(), DefaultConfig(), nil)
}

func matchedPatterns(matches []model.Match) []string {
	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Pattern.Text)
	}
	return texts
}

func TestMatchDirectDisclosure(t *testing.T) {
	m := newTestMatcher(t)

	set := m.Match("협찬 받은 제품입니다")

	require.Len(t, set.Explicit, 1)
	assert.Equal(t, "협찬", set.Explicit[0].Pattern.Text)
	assert.Equal(t, model.MatchExact, set.Explicit[0].Kind)
	assert.Equal(t, "협찬", set.Explicit[0].MatchedText)
	assert.Equal(t, 0, set.Explicit[0].Start)
	assert.Equal(t, 2, set.Explicit[0].End)
	assert.InDelta(t, 1.0, set.Explicit[0].Confidence, 1e-9)
}

func TestMatchHashtagWinsOverEmbeddedTerm(t *testing.T) {
	m := newTestMatcher(t)

	// "#광고" and the embedded "광고" both hit the same span; overlap
	// resolution must keep exactly one, preferring the earlier start on a
	// confidence tie.
	set := m.Match("오늘의 리뷰 #광고")

	require.Len(t, set.Explicit, 1)
	assert.Equal(t, "#광고", set.Explicit[0].Pattern.Text)
	assert.Empty(t, set.Implicit)
}

func TestMatchRejectsLatinEmbedding(t *testing.T) {
	m := newTestMatcher(t)

	// "ad" inside "admit" and "shadow" is noise for every strategy,
	// including raw containment.
	for _, text := range []string{"admit nothing", "shadow play"} {
		set := m.Match(text)
		assert.Zero(t, set.Total(), "text %q", text)
	}
}

func TestMatchHangulSuffixDemotesToSubstring(t *testing.T) {
	m := newTestMatcher(t)

	// The attached particle defeats the word-boundary exact strategy, so the
	// term survives only as discounted containment.
	set := m.Match("광고주가 누구인가")

	require.Len(t, set.Explicit, 1)
	assert.Equal(t, "광고", set.Explicit[0].Pattern.Text)
	assert.Equal(t, model.MatchSubstring, set.Explicit[0].Kind)
	assert.InDelta(t, 0.95*substringPenalty, set.Explicit[0].Confidence, 1e-9)
}

func TestMatchWordAndHashtagFormsIndependently(t *testing.T) {
	m := newTestMatcher(t)

	// "협찬" is both a pattern of its own and the de-hashed form of "#협찬";
	// sharing one literal must not hide either pattern from the prefilter.
	set := m.Match("협찬 제품 후기 #협찬")

	require.Len(t, set.Explicit, 2)
	assert.ElementsMatch(t, []string{"협찬", "#협찬"}, matchedPatterns(set.Explicit))
	for _, match := range set.Explicit {
		assert.Equal(t, model.MatchExact, match.Kind)
		assert.InDelta(t, 1.0, match.Confidence, 1e-9)
	}
}

func TestMatchWeakFuzzyDoesNotShadowSubstring(t *testing.T) {
	m := newTestMatcher(t)

	// "광고주" is similar enough to "광고" to fire the fuzzy strategy, but
	// the penalized confidence lands below the floor. The discarded fuzzy hit
	// must not block the containment fallback.
	set := m.Match("광고주 연락처")

	require.Len(t, set.Explicit, 1)
	assert.Equal(t, "광고", set.Explicit[0].Pattern.Text)
	assert.Equal(t, model.MatchSubstring, set.Explicit[0].Kind)
	assert.InDelta(t, 0.95*substringPenalty, set.Explicit[0].Confidence, 1e-9)
}

func TestMatchCaseInsensitive(t *testing.T) {
	m := newTestMatcher(t)

	set := m.Match("this video is SPONSORED by nobody")

	require.Len(t, set.Explicit, 1)
	assert.Equal(t, "sponsored", set.Explicit[0].Pattern.Text)
	assert.Equal(t, "SPONSORED", set.Explicit[0].MatchedText)
}

func TestMatchFuzzyTypo(t *testing.T) {
	m := newTestMatcher(t)

	set := m.Match("sponsred content this week")

	require.Len(t, set.Explicit, 1)
	assert.Equal(t, "sponsored", set.Explicit[0].Pattern.Text)
	assert.Equal(t, model.MatchFuzzy, set.Explicit[0].Kind)
	assert.Less(t, set.Explicit[0].Confidence, set.Explicit[0].Pattern.Weight)
}

func TestMatchSubstringFallback(t *testing.T) {
	m := newTestMatcher(t)

	// No whitespace and an attached suffix defeat both the exact and fuzzy
	// strategies, leaving raw containment as the only signal.
	set := m.Match("협찬받은제품")

	require.Len(t, set.Explicit, 1)
	assert.Equal(t, "협찬", set.Explicit[0].Pattern.Text)
	assert.Equal(t, model.MatchSubstring, set.Explicit[0].Kind)
	assert.InDelta(t, 0.95*substringPenalty, set.Explicit[0].Confidence, 1e-9)
}

func TestMatchOverlapResolution(t *testing.T) {
	m := newTestMatcher(t)

	// "링크 아래" overlaps both "구매링크" and "아래", which individually
	// carry higher confidence; the weaker spanning match must lose.
	set := m.Match("특가 이벤트 구매링크 아래")

	assert.Empty(t, set.Explicit)
	texts := matchedPatterns(set.Implicit)
	assert.ElementsMatch(t, []string{"특가", "구매링크", "아래"}, texts)
	assert.NotContains(t, texts, "링크 아래")
	assert.NotContains(t, texts, "이벤트")
}

func TestMatchDiscardsBelowMinConfidence(t *testing.T) {
	m := newTestMatcher(t)

	// "이벤트" carries weight 0.60; an exact hit still lands below the 0.7
	// acceptance floor.
	set := m.Match("이벤트 안내")

	assert.Zero(t, set.Total())
}

func TestMatchEmptyText(t *testing.T) {
	m := newTestMatcher(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		set := m.Match(text)
		assert.Zero(t, set.Total())
	}
}

func TestMatchNoOverlapInvariant(t *testing.T) {
	m := newTestMatcher(t)

	set := m.Match("협찬 광고 특가 할인 쿠폰 구매링크 아래 마감임박 #광고 sponsored")
	all := set.All()
	require.NotEmpty(t, all)

	for i := range all {
		for j := i + 1; j < len(all); j++ {
			assert.False(t, all[i].Overlaps(all[j]),
				"matches %q and %q overlap", all[i].MatchedText, all[j].MatchedText)
		}
	}
}

func TestMatchDeterministic(t *testing.T) {
	m := newTestMatcher(t)
	text := "협찬 받은 신제품 런칭 기념 특가, 구매링크 아래 #광고"

	first := m.Match(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Match(text))
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "sponsored", b: "sponsored", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "sponsored", b: "", want: 0.0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0.0},
		{name: "single deletion", a: "sponsred", b: "sponsored", want: 16.0 / 17.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := similarity([]rune(tt.a), []rune(tt.b))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
