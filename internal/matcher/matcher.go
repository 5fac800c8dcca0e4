// Package matcher scans text against the pattern catalog using exact, fuzzy,
// and substring strategies, and resolves overlapping hits so that no two
// accepted matches share a character position.
package matcher

import (
	"log/slog"
	"sort"
	"strings"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/cleanfeed/sifter/internal/catalog"
	"github.com/cleanfeed/sifter/internal/model"
)

// Confidence discounts per match kind. Substring containment is weaker
// evidence than a fuzzy token hit.
const (
	fuzzyPenalty     = 0.8
	substringPenalty = 0.75
)

// Config controls matching thresholds.
type Config struct {
	MinConfidence  float64
	FuzzyThreshold float64
	FuzzyEnabled   bool
}

// DefaultConfig returns the production matching thresholds.
func DefaultConfig() Config {
	return Config{
		MinConfidence:  0.7,
		FuzzyThreshold: 0.8,
		FuzzyEnabled:   true,
	}
}

// MatchSet is the result of one scan, split by signal family.
type MatchSet struct {
	Explicit []model.Match
	Implicit []model.Match
}

// All returns the explicit matches followed by the implicit ones.
func (ms MatchSet) All() []model.Match {
	all := make([]model.Match, 0, len(ms.Explicit)+len(ms.Implicit))
	all = append(all, ms.Explicit...)
	all = append(all, ms.Implicit...)
	return all
}

// Total returns the number of accepted matches.
func (ms MatchSet) Total() int {
	return len(ms.Explicit) + len(ms.Implicit)
}

// compiledPattern carries the lowercased forms needed at scan time.
type compiledPattern struct {
	pattern model.Pattern
	lowered []rune
	bare    []rune // hashtag patterns also match without the '#'
	words   [][]rune
}

// Matcher scans input text against a fixed catalog. It is safe for
// concurrent use: all state is immutable after construction.
type Matcher struct {
	prefilter *ahocorasick.Matcher
	logger    *slog.Logger
	compiled  []compiledPattern
	litOwners [][]int
	cfg       Config
}

// New compiles the catalog into a matcher. The Aho-Corasick automaton over
// all pattern literals screens which patterns are even present before the
// per-pattern strategies run.
func New(cat *catalog.Catalog, cfg Config, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}

	patterns := cat.Patterns()
	m := &Matcher{
		cfg:      cfg,
		logger:   logger,
		compiled: make([]compiledPattern, 0, len(patterns)),
	}

	// The automaton reports one dictionary index per distinct literal, so
	// identical literals (a bare word that is also another pattern's de-hashed
	// form) must share an index and fan out to every owning pattern.
	var literals [][]byte
	litIndex := make(map[string]int)
	addLiteral := func(lit []rune, owner int) {
		s := string(lit)
		idx, ok := litIndex[s]
		if !ok {
			idx = len(literals)
			litIndex[s] = idx
			literals = append(literals, []byte(s))
			m.litOwners = append(m.litOwners, nil)
		}
		m.litOwners[idx] = append(m.litOwners[idx], owner)
	}

	for i, p := range patterns {
		lowered := lowerRunes([]rune(p.Text))
		cp := compiledPattern{pattern: p, lowered: lowered}

		if strings.HasPrefix(p.Text, "#") && len(lowered) > 1 {
			cp.bare = lowered[1:]
		}

		for _, w := range strings.Fields(string(lowered)) {
			cp.words = append(cp.words, []rune(w))
		}

		m.compiled = append(m.compiled, cp)

		addLiteral(lowered, i)
		if cp.bare != nil {
			addLiteral(cp.bare, i)
		}
	}

	m.prefilter = ahocorasick.NewMatcher(literals)
	return m
}

// Match scans text and returns the accepted explicit and implicit matches.
// Spans are rune offsets into the input. Empty text yields no matches.
func (m *Matcher) Match(text string) MatchSet {
	if strings.TrimSpace(text) == "" {
		return MatchSet{}
	}

	runes := []rune(text)
	lower := lowerRunes(runes)
	lowerStr := string(lower)

	contained := make(map[int]bool)
	for _, lit := range m.prefilter.Match([]byte(lowerStr)) {
		for _, owner := range m.litOwners[lit] {
			contained[owner] = true
		}
	}

	tokens := tokenize(lower)

	// Strategies fall through in order of evidence strength, and each
	// strategy's output is floored before deciding whether the next one runs:
	// a fuzzy hit too weak to keep must not shadow a substring hit.
	var candidates []model.Match
	for i, cp := range m.compiled {
		found := m.aboveFloor(m.exactMatches(runes, lower, cp, contained[i]))

		if len(found) == 0 && m.cfg.FuzzyEnabled {
			found = m.aboveFloor(m.fuzzyMatches(runes, tokens, cp))
		}

		if len(found) == 0 && contained[i] {
			found = m.aboveFloor(m.substringMatch(runes, lower, cp))
		}

		candidates = append(candidates, found...)
	}

	accepted := resolveOverlaps(candidates)

	var set MatchSet
	for _, match := range accepted {
		if match.Pattern.Category.IsExplicit() {
			set.Explicit = append(set.Explicit, match)
		} else {
			set.Implicit = append(set.Implicit, match)
		}
	}

	m.logger.Debug("pattern scan complete",
		"candidates", len(candidates),
		"explicit", len(set.Explicit),
		"implicit", len(set.Implicit))

	return set
}

// exactMatches finds word-boundary-aware literal occurrences of the pattern
// (and, for hashtag patterns, of the bare form).
func (m *Matcher) exactMatches(runes, lower []rune, cp compiledPattern, contained bool) []model.Match {
	if !contained {
		return nil
	}

	var matches []model.Match
	for _, needle := range [][]rune{cp.lowered, cp.bare} {
		if needle == nil {
			continue
		}
		for _, start := range findOccurrences(lower, needle) {
			end := start + len(needle)
			if !atWordBoundary(lower, start, end) {
				continue
			}
			matches = append(matches, model.Match{
				Pattern:     cp.pattern,
				Start:       start,
				End:         end,
				MatchedText: string(runes[start:end]),
				Confidence:  m.exactConfidence(cp.pattern, end-start, len(cp.lowered)),
				Kind:        model.MatchExact,
			})
		}
	}
	return matches
}

// exactConfidence applies the pattern weight plus positional adjustments:
// shorter-than-literal hits (bare hashtag form) are discounted, explicit
// categories and very strong priors are boosted.
func (m *Matcher) exactConfidence(p model.Pattern, matchedLen, patternLen int) float64 {
	confidence := p.Weight

	if patternLen > 0 && matchedLen < patternLen {
		confidence *= float64(matchedLen) / float64(patternLen)
	}
	if p.Category.IsExplicit() {
		confidence *= 1.1
	}
	if p.Weight >= 0.9 {
		confidence *= 1.05
	}

	return clamp01(confidence)
}

// fuzzyMatches compares each text token against each pattern word, keeping
// the best similarity per token when it clears the configured threshold.
func (m *Matcher) fuzzyMatches(runes []rune, tokens []token, cp compiledPattern) []model.Match {
	var matches []model.Match
	for _, tok := range tokens {
		best := 0.0
		for _, word := range cp.words {
			if sim := similarity(tok.runes, word); sim > best {
				best = sim
			}
		}
		if best < m.cfg.FuzzyThreshold {
			continue
		}

		matches = append(matches, model.Match{
			Pattern:     cp.pattern,
			Start:       tok.start,
			End:         tok.start + len(tok.runes),
			MatchedText: string(runes[tok.start : tok.start+len(tok.runes)]),
			Confidence:  clamp01(cp.pattern.Weight * fuzzyPenalty * best),
			Kind:        model.MatchFuzzy,
		})
	}
	return matches
}

// substringMatch records the first raw containment of the full pattern
// literal, the weakest evidence kind. De-hashed forms never match here: a
// hashtag stripped of its '#' is only meaningful at a word boundary, which is
// the exact strategy's job. Containment inside an unbroken Latin word is
// rejected as noise ("ad" in "admin"); Hangul neighbors are allowed because
// Korean glues disclosure terms to particles and compounds without spaces.
func (m *Matcher) substringMatch(runes, lower []rune, cp compiledPattern) []model.Match {
	for _, start := range findOccurrences(lower, cp.lowered) {
		end := start + len(cp.lowered)
		if insideLatinWord(lower, start, end) {
			continue
		}
		return []model.Match{{
			Pattern:     cp.pattern,
			Start:       start,
			End:         end,
			MatchedText: string(runes[start:end]),
			Confidence:  clamp01(cp.pattern.Weight * substringPenalty),
			Kind:        model.MatchSubstring,
		}}
	}
	return nil
}

// aboveFloor drops matches below the configured minimum confidence.
func (m *Matcher) aboveFloor(matches []model.Match) []model.Match {
	kept := matches[:0]
	for _, match := range matches {
		if match.Confidence >= m.cfg.MinConfidence {
			kept = append(kept, match)
		}
	}
	return kept
}

// resolveOverlaps keeps the highest-confidence non-overlapping subset via
// greedy interval scheduling. Ties break deterministically on position,
// length, then pattern text.
func resolveOverlaps(candidates []model.Match) []model.Match {
	sorted := make([]model.Match, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End > b.End
		}
		return a.Pattern.Text < b.Pattern.Text
	})

	var kept []model.Match
	for _, candidate := range sorted {
		overlaps := false
		for _, existing := range kept {
			if candidate.Overlaps(existing) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, candidate)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}

// token is a whitespace-delimited run of text with its rune offset.
type token struct {
	runes []rune
	start int
}

func tokenize(lower []rune) []token {
	var tokens []token
	start := -1
	for i, r := range lower {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, token{runes: lower[start:i], start: start})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{runes: lower[start:], start: start})
	}
	return tokens
}

// findOccurrences returns every start offset of needle in haystack.
func findOccurrences(haystack, needle []rune) []int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return nil
	}
	var offsets []int
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if runesEqual(haystack[i:i+len(needle)], needle) {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// atWordBoundary checks the rune-level equivalent of \b around a span.
// Boundary checks only apply on sides where the span itself starts or ends
// with a word rune, so hashtag spans ignore their leading '#' side.
func atWordBoundary(text []rune, start, end int) bool {
	if isWordRune(text[start]) && start > 0 && isWordRune(text[start-1]) {
		return false
	}
	if isWordRune(text[end-1]) && end < len(text) && isWordRune(text[end]) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// insideLatinWord reports whether a span is glued to an adjacent ASCII
// letter or digit on either side.
func insideLatinWord(text []rune, start, end int) bool {
	if start > 0 && isLatinWordRune(text[start-1]) {
		return true
	}
	if end < len(text) && isLatinWordRune(text[end]) {
		return true
	}
	return false
}

func isLatinWordRune(r rune) bool {
	return r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func lowerRunes(runes []rune) []rune {
	lower := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}
	return lower
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
