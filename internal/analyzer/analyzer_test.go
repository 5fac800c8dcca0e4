package analyzer

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanfeed/sifter/internal/catalog"
	"github.com/cleanfeed/sifter/internal/matcher"
	"github.com/cleanfeed/sifter/internal/model"
)

// stubOracle is a scripted context analyzer.
type stubOracle struct {
	result     model.ContextResult
	delay      time.Duration
	panicOn    string // panic when the input title matches
	echoTitles bool   // copy the input title into the result reasoning

	mu         sync.Mutex
	inFlight   int32
	maxSeen    int32
	totalCalls int
}

func (s *stubOracle) Analyze(_ context.Context, input model.AnalysisInput, _ model.PatternScore) model.ContextResult {
	current := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	for {
		seen := atomic.LoadInt32(&s.maxSeen)
		if current <= seen || atomic.CompareAndSwapInt32(&s.maxSeen, seen, current) {
			break
		}
	}

	s.mu.Lock()
	s.totalCalls++
	s.mu.Unlock()

	if s.panicOn != "" && input.VideoTitle == s.panicOn {
		panic("oracle exploded")
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	result := s.result
	if s.echoTitles {
		result.Reasoning = input.VideoTitle
	}
	return result
}

func newTestAnalyzer(t *testing.T, oracle ContextAnalyzer) *Analyzer {
	t.Helper()
	m := matcher.New(catalog.Default(), matcher.DefaultConfig(), nil)
	return New(m, oracle, nil)
}

func TestAnalyzeOneHighPPL(t *testing.T) {
	oracle := &stubOracle{result: model.ContextResult{
		CommercialLikelihood: 0.9,
		Reasoning:            "clear sponsorship thanks",
		KeyIndicators:        []string{"협찬 감사"},
		Confidence:           0.85,
	}}
	a := newTestAnalyzer(t, oracle)

	result := a.AnalyzeOne(context.Background(), model.AnalysisInput{
		VideoTitle:        "신제품 리뷰 #광고",
		VideoDescription:  "협찬 받은 제품입니다. 구매링크 아래 참고하세요",
		TranscriptExcerpt: "오늘만 특가 할인이에요",
	})

	assert.True(t, result.IsPPL)
	assert.Equal(t, model.CategoryHighPPL, result.Classification.Category)
	assert.NotEmpty(t, result.ExplicitMatches)
	assert.NotEmpty(t, result.ImplicitMatches)
	assert.Greater(t, result.PPLProbability, 0.65)
	assert.NotEmpty(t, result.ID)
	assert.NotEmpty(t, result.ReasoningReport.AnalysisSummary)
	assert.False(t, result.AnalyzedAt.IsZero())
}

func TestAnalyzeOneOrganic(t *testing.T) {
	oracle := &stubOracle{result: model.ContextResult{
		CommercialLikelihood: 0.1,
		Reasoning:            "personal vlog content",
		Confidence:           0.8,
	}}
	a := newTestAnalyzer(t, oracle)

	result := a.AnalyzeOne(context.Background(), model.AnalysisInput{
		VideoTitle:        "주말 산책 브이로그",
		VideoDescription:  "공원에서 조용한 하루를 보냈습니다",
		TranscriptExcerpt: "날씨가 정말 좋네요",
	})

	assert.False(t, result.IsPPL)
	assert.Equal(t, model.CategoryOrganic, result.Classification.Category)
	assert.Empty(t, result.ExplicitMatches)
	assert.Less(t, result.PPLProbability, 0.15)
}

func TestAnalyzeOneNeutralOracleStillUsesPatterns(t *testing.T) {
	// A failed oracle call surfaces as a neutral judgment with zero
	// confidence; strong explicit patterns must still drive the verdict.
	oracle := &stubOracle{result: model.ContextResult{
		CommercialLikelihood: 0.5,
		Confidence:           0.0,
		Fallback:             true,
	}}
	a := newTestAnalyzer(t, oracle)

	result := a.AnalyzeOne(context.Background(), model.AnalysisInput{
		VideoTitle:       "협찬 제품 소개 #광고",
		VideoDescription: "유료광고 포함",
	})

	assert.True(t, result.IsPPL)
	assert.Equal(t, model.CategoryHighPPL, result.Classification.Category)
}

func TestAnalyzeOnePanicContainment(t *testing.T) {
	oracle := &stubOracle{panicOn: "boom"}
	a := newTestAnalyzer(t, oracle)

	result := a.AnalyzeOne(context.Background(), model.AnalysisInput{VideoTitle: "boom"})

	assert.False(t, result.IsPPL)
	assert.Equal(t, model.ConfidenceLow, result.ConfidenceLevel)
	assert.Equal(t, 0.5, result.PPLProbability)
	assert.Equal(t, model.CategoryUnknown, result.Classification.Category)
	assert.False(t, result.Classification.FilteringDecision)
	assert.True(t, result.ReasoningReport.TransparencyData.Error)
	assert.NotEmpty(t, result.ID)
}

func TestAnalyzeBatchPreservesOrder(t *testing.T) {
	oracle := &stubOracle{
		result:     model.ContextResult{CommercialLikelihood: 0.5, Confidence: 0.5},
		delay:      5 * time.Millisecond,
		echoTitles: true,
	}
	a := newTestAnalyzer(t, oracle)

	inputs := []model.AnalysisInput{
		{VideoTitle: "first"},
		{VideoTitle: "second"},
		{VideoTitle: "third"},
		{VideoTitle: "fourth"},
		{VideoTitle: "fifth"},
	}
	results := a.AnalyzeBatch(context.Background(), inputs, 3)

	require.Len(t, results, len(inputs))
	for i, input := range inputs {
		assert.Equal(t, input.VideoTitle, results[i].ContextAnalysis.Reasoning)
	}
}

func TestAnalyzeBatchRespectsConcurrencyCap(t *testing.T) {
	oracle := &stubOracle{
		result: model.ContextResult{CommercialLikelihood: 0.5},
		delay:  20 * time.Millisecond,
	}
	a := newTestAnalyzer(t, oracle)

	inputs := make([]model.AnalysisInput, 8)
	a.AnalyzeBatch(context.Background(), inputs, 2)

	assert.LessOrEqual(t, atomic.LoadInt32(&oracle.maxSeen), int32(2))
	assert.Equal(t, 8, oracle.totalCalls)
}

func TestAnalyzeBatchIsolatesFailures(t *testing.T) {
	oracle := &stubOracle{
		result:  model.ContextResult{CommercialLikelihood: 0.2, Confidence: 0.8},
		panicOn: "poison",
	}
	a := newTestAnalyzer(t, oracle)

	inputs := []model.AnalysisInput{
		{VideoTitle: "fine one"},
		{VideoTitle: "poison"},
		{VideoTitle: "fine two"},
	}
	results := a.AnalyzeBatch(context.Background(), inputs, 2)

	require.Len(t, results, 3)
	assert.NotEqual(t, model.CategoryUnknown, results[0].Classification.Category)
	assert.Equal(t, model.CategoryUnknown, results[1].Classification.Category)
	assert.True(t, results[1].ReasoningReport.TransparencyData.Error)
	assert.NotEqual(t, model.CategoryUnknown, results[2].Classification.Category)
}

func TestComputeStatistics(t *testing.T) {
	results := []model.AnalysisResult{
		{IsPPL: true, PPLProbability: 0.8, Duration: 10 * time.Millisecond,
			ConfidenceLevel: model.ConfidenceHigh,
			Classification:  model.ClassificationResult{Category: model.CategoryHighPPL}},
		{IsPPL: true, PPLProbability: 0.5, Duration: 20 * time.Millisecond,
			ConfidenceLevel: model.ConfidenceMedium,
			Classification:  model.ClassificationResult{Category: model.CategoryMediumPPL}},
		{IsPPL: false, PPLProbability: 0.1, Duration: 30 * time.Millisecond,
			ConfidenceLevel: model.ConfidenceHigh,
			Classification:  model.ClassificationResult{Category: model.CategoryOrganic}},
	}

	stats := ComputeStatistics(results)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.PPLDetected)
	assert.InDelta(t, 2.0/3.0, stats.DetectionRate, 1e-9)
	assert.InDelta(t, (0.8+0.5+0.1)/3, stats.AverageProbability, 1e-9)
	assert.Equal(t, 20*time.Millisecond, stats.AverageDuration)
	assert.Equal(t, 1, stats.CategoryDistribution[model.CategoryHighPPL])
	assert.Equal(t, 2, stats.ConfidenceDistribution[model.ConfidenceHigh])
}

func TestComputeStatisticsEmpty(t *testing.T) {
	stats := ComputeStatistics(nil)

	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.DetectionRate)
	assert.NotNil(t, stats.CategoryDistribution)
	assert.NotNil(t, stats.ConfidenceDistribution)
}
