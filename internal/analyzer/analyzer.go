// Package analyzer orchestrates the full PPL pipeline: pattern matching,
// scoring, oracle context analysis, probability fusion, classification, and
// reasoning, for single items and bounded-concurrency batches.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cleanfeed/sifter/internal/classifier"
	"github.com/cleanfeed/sifter/internal/matcher"
	"github.com/cleanfeed/sifter/internal/model"
	"github.com/cleanfeed/sifter/internal/probability"
	"github.com/cleanfeed/sifter/internal/reasoning"
	"github.com/cleanfeed/sifter/internal/scorer"
)

// DefaultMaxConcurrent bounds how many items are mid-flight against the
// oracle simultaneously in batch mode.
const DefaultMaxConcurrent = 3

// ContextAnalyzer is the oracle adapter seam. Implementations never return
// an error; they degrade to neutral judgments internally.
type ContextAnalyzer interface {
	Analyze(ctx context.Context, input model.AnalysisInput, score model.PatternScore) model.ContextResult
}

// Analyzer is the pipeline orchestrator. All stages except the oracle are
// pure in-memory computation, so one Analyzer serves concurrent batches.
type Analyzer struct {
	matcher    *matcher.Matcher
	scorer     *scorer.Scorer
	oracle     ContextAnalyzer
	calculator *probability.Calculator
	classifier *classifier.Classifier
	reasoner   *reasoning.Generator
	logger     *slog.Logger
}

// New wires an Analyzer around the given matcher and oracle adapter.
func New(m *matcher.Matcher, oracle ContextAnalyzer, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		matcher:    m,
		scorer:     scorer.New(logger),
		oracle:     oracle,
		calculator: probability.New(probability.DefaultWeights(), logger),
		classifier: classifier.New(logger),
		reasoner:   reasoning.New(logger),
		logger:     logger,
	}
}

// Classifier exposes the classifier for threshold administration.
func (a *Analyzer) Classifier() *classifier.Classifier {
	return a.classifier
}

// AnalyzeOne runs the full pipeline for a single item. It never panics or
// returns an error: any stage failure is converted into a complete result
// with is_ppl=false and a low-confidence explanatory report.
func (a *Analyzer) AnalyzeOne(ctx context.Context, input model.AnalysisInput) (result model.AnalysisResult) {
	start := time.Now()
	id := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("analysis panicked", "id", id, "panic", r)
			result = a.errorResult(id, fmt.Sprintf("analysis panic: %v", r), start)
		}
	}()

	a.logger.Info("analysis started", "id", id, "title", input.VideoTitle)

	text := input.CombinedText()
	matches := a.matcher.Match(text)
	score := a.scorer.Score(matches)

	contextResult := a.oracle.Analyze(ctx, input, score)

	probResult := a.calculator.Calculate(score, contextResult)

	classResult := a.classifier.Classify(classifier.Request{
		Probability:       probResult.FinalProbability,
		ComponentScores:   probResult.ComponentScores,
		ContextIndicators: contextResult.KeyIndicators,
		Confidence:        contextResult.Confidence,
		Text:              text,
	})

	report := a.reasoner.Generate(reasoning.Input{
		PatternScore:    score,
		ExplicitMatches: matches.Explicit,
		ImplicitMatches: matches.Implicit,
		Context:         contextResult,
		Probability:     probResult,
		Classification:  classResult,
		VideoMetadata:   input.VideoMetadata,
	})

	result = model.AnalysisResult{
		ID:              id,
		IsPPL:           classResult.FilteringDecision,
		PPLProbability:  probResult.FinalProbability,
		ConfidenceLevel: classResult.ConfidenceLevel,
		PatternScore:    score,
		ExplicitMatches: matches.Explicit,
		ImplicitMatches: matches.Implicit,
		ContextAnalysis: contextResult,
		Probability:     probResult,
		Classification:  classResult,
		ReasoningReport: report,
		Duration:        time.Since(start),
		AnalyzedAt:      start,
	}

	a.logger.Info("analysis complete",
		"id", id,
		"is_ppl", result.IsPPL,
		"probability", result.PPLProbability,
		"duration", result.Duration)

	return result
}

// AnalyzeBatch analyzes inputs with at most maxConcurrent items in flight.
// Results are positional: results[i] always corresponds to inputs[i]. A
// failure in one item never affects its siblings, and the returned slice is
// always complete.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, inputs []model.AnalysisInput, maxConcurrent int) []model.AnalysisResult {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}

	a.logger.Info("batch analysis started", "items", len(inputs), "max_concurrent", maxConcurrent)

	results := make([]model.AnalysisResult, len(inputs))

	// A plain group rather than WithContext: one item must never cancel
	// its siblings, and workers have no error to report anyway.
	var g errgroup.Group
	g.SetLimit(maxConcurrent)

	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			results[i] = a.AnalyzeOne(ctx, input)
			return nil
		})
	}

	_ = g.Wait()

	a.logger.Info("batch analysis complete", "items", len(results))
	return results
}

// errorResult is the orchestrator's last line of defense: a complete,
// well-formed result for an item whose analysis failed.
func (a *Analyzer) errorResult(id, message string, start time.Time) model.AnalysisResult {
	return model.AnalysisResult{
		ID:              id,
		IsPPL:           false,
		PPLProbability:  0.5,
		ConfidenceLevel: model.ConfidenceLow,
		PatternScore: model.PatternScore{
			DominantCategory: "none",
			Reasoning:        []string{fmt.Sprintf("analysis error: %s", message)},
		},
		ContextAnalysis: model.ContextResult{
			CommercialLikelihood: 0.5,
			Reasoning:            message,
			KeyIndicators:        []string{},
		},
		Probability:     probability.NeutralResult(message),
		Classification:  classifier.ErrorResult(message),
		ReasoningReport: reasoning.ErrorReport(message),
		Duration:        time.Since(start),
		AnalyzedAt:      start,
	}
}
