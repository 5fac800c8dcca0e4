package oracle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/cleanfeed/sifter/internal/common"
	"github.com/cleanfeed/sifter/internal/model"
)

// Store is an optional persistent cache behind the in-memory one, so repeat
// judgments survive process restarts.
type Store interface {
	Get(ctx context.Context, key string) (model.ContextResult, bool, error)
	Put(ctx context.Context, key string, result model.ContextResult) error
}

// Analyzer wraps a provider client with caching, rate limiting, retries, and
// the fail-open fallbacks. Analyze never returns an error: a failed oracle
// call degrades to a neutral judgment so the pipeline keeps moving.
type Analyzer struct {
	client    Client
	cache     *resultCache
	store     Store
	limiter   *rateLimiter
	logger    *slog.Logger
	timeout   time.Duration
	retryOpts common.RetryOptions
	descLimit int
}

// NewAnalyzer builds an Analyzer around the given client. store may be nil.
func NewAnalyzer(client Client, cfg Config, store Store, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	return &Analyzer{
		client:  client,
		cache:   newResultCache(cfg.CacheTTL),
		store:   store,
		limiter: newRateLimiter(cfg.RateLimit),
		logger:  logger,
		timeout: timeout,
		retryOpts: common.RetryOptions{
			MaxAttempts:  maxRetries,
			InitialDelay: time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
		descLimit: cfg.DescriptionLimit,
	}
}

// Analyze judges the commercial intent of one item. Identical inputs hit the
// cache; oracle failures produce a neutral 0.5 judgment with zero confidence
// and unparsable replies fall back to local keyword analysis.
func (a *Analyzer) Analyze(ctx context.Context, input model.AnalysisInput, score model.PatternScore) model.ContextResult {
	prompt := BuildPrompt(input, score, a.descLimit)
	key := cacheKey(prompt)

	if result, ok := a.cache.get(key); ok {
		a.logger.Debug("oracle cache hit", "key", key[:12])
		return result
	}

	if a.store != nil {
		result, ok, err := a.store.Get(ctx, key)
		if err != nil {
			a.logger.Warn("persistent oracle cache read failed", "error", err)
		} else if ok {
			a.cache.set(key, result)
			return result
		}
	}

	if err := a.limiter.wait(ctx); err != nil {
		a.logger.Warn("oracle rate limiter wait aborted", "error", err)
		return neutralResult(err)
	}

	var raw string
	err := common.WithRetry(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()

		response, callErr := a.client.AnalyzeContext(callCtx, prompt)
		if callErr != nil {
			return callErr
		}
		raw = response
		return nil
	}, a.retryOpts)
	if err != nil {
		a.logger.Warn("oracle call failed, returning neutral judgment", "error", err)
		return neutralResult(err)
	}

	result, parseErr := parseResponse(raw)
	if parseErr != nil {
		a.logger.Warn("oracle response unparsable, using keyword fallback", "error", parseErr)
		result = fallbackAnalysis(raw)
	}

	a.cache.set(key, result)
	if a.store != nil && !result.Fallback {
		if err := a.store.Put(ctx, key, result); err != nil {
			a.logger.Warn("persistent oracle cache write failed", "error", err)
		}
	}

	a.logger.Info("oracle context analysis complete",
		"commercial_likelihood", result.CommercialLikelihood,
		"confidence", result.Confidence,
		"fallback", result.Fallback)

	return result
}

// Close stops the cache janitor.
func (a *Analyzer) Close() {
	a.cache.Close()
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
