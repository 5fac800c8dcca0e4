// Package oracle calls an external language-model service to judge the
// commercial intent of video content, with caching, rate limiting, retries,
// and local fallbacks. The adapter never fails the pipeline: every error path
// degrades to a usable ContextResult.
package oracle

import (
	"context"
	"fmt"
	"time"
)

// Client is the provider-facing interface: one prompt in, raw model text out.
type Client interface {
	// AnalyzeContext sends the prompt and returns the model's raw response.
	AnalyzeContext(ctx context.Context, prompt string) (string, error)
}

// Config holds oracle configuration.
type Config struct {
	Provider          string
	APIKey            string
	Model             string
	Temperature       float64
	MaxTokens         int
	CacheTTL          time.Duration
	RateLimit         int // requests per minute
	Timeout           time.Duration
	MaxRetries        int
	DescriptionLimit  int // max runes of the video description sent upstream
	PersistentCaching bool
}

// NewClient creates a provider client based on the configuration.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "gemini", "":
		return newGeminiClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported oracle provider: %s", cfg.Provider)
	}
}
