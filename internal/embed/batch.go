package embed

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedEmbedder wraps an Embedder with a fixed request-rate limit.
// Used by the bulk-ingest path so batch embedding never hammers the API.
type RateLimitedEmbedder struct {
	inner   Embedder
	limiter *rate.Limiter
}

// NewRateLimited wraps inner with a limiter allowing perMinute requests.
func NewRateLimited(inner Embedder, perMinute int) *RateLimitedEmbedder {
	if perMinute <= 0 {
		perMinute = 60
	}
	interval := time.Minute / time.Duration(perMinute)
	return &RateLimitedEmbedder{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Available reports whether the wrapped embedder is accessible.
func (e *RateLimitedEmbedder) Available() bool {
	return e.inner.Available()
}

// Embed waits for the rate limiter, then delegates to the wrapped embedder.
func (e *RateLimitedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("embed: rate limit wait: %w", err)
	}
	return e.inner.Embed(ctx, text)
}

// EmbedAll embeds texts sequentially under the rate limit.
// result[i] corresponds to texts[i]. Stops on the first error.
func (e *RateLimitedEmbedder) EmbedAll(ctx context.Context, texts []string) ([][]float64, error) {
	results := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed: text %d of %d: %w", i+1, len(texts), err)
		}
		results[i] = vec
	}
	return results, nil
}
