package agent

import (
	"context"
	"fmt"

	"trendspotter/internal/embed"
	"trendspotter/internal/logging"
	"trendspotter/internal/trend"
)

// PipelineResult is the outcome of one retrieval cycle.
type PipelineResult struct {
	// Answer is the reply to show the user.
	Answer string

	// Ranked is the list built this cycle. Valid only when Clarification
	// is false; an empty list means the data had nothing relevant.
	Ranked trend.RankedList

	// Clarification is true when Answer is a clarifying question and the
	// rest of the pipeline never ran.
	Clarification bool
}

// TrendPipeline runs the full retrieval-rank-answer cycle:
// clarify -> embed -> filter -> dedup -> rank -> compose.
// Stages execute strictly sequentially; each depends on the previous
// stage's output.
type TrendPipeline struct {
	clarifier *Clarifier
	embedder  embed.Embedder
	filter    *RelevanceFilter
	dedup     *Deduplicator
	composer  *Composer
}

// NewTrendPipeline wires the pipeline stages together.
func NewTrendPipeline(clarifier *Clarifier, embedder embed.Embedder, filter *RelevanceFilter, dedup *Deduplicator, composer *Composer) *TrendPipeline {
	return &TrendPipeline{
		clarifier: clarifier,
		embedder:  embedder,
		filter:    filter,
		dedup:     dedup,
		composer:  composer,
	}
}

// Run executes one cycle for the last user message. transcript is the
// conversation so far (including that message). A clarification result
// cancels the remainder of the cycle; no partial state escapes.
func (p *TrendPipeline) Run(ctx context.Context, transcript, lastMessage string) (PipelineResult, error) {
	// Blocking gate: do not retrieve until both slots are present.
	question, err := p.clarifier.Check(ctx, transcript, lastMessage)
	if err != nil {
		return PipelineResult{}, err
	}
	if question != "" {
		return PipelineResult{Answer: question, Clarification: true}, nil
	}

	queryEmbedding, err := p.embedder.Embed(ctx, lastMessage)
	if err != nil {
		return PipelineResult{}, fmt.Errorf("pipeline: embed query: %w", err)
	}

	candidates, err := p.filter.Filter(ctx, queryEmbedding, transcript)
	if err != nil {
		return PipelineResult{}, err
	}
	if len(candidates) == 0 {
		// Not an error: nothing in the store matched. The answer is the
		// fallback, and the (empty) list still counts as this cycle's result.
		logging.Info("no candidates passed the relevance filter")
		return PipelineResult{Answer: AnswerUnknown, Ranked: trend.RankedList{}}, nil
	}

	merged, err := p.dedup.Deduplicate(ctx, candidates)
	if err != nil {
		return PipelineResult{}, err
	}

	ranked := trend.Rank(merged)

	answer, err := p.composer.Compose(ctx, transcript, lastMessage, ranked)
	if err != nil {
		return PipelineResult{}, err
	}

	return PipelineResult{Answer: answer, Ranked: ranked}, nil
}
