package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"trendspotter/internal/embed"
	"trendspotter/internal/logging"
	"trendspotter/internal/oracle"
	"trendspotter/internal/trend"
)

// RecordSource provides read-only iteration over stored trend records.
// *store.Store satisfies it.
type RecordSource interface {
	Records(ctx context.Context, collection string) ([]trend.Record, error)
}

// candidatesSchema is the expected shape of the refinement response: the
// same JSON list of candidates that went in, possibly shorter.
var candidatesSchema = oracle.MustCompileSchema("candidates.json", `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["text", "likes"],
		"properties": {
			"text": {"type": "string"},
			"likes": {"type": "integer"}
		}
	}
}`)

const filterSystemPrompt = `You are given the conversation between a user and an assistant, and a JSON
list of tweets. Each tweet has 'text' and 'likes'. Answer based on the LAST
user message, interpreted in the context of the whole conversation.

Keep only tweets relevant to the user's question. For each tweet check:
1. Identify the location the user is interested in. Keep a tweet only if its
   location is within or equal to that location (New York is part of the
   United States; Tokyo is not).
2. Identify the trend category the user asked for (song, restaurant, dance,
   car type, ...). Keep only tweets matching that category, allowing closely
   related categories (a coffee shop counts as a restaurant if it serves food).

Return ONLY the filtered list, in exactly the same JSON format as received,
without changing any text or likes values. No code fences, no commentary.`

// RelevanceFilter runs the two-stage filter over the trend store: a cheap
// cosine-similarity prefilter against the query embedding, then an oracle
// refinement pass on the survivors. The prefilter bounds how much text is
// ever sent to the oracle.
type RelevanceFilter struct {
	source     RecordSource
	oracle     oracle.Provider
	collection string
	threshold  float64
}

// NewRelevanceFilter creates a filter over the given collection.
// threshold is the minimum cosine similarity for the prefilter.
func NewRelevanceFilter(source RecordSource, p oracle.Provider, collection string, threshold float64) *RelevanceFilter {
	return &RelevanceFilter{
		source:     source,
		oracle:     p,
		collection: collection,
		threshold:  threshold,
	}
}

// Filter returns the candidates relevant to the query. An empty result is
// not an error: it means no stored record passed the similarity threshold
// (or the refinement kept nothing) and downstream stages must short-circuit
// to a "not enough data" answer.
func (f *RelevanceFilter) Filter(ctx context.Context, queryEmbedding []float64, transcript string) ([]trend.Candidate, error) {
	records, err := f.source.Records(ctx, f.collection)
	if err != nil {
		return nil, fmt.Errorf("relevance filter: load records: %w", err)
	}

	var prefiltered []trend.Candidate
	for _, rec := range records {
		similarity := embed.CosineSimilarity(queryEmbedding, rec.Embedding)
		if similarity >= f.threshold {
			prefiltered = append(prefiltered, trend.Candidate{
				Text:  rec.Text,
				Likes: rec.Popularity,
			})
		}
	}

	logging.Debug("embedding prefilter",
		"scanned", len(records),
		"kept", len(prefiltered),
		"threshold", f.threshold)

	if len(prefiltered) == 0 {
		return nil, nil
	}

	return f.refine(ctx, prefiltered, transcript)
}

// refine asks the oracle to drop candidates whose location or category does
// not match the conversation. A malformed response is a filter failure, not
// a license to return the unfiltered set.
func (f *RelevanceFilter) refine(ctx context.Context, candidates []trend.Candidate, transcript string) ([]trend.Candidate, error) {
	candidatesJSON, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("relevance filter: marshal candidates: %w", err)
	}

	req := oracle.Request{
		SystemPrompt: filterSystemPrompt,
		UserPrompt: fmt.Sprintf("Conversation:\n%s\n\nTweets:\n%s",
			transcript, string(candidatesJSON)),
	}

	resp, err := f.oracle.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("relevance filter: %w", err)
	}

	var refined []trend.Candidate
	if err := oracle.DecodeValidated(resp.Content, candidatesSchema, &refined); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFilterParse, err)
	}

	logging.Debug("oracle refinement", "in", len(candidates), "kept", len(refined))
	return refined, nil
}
