package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"trendspotter/internal/logging"
	"trendspotter/internal/oracle"
	"trendspotter/internal/trend"
)

// canonicalSchema is the expected shape of the merge response.
var canonicalSchema = oracle.MustCompileSchema("canonical.json", `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["text", "likes", "count"],
		"properties": {
			"text": {"type": "array", "items": {"type": "string"}},
			"likes": {"type": "integer"},
			"count": {"type": "integer", "minimum": 1}
		}
	}
}`)

const dedupSystemPrompt = `You receive a JSON list of tweets. Each tweet has 'text' and 'likes'.

Your task:
1. Identify tweets that refer to the same real-world thing (same song, same
   burger place, same bar), even when the wording differs.
2. Merge each such group into a single entry.
3. Sum the 'likes' of all merged tweets.
4. Set 'count' to the number of tweets merged into the entry. A tweet with
   no duplicates still becomes an entry with count 1.
5. In 'text', list the source tweet texts, the most complete description first.

Example input:
[
  {"text": "Sunny Cafe opened on 5th and everyone is there", "likes": 120},
  {"text": "the queue at sunny cafe this morning!!", "likes": 80},
  {"text": "new mural downtown", "likes": 40}
]

Example output:
[
  {"text": ["Sunny Cafe opened on 5th and everyone is there", "the queue at sunny cafe this morning!!"], "likes": 200, "count": 2},
  {"text": ["new mural downtown"], "likes": 40, "count": 1}
]

'text' must ALWAYS be a JSON array of strings, even for a single tweet.
Return ONLY the JSON list. No code fences, no commentary.`

// Deduplicator merges candidates that refer to the same real-world entity
// into canonical trends, delegating entity resolution to the oracle with a
// worked-example prompt.
type Deduplicator struct {
	oracle oracle.Provider
}

// NewDeduplicator creates a Deduplicator backed by the given provider.
func NewDeduplicator(p oracle.Provider) *Deduplicator {
	return &Deduplicator{oracle: p}
}

// Deduplicate merges the candidate set into canonical trends. Trendiness is
// not computed here; the result must go through trend.Rank before anything
// reads scores from it.
func (d *Deduplicator) Deduplicate(ctx context.Context, candidates []trend.Candidate) ([]trend.Canonical, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	candidatesJSON, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("deduplicate: marshal candidates: %w", err)
	}

	req := oracle.Request{
		SystemPrompt: dedupSystemPrompt,
		UserPrompt:   string(candidatesJSON),
	}

	resp, err := d.oracle.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("deduplicate: %w", err)
	}

	var merged []trend.Canonical
	if err := oracle.DecodeValidated(resp.Content, canonicalSchema, &merged); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDedupParse, err)
	}

	logging.Debug("deduplication", "in", len(candidates), "out", len(merged))
	return merged, nil
}
