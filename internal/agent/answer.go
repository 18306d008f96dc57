package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"trendspotter/internal/logging"
	"trendspotter/internal/oracle"
	"trendspotter/internal/trend"
)

// IntentKind classifies what slice of the ranking the user asked for.
type IntentKind string

const (
	// IntentSingle asks for the single trendiest item.
	IntentSingle IntentKind = "single"
	// IntentTopN asks for the first N items.
	IntentTopN IntentKind = "top_n"
	// IntentRank asks for the item at one specific rank (1-based).
	IntentRank IntentKind = "rank"
	// IntentUnknown means the phrasing could not be mapped to a slice.
	IntentUnknown IntentKind = "unknown"
)

// Intent is the recognized answer shape for a trend question.
type Intent struct {
	Kind IntentKind `json:"kind"`
	N    int        `json:"n,omitempty"`
}

var intentSchema = oracle.MustCompileSchema("intent.json", `{
	"type": "object",
	"required": ["kind"],
	"properties": {
		"kind": {"enum": ["single", "top_n", "rank", "unknown"]},
		"n": {"type": "integer", "minimum": 1}
	}
}`)

const intentSystemPrompt = `Classify what slice of a ranked trend list the user is asking for.
Interpret the last user message in the context of the conversation.

Respond with ONLY a JSON object, no code fences:
- {"kind": "single"} for the one trendiest/most popular item
- {"kind": "top_n", "n": N} for the top N items
- {"kind": "rank", "n": K} for the Kth item ("2nd best" is K=2)
- {"kind": "unknown"} if none of these fit`

const answerSystemPrompt = `You are a helpful assistant in a chat session about social trends.

Instructions for generating your response:
- The 'Selected trends' section is the ONLY information you may use.
- Entries are in rank order: the trendiest first.
- Mention each trend by name, and its location when the tweets include one.
- Describe context strictly from what the tweets say (what happens there,
  why it is popular).
- Write in a friendly and informative tone, as if giving a personal
  recommendation.
- Keep the response concise, no more than %d words, as a single paragraph.`

// Composer turns a ranked list and the user's phrasing into the final reply.
// Slice selection is deterministic; only the prose comes from the oracle.
type Composer struct {
	oracle   oracle.Provider
	maxWords int
}

// NewComposer creates a Composer. maxWords caps the reply length; zero means
// the default of 25.
func NewComposer(p oracle.Provider, maxWords int) *Composer {
	if maxWords <= 0 {
		maxWords = 25
	}
	return &Composer{oracle: p, maxWords: maxWords}
}

// DeriveIntent asks the oracle what slice the user's phrasing requests.
// A malformed response degrades to IntentUnknown rather than failing the
// turn: the composer then answers "I don't know", which is the contract for
// unparseable intent.
func (c *Composer) DeriveIntent(ctx context.Context, transcript, lastMessage string) Intent {
	req := oracle.Request{
		SystemPrompt: intentSystemPrompt,
		UserPrompt: fmt.Sprintf("Conversation:\n%s\n\nLast user message:\n%s",
			transcript, lastMessage),
		MaxTokens: 128,
	}

	resp, err := c.oracle.Complete(ctx, req)
	if err != nil {
		logging.Warn("intent derivation failed", "error", err)
		return Intent{Kind: IntentUnknown}
	}

	var intent Intent
	if err := oracle.DecodeValidated(resp.Content, intentSchema, &intent); err != nil {
		logging.Warn("intent parse failed", "error", err)
		return Intent{Kind: IntentUnknown}
	}

	return intent
}

// SelectSlice extracts the requested slice from the ranked list.
// Returns ok=false when the answer must be the literal fallback: empty
// list, unknown intent, or a rank beyond the end. Top-N never pads.
func SelectSlice(ranked trend.RankedList, intent Intent) (trend.RankedList, bool) {
	if len(ranked) == 0 {
		return nil, false
	}

	switch intent.Kind {
	case IntentSingle:
		top, _ := ranked.Top()
		return trend.RankedList{top}, true
	case IntentTopN:
		if intent.N < 1 {
			return nil, false
		}
		return ranked.TopN(intent.N), true
	case IntentRank:
		at, ok := ranked.At(intent.N)
		if !ok {
			return nil, false
		}
		return trend.RankedList{at}, true
	default:
		return nil, false
	}
}

// Compose produces the reply for a completed retrieval cycle. The oracle
// phrases only the selected slice; everything outside it never reaches the
// prompt.
func (c *Composer) Compose(ctx context.Context, transcript, lastMessage string, ranked trend.RankedList) (string, error) {
	intent := c.DeriveIntent(ctx, transcript, lastMessage)

	slice, ok := SelectSlice(ranked, intent)
	if !ok {
		return AnswerUnknown, nil
	}

	sliceJSON, err := json.MarshalIndent(slice, "", "  ")
	if err != nil {
		return "", fmt.Errorf("compose: marshal slice: %w", err)
	}

	req := oracle.Request{
		SystemPrompt: fmt.Sprintf(answerSystemPrompt, c.maxWords),
		UserPrompt: fmt.Sprintf("Conversation:\n%s\n\nLast user message:\n%s\n\nSelected trends:\n%s",
			transcript, lastMessage, string(sliceJSON)),
	}

	resp, err := c.oracle.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("compose: %w", err)
	}

	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return AnswerUnknown, nil
	}
	return answer, nil
}
