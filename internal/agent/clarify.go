package agent

import (
	"context"
	"fmt"

	"trendspotter/internal/logging"
	"trendspotter/internal/oracle"
)

// clarifySchema is the expected shape of the slot-check response.
var clarifySchema = oracle.MustCompileSchema("clarify.json", `{
	"type": "object",
	"required": ["complete"],
	"properties": {
		"complete": {"type": "boolean"},
		"question": {"type": "string"}
	}
}`)

const clarifySystemPrompt = `You check whether a trend question is specific enough to answer.
A question is complete when it specifies BOTH:
1. a location (a city, country, or area), and
2. a trend category (e.g. song, restaurant, dance, bar, event).
An explicit "any" or "any kind" answer counts as satisfying a slot.
Always interpret the last user message in the context of the whole conversation:
a slot already given earlier in the conversation stays filled.

Respond with ONLY a JSON object, no code fences:
{"complete": true} when both slots are present, or
{"complete": false, "question": "<one short question asking for the missing slot(s)>"}`

// Clarifier validates that a query carries both a location and a trend
// category before the retrieval pipeline runs. This is a blocking gate:
// a returned question is terminal for the current turn.
type Clarifier struct {
	oracle oracle.Provider
}

// NewClarifier creates a Clarifier backed by the given provider.
func NewClarifier(p oracle.Provider) *Clarifier {
	return &Clarifier{oracle: p}
}

// clarifyResult mirrors clarifySchema.
type clarifyResult struct {
	Complete bool   `json:"complete"`
	Question string `json:"question"`
}

// Check returns ("", nil) when no clarification is needed, or the clarifying
// question to put to the user. The conversation transcript supplies context
// for slots answered in earlier turns.
func (c *Clarifier) Check(ctx context.Context, transcript, lastMessage string) (string, error) {
	req := oracle.Request{
		SystemPrompt: clarifySystemPrompt,
		UserPrompt: fmt.Sprintf("Conversation so far:\n%s\n\nLast user message:\n%s",
			transcript, lastMessage),
		MaxTokens: 256,
	}

	resp, err := c.oracle.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("clarify: %w", err)
	}

	var result clarifyResult
	if err := oracle.DecodeValidated(resp.Content, clarifySchema, &result); err != nil {
		return "", fmt.Errorf("clarify: %w: %w", ErrIntentParse, err)
	}

	if result.Complete {
		return "", nil
	}

	question := result.Question
	if question == "" {
		question = "Which location and what kind of trend are you interested in?"
	}

	logging.Debug("clarification required", "question", question)
	return question, nil
}
