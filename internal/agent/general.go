package agent

import (
	"context"
	"fmt"
	"strings"

	"trendspotter/internal/oracle"
	"trendspotter/internal/websearch"
)

// searchNotFound is returned when the web turned up nothing usable.
const searchNotFound = "I could not find this information online."

const entitySystemPrompt = `Extract the main entity (place, festival, event, or brand) that the user is
asking about in their next question, based on the conversation history.
Provide ONLY the entity name. If none, respond 'None'.`

const generalSystemPrompt = `You are a helpful assistant. Answer the user's question in ONE concise
sentence. Use only the information from the conversation history or the
provided web context.`

// GeneralAgent answers specific follow-up questions (addresses, prices,
// dates) by combining the conversation's entity with a web search. The web
// search collaborator is external; this agent only owns the dispatch.
type GeneralAgent struct {
	oracle   oracle.Provider
	searcher websearch.Searcher
}

// NewGeneralAgent creates a GeneralAgent.
func NewGeneralAgent(p oracle.Provider, s websearch.Searcher) *GeneralAgent {
	return &GeneralAgent{oracle: p, searcher: s}
}

// extractEntity asks the oracle which entity the follow-up refers to.
func (g *GeneralAgent) extractEntity(ctx context.Context, transcript, question string) (string, error) {
	req := oracle.Request{
		SystemPrompt: entitySystemPrompt,
		UserPrompt: fmt.Sprintf("Conversation history:\n%s\n\nUser's next question: %s",
			transcript, question),
		MaxTokens: 64,
	}

	resp, err := g.oracle.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("extract entity: %w", err)
	}

	entity := strings.TrimSpace(resp.Content)
	if strings.EqualFold(entity, "none") {
		return "", nil
	}
	return entity, nil
}

// Answer handles one general question: entity extraction, web search, then
// a one-sentence answer grounded in the snippets.
func (g *GeneralAgent) Answer(ctx context.Context, transcript, question string) (string, error) {
	entity, err := g.extractEntity(ctx, transcript, question)
	if err != nil {
		return "", err
	}

	query := question
	if entity != "" {
		query = entity + " " + question
	}

	results, err := g.searcher.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("general: %w", err)
	}

	webContext := websearch.Snippets(results, 3)
	if webContext == "" {
		return searchNotFound, nil
	}

	req := oracle.Request{
		SystemPrompt: generalSystemPrompt,
		UserPrompt: fmt.Sprintf("Web context:\n%s\n\nConversation history:\n%s\n\nUser question:\n%s",
			webContext, transcript, question),
	}

	resp, err := g.oracle.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("general: %w", err)
	}

	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return searchNotFound, nil
	}
	return answer, nil
}
