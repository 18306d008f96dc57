package agent

import (
	"context"
	"strings"

	"trendspotter/internal/logging"
	"trendspotter/internal/oracle"
	"trendspotter/internal/session"
)

// Role identifies which handler answers an incoming message.
type Role int

const (
	// RoleUnknown is the default for any unrecognized classification.
	RoleUnknown Role = iota
	// RoleTrend runs the full retrieval pipeline.
	RoleTrend
	// RolePopularity answers from the session's cached ranked list only.
	RolePopularity
	// RoleGeneral delegates to the web-search collaborator.
	RoleGeneral
)

func (r Role) String() string {
	switch r {
	case RoleTrend:
		return "TrendAgent"
	case RolePopularity:
		return "PopularityAgent"
	case RoleGeneral:
		return "GeneralAgent"
	default:
		return "Unknown"
	}
}

// ParseRole maps a classification label to a Role. Anything outside the
// known label set maps to RoleUnknown; there is exactly one default
// transition, never a crash.
func ParseRole(label string) Role {
	switch strings.TrimSpace(label) {
	case "TrendAgent":
		return RoleTrend
	case "PopularityAgent":
		return RolePopularity
	case "GeneralAgent":
		return RoleGeneral
	default:
		return RoleUnknown
	}
}

// State is the orchestrator's position in the per-turn cycle.
type State int

const (
	StateIdle State = iota
	StateClassifying
	StateDispatching
	StateAwaitingSubAgent
	StateResponding
)

func (s State) String() string {
	switch s {
	case StateClassifying:
		return "classifying"
	case StateDispatching:
		return "dispatching"
	case StateAwaitingSubAgent:
		return "awaiting_sub_agent"
	case StateResponding:
		return "responding"
	default:
		return "idle"
	}
}

const classifySystemPrompt = `You are an intelligent orchestrator. Choose the best agent to answer the
user's question. The available agents are:

1. TrendAgent - answers questions about current trends in general, most
   popular places, best places.
2. PopularityAgent - answers questions about the number of likes or the
   number of tweets about a trend.
3. GeneralAgent - use only for specific follow-up questions that require
   concrete details about a trend (addresses, prices, performers, dates,
   locations, etc.).
4. Unknown - use this if none of the above agents are appropriate.

Return ONLY the name of the most appropriate agent from the list above, as
a single word, no explanation.`

// ConversationLog optionally persists turns. *store.Store satisfies it.
type ConversationLog interface {
	AppendTurn(sessionID, role, content string) error
}

// Orchestrator classifies each incoming message and dispatches it through
// an explicit per-turn state cycle:
// Idle -> Classifying -> Dispatching -> AwaitingSubAgent -> Responding -> Idle.
// The clarification branch is a sub-state of Dispatching for trend queries
// that short-circuits to Responding without running the rest of the pipeline.
type Orchestrator struct {
	oracle     oracle.Provider
	pipeline   *TrendPipeline
	popularity *PopularityComposer
	general    *GeneralAgent
	log        ConversationLog // may be nil
}

// NewOrchestrator wires the orchestrator. log may be nil to disable
// conversation persistence.
func NewOrchestrator(p oracle.Provider, pipeline *TrendPipeline, popularity *PopularityComposer, general *GeneralAgent, log ConversationLog) *Orchestrator {
	return &Orchestrator{
		oracle:     p,
		pipeline:   pipeline,
		popularity: popularity,
		general:    general,
		log:        log,
	}
}

// classify performs the single role-classification call for a message.
// Any failure or unexpected label resolves to RoleUnknown.
func (o *Orchestrator) classify(ctx context.Context, message string) Role {
	resp, err := o.oracle.Complete(ctx, oracle.Request{
		SystemPrompt: classifySystemPrompt,
		UserPrompt:   message,
		MaxTokens:    16,
	})
	if err != nil {
		logging.Warn("classification failed", "error", err)
		return RoleUnknown
	}

	role := ParseRole(resp.Content)
	logging.Debug("classified message", "role", role.String())
	return role
}

// Handle processes one user message for a session and returns the reply.
// A failed turn leaves the session consistent and continuable: the user
// and assistant turns are always appended, and nothing partial is cached.
func (o *Orchestrator) Handle(ctx context.Context, sess *session.Session, message string) string {
	sess.Append(session.RoleUser, message)
	o.persist(sess.ID, session.RoleUser, message)

	state := StateClassifying
	var role Role
	var reply string

	for state != StateIdle {
		switch state {
		case StateClassifying:
			role = o.classify(ctx, message)
			state = StateDispatching

		case StateDispatching:
			if role == RoleUnknown {
				reply = AnswerCannotHelp
				state = StateResponding
				continue
			}
			state = StateAwaitingSubAgent

		case StateAwaitingSubAgent:
			reply = o.dispatch(ctx, sess, role, message)
			state = StateResponding

		case StateResponding:
			sess.Append(session.RoleAssistant, reply)
			o.persist(sess.ID, session.RoleAssistant, reply)
			state = StateIdle
		}
	}

	return reply
}

// dispatch runs the selected handler. Structural failures resolve to the
// fixed turn-failure message; they are logged, not swallowed into a
// plausible answer.
func (o *Orchestrator) dispatch(ctx context.Context, sess *session.Session, role Role, message string) string {
	switch role {
	case RoleTrend:
		result, err := o.pipeline.Run(ctx, sess.Transcript(), message)
		if err != nil {
			logging.Error("trend pipeline failed", "session", sess.ID, "error", err)
			return AnswerTurnFailed
		}
		if !result.Clarification {
			// Cache only complete results; a clarification cancels the
			// cycle before anything worth caching exists.
			sess.SetRanked(result.Ranked)
		}
		return result.Answer

	case RolePopularity:
		ranked, has := sess.Ranked()
		answer, err := o.popularity.Compose(ctx, ranked, has)
		if err != nil {
			logging.Error("popularity composer failed", "session", sess.ID, "error", err)
			return AnswerTurnFailed
		}
		return answer

	case RoleGeneral:
		answer, err := o.general.Answer(ctx, sess.Transcript(), message)
		if err != nil {
			logging.Error("general agent failed", "session", sess.ID, "error", err)
			return AnswerTurnFailed
		}
		return answer

	default:
		return AnswerCannotHelp
	}
}

func (o *Orchestrator) persist(sessionID, role, content string) {
	if o.log == nil {
		return
	}
	if err := o.log.AppendTurn(sessionID, role, content); err != nil {
		logging.Warn("conversation log write failed", "session", sessionID, "error", err)
	}
}
