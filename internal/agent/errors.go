package agent

import "errors"

// Sentinel errors for structural pipeline failures. Recoverable conditions
// (empty candidate set, missing popularity cache) are not errors; they
// resolve to the fixed user-visible messages below.
var (
	// ErrFilterParse means the oracle's filtered output was not in the
	// expected shape. It must be surfaced, never silently swallowed into
	// a wrong-but-plausible answer.
	ErrFilterParse = errors.New("relevance filter: oracle output not in expected format")

	// ErrDedupParse means the oracle's merged output was not in the
	// expected shape.
	ErrDedupParse = errors.New("deduplicate: oracle output not in expected format")

	// ErrIntentParse means the intent derivation output was not in the
	// expected shape.
	ErrIntentParse = errors.New("intent: oracle output not in expected format")
)

// Fixed user-visible replies.
const (
	// AnswerUnknown is the literal fallback when the ranked list is empty,
	// the requested rank is out of range, or the intent is unparseable.
	AnswerUnknown = "I don't know"

	// AnswerPopularityUnavailable is returned for a popularity question
	// asked before any trend query has populated the session cache.
	AnswerPopularityUnavailable = "Popularity data not available yet. Please ask about trends first."

	// AnswerCannotHelp is the static fallback for unclassifiable questions.
	AnswerCannotHelp = "I can't answer your question at the moment. Please try rephrasing."

	// AnswerTurnFailed is shown when a stage failed structurally. The
	// session stays consistent and the next turn starts clean.
	AnswerTurnFailed = "Something went wrong answering that. Please try again."
)
