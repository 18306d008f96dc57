// Package ui provides the Bubble Tea chat front end.
package ui

// ReplyReceived is sent when the orchestrator finishes a turn.
type ReplyReceived struct {
	Content string
}
