package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"trendspotter/internal/logging"
	"trendspotter/internal/session"
)

// Responder handles one chat turn. *agent.Orchestrator satisfies it.
type Responder interface {
	Handle(ctx context.Context, sess *session.Session, message string) string
}

// ChatMessage is one turn in the request payload.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the POST /chat payload. Clients send the whole visible
// conversation; only the last user message drives the turn, the server keeps
// its own per-session history keyed by X-Session-ID.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the reply payload, shaped like one assistant message.
type ChatResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SessionHeader carries the session identifier. Omitted on the first
// request; the server mints one and echoes it back.
const SessionHeader = "X-Session-ID"

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	responder Responder
	sessions  *session.Manager
}

// NewChatHandler creates a new chat handler
func NewChatHandler(responder Responder, sessions *session.Manager) *ChatHandler {
	return &ChatHandler{
		responder: responder,
		sessions:  sessions,
	}
}

// PostChat runs one conversation turn.
func (h *ChatHandler) PostChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	message := lastUserMessage(req.Messages)
	if message == "" {
		respondWithError(w, http.StatusBadRequest, "No user message in request", nil)
		return
	}

	sess := h.sessions.Get(r.Header.Get(SessionHeader))
	reply := h.responder.Handle(r.Context(), sess, message)

	w.Header().Set(SessionHeader, sess.ID)
	respondWithJSON(w, http.StatusOK, ChatResponse{
		Role:    session.RoleAssistant,
		Content: reply,
	})
}

// lastUserMessage returns the content of the final user turn.
func lastUserMessage(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == session.RoleUser {
			return strings.TrimSpace(messages[i].Content)
		}
	}
	return ""
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil && code >= 500 {
		logging.Error("HTTP error", "code", code, "message", message, "error", err)
	}

	jsonResponse, _ := json.Marshal(map[string]string{"error": message})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
