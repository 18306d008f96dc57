// Package session holds per-conversation state: the ordered turn history,
// the last successful ranked retrieval, and the query embedding for the
// current cycle. State is owned per session key; nothing is shared across
// sessions.
package session

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"trendspotter/internal/trend"
)

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one conversation message. Immutable once appended.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session owns one conversation's state. All mutation goes through methods
// holding the session's own mutex, so there is exactly one writer at a time
// per session.
type Session struct {
	ID string

	mu        sync.Mutex
	turns     []Turn
	ranked    trend.RankedList
	hasRanked bool
	embedding []float64
}

// Append records a turn at the end of the history.
func (s *Session) Append(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{Role: role, Content: content})
}

// History returns a copy of the turn sequence in order.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Transcript renders the history as "Role: content" lines for prompts.
func (s *Session) Transcript() string {
	turns := s.History()
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(capitalize(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Content)
	}
	return b.String()
}

// SetRanked caches a complete ranked list from a successful retrieval cycle.
// Callers must only pass fully-built lists; a new list replaces the old one
// wholesale.
func (s *Session) SetRanked(l trend.RankedList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ranked = l
	s.hasRanked = true
}

// Ranked returns the cached ranked list, and whether one exists.
func (s *Session) Ranked() (trend.RankedList, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ranked, s.hasRanked
}

// SetQueryEmbedding stores the embedding for the current retrieval cycle.
func (s *Session) SetQueryEmbedding(vec []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embedding = vec
}

// QueryEmbedding returns the stored query embedding, or nil.
func (s *Session) QueryEmbedding() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.embedding
}

// Manager maps session identifiers to live sessions. Safe for concurrent
// use; two sessions never observe each other's state.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating it on first use. An empty id
// mints a fresh identifier.
func (m *Manager) Get(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s = &Session{ID: id}
	m.sessions[id] = s
	return s
}

// Close tears down a session. No persistence guarantee.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-32) + s[1:]
	}
	return s
}
