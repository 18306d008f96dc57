// Package oracle provides language-model providers used by the agents
// for classification, relevance filtering, deduplication, and answer
// composition. Providers are treated as black-box text functions; anything
// structured that comes back must go through DecodeValidated.
package oracle

import (
	"context"
	"errors"
)

// ErrNoProvider is returned when no configured provider is available.
var ErrNoProvider = errors.New("no oracle provider available")

// Provider is the interface for language-model providers
type Provider interface {
	// Name returns the provider name (e.g., "gemini", "ollama")
	Name() string

	// Available returns true if the provider is configured and ready
	Available() bool

	// Complete sends a prompt and returns the response text
	Complete(ctx context.Context, req Request) (Response, error)
}

// Request is a prompt request to a provider
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

// Response is the provider's response
type Response struct {
	Content     string
	Model       string
	RawResponse string // The raw API response body for logging/debugging
}

// Manager manages multiple providers with fallback
type Manager struct {
	providers []Provider
	preferred string // Preferred provider name
}

// NewManager creates a new provider manager
func NewManager() *Manager {
	return &Manager{
		providers: make([]Provider, 0),
	}
}

// AddProvider adds a provider to the manager
func (m *Manager) AddProvider(p Provider) {
	m.providers = append(m.providers, p)
}

// SetPreferred sets the preferred provider by name
func (m *Manager) SetPreferred(name string) {
	m.preferred = name
}

// GetAvailable returns the first available provider, preferring the preferred one
func (m *Manager) GetAvailable() Provider {
	// First try preferred
	if m.preferred != "" {
		for _, p := range m.providers {
			if p.Name() == m.preferred && p.Available() {
				return p
			}
		}
	}

	// Fall back to first available
	for _, p := range m.providers {
		if p.Available() {
			return p
		}
	}

	return nil
}

// Complete dispatches to the first available provider.
// Implements Provider so agents can take either a single provider or the
// manager itself.
func (m *Manager) Complete(ctx context.Context, req Request) (Response, error) {
	p := m.GetAvailable()
	if p == nil {
		return Response{}, ErrNoProvider
	}
	return p.Complete(ctx, req)
}

// Name returns the name of the currently selected provider
func (m *Manager) Name() string {
	if p := m.GetAvailable(); p != nil {
		return p.Name()
	}
	return "none"
}

// Available returns true if any provider is ready
func (m *Manager) Available() bool {
	return m.GetAvailable() != nil
}

// ListAvailable returns names of all available providers
func (m *Manager) ListAvailable() []string {
	var names []string
	for _, p := range m.providers {
		if p.Available() {
			names = append(names, p.Name())
		}
	}
	return names
}
