// Package provider contains the text-generation service boundary.
package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/alienxp03/boardroom/internal/core"
)

// Request describes one chat-completion call. JSONResponse selects the
// structured-decision call shape; otherwise a free-text completion is
// requested.
type Request struct {
	Model        string
	Messages     []core.Message
	Temperature  float64
	MaxTokens    int
	JSONResponse bool
}

// Provider defines the interface for text-generation services.
type Provider interface {
	// Name returns the provider's identifier.
	Name() string

	// DisplayName returns a human-friendly name.
	DisplayName() string

	// Complete sends the request and returns the assistant message text.
	// A successful call with an empty payload returns "" and a nil error.
	Complete(ctx context.Context, req Request) (string, error)

	// Available checks if the provider is configured and reachable in
	// principle (it does not perform a network call).
	Available() bool
}

// Registry manages available providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get retrieves a provider by name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}
	return p, nil
}

// List returns all registered providers.
func (r *Registry) List() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		providers = append(providers, p)
	}
	return providers
}

// Available returns all providers that are currently available.
func (r *Registry) Available() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var available []Provider
	for _, p := range r.providers {
		if p.Available() {
			available = append(available, p)
		}
	}
	return available
}
