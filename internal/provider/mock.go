package provider

import (
	"context"
	"sync"
)

// MockProvider returns canned responses for testing and offline demos.
type MockProvider struct {
	mu        sync.Mutex
	name      string
	responses []string
	err       error
	calls     int
	requests  []Request
}

// NewMockProvider creates a mock provider that cycles through responses.
func NewMockProvider(responses ...string) *MockProvider {
	if len(responses) == 0 {
		responses = []string{"Respuesta simulada."}
	}
	return &MockProvider{
		name:      "mock",
		responses: responses,
	}
}

// Fail makes every subsequent Complete call return err.
func (p *MockProvider) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Name returns the provider identifier.
func (p *MockProvider) Name() string { return p.name }

// DisplayName returns the human-friendly name.
func (p *MockProvider) DisplayName() string { return "Mock (Simulated)" }

// Available always returns true for the mock provider.
func (p *MockProvider) Available() bool { return true }

// Complete records the request and returns the next canned response.
func (p *MockProvider) Complete(ctx context.Context, req Request) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)
	p.calls++
	if p.err != nil {
		return "", Classify(p.name, p.err)
	}

	response := p.responses[(p.calls-1)%len(p.responses)]
	return response, nil
}

// Calls returns the number of Complete invocations.
func (p *MockProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// LastRequest returns the most recent recorded request.
func (p *MockProvider) LastRequest() (Request, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.requests) == 0 {
		return Request{}, false
	}
	return p.requests[len(p.requests)-1], true
}

// Requests returns all recorded requests.
func (p *MockProvider) Requests() []Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Request(nil), p.requests...)
}
