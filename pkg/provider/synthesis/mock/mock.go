// Package mock provides a test double for the synthesis.Provider interface.
package mock

import (
	"context"
	"sync"

	"github.com/voxtale/voxtale/pkg/provider/synthesis"
)

// Provider is a mock implementation of synthesis.Provider.
type Provider struct {
	mu sync.Mutex

	// Statuses maps question id to the status returned for it. Questions
	// without an entry get Default.
	Statuses map[string]synthesis.Status

	// Default is returned for questions absent from Statuses. Zero value
	// reports synthesis.StatusPending.
	Default synthesis.Status

	// Err, if non-nil, is returned from every AudioStatus call.
	Err error

	// Calls records the question ids passed to AudioStatus, in order.
	Calls []string
}

// AudioStatus records the call and returns the configured status.
func (p *Provider) AudioStatus(ctx context.Context, questionID string) (synthesis.Status, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, questionID)
	if p.Err != nil {
		return "", p.Err
	}
	if s, ok := p.Statuses[questionID]; ok {
		return s, nil
	}
	if p.Default == "" {
		return synthesis.StatusPending, nil
	}
	return p.Default, nil
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = nil
}

// Ensure Provider implements synthesis.Provider at compile time.
var _ synthesis.Provider = (*Provider)(nil)
