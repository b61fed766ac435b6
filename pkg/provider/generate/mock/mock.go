// Package mock provides a test double for the generate.Provider interface.
//
// Configure Drafts (or Err) and inspect Calls to verify the requests the
// engine sent:
//
//	p := &mock.Provider{Drafts: []generate.Draft{{Text: "And then?", Ord: 1}}}
//	drafts, _ := p.FollowUps(ctx, req)
package mock

import (
	"context"
	"sync"

	"github.com/voxtale/voxtale/pkg/provider/generate"
)

// Provider is a mock implementation of generate.Provider.
type Provider struct {
	mu sync.Mutex

	// Drafts is returned by every FollowUps call.
	Drafts []generate.Draft

	// Err, if non-nil, is returned instead of Drafts.
	Err error

	// Calls records every request passed to FollowUps, in order.
	Calls []generate.Request
}

// FollowUps records the call and returns Drafts, Err.
func (p *Provider) FollowUps(ctx context.Context, req generate.Request) ([]generate.Draft, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, req)
	if p.Err != nil {
		return nil, p.Err
	}
	out := make([]generate.Draft, len(p.Drafts))
	copy(out, p.Drafts)
	return out, nil
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = nil
}

// Ensure Provider implements generate.Provider at compile time.
var _ generate.Provider = (*Provider)(nil)
