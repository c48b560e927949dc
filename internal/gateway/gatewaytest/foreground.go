package gatewaytest

import (
	"context"
	"sync"

	"github.com/garrettladley/fitgate/internal/gateway"
)

var (
	_ gateway.ForegroundSource = (*Foreground)(nil)
	_ gateway.Foreground       = (*Foreground)(nil)
)

// Foreground is a fake foreground source that records what it was asked.
type Foreground struct {
	Available bool

	mu        sync.Mutex
	lookups   int
	presented []string
}

func (f *Foreground) Current() (gateway.Foreground, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if !f.Available {
		return nil, false
	}
	return f, true
}

func (f *Foreground) Present(_ context.Context, consentURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presented = append(f.presented, consentURL)
	return nil
}

// Lookups reports how many times Current was called.
func (f *Foreground) Lookups() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}

func (f *Foreground) Presented() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.presented))
	copy(out, f.presented)
	return out
}
