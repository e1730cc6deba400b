package memory

import (
	"context"
	"sync"
	"time"
)

// ScanGuard remembers claimed scan ids for ttl. It is the single-process
// counterpart of the Redis guard.
type ScanGuard struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

func NewScanGuard(ttl time.Duration) *ScanGuard {
	return &ScanGuard{ttl: ttl, seen: make(map[string]time.Time), now: time.Now}
}

// Claim reports true the first time scanID is seen within ttl.
func (g *ScanGuard) Claim(_ context.Context, scanID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for id, exp := range g.seen {
		if now.After(exp) {
			delete(g.seen, id)
		}
	}
	if _, ok := g.seen[scanID]; ok {
		return false, nil
	}
	g.seen[scanID] = now.Add(g.ttl)
	return true, nil
}

func (g *ScanGuard) Release(_ context.Context, scanID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seen, scanID)
	return nil
}

func (g *ScanGuard) Ping(_ context.Context) error {
	return nil
}
