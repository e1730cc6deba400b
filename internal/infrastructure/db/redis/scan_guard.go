package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultScanTTL = 10 * time.Minute

// ScanGuard claims scan ids with SETNX so a physical scan is registered at
// most once across every API replica.
// Key format: scan:<scan_id>
type ScanGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScanGuard wraps the given Redis client. A non-positive ttl uses the default.
func NewScanGuard(client *redis.Client, ttl time.Duration) *ScanGuard {
	if ttl <= 0 {
		ttl = defaultScanTTL
	}
	return &ScanGuard{client: client, ttl: ttl}
}

// Claim reports true the first time scanID is seen (expires after ttl).
func (g *ScanGuard) Claim(ctx context.Context, scanID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(scanID), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("scan guard: %w", err)
	}
	return ok, nil
}

// Release deletes the claim so the scan can be retried.
func (g *ScanGuard) Release(ctx context.Context, scanID string) error {
	if err := g.client.Del(ctx, g.key(scanID)).Err(); err != nil {
		return fmt.Errorf("scan guard release: %w", err)
	}
	return nil
}

func (g *ScanGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

func (g *ScanGuard) key(scanID string) string {
	return "scan:" + scanID
}
