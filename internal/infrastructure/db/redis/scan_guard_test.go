package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/biohealth/ponto/internal/core/ports"
)

var _ ports.ScanGuard = (*ScanGuard)(nil)

func TestScanGuard_Defaults(t *testing.T) {
	g := NewScanGuard(redis.NewClient(&redis.Options{Addr: "localhost:0"}), 0)
	if g.ttl != defaultScanTTL {
		t.Fatalf("expected default ttl, got %v", g.ttl)
	}
	if got := g.key("abc"); got != "scan:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestScanGuard_ClaimReportsUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	g := NewScanGuard(client, time.Minute)
	if _, err := g.Claim(context.Background(), "scan-1"); err == nil {
		t.Fatalf("expected error from unreachable redis")
	}
	if err := g.Release(context.Background(), "scan-1"); err == nil {
		t.Fatalf("expected release error from unreachable redis")
	}
}
