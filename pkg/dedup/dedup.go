// Package dedup provides a best-effort guard against reprocessing recently
// seen webhook deliveries. The pipeline is idempotent without it; the guard
// only saves redundant processor lookups on tight retries.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "planbridge:evt:"

// Config controls the dedup window.
type Config struct {
	TTL time.Duration `env:"DEDUP_TTL" envDefault:"24h"`
}

// Guard remembers event identifiers in Redis for a bounded window.
type Guard struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewGuard wraps a Redis client. A nil client disables the guard.
func NewGuard(client redis.UniversalClient, cfg Config) *Guard {
	return &Guard{client: client, ttl: cfg.TTL}
}

// Seen reports whether the event identifier was marked inside the window.
// It never writes: marking is a separate step taken only after the event's
// outcome has been fully applied, so a crash mid-processing leaves no
// marker and the sender's retry is reprocessed instead of dropped. Redis
// errors fail open: a broken guard must never block event processing.
func (g *Guard) Seen(ctx context.Context, eventID string) bool {
	if g == nil || g.client == nil || eventID == "" {
		return false
	}

	n, err := g.client.Exists(ctx, fmt.Sprintf("%s%s", keyPrefix, eventID)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// Mark records the event identifier for the dedup window. Call it only once
// the event's effect is durably applied. Errors are ignored; at worst the
// replay is reprocessed, which the pipeline tolerates.
func (g *Guard) Mark(ctx context.Context, eventID string) {
	if g == nil || g.client == nil || eventID == "" {
		return
	}
	_ = g.client.SetNX(ctx, fmt.Sprintf("%s%s", keyPrefix, eventID), 1, g.ttl).Err()
}
