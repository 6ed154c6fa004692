package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSpinCooldown = time.Hour

// SpinGuard throttles repeat spins per visitor session, backed by Redis.
// Key format: spin:<company_id>:<session_id>
//
// Allow and the claim are a single SETNX, so two concurrent spins from the
// same session cannot both pass.
type SpinGuard struct {
	client   *redis.Client
	cooldown time.Duration
}

// NewSpinGuard creates a SpinGuard wrapping the given Redis client. A
// cooldown <= 0 falls back to the default of one hour.
func NewSpinGuard(client *redis.Client, cooldown time.Duration) *SpinGuard {
	if cooldown <= 0 {
		cooldown = defaultSpinCooldown
	}
	return &SpinGuard{client: client, cooldown: cooldown}
}

// Allow reports whether this visitor session may spin now and, when allowed,
// claims the slot for the cooldown period.
func (g *SpinGuard) Allow(ctx context.Context, companyID, visitorSession string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(companyID, visitorSession), "1", g.cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("spin guard: %w", err)
	}
	return ok, nil
}

func (g *SpinGuard) key(companyID, visitorSession string) string {
	return fmt.Sprintf("spin:%s:%s", companyID, visitorSession)
}
