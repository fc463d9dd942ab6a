package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ipWindow    = 15 * time.Minute
	ipMaxHits   = 10
	cooldownTTL = 2 * time.Minute
)

// Limiter is a Redis-backed fixed-window rate limiter used to slow
// down abuse of the unauthenticated auth endpoints. An IP gets a
// request budget per window and purpose; emails additionally get a
// cooldown between outbound messages.
type Limiter struct {
	client *redis.Client
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

// CheckIPRateLimit reports whether the IP exceeded the default window budget
func (l *Limiter) CheckIPRateLimit(ctx context.Context, ip string) (bool, error) {
	return l.CheckIPRateLimitWithPurpose(ctx, ip, "default")
}

// CheckIPRateLimitWithPurpose reports whether the IP exceeded the
// window budget for a specific endpoint purpose
func (l *Limiter) CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error) {
	count, err := l.client.Get(ctx, ipKey(ip, purpose)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read rate limit counter: %w", err)
	}

	return count >= ipMaxHits, nil
}

// RecordIPRequest counts a request against the IP's default window budget
func (l *Limiter) RecordIPRequest(ctx context.Context, ip string) error {
	return l.RecordIPRequestWithPurpose(ctx, ip, "default")
}

// RecordIPRequestWithPurpose counts a request against the IP's budget
// for a specific endpoint purpose
func (l *Limiter) RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error {
	key := ipKey(ip, purpose)

	// INCR + NX expire so the window starts with the first hit and is
	// never extended by later ones
	pipe := l.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ipWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record rate limit hit: %w", err)
	}

	return nil
}

// CheckEmailCooldown reports whether an email was targeted too recently
func (l *Limiter) CheckEmailCooldown(ctx context.Context, email string) (bool, error) {
	exists, err := l.client.Exists(ctx, emailKey(email)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check email cooldown: %w", err)
	}
	return exists > 0, nil
}

// SetEmailCooldown starts the cooldown window for an email
func (l *Limiter) SetEmailCooldown(ctx context.Context, email string) error {
	if err := l.client.Set(ctx, emailKey(email), "1", cooldownTTL).Err(); err != nil {
		return fmt.Errorf("failed to set email cooldown: %w", err)
	}
	return nil
}

func ipKey(ip, purpose string) string {
	return fmt.Sprintf("ratelimit:ip:%s:%s", purpose, ip)
}

// emailKey hashes the address so raw emails never appear as Redis keys
func emailKey(email string) string {
	sum := sha256.Sum256([]byte(email))
	return fmt.Sprintf("ratelimit:email:%s", hex.EncodeToString(sum[:]))
}
