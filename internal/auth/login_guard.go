package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginGuard tracks failed logins per account to lock out brute force attempts.
type LoginGuard interface {
	Locked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// NewLoginGuard returns a Redis-backed guard, or a no-op guard when client is nil.
func NewLoginGuard(client *redis.Client, maxFailures int, window time.Duration) LoginGuard {
	if client == nil || maxFailures <= 0 {
		return noopLoginGuard{}
	}
	return &redisLoginGuard{client: client, maxFailures: maxFailures, window: window}
}

type redisLoginGuard struct {
	client      *redis.Client
	maxFailures int
	window      time.Duration
}

func loginKey(email string) string {
	return "login:failed:" + strings.ToLower(strings.TrimSpace(email))
}

func (g *redisLoginGuard) Locked(ctx context.Context, email string) (bool, error) {
	count, err := g.client.Get(ctx, loginKey(email)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return count >= g.maxFailures, nil
}

// RecordFailure increments the counter and refreshes its expiry atomically.
func (g *redisLoginGuard) RecordFailure(ctx context.Context, email string) error {
	key := loginKey(email)
	_, err := g.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, g.window)
		return nil
	})
	return err
}

func (g *redisLoginGuard) Reset(ctx context.Context, email string) error {
	return g.client.Del(ctx, loginKey(email)).Err()
}

type noopLoginGuard struct{}

func (noopLoginGuard) Locked(context.Context, string) (bool, error) { return false, nil }
func (noopLoginGuard) RecordFailure(context.Context, string) error { return nil }
func (noopLoginGuard) Reset(context.Context, string) error { return nil }
