// File: internal/infra/redis/lock.go
package redis

import (
	"context"
	"fmt"
	"time"

	"tg-config-bot/internal/domain"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Refresh(ctx context.Context, key, token string, ttl time.Duration) error
	Unlock(ctx context.Context, key, token string) error
}

var _ Locker = (*RedisLocker)(nil)

type RedisLocker struct {
	cli *redis.Client
}

func NewLocker(c *Client) *RedisLocker {
	return &RedisLocker{cli: c.cli}
}

// TryLock makes a single SETNX attempt; domain.ErrLockHeld means someone else owns key.
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := l.cli.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("setnx %s: %w", key, err)
	}
	if !ok {
		return "", domain.ErrLockHeld
	}
	return token, nil
}

var luaRefresh = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
else
	return 0
end`)

// Refresh extends the lock if token still owns it, else reports domain.ErrLockLost.
func (l *RedisLocker) Refresh(ctx context.Context, key, token string, ttl time.Duration) error {
	n, err := luaRefresh.Run(ctx, l.cli, []string{key}, token, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("refresh %s: %w", key, err)
	}
	if n == 0 {
		return domain.ErrLockLost
	}
	return nil
}

var luaUnlock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`)

func (l *RedisLocker) Unlock(ctx context.Context, key, token string) error {
	_, err := luaUnlock.Run(ctx, l.cli, []string{key}, token).Result()
	return err
}
