package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tg-config-bot/internal/domain"
)

// LeaseKey derives the lock key from the bot token. Only the numeric bot id
// before the colon ends up in Redis.
func LeaseKey(botToken string) string {
	id, _, _ := strings.Cut(botToken, ":")
	return "tgbot:poller:" + id
}

// PollerLease makes sure a single replica long-polls a given bot token.
// Telegram answers concurrent getUpdates calls with 409 Conflict.
type PollerLease struct {
	locker Locker
	key    string
	ttl    time.Duration
	log    *zerolog.Logger
}

func NewPollerLease(locker Locker, key string, ttl time.Duration, logger *zerolog.Logger) *PollerLease {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &PollerLease{locker: locker, key: key, ttl: ttl, log: logger}
}

// Run waits until the lease is acquired, then runs fn while keeping the lease
// alive. fn's context is cancelled when ctx ends or the lease is lost; in the
// latter case Run returns domain.ErrLockLost.
func (p *PollerLease) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	token, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	p.log.Info().Str("key", p.key).Msg("poller lease acquired")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lost := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if p.keepAlive(runCtx, token) {
			close(lost)
			cancel()
		}
	}()

	fnErr := fn(runCtx)
	cancel()
	<-stopped

	releaseCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := p.locker.Unlock(releaseCtx, p.key, token); err != nil {
		p.log.Warn().Err(err).Str("key", p.key).Msg("poller lease release failed")
	}

	select {
	case <-lost:
		return domain.ErrLockLost
	default:
	}
	return fnErr
}

func (p *PollerLease) acquire(ctx context.Context) (string, error) {
	retry := p.ttl / 3
	for {
		token, err := p.locker.TryLock(ctx, p.key, p.ttl)
		switch {
		case err == nil:
			return token, nil
		case errors.Is(err, domain.ErrLockHeld):
			p.log.Debug().Str("key", p.key).Msg("another replica is polling, waiting")
		default:
			p.log.Warn().Err(err).Str("key", p.key).Msg("poller lease attempt failed")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(retry):
		}
	}
}

// keepAlive refreshes the lease until ctx ends. It reports true when the
// lease was taken over by someone else.
func (p *PollerLease) keepAlive(ctx context.Context, token string) bool {
	ticker := time.NewTicker(p.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			err := p.locker.Refresh(ctx, p.key, token, p.ttl)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrLockLost):
				p.log.Error().Str("key", p.key).Msg("poller lease lost")
				return true
			case ctx.Err() != nil:
				return false
			default:
				// transient; the lease survives until ttl runs out
				p.log.Warn().Err(err).Str("key", p.key).Msg("poller lease refresh failed")
			}
		}
	}
}
