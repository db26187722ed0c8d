// Package redis provides a distributed lock used to keep concurrent rate
// syncs (cron job and manual trigger) from racing.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/ledgerlens-backend/internal/config"
)

// ErrLocked is returned when another holder owns the lock.
var ErrLocked = errors.New("lock held by another process")

// Locker wraps a redislock client.
type Locker struct {
	rdb    *redis.Client
	locker *redislock.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewLocker connects to Redis and verifies the connection with PING.
func NewLocker(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*Locker, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}

	return newLocker(rdb, cfg.LockTTL, logger), nil
}

func newLocker(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Locker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Locker{
		rdb:    rdb,
		locker: redislock.New(rdb),
		ttl:    ttl,
		log:    logger.With("adapter", "redis"),
	}
}

// WithLock runs fn while holding key. It returns ErrLocked without calling fn
// when the lock is taken.
func (l *Locker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lock, err := l.locker.Obtain(ctx, "lock:"+key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return ErrLocked
	}
	if err != nil {
		return fmt.Errorf("redis: obtain lock %s: %w", key, err)
	}
	defer func() {
		// A context cancelled by fn must not prevent release.
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.WarnContext(ctx, "release lock failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}()

	return fn(ctx)
}

// Ping checks the Redis connection.
func (l *Locker) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}

// Close closes the Redis client.
func (l *Locker) Close() error {
	return l.rdb.Close()
}
