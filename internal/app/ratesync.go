package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/redis"
	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/currency"
)

type syncLocker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// lockedCurrency runs manual syncs under the same lock as cmd/ratesync.
// Every other method goes straight to the wrapped service.
type lockedCurrency struct {
	*currency.Service
	locker syncLocker
}

func (c lockedCurrency) SyncDaily(ctx context.Context) (currency.SyncResult, error) {
	var res currency.SyncResult
	err := c.locker.WithLock(ctx, currency.DailySyncLockKey, func(ctx context.Context) error {
		var err error
		res, err = c.Service.SyncDaily(ctx)
		return err
	})
	if errors.Is(err, redis.ErrLocked) {
		return currency.SyncResult{}, fmt.Errorf("%w: rate sync already running", domain.ErrConflict)
	}
	return res, err
}
