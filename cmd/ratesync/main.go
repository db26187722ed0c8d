// Command ratesync fetches today's exchange rates and stores the daily
// snapshot. It is intended to be invoked by an external cron job. When Redis
// is configured, a distributed lock keeps concurrent runs from racing.
//
// Exit codes: 0 = success (or another run holds the lock), 1 = error.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/postgres"
	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/postgres/ratesnapshot"
	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/provider/openrates"
	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/redis"
	"github.com/heartmarshall/ledgerlens-backend/internal/app"
	"github.com/heartmarshall/ledgerlens-backend/internal/config"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/currency"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := currency.NewService(logger, ratesnapshot.New(pool),
		openrates.NewProviderWithURL(cfg.Currency.LiveURL, cfg.Currency.LiveTimeout, logger),
		currency.Config{
			Canonical:       cfg.Currency.Canonical,
			Pivot:           cfg.Currency.Pivot,
			FallbackRates:   cfg.Currency.FallbackRates,
			FallbackVersion: cfg.Currency.FallbackVersion,
			HistoryDays:     cfg.Currency.HistoryDays,
		})

	runSync := func(ctx context.Context) error {
		res, err := svc.SyncDaily(ctx)
		if err != nil {
			return err
		}
		logger.Info("rate sync completed",
			slog.String("date", res.Snapshot.Date.Format("2006-01-02")),
			slog.Bool("fallback", res.Snapshot.IsFallback),
			slog.Bool("written", res.Written),
			slog.Int("currencies", len(res.Snapshot.Rates)),
		)
		return nil
	}

	if cfg.Redis.Enabled() {
		locker, err := redis.NewLocker(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Error("connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer locker.Close()

		err = locker.WithLock(ctx, currency.DailySyncLockKey, runSync)
		if errors.Is(err, redis.ErrLocked) {
			logger.Info("rate sync already running elsewhere, skipping")
			return
		}
		if err != nil {
			logger.Error("rate sync failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	if err := runSync(ctx); err != nil {
		logger.Error("rate sync failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
