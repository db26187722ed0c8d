package currency

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

// DailySyncLockKey serializes SyncDaily across the cron job and the manual
// trigger when a distributed lock is configured.
const DailySyncLockKey = "currency:daily-sync"

// SyncResult reports the outcome of a daily sync.
type SyncResult struct {
	Snapshot domain.RateSnapshot
	// Written is false when a fallback snapshot was not stored because a
	// real one already exists for the day.
	Written bool
}

// SyncDaily fetches live rates and upserts today's snapshot. Repeated syncs on
// the same day overwrite. A feed failure degrades to the fallback table,
// flagged IsFallback; only a store failure is returned as an error.
func (s *Service) SyncDaily(ctx context.Context) (SyncResult, error) {
	snap := domain.RateSnapshot{
		Date:         domain.DateOf(s.now()),
		BaseCurrency: s.cfg.Pivot,
	}

	live, err := s.live.FetchLatest(ctx, s.cfg.Pivot)
	if err != nil {
		s.log.WarnContext(ctx, "live rate fetch failed, storing fallback table",
			slog.String("fallback_version", s.cfg.FallbackVersion),
			slog.String("error", err.Error()),
		)
		snap.Rates = maps.Clone(s.cfg.FallbackRates)
		snap.IsFallback = true
		snap.FallbackVersion = s.cfg.FallbackVersion
	} else {
		snap.Rates = live.Rates
	}

	written, err := s.rates.Upsert(ctx, snap)
	if err != nil {
		return SyncResult{}, fmt.Errorf("upsert rate snapshot: %w", err)
	}

	s.log.InfoContext(ctx, "exchange rates synced",
		slog.String("date", snap.Date.Format(domain.BusinessDateLayout)),
		slog.Int("currencies", len(snap.Rates)),
		slog.Bool("is_fallback", snap.IsFallback),
		slog.Bool("written", written),
	)

	return SyncResult{Snapshot: snap, Written: written}, nil
}

// RatesForDate returns the snapshot of date, or the nearest earlier one.
func (s *Service) RatesForDate(ctx context.Context, date time.Time) (*domain.RateSnapshot, error) {
	date = domain.DateOf(date)

	snap, err := s.rates.GetLatestOnOrBefore(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("rates for %s: %w", date.Format(domain.BusinessDateLayout), err)
	}
	return snap, nil
}

// History returns the snapshots of the last days days, oldest first.
// days <= 0 uses the configured default.
func (s *Service) History(ctx context.Context, days int) ([]domain.RateSnapshot, error) {
	if days <= 0 {
		days = s.cfg.HistoryDays
	}
	if days > maxHistoryDays {
		return nil, domain.NewValidationError("days", fmt.Sprintf("max %d", maxHistoryDays))
	}

	from := domain.DateOf(s.now()).AddDate(0, 0, -(days - 1))
	snaps, err := s.rates.ListSince(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("list rate snapshots: %w", err)
	}
	return snaps, nil
}
