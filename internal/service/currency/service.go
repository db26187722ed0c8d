package currency

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/internal/provider"
)

const maxHistoryDays = 365

type rateStore interface {
	GetByDate(ctx context.Context, date time.Time) (*domain.RateSnapshot, error)
	GetLatestOnOrBefore(ctx context.Context, date time.Time) (*domain.RateSnapshot, error)
	ListSince(ctx context.Context, from time.Time) ([]domain.RateSnapshot, error)
	Upsert(ctx context.Context, s domain.RateSnapshot) (bool, error)
}

type liveRateSource interface {
	FetchLatest(ctx context.Context, base string) (*provider.LiveRates, error)
}

// Config holds the normalization parameters.
type Config struct {
	Canonical       string
	Pivot           string
	FallbackRates   map[string]decimal.Decimal
	FallbackVersion string
	HistoryDays     int
}

// Service resolves exchange rates and normalizes amounts into the canonical
// currency. It never fails a conversion because a rate source is down; it
// degrades and tags the provenance instead.
type Service struct {
	rates rateStore
	live  liveRateSource
	cfg   Config
	now   func() time.Time
	log   *slog.Logger
}

// NewService creates a new Currency service.
func NewService(
	log *slog.Logger,
	rates rateStore,
	live liveRateSource,
	cfg Config,
) *Service {
	cfg.Canonical = domain.NormalizeCurrency(cfg.Canonical)
	cfg.Pivot = domain.NormalizeCurrency(cfg.Pivot)
	if cfg.HistoryDays <= 0 {
		cfg.HistoryDays = 30
	}
	return &Service{
		rates: rates,
		live:  live,
		cfg:   cfg,
		now:   time.Now,
		log:   log.With("service", "currency"),
	}
}

// Canonical returns the canonical currency code.
func (s *Service) Canonical() string { return s.cfg.Canonical }
