package currency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

// RateFor returns the rate converting one unit of currency into the canonical
// currency on businessDate. Strategies are tried in order: base currency,
// exact snapshot, nearest earlier snapshot, live fetch, fallback.
func (s *Service) RateFor(ctx context.Context, currency string, businessDate time.Time) (domain.RateQuote, error) {
	currency = domain.NormalizeCurrency(currency)
	if currency == "" {
		return domain.RateQuote{}, domain.NewValidationError("currency", "required")
	}
	date := domain.DateOf(businessDate)

	if currency == s.cfg.Canonical {
		return domain.RateQuote{Currency: currency, Rate: decimal.NewFromInt(1), Source: domain.RateSourceBaseCurrency}, nil
	}

	if q, ok := s.fromSnapshot(ctx, currency, date, true); ok {
		return q, nil
	}
	if q, ok := s.fromSnapshot(ctx, currency, date, false); ok {
		return q, nil
	}
	return s.fromLiveOrFallback(ctx, currency), nil
}

// ConvertToCanonical converts amount in currency into the canonical currency
// at the rate of businessDate. The result is rounded to 2 places.
func (s *Service) ConvertToCanonical(ctx context.Context, amount decimal.Decimal, currency string, businessDate time.Time) (domain.Conversion, error) {
	quote, err := s.RateFor(ctx, currency, businessDate)
	if err != nil {
		return domain.Conversion{}, fmt.Errorf("rate for %s: %w", currency, err)
	}
	return domain.Conversion{
		OriginalAmount:    amount,
		Currency:          quote.Currency,
		ConvertedAmount:   ApplyRate(amount, quote.Rate),
		CanonicalCurrency: s.cfg.Canonical,
		RateQuote:         quote,
	}, nil
}

// ConvertFromCanonical converts a canonical amount back into currency at the
// rate of businessDate.
func (s *Service) ConvertFromCanonical(ctx context.Context, amount decimal.Decimal, currency string, businessDate time.Time) (domain.Conversion, error) {
	quote, err := s.RateFor(ctx, currency, businessDate)
	if err != nil {
		return domain.Conversion{}, fmt.Errorf("rate for %s: %w", currency, err)
	}
	return domain.Conversion{
		OriginalAmount:    amount,
		Currency:          s.cfg.Canonical,
		ConvertedAmount:   InvertRate(amount, quote.Rate),
		CanonicalCurrency: quote.Currency,
		RateQuote:         quote,
	}, nil
}

// ApplyRate multiplies amount by rate and rounds to 2 places.
func ApplyRate(amount, rate decimal.Decimal) decimal.Decimal {
	return domain.RoundMoney(amount.Mul(rate))
}

// InvertRate divides amount by rate and rounds to 2 places. A non-positive
// rate leaves the amount unchanged.
func InvertRate(amount, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() {
		return domain.RoundMoney(amount)
	}
	return domain.RoundMoney(amount.DivRound(rate, 8))
}

// fromSnapshot tries the exact-date snapshot (exact=true) or the nearest
// earlier one. Store errors other than not-found are logged and skipped.
func (s *Service) fromSnapshot(ctx context.Context, currency string, date time.Time, exact bool) (domain.RateQuote, bool) {
	var (
		snap   *domain.RateSnapshot
		err    error
		source domain.RateSource
	)
	if exact {
		snap, err = s.rates.GetByDate(ctx, date)
		source = domain.RateSourceHistoricalSnapshot
	} else {
		snap, err = s.rates.GetLatestOnOrBefore(ctx, date)
		source = domain.RateSourceNearestSnapshot
	}
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "rate snapshot lookup failed",
				slog.String("source", source.String()),
				slog.String("date", date.Format(domain.BusinessDateLayout)),
				slog.String("error", err.Error()),
			)
		}
		return domain.RateQuote{}, false
	}

	rate, ok := snap.CrossRate(currency, s.cfg.Canonical)
	if !ok {
		return domain.RateQuote{}, false
	}
	snapDate := snap.Date
	return domain.RateQuote{
		Currency:     currency,
		Rate:         rate,
		Source:       source,
		SnapshotDate: &snapDate,
		IsFallback:   snap.IsFallback,
	}, true
}

// fromLiveOrFallback fetches live rates. A successful fetch is stored as
// today's snapshot (best effort). When the feed is down or lacks the
// currency, the configured fallback table is used; when that lacks it too
// the rate is 1.
func (s *Service) fromLiveOrFallback(ctx context.Context, currency string) domain.RateQuote {
	live, err := s.live.FetchLatest(ctx, s.cfg.Pivot)
	if err == nil {
		s.storeLazily(ctx, live.Rates)
		if rate, ok := domain.CrossRate(live.Rates, currency, s.cfg.Canonical); ok {
			return domain.RateQuote{Currency: currency, Rate: rate, Source: domain.RateSourceLiveFetch}
		}
	} else {
		s.log.WarnContext(ctx, "live rate fetch failed, using fallback table",
			slog.String("currency", currency),
			slog.String("error", err.Error()),
		)
	}

	rate, ok := domain.CrossRate(s.cfg.FallbackRates, currency, s.cfg.Canonical)
	if !ok {
		s.log.WarnContext(ctx, "no rate for currency, using 1.0", slog.String("currency", currency))
		rate = decimal.NewFromInt(1)
	}
	return domain.RateQuote{Currency: currency, Rate: rate, Source: domain.RateSourceFallback, IsFallback: true}
}

func (s *Service) storeLazily(ctx context.Context, rates map[string]decimal.Decimal) {
	today := domain.DateOf(s.now())
	_, err := s.rates.Upsert(ctx, domain.RateSnapshot{
		Date:         today,
		BaseCurrency: s.cfg.Pivot,
		Rates:        rates,
	})
	if err != nil {
		s.log.WarnContext(ctx, "store live rates failed",
			slog.String("date", today.Format(domain.BusinessDateLayout)),
			slog.String("error", err.Error()),
		)
	}
}
