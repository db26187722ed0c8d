// Package ratesnapshot implements the exchange-rate snapshot repository.
// Snapshots are global (not org scoped) and keyed by calendar date.
package ratesnapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/postgres"
	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

const columns = `id, date, base_currency, rates, is_fallback, fallback_version, created_at, updated_at`

// Repo provides rate snapshot persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new rate snapshot repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByDate returns the snapshot for exactly date.
func (r *Repo) GetByDate(ctx context.Context, date time.Time) (*domain.RateSnapshot, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`SELECT `+columns+` FROM exchange_rate_snapshots WHERE date = $1`, date)

	s, err := scanSnapshot(row)
	if err != nil {
		return nil, postgres.MapError(err, "rate_snapshot", date.Format(domain.BusinessDateLayout))
	}
	return s, nil
}

// GetLatestOnOrBefore returns the most recent snapshot dated date or earlier.
func (r *Repo) GetLatestOnOrBefore(ctx context.Context, date time.Time) (*domain.RateSnapshot, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`SELECT `+columns+` FROM exchange_rate_snapshots WHERE date <= $1 ORDER BY date DESC LIMIT 1`, date)

	s, err := scanSnapshot(row)
	if err != nil {
		return nil, postgres.MapError(err, "rate_snapshot on or before", date.Format(domain.BusinessDateLayout))
	}
	return s, nil
}

// ListSince returns snapshots dated from onwards, oldest first.
func (r *Repo) ListSince(ctx context.Context, from time.Time) ([]domain.RateSnapshot, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx,
		`SELECT `+columns+` FROM exchange_rate_snapshots WHERE date >= $1 ORDER BY date ASC`, from)
	if err != nil {
		return nil, postgres.MapError(err, "rate_snapshots since", from.Format(domain.BusinessDateLayout))
	}
	defer rows.Close()

	snapshots := make([]domain.RateSnapshot, 0)
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, postgres.MapError(err, "rate_snapshots since", from.Format(domain.BusinessDateLayout))
		}
		snapshots = append(snapshots, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "rate_snapshots since", from.Format(domain.BusinessDateLayout))
	}
	return snapshots, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Upsert writes the snapshot for s.Date. An existing snapshot for the date is
// overwritten unless it is real and s is a fallback. Reports whether the row
// was written.
func (r *Repo) Upsert(ctx context.Context, s domain.RateSnapshot) (bool, error) {
	rates, err := json.Marshal(s.Rates)
	if err != nil {
		return false, fmt.Errorf("rate_snapshot marshal rates: %w", err)
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`INSERT INTO exchange_rate_snapshots (id, date, base_currency, rates, is_fallback, fallback_version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		 ON CONFLICT (date) DO UPDATE
		 SET base_currency = EXCLUDED.base_currency,
		     rates = EXCLUDED.rates,
		     is_fallback = EXCLUDED.is_fallback,
		     fallback_version = EXCLUDED.fallback_version,
		     updated_at = now()
		 WHERE exchange_rate_snapshots.is_fallback OR NOT EXCLUDED.is_fallback`,
		s.ID, s.Date, s.BaseCurrency, rates, s.IsFallback, s.FallbackVersion,
	)
	if err != nil {
		return false, postgres.MapError(err, "rate_snapshot", s.Date.Format(domain.BusinessDateLayout))
	}
	return tag.RowsAffected() == 1, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanSnapshot(row pgx.Row) (*domain.RateSnapshot, error) {
	var (
		s   domain.RateSnapshot
		raw []byte
	)
	err := row.Scan(&s.ID, &s.Date, &s.BaseCurrency, &raw, &s.IsFallback, &s.FallbackVersion, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan rate_snapshot: %w", err)
	}

	s.Rates = make(map[string]decimal.Decimal)
	if err := json.Unmarshal(raw, &s.Rates); err != nil {
		return nil, fmt.Errorf("rate_snapshot %s unmarshal rates: %w", s.ID, err)
	}
	return &s, nil
}
