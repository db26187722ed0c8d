// Package supplier implements the Supplier repository using PostgreSQL.
package supplier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/postgres"
	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

const columns = `id, org_id, name, tax_id, category, country, is_verified, created_at, updated_at`

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides supplier persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new supplier repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a supplier of orgID. A supplier of another org is reported
// as not found.
func (r *Repo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Supplier, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+columns+` FROM suppliers WHERE id = $1 AND org_id = $2`, id, orgID)
	s, err := scanSupplier(row)
	if err != nil {
		return nil, postgres.MapError(err, "supplier", id)
	}
	return s, nil
}

// GetByTaxID returns the supplier of orgID holding taxID.
func (r *Repo) GetByTaxID(ctx context.Context, orgID uuid.UUID, taxID string) (*domain.Supplier, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+columns+` FROM suppliers WHERE org_id = $1 AND tax_id = $2 AND tax_id <> ''`, orgID, taxID)
	s, err := scanSupplier(row)
	if err != nil {
		return nil, postgres.MapError(err, "supplier", taxID)
	}
	return s, nil
}

// ListByOrg returns suppliers of orgID ordered by name. A non-empty search
// filters by case-insensitive name substring; limit <= 0 means no limit.
func (r *Repo) ListByOrg(ctx context.Context, orgID uuid.UUID, search string, limit, offset int) ([]domain.Supplier, error) {
	query := psql.Select(columns).
		From("suppliers").
		Where(squirrel.Eq{"org_id": orgID}).
		OrderBy("lower(name) ASC", "id ASC")

	if s := strings.TrimSpace(search); s != "" {
		query = query.Where(squirrel.ILike{"name": "%" + escapeLike(s) + "%"})
	}
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	if offset > 0 {
		query = query.Offset(uint64(offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build supplier list query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "suppliers of org", orgID)
	}
	defer rows.Close()

	suppliers := make([]domain.Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, postgres.MapError(err, "suppliers of org", orgID)
		}
		suppliers = append(suppliers, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "suppliers of org", orgID)
	}

	return suppliers, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a supplier. A tax id already used in the org yields
// domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, s domain.Supplier) (*domain.Supplier, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`INSERT INTO suppliers (id, org_id, name, tax_id, category, country, is_verified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		 RETURNING `+columns,
		s.ID, s.OrgID, s.Name, s.TaxID, s.Category, s.Country, s.IsVerified,
	)
	created, err := scanSupplier(row)
	if err != nil {
		return nil, postgres.MapError(err, "supplier", s.ID)
	}
	return created, nil
}

// Update overwrites the mutable fields of a supplier in its org.
func (r *Repo) Update(ctx context.Context, s domain.Supplier) (*domain.Supplier, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`UPDATE suppliers
		 SET name = $3, tax_id = $4, category = $5, country = $6, is_verified = $7
		 WHERE id = $1 AND org_id = $2
		 RETURNING `+columns,
		s.ID, s.OrgID, s.Name, s.TaxID, s.Category, s.Country, s.IsVerified,
	)
	updated, err := scanSupplier(row)
	if err != nil {
		return nil, postgres.MapError(err, "supplier", s.ID)
	}
	return updated, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanSupplier(row pgx.Row) (*domain.Supplier, error) {
	var s domain.Supplier
	err := row.Scan(&s.ID, &s.OrgID, &s.Name, &s.TaxID, &s.Category, &s.Country, &s.IsVerified, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan supplier: %w", err)
	}
	return &s, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
