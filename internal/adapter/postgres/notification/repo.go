// Package notification implements the in-app notification repository using PostgreSQL.
package notification

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/postgres"
	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

const columns = `id, org_id, outlet_id, type, target_role, title, message, severity, related_type, related_id, is_read, created_at`

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides notification persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new notification repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a notification.
func (r *Repo) Create(ctx context.Context, n domain.Notification) (*domain.Notification, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO notifications (id, org_id, outlet_id, type, target_role, title, message, severity, related_type, related_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+columns,
		n.ID, n.OrgID, n.OutletID, n.Type, string(n.TargetRole), n.Title, n.Message, string(n.Severity), n.RelatedType, n.RelatedID,
	)

	created, err := scanNotification(row)
	if err != nil {
		return nil, postgres.MapError(err, "notification", n.ID)
	}
	return created, nil
}

// ListForRole returns notifications of orgID visible to role, newest first.
// Untargeted notifications are visible to everyone; owners see all.
func (r *Repo) ListForRole(ctx context.Context, orgID uuid.UUID, role domain.Role, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	query := psql.Select(columns).
		From("notifications").
		Where(squirrel.Eq{"org_id": orgID}).
		OrderBy("created_at DESC", "id ASC").
		Limit(uint64(limit))

	if role != domain.RoleOwner {
		query = query.Where(squirrel.Eq{"target_role": []string{"", string(role)}})
	}
	if unreadOnly {
		query = query.Where(squirrel.Eq{"is_read": false})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list notifications query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "notifications of org", orgID)
	}
	defer rows.Close()

	out := make([]domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, postgres.MapError(err, "notifications of org", orgID)
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "notifications of org", orgID)
	}
	return out, nil
}

// MarkRead flags a notification of orgID as read. Marking twice is not an error.
func (r *Repo) MarkRead(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return postgres.MapError(err, "notification", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var (
		n               domain.Notification
		targetRole, sev string
	)
	err := row.Scan(&n.ID, &n.OrgID, &n.OutletID, &n.Type, &targetRole, &n.Title, &n.Message, &sev,
		&n.RelatedType, &n.RelatedID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	n.TargetRole = domain.Role(targetRole)
	n.Severity = domain.NotificationSeverity(sev)
	return &n, nil
}
