// Package revision implements the document revision ledger using PostgreSQL.
// It provides append-only operations: entries are never updated or deleted.
package revision

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/postgres"
	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

// MaxListLimit caps ListByDocument.
const MaxListLimit = 50

const columns = `id, document_id, org_id, version, snapshot, changed_fields, actor, reason, created_at`

// Repo provides revision ledger persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new revision repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create appends a revision entry. A second entry for the same
// (document, version) yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, entry domain.RevisionEntry) (*domain.RevisionEntry, error) {
	snapshot, err := json.Marshal(entry.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("revision marshal snapshot: %w", err)
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	changed := entry.ChangedFields
	if changed == nil {
		changed = []string{}
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO document_revisions (id, document_id, org_id, version, snapshot, changed_fields, actor, reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+columns,
		entry.ID, entry.DocumentID, entry.OrgID, entry.Version, snapshot, changed, entry.Actor, entry.Reason,
	)

	created, err := scanEntry(row)
	if err != nil {
		return nil, postgres.MapError(err, "revision", entry.ID)
	}
	return created, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByDocument returns the revisions of a document in orgID, newest version
// first. limit is clamped to MaxListLimit.
func (r *Repo) ListByDocument(ctx context.Context, orgID, documentID uuid.UUID, limit int) ([]domain.RevisionEntry, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx,
		`SELECT `+columns+` FROM document_revisions
		 WHERE document_id = $1 AND org_id = $2
		 ORDER BY version DESC
		 LIMIT $3`, documentID, orgID, limit)
	if err != nil {
		return nil, postgres.MapError(err, "revisions of document", documentID)
	}
	defer rows.Close()

	entries := make([]domain.RevisionEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, postgres.MapError(err, "revisions of document", documentID)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "revisions of document", documentID)
	}
	return entries, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanEntry(row pgx.Row) (*domain.RevisionEntry, error) {
	var (
		e        domain.RevisionEntry
		snapshot []byte
	)
	if err := row.Scan(&e.ID, &e.DocumentID, &e.OrgID, &e.Version, &snapshot, &e.ChangedFields, &e.Actor, &e.Reason, &e.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(snapshot, &e.Snapshot); err != nil {
		return nil, fmt.Errorf("revision %s unmarshal snapshot: %w", e.ID, err)
	}
	return &e, nil
}
