// Package document implements the Document repository using PostgreSQL.
// Every read and write is scoped by org_id.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/postgres"
	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

// FingerprintConstraint guards at-most-once ingestion per (org, outlet, content).
const FingerprintConstraint = "ux_documents_fingerprint"

const columns = `id, org_id, outlet_id, uploaded_by, filename, mime_type, file_size, storage_path, content_fingerprint,
	document_type, document_date, document_date_confidence, extraction_confidence, status, requires_review,
	supplier_id, supplier_name, supplier_tax_id, supplier_match_confidence, supplier_match_method, invoice_number, line_items,
	currency, subtotal, tax_rate, tax_amount, total_amount, amounts_reconciled, canonical_currency, converted_total,
	exchange_rate, rate_source, rate_date, rate_is_fallback,
	extraction_provider, extraction_method, extraction_retries, extraction_degraded, extraction_error, raw_ocr_text,
	version, created_at, updated_at`

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides document persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new document repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a document of orgID.
func (r *Repo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Document, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`SELECT `+columns+` FROM documents WHERE id = $1 AND org_id = $2`, id, orgID)

	d, err := scanDocument(row)
	if err != nil {
		return nil, postgres.MapError(err, "document", id)
	}
	return d, nil
}

// GetByFingerprint returns the document already ingested for the content
// fingerprint in (orgID, outletID).
func (r *Repo) GetByFingerprint(ctx context.Context, orgID, outletID uuid.UUID, fingerprint string) (*domain.Document, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`SELECT `+columns+` FROM documents WHERE org_id = $1 AND outlet_id = $2 AND content_fingerprint = $3`,
		orgID, outletID, fingerprint)

	d, err := scanDocument(row)
	if err != nil {
		return nil, postgres.MapError(err, "document with fingerprint", fingerprint)
	}
	return d, nil
}

// List returns one page of documents matching the filter, newest business
// date first (undated documents last), together with the total match count.
func (r *Repo) List(ctx context.Context, filter domain.DocumentFilter) (domain.DocumentPage, error) {
	f := normalizeFilter(filter)
	where := conditions(f)
	q := postgres.QuerierFromCtx(ctx, r.pool)

	countSQL, countArgs, err := psql.Select("count(*)").From("documents").Where(where).ToSql()
	if err != nil {
		return domain.DocumentPage{}, fmt.Errorf("build count documents query: %w", err)
	}
	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return domain.DocumentPage{}, postgres.MapError(err, "documents of org", f.OrgID)
	}

	listSQL, listArgs, err := psql.Select(columns).
		From("documents").
		Where(where).
		OrderBy("document_date DESC NULLS LAST", "created_at DESC", "id ASC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return domain.DocumentPage{}, fmt.Errorf("build list documents query: %w", err)
	}

	docs, err := r.query(ctx, listSQL, listArgs...)
	if err != nil {
		return domain.DocumentPage{}, postgres.MapError(err, "documents of org", f.OrgID)
	}
	return domain.DocumentPage{Documents: docs, Total: total}, nil
}

// ReviewQueue returns documents awaiting manual review, most recently
// uploaded first. A non-nil outletIDs restricts the queue to those outlets.
func (r *Repo) ReviewQueue(ctx context.Context, orgID uuid.UUID, outletIDs []uuid.UUID) ([]domain.Document, error) {
	status := domain.DocumentStatusNeedsReview
	where := conditions(domain.DocumentFilter{OrgID: orgID, OutletIDs: outletIDs, Status: &status})

	sql, args, err := psql.Select(columns).
		From("documents").
		Where(where).
		OrderBy("created_at DESC", "id ASC").
		Limit(ReviewQueueLimit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build review queue query: %w", err)
	}

	docs, err := r.query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "review queue of org", orgID)
	}
	return docs, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new document at version 1. A repeated (org, outlet,
// fingerprint) yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, d domain.Document) (*domain.Document, error) {
	lineItems, err := marshalLineItems(d.LineItems)
	if err != nil {
		return nil, err
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO documents (
			id, org_id, outlet_id, uploaded_by, filename, mime_type, file_size, storage_path, content_fingerprint,
			document_type, document_date, document_date_confidence, extraction_confidence, status, requires_review,
			supplier_id, supplier_name, supplier_tax_id, supplier_match_confidence, supplier_match_method, invoice_number, line_items,
			currency, subtotal, tax_rate, tax_amount, total_amount, amounts_reconciled, canonical_currency, converted_total,
			exchange_rate, rate_source, rate_date, rate_is_fallback,
			extraction_provider, extraction_method, extraction_retries, extraction_degraded, extraction_error, raw_ocr_text,
			version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37, $38, $39, $40, 1)
		 RETURNING `+columns,
		d.ID, d.OrgID, d.OutletID, d.UploadedBy, d.Filename, d.MimeType, d.FileSize, d.StoragePath, d.ContentFingerprint,
		string(d.DocumentType), d.DocumentDate, d.DocumentDateConfidence, d.ExtractionConfidence, string(d.Status), d.RequiresReview,
		d.SupplierID, d.SupplierName, d.SupplierTaxID, d.SupplierMatchConfidence, string(d.SupplierMatchMethod), d.InvoiceNumber, lineItems,
		d.Currency, d.Subtotal, d.TaxRate, d.TaxAmount, d.TotalAmount, d.AmountsReconciled, d.CanonicalCurrency, d.ConvertedTotal,
		d.ExchangeRate, string(d.RateSource), d.RateDate, d.RateIsFallback,
		d.ExtractionProvider, d.ExtractionMethod, d.ExtractionRetries, d.ExtractionDegraded, d.ExtractionError, d.RawOCRText,
	)

	created, err := scanDocument(row)
	if err != nil {
		if postgres.IsUniqueViolation(err, FingerprintConstraint) {
			return nil, fmt.Errorf("document with fingerprint %s: %w", d.ContentFingerprint, domain.ErrAlreadyExists)
		}
		return nil, postgres.MapError(err, "document", d.ID)
	}
	return created, nil
}

// UpdateVersioned writes the reviewer-editable fields of d and bumps the
// version, but only if the stored version still equals expectedVersion.
// A stale version yields domain.ErrConflict; a missing row domain.ErrNotFound.
func (r *Repo) UpdateVersioned(ctx context.Context, d domain.Document, expectedVersion int) (*domain.Document, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`UPDATE documents SET
			document_type = $3, document_date = $4, document_date_confidence = $5,
			status = $6, requires_review = $7,
			supplier_id = $8, supplier_name = $9, supplier_match_confidence = $10, supplier_match_method = $11,
			canonical_currency = $12, converted_total = $13, exchange_rate = $14,
			rate_source = $15, rate_date = $16, rate_is_fallback = $17,
			version = version + 1, updated_at = now()
		 WHERE id = $1 AND org_id = $2 AND version = $18
		 RETURNING `+columns,
		d.ID, d.OrgID,
		string(d.DocumentType), d.DocumentDate, d.DocumentDateConfidence,
		string(d.Status), d.RequiresReview,
		d.SupplierID, d.SupplierName, d.SupplierMatchConfidence, string(d.SupplierMatchMethod),
		d.CanonicalCurrency, d.ConvertedTotal, d.ExchangeRate,
		string(d.RateSource), d.RateDate, d.RateIsFallback,
		expectedVersion,
	)

	updated, err := scanDocument(row)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, postgres.MapError(err, "document", d.ID)
	}

	var exists bool
	if err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1 AND org_id = $2)`, d.ID, d.OrgID,
	).Scan(&exists); err != nil {
		return nil, postgres.MapError(err, "document", d.ID)
	}
	if !exists {
		return nil, fmt.Errorf("document %s: %w", d.ID, domain.ErrNotFound)
	}
	return nil, fmt.Errorf("document %s version %d: %w", d.ID, expectedVersion, domain.ErrConflict)
}

// Delete physically removes a document. Its revisions are kept.
func (r *Repo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx,
		`DELETE FROM documents WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return postgres.MapError(err, "document", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func (r *Repo) query(ctx context.Context, sql string, args ...any) ([]domain.Document, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var (
		d                                        domain.Document
		docType, status, matchMethod, rateSource string
		lineItems                                []byte
	)
	err := row.Scan(
		&d.ID, &d.OrgID, &d.OutletID, &d.UploadedBy, &d.Filename, &d.MimeType, &d.FileSize, &d.StoragePath, &d.ContentFingerprint,
		&docType, &d.DocumentDate, &d.DocumentDateConfidence, &d.ExtractionConfidence, &status, &d.RequiresReview,
		&d.SupplierID, &d.SupplierName, &d.SupplierTaxID, &d.SupplierMatchConfidence, &matchMethod, &d.InvoiceNumber, &lineItems,
		&d.Currency, &d.Subtotal, &d.TaxRate, &d.TaxAmount, &d.TotalAmount, &d.AmountsReconciled, &d.CanonicalCurrency, &d.ConvertedTotal,
		&d.ExchangeRate, &rateSource, &d.RateDate, &d.RateIsFallback,
		&d.ExtractionProvider, &d.ExtractionMethod, &d.ExtractionRetries, &d.ExtractionDegraded, &d.ExtractionError, &d.RawOCRText,
		&d.Version, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}

	d.DocumentType = domain.DocumentType(docType)
	d.Status = domain.DocumentStatus(status)
	d.SupplierMatchMethod = domain.MatchMethod(matchMethod)
	d.RateSource = domain.RateSource(rateSource)

	d.LineItems = make([]domain.LineItem, 0)
	if len(lineItems) > 0 {
		if err := json.Unmarshal(lineItems, &d.LineItems); err != nil {
			return nil, fmt.Errorf("document %s unmarshal line_items: %w", d.ID, err)
		}
	}
	return &d, nil
}

func marshalLineItems(items []domain.LineItem) ([]byte, error) {
	if items == nil {
		items = []domain.LineItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("document marshal line_items: %w", err)
	}
	return b, nil
}
