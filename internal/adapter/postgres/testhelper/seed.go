package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedSupplier inserts a supplier in orgID. An empty taxID is stored as ''.
func SeedSupplier(t *testing.T, pool *pgxpool.Pool, orgID uuid.UUID, name, taxID string) domain.Supplier {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	s := domain.Supplier{
		ID:         uuid.New(),
		OrgID:      orgID,
		Name:       name,
		TaxID:      taxID,
		Category:   "General",
		Country:    domain.CountryIndia,
		IsVerified: taxID != "",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO suppliers (id, org_id, name, tax_id, category, country, is_verified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.OrgID, s.Name, s.TaxID, s.Category, s.Country, s.IsVerified, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSupplier: %v", err)
	}
	return s
}

// SeedDocument inserts a processed INR purchase invoice in (orgID, outletID).
// Optional mutators adjust the document before insert; only the columns
// listed below are written, the rest take their defaults.
func SeedDocument(t *testing.T, pool *pgxpool.Pool, orgID, outletID uuid.UUID, mutate ...func(*domain.Document)) domain.Document {
	t.Helper()

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC().Truncate(time.Microsecond)
	d := domain.Document{
		ID:                     uuid.New(),
		OrgID:                  orgID,
		OutletID:               outletID,
		UploadedBy:             uuid.New(),
		Filename:               "invoice-" + uniqueSuffix() + ".pdf",
		MimeType:               "application/pdf",
		FileSize:               1024,
		ContentFingerprint:     "fp-" + uuid.New().String(),
		DocumentType:           domain.DocumentTypePurchaseInvoice,
		DocumentDate:           &date,
		DocumentDateConfidence: 0.9,
		ExtractionConfidence:   0.9,
		Status:                 domain.DocumentStatusProcessed,
		SupplierName:           "Seed Supplier " + uniqueSuffix(),
		InvoiceNumber:          "INV-" + uniqueSuffix(),
		Currency:               "INR",
		Subtotal:               decimal.RequireFromString("1000.00"),
		TaxAmount:              decimal.RequireFromString("180.00"),
		TotalAmount:            decimal.RequireFromString("1180.00"),
		CanonicalCurrency:      "INR",
		ConvertedTotal:         decimal.RequireFromString("1180.00"),
		ExchangeRate:           decimal.NewFromInt(1),
		RateSource:             domain.RateSourceBaseCurrency,
		ExtractionProvider:     "mock",
		Version:                1,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	for _, m := range mutate {
		m(&d)
	}
	d.StoragePath = orgID.String() + "/" + outletID.String() + "/" + d.ID.String() + ".pdf"

	_, err := pool.Exec(context.Background(),
		`INSERT INTO documents (
			id, org_id, outlet_id, uploaded_by, filename, mime_type, file_size, storage_path, content_fingerprint,
			document_type, document_date, document_date_confidence, extraction_confidence, status, requires_review,
			supplier_id, supplier_name, invoice_number, currency, subtotal, tax_amount, total_amount,
			canonical_currency, converted_total, exchange_rate, rate_source, extraction_provider,
			version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30)`,
		d.ID, d.OrgID, d.OutletID, d.UploadedBy, d.Filename, d.MimeType, d.FileSize, d.StoragePath, d.ContentFingerprint,
		string(d.DocumentType), d.DocumentDate, d.DocumentDateConfidence, d.ExtractionConfidence, string(d.Status), d.RequiresReview,
		d.SupplierID, d.SupplierName, d.InvoiceNumber, d.Currency, d.Subtotal, d.TaxAmount, d.TotalAmount,
		d.CanonicalCurrency, d.ConvertedTotal, d.ExchangeRate, string(d.RateSource), d.ExtractionProvider,
		d.Version, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDocument: %v", err)
	}
	return d
}

// SeedRateSnapshot upserts a USD-based snapshot for date. rates maps currency
// code to a decimal string.
func SeedRateSnapshot(t *testing.T, pool *pgxpool.Pool, date time.Time, rates map[string]string, isFallback bool) {
	t.Helper()

	table := make(map[string]decimal.Decimal, len(rates))
	for code, v := range rates {
		table[code] = decimal.RequireFromString(v)
	}
	raw, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("testhelper: SeedRateSnapshot marshal: %v", err)
	}

	_, err = pool.Exec(context.Background(),
		`INSERT INTO exchange_rate_snapshots (id, date, base_currency, rates, is_fallback)
		 VALUES ($1, $2, 'USD', $3, $4)
		 ON CONFLICT (date) DO UPDATE SET rates = EXCLUDED.rates, is_fallback = EXCLUDED.is_fallback`,
		uuid.New(), date, raw, isFallback,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRateSnapshot: %v", err)
	}
}
