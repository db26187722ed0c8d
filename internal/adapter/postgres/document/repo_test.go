package document_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/postgres/document"
	"github.com/heartmarshall/ledgerlens-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

func date(s string) *time.Time {
	t, err := time.Parse(domain.BusinessDateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func newDocument(orgID, outletID uuid.UUID) domain.Document {
	return domain.Document{
		ID:                     uuid.New(),
		OrgID:                  orgID,
		OutletID:               outletID,
		UploadedBy:             uuid.New(),
		Filename:               "metro.pdf",
		MimeType:               "application/pdf",
		FileSize:               2048,
		StoragePath:            "org/outlet/unclassified/x.pdf",
		ContentFingerprint:     "fp-" + uuid.New().String(),
		DocumentType:           domain.DocumentTypePurchaseInvoice,
		DocumentDate:           date("2024-03-01"),
		DocumentDateConfidence: 0.92,
		ExtractionConfidence:   0.88,
		Status:                 domain.DocumentStatusProcessed,
		SupplierName:           "Metro Cash & Carry",
		SupplierMatchMethod:    domain.MatchMethodNoMatch,
		InvoiceNumber:          "INV-2024-001",
		LineItems: []domain.LineItem{{
			Description: "Basmati Rice 25kg",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.RequireFromString("500.00"),
			Amount:      decimal.RequireFromString("1000.00"),
			Category:    "Grains",
		}},
		Currency:           "USD",
		Subtotal:           decimal.RequireFromString("1000.00"),
		TaxRate:            decimal.RequireFromString("0.18"),
		TaxAmount:          decimal.RequireFromString("180.00"),
		TotalAmount:        decimal.RequireFromString("1180.00"),
		CanonicalCurrency:  "INR",
		ConvertedTotal:     decimal.RequireFromString("97822.00"),
		ExchangeRate:       decimal.RequireFromString("82.9000"),
		RateSource:         domain.RateSourceHistoricalSnapshot,
		RateDate:           date("2024-03-01"),
		ExtractionProvider: "mock",
		ExtractionMethod:   "document_ai",
	}
}

func TestRepo_CreateAndGet(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := document.New(pool)
	ctx := context.Background()
	orgID, outletID := uuid.New(), uuid.New()

	in := newDocument(orgID, outletID)
	created, err := repo.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Version != 1 {
		t.Errorf("version = %d, want 1", created.Version)
	}

	got, err := repo.GetByID(ctx, orgID, in.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.TotalAmount.Equal(in.TotalAmount) || !got.ExchangeRate.Equal(in.ExchangeRate) {
		t.Errorf("amounts did not round-trip: total=%s rate=%s", got.TotalAmount, got.ExchangeRate)
	}
	if got.DocumentDate == nil || got.DocumentDate.Format(domain.BusinessDateLayout) != "2024-03-01" {
		t.Errorf("document_date = %v, want 2024-03-01", got.DocumentDate)
	}
	if got.RateSource != domain.RateSourceHistoricalSnapshot || got.Status != domain.DocumentStatusProcessed {
		t.Errorf("enums did not round-trip: %s %s", got.RateSource, got.Status)
	}
	if len(got.LineItems) != 1 || got.LineItems[0].Description != "Basmati Rice 25kg" {
		t.Errorf("line items = %+v", got.LineItems)
	}
	if got.SupplierID != nil {
		t.Errorf("supplier_id = %v, want nil", got.SupplierID)
	}

	byFP, err := repo.GetByFingerprint(ctx, orgID, outletID, in.ContentFingerprint)
	if err != nil {
		t.Fatalf("GetByFingerprint: %v", err)
	}
	if byFP.ID != in.ID {
		t.Errorf("GetByFingerprint id = %s, want %s", byFP.ID, in.ID)
	}

	if _, err := repo.GetByID(ctx, uuid.New(), in.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID(other org) = %v, want ErrNotFound", err)
	}
}

func TestRepo_Create_DuplicateFingerprint(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := document.New(pool)
	ctx := context.Background()
	orgID, outletID := uuid.New(), uuid.New()

	first := newDocument(orgID, outletID)
	if _, err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	second := newDocument(orgID, outletID)
	second.ContentFingerprint = first.ContentFingerprint
	if _, err := repo.Create(ctx, second); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("Create(duplicate) = %v, want ErrAlreadyExists", err)
	}

	// Same content in a different outlet is a different document.
	other := newDocument(orgID, uuid.New())
	other.ContentFingerprint = first.ContentFingerprint
	if _, err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create(other outlet): %v", err)
	}
}

func TestRepo_UpdateVersioned(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := document.New(pool)
	ctx := context.Background()
	orgID, outletID := uuid.New(), uuid.New()
	supplier := testhelper.SeedSupplier(t, pool, orgID, "Metro Cash & Carry", "")

	seeded := testhelper.SeedDocument(t, pool, orgID, outletID, func(d *domain.Document) {
		d.Status = domain.DocumentStatusNeedsReview
		d.RequiresReview = true
	})

	change := seeded
	change.Status = domain.DocumentStatusProcessed
	change.RequiresReview = false
	change.SupplierID = &supplier.ID
	change.SupplierName = supplier.Name

	updated, err := repo.UpdateVersioned(ctx, change, 1)
	if err != nil {
		t.Fatalf("UpdateVersioned: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("version = %d, want 2", updated.Version)
	}
	if updated.Status != domain.DocumentStatusProcessed || updated.RequiresReview {
		t.Errorf("status = %s requires_review = %v", updated.Status, updated.RequiresReview)
	}
	if updated.SupplierID == nil || *updated.SupplierID != supplier.ID {
		t.Errorf("supplier_id = %v, want %s", updated.SupplierID, supplier.ID)
	}

	// A writer holding the old version loses.
	if _, err := repo.UpdateVersioned(ctx, change, 1); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("UpdateVersioned(stale) = %v, want ErrConflict", err)
	}

	missing := change
	missing.ID = uuid.New()
	if _, err := repo.UpdateVersioned(ctx, missing, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("UpdateVersioned(missing) = %v, want ErrNotFound", err)
	}
}

func TestRepo_List(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := document.New(pool)
	ctx := context.Background()
	orgID := uuid.New()
	outletA, outletB := uuid.New(), uuid.New()

	testhelper.SeedDocument(t, pool, orgID, outletA, func(d *domain.Document) {
		d.DocumentDate = date("2024-03-01")
		d.SupplierName = "Metro Cash & Carry"
	})
	testhelper.SeedDocument(t, pool, orgID, outletA, func(d *domain.Document) {
		d.DocumentDate = date("2024-03-05")
		d.SupplierName = "Sysco Foods"
		d.InvoiceNumber = "SYS-77"
	})
	testhelper.SeedDocument(t, pool, orgID, outletB, func(d *domain.Document) {
		d.DocumentDate = nil
		d.Status = domain.DocumentStatusNeedsReview
		d.RequiresReview = true
	})
	testhelper.SeedDocument(t, pool, uuid.New(), outletA)

	t.Run("org scope and ordering", func(t *testing.T) {
		page, err := repo.List(ctx, domain.DocumentFilter{OrgID: orgID})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if page.Total != 3 || len(page.Documents) != 3 {
			t.Fatalf("total=%d len=%d, want 3", page.Total, len(page.Documents))
		}
		if page.Documents[0].DocumentDate.Format(domain.BusinessDateLayout) != "2024-03-05" {
			t.Errorf("first = %v, want 2024-03-05", page.Documents[0].DocumentDate)
		}
		if page.Documents[2].DocumentDate != nil {
			t.Errorf("undated document should sort last")
		}
	})

	t.Run("outlet restriction", func(t *testing.T) {
		page, err := repo.List(ctx, domain.DocumentFilter{OrgID: orgID, OutletIDs: []uuid.UUID{outletB}})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if page.Total != 1 {
			t.Errorf("total = %d, want 1", page.Total)
		}

		page, err = repo.List(ctx, domain.DocumentFilter{OrgID: orgID, OutletIDs: []uuid.UUID{}})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if page.Total != 0 {
			t.Errorf("empty outlet access total = %d, want 0", page.Total)
		}
	})

	t.Run("status, search and dates", func(t *testing.T) {
		status := domain.DocumentStatusNeedsReview
		page, err := repo.List(ctx, domain.DocumentFilter{OrgID: orgID, Status: &status})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if page.Total != 1 {
			t.Errorf("needs_review total = %d, want 1", page.Total)
		}

		page, err = repo.List(ctx, domain.DocumentFilter{OrgID: orgID, Search: "sys-7"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if page.Total != 1 || page.Documents[0].SupplierName != "Sysco Foods" {
			t.Errorf("search by invoice number: %+v", page)
		}

		page, err = repo.List(ctx, domain.DocumentFilter{OrgID: orgID, SupplierName: "metro"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if page.Total != 1 {
			t.Errorf("supplier filter total = %d, want 1", page.Total)
		}

		page, err = repo.List(ctx, domain.DocumentFilter{OrgID: orgID, DateFrom: date("2024-03-02"), DateTo: date("2024-03-31")})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if page.Total != 1 {
			t.Errorf("date range total = %d, want 1", page.Total)
		}
	})

	t.Run("paging keeps total", func(t *testing.T) {
		page, err := repo.List(ctx, domain.DocumentFilter{OrgID: orgID, Limit: 1, Offset: 1})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if page.Total != 3 || len(page.Documents) != 1 {
			t.Errorf("total=%d len=%d, want 3/1", page.Total, len(page.Documents))
		}
	})
}

func TestRepo_ReviewQueueAndDelete(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := document.New(pool)
	ctx := context.Background()
	orgID, outletID := uuid.New(), uuid.New()

	flagged := testhelper.SeedDocument(t, pool, orgID, outletID, func(d *domain.Document) {
		d.Status = domain.DocumentStatusNeedsReview
		d.RequiresReview = true
	})
	testhelper.SeedDocument(t, pool, orgID, outletID)

	queue, err := repo.ReviewQueue(ctx, orgID, nil)
	if err != nil {
		t.Fatalf("ReviewQueue: %v", err)
	}
	if len(queue) != 1 || queue[0].ID != flagged.ID {
		t.Fatalf("queue = %+v, want only %s", queue, flagged.ID)
	}

	if err := repo.Delete(ctx, orgID, flagged.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, orgID, flagged.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID(deleted) = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, orgID, flagged.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete(again) = %v, want ErrNotFound", err)
	}
}
