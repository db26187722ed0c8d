package rest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/currency"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/document"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/intake"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/notification"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/supplier"
)

var (
	_ intakeService       = &intakeServiceMock{}
	_ documentService     = &documentServiceMock{}
	_ supplierService     = &supplierServiceMock{}
	_ currencyService     = &currencyServiceMock{}
	_ notificationService = &notificationServiceMock{}
)

type intakeServiceMock struct {
	IngestFunc func(ctx context.Context, input intake.IngestInput) (*intake.Outcome, error)
	info       intake.ProcessorInfo
	ingested   []intake.IngestInput
}

func (m *intakeServiceMock) Ingest(ctx context.Context, input intake.IngestInput) (*intake.Outcome, error) {
	m.ingested = append(m.ingested, input)
	if m.IngestFunc == nil {
		panic("intakeServiceMock.IngestFunc: method is nil but Ingest was just called")
	}
	return m.IngestFunc(ctx, input)
}

func (m *intakeServiceMock) Processors() intake.ProcessorInfo { return m.info }

type documentServiceMock struct {
	GetFunc           func(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	ListFunc          func(ctx context.Context, input document.ListInput) (domain.DocumentPage, error)
	ReviewQueueFunc   func(ctx context.Context) ([]domain.Document, error)
	ListRevisionsFunc func(ctx context.Context, documentID uuid.UUID, limit int) ([]domain.RevisionEntry, error)
	UpdateFunc        func(ctx context.Context, input document.UpdateInput) (*domain.Document, error)
	BulkActionFunc    func(ctx context.Context, input document.BulkInput) (*document.BulkResult, error)
}

func (m *documentServiceMock) Get(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	if m.GetFunc == nil {
		panic("documentServiceMock.GetFunc: method is nil but Get was just called")
	}
	return m.GetFunc(ctx, id)
}

func (m *documentServiceMock) List(ctx context.Context, input document.ListInput) (domain.DocumentPage, error) {
	if m.ListFunc == nil {
		panic("documentServiceMock.ListFunc: method is nil but List was just called")
	}
	return m.ListFunc(ctx, input)
}

func (m *documentServiceMock) ReviewQueue(ctx context.Context) ([]domain.Document, error) {
	if m.ReviewQueueFunc == nil {
		panic("documentServiceMock.ReviewQueueFunc: method is nil but ReviewQueue was just called")
	}
	return m.ReviewQueueFunc(ctx)
}

func (m *documentServiceMock) ListRevisions(ctx context.Context, documentID uuid.UUID, limit int) ([]domain.RevisionEntry, error) {
	if m.ListRevisionsFunc == nil {
		panic("documentServiceMock.ListRevisionsFunc: method is nil but ListRevisions was just called")
	}
	return m.ListRevisionsFunc(ctx, documentID, limit)
}

func (m *documentServiceMock) Update(ctx context.Context, input document.UpdateInput) (*domain.Document, error) {
	if m.UpdateFunc == nil {
		panic("documentServiceMock.UpdateFunc: method is nil but Update was just called")
	}
	return m.UpdateFunc(ctx, input)
}

func (m *documentServiceMock) BulkAction(ctx context.Context, input document.BulkInput) (*document.BulkResult, error) {
	if m.BulkActionFunc == nil {
		panic("documentServiceMock.BulkActionFunc: method is nil but BulkAction was just called")
	}
	return m.BulkActionFunc(ctx, input)
}

type supplierServiceMock struct {
	CreateFunc         func(ctx context.Context, input supplier.CreateInput) (*supplier.WriteResult, error)
	UpdateFunc         func(ctx context.Context, input supplier.UpdateInput) (*supplier.WriteResult, error)
	GetFunc            func(ctx context.Context, id uuid.UUID) (*domain.Supplier, error)
	ListFunc           func(ctx context.Context, input supplier.ListInput) ([]domain.Supplier, error)
	CheckDuplicateFunc func(ctx context.Context, input supplier.CheckDuplicateInput) ([]supplier.Candidate, error)
}

func (m *supplierServiceMock) Create(ctx context.Context, input supplier.CreateInput) (*supplier.WriteResult, error) {
	if m.CreateFunc == nil {
		panic("supplierServiceMock.CreateFunc: method is nil but Create was just called")
	}
	return m.CreateFunc(ctx, input)
}

func (m *supplierServiceMock) Update(ctx context.Context, input supplier.UpdateInput) (*supplier.WriteResult, error) {
	if m.UpdateFunc == nil {
		panic("supplierServiceMock.UpdateFunc: method is nil but Update was just called")
	}
	return m.UpdateFunc(ctx, input)
}

func (m *supplierServiceMock) Get(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	if m.GetFunc == nil {
		panic("supplierServiceMock.GetFunc: method is nil but Get was just called")
	}
	return m.GetFunc(ctx, id)
}

func (m *supplierServiceMock) List(ctx context.Context, input supplier.ListInput) ([]domain.Supplier, error) {
	if m.ListFunc == nil {
		panic("supplierServiceMock.ListFunc: method is nil but List was just called")
	}
	return m.ListFunc(ctx, input)
}

func (m *supplierServiceMock) CheckDuplicate(ctx context.Context, input supplier.CheckDuplicateInput) ([]supplier.Candidate, error) {
	if m.CheckDuplicateFunc == nil {
		panic("supplierServiceMock.CheckDuplicateFunc: method is nil but CheckDuplicate was just called")
	}
	return m.CheckDuplicateFunc(ctx, input)
}

type currencyServiceMock struct {
	RateForFunc              func(ctx context.Context, currency string, businessDate time.Time) (domain.RateQuote, error)
	ConvertToCanonicalFunc   func(ctx context.Context, amount decimal.Decimal, currency string, businessDate time.Time) (domain.Conversion, error)
	ConvertFromCanonicalFunc func(ctx context.Context, amount decimal.Decimal, currency string, businessDate time.Time) (domain.Conversion, error)
	RatesForDateFunc         func(ctx context.Context, date time.Time) (*domain.RateSnapshot, error)
	HistoryFunc              func(ctx context.Context, days int) ([]domain.RateSnapshot, error)
	SyncDailyFunc            func(ctx context.Context) (currency.SyncResult, error)
}

func (m *currencyServiceMock) Canonical() string { return "INR" }

func (m *currencyServiceMock) RateFor(ctx context.Context, currency string, businessDate time.Time) (domain.RateQuote, error) {
	if m.RateForFunc == nil {
		panic("currencyServiceMock.RateForFunc: method is nil but RateFor was just called")
	}
	return m.RateForFunc(ctx, currency, businessDate)
}

func (m *currencyServiceMock) ConvertToCanonical(ctx context.Context, amount decimal.Decimal, currency string, businessDate time.Time) (domain.Conversion, error) {
	if m.ConvertToCanonicalFunc == nil {
		panic("currencyServiceMock.ConvertToCanonicalFunc: method is nil but ConvertToCanonical was just called")
	}
	return m.ConvertToCanonicalFunc(ctx, amount, currency, businessDate)
}

func (m *currencyServiceMock) ConvertFromCanonical(ctx context.Context, amount decimal.Decimal, currency string, businessDate time.Time) (domain.Conversion, error) {
	if m.ConvertFromCanonicalFunc == nil {
		panic("currencyServiceMock.ConvertFromCanonicalFunc: method is nil but ConvertFromCanonical was just called")
	}
	return m.ConvertFromCanonicalFunc(ctx, amount, currency, businessDate)
}

func (m *currencyServiceMock) RatesForDate(ctx context.Context, date time.Time) (*domain.RateSnapshot, error) {
	if m.RatesForDateFunc == nil {
		panic("currencyServiceMock.RatesForDateFunc: method is nil but RatesForDate was just called")
	}
	return m.RatesForDateFunc(ctx, date)
}

func (m *currencyServiceMock) History(ctx context.Context, days int) ([]domain.RateSnapshot, error) {
	if m.HistoryFunc == nil {
		panic("currencyServiceMock.HistoryFunc: method is nil but History was just called")
	}
	return m.HistoryFunc(ctx, days)
}

func (m *currencyServiceMock) SyncDaily(ctx context.Context) (currency.SyncResult, error) {
	if m.SyncDailyFunc == nil {
		panic("currencyServiceMock.SyncDailyFunc: method is nil but SyncDaily was just called")
	}
	return m.SyncDailyFunc(ctx)
}

type notificationServiceMock struct {
	ListFunc     func(ctx context.Context, input notification.ListInput) ([]domain.Notification, error)
	MarkReadFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *notificationServiceMock) List(ctx context.Context, input notification.ListInput) ([]domain.Notification, error) {
	if m.ListFunc == nil {
		panic("notificationServiceMock.ListFunc: method is nil but List was just called")
	}
	return m.ListFunc(ctx, input)
}

func (m *notificationServiceMock) MarkRead(ctx context.Context, id uuid.UUID) error {
	if m.MarkReadFunc == nil {
		panic("notificationServiceMock.MarkReadFunc: method is nil but MarkRead was just called")
	}
	return m.MarkReadFunc(ctx, id)
}
