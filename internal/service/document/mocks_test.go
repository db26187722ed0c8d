package document

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// documentRepoMock
// ---------------------------------------------------------------------------

var _ documentRepo = &documentRepoMock{}

type documentRepoMock struct {
	GetByIDFunc         func(ctx context.Context, orgID, id uuid.UUID) (*domain.Document, error)
	ListFunc            func(ctx context.Context, filter domain.DocumentFilter) (domain.DocumentPage, error)
	ReviewQueueFunc     func(ctx context.Context, orgID uuid.UUID, outletIDs []uuid.UUID) ([]domain.Document, error)
	UpdateVersionedFunc func(ctx context.Context, d domain.Document, expectedVersion int) (*domain.Document, error)
	DeleteFunc          func(ctx context.Context, orgID, id uuid.UUID) error

	lock  sync.RWMutex
	calls struct {
		List []struct {
			Filter domain.DocumentFilter
		}
		ReviewQueue []struct {
			OrgID     uuid.UUID
			OutletIDs []uuid.UUID
		}
		UpdateVersioned []struct {
			D               domain.Document
			ExpectedVersion int
		}
		Delete []struct {
			OrgID uuid.UUID
			ID    uuid.UUID
		}
	}
}

func (mock *documentRepoMock) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Document, error) {
	if mock.GetByIDFunc == nil {
		panic("documentRepoMock.GetByIDFunc: method is nil but documentRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, orgID, id)
}

func (mock *documentRepoMock) List(ctx context.Context, filter domain.DocumentFilter) (domain.DocumentPage, error) {
	if mock.ListFunc == nil {
		panic("documentRepoMock.ListFunc: method is nil but documentRepo.List was just called")
	}
	mock.lock.Lock()
	mock.calls.List = append(mock.calls.List, struct{ Filter domain.DocumentFilter }{filter})
	mock.lock.Unlock()
	return mock.ListFunc(ctx, filter)
}

func (mock *documentRepoMock) ListCalls() []struct{ Filter domain.DocumentFilter } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.List
}

func (mock *documentRepoMock) ReviewQueue(ctx context.Context, orgID uuid.UUID, outletIDs []uuid.UUID) ([]domain.Document, error) {
	if mock.ReviewQueueFunc == nil {
		panic("documentRepoMock.ReviewQueueFunc: method is nil but documentRepo.ReviewQueue was just called")
	}
	mock.lock.Lock()
	mock.calls.ReviewQueue = append(mock.calls.ReviewQueue, struct {
		OrgID     uuid.UUID
		OutletIDs []uuid.UUID
	}{orgID, outletIDs})
	mock.lock.Unlock()
	return mock.ReviewQueueFunc(ctx, orgID, outletIDs)
}

func (mock *documentRepoMock) ReviewQueueCalls() []struct {
	OrgID     uuid.UUID
	OutletIDs []uuid.UUID
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.ReviewQueue
}

func (mock *documentRepoMock) UpdateVersioned(ctx context.Context, d domain.Document, expectedVersion int) (*domain.Document, error) {
	if mock.UpdateVersionedFunc == nil {
		panic("documentRepoMock.UpdateVersionedFunc: method is nil but documentRepo.UpdateVersioned was just called")
	}
	mock.lock.Lock()
	mock.calls.UpdateVersioned = append(mock.calls.UpdateVersioned, struct {
		D               domain.Document
		ExpectedVersion int
	}{d, expectedVersion})
	mock.lock.Unlock()
	return mock.UpdateVersionedFunc(ctx, d, expectedVersion)
}

func (mock *documentRepoMock) UpdateVersionedCalls() []struct {
	D               domain.Document
	ExpectedVersion int
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.UpdateVersioned
}

func (mock *documentRepoMock) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("documentRepoMock.DeleteFunc: method is nil but documentRepo.Delete was just called")
	}
	mock.lock.Lock()
	mock.calls.Delete = append(mock.calls.Delete, struct {
		OrgID uuid.UUID
		ID    uuid.UUID
	}{orgID, id})
	mock.lock.Unlock()
	return mock.DeleteFunc(ctx, orgID, id)
}

func (mock *documentRepoMock) DeleteCalls() []struct {
	OrgID uuid.UUID
	ID    uuid.UUID
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Delete
}

// ---------------------------------------------------------------------------
// revisionRepoMock
// ---------------------------------------------------------------------------

var _ revisionRepo = &revisionRepoMock{}

type revisionRepoMock struct {
	CreateFunc         func(ctx context.Context, entry domain.RevisionEntry) (*domain.RevisionEntry, error)
	ListByDocumentFunc func(ctx context.Context, orgID, documentID uuid.UUID, limit int) ([]domain.RevisionEntry, error)

	lock  sync.RWMutex
	calls struct {
		Create []struct {
			Entry domain.RevisionEntry
		}
	}
}

func (mock *revisionRepoMock) Create(ctx context.Context, entry domain.RevisionEntry) (*domain.RevisionEntry, error) {
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ Entry domain.RevisionEntry }{entry})
	mock.lock.Unlock()
	if mock.CreateFunc == nil {
		return &entry, nil
	}
	return mock.CreateFunc(ctx, entry)
}

func (mock *revisionRepoMock) CreateCalls() []struct{ Entry domain.RevisionEntry } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

func (mock *revisionRepoMock) ListByDocument(ctx context.Context, orgID, documentID uuid.UUID, limit int) ([]domain.RevisionEntry, error) {
	if mock.ListByDocumentFunc == nil {
		panic("revisionRepoMock.ListByDocumentFunc: method is nil but revisionRepo.ListByDocument was just called")
	}
	return mock.ListByDocumentFunc(ctx, orgID, documentID, limit)
}

// ---------------------------------------------------------------------------
// supplierRepoMock
// ---------------------------------------------------------------------------

var _ supplierRepo = &supplierRepoMock{}

type supplierRepoMock struct {
	GetByIDFunc func(ctx context.Context, orgID, id uuid.UUID) (*domain.Supplier, error)
}

func (mock *supplierRepoMock) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Supplier, error) {
	if mock.GetByIDFunc == nil {
		panic("supplierRepoMock.GetByIDFunc: method is nil but supplierRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, orgID, id)
}

// ---------------------------------------------------------------------------
// currencyConverterMock
// ---------------------------------------------------------------------------

var _ currencyConverter = &currencyConverterMock{}

type currencyConverterMock struct {
	ConvertToCanonicalFunc func(ctx context.Context, amount decimal.Decimal, currency string, businessDate time.Time) (domain.Conversion, error)

	lock  sync.RWMutex
	dates []time.Time
}

func (mock *currencyConverterMock) ConvertToCanonical(ctx context.Context, amount decimal.Decimal, currency string, businessDate time.Time) (domain.Conversion, error) {
	if mock.ConvertToCanonicalFunc == nil {
		panic("currencyConverterMock.ConvertToCanonicalFunc: method is nil but currencyConverter.ConvertToCanonical was just called")
	}
	mock.lock.Lock()
	mock.dates = append(mock.dates, businessDate)
	mock.lock.Unlock()
	return mock.ConvertToCanonicalFunc(ctx, amount, currency, businessDate)
}

func (mock *currencyConverterMock) ConvertDates() []time.Time {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.dates
}

// ---------------------------------------------------------------------------
// txManagerMock
// ---------------------------------------------------------------------------

var _ txManager = &txManagerMock{}

type txManagerMock struct {
	lock  sync.Mutex
	calls int
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	mock.lock.Lock()
	mock.calls++
	mock.lock.Unlock()
	return fn(ctx)
}
