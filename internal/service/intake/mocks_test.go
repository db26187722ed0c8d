package intake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/internal/provider"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/supplier"
)

// ---------------------------------------------------------------------------
// extractorMock
// ---------------------------------------------------------------------------

var _ Extractor = &extractorMock{}

type extractorMock struct {
	NameValue   string
	ExtractFunc func(ctx context.Context, req provider.ExtractionRequest) (*provider.ExtractionResult, error)

	lock  sync.Mutex
	calls int
}

func (mock *extractorMock) Name() string { return mock.NameValue }

func (mock *extractorMock) Extract(ctx context.Context, req provider.ExtractionRequest) (*provider.ExtractionResult, error) {
	if mock.ExtractFunc == nil {
		panic("extractorMock.ExtractFunc: method is nil but Extractor.Extract was just called")
	}
	mock.lock.Lock()
	mock.calls++
	mock.lock.Unlock()
	return mock.ExtractFunc(ctx, req)
}

func (mock *extractorMock) ExtractCalls() int {
	mock.lock.Lock()
	defer mock.lock.Unlock()
	return mock.calls
}

// ---------------------------------------------------------------------------
// blobStoreMock
// ---------------------------------------------------------------------------

var _ blobStore = &blobStoreMock{}

type blobStoreMock struct {
	PutFunc    func(ctx context.Context, key string, data []byte, contentType string) error
	MoveFunc   func(ctx context.Context, from, to string) error
	DeleteFunc func(ctx context.Context, key string) error

	lock  sync.RWMutex
	calls struct {
		Put []struct {
			Key         string
			ContentType string
		}
		Move []struct {
			From string
			To   string
		}
		Delete []struct {
			Key string
		}
	}
}

func (mock *blobStoreMock) Put(ctx context.Context, key string, data []byte, contentType string) error {
	mock.lock.Lock()
	mock.calls.Put = append(mock.calls.Put, struct {
		Key         string
		ContentType string
	}{key, contentType})
	mock.lock.Unlock()
	if mock.PutFunc == nil {
		return nil
	}
	return mock.PutFunc(ctx, key, data, contentType)
}

func (mock *blobStoreMock) Move(ctx context.Context, from, to string) error {
	mock.lock.Lock()
	mock.calls.Move = append(mock.calls.Move, struct {
		From string
		To   string
	}{from, to})
	mock.lock.Unlock()
	if mock.MoveFunc == nil {
		return nil
	}
	return mock.MoveFunc(ctx, from, to)
}

func (mock *blobStoreMock) Delete(ctx context.Context, key string) error {
	mock.lock.Lock()
	mock.calls.Delete = append(mock.calls.Delete, struct{ Key string }{key})
	mock.lock.Unlock()
	if mock.DeleteFunc == nil {
		return nil
	}
	return mock.DeleteFunc(ctx, key)
}

func (mock *blobStoreMock) PutCalls() []struct {
	Key         string
	ContentType string
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Put
}

func (mock *blobStoreMock) MoveCalls() []struct {
	From string
	To   string
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Move
}

func (mock *blobStoreMock) DeleteCalls() []struct{ Key string } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Delete
}

// ---------------------------------------------------------------------------
// documentRepoMock
// ---------------------------------------------------------------------------

var _ documentRepo = &documentRepoMock{}

type documentRepoMock struct {
	GetByFingerprintFunc func(ctx context.Context, orgID, outletID uuid.UUID, fingerprint string) (*domain.Document, error)
	CreateFunc           func(ctx context.Context, d domain.Document) (*domain.Document, error)

	lock  sync.RWMutex
	calls struct {
		GetByFingerprint []struct {
			OrgID       uuid.UUID
			OutletID    uuid.UUID
			Fingerprint string
		}
		Create []struct {
			D domain.Document
		}
	}
}

func (mock *documentRepoMock) GetByFingerprint(ctx context.Context, orgID, outletID uuid.UUID, fingerprint string) (*domain.Document, error) {
	if mock.GetByFingerprintFunc == nil {
		panic("documentRepoMock.GetByFingerprintFunc: method is nil but documentRepo.GetByFingerprint was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByFingerprint = append(mock.calls.GetByFingerprint, struct {
		OrgID       uuid.UUID
		OutletID    uuid.UUID
		Fingerprint string
	}{orgID, outletID, fingerprint})
	mock.lock.Unlock()
	return mock.GetByFingerprintFunc(ctx, orgID, outletID, fingerprint)
}

func (mock *documentRepoMock) Create(ctx context.Context, d domain.Document) (*domain.Document, error) {
	if mock.CreateFunc == nil {
		panic("documentRepoMock.CreateFunc: method is nil but documentRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ D domain.Document }{d})
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, d)
}

func (mock *documentRepoMock) CreateCalls() []struct{ D domain.Document } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

// ---------------------------------------------------------------------------
// supplierResolverMock
// ---------------------------------------------------------------------------

var _ supplierResolver = &supplierResolverMock{}

type supplierResolverMock struct {
	ResolveFunc func(ctx context.Context, orgID uuid.UUID, name, taxID string) (supplier.MatchResult, error)

	lock  sync.RWMutex
	calls []struct {
		OrgID uuid.UUID
		Name  string
		TaxID string
	}
}

func (mock *supplierResolverMock) Resolve(ctx context.Context, orgID uuid.UUID, name, taxID string) (supplier.MatchResult, error) {
	if mock.ResolveFunc == nil {
		panic("supplierResolverMock.ResolveFunc: method is nil but supplierResolver.Resolve was just called")
	}
	mock.lock.Lock()
	mock.calls = append(mock.calls, struct {
		OrgID uuid.UUID
		Name  string
		TaxID string
	}{orgID, name, taxID})
	mock.lock.Unlock()
	return mock.ResolveFunc(ctx, orgID, name, taxID)
}

func (mock *supplierResolverMock) ResolveCalls() []struct {
	OrgID uuid.UUID
	Name  string
	TaxID string
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls
}

// ---------------------------------------------------------------------------
// currencyConverterMock
// ---------------------------------------------------------------------------

var _ currencyConverter = &currencyConverterMock{}

type currencyConverterMock struct {
	ConvertToCanonicalFunc func(ctx context.Context, amount decimal.Decimal, currency string, businessDate time.Time) (domain.Conversion, error)

	lock  sync.RWMutex
	calls []struct {
		Amount       decimal.Decimal
		Currency     string
		BusinessDate time.Time
	}
}

func (mock *currencyConverterMock) Canonical() string { return "INR" }

func (mock *currencyConverterMock) ConvertToCanonical(ctx context.Context, amount decimal.Decimal, currency string, businessDate time.Time) (domain.Conversion, error) {
	if mock.ConvertToCanonicalFunc == nil {
		panic("currencyConverterMock.ConvertToCanonicalFunc: method is nil but currencyConverter.ConvertToCanonical was just called")
	}
	mock.lock.Lock()
	mock.calls = append(mock.calls, struct {
		Amount       decimal.Decimal
		Currency     string
		BusinessDate time.Time
	}{amount, currency, businessDate})
	mock.lock.Unlock()
	return mock.ConvertToCanonicalFunc(ctx, amount, currency, businessDate)
}

func (mock *currencyConverterMock) ConvertToCanonicalCalls() []struct {
	Amount       decimal.Decimal
	Currency     string
	BusinessDate time.Time
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls
}

// ---------------------------------------------------------------------------
// notificationRepoMock
// ---------------------------------------------------------------------------

var _ notificationRepo = &notificationRepoMock{}

type notificationRepoMock struct {
	CreateFunc func(ctx context.Context, n domain.Notification) (*domain.Notification, error)

	lock  sync.RWMutex
	calls []struct {
		N domain.Notification
	}
}

func (mock *notificationRepoMock) Create(ctx context.Context, n domain.Notification) (*domain.Notification, error) {
	mock.lock.Lock()
	mock.calls = append(mock.calls, struct{ N domain.Notification }{n})
	mock.lock.Unlock()
	if mock.CreateFunc == nil {
		return &n, nil
	}
	return mock.CreateFunc(ctx, n)
}

func (mock *notificationRepoMock) CreateCalls() []struct{ N domain.Notification } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls
}
