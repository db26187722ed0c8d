package supplier

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

var _ supplierRepo = &supplierRepoMock{}

type supplierRepoMock struct {
	GetByIDFunc    func(ctx context.Context, orgID, id uuid.UUID) (*domain.Supplier, error)
	GetByTaxIDFunc func(ctx context.Context, orgID uuid.UUID, taxID string) (*domain.Supplier, error)
	ListByOrgFunc  func(ctx context.Context, orgID uuid.UUID, search string, limit, offset int) ([]domain.Supplier, error)
	CreateFunc     func(ctx context.Context, s domain.Supplier) (*domain.Supplier, error)
	UpdateFunc     func(ctx context.Context, s domain.Supplier) (*domain.Supplier, error)

	calls struct {
		GetByID []struct {
			OrgID uuid.UUID
			ID    uuid.UUID
		}
		GetByTaxID []struct {
			OrgID uuid.UUID
			TaxID string
		}
		ListByOrg []struct {
			OrgID  uuid.UUID
			Search string
			Limit  int
			Offset int
		}
		Create []struct {
			S domain.Supplier
		}
		Update []struct {
			S domain.Supplier
		}
	}
	lock sync.RWMutex
}

func (mock *supplierRepoMock) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Supplier, error) {
	if mock.GetByIDFunc == nil {
		panic("supplierRepoMock.GetByIDFunc: method is nil but supplierRepo.GetByID was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, struct {
		OrgID uuid.UUID
		ID    uuid.UUID
	}{orgID, id})
	mock.lock.Unlock()
	return mock.GetByIDFunc(ctx, orgID, id)
}

func (mock *supplierRepoMock) GetByTaxID(ctx context.Context, orgID uuid.UUID, taxID string) (*domain.Supplier, error) {
	if mock.GetByTaxIDFunc == nil {
		panic("supplierRepoMock.GetByTaxIDFunc: method is nil but supplierRepo.GetByTaxID was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByTaxID = append(mock.calls.GetByTaxID, struct {
		OrgID uuid.UUID
		TaxID string
	}{orgID, taxID})
	mock.lock.Unlock()
	return mock.GetByTaxIDFunc(ctx, orgID, taxID)
}

func (mock *supplierRepoMock) ListByOrg(ctx context.Context, orgID uuid.UUID, search string, limit, offset int) ([]domain.Supplier, error) {
	if mock.ListByOrgFunc == nil {
		panic("supplierRepoMock.ListByOrgFunc: method is nil but supplierRepo.ListByOrg was just called")
	}
	mock.lock.Lock()
	mock.calls.ListByOrg = append(mock.calls.ListByOrg, struct {
		OrgID  uuid.UUID
		Search string
		Limit  int
		Offset int
	}{orgID, search, limit, offset})
	mock.lock.Unlock()
	return mock.ListByOrgFunc(ctx, orgID, search, limit, offset)
}

func (mock *supplierRepoMock) ListByOrgCalls() []struct {
	OrgID  uuid.UUID
	Search string
	Limit  int
	Offset int
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.ListByOrg
}

func (mock *supplierRepoMock) Create(ctx context.Context, s domain.Supplier) (*domain.Supplier, error) {
	if mock.CreateFunc == nil {
		panic("supplierRepoMock.CreateFunc: method is nil but supplierRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ S domain.Supplier }{s})
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, s)
}

func (mock *supplierRepoMock) CreateCalls() []struct{ S domain.Supplier } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

func (mock *supplierRepoMock) Update(ctx context.Context, s domain.Supplier) (*domain.Supplier, error) {
	if mock.UpdateFunc == nil {
		panic("supplierRepoMock.UpdateFunc: method is nil but supplierRepo.Update was just called")
	}
	mock.lock.Lock()
	mock.calls.Update = append(mock.calls.Update, struct{ S domain.Supplier }{s})
	mock.lock.Unlock()
	return mock.UpdateFunc(ctx, s)
}

func (mock *supplierRepoMock) UpdateCalls() []struct{ S domain.Supplier } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Update
}
