package currency

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/internal/provider"
)

var _ rateStore = &rateStoreMock{}

type rateStoreMock struct {
	GetByDateFunc           func(ctx context.Context, date time.Time) (*domain.RateSnapshot, error)
	GetLatestOnOrBeforeFunc func(ctx context.Context, date time.Time) (*domain.RateSnapshot, error)
	ListSinceFunc           func(ctx context.Context, from time.Time) ([]domain.RateSnapshot, error)
	UpsertFunc              func(ctx context.Context, s domain.RateSnapshot) (bool, error)

	calls struct {
		GetByDate []struct {
			Ctx  context.Context
			Date time.Time
		}
		GetLatestOnOrBefore []struct {
			Ctx  context.Context
			Date time.Time
		}
		ListSince []struct {
			Ctx  context.Context
			From time.Time
		}
		Upsert []struct {
			Ctx context.Context
			S   domain.RateSnapshot
		}
	}
	lockGetByDate           sync.RWMutex
	lockGetLatestOnOrBefore sync.RWMutex
	lockListSince           sync.RWMutex
	lockUpsert              sync.RWMutex
}

func (mock *rateStoreMock) GetByDate(ctx context.Context, date time.Time) (*domain.RateSnapshot, error) {
	if mock.GetByDateFunc == nil {
		panic("rateStoreMock.GetByDateFunc: method is nil but rateStore.GetByDate was just called")
	}
	mock.lockGetByDate.Lock()
	mock.calls.GetByDate = append(mock.calls.GetByDate, struct {
		Ctx  context.Context
		Date time.Time
	}{ctx, date})
	mock.lockGetByDate.Unlock()
	return mock.GetByDateFunc(ctx, date)
}

func (mock *rateStoreMock) GetByDateCalls() []struct {
	Ctx  context.Context
	Date time.Time
} {
	mock.lockGetByDate.RLock()
	defer mock.lockGetByDate.RUnlock()
	return mock.calls.GetByDate
}

func (mock *rateStoreMock) GetLatestOnOrBefore(ctx context.Context, date time.Time) (*domain.RateSnapshot, error) {
	if mock.GetLatestOnOrBeforeFunc == nil {
		panic("rateStoreMock.GetLatestOnOrBeforeFunc: method is nil but rateStore.GetLatestOnOrBefore was just called")
	}
	mock.lockGetLatestOnOrBefore.Lock()
	mock.calls.GetLatestOnOrBefore = append(mock.calls.GetLatestOnOrBefore, struct {
		Ctx  context.Context
		Date time.Time
	}{ctx, date})
	mock.lockGetLatestOnOrBefore.Unlock()
	return mock.GetLatestOnOrBeforeFunc(ctx, date)
}

func (mock *rateStoreMock) GetLatestOnOrBeforeCalls() []struct {
	Ctx  context.Context
	Date time.Time
} {
	mock.lockGetLatestOnOrBefore.RLock()
	defer mock.lockGetLatestOnOrBefore.RUnlock()
	return mock.calls.GetLatestOnOrBefore
}

func (mock *rateStoreMock) ListSince(ctx context.Context, from time.Time) ([]domain.RateSnapshot, error) {
	if mock.ListSinceFunc == nil {
		panic("rateStoreMock.ListSinceFunc: method is nil but rateStore.ListSince was just called")
	}
	mock.lockListSince.Lock()
	mock.calls.ListSince = append(mock.calls.ListSince, struct {
		Ctx  context.Context
		From time.Time
	}{ctx, from})
	mock.lockListSince.Unlock()
	return mock.ListSinceFunc(ctx, from)
}

func (mock *rateStoreMock) ListSinceCalls() []struct {
	Ctx  context.Context
	From time.Time
} {
	mock.lockListSince.RLock()
	defer mock.lockListSince.RUnlock()
	return mock.calls.ListSince
}

func (mock *rateStoreMock) Upsert(ctx context.Context, s domain.RateSnapshot) (bool, error) {
	if mock.UpsertFunc == nil {
		panic("rateStoreMock.UpsertFunc: method is nil but rateStore.Upsert was just called")
	}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, struct {
		Ctx context.Context
		S   domain.RateSnapshot
	}{ctx, s})
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, s)
}

func (mock *rateStoreMock) UpsertCalls() []struct {
	Ctx context.Context
	S   domain.RateSnapshot
} {
	mock.lockUpsert.RLock()
	defer mock.lockUpsert.RUnlock()
	return mock.calls.Upsert
}

var _ liveRateSource = &liveRateSourceMock{}

type liveRateSourceMock struct {
	FetchLatestFunc func(ctx context.Context, base string) (*provider.LiveRates, error)

	calls struct {
		FetchLatest []struct {
			Ctx  context.Context
			Base string
		}
	}
	lockFetchLatest sync.RWMutex
}

func (mock *liveRateSourceMock) FetchLatest(ctx context.Context, base string) (*provider.LiveRates, error) {
	if mock.FetchLatestFunc == nil {
		panic("liveRateSourceMock.FetchLatestFunc: method is nil but liveRateSource.FetchLatest was just called")
	}
	mock.lockFetchLatest.Lock()
	mock.calls.FetchLatest = append(mock.calls.FetchLatest, struct {
		Ctx  context.Context
		Base string
	}{ctx, base})
	mock.lockFetchLatest.Unlock()
	return mock.FetchLatestFunc(ctx, base)
}

func (mock *liveRateSourceMock) FetchLatestCalls() []struct {
	Ctx  context.Context
	Base string
} {
	mock.lockFetchLatest.RLock()
	defer mock.lockFetchLatest.RUnlock()
	return mock.calls.FetchLatest
}
