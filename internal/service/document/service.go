package document

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type documentRepo interface {
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, filter domain.DocumentFilter) (domain.DocumentPage, error)
	ReviewQueue(ctx context.Context, orgID uuid.UUID, outletIDs []uuid.UUID) ([]domain.Document, error)
	UpdateVersioned(ctx context.Context, d domain.Document, expectedVersion int) (*domain.Document, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type revisionRepo interface {
	Create(ctx context.Context, entry domain.RevisionEntry) (*domain.RevisionEntry, error)
	ListByDocument(ctx context.Context, orgID, documentID uuid.UUID, limit int) ([]domain.RevisionEntry, error)
}

type supplierRepo interface {
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Supplier, error)
}

type currencyConverter interface {
	ConvertToCanonical(ctx context.Context, amount decimal.Decimal, currency string, businessDate time.Time) (domain.Conversion, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements reviewer-facing document operations. Every mutation is
// preceded by a revision entry holding the prior state, in one transaction.
type Service struct {
	log       *slog.Logger
	documents documentRepo
	revisions revisionRepo
	suppliers supplierRepo
	currency  currencyConverter
	tx        txManager
	now       func() time.Time
}

// NewService creates a new document service.
func NewService(
	log *slog.Logger,
	documents documentRepo,
	revisions revisionRepo,
	suppliers supplierRepo,
	currency currencyConverter,
	tx txManager,
) *Service {
	return &Service{
		log:       log.With("service", "document"),
		documents: documents,
		revisions: revisions,
		suppliers: suppliers,
		currency:  currency,
		tx:        tx,
		now:       time.Now,
	}
}
