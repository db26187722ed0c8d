package supplier

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

type supplierRepo interface {
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.Supplier, error)
	GetByTaxID(ctx context.Context, orgID uuid.UUID, taxID string) (*domain.Supplier, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID, search string, limit, offset int) ([]domain.Supplier, error)
	Create(ctx context.Context, s domain.Supplier) (*domain.Supplier, error)
	Update(ctx context.Context, s domain.Supplier) (*domain.Supplier, error)
}

// Config tunes duplicate detection.
type Config struct {
	BlockThreshold float64
	WarnThreshold  float64
	MaxCandidates  int
}

// Service resolves extracted suppliers and manages the org supplier list.
type Service struct {
	suppliers supplierRepo
	cfg       Config
	log       *slog.Logger
}

// NewService creates a new Supplier service.
func NewService(
	log *slog.Logger,
	suppliers supplierRepo,
	cfg Config,
) *Service {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = 10
	}
	return &Service{
		suppliers: suppliers,
		cfg:       cfg,
		log:       log.With("service", "supplier"),
	}
}

func canManageSuppliers(c domain.Caller) bool {
	return c.Role == domain.RoleOwner || c.Role == domain.RoleAccounts
}
