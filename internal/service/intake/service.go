package intake

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/internal/provider"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/supplier"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

// Extractor turns raw document bytes into an ExtractionResult.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, req provider.ExtractionRequest) (*provider.ExtractionResult, error)
}

type blobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Move(ctx context.Context, from, to string) error
	Delete(ctx context.Context, key string) error
}

type documentRepo interface {
	GetByFingerprint(ctx context.Context, orgID, outletID uuid.UUID, fingerprint string) (*domain.Document, error)
	Create(ctx context.Context, d domain.Document) (*domain.Document, error)
}

type supplierResolver interface {
	Resolve(ctx context.Context, orgID uuid.UUID, name, taxID string) (supplier.MatchResult, error)
}

type currencyConverter interface {
	Canonical() string
	ConvertToCanonical(ctx context.Context, amount decimal.Decimal, currency string, businessDate time.Time) (domain.Conversion, error)
}

type notificationRepo interface {
	Create(ctx context.Context, n domain.Notification) (*domain.Notification, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

const defaultExtractionTimeout = 60 * time.Second

// Config holds intake tuning knobs.
type Config struct {
	ExtractionTimeout time.Duration
	MaxUploadBytes    int64
	// Available lists the processor names the deployment can be configured with.
	Available []string
}

// Service runs the intake pipeline: fingerprint, store, extract, resolve,
// normalize, persist, notify.
type Service struct {
	log           *slog.Logger
	primary       Extractor
	fallback      Extractor
	blobs         blobStore
	documents     documentRepo
	suppliers     supplierResolver
	currency      currencyConverter
	notifications notificationRepo
	cfg           Config
	now           func() time.Time
}

// NewService creates a new intake service. fallback must be an extractor
// that does not fail (the deterministic mock).
func NewService(
	log *slog.Logger,
	primary Extractor,
	fallback Extractor,
	blobs blobStore,
	documents documentRepo,
	suppliers supplierResolver,
	currency currencyConverter,
	notifications notificationRepo,
	cfg Config,
) *Service {
	if cfg.ExtractionTimeout <= 0 {
		cfg.ExtractionTimeout = defaultExtractionTimeout
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	return &Service{
		log:           log.With("service", "intake"),
		primary:       primary,
		fallback:      fallback,
		blobs:         blobs,
		documents:     documents,
		suppliers:     suppliers,
		currency:      currency,
		notifications: notifications,
		cfg:           cfg,
		now:           time.Now,
	}
}

// ProcessorInfo describes the configured extraction processors.
type ProcessorInfo struct {
	Active    string
	Fallback  string
	Available []string
}

// Processors reports the active and fallback extractors.
func (s *Service) Processors() ProcessorInfo {
	return ProcessorInfo{
		Active:    s.primary.Name(),
		Fallback:  s.fallback.Name(),
		Available: s.cfg.Available,
	}
}
