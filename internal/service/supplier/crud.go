package supplier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/pkg/ctxutil"
)

const defaultCategory = "General"

// WriteResult is a created or updated supplier plus advisory warnings about
// similarly named suppliers.
type WriteResult struct {
	Supplier *domain.Supplier
	Warnings []Candidate
}

// Create adds a supplier to the caller's org. A tax id already used in the
// org, or a near-identical name without AllowSimilar, is a conflict.
func (s *Service) Create(ctx context.Context, input CreateInput) (*WriteResult, error) {
	caller, ok := ctxutil.CallerFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !canManageSuppliers(caller) {
		return nil, domain.ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	sup := domain.Supplier{
		ID:       uuid.New(),
		OrgID:    caller.OrgID,
		Name:     strings.TrimSpace(input.Name),
		Category: strings.TrimSpace(input.Category),
		Country:  domain.NormalizeCountry(input.Country),
	}
	if sup.Category == "" {
		sup.Category = defaultCategory
	}
	if strings.TrimSpace(input.TaxID) != "" {
		sup.TaxID = ValidateTaxID(input.TaxID, sup.Country).Formatted
		sup.IsVerified = true
	}

	if err := s.ensureTaxIDFree(ctx, caller.OrgID, sup.TaxID, uuid.Nil); err != nil {
		return nil, err
	}

	known, err := s.suppliers.ListByOrg(ctx, caller.OrgID, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	warnings := rankCandidates(sup.Name, known, uuid.Nil, s.cfg.WarnThreshold, s.cfg.MaxCandidates)
	if !input.AllowSimilar && len(warnings) > 0 && warnings[0].Similarity >= s.cfg.BlockThreshold {
		return nil, fmt.Errorf("supplier %q resembles %q: %w", sup.Name, warnings[0].Name, domain.ErrConflict)
	}

	created, err := s.suppliers.Create(ctx, sup)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("supplier tax id %s: %w", sup.TaxID, domain.ErrConflict)
		}
		return nil, fmt.Errorf("create supplier: %w", err)
	}

	s.log.InfoContext(ctx, "supplier created",
		slog.String("org_id", caller.OrgID.String()),
		slog.String("supplier_id", created.ID.String()),
		slog.Bool("verified", created.IsVerified),
		slog.Int("warnings", len(warnings)),
	)

	return &WriteResult{Supplier: created, Warnings: warnings}, nil
}

// Update applies a partial update to a supplier of the caller's org.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*WriteResult, error) {
	caller, ok := ctxutil.CallerFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !canManageSuppliers(caller) {
		return nil, domain.ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	sup, err := s.suppliers.GetByID(ctx, caller.OrgID, input.ID)
	if err != nil {
		return nil, fmt.Errorf("get supplier: %w", err)
	}

	var warnings []Candidate
	if input.Name != nil {
		sup.Name = strings.TrimSpace(*input.Name)
		known, err := s.suppliers.ListByOrg(ctx, caller.OrgID, "", 0, 0)
		if err != nil {
			return nil, fmt.Errorf("list suppliers: %w", err)
		}
		warnings = rankCandidates(sup.Name, known, sup.ID, s.cfg.WarnThreshold, s.cfg.MaxCandidates)
	}
	if input.Category != nil {
		sup.Category = strings.TrimSpace(*input.Category)
	}
	if input.Country != nil {
		sup.Country = domain.NormalizeCountry(*input.Country)
	}

	if input.TaxID != nil || input.Country != nil {
		taxID := sup.TaxID
		if input.TaxID != nil {
			taxID = *input.TaxID
		}
		if errs := validateTaxIDField(taxID, sup.Country); len(errs) > 0 {
			return nil, &domain.ValidationError{Errors: errs}
		}
		if strings.TrimSpace(taxID) == "" {
			sup.TaxID = ""
			sup.IsVerified = false
		} else {
			sup.TaxID = ValidateTaxID(taxID, sup.Country).Formatted
			sup.IsVerified = true
		}
		if err := s.ensureTaxIDFree(ctx, caller.OrgID, sup.TaxID, sup.ID); err != nil {
			return nil, err
		}
	}
	if input.IsVerified != nil {
		sup.IsVerified = *input.IsVerified
	}

	updated, err := s.suppliers.Update(ctx, *sup)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("supplier tax id %s: %w", sup.TaxID, domain.ErrConflict)
		}
		return nil, fmt.Errorf("update supplier: %w", err)
	}

	s.log.InfoContext(ctx, "supplier updated",
		slog.String("org_id", caller.OrgID.String()),
		slog.String("supplier_id", updated.ID.String()),
	)

	return &WriteResult{Supplier: updated, Warnings: warnings}, nil
}

// Get returns a supplier of the caller's org.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	caller, ok := ctxutil.CallerFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	sup, err := s.suppliers.GetByID(ctx, caller.OrgID, id)
	if err != nil {
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return sup, nil
}

// List returns suppliers of the caller's org ordered by name.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.Supplier, error) {
	caller, ok := ctxutil.CallerFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	limit := input.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	list, err := s.suppliers.ListByOrg(ctx, caller.OrgID, input.Search, limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return list, nil
}

// ensureTaxIDFree fails with ErrConflict when taxID already belongs to a
// supplier of orgID other than self.
func (s *Service) ensureTaxIDFree(ctx context.Context, orgID uuid.UUID, taxID string, self uuid.UUID) error {
	if taxID == "" {
		return nil
	}
	existing, err := s.suppliers.GetByTaxID(ctx, orgID, taxID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("get supplier by tax id: %w", err)
	case existing.ID != self:
		return fmt.Errorf("tax id %s already used by supplier %q: %w", taxID, existing.Name, domain.ErrConflict)
	}
	return nil
}
