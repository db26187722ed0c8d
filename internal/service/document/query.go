package document

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/pkg/ctxutil"
)

// Get returns one document of the caller's org.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	caller, ok := ctxutil.CallerFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	d, err := s.documents.GetByID(ctx, caller.OrgID, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if !caller.CanAccessOutlet(d.OutletID) {
		return nil, domain.ErrForbidden
	}
	return d, nil
}

// List returns a page of documents from the outlets the caller can see.
func (s *Service) List(ctx context.Context, input ListInput) (domain.DocumentPage, error) {
	caller, ok := ctxutil.CallerFromCtx(ctx)
	if !ok {
		return domain.DocumentPage{}, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return domain.DocumentPage{}, err
	}

	outlets := caller.VisibleOutlets()
	if input.OutletID != nil {
		if !caller.CanAccessOutlet(*input.OutletID) {
			return domain.DocumentPage{}, domain.ErrForbidden
		}
		outlets = []uuid.UUID{*input.OutletID}
	}

	limit := input.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	page, err := s.documents.List(ctx, domain.DocumentFilter{
		OrgID:        caller.OrgID,
		OutletIDs:    outlets,
		Status:       input.Status,
		DocumentType: input.DocumentType,
		SupplierName: strings.TrimSpace(input.SupplierName),
		DateFrom:     input.DateFrom,
		DateTo:       input.DateTo,
		Search:       strings.TrimSpace(input.Search),
		Limit:        limit,
		Offset:       input.Offset,
	})
	if err != nil {
		return domain.DocumentPage{}, fmt.Errorf("list documents: %w", err)
	}
	return page, nil
}

// ReviewQueue returns the documents awaiting review, newest upload first.
func (s *Service) ReviewQueue(ctx context.Context) ([]domain.Document, error) {
	caller, ok := ctxutil.CallerFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	docs, err := s.documents.ReviewQueue(ctx, caller.OrgID, caller.VisibleOutlets())
	if err != nil {
		return nil, fmt.Errorf("review queue: %w", err)
	}
	return docs, nil
}

// ListRevisions returns the revision ledger of a document, newest first.
// Org-wide roles can still read the ledger of a deleted document.
func (s *Service) ListRevisions(ctx context.Context, documentID uuid.UUID, limit int) ([]domain.RevisionEntry, error) {
	caller, ok := ctxutil.CallerFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	d, err := s.documents.GetByID(ctx, caller.OrgID, documentID)
	switch {
	case err == nil:
		if !caller.CanAccessOutlet(d.OutletID) {
			return nil, domain.ErrForbidden
		}
	case errors.Is(err, domain.ErrNotFound) && caller.IsOrgWide():
	default:
		return nil, fmt.Errorf("get document: %w", err)
	}

	entries, err := s.revisions.ListByDocument(ctx, caller.OrgID, documentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	return entries, nil
}
