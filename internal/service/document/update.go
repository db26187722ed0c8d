package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/pkg/ctxutil"
)

// Changed field names recorded in the revision ledger.
const (
	fieldDocumentDate   = "document_date"
	fieldSupplierID     = "supplier_id"
	fieldSupplierName   = "supplier_name"
	fieldStatus         = "status"
	fieldRequiresReview = "requires_review"
	fieldDocumentType   = "document_type"
	fieldExchangeRate   = "exchange_rate"
	fieldConvertedTotal = "converted_total"
)

// manualConfidence marks a value confirmed by a reviewer.
const manualConfidence = 1.0

// Update applies a reviewer correction. The prior state is written to the
// revision ledger first; the document write is a compare-and-swap on the
// version, so a concurrent writer yields ErrConflict instead of a lost update.
// A correction that changes nothing returns the document as-is.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.Document, error) {
	caller, ok := ctxutil.CallerFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		reason = defaultReason
	}

	var (
		updated *domain.Document
		changed []string
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		cur, err := s.documents.GetByID(txCtx, caller.OrgID, input.ID)
		if err != nil {
			return fmt.Errorf("get document: %w", err)
		}
		if !caller.CanAccessOutlet(cur.OutletID) {
			return domain.ErrForbidden
		}
		if input.ExpectedVersion != nil && *input.ExpectedVersion != cur.Version {
			return fmt.Errorf("document %s at version %d, expected %d: %w",
				cur.ID, cur.Version, *input.ExpectedVersion, domain.ErrConflict)
		}

		var next domain.Document
		next, changed, err = s.applyChanges(txCtx, caller, *cur, input.Changes)
		if err != nil {
			return err
		}
		if len(changed) == 0 {
			updated = cur
			return nil
		}

		_, err = s.revisions.Create(txCtx, domain.RevisionEntry{
			DocumentID:    cur.ID,
			OrgID:         cur.OrgID,
			Version:       cur.Version,
			Snapshot:      cur.Snapshot(),
			ChangedFields: changed,
			Actor:         caller.UserID,
			Reason:        reason,
		})
		if errors.Is(err, domain.ErrAlreadyExists) {
			return fmt.Errorf("document %s version %d already revised: %w", cur.ID, cur.Version, domain.ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("create revision: %w", err)
		}

		updated, err = s.documents.UpdateVersioned(txCtx, next, cur.Version)
		if err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(changed) > 0 {
		s.log.InfoContext(ctx, "document updated",
			slog.String("org_id", caller.OrgID.String()),
			slog.String("document_id", updated.ID.String()),
			slog.Int("version", updated.Version),
			slog.String("changed", strings.Join(changed, ",")),
		)
	}

	return updated, nil
}

// applyChanges returns the document with changes applied and the names of
// the fields whose value actually changed.
func (s *Service) applyChanges(ctx context.Context, caller domain.Caller, d domain.Document, c domain.DocumentChanges) (domain.Document, []string, error) {
	var changed []string
	dateChanged := false

	switch {
	case c.ClearDate:
		if d.DocumentDate != nil {
			d.DocumentDate = nil
			d.DocumentDateConfidence = 0
			dateChanged = true
		}
	case c.DocumentDate != nil:
		newDate := domain.DateOf(*c.DocumentDate)
		if d.DocumentDate == nil || !d.DocumentDate.Equal(newDate) {
			d.DocumentDate = &newDate
			d.DocumentDateConfidence = manualConfidence
			dateChanged = true
		}
	}
	if dateChanged {
		changed = append(changed, fieldDocumentDate)
	}

	if c.SupplierID != nil && (d.SupplierID == nil || *d.SupplierID != *c.SupplierID) {
		sup, err := s.suppliers.GetByID(ctx, caller.OrgID, *c.SupplierID)
		if err != nil {
			return d, nil, fmt.Errorf("get supplier: %w", err)
		}
		id := sup.ID
		d.SupplierID = &id
		d.SupplierMatchConfidence = manualConfidence
		changed = append(changed, fieldSupplierID)
		if c.SupplierName == nil && d.SupplierName != sup.Name {
			d.SupplierName = sup.Name
			changed = append(changed, fieldSupplierName)
		}
	}
	if c.SupplierName != nil {
		if name := strings.TrimSpace(*c.SupplierName); name != d.SupplierName {
			d.SupplierName = name
			changed = append(changed, fieldSupplierName)
		}
	}

	if c.DocumentType != nil && *c.DocumentType != d.DocumentType {
		d.DocumentType = *c.DocumentType
		changed = append(changed, fieldDocumentType)
	}

	if c.Status != nil {
		if *c.Status != d.Status {
			d.Status = *c.Status
			changed = append(changed, fieldStatus)
		}
		requiresReview := *c.Status == domain.DocumentStatusNeedsReview
		if requiresReview != d.RequiresReview {
			d.RequiresReview = requiresReview
			changed = append(changed, fieldRequiresReview)
		}
	} else if dateChanged && d.DocumentDate == nil {
		// An undated document always waits for review unless the same change
		// approves it explicitly.
		if d.Status != domain.DocumentStatusNeedsReview {
			d.Status = domain.DocumentStatusNeedsReview
			changed = append(changed, fieldStatus)
		}
		if !d.RequiresReview {
			d.RequiresReview = true
			changed = append(changed, fieldRequiresReview)
		}
	}

	if dateChanged {
		conv, err := s.currency.ConvertToCanonical(ctx, d.TotalAmount, d.Currency, d.ConversionDate(s.now()))
		if err != nil {
			return d, nil, fmt.Errorf("normalize currency: %w", err)
		}
		if !conv.Rate.Equal(d.ExchangeRate) {
			changed = append(changed, fieldExchangeRate)
		}
		if !conv.ConvertedAmount.Equal(d.ConvertedTotal) {
			changed = append(changed, fieldConvertedTotal)
		}
		d.CanonicalCurrency = conv.CanonicalCurrency
		d.ConvertedTotal = conv.ConvertedAmount
		d.ExchangeRate = conv.Rate
		d.RateSource = conv.Source
		d.RateDate = conv.SnapshotDate
		d.RateIsFallback = conv.IsFallback
	}

	return d, changed, nil
}
