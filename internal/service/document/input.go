package document

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

const (
	defaultReason   = "Manual correction"
	maxReasonLen    = 500
	maxSupplierName = 200
	defaultLimit    = 50
	maxLimit        = 200
	maxBulkIDs      = 100
)

// UpdateInput is a reviewer correction to one document.
type UpdateInput struct {
	ID      uuid.UUID
	Changes domain.DocumentChanges
	Reason  string
	// ExpectedVersion, when set, must equal the stored version.
	ExpectedVersion *int
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.Changes.IsEmpty() {
		errs = append(errs, domain.FieldError{Field: "changes", Message: "at least one field must change"})
	}
	if i.Changes.ClearDate && i.Changes.DocumentDate != nil {
		errs = append(errs, domain.FieldError{Field: "document_date", Message: "cannot both set and clear"})
	}
	if i.Changes.Status != nil && !i.Changes.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "invalid value"})
	}
	if i.Changes.DocumentType != nil && !i.Changes.DocumentType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "document_type", Message: "invalid value"})
	}
	if i.Changes.SupplierName != nil && len(strings.TrimSpace(*i.Changes.SupplierName)) > maxSupplierName {
		errs = append(errs, domain.FieldError{Field: "supplier_name", Message: "max 200 characters"})
	}
	if len(i.Reason) > maxReasonLen {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "max 500 characters"})
	}
	if i.ExpectedVersion != nil && *i.ExpectedVersion < 1 {
		errs = append(errs, domain.FieldError{Field: "expected_version", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListInput selects documents visible to the caller.
type ListInput struct {
	OutletID     *uuid.UUID
	Status       *domain.DocumentStatus
	DocumentType *domain.DocumentType
	SupplierName string
	DateFrom     *time.Time
	DateTo       *time.Time
	Search       string
	Limit        int
	Offset       int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError

	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "invalid value"})
	}
	if i.DocumentType != nil && *i.DocumentType != domain.DocumentTypeUnknown && !i.DocumentType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "document_type", Message: "invalid value"})
	}
	if i.DateFrom != nil && i.DateTo != nil && i.DateFrom.After(*i.DateTo) {
		errs = append(errs, domain.FieldError{Field: "date_from", Message: "must not be after date_to"})
	}
	if i.Limit < 0 || i.Limit > maxLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// BulkInput applies one action to several documents.
type BulkInput struct {
	Action domain.BulkAction
	IDs    []uuid.UUID
	Reason string
}

// Validate checks all fields and collects all errors.
func (i BulkInput) Validate() error {
	var errs []domain.FieldError

	if !i.Action.IsValid() {
		errs = append(errs, domain.FieldError{Field: "action", Message: "must be approve, flag_review or delete"})
	}
	switch {
	case len(i.IDs) == 0:
		errs = append(errs, domain.FieldError{Field: "document_ids", Message: "required"})
	case len(i.IDs) > maxBulkIDs:
		errs = append(errs, domain.FieldError{Field: "document_ids", Message: "max 100 documents"})
	}
	if len(i.Reason) > maxReasonLen {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "max 500 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
