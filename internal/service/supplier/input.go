package supplier

import (
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

const (
	minNameLen     = 2
	maxNameLen     = 200
	maxCategoryLen = 100
	defaultLimit   = 50
	maxLimit       = 200
)

// CreateInput holds the parameters for creating a supplier.
type CreateInput struct {
	Name     string
	TaxID    string
	Category string
	Country  string
	// AllowSimilar creates the supplier even when a near-identical name exists.
	AllowSimilar bool
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError
	errs = append(errs, validateName(i.Name)...)
	if len(strings.TrimSpace(i.Category)) > maxCategoryLen {
		errs = append(errs, domain.FieldError{Field: "category", Message: "max 100 characters"})
	}
	errs = append(errs, validateTaxIDField(i.TaxID, i.Country)...)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateInput holds a partial supplier update.
type UpdateInput struct {
	ID uuid.UUID
	domain.SupplierUpdateParams
}

// Validate checks the fields that are present.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError
	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.Name != nil {
		errs = append(errs, validateName(*i.Name)...)
	}
	if i.Category != nil && len(strings.TrimSpace(*i.Category)) > maxCategoryLen {
		errs = append(errs, domain.FieldError{Field: "category", Message: "max 100 characters"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListInput holds the parameters for listing suppliers.
type ListInput struct {
	Search string
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if i.Limit > maxLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "max 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CheckDuplicateInput holds a proposed supplier name.
type CheckDuplicateInput struct {
	Name string
	// ExcludeID skips the supplier being renamed.
	ExcludeID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i CheckDuplicateInput) Validate() error {
	if errs := validateName(i.Name); len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateName(name string) []domain.FieldError {
	n := strings.TrimSpace(name)
	switch {
	case len(n) < minNameLen:
		return []domain.FieldError{{Field: "name", Message: "at least 2 characters"}}
	case len(n) > maxNameLen:
		return []domain.FieldError{{Field: "name", Message: "max 200 characters"}}
	}
	return nil
}

func validateTaxIDField(taxID, country string) []domain.FieldError {
	if strings.TrimSpace(taxID) == "" {
		if taxIDRequired(country) {
			return []domain.FieldError{{Field: "tax_id", Message: "required"}}
		}
		return nil
	}
	if res := ValidateTaxID(taxID, country); !res.Valid {
		return []domain.FieldError{{Field: "tax_id", Message: res.Error}}
	}
	return nil
}
