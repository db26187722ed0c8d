package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Country codes with dedicated tax-id rules.
const (
	CountryIndia     = "IN"
	CountryUAE       = "AE"
	CountrySingapore = "SG"
)

var countryAliases = map[string]string{
	"IN": CountryIndia, "IND": CountryIndia, "INDIA": CountryIndia,
	"AE": CountryUAE, "ARE": CountryUAE, "UAE": CountryUAE, "UNITED ARAB EMIRATES": CountryUAE,
	"SG": CountrySingapore, "SGP": CountrySingapore, "SINGAPORE": CountrySingapore,
}

// NormalizeCountry maps common spellings to a country code. Unknown values
// are upper-cased and returned as-is; empty input means India.
func NormalizeCountry(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return CountryIndia
	}
	if code, ok := countryAliases[s]; ok {
		return code
	}
	return s
}

// Supplier is an org-scoped counterparty identity.
type Supplier struct {
	ID         uuid.UUID
	OrgID      uuid.UUID
	Name       string
	TaxID      string
	Category   string
	Country    string
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SupplierUpdateParams carries a partial supplier update. nil = unchanged.
type SupplierUpdateParams struct {
	Name       *string
	TaxID      *string
	Category   *string
	Country    *string
	IsVerified *bool
}
