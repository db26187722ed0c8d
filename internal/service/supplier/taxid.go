package supplier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

var (
	// 2-digit state code, 10-char PAN, entity code, 'Z', check character.
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][0-9A-Z]Z[0-9A-Z]$`)
	trnPattern   = regexp.MustCompile(`^[0-9]{15}$`)
	uenPattern   = regexp.MustCompile(`^[A-Z0-9]{10}$`)
)

const (
	minStateCode = 1
	maxStateCode = 38
)

// TaxIDValidation is the outcome of a tax id format check.
type TaxIDValidation struct {
	Valid     bool
	Country   string
	Formatted string
	StateCode int
	Error     string
}

type taxIDValidator func(taxID string) TaxIDValidation

var taxIDValidators = map[string]taxIDValidator{
	domain.CountryIndia:     validateGSTIN,
	domain.CountryUAE:       patternValidator(trnPattern, "UAE TRN must be 15 digits"),
	domain.CountrySingapore: patternValidator(uenPattern, "Singapore GST number must be 10 alphanumeric characters"),
}

// ValidateTaxID checks a tax id against the rules of country. India takes the
// raw value as-is (GSTINs are upper case); other countries are normalized to
// upper case first. Unknown countries accept any non-empty value.
func ValidateTaxID(taxID, country string) TaxIDValidation {
	country = domain.NormalizeCountry(country)
	taxID = strings.TrimSpace(taxID)

	if taxID == "" {
		return TaxIDValidation{Country: country, Error: "tax id is required"}
	}

	v, ok := taxIDValidators[country]
	if !ok {
		return TaxIDValidation{Valid: true, Country: country, Formatted: strings.ToUpper(taxID)}
	}
	res := v(taxID)
	res.Country = country
	return res
}

func validateGSTIN(taxID string) TaxIDValidation {
	if !gstinPattern.MatchString(taxID) {
		return TaxIDValidation{Formatted: taxID, Error: "invalid GSTIN format, expected e.g. 27AABCU9603R1ZM"}
	}
	code, _ := strconv.Atoi(taxID[:2])
	if code < minStateCode || code > maxStateCode {
		return TaxIDValidation{Formatted: taxID, Error: fmt.Sprintf("invalid GSTIN state code %02d", code)}
	}
	return TaxIDValidation{Valid: true, Formatted: taxID, StateCode: code}
}

func patternValidator(re *regexp.Regexp, msg string) taxIDValidator {
	return func(taxID string) TaxIDValidation {
		formatted := strings.ToUpper(taxID)
		if !re.MatchString(formatted) {
			return TaxIDValidation{Formatted: formatted, Error: msg}
		}
		return TaxIDValidation{Valid: true, Formatted: formatted}
	}
}

// taxIDRequired reports whether country requires a tax id on suppliers.
func taxIDRequired(country string) bool {
	return domain.NormalizeCountry(country) == domain.CountryIndia
}
