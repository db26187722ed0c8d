package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateSnapshot holds the rates of one day, each expressed as units of the
// currency per one unit of BaseCurrency (the pivot).
type RateSnapshot struct {
	ID              uuid.UUID
	Date            time.Time
	BaseCurrency    string
	Rates           map[string]decimal.Decimal
	IsFallback      bool
	FallbackVersion string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CrossRate derives the rate converting one unit of currency into canonical,
// going through the pivot: rates[canonical] / rates[currency].
func (s RateSnapshot) CrossRate(currency, canonical string) (decimal.Decimal, bool) {
	return CrossRate(s.Rates, currency, canonical)
}

// CrossRate is RateSnapshot.CrossRate over a bare pivot-relative table.
func CrossRate(rates map[string]decimal.Decimal, currency, canonical string) (decimal.Decimal, bool) {
	from, ok := rates[currency]
	if !ok || !from.IsPositive() {
		return decimal.Zero, false
	}
	to, ok := rates[canonical]
	if !ok || !to.IsPositive() {
		return decimal.Zero, false
	}
	return RoundRate(to.Div(from)), true
}

// RateQuote is the answer to "what rate converts currency into canonical on a date".
type RateQuote struct {
	Currency     string
	Rate         decimal.Decimal
	Source       RateSource
	SnapshotDate *time.Time
	IsFallback   bool
}

// Conversion is a normalized amount together with the quote that produced it.
type Conversion struct {
	OriginalAmount    decimal.Decimal
	Currency          string
	ConvertedAmount   decimal.Decimal
	CanonicalCurrency string
	RateQuote
}
