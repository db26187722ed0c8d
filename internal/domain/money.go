package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency codes with a fixed role in normalization.
const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"
)

// SupportedCurrencies lists the currencies kept from live rate feeds.
var SupportedCurrencies = []string{"USD", "INR", "AED", "GBP", "EUR", "SGD", "THB", "MYR", "SAR", "QAR"}

// AmountTolerance is the rounding slack allowed between subtotal+tax and total.
var AmountTolerance = decimal.New(1, -2)

const (
	moneyPlaces = 2
	ratePlaces  = 4
)

// NormalizeCurrency upper-cases and trims an ISO currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsSupportedCurrency reports whether code is in SupportedCurrencies.
func IsSupportedCurrency(code string) bool {
	code = NormalizeCurrency(code)
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// RoundMoney rounds an amount to 2 decimal places (half away from zero).
func RoundMoney(d decimal.Decimal) decimal.Decimal { return d.Round(moneyPlaces) }

// RoundRate rounds an exchange rate to 4 decimal places.
func RoundRate(d decimal.Decimal) decimal.Decimal { return d.Round(ratePlaces) }

// ReconcileAmounts makes total == subtotal + tax hold within AmountTolerance.
// The printed total wins: subtotal is re-derived from it. A zero total with a
// non-zero subtotal is treated as missing and recomputed instead. The returned
// flag reports whether any figure was changed.
func ReconcileAmounts(subtotal, tax, total decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal, bool) {
	subtotal, tax, total = RoundMoney(subtotal), RoundMoney(tax), RoundMoney(total)

	if subtotal.Add(tax).Sub(total).Abs().LessThanOrEqual(AmountTolerance) {
		return subtotal, tax, total, false
	}

	if total.IsZero() {
		return subtotal, tax, subtotal.Add(tax), true
	}
	return total.Sub(tax), tax, total, true
}
