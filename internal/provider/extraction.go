package provider

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

// ExtractionRequest is the input handed to every extractor.
type ExtractionRequest struct {
	Content     []byte
	Filename    string
	MimeType    string
	Fingerprint string // hex sha256 of Content
}

// ExtractionResult is the extractor-neutral output contract. An extractor that
// cannot read a document still returns a result: Error is set and the
// numeric fields are left zero so the record can be completed by hand.
type ExtractionResult struct {
	DocumentType           domain.DocumentType
	SupplierName           string
	SupplierTaxID          string
	InvoiceNumber          string
	DocumentDate           *time.Time
	DocumentDateConfidence float64
	LineItems              []domain.LineItem

	Subtotal    decimal.Decimal
	TaxRate     decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
	Currency    string

	Confidence  float64
	Provider    string
	Method      string
	RawOCRText  string
	Error       string
	RetriesUsed int
}

// Failed reports whether the extractor gave up on the document.
func (r ExtractionResult) Failed() bool { return r.Error != "" }

// LiveRates is a pivot-relative rate table fetched from an external source.
type LiveRates struct {
	Base      string
	Rates     map[string]decimal.Decimal
	FetchedAt time.Time
}
