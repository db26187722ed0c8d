package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReviewConfidenceThreshold is the confidence below which a document is routed
// to manual review.
const ReviewConfidenceThreshold = 0.6

// BusinessDateLayout is the ISO layout of a business date.
const BusinessDateLayout = "2006-01-02"

// Document is one ingested financial record. It is serialized into revision
// snapshots, hence the JSON tags.
type Document struct {
	ID                 uuid.UUID `json:"id"`
	OrgID              uuid.UUID `json:"org_id"`
	OutletID           uuid.UUID `json:"outlet_id"`
	UploadedBy         uuid.UUID `json:"uploaded_by"`
	Filename           string    `json:"filename"`
	MimeType           string    `json:"mime_type"`
	FileSize           int64     `json:"file_size"`
	StoragePath        string    `json:"storage_path"`
	ContentFingerprint string    `json:"content_fingerprint"`

	DocumentType           DocumentType   `json:"document_type"`
	DocumentDate           *time.Time     `json:"document_date"`
	DocumentDateConfidence float64        `json:"document_date_confidence"`
	ExtractionConfidence   float64        `json:"extraction_confidence"`
	Status                 DocumentStatus `json:"status"`
	RequiresReview         bool           `json:"requires_review"`

	SupplierID              *uuid.UUID  `json:"supplier_id"`
	SupplierName            string      `json:"supplier_name"`
	SupplierTaxID           string      `json:"supplier_tax_id"`
	SupplierMatchConfidence float64     `json:"supplier_match_confidence"`
	SupplierMatchMethod     MatchMethod `json:"supplier_match_method"`
	InvoiceNumber           string      `json:"invoice_number"`
	LineItems               []LineItem  `json:"line_items"`

	Currency          string          `json:"currency"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	AmountsReconciled bool            `json:"amounts_reconciled"`
	CanonicalCurrency string          `json:"canonical_currency"`
	ConvertedTotal    decimal.Decimal `json:"converted_total"`
	ExchangeRate      decimal.Decimal `json:"exchange_rate"`
	RateSource        RateSource      `json:"rate_source"`
	RateDate          *time.Time      `json:"rate_date"`
	RateIsFallback    bool            `json:"rate_is_fallback"`

	ExtractionProvider string `json:"extraction_provider"`
	ExtractionMethod   string `json:"extraction_method"`
	ExtractionRetries  int    `json:"extraction_retries"`
	ExtractionDegraded bool   `json:"extraction_degraded"`
	ExtractionError    string `json:"extraction_error,omitempty"`
	RawOCRText         string `json:"raw_ocr_text,omitempty"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineItem is one row of an extracted document.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
}

// NeedsReview reports whether a document with these extraction figures must be
// reviewed by a human.
func NeedsReview(documentDate *time.Time, extractionConfidence, dateConfidence float64) bool {
	return documentDate == nil ||
		extractionConfidence < ReviewConfidenceThreshold ||
		dateConfidence < ReviewConfidenceThreshold
}

// ApplyReviewRouting derives Status and RequiresReview from the confidences.
func (d *Document) ApplyReviewRouting() {
	d.RequiresReview = NeedsReview(d.DocumentDate, d.ExtractionConfidence, d.DocumentDateConfidence)
	if d.RequiresReview {
		d.Status = DocumentStatusNeedsReview
	} else {
		d.Status = DocumentStatusProcessed
	}
}

// Snapshot returns a deep copy of the full document for the revision ledger.
func (d Document) Snapshot() Document {
	s := d
	s.LineItems = slices.Clone(d.LineItems)
	if d.DocumentDate != nil {
		v := *d.DocumentDate
		s.DocumentDate = &v
	}
	if d.SupplierID != nil {
		v := *d.SupplierID
		s.SupplierID = &v
	}
	if d.RateDate != nil {
		v := *d.RateDate
		s.RateDate = &v
	}
	return s
}

// ConversionDate is the date used for currency normalization: the business
// date when known, otherwise today (UTC).
func (d Document) ConversionDate(now time.Time) time.Time {
	if d.DocumentDate != nil {
		return *d.DocumentDate
	}
	return DateOf(now)
}

// DateOf truncates t to a UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, day := t.UTC().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// ParseBusinessDate parses an ISO date. Empty input yields nil.
func ParseBusinessDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil, nil
	}
	t, err := time.Parse(BusinessDateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("parse business date %q: %w", s, err)
	}
	return &t, nil
}

// DocumentChanges is the set of fields a reviewer may correct.
// nil means "leave unchanged".
type DocumentChanges struct {
	DocumentDate *time.Time
	ClearDate    bool
	SupplierID   *uuid.UUID
	SupplierName *string
	Status       *DocumentStatus
	DocumentType *DocumentType
}

// IsEmpty reports whether no field is set.
func (c DocumentChanges) IsEmpty() bool {
	return c.DocumentDate == nil && !c.ClearDate && c.SupplierID == nil &&
		c.SupplierName == nil && c.Status == nil && c.DocumentType == nil
}

// DocumentFilter selects documents for listing. Zero values mean "no filter".
type DocumentFilter struct {
	OrgID        uuid.UUID
	OutletIDs    []uuid.UUID
	Status       *DocumentStatus
	DocumentType *DocumentType
	SupplierName string
	DateFrom     *time.Time
	DateTo       *time.Time
	Search       string
	Limit        int
	Offset       int
}

// DocumentPage is one page of a document listing.
type DocumentPage struct {
	Documents []Document
	Total     int
}
