// Package mockextract is a deterministic extractor used for local development,
// tests and as the fallback when the real extractor is unavailable.
//
// Every value is derived from the content fingerprint, so the same bytes
// always produce the same result.
package mockextract

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/internal/provider"
)

// Name is the processor name used in configuration.
const Name = "mock"

const (
	pdfBaseConfidence   = 0.85
	imageBaseConfidence = 0.72
	confidenceJitter    = 0.15
	minConfidence       = 0.3
	maxConfidence       = 0.99
	dateConfidenceFloor = 0.5
	maxDocumentAgeDays  = 30
)

type sampleSupplier struct {
	name  string
	taxID string
}

var sampleSuppliers = []sampleSupplier{
	{"Metro Cash & Carry", "27AABCU9603R1ZM"},
	{"Reliance Fresh Direct", "27AABCR1718E1ZL"},
	{"BigBasket Wholesale", "29AADCB2230M1ZV"},
	{"Swiggy Settlements", "29AADCS4567P1ZQ"},
	{"Zomato Payments", "27AADCZ8901K1ZR"},
	{"Amazon Business", "29AABCA4321L1ZS"},
	{"Sysco Foods India", "27AABCS6789T1ZP"},
	{"ITC Foods Ltd", "36AABCI1234M1ZK"},
}

type sampleItem struct {
	description string
	maxQty      int
	unitPrice   int64
	category    string
}

var sampleItems = []sampleItem{
	{"Basmati Rice 25kg", 4, 1250, "Grains"},
	{"Cooking Oil 15L", 2, 2100, "Oils"},
	{"Fresh Chicken 10kg", 3, 180, "Meat"},
	{"Onions 50kg", 1, 1500, "Vegetables"},
	{"Tomatoes 25kg", 2, 800, "Vegetables"},
	{"Paneer 5kg", 2, 350, "Dairy"},
	{"Masala Pack Assorted", 1, 450, "Spices"},
	{"Flour Maida 25kg", 2, 850, "Grains"},
	{"Gas Cylinder", 1, 1100, "Utilities"},
	{"Napkins & Tissue Box", 5, 120, "Supplies"},
	{"Aggregator Commission", 1, 3500, "Commissions"},
	{"Daily Revenue Collection", 1, 25000, "Revenue"},
}

var (
	documentTypes = []domain.DocumentType{
		domain.DocumentTypePurchaseInvoice,
		domain.DocumentTypeSalesReceipt,
		domain.DocumentTypeAggregatorStatement,
		domain.DocumentTypeExpenseBill,
		domain.DocumentTypeUtilityBill,
	}
	taxRates   = []string{"0.05", "0.12", "0.18"}
	currencies = []string{"INR", "INR", "INR", "USD", "AED"}
)

// Extractor produces plausible, reproducible extraction results without
// looking at the document contents.
type Extractor struct {
	now func() time.Time
}

// New creates an Extractor using the wall clock for business dates.
func New() *Extractor {
	return &Extractor{now: time.Now}
}

// NewWithClock creates an Extractor with a fixed clock (for testing).
func NewWithClock(now func() time.Time) *Extractor {
	return &Extractor{now: now}
}

// Name returns the processor name.
func (e *Extractor) Name() string { return Name }

// Extract never fails.
func (e *Extractor) Extract(_ context.Context, req provider.ExtractionRequest) (*provider.ExtractionResult, error) {
	rng := newRand(req)

	base := imageBaseConfidence
	if isPDF(req) {
		base = pdfBaseConfidence
	}
	confidence := clamp(base+(rng.Float64()*2-1)*confidenceJitter, minConfidence, maxConfidence)

	method := "document_ai"
	if confidence < domain.ReviewConfidenceThreshold {
		// Simulated OCR second pass on blurry input.
		confidence = math.Min(maxConfidence, confidence+0.05+rng.Float64()*0.10)
		method = "vision_api_fallback"
	}

	supplier := sampleSuppliers[rng.IntN(len(sampleSuppliers))]
	docType := documentTypes[rng.IntN(len(documentTypes))]

	count := 1 + rng.IntN(5)
	perm := rng.Perm(len(sampleItems))[:count]
	items := make([]domain.LineItem, 0, count)
	subtotal := decimal.Zero
	for _, idx := range perm {
		s := sampleItems[idx]
		qty := decimal.NewFromInt(int64(1 + rng.IntN(s.maxQty)))
		price := decimal.NewFromInt(s.unitPrice)
		amount := domain.RoundMoney(qty.Mul(price))
		subtotal = subtotal.Add(amount)
		items = append(items, domain.LineItem{
			Description: s.description,
			Quantity:    qty,
			UnitPrice:   price,
			Amount:      amount,
			Category:    s.category,
		})
	}

	taxRate := decimal.RequireFromString(taxRates[rng.IntN(len(taxRates))])
	taxAmount := domain.RoundMoney(subtotal.Mul(taxRate))
	total := domain.RoundMoney(subtotal.Add(taxAmount))
	currency := currencies[rng.IntN(len(currencies))]

	var (
		docDate  *time.Time
		dateConf float64
	)
	if confidence >= dateConfidenceFloor {
		d := domain.DateOf(e.now()).AddDate(0, 0, -rng.IntN(maxDocumentAgeDays+1))
		docDate = &d
		dateConf = clamp(confidence+(rng.Float64()*2-1)*0.1, minConfidence, maxConfidence)
	}

	return &provider.ExtractionResult{
		DocumentType:           docType,
		SupplierName:           supplier.name,
		SupplierTaxID:          supplier.taxID,
		InvoiceNumber:          fmt.Sprintf("INV-%05d", 10000+rng.IntN(90000)),
		DocumentDate:           docDate,
		DocumentDateConfidence: round3(dateConf),
		LineItems:              items,
		Subtotal:               subtotal,
		TaxRate:                taxRate,
		TaxAmount:              taxAmount,
		TotalAmount:            total,
		Currency:               currency,
		Confidence:             round3(confidence),
		Provider:               Name,
		Method:                 method,
		RawOCRText:             fmt.Sprintf("Invoice from %s... Total: %s %s", supplier.name, currency, total.StringFixed(2)),
	}, nil
}

func newRand(req provider.ExtractionRequest) *rand.Rand {
	seed, err := hex.DecodeString(req.Fingerprint)
	if err != nil || len(seed) < 16 {
		sum := sha256.Sum256(req.Content)
		seed = sum[:]
	}
	return rand.New(rand.NewPCG(binary.BigEndian.Uint64(seed[:8]), binary.BigEndian.Uint64(seed[8:16])))
}

func isPDF(req provider.ExtractionRequest) bool {
	return req.MimeType == "application/pdf" || strings.HasSuffix(strings.ToLower(req.Filename), ".pdf")
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
