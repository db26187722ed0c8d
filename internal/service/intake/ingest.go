package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/internal/provider"
	"github.com/heartmarshall/ledgerlens-backend/pkg/ctxutil"
)

// State is a step of one intake attempt.
type State string

const (
	StateReceived            State = "received"
	StateFingerprinted       State = "fingerprinted"
	StateDuplicate           State = "duplicate"
	StateExtracting          State = "extracting"
	StateExtracted           State = "extracted"
	StateResolvingSupplier   State = "resolving_supplier"
	StateNormalizingCurrency State = "normalizing_currency"
	StatePersisted           State = "persisted"
	StateNeedsReview         State = "needs_review"
	StateProcessed           State = "processed"
)

// Summary condenses how a document was produced.
type Summary struct {
	Confidence         float64
	Method             string
	Provider           string
	RequiresReview     bool
	SupplierMatched    bool
	RetriesUsed        int
	ExtractionDegraded bool
	RateDegraded       bool
}

// Outcome is the result of Ingest. Duplicate outcomes reference the document
// that already holds the same content.
type Outcome struct {
	Document  *domain.Document
	Duplicate bool
	States    []State
	Summary   Summary
}

func (o *Outcome) advance(st State) { o.States = append(o.States, st) }

// Ingest turns an uploaded file into a persisted Document. Re-uploading the
// same bytes to the same outlet returns the existing document.
func (s *Service) Ingest(ctx context.Context, input IngestInput) (*Outcome, error) {
	caller, ok := ctxutil.CallerFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !caller.CanAccessOutlet(input.OutletID) {
		return nil, domain.ErrForbidden
	}
	if err := input.Validate(s.cfg.MaxUploadBytes); err != nil {
		return nil, err
	}

	out := &Outcome{}
	out.advance(StateReceived)

	mimeType := NormalizeMimeType(input.MimeType)
	filename := strings.TrimSpace(input.Filename)
	fingerprint := Fingerprint(input.Content)
	out.advance(StateFingerprinted)

	existing, err := s.documents.GetByFingerprint(ctx, caller.OrgID, input.OutletID, fingerprint)
	switch {
	case err == nil:
		return s.duplicate(ctx, out, existing), nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("get document by fingerprint: %w", err)
	}

	docID := uuid.New()
	ext := mimeExtensions[mimeType]
	storedKey := unclassifiedKey(caller.OrgID, input.OutletID, docID, ext)
	if err := s.blobs.Put(ctx, storedKey, input.Content, mimeType); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	persisted := false
	defer func() {
		if persisted {
			return
		}
		if err := s.blobs.Delete(context.WithoutCancel(ctx), storedKey); err != nil {
			s.log.WarnContext(ctx, "orphaned upload not removed",
				slog.String("key", storedKey),
				slog.String("error", err.Error()),
			)
		}
	}()

	out.advance(StateExtracting)
	res, degraded := s.extract(ctx, provider.ExtractionRequest{
		Content:     input.Content,
		Filename:    filename,
		MimeType:    mimeType,
		Fingerprint: fingerprint,
	})
	out.advance(StateExtracted)

	doc := s.assemble(docID, caller, input.OutletID, filename, mimeType, int64(len(input.Content)), fingerprint, res, degraded)
	doc.ApplyReviewRouting()

	out.advance(StateResolvingSupplier)
	match, err := s.suppliers.Resolve(ctx, caller.OrgID, doc.SupplierName, doc.SupplierTaxID)
	if err != nil {
		return nil, fmt.Errorf("resolve supplier: %w", err)
	}
	doc.SupplierID = match.SupplierID
	doc.SupplierMatchConfidence = match.Confidence
	doc.SupplierMatchMethod = match.Method

	out.advance(StateNormalizingCurrency)
	conv, err := s.currency.ConvertToCanonical(ctx, doc.TotalAmount, doc.Currency, doc.ConversionDate(s.now()))
	if err != nil {
		return nil, fmt.Errorf("normalize currency: %w", err)
	}
	doc.CanonicalCurrency = conv.CanonicalCurrency
	doc.ConvertedTotal = conv.ConvertedAmount
	doc.ExchangeRate = conv.Rate
	doc.RateSource = conv.Source
	doc.RateDate = conv.SnapshotDate
	doc.RateIsFallback = conv.IsFallback

	if doc.DocumentDate != nil {
		dated := datedKey(caller.OrgID, input.OutletID, docID, ext, *doc.DocumentDate)
		if err := s.blobs.Move(ctx, storedKey, dated); err != nil {
			s.log.WarnContext(ctx, "upload left unclassified",
				slog.String("key", storedKey),
				slog.String("error", err.Error()),
			)
		} else {
			storedKey = dated
		}
	}
	doc.StoragePath = storedKey

	created, err := s.documents.Create(ctx, doc)
	if errors.Is(err, domain.ErrAlreadyExists) {
		// Lost the race against a concurrent upload of the same bytes.
		winner, getErr := s.documents.GetByFingerprint(ctx, caller.OrgID, input.OutletID, fingerprint)
		if getErr != nil {
			return nil, fmt.Errorf("get raced document: %w", getErr)
		}
		return s.duplicate(ctx, out, winner), nil
	}
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	persisted = true
	out.advance(StatePersisted)

	out.Document = created
	out.Summary = Summary{
		Confidence:         created.ExtractionConfidence,
		Method:             created.ExtractionMethod,
		Provider:           created.ExtractionProvider,
		RequiresReview:     created.RequiresReview,
		SupplierMatched:    match.Matched(),
		RetriesUsed:        created.ExtractionRetries,
		ExtractionDegraded: degraded,
		RateDegraded:       created.RateSource.IsDegraded(),
	}

	if created.RequiresReview {
		out.advance(StateNeedsReview)
		s.notifyLowConfidence(ctx, created)
	} else {
		out.advance(StateProcessed)
	}

	s.log.InfoContext(ctx, "document ingested",
		slog.String("org_id", caller.OrgID.String()),
		slog.String("outlet_id", input.OutletID.String()),
		slog.String("document_id", created.ID.String()),
		slog.String("status", created.Status.String()),
		slog.String("provider", created.ExtractionProvider),
		slog.Bool("degraded", degraded),
	)

	return out, nil
}

func (s *Service) duplicate(ctx context.Context, out *Outcome, existing *domain.Document) *Outcome {
	out.advance(StateDuplicate)
	out.Duplicate = true
	out.Document = existing
	out.Summary = Summary{
		Confidence:      existing.ExtractionConfidence,
		Method:          existing.ExtractionMethod,
		Provider:        existing.ExtractionProvider,
		RequiresReview:  existing.RequiresReview,
		SupplierMatched: existing.SupplierID != nil,
		RetriesUsed:     existing.ExtractionRetries,
		RateDegraded:    existing.RateSource.IsDegraded(),
	}

	s.log.InfoContext(ctx, "duplicate upload",
		slog.String("org_id", existing.OrgID.String()),
		slog.String("document_id", existing.ID.String()),
	)
	return out
}

// assemble folds an extraction result into a new version-1 document.
func (s *Service) assemble(
	id uuid.UUID,
	caller domain.Caller,
	outletID uuid.UUID,
	filename, mimeType string,
	size int64,
	fingerprint string,
	res *provider.ExtractionResult,
	degraded bool,
) domain.Document {
	docType := domain.ParseDocumentType(string(res.DocumentType))
	currency := domain.NormalizeCurrency(res.Currency)
	if currency == "" {
		currency = s.currency.Canonical()
	}

	subtotal, tax, total, reconciled := domain.ReconcileAmounts(res.Subtotal, res.TaxAmount, res.TotalAmount)

	var docDate *time.Time
	if res.DocumentDate != nil {
		d := domain.DateOf(*res.DocumentDate)
		docDate = &d
	}

	return domain.Document{
		ID:                     id,
		OrgID:                  caller.OrgID,
		OutletID:               outletID,
		UploadedBy:             caller.UserID,
		Filename:               filename,
		MimeType:               mimeType,
		FileSize:               size,
		ContentFingerprint:     fingerprint,
		DocumentType:           docType,
		DocumentDate:           docDate,
		DocumentDateConfidence: clampConfidence(res.DocumentDateConfidence),
		ExtractionConfidence:   clampConfidence(res.Confidence),
		SupplierName:           strings.TrimSpace(res.SupplierName),
		SupplierTaxID:          strings.TrimSpace(res.SupplierTaxID),
		SupplierMatchMethod:    domain.MatchMethodNoMatch,
		InvoiceNumber:          strings.TrimSpace(res.InvoiceNumber),
		LineItems:              res.LineItems,
		Currency:               currency,
		Subtotal:               subtotal,
		TaxRate:                res.TaxRate,
		TaxAmount:              tax,
		TotalAmount:            total,
		AmountsReconciled:      reconciled,
		ExtractionProvider:     res.Provider,
		ExtractionMethod:       res.Method,
		ExtractionRetries:      res.RetriesUsed,
		ExtractionDegraded:     degraded,
		ExtractionError:        res.Error,
		RawOCRText:             res.RawOCRText,
	}
}

func clampConfidence(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
