package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/document"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/intake"
)

// multipart framing overhead allowed on top of the file size limit.
const multipartOverhead = 1 << 20

type intakeService interface {
	Ingest(ctx context.Context, input intake.IngestInput) (*intake.Outcome, error)
	Processors() intake.ProcessorInfo
}

type documentService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, input document.ListInput) (domain.DocumentPage, error)
	ReviewQueue(ctx context.Context) ([]domain.Document, error)
	ListRevisions(ctx context.Context, documentID uuid.UUID, limit int) ([]domain.RevisionEntry, error)
	Update(ctx context.Context, input document.UpdateInput) (*domain.Document, error)
	BulkAction(ctx context.Context, input document.BulkInput) (*document.BulkResult, error)
}

// DocumentHandler serves document intake and review endpoints.
type DocumentHandler struct {
	intake    intakeService
	documents documentService
	maxUpload int64
	log       *slog.Logger
}

// NewDocumentHandler creates a DocumentHandler. maxUpload bounds the size of
// an uploaded file in bytes.
func NewDocumentHandler(intake intakeService, documents documentService, maxUpload int64, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		intake:    intake,
		documents: documents,
		maxUpload: maxUpload,
		log:       logger.With("handler", "document"),
	}
}

type uploadResponse struct {
	Document  *domain.Document `json:"document"`
	Duplicate bool             `json:"duplicate"`
	States    []intake.State   `json:"states"`
	Summary   uploadSummary    `json:"summary"`
}

type uploadSummary struct {
	Confidence         float64 `json:"confidence"`
	Method             string  `json:"method"`
	Provider           string  `json:"provider"`
	RequiresReview     bool    `json:"requires_review"`
	SupplierMatched    bool    `json:"supplier_matched"`
	RetriesUsed        int     `json:"retries_used"`
	ExtractionDegraded bool    `json:"extraction_degraded"`
	RateDegraded       bool    `json:"rate_degraded"`
}

// Upload handles POST /api/documents (multipart: outlet_id, file).
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	outletID, err := uuid.Parse(r.FormValue("outlet_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid outlet_id")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read file")
		return
	}

	out, err := h.intake.Ingest(r.Context(), intake.IngestInput{
		OutletID: outletID,
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Content:  content,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	status := http.StatusCreated
	if out.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, uploadResponse{
		Document:  out.Document,
		Duplicate: out.Duplicate,
		States:    out.States,
		Summary:   uploadSummary(out.Summary),
	})
}

type documentPageResponse struct {
	Documents []domain.Document `json:"documents"`
	Total     int               `json:"total"`
}

// List handles GET /api/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := document.ListInput{
		SupplierName: q.Get("supplier_name"),
		Search:       q.Get("search"),
	}

	if v := q.Get("outlet_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid outlet_id")
			return
		}
		in.OutletID = &id
	}
	if v := q.Get("status"); v != "" {
		st := domain.DocumentStatus(v)
		in.Status = &st
	}
	if v := q.Get("document_type"); v != "" {
		dt := domain.DocumentType(v)
		in.DocumentType = &dt
	}

	var ok bool
	if in.DateFrom, ok = queryDate(w, r, "date_from"); !ok {
		return
	}
	if in.DateTo, ok = queryDate(w, r, "date_to"); !ok {
		return
	}
	if in.Limit, ok = queryInt(w, r, "limit", 0); !ok {
		return
	}
	if in.Offset, ok = queryInt(w, r, "offset", 0); !ok {
		return
	}

	page, err := h.documents.List(r.Context(), in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if page.Documents == nil {
		page.Documents = []domain.Document{}
	}
	writeJSON(w, http.StatusOK, documentPageResponse{Documents: page.Documents, Total: page.Total})
}

// ReviewQueue handles GET /api/documents/review-queue.
func (h *DocumentHandler) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.ReviewQueue(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// Get handles GET /api/documents/{id}.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.documents.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type updateRequest struct {
	DocumentDate    *string    `json:"document_date"`
	ClearDate       bool       `json:"clear_date"`
	SupplierID      *uuid.UUID `json:"supplier_id"`
	SupplierName    *string    `json:"supplier_name"`
	Status          *string    `json:"status"`
	DocumentType    *string    `json:"document_type"`
	Reason          string     `json:"reason"`
	ExpectedVersion *int       `json:"expected_version"`
}

func (req updateRequest) changes() (domain.DocumentChanges, error) {
	c := domain.DocumentChanges{
		ClearDate:    req.ClearDate,
		SupplierID:   req.SupplierID,
		SupplierName: req.SupplierName,
	}
	if req.DocumentDate != nil {
		d, err := domain.ParseBusinessDate(*req.DocumentDate)
		if err != nil {
			return c, domain.NewValidationError("document_date", "expected YYYY-MM-DD")
		}
		if d == nil {
			c.ClearDate = true
		} else {
			c.DocumentDate = d
		}
	}
	if req.Status != nil {
		st := domain.DocumentStatus(strings.TrimSpace(*req.Status))
		c.Status = &st
	}
	if req.DocumentType != nil {
		dt := domain.DocumentType(strings.TrimSpace(*req.DocumentType))
		c.DocumentType = &dt
	}
	return c, nil
}

// Update handles PATCH /api/documents/{id}.
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req updateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	changes, err := req.changes()
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	doc, err := h.documents.Update(r.Context(), document.UpdateInput{
		ID:              id,
		Changes:         changes,
		Reason:          req.Reason,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type revisionResponse struct {
	ID            string          `json:"id"`
	Version       int             `json:"version"`
	Snapshot      domain.Document `json:"snapshot"`
	ChangedFields []string        `json:"changed_fields"`
	Actor         string          `json:"actor"`
	Reason        string          `json:"reason"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Revisions handles GET /api/documents/{id}/revisions.
func (h *DocumentHandler) Revisions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}

	entries, err := h.documents.ListRevisions(r.Context(), id, limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]revisionResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, revisionResponse{
			ID:            e.ID.String(),
			Version:       e.Version,
			Snapshot:      e.Snapshot,
			ChangedFields: e.ChangedFields,
			Actor:         e.Actor.String(),
			Reason:        e.Reason,
			CreatedAt:     e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type bulkRequest struct {
	Action      string      `json:"action"`
	DocumentIDs []uuid.UUID `json:"document_ids"`
	Reason      string      `json:"reason"`
}

type bulkFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type bulkResponse struct {
	Succeeded []uuid.UUID   `json:"succeeded"`
	Failed    []bulkFailure `json:"failed"`
}

// Bulk handles POST /api/documents/bulk.
func (h *DocumentHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.documents.BulkAction(r.Context(), document.BulkInput{
		Action: domain.BulkAction(req.Action),
		IDs:    req.DocumentIDs,
		Reason: req.Reason,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := bulkResponse{Succeeded: res.Succeeded, Failed: make([]bulkFailure, 0, len(res.Failed))}
	if resp.Succeeded == nil {
		resp.Succeeded = []uuid.UUID{}
	}
	for _, f := range res.Failed {
		resp.Failed = append(resp.Failed, bulkFailure{ID: f.ID.String(), Error: f.Error.Error()})
	}
	writeJSON(w, http.StatusOK, resp)
}

type processorsResponse struct {
	Active    string   `json:"active"`
	Fallback  string   `json:"fallback"`
	Available []string `json:"available"`
}

// Processors handles GET /api/processors.
func (h *DocumentHandler) Processors(w http.ResponseWriter, r *http.Request) {
	info := h.intake.Processors()
	writeJSON(w, http.StatusOK, processorsResponse(info))
}
