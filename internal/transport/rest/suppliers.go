package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/supplier"
)

type supplierService interface {
	Create(ctx context.Context, input supplier.CreateInput) (*supplier.WriteResult, error)
	Update(ctx context.Context, input supplier.UpdateInput) (*supplier.WriteResult, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Supplier, error)
	List(ctx context.Context, input supplier.ListInput) ([]domain.Supplier, error)
	CheckDuplicate(ctx context.Context, input supplier.CheckDuplicateInput) ([]supplier.Candidate, error)
}

// SupplierHandler serves supplier registry endpoints.
type SupplierHandler struct {
	svc supplierService
	log *slog.Logger
}

// NewSupplierHandler creates a SupplierHandler.
func NewSupplierHandler(svc supplierService, logger *slog.Logger) *SupplierHandler {
	return &SupplierHandler{svc: svc, log: logger.With("handler", "supplier")}
}

type supplierResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	TaxID      string    `json:"tax_id"`
	Category   string    `json:"category"`
	Country    string    `json:"country"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type candidateResponse struct {
	SupplierID string  `json:"supplier_id"`
	Name       string  `json:"name"`
	TaxID      string  `json:"tax_id"`
	Similarity float64 `json:"similarity"`
}

type writeResponse struct {
	Supplier supplierResponse    `json:"supplier"`
	Warnings []candidateResponse `json:"warnings"`
}

func toSupplierResponse(s domain.Supplier) supplierResponse {
	return supplierResponse{
		ID:         s.ID.String(),
		Name:       s.Name,
		TaxID:      s.TaxID,
		Category:   s.Category,
		Country:    s.Country,
		IsVerified: s.IsVerified,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func toCandidates(cs []supplier.Candidate) []candidateResponse {
	out := make([]candidateResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, candidateResponse{
			SupplierID: c.SupplierID.String(),
			Name:       c.Name,
			TaxID:      c.TaxID,
			Similarity: c.Similarity,
		})
	}
	return out
}

func toWriteResponse(res *supplier.WriteResult) writeResponse {
	return writeResponse{
		Supplier: toSupplierResponse(*res.Supplier),
		Warnings: toCandidates(res.Warnings),
	}
}

// List handles GET /api/suppliers?search=&limit=&offset=.
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	in := supplier.ListInput{Search: r.URL.Query().Get("search")}

	var ok bool
	if in.Limit, ok = queryInt(w, r, "limit", 0); !ok {
		return
	}
	if in.Offset, ok = queryInt(w, r, "offset", 0); !ok {
		return
	}

	list, err := h.svc.List(r.Context(), in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]supplierResponse, 0, len(list))
	for _, s := range list {
		resp = append(resp, toSupplierResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

type createSupplierRequest struct {
	Name         string `json:"name"`
	TaxID        string `json:"tax_id"`
	Category     string `json:"category"`
	Country      string `json:"country"`
	AllowSimilar bool   `json:"allow_similar"`
}

// Create handles POST /api/suppliers.
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSupplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.Create(r.Context(), supplier.CreateInput(req))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWriteResponse(res))
}

// Get handles GET /api/suppliers/{id}.
func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	s, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSupplierResponse(*s))
}

type updateSupplierRequest struct {
	Name       *string `json:"name"`
	TaxID      *string `json:"tax_id"`
	Category   *string `json:"category"`
	Country    *string `json:"country"`
	IsVerified *bool   `json:"is_verified"`
}

// Update handles PATCH /api/suppliers/{id}.
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req updateSupplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.Update(r.Context(), supplier.UpdateInput{
		ID:                   id,
		SupplierUpdateParams: domain.SupplierUpdateParams(req),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWriteResponse(res))
}

type validateTaxIDRequest struct {
	TaxID   string `json:"tax_id"`
	Country string `json:"country"`
}

type validateTaxIDResponse struct {
	Valid     bool   `json:"valid"`
	Country   string `json:"country"`
	Formatted string `json:"formatted,omitempty"`
	StateCode int    `json:"state_code,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ValidateTaxID handles POST /api/suppliers/validate-tax-id. It checks the
// format only and never touches storage.
func (h *SupplierHandler) ValidateTaxID(w http.ResponseWriter, r *http.Request) {
	var req validateTaxIDRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res := supplier.ValidateTaxID(req.TaxID, req.Country)
	writeJSON(w, http.StatusOK, validateTaxIDResponse(res))
}

type checkDuplicateRequest struct {
	Name      string    `json:"name"`
	ExcludeID uuid.UUID `json:"exclude_id"`
}

// CheckDuplicate handles POST /api/suppliers/check-duplicate.
func (h *SupplierHandler) CheckDuplicate(w http.ResponseWriter, r *http.Request) {
	var req checkDuplicateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cands, err := h.svc.CheckDuplicate(r.Context(), supplier.CheckDuplicateInput(req))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": toCandidates(cands)})
}
