package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/currency"
	"github.com/heartmarshall/ledgerlens-backend/internal/transport/middleware"
)

type currencyService interface {
	Canonical() string
	RateFor(ctx context.Context, currency string, businessDate time.Time) (domain.RateQuote, error)
	ConvertToCanonical(ctx context.Context, amount decimal.Decimal, currency string, businessDate time.Time) (domain.Conversion, error)
	ConvertFromCanonical(ctx context.Context, amount decimal.Decimal, currency string, businessDate time.Time) (domain.Conversion, error)
	RatesForDate(ctx context.Context, date time.Time) (*domain.RateSnapshot, error)
	History(ctx context.Context, days int) ([]domain.RateSnapshot, error)
	SyncDaily(ctx context.Context) (currency.SyncResult, error)
}

// CurrencyHandler serves exchange rate endpoints.
type CurrencyHandler struct {
	svc currencyService
	log *slog.Logger
	now func() time.Time
}

// NewCurrencyHandler creates a CurrencyHandler.
func NewCurrencyHandler(svc currencyService, logger *slog.Logger) *CurrencyHandler {
	return &CurrencyHandler{svc: svc, log: logger.With("handler", "currency"), now: time.Now}
}

type quoteResponse struct {
	Currency     string          `json:"currency"`
	Canonical    string          `json:"canonical_currency"`
	Rate         decimal.Decimal `json:"rate"`
	Source       string          `json:"source"`
	Degraded     bool            `json:"degraded"`
	SnapshotDate *string         `json:"snapshot_date"`
	IsFallback   bool            `json:"is_fallback"`
}

func (h *CurrencyHandler) toQuote(q domain.RateQuote) quoteResponse {
	resp := quoteResponse{
		Currency:   q.Currency,
		Canonical:  h.svc.Canonical(),
		Rate:       q.Rate,
		Source:     q.Source.String(),
		Degraded:   q.Source.IsDegraded(),
		IsFallback: q.IsFallback,
	}
	if q.SnapshotDate != nil {
		d := q.SnapshotDate.Format(domain.BusinessDateLayout)
		resp.SnapshotDate = &d
	}
	return resp
}

// businessDate reads the date query parameter, defaulting to today.
func (h *CurrencyHandler) businessDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	d, ok := queryDate(w, r, "date")
	if !ok {
		return time.Time{}, false
	}
	if d == nil {
		return domain.DateOf(h.now()), true
	}
	return *d, true
}

// Rate handles GET /api/currency/rate?currency=USD&date=2024-01-15.
func (h *CurrencyHandler) Rate(w http.ResponseWriter, r *http.Request) {
	date, ok := h.businessDate(w, r)
	if !ok {
		return
	}

	q, err := h.svc.RateFor(r.Context(), r.URL.Query().Get("currency"), date)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toQuote(q))
}

type convertRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Date      string          `json:"date"`
	Direction string          `json:"direction"`
}

type convertResponse struct {
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	FromCurrency    string          `json:"from_currency"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
	ToCurrency      string          `json:"to_currency"`
	Quote           quoteResponse   `json:"quote"`
}

// Convert handles POST /api/currency/convert. Direction is "to_canonical"
// (default) or "from_canonical".
func (h *CurrencyHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date := domain.DateOf(h.now())
	if d, err := domain.ParseBusinessDate(req.Date); err != nil {
		handleError(h.log, w, r, domain.NewValidationError("date", "expected YYYY-MM-DD"))
		return
	} else if d != nil {
		date = *d
	}

	convert := h.svc.ConvertToCanonical
	switch strings.TrimSpace(req.Direction) {
	case "", "to_canonical":
	case "from_canonical":
		convert = h.svc.ConvertFromCanonical
	default:
		handleError(h.log, w, r, domain.NewValidationError("direction", "must be to_canonical or from_canonical"))
		return
	}

	conv, err := convert(r.Context(), req.Amount, req.Currency, date)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convertResponse{
		OriginalAmount:  conv.OriginalAmount,
		FromCurrency:    conv.Currency,
		ConvertedAmount: conv.ConvertedAmount,
		ToCurrency:      conv.CanonicalCurrency,
		Quote:           h.toQuote(conv.RateQuote),
	})
}

type snapshotResponse struct {
	Date            string                     `json:"date"`
	BaseCurrency    string                     `json:"base_currency"`
	Rates           map[string]decimal.Decimal `json:"rates"`
	IsFallback      bool                       `json:"is_fallback"`
	FallbackVersion string                     `json:"fallback_version,omitempty"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

func toSnapshotResponse(s domain.RateSnapshot) snapshotResponse {
	return snapshotResponse{
		Date:            s.Date.Format(domain.BusinessDateLayout),
		BaseCurrency:    s.BaseCurrency,
		Rates:           s.Rates,
		IsFallback:      s.IsFallback,
		FallbackVersion: s.FallbackVersion,
		UpdatedAt:       s.UpdatedAt,
	}
}

// RatesForDate handles GET /api/currency/rates/{date}.
func (h *CurrencyHandler) RatesForDate(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(domain.BusinessDateLayout, r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	snap, err := h.svc.RatesForDate(r.Context(), date)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotResponse(*snap))
}

// History handles GET /api/currency/history?days=30.
func (h *CurrencyHandler) History(w http.ResponseWriter, r *http.Request) {
	days, ok := queryInt(w, r, "days", 0)
	if !ok {
		return
	}

	snaps, err := h.svc.History(r.Context(), days)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]snapshotResponse, 0, len(snaps))
	for _, s := range snaps {
		resp = append(resp, toSnapshotResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

type syncResponse struct {
	Snapshot snapshotResponse `json:"snapshot"`
	Written  bool             `json:"written"`
}

// Sync handles POST /api/currency/sync. Owner only.
func (h *CurrencyHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r.Context(), domain.RoleOwner); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	res, err := h.svc.SyncDaily(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{Snapshot: toSnapshotResponse(res.Snapshot), Written: res.Written})
}
