package rest

import (
	"net/http"

	"github.com/heartmarshall/ledgerlens-backend/internal/transport/middleware"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Health        *HealthHandler
	Documents     *DocumentHandler
	Suppliers     *SupplierHandler
	Currency      *CurrencyHandler
	Notifications *NotificationHandler
}

// NewRouter registers every route. Probes are public; /api routes go
// through auth. uploadLimit wraps the upload route only and may be nil.
func NewRouter(h Handlers, auth, uploadLimit middleware.Middleware) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	api := func(pattern string, fn http.HandlerFunc, extra ...middleware.Middleware) {
		mws := append([]middleware.Middleware{auth}, extra...)
		mux.Handle(pattern, middleware.Chain(mws...)(fn))
	}

	upload := []middleware.Middleware{}
	if uploadLimit != nil {
		upload = append(upload, uploadLimit)
	}

	api("POST /api/documents", h.Documents.Upload, upload...)
	api("GET /api/documents", h.Documents.List)
	api("GET /api/documents/review-queue", h.Documents.ReviewQueue)
	api("POST /api/documents/bulk", h.Documents.Bulk)
	api("GET /api/documents/{id}", h.Documents.Get)
	api("PATCH /api/documents/{id}", h.Documents.Update)
	api("GET /api/documents/{id}/revisions", h.Documents.Revisions)
	api("GET /api/processors", h.Documents.Processors)

	api("GET /api/suppliers", h.Suppliers.List)
	api("POST /api/suppliers", h.Suppliers.Create)
	api("POST /api/suppliers/validate-tax-id", h.Suppliers.ValidateTaxID)
	api("POST /api/suppliers/check-duplicate", h.Suppliers.CheckDuplicate)
	api("GET /api/suppliers/{id}", h.Suppliers.Get)
	api("PATCH /api/suppliers/{id}", h.Suppliers.Update)

	api("GET /api/currency/rate", h.Currency.Rate)
	api("POST /api/currency/convert", h.Currency.Convert)
	api("GET /api/currency/rates/{date}", h.Currency.RatesForDate)
	api("GET /api/currency/history", h.Currency.History)
	api("POST /api/currency/sync", h.Currency.Sync)

	api("GET /api/notifications", h.Notifications.List)
	api("POST /api/notifications/{id}/read", h.Notifications.MarkRead)

	return mux
}
