package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/internal/service/notification"
)

type notificationService interface {
	List(ctx context.Context, input notification.ListInput) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

// NotificationHandler serves the notification feed.
type NotificationHandler struct {
	svc notificationService
	log *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(svc notificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: logger.With("handler", "notification")}
}

type notificationResponse struct {
	ID          string     `json:"id"`
	OutletID    *uuid.UUID `json:"outlet_id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Severity    string     `json:"severity"`
	RelatedType string     `json:"related_type,omitempty"`
	RelatedID   *uuid.UUID `json:"related_id,omitempty"`
	IsRead      bool       `json:"is_read"`
	CreatedAt   time.Time  `json:"created_at"`
}

// List handles GET /api/notifications?unread=true&limit=50.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}

	list, err := h.svc.List(r.Context(), notification.ListInput{
		UnreadOnly: r.URL.Query().Get("unread") == "true",
		Limit:      limit,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]notificationResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, notificationResponse{
			ID:          n.ID.String(),
			OutletID:    n.OutletID,
			Type:        n.Type,
			Title:       n.Title,
			Message:     n.Message,
			Severity:    string(n.Severity),
			RelatedType: n.RelatedType,
			RelatedID:   n.RelatedID,
			IsRead:      n.IsRead,
			CreatedAt:   n.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// MarkRead handles POST /api/notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.MarkRead(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
