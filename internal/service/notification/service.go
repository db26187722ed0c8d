package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/pkg/ctxutil"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type notificationRepo interface {
	ListForRole(ctx context.Context, orgID uuid.UUID, role domain.Role, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, orgID, id uuid.UUID) error
}

// Service exposes the in-app notification inbox.
type Service struct {
	log           *slog.Logger
	notifications notificationRepo
}

// NewService creates a new notification service.
func NewService(log *slog.Logger, notifications notificationRepo) *Service {
	return &Service{
		log:           log.With("service", "notification"),
		notifications: notifications,
	}
}

// ListInput holds the parameters for listing notifications.
type ListInput struct {
	UnreadOnly bool
	Limit      int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	if i.Limit < 0 || i.Limit > maxLimit {
		return domain.NewValidationError("limit", "must be between 0 and 200")
	}
	return nil
}

// List returns the notifications addressed to the caller's role, newest first.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.Notification, error) {
	caller, ok := ctxutil.CallerFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	list, err := s.notifications.ListForRole(ctx, caller.OrgID, caller.Role, input.UnreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

// MarkRead flags a notification of the caller's org as read.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	caller, ok := ctxutil.CallerFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}

	if err := s.notifications.MarkRead(ctx, caller.OrgID, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	s.log.DebugContext(ctx, "notification read",
		slog.String("org_id", caller.OrgID.String()),
		slog.String("notification_id", id.String()),
	)
	return nil
}
