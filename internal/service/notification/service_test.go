package notification

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/pkg/ctxutil"
)

type notificationRepoMock struct {
	ListForRoleFunc func(ctx context.Context, orgID uuid.UUID, role domain.Role, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkReadFunc    func(ctx context.Context, orgID, id uuid.UUID) error
}

var _ notificationRepo = &notificationRepoMock{}

func (mock *notificationRepoMock) ListForRole(ctx context.Context, orgID uuid.UUID, role domain.Role, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if mock.ListForRoleFunc == nil {
		panic("notificationRepoMock.ListForRoleFunc: method is nil but notificationRepo.ListForRole was just called")
	}
	return mock.ListForRoleFunc(ctx, orgID, role, unreadOnly, limit)
}

func (mock *notificationRepoMock) MarkRead(ctx context.Context, orgID, id uuid.UUID) error {
	if mock.MarkReadFunc == nil {
		panic("notificationRepoMock.MarkReadFunc: method is nil but notificationRepo.MarkRead was just called")
	}
	return mock.MarkReadFunc(ctx, orgID, id)
}

func newTestService(repo notificationRepo) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo)
}

func TestList(t *testing.T) {
	t.Parallel()

	caller := domain.Caller{UserID: uuid.New(), Role: domain.RoleAccounts, OrgID: uuid.New()}
	ctx := ctxutil.WithCaller(context.Background(), caller)

	var (
		gotOrg    uuid.UUID
		gotRole   domain.Role
		gotUnread bool
		gotLimit  int
	)
	repo := &notificationRepoMock{
		ListForRoleFunc: func(_ context.Context, orgID uuid.UUID, role domain.Role, unreadOnly bool, limit int) ([]domain.Notification, error) {
			gotOrg, gotRole, gotUnread, gotLimit = orgID, role, unreadOnly, limit
			return []domain.Notification{{Title: "Low confidence: a.pdf"}}, nil
		},
	}
	svc := newTestService(repo)

	list, err := svc.List(ctx, ListInput{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, caller.OrgID, gotOrg)
	assert.Equal(t, domain.RoleAccounts, gotRole)
	assert.True(t, gotUnread)
	assert.Equal(t, defaultLimit, gotLimit)

	_, err = svc.List(ctx, ListInput{Limit: 1000})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.List(context.Background(), ListInput{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMarkRead(t *testing.T) {
	t.Parallel()

	caller := domain.Caller{UserID: uuid.New(), Role: domain.RoleStaff, OrgID: uuid.New()}
	ctx := ctxutil.WithCaller(context.Background(), caller)
	known := uuid.New()

	repo := &notificationRepoMock{
		MarkReadFunc: func(_ context.Context, orgID, id uuid.UUID) error {
			if orgID != caller.OrgID || id != known {
				return domain.ErrNotFound
			}
			return nil
		},
	}
	svc := newTestService(repo)

	require.NoError(t, svc.MarkRead(ctx, known))
	assert.ErrorIs(t, svc.MarkRead(ctx, uuid.New()), domain.ErrNotFound)
	assert.ErrorIs(t, svc.MarkRead(ctx, uuid.Nil), domain.ErrValidation)
}
