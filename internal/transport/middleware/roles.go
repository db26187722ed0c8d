package middleware

import (
	"context"
	"slices"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/pkg/ctxutil"
)

// RequireRole returns domain.ErrForbidden unless the context caller has one
// of roles. Use in REST handlers, not as HTTP middleware.
func RequireRole(ctx context.Context, roles ...domain.Role) error {
	caller, ok := ctxutil.CallerFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if !slices.Contains(roles, caller.Role) {
		return domain.ErrForbidden
	}
	return nil
}
