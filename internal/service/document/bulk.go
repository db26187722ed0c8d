package document

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/pkg/ctxutil"
)

// BulkFailure is a document the bulk action could not be applied to.
type BulkFailure struct {
	ID    uuid.UUID
	Error error
}

// BulkResult reports per-document outcomes. One failing document does not
// stop the others.
type BulkResult struct {
	Succeeded []uuid.UUID
	Failed    []BulkFailure
}

// BulkAction approves, flags or deletes several documents. Approve and flag
// go through Update, so each document gets its own revision. Delete is an
// owner-only administrative removal; revisions are kept.
func (s *Service) BulkAction(ctx context.Context, input BulkInput) (*BulkResult, error) {
	caller, ok := ctxutil.CallerFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.Action == domain.BulkActionDelete && caller.Role != domain.RoleOwner {
		return nil, domain.ErrForbidden
	}

	res := &BulkResult{}
	for _, id := range dedupe(input.IDs) {
		var err error
		switch input.Action {
		case domain.BulkActionApprove:
			err = s.setStatus(ctx, id, domain.DocumentStatusProcessed, reasonOr(input.Reason, "Bulk approve"))
		case domain.BulkActionFlagReview:
			err = s.setStatus(ctx, id, domain.DocumentStatusNeedsReview, reasonOr(input.Reason, "Bulk flag for review"))
		case domain.BulkActionDelete:
			err = s.delete(ctx, caller, id)
		}
		if err != nil {
			res.Failed = append(res.Failed, BulkFailure{ID: id, Error: err})
			continue
		}
		res.Succeeded = append(res.Succeeded, id)
	}

	s.log.InfoContext(ctx, "bulk action applied",
		slog.String("org_id", caller.OrgID.String()),
		slog.String("action", string(input.Action)),
		slog.Int("succeeded", len(res.Succeeded)),
		slog.Int("failed", len(res.Failed)),
	)

	return res, nil
}

func (s *Service) setStatus(ctx context.Context, id uuid.UUID, status domain.DocumentStatus, reason string) error {
	_, err := s.Update(ctx, UpdateInput{
		ID:      id,
		Changes: domain.DocumentChanges{Status: &status},
		Reason:  reason,
	})
	return err
}

func (s *Service) delete(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	if err := s.documents.Delete(ctx, caller.OrgID, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	s.log.WarnContext(ctx, "document deleted",
		slog.String("org_id", caller.OrgID.String()),
		slog.String("document_id", id.String()),
		slog.String("actor", caller.UserID.String()),
	)
	return nil
}

func reasonOr(reason, fallback string) string {
	if r := strings.TrimSpace(reason); r != "" {
		return r
	}
	return fallback
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
