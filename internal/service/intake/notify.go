package intake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

const relatedTypeDocument = "document"

// notifyLowConfidence records a review request for accounts. Failures are
// logged and swallowed; the document is already persisted.
func (s *Service) notifyLowConfidence(ctx context.Context, d *domain.Document) {
	outletID := d.OutletID
	docID := d.ID

	msg := fmt.Sprintf("Extraction confidence %.0f%%, date confidence %.0f%%. Please review and correct the extracted fields.",
		d.ExtractionConfidence*100, d.DocumentDateConfidence*100)
	if d.DocumentDate == nil {
		msg = "No document date could be read. Please review and correct the extracted fields."
	}

	n := domain.Notification{
		ID:          uuid.New(),
		OrgID:       d.OrgID,
		OutletID:    &outletID,
		Type:        domain.NotificationTypeLowConfidence,
		TargetRole:  domain.RoleAccounts,
		Title:       "Low confidence: " + d.Filename,
		Message:     msg,
		Severity:    domain.SeverityWarning,
		RelatedType: relatedTypeDocument,
		RelatedID:   &docID,
	}
	if _, err := s.notifications.Create(context.WithoutCancel(ctx), n); err != nil {
		s.log.WarnContext(ctx, "low confidence notification not recorded",
			slog.String("document_id", d.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}
