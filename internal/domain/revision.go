package domain

import (
	"time"

	"github.com/google/uuid"
)

// RevisionEntry is an immutable record of a document's state right before a
// mutation. Version is the document version the snapshot was taken at.
type RevisionEntry struct {
	ID            uuid.UUID
	DocumentID    uuid.UUID
	OrgID         uuid.UUID
	Version       int
	Snapshot      Document
	ChangedFields []string
	Actor         uuid.UUID
	Reason        string
	CreatedAt     time.Time
}
