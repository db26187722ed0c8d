package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	NotificationTypeLowConfidence = "low_confidence"
)

// Notification is an in-app alert addressed to a role within an org.
type Notification struct {
	ID          uuid.UUID
	OrgID       uuid.UUID
	OutletID    *uuid.UUID
	Type        string
	TargetRole  Role
	Title       string
	Message     string
	Severity    NotificationSeverity
	RelatedType string
	RelatedID   *uuid.UUID
	IsRead      bool
	CreatedAt   time.Time
}
