package domain

import (
	"slices"

	"github.com/google/uuid"
)

// Caller is the authenticated identity handed over by the transport layer.
// It is trusted as-is; every query is scoped by OrgID.
type Caller struct {
	UserID       uuid.UUID
	Role         Role
	OrgID        uuid.UUID
	OutletAccess []uuid.UUID
}

// IsOrgWide reports whether the caller sees every outlet of the org.
func (c Caller) IsOrgWide() bool {
	return c.Role == RoleOwner || c.Role == RoleAccounts
}

// CanAccessOutlet reports whether the caller may act on the outlet.
func (c Caller) CanAccessOutlet(outletID uuid.UUID) bool {
	return c.IsOrgWide() || slices.Contains(c.OutletAccess, outletID)
}

// VisibleOutlets returns the outlet filter for list queries; nil means all.
func (c Caller) VisibleOutlets() []uuid.UUID {
	if c.IsOrgWide() {
		return nil
	}
	if c.OutletAccess == nil {
		return []uuid.UUID{}
	}
	return c.OutletAccess
}
