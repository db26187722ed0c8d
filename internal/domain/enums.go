package domain

// DocumentType classifies an ingested financial document.
type DocumentType string

const (
	DocumentTypePurchaseInvoice     DocumentType = "purchase_invoice"
	DocumentTypeSalesReceipt        DocumentType = "sales_receipt"
	DocumentTypeAggregatorStatement DocumentType = "aggregator_statement"
	DocumentTypeExpenseBill         DocumentType = "expense_bill"
	DocumentTypeUtilityBill         DocumentType = "utility_bill"
	DocumentTypeUnknown             DocumentType = "unknown"
)

func (t DocumentType) String() string { return string(t) }

// IsValid reports whether t is one of the classified types. Unknown is a
// placeholder for failed extractions and is not accepted from callers.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypePurchaseInvoice, DocumentTypeSalesReceipt, DocumentTypeAggregatorStatement,
		DocumentTypeExpenseBill, DocumentTypeUtilityBill:
		return true
	}
	return false
}

// ParseDocumentType maps extractor output to a DocumentType, falling back to unknown.
func ParseDocumentType(s string) DocumentType {
	t := DocumentType(s)
	if t.IsValid() {
		return t
	}
	return DocumentTypeUnknown
}

// DocumentStatus is the review state of a document.
type DocumentStatus string

const (
	DocumentStatusNeedsReview DocumentStatus = "needs_review"
	DocumentStatusProcessed   DocumentStatus = "processed"
)

func (s DocumentStatus) String() string { return string(s) }

func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusNeedsReview, DocumentStatusProcessed:
		return true
	}
	return false
}

// RateSource tags where an exchange rate came from.
type RateSource string

const (
	RateSourceBaseCurrency       RateSource = "base_currency"
	RateSourceHistoricalSnapshot RateSource = "historical_snapshot"
	RateSourceNearestSnapshot    RateSource = "nearest_snapshot"
	RateSourceLiveFetch          RateSource = "live_fetch"
	RateSourceFallback           RateSource = "fallback"
)

func (s RateSource) String() string { return string(s) }

// IsDegraded reports whether the rate is not backed by a same-day or live figure.
func (s RateSource) IsDegraded() bool {
	return s == RateSourceNearestSnapshot || s == RateSourceFallback
}

// MatchMethod names the supplier resolution strategy that produced a match.
type MatchMethod string

const (
	MatchMethodTaxID       MatchMethod = "tax_id_match"
	MatchMethodExactName   MatchMethod = "exact_name"
	MatchMethodPartialName MatchMethod = "partial_name"
	MatchMethodNoMatch     MatchMethod = "no_match"
)

func (m MatchMethod) String() string { return string(m) }

// Role is the caller's role within an organization.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleAccounts Role = "accounts"
	RoleManager  Role = "manager"
	RoleStaff    Role = "staff"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAccounts, RoleManager, RoleStaff:
		return true
	}
	return false
}

// NotificationSeverity grades a notification.
type NotificationSeverity string

const (
	SeverityInfo     NotificationSeverity = "info"
	SeverityWarning  NotificationSeverity = "warning"
	SeverityCritical NotificationSeverity = "critical"
)

// BulkAction is an operation applied to several documents at once.
type BulkAction string

const (
	BulkActionApprove    BulkAction = "approve"
	BulkActionFlagReview BulkAction = "flag_review"
	BulkActionDelete     BulkAction = "delete"
)

func (a BulkAction) IsValid() bool {
	switch a {
	case BulkActionApprove, BulkActionFlagReview, BulkActionDelete:
		return true
	}
	return false
}
