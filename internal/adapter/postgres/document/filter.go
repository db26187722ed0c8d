package document

import (
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 200

	// ReviewQueueLimit caps the manual review queue.
	ReviewQueueLimit = 100
)

// normalizeFilter applies defaults and clamps values.
func normalizeFilter(f domain.DocumentFilter) domain.DocumentFilter {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Search = strings.TrimSpace(f.Search)
	f.SupplierName = strings.TrimSpace(f.SupplierName)
	return f
}

// conditions translates a filter into WHERE predicates. OrgID is always
// applied; a non-nil OutletIDs restricts to those outlets (empty matches
// nothing).
func conditions(f domain.DocumentFilter) squirrel.And {
	where := squirrel.And{squirrel.Eq{"org_id": f.OrgID}}

	if f.OutletIDs != nil {
		where = append(where, squirrel.Eq{"outlet_id": f.OutletIDs})
	}
	if f.Status != nil {
		where = append(where, squirrel.Eq{"status": string(*f.Status)})
	}
	if f.DocumentType != nil {
		where = append(where, squirrel.Eq{"document_type": string(*f.DocumentType)})
	}
	if f.SupplierName != "" {
		where = append(where, squirrel.ILike{"supplier_name": "%" + escapeLike(f.SupplierName) + "%"})
	}
	if f.DateFrom != nil {
		where = append(where, squirrel.GtOrEq{"document_date": *f.DateFrom})
	}
	if f.DateTo != nil {
		where = append(where, squirrel.LtOrEq{"document_date": *f.DateTo})
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"supplier_name": pattern},
			squirrel.ILike{"invoice_number": pattern},
		})
	}
	return where
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
