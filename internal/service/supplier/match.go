package supplier

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

// Match confidences per strategy.
const (
	TaxIDConfidence       = 0.98
	ExactNameConfidence   = 0.95
	PartialNameConfidence = 0.75
)

// MatchResult is the outcome of resolving an extracted supplier.
type MatchResult struct {
	SupplierID *uuid.UUID
	Confidence float64
	Method     domain.MatchMethod
}

// Matched reports whether a known supplier was found.
func (m MatchResult) Matched() bool { return m.SupplierID != nil }

type query struct {
	name  string
	taxID string
}

// strategy inspects the candidates and returns the first hit, if any.
type strategy struct {
	method     domain.MatchMethod
	confidence float64
	hit        func(q query, s domain.Supplier) bool
}

// strategies are tried in order; the first strategy with any hit wins.
var strategies = []strategy{
	{
		method:     domain.MatchMethodTaxID,
		confidence: TaxIDConfidence,
		hit: func(q query, s domain.Supplier) bool {
			return q.taxID != "" && normalizeTaxID(s.TaxID) == q.taxID
		},
	},
	{
		method:     domain.MatchMethodExactName,
		confidence: ExactNameConfidence,
		hit: func(q query, s domain.Supplier) bool {
			return q.name != "" && normalizeName(s.Name) == q.name
		},
	},
	{
		method:     domain.MatchMethodPartialName,
		confidence: PartialNameConfidence,
		hit: func(q query, s domain.Supplier) bool {
			n := normalizeName(s.Name)
			return q.name != "" && n != "" && (strings.Contains(n, q.name) || strings.Contains(q.name, n))
		},
	},
}

// Match resolves an extracted name and tax id against known suppliers.
// Strategies: exact tax id, case-insensitive exact name, case-insensitive
// substring in either direction. Suppliers are never created here.
func Match(name, taxID string, known []domain.Supplier) MatchResult {
	q := query{name: normalizeName(name), taxID: normalizeTaxID(taxID)}

	for _, st := range strategies {
		for _, s := range known {
			if st.hit(q, s) {
				id := s.ID
				return MatchResult{SupplierID: &id, Confidence: st.confidence, Method: st.method}
			}
		}
	}
	return MatchResult{Method: domain.MatchMethodNoMatch}
}

// Resolve matches an extracted supplier against the suppliers of orgID only.
func (s *Service) Resolve(ctx context.Context, orgID uuid.UUID, name, taxID string) (MatchResult, error) {
	if strings.TrimSpace(name) == "" && strings.TrimSpace(taxID) == "" {
		return MatchResult{Method: domain.MatchMethodNoMatch}, nil
	}

	known, err := s.suppliers.ListByOrg(ctx, orgID, "", 0, 0)
	if err != nil {
		return MatchResult{}, fmt.Errorf("list suppliers: %w", err)
	}
	return Match(name, taxID, known), nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeTaxID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
