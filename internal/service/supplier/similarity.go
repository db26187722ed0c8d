package supplier

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
	"github.com/heartmarshall/ledgerlens-backend/pkg/ctxutil"
)

// Candidate is an existing supplier whose name resembles a proposed one.
type Candidate struct {
	SupplierID uuid.UUID
	Name       string
	TaxID      string
	Similarity float64
}

// Similarity is the Jaccard index of the lower-cased word sets of a and b.
// Equal names score 1; an empty name scores 0.
func Similarity(a, b string) float64 {
	na, nb := normalizeName(a), normalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	wa, wb := wordSet(na), wordSet(nb)
	inter := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			inter++
		}
	}
	union := len(wa) + len(wb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

// rankCandidates scores name against known suppliers and keeps those at or
// above threshold, most similar first, capped at limit.
func rankCandidates(name string, known []domain.Supplier, exclude uuid.UUID, threshold float64, limit int) []Candidate {
	out := make([]Candidate, 0)
	for _, s := range known {
		if s.ID == exclude {
			continue
		}
		sim := Similarity(name, s.Name)
		if sim < threshold {
			continue
		}
		out = append(out, Candidate{SupplierID: s.ID, Name: s.Name, TaxID: s.TaxID, Similarity: math.Round(sim*1000) / 1000})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CheckDuplicate returns existing suppliers of the caller's org whose names
// resemble name at or above the warning threshold.
func (s *Service) CheckDuplicate(ctx context.Context, input CheckDuplicateInput) ([]Candidate, error) {
	caller, ok := ctxutil.CallerFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	known, err := s.suppliers.ListByOrg(ctx, caller.OrgID, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return rankCandidates(input.Name, known, input.ExcludeID, s.cfg.WarnThreshold, s.cfg.MaxCandidates), nil
}
