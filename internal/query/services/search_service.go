package services

import (
	"context"
	"sort"
	"strings"

	"github.com/codexmed/t2a-assistant/internal/catalog"
	"github.com/codexmed/t2a-assistant/internal/domain/entities"
	"github.com/codexmed/t2a-assistant/internal/infrastructure/observability"
	"github.com/codexmed/t2a-assistant/pkg/textnorm"
)

// DefaultSearchLimit caps result sets when the caller does not ask for a
// specific size.
const DefaultSearchLimit = 10

// SearchParams defines parameters for a catalog search.
type SearchParams struct {
	Query      string
	Limit      int
	ActiveOnly bool
}

// SearchService resolves free-text queries against the active catalog
// snapshot. It is read-only and safe for concurrent use.
type SearchService struct {
	store   *catalog.Store
	metrics *observability.Metrics
	tiers   []searchTier
}

// NewSearchService creates a new search service.
func NewSearchService(store *catalog.Store, metrics *observability.Metrics) *SearchService {
	s := &SearchService{store: store, metrics: metrics}
	// Fallback tiers, evaluated in order until one yields results. Adding a
	// tier (fuzzy matching, say) means appending one entry here.
	s.tiers = []searchTier{
		{name: "conjunctive", skip: never, match: matchAllTokens},
		{name: "disjunctive", skip: singleToken, match: matchAnyToken},
		{name: "substring", skip: never, match: matchOrderedSubstring},
	}
	return s
}

// Search resolves a free-text query through the tier chain. A query that
// normalizes to zero tokens returns an empty result without attempting any
// tier.
func (s *SearchService) Search(ctx context.Context, params SearchParams) []entities.SearchHit {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	tokens := textnorm.Tokens(params.Query)
	if len(tokens) == 0 {
		return []entities.SearchHit{}
	}

	snap := s.store.Current()
	for _, tier := range s.tiers {
		if tier.skip(tokens) {
			continue
		}
		matches := tier.match(snap, tokens, params.ActiveOnly, limit)
		if len(matches) == 0 {
			continue
		}
		observability.RecordSearchTierMetric(ctx, s.metrics, tier.name)

		hits := make([]entities.SearchHit, len(matches))
		for i, p := range matches {
			hits[i] = entities.SearchHit{
				ProcedureCode:    p,
				AssociationCount: snap.AssociationCount(p.Code),
			}
		}
		return hits
	}

	return []entities.SearchHit{}
}

// searchTier is one fallback strategy: a pure function from tokens to a
// capped, ordered result set.
type searchTier struct {
	name  string
	skip  func(tokens []string) bool
	match func(snap *catalog.Snapshot, tokens []string, activeOnly bool, limit int) []*entities.ProcedureCode
}

func never([]string) bool { return false }

func singleToken(tokens []string) bool { return len(tokens) <= 1 }

// scored pairs a catalog entry with its relevance signals. Ordering is total:
// ties fall through to label length and finally the code itself.
type scored struct {
	entry       *entities.ProcedureCode
	coverage    int
	occurrences int
}

func rankScored(matches []scored, limit int) []*entities.ProcedureCode {
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.coverage != b.coverage {
			return a.coverage > b.coverage
		}
		if a.occurrences != b.occurrences {
			return a.occurrences > b.occurrences
		}
		if len(a.entry.LabelNormalized) != len(b.entry.LabelNormalized) {
			return len(a.entry.LabelNormalized) < len(b.entry.LabelNormalized)
		}
		return a.entry.Code < b.entry.Code
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]*entities.ProcedureCode, len(matches))
	for i, m := range matches {
		out[i] = m.entry
	}
	return out
}

// matchAllTokens requires every token to appear in the normalized label.
func matchAllTokens(snap *catalog.Snapshot, tokens []string, activeOnly bool, limit int) []*entities.ProcedureCode {
	var matches []scored
	snap.Each(func(p *entities.ProcedureCode) bool {
		if activeOnly && p.Expired() {
			return true
		}
		occurrences := 0
		for _, t := range tokens {
			n := strings.Count(p.LabelNormalized, t)
			if n == 0 {
				return true
			}
			occurrences += n
		}
		matches = append(matches, scored{entry: p, coverage: len(tokens), occurrences: occurrences})
		return true
	})
	return rankScored(matches, limit)
}

// matchAnyToken requires at least one token to appear; coverage (distinct
// tokens matched) dominates the ranking.
func matchAnyToken(snap *catalog.Snapshot, tokens []string, activeOnly bool, limit int) []*entities.ProcedureCode {
	var matches []scored
	snap.Each(func(p *entities.ProcedureCode) bool {
		if activeOnly && p.Expired() {
			return true
		}
		coverage, occurrences := 0, 0
		for _, t := range tokens {
			n := strings.Count(p.LabelNormalized, t)
			if n > 0 {
				coverage++
				occurrences += n
			}
		}
		if coverage == 0 {
			return true
		}
		matches = append(matches, scored{entry: p, coverage: coverage, occurrences: occurrences})
		return true
	})
	return rankScored(matches, limit)
}

// matchOrderedSubstring requires all tokens to appear in the label in their
// original order, with anything in between. Results keep catalog order.
func matchOrderedSubstring(snap *catalog.Snapshot, tokens []string, activeOnly bool, limit int) []*entities.ProcedureCode {
	var matches []*entities.ProcedureCode
	snap.Each(func(p *entities.ProcedureCode) bool {
		if activeOnly && p.Expired() {
			return true
		}
		if containsInOrder(p.LabelNormalized, tokens) {
			matches = append(matches, p)
		}
		return len(matches) < limit
	})
	return matches
}

func containsInOrder(label string, tokens []string) bool {
	rest := label
	for _, t := range tokens {
		idx := strings.Index(rest, t)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(t):]
	}
	return true
}
