package services

import (
	"context"

	"github.com/codexmed/t2a-assistant/internal/catalog"
	"github.com/codexmed/t2a-assistant/internal/domain/entities"
)

// CompatibilityService validates a candidate set of codes for existence,
// currency and declared interactions. Only authoritative edges count as
// associations here; observed associations are deliberately not consulted.
type CompatibilityService struct {
	store *catalog.Store
}

// NewCompatibilityService creates a new compatibility service.
func NewCompatibilityService(store *catalog.Store) *CompatibilityService {
	return &CompatibilityService{store: store}
}

// Check inspects each input code and every unordered pair. Input codes are
// not deduplicated: a code listed twice is checked against itself as well as
// the others, which callers must expect. An empty issue list is replaced by
// a single ok issue.
func (s *CompatibilityService) Check(ctx context.Context, codes []string) []entities.Issue {
	snap := s.store.Current()
	issues := []entities.Issue{}

	canonical := make([]string, len(codes))
	for i, code := range codes {
		canonical[i] = entities.CanonicalCode(code)
	}

	for _, code := range canonical {
		if !entities.ValidCode(code) {
			issues = append(issues, entities.NewInvalidCodeIssue(code))
			continue
		}
		p, ok := snap.Get(code)
		if !ok {
			issues = append(issues, entities.NewUnknownCodeIssue(code))
			continue
		}
		if p.Expired() {
			issues = append(issues, entities.NewExpiredCodeIssue(p))
		}
	}

	for i := 0; i < len(canonical); i++ {
		for j := i + 1; j < len(canonical); j++ {
			issues = append(issues, s.pairIssues(snap, canonical[i], canonical[j])...)
			issues = append(issues, s.pairIssues(snap, canonical[j], canonical[i])...)
		}
	}

	if len(issues) == 0 {
		issues = append(issues, entities.NewOKIssue())
	}
	return issues
}

// pairIssues reports every declared edge from source to target.
func (s *CompatibilityService) pairIssues(snap *catalog.Snapshot, source, target string) []entities.Issue {
	var issues []entities.Issue
	for _, edge := range snap.EdgesFrom(source) {
		if edge.AssociatedCode == target {
			issues = append(issues, entities.NewAssociationIssue(edge))
		}
	}
	return issues
}
