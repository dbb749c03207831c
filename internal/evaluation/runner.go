package evaluation

import (
	"context"
	"time"

	"github.com/codexmed/t2a-assistant/internal/domain/entities"
	queryservices "github.com/codexmed/t2a-assistant/internal/query/services"
)

// SearchResultProvider is the slice of the search service the runner needs.
type SearchResultProvider interface {
	Search(ctx context.Context, params queryservices.SearchParams) []entities.SearchHit
}

// Runner runs evaluation across a set of golden queries.
type Runner struct {
	searchService SearchResultProvider
}

func NewRunner(svc SearchResultProvider) *Runner {
	return &Runner{searchService: svc}
}

func (r *Runner) Run(ctx context.Context, queries []GoldenQuery) *EvalSummary {
	summary := &EvalSummary{
		TotalQueries: len(queries),
		ByDifficulty: make(map[string]*DifficultySummary),
	}

	for _, gq := range queries {
		start := time.Now()
		hits := r.searchService.Search(ctx, queryservices.SearchParams{
			Query: gq.Query,
			Limit: 10,
		})
		duration := time.Since(start)

		retrieved := make([]string, len(hits))
		for i, hit := range hits {
			retrieved[i] = hit.Code
		}

		r.updateSummary(summary, EvalResult{
			QueryID:        gq.ID,
			Query:          gq.Query,
			Difficulty:     gq.Difficulty,
			RecallAt10:     RecallAtK(gq.ExpectedCodes, retrieved, 10),
			MRRAt10:        MRRAtK(gq.ExpectedCodes, retrieved, 10),
			ResultCount:    len(hits),
			RetrievedCodes: retrieved,
			Latency:        duration,
		})
	}

	r.finalizeSummary(summary)
	return summary
}

func (r *Runner) updateSummary(s *EvalSummary, res EvalResult) {
	s.AvgRecallAt10 += res.RecallAt10
	s.AvgMRRAt10 += res.MRRAt10
	s.AvgLatency += res.Latency
	if res.ResultCount > 0 {
		s.QueriesWithHits++
	}

	if _, ok := s.ByDifficulty[res.Difficulty]; !ok {
		s.ByDifficulty[res.Difficulty] = &DifficultySummary{}
	}
	ds := s.ByDifficulty[res.Difficulty]
	ds.Count++
	ds.AvgRecallAt10 += res.RecallAt10
	ds.AvgMRRAt10 += res.MRRAt10
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	if s.TotalQueries > 0 {
		n := float64(s.TotalQueries)
		s.AvgRecallAt10 /= n
		s.AvgMRRAt10 /= n
		s.AvgLatency /= time.Duration(s.TotalQueries)
	}

	for _, ds := range s.ByDifficulty {
		if ds.Count > 0 {
			n := float64(ds.Count)
			ds.AvgRecallAt10 /= n
			ds.AvgMRRAt10 /= n
		}
	}
}
