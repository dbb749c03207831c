// Package evaluation measures search quality against a golden query set:
// labeled free-text queries with the catalog codes an expert expects back.
package evaluation

import "time"

// GoldenQuery represents a labeled test query with expected outcomes.
type GoldenQuery struct {
	ID            string   `json:"id"`
	Query         string   `json:"query"`
	ExpectedCodes []string `json:"expected_codes"`
	Difficulty    string   `json:"difficulty"` // easy, medium, hard
}

// EvalResult holds the evaluation outcome for a single query.
type EvalResult struct {
	QueryID        string
	Query          string
	Difficulty     string
	RecallAt10     float64
	MRRAt10        float64
	ResultCount    int
	RetrievedCodes []string
	Latency        time.Duration
}

// DifficultySummary aggregates metrics for one difficulty bucket.
type DifficultySummary struct {
	Count         int
	AvgRecallAt10 float64
	AvgMRRAt10    float64
}

// EvalSummary aggregates metrics across a whole golden set run.
type EvalSummary struct {
	TotalQueries    int
	QueriesWithHits int
	AvgRecallAt10   float64
	AvgMRRAt10      float64
	AvgLatency      time.Duration
	ByDifficulty    map[string]*DifficultySummary
}
