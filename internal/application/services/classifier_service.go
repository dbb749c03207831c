package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/codexmed/t2a-assistant/internal/catalog"
	"github.com/codexmed/t2a-assistant/internal/domain/entities"
	"github.com/codexmed/t2a-assistant/internal/domain/repositories"
	"github.com/codexmed/t2a-assistant/internal/infrastructure/observability"
)

// ClassifierStats summarizes one classification run.
type ClassifierStats struct {
	SourceCodes     int `json:"source_codes"`
	TotalPairs      int `json:"total_pairs"`
	Kept            int `json:"kept"`
	RemovedSelfRef  int `json:"removed_self_ref"`
	RemovedNotFound int `json:"removed_not_found"`
	RemovedExpired  int `json:"removed_expired"`
	Verified        int `json:"verified"`
	SameChapter     int `json:"same_chapter"`
	CrossChapter    int `json:"cross_chapter"`
}

// ClassifierService validates raw observed association candidates against
// the catalog and assigns confidence tiers. It is the sole writer of the
// observed association table; a run builds the complete new edge set before
// anything is published.
type ClassifierService struct {
	writer repositories.AssociationWriteRepository
}

// NewClassifierService creates a new classifier service.
func NewClassifierService(writer repositories.AssociationWriteRepository) *ClassifierService {
	return &ClassifierService{writer: writer}
}

// ruleOutcome is the decision of one classification rule.
type ruleOutcome struct {
	discard    bool
	reason     string
	confidence entities.ConfidenceTier
}

// ruleInput carries everything a rule may inspect for one candidate pair.
type ruleInput struct {
	snap   *catalog.Snapshot
	source *entities.ProcedureCode
	code   string
	target *entities.ProcedureCode
}

// classifierRule tags or discards one candidate pair. Rules are evaluated in
// fixed order and the first match wins.
type classifierRule struct {
	name  string
	apply func(in ruleInput) (ruleOutcome, bool)
}

var classifierRules = []classifierRule{
	{"self_reference", func(in ruleInput) (ruleOutcome, bool) {
		if in.code == in.source.Code {
			return ruleOutcome{discard: true, reason: "self_reference"}, true
		}
		return ruleOutcome{}, false
	}},
	{"not_found", func(in ruleInput) (ruleOutcome, bool) {
		if in.target == nil {
			return ruleOutcome{discard: true, reason: "not_found"}, true
		}
		return ruleOutcome{}, false
	}},
	{"expired", func(in ruleInput) (ruleOutcome, bool) {
		if in.target.Expired() {
			return ruleOutcome{discard: true, reason: "expired"}, true
		}
		return ruleOutcome{}, false
	}},
	{"verified", func(in ruleInput) (ruleOutcome, bool) {
		if in.snap.HasEdgeTo(in.source.Code, in.code) {
			return ruleOutcome{confidence: entities.ConfidenceVerified}, true
		}
		return ruleOutcome{}, false
	}},
	{"same_chapter", func(in ruleInput) (ruleOutcome, bool) {
		if in.source.ChapterNum != "" && in.target.ChapterNum != "" && in.source.ChapterNum == in.target.ChapterNum {
			return ruleOutcome{confidence: entities.ConfidenceSameChapter}, true
		}
		return ruleOutcome{}, false
	}},
	{"cross_chapter", func(in ruleInput) (ruleOutcome, bool) {
		return ruleOutcome{confidence: entities.ConfidenceCrossChapter}, true
	}},
}

// Classify validates every candidate pair against the snapshot and returns
// the classified, ranked observed association set. Source codes with zero
// surviving candidates produce no rows at all. The function is pure and
// idempotent: identical inputs yield identical rows and ranks.
func (s *ClassifierService) Classify(ctx context.Context, snap *catalog.Snapshot, candidates CandidateSet) ([]entities.ObservedAssociation, *ClassifierStats) {
	logger := observability.LoggerFromContext(ctx)
	stats := &ClassifierStats{}

	sourceCodes := make([]string, 0, len(candidates))
	for code := range candidates {
		sourceCodes = append(sourceCodes, code)
	}
	sort.Strings(sourceCodes)

	var result []entities.ObservedAssociation
	for _, sourceCode := range sourceCodes {
		source, ok := snap.Get(sourceCode)
		if !ok {
			logger.Warn().Str("code", sourceCode).Msg("skipping candidates of unknown source code")
			continue
		}

		var survivors []entities.ObservedAssociation
		seen := make(map[string]struct{})
		for _, cand := range candidates[sourceCode] {
			stats.TotalPairs++
			code := entities.CanonicalCode(cand.Code)
			if _, dup := seen[code]; dup {
				continue
			}

			target, _ := snap.Get(code)
			outcome := classify(ruleInput{snap: snap, source: source, code: code, target: target})
			if outcome.discard {
				stats.countDiscard(outcome.reason)
				if outcome.reason != "self_reference" {
					logger.Info().
						Str("source", sourceCode).
						Str("candidate", code).
						Str("reason", outcome.reason).
						Msg("discarding observed association candidate")
				}
				continue
			}

			seen[code] = struct{}{}
			stats.countKept(outcome.confidence)
			row := entities.ObservedAssociation{
				Code:           sourceCode,
				AssociatedCode: code,
				Label:          cand.Label,
				Confidence:     outcome.confidence,
			}
			if row.Label == "" {
				row.Label = target.Label
			}
			row.ICRPublic = target.ICRPublic
			survivors = append(survivors, row)
		}

		if len(survivors) == 0 {
			continue
		}
		stats.SourceCodes++

		// Strongest confidence first, then highest cost weight. The sort is
		// stable so equal candidates keep their source order across runs.
		sort.SliceStable(survivors, func(i, j int) bool {
			a, b := survivors[i], survivors[j]
			if a.Confidence.SortOrder() != b.Confidence.SortOrder() {
				return a.Confidence.SortOrder() < b.Confidence.SortOrder()
			}
			return icrOrZero(a.ICRPublic) > icrOrZero(b.ICRPublic)
		})
		for i := range survivors {
			survivors[i].Rank = i + 1
		}
		result = append(result, survivors...)
	}

	return result, stats
}

// Run executes a full classification: classify against the active snapshot,
// replace the observed table, then rebuild and swap in a fresh snapshot so
// readers only ever see the complete new edge set.
func (s *ClassifierService) Run(ctx context.Context, store *catalog.Store, repo repositories.CatalogRepository, candidates CandidateSet) (*ClassifierStats, error) {
	observed, stats := s.Classify(ctx, store.Current(), candidates)

	if err := s.writer.ReplaceObserved(ctx, observed); err != nil {
		return nil, fmt.Errorf("failed to publish observed associations: %w", err)
	}

	snap, err := catalog.Load(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild snapshot after classification: %w", err)
	}
	store.Swap(snap)

	observability.LoggerFromContext(ctx).Info().
		Int("source_codes", stats.SourceCodes).
		Int("kept", stats.Kept).
		Int("discarded", stats.TotalPairs-stats.Kept).
		Msg("observed association classification published")
	return stats, nil
}

func classify(in ruleInput) ruleOutcome {
	for _, rule := range classifierRules {
		if outcome, matched := rule.apply(in); matched {
			return outcome
		}
	}
	// The cross_chapter rule matches unconditionally.
	return ruleOutcome{confidence: entities.ConfidenceCrossChapter}
}

func (st *ClassifierStats) countDiscard(reason string) {
	switch reason {
	case "self_reference":
		st.RemovedSelfRef++
	case "not_found":
		st.RemovedNotFound++
	case "expired":
		st.RemovedExpired++
	}
}

func (st *ClassifierStats) countKept(confidence entities.ConfidenceTier) {
	st.Kept++
	switch confidence {
	case entities.ConfidenceVerified:
		st.Verified++
	case entities.ConfidenceSameChapter:
		st.SameChapter++
	case entities.ConfidenceCrossChapter:
		st.CrossChapter++
	}
}

func icrOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
