package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexmed/t2a-assistant/internal/application/services"
	"github.com/codexmed/t2a-assistant/internal/catalog"
	"github.com/codexmed/t2a-assistant/internal/domain/entities"
)

func floatPtr(v float64) *float64 { return &v }

func buildTestSnapshot(t *testing.T) *catalog.Snapshot {
	t.Helper()
	b := catalog.NewBuilder()

	codes := []*entities.ProcedureCode{
		{Code: "HBQK040", Label: "radiographie panoramique", ChapterNum: "11"},
		{Code: "HBGD027", Label: "avulsion dent", ChapterNum: "11", ICRPublic: floatPtr(20)},
		{Code: "HBGD035", Label: "avulsion dents multiples", ChapterNum: "11", ICRPublic: floatPtr(45)},
		{Code: "ZZLP025", Label: "anesthésie générale", ChapterNum: "18", ICRPublic: floatPtr(10)},
		{Code: "GELE001", Label: "acte expiré", ChapterNum: "06"},
	}
	end := time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)
	codes[4].DateEnd = &end

	for _, p := range codes {
		require.NoError(t, b.AddCode(p))
	}
	b.AddEdge(entities.AssociationEdge{
		Code: "HBQK040", AssociatedCode: "HBGD027",
		AssociationType: entities.AssociationTypeGesture, Activity: "text",
	})
	return b.Build()
}

func TestClassify_RuleChain(t *testing.T) {
	snap := buildTestSnapshot(t)
	svc := services.NewClassifierService(nil)

	candidates := services.CandidateSet{
		"HBQK040": {
			{Code: "HBQK040"},          // self reference, discarded
			{Code: "XXXX999"},          // unknown, discarded
			{Code: "GELE001"},          // expired, discarded
			{Code: "HBGD027"},          // declared edge target: verified
			{Code: "HBGD035"},          // same chapter
			{Code: "ZZLP025"},          // different chapter
		},
	}

	observed, stats := svc.Classify(context.Background(), snap, candidates)
	require.Len(t, observed, 3)

	assert.Equal(t, 1, stats.RemovedSelfRef)
	assert.Equal(t, 1, stats.RemovedNotFound)
	assert.Equal(t, 1, stats.RemovedExpired)
	assert.Equal(t, 3, stats.Kept)
	assert.Equal(t, 6, stats.TotalPairs)
	assert.Equal(t, 1, stats.SourceCodes)

	assert.Equal(t, entities.ConfidenceVerified, observed[0].Confidence)
	assert.Equal(t, "HBGD027", observed[0].AssociatedCode)
	assert.Equal(t, entities.ConfidenceSameChapter, observed[1].Confidence)
	assert.Equal(t, "HBGD035", observed[1].AssociatedCode)
	assert.Equal(t, entities.ConfidenceCrossChapter, observed[2].Confidence)
	assert.Equal(t, "ZZLP025", observed[2].AssociatedCode)
}

func TestClassify_RanksAreContiguous(t *testing.T) {
	snap := buildTestSnapshot(t)
	svc := services.NewClassifierService(nil)

	candidates := services.CandidateSet{
		"HBQK040": {
			{Code: "XXXX999"}, // discarded, must not leave a rank hole
			{Code: "HBGD035"},
			{Code: "ZZLP025"},
		},
	}

	observed, _ := svc.Classify(context.Background(), snap, candidates)
	require.Len(t, observed, 2)
	assert.Equal(t, 1, observed[0].Rank)
	assert.Equal(t, 2, observed[1].Rank)
}

func TestClassify_OrdersByICRWithinTier(t *testing.T) {
	snap := buildTestSnapshot(t)
	svc := services.NewClassifierService(nil)

	// Both same-chapter; HBGD035 has the higher cost weight.
	candidates := services.CandidateSet{
		"ZZLP025": {
			{Code: "HBGD027"},
			{Code: "HBGD035"},
		},
	}

	observed, _ := svc.Classify(context.Background(), snap, candidates)
	require.Len(t, observed, 2)
	assert.Equal(t, "HBGD035", observed[0].AssociatedCode)
	assert.Equal(t, "HBGD027", observed[1].AssociatedCode)
}

func TestClassify_ZeroSurvivorSourceOmitted(t *testing.T) {
	snap := buildTestSnapshot(t)
	svc := services.NewClassifierService(nil)

	candidates := services.CandidateSet{
		"HBQK040": {{Code: "XXXX999"}, {Code: "HBQK040"}},
	}

	observed, stats := svc.Classify(context.Background(), snap, candidates)
	assert.Empty(t, observed)
	assert.Equal(t, 0, stats.SourceCodes)
}

func TestClassify_FillsLabelFromCatalog(t *testing.T) {
	snap := buildTestSnapshot(t)
	svc := services.NewClassifierService(nil)

	candidates := services.CandidateSet{
		"HBQK040": {
			{Code: "HBGD027"},
			{Code: "HBGD035", Label: "libellé fourni"},
		},
	}

	observed, _ := svc.Classify(context.Background(), snap, candidates)
	require.Len(t, observed, 2)
	assert.Equal(t, "avulsion dent", observed[0].Label)
	assert.Equal(t, "libellé fourni", observed[1].Label)
}

func TestClassify_CanonicalizesCandidateCodes(t *testing.T) {
	snap := buildTestSnapshot(t)
	svc := services.NewClassifierService(nil)

	candidates := services.CandidateSet{
		"HBQK040": {{Code: " hbgd027 "}},
	}

	observed, _ := svc.Classify(context.Background(), snap, candidates)
	require.Len(t, observed, 1)
	assert.Equal(t, "HBGD027", observed[0].AssociatedCode)
	assert.Equal(t, entities.ConfidenceVerified, observed[0].Confidence)
}

func TestClassify_DeterministicAcrossRuns(t *testing.T) {
	snap := buildTestSnapshot(t)
	svc := services.NewClassifierService(nil)

	candidates := services.CandidateSet{
		"HBQK040": {{Code: "HBGD035"}, {Code: "ZZLP025"}, {Code: "HBGD027"}},
		"HBGD027": {{Code: "HBGD035"}},
	}

	first, _ := svc.Classify(context.Background(), snap, candidates)
	second, _ := svc.Classify(context.Background(), snap, candidates)
	assert.Equal(t, first, second)
}
