package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexmed/t2a-assistant/internal/catalog"
	"github.com/codexmed/t2a-assistant/internal/domain/entities"
	queryservices "github.com/codexmed/t2a-assistant/internal/query/services"
)

func floatPtr(v float64) *float64 { return &v }

// newCatalogStore builds a small dental-radiology catalog used across the
// query service tests.
func newCatalogStore(t *testing.T) *catalog.Store {
	t.Helper()
	b := catalog.NewBuilder()

	end := time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)
	codes := []*entities.ProcedureCode{
		{Code: "HBQK389", Label: "Radiographie du crâne", ChapterNum: "11"},
		{Code: "HBQK040", Label: "Radiographie panoramique dentomaxillaire", ChapterNum: "11", TarifBase: floatPtr(21.28)},
		{Code: "HBQK061", Label: "Radiographie dentaire rétroalvéolaire", ChapterNum: "11", DateEnd: &end},
		{Code: "HBGD027", Label: "Avulsion d'une dent sur arcade", ChapterNum: "11", ICRPublic: floatPtr(20)},
		{Code: "HBGD035", Label: "Avulsion de 2 dents sur arcade", ChapterNum: "11", ICRPublic: floatPtr(45)},
		{Code: "ZZLP025", Label: "Anesthésie générale", ChapterNum: "18", ICRPublic: floatPtr(10)},
	}
	for _, p := range codes {
		require.NoError(t, b.AddCode(p))
	}

	b.AddEdge(entities.AssociationEdge{
		Code: "HBGD035", AssociatedCode: "HBGD027",
		AssociationType: entities.AssociationTypeGesture, Activity: "text",
	})
	b.AddEdge(entities.AssociationEdge{
		Code: "HBGD035", AssociatedCode: "ZZLP025",
		AssociationType: entities.AssociationTypeAnesthesia, Activity: "anesthesia",
	})
	b.AddObserved(entities.ObservedAssociation{
		Code: "HBGD035", AssociatedCode: "HBQK040",
		Label: "Radiographie panoramique dentomaxillaire",
		Confidence: entities.ConfidenceSameChapter, Rank: 1,
	})
	return catalog.NewStore(b.Build())
}

func TestSearch_ConjunctiveTierWins(t *testing.T) {
	svc := queryservices.NewSearchService(newCatalogStore(t), nil)

	hits := svc.Search(context.Background(), queryservices.SearchParams{Query: "radiographie dentaire"})
	require.Len(t, hits, 1)
	assert.Equal(t, "HBQK061", hits[0].Code)
}

func TestSearch_AccentAndCaseInsensitive(t *testing.T) {
	svc := queryservices.NewSearchService(newCatalogStore(t), nil)

	hits := svc.Search(context.Background(), queryservices.SearchParams{Query: "ANESTHESIE GENERALE"})
	require.Len(t, hits, 1)
	assert.Equal(t, "ZZLP025", hits[0].Code)
}

func TestSearch_DisjunctiveFallback(t *testing.T) {
	svc := queryservices.NewSearchService(newCatalogStore(t), nil)

	// No label contains both tokens; the disjunctive tier catches labels
	// matching either one.
	hits := svc.Search(context.Background(), queryservices.SearchParams{Query: "avulsion anesthesie"})
	require.Len(t, hits, 3)
	for _, hit := range hits {
		assert.Contains(t, []string{"HBGD027", "HBGD035", "ZZLP025"}, hit.Code)
	}
}

func TestSearch_NoDisjunctiveForSingleToken(t *testing.T) {
	svc := queryservices.NewSearchService(newCatalogStore(t), nil)

	// A single absent token must not produce partial matches.
	hits := svc.Search(context.Background(), queryservices.SearchParams{Query: "scanner"})
	assert.Empty(t, hits)
}

func TestSearch_ZeroTokensReturnsEmpty(t *testing.T) {
	svc := queryservices.NewSearchService(newCatalogStore(t), nil)

	// Tokens of length <= 2 are dropped in multi-token queries; "de la" is
	// nothing but droppable tokens.
	assert.Empty(t, svc.Search(context.Background(), queryservices.SearchParams{Query: "?? !!"}))
}

func TestSearch_ActiveOnlyExcludesExpired(t *testing.T) {
	svc := queryservices.NewSearchService(newCatalogStore(t), nil)

	all := svc.Search(context.Background(), queryservices.SearchParams{Query: "radiographie"})
	require.Len(t, all, 3)

	active := svc.Search(context.Background(), queryservices.SearchParams{Query: "radiographie", ActiveOnly: true})
	require.Len(t, active, 2)
	for _, hit := range active {
		assert.NotEqual(t, "HBQK061", hit.Code)
	}
}

func TestSearch_LimitCapsResults(t *testing.T) {
	svc := queryservices.NewSearchService(newCatalogStore(t), nil)

	hits := svc.Search(context.Background(), queryservices.SearchParams{Query: "radiographie", Limit: 1})
	assert.Len(t, hits, 1)
}

func TestSearch_RankingIsTotalAndDeterministic(t *testing.T) {
	svc := queryservices.NewSearchService(newCatalogStore(t), nil)

	// Same coverage, occurrences and label length; the code itself is the
	// final tie-break, so the order is stable across runs.
	hits := svc.Search(context.Background(), queryservices.SearchParams{Query: "avulsion arcade"})
	require.Len(t, hits, 2)
	assert.Equal(t, "HBGD027", hits[0].Code)
	assert.Equal(t, "HBGD035", hits[1].Code)
}

func TestSearch_HitsCarryAssociationCount(t *testing.T) {
	svc := queryservices.NewSearchService(newCatalogStore(t), nil)

	hits := svc.Search(context.Background(), queryservices.SearchParams{Query: "avulsion dents"})
	require.Len(t, hits, 1)
	assert.Equal(t, "HBGD035", hits[0].Code)
	// Two declared edges plus one observed association.
	assert.Equal(t, 3, hits[0].AssociationCount)
}

func TestSearch_DecoratedScenario(t *testing.T) {
	b := catalog.NewBuilder()
	require.NoError(t, b.AddCode(&entities.ProcedureCode{
		Code: "AAAA001", Label: "acte test chirurgical", ChapterNum: "01",
	}))
	require.NoError(t, b.AddCode(&entities.ProcedureCode{
		Code: "BBBB002", Label: "geste complémentaire", ChapterNum: "01",
	}))
	b.AddEdge(entities.AssociationEdge{
		Code: "AAAA001", AssociatedCode: "BBBB002",
		AssociationType: entities.AssociationTypeGesture, Activity: "text",
	})
	svc := queryservices.NewSearchService(catalog.NewStore(b.Build()), nil)

	hits := svc.Search(context.Background(), queryservices.SearchParams{Query: "acte test"})
	require.Len(t, hits, 1)
	assert.Equal(t, "AAAA001", hits[0].Code)
	assert.Equal(t, 1, hits[0].AssociationCount)
}
