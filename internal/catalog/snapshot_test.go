package catalog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexmed/t2a-assistant/internal/catalog"
	"github.com/codexmed/t2a-assistant/internal/domain/entities"
)

func strPtr(s string) *string { return &s }

func TestBuilderAddCode_RecomputesNormalizedLabel(t *testing.T) {
	b := catalog.NewBuilder()
	err := b.AddCode(&entities.ProcedureCode{
		Code:            "HBQK040",
		Label:           "Radiographie panoramique",
		LabelNormalized: "stale value from an old normalizer",
	})
	require.NoError(t, err)

	snap := b.Build()
	p, ok := snap.Get("HBQK040")
	require.True(t, ok)
	assert.Equal(t, "radiographie panoramique", p.LabelNormalized)
}

func TestBuilderAddCode_RejectsInvalid(t *testing.T) {
	b := catalog.NewBuilder()
	assert.Error(t, b.AddCode(&entities.ProcedureCode{Code: "hbqk040", Label: "lowercase"}))
	assert.Error(t, b.AddCode(&entities.ProcedureCode{Code: "HBQK40", Label: "too short"}))
	assert.Error(t, b.AddCode(&entities.ProcedureCode{Code: "", Label: "empty"}))
}

func TestBuilderAddCode_DuplicateKeepsOrderSlot(t *testing.T) {
	b := catalog.NewBuilder()
	require.NoError(t, b.AddCode(&entities.ProcedureCode{Code: "AAAA001", Label: "first"}))
	require.NoError(t, b.AddCode(&entities.ProcedureCode{Code: "BBBB002", Label: "second"}))
	require.NoError(t, b.AddCode(&entities.ProcedureCode{Code: "AAAA001", Label: "replacement"}))

	snap := b.Build()
	assert.Equal(t, 2, snap.Len())

	var order []string
	snap.Each(func(p *entities.ProcedureCode) bool {
		order = append(order, p.Code)
		return true
	})
	assert.Equal(t, []string{"AAAA001", "BBBB002"}, order)

	p, _ := snap.Get("AAAA001")
	assert.Equal(t, "replacement", p.Label)
}

func TestBuilderAddChapter_HierarchyValidation(t *testing.T) {
	b := catalog.NewBuilder()

	require.NoError(t, b.AddChapter(&entities.Chapter{Num: "11", Title: "Appareil digestif", Level: 0}))

	// Root with a parent is inconsistent.
	assert.Error(t, b.AddChapter(&entities.Chapter{Num: "12", Level: 0, ParentNum: strPtr("11")}))

	// Child must reference a registered parent of the shallower level.
	assert.Error(t, b.AddChapter(&entities.Chapter{Num: "11.01", Level: 1}))
	assert.Error(t, b.AddChapter(&entities.Chapter{Num: "11.01", Level: 1, ParentNum: strPtr("99")}))
	require.NoError(t, b.AddChapter(&entities.Chapter{Num: "11.01", Level: 1, ParentNum: strPtr("11")}))

	// Skipping a level is rejected.
	assert.Error(t, b.AddChapter(&entities.Chapter{Num: "11.01.02.03", Level: 3, ParentNum: strPtr("11.01")}))

	// First registration wins; the duplicate is silently ignored.
	require.NoError(t, b.AddChapter(&entities.Chapter{Num: "11", Title: "other title", Level: 0}))
	snap := b.Build()
	c, ok := snap.Chapter("11")
	require.True(t, ok)
	assert.Equal(t, "Appareil digestif", c.Title)
}

func TestBuilderAddEdge_DedupAndSelfRef(t *testing.T) {
	b := catalog.NewBuilder()
	edge := entities.AssociationEdge{
		Code:            "AAAA001",
		AssociatedCode:  "BBBB002",
		AssociationType: entities.AssociationTypeGesture,
		Activity:        "act123",
	}
	b.AddEdge(edge)
	b.AddEdge(edge) // exact duplicate, dropped
	b.AddEdge(entities.AssociationEdge{
		Code: "AAAA001", AssociatedCode: "BBBB002",
		AssociationType: entities.AssociationTypeGesture, Activity: "act4",
	})
	b.AddEdge(entities.AssociationEdge{Code: "AAAA001", AssociatedCode: "AAAA001"})

	snap := b.Build()
	assert.Len(t, snap.EdgesFrom("AAAA001"), 2)
	assert.True(t, snap.HasEdgeTo("AAAA001", "BBBB002"))
	assert.False(t, snap.HasEdgeTo("AAAA001", "AAAA001"))
	assert.False(t, snap.HasEdgeTo("BBBB002", "AAAA001"))
}

func TestBuilderAddObserved_FirstInsertWins(t *testing.T) {
	b := catalog.NewBuilder()
	b.AddObserved(entities.ObservedAssociation{Code: "AAAA001", AssociatedCode: "BBBB002", Rank: 1})
	b.AddObserved(entities.ObservedAssociation{Code: "AAAA001", AssociatedCode: "BBBB002", Rank: 7})
	b.AddObserved(entities.ObservedAssociation{Code: "AAAA001", AssociatedCode: "CCCC003", Rank: 2})

	snap := b.Build()
	observed := snap.ObservedFrom("AAAA001")
	require.Len(t, observed, 2)
	assert.Equal(t, 1, observed[0].Rank)
	assert.Equal(t, "CCCC003", observed[1].AssociatedCode)
}

func TestSnapshotAssociationCount(t *testing.T) {
	b := catalog.NewBuilder()
	b.AddEdge(entities.AssociationEdge{Code: "AAAA001", AssociatedCode: "BBBB002", Activity: "text"})
	b.AddObserved(entities.ObservedAssociation{Code: "AAAA001", AssociatedCode: "BBBB002", Rank: 1})
	b.AddObserved(entities.ObservedAssociation{Code: "AAAA001", AssociatedCode: "CCCC003", Rank: 2})

	snap := b.Build()
	// Sources counted independently, not deduplicated.
	assert.Equal(t, 3, snap.AssociationCount("AAAA001"))
	assert.Equal(t, 0, snap.AssociationCount("BBBB002"))
}

func TestStoreSwapPublishesNewSnapshot(t *testing.T) {
	first := catalog.NewBuilder().Build()

	b := catalog.NewBuilder()
	require.NoError(t, b.AddCode(&entities.ProcedureCode{Code: "AAAA001", Label: "entry"}))
	second := b.Build()

	store := catalog.NewStore(first)
	assert.Equal(t, 0, store.Current().Len())

	store.Swap(second)
	assert.Equal(t, 1, store.Current().Len())
	assert.False(t, store.Current().BuiltAt().After(time.Now()))
}
