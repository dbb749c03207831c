package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexmed/t2a-assistant/internal/catalog"
	"github.com/codexmed/t2a-assistant/internal/domain/entities"
)

func TestParseDeclaredEdges_ExtractsEmbeddedCodes(t *testing.T) {
	p := &entities.ProcedureCode{
		Code:         "HBQK040",
		GesturesText: "avec HBGD027 ou, le cas échéant, HBGD035",
	}

	edges := catalog.ParseDeclaredEdges(p)
	require.Len(t, edges, 2)
	assert.Equal(t, "HBGD027", edges[0].AssociatedCode)
	assert.Equal(t, entities.AssociationTypeGesture, edges[0].AssociationType)
	assert.Equal(t, "text", edges[0].Activity)
	assert.Equal(t, "HBGD035", edges[1].AssociatedCode)
}

func TestParseDeclaredEdges_AnesthesiaColumn(t *testing.T) {
	p := &entities.ProcedureCode{
		Code:           "HBQK040",
		AnesthesiaText: "anesthésie générale : ZZLP025",
	}

	edges := catalog.ParseDeclaredEdges(p)
	require.Len(t, edges, 1)
	assert.Equal(t, entities.AssociationTypeAnesthesia, edges[0].AssociationType)
	assert.Equal(t, "anesthesia", edges[0].Activity)
	assert.Equal(t, "ZZLP025", edges[0].AssociatedCode)
}

func TestParseDeclaredEdges_SkipsSelfReferences(t *testing.T) {
	p := &entities.ProcedureCode{
		Code:         "HBQK040",
		GesturesText: "HBQK040 avec HBGD027",
	}

	edges := catalog.ParseDeclaredEdges(p)
	require.Len(t, edges, 1)
	assert.Equal(t, "HBGD027", edges[0].AssociatedCode)
}

func TestParseDeclaredEdges_DedupPerActivity(t *testing.T) {
	p := &entities.ProcedureCode{
		Code:           "HBQK040",
		GesturesText:   "HBGD027 puis HBGD027",
		GesturesAct123: "HBGD027",
	}

	edges := catalog.ParseDeclaredEdges(p)
	// Same target once per activity: text and act123.
	require.Len(t, edges, 2)
	assert.Equal(t, "text", edges[0].Activity)
	assert.Equal(t, "act123", edges[1].Activity)
}

func TestParseDeclaredEdges_EmptyColumns(t *testing.T) {
	p := &entities.ProcedureCode{Code: "HBQK040", GesturesText: "aucun geste complémentaire"}
	assert.Empty(t, catalog.ParseDeclaredEdges(p))
}
