package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexmed/t2a-assistant/internal/api/handlers"
	"github.com/codexmed/t2a-assistant/internal/catalog"
	"github.com/codexmed/t2a-assistant/internal/domain/entities"
	queryservices "github.com/codexmed/t2a-assistant/internal/query/services"
)

func newTestStore(t *testing.T) *catalog.Store {
	t.Helper()
	b := catalog.NewBuilder()
	codes := []*entities.ProcedureCode{
		{Code: "HBQK040", Label: "Radiographie panoramique dentomaxillaire", ChapterNum: "11"},
		{Code: "HBGD027", Label: "Avulsion d'une dent sur arcade", ChapterNum: "11"},
		{Code: "HBGD035", Label: "Avulsion de 2 dents sur arcade", ChapterNum: "11"},
	}
	for _, p := range codes {
		require.NoError(t, b.AddCode(p))
	}
	b.AddEdge(entities.AssociationEdge{
		Code: "HBGD035", AssociatedCode: "HBGD027",
		AssociationType: entities.AssociationTypeGesture, Activity: "text",
	})
	return catalog.NewStore(b.Build())
}

func TestSearchHandler_Success(t *testing.T) {
	svc := queryservices.NewSearchService(newTestStore(t), nil)
	handler := handlers.NewSearchHandler(svc)

	req := httptest.NewRequest("GET", "/api/search?q=avulsion+dent", nil)
	w := httptest.NewRecorder()
	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Results []entities.SearchHit `json:"results"`
		Count   int                  `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, len(response.Results), response.Count)
	assert.NotEmpty(t, response.Results)
}

func TestSearchHandler_MissingQuery(t *testing.T) {
	svc := queryservices.NewSearchService(newTestStore(t), nil)
	handler := handlers.NewSearchHandler(svc)

	req := httptest.NewRequest("GET", "/api/search", nil)
	w := httptest.NewRecorder()
	handler.Search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchHandler_InvalidLimit(t *testing.T) {
	svc := queryservices.NewSearchService(newTestStore(t), nil)
	handler := handlers.NewSearchHandler(svc)

	req := httptest.NewRequest("GET", "/api/search?q=avulsion&limit=zero", nil)
	w := httptest.NewRecorder()
	handler.Search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchHandler_NoResults(t *testing.T) {
	svc := queryservices.NewSearchService(newTestStore(t), nil)
	handler := handlers.NewSearchHandler(svc)

	req := httptest.NewRequest("GET", "/api/search?q=introuvable", nil)
	w := httptest.NewRecorder()
	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Results []entities.SearchHit `json:"results"`
		Count   int                  `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 0, response.Count)
	assert.NotNil(t, response.Results)
}
