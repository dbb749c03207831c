package handlers

import (
	"net/http"
	"strconv"

	queryservices "github.com/codexmed/t2a-assistant/internal/query/services"
)

// maxSearchLimit bounds the per-request result cap.
const maxSearchLimit = 100

// SearchHandler handles catalog search requests.
type SearchHandler struct {
	searchService *queryservices.SearchService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(searchService *queryservices.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles GET /api/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	params := queryservices.SearchParams{
		Query:      query,
		Limit:      queryservices.DefaultSearchLimit,
		ActiveOnly: r.URL.Query().Get("active_only") == "true",
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if limit > maxSearchLimit {
			limit = maxSearchLimit
		}
		params.Limit = limit
	}

	hits := h.searchService.Search(r.Context(), params)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": hits,
		"count":   len(hits),
	})
}
