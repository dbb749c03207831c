package handlers

import (
	"net/http"

	queryservices "github.com/codexmed/t2a-assistant/internal/query/services"
)

// CodeHandler handles direct catalog lookups.
type CodeHandler struct {
	catalogService *queryservices.CatalogQueryService
}

// NewCodeHandler creates a new code handler.
func NewCodeHandler(catalogService *queryservices.CatalogQueryService) *CodeHandler {
	return &CodeHandler{catalogService: catalogService}
}

// GetCode handles GET /api/codes/{code}
func (h *CodeHandler) GetCode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "code is required")
		return
	}

	entry, err := h.catalogService.GetCode(r.Context(), code)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, entry)
}

// ListAssociations handles GET /api/codes/{code}/associations
func (h *CodeHandler) ListAssociations(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "code is required")
		return
	}

	associations, err := h.catalogService.ListAssociations(r.Context(), code)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"associations": associations,
		"count":        len(associations),
	})
}
