package handlers

import (
	"encoding/json"
	"net/http"

	queryservices "github.com/codexmed/t2a-assistant/internal/query/services"
)

// maxCheckCodes bounds one compatibility check request.
const maxCheckCodes = 20

// CompatibilityHandler handles compatibility check requests.
type CompatibilityHandler struct {
	compatService *queryservices.CompatibilityService
}

// NewCompatibilityHandler creates a new compatibility handler.
func NewCompatibilityHandler(compatService *queryservices.CompatibilityService) *CompatibilityHandler {
	return &CompatibilityHandler{compatService: compatService}
}

type compatibilityCheckRequest struct {
	Codes []string `json:"codes"`
}

// CheckCompatibility handles POST /api/compatibility/check
func (h *CompatibilityHandler) CheckCompatibility(w http.ResponseWriter, r *http.Request) {
	var req compatibilityCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Codes) == 0 {
		respondWithError(w, http.StatusBadRequest, "codes is required and must not be empty")
		return
	}
	if len(req.Codes) > maxCheckCodes {
		respondWithError(w, http.StatusBadRequest, "too many codes in one check")
		return
	}

	issues := h.compatService.Check(r.Context(), req.Codes)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"issues": issues,
		"count":  len(issues),
	})
}
