package handlers

import (
	"net/http"

	queryservices "github.com/codexmed/t2a-assistant/internal/query/services"
)

// BillingHandler handles billing plan assembly requests.
type BillingHandler struct {
	billingService *queryservices.BillingService
}

// NewBillingHandler creates a new billing handler.
func NewBillingHandler(billingService *queryservices.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// GetBillingPlan handles GET /api/codes/{code}/billing-plan
func (h *BillingHandler) GetBillingPlan(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "code is required")
		return
	}

	plan, err := h.billingService.Assemble(r.Context(), code)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, plan)
}
