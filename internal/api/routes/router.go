package routes

import (
	"encoding/json"
	"net/http"

	"github.com/codexmed/t2a-assistant/internal/api/handlers"
	"github.com/codexmed/t2a-assistant/internal/api/middleware"
	"github.com/codexmed/t2a-assistant/internal/catalog"
	"github.com/codexmed/t2a-assistant/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler        *handlers.SearchHandler
	codeHandler          *handlers.CodeHandler
	compatibilityHandler *handlers.CompatibilityHandler
	billingHandler       *handlers.BillingHandler

	store   *catalog.Store
	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	codeHandler *handlers.CodeHandler,
	compatibilityHandler *handlers.CompatibilityHandler,
	billingHandler *handlers.BillingHandler,
	store *catalog.Store,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                  http.NewServeMux(),
		searchHandler:        searchHandler,
		codeHandler:          codeHandler,
		compatibilityHandler: compatibilityHandler,
		billingHandler:       billingHandler,
		store:                store,
		metrics:              metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint reports the active snapshot
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		snap := r.store.Current()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"status":   "ok",
			"codes":    snap.Len(),
			"built_at": snap.BuiltAt().UTC(),
		}); err != nil {
			return
		}
	})

	// Search endpoint
	r.mux.HandleFunc("GET /api/search", r.searchHandler.Search)

	// Catalog endpoints
	r.mux.HandleFunc("GET /api/codes/{code}", r.codeHandler.GetCode)
	r.mux.HandleFunc("GET /api/codes/{code}/associations", r.codeHandler.ListAssociations)
	r.mux.HandleFunc("GET /api/codes/{code}/billing-plan", r.billingHandler.GetBillingPlan)

	// Compatibility endpoint
	r.mux.HandleFunc("POST /api/compatibility/check", r.compatibilityHandler.CheckCompatibility)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set on every response
	handler = middleware.CORSMiddleware(handler)

	return handler
}
