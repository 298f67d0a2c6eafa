// Package api exposes the platform's JSON HTTP surface. Handlers stay
// thin: they parse the request, call one service operation and render the
// uniform success/message envelope. All errors flow through the taxonomy
// mapping in respond.go.
package api

import (
	"net/http"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/logging"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/config"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/services"
)

// Router wires the service layer to HTTP routes.
type Router struct {
	resources *services.ResourceService
	surveys   *services.SurveyService
	analytics *services.AnalyticsService
	logger    logging.Logger
	secret    []byte
}

// NewRouter constructs a Router over the given services.
func NewRouter(res *services.ResourceService, sur *services.SurveyService,
	an *services.AnalyticsService, logger logging.Logger, cfg *config.Config) *Router {
	return &Router{
		resources: res,
		surveys:   sur,
		analytics: an,
		logger:    logger.With("component", "api"),
		secret:    []byte(cfg.SecretKey),
	}
}

// Handler returns the fully wired HTTP handler with auth middleware
// applied.
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	rt.register(mux)
	return rt.withAuth(mux)
}

func (rt *Router) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/resources", rt.handleQueryResources)
	mux.HandleFunc("POST /api/resources", rt.handleCreateResource)
	mux.HandleFunc("GET /api/resources/stats", rt.handleResourceStats)
	mux.HandleFunc("GET /api/resources/suggestions", rt.handleSuggestions)
	mux.HandleFunc("GET /api/resources/{id}", rt.handleGetResource)
	mux.HandleFunc("PUT /api/resources/{id}", rt.handleUpdateResource)
	mux.HandleFunc("DELETE /api/resources/{id}", rt.handleDeleteResource)
	mux.HandleFunc("POST /api/resources/{id}/view", rt.handleIncrementView)
	mux.HandleFunc("POST /api/resources/{id}/download", rt.handleIncrementDownload)
	mux.HandleFunc("POST /api/resources/{id}/favorite", rt.handleToggleFavorite)
	mux.HandleFunc("POST /api/resources/{id}/rating", rt.handleRateResource)

	mux.HandleFunc("POST /api/surveys", rt.handleSubmitSurvey)
	mux.HandleFunc("GET /api/surveys", rt.handleListSurveys)
	mux.HandleFunc("GET /api/surveys/analytics", rt.handleSurveyAnalytics)
	mux.HandleFunc("GET /api/surveys/predictions", rt.handlePredictiveAnalytics)
	mux.HandleFunc("GET /api/surveys/{id}", rt.handleGetSurvey)
	mux.HandleFunc("PUT /api/surveys/{id}", rt.handleUpdateSurvey)

	mux.HandleFunc("POST /api/drafts", rt.handleSaveDraft)
	mux.HandleFunc("GET /api/drafts", rt.handleGetDraft)
	mux.HandleFunc("DELETE /api/drafts", rt.handleDeleteDraft)
}
