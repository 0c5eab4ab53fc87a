package handlers

import (
	"net/http"
	"reflect"
	"time"

	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/assistant"
	"github.com/pagewright/pagewright/internal/intelligence"
	"github.com/pagewright/pagewright/internal/observability"
	rediscache "github.com/pagewright/pagewright/internal/repository/redis"
	"github.com/pagewright/pagewright/pkg/httputil"
)

// WorkflowHandler serves workflow suggestion requests
type WorkflowHandler struct {
	assistant *assistant.Service
	engine    *intelligence.Engine
	cache     *rediscache.ResultCache
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(svc *assistant.Service, engine *intelligence.Engine, cache *rediscache.ResultCache, metrics *observability.Metrics, logger *zap.Logger) *WorkflowHandler {
	return &WorkflowHandler{
		assistant: svc,
		engine:    engine,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
	}
}

// StageRequest is the request body for stage-scoped suggestions
type StageRequest struct {
	WorkflowType intelligence.WorkflowType `json:"workflow_type"`
	Stage        intelligence.FunnelStage  `json:"stage"`
}

// StageSuggestionsResponse lists suggestions for one funnel stage
type StageSuggestionsResponse struct {
	Suggestions []intelligence.ComponentSuggestion `json:"suggestions"`
}

// Suggest handles POST /api/v1/workflows/suggest
//
// Upstream failure inside the assistant surfaces as the fixed fallback
// analysis with a 200, never as an error.
func (h *WorkflowHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var workflowCtx intelligence.WorkflowContext
	if err := httputil.DecodeJSON(r, &workflowCtx); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	if payload, ok := cachedResult(r.Context(), h.cache, opSuggest, workflowCtx); ok {
		httputil.JSON(w, http.StatusOK, payload)
		return
	}

	start := time.Now()
	analysis := h.assistant.SuggestWithContext(r.Context(), workflowCtx)
	if h.metrics != nil {
		h.metrics.RecordSuggestions(string(workflowCtx.WorkflowType), len(analysis.SuggestedComponents), time.Since(start))
	}

	// Caching the fallback shape would pin a degraded answer until the
	// TTL runs out, so only real results are stored.
	if !reflect.DeepEqual(analysis, intelligence.FallbackAnalysis()) {
		storeResult(r.Context(), h.cache, opSuggest, workflowCtx, analysis)
	} else if h.metrics != nil {
		h.metrics.RecordFallback("suggest")
	}

	httputil.JSON(w, http.StatusOK, analysis)
}

// Stage handles POST /api/v1/workflows/stage
//
// An unknown stage yields an empty suggestion list, matching the engine.
func (h *WorkflowHandler) Stage(w http.ResponseWriter, r *http.Request) {
	var req StageRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	suggestions := h.engine.Suggester.SuggestForStage(req.WorkflowType, req.Stage)

	httputil.JSON(w, http.StatusOK, StageSuggestionsResponse{Suggestions: suggestions})
}

// Gaps handles POST /api/v1/workflows/gaps
func (h *WorkflowHandler) Gaps(w http.ResponseWriter, r *http.Request) {
	var workflowCtx intelligence.WorkflowContext
	if err := httputil.DecodeJSON(r, &workflowCtx); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	gaps := h.engine.Suggester.AnalyzeGaps(workflowCtx)

	httputil.JSON(w, http.StatusOK, gaps)
}
