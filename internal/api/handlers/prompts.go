package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/intelligence"
	"github.com/pagewright/pagewright/internal/observability"
	rediscache "github.com/pagewright/pagewright/internal/repository/redis"
	"github.com/pagewright/pagewright/pkg/httputil"
)

// Cache operation names. Part of the cache key, so renaming one
// invalidates its entries.
const (
	opAnalyze = "prompt:analyze"
	opSuggest = "workflow:suggest"
)

// PromptHandler serves prompt analysis requests
type PromptHandler struct {
	engine  *intelligence.Engine
	cache   *rediscache.ResultCache
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewPromptHandler creates a new prompt handler. Cache and metrics may be
// nil; the handler degrades to uncached, uncounted operation.
func NewPromptHandler(engine *intelligence.Engine, cache *rediscache.ResultCache, metrics *observability.Metrics, logger *zap.Logger) *PromptHandler {
	return &PromptHandler{
		engine:  engine,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// PromptRequest is the request body for prompt operations
type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// VariationsResponse lists rewritten forms of a prompt
type VariationsResponse struct {
	Variations []string `json:"variations"`
}

// TemplateMatchesResponse lists prompt templates ranked against a prompt
type TemplateMatchesResponse struct {
	Matches []intelligence.TemplateMatch `json:"matches"`
}

// Analyze handles POST /api/v1/prompts/analyze
func (h *PromptHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req PromptRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	if payload, ok := cachedResult(r.Context(), h.cache, opAnalyze, req.Prompt); ok {
		httputil.JSON(w, http.StatusOK, payload)
		return
	}

	start := time.Now()
	analysis := h.engine.Analyzer.Analyze(req.Prompt)
	if h.metrics != nil {
		h.metrics.RecordAnalysis(string(analysis.Intent), time.Since(start))
	}

	storeResult(r.Context(), h.cache, opAnalyze, req.Prompt, analysis)

	httputil.JSON(w, http.StatusOK, analysis)
}

// Validate handles POST /api/v1/prompts/validate
//
// Problems with the prompt come back inside the result, never as an HTTP
// error; an empty prompt is a valid input with isValid=false.
func (h *PromptHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req PromptRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	result := h.engine.Analyzer.Validate(req.Prompt)

	httputil.JSON(w, http.StatusOK, result)
}

// Variations handles POST /api/v1/prompts/variations
func (h *PromptHandler) Variations(w http.ResponseWriter, r *http.Request) {
	var req PromptRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	variations := h.engine.Analyzer.Variations(req.Prompt)

	httputil.JSON(w, http.StatusOK, VariationsResponse{Variations: variations})
}

// MatchTemplates handles POST /api/v1/prompts/templates
func (h *PromptHandler) MatchTemplates(w http.ResponseWriter, r *http.Request) {
	var req PromptRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	matches := h.engine.Analyzer.MatchTemplates(req.Prompt)

	httputil.JSON(w, http.StatusOK, TemplateMatchesResponse{Matches: matches})
}

// cachedResult returns the stored marshaled result for operation+input.
// The raw bytes slot straight back into the response envelope.
func cachedResult(ctx context.Context, cache *rediscache.ResultCache, operation string, input any) (json.RawMessage, bool) {
	if cache == nil {
		return nil, false
	}

	payload, ok := cache.Get(ctx, cache.CacheKey(operation, input))
	if !ok {
		return nil, false
	}
	return json.RawMessage(payload), true
}

// storeResult caches the marshaled result for operation+input. Marshal
// failures drop the entry; the caller already has the live value.
func storeResult(ctx context.Context, cache *rediscache.ResultCache, operation string, input, result any) {
	if cache == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	cache.Set(ctx, cache.CacheKey(operation, input), payload)
}
