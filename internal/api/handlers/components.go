package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/intelligence"
	"github.com/pagewright/pagewright/internal/observability"
	"github.com/pagewright/pagewright/pkg/httputil"
)

// ComponentHandler serves component detection and generation requests
type ComponentHandler struct {
	engine  *intelligence.Engine
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewComponentHandler creates a new component handler
func NewComponentHandler(engine *intelligence.Engine, metrics *observability.Metrics, logger *zap.Logger) *ComponentHandler {
	return &ComponentHandler{
		engine:  engine,
		metrics: metrics,
		logger:  logger,
	}
}

// GenerateRequest is the request body for component generation
type GenerateRequest struct {
	Prompt  string                         `json:"prompt"`
	Context intelligence.GenerationContext `json:"context"`
}

// PatternSummary is the catalog view of a component pattern
type PatternSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Variants    []string `json:"variants"`
	Confidence  float64  `json:"confidence"`
}

// PatternsResponse lists the component catalog
type PatternsResponse struct {
	Patterns []PatternSummary `json:"patterns"`
	Total    int              `json:"total"`
}

func toPatternSummary(p intelligence.ComponentPattern) PatternSummary {
	variants := make([]string, len(p.Variants))
	for i, v := range p.Variants {
		variants[i] = v.Name
	}
	return PatternSummary{
		ID:          p.ID,
		Name:        p.Name,
		Type:        p.Type,
		Description: p.Description,
		Variants:    variants,
		Confidence:  p.Confidence,
	}
}

// Detect handles POST /api/v1/components/detect
//
// A prompt that matches nothing still detects, as a container with
// baseline confidence.
func (h *ComponentHandler) Detect(w http.ResponseWriter, r *http.Request) {
	var req PromptRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	start := time.Now()
	match := h.engine.Matcher.Detect(req.Prompt)
	if h.metrics != nil {
		h.metrics.RecordDetection(match.DetectedType, time.Since(start))
	}

	httputil.JSON(w, http.StatusOK, match)
}

// Generate handles POST /api/v1/components/generate
func (h *ComponentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	start := time.Now()
	result := h.engine.Matcher.Generate(req.Prompt, req.Context)
	if h.metrics != nil {
		h.metrics.RecordGeneration(result.Component.Type, time.Since(start))
	}

	httputil.JSON(w, http.StatusOK, result)
}

// Patterns handles GET /api/v1/components/patterns
//
// The bare route lists summaries; ?type= returns one full pattern with
// its variants.
func (h *ComponentHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	if componentType := r.URL.Query().Get("type"); componentType != "" {
		pattern, ok := intelligence.PatternByType(componentType)
		if !ok {
			httputil.JSONError(w, http.StatusNotFound, "NOT_FOUND", "No pattern for component type", map[string]any{
				"type": componentType,
			})
			return
		}
		httputil.JSON(w, http.StatusOK, pattern)
		return
	}

	patterns := intelligence.ComponentPatterns()
	summaries := make([]PatternSummary, len(patterns))
	for i, p := range patterns {
		summaries[i] = toPatternSummary(p)
	}

	httputil.JSON(w, http.StatusOK, PatternsResponse{
		Patterns: summaries,
		Total:    len(summaries),
	})
}
