package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/assistant"
	"github.com/pagewright/pagewright/internal/observability"
	"github.com/pagewright/pagewright/pkg/httputil"
)

// SiteHandler serves website analysis requests
type SiteHandler struct {
	assistant *assistant.Service
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewSiteHandler creates a new site handler
func NewSiteHandler(svc *assistant.Service, metrics *observability.Metrics, logger *zap.Logger) *SiteHandler {
	return &SiteHandler{
		assistant: svc,
		metrics:   metrics,
		logger:    logger,
	}
}

// AnalyzeSiteRequest is the request body for website analysis
type AnalyzeSiteRequest struct {
	URL string `json:"url"`
}

// Analyze handles POST /api/v1/sites/analyze
func (h *SiteHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeSiteRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	start := time.Now()
	analysis, err := h.assistant.AnalyzeWebsite(r.Context(), req.URL)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordSiteImport("error", time.Since(start))
		}
		httputil.ErrorFromDomain(w, err)
		return
	}

	if h.metrics != nil {
		status := "ok"
		if analysis.Degraded {
			status = "degraded"
		}
		h.metrics.RecordSiteImport(status, time.Since(start))
	}

	httputil.JSON(w, http.StatusOK, analysis)
}
