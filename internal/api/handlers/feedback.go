package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/api/middleware"
	"github.com/pagewright/pagewright/internal/domain"
	"github.com/pagewright/pagewright/internal/feedback"
	"github.com/pagewright/pagewright/internal/observability"
	"github.com/pagewright/pagewright/pkg/httputil"
)

// FeedbackHandler accepts feedback submissions
type FeedbackHandler struct {
	recorder *feedback.Recorder
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(recorder *feedback.Recorder, metrics *observability.Metrics, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		recorder: recorder,
		metrics:  metrics,
		logger:   logger,
	}
}

// FeedbackRequest is the request body for submitting feedback
type FeedbackRequest struct {
	TargetType string       `json:"target_type"`
	TargetID   string       `json:"target_id"`
	Rating     int          `json:"rating"`
	Comment    string       `json:"comment,omitempty"`
	Context    domain.JSONB `json:"context,omitempty"`
}

// AcceptedResponse acknowledges a fire-and-forget submission
type AcceptedResponse struct {
	Accepted bool `json:"accepted"`
}

// Create handles POST /api/v1/feedback
//
// Feedback is fire and forget: every outcome is a 202. A malformed or
// invalid submission is logged and dropped, never bounced back to the
// caller, and it never influences scoring.
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantID(r.Context())

	var req FeedbackRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("Discarding malformed feedback", zap.Error(err))
		httputil.JSON(w, http.StatusAccepted, AcceptedResponse{Accepted: true})
		return
	}

	fb := domain.NewFeedback(tenantID, domain.FeedbackTarget(req.TargetType), req.TargetID, req.Rating, req.Comment)
	if len(req.Context) > 0 {
		fb.Context = req.Context
	}

	if err := h.recorder.Record(r.Context(), fb); err != nil {
		h.logger.Warn("Discarding rejected feedback",
			zap.String("target_type", req.TargetType),
			zap.String("target_id", req.TargetID),
			zap.Error(err),
		)
	} else if h.metrics != nil {
		h.metrics.RecordFeedback(req.TargetType)
	}

	httputil.JSON(w, http.StatusAccepted, AcceptedResponse{Accepted: true})
}
