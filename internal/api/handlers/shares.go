package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/api/middleware"
	"github.com/pagewright/pagewright/internal/domain"
	"github.com/pagewright/pagewright/internal/observability"
	"github.com/pagewright/pagewright/internal/services/export"
	"github.com/pagewright/pagewright/pkg/httputil"
)

// ShareHandler serves share links for engine results
type ShareHandler struct {
	shares  *export.ShareService
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewShareHandler creates a new share handler
func NewShareHandler(shares *export.ShareService, metrics *observability.Metrics, logger *zap.Logger) *ShareHandler {
	return &ShareHandler{
		shares:  shares,
		metrics: metrics,
		logger:  logger,
	}
}

// CreateShareRequest is the request body for creating a share link.
// TTL is in seconds; zero takes the service default.
type CreateShareRequest struct {
	Kind     string       `json:"kind"`
	Title    string       `json:"title,omitempty"`
	Payload  domain.JSONB `json:"payload"`
	TTL      int          `json:"ttl,omitempty"`
	MaxViews int          `json:"max_views,omitempty"`
}

// SharedResultResponse is the public view of a shared result
type SharedResultResponse struct {
	ShareCode string       `json:"share_code"`
	Kind      string       `json:"kind"`
	Title     string       `json:"title,omitempty"`
	Payload   domain.JSONB `json:"payload"`
	ViewCount int          `json:"view_count"`
	MaxViews  int          `json:"max_views,omitempty"`
	CreatedAt string       `json:"created_at"`
	ExpiresAt string       `json:"expires_at,omitempty"`
}

func toSharedResultResponse(s *domain.SharedResult) SharedResultResponse {
	resp := SharedResultResponse{
		ShareCode: s.ShareCode,
		Kind:      string(s.Kind),
		Title:     s.Title,
		Payload:   s.Payload,
		ViewCount: s.ViewCount,
		MaxViews:  s.MaxViews,
		CreatedAt: s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if s.ExpiresAt != nil {
		resp.ExpiresAt = s.ExpiresAt.Format("2006-01-02T15:04:05Z")
	}
	return resp
}

// Create handles POST /api/v1/shares
func (h *ShareHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		httputil.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Tenant context required", nil)
		return
	}

	var req CreateShareRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	link, err := h.shares.Create(r.Context(), tenantID, export.CreateShareInput{
		Kind:     domain.ShareKind(req.Kind),
		Title:    req.Title,
		Payload:  req.Payload,
		TTL:      time.Duration(req.TTL) * time.Second,
		MaxViews: req.MaxViews,
	})
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordShareCreated(req.Kind)
	}

	httputil.JSON(w, http.StatusCreated, link)
}

// Resolve handles GET /api/v1/shares/{code}
//
// The route is public. ?format=html serves the rendered snapshot page
// instead of the JSON envelope.
func (h *ShareHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	share, err := h.shares.Resolve(r.Context(), code)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordShareView(string(share.Kind))
	}

	if r.URL.Query().Get("format") == "html" {
		page, err := h.shares.RenderHTML(share)
		if err != nil {
			h.logger.Error("Failed to render share page", zap.String("share_code", code), zap.Error(err))
			httputil.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render share", nil)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(page)
		return
	}

	httputil.JSON(w, http.StatusOK, toSharedResultResponse(share))
}
