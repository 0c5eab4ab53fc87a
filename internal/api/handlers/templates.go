package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/assistant"
	"github.com/pagewright/pagewright/internal/intelligence"
	"github.com/pagewright/pagewright/pkg/httputil"
)

// TemplateHandler serves template instantiation requests
type TemplateHandler struct {
	assistant *assistant.Service
	async     bool
	logger    *zap.Logger
}

// NewTemplateHandler creates a new template handler. async marks that a
// provisioning worker is wired in, which turns instantiation responses
// into 202s.
func NewTemplateHandler(svc *assistant.Service, async bool, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{
		assistant: svc,
		async:     async,
		logger:    logger,
	}
}

// Instantiate handles POST /api/v1/templates/{id}/instantiate
//
// The body is the generation context, {} for defaults. The response shape
// is the same whether provisioning runs inline or on the worker; only the
// status code tells them apart.
func (h *TemplateHandler) Instantiate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "id")

	var genCtx intelligence.GenerationContext
	if err := httputil.DecodeJSON(r, &genCtx); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	plan, err := h.assistant.InstantiateTemplate(r.Context(), templateID, genCtx)
	if err != nil {
		h.logger.Warn("Template instantiation failed",
			zap.String("template_id", templateID),
			zap.Error(err),
		)
		httputil.ErrorFromDomain(w, err)
		return
	}

	h.logger.Info("Template instantiated",
		zap.String("template_id", templateID),
		zap.String("workflow_id", plan.WorkflowID),
		zap.Bool("async", h.async),
	)

	status := http.StatusOK
	if h.async {
		status = http.StatusAccepted
	}
	httputil.JSON(w, status, plan)
}
