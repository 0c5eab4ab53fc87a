package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/domain"
	"github.com/pagewright/pagewright/internal/intelligence"
)

// InstantiationPlan describes what instantiating a template sets up and
// what is left for the user. The shape is the same whether provisioning
// runs on a workflow backend or locally.
type InstantiationPlan struct {
	WorkflowID            string   `json:"workflow_id"`
	TemplateID            string   `json:"template_id"`
	CustomizationsApplied []string `json:"customizations_applied"`
	EstimatedSetupTime    string   `json:"estimated_setup_time"`
	NextSteps             []string `json:"next_steps"`
}

var setupTimeByCategory = map[string]string{
	intelligence.TemplateCategoryComponents: "15 minutes",
	intelligence.TemplateCategoryLayout:     "30 minutes",
	intelligence.TemplateCategorySections:   "45 minutes",
}

// InstantiateTemplate plans the setup of a catalog template, customized for
// the caller's context. With a WorkflowStarter configured the returned
// workflow id tracks real provisioning; otherwise it is local-only.
func (s *Service) InstantiateTemplate(ctx context.Context, templateID string, genCtx intelligence.GenerationContext) (InstantiationPlan, error) {
	if !s.wait(ctx) {
		return InstantiationPlan{}, domain.ErrTimeout("template instantiation")
	}

	tpl, ok := intelligence.PromptTemplateByID(templateID)
	if !ok {
		return InstantiationPlan{}, domain.ErrNotFound("template", templateID)
	}

	if s.tripFailure() {
		return InstantiationPlan{}, domain.ErrAssistantUnavailable(errInjected)
	}

	workflowID := "local-" + uuid.NewString()[:8]
	if s.workflows != nil {
		id, err := s.workflows.StartProvisioning(ctx, templateID, genCtx)
		if err != nil {
			return InstantiationPlan{}, domain.ErrProvisionFailed(templateID, err)
		}
		workflowID = id
	}

	s.logger.Info("template instantiation planned",
		zap.String("template_id", templateID),
		zap.String("workflow_id", workflowID))

	return InstantiationPlan{
		WorkflowID:            workflowID,
		TemplateID:            templateID,
		CustomizationsApplied: customizationSummary(tpl, genCtx),
		EstimatedSetupTime:    setupTimeByCategory[tpl.Category],
		NextSteps: []string{
			"review the generated components",
			"fill the " + strings.Join(tpl.Variables, ", ") + " slots",
			"publish once the preview looks right",
		},
	}, nil
}

func customizationSummary(tpl intelligence.PromptTemplate, genCtx intelligence.GenerationContext) []string {
	applied := []string{"seeded the " + tpl.Name + " structure"}
	if len(genCtx.Brand.Colors) > 0 {
		applied = append(applied, fmt.Sprintf("applied the brand palette (%d colors)", len(genCtx.Brand.Colors)))
	}
	if genCtx.Brand.Style != "" {
		applied = append(applied, "matched the "+string(genCtx.Brand.Style)+" brand style")
	}
	if genCtx.Industry != "" {
		applied = append(applied, "phrased copy for the "+genCtx.Industry+" industry")
	}
	return applied
}
