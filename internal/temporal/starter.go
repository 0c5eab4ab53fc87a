package temporal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/domain"
	"github.com/pagewright/pagewright/internal/intelligence"
	"github.com/pagewright/pagewright/internal/workflows"
)

// TenantResolver extracts the calling tenant from a request context.
type TenantResolver func(ctx context.Context) (uuid.UUID, bool)

// ProvisionStarter starts template provisioning workflows. It creates
// the instantiation row before handing off to Temporal so activities
// always have a row to update.
type ProvisionStarter struct {
	client  *Client
	repo    domain.InstantiationRepository
	tenants TenantResolver
	logger  *zap.Logger
}

// NewProvisionStarter creates a provisioning starter. tenants may be
// nil; unauthenticated callers then provision under the nil tenant.
func NewProvisionStarter(client *Client, repo domain.InstantiationRepository, tenants TenantResolver, logger *zap.Logger) *ProvisionStarter {
	return &ProvisionStarter{
		client:  client,
		repo:    repo,
		tenants: tenants,
		logger:  logger,
	}
}

// StartProvisioning creates a pending instantiation and starts the
// provisioning workflow for it, returning the workflow ID.
func (s *ProvisionStarter) StartProvisioning(ctx context.Context, templateID string, genCtx intelligence.GenerationContext) (string, error) {
	tenantID := uuid.Nil
	if s.tenants != nil {
		if id, ok := s.tenants(ctx); ok {
			tenantID = id
		}
	}

	inst := domain.NewTemplateInstantiation(tenantID, templateID)
	if err := s.repo.Create(ctx, inst); err != nil {
		return "", fmt.Errorf("creating instantiation: %w", err)
	}

	workflowID := "provision-" + inst.ID.String()
	run, err := s.client.StartWorkflow(ctx, workflowID, workflows.TemplateProvisionWorkflow, workflows.ProvisionInput{
		InstantiationID: inst.ID,
		TenantID:        tenantID,
		TemplateID:      templateID,
		Context:         genCtx,
	})
	if err != nil {
		inst.MarkFailed(err.Error())
		if uerr := s.repo.Update(ctx, inst); uerr != nil {
			s.logger.Warn("failed to record workflow start failure",
				zap.String("instantiation_id", inst.ID.String()),
				zap.Error(uerr))
		}
		return "", fmt.Errorf("starting provisioning workflow: %w", err)
	}

	inst.MarkProvisioning(workflowID)
	if err := s.repo.Update(ctx, inst); err != nil {
		s.logger.Warn("failed to record provisioning state",
			zap.String("instantiation_id", inst.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("provisioning workflow started",
		zap.String("workflow_id", workflowID),
		zap.String("run_id", run.GetRunID()),
		zap.String("template_id", templateID))

	return workflowID, nil
}
