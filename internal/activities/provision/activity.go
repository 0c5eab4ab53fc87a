package provision

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"
	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/domain"
	"github.com/pagewright/pagewright/internal/intelligence"
	"github.com/pagewright/pagewright/internal/storage"
	"github.com/pagewright/pagewright/internal/workflows"
)

// SnapshotStore uploads provisioned plan snapshots to object storage.
type SnapshotStore interface {
	UploadJSON(ctx context.Context, key string, data []byte) (string, error)
}

// Activity handles template provisioning phases
type Activity struct {
	repo   domain.InstantiationRepository
	engine *intelligence.Engine
	store  SnapshotStore
	logger *zap.Logger
}

// NewActivity creates a new provisioning activity set. store may be nil;
// the snapshot phase then reports an empty URL.
func NewActivity(repo domain.InstantiationRepository, engine *intelligence.Engine, store SnapshotStore, logger *zap.Logger) *Activity {
	return &Activity{
		repo:   repo,
		engine: engine,
		store:  store,
		logger: logger,
	}
}

// templateSeedPrompts lists the generation prompts provisioning runs for
// each catalog template, keyed by template ID. Templates without an
// entry fall back to their raw scaffold text.
var templateSeedPrompts = map[string][]string{
	"hero-section": {
		"Create a large hero section with a bold headline and supporting text",
		"Create a large primary call to action button",
	},
	"cta-button": {
		"Create a large primary call to action button",
	},
	"feature-grid": {
		"Create a wide container section for a three column feature grid",
		"Create a text block with a feature title and short description",
	},
	"testimonial-block": {
		"Create a testimonial section with a customer quote",
		"Create a small text block for the customer name and company",
	},
	"signup-form": {
		"Create a signup form with email and password fields",
		"Create a primary submit button labeled Sign Up",
	},
	"split-layout": {
		"Create a two column layout with content on the left and an image on the right",
	},
}

// Rough per-category setup estimates surfaced to tenants.
var setupTimeByCategory = map[string]string{
	intelligence.TemplateCategoryComponents: "15 minutes",
	intelligence.TemplateCategoryLayout:     "30 minutes",
	intelligence.TemplateCategorySections:   "45 minutes",
}

// ValidateTemplate checks the template exists in the catalog and
// resolves its seed prompts and setup estimate.
func (a *Activity) ValidateTemplate(ctx context.Context, input workflows.ValidateInput) (*workflows.ValidateOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Validating template", "template_id", input.TemplateID)

	tpl, ok := intelligence.PromptTemplateByID(input.TemplateID)
	if !ok {
		return nil, fmt.Errorf("unknown template: %s", input.TemplateID)
	}

	prompts := templateSeedPrompts[tpl.ID]
	if len(prompts) == 0 {
		prompts = []string{tpl.Template}
	}

	setupTime := setupTimeByCategory[tpl.Category]
	if setupTime == "" {
		setupTime = "30 minutes"
	}

	return &workflows.ValidateOutput{
		TemplateName: tpl.Name,
		Category:     tpl.Category,
		SeedPrompts:  prompts,
		SetupTime:    setupTime,
	}, nil
}

// CustomizeComponents runs the generator over the template's seed
// prompts under the tenant's generation context.
func (a *Activity) CustomizeComponents(ctx context.Context, input workflows.CustomizeInput) (*workflows.CustomizeOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Customizing components",
		"template_id", input.TemplateID,
		"seed_prompts", len(input.SeedPrompts),
	)

	startTime := time.Now()

	components := make([]intelligence.GeneratedComponent, 0, len(input.SeedPrompts))
	applied := make([]string, 0)
	for _, prompt := range input.SeedPrompts {
		result := a.engine.Matcher.Generate(prompt, input.Context)
		components = append(components, result.Component)
		applied = append(applied, result.Optimizations...)
	}

	logger.Info("Components customized",
		"components", len(components),
		"optimizations", len(applied),
	)

	return &workflows.CustomizeOutput{
		Components: components,
		Applied:    applied,
		Duration:   time.Since(startTime),
	}, nil
}

// PersistInstantiation stores the generated plan on the instantiation row
func (a *Activity) PersistInstantiation(ctx context.Context, input workflows.PersistInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Persisting instantiation",
		"instantiation_id", input.InstantiationID,
		"components", len(input.Components),
	)

	inst, err := a.repo.GetByID(ctx, input.InstantiationID)
	if err != nil {
		return fmt.Errorf("getting instantiation: %w", err)
	}

	inst.Customizations = domain.JSONB{
		"components":    input.Components,
		"optimizations": input.Applied,
	}
	inst.Touch()

	return a.repo.Update(ctx, inst)
}

// SnapshotPlan exports the generated plan as JSON to object storage
func (a *Activity) SnapshotPlan(ctx context.Context, input workflows.SnapshotInput) (*workflows.SnapshotOutput, error) {
	logger := activity.GetLogger(ctx)

	if a.store == nil {
		logger.Info("No snapshot store configured, skipping plan snapshot")
		return &workflows.SnapshotOutput{}, nil
	}

	logger.Info("Snapshotting plan", "instantiation_id", input.InstantiationID)

	startTime := time.Now()

	payload := map[string]any{
		"instantiation_id": input.InstantiationID,
		"template_id":      input.TemplateID,
		"components":       input.Components,
		"optimizations":    input.Applied,
		"exported_at":      time.Now().UTC(),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling plan snapshot: %w", err)
	}

	key := storage.ProvisionSnapshotKey(input.TenantID.String(), input.InstantiationID.String())
	url, err := a.store.UploadJSON(ctx, key, data)
	if err != nil {
		return nil, fmt.Errorf("uploading plan snapshot: %w", err)
	}

	logger.Info("Plan snapshot uploaded", "url", url)

	return &workflows.SnapshotOutput{
		SnapshotURL: url,
		Duration:    time.Since(startTime),
	}, nil
}

// CompleteInstantiation finalizes the instantiation row. An empty
// Reason marks it ready, anything else marks it failed.
func (a *Activity) CompleteInstantiation(ctx context.Context, input workflows.CompleteInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Completing instantiation",
		"instantiation_id", input.InstantiationID,
		"failed", input.Reason != "",
	)

	inst, err := a.repo.GetByID(ctx, input.InstantiationID)
	if err != nil {
		return fmt.Errorf("getting instantiation: %w", err)
	}

	if input.Reason != "" {
		inst.MarkFailed(input.Reason)
	} else {
		inst.MarkReady(input.SetupTime)
	}

	return a.repo.Update(ctx, inst)
}
