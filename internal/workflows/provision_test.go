package workflows_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/activities/provision"
	"github.com/pagewright/pagewright/internal/domain"
	"github.com/pagewright/pagewright/internal/intelligence"
	"github.com/pagewright/pagewright/internal/workflows"
)

type memInstantiationRepo struct {
	byID map[uuid.UUID]*domain.TemplateInstantiation
}

func newMemInstantiationRepo() *memInstantiationRepo {
	return &memInstantiationRepo{byID: make(map[uuid.UUID]*domain.TemplateInstantiation)}
}

func (r *memInstantiationRepo) Create(_ context.Context, inst *domain.TemplateInstantiation) error {
	copied := *inst
	r.byID[inst.ID] = &copied
	return nil
}

func (r *memInstantiationRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.TemplateInstantiation, error) {
	inst, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFoundError("instantiation", id)
	}
	copied := *inst
	return &copied, nil
}

func (r *memInstantiationRepo) Update(_ context.Context, inst *domain.TemplateInstantiation) error {
	if _, ok := r.byID[inst.ID]; !ok {
		return domain.NotFoundError("instantiation", inst.ID)
	}
	copied := *inst
	r.byID[inst.ID] = &copied
	return nil
}

func (r *memInstantiationRepo) ListByTenant(_ context.Context, tenantID uuid.UUID, limit int) ([]*domain.TemplateInstantiation, error) {
	var out []*domain.TemplateInstantiation
	for _, inst := range r.byID {
		if inst.TenantID == tenantID {
			copied := *inst
			out = append(out, &copied)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

type memSnapshotStore struct {
	uploads map[string][]byte
	fail    bool
}

func (s *memSnapshotStore) UploadJSON(_ context.Context, key string, data []byte) (string, error) {
	if s.fail {
		return "", errors.New("upload refused")
	}
	if s.uploads == nil {
		s.uploads = make(map[string][]byte)
	}
	s.uploads[key] = data
	return "s3://pagewright-test/" + key, nil
}

// registerProvisionActivities wires the real activities onto the test
// environment under the names the workflow executes them by.
func registerProvisionActivities(env *testsuite.TestWorkflowEnvironment, repo domain.InstantiationRepository, store provision.SnapshotStore) {
	act := provision.NewActivity(repo, intelligence.NewEngine(zap.NewNop()), store, zap.NewNop())

	env.RegisterActivityWithOptions(act.ValidateTemplate, activity.RegisterOptions{
		Name: workflows.ValidateTemplateActivityName,
	})
	env.RegisterActivityWithOptions(act.CustomizeComponents, activity.RegisterOptions{
		Name: workflows.CustomizeComponentsActivityName,
	})
	env.RegisterActivityWithOptions(act.PersistInstantiation, activity.RegisterOptions{
		Name: workflows.PersistInstantiationActivityName,
	})
	env.RegisterActivityWithOptions(act.SnapshotPlan, activity.RegisterOptions{
		Name: workflows.SnapshotPlanActivityName,
	})
	env.RegisterActivityWithOptions(act.CompleteInstantiation, activity.RegisterOptions{
		Name: workflows.CompleteInstantiationActivityName,
	})
}

func TestTemplateProvisionWorkflow(t *testing.T) {
	repo := newMemInstantiationRepo()
	store := &memSnapshotStore{}

	inst := domain.NewTemplateInstantiation(uuid.New(), "signup-form")
	require.NoError(t, repo.Create(context.Background(), inst))

	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(workflows.TemplateProvisionWorkflow)
	registerProvisionActivities(env, repo, store)

	env.ExecuteWorkflow(workflows.TemplateProvisionWorkflow, workflows.ProvisionInput{
		InstantiationID: inst.ID,
		TenantID:        inst.TenantID,
		TemplateID:      "signup-form",
		Context: intelligence.GenerationContext{
			Industry: "saas",
			Brand: intelligence.BrandGuidelines{
				Colors: []string{"#336699"},
				Style:  intelligence.BrandStyleModern,
			},
		},
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var output workflows.ProvisionOutput
	require.NoError(t, env.GetWorkflowResult(&output))

	assert.Equal(t, "completed", output.Status)
	assert.Empty(t, output.Error)
	// signup-form customizes two seed prompts
	assert.Equal(t, 2, output.ComponentCount)
	assert.Contains(t, output.SnapshotURL, "provisions/")
	assert.False(t, output.CompletedAt.IsZero())

	stored, err := repo.GetByID(context.Background(), inst.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InstantiationStatusReady, stored.Status)
	assert.Equal(t, "15 minutes", stored.SetupTime)
	assert.Contains(t, stored.Customizations, "components")

	assert.Len(t, store.uploads, 1)
}

func TestTemplateProvisionWorkflowUnknownTemplate(t *testing.T) {
	repo := newMemInstantiationRepo()

	inst := domain.NewTemplateInstantiation(uuid.New(), "no-such-template")
	require.NoError(t, repo.Create(context.Background(), inst))

	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(workflows.TemplateProvisionWorkflow)
	registerProvisionActivities(env, repo, &memSnapshotStore{})

	env.ExecuteWorkflow(workflows.TemplateProvisionWorkflow, workflows.ProvisionInput{
		InstantiationID: inst.ID,
		TenantID:        inst.TenantID,
		TemplateID:      "no-such-template",
	})

	require.True(t, env.IsWorkflowCompleted())
	// Failures surface through the output, not a workflow error
	require.NoError(t, env.GetWorkflowError())

	var output workflows.ProvisionOutput
	require.NoError(t, env.GetWorkflowResult(&output))

	assert.Equal(t, "failed", output.Status)
	assert.Contains(t, output.Error, "validation failed")
	assert.Zero(t, output.ComponentCount)
	assert.Empty(t, output.SnapshotURL)

	stored, err := repo.GetByID(context.Background(), inst.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InstantiationStatusFailed, stored.Status)
	assert.NotEmpty(t, stored.Error)
}

func TestTemplateProvisionWorkflowSnapshotFailure(t *testing.T) {
	repo := newMemInstantiationRepo()
	store := &memSnapshotStore{fail: true}

	inst := domain.NewTemplateInstantiation(uuid.New(), "cta-button")
	require.NoError(t, repo.Create(context.Background(), inst))

	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(workflows.TemplateProvisionWorkflow)
	registerProvisionActivities(env, repo, store)

	env.ExecuteWorkflow(workflows.TemplateProvisionWorkflow, workflows.ProvisionInput{
		InstantiationID: inst.ID,
		TenantID:        inst.TenantID,
		TemplateID:      "cta-button",
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var output workflows.ProvisionOutput
	require.NoError(t, env.GetWorkflowResult(&output))

	// A snapshot failure is non-fatal, provisioning still completes
	assert.Equal(t, "completed", output.Status)
	assert.Empty(t, output.SnapshotURL)

	stored, err := repo.GetByID(context.Background(), inst.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InstantiationStatusReady, stored.Status)
}
