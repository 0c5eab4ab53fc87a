package provision

import (
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/domain"
	"github.com/pagewright/pagewright/internal/intelligence"
	"github.com/pagewright/pagewright/internal/workflows"
)

// RegisterActivities registers all provisioning activities with the Temporal worker
func RegisterActivities(w worker.Worker, repo domain.InstantiationRepository, engine *intelligence.Engine, store SnapshotStore, logger *zap.Logger) {
	provisionActivity := NewActivity(repo, engine, store, logger)

	w.RegisterActivityWithOptions(provisionActivity.ValidateTemplate, activity.RegisterOptions{
		Name: workflows.ValidateTemplateActivityName,
	})

	w.RegisterActivityWithOptions(provisionActivity.CustomizeComponents, activity.RegisterOptions{
		Name: workflows.CustomizeComponentsActivityName,
	})

	w.RegisterActivityWithOptions(provisionActivity.PersistInstantiation, activity.RegisterOptions{
		Name: workflows.PersistInstantiationActivityName,
	})

	w.RegisterActivityWithOptions(provisionActivity.SnapshotPlan, activity.RegisterOptions{
		Name: workflows.SnapshotPlanActivityName,
	})

	w.RegisterActivityWithOptions(provisionActivity.CompleteInstantiation, activity.RegisterOptions{
		Name: workflows.CompleteInstantiationActivityName,
	})
}
