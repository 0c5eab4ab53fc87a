package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Activity names shared between the worker registrations and the
// workflow executors.
const (
	ValidateTemplateActivityName      = "ValidateTemplateActivity"
	CustomizeComponentsActivityName   = "CustomizeComponentsActivity"
	PersistInstantiationActivityName  = "PersistInstantiationActivity"
	SnapshotPlanActivityName          = "SnapshotPlanActivity"
	CompleteInstantiationActivityName = "CompleteInstantiationActivity"
)

// TemplateProvisionWorkflow drives a template instantiation through
// validation, component generation, persistence, and snapshot export.
// A phase failure marks the instantiation failed and is reported via
// the output status rather than a workflow error.
func TemplateProvisionWorkflow(ctx workflow.Context, input ProvisionInput) (*ProvisionOutput, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting template provisioning workflow",
		"instantiationID", input.InstantiationID,
		"templateID", input.TemplateID)

	startTime := workflow.Now(ctx)
	output := &ProvisionOutput{
		InstantiationID: input.InstantiationID,
		TemplateID:      input.TemplateID,
		Status:          "running",
	}

	// Phase 1: Validate the template and resolve its seed prompts
	logger.Info("Phase 1: Validating template", "templateID", input.TemplateID)
	validated, err := executeValidate(ctx, input)
	if err != nil {
		return failProvision(ctx, output, startTime, fmt.Sprintf("validation failed: %v", err))
	}

	// Phase 2: Run the generator over the template's seed prompts
	logger.Info("Phase 2: Customizing components", "seedPrompts", len(validated.SeedPrompts))
	customized, err := executeCustomize(ctx, CustomizeInput{
		TemplateID:  input.TemplateID,
		SeedPrompts: validated.SeedPrompts,
		Context:     input.Context,
	})
	if err != nil {
		return failProvision(ctx, output, startTime, fmt.Sprintf("customization failed: %v", err))
	}
	output.ComponentCount = len(customized.Components)

	// Phase 3: Persist the generated plan on the instantiation row
	logger.Info("Phase 3: Persisting instantiation", "components", len(customized.Components))
	if err := executePersist(ctx, PersistInput{
		InstantiationID: input.InstantiationID,
		Components:      customized.Components,
		Applied:         customized.Applied,
	}); err != nil {
		return failProvision(ctx, output, startTime, fmt.Sprintf("persistence failed: %v", err))
	}

	// Phase 4: Snapshot the plan to object storage (best effort)
	logger.Info("Phase 4: Snapshotting plan", "instantiationID", input.InstantiationID)
	snapshot, err := executeSnapshot(ctx, SnapshotInput{
		InstantiationID: input.InstantiationID,
		TenantID:        input.TenantID,
		TemplateID:      input.TemplateID,
		Components:      customized.Components,
		Applied:         customized.Applied,
	})
	if err != nil {
		logger.Warn("Plan snapshot failed, continuing without one", "error", err)
	} else {
		output.SnapshotURL = snapshot.SnapshotURL
	}

	// Phase 5: Mark the instantiation ready
	logger.Info("Phase 5: Completing instantiation", "setupTime", validated.SetupTime)
	if err := executeComplete(ctx, CompleteInput{
		InstantiationID: input.InstantiationID,
		SetupTime:       validated.SetupTime,
	}); err != nil {
		return failProvision(ctx, output, startTime, fmt.Sprintf("completion failed: %v", err))
	}

	output.Status = "completed"
	output.CompletedAt = workflow.Now(ctx)
	output.TotalDuration = output.CompletedAt.Sub(startTime)

	logger.Info("Template provisioning workflow completed",
		"instantiationID", input.InstantiationID,
		"components", output.ComponentCount,
		"duration", output.TotalDuration)

	return output, nil
}

// failProvision records the failure on the instantiation row, finalizes
// the output, and returns it without a workflow error.
func failProvision(ctx workflow.Context, output *ProvisionOutput, startTime time.Time, reason string) (*ProvisionOutput, error) {
	logger := workflow.GetLogger(ctx)
	logger.Error("Template provisioning failed", "reason", reason)

	if err := executeComplete(ctx, CompleteInput{
		InstantiationID: output.InstantiationID,
		Reason:          reason,
	}); err != nil {
		logger.Warn("Failed to record instantiation failure", "error", err)
	}

	output.Status = "failed"
	output.Error = reason
	output.CompletedAt = workflow.Now(ctx)
	output.TotalDuration = output.CompletedAt.Sub(startTime)
	return output, nil // Return output even on failure for visibility
}

func executeValidate(ctx workflow.Context, input ProvisionInput) (*ValidateOutput, error) {
	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	var output ValidateOutput
	err := workflow.ExecuteActivity(ctx, ValidateTemplateActivityName, ValidateInput{
		TemplateID: input.TemplateID,
		Context:    input.Context,
	}).Get(ctx, &output)
	return &output, err
}

func executeCustomize(ctx workflow.Context, input CustomizeInput) (*CustomizeOutput, error) {
	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	var output CustomizeOutput
	err := workflow.ExecuteActivity(ctx, CustomizeComponentsActivityName, input).Get(ctx, &output)
	return &output, err
}

func executePersist(ctx workflow.Context, input PersistInput) error {
	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	return workflow.ExecuteActivity(ctx, PersistInstantiationActivityName, input).Get(ctx, nil)
}

func executeSnapshot(ctx workflow.Context, input SnapshotInput) (*SnapshotOutput, error) {
	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	var output SnapshotOutput
	err := workflow.ExecuteActivity(ctx, SnapshotPlanActivityName, input).Get(ctx, &output)
	return &output, err
}

func executeComplete(ctx workflow.Context, input CompleteInput) error {
	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	return workflow.ExecuteActivity(ctx, CompleteInstantiationActivityName, input).Get(ctx, nil)
}
