package workflows

import (
	"time"

	"github.com/google/uuid"

	"github.com/pagewright/pagewright/internal/intelligence"
)

// ProvisionInput is the input for the template provisioning workflow
type ProvisionInput struct {
	InstantiationID uuid.UUID                      `json:"instantiation_id"`
	TenantID        uuid.UUID                      `json:"tenant_id"`
	TemplateID      string                         `json:"template_id"`
	Context         intelligence.GenerationContext `json:"context"`
}

// ProvisionOutput is the output of the template provisioning workflow
type ProvisionOutput struct {
	InstantiationID uuid.UUID     `json:"instantiation_id"`
	TemplateID      string        `json:"template_id"`
	Status          string        `json:"status"`
	ComponentCount  int           `json:"component_count"`
	SnapshotURL     string        `json:"snapshot_url,omitempty"`
	Error           string        `json:"error,omitempty"`
	CompletedAt     time.Time     `json:"completed_at"`
	TotalDuration   time.Duration `json:"total_duration"`
}

// ValidateInput is input for the template validation activity
type ValidateInput struct {
	TemplateID string                         `json:"template_id"`
	Context    intelligence.GenerationContext `json:"context"`
}

// ValidateOutput is output from the template validation activity
type ValidateOutput struct {
	TemplateName string   `json:"template_name"`
	Category     string   `json:"category"`
	SeedPrompts  []string `json:"seed_prompts"`
	SetupTime    string   `json:"setup_time"`
}

// CustomizeInput is input for the component customization activity
type CustomizeInput struct {
	TemplateID  string                         `json:"template_id"`
	SeedPrompts []string                       `json:"seed_prompts"`
	Context     intelligence.GenerationContext `json:"context"`
}

// CustomizeOutput is output from the component customization activity
type CustomizeOutput struct {
	Components []intelligence.GeneratedComponent `json:"components"`
	Applied    []string                          `json:"applied"`
	Duration   time.Duration                     `json:"duration"`
}

// PersistInput is input for the instantiation persistence activity
type PersistInput struct {
	InstantiationID uuid.UUID                         `json:"instantiation_id"`
	Components      []intelligence.GeneratedComponent `json:"components"`
	Applied         []string                          `json:"applied"`
}

// SnapshotInput is input for the plan snapshot activity
type SnapshotInput struct {
	InstantiationID uuid.UUID                         `json:"instantiation_id"`
	TenantID        uuid.UUID                         `json:"tenant_id"`
	TemplateID      string                            `json:"template_id"`
	Components      []intelligence.GeneratedComponent `json:"components"`
	Applied         []string                          `json:"applied"`
}

// SnapshotOutput is output from the plan snapshot activity
type SnapshotOutput struct {
	SnapshotURL string        `json:"snapshot_url"`
	Duration    time.Duration `json:"duration"`
}

// CompleteInput is input for the instantiation completion activity. An
// empty Reason marks the instantiation ready; anything else marks it
// failed with that reason.
type CompleteInput struct {
	InstantiationID uuid.UUID `json:"instantiation_id"`
	SetupTime       string    `json:"setup_time,omitempty"`
	Reason          string    `json:"reason,omitempty"`
}
