package domain

import (
	"context"

	"github.com/google/uuid"
)

// InstantiationStatus tracks a template instantiation through provisioning
type InstantiationStatus string

const (
	InstantiationStatusPending      InstantiationStatus = "pending"
	InstantiationStatusProvisioning InstantiationStatus = "provisioning"
	InstantiationStatusReady        InstantiationStatus = "ready"
	InstantiationStatusFailed       InstantiationStatus = "failed"
)

func (s InstantiationStatus) IsValid() bool {
	switch s {
	case InstantiationStatusPending, InstantiationStatusProvisioning,
		InstantiationStatusReady, InstantiationStatusFailed:
		return true
	}
	return false
}

func (s InstantiationStatus) IsTerminal() bool {
	return s == InstantiationStatusReady || s == InstantiationStatusFailed
}

// TemplateInstantiation records a server-side instantiation of a workflow
// template for a tenant
type TemplateInstantiation struct {
	ID             uuid.UUID           `json:"id" db:"id"`
	TenantID       uuid.UUID           `json:"tenant_id" db:"tenant_id"`
	TemplateID     string              `json:"template_id" db:"template_id"`
	WorkflowID     string              `json:"workflow_id,omitempty" db:"workflow_id"`
	Status         InstantiationStatus `json:"status" db:"status"`
	Customizations JSONB               `json:"customizations,omitempty" db:"customizations"`
	SetupTime      string              `json:"estimated_setup_time,omitempty" db:"setup_time"`
	Error          string              `json:"error,omitempty" db:"error"`
	Timestamps
}

// NewTemplateInstantiation creates a pending instantiation
func NewTemplateInstantiation(tenantID uuid.UUID, templateID string) *TemplateInstantiation {
	inst := &TemplateInstantiation{
		ID:         uuid.New(),
		TenantID:   tenantID,
		TemplateID: templateID,
		Status:     InstantiationStatusPending,
	}
	inst.SetTimestamps()
	return inst
}

// Validate checks the instantiation before persistence
func (i *TemplateInstantiation) Validate() error {
	if i.TemplateID == "" {
		return ValidationError("template_id", "template id is required")
	}
	if !i.Status.IsValid() {
		return ValidationError("status", "unknown instantiation status")
	}
	return nil
}

// MarkProvisioning moves the instantiation into the provisioning state
func (i *TemplateInstantiation) MarkProvisioning(workflowID string) {
	i.Status = InstantiationStatusProvisioning
	i.WorkflowID = workflowID
	i.Touch()
}

// MarkReady records a successful provisioning
func (i *TemplateInstantiation) MarkReady(setupTime string) {
	i.Status = InstantiationStatusReady
	i.SetupTime = setupTime
	i.Touch()
}

// MarkFailed records a failed provisioning with its reason
func (i *TemplateInstantiation) MarkFailed(reason string) {
	i.Status = InstantiationStatusFailed
	i.Error = reason
	i.Touch()
}

// InstantiationRepository defines data access for template instantiations
type InstantiationRepository interface {
	Create(ctx context.Context, inst *TemplateInstantiation) error
	GetByID(ctx context.Context, id uuid.UUID) (*TemplateInstantiation, error)
	Update(ctx context.Context, inst *TemplateInstantiation) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]*TemplateInstantiation, error)
}
