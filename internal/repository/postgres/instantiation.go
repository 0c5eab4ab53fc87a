package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pagewright/pagewright/internal/domain"
)

// InstantiationRepository implements domain.InstantiationRepository with PostgreSQL
type InstantiationRepository struct {
	db *sqlx.DB
}

// NewInstantiationRepository creates a new instantiation repository
func NewInstantiationRepository(db *sqlx.DB) *InstantiationRepository {
	return &InstantiationRepository{db: db}
}

// instantiationRow represents the database row structure
type instantiationRow struct {
	ID             uuid.UUID  `db:"id"`
	TenantID       uuid.UUID  `db:"tenant_id"`
	TemplateID     string     `db:"template_id"`
	WorkflowID     string     `db:"workflow_id"`
	Status         string     `db:"status"`
	Customizations []byte     `db:"customizations"`
	SetupTime      string     `db:"setup_time"`
	Error          string     `db:"error"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

func (r *instantiationRow) toDomain() (*domain.TemplateInstantiation, error) {
	inst := &domain.TemplateInstantiation{
		ID:         r.ID,
		TenantID:   r.TenantID,
		TemplateID: r.TemplateID,
		WorkflowID: r.WorkflowID,
		Status:     domain.InstantiationStatus(r.Status),
		SetupTime:  r.SetupTime,
		Error:      r.Error,
		Timestamps: domain.Timestamps{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			DeletedAt: r.DeletedAt,
		},
	}

	if r.Customizations != nil {
		if err := json.Unmarshal(r.Customizations, &inst.Customizations); err != nil {
			return nil, err
		}
	}

	return inst, nil
}

// Create inserts a new template instantiation
func (r *InstantiationRepository) Create(ctx context.Context, inst *domain.TemplateInstantiation) error {
	customizations, err := marshalContext(inst.Customizations)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO instantiations (
			id, tenant_id, template_id, workflow_id, status, customizations,
			setup_time, error, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.ExecContext(ctx, query,
		inst.ID,
		inst.TenantID,
		inst.TemplateID,
		inst.WorkflowID,
		string(inst.Status),
		customizations,
		inst.SetupTime,
		inst.Error,
		inst.CreatedAt,
		inst.UpdatedAt,
	)
	return err
}

// GetByID retrieves an instantiation by ID
func (r *InstantiationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TemplateInstantiation, error) {
	query := `
		SELECT id, tenant_id, template_id, workflow_id, status, customizations,
		       setup_time, error, created_at, updated_at, deleted_at
		FROM instantiations
		WHERE id = $1 AND deleted_at IS NULL
	`

	var row instantiationRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("instantiation", id)
		}
		return nil, err
	}

	return row.toDomain()
}

// Update persists the current state of an instantiation
func (r *InstantiationRepository) Update(ctx context.Context, inst *domain.TemplateInstantiation) error {
	customizations, err := marshalContext(inst.Customizations)
	if err != nil {
		return err
	}

	query := `
		UPDATE instantiations
		SET workflow_id = $2, status = $3, customizations = $4,
		    setup_time = $5, error = $6, updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		inst.ID,
		inst.WorkflowID,
		string(inst.Status),
		customizations,
		inst.SetupTime,
		inst.Error,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFoundError("instantiation", inst.ID)
	}

	return nil
}

// ListByTenant retrieves the most recent instantiations for a tenant
func (r *InstantiationRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]*domain.TemplateInstantiation, error) {
	query := `
		SELECT id, tenant_id, template_id, workflow_id, status, customizations,
		       setup_time, error, created_at, updated_at, deleted_at
		FROM instantiations
		WHERE tenant_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2
	`

	var rows []instantiationRow
	if err := r.db.SelectContext(ctx, &rows, query, tenantID, limit); err != nil {
		return nil, err
	}

	out := make([]*domain.TemplateInstantiation, len(rows))
	for i, row := range rows {
		inst, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out[i] = inst
	}

	return out, nil
}
