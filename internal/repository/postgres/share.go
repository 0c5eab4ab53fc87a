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

// ShareRepository implements domain.ShareRepository with PostgreSQL
type ShareRepository struct {
	db *sqlx.DB
}

// NewShareRepository creates a new share repository
func NewShareRepository(db *sqlx.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// shareRow represents the database row structure
type shareRow struct {
	ID          uuid.UUID  `db:"id"`
	TenantID    uuid.UUID  `db:"tenant_id"`
	ShareCode   string     `db:"share_code"`
	Kind        string     `db:"kind"`
	Title       string     `db:"title"`
	Payload     []byte     `db:"payload"`
	SnapshotURL string     `db:"snapshot_url"`
	ViewCount   int        `db:"view_count"`
	MaxViews    int        `db:"max_views"`
	ExpiresAt   *time.Time `db:"expires_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

func (r *shareRow) toDomain() (*domain.SharedResult, error) {
	share := &domain.SharedResult{
		ID:          r.ID,
		TenantID:    r.TenantID,
		ShareCode:   r.ShareCode,
		Kind:        domain.ShareKind(r.Kind),
		Title:       r.Title,
		SnapshotURL: r.SnapshotURL,
		ViewCount:   r.ViewCount,
		MaxViews:    r.MaxViews,
		ExpiresAt:   r.ExpiresAt,
		Timestamps: domain.Timestamps{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			DeletedAt: r.DeletedAt,
		},
	}

	if r.Payload != nil {
		if err := json.Unmarshal(r.Payload, &share.Payload); err != nil {
			return nil, err
		}
	}

	return share, nil
}

// Create inserts a new shared result
func (r *ShareRepository) Create(ctx context.Context, share *domain.SharedResult) error {
	payload, err := marshalContext(share.Payload)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO shares (
			id, tenant_id, share_code, kind, title, payload, snapshot_url,
			view_count, max_views, expires_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.ExecContext(ctx, query,
		share.ID,
		share.TenantID,
		share.ShareCode,
		string(share.Kind),
		share.Title,
		payload,
		share.SnapshotURL,
		share.ViewCount,
		share.MaxViews,
		share.ExpiresAt,
		share.CreatedAt,
		share.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.AlreadyExistsError("share", "share_code", share.ShareCode)
		}
		return err
	}

	return nil
}

// GetByCode retrieves a share by its public code
func (r *ShareRepository) GetByCode(ctx context.Context, code string) (*domain.SharedResult, error) {
	query := `
		SELECT id, tenant_id, share_code, kind, title, payload, snapshot_url,
		       view_count, max_views, expires_at, created_at, updated_at, deleted_at
		FROM shares
		WHERE share_code = $1 AND deleted_at IS NULL
	`

	var row shareRow
	if err := r.db.GetContext(ctx, &row, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("share", code)
		}
		return nil, err
	}

	return row.toDomain()
}

// IncrementViews bumps the view counter for a share
func (r *ShareRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE shares
		SET view_count = view_count + 1, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFoundError("share", id)
	}

	return nil
}

// SoftDelete marks a share as deleted without removing the row
func (r *ShareRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE shares
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFoundError("share", id)
	}

	return nil
}

// DeleteExpired soft deletes all shares past their expiry
func (r *ShareRepository) DeleteExpired(ctx context.Context) (int, error) {
	query := `
		UPDATE shares
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE deleted_at IS NULL
		  AND expires_at IS NOT NULL
		  AND expires_at < NOW()
	`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(rows), nil
}
