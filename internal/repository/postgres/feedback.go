package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pagewright/pagewright/internal/domain"
)

// FeedbackRepository implements domain.FeedbackRepository with PostgreSQL
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// feedbackRow represents the database row structure
type feedbackRow struct {
	ID         uuid.UUID  `db:"id"`
	TenantID   uuid.UUID  `db:"tenant_id"`
	TargetType string     `db:"target_type"`
	TargetID   string     `db:"target_id"`
	Rating     int        `db:"rating"`
	Comment    string     `db:"comment"`
	Context    []byte     `db:"context"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

func (r *feedbackRow) toDomain() (*domain.Feedback, error) {
	fb := &domain.Feedback{
		ID:         r.ID,
		TenantID:   r.TenantID,
		TargetType: domain.FeedbackTarget(r.TargetType),
		TargetID:   r.TargetID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Timestamps: domain.Timestamps{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			DeletedAt: r.DeletedAt,
		},
	}

	if r.Context != nil {
		if err := json.Unmarshal(r.Context, &fb.Context); err != nil {
			return nil, err
		}
	}

	return fb, nil
}

const insertFeedbackQuery = `
	INSERT INTO feedback (
		id, tenant_id, target_type, target_id, rating, comment, context,
		created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// Create inserts a single piece of feedback
func (r *FeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	contextJSON, err := marshalContext(fb.Context)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, insertFeedbackQuery,
		fb.ID,
		fb.TenantID,
		string(fb.TargetType),
		fb.TargetID,
		fb.Rating,
		fb.Comment,
		contextJSON,
		fb.CreatedAt,
		fb.UpdatedAt,
	)
	return err
}

// CreateBatch inserts a batch of feedback in a single transaction
func (r *FeedbackRepository) CreateBatch(ctx context.Context, batch []*domain.Feedback) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, insertFeedbackQuery)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, fb := range batch {
		contextJSON, err := marshalContext(fb.Context)
		if err != nil {
			return err
		}

		_, err = stmt.ExecContext(ctx,
			fb.ID,
			fb.TenantID,
			string(fb.TargetType),
			fb.TargetID,
			fb.Rating,
			fb.Comment,
			contextJSON,
			fb.CreatedAt,
			fb.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListByTarget retrieves the most recent feedback for a specific target
func (r *FeedbackRepository) ListByTarget(ctx context.Context, target domain.FeedbackTarget, targetID string, limit int) ([]*domain.Feedback, error) {
	query := `
		SELECT id, tenant_id, target_type, target_id, rating, comment, context,
		       created_at, updated_at, deleted_at
		FROM feedback
		WHERE target_type = $1 AND target_id = $2 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $3
	`

	var rows []feedbackRow
	if err := r.db.SelectContext(ctx, &rows, query, string(target), targetID, limit); err != nil {
		return nil, err
	}

	out := make([]*domain.Feedback, len(rows))
	for i, row := range rows {
		fb, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out[i] = fb
	}

	return out, nil
}

// CountSince counts feedback recorded after the given time
func (r *FeedbackRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM feedback
		WHERE created_at > $1 AND deleted_at IS NULL
	`

	var count int
	if err := r.db.GetContext(ctx, &count, query, since); err != nil {
		return 0, err
	}

	return count, nil
}

// marshalContext serializes optional JSONB context, keeping NULL for absent maps
func marshalContext(c domain.JSONB) (interface{}, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}
