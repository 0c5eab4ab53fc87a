package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ShareKind identifies what kind of engine result a share holds
type ShareKind string

const (
	ShareKindGeneration  ShareKind = "generation"
	ShareKindSuggestions ShareKind = "suggestions"
	ShareKindAnalysis    ShareKind = "analysis"
)

func (k ShareKind) IsValid() bool {
	switch k {
	case ShareKindGeneration, ShareKindSuggestions, ShareKindAnalysis:
		return true
	}
	return false
}

// SharedResult is a publicly viewable snapshot of an engine result,
// addressed by an unguessable share code
type SharedResult struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	ShareCode   string     `json:"share_code" db:"share_code"`
	Kind        ShareKind  `json:"kind" db:"kind"`
	Title       string     `json:"title,omitempty" db:"title"`
	Payload     JSONB      `json:"payload" db:"payload"`
	SnapshotURL string     `json:"snapshot_url,omitempty" db:"snapshot_url"`
	ViewCount   int        `json:"view_count" db:"view_count"`
	MaxViews    int        `json:"max_views" db:"max_views"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	Timestamps
}

// NewSharedResult creates a share with a fresh id and timestamps.
// MaxViews of zero means unlimited.
func NewSharedResult(tenantID uuid.UUID, code string, kind ShareKind, title string, payload JSONB) *SharedResult {
	s := &SharedResult{
		ID:        uuid.New(),
		TenantID:  tenantID,
		ShareCode: code,
		Kind:      kind,
		Title:     title,
		Payload:   payload,
	}
	s.SetTimestamps()
	return s
}

// Validate checks the share before persistence
func (s *SharedResult) Validate() error {
	if s.ShareCode == "" {
		return ValidationError("share_code", "share code is required")
	}
	if !s.Kind.IsValid() {
		return ValidationError("kind", "unknown share kind")
	}
	if s.MaxViews < 0 {
		return ValidationError("max_views", "max views cannot be negative")
	}
	return nil
}

// IsExpired reports whether the share's expiry has passed
func (s *SharedResult) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// Viewable reports whether the share can still be served
func (s *SharedResult) Viewable(now time.Time) bool {
	if s.DeletedAt != nil {
		return false
	}
	if s.IsExpired(now) {
		return false
	}
	if s.MaxViews > 0 && s.ViewCount >= s.MaxViews {
		return false
	}
	return true
}

// ShareRepository defines data access for shared results
type ShareRepository interface {
	Create(ctx context.Context, share *SharedResult) error
	GetByCode(ctx context.Context, code string) (*SharedResult, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) (int, error)
}
