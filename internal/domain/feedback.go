package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FeedbackTarget identifies what a piece of feedback is about
type FeedbackTarget string

const (
	FeedbackTargetComponent  FeedbackTarget = "component"
	FeedbackTargetSuggestion FeedbackTarget = "suggestion"
	FeedbackTargetTemplate   FeedbackTarget = "template"
	FeedbackTargetAnalysis   FeedbackTarget = "analysis"
)

func (t FeedbackTarget) IsValid() bool {
	switch t {
	case FeedbackTargetComponent, FeedbackTargetSuggestion, FeedbackTargetTemplate, FeedbackTargetAnalysis:
		return true
	}
	return false
}

// Feedback is a user reaction to an engine result. It is recorded for
// product analytics only and never feeds back into scoring.
type Feedback struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	TenantID   uuid.UUID      `json:"tenant_id" db:"tenant_id"`
	TargetType FeedbackTarget `json:"target_type" db:"target_type"`
	TargetID   string         `json:"target_id" db:"target_id"`
	Rating     int            `json:"rating" db:"rating"`
	Comment    string         `json:"comment,omitempty" db:"comment"`
	Context    JSONB          `json:"context,omitempty" db:"context"`
	Timestamps
}

// NewFeedback creates feedback with a fresh id and timestamps
func NewFeedback(tenantID uuid.UUID, target FeedbackTarget, targetID string, rating int, comment string) *Feedback {
	f := &Feedback{
		ID:         uuid.New(),
		TenantID:   tenantID,
		TargetType: target,
		TargetID:   targetID,
		Rating:     rating,
		Comment:    comment,
	}
	f.SetTimestamps()
	return f
}

// Validate checks feedback before persistence
func (f *Feedback) Validate() error {
	if !f.TargetType.IsValid() {
		return ValidationError("target_type", "unknown feedback target")
	}
	if f.TargetID == "" {
		return ValidationError("target_id", "target id is required")
	}
	if f.Rating < 1 || f.Rating > 5 {
		return ValidationError("rating", "rating must be between 1 and 5")
	}
	if len(f.Comment) > 2000 {
		return ValidationError("comment", "comment must be 2000 characters or fewer")
	}
	return nil
}

// FeedbackRepository defines data access for feedback
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *Feedback) error
	CreateBatch(ctx context.Context, batch []*Feedback) error
	ListByTarget(ctx context.Context, target FeedbackTarget, targetID string, limit int) ([]*Feedback, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}
