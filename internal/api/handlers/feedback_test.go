package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pagewright/pagewright/internal/api/middleware"
	"github.com/pagewright/pagewright/internal/domain"
	"github.com/pagewright/pagewright/internal/feedback"
	"github.com/pagewright/pagewright/pkg/httputil"
)

// fakeFeedbackRepo is an in-memory domain.FeedbackRepository
type fakeFeedbackRepo struct {
	mu      sync.Mutex
	entries []*domain.Feedback
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, fb *domain.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, fb)
	return nil
}

func (f *fakeFeedbackRepo) CreateBatch(ctx context.Context, batch []*domain.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, batch...)
	return nil
}

func (f *fakeFeedbackRepo) ListByTarget(ctx context.Context, target domain.FeedbackTarget, targetID string, limit int) ([]*domain.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Feedback{}
	for _, fb := range f.entries {
		if fb.TargetType == target && fb.TargetID == targetID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeFeedbackRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries), nil
}

func (f *fakeFeedbackRepo) stored() []*domain.Feedback {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Feedback{}, f.entries...)
}

func submitFeedback(t *testing.T, h *FeedbackHandler, tenantID uuid.UUID, body string) (*httptest.ResponseRecorder, httputil.Response) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if tenantID != uuid.Nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.ContextKeyTenantID, tenantID))
	}

	rec := httptest.NewRecorder()
	h.Create(rec, req)

	var resp httputil.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestFeedbackHandler_Create(t *testing.T) {
	repo := &fakeFeedbackRepo{}
	recorder := feedback.NewRecorder(repo, zaptest.NewLogger(t))
	h := NewFeedbackHandler(recorder, nil, zaptest.NewLogger(t))

	tenantID := uuid.New()
	rec, resp := submitFeedback(t, h, tenantID, `{
		"target_type": "suggestion",
		"target_id": "suggestion-lead-form",
		"rating": 4,
		"comment": "spot on",
		"context": {"workflow_type": "lead_capture"}
	}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["accepted"])

	// Buffered feedback lands in the repository once the recorder drains
	require.NoError(t, recorder.Close())
	stored := repo.stored()
	require.Len(t, stored, 1)
	assert.Equal(t, tenantID, stored[0].TenantID)
	assert.Equal(t, domain.FeedbackTargetSuggestion, stored[0].TargetType)
	assert.Equal(t, 4, stored[0].Rating)
	assert.Equal(t, "spot on", stored[0].Comment)
}

func TestFeedbackHandler_Create_InvalidRatingStillAccepted(t *testing.T) {
	repo := &fakeFeedbackRepo{}
	recorder := feedback.NewRecorder(repo, zaptest.NewLogger(t))
	h := NewFeedbackHandler(recorder, nil, zaptest.NewLogger(t))

	rec, resp := submitFeedback(t, h, uuid.New(), `{
		"target_type": "component",
		"target_id": "pattern-button",
		"rating": 11
	}`)

	// Fire and forget: the submission is dropped, not bounced
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, resp.Success)

	require.NoError(t, recorder.Close())
	assert.Empty(t, repo.stored())
}

func TestFeedbackHandler_Create_MalformedBodyStillAccepted(t *testing.T) {
	repo := &fakeFeedbackRepo{}
	recorder := feedback.NewRecorder(repo, zaptest.NewLogger(t))
	h := NewFeedbackHandler(recorder, nil, zaptest.NewLogger(t))

	rec, resp := submitFeedback(t, h, uuid.New(), `{broken`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, resp.Success)

	require.NoError(t, recorder.Close())
	assert.Empty(t, repo.stored())
}
