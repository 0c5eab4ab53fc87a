// Package export publishes engine results as share links. A share is a
// postgres row addressed by an unguessable code, optionally mirrored to
// object storage as a JSON document and a rendered HTML page.
package export

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/domain"
	"github.com/pagewright/pagewright/internal/storage"
)

// shareCodeBytes of randomness per code. 9 bytes encode to 12 URL-safe
// characters, enough that collisions are not a practical concern.
const shareCodeBytes = 9

// SnapshotStore uploads share snapshots to object storage.
type SnapshotStore interface {
	UploadJSON(ctx context.Context, key string, data []byte) (string, error)
	UploadHTML(ctx context.Context, key string, data []byte) (string, error)
}

// Config configures the share service
type Config struct {
	// BaseURL is the externally reachable API root used to build share URLs
	BaseURL string
	// DefaultTTL applies when a share is created without an explicit TTL
	DefaultTTL time.Duration
}

// ShareService creates and resolves share links
type ShareService struct {
	repo       domain.ShareRepository
	store      SnapshotStore
	baseURL    string
	defaultTTL time.Duration
	tmpl       *template.Template
	logger     *zap.Logger
}

// NewShareService creates a share service. The store may be nil; shares then
// live only in postgres and no snapshots are written.
func NewShareService(cfg Config, repo domain.ShareRepository, store SnapshotStore, logger *zap.Logger) (*ShareService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	defaultTTL := cfg.DefaultTTL
	if defaultTTL == 0 {
		defaultTTL = 7 * 24 * time.Hour
	}

	tmpl, err := template.New("share").Funcs(template.FuncMap{
		"upper": strings.ToUpper,
	}).Parse(SharePageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse share template: %w", err)
	}

	return &ShareService{
		repo:       repo,
		store:      store,
		baseURL:    baseURL,
		defaultTTL: defaultTTL,
		tmpl:       tmpl,
		logger:     logger,
	}, nil
}

// CreateShareInput describes the result being shared
type CreateShareInput struct {
	Kind     domain.ShareKind
	Title    string
	Payload  domain.JSONB
	TTL      time.Duration
	MaxViews int
}

// ShareLink is what the caller hands out
type ShareLink struct {
	ShareCode   string     `json:"share_code"`
	URL         string     `json:"url"`
	SnapshotURL string     `json:"snapshot_url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// Create persists a share and returns the link for it. Snapshot uploads are
// best effort; a storage outage never blocks share creation.
func (s *ShareService) Create(ctx context.Context, tenantID uuid.UUID, input CreateShareInput) (*ShareLink, error) {
	if len(input.Payload) == 0 {
		return nil, domain.ValidationError("payload", "payload is required")
	}
	if input.TTL < 0 {
		return nil, domain.ValidationError("ttl", "ttl cannot be negative")
	}

	code, err := newShareCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate share code: %w", err)
	}

	share := domain.NewSharedResult(tenantID, code, input.Kind, input.Title, input.Payload)
	share.MaxViews = input.MaxViews

	ttl := input.TTL
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	expires := time.Now().UTC().Add(ttl)
	share.ExpiresAt = &expires

	if err := share.Validate(); err != nil {
		return nil, err
	}

	// Uploads happen before the insert so the row carries the snapshot URL
	if s.store != nil {
		share.SnapshotURL = s.uploadSnapshots(ctx, share)
	}

	if err := s.repo.Create(ctx, share); err != nil {
		return nil, err
	}

	s.logger.Info("share created",
		zap.String("share_code", code),
		zap.String("kind", string(share.Kind)),
		zap.String("tenant_id", tenantID.String()),
	)

	return &ShareLink{
		ShareCode:   code,
		URL:         s.baseURL + "/api/v1/shares/" + code,
		SnapshotURL: share.SnapshotURL,
		ExpiresAt:   share.ExpiresAt,
	}, nil
}

// Resolve returns the share behind a code and counts the view. A share past
// its expiry or view limit resolves to a gone error, not a not-found one,
// so callers can tell a dead link from a bad one.
func (s *ShareService) Resolve(ctx context.Context, code string) (*domain.SharedResult, error) {
	share, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if !share.Viewable(now) {
		reason := "expired"
		if share.MaxViews > 0 && share.ViewCount >= share.MaxViews {
			reason = "view limit reached"
		}
		return nil, domain.ShareGoneError(code, reason)
	}

	// Serving the share beats counting it; a failed increment is logged only
	if err := s.repo.IncrementViews(ctx, share.ID); err != nil {
		s.logger.Warn("failed to increment share views",
			zap.String("share_code", code),
			zap.Error(err),
		)
	} else {
		share.ViewCount++
	}

	return share, nil
}

// RenderHTML renders the standalone share page for a result
func (s *ShareService) RenderHTML(share *domain.SharedResult) ([]byte, error) {
	pretty, err := json.MarshalIndent(share.Payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	data := sharePage{
		Title:     share.Title,
		Kind:      string(share.Kind),
		CreatedAt: share.CreatedAt,
		ExpiresAt: share.ExpiresAt,
		MaxViews:  share.MaxViews,
		Payload:   string(pretty),
	}
	if data.Title == "" {
		data.Title = "Shared result"
	}

	var buf strings.Builder
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render share page: %w", err)
	}
	return []byte(buf.String()), nil
}

// uploadSnapshots writes the JSON and HTML snapshots, returning the URL of
// the HTML page or empty when nothing could be written.
func (s *ShareService) uploadSnapshots(ctx context.Context, share *domain.SharedResult) string {
	pretty, err := json.MarshalIndent(share.Payload, "", "  ")
	if err != nil {
		s.logger.Warn("failed to marshal share payload", zap.Error(err))
		return ""
	}

	if _, err := s.store.UploadJSON(ctx, storage.ShareObjectKey(share.ShareCode, "json"), pretty); err != nil {
		s.logger.Warn("share JSON snapshot upload failed",
			zap.String("share_code", share.ShareCode),
			zap.Error(err),
		)
	}

	page, err := s.RenderHTML(share)
	if err != nil {
		s.logger.Warn("share page render failed", zap.Error(err))
		return ""
	}

	url, err := s.store.UploadHTML(ctx, storage.ShareObjectKey(share.ShareCode, "html"), page)
	if err != nil {
		s.logger.Warn("share HTML snapshot upload failed",
			zap.String("share_code", share.ShareCode),
			zap.Error(err),
		)
		return ""
	}

	return url
}

// newShareCode returns a fresh URL-safe share code
func newShareCode() (string, error) {
	buf := make([]byte, shareCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
