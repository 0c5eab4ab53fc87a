// Package siteimport loads existing sites in a real browser and distills
// them into the brand guidelines and structure summaries the engine
// consumes. It sits behind the assistant's SiteAnalyzer seam; when the
// browser is unavailable the assistant falls back to its simulated
// analysis, so nothing here is allowed to take a caller down.
package siteimport

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pagewright/pagewright/internal/assistant"
	"github.com/pagewright/pagewright/internal/intelligence"
	"github.com/pagewright/pagewright/internal/resilience"
	"github.com/pagewright/pagewright/internal/storage"
)

// Config controls browser behavior and pacing for site imports.
type Config struct {
	Headless     bool
	Timeout      time.Duration
	RateLimitRPM int
	Screenshots  bool
}

// ScreenshotStore uploads page screenshots captured during import.
type ScreenshotStore interface {
	UploadScreenshot(ctx context.Context, key string, data []byte) (string, error)
}

// TenantResolver extracts the calling tenant for screenshot object keys.
type TenantResolver func(ctx context.Context) (uuid.UUID, bool)

// Importer drives a headless browser to analyze live sites.
type Importer struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	config  Config
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
	store   ScreenshotStore
	tenants TenantResolver
	logger  *zap.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithScreenshotStore enables full page screenshots during import.
func WithScreenshotStore(store ScreenshotStore) Option {
	return func(i *Importer) { i.store = store }
}

// WithTenantResolver keys screenshots by the calling tenant.
func WithTenantResolver(tenants TenantResolver) Option {
	return func(i *Importer) { i.tenants = tenants }
}

// NewImporter launches the browser backing all imports. Callers own the
// returned Importer and must Close it.
func NewImporter(cfg Config, logger *zap.Logger, opts ...Option) (*Importer, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RateLimitRPM <= 0 {
		cfg.RateLimitRPM = 30
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	imp := &Importer{
		pw:      pw,
		browser: browser,
		config:  cfg,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RateLimitRPM)/60.0), 1),
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("siteimport")),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp, nil
}

// Close cleans up browser resources
func (i *Importer) Close() error {
	if i.browser != nil {
		i.browser.Close()
	}
	if i.pw != nil {
		return i.pw.Stop()
	}
	return nil
}

// Analyze loads the page and extracts its structure, palette and brand.
// Fetches are rate limited and breaker guarded; errors surface to the
// assistant, which degrades to its simulated analysis.
func (i *Importer) Analyze(ctx context.Context, rawURL string) (assistant.WebsiteAnalysis, error) {
	if err := i.limiter.Wait(ctx); err != nil {
		return assistant.WebsiteAnalysis{}, fmt.Errorf("rate limit: %w", err)
	}

	return resilience.Do(ctx, i.breaker, func(ctx context.Context) (assistant.WebsiteAnalysis, error) {
		return i.analyzePage(ctx, rawURL)
	})
}

// ImportBrand extracts just the brand guidelines from a live site. A
// failed import degrades to empty guidelines rather than an error.
func (i *Importer) ImportBrand(ctx context.Context, rawURL string) intelligence.BrandGuidelines {
	analysis, err := i.Analyze(ctx, rawURL)
	if err != nil {
		i.logger.Warn("brand import degraded to empty guidelines",
			zap.String("url", rawURL),
			zap.Error(err))
		return intelligence.BrandGuidelines{}
	}
	return analysis.Brand
}

func (i *Importer) analyzePage(ctx context.Context, rawURL string) (assistant.WebsiteAnalysis, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return assistant.WebsiteAnalysis{}, fmt.Errorf("parsing url: %w", err)
	}
	if parsed.Host == "" {
		return assistant.WebsiteAnalysis{}, fmt.Errorf("url %q has no host", rawURL)
	}

	browserCtx, err := i.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1920,
			Height: 1080,
		},
		UserAgent: playwright.String("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 PageWright/1.0"),
	})
	if err != nil {
		return assistant.WebsiteAnalysis{}, fmt.Errorf("creating browser context: %w", err)
	}
	defer browserCtx.Close()

	page, err := browserCtx.NewPage()
	if err != nil {
		return assistant.WebsiteAnalysis{}, fmt.Errorf("creating page: %w", err)
	}
	defer page.Close()

	resp, err := page.Goto(rawURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(i.config.Timeout.Milliseconds())),
	})
	if err != nil {
		return assistant.WebsiteAnalysis{}, fmt.Errorf("navigating to %s: %w", rawURL, err)
	}
	if resp != nil && resp.Status() >= 400 {
		return assistant.WebsiteAnalysis{}, fmt.Errorf("page returned status %d", resp.Status())
	}

	// Late-rendering SPAs need a settle window after networkidle
	page.WaitForTimeout(1500)

	title, _ := page.Title()
	if title == "" {
		title = parsed.Host
	}

	sections := extractSections(page)
	palette := extractPalette(page)
	fonts := extractFonts(page)
	style := extractStyle(page, len(fonts), len(palette))
	workflow := detectWorkflow(page)

	brandColors := palette
	if len(brandColors) > 2 {
		brandColors = brandColors[:2]
	}

	notes := []string{fmt.Sprintf("extracted %d sections from the live page", len(sections))}
	if uri := i.captureScreenshot(ctx, page, parsed.Host); uri != "" {
		notes = append(notes, "screenshot captured: "+uri)
	}

	i.logger.Info("site import complete",
		zap.String("url", rawURL),
		zap.Int("sections", len(sections)),
		zap.Int("palette", len(palette)),
		zap.String("workflow", string(workflow)))

	return assistant.WebsiteAnalysis{
		URL:              rawURL,
		Title:            title,
		DetectedSections: sections,
		Palette:          palette,
		Brand: intelligence.BrandGuidelines{
			Colors: brandColors,
			Fonts:  fonts,
			Style:  style,
		},
		SuggestedWorkflow: workflow,
		Notes:             notes,
	}, nil
}

// captureScreenshot uploads a full page screenshot when a store is
// configured. Failures only cost the note, never the import.
func (i *Importer) captureScreenshot(ctx context.Context, page playwright.Page, host string) string {
	if i.store == nil || !i.config.Screenshots {
		return ""
	}

	data, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		i.logger.Warn("screenshot capture failed", zap.String("host", host), zap.Error(err))
		return ""
	}

	tenant := "anonymous"
	if i.tenants != nil {
		if id, ok := i.tenants(ctx); ok {
			tenant = id.String()
		}
	}

	uri, err := i.store.UploadScreenshot(ctx, storage.ImportScreenshotKey(tenant, host), data)
	if err != nil {
		i.logger.Warn("screenshot upload failed", zap.String("host", host), zap.Error(err))
		return ""
	}
	return uri
}
