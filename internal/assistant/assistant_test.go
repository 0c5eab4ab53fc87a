package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/domain"
	"github.com/pagewright/pagewright/internal/intelligence"
)

type stubSites struct {
	analysis WebsiteAnalysis
	err      error
}

func (s stubSites) Analyze(ctx context.Context, url string) (WebsiteAnalysis, error) {
	return s.analysis, s.err
}

type stubStarter struct {
	id  string
	err error
}

func (s stubStarter) StartProvisioning(ctx context.Context, templateID string, genCtx intelligence.GenerationContext) (string, error) {
	return s.id, s.err
}

func newTestService(opts ...Option) *Service {
	return New(intelligence.NewEngine(zap.NewNop()), zap.NewNop(), opts...)
}

func TestSuggestWithContextHealthy(t *testing.T) {
	svc := newTestService()
	analysis := svc.SuggestWithContext(context.Background(), intelligence.WorkflowContext{
		WorkflowType: intelligence.WorkflowLeadCapture,
	})

	require.Len(t, analysis.SuggestedComponents, 4)
	assert.Equal(t, "lead-capture-form", analysis.SuggestedComponents[0].ID)
}

func TestSuggestWithContextFallsBackOnFailure(t *testing.T) {
	svc := newTestService(WithFailureRate(1.0))

	for i := 0; i < 3; i++ {
		analysis := svc.SuggestWithContext(context.Background(), intelligence.WorkflowContext{
			WorkflowType: intelligence.WorkflowLeadCapture,
		})
		require.Len(t, analysis.SuggestedComponents, 1)
		assert.Equal(t, "fallback-form", analysis.SuggestedComponents[0].ID)
	}
}

func TestFailureRateIsDeterministic(t *testing.T) {
	svc := newTestService(WithFailureRate(0.5))

	var pattern []bool
	for i := 0; i < 4; i++ {
		analysis := svc.SuggestWithContext(context.Background(), intelligence.WorkflowContext{
			WorkflowType: intelligence.WorkflowEcommerce,
		})
		pattern = append(pattern, analysis.SuggestedComponents[0].ID == "fallback-form")
	}

	// A 0.5 rate trips on exactly every second call.
	assert.Equal(t, []bool{false, true, false, true}, pattern)
}

func TestSuggestWithContextCancelled(t *testing.T) {
	svc := newTestService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analysis := svc.SuggestWithContext(ctx, intelligence.WorkflowContext{
		WorkflowType: intelligence.WorkflowBooking,
	})
	require.Len(t, analysis.SuggestedComponents, 1)
	assert.Equal(t, "fallback-form", analysis.SuggestedComponents[0].ID)
}

func TestAnalyzeWebsiteSimulated(t *testing.T) {
	svc := newTestService()

	first, err := svc.AnalyzeWebsite(context.Background(), "https://www.acme-tools.com/pricing")
	require.NoError(t, err)
	second, err := svc.AnalyzeWebsite(context.Background(), "https://www.acme-tools.com/pricing")
	require.NoError(t, err)

	assert.Equal(t, first, second, "simulated analysis should be stable per URL")
	assert.Equal(t, "Acme Tools", first.Title)
	assert.NotEmpty(t, first.DetectedSections)
	assert.Len(t, first.Brand.Colors, 2)
	assert.False(t, first.Degraded)
}

func TestAnalyzeWebsiteWorkflowHints(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		url  string
		want intelligence.WorkflowType
	}{
		{"https://shop.acme.com", intelligence.WorkflowEcommerce},
		{"https://support.acme.com", intelligence.WorkflowCustomerSupport},
		{"https://book.acme.com", intelligence.WorkflowBooking},
		{"https://blog.acme.com", intelligence.WorkflowNurturing},
		{"https://acme.com", intelligence.WorkflowLeadCapture},
	}
	for _, tt := range tests {
		analysis, err := svc.AnalyzeWebsite(context.Background(), tt.url)
		require.NoError(t, err)
		assert.Equal(t, tt.want, analysis.SuggestedWorkflow, "url %s", tt.url)
	}
}

func TestAnalyzeWebsiteRejectsRelativeURL(t *testing.T) {
	svc := newTestService()

	_, err := svc.AnalyzeWebsite(context.Background(), "not a url")
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeValidation, domain.GetErrorCode(err))
}

func TestAnalyzeWebsiteDelegates(t *testing.T) {
	want := WebsiteAnalysis{URL: "https://acme.com", Title: "Acme", DetectedSections: []string{"hero"}}
	svc := newTestService(WithSiteAnalyzer(stubSites{analysis: want}))

	got, err := svc.AnalyzeWebsite(context.Background(), "https://acme.com")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAnalyzeWebsiteDegradesWhenExtractionFails(t *testing.T) {
	svc := newTestService(WithSiteAnalyzer(stubSites{err: errors.New("browser crashed")}))

	got, err := svc.AnalyzeWebsite(context.Background(), "https://acme.com")
	require.NoError(t, err, "extraction failure should degrade, not fail")
	assert.True(t, got.Degraded)
	assert.NotEmpty(t, got.DetectedSections)
}

func TestAnalyzeWebsiteInjectedFailure(t *testing.T) {
	svc := newTestService(WithFailureRate(1.0))

	_, err := svc.AnalyzeWebsite(context.Background(), "https://acme.com")
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeAssistantUnavail, domain.GetErrorCode(err))
}

func TestInstantiateTemplate(t *testing.T) {
	svc := newTestService()
	genCtx := intelligence.GenerationContext{
		Industry: "finance",
		Brand:    intelligence.BrandGuidelines{Colors: []string{"#0B5FFF", "#111111"}, Style: intelligence.BrandStyleClassic},
	}

	plan, err := svc.InstantiateTemplate(context.Background(), "cta-button", genCtx)
	require.NoError(t, err)

	assert.Equal(t, "cta-button", plan.TemplateID)
	assert.Contains(t, plan.WorkflowID, "local-")
	assert.Equal(t, "15 minutes", plan.EstimatedSetupTime)
	assert.Len(t, plan.CustomizationsApplied, 4)
	assert.NotEmpty(t, plan.NextSteps)
}

func TestInstantiateTemplateUnknownID(t *testing.T) {
	svc := newTestService()

	_, err := svc.InstantiateTemplate(context.Background(), "no-such-template", intelligence.GenerationContext{})
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeNotFound, domain.GetErrorCode(err))
}

func TestInstantiateTemplateStartsWorkflow(t *testing.T) {
	svc := newTestService(WithWorkflowStarter(stubStarter{id: "wf-123"}))

	plan, err := svc.InstantiateTemplate(context.Background(), "hero-section", intelligence.GenerationContext{})
	require.NoError(t, err)
	assert.Equal(t, "wf-123", plan.WorkflowID)
	assert.Equal(t, "45 minutes", plan.EstimatedSetupTime)
}

func TestInstantiateTemplateStarterFailure(t *testing.T) {
	svc := newTestService(WithWorkflowStarter(stubStarter{err: errors.New("temporal down")}))

	_, err := svc.InstantiateTemplate(context.Background(), "hero-section", intelligence.GenerationContext{})
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeProvisionFailed, domain.GetErrorCode(err))
}

func TestDelayHonorsContext(t *testing.T) {
	svc := newTestService(WithDelay(50 * time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := svc.AnalyzeWebsite(ctx, "https://acme.com")
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeTimeout, domain.GetErrorCode(err))
}
