package assistant

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/intelligence"
)

// SiteAnalyzer extracts real site structure when a browser is available.
// Without one the service serves a simulated analysis instead.
type SiteAnalyzer interface {
	Analyze(ctx context.Context, url string) (WebsiteAnalysis, error)
}

// WorkflowStarter hands template provisioning off to a durable workflow
// engine. Without one instantiation plans carry a locally generated id.
type WorkflowStarter interface {
	StartProvisioning(ctx context.Context, templateID string, genCtx intelligence.GenerationContext) (string, error)
}

// Service is the boundary in front of the recommendation engine. It behaves
// like a remote dependency: calls can be slowed down or made to fail so the
// degraded paths stay exercisable, but suggestion output itself always comes
// from the deterministic engine underneath.
type Service struct {
	engine *intelligence.Engine
	logger *zap.Logger

	sites     SiteAnalyzer
	workflows WorkflowStarter

	delay       time.Duration
	failureRate float64

	mu      sync.Mutex
	failAcc float64
}

// Option configures a Service.
type Option func(*Service)

// WithDelay makes every call wait before answering, the way a network
// dependency would.
func WithDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

// WithFailureRate injects upstream failures at the given rate. The rate is
// clamped to [0, 1] and applied deterministically: an accumulator gains the
// rate per call and trips a failure each time it crosses one, so 0.5 fails
// exactly every second call.
func WithFailureRate(rate float64) Option {
	return func(s *Service) {
		if rate < 0 {
			rate = 0
		}
		if rate > 1 {
			rate = 1
		}
		s.failureRate = rate
	}
}

// WithSiteAnalyzer wires a real browser-backed analyzer.
func WithSiteAnalyzer(sa SiteAnalyzer) Option {
	return func(s *Service) { s.sites = sa }
}

// WithWorkflowStarter wires a durable workflow backend for instantiation.
func WithWorkflowStarter(ws WorkflowStarter) Option {
	return func(s *Service) { s.workflows = ws }
}

// New creates the assistant boundary around an engine. A nil logger is
// replaced with a no-op one.
func New(engine *intelligence.Engine, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		engine: engine,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SuggestWithContext returns workflow suggestions for the given context.
// It never fails: injected failures, upstream trouble and cancellation all
// degrade to the engine's fixed fallback analysis.
func (s *Service) SuggestWithContext(ctx context.Context, workflowCtx intelligence.WorkflowContext) intelligence.SuggestionAnalysis {
	if !s.wait(ctx) {
		s.logger.Warn("suggestion context cancelled, serving fallback")
		return intelligence.FallbackAnalysis()
	}
	if s.tripFailure() {
		s.logger.Warn("injected upstream failure, serving fallback suggestions",
			zap.String("workflow_type", string(workflowCtx.WorkflowType)))
		return intelligence.FallbackAnalysis()
	}
	return s.engine.Suggester.Suggest(workflowCtx)
}

// wait applies the configured delay, honoring cancellation. It reports
// whether the call should proceed.
func (s *Service) wait(ctx context.Context) bool {
	if s.delay <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-time.After(s.delay):
		return true
	case <-ctx.Done():
		return false
	}
}

// tripFailure advances the deterministic failure accumulator.
func (s *Service) tripFailure() bool {
	if s.failureRate <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAcc += s.failureRate
	if s.failAcc >= 1 {
		s.failAcc -= 1
		return true
	}
	return false
}
