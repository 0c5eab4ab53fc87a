package assistant

import (
	"context"
	"errors"
	"hash/fnv"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/domain"
	"github.com/pagewright/pagewright/internal/intelligence"
)

// WebsiteAnalysis summarizes an existing site well enough to seed
// generation and suggestions for it.
type WebsiteAnalysis struct {
	URL               string                       `json:"url"`
	Title             string                       `json:"title"`
	DetectedSections  []string                     `json:"detected_sections"`
	Palette           []string                     `json:"palette"`
	Brand             intelligence.BrandGuidelines `json:"brand"`
	SuggestedWorkflow intelligence.WorkflowType    `json:"suggested_workflow"`
	Degraded          bool                         `json:"degraded,omitempty"`
	Notes             []string                     `json:"notes"`
}

var errInjected = errors.New("injected upstream failure")

// AnalyzeWebsite summarizes the site at rawURL. A configured SiteAnalyzer
// does real extraction; without one, or when extraction fails, the summary
// is simulated deterministically from the URL so repeated calls agree.
func (s *Service) AnalyzeWebsite(ctx context.Context, rawURL string) (WebsiteAnalysis, error) {
	if !s.wait(ctx) {
		return WebsiteAnalysis{}, domain.ErrTimeout("website analysis")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return WebsiteAnalysis{}, domain.ErrValidationField("url", "must be an absolute URL")
	}

	if s.tripFailure() {
		return WebsiteAnalysis{}, domain.ErrAssistantUnavailable(errInjected)
	}

	if s.sites != nil {
		analysis, err := s.sites.Analyze(ctx, rawURL)
		if err == nil {
			return analysis, nil
		}
		s.logger.Warn("site extraction failed, serving simulated analysis",
			zap.String("url", rawURL),
			zap.Error(err))
		simulated := simulatedAnalysis(rawURL, parsed.Host)
		simulated.Degraded = true
		simulated.Notes = append(simulated.Notes, "live extraction failed, structure below is simulated")
		return simulated, nil
	}

	return simulatedAnalysis(rawURL, parsed.Host), nil
}

// Fixed tables the simulated analysis draws from. Selection hashes the
// host so a given site always reads the same.
var (
	simulatedSections = [][]string{
		{"hero", "features", "testimonials", "cta", "footer"},
		{"hero", "pricing", "faq", "footer"},
		{"hero", "gallery", "about", "contact", "footer"},
		{"hero", "services", "booking", "footer"},
	}
	simulatedPalettes = [][]string{
		{"#3B82F6", "#111827", "#F9FAFB"},
		{"#10B981", "#1F2937", "#FFFFFF"},
		{"#8B5CF6", "#111827", "#F3F4F6"},
		{"#EF4444", "#0F172A", "#F8FAFC"},
	}
	simulatedStyles = []intelligence.BrandStyle{
		intelligence.BrandStyleModern,
		intelligence.BrandStyleClassic,
		intelligence.BrandStylePlayful,
		intelligence.BrandStyleMinimal,
	}
)

// hostWorkflowHints guess the business workflow from tokens in the host.
var hostWorkflowHints = []struct {
	token    string
	workflow intelligence.WorkflowType
}{
	{"shop", intelligence.WorkflowEcommerce},
	{"store", intelligence.WorkflowEcommerce},
	{"book", intelligence.WorkflowBooking},
	{"support", intelligence.WorkflowCustomerSupport},
	{"help", intelligence.WorkflowCustomerSupport},
	{"blog", intelligence.WorkflowNurturing},
	{"news", intelligence.WorkflowNurturing},
}

func simulatedAnalysis(rawURL, host string) WebsiteAnalysis {
	h := fnv.New32a()
	h.Write([]byte(host))
	seed := int(h.Sum32())

	sections := simulatedSections[seed%len(simulatedSections)]
	palette := simulatedPalettes[seed%len(simulatedPalettes)]
	style := simulatedStyles[seed%len(simulatedStyles)]

	workflow := intelligence.WorkflowLeadCapture
	lowerHost := strings.ToLower(host)
	for _, hint := range hostWorkflowHints {
		if strings.Contains(lowerHost, hint.token) {
			workflow = hint.workflow
			break
		}
	}

	return WebsiteAnalysis{
		URL:              rawURL,
		Title:            hostTitle(host),
		DetectedSections: sections,
		Palette:          palette,
		Brand: intelligence.BrandGuidelines{
			Colors: palette[:2],
			Style:  style,
		},
		SuggestedWorkflow: workflow,
		Notes:             []string{"summary generated without loading the page"},
	}
}

// hostTitle turns "www.acme-tools.co" into "Acme Tools".
func hostTitle(host string) string {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	if i := strings.IndexByte(host, '.'); i > 0 {
		host = host[:i]
	}
	words := strings.FieldsFunc(host, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
