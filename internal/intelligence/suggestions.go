package intelligence

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// WorkflowType identifies the business workflow a site is built around.
type WorkflowType string

const (
	WorkflowLeadCapture     WorkflowType = "lead_capture"
	WorkflowCustomerSupport WorkflowType = "customer_support"
	WorkflowEcommerce       WorkflowType = "ecommerce"
	WorkflowBooking         WorkflowType = "booking"
	WorkflowNurturing       WorkflowType = "nurturing"
)

// IsValid checks if the workflow type is a known value.
func (w WorkflowType) IsValid() bool {
	switch w {
	case WorkflowLeadCapture, WorkflowCustomerSupport, WorkflowEcommerce, WorkflowBooking, WorkflowNurturing:
		return true
	}
	return false
}

// FunnelStage positions a visitor in the conversion funnel.
type FunnelStage string

const (
	StageAwareness     FunnelStage = "awareness"
	StageConsideration FunnelStage = "consideration"
	StageDecision      FunnelStage = "decision"
	StageRetention     FunnelStage = "retention"
)

// IsValid checks if the funnel stage is a known value.
func (s FunnelStage) IsValid() bool {
	switch s {
	case StageAwareness, StageConsideration, StageDecision, StageRetention:
		return true
	}
	return false
}

// SuggestionComponentType is the component family a suggestion proposes.
type SuggestionComponentType string

const (
	ComponentForm        SuggestionComponentType = "form"
	ComponentButton      SuggestionComponentType = "button"
	ComponentText        SuggestionComponentType = "text"
	ComponentImage       SuggestionComponentType = "image"
	ComponentSection     SuggestionComponentType = "section"
	ComponentInteractive SuggestionComponentType = "interactive"
)

// stageAllowedTypes limits which component families make sense per funnel
// stage. Early stages inform; later stages ask for commitment.
var stageAllowedTypes = map[FunnelStage][]SuggestionComponentType{
	StageAwareness:     {ComponentSection, ComponentText, ComponentImage},
	StageConsideration: {ComponentForm, ComponentInteractive, ComponentText},
	StageDecision:      {ComponentForm, ComponentButton, ComponentInteractive},
	StageRetention:     {ComponentInteractive, ComponentSection},
}

// WorkflowContext describes the workflow a tenant is assembling.
type WorkflowContext struct {
	WorkflowType      WorkflowType `json:"workflow_type"`
	CurrentComponents []string     `json:"current_components"`
	MissingComponents []string     `json:"missing_components"`
	BusinessGoals     []string     `json:"business_goals"`
	TargetAudience    string       `json:"target_audience"`
	Industry          string       `json:"industry"`
	FunnelStage       FunnelStage  `json:"funnel_stage"`
}

// WorkflowIntegration describes how a suggested component hooks into the
// surrounding automation.
type WorkflowIntegration struct {
	Triggers            []string `json:"triggers"`
	DataPoints          []string `json:"data_points"`
	AutomationPotential float64  `json:"automation_potential"`
}

// Implementation estimates the build effort for a suggestion.
type Implementation struct {
	Complexity    int      `json:"complexity"`
	EstimatedTime string   `json:"estimated_time"`
	RequiredProps []string `json:"required_props"`
}

// BusinessImpact summarizes the expected payoff of a suggestion.
type BusinessImpact struct {
	ConversionImpact string  `json:"conversion_impact"`
	UserExperience   string  `json:"user_experience"`
	ROIPotential     float64 `json:"roi_potential"`
}

// ComponentConfig is the starting configuration a suggestion ships with.
type ComponentConfig struct {
	DefaultProps       map[string]any `json:"default_props"`
	StylingOptions     []string       `json:"styling_options"`
	ResponsiveBehavior string         `json:"responsive_behavior"`
}

// ComponentSuggestion is one recommended addition to a workflow.
type ComponentSuggestion struct {
	ID                  string                  `json:"id"`
	Type                SuggestionComponentType `json:"type"`
	Name                string                  `json:"name"`
	Description         string                  `json:"description"`
	Reasoning           string                  `json:"reasoning"`
	Confidence          float64                 `json:"confidence"`
	WorkflowIntegration WorkflowIntegration     `json:"workflow_integration"`
	Implementation      Implementation          `json:"implementation"`
	BusinessImpact      BusinessImpact          `json:"business_impact"`
	ComponentConfig     ComponentConfig         `json:"component_config"`
}

// WorkflowCompleteness scores how much of the expected workflow is built.
type WorkflowCompleteness struct {
	Score                     float64  `json:"score"`
	MissingElements           []string `json:"missing_elements"`
	OptimizationOpportunities []string `json:"optimization_opportunities"`
}

// IntegrationPoint maps a suggestion to the automation it would wire up.
type IntegrationPoint struct {
	ConnectsTo []string `json:"connects_to"`
	DataFlow   []string `json:"data_flow"`
}

// SuggestionAnalysis is the full recommendation package for a workflow.
type SuggestionAnalysis struct {
	SuggestedComponents  []ComponentSuggestion       `json:"suggested_components"`
	WorkflowCompleteness WorkflowCompleteness        `json:"workflow_completeness"`
	IntegrationMap       map[string]IntegrationPoint `json:"integration_map"`
}

// GapAnalysis names what a workflow is missing and how complete it is.
type GapAnalysis struct {
	CriticalGaps          []string `json:"critical_gaps"`
	SuggestedImprovements []string `json:"suggested_improvements"`
	CompletenessScore     float64  `json:"completeness_score"`
}

// Ranking weights. Confidence dominates but return on investment breaks
// close calls.
const (
	rankConfidenceWeight = 0.6
	rankROIWeight        = 0.4
)

// requiredConfidence marks a suggestion as essential to its workflow;
// anything above opportunityConfidence but at or below requiredConfidence
// is an optimization opportunity instead.
const (
	requiredConfidence    = 0.8
	opportunityConfidence = 0.7
)

// SuggestionEngine recommends workflow components from a static playbook.
// Output depends only on the input context, so repeated calls are
// byte-identical.
type SuggestionEngine struct {
	logger *zap.Logger
}

// NewSuggestionEngine creates a suggestion engine. A nil logger is
// replaced with a no-op one.
func NewSuggestionEngine(logger *zap.Logger) *SuggestionEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionEngine{logger: logger}
}

// Suggest recommends components for the workflow described by workflowCtx,
// ranked by a blend of confidence and ROI, with a completeness score and an
// integration map alongside.
func (e *SuggestionEngine) Suggest(workflowCtx WorkflowContext) SuggestionAnalysis {
	suggestions := suggestionsForWorkflow(workflowCtx.WorkflowType, workflowCtx.Industry)
	rankSuggestions(suggestions)

	e.logger.Debug("workflow suggestions assembled",
		zap.String("workflow_type", string(workflowCtx.WorkflowType)),
		zap.Int("count", len(suggestions)))

	return SuggestionAnalysis{
		SuggestedComponents:  suggestions,
		WorkflowCompleteness: e.scoreCompleteness(suggestions, workflowCtx.CurrentComponents),
		IntegrationMap:       integrationMap(suggestions),
	}
}

// SuggestForStage narrows workflow suggestions to component families that
// fit the given funnel stage. An unknown stage yields no suggestions.
func (e *SuggestionEngine) SuggestForStage(workflowType WorkflowType, stage FunnelStage) []ComponentSuggestion {
	allowed, ok := stageAllowedTypes[stage]
	if !ok {
		return []ComponentSuggestion{}
	}

	suggestions := suggestionsForWorkflow(workflowType, "")
	rankSuggestions(suggestions)

	filtered := []ComponentSuggestion{}
	for _, s := range suggestions {
		for _, t := range allowed {
			if s.Type == t {
				filtered = append(filtered, s)
				break
			}
		}
	}
	return filtered
}

// AnalyzeGaps compares the components a workflow already has against the
// essential suggestions for its type.
func (e *SuggestionEngine) AnalyzeGaps(workflowCtx WorkflowContext) GapAnalysis {
	suggestions := suggestionsForWorkflow(workflowCtx.WorkflowType, workflowCtx.Industry)
	rankSuggestions(suggestions)

	gaps := []string{}
	for _, s := range suggestions {
		if s.Confidence > requiredConfidence && !componentCovered(workflowCtx.CurrentComponents, string(s.Type)) {
			gaps = append(gaps, s.Name)
		}
	}

	score := 1.0
	if len(suggestions) > 0 {
		score = clampRange(1.0-float64(len(gaps))/float64(len(suggestions)), 0, 1)
	}

	improvements := []string{}
	for i, s := range suggestions {
		if i == 3 {
			break
		}
		improvements = append(improvements, s.Name)
	}

	return GapAnalysis{
		CriticalGaps:          gaps,
		SuggestedImprovements: improvements,
		CompletenessScore:     score,
	}
}

// FallbackAnalysis is the fixed result served when richer context is
// unavailable. Callers always receive a structurally complete analysis.
func FallbackAnalysis() SuggestionAnalysis {
	s := ComponentSuggestion{
		ID:          "fallback-form",
		Type:        ComponentForm,
		Name:        "Basic Contact Form",
		Description: "A simple form that keeps the workflow collecting visitor details.",
		Reasoning:   "Advanced suggestions are unavailable right now; a contact form is the safe baseline for any workflow.",
		Confidence:  0.5,
		WorkflowIntegration: WorkflowIntegration{
			Triggers:            []string{"form_submitted"},
			DataPoints:          []string{"email"},
			AutomationPotential: 0.5,
		},
		Implementation: Implementation{
			Complexity:    1,
			EstimatedTime: "15 minutes",
			RequiredProps: []string{"fields"},
		},
		BusinessImpact: BusinessImpact{
			ConversionImpact: "Keeps a conversion path open",
			UserExperience:   "Familiar, low-friction interaction",
			ROIPotential:     0.5,
		},
		ComponentConfig: ComponentConfig{
			DefaultProps:       map[string]any{"fields": []string{"email"}, "submitLabel": "Submit"},
			StylingOptions:     []string{"background", "border-radius"},
			ResponsiveBehavior: "Single column at every breakpoint",
		},
	}

	return SuggestionAnalysis{
		SuggestedComponents: []ComponentSuggestion{s},
		WorkflowCompleteness: WorkflowCompleteness{
			Score:                     0.5,
			MissingElements:           []string{},
			OptimizationOpportunities: []string{},
		},
		IntegrationMap: map[string]IntegrationPoint{
			s.ID: {ConnectsTo: s.WorkflowIntegration.Triggers, DataFlow: s.WorkflowIntegration.DataPoints},
		},
	}
}

// scoreCompleteness measures how many essential suggestions the current
// component list already covers.
func (e *SuggestionEngine) scoreCompleteness(suggestions []ComponentSuggestion, current []string) WorkflowCompleteness {
	required := []string{}
	opportunities := []string{}
	for _, s := range suggestions {
		switch {
		case s.Confidence > requiredConfidence:
			required = append(required, s.Name)
		case s.Confidence > opportunityConfidence:
			opportunities = append(opportunities, s.Name)
		}
	}

	missing := []string{}
	for _, name := range required {
		if !componentCovered(current, name) {
			missing = append(missing, name)
		}
	}

	score := 1.0
	if len(required) > 0 {
		score = clampRange(1.0-float64(len(missing))/float64(len(required)), 0, 1)
	}

	return WorkflowCompleteness{
		Score:                     score,
		MissingElements:           missing,
		OptimizationOpportunities: opportunities,
	}
}

// componentCovered reports whether any current component mentions the
// wanted name. Matching is a case-insensitive substring check in either
// direction so "Lead Capture Form" covers "form" and vice versa.
func componentCovered(current []string, name string) bool {
	lowerName := strings.ToLower(name)
	for _, c := range current {
		lowerCurrent := strings.ToLower(c)
		if strings.Contains(lowerCurrent, lowerName) || strings.Contains(lowerName, lowerCurrent) {
			return true
		}
	}
	return false
}

// rankSuggestions sorts in place by blended confidence and ROI, best
// first. The sort is stable so playbook order breaks ties.
func rankSuggestions(suggestions []ComponentSuggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		return rankScore(suggestions[i]) > rankScore(suggestions[j])
	})
}

func rankScore(s ComponentSuggestion) float64 {
	return s.Confidence*rankConfidenceWeight + s.BusinessImpact.ROIPotential*rankROIWeight
}

func integrationMap(suggestions []ComponentSuggestion) map[string]IntegrationPoint {
	points := make(map[string]IntegrationPoint, len(suggestions))
	for _, s := range suggestions {
		points[s.ID] = IntegrationPoint{
			ConnectsTo: s.WorkflowIntegration.Triggers,
			DataFlow:   s.WorkflowIntegration.DataPoints,
		}
	}
	return points
}
