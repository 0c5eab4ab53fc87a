package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Contract tests validate API responses match the documented schema

// APIResponseSchema represents the standard API response wrapper
type APIResponseSchema struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *APIErrorSchema `json:"error,omitempty"`
}

// APIErrorSchema represents the error response schema
type APIErrorSchema struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// AnalysisResponseSchema represents the prompt analysis response
type AnalysisResponseSchema struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Entities   struct {
		Colors     []string `json:"colors"`
		Dimensions []string `json:"dimensions"`
		Animations []string `json:"animations"`
		Properties []string `json:"properties"`
	} `json:"entities"`
	Suggestions    []string `json:"suggestions"`
	ExpandedPrompt string   `json:"expanded_prompt"`
}

// ComponentMatchSchema represents the detection response
type ComponentMatchSchema struct {
	DetectedType      string            `json:"detected_type"`
	Confidence        float64           `json:"confidence"`
	Reasoning         string            `json:"reasoning"`
	SuggestedPatterns []json.RawMessage `json:"suggested_patterns"`
}

// GeneratedComponentSchema represents a single generated component
type GeneratedComponentSchema struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Name      string         `json:"name"`
	VariantID string         `json:"variant_id"`
	Props     map[string]any `json:"props"`
	Style     map[string]any `json:"style"`
	Class     string         `json:"class"`
	AriaLabel string         `json:"aria_label"`
	Generated bool           `json:"generated"`
}

// GenerationResponseSchema represents the smart generation response
type GenerationResponseSchema struct {
	Component     GeneratedComponentSchema   `json:"component"`
	Reasoning     string                     `json:"reasoning"`
	Alternatives  []GeneratedComponentSchema `json:"alternatives"`
	Optimizations []string                   `json:"optimizations"`
	Confidence    float64                    `json:"confidence"`
}

// SuggestionResponseSchema represents the workflow suggestion response
type SuggestionResponseSchema struct {
	SuggestedComponents []struct {
		ID         string  `json:"id"`
		Type       string  `json:"type"`
		Name       string  `json:"name"`
		Reasoning  string  `json:"reasoning"`
		Confidence float64 `json:"confidence"`
	} `json:"suggested_components"`
	WorkflowCompleteness struct {
		Score                     float64  `json:"score"`
		MissingElements           []string `json:"missing_elements"`
		OptimizationOpportunities []string `json:"optimization_opportunities"`
	} `json:"workflow_completeness"`
	IntegrationMap map[string]struct {
		ConnectsTo []string `json:"connects_to"`
		DataFlow   []string `json:"data_flow"`
	} `json:"integration_map"`
}

// InstantiationResponseSchema represents the template instantiation response
type InstantiationResponseSchema struct {
	WorkflowID            string   `json:"workflow_id"`
	TemplateID            string   `json:"template_id"`
	CustomizationsApplied []string `json:"customizations_applied"`
	EstimatedSetupTime    string   `json:"estimated_setup_time"`
	NextSteps             []string `json:"next_steps"`
}

// SiteAnalysisResponseSchema represents the website analysis response
type SiteAnalysisResponseSchema struct {
	URL               string   `json:"url"`
	Title             string   `json:"title"`
	DetectedSections  []string `json:"detected_sections"`
	Palette           []string `json:"palette"`
	SuggestedWorkflow string   `json:"suggested_workflow"`
	Notes             []string `json:"notes"`
}

// ShareLinkResponseSchema represents the share creation response
type ShareLinkResponseSchema struct {
	ShareCode   string  `json:"share_code"`
	URL         string  `json:"url"`
	SnapshotURL string  `json:"snapshot_url,omitempty"`
	ExpiresAt   *string `json:"expires_at,omitempty"`
}

// SharedResultResponseSchema represents a resolved share
type SharedResultResponseSchema struct {
	ShareCode string         `json:"share_code"`
	Kind      string         `json:"kind"`
	Title     string         `json:"title"`
	Payload   map[string]any `json:"payload"`
	ViewCount int            `json:"view_count"`
	MaxViews  int            `json:"max_views"`
	CreatedAt string         `json:"created_at"`
	ExpiresAt string         `json:"expires_at,omitempty"`
}

var (
	validIntents       = []string{"style", "content", "layout", "interaction", "complex"}
	validPatternTypes  = []string{"container", "button", "form", "text", "image", "section"}
	validWorkflowTypes = []string{"lead_capture", "customer_support", "ecommerce", "booking", "nurturing"}
)

func TestContractAnalyzeResponse(t *testing.T) {
	router := setupTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/prompts/analyze",
		`{"prompt": "Create a red pricing section with three columns"}`,
		map[string]string{"X-Tenant-ID": uuid.NewString()})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var apiResp APIResponseSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiResp))
	assert.True(t, apiResp.Success)
	assert.Nil(t, apiResp.Error, "error should be nil on success")

	var analysis AnalysisResponseSchema
	require.NoError(t, json.Unmarshal(apiResp.Data, &analysis), "Data should match AnalysisResponseSchema")

	assert.Contains(t, validIntents, analysis.Intent)
	assert.GreaterOrEqual(t, analysis.Confidence, 0.0)
	assert.LessOrEqual(t, analysis.Confidence, 1.0)
	assert.NotNil(t, analysis.Entities.Colors, "entities arrays are always present, never null")
	assert.NotEmpty(t, analysis.ExpandedPrompt)
}

func TestContractDetectResponse(t *testing.T) {
	router := setupTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/components/detect",
		`{"prompt": "signup form with email and password"}`,
		map[string]string{"X-Tenant-ID": uuid.NewString()})

	assert.Equal(t, http.StatusOK, rec.Code)

	var apiResp APIResponseSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiResp))
	assert.True(t, apiResp.Success)

	var match ComponentMatchSchema
	require.NoError(t, json.Unmarshal(apiResp.Data, &match), "Data should match ComponentMatchSchema")

	assert.Contains(t, validPatternTypes, match.DetectedType)
	assert.GreaterOrEqual(t, match.Confidence, 0.0)
	assert.LessOrEqual(t, match.Confidence, 1.0)
	assert.NotEmpty(t, match.Reasoning, "reasoning is required")
	assert.NotNil(t, match.SuggestedPatterns)
}

func TestContractGenerateResponse(t *testing.T) {
	router := setupTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/components/generate",
		`{"prompt": "large green submit button", "context": {"industry": "healthcare"}}`,
		map[string]string{"X-Tenant-ID": uuid.NewString()})

	assert.Equal(t, http.StatusOK, rec.Code)

	var apiResp APIResponseSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiResp))
	assert.True(t, apiResp.Success)

	var result GenerationResponseSchema
	require.NoError(t, json.Unmarshal(apiResp.Data, &result), "Data should match GenerationResponseSchema")

	// Component ID format: comp-<millis>-<8 hex chars>
	assert.Regexp(t, `^comp-\d+-[0-9a-f]{8}$`, result.Component.ID)
	assert.Contains(t, validPatternTypes, result.Component.Type)
	assert.NotEmpty(t, result.Component.Name, "name is required")
	assert.NotEmpty(t, result.Component.VariantID, "variant_id is required")
	assert.NotNil(t, result.Component.Props, "props is required")
	assert.NotEmpty(t, result.Component.AriaLabel, "every generated component carries an aria label")
	assert.True(t, result.Component.Generated)
	assert.NotEmpty(t, result.Reasoning)
}

func TestContractSuggestResponse(t *testing.T) {
	router := setupTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/workflows/suggest",
		`{"workflow_type": "customer_support", "industry": "saas"}`,
		map[string]string{"X-Tenant-ID": uuid.NewString()})

	assert.Equal(t, http.StatusOK, rec.Code)

	var apiResp APIResponseSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiResp))
	assert.True(t, apiResp.Success)

	var suggestion SuggestionResponseSchema
	require.NoError(t, json.Unmarshal(apiResp.Data, &suggestion), "Data should match SuggestionResponseSchema")

	require.NotEmpty(t, suggestion.SuggestedComponents)
	for _, s := range suggestion.SuggestedComponents {
		assert.NotEmpty(t, s.ID, "id is required")
		assert.NotEmpty(t, s.Name, "name is required")
		assert.NotEmpty(t, s.Reasoning, "reasoning is required")
		assert.GreaterOrEqual(t, s.Confidence, 0.0)
		assert.LessOrEqual(t, s.Confidence, 1.0)
	}

	assert.GreaterOrEqual(t, suggestion.WorkflowCompleteness.Score, 0.0)
	assert.LessOrEqual(t, suggestion.WorkflowCompleteness.Score, 1.0)
	assert.NotEmpty(t, suggestion.IntegrationMap, "integration_map is required")
}

func TestContractInstantiateResponse(t *testing.T) {
	router := setupTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/templates/feature-grid/instantiate",
		`{"industry": "fintech"}`,
		map[string]string{"X-Tenant-ID": uuid.NewString()})

	assert.Equal(t, http.StatusOK, rec.Code)

	var apiResp APIResponseSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiResp))
	assert.True(t, apiResp.Success)

	var plan InstantiationResponseSchema
	require.NoError(t, json.Unmarshal(apiResp.Data, &plan), "Data should match InstantiationResponseSchema")

	assert.NotEmpty(t, plan.WorkflowID, "workflow_id is required")
	assert.Equal(t, "feature-grid", plan.TemplateID)
	assert.NotEmpty(t, plan.EstimatedSetupTime, "estimated_setup_time is required")
	assert.NotEmpty(t, plan.NextSteps, "next_steps is required")
}

func TestContractSiteAnalysisResponse(t *testing.T) {
	router := setupTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/sites/analyze",
		`{"url": "https://shop.acme.example"}`,
		map[string]string{"X-Tenant-ID": uuid.NewString()})

	assert.Equal(t, http.StatusOK, rec.Code)

	var apiResp APIResponseSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiResp))
	assert.True(t, apiResp.Success)

	var analysis SiteAnalysisResponseSchema
	require.NoError(t, json.Unmarshal(apiResp.Data, &analysis), "Data should match SiteAnalysisResponseSchema")

	assert.Equal(t, "https://shop.acme.example", analysis.URL)
	assert.NotEmpty(t, analysis.Title)
	assert.NotEmpty(t, analysis.DetectedSections)
	assert.NotEmpty(t, analysis.Palette)
	assert.Contains(t, validWorkflowTypes, analysis.SuggestedWorkflow)
	// Hex color format
	for _, c := range analysis.Palette {
		assert.Regexp(t, `^#[0-9A-Fa-f]{6}$`, c)
	}
}

func TestContractShareResponses(t *testing.T) {
	router := setupTestRouter(t)
	tenant := map[string]string{"X-Tenant-ID": uuid.NewString()}

	rec := doRequest(router, http.MethodPost, "/api/v1/shares",
		`{"kind": "analysis", "title": "Landing audit", "payload": {"intent": "layout"}}`, tenant)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var apiResp APIResponseSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiResp))
	assert.True(t, apiResp.Success)

	var link ShareLinkResponseSchema
	require.NoError(t, json.Unmarshal(apiResp.Data, &link), "Data should match ShareLinkResponseSchema")

	// Share codes are 12 URL-safe characters
	assert.Regexp(t, `^[A-Za-z0-9_-]{12}$`, link.ShareCode)
	assert.Contains(t, link.URL, "/api/v1/shares/"+link.ShareCode)
	require.NotNil(t, link.ExpiresAt, "shares always expire")

	// Resolve through the public route
	getRec := doRequest(router, http.MethodGet, "/api/v1/shares/"+link.ShareCode, "", nil)
	assert.Equal(t, http.StatusOK, getRec.Code)

	var getResp APIResponseSchema
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &getResp))

	var shared SharedResultResponseSchema
	require.NoError(t, json.Unmarshal(getResp.Data, &shared), "Data should match SharedResultResponseSchema")

	assert.Equal(t, link.ShareCode, shared.ShareCode)
	assert.Equal(t, "analysis", shared.Kind)
	assert.Equal(t, "Landing audit", shared.Title)
	assert.Equal(t, 1, shared.ViewCount)
	assert.NotNil(t, shared.Payload)

	// Timestamp format (ISO 8601)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`, shared.CreatedAt)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`, shared.ExpiresAt)
}

func TestContractValidationErrorResponse(t *testing.T) {
	router := setupTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/prompts/analyze",
		`{"prompt": 42}`,
		map[string]string{"X-Tenant-ID": uuid.NewString()})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var apiResp APIResponseSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiResp))

	assert.False(t, apiResp.Success, "success should be false on error")
	require.NotNil(t, apiResp.Error, "error is required on error response")
	assert.Equal(t, "VALIDATION_ERROR", apiResp.Error.Code)
	assert.NotEmpty(t, apiResp.Error.Message, "error.message is required")
}

func TestContractNotFoundResponse(t *testing.T) {
	router := setupTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/templates/no-such-template/instantiate",
		`{}`,
		map[string]string{"X-Tenant-ID": uuid.NewString()})

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var apiResp APIResponseSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiResp))

	assert.False(t, apiResp.Success)
	require.NotNil(t, apiResp.Error)
	assert.Equal(t, "NOT_FOUND", apiResp.Error.Code)
}

func TestContractTenantRequiredResponse(t *testing.T) {
	router := setupTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/shares",
		`{"kind": "generation", "payload": {"a": 1}}`, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var apiResp APIResponseSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiResp))

	assert.False(t, apiResp.Success)
	require.NotNil(t, apiResp.Error)
	assert.Equal(t, "TENANT_REQUIRED", apiResp.Error.Code)
}
