package intelligence

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Intent classifies what aspect of a component a prompt is asking about.
type Intent string

const (
	IntentStyle       Intent = "style"
	IntentContent     Intent = "content"
	IntentLayout      Intent = "layout"
	IntentInteraction Intent = "interaction"
	IntentComplex     Intent = "complex"
)

// IsValid checks if the intent is a known value.
func (i Intent) IsValid() bool {
	switch i {
	case IntentStyle, IntentContent, IntentLayout, IntentInteraction, IntentComplex:
		return true
	}
	return false
}

// PromptEntities holds the concrete design tokens extracted from a prompt.
// Slices preserve dictionary order so repeated runs produce identical output.
type PromptEntities struct {
	Colors     []string `json:"colors"`
	Dimensions []string `json:"dimensions"`
	Animations []string `json:"animations"`
	Properties []string `json:"properties"`
}

// Total counts extracted tokens across all entity classes.
func (e PromptEntities) Total() int {
	return len(e.Colors) + len(e.Dimensions) + len(e.Animations) + len(e.Properties)
}

// PromptAnalysis is the structured reading of a free-text design request.
type PromptAnalysis struct {
	Intent         Intent         `json:"intent"`
	Confidence     float64        `json:"confidence"`
	Entities       PromptEntities `json:"entities"`
	Suggestions    []string       `json:"suggestions"`
	ExpandedPrompt string         `json:"expanded_prompt"`
}

// ValidationResult reports prompt problems without failing the caller.
// Warnings never flip IsValid; only hard errors do.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// TemplateMatch pairs a prompt template with its relevance score.
type TemplateMatch struct {
	Template PromptTemplate `json:"template"`
	Score    float64        `json:"score"`
}

const (
	minPromptLen = 5
	maxPromptLen = 1000
)

// PromptAnalyzer turns free-text design requests into structured analyses.
// All methods are pure functions of their input; the same prompt always
// yields byte-identical results.
type PromptAnalyzer struct {
	templates []PromptTemplate
}

// NewPromptAnalyzer creates an analyzer backed by the built-in template catalog.
func NewPromptAnalyzer() *PromptAnalyzer {
	return &PromptAnalyzer{templates: promptTemplates}
}

// Analyze classifies the prompt's intent, extracts design entities, scores
// how actionable the prompt is and proposes improvements.
func (a *PromptAnalyzer) Analyze(prompt string) PromptAnalysis {
	lower := strings.ToLower(prompt)
	intent := classifyIntent(lower)
	entities := extractEntities(lower)

	return PromptAnalysis{
		Intent:         intent,
		Confidence:     scoreConfidence(prompt, lower, entities),
		Entities:       entities,
		Suggestions:    buildSuggestions(intent, entities, lower),
		ExpandedPrompt: expandPrompt(prompt, lower, intent),
	}
}

// Validate checks a prompt for hard failures (length) and soft problems
// (markup injection tokens, vague phrasing).
func (a *PromptAnalyzer) Validate(prompt string) ValidationResult {
	result := ValidationResult{Errors: []string{}, Warnings: []string{}}

	trimmed := strings.TrimSpace(prompt)
	if len(trimmed) < minPromptLen {
		result.Errors = append(result.Errors, fmt.Sprintf("prompt must be at least %d characters", minPromptLen))
	}
	if len(trimmed) > maxPromptLen {
		result.Errors = append(result.Errors, fmt.Sprintf("prompt must be at most %d characters", maxPromptLen))
	}

	lower := strings.ToLower(prompt)
	for _, term := range forbiddenTerms {
		if strings.Contains(lower, term) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("prompt contains markup that will be ignored: %s", term))
		}
	}
	for _, phrase := range vaguePhrases {
		if strings.Contains(lower, phrase) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%q is vague; describe the change you want to see", phrase))
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// Variations rewrites the prompt a handful of ways, each filling in a
// facet the original leaves unspecified. At most four are returned.
func (a *PromptAnalyzer) Variations(prompt string) []string {
	analysis := a.Analyze(prompt)

	variations := []string{prompt + ", with attention to detail"}
	if len(analysis.Entities.Dimensions) == 0 {
		variations = append(variations, prompt+", with specific sizing and a clear layout structure")
	}
	if len(analysis.Entities.Animations) == 0 {
		variations = append(variations, prompt+", with subtle hover and transition effects")
	}
	if len(analysis.Entities.Colors) == 0 {
		variations = append(variations, prompt+", with a defined color scheme")
	}
	variations = append(variations, "Simplify: "+prompt)

	if len(variations) > 4 {
		variations = variations[:4]
	}
	return variations
}

// MatchTemplates scores the template catalog against the prompt and returns
// the top three matches, best first. Scores below 0.2 are dropped entirely.
func (a *PromptAnalyzer) MatchTemplates(prompt string) []TemplateMatch {
	lower := strings.ToLower(prompt)
	intent := classifyIntent(lower)

	matches := []TemplateMatch{}
	for _, tpl := range a.templates {
		score := 0.0
		if strings.Contains(lower, tpl.Category) {
			score += 0.5
		}
		for _, v := range tpl.Variables {
			if strings.Contains(lower, v) {
				score += 0.2
			}
		}
		if templateCategoryIntent[tpl.Category] == intent {
			score += 0.3
		}
		if score > 0.2 {
			matches = append(matches, TemplateMatch{Template: tpl, Score: clamp01(score)})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > 3 {
		matches = matches[:3]
	}
	return matches
}

// classifyIntent counts keyword hits per intent. A single clear winner
// names the intent; a shared maximum or three distinct signals means the
// request spans concerns and is classified complex.
func classifyIntent(lower string) Intent {
	counts := make(map[Intent]int, len(intentOrder))
	for _, intent := range intentOrder {
		for _, kw := range intentKeywords[intent] {
			if strings.Contains(lower, kw) {
				counts[intent]++
			}
		}
	}

	best := IntentStyle
	max := 0
	shared := false
	for _, intent := range intentOrder {
		c := counts[intent]
		if c > max {
			best, max = intent, c
			shared = false
		} else if c == max && c > 0 {
			shared = true
		}
	}

	if max == 0 {
		return IntentStyle
	}
	if shared || max >= 3 {
		return IntentComplex
	}
	return best
}

// extractEntities pulls color, dimension, animation and CSS property
// mentions from the lowered prompt. Dictionary words come out in
// dictionary order, regex captures append after them.
func extractEntities(lower string) PromptEntities {
	entities := PromptEntities{
		Colors:     matchWords(lower, colorWords),
		Dimensions: matchWords(lower, dimensionWords),
		Animations: matchWords(lower, animationWords),
		Properties: matchWords(lower, propertyWords),
	}

	for _, hex := range hexColorRe.FindAllString(lower, -1) {
		entities.Colors = appendUnique(entities.Colors, hex)
	}
	for _, rgb := range rgbColorRe.FindAllString(lower, -1) {
		entities.Colors = appendUnique(entities.Colors, rgb)
	}
	for _, dim := range lengthRe.FindAllString(lower, -1) {
		entities.Dimensions = appendUnique(entities.Dimensions, dim)
	}
	return entities
}

// scoreConfidence starts at 0.5 and rewards extracted entities and length,
// then penalizes vague wording. The result is clamped to [0.1, 1.0].
func scoreConfidence(prompt, lower string, entities PromptEntities) float64 {
	confidence := 0.5
	confidence += math.Min(float64(entities.Total())*0.1, 0.3)

	words := len(strings.Fields(prompt))
	if words > 10 {
		confidence += 0.1
	}
	if words > 20 {
		confidence += 0.1
	}

	for _, term := range vagueTerms {
		if strings.Contains(lower, term) {
			confidence -= 0.1
		}
	}

	return clampRange(confidence, 0.1, 1.0)
}

// buildSuggestions runs a fixed checklist of facets a prompt should cover.
// Order is stable so clients can rely on it.
func buildSuggestions(intent Intent, entities PromptEntities, lower string) []string {
	suggestions := []string{}
	if intent == IntentStyle && len(entities.Colors) == 0 {
		suggestions = append(suggestions, "Consider specifying a color palette so the styling matches your brand.")
	}
	if len(entities.Dimensions) == 0 {
		suggestions = append(suggestions, "Add sizing details (large, small, or exact values) for more precise results.")
	}
	if intent == IntentInteraction && len(entities.Animations) == 0 {
		suggestions = append(suggestions, "Describe the interaction you expect (hover, fade, slide).")
	}
	if !strings.Contains(lower, "responsive") && !strings.Contains(lower, "mobile") {
		suggestions = append(suggestions, "Mention responsive behavior so the component adapts to small screens.")
	}
	if !strings.Contains(lower, "accessible") && !strings.Contains(lower, "aria") {
		suggestions = append(suggestions, "Include accessibility requirements such as ARIA labels or contrast targets.")
	}
	return suggestions
}

// expandPrompt appends an intent clause plus brand, responsive and
// accessibility appendices for whichever of those the prompt omits.
func expandPrompt(prompt, lower string, intent Intent) string {
	expanded := prompt + intentExpansions[intent]
	if !strings.Contains(lower, "color") {
		expanded += ", using appropriate brand colors"
	}
	if !strings.Contains(lower, "responsive") {
		expanded += ", optimized for all screen sizes"
	}
	if !strings.Contains(lower, "accessible") {
		expanded += ", with accessibility considerations"
	}
	return expanded
}

// matchWords returns every dictionary word present in the text, in
// dictionary order.
func matchWords(text string, words []string) []string {
	found := []string{}
	for _, w := range words {
		if strings.Contains(text, w) {
			found = append(found, w)
		}
	}
	return found
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
