package intelligence

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BrandStyle labels the overall feel a tenant's site goes for.
type BrandStyle string

const (
	BrandStyleModern  BrandStyle = "modern"
	BrandStyleClassic BrandStyle = "classic"
	BrandStylePlayful BrandStyle = "playful"
	BrandStyleMinimal BrandStyle = "minimal"
)

// BrandGuidelines carries tenant brand constraints into generation.
type BrandGuidelines struct {
	Colors []string   `json:"colors"`
	Fonts  []string   `json:"fonts"`
	Style  BrandStyle `json:"style"`
}

// GenerationContext scopes a generation request to a tenant's situation.
// The zero value is a valid, unconstrained context.
type GenerationContext struct {
	Industry string          `json:"industry"`
	PageType string          `json:"page_type"`
	Brand    BrandGuidelines `json:"brand"`
}

// GeneratedComponent is a ready-to-render component instance.
type GeneratedComponent struct {
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

// SmartGenerationResult bundles the generated component with the reasoning
// behind it, runner-up configurations and review advisories.
type SmartGenerationResult struct {
	Component     GeneratedComponent   `json:"component"`
	Reasoning     string               `json:"reasoning"`
	Alternatives  []GeneratedComponent `json:"alternatives"`
	Optimizations []string             `json:"optimizations"`
	Confidence    float64              `json:"confidence"`
}

// Variant selection bonuses.
const (
	colorAffinityBonus = 0.3
	modernStyleBonus   = 0.2
	industryTermBonus  = 0.1
)

// Size scaling factors. Shrinking keeps a 4px floor so compact components
// never collapse to nothing.
const (
	growFactor   = 1.25
	shrinkFactor = 0.8
	shrinkFloor  = 4
)

// Generate detects the component a prompt asks for, picks the best catalog
// variant for the caller's context and customizes it with the prompt's
// extracted entities. It never fails; unrecognized prompts produce a
// generic container.
func (m *PatternMatcher) Generate(prompt string, genCtx GenerationContext) SmartGenerationResult {
	match := m.Detect(prompt)
	analysis := m.analyzer.Analyze(prompt)
	lower := strings.ToLower(prompt)

	pattern := m.patterns[0]
	if len(match.SuggestedPatterns) > 0 {
		pattern = match.SuggestedPatterns[0]
	} else if p, ok := PatternByType(match.DetectedType); ok {
		pattern = p
	}

	variant := selectVariant(pattern, analysis, genCtx, lower)
	component := m.buildComponent(pattern, variant, analysis, genCtx)

	alternatives := make([]GeneratedComponent, 0, 2)
	for _, v := range pattern.Variants {
		if len(alternatives) == 2 {
			break
		}
		if v.ID == variant.ID {
			continue
		}
		alternatives = append(alternatives, m.buildComponent(pattern, v, analysis, genCtx))
	}

	return SmartGenerationResult{
		Component:     component,
		Reasoning:     buildGenerationReasoning(pattern, variant, match, analysis),
		Alternatives:  alternatives,
		Optimizations: buildOptimizations(component, genCtx, lower),
		Confidence:    math.Min(match.Confidence+analysis.Confidence, 1.0),
	}
}

// selectVariant scores a pattern's variants against the prompt entities and
// generation context. Ties go to the variant listed first.
func selectVariant(pattern ComponentPattern, analysis PromptAnalysis, genCtx GenerationContext, lower string) ComponentVariant {
	wantsModern := genCtx.Brand.Style == BrandStyleModern || strings.Contains(lower, "modern")

	best := pattern.Variants[0]
	bestScore := -1.0
	for _, v := range pattern.Variants {
		score := 0.0
		if len(analysis.Entities.Colors) > 0 && styleHasAny(v.Style, "background", "color") {
			score += colorAffinityBonus
		}
		if wantsModern && styleHas(v.Style, "border-radius") {
			score += modernStyleBonus
		}
		if terms, ok := industryTerms[genCtx.Industry]; ok {
			desc := strings.ToLower(v.Description)
			for _, term := range terms {
				if strings.Contains(desc, term) {
					score += industryTermBonus
					break
				}
			}
		}
		if score > bestScore {
			best, bestScore = v, score
		}
	}
	return best
}

// buildComponent instantiates a variant and applies prompt and brand
// customizations to fresh copies of its props and style.
func (m *PatternMatcher) buildComponent(pattern ComponentPattern, variant ComponentVariant, analysis PromptAnalysis, genCtx GenerationContext) GeneratedComponent {
	props := copyAnyMap(variant.Props)
	style := copyAnyMap(variant.Style)

	applyColorCustomizations(style, analysis, genCtx.Brand)
	applySizeCustomizations(style, analysis.Entities.Dimensions)

	if analysis.Intent == IntentContent {
		if _, ok := props["content"]; ok {
			if quoted := firstQuoted(analysis.ExpandedPrompt); quoted != "" {
				props["content"] = quoted
			}
		}
	}

	return GeneratedComponent{
		ID:        m.newID(),
		Type:      pattern.Type,
		Name:      variant.Name + " " + pattern.Name,
		VariantID: variant.ID,
		Props:     props,
		Style:     style,
		Class:     variant.Class,
		AriaLabel: strings.ToLower(variant.Name + " " + pattern.Name),
		Generated: true,
	}
}

// applyColorCustomizations rewrites the background in two steps: a color
// named in the prompt wins outright, otherwise the first brand color
// replaces backgrounds still carrying the default accent. Transparent
// backgrounds are never painted over.
func applyColorCustomizations(style map[string]any, analysis PromptAnalysis, brand BrandGuidelines) {
	bg, _ := style["background"].(string)
	if bg == "" || bg == "transparent" {
		return
	}
	if len(analysis.Entities.Colors) > 0 {
		style["background"] = normalizeColor(analysis.Entities.Colors[0])
		return
	}
	if len(brand.Colors) > 0 && strings.EqualFold(bg, DefaultAccent) {
		style["background"] = brand.Colors[0]
	}
}

// applySizeCustomizations scales padding and font-size for each coarse
// size word in the prompt.
func applySizeCustomizations(style map[string]any, dimensions []string) {
	for _, dim := range dimensions {
		switch dim {
		case "large", "big", "huge":
			scaleStyleKey(style, "padding", growFactor, 0)
			scaleStyleKey(style, "font-size", growFactor, 0)
		case "small", "tiny", "compact":
			scaleStyleKey(style, "padding", shrinkFactor, shrinkFloor)
			scaleStyleKey(style, "font-size", shrinkFactor, shrinkFloor)
		}
	}
}

// scaleStyleKey multiplies every px value inside the named style entry,
// rounding to whole pixels and respecting a lower bound.
func scaleStyleKey(style map[string]any, key string, factor, floorPx float64) {
	raw, ok := style[key].(string)
	if !ok {
		return
	}
	style[key] = pxValueRe.ReplaceAllStringFunc(raw, func(match string) string {
		v, err := strconv.ParseFloat(strings.TrimSuffix(match, "px"), 64)
		if err != nil {
			return match
		}
		scaled := math.Round(v * factor)
		if scaled < floorPx {
			scaled = floorPx
		}
		return strconv.FormatInt(int64(scaled), 10) + "px"
	})
}

// buildOptimizations reviews a generated component for common followups.
func buildOptimizations(c GeneratedComponent, genCtx GenerationContext, lower string) []string {
	opts := []string{}
	if !strings.Contains(lower, "responsive") {
		opts = append(opts, "Add responsive breakpoints so the component adapts below tablet width.")
	}
	if c.AriaLabel == "" {
		opts = append(opts, "Set an aria-label so assistive technology announces the component.")
	}
	if styleHas(c.Style, "box-shadow") {
		opts = append(opts, "Prefer transform-based hover effects over animating box-shadow for smoother rendering.")
	}
	if len(genCtx.Brand.Colors) > 0 {
		if bg, ok := c.Style["background"].(string); ok && bg != "transparent" && !containsFold(genCtx.Brand.Colors, bg) {
			opts = append(opts, "The background sits outside the declared brand palette; consider one of the brand colors.")
		}
	}
	return opts
}

func buildGenerationReasoning(pattern ComponentPattern, variant ComponentVariant, match ComponentMatch, analysis PromptAnalysis) string {
	return fmt.Sprintf(
		"Selected the %s pattern (%s variant) because %s. Detection confidence %.0f%%; applied %d color and %d size hint(s) from the prompt.",
		pattern.Name, variant.Name, match.Reasoning,
		match.Confidence*100,
		len(analysis.Entities.Colors), len(analysis.Entities.Dimensions),
	)
}

// firstQuoted returns the first double- or single-quoted substring.
func firstQuoted(s string) string {
	m := quotedRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

func copyAnyMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func styleHas(style map[string]any, key string) bool {
	_, ok := style[key]
	return ok
}

func styleHasAny(style map[string]any, keys ...string) bool {
	for _, k := range keys {
		if styleHas(style, k) {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
