package intelligence

import (
	"reflect"
	"strings"
	"testing"
)

func TestGenerateBlueButton(t *testing.T) {
	m := newTestMatcher()
	result := m.Generate("Create a large blue button with hover effect", GenerationContext{})

	c := result.Component
	if c.Type != TypeButton {
		t.Errorf("type = %q, want %q", c.Type, TypeButton)
	}
	if c.VariantID != "button-primary" {
		t.Errorf("variant = %q, want button-primary", c.VariantID)
	}
	if got := c.Style["background"]; got != "#3B82F6" {
		t.Errorf("background = %v, want the normalized blue #3B82F6", got)
	}
	if got := c.Style["padding"]; got != "15px 30px" {
		t.Errorf("padding = %v, want scaled 15px 30px", got)
	}
	if got := c.Style["font-size"]; got != "20px" {
		t.Errorf("font-size = %v, want scaled 20px", got)
	}
	if got := c.Style["border-radius"]; got != "8px" {
		t.Errorf("border-radius = %v, want untouched 8px", got)
	}
	if c.Name != "Primary Button" {
		t.Errorf("name = %q, want Primary Button", c.Name)
	}
	if c.AriaLabel != "primary button" {
		t.Errorf("aria label = %q, want primary button", c.AriaLabel)
	}
	if !c.Generated {
		t.Error("component should be marked generated")
	}
	if c.ID != "comp-001" {
		t.Errorf("id = %q, want the injected generator's comp-001", c.ID)
	}

	if !almostEqual(result.Confidence, 1.0) {
		t.Errorf("confidence = %v, want capped 1.0", result.Confidence)
	}
	if !strings.Contains(result.Reasoning, "Primary") || !strings.Contains(result.Reasoning, "90%") {
		t.Errorf("reasoning %q should name the variant and detection confidence", result.Reasoning)
	}

	if len(result.Alternatives) != 2 {
		t.Fatalf("alternatives = %d, want 2", len(result.Alternatives))
	}
	if result.Alternatives[0].VariantID != "button-outline" {
		t.Errorf("first alternative = %q, want button-outline", result.Alternatives[0].VariantID)
	}
	if got := result.Alternatives[0].Style["background"]; got != "transparent" {
		t.Errorf("outline background = %v, transparent backgrounds are never painted", got)
	}
	if got := result.Alternatives[1].Style["background"]; got != "#3B82F6" {
		t.Errorf("pill background = %v, want the prompt color applied to alternatives too", got)
	}

	if len(result.Optimizations) != 1 {
		t.Fatalf("optimizations = %v, want just the responsive advisory", result.Optimizations)
	}
	if !strings.Contains(result.Optimizations[0], "responsive") {
		t.Errorf("optimization %q should suggest responsive breakpoints", result.Optimizations[0])
	}
}

func TestGenerateBrandRoundTrip(t *testing.T) {
	m := newTestMatcher()
	genCtx := GenerationContext{Brand: BrandGuidelines{Colors: []string{"#FF5733"}}}
	result := m.Generate("Create a button for signups", genCtx)

	if got := result.Component.Style["background"]; got != "#FF5733" {
		t.Errorf("background = %v, want the first brand color #FF5733", got)
	}
	for _, opt := range result.Optimizations {
		if strings.Contains(opt, "brand palette") {
			t.Errorf("optimization %q flags a brand color as off-palette", opt)
		}
	}
}

func TestGeneratePromptColorBeatsBrand(t *testing.T) {
	m := newTestMatcher()
	genCtx := GenerationContext{Brand: BrandGuidelines{Colors: []string{"#FF0000"}}}
	result := m.Generate("Create a green button", genCtx)

	if got := result.Component.Style["background"]; got != "#10B981" {
		t.Errorf("background = %v, want the prompt's green to win over the brand color", got)
	}

	var flagged bool
	for _, opt := range result.Optimizations {
		if strings.Contains(opt, "brand palette") {
			flagged = true
		}
	}
	if !flagged {
		t.Errorf("optimizations %v should flag the off-palette background", result.Optimizations)
	}
}

func TestGenerateContentOverride(t *testing.T) {
	m := newTestMatcher()
	result := m.Generate(`Change the heading text to say "Welcome aboard"`, GenerationContext{})

	if result.Component.Type != TypeText {
		t.Errorf("type = %q, want %q", result.Component.Type, TypeText)
	}
	if result.Component.VariantID != "text-heading" {
		t.Errorf("variant = %q, want text-heading", result.Component.VariantID)
	}
	if got := result.Component.Props["content"]; got != "Welcome aboard" {
		t.Errorf("content = %v, want the quoted text", got)
	}
}

func TestGenerateIndustryPicksVariant(t *testing.T) {
	m := newTestMatcher()
	result := m.Generate("Need a signup form for developers", GenerationContext{Industry: "technology"})

	if result.Component.Type != TypeForm {
		t.Errorf("type = %q, want %q", result.Component.Type, TypeForm)
	}
	if result.Component.VariantID != "form-newsletter" {
		t.Errorf("variant = %q, want the minimal newsletter variant for technology", result.Component.VariantID)
	}
}

func TestGenerateModernPrefersRounded(t *testing.T) {
	m := newTestMatcher()
	genCtx := GenerationContext{Brand: BrandGuidelines{Style: BrandStyleModern}}
	result := m.Generate("Wrap this in a panel", genCtx)

	if result.Component.Type != TypeContainer {
		t.Errorf("type = %q, want %q", result.Component.Type, TypeContainer)
	}
	if result.Component.VariantID != "container-card" {
		t.Errorf("variant = %q, want the rounded card for a modern brand", result.Component.VariantID)
	}
}

func TestGenerateSmallScaling(t *testing.T) {
	m := newTestMatcher()
	result := m.Generate("Add a small button", GenerationContext{})

	if got := result.Component.Style["padding"]; got != "10px 19px" {
		t.Errorf("padding = %v, want shrunk 10px 19px", got)
	}
	if got := result.Component.Style["font-size"]; got != "13px" {
		t.Errorf("font-size = %v, want shrunk 13px", got)
	}
}

func TestScaleStyleKey(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		factor float64
		floor  float64
		want   string
	}{
		{"grow compound", "12px 24px", growFactor, 0, "15px 30px"},
		{"shrink rounds", "16px", shrinkFactor, shrinkFloor, "13px"},
		{"floor holds", "4px 6px", shrinkFactor, shrinkFloor, "4px 5px"},
		{"non px untouched", "1.5rem", growFactor, 0, "1.5rem"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := map[string]any{"padding": tt.value}
			scaleStyleKey(style, "padding", tt.factor, tt.floor)
			if got := style["padding"]; got != tt.want {
				t.Errorf("scaleStyleKey(%q) = %v, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestGenerateFallbackContainer(t *testing.T) {
	m := newTestMatcher()
	result := m.Generate("", GenerationContext{})

	if result.Component.Type != TypeContainer {
		t.Errorf("type = %q, want the container fallback", result.Component.Type)
	}
	if result.Component.VariantID != "container-plain" {
		t.Errorf("variant = %q, want container-plain", result.Component.VariantID)
	}
	if result.Component.ID == "" {
		t.Error("fallback component still needs an id")
	}
	if len(result.Alternatives) != 2 {
		t.Errorf("alternatives = %d, want 2", len(result.Alternatives))
	}
}

func TestGenerateBoxShadowAdvisory(t *testing.T) {
	m := newTestMatcher()
	result := m.Generate("Create a button", GenerationContext{Industry: "technology"})

	if result.Component.VariantID != "button-pill" {
		t.Fatalf("variant = %q, want button-pill for a sleek technology brand", result.Component.VariantID)
	}

	var found bool
	for _, opt := range result.Optimizations {
		if strings.Contains(opt, "box-shadow") {
			found = true
		}
	}
	if !found {
		t.Errorf("optimizations %v should warn about animating box-shadow", result.Optimizations)
	}
}

func TestGenerateNeverPanics(t *testing.T) {
	prompts := []string{
		"",
		" ",
		"??!!",
		`"unclosed quote`,
		"<script>alert('x')</script>",
		strings.Repeat("button form section image ", 200),
		"générer un bouton bleu 🚀",
	}

	m := newTestMatcher()
	analyzer := NewPromptAnalyzer()
	for _, prompt := range prompts {
		result := m.Generate(prompt, GenerationContext{Industry: "ecommerce"})
		if result.Component.ID == "" {
			t.Errorf("Generate(%q) produced a component without an id", prompt)
		}
		m.Detect(prompt)
		analyzer.Analyze(prompt)
		analyzer.Validate(prompt)
		analyzer.Variations(prompt)
		analyzer.MatchTemplates(prompt)
	}
}

func TestGenerateDeterministicApartFromID(t *testing.T) {
	prompt := "Create a large blue button with hover effect"
	genCtx := GenerationContext{Industry: "finance", Brand: BrandGuidelines{Colors: []string{"#0A0A0A"}}}

	first := newTestMatcher().Generate(prompt, genCtx)
	second := newTestMatcher().Generate(prompt, genCtx)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Generate output differs between identically configured matchers:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
