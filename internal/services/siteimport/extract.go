package siteimport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/pagewright/pagewright/internal/intelligence"
)

const (
	maxPaletteColors = 6
	maxFonts         = 3
)

// sectionProbes map page landmarks onto the section vocabulary the
// engine's suggestions understand. Order fixes the output order.
var sectionProbes = []struct {
	name     string
	selector string
}{
	{"hero", `header h1, [class*="hero"], main h1`},
	{"features", `[class*="feature"], [id*="feature"]`},
	{"pricing", `[class*="pricing"], [id*="pricing"], [class*="plan"]`},
	{"testimonials", `[class*="testimonial"], blockquote`},
	{"gallery", `[class*="gallery"], [class*="portfolio"]`},
	{"faq", `[class*="faq"], [id*="faq"], details`},
	{"about", `[class*="about"], [id*="about"]`},
	{"services", `[class*="service"], [id*="service"]`},
	{"booking", `[class*="booking"], [class*="schedule"], [class*="appointment"]`},
	{"contact", `[class*="contact"], input[type="email"]`},
	{"cta", `[class*="cta"], a[class*="button"]`},
	{"footer", `footer`},
}

// workflowProbes guess the business workflow from page features. First
// match wins; pages without a match default to lead capture.
var workflowProbes = []struct {
	workflow intelligence.WorkflowType
	selector string
}{
	{intelligence.WorkflowEcommerce, `[class*="cart"], [class*="checkout"], [class*="product"]`},
	{intelligence.WorkflowBooking, `[class*="booking"], [class*="appointment"], input[type="date"]`},
	{intelligence.WorkflowCustomerSupport, `[class*="support"], [class*="helpdesk"], [class*="chat"]`},
	{intelligence.WorkflowNurturing, `article, [class*="blog"], [class*="post"]`},
}

const paletteScript = `
(() => {
	const colors = [];
	const push = (value) => {
		if (value) colors.push(value);
	};
	const meta = document.querySelector('meta[name="theme-color"]');
	if (meta) push(meta.getAttribute('content'));
	const probe = (el, prop) => {
		if (!el) return;
		push(getComputedStyle(el).getPropertyValue(prop));
	};
	probe(document.querySelector('button, a[class*="btn"], [class*="button"]'), 'background-color');
	probe(document.querySelector('header'), 'background-color');
	probe(document.body, 'background-color');
	probe(document.body, 'color');
	probe(document.querySelector('a'), 'color');
	return colors;
})()
`

const fontScript = `
(() => {
	const fonts = [];
	const probe = (el) => {
		if (!el) return;
		const family = getComputedStyle(el).getPropertyValue('font-family');
		if (family) fonts.push(family);
	};
	probe(document.querySelector('h1'));
	probe(document.body);
	return fonts;
})()
`

const radiusScript = `
(() => {
	const btn = document.querySelector('button, a[class*="btn"], [class*="button"], input[type="submit"]');
	if (!btn) return '';
	return getComputedStyle(btn).getPropertyValue('border-radius');
})()
`

func extractSections(page playwright.Page) []string {
	sections := make([]string, 0, len(sectionProbes))
	for _, probe := range sectionProbes {
		count, err := page.Locator(probe.selector).Count()
		if err != nil || count == 0 {
			continue
		}
		sections = append(sections, probe.name)
	}
	return sections
}

func extractPalette(page playwright.Page) []string {
	result, err := page.Evaluate(paletteScript)
	if err != nil {
		return nil
	}
	raws, ok := result.([]interface{})
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	palette := make([]string, 0, len(raws))
	for _, raw := range raws {
		value, ok := raw.(string)
		if !ok {
			continue
		}
		color, ok := normalizeColor(value)
		if !ok || seen[color] {
			continue
		}
		seen[color] = true
		palette = append(palette, color)
		if len(palette) == maxPaletteColors {
			break
		}
	}
	return palette
}

func extractFonts(page playwright.Page) []string {
	result, err := page.Evaluate(fontScript)
	if err != nil {
		return nil
	}
	raws, ok := result.([]interface{})
	if !ok {
		return nil
	}

	values := make([]string, 0, len(raws))
	for _, raw := range raws {
		if value, ok := raw.(string); ok {
			values = append(values, value)
		}
	}

	fonts := primaryFonts(values)
	if len(fonts) > maxFonts {
		fonts = fonts[:maxFonts]
	}
	return fonts
}

func extractStyle(page playwright.Page, fontCount, colorCount int) intelligence.BrandStyle {
	radius := 0.0
	if result, err := page.Evaluate(radiusScript); err == nil {
		if raw, ok := result.(string); ok {
			radius = parsePixels(raw)
		}
	}
	return classifyStyle(radius, fontCount, colorCount)
}

func detectWorkflow(page playwright.Page) intelligence.WorkflowType {
	for _, probe := range workflowProbes {
		count, err := page.Locator(probe.selector).Count()
		if err != nil || count == 0 {
			continue
		}
		return probe.workflow
	}
	return intelligence.WorkflowLeadCapture
}

// normalizeColor canonicalizes CSS color values to #RRGGBB. Transparent
// and unparseable values are dropped.
func normalizeColor(raw string) (string, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch {
	case raw == "" || raw == "transparent":
		return "", false
	case strings.HasPrefix(raw, "#"):
		return normalizeHex(raw[1:])
	case strings.HasPrefix(raw, "rgb(") || strings.HasPrefix(raw, "rgba("):
		return normalizeRGB(raw)
	}
	return "", false
}

func normalizeHex(hex string) (string, bool) {
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 4:
		if hex[3] == '0' {
			return "", false
		}
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	case 8:
		if hex[6] == '0' && hex[7] == '0' {
			return "", false
		}
		hex = hex[:6]
	default:
		return "", false
	}

	for i := 0; i < len(hex); i++ {
		c := hex[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", false
		}
	}
	return "#" + strings.ToUpper(hex), true
}

func normalizeRGB(raw string) (string, bool) {
	open := strings.IndexByte(raw, '(')
	end := strings.IndexByte(raw, ')')
	if open < 0 || end <= open {
		return "", false
	}

	fields := strings.FieldsFunc(raw[open+1:end], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(fields) < 3 {
		return "", false
	}

	var rgb [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil || v < 0 || v > 255 {
			return "", false
		}
		rgb[i] = v
	}

	if len(fields) >= 4 {
		alphaRaw := strings.TrimSuffix(fields[3], "%")
		if alpha, err := strconv.ParseFloat(alphaRaw, 64); err == nil && alpha == 0 {
			return "", false
		}
	}

	return fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2]), true
}

// Generic CSS families carry no brand signal.
var genericFamilies = map[string]bool{
	"serif":         true,
	"sans-serif":    true,
	"monospace":     true,
	"cursive":       true,
	"fantasy":       true,
	"system-ui":     true,
	"ui-sans-serif": true,
	"ui-serif":      true,
	"ui-monospace":  true,
}

// primaryFonts reduces raw font-family values to their leading family
// names, deduplicated in order.
func primaryFonts(raws []string) []string {
	seen := make(map[string]bool)
	fonts := make([]string, 0, len(raws))
	for _, raw := range raws {
		first := strings.TrimSpace(strings.SplitN(raw, ",", 2)[0])
		first = strings.Trim(first, `"'`)
		if first == "" || genericFamilies[strings.ToLower(first)] {
			continue
		}
		if !seen[first] {
			seen[first] = true
			fonts = append(fonts, first)
		}
	}
	return fonts
}

// classifyStyle maps measurable page traits onto the brand style
// vocabulary generation understands. Round buttons read playful,
// moderate rounding reads modern, a spare palette reads minimal.
func classifyStyle(buttonRadius float64, fontCount, colorCount int) intelligence.BrandStyle {
	switch {
	case buttonRadius >= 16:
		return intelligence.BrandStylePlayful
	case buttonRadius >= 6:
		return intelligence.BrandStyleModern
	case colorCount <= 2 && fontCount <= 1:
		return intelligence.BrandStyleMinimal
	default:
		return intelligence.BrandStyleClassic
	}
}

func parsePixels(raw string) float64 {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "px"))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
