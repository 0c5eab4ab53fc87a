package intelligence

import "sort"

// Component type tokens. Catalog order doubles as tie-break priority in
// detection, with the generic container deliberately first.
const (
	TypeContainer   = "container"
	TypeButton      = "button"
	TypeForm        = "form"
	TypeText        = "text"
	TypeImage       = "image"
	TypeSection     = "section"
	TypeInteractive = "interactive"
)

// ComponentPattern is a recognizable component archetype. Properties is a
// presence map of the prop names the detector reacts to; Confidence is the
// catalog author's prior for how often a detection of this pattern is right.
type ComponentPattern struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Description string             `json:"description"`
	Properties  map[string]bool    `json:"properties"`
	Variants    []ComponentVariant `json:"variants"`
	Confidence  float64            `json:"confidence"`
}

// ComponentVariant is a concrete, ready-to-render configuration of a
// pattern. Score is only populated transiently while ranking variants.
type ComponentVariant struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Props       map[string]any `json:"props"`
	Style       map[string]any `json:"style"`
	Class       string         `json:"class"`
	Score       float64        `json:"score,omitempty"`
}

var componentPatterns = []ComponentPattern{
	{
		ID:          "pattern-container",
		Name:        "Container",
		Type:        TypeContainer,
		Description: "Generic wrapper that groups other components",
		Properties:  map[string]bool{"padding": true, "background": true, "maxWidth": true},
		Confidence:  0.5,
		Variants: []ComponentVariant{
			{
				ID:          "container-plain",
				Name:        "Plain",
				Description: "Invisible grouping wrapper with breathing room",
				Props:       map[string]any{"tag": "div"},
				Style:       map[string]any{"padding": "24px", "background": "transparent"},
				Class:       "pw-container",
			},
			{
				ID:          "container-card",
				Name:        "Card",
				Description: "Elevated card wrapper with a clean, professional look",
				Props:       map[string]any{"tag": "div"},
				Style: map[string]any{
					"padding":       "24px",
					"background":    "#FFFFFF",
					"border-radius": "12px",
					"box-shadow":    "0 2px 8px rgba(17,24,39,0.08)",
				},
				Class: "pw-container pw-container--card",
			},
			{
				ID:          "container-band",
				Name:        "Band",
				Description: "Edge-to-edge band that gives bold statements room to breathe",
				Props:       map[string]any{"tag": "section"},
				Style: map[string]any{
					"padding":    "48px 24px",
					"background": "#111827",
					"color":      "#F9FAFB",
				},
				Class: "pw-container pw-container--band",
			},
		},
	},
	{
		ID:          "pattern-button",
		Name:        "Button",
		Type:        TypeButton,
		Description: "Clickable action trigger",
		Properties:  map[string]bool{"label": true, "action": true, "size": true, "variant": true},
		Confidence:  0.9,
		Variants: []ComponentVariant{
			{
				ID:          "button-primary",
				Name:        "Primary",
				Description: "Solid high-contrast button for the main conversion action",
				Props:       map[string]any{"label": "Get Started", "action": "submit"},
				Style: map[string]any{
					"background":    DefaultAccent,
					"color":         "#FFFFFF",
					"padding":       "12px 24px",
					"border-radius": "8px",
					"border":        "none",
					"font-size":     "16px",
					"font-weight":   "600",
				},
				Class: "pw-button pw-button--primary",
			},
			{
				ID:          "button-outline",
				Name:        "Outline",
				Description: "Outlined secondary button that stays clear and friendly without stealing focus",
				Props:       map[string]any{"label": "Learn More", "action": "navigate"},
				Style: map[string]any{
					"background":    "transparent",
					"color":         DefaultAccent,
					"padding":       "12px 24px",
					"border-radius": "8px",
					"border":        "2px solid " + DefaultAccent,
					"font-size":     "16px",
				},
				Class: "pw-button pw-button--outline",
			},
			{
				ID:          "button-pill",
				Name:        "Pill",
				Description: "Rounded pill button with a soft glow for modern, sleek brands",
				Props:       map[string]any{"label": "Book a Demo", "action": "open-modal"},
				Style: map[string]any{
					"background":    "#10B981",
					"color":         "#FFFFFF",
					"padding":       "14px 32px",
					"border-radius": "9999px",
					"font-size":     "16px",
					"box-shadow":    "0 4px 14px rgba(16,185,129,0.35)",
				},
				Class: "pw-button pw-button--pill",
			},
		},
	},
	{
		ID:          "pattern-form",
		Name:        "Form",
		Type:        TypeForm,
		Description: "Input collection with a submit action",
		Properties:  map[string]bool{"fields": true, "submitLabel": true, "validation": true, "action": true},
		Confidence:  0.85,
		Variants: []ComponentVariant{
			{
				ID:          "form-contact",
				Name:        "Contact",
				Description: "Stacked contact form with generous spacing that reads as calm and trustworthy",
				Props: map[string]any{
					"fields":      []string{"name", "email", "message"},
					"submitLabel": "Send Message",
				},
				Style: map[string]any{
					"background":    "#FFFFFF",
					"padding":       "32px",
					"border-radius": "12px",
					"box-shadow":    "0 2px 12px rgba(17,24,39,0.08)",
					"gap":           "16px",
				},
				Class: "pw-form pw-form--contact",
			},
			{
				ID:          "form-newsletter",
				Name:        "Newsletter",
				Description: "Single-field inline signup with minimal friction for lead capture",
				Props: map[string]any{
					"fields":      []string{"email"},
					"submitLabel": "Subscribe",
				},
				Style: map[string]any{
					"background": "transparent",
					"padding":    "8px",
					"display":    "flex",
					"gap":        "8px",
				},
				Class: "pw-form pw-form--newsletter",
			},
			{
				ID:          "form-booking",
				Name:        "Booking",
				Description: "Structured request form that feels professional and secure",
				Props: map[string]any{
					"fields":      []string{"name", "email", "date", "service"},
					"submitLabel": "Request Booking",
				},
				Style: map[string]any{
					"background":    "#F9FAFB",
					"padding":       "32px",
					"border-radius": "12px",
					"border":        "1px solid #E5E7EB",
				},
				Class: "pw-form pw-form--booking",
			},
		},
	},
	{
		ID:          "pattern-text",
		Name:        "Text Block",
		Type:        TypeText,
		Description: "Headings, body copy and quotes",
		Properties:  map[string]bool{"content": true, "align": true, "attribution": true},
		Confidence:  0.8,
		Variants: []ComponentVariant{
			{
				ID:          "text-heading",
				Name:        "Heading",
				Description: "Large display heading that anchors the page with an engaging first line",
				Props:       map[string]any{"content": "Build something people remember", "tag": "h1"},
				Style: map[string]any{
					"font-size":   "48px",
					"font-weight": "700",
					"color":       "#111827",
					"line-height": "1.1",
				},
				Class: "pw-text pw-text--heading",
			},
			{
				ID:          "text-paragraph",
				Name:        "Paragraph",
				Description: "Readable body copy with a clear, comfortable measure",
				Props:       map[string]any{"content": "Explain the value in plain language.", "tag": "p"},
				Style: map[string]any{
					"font-size":   "18px",
					"color":       "#374151",
					"line-height": "1.6",
				},
				Class: "pw-text pw-text--paragraph",
			},
			{
				ID:          "text-quote",
				Name:        "Quote",
				Description: "Pull quote with an accent rule that adds social proof and trust",
				Props: map[string]any{
					"content":     "This changed how we work.",
					"tag":         "blockquote",
					"attribution": "A happy customer",
				},
				Style: map[string]any{
					"font-size":   "24px",
					"font-style":  "italic",
					"color":       "#1F2937",
					"border-left": "4px solid " + DefaultAccent,
					"padding":     "8px 24px",
				},
				Class: "pw-text pw-text--quote",
			},
		},
	},
	{
		ID:          "pattern-image",
		Name:        "Image",
		Type:        TypeImage,
		Description: "Photography and illustration placement",
		Properties:  map[string]bool{"src": true, "alt": true, "caption": true, "fit": true},
		Confidence:  0.8,
		Variants: []ComponentVariant{
			{
				ID:          "image-hero",
				Name:        "Hero Image",
				Description: "Full-bleed image that sets the scene, best with spacious photography",
				Props:       map[string]any{"src": "", "alt": "", "fit": "cover"},
				Style: map[string]any{
					"width":      "100%",
					"height":     "480px",
					"object-fit": "cover",
				},
				Class: "pw-image pw-image--hero",
			},
			{
				ID:          "image-framed",
				Name:        "Framed",
				Description: "Framed image with rounded corners for an elegant, polished feel",
				Props:       map[string]any{"src": "", "alt": "", "caption": ""},
				Style: map[string]any{
					"width":         "100%",
					"border-radius": "12px",
					"box-shadow":    "0 4px 16px rgba(17,24,39,0.12)",
				},
				Class: "pw-image pw-image--framed",
			},
			{
				ID:          "image-avatar",
				Name:        "Avatar",
				Description: "Circular portrait crop for testimonials and team sections, friendly by default",
				Props:       map[string]any{"src": "", "alt": "", "size": "96px"},
				Style: map[string]any{
					"width":         "96px",
					"height":        "96px",
					"border-radius": "50%",
					"object-fit":    "cover",
				},
				Class: "pw-image pw-image--avatar",
			},
		},
	},
	{
		ID:          "pattern-section",
		Name:        "Section",
		Type:        TypeSection,
		Description: "Full-width page band composed of smaller pieces",
		Properties:  map[string]bool{"heading": true, "columns": true, "cta": true},
		Confidence:  0.85,
		Variants: []ComponentVariant{
			{
				ID:          "section-hero",
				Name:        "Hero",
				Description: "Above-the-fold opener with a headline, a support line and one bold call to action",
				Props:       map[string]any{"heading": "", "subheading": "", "cta": ""},
				Style: map[string]any{
					"padding":    "96px 24px",
					"background": "#F9FAFB",
					"text-align": "center",
				},
				Class: "pw-section pw-section--hero",
			},
			{
				ID:          "section-features",
				Name:        "Feature Grid",
				Description: "Three-column grid for product features with clean, even spacing",
				Props:       map[string]any{"heading": "", "columns": 3, "items": []string{}},
				Style: map[string]any{
					"padding": "64px 24px",
					"display": "grid",
					"gap":     "32px",
				},
				Class: "pw-section pw-section--features",
			},
			{
				ID:          "section-banner",
				Name:        "Banner",
				Description: "Slim full-width banner for announcements and urgency moments",
				Props:       map[string]any{"message": "", "cta": ""},
				Style: map[string]any{
					"padding":    "16px 24px",
					"background": DefaultAccent,
					"color":      "#FFFFFF",
					"text-align": "center",
				},
				Class: "pw-section pw-section--banner",
			},
		},
	},
	{
		ID:          "pattern-interactive",
		Name:        "Interactive Widget",
		Type:        TypeInteractive,
		Description: "Self-contained widgets visitors operate directly",
		Properties:  map[string]bool{"kind": true, "greeting": true, "items": true, "target": true},
		Confidence:  0.75,
		Variants: []ComponentVariant{
			{
				ID:          "interactive-chat",
				Name:        "Chat Widget",
				Description: "Floating chat launcher that answers questions without leaving the page, modern and friendly",
				Props: map[string]any{
					"kind":     "chat",
					"greeting": "How can we help?",
					"position": "bottom-right",
				},
				Style: map[string]any{
					"width":         "360px",
					"border-radius": "16px",
					"box-shadow":    "0 8px 30px rgba(17,24,39,0.2)",
					"background":    "#FFFFFF",
				},
				Class: "pw-interactive pw-interactive--chat",
			},
			{
				ID:          "interactive-accordion",
				Name:        "Accordion",
				Description: "Expandable question list that keeps long answers tidy and clear",
				Props:       map[string]any{"kind": "accordion", "items": []string{}},
				Style: map[string]any{
					"border":        "1px solid #E5E7EB",
					"border-radius": "8px",
					"background":    "#FFFFFF",
				},
				Class: "pw-interactive pw-interactive--accordion",
			},
			{
				ID:          "interactive-countdown",
				Name:        "Countdown",
				Description: "Deadline timer that adds urgency to limited offers",
				Props: map[string]any{
					"kind":    "countdown",
					"target":  "",
					"message": "Offer ends soon",
				},
				Style: map[string]any{
					"font-size":   "32px",
					"font-weight": "700",
					"color":       "#EF4444",
					"text-align":  "center",
				},
				Class: "pw-interactive pw-interactive--countdown",
			},
		},
	},
}

// ComponentPatterns returns a copy of the built-in pattern catalog in
// priority order.
func ComponentPatterns() []ComponentPattern {
	out := make([]ComponentPattern, len(componentPatterns))
	copy(out, componentPatterns)
	return out
}

// PatternByType finds the catalog pattern for a component type token.
func PatternByType(componentType string) (ComponentPattern, bool) {
	for _, p := range componentPatterns {
		if p.Type == componentType {
			return p, true
		}
	}
	return ComponentPattern{}, false
}

// sortedKeys iterates property presence maps in a stable order.
func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
