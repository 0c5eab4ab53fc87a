package intelligence

import "regexp"

// The dictionaries below drive intent classification and entity extraction.
// Scoring weights elsewhere in the package are tuned against these exact
// lists, so adding a word is a behavior change, not a data tweak.

var intentKeywords = map[Intent][]string{
	IntentStyle: {
		"color", "style", "theme", "font", "look", "appearance",
		"design", "beautiful", "modern", "elegant",
	},
	IntentContent: {
		"text", "content", "copy", "write", "heading", "title",
		"paragraph", "message", "wording",
	},
	IntentLayout: {
		"layout", "grid", "align", "position", "arrange", "column",
		"row", "spacing", "structure",
	},
	IntentInteraction: {
		"click", "hover", "animation", "animate", "transition",
		"button", "interactive", "press", "drag", "scroll",
	},
}

// intentOrder fixes evaluation order so shared-maximum detection is
// deterministic.
var intentOrder = []Intent{IntentStyle, IntentContent, IntentLayout, IntentInteraction}

var colorWords = []string{
	"red", "blue", "green", "yellow", "orange", "purple", "pink",
	"black", "white", "gray", "grey", "brown", "teal", "navy",
	"gold", "silver", "dark", "light", "bright", "pastel",
}

// colorHex maps dictionary color names onto the palette used by the
// component catalog. Unknown names pass through normalizeColor unchanged.
var colorHex = map[string]string{
	"red":    "#EF4444",
	"blue":   "#3B82F6",
	"green":  "#10B981",
	"yellow": "#F59E0B",
	"orange": "#F97316",
	"purple": "#8B5CF6",
	"pink":   "#EC4899",
	"black":  "#111827",
	"white":  "#FFFFFF",
	"gray":   "#6B7280",
	"grey":   "#6B7280",
	"brown":  "#92400E",
	"teal":   "#14B8A6",
	"navy":   "#1E3A8A",
	"gold":   "#D97706",
	"silver": "#9CA3AF",
	"dark":   "#1F2937",
	"light":  "#F9FAFB",
	"bright": "#FBBF24",
	"pastel": "#FBCFE8",
}

// DefaultAccent is the background color catalog variants use for primary
// actions. Brand color overrides key off this value.
const DefaultAccent = "#3B82F6"

func normalizeColor(name string) string {
	if hex, ok := colorHex[name]; ok {
		return hex
	}
	return name
}

var dimensionWords = []string{
	"large", "small", "big", "tiny", "huge", "wide", "narrow",
	"tall", "short", "compact", "full-width", "fullscreen", "responsive",
}

var animationWords = []string{
	"animate", "animation", "hover", "transition", "fade", "slide",
	"bounce", "spin", "rotate", "pulse", "zoom", "shake", "float",
}

var propertyWords = []string{
	"background", "border-radius", "box-shadow", "font-size",
	"font-weight", "padding", "margin", "border", "opacity",
	"width", "height", "text-align", "line-height", "letter-spacing",
	"display", "position", "gap",
}

// vagueTerms each subtract from analysis confidence; vaguePhrases only
// produce validation warnings.
var vagueTerms = []string{"nice", "good", "better", "improve", "fix", "change"}

var vaguePhrases = []string{
	"fix it", "make it better", "make it pop", "make it nice", "improve it",
}

// forbiddenTerms are markup injection tokens that have no place in a
// design prompt. They warn rather than fail so sloppy paste jobs still work.
var forbiddenTerms = []string{"<script", "javascript:", "onclick=", "onerror="}

var intentExpansions = map[Intent]string{
	IntentStyle:       " with a cohesive visual style",
	IntentContent:     " with clear, engaging copy",
	IntentLayout:      " with a balanced, structured layout",
	IntentInteraction: " with smooth, responsive interactions",
	IntentComplex:     " with careful attention to styling, layout, and behavior",
}

var (
	hexColorRe = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)
	rgbColorRe = regexp.MustCompile(`rgba?\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*(?:,\s*[0-9.]+\s*)?\)`)
	// No trailing boundary: \b cannot follow the % sign.
	lengthRe  = regexp.MustCompile(`\b\d+(?:\.\d+)?(?:px|rem|em|vh|vw|pt|%)`)
	pxValueRe = regexp.MustCompile(`(\d+(?:\.\d+)?)px`)
	quotedRe  = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
)
