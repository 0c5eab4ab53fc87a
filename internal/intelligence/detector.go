package intelligence

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ComponentMatch is the outcome of pattern detection over a prompt.
type ComponentMatch struct {
	DetectedType      string             `json:"detected_type"`
	Confidence        float64            `json:"confidence"`
	Reasoning         string             `json:"reasoning"`
	SuggestedPatterns []ComponentPattern `json:"suggested_patterns"`
}

// PatternMatcher detects component patterns in prompts and generates
// customized components from them. Detection is pure; only generated
// component ids vary between runs, and even that is injectable.
type PatternMatcher struct {
	analyzer *PromptAnalyzer
	patterns []ComponentPattern
	newID    func() string
}

// MatcherOption configures a PatternMatcher.
type MatcherOption func(*PatternMatcher)

// WithIDGenerator replaces the component id generator. Tests use this to
// make generation output fully reproducible.
func WithIDGenerator(gen func() string) MatcherOption {
	return func(m *PatternMatcher) { m.newID = gen }
}

// NewPatternMatcher creates a matcher over the built-in pattern catalog.
func NewPatternMatcher(analyzer *PromptAnalyzer, opts ...MatcherOption) *PatternMatcher {
	m := &PatternMatcher{
		analyzer: analyzer,
		patterns: componentPatterns,
		newID:    defaultComponentID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func defaultComponentID() string {
	return fmt.Sprintf("comp-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Detect scores every catalog pattern against the prompt and names the most
// likely component type. Ties go to the pattern listed first in the
// catalog, and a prompt with no signals at all falls back to a generic
// container rather than failing.
func (m *PatternMatcher) Detect(prompt string) ComponentMatch {
	lower := strings.ToLower(prompt)

	scores := make([]float64, len(m.patterns))
	reasons := make([][]string, len(m.patterns))
	for i, p := range m.patterns {
		if strings.Contains(lower, p.Type) {
			scores[i] += 0.5
			reasons[i] = append(reasons[i], fmt.Sprintf("the prompt names %q directly", p.Type))
		}
		if strings.Contains(lower, strings.ToLower(p.Name)) {
			scores[i] += 0.4
			reasons[i] = append(reasons[i], fmt.Sprintf("the %s pattern matches by name", p.Name))
		}
		for _, kw := range typeKeywords[p.Type] {
			if strings.Contains(lower, kw) {
				scores[i] += 0.2
				reasons[i] = append(reasons[i], fmt.Sprintf("keyword %q points at a %s", kw, p.Type))
			}
		}
		for _, prop := range sortedKeys(p.Properties) {
			if strings.Contains(lower, strings.ToLower(prop)) {
				scores[i] += 0.1
				reasons[i] = append(reasons[i], fmt.Sprintf("the prompt references the %s property", prop))
			}
		}
	}

	best := -1
	bestScore := 0.0
	for i, s := range scores {
		if s > bestScore {
			best, bestScore = i, s
		}
	}

	if best < 0 {
		analysis := m.analyzer.Analyze(prompt)
		return ComponentMatch{
			DetectedType:      TypeContainer,
			Confidence:        analysis.Confidence,
			Reasoning:         "no pattern signals found in the prompt, defaulting to a generic container",
			SuggestedPatterns: []ComponentPattern{},
		}
	}

	return ComponentMatch{
		DetectedType:      m.patterns[best].Type,
		Confidence:        math.Min(bestScore, 1.0),
		Reasoning:         strings.Join(reasons[best], "; "),
		SuggestedPatterns: m.rankPatterns(scores),
	}
}

// rankPatterns returns the top three scoring patterns, catalog order
// breaking ties. Zero scores never make the list.
func (m *PatternMatcher) rankPatterns(scores []float64) []ComponentPattern {
	type scored struct {
		pattern ComponentPattern
		score   float64
	}

	var ranked []scored
	for i, s := range scores {
		if s > 0 {
			ranked = append(ranked, scored{pattern: m.patterns[i], score: s})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	patterns := make([]ComponentPattern, len(ranked))
	for i, r := range ranked {
		patterns[i] = r.pattern
	}
	return patterns
}
