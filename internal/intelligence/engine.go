package intelligence

import "go.uber.org/zap"

// Engine bundles the three recommendation surfaces behind one constructor.
// Everything downstream of an Engine is deterministic except generated
// component ids, and those are injectable through MatcherOptions.
type Engine struct {
	Analyzer  *PromptAnalyzer
	Matcher   *PatternMatcher
	Suggester *SuggestionEngine
}

// NewEngine wires an analyzer, matcher and suggestion engine sharing one
// logger. MatcherOptions pass through to the pattern matcher.
func NewEngine(logger *zap.Logger, opts ...MatcherOption) *Engine {
	analyzer := NewPromptAnalyzer()
	return &Engine{
		Analyzer:  analyzer,
		Matcher:   NewPatternMatcher(analyzer, opts...),
		Suggester: NewSuggestionEngine(logger),
	}
}
