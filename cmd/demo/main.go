package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/assistant"
	"github.com/pagewright/pagewright/internal/intelligence"
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	red    = color.New(color.FgRed, color.Bold)
	yellow = color.New(color.FgYellow, color.Bold)
	cyan   = color.New(color.FgCyan, color.Bold)
	bold   = color.New(color.Bold)
	dim    = color.New(color.Faint)
)

var samplePrompts = []string{
	"Create a bold hero section with a headline and a call to action",
	"Add a primary button that says Start Free Trial",
	"Build a signup form with email and password fields",
	"Add an image carousel showing customer success stories",
}

func main() {
	// Flags
	targetURL := flag.String("url", "https://acme-tools.example.com", "Website to analyze for brand context")
	extraPrompt := flag.String("prompt", "", "Extra prompt to run through the engine")
	industry := flag.String("industry", "saas", "Industry for generation context")
	audience := flag.String("audience", "small business owners", "Target audience for suggestions")
	delay := flag.Duration("delay", 400*time.Millisecond, "Simulated assistant latency")
	verbose := flag.Bool("verbose", false, "Verbose output")

	flag.Parse()

	// Setup logger
	var logger *zap.Logger
	if *verbose {
		logger, _ = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"/dev/null"}
		logger, _ = cfg.Build()
	}
	defer logger.Sync()

	// Print banner
	printBanner()

	ctx := context.Background()
	startTime := time.Now()

	prompts := samplePrompts
	if *extraPrompt != "" {
		prompts = append(prompts, *extraPrompt)
	}

	// Sequential component ids keep repeated runs comparable
	var seq atomic.Uint64
	engine := intelligence.NewEngine(logger, intelligence.WithIDGenerator(func() string {
		return fmt.Sprintf("comp-%d", seq.Add(1))
	}))
	helper := assistant.New(engine, logger, assistant.WithDelay(*delay))

	fmt.Printf("🎯 Site: %s\n", *targetURL)
	fmt.Printf("📝 Prompts: %d\n", len(prompts))
	fmt.Println()

	//==========================================================================
	// STEP 1: WEBSITE ANALYSIS
	//==========================================================================
	printStep(1, "Website Analysis", fmt.Sprintf("Reading %s for brand context...", *targetURL))

	stop := startSpinner("   Analyzing...")
	analysis, err := helper.AnalyzeWebsite(ctx, *targetURL)
	stop()
	if err != nil {
		red.Printf("   ❌ Analysis failed: %v\n", err)
		yellow.Println("   ⚡ Continuing with an empty brand context...")
		analysis = assistant.WebsiteAnalysis{SuggestedWorkflow: intelligence.WorkflowLeadCapture}
	} else {
		green.Printf("   ✓ %s: %d sections, %d palette colors\n",
			analysis.Title, len(analysis.DetectedSections), len(analysis.Palette))
		fmt.Printf("      Sections: %s\n", strings.Join(analysis.DetectedSections, ", "))
		fmt.Printf("      Palette:  %s\n", strings.Join(analysis.Palette, " "))
		fmt.Printf("      Style:    %s\n", analysis.Brand.Style)
		fmt.Printf("      Workflow: %s\n", analysis.SuggestedWorkflow)
		for _, note := range analysis.Notes {
			dim.Printf("      • %s\n", note)
		}
	}

	genCtx := intelligence.GenerationContext{
		Industry: *industry,
		PageType: "landing",
		Brand:    analysis.Brand,
	}

	//==========================================================================
	// STEP 2: PROMPT ANALYSIS
	//==========================================================================
	printStep(2, "Prompt Analysis", "Extracting intent and entities...")

	for _, p := range prompts {
		a := engine.Analyzer.Analyze(p)

		fmt.Println()
		bold.Printf("   \"%s\"\n", truncate(p, 62))
		fmt.Printf("      Intent: %s (%.0f%% confidence)\n", a.Intent, a.Confidence*100)
		if n := a.Entities.Total(); n > 0 {
			fmt.Printf("      Entities: %s\n", describeEntities(a.Entities))
		}
		if *verbose && a.ExpandedPrompt != p {
			dim.Printf("      Expanded: %s\n", truncate(a.ExpandedPrompt, 70))
		}

		validation := engine.Analyzer.Validate(p)
		for _, w := range validation.Warnings {
			yellow.Printf("      ⚠ %s\n", w)
		}
	}

	green.Printf("\n   ✓ Analyzed %d prompts\n", len(prompts))

	//==========================================================================
	// STEP 3: COMPONENT DETECTION
	//==========================================================================
	printStep(3, "Component Detection", "Matching prompts against the pattern catalog...")

	for _, p := range prompts {
		match := engine.Matcher.Detect(p)
		fmt.Printf("   %-50s ", truncate(p, 50))
		cyan.Printf("%-12s", match.DetectedType)
		fmt.Printf(" %3.0f%%\n", match.Confidence*100)
		if *verbose {
			dim.Printf("      %s\n", match.Reasoning)
		}
	}

	green.Printf("   ✓ Detected component types for %d prompts\n", len(prompts))

	//==========================================================================
	// STEP 4: COMPONENT GENERATION
	//==========================================================================
	printStep(4, "Component Generation", "Building styled components with brand context...")

	var built []string
	for _, p := range prompts {
		result := engine.Matcher.Generate(p, genCtx)
		built = append(built, result.Component.Type)

		fmt.Println()
		green.Printf("   ✓ %s ", result.Component.Name)
		dim.Printf("(%s, %.0f%% confidence)\n", result.Component.VariantID, result.Confidence*100)
		fmt.Printf("      Class: %s\n", result.Component.Class)
		for _, opt := range result.Optimizations {
			cyan.Printf("      • %s\n", opt)
		}
		if len(result.Alternatives) > 0 {
			dim.Printf("      %d alternative variants available\n", len(result.Alternatives))
		}
	}

	//==========================================================================
	// STEP 5: WORKFLOW SUGGESTIONS
	//==========================================================================
	printStep(5, "Workflow Suggestions", fmt.Sprintf("Scoring the %s workflow...", analysis.SuggestedWorkflow))

	workflowCtx := intelligence.WorkflowContext{
		WorkflowType:      analysis.SuggestedWorkflow,
		CurrentComponents: built,
		BusinessGoals:     []string{"increase conversions"},
		TargetAudience:    *audience,
		Industry:          *industry,
		FunnelStage:       intelligence.StageDecision,
	}

	stop = startSpinner("   Scoring...")
	suggestions := helper.SuggestWithContext(ctx, workflowCtx)
	stop()

	top := suggestions.SuggestedComponents
	if len(top) > 3 {
		top = top[:3]
	}
	for _, s := range top {
		fmt.Println()
		cyan.Printf("   %s ", s.Name)
		fmt.Printf("(%.0f%% confidence)\n", s.Confidence*100)
		fmt.Printf("      %s\n", s.Description)
		dim.Printf("      Impact: %s, setup %s\n",
			s.BusinessImpact.ConversionImpact, s.Implementation.EstimatedTime)
	}

	green.Printf("\n   ✓ %d suggestions, workflow %.0f%% complete\n",
		len(suggestions.SuggestedComponents),
		suggestions.WorkflowCompleteness.Score*100)

	//==========================================================================
	// STEP 6: GAP ANALYSIS
	//==========================================================================
	printStep(6, "Gap Analysis", "Finding what the workflow is missing...")

	gaps := engine.Suggester.AnalyzeGaps(workflowCtx)
	if len(gaps.CriticalGaps) == 0 {
		green.Println("   ✓ No critical gaps")
	} else {
		for _, g := range gaps.CriticalGaps {
			red.Printf("   ✗ Missing: %s\n", g)
		}
	}
	for _, improvement := range gaps.SuggestedImprovements {
		yellow.Printf("   ⚠ Consider: %s\n", improvement)
	}
	fmt.Printf("   Completeness: %.0f%%\n", gaps.CompletenessScore*100)

	//==========================================================================
	// STEP 7: TEMPLATE INSTANTIATION
	//==========================================================================
	printStep(7, "Template Instantiation", "Planning a signup-form setup...")

	stop = startSpinner("   Planning...")
	plan, err := helper.InstantiateTemplate(ctx, "signup-form", genCtx)
	stop()
	if err != nil {
		yellow.Printf("   ⚠ Instantiation unavailable: %v\n", err)
	} else {
		green.Printf("   ✓ Workflow %s ready in about %s\n", plan.WorkflowID, plan.EstimatedSetupTime)
		for _, c := range plan.CustomizationsApplied {
			cyan.Printf("      • %s\n", c)
		}
		if len(plan.NextSteps) > 0 {
			fmt.Println()
			dim.Println("   Next steps:")
			for i, step := range plan.NextSteps {
				dim.Printf("      %d. %s\n", i+1, step)
			}
		}
	}

	//==========================================================================
	// COMPLETE
	//==========================================================================
	fmt.Println()
	bold.Println("═══════════════════════════════════════════════════════════════")
	green.Println("✅ PAGEWRIGHT DEMO COMPLETE")
	bold.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("   Total time: %.1fs\n", time.Since(startTime).Seconds())
	fmt.Println()
}

func printBanner() {
	cyan.Print(`
╔═══════════════════════════════════════════════════════════════╗
║                                                               ║
║                      P A G E W R I G H T                      ║
║                                                               ║
║         Deterministic Prompt-to-Component Intelligence        ║
║                                                               ║
╚═══════════════════════════════════════════════════════════════╝

`)
}

func printStep(num int, title, description string) {
	fmt.Println()
	bold.Printf("━━━ Step %d: %s ━━━\n", num, title)
	fmt.Printf("    %s\n", description)
}

// startSpinner animates until the returned stop function is called.
func startSpinner(description string) func() {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
	)

	done := make(chan bool)
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				bar.Add(1)
				time.Sleep(100 * time.Millisecond)
			}
		}
	}()

	return func() {
		close(done)
		bar.Finish()
	}
}

func describeEntities(e intelligence.PromptEntities) string {
	parts := []string{}
	if len(e.Colors) > 0 {
		parts = append(parts, "colors "+strings.Join(e.Colors, " "))
	}
	if len(e.Dimensions) > 0 {
		parts = append(parts, "dimensions "+strings.Join(e.Dimensions, " "))
	}
	if len(e.Animations) > 0 {
		parts = append(parts, "animations "+strings.Join(e.Animations, " "))
	}
	if len(e.Properties) > 0 {
		parts = append(parts, "properties "+strings.Join(e.Properties, " "))
	}
	return strings.Join(parts, "; ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
