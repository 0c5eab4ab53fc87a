package intelligence

// PromptTemplate is a reusable prompt scaffold with named slots. Slots use
// {placeholder} syntax; filling them is the caller's concern.
type PromptTemplate struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Template  string   `json:"template"`
	Variables []string `json:"variables"`
}

const (
	TemplateCategoryComponents = "components"
	TemplateCategoryLayout     = "layout"
	TemplateCategorySections   = "sections"
)

// templateCategoryIntent aligns catalog categories with classified intents
// for match scoring.
var templateCategoryIntent = map[string]Intent{
	TemplateCategoryComponents: IntentStyle,
	TemplateCategoryLayout:     IntentLayout,
	TemplateCategorySections:   IntentComplex,
}

var promptTemplates = []PromptTemplate{
	{
		ID:        "hero-section",
		Name:      "Hero Section",
		Category:  TemplateCategorySections,
		Template:  "Create a hero section with the headline {headline}, supporting text {subtext} and a {cta} call to action",
		Variables: []string{"headline", "subtext", "cta"},
	},
	{
		ID:        "cta-button",
		Name:      "Call to Action Button",
		Category:  TemplateCategoryComponents,
		Template:  "Create a {color} button labeled {label} that triggers {action}",
		Variables: []string{"color", "label", "action"},
	},
	{
		ID:        "feature-grid",
		Name:      "Feature Grid",
		Category:  TemplateCategoryLayout,
		Template:  "Arrange {count} feature cards in a {columns}-column grid with even spacing",
		Variables: []string{"count", "columns"},
	},
	{
		ID:        "testimonial-block",
		Name:      "Testimonial Block",
		Category:  TemplateCategorySections,
		Template:  "Create a testimonial section quoting {name} from {company}",
		Variables: []string{"name", "company"},
	},
	{
		ID:        "signup-form",
		Name:      "Signup Form",
		Category:  TemplateCategoryComponents,
		Template:  "Create a signup form collecting {fields} with a {button} submit button",
		Variables: []string{"fields", "button"},
	},
	{
		ID:        "split-layout",
		Name:      "Split Layout",
		Category:  TemplateCategoryLayout,
		Template:  "Create a two-column layout with {left} on the left and {right} on the right",
		Variables: []string{"left", "right"},
	},
}

// PromptTemplates returns a copy of the built-in template catalog.
func PromptTemplates() []PromptTemplate {
	out := make([]PromptTemplate, len(promptTemplates))
	copy(out, promptTemplates)
	return out
}

// PromptTemplateByID finds a catalog template by id.
func PromptTemplateByID(id string) (PromptTemplate, bool) {
	for _, tpl := range promptTemplates {
		if tpl.ID == id {
			return tpl, true
		}
	}
	return PromptTemplate{}, false
}
