package intelligence

// typeKeywords are indirect signals for each component type. Each hit is
// worth less than a direct type-token match so explicit prompts always win.
var typeKeywords = map[string][]string{
	TypeContainer:   {"wrapper", "box", "group", "panel", "card"},
	TypeButton:      {"cta", "click", "submit", "press", "checkout", "signup", "buy"},
	TypeForm:        {"input", "field", "contact", "email", "signup", "survey", "register"},
	TypeText:        {"heading", "title", "paragraph", "copy", "headline", "quote"},
	TypeImage:       {"photo", "picture", "banner", "logo", "gallery", "visual"},
	TypeSection:     {"hero", "header", "footer", "block", "area", "landing"},
	TypeInteractive: {"chat", "widget", "accordion", "countdown", "quiz", "calculator"},
}

// industryTerms map an industry to the adjectives its sites tend to ask
// for. Variant descriptions in the catalog are written so these can match.
var industryTerms = map[string][]string{
	"healthcare": {"trust", "calm", "clean"},
	"finance":    {"professional", "secure", "trust"},
	"ecommerce":  {"bold", "conversion", "urgency"},
	"education":  {"friendly", "clear", "engaging"},
	"technology": {"modern", "sleek", "minimal"},
	"realestate": {"elegant", "luxury", "spacious"},
}
