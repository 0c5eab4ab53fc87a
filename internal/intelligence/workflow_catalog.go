package intelligence

import (
	"fmt"
	"strings"
)

// suggestionsForWorkflow assembles the playbook entries for a workflow
// type, phrasing reasoning for the given industry. Unknown workflow types
// still receive the universal suggestions.
func suggestionsForWorkflow(workflowType WorkflowType, industry string) []ComponentSuggestion {
	label := industryLabel(industry)

	var suggestions []ComponentSuggestion
	switch workflowType {
	case WorkflowLeadCapture:
		suggestions = leadCaptureSuggestions(label)
	case WorkflowCustomerSupport:
		suggestions = customerSupportSuggestions(label)
	case WorkflowEcommerce:
		suggestions = ecommerceSuggestions(label)
	case WorkflowBooking:
		suggestions = bookingSuggestions(label)
	case WorkflowNurturing:
		suggestions = nurturingSuggestions(label)
	}

	return append(suggestions, universalSuggestions(label)...)
}

func industryLabel(industry string) string {
	if trimmed := strings.TrimSpace(industry); trimmed != "" {
		return trimmed
	}
	return "your industry"
}

func leadCaptureSuggestions(industry string) []ComponentSuggestion {
	return []ComponentSuggestion{
		{
			ID:          "lead-capture-form",
			Type:        ComponentForm,
			Name:        "Lead Capture Form",
			Description: "Short form collecting a name and email in exchange for something valuable.",
			Reasoning:   fmt.Sprintf("Lead capture workflows convert on the form itself; %s visitors rarely return to hunt for one.", industry),
			Confidence:  0.95,
			WorkflowIntegration: WorkflowIntegration{
				Triggers:            []string{"form_submitted"},
				DataPoints:          []string{"email", "name", "source"},
				AutomationPotential: 0.9,
			},
			Implementation: Implementation{
				Complexity:    2,
				EstimatedTime: "30 minutes",
				RequiredProps: []string{"fields", "submitLabel"},
			},
			BusinessImpact: BusinessImpact{
				ConversionImpact: "Directly creates leads from anonymous traffic",
				UserExperience:   "One clear step with an obvious payoff",
				ROIPotential:     0.9,
			},
			ComponentConfig: ComponentConfig{
				DefaultProps:       map[string]any{"fields": []string{"name", "email"}, "submitLabel": "Get the Guide"},
				StylingOptions:     []string{"background", "border-radius", "box-shadow"},
				ResponsiveBehavior: "Fields stack vertically below tablet width",
			},
		},
		{
			ID:          "lead-cta-button",
			Type:        ComponentButton,
			Name:        "Call to Action Button",
			Description: "High-contrast button that routes visitors toward the capture form.",
			Reasoning:   fmt.Sprintf("A single prominent action outperforms scattered links for %s landing pages.", industry),
			Confidence:  0.9,
			WorkflowIntegration: WorkflowIntegration{
				Triggers:            []string{"button_clicked"},
				DataPoints:          []string{"click_source"},
				AutomationPotential: 0.6,
			},
			Implementation: Implementation{
				Complexity:    1,
				EstimatedTime: "15 minutes",
				RequiredProps: []string{"label", "action"},
			},
			BusinessImpact: BusinessImpact{
				ConversionImpact: "Moves undecided visitors into the funnel",
				UserExperience:   "Removes ambiguity about the next step",
				ROIPotential:     0.85,
			},
			ComponentConfig: ComponentConfig{
				DefaultProps:       map[string]any{"label": "Get Started", "action": "scroll-to-form"},
				StylingOptions:     []string{"background", "padding", "font-size"},
				ResponsiveBehavior: "Full width on phones, inline on larger screens",
			},
		},
		{
			ID:          "lead-social-proof",
			Type:        ComponentSection,
			Name:        "Social Proof Section",
			Description: "Logos, counts or quotes that show other people already said yes.",
			Reasoning:   fmt.Sprintf("Visitors hesitant to hand over an email convert better when %s peers vouch first.", industry),
			Confidence:  0.8,
			WorkflowIntegration: WorkflowIntegration{
				Triggers:            []string{"section_viewed"},
				DataPoints:          []string{"scroll_depth"},
				AutomationPotential: 0.3,
			},
			Implementation: Implementation{
				Complexity:    2,
				EstimatedTime: "45 minutes",
				RequiredProps: []string{"heading", "items"},
			},
			BusinessImpact: BusinessImpact{
				ConversionImpact: "Lifts form completion by reducing hesitation",
				UserExperience:   "Answers the trust question before it is asked",
				ROIPotential:     0.7,
			},
			ComponentConfig: ComponentConfig{
				DefaultProps:       map[string]any{"heading": "Trusted by teams like yours", "items": []string{}},
				StylingOptions:     []string{"background", "gap"},
				ResponsiveBehavior: "Grid collapses to a carousel on phones",
			},
		},
	}
}

func customerSupportSuggestions(industry string) []ComponentSuggestion {
	return []ComponentSuggestion{
		{
			ID:          "support-contact-form",
			Type:        ComponentForm,
			Name:        "Support Contact Form",
			Description: "Structured request form that captures the problem and how to reply.",
			Reasoning:   fmt.Sprintf("Support workflows need a reliable intake; %s customers abandon buried contact paths.", industry),
			Confidence:  0.9,
			WorkflowIntegration: WorkflowIntegration{
				Triggers:            []string{"form_submitted"},
				DataPoints:          []string{"email", "topic", "message"},
				AutomationPotential: 0.8,
			},
			Implementation: Implementation{
				Complexity:    2,
				EstimatedTime: "30 minutes",
				RequiredProps: []string{"fields", "submitLabel"},
			},
			BusinessImpact: BusinessImpact{
				ConversionImpact: "Turns frustration into tickets instead of churn",
				UserExperience:   "A clear path to a human when self-serve fails",
				ROIPotential:     0.75,
			},
			ComponentConfig: ComponentConfig{
				DefaultProps:       map[string]any{"fields": []string{"email", "topic", "message"}, "submitLabel": "Send Request"},
				StylingOptions:     []string{"background", "border-radius"},
				ResponsiveBehavior: "Single column at every breakpoint",
			},
		},
		{
			ID:          "support-faq-accordion",
			Type:        ComponentInteractive,
			Name:        "FAQ Accordion",
			Description: "Expandable answers to the questions the support inbox sees most.",
			Reasoning:   fmt.Sprintf("Most %s support volume repeats; an accordion deflects it before a ticket exists.", industry),
			Confidence:  0.85,
			WorkflowIntegration: WorkflowIntegration{
				Triggers:            []string{"faq_expanded"},
				DataPoints:          []string{"question_id"},
				AutomationPotential: 0.7,
			},
			Implementation: Implementation{
				Complexity:    2,
				EstimatedTime: "45 minutes",
				RequiredProps: []string{"items"},
			},
			BusinessImpact: BusinessImpact{
				ConversionImpact: "Cuts ticket volume for repeat questions",
				UserExperience:   "Immediate answers without waiting on a reply",
				ROIPotential:     0.8,
			},
			ComponentConfig: ComponentConfig{
				DefaultProps:       map[string]any{"items": []string{}},
				StylingOptions:     []string{"border", "border-radius"},
				ResponsiveBehavior: "Full width with larger touch targets on phones",
			},
		},
		{
			ID:          "support-response-notice",
			Type:        ComponentText,
			Name:        "Response Time Notice",
			Description: "One line stating when customers can expect a reply.",
			Reasoning:   fmt.Sprintf("Setting expectations up front prevents the second angry message common in %s support queues.", industry),
			Confidence:  0.75,
			WorkflowIntegration: WorkflowIntegration{
				Triggers:            []string{},
				DataPoints:          []string{},
				AutomationPotential: 0.1,
			},
			Implementation: Implementation{
				Complexity:    1,
				EstimatedTime: "10 minutes",
				RequiredProps: []string{"content"},
			},
			BusinessImpact: BusinessImpact{
				ConversionImpact: "Indirect, through retained goodwill",
				UserExperience:   "Reduces uncertainty while waiting",
				ROIPotential:     0.5,
			},
			ComponentConfig: ComponentConfig{
				DefaultProps:       map[string]any{"content": "We reply within one business day."},
				StylingOptions:     []string{"font-size", "color"},
				ResponsiveBehavior: "Wraps naturally at any width",
			},
		},
	}
}

func ecommerceSuggestions(industry string) []ComponentSuggestion {
	return []ComponentSuggestion{
		{
			ID:          "ecommerce-buy-button",
			Type:        ComponentButton,
			Name:        "Buy Now Button",
			Description: "The single most important click on a product page.",
			Reasoning:   fmt.Sprintf("Purchase intent decays fast; %s shoppers need the buy action visible without scrolling.", industry),
			Confidence:  0.92,
			WorkflowIntegration: WorkflowIntegration{
				Triggers:            []string{"button_clicked", "checkout_started"},
				DataPoints:          []string{"product_id", "price"},
				AutomationPotential: 0.9,
			},
			Implementation: Implementation{
				Complexity:    1,
				EstimatedTime: "15 minutes",
				RequiredProps: []string{"label", "action"},
			},
			BusinessImpact: BusinessImpact{
				ConversionImpact: "Directly starts checkout",
				UserExperience:   "No hunting for how to pay",
				ROIPotential:     0.95,
			},
			ComponentConfig: ComponentConfig{
				DefaultProps:       map[string]any{"label": "Buy Now", "action": "start-checkout"},
				StylingOptions:     []string{"background", "padding", "font-size"},
				ResponsiveBehavior: "Sticky above the fold on phones",
			},
		},
		{
			ID:          "ecommerce-showcase",
			Type:        ComponentSection,
			Name:        "Product Showcase Section",
			Description: "Hero treatment for the flagship product with price and benefits.",
			Reasoning:   fmt.Sprintf("A focused showcase outsells a wall of products for %s storefronts.", industry),
			Confidence:  0.9,
			WorkflowIntegration: WorkflowIntegration{
				Triggers:            []string{"section_viewed"},
				DataPoints:          []string{"product_id", "scroll_depth"},
				AutomationPotential: 0.4,
			},
			Implementation: Implementation{
				Complexity:    3,
				EstimatedTime: "1 hour",
				RequiredProps: []string{"heading", "cta"},
			},
			BusinessImpact: BusinessImpact{
				ConversionImpact: "Concentrates attention on the highest-margin item",
				UserExperience:   "A clear story instead of a catalog dump",
				ROIPotential:     0.85,
			},
			ComponentConfig: ComponentConfig{
				DefaultProps:       map[string]any{"heading": "", "cta": "Shop Now"},
				StylingOptions:     []string{"background", "padding", "text-align"},
				ResponsiveBehavior: "Image above copy on phones",
			},
		},
		{
			ID:          "ecommerce-gallery",
			Type:        ComponentImage,
			Name:        "Product Gallery",
			Description: "Multiple angles and detail shots buyers zoom into before committing.",
			Reasoning:   fmt.Sprintf("Online %s buyers substitute photos for touch; thin galleries read as hiding something.", industry),
			Confidence:  0.8,
			WorkflowIntegration: WorkflowIntegration{
				Triggers:            []string{"image_zoomed"},
				DataPoints:          []string{"image_index"},
				AutomationPotential: 0.2,
			},
			Implementation: Implementation{
				Complexity:    3,
				EstimatedTime: "1 hour",
				RequiredProps: []string{"src", "alt"},
			},
			BusinessImpact: BusinessImpact{
				ConversionImpact: "Raises confidence at the decision moment",
				UserExperience:   "Answers product questions visually",
				ROIPotential:     0.7,
			},
			ComponentConfig: ComponentConfig{
				DefaultProps:       map[string]any{"src": "", "alt": "", "fit": "cover"},
				StylingOptions:     []string{"border-radius", "gap"},
				ResponsiveBehavior: "Swipeable carousel on phones, grid on desktop",
			},
		},
	}
}

func bookingSuggestions(industry string) []ComponentSuggestion {
	return []ComponentSuggestion{
		{
			ID:          "booking-request-form",
			Type:        ComponentForm,
			Name:        "Booking Request Form",
			Description: "Collects the who, when and what of an appointment request.",
			Reasoning:   fmt.Sprintf("Booking workflows live or die on this form; %s clients expect to request a slot in one sitting.", industry),
			Confidence:  0.95,
			WorkflowIntegration: WorkflowIntegration{
				Triggers:            []string{"form_submitted", "booking_requested"},
				DataPoints:          []string{"name", "email", "date", "service"},
				AutomationPotential: 0.9,
			},
			Implementation: Implementation{
				Complexity:    2,
				EstimatedTime: "30 minutes",
				RequiredProps: []string{"fields", "submitLabel"},
			},
			BusinessImpact: BusinessImpact{
				ConversionImpact: "Turns interest into scheduled appointments",
				UserExperience:   "One form instead of phone tag",
				ROIPotential:     0.9,
			},
			ComponentConfig: ComponentConfig{
				DefaultProps:       map[string]any{"fields": []string{"name", "email", "date", "service"}, "submitLabel": "Request Booking"},
				StylingOptions:     []string{"background", "border-radius", "border"},
				ResponsiveBehavior: "Date picker expands full width on phones",
			},
		},
		{
			ID:          "booking-calendar",
			Type:        ComponentInteractive,
			Name:        "Availability Calendar",
			Description: "Live view of open slots so clients pick instead of guessing.",
			Reasoning:   fmt.Sprintf("Showing real availability cuts the back-and-forth that stalls %s bookings.", industry),
			Confidence:  0.85,
			WorkflowIntegration: WorkflowIntegration{
				Triggers:            []string{"slot_selected"},
				DataPoints:          []string{"slot_time", "service"},
				AutomationPotential: 0.85,
			},
			Implementation: Implementation{
				Complexity:    4,
				EstimatedTime: "2 hours",
				RequiredProps: []string{"kind", "target"},
			},
			BusinessImpact: BusinessImpact{
				ConversionImpact: "Removes the biggest booking friction point",
				UserExperience:   "Pick a slot, done",
				ROIPotential:     0.8,
			},
			ComponentConfig: ComponentConfig{
				DefaultProps:       map[string]any{"kind": "calendar"},
				StylingOptions:     []string{"border", "background"},
				ResponsiveBehavior: "Week view collapses to day view on phones",
			},
		},
		{
			ID:          "booking-services",
			Type:        ComponentSection,
			Name:        "Service Overview Section",
			Description: "What is offered, how long it takes and what it costs.",
			Reasoning:   fmt.Sprintf("Clients book faster when %s services and prices are stated before the form.", industry),
			Confidence:  0.78,
			WorkflowIntegration: WorkflowIntegration{
				Triggers:            []string{"section_viewed"},
				DataPoints:          []string{"service_viewed"},
				AutomationPotential: 0.3,
			},
			Implementation: Implementation{
				Complexity:    2,
				EstimatedTime: "45 minutes",
				RequiredProps: []string{"heading", "items"},
			},
			BusinessImpact: BusinessImpact{
				ConversionImpact: "Prequalifies requests and reduces no-shows",
				UserExperience:   "No surprises at the appointment",
				ROIPotential:     0.65,
			},
			ComponentConfig: ComponentConfig{
				DefaultProps:       map[string]any{"heading": "Services", "items": []string{}},
				StylingOptions:     []string{"background", "gap"},
				ResponsiveBehavior: "Cards stack vertically on phones",
			},
		},
	}
}

func nurturingSuggestions(industry string) []ComponentSuggestion {
	return []ComponentSuggestion{
		{
			ID:          "nurture-newsletter",
			Type:        ComponentForm,
			Name:        "Newsletter Signup Form",
			Description: "Low-commitment email capture for the long relationship.",
			Reasoning:   fmt.Sprintf("Nurturing needs a channel; a newsletter is the lightest ask for %s audiences not ready to buy.", industry),
			Confidence:  0.9,
			WorkflowIntegration: WorkflowIntegration{
				Triggers:            []string{"form_submitted"},
				DataPoints:          []string{"email"},
				AutomationPotential: 0.95,
			},
			Implementation: Implementation{
				Complexity:    1,
				EstimatedTime: "15 minutes",
				RequiredProps: []string{"fields", "submitLabel"},
			},
			BusinessImpact: BusinessImpact{
				ConversionImpact: "Builds the list future campaigns convert from",
				UserExperience:   "One field, no friction",
				ROIPotential:     0.8,
			},
			ComponentConfig: ComponentConfig{
				DefaultProps:       map[string]any{"fields": []string{"email"}, "submitLabel": "Subscribe"},
				StylingOptions:     []string{"background", "display", "gap"},
				ResponsiveBehavior: "Inline on desktop, stacked on phones",
			},
		},
		{
			ID:          "nurture-teaser",
			Type:        ComponentSection,
			Name:        "Content Teaser Section",
			Description: "Previews of the best content with links to the full pieces.",
			Reasoning:   fmt.Sprintf("Showing the quality of %s content before the ask raises signup intent.", industry),
			Confidence:  0.8,
			WorkflowIntegration: WorkflowIntegration{
				Triggers:            []string{"teaser_clicked"},
				DataPoints:          []string{"content_id"},
				AutomationPotential: 0.4,
			},
			Implementation: Implementation{
				Complexity:    2,
				EstimatedTime: "45 minutes",
				RequiredProps: []string{"heading", "items"},
			},
			BusinessImpact: BusinessImpact{
				ConversionImpact: "Demonstrates value before asking for the email",
				UserExperience:   "Useful even without subscribing",
				ROIPotential:     0.65,
			},
			ComponentConfig: ComponentConfig{
				DefaultProps:       map[string]any{"heading": "From the blog", "items": []string{}},
				StylingOptions:     []string{"background", "gap"},
				ResponsiveBehavior: "Three columns collapse to one on phones",
			},
		},
		{
			ID:          "nurture-progress",
			Type:        ComponentInteractive,
			Name:        "Progress Tracker",
			Description: "Shows subscribers how far through a course or series they are.",
			Reasoning:   fmt.Sprintf("Visible progress keeps %s subscribers opening the next installment.", industry),
			Confidence:  0.72,
			WorkflowIntegration: WorkflowIntegration{
				Triggers:            []string{"step_completed"},
				DataPoints:          []string{"step_index"},
				AutomationPotential: 0.6,
			},
			Implementation: Implementation{
				Complexity:    3,
				EstimatedTime: "1 hour",
				RequiredProps: []string{"kind", "items"},
			},
			BusinessImpact: BusinessImpact{
				ConversionImpact: "Indirect, through sustained engagement",
				UserExperience:   "A reason to come back tomorrow",
				ROIPotential:     0.55,
			},
			ComponentConfig: ComponentConfig{
				DefaultProps:       map[string]any{"kind": "progress", "items": []string{}},
				StylingOptions:     []string{"color", "background"},
				ResponsiveBehavior: "Compact bar on phones, labeled steps on desktop",
			},
		},
	}
}

func universalSuggestions(industry string) []ComponentSuggestion {
	return []ComponentSuggestion{
		{
			ID:          "universal-chat",
			Type:        ComponentInteractive,
			Name:        "Chat Assistant",
			Description: "Floating chat that answers questions wherever the visitor is.",
			Reasoning:   fmt.Sprintf("Every workflow leaks visitors with one unanswered question; chat catches them across %s sites.", industry),
			Confidence:  0.75,
			WorkflowIntegration: WorkflowIntegration{
				Triggers:            []string{"chat_opened", "message_sent"},
				DataPoints:          []string{"question", "page"},
				AutomationPotential: 0.8,
			},
			Implementation: Implementation{
				Complexity:    3,
				EstimatedTime: "1 hour",
				RequiredProps: []string{"kind", "greeting"},
			},
			BusinessImpact: BusinessImpact{
				ConversionImpact: "Recovers visitors who would bounce on doubt",
				UserExperience:   "Help without leaving the page",
				ROIPotential:     0.8,
			},
			ComponentConfig: ComponentConfig{
				DefaultProps:       map[string]any{"kind": "chat", "greeting": "How can we help?", "position": "bottom-right"},
				StylingOptions:     []string{"background", "border-radius"},
				ResponsiveBehavior: "Docks to the bottom edge on phones",
			},
		},
	}
}
