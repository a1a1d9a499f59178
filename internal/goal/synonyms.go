package goal

// defaultSynonyms is the concept table used for closure expansion. Keys are
// concepts; values are terms a site might use for the same thing.
func defaultSynonyms() map[string][]string {
	return map[string][]string{
		"pricing": {
			"price", "prices", "cost", "costs", "plans", "rates", "fees",
		},
		"contact": {
			"support", "help", "reach", "email", "phone", "call",
		},
		"signup": {
			"register", "join", "subscribe", "enroll", "create",
		},
		"login": {
			"signin", "account", "portal",
		},
		"buy": {
			"purchase", "order", "shop", "cart", "checkout",
		},
		"requirements": {
			"eligibility", "criteria", "qualifications", "prerequisites",
		},
		"documentation": {
			"docs", "guide", "guides", "manual", "tutorial", "reference",
		},
		"download": {
			"install", "installer", "setup",
		},
		"shipping": {
			"delivery", "freight", "dispatch",
		},
		"refund": {
			"return", "returns", "reimbursement", "cancellation",
		},
		"newsletter": {
			"mailing", "updates", "digest",
		},
		"careers": {
			"jobs", "hiring", "vacancies", "positions", "openings",
		},
		"features": {
			"capabilities", "functionality", "benefits",
		},
		"demo": {
			"trial", "preview", "sandbox",
		},
		"about": {
			"company", "team", "mission", "story",
		},
	}
}
