package goal

import (
	"strings"
)

// TaskType categorizes what kind of journey a goal implies
type TaskType string

const (
	TaskTransactional TaskType = "transactional"
	TaskInformational TaskType = "informational"
	TaskExploratory   TaskType = "exploratory"
)

// Thresholds holds the tunable constants for goal matching.
// Carried as configuration rather than hard-coded; see DESIGN.md.
type Thresholds struct {
	Coverage    float64 `json:"coverage"`     // min fraction of subject concepts found in text
	URLCoverage float64 `json:"url_coverage"` // lower bar when a keyword matches the URL
	MinMentions int     `json:"min_mentions"` // min total keyword occurrences across the page
}

// DefaultThresholds returns the standard goal-matching thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		Coverage:    0.5,
		URLCoverage: 0.4,
		MinMentions: 3,
	}
}

// Goal is a parsed user goal: the raw text plus derived task type and keywords
type Goal struct {
	Text     string   `json:"text"`
	TaskType TaskType `json:"task_type"`
	Keywords []string `json:"keywords"` // expanded through synonyms, sorted insertion order
}

// HasKeyword reports whether word is in the expanded keyword set
func (g *Goal) HasKeyword(word string) bool {
	for _, k := range g.Keywords {
		if k == word {
			return true
		}
	}
	return false
}

// Interpreter derives keywords from free-text goals and decides goal completion
type Interpreter struct {
	thresholds Thresholds
	synonyms   map[string][]string
}

// NewInterpreter creates a goal interpreter with the given thresholds
func NewInterpreter(thresholds Thresholds) *Interpreter {
	return &Interpreter{
		thresholds: thresholds,
		synonyms:   defaultSynonyms(),
	}
}

// Parse builds a Goal from free text
func (i *Interpreter) Parse(text string) *Goal {
	keywords := i.ExpandSynonyms(ExtractKeywords(text))
	return &Goal{
		Text:     text,
		TaskType: InferTaskType(text),
		Keywords: keywords,
	}
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"that": true, "this": true, "are": true, "was": true, "you": true,
	"your": true, "our": true, "can": true, "how": true, "what": true,
	"where": true, "about": true, "into": true, "out": true, "all": true,
	"than": true, "then": true, "them": true, "have": true, "has": true,
	"will": true, "would": true, "there": true, "their": true, "its": true,
}

// ExtractKeywords lowercases, splits on whitespace and drops stop-words
// and words of two characters or fewer.
func ExtractKeywords(text string) []string {
	var words []string
	seen := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:\"'()[]")
		if len(w) <= 2 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words
}

// ExpandSynonyms performs closure expansion over the synonym table: a keyword
// that is a concept key pulls in its synonyms, and a keyword that appears
// inside another concept's synonym list pulls in that concept and its full
// synonym set. Expansion runs both directions, not one-way lookup.
func (i *Interpreter) ExpandSynonyms(words []string) []string {
	out := make([]string, 0, len(words)*2)
	seen := make(map[string]bool)
	add := func(w string) {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}

	for _, w := range words {
		add(w)

		// Forward: the word is itself a concept key
		if syns, ok := i.synonyms[w]; ok {
			for _, s := range syns {
				add(s)
			}
		}

		// Reverse: the word appears inside another concept's synonym list
		for concept, syns := range i.synonyms {
			for _, s := range syns {
				if s == w {
					add(concept)
					for _, cs := range syns {
						add(cs)
					}
					break
				}
			}
		}
	}
	return out
}

var transactionalVerbs = []string{
	"buy", "purchase", "order", "checkout", "book", "subscribe",
	"register", "signup", "sign", "pay", "apply", "enroll", "download",
	"login", "log",
}

var informationalVerbs = []string{
	"find", "search", "locate", "learn", "read", "compare", "check",
	"look", "view", "see", "research", "understand",
}

// InferTaskType classifies a goal as transactional, informational or exploratory
func InferTaskType(text string) TaskType {
	lower := strings.ToLower(text)
	for _, v := range transactionalVerbs {
		if strings.Contains(lower, v) {
			return TaskTransactional
		}
	}
	for _, v := range informationalVerbs {
		if strings.Contains(lower, v) {
			return TaskInformational
		}
	}
	return TaskExploratory
}

var actionVerbs = map[string]bool{
	"find": true, "search": true, "locate": true, "get": true,
	"look": true, "browse": true, "check": true, "view": true,
	"see": true, "read": true, "visit": true, "open": true,
	"discover": true, "learn": true, "navigate": true, "explore": true,
	"sign": true, "log": true,
}

// completionPattern maps a goal phrasing to page-state markers that indicate
// the corresponding journey is done.
type completionPattern struct {
	goalTerms []string
	textMarks []string
	urlMarks  []string
}

var completionPatterns = []completionPattern{
	{
		goalTerms: []string{"sign up", "signup", "register", "create account", "newsletter"},
		textMarks: []string{"welcome", "thank you for signing up", "check your email", "verify your email", "account created", "subscribed"},
		urlMarks:  []string{"welcome", "confirm", "verify", "dashboard", "thank"},
	},
	{
		goalTerms: []string{"log in", "login", "sign in", "signin"},
		textMarks: []string{"welcome back", "sign out", "log out", "logout", "my account"},
		urlMarks:  []string{"dashboard", "account", "home"},
	},
	{
		goalTerms: []string{"buy", "purchase", "checkout", "order"},
		textMarks: []string{"order confirmed", "thank you for your order", "order number", "payment successful", "receipt"},
		urlMarks:  []string{"confirmation", "success", "thank", "receipt"},
	},
}

// IsGoalReached decides whether the page state satisfies the goal. Domain
// action-completion patterns are checked first; otherwise concept coverage
// over synonym-expanded keywords decides, with a lower coverage bar when an
// expanded keyword appears in the URL.
func (i *Interpreter) IsGoalReached(pageText, pageURL string, g *Goal) bool {
	text := strings.ToLower(pageText)
	url := strings.ToLower(pageURL)
	goalLower := strings.ToLower(g.Text)

	for _, p := range completionPatterns {
		matched := false
		for _, t := range p.goalTerms {
			if strings.Contains(goalLower, t) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		for _, m := range p.textMarks {
			if strings.Contains(text, m) {
				return true
			}
		}
		for _, m := range p.urlMarks {
			if strings.Contains(url, m) {
				return true
			}
		}
		// An action goal with no completion markers is not satisfied by
		// keyword presence alone.
		return false
	}

	return i.conceptCoverageReached(text, url, g)
}

// conceptCoverageReached applies the coverage + mention-count heuristic
func (i *Interpreter) conceptCoverageReached(text, url string, g *Goal) bool {
	subjects := subjectConcepts(g.Text)
	if len(subjects) == 0 {
		// Goal-parsing ambiguity: nothing left after verb stripping, fall
		// back to URL substring matching.
		for _, k := range g.Keywords {
			if strings.Contains(url, k) {
				return true
			}
		}
		return false
	}

	found := 0
	for _, concept := range subjects {
		for _, syn := range i.ExpandSynonyms([]string{concept}) {
			if strings.Contains(text, syn) {
				found++
				break
			}
		}
	}
	coverage := float64(found) / float64(len(subjects))

	mentions := 0
	for _, k := range g.Keywords {
		mentions += strings.Count(text, k)
	}

	if coverage >= i.thresholds.Coverage && mentions >= i.thresholds.MinMentions {
		return true
	}

	// URL match is a stronger signal and requires a lower text threshold
	for _, k := range g.Keywords {
		if strings.Contains(url, k) && coverage >= i.thresholds.URLCoverage {
			return true
		}
	}

	return false
}

// subjectConcepts strips action verbs from the goal keywords, leaving the
// concepts the user is actually after.
func subjectConcepts(text string) []string {
	var subjects []string
	for _, w := range ExtractKeywords(text) {
		if !actionVerbs[w] {
			subjects = append(subjects, w)
		}
	}
	return subjects
}
