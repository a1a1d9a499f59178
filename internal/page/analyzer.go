package page

import (
	"strings"

	"github.com/uxbench/uxbench/internal/goal"
)

const maxPageText = 8000

// Friction-point strings are fixed so they deduplicate and compare across sites
const (
	FrictionModal   = "Modal dialog interrupting flow"
	FrictionError   = "Error message displayed"
	FrictionCaptcha = "CAPTCHA blocking progress"
)

// Analyzer turns raw browser extractions into scored PageSnapshots
type Analyzer struct{}

// NewAnalyzer creates a page analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze classifies every visible element into a page area, scores it
// against the goal and collects friction signals.
func (a *Analyzer) Analyze(raw *RawSnapshot, g *goal.Goal) *PageSnapshot {
	snap := &PageSnapshot{
		URL:   raw.URL,
		Title: raw.Title,
		Text:  truncate(raw.Text, maxPageText),
	}

	for _, el := range raw.Elements {
		if !el.Visible {
			continue
		}
		c := ActionCandidate{
			Label:   strings.TrimSpace(el.Text),
			Locator: el.Locator,
			Area:    classifyArea(el, raw),
			Text:    el.Text,
		}
		switch el.Kind {
		case ElementButton:
			c.Kind = ActionClick
			c.Relevance = scoreRelevance(el.Text, "", g)
			snap.Buttons = append(snap.Buttons, c)
		case ElementLink:
			c.Kind = ActionClick
			c.Text = el.Text + " " + el.Href
			c.Relevance = scoreRelevance(el.Text, el.Href, g)
			snap.Links = append(snap.Links, c)
		case ElementInput:
			c.Kind = ActionFill
			c.Relevance = scoreRelevance(el.Text, "", g)
			snap.Inputs = append(snap.Inputs, c)
		}
	}

	if raw.HasModal {
		snap.FrictionPoints = append(snap.FrictionPoints, FrictionModal)
	}
	if raw.HasError {
		snap.FrictionPoints = append(snap.FrictionPoints, FrictionError)
	}
	if raw.HasCaptcha {
		snap.FrictionPoints = append(snap.FrictionPoints, FrictionCaptcha)
	}

	return snap
}

var heroClassHints = []string{"hero", "banner", "jumbotron", "masthead", "splash"}
var ctaClassHints = []string{"cta", "call-to-action", "signup", "get-started", "subscribe", "buy", "trial"}
var searchClassHints = []string{"search", "query", "lookup"}

// classifyArea applies the priority cascade: semantic container first, then
// class/id keyword heuristics, then tag heuristics, then position.
func classifyArea(el RawElement, raw *RawSnapshot) Area {
	// 1. Semantic containers
	switch {
	case el.InNav:
		return AreaNavigation
	case el.InForm:
		return AreaForms
	case el.InFooter:
		return AreaFooter
	case el.InAside:
		return AreaSidebar
	case el.InHeader:
		return AreaHeader
	}

	// 2. Class/id keyword heuristics
	attrs := strings.ToLower(el.ClassAttr + " " + el.IDAttr)
	for _, hint := range searchClassHints {
		if strings.Contains(attrs, hint) {
			return AreaSearch
		}
	}
	for _, hint := range heroClassHints {
		if strings.Contains(attrs, hint) {
			return AreaHero
		}
	}
	for _, hint := range ctaClassHints {
		if strings.Contains(attrs, hint) {
			return AreaCTA
		}
	}

	// 3. Tag heuristics: oversized buttons read as calls to action
	if el.Kind == ElementButton && el.Rect.Width >= 200 && el.Rect.Height >= 44 {
		return AreaCTA
	}

	// 4. Positional fallback
	return classifyByPosition(el.Rect, raw)
}

func classifyByPosition(r Rect, raw *RawSnapshot) Area {
	pageH := raw.PageHeight
	if pageH <= 0 {
		return AreaContent
	}

	// Top of the first viewport: big elements read as hero, small as nav
	viewportH := raw.ViewportH
	if viewportH <= 0 {
		viewportH = 800
	}
	if r.Y < viewportH*0.3 {
		if r.Height >= 120 {
			return AreaHero
		}
		return AreaNavigation
	}

	if r.Y > pageH*0.8 {
		return AreaFooter
	}

	if raw.PageWidth > 0 {
		if r.X < raw.PageWidth*0.2 || r.X+r.Width > raw.PageWidth*0.8 {
			if r.Width < raw.PageWidth*0.35 {
				return AreaSidebar
			}
		}
	}

	return AreaContent
}

var actionWords = []string{
	"submit", "continue", "next", "start", "begin", "get", "buy",
	"checkout", "order", "add", "apply", "search", "go", "try",
}

// scoreRelevance computes lexical overlap with the goal plus an action-word
// bonus, clamped to [0,1].
func scoreRelevance(text, href string, g *goal.Goal) float64 {
	haystack := strings.ToLower(text + " " + href)
	score := 0.0

	for _, k := range g.Keywords {
		if strings.Contains(haystack, k) {
			score += 0.3
		}
	}

	for _, w := range actionWords {
		if containsWord(haystack, w) {
			score += 0.2
			break
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// containsWord matches whole words so "go" does not match "category"
func containsWord(s, w string) bool {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '/' || r == '-' || r == '_' || r == '.' || r == ','
	}) {
		if f == w {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
