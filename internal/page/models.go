package page

// Area tags the page region an element belongs to
type Area string

const (
	AreaNavigation Area = "navigation"
	AreaHeader     Area = "header"
	AreaHero       Area = "hero"
	AreaForms      Area = "forms"
	AreaCTA        Area = "cta"
	AreaSearch     Area = "search"
	AreaContent    Area = "content"
	AreaSidebar    Area = "sidebar"
	AreaFooter     Area = "footer"
)

// ActionKind is the interaction a candidate supports
type ActionKind string

const (
	ActionClick  ActionKind = "click"
	ActionFill   ActionKind = "fill"
	ActionScroll ActionKind = "scroll"
)

// ActionCandidate is one interactive element a simulated user might act on.
// Candidates are derived fresh per step and never persisted across steps.
type ActionCandidate struct {
	Kind      ActionKind `json:"kind"`
	Label     string     `json:"label"`
	Locator   string     `json:"locator"`
	Relevance float64    `json:"relevance"` // lexical overlap with the goal, in [0,1]
	Area      Area       `json:"area"`
	Text      string     `json:"text"` // surrounding text / href for links
}

// PageSnapshot is a point-in-time structural extraction of a live page,
// produced and consumed within one simulation step.
type PageSnapshot struct {
	URL            string            `json:"url"`
	Title          string            `json:"title"`
	Text           string            `json:"text"` // truncated page text
	Buttons        []ActionCandidate `json:"buttons"`
	Links          []ActionCandidate `json:"links"`
	Inputs         []ActionCandidate `json:"inputs"`
	FrictionPoints []string          `json:"friction_points"`
}

// Candidates returns all action candidates in one slice, buttons first
func (s *PageSnapshot) Candidates() []ActionCandidate {
	out := make([]ActionCandidate, 0, len(s.Buttons)+len(s.Links)+len(s.Inputs))
	out = append(out, s.Buttons...)
	out = append(out, s.Links...)
	out = append(out, s.Inputs...)
	return out
}

// Rect is an element's bounding box in page coordinates
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ElementKind marks what the browser extracted the element as
type ElementKind string

const (
	ElementButton ElementKind = "button"
	ElementLink   ElementKind = "link"
	ElementInput  ElementKind = "input"
)

// RawElement is the validated form of one untyped DOM query result. The
// browser layer fills it; nothing downstream touches untyped DOM output.
type RawElement struct {
	Kind       ElementKind `json:"kind"`
	Tag        string      `json:"tag"`
	Text       string      `json:"text"`
	Href       string      `json:"href,omitempty"`
	Locator    string      `json:"locator"`
	ClassAttr  string      `json:"class"`
	IDAttr     string      `json:"id"`
	Visible    bool        `json:"visible"`
	Rect       Rect        `json:"rect"`
	InNav      bool        `json:"in_nav"`
	InHeader   bool        `json:"in_header"`
	InFooter   bool        `json:"in_footer"`
	InAside    bool        `json:"in_aside"`
	InForm     bool        `json:"in_form"`
}

// RawSnapshot is everything the browser layer extracts in one pass
type RawSnapshot struct {
	URL        string       `json:"url"`
	Title      string       `json:"title"`
	Text       string       `json:"text"`
	Elements   []RawElement `json:"elements"`
	HasModal   bool         `json:"has_modal"`
	HasError   bool         `json:"has_error"`
	HasCaptcha bool         `json:"has_captcha"`
	PageWidth  float64      `json:"page_width"`
	PageHeight float64      `json:"page_height"`
	ViewportH  float64      `json:"viewport_h"`
}
