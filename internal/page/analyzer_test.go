package page

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxbench/uxbench/internal/goal"
)

func testGoal(t *testing.T, text string) *goal.Goal {
	t.Helper()
	return goal.NewInterpreter(goal.DefaultThresholds()).Parse(text)
}

func TestClassifyArea_Cascade(t *testing.T) {
	raw := &RawSnapshot{PageWidth: 1200, PageHeight: 3000, ViewportH: 800}

	tests := []struct {
		name string
		el   RawElement
		want Area
	}{
		{
			name: "semantic nav wins over class hints",
			el:   RawElement{InNav: true, ClassAttr: "hero-button", Rect: Rect{Y: 2500}},
			want: AreaNavigation,
		},
		{
			name: "form container",
			el:   RawElement{InForm: true, Rect: Rect{Y: 1500}},
			want: AreaForms,
		},
		{
			name: "footer container",
			el:   RawElement{InFooter: true, Rect: Rect{Y: 100}},
			want: AreaFooter,
		},
		{
			name: "aside maps to sidebar",
			el:   RawElement{InAside: true},
			want: AreaSidebar,
		},
		{
			name: "hero class hint",
			el:   RawElement{ClassAttr: "hero-banner large", Rect: Rect{Y: 1500}},
			want: AreaHero,
		},
		{
			name: "cta id hint",
			el:   RawElement{IDAttr: "signup-cta", Rect: Rect{Y: 1500}},
			want: AreaCTA,
		},
		{
			name: "search class hint",
			el:   RawElement{ClassAttr: "search-box", Rect: Rect{Y: 1500}},
			want: AreaSearch,
		},
		{
			name: "large button reads as cta",
			el:   RawElement{Kind: ElementButton, Rect: Rect{Y: 1500, Width: 300, Height: 60}},
			want: AreaCTA,
		},
		{
			name: "small element at top is nav",
			el:   RawElement{Rect: Rect{Y: 10, Height: 30}},
			want: AreaNavigation,
		},
		{
			name: "tall element at top is hero",
			el:   RawElement{Rect: Rect{Y: 50, Height: 400}},
			want: AreaHero,
		},
		{
			name: "bottom fifth is footer",
			el:   RawElement{Rect: Rect{Y: 2700, Height: 30}},
			want: AreaFooter,
		},
		{
			name: "narrow outer column is sidebar",
			el:   RawElement{Rect: Rect{X: 50, Y: 1500, Width: 200, Height: 30}},
			want: AreaSidebar,
		},
		{
			name: "middle of the page is content",
			el:   RawElement{Rect: Rect{X: 400, Y: 1500, Width: 400, Height: 30}},
			want: AreaContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyArea(tt.el, raw))
		})
	}
}

func TestScoreRelevance(t *testing.T) {
	g := testGoal(t, "find pricing")

	t.Run("goal keyword adds 0.3", func(t *testing.T) {
		score := scoreRelevance("Cost", "", g)
		assert.InDelta(t, 0.3, score, 0.001)
	})

	t.Run("keyword in href counts", func(t *testing.T) {
		score := scoreRelevance("Plans", "/pricing", g)
		// "plans" synonym + "pricing" in href + "price" substring of pricing
		assert.Greater(t, score, 0.3)
	})

	t.Run("action word adds 0.2 once", func(t *testing.T) {
		score := scoreRelevance("Submit and continue", "", g)
		assert.InDelta(t, 0.2, score, 0.001)
	})

	t.Run("clamped to 1", func(t *testing.T) {
		score := scoreRelevance("pricing price cost plans rates fees submit", "/pricing", g)
		assert.LessOrEqual(t, score, 1.0)
	})

	t.Run("action word matches whole words only", func(t *testing.T) {
		score := scoreRelevance("category", "", g)
		assert.Equal(t, 0.0, score)
	})
}

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer()
	g := testGoal(t, "find pricing")

	raw := &RawSnapshot{
		URL:        "https://example.com",
		Title:      "Example",
		Text:       "Welcome to Example. See our pricing.",
		PageWidth:  1200,
		PageHeight: 2000,
		ViewportH:  800,
		HasCaptcha: true,
		Elements: []RawElement{
			{Kind: ElementLink, Text: "Pricing", Href: "/pricing", Locator: "a[href='/pricing']", Visible: true, InNav: true},
			{Kind: ElementButton, Text: "Hidden", Locator: "#hidden", Visible: false},
			{Kind: ElementInput, Text: "Search", Locator: "#q", Visible: true, ClassAttr: "search-input", Rect: Rect{Y: 1000}},
		},
	}

	snap := a.Analyze(raw, g)

	require.Len(t, snap.Links, 1)
	assert.Equal(t, AreaNavigation, snap.Links[0].Area)
	assert.Equal(t, ActionClick, snap.Links[0].Kind)
	assert.Greater(t, snap.Links[0].Relevance, 0.0)

	assert.Empty(t, snap.Buttons, "invisible elements are dropped")

	require.Len(t, snap.Inputs, 1)
	assert.Equal(t, ActionFill, snap.Inputs[0].Kind)
	assert.Equal(t, AreaSearch, snap.Inputs[0].Area)

	assert.Equal(t, []string{FrictionCaptcha}, snap.FrictionPoints)
	assert.Len(t, snap.Candidates(), 2)
}

func TestAnalyze_TruncatesPageText(t *testing.T) {
	a := NewAnalyzer()
	g := testGoal(t, "anything at all")

	raw := &RawSnapshot{Text: strings.Repeat("x", maxPageText+500)}
	snap := a.Analyze(raw, g)

	assert.Len(t, snap.Text, maxPageText)
}
