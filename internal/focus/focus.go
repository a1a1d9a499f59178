package focus

import (
	"strings"

	"github.com/uxbench/uxbench/internal/goal"
	"github.com/uxbench/uxbench/internal/page"
)

// DistractionFilter matches common page noise with a probability that a
// goal-directed user ignores it.
type DistractionFilter struct {
	Pattern    string  // substring matched against candidate label text
	IgnoreRate float64 // in [0,1]
}

// Hierarchy describes which page areas a human pursuing a task type attends
// to, how many options they would even scan, and which noise they filter out.
type Hierarchy struct {
	TaskType          goal.TaskType
	AreaPriorities    map[page.Area]float64
	AttentionCapacity int
	Distractions      []DistractionFilter
}

var commonDistractions = []DistractionFilter{
	{Pattern: "newsletter popup", IgnoreRate: 0.9},
	{Pattern: "cookie", IgnoreRate: 0.8},
	{Pattern: "advertisement", IgnoreRate: 0.9},
	{Pattern: "sponsored", IgnoreRate: 0.85},
	{Pattern: "follow us", IgnoreRate: 0.8},
	{Pattern: "promo", IgnoreRate: 0.75},
	{Pattern: "sale", IgnoreRate: 0.7},
	{Pattern: "discount", IgnoreRate: 0.7},
	{Pattern: "download our app", IgnoreRate: 0.85},
}

var hierarchies = map[goal.TaskType]Hierarchy{
	goal.TaskInformational: {
		TaskType: goal.TaskInformational,
		AreaPriorities: map[page.Area]float64{
			page.AreaNavigation: 1.5,
			page.AreaContent:    1.3,
			page.AreaHeader:     1.2,
			page.AreaSearch:     1.4,
			page.AreaHero:       1.0,
			page.AreaFooter:     0.8,
			page.AreaSidebar:    0.7,
			page.AreaCTA:        0.6,
			page.AreaForms:      0.5,
		},
		AttentionCapacity: 7,
		Distractions:      commonDistractions,
	},
	goal.TaskTransactional: {
		TaskType: goal.TaskTransactional,
		AreaPriorities: map[page.Area]float64{
			page.AreaCTA:        1.6,
			page.AreaForms:      1.5,
			page.AreaHero:       1.3,
			page.AreaNavigation: 1.1,
			page.AreaHeader:     1.0,
			page.AreaContent:    0.9,
			page.AreaSearch:     0.8,
			page.AreaFooter:     0.5,
			page.AreaSidebar:    0.5,
		},
		AttentionCapacity: 5,
		Distractions:      commonDistractions,
	},
	goal.TaskExploratory: {
		TaskType: goal.TaskExploratory,
		AreaPriorities: map[page.Area]float64{
			page.AreaHero:       1.4,
			page.AreaNavigation: 1.3,
			page.AreaContent:    1.2,
			page.AreaCTA:        1.0,
			page.AreaHeader:     1.0,
			page.AreaSearch:     0.9,
			page.AreaSidebar:    0.8,
			page.AreaForms:      0.7,
			page.AreaFooter:     0.7,
		},
		AttentionCapacity: 9,
		Distractions:      commonDistractions,
	},
}

// ForTaskType returns the attention model for a task type. Unknown task
// types get the exploratory model.
func ForTaskType(t goal.TaskType) Hierarchy {
	if h, ok := hierarchies[t]; ok {
		return h
	}
	return hierarchies[goal.TaskExploratory]
}

// Priority maps a candidate's area to its attention weight, boosted when the
// candidate is already goal-relevant.
func (h Hierarchy) Priority(c page.ActionCandidate) float64 {
	w, ok := h.AreaPriorities[c.Area]
	if !ok {
		w = 0.5
	}
	if c.Relevance >= 0.3 {
		w *= 1.5
	}
	return w
}

// DistractionRate returns the probability a user ignores this candidate as
// noise, 0 when no filter matches.
func (h Hierarchy) DistractionRate(c page.ActionCandidate) float64 {
	label := strings.ToLower(c.Label + " " + c.Text)
	rate := 0.0
	for _, f := range h.Distractions {
		if strings.Contains(label, f.Pattern) && f.IgnoreRate > rate {
			rate = f.IgnoreRate
		}
	}
	return rate
}
