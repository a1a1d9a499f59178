package selector

import (
	"sort"

	"github.com/uxbench/uxbench/internal/focus"
	"github.com/uxbench/uxbench/internal/page"
)

// distractionCutoff filters candidates a user would ignore outright.
// Filtering is deterministic: identical inputs always pick the same action.
const distractionCutoff = 0.7

// Choice is a selected action with the scores that led to it
type Choice struct {
	Candidate     page.ActionCandidate
	FocusPriority float64
	Combined      float64
	Forced        bool // chosen via the navigation fallback despite filtering
}

type scored struct {
	candidate page.ActionCandidate
	priority  float64
	combined  float64
	rate      float64
}

// Next picks the action a goal-directed user would take from the snapshot, or
// nil when there is nothing to act on at all.
func Next(snap *page.PageSnapshot, h focus.Hierarchy) *Choice {
	candidates := snap.Candidates()
	if len(candidates) == 0 {
		return nil
	}

	all := make([]scored, 0, len(candidates))
	survivors := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		s := scored{
			candidate: c,
			priority:  h.Priority(c),
			rate:      h.DistractionRate(c),
		}
		s.combined = c.Relevance * s.priority
		all = append(all, s)
		if s.rate < distractionCutoff {
			survivors = append(survivors, s)
		}
	}

	if len(survivors) == 0 {
		// A confused user retreats to navigation even through the noise
		return retreat(all)
	}

	sortByScore(survivors)
	if len(survivors) > h.AttentionCapacity {
		survivors = survivors[:h.AttentionCapacity]
	}

	top := survivors[0]
	return &Choice{
		Candidate:     top.candidate,
		FocusPriority: top.priority,
		Combined:      top.combined,
	}
}

// retreat handles the everything-filtered case: force through nav/header
// candidates, else fall back to the single most relevant candidate.
func retreat(all []scored) *Choice {
	var nav []scored
	for _, s := range all {
		if s.candidate.Area == page.AreaNavigation || s.candidate.Area == page.AreaHeader {
			nav = append(nav, s)
		}
	}
	if len(nav) > 0 {
		sortByScore(nav)
		return &Choice{
			Candidate:     nav[0].candidate,
			FocusPriority: nav[0].priority,
			Combined:      nav[0].combined,
			Forced:        true,
		}
	}

	best := all[0]
	for _, s := range all[1:] {
		if s.candidate.Relevance > best.candidate.Relevance {
			best = s
		}
	}
	return &Choice{
		Candidate:     best.candidate,
		FocusPriority: best.priority,
		Combined:      best.combined,
		Forced:        true,
	}
}

// sortByScore orders by combined score descending with a stable locator
// tiebreak so selection is reproducible.
func sortByScore(items []scored) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].combined != items[j].combined {
			return items[i].combined > items[j].combined
		}
		return items[i].candidate.Locator < items[j].candidate.Locator
	})
}
