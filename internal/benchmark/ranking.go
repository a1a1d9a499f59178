package benchmark

import (
	"fmt"
	"sort"
)

// compositeScore folds one site's journey into a single comparable number.
// Goal achievement dominates; time, step count and friction refine the order.
func compositeScore(r SiteResult) float64 {
	score := 0.0
	if r.GoalAchieved {
		score += 50
	}
	score += max(0, 30-r.Duration.Seconds()/2)
	score += max(0, 10-float64(r.Steps))
	score += max(0, 10-2*float64(len(r.FrictionPoints)))
	return score
}

// averages are computed over sites that actually completed a journey, so a
// site that errored out does not drag every other site's metrics down.
type averages struct {
	seconds  float64
	steps    float64
	friction float64
}

func computeAverages(results []SiteResult) averages {
	var avg averages
	n := 0
	for _, r := range results {
		if r.Errored() {
			continue
		}
		avg.seconds += r.Duration.Seconds()
		avg.steps += float64(r.Steps)
		avg.friction += float64(len(r.FrictionPoints))
		n++
	}
	if n > 0 {
		avg.seconds /= float64(n)
		avg.steps /= float64(n)
		avg.friction /= float64(n)
	}
	return avg
}

// assessment marks how one site compares against the cross-site averages,
// using a 20% band around the mean.
type assessment struct {
	failed       bool
	fast, slow   bool
	fewSteps     bool
	manySteps    bool
	lowFriction  bool
	highFriction bool
}

func assess(r SiteResult, avg averages) assessment {
	a := assessment{failed: !r.GoalAchieved}
	if r.Errored() {
		return a
	}
	secs := r.Duration.Seconds()
	steps := float64(r.Steps)
	fric := float64(len(r.FrictionPoints))

	a.fast = secs < avg.seconds*0.8
	a.slow = secs > avg.seconds*1.2
	a.fewSteps = steps < avg.steps*0.8
	a.manySteps = steps > avg.steps*1.2
	a.lowFriction = fric < avg.friction*0.8
	a.highFriction = fric > avg.friction*1.2
	return a
}

func describe(r SiteResult, a assessment) (strengths, weaknesses []string) {
	if r.GoalAchieved {
		strengths = append(strengths, fmt.Sprintf("reached the goal in %d steps", r.Steps))
	} else {
		weaknesses = append(weaknesses, "visitor abandoned: "+r.AbandonReason)
	}
	if a.fast {
		strengths = append(strengths, fmt.Sprintf("faster than average (%.1fs)", r.Duration.Seconds()))
	}
	if a.slow {
		weaknesses = append(weaknesses, fmt.Sprintf("slower than average (%.1fs)", r.Duration.Seconds()))
	}
	if a.fewSteps {
		strengths = append(strengths, fmt.Sprintf("fewer steps than average (%d)", r.Steps))
	}
	if a.manySteps {
		weaknesses = append(weaknesses, fmt.Sprintf("more steps than average (%d)", r.Steps))
	}
	if a.lowFriction {
		strengths = append(strengths, fmt.Sprintf("little friction (%d points)", len(r.FrictionPoints)))
	}
	if a.highFriction {
		weaknesses = append(weaknesses, fmt.Sprintf("high friction (%d points)", len(r.FrictionPoints)))
	}
	return strengths, weaknesses
}

// Rank orders sites by composite score, best first, annotating each entry
// with qualitative strengths and weaknesses. Ties break on site name so the
// ranking is reproducible.
func Rank(results []SiteResult) []RankedSite {
	avg := computeAverages(results)

	ranked := make([]RankedSite, 0, len(results))
	for _, r := range results {
		s, w := describe(r, assess(r, avg))
		ranked = append(ranked, RankedSite{
			Site:       r.Site,
			Score:      compositeScore(r),
			Strengths:  s,
			Weaknesses: w,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Site.DisplayName() < ranked[j].Site.DisplayName()
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// Compare derives head-to-head facts across all site results
func Compare(results []SiteResult) Comparison {
	var c Comparison
	if len(results) == 0 {
		return c
	}

	var fastest, slowest, most, least, riskiest *SiteResult
	for i := range results {
		r := &results[i]
		if r.Risk > valueOr(riskiest, func(x *SiteResult) float64 { return x.Risk }, -1) {
			riskiest = r
		}
		if r.Errored() {
			continue
		}
		if fastest == nil || r.Duration < fastest.Duration {
			fastest = r
		}
		if slowest == nil || r.Duration > slowest.Duration {
			slowest = r
		}
		if most == nil || len(r.FrictionPoints) > len(most.FrictionPoints) {
			most = r
		}
		if least == nil || len(r.FrictionPoints) < len(least.FrictionPoints) {
			least = r
		}
	}

	if fastest != nil {
		c.Fastest = fastest.Site.DisplayName()
		c.Slowest = slowest.Site.DisplayName()
		c.MostFriction = most.Site.DisplayName()
		c.LeastFriction = least.Site.DisplayName()
	}
	if riskiest != nil {
		c.HighestRisk = riskiest.Site.DisplayName()
	}
	c.CommonFriction = commonFriction(results)
	return c
}

func valueOr(r *SiteResult, f func(*SiteResult) float64, fallback float64) float64 {
	if r == nil {
		return fallback
	}
	return f(r)
}

// commonFriction returns friction points seen on at least half the sites
func commonFriction(results []SiteResult) []string {
	if len(results) < 2 {
		return nil
	}
	counts := map[string]int{}
	for _, r := range results {
		for _, p := range r.FrictionPoints {
			counts[p]++
		}
	}
	var common []string
	for p, n := range counts {
		if n*2 >= len(results) {
			common = append(common, p)
		}
	}
	sort.Strings(common)
	return common
}

// Recommend turns every non-winning site's weaknesses into improvement
// suggestions, citing the best performer as the reference point.
func Recommend(ranking []RankedSite, results []SiteResult) []Recommendation {
	if len(ranking) < 2 {
		return nil
	}

	byURL := make(map[string]SiteResult, len(results))
	for _, r := range results {
		byURL[r.Site.URL] = r
	}
	avg := computeAverages(results)
	best := byURL[ranking[0].Site.URL]
	bestName := best.Site.DisplayName()

	var recs []Recommendation
	for _, entry := range ranking[1:] {
		r := byURL[entry.Site.URL]
		a := assess(r, avg)
		name := r.Site.DisplayName()

		if a.failed {
			rec := Recommendation{
				Site:       name,
				Suggestion: "Make the goal reachable from the landing page; the visitor abandoned (" + r.AbandonReason + ")",
			}
			if best.GoalAchieved {
				rec.Reference = fmt.Sprintf("%s reached the goal in %d steps", bestName, best.Steps)
			}
			recs = append(recs, rec)
		}
		if a.slow {
			recs = append(recs, Recommendation{
				Site:       name,
				Suggestion: fmt.Sprintf("Reduce time to goal (currently %.1fs)", r.Duration.Seconds()),
				Reference:  fmt.Sprintf("%s finished in %.1fs", bestName, best.Duration.Seconds()),
			})
		}
		if a.manySteps {
			recs = append(recs, Recommendation{
				Site:       name,
				Suggestion: fmt.Sprintf("Shorten the click path (currently %d steps)", r.Steps),
				Reference:  fmt.Sprintf("%s needed %d steps", bestName, best.Steps),
			})
		}
		if a.highFriction {
			recs = append(recs, Recommendation{
				Site:       name,
				Suggestion: fmt.Sprintf("Remove interruptive elements such as modals and popups (%d friction points)", len(r.FrictionPoints)),
				Reference:  fmt.Sprintf("%s had %d friction points", bestName, len(best.FrictionPoints)),
			})
		}
	}
	return recs
}
