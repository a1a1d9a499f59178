package benchmark

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/uxbench/uxbench/internal/journey"
	"github.com/uxbench/uxbench/internal/risk"
)

// Site is one benchmark target
type Site struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// DisplayName returns the site's name, falling back to its host
func (s Site) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if u, err := url.Parse(s.URL); err == nil && u.Host != "" {
		return u.Host
	}
	return s.URL
}

// Input configures one benchmark run
type Input struct {
	Sites          []Site        `json:"sites"`
	Goal           string        `json:"goal"`
	Persona        string        `json:"persona,omitempty"`
	MaxSteps       int           `json:"max_steps"`
	MaxTime        time.Duration `json:"max_time"`
	MaxConcurrency int           `json:"max_concurrency"`
	Headless       bool          `json:"headless"`
}

// ApplyDefaults fills zero-valued bounds with the standard ones
func (in *Input) ApplyDefaults() {
	if in.MaxSteps <= 0 {
		in.MaxSteps = 30
	}
	if in.MaxTime <= 0 {
		in.MaxTime = 180 * time.Second
	}
	if in.MaxConcurrency <= 0 {
		in.MaxConcurrency = 3
	}
}

// Validate rejects inputs that cannot produce a meaningful run. Called before
// any browser session opens.
func (in *Input) Validate() error {
	if len(in.Sites) == 0 {
		return fmt.Errorf("no sites to benchmark")
	}
	if strings.TrimSpace(in.Goal) == "" {
		return fmt.Errorf("goal must not be empty")
	}
	for _, s := range in.Sites {
		if strings.TrimSpace(s.URL) == "" {
			return fmt.Errorf("site with empty url")
		}
	}
	return nil
}

// SiteResult is the immutable terminal record of one site's journey
type SiteResult struct {
	Site           Site                   `json:"site"`
	GoalAchieved   bool                   `json:"goal_achieved"`
	AbandonReason  string                 `json:"abandon_reason,omitempty"`
	Duration       time.Duration          `json:"duration"`
	Steps          int                    `json:"steps"`
	FrictionPoints []string               `json:"friction_points"`
	Patience       float64                `json:"patience"`
	Frustration    float64                `json:"frustration"`
	Confusion      float64                `json:"confusion"`
	Risk           float64                `json:"risk"`
	RiskTier       risk.Tier              `json:"risk_tier"`
	Screenshots    []string               `json:"screenshots,omitempty"`
	FinalURL       string                 `json:"final_url,omitempty"`
	Actions        []journey.ActionRecord `json:"actions,omitempty"`
}

// Errored reports whether the site never produced a journey at all
func (r SiteResult) Errored() bool {
	return strings.HasPrefix(r.AbandonReason, "Error: ")
}

// RankedSite is one row of the cross-site ranking, best first
type RankedSite struct {
	Rank       int      `json:"rank"`
	Site       Site     `json:"site"`
	Score      float64  `json:"score"`
	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
}

// Comparison holds head-to-head facts across all sites
type Comparison struct {
	Fastest        string   `json:"fastest,omitempty"`
	Slowest        string   `json:"slowest,omitempty"`
	MostFriction   string   `json:"most_friction,omitempty"`
	LeastFriction  string   `json:"least_friction,omitempty"`
	HighestRisk    string   `json:"highest_risk,omitempty"`
	CommonFriction []string `json:"common_friction,omitempty"`
}

// Recommendation is an improvement suggestion for one non-winning site
type Recommendation struct {
	Site       string `json:"site"`
	Suggestion string `json:"suggestion"`
	Reference  string `json:"reference,omitempty"`
}

// Result is the full benchmark output consumed by reporting and the API
type Result struct {
	Goal            string           `json:"goal"`
	Persona         string           `json:"persona,omitempty"`
	Timestamp       time.Time        `json:"timestamp"`
	Duration        time.Duration    `json:"duration"`
	Sites           []SiteResult     `json:"sites"`
	Ranking         []RankedSite     `json:"ranking"`
	Comparison      Comparison       `json:"comparison"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Winner returns the top-ranked site name, or "" for an empty run
func (r *Result) Winner() string {
	if len(r.Ranking) == 0 {
		return ""
	}
	return r.Ranking[0].Site.DisplayName()
}
