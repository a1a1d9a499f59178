package journey

// Abandonment reasons, attributed to the first threshold that trips
const (
	ReasonConfusedAndLost = "confused and lost"
	ReasonTooManyFailures = "too many failed interactions"
	ReasonOutOfPatience   = "ran out of patience"
	ReasonTimeLimit       = "time limit exceeded"
	ReasonStepLimit       = "step limit reached"
)

// State is the mutable core of one simulated journey. Patience drains from
// 100 toward 0; frustration and confusion grow from 0 toward 100. All three
// are clamped to [0,100] after every mutation.
type State struct {
	Patience    float64 `json:"patience"`
	Frustration float64 `json:"frustration"`
	Confusion   float64 `json:"confusion"`
	Steps       int     `json:"steps"`

	FrictionPoints []string `json:"friction_points"`
	seen           map[string]bool
}

// NewState creates the initial state of a journey
func NewState() *State {
	return &State{
		Patience: 100,
		seen:     make(map[string]bool),
	}
}

// RecordFriction adds any friction points not seen before in this journey
// and applies their toll. Returns how many were new.
func (s *State) RecordFriction(points []string) int {
	added := 0
	for _, p := range points {
		if s.seen[p] {
			continue
		}
		s.seen[p] = true
		s.FrictionPoints = append(s.FrictionPoints, p)
		s.Patience -= 5
		s.Frustration += 3
		added++
	}
	s.clamp()
	return added
}

// NoActionFound applies the cost of scanning a page and finding nothing to
// do. Returns the abandonment reason, or "" to scroll and retry.
func (s *State) NoActionFound() string {
	s.Confusion += 10
	s.Patience -= 5
	s.clamp()
	if s.Patience <= 20 || s.Confusion >= 70 {
		return ReasonConfusedAndLost
	}
	return ""
}

// ActionFailed records a failed interaction. Returns the abandonment reason
// or "" to continue.
func (s *State) ActionFailed(frictionPoint string) string {
	if !s.seen[frictionPoint] {
		s.seen[frictionPoint] = true
		s.FrictionPoints = append(s.FrictionPoints, frictionPoint)
	}
	s.Frustration += 5
	s.Patience -= 10
	s.clamp()
	if s.Patience <= 10 {
		return ReasonTooManyFailures
	}
	return ""
}

// ActionSucceeded applies the small recovery nudge of forward progress
func (s *State) ActionSucceeded() {
	s.Patience += 2
	s.clamp()
}

// Exhausted reports whether patience has fully drained
func (s *State) Exhausted() bool {
	return s.Patience <= 0
}

func (s *State) clamp() {
	s.Patience = clamp01to100(s.Patience)
	s.Frustration = clamp01to100(s.Frustration)
	s.Confusion = clamp01to100(s.Confusion)
}

func clamp01to100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
