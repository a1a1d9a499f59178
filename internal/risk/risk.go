package risk

import "math"

// Weights for converting terminal journey state into an abandonment-risk
// estimate. The score is a heuristic for relative comparison, not a
// probability.
const (
	patienceWeight    = 0.4
	frustrationWeight = 0.3
	confusionWeight   = 0.3
)

// AbandonmentRisk maps terminal journey state to a 0-100 risk estimate.
// A journey that reached its goal always scores 0.
func AbandonmentRisk(patience, frustration, confusion float64, goalAchieved bool) float64 {
	if goalAchieved {
		return 0
	}
	score := patienceWeight*(100-patience) + frustrationWeight*frustration + confusionWeight*confusion
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// Tier is the human-readable form of a risk score. Use the raw 0-100 value
// for sorting and ranking; tiers exist only for reporting.
type Tier struct {
	Level int    `json:"level"` // 1-10
	Label string `json:"label"`
}

var tierLabels = [10]string{
	"Very Low",
	"Very Low",
	"Low",
	"Low-Medium",
	"Medium",
	"Medium-High",
	"High",
	"High",
	"Very High",
	"Very High",
}

// TierFor maps a 0-100 risk score onto a 1-10 labeled tier via fixed decile
// boundaries; each boundary belongs to the lower tier (30 is still "Low").
func TierFor(score float64) Tier {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	level := int(math.Ceil(score / 10))
	if level < 1 {
		level = 1
	}
	return Tier{Level: level, Label: tierLabels[level-1]}
}
